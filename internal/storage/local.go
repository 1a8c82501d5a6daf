// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"aicms/internal/apperr"
)

// maxNameAttempts bounds the de-duplication suffix search.
const maxNameAttempts = 10000

// Local stores files in a directory on the local filesystem.
type Local struct {
	dir       string
	urlPrefix string
}

// NewLocal creates a Local provider rooted at dir, creating the directory
// if needed. Files are served under urlPrefix (e.g. "/uploads").
func NewLocal(dir, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &apperr.StorageError{Op: "create upload dir", Err: err}
	}
	return &Local{dir: filepath.Clean(dir), urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Save writes data under the upload directory. When the name is taken the
// file is stored as name-1.ext, name-2.ext, and so on.
func (l *Local) Save(_ context.Context, data []byte, filename, mimeType string) (*FileMetadata, error) {
	name := sanitizeFilename(filename)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	var (
		f    *os.File
		full string
		err  error
	)
	for i := 0; i < maxNameAttempts; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
		}
		full = filepath.Join(l.dir, candidate)
		// O_EXCL makes the existence check and the create one step.
		f, err = os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			name = candidate
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, &apperr.StorageError{Op: "create file", Err: err}
		}
	}
	if f == nil {
		return nil, &apperr.StorageError{Op: "create file", Err: fmt.Errorf("no free name for %q", filename)}
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(full)
		return nil, &apperr.StorageError{Op: "write file", Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return nil, &apperr.StorageError{Op: "close file", Err: err}
	}

	info, err := os.Stat(full)
	if err != nil {
		return nil, &apperr.StorageError{Op: "stat file", Err: err}
	}

	meta := &FileMetadata{
		Path:     filepath.ToSlash(full),
		Filename: name,
		Size:     info.Size(),
		Type:     mimeType,
	}
	probe(meta, data)
	return meta, nil
}

// Delete removes the file. Missing files are ignored.
func (l *Local) Delete(_ context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &apperr.StorageError{Op: "delete file", Err: err}
	}
	return nil
}

// URL returns urlPrefix joined with the stored file name.
func (l *Local) URL(path string) string {
	return l.urlPrefix + "/" + filepath.Base(filepath.FromSlash(path))
}

// resolve maps a stored path back to a file inside the upload directory.
func (l *Local) resolve(path string) (string, error) {
	full := filepath.Clean(filepath.FromSlash(path))
	rel, err := filepath.Rel(l.dir, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", &apperr.StorageError{Op: "delete file", Err: fmt.Errorf("path %q is outside the upload directory", path)}
	}
	return full, nil
}

// sanitizeFilename keeps the base name and replaces characters that are
// awkward in URLs or on common filesystems.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, name)
	name = strings.TrimLeft(name, ".")
	if name == "" {
		name = "file"
	}
	return name
}
