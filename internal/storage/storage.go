// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage persists uploaded file bytes. Two providers are
// available: a local filesystem provider and an S3-compatible object
// storage provider. Both probe image dimensions on save and treat deleting
// an already-missing file as success.
package storage

import (
	"context"

	"aicms/internal/imaging"
	"aicms/internal/models"
)

// FileMetadata describes a file after it has been persisted.
type FileMetadata struct {
	Path     string // provider-specific location, passed back to Delete
	Filename string // final (possibly de-duplicated) file name
	Size     int64
	Type     string // MIME type
	Width    *int   // set for images whose dimensions could be read
	Height   *int
}

// Provider stores and removes file bytes.
type Provider interface {
	// Save persists data and returns where it went.
	Save(ctx context.Context, data []byte, filename, mimeType string) (*FileMetadata, error)
	// Delete removes the file at path. A missing file is not an error.
	Delete(ctx context.Context, path string) error
	// URL returns the public URL for a stored path.
	URL(path string) string
}

// probe fills in image dimensions for image MIME types.
func probe(meta *FileMetadata, data []byte) {
	if !models.IsImageType(meta.Type) {
		return
	}
	w, h, ok := imaging.Dimensions(data, meta.Type)
	if !ok {
		return
	}
	meta.Width, meta.Height = &w, &h
}
