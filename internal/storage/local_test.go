package storage

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aicms/internal/apperr"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestLocalSaveImage(t *testing.T) {
	dir := t.TempDir()
	p, err := NewLocal(dir, "/uploads/")
	require.NoError(t, err)

	data := pngBytes(t, 40, 30)
	meta, err := p.Save(context.Background(), data, "photo.png", "image/png")
	require.NoError(t, err)

	assert.Equal(t, "photo.png", meta.Filename)
	assert.Equal(t, int64(len(data)), meta.Size)
	assert.Equal(t, "image/png", meta.Type)
	require.NotNil(t, meta.Width)
	require.NotNil(t, meta.Height)
	assert.Equal(t, 40, *meta.Width)
	assert.Equal(t, 30, *meta.Height)

	onDisk, err := os.ReadFile(filepath.FromSlash(meta.Path))
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)
	assert.Equal(t, "/uploads/photo.png", p.URL(meta.Path))
}

func TestLocalSaveNonImageHasNoDimensions(t *testing.T) {
	p, err := NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	meta, err := p.Save(context.Background(), []byte("%PDF-1.4"), "doc.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Nil(t, meta.Width)
	assert.Nil(t, meta.Height)
}

func TestLocalSaveDeduplicates(t *testing.T) {
	p, err := NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	var names []string
	for i := 0; i < 3; i++ {
		meta, err := p.Save(ctx, []byte("hello"), "notes.txt", "text/plain")
		require.NoError(t, err)
		names = append(names, meta.Filename)
	}
	assert.Equal(t, []string{"notes.txt", "notes-1.txt", "notes-2.txt"}, names)
}

func TestLocalSaveSanitizesName(t *testing.T) {
	dir := t.TempDir()
	p, err := NewLocal(dir, "/uploads")
	require.NoError(t, err)

	meta, err := p.Save(context.Background(), []byte("x"), "../../etc/my file?.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "my-file.txt", meta.Filename)
	assert.Equal(t, filepath.Join(dir, "my-file.txt"), filepath.FromSlash(meta.Path))
}

func TestLocalDelete(t *testing.T) {
	dir := t.TempDir()
	p, err := NewLocal(dir, "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	meta, err := p.Save(ctx, []byte("bye"), "gone.txt", "text/plain")
	require.NoError(t, err)

	require.NoError(t, p.Delete(ctx, meta.Path))
	_, err = os.Stat(filepath.FromSlash(meta.Path))
	assert.True(t, os.IsNotExist(err))

	// Deleting again is fine.
	assert.NoError(t, p.Delete(ctx, meta.Path))
}

func TestLocalDeleteOutsideDir(t *testing.T) {
	p, err := NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	err = p.Delete(context.Background(), "/etc/passwd")
	var serr *apperr.StorageError
	assert.ErrorAs(t, err, &serr)
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"photo.png":         "photo.png",
		"My Photo.JPG":      "My-Photo.JPG",
		`C:\Users\a\b.gif`:  "b.gif",
		".hidden":           "hidden",
		"":                  "file",
		"ünïcode.txt":       "ncode.txt",
		"a/b/../c.pdf":      "c.pdf",
		"weird*<>|name.mp4": "weirdname.mp4",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, sanitizeFilename(in))
		})
	}
}
