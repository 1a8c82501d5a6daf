package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aicms/internal/apperr"
	"aicms/internal/models"
	"aicms/internal/storage"
)

type memStore struct {
	mu        sync.Mutex
	nextID    int64
	files     map[int64]*models.MediaFile
	rels      []models.ContentMediaRelation
	failWrite bool
}

func newMemStore() *memStore {
	return &memStore{files: make(map[int64]*models.MediaFile)}
}

func (m *memStore) Create(_ context.Context, f *models.MediaFile) (*models.MediaFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return nil, errors.New("db down")
	}
	m.nextID++
	c := *f
	c.ID = m.nextID
	c.CreatedAt = time.Unix(m.nextID, 0)
	m.files[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memStore) FindByID(_ context.Context, id int64) (*models.MediaFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return nil, nil
	}
	out := *f
	return &out, nil
}

func (m *memStore) List(_ context.Context, folder models.FolderFilter) ([]models.MediaFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.MediaFile{}
	for _, f := range m.files {
		if folder.Set {
			switch {
			case folder.ID == nil && f.FolderID != nil:
				continue
			case folder.ID != nil && (f.FolderID == nil || *f.FolderID != *folder.ID):
				continue
			}
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, id)
	return nil
}

func (m *memStore) Attach(_ context.Context, contentID, mediaID int64, alt *string) (*models.ContentMediaRelation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rel := models.ContentMediaRelation{ID: int64(len(m.rels) + 1), ContentID: contentID, MediaID: mediaID, AltText: alt}
	m.rels = append(m.rels, rel)
	return &rel, nil
}

func (m *memStore) ListByContent(_ context.Context, contentID int64) ([]models.ContentMediaRelation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ContentMediaRelation{}
	for _, r := range m.rels {
		if r.ContentID == contentID {
			f := *m.files[r.MediaID]
			r.Media = &f
			out = append(out, r)
		}
	}
	return out, nil
}

type contentSet map[int64]bool

func (c contentSet) FindByID(_ context.Context, id int64) (*models.ContentItem, error) {
	if !c[id] {
		return nil, nil
	}
	return &models.ContentItem{ID: id, Slug: fmt.Sprintf("item-%d", id)}, nil
}

// recordingCache records which delivery entries were dropped.
type recordingCache struct {
	slugs    []string
	clears   int
	clearErr error
}

func (c *recordingCache) Invalidate(_ context.Context, slug string) error {
	c.slugs = append(c.slugs, slug)
	return nil
}

func (c *recordingCache) InvalidateAll(context.Context) error {
	c.clears++
	return c.clearErr
}

// stubProvider records deletes and can be made to fail.
type stubProvider struct {
	deleted   []string
	deleteErr error
}

func (p *stubProvider) Save(_ context.Context, data []byte, filename, mimeType string) (*storage.FileMetadata, error) {
	return &storage.FileMetadata{Path: "stub/" + filename, Filename: filename, Size: int64(len(data)), Type: mimeType}, nil
}

func (p *stubProvider) Delete(_ context.Context, path string) error {
	p.deleted = append(p.deleted, path)
	return p.deleteErr
}

func (p *stubProvider) URL(path string) string { return "/files/" + path }

func newLocalService(t *testing.T) (*Service, *memStore, string) {
	t.Helper()
	dir := t.TempDir()
	local, err := storage.NewLocal(dir, "/uploads")
	require.NoError(t, err)
	store := newMemStore()
	return NewService(store, contentSet{1: true}, local, nil), store, dir
}

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestUploadImage(t *testing.T) {
	svc, _, _ := newLocalService(t)
	folder := int64(3)

	m, err := svc.UploadFile(context.Background(), pngData(t, 20, 10), "cat.png", "image/png", &folder)
	require.NoError(t, err)
	assert.NotZero(t, m.ID)
	assert.Equal(t, "cat.png", m.Filename)
	require.NotNil(t, m.Width)
	assert.Equal(t, 20, *m.Width)
	assert.Equal(t, 10, *m.Height)
	assert.Equal(t, &folder, m.FolderID)
	assert.Equal(t, "/uploads/cat.png", m.URL)
}

func TestUploadNonImageHasNoDimensions(t *testing.T) {
	svc, _, _ := newLocalService(t)

	m, err := svc.UploadFile(context.Background(), []byte("plain words"), "readme.txt", "text/plain", nil)
	require.NoError(t, err)
	assert.Nil(t, m.Width)
	assert.Nil(t, m.Height)
}

func TestUploadValidation(t *testing.T) {
	svc, _, _ := newLocalService(t)
	ctx := context.Background()

	_, err := svc.UploadFile(ctx, nil, "a.png", "image/png", nil)
	assert.ErrorAs(t, err, new(*apperr.ValidationError), "empty file")

	_, err = svc.UploadFile(ctx, make([]byte, MaxUploadSize+1), "big.png", "image/png", nil)
	assert.ErrorAs(t, err, new(*apperr.ValidationError), "too large")

	_, err = svc.UploadFile(ctx, []byte("MZ"), "app.exe", "application/x-msdownload", nil)
	assert.ErrorAs(t, err, new(*apperr.ValidationError), "disallowed type")
}

func TestUploadCleansUpWhenRecordFails(t *testing.T) {
	store := newMemStore()
	store.failWrite = true
	p := &stubProvider{}
	svc := NewService(store, contentSet{}, p, nil)

	_, err := svc.UploadFile(context.Background(), []byte("x"), "a.txt", "text/plain", nil)
	require.Error(t, err)
	assert.Equal(t, []string{"stub/a.txt"}, p.deleted)
}

func TestListFiles(t *testing.T) {
	svc, _, _ := newLocalService(t)
	ctx := context.Background()

	folder := int64(9)
	a, err := svc.UploadFile(ctx, []byte("a"), "a.txt", "text/plain", nil)
	require.NoError(t, err)
	b, err := svc.UploadFile(ctx, []byte("b"), "b.txt", "text/plain", &folder)
	require.NoError(t, err)

	all, err := svc.ListFiles(ctx, models.FolderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID, "newest first")
	assert.NotEmpty(t, all[0].URL)

	inFolder, err := svc.ListFiles(ctx, models.FolderFilter{Set: true, ID: &folder})
	require.NoError(t, err)
	require.Len(t, inFolder, 1)
	assert.Equal(t, b.ID, inFolder[0].ID)

	loose, err := svc.ListFiles(ctx, models.FolderFilter{Set: true})
	require.NoError(t, err)
	require.Len(t, loose, 1)
	assert.Equal(t, a.ID, loose[0].ID)
}

func TestDeleteFile(t *testing.T) {
	svc, _, _ := newLocalService(t)
	ctx := context.Background()

	m, err := svc.UploadFile(ctx, []byte("bytes"), "del.txt", "text/plain", nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFile(ctx, m.ID))
	_, err = os.Stat(m.Path)
	assert.True(t, os.IsNotExist(err), "bytes removed")

	_, err = svc.GetFile(ctx, m.ID)
	assert.ErrorAs(t, err, new(*apperr.NotFoundError))

	err = svc.DeleteFile(ctx, m.ID)
	assert.ErrorAs(t, err, new(*apperr.NotFoundError))
}

func TestDeleteFileAlreadyGone(t *testing.T) {
	svc, _, _ := newLocalService(t)
	ctx := context.Background()

	m, err := svc.UploadFile(ctx, []byte("bytes"), "gone.txt", "text/plain", nil)
	require.NoError(t, err)
	require.NoError(t, os.Remove(m.Path))

	require.NoError(t, svc.DeleteFile(ctx, m.ID))
	_, err = svc.GetFile(ctx, m.ID)
	assert.ErrorAs(t, err, new(*apperr.NotFoundError))
}

func TestDeleteFileStorageErrorKeepsRow(t *testing.T) {
	store := newMemStore()
	p := &stubProvider{deleteErr: &apperr.StorageError{Op: "delete file", Err: os.ErrPermission}}
	svc := NewService(store, contentSet{}, p, nil)
	ctx := context.Background()

	m, err := svc.UploadFile(ctx, []byte("x"), "locked.txt", "text/plain", nil)
	require.NoError(t, err)

	err = svc.DeleteFile(ctx, m.ID)
	var serr *apperr.StorageError
	require.ErrorAs(t, err, &serr)

	_, err = svc.GetFile(ctx, m.ID)
	assert.NoError(t, err, "row must survive a failed byte delete")
}

func TestAttachToContent(t *testing.T) {
	svc, _, _ := newLocalService(t)
	ctx := context.Background()

	m, err := svc.UploadFile(ctx, pngData(t, 4, 4), "hero.png", "image/png", nil)
	require.NoError(t, err)

	alt := "hero shot"
	rel, err := svc.AttachToContent(ctx, 1, m.ID, &alt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rel.ContentID)
	assert.Equal(t, m.ID, rel.MediaID)
	require.NotNil(t, rel.Media)
	assert.Equal(t, "hero.png", rel.Media.Filename)

	rels, err := svc.GetContentMedia(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, "/uploads/hero.png", rels[0].Media.URL)
	assert.Equal(t, "hero shot", *rels[0].AltText)

	_, err = svc.AttachToContent(ctx, 404, m.ID, nil)
	assert.ErrorAs(t, err, new(*apperr.NotFoundError), "unknown content")

	_, err = svc.AttachToContent(ctx, 1, 999, nil)
	assert.ErrorAs(t, err, new(*apperr.NotFoundError), "unknown media")
}

func TestMediaChangesClearDeliveryCache(t *testing.T) {
	cache := &recordingCache{}
	svc := NewService(newMemStore(), contentSet{5: true}, &stubProvider{}, cache)
	ctx := context.Background()

	m, err := svc.UploadFile(ctx, []byte("x"), "note.txt", "text/plain", nil)
	require.NoError(t, err)
	assert.Empty(t, cache.slugs, "upload alone changes no delivered item")
	assert.Zero(t, cache.clears)

	_, err = svc.AttachToContent(ctx, 5, m.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"item-5"}, cache.slugs)

	_, err = svc.AttachToContent(ctx, 6, m.ID, nil)
	assert.ErrorAs(t, err, new(*apperr.NotFoundError))
	assert.Len(t, cache.slugs, 1, "failed attach leaves the cache alone")

	cache.clearErr = errors.New("valkey down")
	require.NoError(t, svc.DeleteFile(ctx, m.ID), "cache failure does not fail the delete")
	assert.Equal(t, 1, cache.clears)
}

func TestAllowed(t *testing.T) {
	for _, mt := range []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml", "application/pdf", "text/plain", "video/mp4"} {
		assert.True(t, Allowed(mt), mt)
	}
	for _, mt := range []string{"", "text/html", "application/zip", "image/tiff"} {
		assert.False(t, Allowed(mt), mt)
	}
}
