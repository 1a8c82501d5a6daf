// Package media records uploaded files and their attachment to content
// items. File bytes, name de-duplication and image dimensions are the
// storage provider's concern; this package only validates uploads and
// keeps the metadata rows.
package media

import (
	"context"
	"fmt"
	"log/slog"

	"aicms/internal/apperr"
	"aicms/internal/models"
	"aicms/internal/storage"
)

// MaxUploadSize is the largest accepted upload in bytes.
const MaxUploadSize = 10 << 20

// allowedTypes lists the MIME types accepted for upload.
var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
	"text/plain":      true,
	"video/mp4":       true,
}

// Allowed reports whether files of mimeType may be uploaded.
func Allowed(mimeType string) bool {
	return allowedTypes[mimeType]
}

// Store is the persistence the Service needs.
type Store interface {
	Create(ctx context.Context, m *models.MediaFile) (*models.MediaFile, error)
	FindByID(ctx context.Context, id int64) (*models.MediaFile, error)
	List(ctx context.Context, folder models.FolderFilter) ([]models.MediaFile, error)
	Delete(ctx context.Context, id int64) error
	Attach(ctx context.Context, contentID, mediaID int64, altText *string) (*models.ContentMediaRelation, error)
	ListByContent(ctx context.Context, contentID int64) ([]models.ContentMediaRelation, error)
}

// ContentFinder looks up content items so attachments can be checked.
type ContentFinder interface {
	FindByID(ctx context.Context, id int64) (*models.ContentItem, error)
}

// DeliveryCache drops cached delivery responses, which embed the media
// attached to each published item.
type DeliveryCache interface {
	Invalidate(ctx context.Context, slug string) error
	InvalidateAll(ctx context.Context) error
}

// Service manages media files.
type Service struct {
	store    Store
	content  ContentFinder
	provider storage.Provider
	cache    DeliveryCache
}

// NewService creates a media Service. cache may be nil.
func NewService(store Store, content ContentFinder, provider storage.Provider, cache DeliveryCache) *Service {
	return &Service{store: store, content: content, provider: provider, cache: cache}
}

// UploadFile persists data through the storage provider and records the
// returned metadata.
func (s *Service) UploadFile(ctx context.Context, data []byte, filename, mimeType string, folderID *int64) (*models.MediaFile, error) {
	verr := &apperr.ValidationError{}
	switch {
	case len(data) == 0:
		verr.Add("file", "is empty")
	case len(data) > MaxUploadSize:
		verr.Add("file", fmt.Sprintf("exceeds the %d MB limit", MaxUploadSize>>20))
	}
	if !Allowed(mimeType) {
		verr.Add("file", fmt.Sprintf("type %q is not allowed", mimeType))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	meta, err := s.provider.Save(ctx, data, filename, mimeType)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	m, err := s.store.Create(ctx, &models.MediaFile{
		Filename: meta.Filename,
		Path:     meta.Path,
		Type:     meta.Type,
		Size:     meta.Size,
		Width:    meta.Width,
		Height:   meta.Height,
		FolderID: folderID,
	})
	if err != nil {
		if delErr := s.provider.Delete(ctx, meta.Path); delErr != nil {
			slog.Error("orphaned upload cleanup failed", "path", meta.Path, "error", delErr)
		}
		return nil, fmt.Errorf("record media: %w", err)
	}

	slog.Info("media uploaded", "id", m.ID, "filename", m.Filename, "type", m.Type, "size", m.HumanSize())
	return s.withURL(m), nil
}

// ListFiles returns files newest first, optionally restricted to a folder.
func (s *Service) ListFiles(ctx context.Context, folder models.FolderFilter) ([]models.MediaFile, error) {
	files, err := s.store.List(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	for i := range files {
		s.withURL(&files[i])
	}
	return files, nil
}

// GetFile returns a single file.
func (s *Service) GetFile(ctx context.Context, id int64) (*models.MediaFile, error) {
	m, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	if m == nil {
		return nil, apperr.NotFound("media", id)
	}
	return s.withURL(m), nil
}

// DeleteFile removes the stored bytes and then the row. Bytes that are
// already gone do not stop the row from being removed.
func (s *Service) DeleteFile(ctx context.Context, id int64) error {
	m, err := s.GetFile(ctx, id)
	if err != nil {
		return err
	}

	if err := s.provider.Delete(ctx, m.Path); err != nil {
		return fmt.Errorf("delete stored file: %w", err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}

	// Relations to any number of items went with the row.
	if s.cache != nil {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			slog.Warn("delivery cache clear failed", "media_id", id, "error", err)
		}
	}

	slog.Info("media deleted", "id", id, "path", m.Path)
	return nil
}

// AttachToContent links a media file to a content item. Both must exist.
func (s *Service) AttachToContent(ctx context.Context, contentID, mediaID int64, altText *string) (*models.ContentMediaRelation, error) {
	item, err := s.content.FindByID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("check content: %w", err)
	}
	if item == nil {
		return nil, apperr.NotFound("content", contentID)
	}

	m, err := s.GetFile(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	rel, err := s.store.Attach(ctx, contentID, mediaID, altText)
	if err != nil {
		return nil, fmt.Errorf("attach media: %w", err)
	}
	rel.Media = m

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, item.Slug); err != nil {
			slog.Warn("delivery cache invalidation failed", "slug", item.Slug, "error", err)
		}
	}
	return rel, nil
}

// GetContentMedia returns the content item's media relations with their files.
func (s *Service) GetContentMedia(ctx context.Context, contentID int64) ([]models.ContentMediaRelation, error) {
	rels, err := s.store.ListByContent(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("list content media: %w", err)
	}
	for i := range rels {
		if rels[i].Media != nil {
			s.withURL(rels[i].Media)
		}
	}
	return rels, nil
}

func (s *Service) withURL(m *models.MediaFile) *models.MediaFile {
	m.URL = s.provider.URL(m.Path)
	return m
}
