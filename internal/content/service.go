// Package content implements content item and content type management on
// top of the store: slug derivation, write-time field validation against
// the owning content type, and transactional field replacement.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"aicms/internal/apperr"
	"aicms/internal/models"
	"aicms/internal/slug"
)

// ItemStore is the persistence the Service needs for content items.
type ItemStore interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, item *models.ContentItem, fields []models.FieldInput) (*models.ContentItem, error)
	FindByID(ctx context.Context, id int64) (*models.ContentItem, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.ContentItem, error)
	List(ctx context.Context, filter models.ContentFilter) ([]models.ContentItem, error)
	Update(ctx context.Context, id int64, patch models.ContentPatch) (*models.ContentItem, error)
	Delete(ctx context.Context, id int64) error
}

// TypeStore is the persistence the Service needs for content types.
type TypeStore interface {
	List(ctx context.Context) ([]models.ContentType, error)
	FindByID(ctx context.Context, id int64) (*models.ContentType, error)
	FindByName(ctx context.Context, name string) (*models.ContentType, error)
	Create(ctx context.Context, name string, defs []models.FieldDefinition) (*models.ContentType, error)
}

// Invalidator drops cached renderings of a published slug.
type Invalidator interface {
	Invalidate(ctx context.Context, slug string) error
}

// Service coordinates content items and content types.
type Service struct {
	items ItemStore
	types TypeStore
	cache Invalidator
}

// NewService creates a content Service. cache may be nil.
func NewService(items ItemStore, types TypeStore, cache Invalidator) *Service {
	return &Service{items: items, types: types, cache: cache}
}

// CreateInput carries the data for a new content item. An empty Slug is
// derived from Title.
type CreateInput struct {
	ContentTypeID int64
	Title         string
	Slug          string
	Status        models.ContentStatus
	Fields        []models.FieldInput
}

// GenerateSlug derives a slug from title that no content item uses yet.
// An empty or symbol-only title yields "".
func (s *Service) GenerateSlug(ctx context.Context, title string) (string, error) {
	return slug.Unique(ctx, title, s.items.SlugExists)
}

// CreateContent validates in, derives a slug when none is given, and
// stores the item and its fields in one write.
func (s *Service) CreateContent(ctx context.Context, in CreateInput) (*models.ContentItem, error) {
	verr := &apperr.ValidationError{}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		verr.Add("title", "is required")
	}
	if in.Status == "" {
		in.Status = models.ContentStatusDraft
	}
	if !in.Status.Valid() {
		verr.Add("status", "must be one of draft, published, archived")
	}
	if in.Slug != "" && !validSlug(in.Slug) {
		verr.Add("slug", "must contain only lower-case letters, digits and single hyphens")
	}
	if in.ContentTypeID <= 0 {
		verr.Add("contentTypeId", "is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	ct, err := s.types.FindByID(ctx, in.ContentTypeID)
	if err != nil {
		return nil, fmt.Errorf("load content type: %w", err)
	}
	if ct == nil {
		return nil, apperr.Invalid("contentTypeId", "unknown content type")
	}

	fields, err := ValidateFields(ct, in.Fields)
	if err != nil {
		return nil, err
	}

	if in.Slug == "" {
		in.Slug, err = s.GenerateSlug(ctx, in.Title)
		if err != nil {
			return nil, fmt.Errorf("generate slug: %w", err)
		}
		if in.Slug == "" {
			return nil, apperr.Invalid("slug", "cannot be derived from title; provide one explicitly")
		}
	}

	item, err := s.items.Create(ctx, &models.ContentItem{
		ContentTypeID: ct.ID,
		Title:         in.Title,
		Slug:          in.Slug,
		Status:        in.Status,
	}, fields)
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}

	slog.Info("content created", "id", item.ID, "slug", item.Slug, "type", ct.Name)
	return item, nil
}

// GetContent returns the item with fields, content type and media.
func (s *Service) GetContent(ctx context.Context, id int64) (*models.ContentItem, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	if item == nil {
		return nil, apperr.NotFound("content", id)
	}
	return item, nil
}

// GetPublished returns a published item by slug.
func (s *Service) GetPublished(ctx context.Context, slug string) (*models.ContentItem, error) {
	item, err := s.items.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get published content: %w", err)
	}
	if item == nil {
		return nil, apperr.NotFound("content", slug)
	}
	return item, nil
}

// ListContent returns items matching filter, most recently updated first.
func (s *Service) ListContent(ctx context.Context, filter models.ContentFilter) ([]models.ContentItem, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperr.Invalid("status", "must be one of draft, published, archived")
	}
	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return items, nil
}

// UpdateContent applies patch to the item. A non-nil patch.Fields replaces
// the whole field set atomically with the scalar changes.
func (s *Service) UpdateContent(ctx context.Context, id int64, patch models.ContentPatch) (*models.ContentItem, error) {
	existing, err := s.GetContent(ctx, id)
	if err != nil {
		return nil, err
	}

	verr := &apperr.ValidationError{}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			verr.Add("title", "must not be empty")
		}
		patch.Title = &t
	}
	if patch.Status != nil && !patch.Status.Valid() {
		verr.Add("status", "must be one of draft, published, archived")
	}
	if patch.Slug != nil && !validSlug(*patch.Slug) {
		verr.Add("slug", "must contain only lower-case letters, digits and single hyphens")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if patch.Fields != nil {
		ct := existing.ContentType
		if ct == nil {
			if ct, err = s.types.FindByID(ctx, existing.ContentTypeID); err != nil {
				return nil, fmt.Errorf("load content type: %w", err)
			}
		}
		if ct != nil {
			if patch.Fields, err = ValidateFields(ct, patch.Fields); err != nil {
				return nil, err
			}
		}
	}

	item, err := s.items.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}
	if item == nil {
		return nil, apperr.NotFound("content", id)
	}

	s.invalidate(ctx, existing.Slug)
	if item.Slug != existing.Slug {
		s.invalidate(ctx, item.Slug)
	}
	if item.IsPublished() != existing.IsPublished() {
		slog.Info("content publication changed", "id", id, "slug", item.Slug, "status", item.Status)
	}
	return item, nil
}

// DeleteContent removes the item. Its fields and media relations go with it.
func (s *Service) DeleteContent(ctx context.Context, id int64) error {
	existing, err := s.GetContent(ctx, id)
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}

	s.invalidate(ctx, existing.Slug)
	slog.Info("content deleted", "id", id, "slug", existing.Slug)
	return nil
}

func (s *Service) invalidate(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, slug); err != nil {
		slog.Warn("content cache invalidation failed", "slug", slug, "error", err)
	}
}

// validSlug reports whether s is already in generated-slug form.
func validSlug(s string) bool {
	return s != "" && slug.Generate(s) == s
}
