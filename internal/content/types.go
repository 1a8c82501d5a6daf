package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"aicms/internal/apperr"
	"aicms/internal/models"
)

// FieldDefinitionInput describes one field of a new content type.
type FieldDefinitionInput struct {
	Name     string           `json:"name"`
	Type     models.FieldType `json:"type"`
	Required bool             `json:"required"`
}

// ListTypes returns all content types ordered by name.
func (s *Service) ListTypes(ctx context.Context) ([]models.ContentType, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list content types: %w", err)
	}
	if types == nil {
		types = []models.ContentType{}
	}
	return types, nil
}

// GetType returns a content type with its field definitions.
func (s *Service) GetType(ctx context.Context, id int64) (*models.ContentType, error) {
	ct, err := s.types.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get content type: %w", err)
	}
	if ct == nil {
		return nil, apperr.NotFound("content type", id)
	}
	return ct, nil
}

// CreateType validates and stores a new content type.
func (s *Service) CreateType(ctx context.Context, name string, fields []FieldDefinitionInput) (*models.ContentType, error) {
	verr := &apperr.ValidationError{}
	name = strings.TrimSpace(name)
	if name == "" {
		verr.Add("name", "is required")
	}
	if len(fields) == 0 {
		verr.Add("fields", "at least one field is required")
	}

	defs := make([]models.FieldDefinition, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		key := fmt.Sprintf("fields[%d]", i)
		fname := strings.TrimSpace(f.Name)
		switch {
		case fname == "":
			verr.Add(key+".name", "is required")
		case seen[fname]:
			verr.Add(key+".name", fmt.Sprintf("duplicate field %q", fname))
		case !f.Type.Valid():
			verr.Add(key+".type", fmt.Sprintf("unknown field type %q", f.Type))
		}
		seen[fname] = true
		defs = append(defs, models.FieldDefinition{Name: fname, Type: f.Type, Required: f.Required})
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	existing, err := s.types.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check content type name: %w", err)
	}
	if existing != nil {
		return nil, apperr.Invalid("name", "content type with this name already exists")
	}

	ct, err := s.types.Create(ctx, name, defs)
	if err != nil {
		return nil, fmt.Errorf("create content type: %w", err)
	}

	slog.Info("content type created", "id", ct.ID, "name", ct.Name, "fields", len(ct.Fields))
	return ct, nil
}
