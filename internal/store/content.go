// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"aicms/internal/apperr"
	"aicms/internal/models"
)

// ContentStore handles content item and content field persistence.
type ContentStore struct {
	db    *sql.DB
	types *ContentTypeStore
	media *MediaStore
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{
		db:    db,
		types: NewContentTypeStore(db),
		media: NewMediaStore(db),
	}
}

const itemColumns = `id, content_type_id, title, slug, status, created_at, updated_at`

func scanItem(scanner interface{ Scan(...any) error }) (*models.ContentItem, error) {
	c := &models.ContentItem{}
	err := scanner.Scan(&c.ID, &c.ContentTypeID, &c.Title, &c.Slug, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// slugConflict turns a duplicate slug insert into a validation error.
func slugConflict(err error) error {
	if isUniqueViolation(err, "content_items_slug_key") {
		return apperr.Invalid("slug", "already in use")
	}
	return err
}

// SlugExists reports whether any content item already uses the slug.
func (s *ContentStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM content_items WHERE slug = $1)`, slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// Create inserts a content item together with its fields in one transaction
// and returns the stored item with fields and content type populated.
func (s *ContentStore) Create(ctx context.Context, item *models.ContentItem, fields []models.FieldInput) (*models.ContentItem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO content_items (content_type_id, title, slug, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, item.ContentTypeID, item.Title, item.Slug, item.Status).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert content item: %w", slugConflict(err))
	}

	if err := insertFields(ctx, tx, id, item.ContentTypeID, fields); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit content item: %w", err)
	}
	return s.FindByID(ctx, id)
}

func insertFields(ctx context.Context, tx *sql.Tx, itemID, typeID int64, fields []models.FieldInput) error {
	if len(fields) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO content_fields (content_item_id, content_type_id, name, type, value)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("prepare insert fields: %w", err)
	}
	defer stmt.Close()

	for _, f := range fields {
		if _, err := stmt.ExecContext(ctx, itemID, typeID, f.Name, f.Type, f.Value); err != nil {
			return fmt.Errorf("insert field %q: %w", f.Name, err)
		}
	}
	return nil
}

// FindByID retrieves a content item with its fields, content type and
// attached media. Returns nil if not found.
func (s *ContentStore) FindByID(ctx context.Context, id int64) (*models.ContentItem, error) {
	c, err := scanItem(s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM content_items WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}

	if err := s.populate(ctx, c); err != nil {
		return nil, err
	}
	c.Media, err = s.media.ListByContent(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FindPublishedBySlug retrieves a published content item by slug with its
// fields, content type and attached media. Returns nil if not found or not
// published.
func (s *ContentStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.ContentItem, error) {
	c, err := scanItem(s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM content_items WHERE slug = $1 AND status = $2`,
		slug, models.ContentStatusPublished))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by slug: %w", err)
	}

	if err := s.populate(ctx, c); err != nil {
		return nil, err
	}
	c.Media, err = s.media.ListByContent(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns content items matching the filter, most recently updated
// first, each with its fields, content type and media. Nil filter fields
// are not applied.
func (s *ContentStore) List(ctx context.Context, filter models.ContentFilter) ([]models.ContentItem, error) {
	var (
		where []string
		args  []any
	)
	if filter.ContentTypeID != nil {
		args = append(args, *filter.ContentTypeID)
		where = append(where, fmt.Sprintf("content_type_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + itemColumns + ` FROM content_items`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY updated_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	items := []models.ContentItem{}
	for rows.Next() {
		c, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}

	for i := range items {
		c := &items[i]
		if err := s.populate(ctx, c); err != nil {
			return nil, err
		}
		if c.Media, err = s.media.ListByContent(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Update applies the scalar parts of the patch and, when patch.Fields is
// non-nil, replaces the item's whole field set. Both happen in a single
// transaction. Returns nil if the item does not exist.
func (s *ContentStore) Update(ctx context.Context, id int64, patch models.ContentPatch) (*models.ContentItem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var typeID int64
	err = tx.QueryRowContext(ctx, `
		UPDATE content_items SET
			title = COALESCE($1, title),
			slug = COALESCE($2, slug),
			status = COALESCE($3, status),
			updated_at = NOW()
		WHERE id = $4
		RETURNING content_type_id
	`, patch.Title, patch.Slug, patch.Status, id).Scan(&typeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update content item: %w", slugConflict(err))
	}

	if patch.Fields != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM content_fields WHERE content_item_id = $1`, id); err != nil {
			return nil, fmt.Errorf("delete content fields: %w", err)
		}
		if err := insertFields(ctx, tx, id, typeID, patch.Fields); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit content update: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Delete removes a content item. Fields and media relations are removed
// by the foreign key cascades.
func (s *ContentStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// populate loads the item's fields and content type.
func (s *ContentStore) populate(ctx context.Context, c *models.ContentItem) error {
	fields, err := s.fields(ctx, c.ID)
	if err != nil {
		return err
	}
	c.Fields = fields

	c.ContentType, err = s.types.FindByID(ctx, c.ContentTypeID)
	return err
}

func (s *ContentStore) fields(ctx context.Context, itemID int64) ([]models.ContentField, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content_item_id, content_type_id, name, type, value
		FROM content_fields WHERE content_item_id = $1
		ORDER BY id ASC
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list content fields: %w", err)
	}
	defer rows.Close()

	fields := []models.ContentField{}
	for rows.Next() {
		var f models.ContentField
		if err := rows.Scan(&f.ID, &f.ContentItemID, &f.ContentTypeID, &f.Name, &f.Type, &f.Value); err != nil {
			return nil, fmt.Errorf("scan content field: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}
