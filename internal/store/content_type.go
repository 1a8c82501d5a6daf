// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aicms/internal/models"
)

// ContentTypeStore handles content type and field definition persistence.
type ContentTypeStore struct {
	db *sql.DB
}

// NewContentTypeStore creates a new ContentTypeStore.
func NewContentTypeStore(db *sql.DB) *ContentTypeStore {
	return &ContentTypeStore{db: db}
}

// List returns all content types with their field definitions, ordered by name.
func (s *ContentTypeStore) List(ctx context.Context) ([]models.ContentType, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM content_types ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list content types: %w", err)
	}
	defer rows.Close()

	var types []models.ContentType
	for rows.Next() {
		var ct models.ContentType
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan content type: %w", err)
		}
		types = append(types, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list content types: %w", err)
	}

	for i := range types {
		fields, err := s.fields(ctx, types[i].ID)
		if err != nil {
			return nil, err
		}
		types[i].Fields = fields
	}
	return types, nil
}

// FindByID retrieves a content type with its field definitions. Returns nil if not found.
func (s *ContentTypeStore) FindByID(ctx context.Context, id int64) (*models.ContentType, error) {
	return s.findOne(ctx, `SELECT id, name, created_at FROM content_types WHERE id = $1`, id)
}

// FindByName retrieves a content type by its unique name. Returns nil if not found.
func (s *ContentTypeStore) FindByName(ctx context.Context, name string) (*models.ContentType, error) {
	return s.findOne(ctx, `SELECT id, name, created_at FROM content_types WHERE name = $1`, name)
}

func (s *ContentTypeStore) findOne(ctx context.Context, query string, arg any) (*models.ContentType, error) {
	ct := &models.ContentType{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&ct.ID, &ct.Name, &ct.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content type: %w", err)
	}

	ct.Fields, err = s.fields(ctx, ct.ID)
	if err != nil {
		return nil, err
	}
	return ct, nil
}

func (s *ContentTypeStore) fields(ctx context.Context, typeID int64) ([]models.FieldDefinition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content_type_id, name, type, required
		FROM field_definitions WHERE content_type_id = $1
		ORDER BY position ASC, id ASC
	`, typeID)
	if err != nil {
		return nil, fmt.Errorf("list field definitions: %w", err)
	}
	defer rows.Close()

	fields := []models.FieldDefinition{}
	for rows.Next() {
		var f models.FieldDefinition
		if err := rows.Scan(&f.ID, &f.ContentTypeID, &f.Name, &f.Type, &f.Required); err != nil {
			return nil, fmt.Errorf("scan field definition: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// Create inserts a content type and its field definitions in one transaction.
func (s *ContentTypeStore) Create(ctx context.Context, name string, defs []models.FieldDefinition) (*models.ContentType, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ct := &models.ContentType{Name: name, Fields: make([]models.FieldDefinition, 0, len(defs))}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO content_types (name) VALUES ($1) RETURNING id, created_at`, name,
	).Scan(&ct.ID, &ct.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert content type: %w", err)
	}

	for i, d := range defs {
		d.ContentTypeID = ct.ID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO field_definitions (content_type_id, name, type, required, position)
			VALUES ($1, $2, $3, $4, $5) RETURNING id
		`, ct.ID, d.Name, d.Type, d.Required, i).Scan(&d.ID)
		if err != nil {
			return nil, fmt.Errorf("insert field definition %q: %w", d.Name, err)
		}
		ct.Fields = append(ct.Fields, d)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit content type: %w", err)
	}
	return ct, nil
}
