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

// MediaStore handles media file and content-media relation persistence.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

const mediaColumns = `id, filename, path, type, size, width, height, folder_id, created_at`

func scanMedia(scanner interface{ Scan(...any) error }) (*models.MediaFile, error) {
	var m models.MediaFile
	err := scanner.Scan(
		&m.ID, &m.Filename, &m.Path, &m.Type, &m.Size,
		&m.Width, &m.Height, &m.FolderID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new media record and returns it with the generated ID.
func (s *MediaStore) Create(ctx context.Context, m *models.MediaFile) (*models.MediaFile, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO media_files (filename, path, type, size, width, height, folder_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+mediaColumns,
		m.Filename, m.Path, m.Type, m.Size, m.Width, m.Height, m.FolderID,
	)
	created, err := scanMedia(row)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single media record. Returns nil if not found.
func (s *MediaStore) FindByID(ctx context.Context, id int64) (*models.MediaFile, error) {
	m, err := scanMedia(s.db.QueryRowContext(ctx,
		`SELECT `+mediaColumns+` FROM media_files WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}

// List returns media files newest first. An unset filter returns every
// file; a set filter with a nil ID returns files outside any folder.
func (s *MediaStore) List(ctx context.Context, folder models.FolderFilter) ([]models.MediaFile, error) {
	query := `SELECT ` + mediaColumns + ` FROM media_files`
	var args []any
	switch {
	case !folder.Set:
	case folder.ID == nil:
		query += ` WHERE folder_id IS NULL`
	default:
		query += ` WHERE folder_id = $1`
		args = append(args, *folder.ID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	items := []models.MediaFile{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Delete removes a media record. Content relations cascade.
func (s *MediaStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM media_files WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}

// Attach links a media file to a content item.
func (s *MediaStore) Attach(ctx context.Context, contentID, mediaID int64, altText *string) (*models.ContentMediaRelation, error) {
	rel := &models.ContentMediaRelation{ContentID: contentID, MediaID: mediaID, AltText: altText}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO content_media (content_id, media_id, alt_text)
		VALUES ($1, $2, $3)
		RETURNING id
	`, contentID, mediaID, altText).Scan(&rel.ID)
	if err != nil {
		return nil, fmt.Errorf("attach media: %w", err)
	}
	return rel, nil
}

// ListByContent returns the media relations of a content item joined with
// their media files, in attachment order.
func (s *MediaStore) ListByContent(ctx context.Context, contentID int64) ([]models.ContentMediaRelation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cm.id, cm.content_id, cm.media_id, cm.alt_text,
			m.id, m.filename, m.path, m.type, m.size, m.width, m.height, m.folder_id, m.created_at
		FROM content_media cm
		JOIN media_files m ON m.id = cm.media_id
		WHERE cm.content_id = $1
		ORDER BY cm.id ASC
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("list content media: %w", err)
	}
	defer rows.Close()

	rels := []models.ContentMediaRelation{}
	for rows.Next() {
		var (
			r models.ContentMediaRelation
			m models.MediaFile
		)
		if err := rows.Scan(
			&r.ID, &r.ContentID, &r.MediaID, &r.AltText,
			&m.ID, &m.Filename, &m.Path, &m.Type, &m.Size, &m.Width, &m.Height, &m.FolderID, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan content media: %w", err)
		}
		r.Media = &m
		rels = append(rels, r)
	}
	return rels, rows.Err()
}
