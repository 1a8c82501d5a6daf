// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// ContentStatus represents the publishing state of a content item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
)

// Valid reports whether s is one of the allowed publishing states.
func (s ContentStatus) Valid() bool {
	switch s {
	case ContentStatusDraft, ContentStatusPublished, ContentStatusArchived:
		return true
	}
	return false
}

// ContentItem is one instance of a content type with a title, a globally
// unique slug, a status and its field values. ContentType and Media are
// only populated by lookups that join them in.
type ContentItem struct {
	ID            int64                  `json:"id"`
	ContentTypeID int64                  `json:"contentTypeId"`
	Title         string                 `json:"title"`
	Slug          string                 `json:"slug"`
	Status        ContentStatus          `json:"status"`
	Fields        []ContentField         `json:"fields"`
	ContentType   *ContentType           `json:"contentType,omitempty"`
	Media         []ContentMediaRelation `json:"media,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// IsPublished returns true if the content item is in published status.
func (c *ContentItem) IsPublished() bool {
	return c.Status == ContentStatusPublished
}

// ContentField is a key/value pair attached to one content item. Type is
// copied from the content type definition when the field is written.
type ContentField struct {
	ID            int64     `json:"id"`
	ContentItemID int64     `json:"contentItemId"`
	ContentTypeID int64     `json:"contentTypeId"`
	Name          string    `json:"name"`
	Type          FieldType `json:"type"`
	Value         string    `json:"value"`
}

// FieldInput is a field value as submitted by a client on create or update.
type FieldInput struct {
	Name  string    `json:"name"`
	Type  FieldType `json:"type"`
	Value string    `json:"value"`
}

// ContentFilter narrows a content listing. Nil members are not applied.
type ContentFilter struct {
	ContentTypeID *int64
	Status        *ContentStatus
}

// ContentPatch holds the optional members of a content update. Fields,
// when non-nil, replaces the whole field set.
type ContentPatch struct {
	Title  *string
	Slug   *string
	Status *ContentStatus
	Fields []FieldInput
}
