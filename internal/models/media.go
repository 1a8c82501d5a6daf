// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"
)

// MediaFile is the metadata record of an uploaded file. The bytes live in
// the storage provider at Path; Width and Height are set for images only.
type MediaFile struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	Type      string    `json:"type"`
	Size      int64     `json:"size"`
	Width     *int      `json:"width"`
	Height    *int      `json:"height"`
	FolderID  *int64    `json:"folderId"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsImageType reports whether mimeType names an image format. Storage
// providers only probe dimensions for these.
func IsImageType(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// HumanSize returns a human-readable file size string.
func (m *MediaFile) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case m.Size >= mb:
		return fmt.Sprintf("%.1f MB", float64(m.Size)/float64(mb))
	case m.Size >= kb:
		return fmt.Sprintf("%.0f KB", float64(m.Size)/float64(kb))
	default:
		return fmt.Sprintf("%d B", m.Size)
	}
}

// ContentMediaRelation attaches a media file to a content item with an
// optional alt text override. Media is populated by joined lookups.
type ContentMediaRelation struct {
	ID        int64      `json:"id"`
	ContentID int64      `json:"contentId"`
	MediaID   int64      `json:"mediaId"`
	AltText   *string    `json:"altText"`
	Media     *MediaFile `json:"media,omitempty"`
}

// FolderFilter selects media by folder. A zero value means "all files";
// Set with a nil ID selects files that are in no folder.
type FolderFilter struct {
	Set bool
	ID  *int64
}
