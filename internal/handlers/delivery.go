// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aicms/internal/markdown"
	"aicms/internal/models"
)

// PublishedFinder looks up published content by slug.
type PublishedFinder interface {
	GetPublished(ctx context.Context, slug string) (*models.ContentItem, error)
}

// DeliveryCache stores rendered delivery responses by slug.
type DeliveryCache interface {
	Get(ctx context.Context, slug string) ([]byte, bool)
	Set(ctx context.Context, slug string, body []byte)
}

// Delivery serves published content to public front ends. It checks the
// Valkey cache before querying, and stores rendered results on miss.
type Delivery struct {
	content  PublishedFinder
	cache    DeliveryCache
	mediaURL func(path string) string
}

// NewDelivery creates a new Delivery handler group. cache may be nil.
func NewDelivery(content PublishedFinder, cache DeliveryCache, mediaURL func(path string) string) *Delivery {
	return &Delivery{content: content, cache: cache, mediaURL: mediaURL}
}

// deliveredField carries the stored string in Value. Data holds the decoded
// value for numeric, boolean, date, json and media fields.
type deliveredField struct {
	Name  string           `json:"name"`
	Type  models.FieldType `json:"type"`
	Value string           `json:"value"`
	Data  any              `json:"data,omitempty"`
	HTML  string           `json:"html,omitempty"`
}

type deliveredMedia struct {
	ID       int64   `json:"id"`
	URL      string  `json:"url"`
	Filename string  `json:"filename"`
	Type     string  `json:"type"`
	Width    *int    `json:"width,omitempty"`
	Height   *int    `json:"height,omitempty"`
	AltText  *string `json:"altText,omitempty"`
}

type deliveredItem struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	ContentType string           `json:"contentType,omitempty"`
	Fields      []deliveredField `json:"fields"`
	Media       []deliveredMedia `json:"media"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Item returns a published content item by slug with markdown and
// rich_text fields rendered to HTML.
func (d *Delivery) Item(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	if d.cache != nil {
		if cached, ok := d.cache.Get(ctx, slugParam); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write(cached)
			return
		}
	}

	item, err := d.content.GetPublished(ctx, slugParam)
	if err != nil {
		respondError(w, r, err)
		return
	}

	body, err := json.Marshal(d.deliver(item))
	if err != nil {
		respondError(w, r, err)
		return
	}

	if d.cache != nil {
		d.cache.Set(ctx, slugParam, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Write(body)
}

func (d *Delivery) deliver(item *models.ContentItem) deliveredItem {
	out := deliveredItem{
		ID:        item.ID,
		Title:     item.Title,
		Slug:      item.Slug,
		Fields:    make([]deliveredField, 0, len(item.Fields)),
		Media:     make([]deliveredMedia, 0, len(item.Media)),
		UpdatedAt: item.UpdatedAt,
	}
	if item.ContentType != nil {
		out.ContentType = item.ContentType.Name
	}

	for _, f := range item.Fields {
		df := deliveredField{Name: f.Name, Type: f.Type, Value: f.Value}
		if !f.Type.IsTextual() {
			if v, err := models.ParseFieldValue(f.Type, f.Value); err == nil {
				df.Data = v.Any()
			}
		}
		if markdown.Renders(f.Type, f.Value) {
			html, err := markdown.ToHTML(f.Value)
			if err != nil {
				slog.Warn("markdown render failed", "slug", item.Slug, "field", f.Name, "error", err)
			} else {
				df.HTML = html
			}
		}
		out.Fields = append(out.Fields, df)
	}

	for _, rel := range item.Media {
		if rel.Media == nil {
			continue
		}
		m := rel.Media
		dm := deliveredMedia{
			ID:       m.ID,
			Filename: m.Filename,
			Type:     m.Type,
			Width:    m.Width,
			Height:   m.Height,
			AltText:  rel.AltText,
		}
		if d.mediaURL != nil {
			dm.URL = d.mediaURL(m.Path)
		}
		out.Media = append(out.Media, dm)
	}

	return out
}

// Health reports that the server is up.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
