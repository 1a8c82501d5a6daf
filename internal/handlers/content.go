package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"aicms/internal/apperr"
	"aicms/internal/content"
	"aicms/internal/models"
)

// ContentService is the content behaviour the handlers depend on.
type ContentService interface {
	CreateContent(ctx context.Context, in content.CreateInput) (*models.ContentItem, error)
	GetContent(ctx context.Context, id int64) (*models.ContentItem, error)
	ListContent(ctx context.Context, filter models.ContentFilter) ([]models.ContentItem, error)
	UpdateContent(ctx context.Context, id int64, patch models.ContentPatch) (*models.ContentItem, error)
	DeleteContent(ctx context.Context, id int64) error

	ListTypes(ctx context.Context) ([]models.ContentType, error)
	GetType(ctx context.Context, id int64) (*models.ContentType, error)
	CreateType(ctx context.Context, name string, fields []content.FieldDefinitionInput) (*models.ContentType, error)
}

// Content groups handlers for content types and content items.
type Content struct {
	content ContentService
}

// NewContent creates a new Content handler group.
func NewContent(svc ContentService) *Content {
	return &Content{content: svc}
}

type createContentRequest struct {
	ContentTypeID int64                `json:"contentTypeId"`
	Title         string               `json:"title"`
	Slug          string               `json:"slug"`
	Status        models.ContentStatus `json:"status"`
	Fields        []models.FieldInput  `json:"fields"`
}

type updateContentRequest struct {
	Title  *string               `json:"title"`
	Slug   *string               `json:"slug"`
	Status *models.ContentStatus `json:"status"`
	Fields []models.FieldInput   `json:"fields"`
}

func checkFields(c *lengthCheck, fields []models.FieldInput) {
	c.maxCount("fields", len(fields), maxFields)
	for i, f := range fields {
		c.max(fmt.Sprintf("fields[%d].value", i), f.Value, maxValueLen)
	}
}

// Create stores a new content item.
func (h *Content) Create(w http.ResponseWriter, r *http.Request) {
	var req createContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c lengthCheck
	c.max("title", req.Title, maxTitleLen)
	c.max("slug", req.Slug, maxSlugLen)
	checkFields(&c, req.Fields)
	if err := c.err(); err != nil {
		respondError(w, r, err)
		return
	}

	item, err := h.content.CreateContent(r.Context(), content.CreateInput{
		ContentTypeID: req.ContentTypeID,
		Title:         req.Title,
		Slug:          req.Slug,
		Status:        req.Status,
		Fields:        req.Fields,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, item)
}

// List returns content items, newest-updated first, optionally filtered
// by ?contentTypeId= and ?status=.
func (h *Content) List(w http.ResponseWriter, r *http.Request) {
	var filter models.ContentFilter

	q := r.URL.Query()
	if v := q.Get("contentTypeId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, r, apperr.Invalid("contentTypeId", "contentTypeId must be a positive integer"))
			return
		}
		filter.ContentTypeID = &id
	}
	if v := q.Get("status"); v != "" {
		status := models.ContentStatus(v)
		filter.Status = &status
	}

	items, err := h.content.ListContent(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	writeJSON(w, r, http.StatusOK, items)
}

// Get returns one content item.
func (h *Content) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	item, err := h.content.GetContent(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

// Update applies a partial update. A present fields array replaces all fields.
func (h *Content) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req updateContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c lengthCheck
	c.maxPtr("title", req.Title, maxTitleLen)
	c.maxPtr("slug", req.Slug, maxSlugLen)
	checkFields(&c, req.Fields)
	if err := c.err(); err != nil {
		respondError(w, r, err)
		return
	}

	item, err := h.content.UpdateContent(r.Context(), id, models.ContentPatch{
		Title:  req.Title,
		Slug:   req.Slug,
		Status: req.Status,
		Fields: req.Fields,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

// Delete removes a content item and its fields.
func (h *Content) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.content.DeleteContent(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTypes returns every content type with its field definitions.
func (h *Content) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.content.ListTypes(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if types == nil {
		types = []models.ContentType{}
	}
	writeJSON(w, r, http.StatusOK, types)
}

// GetType returns one content type.
func (h *Content) GetType(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	ct, err := h.content.GetType(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ct)
}

type createTypeRequest struct {
	Name   string                         `json:"name"`
	Fields []content.FieldDefinitionInput `json:"fields"`
}

// CreateType defines a new content type.
func (h *Content) CreateType(w http.ResponseWriter, r *http.Request) {
	var req createTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c lengthCheck
	c.max("name", req.Name, maxTypeName)
	c.maxCount("fields", len(req.Fields), maxFields)
	if err := c.err(); err != nil {
		respondError(w, r, err)
		return
	}

	ct, err := h.content.CreateType(r.Context(), req.Name, req.Fields)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, ct)
}
