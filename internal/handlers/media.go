package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"aicms/internal/apperr"
	"aicms/internal/media"
	"aicms/internal/models"
)

// MediaService is the media behaviour the handlers depend on.
type MediaService interface {
	UploadFile(ctx context.Context, data []byte, filename, mimeType string, folderID *int64) (*models.MediaFile, error)
	ListFiles(ctx context.Context, folder models.FolderFilter) ([]models.MediaFile, error)
	GetFile(ctx context.Context, id int64) (*models.MediaFile, error)
	DeleteFile(ctx context.Context, id int64) error
	AttachToContent(ctx context.Context, contentID, mediaID int64, altText *string) (*models.ContentMediaRelation, error)
	GetContentMedia(ctx context.Context, contentID int64) ([]models.ContentMediaRelation, error)
}

// Media groups handlers for uploads and content attachments.
type Media struct {
	media MediaService
}

// NewMedia creates a new Media handler group.
func NewMedia(svc MediaService) *Media {
	return &Media{media: svc}
}

// formOverhead leaves room for multipart boundaries and small form fields.
const formOverhead = 1 << 20

// Upload accepts a multipart "file" plus an optional "folderId".
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize+formOverhead)
	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File too large. Maximum size is %d MB.", media.MaxUploadSize>>20))
			return
		}
		respondError(w, r, apperr.Invalid("file", "request must be multipart/form-data"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, apperr.Invalid("file", "No file uploaded"))
		return
	}
	defer file.Close()

	var folderID *int64
	if v := r.FormValue("folderId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			respondError(w, r, apperr.Invalid("folderId", "folderId must be a positive integer"))
			return
		}
		folderID = &id
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	m, err := h.media.UploadFile(r.Context(), data, header.Filename, uploadType(header.Header.Get("Content-Type"), data), folderID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, m)
}

// uploadType returns the declared media type of a part, sniffing the
// bytes when the client sent none or a generic one.
func uploadType(declared string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
		return mt
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}

// List returns media files, optionally filtered by ?folderId=. The value
// "null" selects files outside any folder.
func (h *Media) List(w http.ResponseWriter, r *http.Request) {
	var folder models.FolderFilter

	q := r.URL.Query()
	if q.Has("folderId") {
		switch v := q.Get("folderId"); v {
		case "":
		case "null":
			folder.Set = true
		default:
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id <= 0 {
				respondError(w, r, apperr.Invalid("folderId", "folderId must be a positive integer or null"))
				return
			}
			folder = models.FolderFilter{Set: true, ID: &id}
		}
	}

	files, err := h.media.ListFiles(r.Context(), folder)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if files == nil {
		files = []models.MediaFile{}
	}
	writeJSON(w, r, http.StatusOK, files)
}

// Get returns one media file.
func (h *Media) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	m, err := h.media.GetFile(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, m)
}

// Delete removes a media file's bytes and record.
func (h *Media) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.media.DeleteFile(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type attachRequest struct {
	MediaID int64   `json:"mediaId"`
	AltText *string `json:"altText"`
}

// Attach links a media file to a content item.
func (h *Media) Attach(w http.ResponseWriter, r *http.Request) {
	contentID, ok := idParam(w, r, "contentId")
	if !ok {
		return
	}

	var req attachRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c lengthCheck
	if req.MediaID <= 0 {
		c.verr.Add("mediaId", "mediaId must be a positive integer")
	}
	c.maxPtr("altText", req.AltText, maxAltTextLen)
	if err := c.err(); err != nil {
		respondError(w, r, err)
		return
	}

	rel, err := h.media.AttachToContent(r.Context(), contentID, req.MediaID, req.AltText)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, rel)
}

// ContentMedia lists the media attached to a content item.
func (h *Media) ContentMedia(w http.ResponseWriter, r *http.Request) {
	contentID, ok := idParam(w, r, "contentId")
	if !ok {
		return
	}

	rels, err := h.media.GetContentMedia(r.Context(), contentID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if rels == nil {
		rels = []models.ContentMediaRelation{}
	}
	writeJSON(w, r, http.StatusOK, rels)
}
