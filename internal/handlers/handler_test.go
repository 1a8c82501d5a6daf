// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Services are replaced by in-memory fakes so no database is needed.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"aicms/internal/apperr"
	"aicms/internal/auth"
	"aicms/internal/content"
	"aicms/internal/middleware"
	"aicms/internal/models"
)

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withClaims marks the request as authenticated.
func withClaims(r *http.Request, userID int64, role models.Role) *http.Request {
	return r.WithContext(middleware.WithClaims(r.Context(), &auth.Claims{UserID: userID, Role: role}))
}

// jsonRequest builds a request with a JSON-encoded body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeBody decodes the recorder's JSON body into v.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

// errorOf decodes an ErrorResponse.
func errorOf(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	decodeBody(t, rr, &er)
	return er
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d (body: %s)", rr.Code, want, rr.Body.String())
	}
}

// fakeAuth is an AuthService backed by canned results.
type fakeAuth struct {
	login      *auth.LoginResult
	user       *models.User
	setup      *auth.TOTPSetup
	err        error
	loggedOut  bool
	enabledFor int64
	gotCode    string
}

func (f *fakeAuth) Login(_ context.Context, _, _, code string) (*auth.LoginResult, error) {
	f.gotCode = code
	return f.login, f.err
}

func (f *fakeAuth) Logout(context.Context, *auth.Claims) error {
	f.loggedOut = f.err == nil
	return f.err
}

func (f *fakeAuth) CurrentUser(context.Context, *auth.Claims) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeAuth) SetupTOTP(context.Context, int64) (*auth.TOTPSetup, error) {
	return f.setup, f.err
}

func (f *fakeAuth) EnableTOTP(_ context.Context, userID int64, code string) error {
	f.enabledFor, f.gotCode = userID, code
	return f.err
}

// fakeContent is a ContentService over an in-memory map.
type fakeContent struct {
	items     map[int64]*models.ContentItem
	types     []models.ContentType
	err       error
	created   *content.CreateInput
	patch     *models.ContentPatch
	filter    models.ContentFilter
	typeName  string
	typeCount int
}

func newFakeContent() *fakeContent {
	return &fakeContent{items: map[int64]*models.ContentItem{}}
}

func (f *fakeContent) CreateContent(_ context.Context, in content.CreateInput) (*models.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &in
	item := &models.ContentItem{ID: int64(len(f.items) + 1), ContentTypeID: in.ContentTypeID, Title: in.Title, Slug: in.Slug, Status: in.Status}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeContent) GetContent(_ context.Context, id int64) (*models.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	item, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound("content", id)
	}
	return item, nil
}

func (f *fakeContent) ListContent(_ context.Context, filter models.ContentFilter) ([]models.ContentItem, error) {
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	var out []models.ContentItem
	for _, item := range f.items {
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeContent) UpdateContent(_ context.Context, id int64, patch models.ContentPatch) (*models.ContentItem, error) {
	f.patch = &patch
	if f.err != nil {
		return nil, f.err
	}
	item, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFound("content", id)
	}
	if patch.Title != nil {
		item.Title = *patch.Title
	}
	return item, nil
}

func (f *fakeContent) DeleteContent(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.items[id]; !ok {
		return apperr.NotFound("content", id)
	}
	delete(f.items, id)
	return nil
}

func (f *fakeContent) ListTypes(context.Context) ([]models.ContentType, error) {
	return f.types, f.err
}

func (f *fakeContent) GetType(_ context.Context, id int64) (*models.ContentType, error) {
	for i := range f.types {
		if f.types[i].ID == id {
			return &f.types[i], nil
		}
	}
	return nil, apperr.NotFound("content type", id)
}

func (f *fakeContent) CreateType(_ context.Context, name string, fields []content.FieldDefinitionInput) (*models.ContentType, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.typeName, f.typeCount = name, len(fields)
	ct := models.ContentType{ID: int64(len(f.types) + 1), Name: name}
	f.types = append(f.types, ct)
	return &ct, nil
}

// fakeMedia is a MediaService recording the arguments it was called with.
type fakeMedia struct {
	files    map[int64]*models.MediaFile
	err      error
	data     []byte
	filename string
	mimeType string
	folderID *int64
	folder   models.FolderFilter
	altText  *string
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{files: map[int64]*models.MediaFile{}}
}

func (f *fakeMedia) UploadFile(_ context.Context, data []byte, filename, mimeType string, folderID *int64) (*models.MediaFile, error) {
	f.data, f.filename, f.mimeType, f.folderID = data, filename, mimeType, folderID
	if f.err != nil {
		return nil, f.err
	}
	m := &models.MediaFile{ID: int64(len(f.files) + 1), Filename: filename, Type: mimeType, Size: int64(len(data)), FolderID: folderID}
	f.files[m.ID] = m
	return m, nil
}

func (f *fakeMedia) ListFiles(_ context.Context, folder models.FolderFilter) ([]models.MediaFile, error) {
	f.folder = folder
	return nil, f.err
}

func (f *fakeMedia) GetFile(_ context.Context, id int64) (*models.MediaFile, error) {
	m, ok := f.files[id]
	if !ok {
		return nil, apperr.NotFound("media", id)
	}
	return m, nil
}

func (f *fakeMedia) DeleteFile(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.files[id]; !ok {
		return apperr.NotFound("media", id)
	}
	delete(f.files, id)
	return nil
}

func (f *fakeMedia) AttachToContent(_ context.Context, contentID, mediaID int64, altText *string) (*models.ContentMediaRelation, error) {
	f.altText = altText
	if f.err != nil {
		return nil, f.err
	}
	return &models.ContentMediaRelation{ID: 1, ContentID: contentID, MediaID: mediaID, AltText: altText}, nil
}

func (f *fakeMedia) GetContentMedia(context.Context, int64) ([]models.ContentMediaRelation, error) {
	return nil, f.err
}
