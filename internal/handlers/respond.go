// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP handlers of the aicms API.
// Services return typed errors from internal/apperr; respondError maps
// them onto status codes so every handler answers failures the same way.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"aicms/internal/apperr"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeJSON renders v with the given status code.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// writeError renders a plain error message.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, ErrorResponse{Error: msg})
}

// respondError maps a service error onto an HTTP response. Unknown errors
// are logged and answered with a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *apperr.ValidationError
		ae *apperr.AuthError
		nf *apperr.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, r, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: ve.Fields})
	case errors.As(err, &ae):
		status := http.StatusUnauthorized
		if ae.Forbidden {
			status = http.StatusForbidden
		}
		writeError(w, r, status, ae.Msg)
	case errors.As(err, &nf):
		writeError(w, r, http.StatusNotFound, notFoundMessage(nf.Entity))
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

// notFoundMessage turns "content type" into "Content type not found".
func notFoundMessage(entity string) string {
	if entity == "" {
		return "Not found"
	}
	return strings.ToUpper(entity[:1]) + entity[1:] + " not found"
}

// decodeJSON reads the request body into v. A malformed body is reported
// as a 400 and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		writeJSON(w, r, http.StatusBadRequest, ErrorResponse{
			Error:  "Invalid JSON body",
			Fields: map[string]string{"body": err.Error()},
		})
		return false
	}
	return true
}

// idParam parses a positive integer URL parameter. An invalid value is
// reported as a 400 and false is returned.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, r, http.StatusBadRequest, ErrorResponse{
			Error:  "Validation failed",
			Fields: map[string]string{name: fmt.Sprintf("%s must be a positive integer", name)},
		})
		return 0, false
	}
	return id, true
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "Route not found")
}

// MethodNotAllowed answers known routes hit with an unsupported method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}
