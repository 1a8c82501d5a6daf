// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error kinds that services return and that
// handlers translate into HTTP status codes.
package apperr

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports malformed or missing input. Fields maps a field
// name to a human-readable message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message for field. The first message per field wins.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns e if any field failed, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Invalid is shorthand for a ValidationError on a single field.
func Invalid(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// AuthError reports a missing, invalid or insufficient credential.
// Forbidden distinguishes 403 from 401.
type AuthError struct {
	Msg       string
	Forbidden bool
}

func (e *AuthError) Error() string { return e.Msg }

// Unauthorized returns a 401-class AuthError.
func Unauthorized(msg string) error { return &AuthError{Msg: msg} }

// Forbidden returns a 403-class AuthError.
func Forbidden(msg string) error { return &AuthError{Msg: msg, Forbidden: true} }

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// NotFound returns a NotFoundError for entity id.
func NotFound(entity string, id any) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ProviderError wraps a failure of a configured AI provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ai provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// StorageError wraps a storage backend failure other than "already absent".
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
