// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"aicms/internal/apperr"
	"aicms/internal/auth"
	"aicms/internal/models"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// ClaimsKey is the context key for the verified token claims.
const ClaimsKey contextKey = "claims"

// TokenParser verifies a bearer token.
type TokenParser interface {
	ParseToken(ctx context.Context, token string) (*auth.Claims, error)
}

// Authenticate requires a valid bearer token and stores its claims in the
// request context. A missing token is a 401, an invalid, expired or
// revoked one a 403.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, r, http.StatusUnauthorized, errorBody{Error: auth.MsgTokenRequired})
				return
			}

			claims, err := tokens.ParseToken(r.Context(), token)
			if err != nil {
				var ae *apperr.AuthError
				if errors.As(err, &ae) && !ae.Forbidden {
					writeError(w, r, http.StatusUnauthorized, errorBody{Error: ae.Msg})
					return
				}
				writeError(w, r, http.StatusForbidden, errorBody{Error: auth.MsgInvalidToken})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole returns 403 unless the authenticated user has one of roles.
// Must be applied after Authenticate.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	required := make([]string, len(roles))
	for i, role := range roles {
		required[i] = string(role)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromCtx(r.Context())
			if claims == nil {
				writeError(w, r, http.StatusUnauthorized, errorBody{Error: "Authentication required"})
				return
			}
			if !slices.Contains(roles, claims.Role) {
				writeError(w, r, http.StatusForbidden, errorBody{
					Error:    "Insufficient permissions",
					Required: required,
					Current:  string(claims.Role),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireEditor admits admins and editors.
var RequireEditor = RequireRole(models.RoleAdmin, models.RoleEditor)

// ClaimsFromCtx extracts the token claims from the request context.
// Returns nil if the request was not authenticated.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
