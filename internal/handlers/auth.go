// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"aicms/internal/auth"
	"aicms/internal/middleware"
	"aicms/internal/models"
)

// AuthService is the authentication behaviour the handlers depend on.
type AuthService interface {
	Login(ctx context.Context, email, password, code string) (*auth.LoginResult, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	CurrentUser(ctx context.Context, claims *auth.Claims) (*models.User, error)
	SetupTOTP(ctx context.Context, userID int64) (*auth.TOTPSetup, error)
	EnableTOTP(ctx context.Context, userID int64, code string) error
}

// Auth groups handlers for login, logout and two-factor enrolment.
type Auth struct {
	auth AuthService
}

// NewAuth creates a new Auth handler group.
func NewAuth(svc AuthService) *Auth {
	return &Auth{auth: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// Login verifies credentials and returns a bearer token.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := a.auth.Login(r.Context(), req.Email, req.Password, req.Code)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// Logout revokes the caller's token.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.auth.Logout(r.Context(), middleware.ClaimsFromCtx(r.Context())); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user, err := a.auth.CurrentUser(r.Context(), middleware.ClaimsFromCtx(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

// TOTPSetup starts two-factor enrolment and returns the secret and QR code.
func (a *Auth) TOTPSetup(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	setup, err := a.auth.SetupTOTP(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, setup)
}

type totpEnableRequest struct {
	Code string `json:"code"`
}

// TOTPEnable confirms enrolment with a code from the authenticator app.
func (a *Auth) TOTPEnable(w http.ResponseWriter, r *http.Request) {
	var req totpEnableRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	claims := middleware.ClaimsFromCtx(r.Context())
	if err := a.auth.EnableTOTP(r.Context(), claims.UserID, req.Code); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"totpEnabled": true})
}
