// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth signs users in with email and password (plus a TOTP code
// when two-factor is enabled), issues HS256 bearer tokens, and revokes
// them on logout through a deny-list.
package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"aicms/internal/apperr"
	"aicms/internal/models"
)

const totpIssuer = "AICMS"

// Messages returned to clients. They match what the admin UI expects.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgTokenRequired      = "Access token required"
	MsgInvalidToken       = "Invalid or expired token"
	MsgCodeRequired       = "Two-factor code required"
	MsgInvalidCode        = "Invalid two-factor code"
)

// UserStore is the subset of user persistence the auth service needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
	SetTOTPSecret(ctx context.Context, userID int64, secret string) error
	EnableTOTP(ctx context.Context, userID int64) error
}

// Denylist records revoked token ids until they expire.
type Denylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Claims is the payload of an issued bearer token.
type Claims struct {
	UserID int64       `json:"uid"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// TOTPSetup carries what a client needs to enrol an authenticator app.
type TOTPSetup struct {
	Secret string `json:"secret"`
	URL    string `json:"otpauthUrl"`
	QRCode string `json:"qrCode"` // base64 PNG
}

// Service implements login, token verification and two-factor enrolment.
type Service struct {
	users  UserStore
	denied Denylist
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates an auth Service. denied may be nil, in which case
// logout cannot revoke tokens before they expire.
func NewService(users UserStore, denied Denylist, secret string, ttl time.Duration) *Service {
	return &Service{
		users:  users,
		denied: denied,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Login verifies the credentials and returns a signed token. Users with
// two-factor enabled must also supply a valid code.
func (s *Service) Login(ctx context.Context, email, password, code string) (*LoginResult, error) {
	email = strings.TrimSpace(email)

	var ve apperr.ValidationError
	if email == "" {
		ve.Add("email", "Email is required")
	}
	if password == "" {
		ve.Add("password", "Password is required")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if user == nil || !s.users.CheckPassword(user, password) {
		slog.Info("login rejected", "email", email)
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}

	if user.RequiresTOTP() {
		if code == "" {
			return nil, apperr.Unauthorized(MsgCodeRequired)
		}
		if !totp.Validate(code, *user.TOTPSecret) {
			slog.Info("login rejected: bad totp code", "user_id", user.ID)
			return nil, apperr.Unauthorized(MsgInvalidCode)
		}
	}

	token, exp, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// IssueToken signs a new token for user.
func (s *Service) IssueToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// ParseToken verifies the signature, expiry and revocation state of a
// token. Any failure is reported as a 403 AuthError.
func (s *Service) ParseToken(ctx context.Context, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperr.Unauthorized(MsgTokenRequired)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, apperr.Forbidden(MsgInvalidToken)
	}

	if s.denied != nil && claims.ID != "" {
		revoked, err := s.denied.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Without the deny-list a revoked token could pass; fail closed.
			slog.Error("token deny-list check failed", "error", err)
			return nil, apperr.Forbidden(MsgInvalidToken)
		}
		if revoked {
			return nil, apperr.Forbidden(MsgInvalidToken)
		}
	}

	return claims, nil
}

// Logout revokes the token described by claims for its remaining lifetime.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if s.denied == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if err := s.denied.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	slog.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// CurrentUser loads the user a token was issued to.
func (s *Service) CurrentUser(ctx context.Context, claims *Claims) (*models.User, error) {
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user", claims.UserID)
	}
	return user, nil
}

// SetupTOTP generates a new secret for the user and returns it with an
// otpauth URL and a QR code. Two-factor stays disabled until EnableTOTP
// confirms a code generated from the new secret.
func (s *Service) SetupTOTP(ctx context.Context, userID int64) (*TOTPSetup, error) {
	user, err := s.CurrentUser(ctx, &Claims{UserID: userID})
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp key: %w", err)
	}

	if err := s.users.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, fmt.Errorf("save totp secret: %w", err)
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}

	return &TOTPSetup{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: base64.StdEncoding.EncodeToString(qrPNG),
	}, nil
}

// EnableTOTP turns two-factor on once code matches the pending secret.
func (s *Service) EnableTOTP(ctx context.Context, userID int64, code string) error {
	user, err := s.CurrentUser(ctx, &Claims{UserID: userID})
	if err != nil {
		return err
	}
	if user.TOTPSecret == nil {
		return apperr.Invalid("code", "Two-factor setup has not been started")
	}
	if code == "" {
		return apperr.Invalid("code", "Code is required")
	}
	if !totp.Validate(code, *user.TOTPSecret) {
		return apperr.Invalid("code", MsgInvalidCode)
	}

	if err := s.users.EnableTOTP(ctx, user.ID); err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	slog.Info("two-factor enabled", "user_id", user.ID)
	return nil
}
