// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai generates article drafts, SEO metadata and image alt text.
// Text comes from a Provider: either the Gemini REST API or a deterministic
// offline stub. The Service routes each call to the stub whenever the
// selected provider is not configured, and logs which provider served it.
package ai

import (
	"context"
	"log/slog"
	"strings"
)

// Mode selects the kind of text to generate.
type Mode string

const (
	ModeDraft   Mode = "draft"
	ModeSEO     Mode = "seo"
	ModeAltText Mode = "alt_text"
)

// Valid reports whether m is a known generation mode.
func (m Mode) Valid() bool {
	return m == ModeDraft || m == ModeSEO || m == ModeAltText
}

// Options tunes a single generation call.
type Options struct {
	Mode        Mode
	MaxTokens   int     // 0 uses the provider default
	Temperature float64 // 0 uses the provider default
}

// Provider defines the interface that all AI providers must implement.
type Provider interface {
	// Name returns the provider identifier (e.g., "gemini", "stub").
	Name() string

	// Configured reports whether the provider has the credentials it needs.
	Configured() bool

	// Generate sends prompt to the model and returns the generated text.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// ProviderConfig holds the credentials and settings for a remote provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Provider names accepted by NewProvider.
const (
	ProviderGemini = "gemini"
	ProviderStub   = "stub"
)

// NewProvider selects a provider by name. Unknown names and a Gemini
// selection without an API key both fall back to the stub with a warning.
func NewProvider(name string, cfg ProviderConfig) Provider {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderGemini:
		p := newGemini(cfg)
		if !p.Configured() {
			slog.Warn("GEMINI_API_KEY not set, using stub AI provider")
			return newStub()
		}
		return p
	case ProviderStub:
		return newStub()
	default:
		slog.Warn("unknown AI provider, using stub", "provider", name)
		return newStub()
	}
}
