// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"aicms/internal/ai"
	"aicms/internal/apperr"
)

// Generator produces AI-assisted text.
type Generator interface {
	Generate(ctx context.Context, mode ai.Mode, req ai.Request) (*ai.Result, error)
}

// AI groups the AI generation handler.
type AI struct {
	gen Generator
	dev bool // expose provider error details
}

// NewAI creates a new AI handler group. When dev is true provider failures
// are returned verbatim; otherwise they are redacted.
func NewAI(gen Generator, dev bool) *AI {
	return &AI{gen: gen, dev: dev}
}

type generateRequest struct {
	Mode    ai.Mode `json:"mode"`
	Prompt  string  `json:"prompt"`
	Context string  `json:"context"`
}

type generateResponse struct {
	Result   string  `json:"result"`
	Mode     ai.Mode `json:"mode"`
	Provider string  `json:"provider"`
}

// Generate runs one draft, seo or alt_text generation.
func (h *AI) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c lengthCheck
	if !req.Mode.Valid() {
		c.verr.Add("mode", "Mode must be one of: draft, seo, alt_text")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.verr.Add("prompt", "Prompt is required")
	}
	c.max("prompt", req.Prompt, maxPromptLen)
	c.max("context", req.Context, maxContextLen)
	if err := c.err(); err != nil {
		respondError(w, r, err)
		return
	}

	res, err := h.gen.Generate(r.Context(), req.Mode, ai.Request{Prompt: req.Prompt, Context: req.Context})
	if err != nil {
		var pe *apperr.ProviderError
		if errors.As(err, &pe) {
			slog.Error("ai generate failed", "provider", pe.Provider, "mode", req.Mode, "error", pe.Err)
			msg := "Failed to generate content"
			if h.dev {
				msg = pe.Error()
			}
			writeError(w, r, http.StatusInternalServerError, msg)
			return
		}
		respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, generateResponse{
		Result:   res.Text,
		Mode:     res.Mode,
		Provider: res.Provider,
	})
}
