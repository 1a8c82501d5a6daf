// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	geminiDefaultBaseURL     = "https://generativelanguage.googleapis.com"
	geminiDefaultModel       = "gemini-2.0-flash"
	geminiDefaultTemperature = 0.7
	geminiDefaultMaxTokens   = 1024
)

// geminiProvider implements the Provider interface using the Google
// Gemini REST API (POST /v1beta/models/{model}:generateContent).
type geminiProvider struct {
	config ProviderConfig
	client *http.Client
}

// newGemini creates a new Google Gemini provider.
func newGemini(cfg ProviderConfig) *geminiProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = geminiDefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}
	return &geminiProvider{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *geminiProvider) Name() string { return ProviderGemini }

func (p *geminiProvider) Configured() bool { return p.config.APIKey != "" }

// Generate wraps prompt in the mode's instructions and returns the text of
// the first candidate.
func (p *geminiProvider) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if !p.Configured() {
		return "", fmt.Errorf("gemini: API key not configured")
	}

	system, user := buildPrompt(prompt, opts.Mode)

	cfg := geminiGenerationConfig{
		Temperature:     geminiDefaultTemperature,
		MaxOutputTokens: geminiDefaultMaxTokens,
	}
	if opts.Temperature > 0 {
		cfg.Temperature = opts.Temperature
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = opts.MaxTokens
	}

	body := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: user}}},
		},
		GenerationConfig: cfg,
	}
	if system != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("gemini marshal: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.config.BaseURL, p.config.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("gemini unmarshal: %w", err)
	}

	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates returned")
	}

	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text, nil
		}
	}

	return "", fmt.Errorf("gemini: no text in response")
}

// buildPrompt returns the system instruction and user prompt for mode.
func buildPrompt(prompt string, mode Mode) (system, user string) {
	switch mode {
	case ModeDraft:
		return "You are a professional content writer.",
			"Generate a well-structured article draft based on the following request:\n\n" +
				prompt + "\n\n" +
				"Provide a complete article with:\n" +
				"- Engaging introduction\n" +
				"- Well-organized main content with sections\n" +
				"- Clear conclusion\n" +
				"- Professional tone\n\n" +
				"Keep it concise and informative (300-500 words)."

	case ModeSEO:
		return "You are an SEO specialist.",
			"Generate SEO metadata for the following content:\n\n" +
				prompt + "\n\n" +
				"Provide the response in this exact format:\n" +
				"SEO Title (60 characters max) | Meta Description (155 characters max) | Keywords (comma-separated, 5-10 keywords)\n\n" +
				"Example: Go Concurrency Patterns | Learn the channel and worker-pool patterns used in production Go services | go, golang, concurrency, channels, goroutines"

	case ModeAltText:
		return "You are an accessibility specialist.",
			"Generate descriptive alt text for an image based on this information:\n\n" +
				prompt + "\n\n" +
				"Provide a concise, descriptive alt text (125 characters max) that would help visually impaired users understand the image content."

	default:
		return "", prompt
	}
}

// --- Gemini API types ---

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"system_instruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}
