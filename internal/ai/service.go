package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"aicms/internal/apperr"
)

// SEOMetadata is the parsed result of an SEO generation.
type SEOMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// Request carries the free-form inputs of a Generate call. Prompt is the
// topic (draft), title (seo) or filename (alt_text); Context is optional
// extra text, used as the content body in seo mode.
type Request struct {
	Prompt  string
	Context string
}

// Result is the outcome of a Generate call.
type Result struct {
	Text     string
	Mode     Mode
	Provider string // the provider that actually served the call
}

// Service builds mode-specific prompts and dispatches them to the selected
// provider, or to the stub when that provider is not configured.
type Service struct {
	provider Provider
	stub     Provider
}

// NewService creates a Service around the selected provider.
func NewService(p Provider) *Service {
	if p == nil {
		p = newStub()
	}
	return &Service{provider: p, stub: newStub()}
}

// ProviderName returns the name of the selected provider.
func (s *Service) ProviderName() string { return s.provider.Name() }

// effective picks the provider for one call and logs the choice.
func (s *Service) effective(mode Mode) Provider {
	p := s.provider
	if !p.Configured() {
		p = s.stub
	}
	slog.Info("ai generate", "mode", mode, "requested", s.provider.Name(), "effective", p.Name())
	return p
}

func (s *Service) dispatch(ctx context.Context, prompt string, mode Mode) (string, Provider, error) {
	p := s.effective(mode)
	text, err := p.Generate(ctx, prompt, Options{Mode: mode})
	if err != nil {
		return "", p, &apperr.ProviderError{Provider: p.Name(), Err: err}
	}
	return text, p, nil
}

// Draft generates an article draft for topic.
func (s *Service) Draft(ctx context.Context, topic, extra string) (string, error) {
	text, _, err := s.draft(ctx, topic, extra)
	return text, err
}

func (s *Service) draft(ctx context.Context, topic, extra string) (string, Provider, error) {
	prompt := "Topic: " + topic
	if extra != "" {
		prompt += "\n\nContext: " + extra
	}
	return s.dispatch(ctx, prompt, ModeDraft)
}

// SEO generates a title, meta description and keywords for the content.
func (s *Service) SEO(ctx context.Context, title, content string) (*SEOMetadata, error) {
	meta, _, err := s.seo(ctx, title, content)
	return meta, err
}

func (s *Service) seo(ctx context.Context, title, content string) (*SEOMetadata, Provider, error) {
	prompt := "Title: " + title + "\n\nContent: " + content
	reply, p, err := s.dispatch(ctx, prompt, ModeSEO)
	if err != nil {
		return nil, p, err
	}
	return parseSEO(reply, title, content, p.Name() == ProviderStub), p, nil
}

// parseSEO reads a "Title | Description | Keywords" reply. Replies with
// fewer segments keep a truncation of the reply as description and fall
// back to locally extracted keywords.
func parseSEO(reply, title, content string, stubbed bool) *SEOMetadata {
	parts := strings.Split(reply, "|")
	if len(parts) >= 3 {
		return &SEOMetadata{
			Title:       strings.TrimSpace(parts[0]),
			Description: strings.TrimSpace(parts[1]),
			Keywords:    strings.TrimSpace(parts[2]),
		}
	}

	meta := &SEOMetadata{
		Title:       title,
		Description: truncate(reply, 155),
		Keywords:    extractKeywords(content),
	}
	if stubbed {
		meta.Title = truncate(reply, 60)
	}
	return meta
}

// AltText generates alt text for an image.
func (s *Service) AltText(ctx context.Context, filename, extra string) (string, error) {
	text, _, err := s.altText(ctx, filename, extra)
	return text, err
}

func (s *Service) altText(ctx context.Context, filename, extra string) (string, Provider, error) {
	prompt := "Image filename: " + filename
	if extra != "" {
		prompt += "\n\nContext: " + extra
	}
	return s.dispatch(ctx, prompt, ModeAltText)
}

// Generate runs mode against req. SEO results are returned JSON-encoded.
func (s *Service) Generate(ctx context.Context, mode Mode, req Request) (*Result, error) {
	var (
		text string
		p    Provider
		err  error
	)

	switch mode {
	case ModeDraft:
		text, p, err = s.draft(ctx, req.Prompt, req.Context)
	case ModeSEO:
		var meta *SEOMetadata
		meta, p, err = s.seo(ctx, req.Prompt, req.Context)
		if err == nil {
			var b []byte
			b, err = json.Marshal(meta)
			text = string(b)
		}
	case ModeAltText:
		text, p, err = s.altText(ctx, req.Prompt, req.Context)
	default:
		return nil, apperr.Invalid("mode", fmt.Sprintf("invalid mode %q: must be draft, seo or alt_text", mode))
	}
	if err != nil {
		return nil, err
	}

	return &Result{Text: text, Mode: mode, Provider: p.Name()}, nil
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
