package ai

import (
	"context"
	"fmt"
	"strings"
)

// stubProvider returns deterministic text derived from the prompt. Every
// reply carries a mode marker so stubbed output is easy to spot.
type stubProvider struct{}

func newStub() *stubProvider { return &stubProvider{} }

func (p *stubProvider) Name() string     { return ProviderStub }
func (p *stubProvider) Configured() bool { return true }

func (p *stubProvider) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch opts.Mode {
	case ModeDraft:
		topic := promptField(prompt, "Topic", prompt)
		return fmt.Sprintf("[STUB DRAFT] %s\n\n"+
			"This is a placeholder draft generated without an AI backend.\n\n"+
			"## Introduction\n\nAn overview of %s.\n\n"+
			"## Main Points\n\n%s\n\n"+
			"## Conclusion\n\nA short wrap-up of %s.",
			topic, topic, prompt, topic), nil

	case ModeSEO:
		// "|" separates the reply segments, so it cannot appear inside one.
		title := strings.ReplaceAll(promptField(prompt, "Title", prompt), "|", "/")
		content := promptField(prompt, "Content", "")
		keywords := "stub, test"
		if extra := extractKeywords(content); extra != "" {
			keywords += ", " + extra
		}
		return fmt.Sprintf("[STUB SEO] %s | Placeholder description for %s | %s",
			title, title, keywords), nil

	case ModeAltText:
		filename := promptField(prompt, "Image filename", prompt)
		desc := "[STUB ALT] Image: " + filename
		if c := promptField(prompt, "Context", ""); c != "" {
			desc += " (" + c + ")"
		}
		return desc, nil

	default:
		return "[STUB] " + prompt, nil
	}
}

// trailingLabels are the labels the Service appends after a prompt's
// leading field, always as "\n\n<label>: ".
var trailingLabels = []string{"Context", "Content"}

// promptField returns the value of label, or fallback when the prompt has
// no such field. The leading field ends at the first trailing-label
// separator and a trailing field runs to the end of the prompt, so blank
// lines inside a value are kept.
func promptField(prompt, label, fallback string) string {
	if v, ok := strings.CutPrefix(prompt, label+": "); ok {
		for _, next := range trailingLabels {
			if i := strings.Index(v, "\n\n"+next+": "); i >= 0 {
				v = v[:i]
			}
		}
		return v
	}
	if _, v, ok := strings.Cut(prompt, "\n\n"+label+": "); ok {
		return v
	}
	return fallback
}
