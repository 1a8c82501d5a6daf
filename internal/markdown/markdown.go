// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts markdown and rich_text field values into HTML
// for the delivery API. Raw HTML is passed through so that rich text saved
// as HTML by the admin editor survives rendering.
package markdown

import (
	"bytes"
	"encoding/json"
	"strings"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"aicms/internal/models"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // rich_text may already be HTML
	),
)

// ToHTML converts Markdown source into HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Renders reports whether a field of type t with the given value is
// rendered to HTML on delivery. Rich text stored as a JSON editor document
// is delivered as-is.
func Renders(t models.FieldType, value string) bool {
	switch t {
	case models.FieldTypeMarkdown:
		return true
	case models.FieldTypeRichText:
		v := strings.TrimSpace(value)
		if strings.HasPrefix(v, "{") || strings.HasPrefix(v, "[") {
			return !json.Valid([]byte(v))
		}
		return true
	}
	return false
}
