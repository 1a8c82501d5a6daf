// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings
// and numeric-suffix collision resolution against a backing store.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// nonAlphanumeric matches every run of characters outside [a-z0-9].
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
//
// An input with no ASCII letters or digits yields "".
func Generate(s string) string {
	result := strings.ToLower(s)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Unique derives the base slug from title and returns the first candidate
// of base, base-1, base-2, … for which exists reports false. Candidates are
// probed one at a time. The check is not atomic with the caller's insert;
// a concurrent writer can still claim the same slug.
func Unique(ctx context.Context, title string, exists ExistsFunc) (string, error) {
	base := Generate(title)

	taken, err := exists(ctx, base)
	if err != nil {
		return "", fmt.Errorf("slug exists %q: %w", base, err)
	}
	if !taken {
		return base, nil
	}

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("%s-%d", base, n)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("slug exists %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
}
