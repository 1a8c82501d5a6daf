package handlers

import (
	"strconv"
	"unicode/utf8"

	"aicms/internal/apperr"
)

// Request size limits. The services validate semantics; these bound the
// shape of what a client may send.
const (
	maxTitleLen   = 300
	maxSlugLen    = 300
	maxValueLen   = 100_000
	maxFields     = 200
	maxPromptLen  = 10_000
	maxContextLen = 50_000
	maxAltTextLen = 500
	maxTypeName   = 100
)

// lengthCheck accumulates "too long" errors.
type lengthCheck struct {
	verr apperr.ValidationError
}

func (c *lengthCheck) max(field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		c.verr.Add(field, tooLong(limit))
	}
}

func (c *lengthCheck) maxPtr(field string, value *string, limit int) {
	if value != nil {
		c.max(field, *value, limit)
	}
}

func (c *lengthCheck) maxCount(field string, n, limit int) {
	if n > limit {
		c.verr.Add(field, "too many entries")
	}
}

func (c *lengthCheck) err() error {
	return c.verr.OrNil()
}

func tooLong(limit int) string {
	return "is too long (max " + strconv.Itoa(limit) + " characters)"
}
