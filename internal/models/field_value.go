// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateOnly is the calendar date layout accepted for date fields.
const dateOnly = "2006-01-02"

// FieldValue is a content field value decoded according to its declared
// type. Exactly one of the typed members is meaningful, selected by Type.
// Raw always holds the string as stored.
type FieldValue struct {
	Type    FieldType
	Raw     string
	Number  float64
	Bool    bool
	Date    time.Time
	JSON    json.RawMessage
	MediaID int64
}

// ParseFieldValue decodes raw according to t. Textual types accept any
// string; the other types return an error describing the expected format.
func ParseFieldValue(t FieldType, raw string) (FieldValue, error) {
	v := FieldValue{Type: t, Raw: raw}

	switch t {
	case FieldTypeText, FieldTypeRichText, FieldTypeMarkdown:
		return v, nil

	case FieldTypeNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return v, fmt.Errorf("must be a number")
		}
		v.Number = n

	case FieldTypeBoolean:
		switch strings.TrimSpace(raw) {
		case "true":
			v.Bool = true
		case "false":
			v.Bool = false
		default:
			return v, fmt.Errorf("must be true or false")
		}

	case FieldTypeDate:
		s := strings.TrimSpace(raw)
		d, err := time.Parse(time.RFC3339, s)
		if err != nil {
			d, err = time.Parse(dateOnly, s)
		}
		if err != nil {
			return v, fmt.Errorf("must be a date (YYYY-MM-DD or RFC 3339)")
		}
		v.Date = d

	case FieldTypeJSON:
		if !json.Valid([]byte(raw)) {
			return v, fmt.Errorf("must be valid JSON")
		}
		v.JSON = json.RawMessage(raw)

	case FieldTypeMedia:
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			return v, fmt.Errorf("must be a media file id")
		}
		v.MediaID = id

	default:
		return v, fmt.Errorf("unknown field type %q", t)
	}

	return v, nil
}

// Any returns the decoded value in the shape it should take in a JSON
// document: numbers as numbers, booleans as booleans, JSON inline.
func (v FieldValue) Any() any {
	switch v.Type {
	case FieldTypeNumber:
		return v.Number
	case FieldTypeBoolean:
		return v.Bool
	case FieldTypeDate:
		return v.Date.Format(time.RFC3339)
	case FieldTypeJSON:
		return v.JSON
	case FieldTypeMedia:
		return v.MediaID
	default:
		return v.Raw
	}
}
