// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// FieldType is the declared type of a field in a content type definition.
// It decides how the stored string value is interpreted.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeRichText FieldType = "rich_text"
	FieldTypeMarkdown FieldType = "markdown"
	FieldTypeNumber   FieldType = "number"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeDate     FieldType = "date"
	FieldTypeJSON     FieldType = "json"
	FieldTypeMedia    FieldType = "media"
)

// FieldTypes lists every supported field type in display order.
var FieldTypes = []FieldType{
	FieldTypeText, FieldTypeRichText, FieldTypeMarkdown, FieldTypeNumber,
	FieldTypeBoolean, FieldTypeDate, FieldTypeJSON, FieldTypeMedia,
}

// Valid reports whether t is a supported field type.
func (t FieldType) Valid() bool {
	for _, ft := range FieldTypes {
		if t == ft {
			return true
		}
	}
	return false
}

// IsTextual returns true for types whose value is free-form text.
func (t FieldType) IsTextual() bool {
	return t == FieldTypeText || t == FieldTypeRichText || t == FieldTypeMarkdown
}

// FieldDefinition describes one named, typed field of a content type.
type FieldDefinition struct {
	ID            int64     `json:"id"`
	ContentTypeID int64     `json:"contentTypeId"`
	Name          string    `json:"name"`
	Type          FieldType `json:"type"`
	Required      bool      `json:"required"`
}

// ContentType is a named schema for structured content.
type ContentType struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Fields    []FieldDefinition `json:"fields"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Field returns the definition with the given name, if any.
func (ct *ContentType) Field(name string) (FieldDefinition, bool) {
	for _, f := range ct.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}
