package content

import (
	"fmt"
	"strings"

	"aicms/internal/apperr"
	"aicms/internal/models"
)

// ValidateFields checks inputs against the field definitions of ct and
// returns them with each Type taken from its definition. Names must be
// unique and defined, non-blank values must parse as their declared type,
// and every required definition must be present with a non-blank value.
//
// A content type with no definitions accepts any well-formed field set.
func ValidateFields(ct *models.ContentType, inputs []models.FieldInput) ([]models.FieldInput, error) {
	verr := &apperr.ValidationError{}
	out := make([]models.FieldInput, 0, len(inputs))
	values := make(map[string]string, len(inputs))

	for i, in := range inputs {
		key := fmt.Sprintf("fields[%d]", i)
		name := strings.TrimSpace(in.Name)
		if name == "" {
			verr.Add(key+".name", "is required")
			continue
		}
		if _, dup := values[name]; dup {
			verr.Add(key+".name", fmt.Sprintf("duplicate field %q", name))
			continue
		}
		values[name] = in.Value

		typ := in.Type
		if len(ct.Fields) > 0 {
			def, ok := ct.Field(name)
			if !ok {
				verr.Add(key+".name", fmt.Sprintf("field %q is not defined by content type %q", name, ct.Name))
				continue
			}
			typ = def.Type
		} else {
			if typ == "" {
				typ = models.FieldTypeText
			}
			if !typ.Valid() {
				verr.Add(key+".type", fmt.Sprintf("unknown field type %q", in.Type))
				continue
			}
		}

		if strings.TrimSpace(in.Value) != "" {
			if _, err := models.ParseFieldValue(typ, in.Value); err != nil {
				verr.Add(key+".value", err.Error())
				continue
			}
		}
		out = append(out, models.FieldInput{Name: name, Type: typ, Value: in.Value})
	}

	for _, def := range ct.Fields {
		if !def.Required {
			continue
		}
		v, ok := values[def.Name]
		switch {
		case !ok:
			verr.Add(def.Name, "is required")
		case strings.TrimSpace(v) == "":
			verr.Add(def.Name, "must not be empty")
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}
