// Package validation implements the local checks a controller runs before a
// record is submitted: required fields, numeric ranges, length limits,
// patterns and enumerations declared on the resource fields.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-crudconsole/pkg/model"
	"github.com/goliatone/go-crudconsole/pkg/record"
)

// Rules is a field's validation metadata as OpenAPI schemas, one for
// numeric values and one for text.
type Rules struct {
	Required bool
	Number   *openapi3.Schema
	Text     *openapi3.Schema
}

// RulesFor builds the schemas for field. Malformed parameters are ignored.
func RulesFor(field model.Field) Rules {
	number := openapi3.NewFloat64Schema()
	number.Format = ""
	text := openapi3.NewStringSchema()
	for _, v := range field.Validations {
		switch v.Kind {
		case model.ValidationRuleMin:
			if val, err := strconv.ParseFloat(v.Params["value"], 64); err == nil {
				number.WithMin(val)
			}
		case model.ValidationRuleMax:
			if val, err := strconv.ParseFloat(v.Params["value"], 64); err == nil {
				number.WithMax(val)
			}
		case model.ValidationRuleMinLength:
			if val, err := strconv.ParseInt(v.Params["value"], 10, 64); err == nil {
				text.WithMinLength(val)
			}
		case model.ValidationRuleMaxLength:
			if val, err := strconv.ParseInt(v.Params["value"], 10, 64); err == nil {
				text.WithMaxLength(val)
			}
		case model.ValidationRulePattern:
			if expr := v.Params["pattern"]; expr != "" {
				if _, err := regexp.Compile(expr); err == nil {
					text.WithPattern(expr)
				}
			}
		}
	}
	if len(field.Enum) > 0 {
		enum := make([]any, len(field.Enum))
		for i, value := range field.Enum {
			enum[i] = value
		}
		text.WithEnum(enum...)
	}
	return Rules{Required: field.Required, Number: number, Text: text}
}

// Check returns the messages produced by value against the rules. label is
// used as the subject of every message.
func (r Rules) Check(label string, value record.Value) []string {
	if value.IsNull() {
		if r.Required {
			return []string{label + " is required"}
		}
		return nil
	}

	var messages []string
	if n, ok := value.Float(); ok && r.Number != nil {
		failed := violations(r.Number.VisitJSON(n, openapi3.MultiErrors()))
		switch {
		case failed["type"]:
			messages = append(messages, label+" must be a number")
		case (failed["minimum"] || failed["maximum"]) && r.Number.Min != nil && r.Number.Max != nil:
			messages = append(messages, fmt.Sprintf("%s must be between %s and %s", label, formatBound(*r.Number.Min), formatBound(*r.Number.Max)))
		case failed["minimum"]:
			messages = append(messages, fmt.Sprintf("%s must be at least %s", label, formatBound(*r.Number.Min)))
		case failed["maximum"]:
			messages = append(messages, fmt.Sprintf("%s must be at most %s", label, formatBound(*r.Number.Max)))
		}
	}
	if text, ok := value.Text(); ok && r.Text != nil {
		if r.Required && strings.TrimSpace(text) == "" {
			messages = append(messages, label+" is required")
		}
		failed := violations(r.Text.VisitJSON(text, openapi3.MultiErrors()))
		if failed["minLength"] {
			messages = append(messages, fmt.Sprintf("%s must be at least %d characters", label, r.Text.MinLength))
		}
		if failed["maxLength"] && r.Text.MaxLength != nil {
			messages = append(messages, fmt.Sprintf("%s must be at most %d characters", label, *r.Text.MaxLength))
		}
		if failed["pattern"] {
			messages = append(messages, label+" does not match the required pattern")
		}
		if failed["enum"] {
			messages = append(messages, fmt.Sprintf("%s must be one of %s", label, strings.Join(enumStrings(r.Text.Enum), ", ")))
		}
	}
	return messages
}

// Record validates the given fields of rec. The returned error, when not nil,
// is a *Error keyed by field name.
func Record(fields []model.Field, rec record.Record) error {
	verr := &Error{}
	for _, field := range fields {
		for _, message := range RulesFor(field).Check(field.DisplayLabel(), rec.Get(field.Name)) {
			verr.Add(field.Name, message)
		}
	}
	return verr.Err()
}

// violations maps a VisitJSON result to the schema keywords that failed.
func violations(err error) map[string]bool {
	failed := map[string]bool{}
	if err == nil {
		return failed
	}
	var list openapi3.MultiError
	if !errors.As(err, &list) {
		list = openapi3.MultiError{err}
	}
	for _, item := range list {
		var schemaErr *openapi3.SchemaError
		if errors.As(item, &schemaErr) {
			failed[schemaErr.SchemaField] = true
		} else {
			failed["type"] = true
		}
	}
	return failed
}

func enumStrings(values []any) []string {
	out := make([]string, len(values))
	for i, value := range values {
		out[i] = fmt.Sprint(value)
	}
	return out
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
