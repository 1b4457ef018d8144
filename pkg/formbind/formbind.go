// Package formbind moves records in and out of form inputs. Reading coerces
// raw strings into typed values and reports coercion failures as validation
// errors; writing renders typed values back into input text.
package formbind

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-crudconsole/pkg/model"
	"github.com/goliatone/go-crudconsole/pkg/record"
	"github.com/goliatone/go-crudconsole/pkg/validation"
	"github.com/goliatone/go-crudconsole/pkg/view"
)

// FieldError describes a single input that could not be coerced.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// Coerce converts raw input text into a value of the field's type. Input is
// trimmed first. Empty input is Null on nullable fields and an error on
// required ones.
func Coerce(field model.Field, raw string) (record.Value, error) {
	return coerce(field.Name, field.DisplayLabel(), field.Type, !field.Nullable(), raw)
}

// CoerceParam is Coerce for query parameters.
func CoerceParam(param model.QueryParam, raw string) (record.Value, error) {
	return coerce(param.Name, param.DisplayLabel(), param.Type, param.Required, raw)
}

func coerce(name, label string, kind model.FieldType, required bool, raw string) (record.Value, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		if required {
			return record.Value{}, &FieldError{Field: name, Message: label + " is required"}
		}
		return record.NullValue(), nil
	}

	switch kind {
	case model.FieldTypeInteger:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return record.Value{}, &FieldError{Field: name, Message: label + " must be a whole number"}
		}
		return record.IntValue(v), nil
	case model.FieldTypeFloat:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return record.Value{}, &FieldError{Field: name, Message: label + " must be a number"}
		}
		return record.FloatValue(v), nil
	case model.FieldTypeDate:
		t, err := record.ParseDate(text)
		if err != nil {
			return record.Value{}, &FieldError{Field: name, Message: label + " must be a date (YYYY-MM-DD)"}
		}
		return record.DateValue(t), nil
	default:
		return record.StringValue(text), nil
	}
}

// ReadForm builds a record from the inputs bound to fields. Every field that
// fails coercion is reported in the returned *validation.Error.
func ReadForm(fields []model.Field, inputs view.Inputs) (record.Record, error) {
	rec := make(record.Record, len(fields))
	verr := &validation.Error{}
	for _, field := range fields {
		value, err := Coerce(field, inputs.Value(field.InputID()))
		if err != nil {
			verr.Add(field.Name, err.Error())
			continue
		}
		rec[field.Name] = value
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return rec, nil
}

// ReadFilter builds a filter from query parameter inputs. Blank inputs take
// the parameter default; blank optional parameters without a default are
// omitted.
func ReadFilter(params []model.QueryParam, inputs view.Inputs) (record.Filter, error) {
	filter := make(record.Filter, len(params))
	verr := &validation.Error{}
	for _, param := range params {
		raw := strings.TrimSpace(inputs.Value(param.Name))
		if raw == "" {
			raw = param.Default
		}
		value, err := CoerceParam(param, raw)
		if err != nil {
			verr.Add(param.Name, err.Error())
			continue
		}
		if value.IsNull() {
			continue
		}
		filter[param.Name] = value
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return filter, nil
}

// WriteForm renders rec into the inputs bound to fields. Null values clear
// the input, except on enumerated fields which fall back to their default
// option.
func WriteForm(rec record.Record, fields []model.Field, inputs view.Inputs) {
	for _, field := range fields {
		inputs.SetValue(field.InputID(), displayValue(field, rec.Get(field.Name)))
	}
}

// Clear resets the inputs bound to fields to their defaults.
func Clear(fields []model.Field, inputs view.Inputs) {
	for _, field := range fields {
		inputs.SetValue(field.InputID(), defaultValue(field))
	}
}

func displayValue(field model.Field, value record.Value) string {
	if value.IsNull() {
		return defaultValue(field)
	}
	if field.Type == model.FieldTypeDate {
		if text, ok := value.Text(); ok {
			return record.FormatDate(text)
		}
	}
	return value.String()
}

func defaultValue(field model.Field) string {
	if field.Default != "" {
		return field.Default
	}
	if len(field.Enum) > 0 {
		return field.Enum[0]
	}
	return ""
}
