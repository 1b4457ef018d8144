package record

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-crudconsole/pkg/model"
)

// DecodeError reports a payload that does not match the resource fields.
type DecodeError struct {
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return "record: " + e.Reason
	}
	return fmt.Sprintf("record: field %q: %s", e.Field, e.Reason)
}

// Decode converts a decoded JSON object into a Record typed against the
// resource fields. Unknown keys are ignored; missing keys decode as Null.
func Decode(res model.Resource, payload any) (Record, error) {
	object, ok := payload.(map[string]any)
	if !ok {
		return nil, &DecodeError{Reason: fmt.Sprintf("expected object, got %T", payload)}
	}
	rec := make(Record, len(res.Fields))
	for _, field := range res.Fields {
		value, err := decodeValue(field, object[field.Name])
		if err != nil {
			return nil, err
		}
		rec[field.Name] = value
	}
	return rec, nil
}

// DecodeSet converts a decoded JSON array into a ResultSet.
func DecodeSet(res model.Resource, payload any) (ResultSet, error) {
	if payload == nil {
		return ResultSet{}, nil
	}
	items, ok := payload.([]any)
	if !ok {
		return nil, &DecodeError{Reason: fmt.Sprintf("expected array, got %T", payload)}
	}
	out := make(ResultSet, 0, len(items))
	for idx, item := range items {
		rec, err := Decode(res, item)
		if err != nil {
			return nil, fmt.Errorf("record: item %d: %w", idx, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeValue(field model.Field, raw any) (Value, error) {
	if raw == nil {
		return NullValue(), nil
	}
	fail := func(format string, args ...any) (Value, error) {
		return Value{}, &DecodeError{Field: field.Name, Reason: fmt.Sprintf(format, args...)}
	}

	switch field.Type {
	case model.FieldTypeInteger:
		switch typed := raw.(type) {
		case json.Number:
			if v, err := typed.Int64(); err == nil {
				return IntValue(v), nil
			}
			f, err := typed.Float64()
			if err != nil || f != math.Trunc(f) {
				return fail("expected integer, got %s", typed)
			}
			return IntValue(int64(f)), nil
		case float64:
			if typed != math.Trunc(typed) {
				return fail("expected integer, got %v", typed)
			}
			return IntValue(int64(typed)), nil
		case string:
			v, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
			if err != nil {
				return fail("expected integer, got %q", typed)
			}
			return IntValue(v), nil
		}
	case model.FieldTypeFloat:
		switch typed := raw.(type) {
		case json.Number:
			f, err := typed.Float64()
			if err != nil {
				return fail("expected number, got %s", typed)
			}
			return FloatValue(f), nil
		case float64:
			return FloatValue(typed), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
			if err != nil {
				return fail("expected number, got %q", typed)
			}
			return FloatValue(f), nil
		}
	case model.FieldTypeDate:
		if typed, ok := raw.(string); ok {
			t, err := ParseDate(typed)
			if err != nil {
				return fail("%v", err)
			}
			return DateValue(t), nil
		}
	case model.FieldTypeString:
		switch typed := raw.(type) {
		case string:
			return StringValue(typed), nil
		case json.Number:
			return StringValue(typed.String()), nil
		case bool:
			return StringValue(strconv.FormatBool(typed)), nil
		}
	}
	return fail("unexpected %T for %s field", raw, field.Type)
}
