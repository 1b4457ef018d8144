package record

import (
	"encoding/json"
	"strconv"
	"time"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

// Value is a single typed field value. The zero Value is Null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	t    time.Time
}

func NullValue() Value { return Value{} }

func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }

func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

func StringValue(v string) Value { return Value{kind: KindString, s: v} }

// DateValue keeps only the calendar date of t.
func DateValue(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Int() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

func (v Value) Date() (time.Time, bool) {
	if v.kind != KindDate {
		return time.Time{}, false
	}
	return v.t, true
}

// String renders the value the way it is shown in form inputs and table
// cells. Null renders as the empty string and dates as YYYY-MM-DD.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString:
		return v.s
	case KindDate:
		return v.t.Format(DateLayout)
	default:
		return ""
	}
}

// Interface returns the JSON-ready representation of the value.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindDate:
		return v.t.Format(DateLayout)
	default:
		return nil
	}
}

// Equal reports whether both values hold the same variant and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindDate:
		return v.t.Equal(other.t)
	default:
		return true
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
