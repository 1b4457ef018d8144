package validation

import (
	"sort"
	"strings"
)

// Error collects field-level and form-level validation messages. It is
// produced locally, before any network call is made.
type Error struct {
	Fields map[string][]string
	Form   []string
}

// Add appends a message for the named field.
func (e *Error) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = normalizeMessages(append(e.Fields[field], message))
}

// AddForm appends a message that is not tied to a single field.
func (e *Error) AddForm(message string) {
	e.Form = normalizeMessages(append(e.Form, message))
}

// Empty reports whether no messages were collected.
func (e *Error) Empty() bool {
	return e == nil || (len(e.Fields) == 0 && len(e.Form) == 0)
}

// Err returns e when it carries messages and nil otherwise, so callers can
// return the accumulator directly.
func (e *Error) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

// Messages flattens all messages: form-level first, then fields in lexical
// order.
func (e *Error) Messages() []string {
	if e == nil {
		return nil
	}
	out := append([]string(nil), e.Form...)
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		out = append(out, e.Fields[key]...)
	}
	return out
}

func (e *Error) Error() string {
	messages := e.Messages()
	if len(messages) == 0 {
		return "validation failed"
	}
	return strings.Join(messages, "; ")
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
