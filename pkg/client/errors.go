package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyURL is returned when a request is issued without a target.
	ErrEmptyURL = errors.New("client: url is required")
)

// HTTPError is returned for any non-2xx response. Body holds the raw response
// text.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	msg := e.Message()
	if msg == "" {
		return fmt.Sprintf("client: %s %s: HTTP %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("client: %s %s: HTTP %d: %s", e.Method, e.URL, e.StatusCode, msg)
}

// Message returns the body as display text. Backends commonly send the error
// as a JSON string literal ("Student not found"), which is unquoted; objects
// carrying a message or error key are reduced to that value.
func (e *HTTPError) Message() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return ""
	}
	var text string
	if err := json.Unmarshal([]byte(body), &text); err == nil {
		return strings.TrimSpace(text)
	}
	var object map[string]any
	if err := json.Unmarshal([]byte(body), &object); err == nil {
		for _, key := range []string{"message", "error"} {
			if value, ok := object[key].(string); ok && value != "" {
				return value
			}
		}
	}
	return body
}

// ParseError is returned when a 2xx response body is not valid JSON.
type ParseError struct {
	Method string
	URL    string
	Body   string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("client: %s %s: invalid JSON response: %v", e.Method, e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StatusCode extracts the HTTP status from err, or 0 when err is not an
// HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
