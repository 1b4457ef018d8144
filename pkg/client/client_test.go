package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHTTPClientGetDecodesJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Errorf("missing %s header", RequestIDHeader)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"courseId": 1, "credit": 3}]`)
	}))
	defer srv.Close()

	payload, err := New().Get(context.Background(), srv.URL+"/courses")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := []any{map[string]any{"courseId": json.Number("1"), "credit": json.Number("3")}}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPClientPostSendsJSONBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content-type = %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		body["teacherId"] = 9
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	payload, err := New(WithHeader("X-Console", "test")).Post(context.Background(), srv.URL, map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	object, ok := payload.(map[string]any)
	if !ok {
		t.Fatalf("payload type %T", payload)
	}
	if object["teacherId"] != json.Number("9") {
		t.Fatalf("teacherId = %v", object["teacherId"])
	}
}

func TestHTTPClientNon2xxReturnsHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `"Student not found"`)
	}))
	defer srv.Close()

	_, err := New().Get(context.Background(), srv.URL+"/students/99")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", httpErr.StatusCode)
	}
	if got := httpErr.Message(); got != "Student not found" {
		t.Fatalf("message = %q", got)
	}
	if StatusCode(err) != http.StatusNotFound {
		t.Fatalf("StatusCode helper = %d", StatusCode(err))
	}
}

func TestHTTPClientInvalidJSONReturnsParseError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"broken":`)
	}))
	defer srv.Close()

	_, err := New().Get(context.Background(), srv.URL)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Body != `{"broken":` {
		t.Fatalf("body = %q", parseErr.Body)
	}
}

func TestHTTPClientEmptyBodyIsSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	payload, err := New().Delete(context.Background(), srv.URL+"/courses/1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if payload != nil {
		t.Fatalf("payload = %v, want nil", payload)
	}
}

func TestHTTPClientRejectsEmptyURL(t *testing.T) {
	t.Parallel()

	if _, err := New().Get(context.Background(), " "); !errors.Is(err, ErrEmptyURL) {
		t.Fatalf("expected ErrEmptyURL, got %v", err)
	}
}

func TestHTTPErrorMessage(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		body string
		want string
	}{
		"json string":  {`"Invalid ID"`, "Invalid ID"},
		"json object":  {`{"message":"boom"}`, "boom"},
		"plain text":   {"Internal Server Error\n", "Internal Server Error"},
		"empty":        {"", ""},
		"object error": {`{"error":"bad"}`, "bad"},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := &HTTPError{StatusCode: 400, Body: tc.body}
			if got := err.Message(); got != tc.want {
				t.Fatalf("Message() = %q, want %q", got, tc.want)
			}
		})
	}
}
