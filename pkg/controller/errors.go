package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-crudconsole/pkg/client"
	"github.com/goliatone/go-crudconsole/pkg/record"
	"github.com/goliatone/go-crudconsole/pkg/validation"
)

var (
	// ErrConfirmationDeclined is returned when the user declines a delete.
	// Nothing is sent and nothing is reported.
	ErrConfirmationDeclined = errors.New("controller: confirmation declined")
	// ErrMissingID is returned when an operation needs an identity and got
	// none.
	ErrMissingID = errors.New("controller: id is required")
	// ErrInvalidID is returned when an identity does not parse as the
	// identity field type.
	ErrInvalidID = errors.New("controller: invalid id")
	// ErrNotEditing is returned by Update when no record was loaded for edit.
	ErrNotEditing = errors.New("controller: no record loaded for editing")
	// ErrUnknownAction is returned for row actions the controller does not
	// handle.
	ErrUnknownAction = errors.New("controller: unknown action")
	// ErrUnknownQuery is returned when a named query is not declared on the
	// resource.
	ErrUnknownQuery = errors.New("controller: unknown query")
	// ErrBaseURLRequired is returned by New without WithBaseURL.
	ErrBaseURLRequired = errors.New("controller: base url is required")
)

// describe renders err as user-facing text.
func describe(err error) string {
	var (
		verr     *validation.Error
		httpErr  *client.HTTPError
		parseErr *client.ParseError
		decErr   *record.DecodeError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.As(err, &httpErr):
		if msg := httpErr.Message(); msg != "" {
			return fmt.Sprintf("HTTP %d: %s", httpErr.StatusCode, msg)
		}
		return fmt.Sprintf("HTTP %d", httpErr.StatusCode)
	case errors.As(err, &parseErr):
		return "invalid response from server: " + parseErr.Err.Error()
	case errors.As(err, &decErr):
		return "unexpected response from server: " + strings.TrimPrefix(decErr.Error(), "record: ")
	case errors.Is(err, record.ErrNullFilterValue):
		return strings.TrimPrefix(err.Error(), "record: ")
	default:
		return strings.TrimPrefix(err.Error(), "controller: ")
	}
}
