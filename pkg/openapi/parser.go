package openapi

import (
	"context"

	"github.com/goliatone/go-crudconsole/pkg/model"
)

// Extension keys read from the document. Collection GET operations carry the
// resource level keys, query parameters the query keys and schema properties
// the field keys.
const (
	ExtResource         = "x-resource"
	ExtLabel            = "x-label"
	ExtSingular         = "x-singular"
	ExtIdentity         = "x-identity"
	ExtIdentityOnCreate = "x-identity-on-create"
	ExtDefaultFilter    = "x-default-filter"
	ExtQuery            = "x-query"
	ExtQueryLabel       = "x-query-label"
	ExtField            = "x-field"
	ExtOp               = "x-op"
	ExtInput            = "x-input"
	ExtFieldOrder       = "x-field-order"
)

// Parser turns an OpenAPI document into resource descriptions.
type Parser interface {
	Resources(ctx context.Context, doc Document) ([]model.Resource, error)
}

// ParserOptions exposes parser toggles.
type ParserOptions struct {
	// ValidateDocument runs kin-openapi validation before extraction.
	ValidateDocument bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithValidation toggles document validation.
func WithValidation(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ValidateDocument = enabled
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{ValidateDocument: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}
