package openapi

import (
	"bytes"
	"errors"
)

// Source identifies where a backend description comes from.
type Source interface {
	Kind() SourceKind
	Location() string
}

type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Format is the serialisation of a raw document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is a raw OpenAPI payload and its origin. The payload is copied on
// the way in and out.
type Document struct {
	source Source
	raw    []byte
}

func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("openapi: document is empty")
	}
	return Document{source: src, raw: bytes.Clone(raw)}, nil
}

// MustNewDocument is NewDocument for fixtures.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

func (d Document) Source() Source { return d.source }

func (d Document) Raw() []byte { return bytes.Clone(d.raw) }

func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Format sniffs the payload: a leading '{' is JSON, anything else YAML.
func (d Document) Format() Format {
	if bytes.HasPrefix(bytes.TrimSpace(d.raw), []byte("{")) {
		return FormatJSON
	}
	return FormatYAML
}
