package openapi

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

type fileSource struct{ path string }

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

type fsSource struct{ name string }

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

type urlSource struct{ raw string }

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() SourceKind { return SourceKindURL }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// SourceFromFS returns a Source identifying an entry inside the loader's
// fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

// SourceFromURL returns a Source for an HTTP(S) document. It panics on an
// invalid URL; use ParseSource for user input.
func SourceFromURL(raw string) Source {
	src, err := urlFromString(raw)
	if err != nil {
		panic(err)
	}
	return src
}

// ParseSource maps user input (a config value or flag) to a Source: http and
// https URLs become URL sources, anything else a file path.
func ParseSource(raw string) (Source, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New("openapi: empty source")
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return urlFromString(trimmed)
	}
	return SourceFromFile(trimmed), nil
}

func urlFromString(raw string) (Source, error) {
	if raw == "" {
		return nil, errors.New("openapi: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("openapi: invalid URL %q: %w", raw, err)
	}
	return urlSource{raw: raw}, nil
}
