package openapi

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ErrDocumentNotFound is returned when a file or fs.FS source does not exist
// or a URL source answers 404.
var ErrDocumentNotFound = errors.New("openapi: backend description not found")

// Loader fetches the backend description from a file, an fs.FS entry or a
// URL.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures how a Loader resolves sources. URL sources need
// HTTPClient or AllowHTTPFallback.
type LoaderOptions struct {
	FileSystem        fs.FS
	HTTPClient        *http.Client
	AllowHTTPFallback bool
	RequestTimeout    time.Duration
	Logger            zerolog.Logger
}

type LoaderOption func(*LoaderOptions)

// WithFileSystem sets the fs.FS used for SourceFromFS sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient enables URL sources through client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables URL sources with a default client. A zero timeout
// means none.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// WithLoaderLogger traces every load at debug level.
func WithLoaderLogger(logger zerolog.Logger) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.Logger = logger
	}
}

// NewLoaderOptions applies options over a silent configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{Logger: zerolog.Nop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}
