// Package client is a thin JSON-over-HTTP client for REST collection
// endpoints. It never retries and never caches: every failure is returned to
// the caller as an *HTTPError, a *ParseError or a transport error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries a per-request identifier for log correlation.
const RequestIDHeader = "X-Request-ID"

// DefaultTimeout bounds requests when the caller supplies no http.Client.
const DefaultTimeout = 10 * time.Second

// Client is the contract controllers depend on. Successful calls return the
// decoded JSON payload (map[string]any, []any or a scalar) with numbers kept
// as json.Number. An empty 2xx body yields a nil payload.
type Client interface {
	Get(ctx context.Context, url string) (any, error)
	Post(ctx context.Context, url string, body any) (any, error)
	Put(ctx context.Context, url string, body any) (any, error)
	Delete(ctx context.Context, url string) (any, error)
}

// Option customises an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the request timeout on the underlying http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger attaches a logger; requests are logged at debug and failures at
// warn.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// WithHeader adds a static header to every request.
func WithHeader(key, value string) Option {
	return func(c *HTTPClient) {
		if key == "" {
			return
		}
		c.headers.Set(key, value)
	}
}

// HTTPClient implements Client on top of net/http.
type HTTPClient struct {
	http    *http.Client
	timeout time.Duration
	logger  zerolog.Logger
	headers http.Header
	newID   func() string
}

var _ Client = (*HTTPClient)(nil)

// New constructs an HTTPClient.
func New(opts ...Option) *HTTPClient {
	c := &HTTPClient{
		timeout: DefaultTimeout,
		logger:  zerolog.Nop(),
		headers: make(http.Header),
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

func (c *HTTPClient) Get(ctx context.Context, url string) (any, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

func (c *HTTPClient) Post(ctx context.Context, url string, body any) (any, error) {
	return c.do(ctx, http.MethodPost, url, body)
}

func (c *HTTPClient) Put(ctx context.Context, url string, body any) (any, error) {
	return c.do(ctx, http.MethodPut, url, body)
}

func (c *HTTPClient) Delete(ctx context.Context, url string) (any, error) {
	return c.do(ctx, http.MethodDelete, url, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, url string, body any) (any, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrEmptyURL
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("client: encode %s body: %w", method, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := c.newID()
	req.Header.Set(RequestIDHeader, requestID)

	log := c.logger.With().
		Str("method", method).
		Str("url", url).
		Str("request_id", requestID).
		Logger()
	log.Debug().Msg("http request")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("http request failed")
		return nil, fmt.Errorf("client: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn().Err(err).Int("status", resp.StatusCode).Msg("read response body")
		return nil, fmt.Errorf("client: read %s %s response: %w", method, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
		log.Warn().Int("status", resp.StatusCode).Str("body", httpErr.Message()).Msg("http error response")
		return nil, httpErr
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		log.Debug().Int("status", resp.StatusCode).Msg("empty response")
		return nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		log.Warn().Err(err).Int("status", resp.StatusCode).Msg("invalid JSON response")
		return nil, &ParseError{Method: method, URL: url, Body: string(raw), Err: err}
	}
	if decoder.More() {
		parseErr := &ParseError{Method: method, URL: url, Body: string(raw), Err: fmt.Errorf("trailing data after JSON value")}
		log.Warn().Err(parseErr.Err).Int("status", resp.StatusCode).Msg("invalid JSON response")
		return nil, parseErr
	}
	log.Debug().Int("status", resp.StatusCode).Msg("http response")
	return payload, nil
}
