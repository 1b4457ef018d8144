package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	pkgopenapi "github.com/goliatone/go-crudconsole/pkg/openapi"
)

// Loader reads backend descriptions from files, an fs.FS or HTTP.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
	logger  zerolog.Logger
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New builds a Loader. URL sources stay disabled unless options carry an
// HTTP client or allow the fallback client.
func New(options pkgopenapi.LoaderOptions) pkgopenapi.Loader {
	l := &Loader{
		fs:      options.FileSystem,
		timeout: options.RequestTimeout,
		logger:  options.Logger,
	}
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if l.timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = l.timeout
		}
		l.http = &clone
	case options.AllowHTTPFallback:
		l.http = &http.Client{Timeout: l.timeout}
	}
	return l
}

func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi loader: source is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}
	if src.Location() == "" {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %s source has no location", src.Kind())
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case pkgopenapi.SourceKindFile:
		data, err = l.readFile(src.Location())
	case pkgopenapi.SourceKindFS:
		data, err = l.readFS(src.Location())
	case pkgopenapi.SourceKindURL:
		data, err = l.fetch(ctx, src.Location())
	default:
		err = fmt.Errorf("openapi loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return pkgopenapi.Document{}, err
	}

	doc, err := pkgopenapi.NewDocument(src, data)
	if err != nil {
		return pkgopenapi.Document{}, err
	}
	l.logger.Debug().
		Str("kind", string(src.Kind())).
		Str("location", src.Location()).
		Str("format", string(doc.Format())).
		Int("bytes", len(data)).
		Msg("backend description loaded")
	return doc, nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", pkgopenapi.ErrDocumentNotFound, path)
	}
	return data, err
}

func (l *Loader) readFS(name string) ([]byte, error) {
	if l.fs == nil {
		return nil, errors.New("openapi loader: filesystem is not configured")
	}
	data, err := fs.ReadFile(l.fs, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", pkgopenapi.ErrDocumentNotFound, name)
	}
	return data, err
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.http == nil {
		return nil, errors.New("openapi loader: http support disabled")
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/yaml, application/json;q=0.9, */*;q=0.5")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", pkgopenapi.ErrDocumentNotFound, url)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("openapi loader: unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
