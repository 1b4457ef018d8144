// Package pongo runs the HTML renderer templates on pongo2.
package pongo

import (
	"errors"
	"fmt"
	"html"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-crudconsole/pkg/render/template"
)

const defaultExtension = ".tpl"

type Option func(*Engine)

// WithBaseDir loads templates from a directory on disk. It takes precedence
// over WithFS for names present in both.
func WithBaseDir(dir string) Option {
	return func(e *Engine) { e.dir = strings.TrimSpace(dir) }
}

func WithFS(files fs.FS) Option {
	return func(e *Engine) { e.files = files }
}

// WithExtension sets the suffix appended to template names that lack it.
func WithExtension(ext string) Option {
	return func(e *Engine) {
		ext = strings.TrimSpace(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if ext != "" {
			e.ext = ext
		}
	}
}

// WithGlobals makes values visible to every template.
func WithGlobals(values map[string]any) Option {
	return func(e *Engine) {
		for key, value := range values {
			e.globals[key] = value
		}
	}
}

// Engine is a pongo2 template set. Parsed templates are cached by the set.
type Engine struct {
	dir     string
	files   fs.FS
	ext     string
	globals pongo2.Context

	mu  sync.RWMutex
	set *pongo2.TemplateSet
}

var _ template.TemplateRenderer = (*Engine)(nil)

func New(options ...Option) (*Engine, error) {
	e := &Engine{ext: defaultExtension, globals: pongo2.Context{}}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.dir == "" && e.files == nil {
		return nil, errors.New("pongo: no template directory or fs.FS configured")
	}

	var loaders []pongo2.TemplateLoader
	if e.dir != "" {
		local, err := pongo2.NewLocalFileSystemLoader(e.dir)
		if err != nil {
			return nil, fmt.Errorf("pongo: template dir: %w", err)
		}
		loaders = append(loaders, local)
	}
	if e.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(e.files))
	}

	e.set = pongo2.NewSet("crudconsole", loaders...)
	e.set.Globals = e.globals
	registerFilters.Do(func() {
		_ = pongo2.RegisterFilter("trim", filterTrim)
		_ = pongo2.RegisterFilter("plaintext", filterPlainText)
	})
	return e, nil
}

// RenderTemplate executes the named template with data and copies the result
// to every writer in out.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	tmpl, err := e.set.FromCache(name)
	if err != nil {
		return "", fmt.Errorf("pongo: load %s: %w", name, err)
	}
	return e.execute(name, tmpl, data, out)
}

// RenderString parses and executes an inline template.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("pongo: parse inline template: %w", err)
	}
	return e.execute("inline template", tmpl, data, out)
}

// RegisterFilter adds a filter to every engine in the process. pongo2
// filters are global, so a name can only be registered once.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("pongo: filter needs a name and a function")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("pongo: filter %q already registered", name)
	}
	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// SetGlobal updates a value visible to every template.
func (e *Engine) SetGlobal(key string, value any) {
	e.mu.Lock()
	e.globals[key] = value
	e.mu.Unlock()
}

func (e *Engine) execute(name string, tmpl *pongo2.Template, data any, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", err
	}
	e.mu.RLock()
	rendered, err := tmpl.Execute(ctx)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("pongo: execute %s: %w", name, err)
	}
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return rendered, err
		}
	}
	return rendered, nil
}

func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	default:
		return nil, fmt.Errorf("pongo: template data must be a map, got %T", data)
	}
}

var (
	registerFilters sync.Once
	strict          = sync.OnceValue(bluemonday.StrictPolicy)
)

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterPlainText strips markup from backend-supplied text. The result is
// still autoescaped on output.
func filterPlainText(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(html.UnescapeString(strict().Sanitize(in.String()))), nil
}
