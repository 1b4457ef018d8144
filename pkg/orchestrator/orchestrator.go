package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	internalLoader "github.com/goliatone/go-crudconsole/internal/openapi/loader"
	internalParser "github.com/goliatone/go-crudconsole/internal/openapi/parser"
	"github.com/goliatone/go-crudconsole/pkg/client"
	"github.com/goliatone/go-crudconsole/pkg/controller"
	"github.com/goliatone/go-crudconsole/pkg/model"
	"github.com/goliatone/go-crudconsole/pkg/notify"
	pkgopenapi "github.com/goliatone/go-crudconsole/pkg/openapi"
	"github.com/goliatone/go-crudconsole/pkg/render"
	"github.com/goliatone/go-crudconsole/pkg/renderers/tui"
	"github.com/goliatone/go-crudconsole/pkg/renderers/vanilla"
	"github.com/goliatone/go-crudconsole/pkg/renderers/xlsx"
	"github.com/goliatone/go-crudconsole/pkg/resources"
	"github.com/goliatone/go-crudconsole/pkg/table"
	"github.com/goliatone/go-crudconsole/pkg/view"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom OpenAPI loader.
func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithSource selects the document describing the backend. The embedded
// document is used when no source is given.
func WithSource(src pkgopenapi.Source) Option {
	return func(o *Orchestrator) {
		o.source = src
	}
}

// WithFileSystem sets the fs.FS used for SourceFromFS sources.
func WithFileSystem(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.fsys = fsys
	}
}

// WithResources bypasses document loading entirely.
func WithResources(list ...model.Resource) Option {
	return func(o *Orchestrator) {
		o.preset = append(o.preset, list...)
	}
}

// WithBaseURL sets the API base handed to every controller.
func WithBaseURL(base string) Option {
	return func(o *Orchestrator) {
		o.baseURL = base
	}
}

// WithClient shares an HTTP client across controllers.
func WithClient(cl client.Client) Option {
	return func(o *Orchestrator) {
		o.client = cl
	}
}

// WithLogger sets the logger passed to every component.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithRegistry replaces the renderer registry. The built-in renderers are
// not added to a custom registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.renderers = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithThemeSelector resolves theme and variant names for renderers that
// style their output.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithNotifier sets the default notifier for controllers.
func WithNotifier(n notify.Notifier) Option {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

// Orchestrator builds controllers from a backend description. Resources are
// loaded once and cached.
type Orchestrator struct {
	loader   pkgopenapi.Loader
	parser   pkgopenapi.Parser
	source   pkgopenapi.Source
	fsys     fs.FS
	preset   []model.Resource
	baseURL  string
	client   client.Client
	logger   zerolog.Logger
	notifier notify.Notifier

	renderers       *render.Registry
	defaultRenderer string
	themeSelector   theme.ThemeSelector
	initialiseErr   error

	mu       sync.Mutex
	registry *resources.Registry
}

// New constructs an Orchestrator. Missing dependencies are initialised with
// the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{logger: zerolog.Nop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.source == nil {
		o.source = pkgopenapi.SourceFromFS(resources.DocumentName)
		if o.fsys == nil {
			o.fsys = resources.FS()
		}
	}
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions(
			pkgopenapi.WithFileSystem(o.fsys),
			pkgopenapi.WithHTTPFallback(0),
			pkgopenapi.WithLoaderLogger(o.logger),
		))
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.client == nil {
		o.client = client.New(client.WithLogger(o.logger))
	}
	if o.notifier == nil {
		o.notifier = notify.Log{Logger: o.logger}
	}
	if o.renderers == nil {
		o.renderers, o.initialiseErr = defaultRenderers()
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.themeSelector == nil {
		o.themeSelector = vanilla.NewSelector("", "", vanilla.DefaultManifest())
	}
}

// Registry loads and parses the backend description on first use.
func (o *Orchestrator) Registry(ctx context.Context) (*resources.Registry, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.registry != nil {
		return o.registry, nil
	}

	list := o.preset
	if len(list) == 0 {
		doc, err := o.loader.Load(ctx, o.source)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: load %s: %w", o.source.Location(), err)
		}
		list, err = o.parser.Resources(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: parse %s: %w", o.source.Location(), err)
		}
	}
	registry, err := resources.NewRegistry(list...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	o.logger.Debug().Strs("resources", registry.List()).Msg("resources loaded")
	o.registry = registry
	return registry, nil
}

// Resource returns the named resource.
func (o *Orchestrator) Resource(ctx context.Context, name string) (model.Resource, error) {
	registry, err := o.Registry(ctx)
	if err != nil {
		return model.Resource{}, err
	}
	return registry.Get(name)
}

// Resources returns every resource ordered by name.
func (o *Orchestrator) Resources(ctx context.Context) ([]model.Resource, error) {
	registry, err := o.Registry(ctx)
	if err != nil {
		return nil, err
	}
	return registry.All(), nil
}

// Request describes one controller to build. Zero fields fall back to the
// orchestrator defaults.
type Request struct {
	Resource  string
	Form      view.Form
	Confirmer view.Confirmer
	Notifier  notify.Notifier
	Sinks     []table.Sink
}

// Controller builds a controller for the requested resource.
func (o *Orchestrator) Controller(ctx context.Context, req Request) (*controller.Controller, error) {
	if req.Resource == "" {
		return nil, errors.New("orchestrator: resource name is required")
	}
	res, err := o.Resource(ctx, req.Resource)
	if err != nil {
		return nil, err
	}

	logger := o.logger.With().Str("resource", res.Name).Logger()
	tableOpts := []table.Option{table.WithLogger(logger)}
	for _, sink := range req.Sinks {
		tableOpts = append(tableOpts, table.WithSink(sink))
	}
	notifier := req.Notifier
	if notifier == nil {
		notifier = o.notifier
	}

	return controller.New(res,
		controller.WithBaseURL(o.baseURL),
		controller.WithClient(o.client),
		controller.WithForm(req.Form),
		controller.WithTable(table.New(res, tableOpts...)),
		controller.WithNotifier(notifier),
		controller.WithConfirmer(req.Confirmer),
		controller.WithLogger(o.logger),
	)
}

func defaultRenderers() (*render.Registry, error) {
	html, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: default renderer: %w", err)
	}
	return render.NewRegistry(html, tui.NewRenderer(tui.DefaultTheme()), xlsx.New())
}
