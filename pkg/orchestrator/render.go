package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-crudconsole/pkg/notify"
	"github.com/goliatone/go-crudconsole/pkg/record"
	"github.com/goliatone/go-crudconsole/pkg/render"
	"github.com/goliatone/go-crudconsole/pkg/renderers/vanilla"
	"github.com/goliatone/go-crudconsole/pkg/view"
)

// RenderRequest selects what to load before rendering a page. At most one of
// ID, Query and Filter should be set; with none the resource default result
// set is shown.
type RenderRequest struct {
	Resource string
	Renderer string

	ID     string
	Query  string
	Params map[string]string
	Filter record.Filter

	Theme       string
	Variant     string
	ShowActions bool
	Title       string
}

// Render loads the requested result set through a fresh controller and
// renders the resulting page. Load failures reported by the controller are
// returned as errors.
func (o *Orchestrator) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}
	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	form := view.NewMemory()
	notes := &notify.Recorder{}
	ctrl, err := o.Controller(ctx, Request{
		Resource: req.Resource,
		Form:     form,
		Notifier: notify.Multi{notes, o.notifier},
	})
	if err != nil {
		return nil, err
	}

	ctrl.Reset()
	for name, value := range req.Params {
		form.SetValue(name, value)
	}
	switch {
	case req.ID != "":
		err = ctrl.LoadByID(ctx, req.ID)
	case req.Query != "":
		err = ctrl.LoadQuery(ctx, req.Query)
	case req.Filter != nil:
		err = ctrl.LoadByFilter(ctx, req.Filter)
	default:
		err = ctrl.Reload(ctx)
	}
	if err != nil {
		if msg, ok := notes.Last(); ok && msg.Level == notify.LevelError {
			return nil, &LoadError{Message: msg.Text, Err: err}
		}
		return nil, err
	}

	options := render.RenderOptions{ShowActions: req.ShowActions, Title: req.Title}
	if options.Theme, err = o.themeConfig(req.Theme, req.Variant); err != nil {
		return nil, err
	}

	page := render.NewPage(ctrl.Resource(), form, ctrl.State(), ctrl.Table().Body())
	out, err := renderer.Render(ctx, page, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render %s: %w", renderer.Name(), err)
	}
	return out, nil
}

// LoadError carries the message the controller reported for a failed load.
type LoadError struct {
	Message string
	Err     error
}

func (e *LoadError) Error() string { return e.Message }
func (e *LoadError) Unwrap() error { return e.Err }

// Renderers returns the registered renderer names.
func (o *Orchestrator) Renderers() []string {
	if o.renderers == nil {
		return nil
	}
	return o.renderers.List()
}

// ContentType reports the content type of the named renderer.
func (o *Orchestrator) ContentType(name string) (string, error) {
	renderer, err := o.rendererFor(name)
	if err != nil {
		return "", err
	}
	return renderer.ContentType(), nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.renderers == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	target := strings.TrimSpace(name)
	if target == "" {
		target = o.defaultRenderer
	}
	renderer, err := o.renderers.Get(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", target, err)
	}
	return renderer, nil
}

func (o *Orchestrator) themeConfig(name, variant string) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	return vanilla.RendererConfig(selection), nil
}
