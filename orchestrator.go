// Package crudconsole is the top-level entry point: it builds resource
// controllers from an OpenAPI description of a REST backend and renders
// their pages.
package crudconsole

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-crudconsole/pkg/controller"
	"github.com/goliatone/go-crudconsole/pkg/orchestrator"
	"github.com/goliatone/go-crudconsole/pkg/render"
)

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// RenderRequest aliases orchestrator.RenderRequest.
type RenderRequest = orchestrator.RenderRequest

// RenderOptions describes per-request presentation choices.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewController builds a controller for the named resource of the embedded
// backend description (or the one selected through options).
func NewController(ctx context.Context, baseURL string, req Request, options ...orchestrator.Option) (*controller.Controller, error) {
	options = append([]orchestrator.Option{orchestrator.WithBaseURL(baseURL)}, options...)
	return orchestrator.New(options...).Controller(ctx, req)
}

// RenderHTML loads the default result set of a resource and renders it with
// the vanilla renderer.
func RenderHTML(ctx context.Context, baseURL, resource string, options ...orchestrator.Option) ([]byte, error) {
	options = append([]orchestrator.Option{orchestrator.WithBaseURL(baseURL)}, options...)
	return orchestrator.New(options...).Render(ctx, RenderRequest{
		Resource:    resource,
		Renderer:    "vanilla",
		ShowActions: true,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}
