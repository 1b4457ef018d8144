// Package vanilla renders resource consoles as plain HTML: a form with one
// control per field, filter fieldsets and a table whose rows carry data-id
// and data-action attributes for event delegation.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-crudconsole/pkg/model"
	"github.com/goliatone/go-crudconsole/pkg/render"
	rendertemplate "github.com/goliatone/go-crudconsole/pkg/render/template"
	"github.com/goliatone/go-crudconsole/pkg/render/template/pongo"
	"github.com/goliatone/go-crudconsole/pkg/table"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk. Templates
// missing there fall back to the embedded bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = path
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithBaseDir(cfg.templateDir),
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces a complete HTML document for page.
func (r *Renderer) Render(_ context.Context, page render.Page, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	tbody, err := r.RenderBody(page.Body, options.ShowActions)
	if err != nil {
		return nil, err
	}
	form, err := r.RenderForm(page)
	if err != nil {
		return nil, err
	}

	title := page.Title
	if options.Title != "" {
		title = options.Title
	}
	data := map[string]any{
		"title":       title,
		"resource":    page.Resource,
		"classes":     classMap(),
		"columns":     columnData(page.Body.Columns),
		"showActions": options.ShowActions,
		"form":        string(form),
		"tbody":       string(tbody),
		"stylesheet":  stylesheet(),
	}
	applyTheme(data, options.Theme)

	result, err := r.templates.RenderTemplate("templates/page.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// RenderForm renders the form and filter controls of page.
func (r *Renderer) RenderForm(page render.Page) ([]byte, error) {
	inputs := make([]map[string]any, 0, len(page.Inputs))
	for _, input := range page.Inputs {
		inputs = append(inputs, inputData(input))
	}
	buttons := make([]map[string]any, 0, len(page.Buttons))
	for _, button := range page.Buttons {
		buttons = append(buttons, map[string]any{
			"name":    button.Name,
			"label":   button.Label,
			"enabled": button.Enabled,
		})
	}
	filters := make([]map[string]any, 0, len(page.Filters))
	for _, filter := range page.Filters {
		params := make([]map[string]any, 0, len(filter.Params))
		for _, param := range filter.Params {
			params = append(params, inputData(param))
		}
		filters = append(filters, map[string]any{
			"name":   filter.Name,
			"label":  filter.Label,
			"params": params,
		})
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"classes": classMap(),
		"page": map[string]any{
			"resource":  page.Resource,
			"mode":      page.Mode,
			"editingId": page.EditingID,
			"inputs":    inputs,
			"buttons":   buttons,
			"filters":   filters,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render form: %w", err)
	}
	return []byte(result), nil
}

// RenderBody renders the <tbody> fragment for body. Cell text is stripped of
// markup and escaped.
func (r *Renderer) RenderBody(body table.Body, showActions bool) ([]byte, error) {
	rows := make([]map[string]any, 0, len(body.Rows))
	for _, row := range body.Rows {
		if row.Placeholder {
			message := ""
			if len(row.Cells) > 0 {
				message = row.Cells[0]
			}
			rows = append(rows, map[string]any{"placeholder": true, "message": message})
			continue
		}
		cells := make([]any, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, cell)
		}
		rows = append(rows, map[string]any{"id": row.ID, "cells": cells})
	}

	colspan := len(body.Columns)
	if showActions {
		colspan++
	}
	result, err := r.templates.RenderTemplate("templates/tbody.tmpl", map[string]any{
		"classes":     classMap(),
		"rows":        rows,
		"colspan":     colspan,
		"showActions": showActions,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render body: %w", err)
	}
	return []byte(result), nil
}

func inputData(input render.Input) map[string]any {
	options := make([]any, 0, len(input.Options))
	for _, option := range input.Options {
		options = append(options, option)
	}
	return map[string]any{
		"id":       input.ID,
		"name":     input.Name,
		"label":    input.Label,
		"value":    input.Value,
		"required": input.Required,
		"enabled":  input.Enabled,
		"options":  options,
		"htmlType": htmlType(input.Type),
	}
}

func htmlType(fieldType string) string {
	switch model.FieldType(fieldType) {
	case model.FieldTypeInteger, model.FieldTypeFloat:
		return "number"
	case model.FieldTypeDate:
		return "date"
	default:
		return "text"
	}
}

func columnData(columns []table.Column) []map[string]any {
	out := make([]map[string]any, 0, len(columns))
	for _, column := range columns {
		out = append(out, map[string]any{"field": column.Field, "label": column.Label})
	}
	return out
}

func applyTheme(data map[string]any, cfg *theme.RendererConfig) {
	if cfg == nil {
		return
	}
	data["themeName"] = cfg.Theme
	data["themeVariant"] = cfg.Variant
	data["cssVars"] = cssVarsStyle(cfg.CSSVars)
	if cfg.AssetURL != nil {
		if url := cfg.AssetURL(StylesheetAsset); url != "" {
			data["stylesheetURL"] = url
		}
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}
