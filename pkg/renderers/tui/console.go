// Package tui is the interactive terminal front end of a resource
// controller. A Console owns the form inputs, prints every table body it
// receives, asks for delete confirmation and reports outcomes, so a single
// value can be handed to the controller as form, sink, confirmer and
// notifier.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/goliatone/go-crudconsole/pkg/controller"
	"github.com/goliatone/go-crudconsole/pkg/formbind"
	"github.com/goliatone/go-crudconsole/pkg/model"
	"github.com/goliatone/go-crudconsole/pkg/notify"
	"github.com/goliatone/go-crudconsole/pkg/table"
	"github.com/goliatone/go-crudconsole/pkg/validation"
	"github.com/goliatone/go-crudconsole/pkg/view"
)

// Controller is the part of *controller.Controller the console drives.
type Controller interface {
	Resource() model.Resource
	State() controller.FormState
	Init(ctx context.Context) error
	LoadAll(ctx context.Context) error
	LoadByID(ctx context.Context, id string) error
	LoadQuery(ctx context.Context, name string) error
	HandleButton(ctx context.Context, button view.Button) error
	HandleAction(ctx context.Context, action table.Action, id string) error
}

var _ Controller = (*controller.Controller)(nil)

// Console runs the menu loop for one controller.
type Console struct {
	driver      PromptDriver
	out         io.Writer
	theme       Theme
	showActions bool
	form        *view.Memory

	mu sync.Mutex
}

var (
	_ view.Confirmer  = (*Console)(nil)
	_ notify.Notifier = (*Console)(nil)
	_ table.Sink      = (*Console)(nil)
)

// New constructs a console with defaults (survey driver, stdout).
func New(options ...Option) *Console {
	c := &Console{
		out:   os.Stdout,
		theme: DefaultTheme(),
		form:  view.NewMemory(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.driver == nil {
		c.driver = newSurveyDriver(c.out)
	}
	return c
}

// Form returns the inputs the controller should be bound to.
func (c *Console) Form() *view.Memory { return c.form }

// Confirm asks a yes/no question. Aborting the prompt counts as no.
func (c *Console) Confirm(ctx context.Context, message string) (bool, error) {
	ok, err := c.driver.Confirm(ctx, ConfirmConfig{Message: message})
	if errors.Is(err, ErrAborted) {
		return false, nil
	}
	return ok, err
}

func (c *Console) ReportSuccess(message string) {
	c.println(c.theme.Success.Render(c.theme.InfoPrefix+":") + " " + message)
}

func (c *Console) ReportError(message string) {
	c.println(c.theme.Error.Render(c.theme.ErrorPrefix+":") + " " + message)
}

// ReplaceBody prints the table.
func (c *Console) ReplaceBody(body table.Body) error {
	c.println(table.FormatTerminal(body, c.showActions))
	return nil
}

func (c *Console) println(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, text)
}

// promptError marks a failure of the prompt driver, as opposed to a
// controller operation that already reported its own outcome.
type promptError struct{ err error }

func (e *promptError) Error() string { return e.err.Error() }
func (e *promptError) Unwrap() error { return e.err }

type menuItem struct {
	label string
	quit  bool
	run   func(ctx context.Context, ctrl Controller) error
}

// Run initialises the controller and loops over the action menu until the
// user quits or aborts. Controller failures are reported through the
// notifier and do not end the loop.
func (c *Console) Run(ctx context.Context, ctrl Controller) error {
	if ctrl == nil {
		return ErrNoController
	}
	if ctx == nil {
		ctx = context.Background()
	}
	res := ctrl.Resource()
	c.println(c.theme.Heading.Render(res.DisplayLabel()))
	_ = ctrl.Init(ctx)

	items := c.menu(res)
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.label
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		idx, err := c.driver.Select(ctx, SelectConfig{
			Message:      fmt.Sprintf("%s (%s mode)", res.DisplayLabel(), ctrl.State().Mode),
			Options:      labels,
			DefaultIndex: 0,
			PageSize:     len(labels),
		})
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(items) {
			_ = c.driver.Info(ctx, "Invalid selection")
			continue
		}
		item := items[idx]
		if item.quit {
			return nil
		}

		err = item.run(ctx, ctrl)
		var perr *promptError
		switch {
		case err == nil:
		case errors.Is(err, ErrAborted):
			_ = c.driver.Info(ctx, "Cancelled")
		case errors.As(err, &perr):
			return perr.err
		}
	}
}

func (c *Console) menu(res model.Resource) []menuItem {
	singular := strings.ToLower(res.SingularLabel())
	plural := strings.ToLower(res.DisplayLabel())

	items := []menuItem{
		{label: "List all " + plural, run: func(ctx context.Context, ctrl Controller) error {
			return ctrl.LoadAll(ctx)
		}},
		{label: "Find " + singular + " by ID", run: c.findByID},
	}
	for _, query := range res.Queries {
		name := query.Name
		label := query.Label
		if label == "" {
			label = query.Name
		}
		items = append(items, menuItem{label: "Filter by " + strings.ToLower(label), run: func(ctx context.Context, ctrl Controller) error {
			return c.runQuery(ctx, ctrl, name)
		}})
	}
	items = append(items,
		menuItem{label: "New " + singular, run: c.create},
		menuItem{label: "Edit " + singular, run: c.edit},
		menuItem{label: "Delete " + singular, run: c.remove},
		menuItem{label: "Reset form", run: func(ctx context.Context, ctrl Controller) error {
			return ctrl.HandleButton(ctx, view.ButtonReset)
		}},
		menuItem{label: "Quit", quit: true},
	)
	return items
}

func (c *Console) findByID(ctx context.Context, ctrl Controller) error {
	id, err := c.askID(ctx, ctrl.Resource())
	if err != nil {
		return err
	}
	return ctrl.LoadByID(ctx, id)
}

func (c *Console) runQuery(ctx context.Context, ctrl Controller, name string) error {
	query, ok := ctrl.Resource().Query(name)
	if !ok {
		return ctrl.LoadQuery(ctx, name)
	}
	for _, param := range query.Params {
		current := c.form.Value(param.Name)
		if current == "" {
			current = param.Default
		}
		for {
			raw, err := c.input(ctx, InputConfig{Message: param.DisplayLabel(), Default: current})
			if err != nil {
				return err
			}
			if _, cerr := formbind.CoerceParam(param, raw); cerr != nil {
				_ = c.driver.Info(ctx, "Invalid "+param.DisplayLabel()+": "+cerr.Error())
				continue
			}
			c.form.SetValue(param.Name, strings.TrimSpace(raw))
			break
		}
	}
	return ctrl.LoadQuery(ctx, name)
}

func (c *Console) create(ctx context.Context, ctrl Controller) error {
	if ctrl.State().Mode == controller.ModeEdit {
		if err := ctrl.HandleButton(ctx, view.ButtonReset); err != nil {
			return err
		}
	}
	if err := c.fill(ctx, ctrl.Resource().CreateFields()); err != nil {
		return err
	}
	return ctrl.HandleButton(ctx, view.ButtonSave)
}

func (c *Console) edit(ctx context.Context, ctrl Controller) error {
	id, err := c.askID(ctx, ctrl.Resource())
	if err != nil {
		return err
	}
	if err := ctrl.HandleAction(ctx, table.ActionEdit, id); err != nil {
		return err
	}
	if err := c.fill(ctx, ctrl.Resource().DataFields()); err != nil {
		return err
	}
	return ctrl.HandleButton(ctx, view.ButtonUpdate)
}

func (c *Console) remove(ctx context.Context, ctrl Controller) error {
	id, err := c.askID(ctx, ctrl.Resource())
	if err != nil {
		return err
	}
	err = ctrl.HandleAction(ctx, table.ActionDelete, id)
	if errors.Is(err, controller.ErrConfirmationDeclined) {
		_ = c.driver.Info(ctx, "Delete cancelled")
		return nil
	}
	return err
}

// fill prompts for every enabled input bound to fields, re-asking until the
// answer coerces and passes the field rules.
func (c *Console) fill(ctx context.Context, fields []model.Field) error {
	for _, field := range fields {
		id := field.InputID()
		if !c.form.InputEnabled(id) {
			continue
		}
		if len(field.Enum) > 0 {
			idx, err := c.choose(ctx, SelectConfig{
				Message:      field.DisplayLabel(),
				Options:      field.Enum,
				DefaultIndex: indexOf(field.Enum, c.form.Value(id)),
				Help:         field.Description,
			})
			if err != nil {
				return err
			}
			c.form.SetValue(id, field.Enum[idx])
			continue
		}

		message := field.DisplayLabel()
		if field.Type == model.FieldTypeDate {
			message += " (YYYY-MM-DD)"
		}
		if field.Nullable() {
			message += " (optional)"
		}
		rules := validation.RulesFor(field)
		for {
			raw, err := c.input(ctx, InputConfig{Message: message, Default: c.form.Value(id), Help: field.Description})
			if err != nil {
				return err
			}
			value, cerr := formbind.Coerce(field, raw)
			if cerr != nil {
				_ = c.driver.Info(ctx, "Invalid "+field.DisplayLabel()+": "+cerr.Error())
				continue
			}
			if messages := rules.Check(field.DisplayLabel(), value); len(messages) > 0 {
				_ = c.driver.Info(ctx, "Invalid "+field.DisplayLabel()+": "+strings.Join(messages, "; "))
				continue
			}
			c.form.SetValue(id, strings.TrimSpace(raw))
			break
		}
	}
	return nil
}

func (c *Console) askID(ctx context.Context, res model.Resource) (string, error) {
	return c.input(ctx, InputConfig{Message: res.IdentityField().DisplayLabel()})
}

func (c *Console) input(ctx context.Context, cfg InputConfig) (string, error) {
	out, err := c.driver.Input(ctx, cfg)
	if err != nil {
		return "", wrapPrompt(err)
	}
	return out, nil
}

func (c *Console) choose(ctx context.Context, cfg SelectConfig) (int, error) {
	for {
		idx, err := c.driver.Select(ctx, cfg)
		if err != nil {
			return 0, wrapPrompt(err)
		}
		if idx >= 0 && idx < len(cfg.Options) {
			return idx, nil
		}
		_ = c.driver.Info(ctx, "Invalid "+cfg.Message+" selection")
	}
}

func wrapPrompt(err error) error {
	if errors.Is(err, ErrAborted) {
		return err
	}
	return &promptError{err: err}
}
