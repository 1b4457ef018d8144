package controller

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-crudconsole/pkg/client"
	"github.com/goliatone/go-crudconsole/pkg/notify"
	"github.com/goliatone/go-crudconsole/pkg/table"
	"github.com/goliatone/go-crudconsole/pkg/view"
)

// Option customises a Controller.
type Option func(*Controller)

// WithBaseURL sets the API base, e.g. http://localhost:8080/api.
func WithBaseURL(base string) Option {
	return func(c *Controller) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// WithClient swaps the HTTP client.
func WithClient(cl client.Client) Option {
	return func(c *Controller) {
		if cl != nil {
			c.client = cl
		}
	}
}

// WithForm binds the controller to a form view.
func WithForm(form view.Form) Option {
	return func(c *Controller) {
		if form != nil {
			c.form = form
		}
	}
}

// WithTable binds the controller to a table renderer.
func WithTable(t *table.Renderer) Option {
	return func(c *Controller) {
		if t != nil {
			c.table = t
		}
	}
}

// WithNotifier sets where outcomes are reported.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithConfirmer sets the delete confirmation prompt. Without one every delete
// is treated as declined.
func WithConfirmer(confirmer view.Confirmer) Option {
	return func(c *Controller) {
		c.confirmer = confirmer
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}
