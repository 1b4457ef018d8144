// Package template defines the template engine seam used by HTML renderers.
package template

import "io"

// TemplateRenderer executes named templates from a bundle. The data map keys
// become template variables; the output is returned and also copied to each
// writer in out.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
}
