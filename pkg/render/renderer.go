// Package render turns a controller snapshot into presentable output.
// Renderers are looked up by name through a Registry.
package render

import (
	"context"
)

// Renderer converts a Page into a byte representation (HTML, terminal text,
// spreadsheets).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page Page, options RenderOptions) ([]byte, error)
}
