package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request presentation choices that do not
// change the page contents.
type RenderOptions struct {
	// Theme carries resolved tokens and asset URLs. Renderers without styling
	// ignore it.
	Theme *theme.RendererConfig
	// ShowActions adds the edit/delete controls to every data row.
	ShowActions bool
	// Title overrides the resource label used as page heading.
	Title string
}
