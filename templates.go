package crudconsole

import (
	"io/fs"

	"github.com/goliatone/go-crudconsole/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the default stylesheet for serving next to rendered
// pages.
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
