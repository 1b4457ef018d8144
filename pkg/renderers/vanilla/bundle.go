package vanilla

import (
	"embed"
	"io/fs"
	"sync"
)

// StylesheetName is the stylesheet served from AssetsFS and inlined into
// every page.
const StylesheetName = "crudconsole.css"

//go:embed templates/*.tmpl assets/*
var bundle embed.FS

var stylesheet = sync.OnceValue(func() string {
	data, err := fs.ReadFile(bundle, "assets/"+StylesheetName)
	if err != nil {
		return ""
	}
	return string(data)
})

// TemplatesFS holds page.tmpl, form.tmpl and tbody.tmpl under templates/.
func TemplatesFS() fs.FS { return bundle }

// AssetsFS is rooted at the asset directory so it can back a static file
// handler directly.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(bundle, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
