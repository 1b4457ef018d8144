// Package template defines the template rendering contract used by the HTML
// renderer. The pongo subpackage provides the default pongo2 implementation.
package template
