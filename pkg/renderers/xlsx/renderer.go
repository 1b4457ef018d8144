// Package xlsx renders the table of a page as a spreadsheet workbook.
package xlsx

import (
	"bytes"
	"context"

	"github.com/goliatone/go-crudconsole/pkg/render"
	"github.com/goliatone/go-crudconsole/pkg/table"
)

const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Renderer struct{}

var _ render.Renderer = Renderer{}

func New() Renderer {
	return Renderer{}
}

func (Renderer) Name() string {
	return "xlsx"
}

func (Renderer) ContentType() string {
	return contentType
}

// Render ignores form state and presentation options; only the body is
// exported.
func (Renderer) Render(_ context.Context, page render.Page, _ render.RenderOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := table.WriteXLSX(&buf, page.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
