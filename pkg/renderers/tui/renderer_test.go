package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-crudconsole/pkg/render"
	"github.com/goliatone/go-crudconsole/pkg/table"
)

func TestRendererPrintsFormAndTable(t *testing.T) {
	page := render.Page{
		Resource:  "teachers",
		Title:     "Teachers",
		Singular:  "teacher",
		Mode:      "edit",
		EditingID: "2",
		Inputs: []render.Input{
			{ID: "teacherId", Label: "Teacher ID", Value: "2"},
			{ID: "name", Label: "Name", Value: "Alan Turing", Enabled: true},
		},
		Body: table.Body{
			Resource: "teachers",
			Columns:  []table.Column{{Field: "teacherId", Label: "Teacher ID"}, {Field: "name", Label: "Name"}},
			Rows:     []table.Row{{ID: "2", Cells: []string{"2", "Alan Turing"}}},
		},
	}

	out, err := NewRenderer(DefaultTheme()).Render(context.Background(), page, render.RenderOptions{ShowActions: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := string(out)
	for _, want := range []string{"Teachers", "Editing teacher 2", "2 (locked)", "Alan Turing", "edit:2 delete:2"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected output to contain %q\n%s", want, text)
		}
	}
}
