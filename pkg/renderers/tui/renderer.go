package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-crudconsole/pkg/render"
	"github.com/goliatone/go-crudconsole/pkg/table"
)

var (
	labelStyle    = lipgloss.NewStyle().Bold(true)
	disabledStyle = lipgloss.NewStyle().Faint(true)
)

// Renderer prints a page as plain terminal text: the heading, the form
// values and the table. It is the non-interactive counterpart of Console.
type Renderer struct {
	theme Theme
}

var _ render.Renderer = (*Renderer)(nil)

// NewRenderer returns a text renderer using theme for the heading.
func NewRenderer(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, page render.Page, options render.RenderOptions) ([]byte, error) {
	title := page.Title
	if options.Title != "" {
		title = options.Title
	}

	var b strings.Builder
	b.WriteString(r.theme.Heading.Render(title))
	b.WriteString("\n")
	if page.EditingID != "" {
		fmt.Fprintf(&b, "Editing %s %s\n", page.Singular, page.EditingID)
	}

	width := 0
	for _, input := range page.Inputs {
		width = max(width, lipgloss.Width(input.Label))
	}
	for _, input := range page.Inputs {
		label := labelStyle.Render(padRight(input.Label, width))
		value := input.Value
		if !input.Enabled {
			value = disabledStyle.Render(value + " (locked)")
		}
		fmt.Fprintf(&b, "  %s  %s\n", label, value)
	}
	for _, filter := range page.Filters {
		params := make([]string, 0, len(filter.Params))
		for _, param := range filter.Params {
			params = append(params, param.Name+"="+param.Value)
		}
		fmt.Fprintf(&b, "  [%s] %s\n", filter.Label, strings.Join(params, " "))
	}

	b.WriteString(table.FormatTerminal(page.Body, options.ShowActions))
	b.WriteString("\n")
	return []byte(b.String()), nil
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
