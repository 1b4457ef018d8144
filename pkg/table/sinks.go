package table

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

// MemorySink keeps the last body it received.
type MemorySink struct {
	mu      sync.Mutex
	body    Body
	renders int
}

func (s *MemorySink) ReplaceBody(body Body) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body = body
	s.renders++
	return nil
}

// Body returns the last body received.
func (s *MemorySink) Body() Body {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body
}

// Renders counts ReplaceBody calls.
func (s *MemorySink) Renders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

// TerminalSink prints bodies as bordered terminal tables.
type TerminalSink struct {
	mu          sync.Mutex
	W           io.Writer
	ShowActions bool
}

// NewTerminalSink writes tables to w. When showActions is set an extra
// column lists the row actions with their identity.
func NewTerminalSink(w io.Writer, showActions bool) *TerminalSink {
	return &TerminalSink{W: w, ShowActions: showActions}
}

func (s *TerminalSink) ReplaceBody(body Body) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.W, FormatTerminal(body, s.ShowActions))
	return err
}

var (
	headerStyle      = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle        = lipgloss.NewStyle().Padding(0, 1)
	placeholderStyle = lipgloss.NewStyle().Italic(true).Padding(0, 1)
)

// FormatTerminal renders body as a lipgloss table.
func FormatTerminal(body Body, showActions bool) string {
	headers := make([]string, 0, len(body.Columns)+1)
	for _, column := range body.Columns {
		headers = append(headers, column.Label)
	}
	if showActions {
		headers = append(headers, "Actions")
	}

	rows := make([][]string, 0, len(body.Rows))
	placeholder := false
	for _, row := range body.Rows {
		if row.Placeholder {
			placeholder = true
			cells := make([]string, len(headers))
			if len(cells) > 0 && len(row.Cells) > 0 {
				cells[0] = row.Cells[0]
			}
			rows = append(rows, cells)
			continue
		}
		cells := append([]string(nil), row.Cells...)
		if showActions {
			actions := make([]string, 0, len(Actions()))
			for _, action := range Actions() {
				actions = append(actions, string(action)+":"+row.ID)
			}
			cells = append(cells, strings.Join(actions, " "))
		}
		rows = append(rows, cells)
	}

	t := lgtable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == lgtable.HeaderRow:
				return headerStyle
			case placeholder:
				return placeholderStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}
