// Package table turns result sets into table bodies. Every Render replaces
// the whole body: one row per record, carrying the record identity so edit
// and delete affordances can be bound to it. Sinks decide how a body is
// displayed (memory, terminal, HTML, spreadsheet).
package table

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-crudconsole/pkg/model"
	"github.com/goliatone/go-crudconsole/pkg/record"
)

// Action is a per-row affordance.
type Action string

const (
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Actions lists the row actions in display order.
func Actions() []Action {
	return []Action{ActionEdit, ActionDelete}
}

// ActionHandler receives row actions. id is the raw data-id of the row.
type ActionHandler interface {
	HandleAction(ctx context.Context, action Action, id string) error
}

// Column is one table column bound to a record field.
type Column struct {
	Field string
	Label string
}

// Row is one rendered table row. Placeholder rows carry a single message
// cell and no actions.
type Row struct {
	ID          string
	Cells       []string
	Placeholder bool
}

// Body is a complete table body ready to hand to a Sink.
type Body struct {
	Resource string
	Columns  []Column
	Rows     []Row
}

// Empty reports whether the body only holds the empty placeholder.
func (b Body) Empty() bool {
	return len(b.Rows) == 0 || (len(b.Rows) == 1 && b.Rows[0].Placeholder)
}

// Row looks up a data row by identity.
func (b Body) Row(id string) (Row, bool) {
	for _, row := range b.Rows {
		if !row.Placeholder && row.ID == id {
			return row, true
		}
	}
	return Row{}, false
}

// Sink displays table bodies. ReplaceBody always receives the full body.
type Sink interface {
	ReplaceBody(body Body) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(body Body) error

func (f SinkFunc) ReplaceBody(body Body) error { return f(body) }

// Option customises a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used to report skipped rows.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// WithSink adds a sink. Renderers may drive several sinks.
func WithSink(sink Sink) Option {
	return func(r *Renderer) {
		if sink != nil {
			r.sinks = append(r.sinks, sink)
		}
	}
}

// Renderer owns the displayed result set of one resource.
type Renderer struct {
	resource model.Resource
	sinks    []Sink
	logger   zerolog.Logger

	mu      sync.Mutex
	current record.ResultSet
	body    Body
}

// New constructs a renderer for res.
func New(res model.Resource, opts ...Option) *Renderer {
	r := &Renderer{
		resource: res,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Render replaces the table body with rs. The last call wins.
func (r *Renderer) Render(rs record.ResultSet) error {
	body := BuildBody(r.resource, rs, r.logger)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = append(record.ResultSet(nil), rs...)
	r.body = body
	for _, sink := range r.sinks {
		if err := sink.ReplaceBody(body); err != nil {
			return err
		}
	}
	return nil
}

// ResultSet returns the records currently displayed.
func (r *Renderer) ResultSet() record.ResultSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append(record.ResultSet(nil), r.current...)
}

// Body returns the body currently displayed.
func (r *Renderer) Body() Body {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body
}

// Columns returns the columns derived from the resource fields.
func Columns(res model.Resource) []Column {
	columns := make([]Column, 0, len(res.Fields))
	for _, field := range res.Fields {
		columns = append(columns, Column{Field: field.Name, Label: field.DisplayLabel()})
	}
	return columns
}

// EmptyMessage is the placeholder text shown for an empty result set.
func EmptyMessage(res model.Resource) string {
	return "No " + strings.ToLower(res.DisplayLabel()) + " found"
}

// BuildBody renders rs against the resource columns. Records without an
// identity value are skipped and logged.
func BuildBody(res model.Resource, rs record.ResultSet, logger zerolog.Logger) Body {
	body := Body{
		Resource: res.Name,
		Columns:  Columns(res),
	}
	for idx, rec := range rs {
		id := rec.Get(res.Identity)
		if id.IsNull() || strings.TrimSpace(id.String()) == "" {
			logger.Warn().
				Str("resource", res.Name).
				Int("index", idx).
				Msg("skipping row without identity")
			continue
		}
		cells := make([]string, 0, len(res.Fields))
		for _, field := range res.Fields {
			cells = append(cells, Cell(field, rec.Get(field.Name)))
		}
		body.Rows = append(body.Rows, Row{ID: id.String(), Cells: cells})
	}
	if len(body.Rows) == 0 {
		body.Rows = []Row{{Placeholder: true, Cells: []string{EmptyMessage(res)}}}
	}
	return body
}

// Cell renders a single value. Null renders empty and dates as YYYY-MM-DD.
func Cell(field model.Field, value record.Value) string {
	if value.IsNull() {
		return ""
	}
	if field.Type == model.FieldTypeDate {
		if text, ok := value.Text(); ok {
			return record.FormatDate(text)
		}
	}
	return value.String()
}
