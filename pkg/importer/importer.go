// Package importer reads records from spreadsheet workbooks and submits them
// through a controller, one create per row. The header row names the fields
// (by name or label); a workbook written by the xlsx export can be imported
// back as is.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-crudconsole/pkg/formbind"
	"github.com/goliatone/go-crudconsole/pkg/model"
	"github.com/goliatone/go-crudconsole/pkg/record"
	"github.com/goliatone/go-crudconsole/pkg/validation"
)

// ErrNoHeader is returned for sheets without a header row.
var ErrNoHeader = errors.New("importer: sheet has no header row")

// Creator submits one record. *controller.Controller implements it.
type Creator interface {
	CreateRecord(ctx context.Context, rec record.Record) (record.Record, error)
}

// Row is one data line of the sheet. Err is set when a cell could not be
// coerced; such rows are never submitted.
type Row struct {
	Line   int
	Record record.Record
	Err    error
}

// Failure is a row that was rejected locally or by the backend.
type Failure struct {
	Line int
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("row %d: %v", f.Line, f.Err)
}

// Result summarises an import.
type Result struct {
	Created  int
	Failures []Failure
}

type Option func(*Importer)

// WithLogger sets the logger used to trace rows.
func WithLogger(logger zerolog.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

// WithSheet reads from the named sheet instead of the resource name or the
// first sheet.
func WithSheet(name string) Option {
	return func(i *Importer) {
		i.sheet = strings.TrimSpace(name)
	}
}

// Importer reads rows for one resource.
type Importer struct {
	resource model.Resource
	sheet    string
	logger   zerolog.Logger
}

func New(res model.Resource, opts ...Option) *Importer {
	i := &Importer{resource: res, logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(i)
	}
	return i
}

// Read parses the workbook. Only the fields submitted on create are read;
// other columns, including the identity, are ignored. Blank lines are
// skipped.
func (i *Importer) Read(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("importer: open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := i.pickSheet(f)
	if err != nil {
		return nil, err
	}
	lines, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("importer: read sheet %q: %w", sheet, err)
	}
	if len(lines) == 0 {
		return nil, ErrNoHeader
	}

	fields := i.resource.CreateFields()
	columns := i.columns(lines[0], fields)

	var rows []Row
	for idx, cells := range lines[1:] {
		if blank(cells) {
			continue
		}
		line := idx + 2
		rec := make(record.Record, len(fields))
		verr := &validation.Error{}
		for _, field := range fields {
			raw := ""
			if col, ok := columns[field.Name]; ok && col < len(cells) {
				raw = cells[col]
			}
			value, err := formbind.Coerce(field, raw)
			if err != nil {
				verr.Add(field.Name, err.Error())
				continue
			}
			rec[field.Name] = value
		}
		row := Row{Line: line, Record: rec}
		if !verr.Empty() {
			row.Err = verr
		}
		rows = append(rows, row)
	}
	i.logger.Debug().
		Str("resource", i.resource.Name).
		Str("sheet", sheet).
		Int("rows", len(rows)).
		Msg("workbook read")
	return rows, nil
}

// Import submits every valid row through creator in sheet order. Failed
// rows are collected and do not stop the import; a cancelled context does.
func (i *Importer) Import(ctx context.Context, creator Creator, rows []Row) (Result, error) {
	var result Result
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if row.Err != nil {
			result.Failures = append(result.Failures, Failure{Line: row.Line, Err: row.Err})
			continue
		}
		if _, err := creator.CreateRecord(ctx, row.Record); err != nil {
			i.logger.Debug().Err(err).Int("line", row.Line).Msg("row rejected")
			result.Failures = append(result.Failures, Failure{Line: row.Line, Err: err})
			continue
		}
		result.Created++
	}
	return result, nil
}

func (i *Importer) pickSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrNoHeader
	}
	if i.sheet != "" {
		for _, name := range sheets {
			if name == i.sheet {
				return name, nil
			}
		}
		return "", fmt.Errorf("importer: sheet %q not found", i.sheet)
	}
	for _, name := range sheets {
		if name == i.resource.Name {
			return name, nil
		}
	}
	return sheets[0], nil
}

// columns maps field names to column indexes. Headers match the field name
// or its label, ignoring case.
func (i *Importer) columns(header []string, fields []model.Field) map[string]int {
	out := make(map[string]int, len(fields))
	for col, title := range header {
		title = strings.TrimSpace(title)
		for _, field := range fields {
			if strings.EqualFold(title, field.Name) || strings.EqualFold(title, field.DisplayLabel()) {
				if _, seen := out[field.Name]; !seen {
					out[field.Name] = col
				}
			}
		}
	}
	return out
}

func blank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
