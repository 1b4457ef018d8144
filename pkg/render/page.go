package render

import (
	"github.com/goliatone/go-crudconsole/pkg/controller"
	"github.com/goliatone/go-crudconsole/pkg/model"
	"github.com/goliatone/go-crudconsole/pkg/table"
	"github.com/goliatone/go-crudconsole/pkg/view"
)

// Input is one form control as currently displayed.
type Input struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Value       string   `json:"value"`
	Required    bool     `json:"required"`
	Enabled     bool     `json:"enabled"`
	Options     []string `json:"options,omitempty"`
}

// Button is one form button and whether it can be pressed.
type Button struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// Filter is one declared query with its parameter inputs.
type Filter struct {
	Name   string  `json:"name"`
	Label  string  `json:"label"`
	Params []Input `json:"params"`
}

// Page is everything a renderer needs to draw one resource console.
type Page struct {
	Resource  string     `json:"resource"`
	Title     string     `json:"title"`
	Singular  string     `json:"singular"`
	Mode      string     `json:"mode"`
	EditingID string     `json:"editingId,omitempty"`
	Inputs    []Input    `json:"inputs"`
	Buttons   []Button   `json:"buttons"`
	Filters   []Filter   `json:"filters,omitempty"`
	Body      table.Body `json:"body"`
}

// FormReader exposes control state; *view.Memory implements it.
type FormReader interface {
	view.Inputs
	InputEnabled(id string) bool
	ButtonEnabled(button view.Button) bool
}

var buttonLabels = map[view.Button]string{
	view.ButtonSave:          "Save",
	view.ButtonUpdate:        "Update",
	view.ButtonReset:         "Reset",
	view.ButtonQueryByID:     "Find by ID",
	view.ButtonQueryByFilter: "Filter",
}

// Snapshot captures the current page of ctrl.
func Snapshot(ctrl *controller.Controller) Page {
	return NewPage(ctrl.Resource(), ctrl.Form(), ctrl.State(), ctrl.Table().Body())
}

// NewPage assembles a page. When inputs does not expose control state it is
// derived from the form mode.
func NewPage(res model.Resource, inputs view.Inputs, state controller.FormState, body table.Body) Page {
	reader, _ := inputs.(FormReader)
	editing := state.Mode == controller.ModeEdit

	page := Page{
		Resource:  res.Name,
		Title:     res.DisplayLabel(),
		Singular:  res.SingularLabel(),
		Mode:      state.Mode.String(),
		EditingID: state.EditingID,
		Body:      body,
	}

	for _, field := range res.Fields {
		id := field.InputID()
		enabled := !(editing && field.Name == res.Identity)
		if reader != nil {
			enabled = reader.InputEnabled(id)
		}
		page.Inputs = append(page.Inputs, Input{
			ID:          id,
			Name:        field.Name,
			Label:       field.DisplayLabel(),
			Type:        string(field.Type),
			Description: field.Description,
			Value:       valueOf(inputs, id),
			Required:    field.Required,
			Enabled:     enabled,
			Options:     field.Enum,
		})
	}

	for _, button := range view.Buttons() {
		enabled := true
		switch button {
		case view.ButtonSave:
			enabled = !editing
		case view.ButtonUpdate:
			enabled = editing
		}
		if reader != nil {
			enabled = reader.ButtonEnabled(button)
		}
		page.Buttons = append(page.Buttons, Button{Name: string(button), Label: buttonLabels[button], Enabled: enabled})
	}

	for _, query := range res.Queries {
		filter := Filter{Name: query.Name, Label: query.Label}
		if filter.Label == "" {
			filter.Label = query.Name
		}
		for _, param := range query.Params {
			value := valueOf(inputs, param.Name)
			if value == "" {
				value = param.Default
			}
			filter.Params = append(filter.Params, Input{
				ID:       param.Name,
				Name:     param.Name,
				Label:    param.DisplayLabel(),
				Type:     string(param.Type),
				Value:    value,
				Required: param.Required,
				Enabled:  true,
			})
		}
		page.Filters = append(page.Filters, filter)
	}
	return page
}

func valueOf(inputs view.Inputs, id string) string {
	if inputs == nil {
		return ""
	}
	return inputs.Value(id)
}
