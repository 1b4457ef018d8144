package controller

import "github.com/goliatone/go-crudconsole/pkg/record"

// Mode is the form mode.
type Mode int

const (
	// ModeCreate is the initial mode: identity input and save enabled.
	ModeCreate Mode = iota
	// ModeEdit follows a load-for-edit: identity input and save disabled,
	// update enabled.
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// FormState is the working record of the form plus its mode. EditingID is
// the identity of the record loaded for edit and empty in create mode.
type FormState struct {
	Mode      Mode
	Record    record.Record
	EditingID string
}

func createState() FormState {
	return FormState{Mode: ModeCreate}
}
