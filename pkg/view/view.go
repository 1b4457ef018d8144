// Package view defines the presentation contract a controller drives: named
// form inputs, action buttons and a confirmation prompt.
package view

import (
	"context"
	"sync"
)

// Button identifies one of the form action buttons.
type Button string

const (
	ButtonSave          Button = "save"
	ButtonUpdate        Button = "update"
	ButtonReset         Button = "reset"
	ButtonQueryByID     Button = "query-by-id"
	ButtonQueryByFilter Button = "query-by-filter"
)

// Buttons lists every action button in display order.
func Buttons() []Button {
	return []Button{ButtonSave, ButtonUpdate, ButtonReset, ButtonQueryByID, ButtonQueryByFilter}
}

// Inputs gives access to raw input values keyed by input identifier.
type Inputs interface {
	Value(id string) string
	SetValue(id, value string)
}

// Form is the full form surface owned by a controller.
type Form interface {
	Inputs
	SetInputEnabled(id string, enabled bool)
	SetButtonEnabled(button Button, enabled bool)
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// Always returns a Confirmer that answers every prompt with answer.
func Always(answer bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) {
		return answer, nil
	})
}

// Memory is an in-memory Form. Inputs and buttons start enabled. It is safe
// for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	values   map[string]string
	disabled map[string]bool
	buttons  map[Button]bool
}

var _ Form = (*Memory)(nil)

// NewMemory returns an empty form.
func NewMemory() *Memory {
	return &Memory{
		values:   make(map[string]string),
		disabled: make(map[string]bool),
		buttons:  make(map[Button]bool),
	}
}

func (m *Memory) Value(id string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[id]
}

func (m *Memory) SetValue(id, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[id] = value
}

func (m *Memory) SetInputEnabled(id string, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disabled[id] = !enabled
}

func (m *Memory) SetButtonEnabled(button Button, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buttons[button] = enabled
}

// InputEnabled reports the enabled state of an input.
func (m *Memory) InputEnabled(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.disabled[id]
}

// ButtonEnabled reports the enabled state of a button. Buttons never touched
// are enabled.
func (m *Memory) ButtonEnabled(button Button) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	enabled, ok := m.buttons[button]
	return !ok || enabled
}

// Values returns a copy of every input value.
func (m *Memory) Values() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	for key, value := range m.values {
		out[key] = value
	}
	return out
}
