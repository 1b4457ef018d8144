package render

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrUnknownRenderer   = errors.New("render: unknown renderer")
	ErrDuplicateRenderer = errors.New("render: renderer already registered")
)

// Registry maps output names (vanilla, tui, xlsx) to renderers. It is safe
// for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]Renderer
}

func NewRegistry(renderers ...Renderer) (*Registry, error) {
	r := &Registry{byKey: make(map[string]Renderer, len(renderers))}
	for _, renderer := range renderers {
		if err := r.Register(renderer); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: nil renderer")
	}
	name := renderer.Name()
	if name == "" {
		return errors.New("render: renderer has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byKey[name]; taken {
		return fmt.Errorf("%w: %s", ErrDuplicateRenderer, name)
	}
	r.byKey[name] = renderer
	return nil
}

// MustRegister is Register for wiring code where a clash is a programming
// error.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.byKey[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, name)
	}
	return renderer, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.byKey))
	for name := range r.byKey {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

func (r *Registry) Render(ctx context.Context, name string, page Page, options RenderOptions) ([]byte, error) {
	renderer, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	out, err := renderer.Render(ctx, page, options)
	if err != nil {
		return nil, fmt.Errorf("render %s %s: %w", name, page.Resource, err)
	}
	return out, nil
}
