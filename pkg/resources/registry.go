package resources

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-crudconsole/pkg/model"
)

var ErrUnknownResource = errors.New("resources: unknown resource")

// Registry holds the validated resource descriptions a console can open.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]model.Resource
}

// NewRegistry validates and registers seed in order; the first invalid or
// duplicate resource aborts.
func NewRegistry(seed ...model.Resource) (*Registry, error) {
	r := &Registry{byName: make(map[string]model.Resource, len(seed))}
	for _, res := range seed {
		if err := r.Register(res); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(res model.Resource) error {
	if err := res.Validate(); err != nil {
		return fmt.Errorf("resources: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[res.Name]; taken {
		return fmt.Errorf("resources: %q registered twice", res.Name)
	}
	r.byName[res.Name] = res
	return nil
}

func (r *Registry) Get(name string) (model.Resource, error) {
	r.mu.RLock()
	res, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return model.Resource{}, fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
	return res, nil
}

// List returns resource names sorted lexically.
func (r *Registry) List() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// All returns the resources in List order.
func (r *Registry) All() []model.Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Resource, 0, len(r.byName))
	for _, res := range r.byName {
		out = append(out, res)
	}
	slices.SortFunc(out, func(a, b model.Resource) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
