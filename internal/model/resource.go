package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errResourceNameMissing     = errors.New("model: resource name is required")
	errResourcePathMissing     = errors.New("model: resource path is required")
	errResourceIdentityMissing = errors.New("model: resource identity field is required")
)

// Validate checks the resource is usable by a controller.
func (r Resource) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errResourceNameMissing
	}
	if strings.Trim(strings.TrimSpace(r.Path), "/") == "" {
		return errResourcePathMissing
	}
	if r.Identity == "" {
		return errResourceIdentityMissing
	}
	seen := make(map[string]struct{}, len(r.Fields))
	for _, field := range r.Fields {
		if field.Name == "" {
			return fmt.Errorf("model: resource %q has a field without a name", r.Name)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("model: resource %q declares field %q twice", r.Name, field.Name)
		}
		seen[field.Name] = struct{}{}
		switch field.Type {
		case FieldTypeInteger, FieldTypeFloat, FieldTypeString, FieldTypeDate:
		default:
			return fmt.Errorf("model: field %q has unsupported type %q", field.Name, field.Type)
		}
	}
	if _, ok := seen[r.Identity]; !ok {
		return fmt.Errorf("model: identity field %q is not declared on resource %q", r.Identity, r.Name)
	}
	for key := range r.DefaultFilter {
		if _, ok := r.QueryParam(key); !ok {
			return fmt.Errorf("model: default filter key %q is not a query parameter of resource %q", key, r.Name)
		}
	}
	return nil
}

// DisplayLabel falls back to the resource name when no label is set.
func (r Resource) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	return r.Name
}

// SingularLabel names one record of the resource in messages.
func (r Resource) SingularLabel() string {
	if r.Singular != "" {
		return r.Singular
	}
	label := r.DisplayLabel()
	if strings.HasSuffix(label, "s") && len(label) > 1 {
		return label[:len(label)-1]
	}
	return label
}

// Field looks up a field by name.
func (r Resource) Field(name string) (Field, bool) {
	for _, field := range r.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// IdentityField returns the identity field definition. Resources that passed
// Validate always declare it.
func (r Resource) IdentityField() Field {
	field, ok := r.Field(r.Identity)
	if !ok {
		return Field{Name: r.Identity, Type: FieldTypeInteger}
	}
	return field
}

// DataFields returns every field except the identity, in declaration order.
func (r Resource) DataFields() []Field {
	out := make([]Field, 0, len(r.Fields))
	for _, field := range r.Fields {
		if field.Name == r.Identity {
			continue
		}
		out = append(out, field)
	}
	return out
}

// CreateFields returns the fields submitted on create.
func (r Resource) CreateFields() []Field {
	if r.IdentityOnCreate {
		return append([]Field(nil), r.Fields...)
	}
	return r.DataFields()
}

// Query looks up a named query.
func (r Resource) Query(name string) (Query, bool) {
	for _, query := range r.Queries {
		if query.Name == name {
			return query, true
		}
	}
	return Query{}, false
}

// QueryParam finds a parameter by name across every query.
func (r Resource) QueryParam(name string) (QueryParam, bool) {
	for _, query := range r.Queries {
		for _, param := range query.Params {
			if param.Name == name {
				return param, true
			}
		}
	}
	return QueryParam{}, false
}

// CollectionPath returns the path segment without surrounding slashes.
func (r Resource) CollectionPath() string {
	return strings.Trim(strings.TrimSpace(r.Path), "/")
}
