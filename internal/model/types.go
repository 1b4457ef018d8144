package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeInteger FieldType = "int"
	FieldTypeFloat   FieldType = "float"
	FieldTypeString  FieldType = "string"
	FieldTypeDate    FieldType = "date"
)

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// Filter operators understood by backends that honour Query metadata.
const (
	FilterOpEqual        = "eq"
	FilterOpGreaterEqual = "gte"
	FilterOpLessEqual    = "lte"
)

// ValidationRule represents a single validation constraint applied to a field.
// Numeric bounds and length limits encode their threshold in Params["value"]
// while pattern rules preserve the original expression in Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Field describes one record attribute and the form input bound to it.
// Fields that are not Required are nullable: an empty input maps to null.
type Field struct {
	Name        string            `json:"name"`
	Input       string            `json:"input,omitempty"`
	Type        FieldType         `json:"type"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     string            `json:"default,omitempty"`
	Enum        []string          `json:"enum,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// InputID returns the identifier of the form input bound to the field.
func (f Field) InputID() string {
	if f.Input != "" {
		return f.Input
	}
	return f.Name
}

// Nullable reports whether an empty input is accepted as null.
func (f Field) Nullable() bool {
	return !f.Required
}

// DisplayLabel falls back to the field name when no label is set.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// QueryParam is a single query-string parameter of a Query. Field and Op
// describe how a backend is expected to apply it; clients only send Name.
type QueryParam struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Label    string    `json:"label,omitempty"`
	Field    string    `json:"field,omitempty"`
	Op       string    `json:"op,omitempty"`
	Default  string    `json:"default,omitempty"`
	Required bool      `json:"required"`
}

// DisplayLabel falls back to the parameter name when no label is set.
func (p QueryParam) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

// TargetField returns the record field the parameter filters on.
func (p QueryParam) TargetField() string {
	if p.Field != "" {
		return p.Field
	}
	return p.Name
}

// Query groups the parameters submitted together by one filter action (for
// example minAge and maxAge).
type Query struct {
	Name   string       `json:"name"`
	Label  string       `json:"label,omitempty"`
	Params []QueryParam `json:"params"`
}

// Resource is the top-level description a controller is parameterised with:
// one REST collection, its identity field and the fields bound to the form.
// DefaultFilter, when set, is the filter applied on every reload instead of
// listing the whole collection.
type Resource struct {
	Name             string            `json:"name"`
	Label            string            `json:"label,omitempty"`
	Singular         string            `json:"singular,omitempty"`
	Path             string            `json:"path"`
	Identity         string            `json:"identity"`
	IdentityOnCreate bool              `json:"identityOnCreate,omitempty"`
	Fields           []Field           `json:"fields"`
	Queries          []Query           `json:"queries,omitempty"`
	DefaultFilter    map[string]string `json:"defaultFilter,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}
