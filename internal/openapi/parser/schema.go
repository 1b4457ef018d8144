package parser

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-crudconsole/pkg/model"
	pkgopenapi "github.com/goliatone/go-crudconsole/pkg/openapi"
)

func convertFields(items *openapi3.Schema) ([]model.Field, error) {
	required := make(map[string]struct{}, len(items.Required))
	for _, name := range items.Required {
		required[name] = struct{}{}
	}

	fields := make([]model.Field, 0, len(items.Properties))
	for _, name := range fieldOrder(items) {
		ref := items.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		kind, err := fieldType(prop)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		_, isRequired := required[name]
		field := model.Field{
			Name:        name,
			Input:       stringExt(prop.Extensions, pkgopenapi.ExtInput),
			Type:        kind,
			Required:    isRequired,
			Label:       prop.Title,
			Description: prop.Description,
			Default:     scalarString(prop.Default),
			Enum:        enumStrings(prop.Enum),
			Validations: validations(prop),
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// fieldOrder honours x-field-order and appends any remaining properties in
// lexical order.
func fieldOrder(items *openapi3.Schema) []string {
	seen := make(map[string]struct{}, len(items.Properties))
	var order []string
	for _, name := range stringSliceExt(items.Extensions, pkgopenapi.ExtFieldOrder) {
		if _, ok := items.Properties[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}
	rest := make([]string, 0, len(items.Properties))
	for name := range items.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func fieldType(schema *openapi3.Schema) (model.FieldType, error) {
	switch {
	case schema.Type.Is(openapi3.TypeInteger):
		return model.FieldTypeInteger, nil
	case schema.Type.Is(openapi3.TypeNumber):
		return model.FieldTypeFloat, nil
	case schema.Type.Is(openapi3.TypeString):
		if schema.Format == "date" || schema.Format == "date-time" {
			return model.FieldTypeDate, nil
		}
		return model.FieldTypeString, nil
	}
	if schema.Type == nil {
		return "", fmt.Errorf("missing type")
	}
	return "", fmt.Errorf("unsupported type %v", schema.Type.Slice())
}

func validations(schema *openapi3.Schema) []model.ValidationRule {
	var rules []model.ValidationRule
	add := func(kind, key, value string) {
		rules = append(rules, model.ValidationRule{Kind: kind, Params: map[string]string{key: value}})
	}
	if schema.Min != nil {
		add(model.ValidationRuleMin, "value", strconv.FormatFloat(*schema.Min, 'f', -1, 64))
	}
	if schema.Max != nil {
		add(model.ValidationRuleMax, "value", strconv.FormatFloat(*schema.Max, 'f', -1, 64))
	}
	if schema.MinLength > 0 {
		add(model.ValidationRuleMinLength, "value", strconv.FormatUint(schema.MinLength, 10))
	}
	if schema.MaxLength != nil {
		add(model.ValidationRuleMaxLength, "value", strconv.FormatUint(*schema.MaxLength, 10))
	}
	if schema.Pattern != "" {
		add(model.ValidationRulePattern, "pattern", schema.Pattern)
	}
	return rules
}

// convertQueries groups query parameters by their x-query name. Parameters
// without one form a query of their own.
func convertQueries(params openapi3.Parameters) ([]model.Query, error) {
	var queries []model.Query
	index := make(map[string]int)
	for _, ref := range params {
		if ref == nil || ref.Value == nil || ref.Value.In != openapi3.ParameterInQuery {
			continue
		}
		param := ref.Value
		kind := model.FieldTypeString
		var def string
		if param.Schema != nil && param.Schema.Value != nil {
			converted, err := fieldType(param.Schema.Value)
			if err != nil {
				return nil, fmt.Errorf("query parameter %q: %w", param.Name, err)
			}
			kind = converted
			def = scalarString(param.Schema.Value.Default)
		}
		qp := model.QueryParam{
			Name:     param.Name,
			Type:     kind,
			Label:    param.Description,
			Field:    stringExt(param.Extensions, pkgopenapi.ExtField),
			Op:       stringExt(param.Extensions, pkgopenapi.ExtOp),
			Default:  def,
			Required: param.Required,
		}
		if qp.Op == "" {
			qp.Op = model.FilterOpEqual
		}

		name := stringExt(param.Extensions, pkgopenapi.ExtQuery)
		if name == "" {
			name = param.Name
		}
		pos, ok := index[name]
		if !ok {
			pos = len(queries)
			index[name] = pos
			queries = append(queries, model.Query{Name: name})
		}
		if label := stringExt(param.Extensions, pkgopenapi.ExtQueryLabel); label != "" {
			queries[pos].Label = label
		}
		queries[pos].Params = append(queries[pos].Params, qp)
	}
	return queries, nil
}

func stringExt(ext map[string]any, key string) string {
	value, _ := ext[key].(string)
	return value
}

func stringSliceExt(ext map[string]any, key string) []string {
	raw, ok := ext[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringMapExt(ext map[string]any, key string) map[string]string {
	raw, ok := ext[key].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s := scalarString(v); s != "" {
			out[k] = s
		}
	}
	return out
}

func enumStrings(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if s := scalarString(value); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func scalarString(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return fmt.Sprint(typed)
	}
}
