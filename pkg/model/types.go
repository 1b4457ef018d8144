package model

import internalmodel "github.com/goliatone/go-crudconsole/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeInteger = internalmodel.FieldTypeInteger
	FieldTypeFloat   = internalmodel.FieldTypeFloat
	FieldTypeString  = internalmodel.FieldTypeString
	FieldTypeDate    = internalmodel.FieldTypeDate
)

const (
	ValidationRuleMin       = internalmodel.ValidationRuleMin
	ValidationRuleMax       = internalmodel.ValidationRuleMax
	ValidationRuleMinLength = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern   = internalmodel.ValidationRulePattern
)

const (
	FilterOpEqual        = internalmodel.FilterOpEqual
	FilterOpGreaterEqual = internalmodel.FilterOpGreaterEqual
	FilterOpLessEqual    = internalmodel.FilterOpLessEqual
)

type ValidationRule = internalmodel.ValidationRule
type Field = internalmodel.Field
type QueryParam = internalmodel.QueryParam
type Query = internalmodel.Query
type Resource = internalmodel.Resource
