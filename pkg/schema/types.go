package schema

import "regexp"

// FieldType enumerates the supported field variants.
type FieldType string

const (
	FieldTypeText         FieldType = "text"
	FieldTypeTextArea     FieldType = "textarea"
	FieldTypeRadio        FieldType = "radio"
	FieldTypeCheckbox     FieldType = "checkbox"
	FieldTypeSelect       FieldType = "select"
	FieldTypeScale        FieldType = "scale"
	FieldTypeGridRadio    FieldType = "grid_radio"
	FieldTypeGridCheckbox FieldType = "grid_checkbox"
	FieldTypeDate         FieldType = "date"
	FieldTypeTime         FieldType = "time"
	FieldTypeDescription  FieldType = "description"
)

// FieldTypes lists every recognised variant in declaration order.
var FieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeTextArea,
	FieldTypeRadio,
	FieldTypeCheckbox,
	FieldTypeSelect,
	FieldTypeScale,
	FieldTypeGridRadio,
	FieldTypeGridCheckbox,
	FieldTypeDate,
	FieldTypeTime,
	FieldTypeDescription,
}

// Valid reports whether t is one of the recognised variants.
func (t FieldType) Valid() bool {
	for _, known := range FieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Interactive reports whether the variant accepts an answer.
func (t FieldType) Interactive() bool {
	return t.Valid() && t != FieldTypeDescription
}

// IsChoice reports whether the variant carries an options list.
func (t FieldType) IsChoice() bool {
	return t == FieldTypeRadio || t == FieldTypeSelect || t == FieldTypeCheckbox
}

// IsGrid reports whether the variant is a row/column grid.
func (t FieldType) IsGrid() bool {
	return t == FieldTypeGridRadio || t == FieldTypeGridCheckbox
}

// IsText reports whether the variant is free text.
func (t FieldType) IsText() bool {
	return t == FieldTypeText || t == FieldTypeTextArea
}

// Operator names the comparison a VisibilityRule applies.
type Operator string

const (
	OperatorEquals     Operator = "equals"
	OperatorNotEquals  Operator = "notEquals"
	OperatorContains   Operator = "contains"
	OperatorStartsWith Operator = "startsWith"
	OperatorEndsWith   Operator = "endsWith"
	OperatorIn         Operator = "in"
	OperatorMatches    Operator = "matches"
	OperatorGT         Operator = "gt"
	OperatorGTE        Operator = "gte"
	OperatorLT         Operator = "lt"
	OperatorLTE        Operator = "lte"
	OperatorEmpty      Operator = "empty"
	OperatorNotEmpty   Operator = "notEmpty"
)

var operators = map[Operator]struct{}{
	OperatorEquals:     {},
	OperatorNotEquals:  {},
	OperatorContains:   {},
	OperatorStartsWith: {},
	OperatorEndsWith:   {},
	OperatorIn:         {},
	OperatorMatches:    {},
	OperatorGT:         {},
	OperatorGTE:        {},
	OperatorLT:         {},
	OperatorLTE:        {},
	OperatorEmpty:      {},
	OperatorNotEmpty:   {},
}

// Valid reports whether op is a known operator. The empty operator is valid
// and means equals.
func (op Operator) Valid() bool {
	if op == "" {
		return true
	}
	_, ok := operators[op]
	return ok
}

// Schema is the root of a form description.
type Schema struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string    `json:"version,omitempty" yaml:"version,omitempty"`
	Settings    *Settings `json:"settings,omitempty" yaml:"settings,omitempty"`
	Sections    []Section `json:"sections" yaml:"sections"`

	index map[string]fieldRef
}

type fieldRef struct {
	section int
	field   int
}

// Settings carries form-wide switches surfaced to renderers and the engine.
type Settings struct {
	CollectEmail         bool   `json:"collectEmail,omitempty" yaml:"collectEmail,omitempty"`
	AllowEditAfterSubmit bool   `json:"allowEditAfterSubmit,omitempty" yaml:"allowEditAfterSubmit,omitempty"`
	ShowProgress         bool   `json:"showProgress,omitempty" yaml:"showProgress,omitempty"`
	ConfirmationMessage  string `json:"confirmationMessage,omitempty" yaml:"confirmationMessage,omitempty"`
}

// Section is one step of the multi-step form.
type Section struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// UIOptions holds presentation hints renderers may honour.
type UIOptions struct {
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Width       string `json:"width,omitempty" yaml:"width,omitempty"`
	HelpText    string `json:"helpText,omitempty" yaml:"helpText,omitempty"`
}

// TextValidation constrains text and textarea answers. Lengths count runes.
type TextValidation struct {
	MinLength *int   `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// ScaleConfig bounds a linear scale answer. Labels annotate individual points.
type ScaleConfig struct {
	Min    int            `json:"min" yaml:"min"`
	Max    int            `json:"max" yaml:"max"`
	Labels map[int]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// ChoiceOption is a value/label pair offered by radio, checkbox and select
// fields.
type ChoiceOption struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// VisibilityRule shows a field only when the answer to DependsOn satisfies
// Operator against the target. Equals takes precedence over Value when both
// are present; after New, Equals holds a string, float64 or bool.
type VisibilityRule struct {
	DependsOn string   `json:"dependsOn" yaml:"dependsOn"`
	Operator  Operator `json:"operator,omitempty" yaml:"operator,omitempty"`
	Equals    any      `json:"equals,omitempty" yaml:"equals,omitempty"`
	Value     *string  `json:"value,omitempty" yaml:"value,omitempty"`
}

// Op returns the effective operator.
func (r VisibilityRule) Op() Operator {
	if r.Operator == "" {
		return OperatorEquals
	}
	return r.Operator
}

// Target returns the literal the answer is compared with, or nil.
func (r VisibilityRule) Target() any {
	if r.Equals != nil {
		return r.Equals
	}
	if r.Value != nil {
		return *r.Value
	}
	return nil
}

// Field is a single input, or static content when Type is description. Only
// the payload matching Type is meaningful: Validation for text variants,
// Options for choice variants, Scale for scale, Rows/Columns for grids and
// Content for description.
type Field struct {
	ID          string          `json:"id" yaml:"id"`
	Type        FieldType       `json:"type" yaml:"type"`
	Label       string          `json:"label,omitempty" yaml:"label,omitempty"`
	Name        string          `json:"name,omitempty" yaml:"name,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool            `json:"required,omitempty" yaml:"required,omitempty"`
	UI          *UIOptions      `json:"ui,omitempty" yaml:"ui,omitempty"`
	Visibility  *VisibilityRule `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	Validation  *TextValidation `json:"validation,omitempty" yaml:"validation,omitempty"`
	Options     []ChoiceOption  `json:"options,omitempty" yaml:"options,omitempty"`
	Scale       *ScaleConfig    `json:"scale,omitempty" yaml:"scale,omitempty"`
	Rows        []string        `json:"rows,omitempty" yaml:"rows,omitempty"`
	Columns     []string        `json:"columns,omitempty" yaml:"columns,omitempty"`
	Content     string          `json:"content,omitempty" yaml:"content,omitempty"`

	pattern *regexp.Regexp
}

// PatternRegexp returns the compiled validation pattern, or nil.
func (f Field) PatternRegexp() *regexp.Regexp {
	if f.pattern != nil {
		return f.pattern
	}
	if f.Validation == nil || f.Validation.Pattern == "" {
		return nil
	}
	re, err := regexp.Compile(f.Validation.Pattern)
	if err != nil {
		return nil
	}
	return re
}

// HasOption reports whether value is one of the field's option values.
func (f Field) HasOption(value string) bool {
	return f.OptionIndex(value) >= 0
}

// OptionIndex returns the position of value in Options, or -1.
func (f Field) OptionIndex(value string) int {
	for i, opt := range f.Options {
		if opt.Value == value {
			return i
		}
	}
	return -1
}

// HasRow reports whether row is declared on a grid field.
func (f Field) HasRow(row string) bool {
	return indexOf(f.Rows, row) >= 0
}

// HasColumn reports whether column is declared on a grid field.
func (f Field) HasColumn(column string) bool {
	return indexOf(f.Columns, column) >= 0
}

// DisplayLabel falls back to the name and then the id when Label is empty.
func (f Field) DisplayLabel() string {
	switch {
	case f.Label != "":
		return f.Label
	case f.Name != "":
		return f.Name
	default:
		return f.ID
	}
}

// HelpText returns the ui help text, falling back to the description.
func (f Field) HelpText() string {
	if f.UI != nil && f.UI.HelpText != "" {
		return f.UI.HelpText
	}
	return f.Description
}

// Placeholder returns the ui placeholder, if any.
func (f Field) Placeholder() string {
	if f.UI == nil {
		return ""
	}
	return f.UI.Placeholder
}

func indexOf(values []string, value string) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return -1
}
