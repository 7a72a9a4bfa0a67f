package validation

import (
	"fmt"
	"strings"
)

// Code classifies a field-level failure.
type Code string

const (
	CodeRequired   Code = "required"
	CodeMinLength  Code = "minLength"
	CodeMaxLength  Code = "maxLength"
	CodePattern    Code = "pattern"
	CodeOption     Code = "option"
	CodeRange      Code = "range"
	CodeFormat     Code = "format"
	CodeIncomplete Code = "incomplete"
	CodeType       Code = "type"
)

// FieldError is a recoverable, user-facing problem with one answer.
type FieldError struct {
	FieldID string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.FieldID, e.Message)
}

// ValidationError blocks navigation or submission of a step. It never halts
// the session; the caller surfaces Fields and lets the user edit.
type ValidationError struct {
	Step    int          `json:"step"`
	Section string       `json:"section,omitempty"`
	Fields  []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation: no errors"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("validation: step %d: %s", e.Step, strings.Join(parts, "; "))
}

// ByField groups messages by field id, preserving order.
func (e *ValidationError) ByField() map[string][]string {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, f := range e.Fields {
		out[f.FieldID] = append(out[f.FieldID], f.Message)
	}
	return out
}

// FieldIDs lists the failing fields in first-failure order.
func (e *ValidationError) FieldIDs() []string {
	if e == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(e.Fields))
	var out []string
	for _, f := range e.Fields {
		if _, ok := seen[f.FieldID]; ok {
			continue
		}
		seen[f.FieldID] = struct{}{}
		out = append(out, f.FieldID)
	}
	return out
}
