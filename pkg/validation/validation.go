// Package validation checks answers against the constraints declared on their
// fields. Only visible fields are ever passed in; visibility filtering is the
// engine's job.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/schema"
)

type rules struct {
	required bool
	minLen   *int
	maxLen   *int
	pattern  *regexp.Regexp
}

func rulesFor(field schema.Field) rules {
	r := rules{required: field.Required}
	if v := field.Validation; v != nil && field.Type.IsText() {
		r.minLen = v.MinLength
		r.maxLen = v.MaxLength
		r.pattern = field.PatternRegexp()
	}
	return r
}

// Field validates a single answer. Non-required empty answers pass; format
// constraints only apply once something has been entered.
func Field(field schema.Field, value answers.Value) []FieldError {
	if !field.Type.Interactive() {
		return nil
	}
	r := rulesFor(field)
	fail := func(code Code, format string, args ...any) []FieldError {
		return []FieldError{{FieldID: field.ID, Code: code, Message: fmt.Sprintf(format, args...)}}
	}

	if value.IsEmpty() {
		if r.required {
			return fail(CodeRequired, "required")
		}
		return nil
	}

	switch field.Type {
	case schema.FieldTypeText, schema.FieldTypeTextArea:
		text, ok := value.Text()
		if !ok {
			return fail(CodeType, "expected text, got %s", value.Kind())
		}
		return r.validateString(field.ID, text)
	case schema.FieldTypeSelect, schema.FieldTypeRadio:
		choice, ok := value.Text()
		if !ok {
			return fail(CodeType, "expected a single choice, got %s", value.Kind())
		}
		if !field.HasOption(choice) {
			return fail(CodeOption, "%q is not an available option", choice)
		}
	case schema.FieldTypeCheckbox:
		list, ok := value.List()
		if !ok {
			return fail(CodeType, "expected a list of choices, got %s", value.Kind())
		}
		for _, choice := range list {
			if !field.HasOption(choice) {
				return fail(CodeOption, "%q is not an available option", choice)
			}
		}
	case schema.FieldTypeScale:
		n, ok := value.Num()
		if !ok {
			return fail(CodeType, "expected a number, got %s", value.Kind())
		}
		if field.Scale != nil && (n < float64(field.Scale.Min) || n > float64(field.Scale.Max)) {
			return fail(CodeRange, "must be between %d and %d", field.Scale.Min, field.Scale.Max)
		}
	case schema.FieldTypeDate:
		return checkLayout(field.ID, value, answers.DateLayout, "YYYY-MM-DD")
	case schema.FieldTypeTime:
		return checkLayout(field.ID, value, answers.TimeLayout, "HH:MM")
	case schema.FieldTypeGridRadio, schema.FieldTypeGridCheckbox:
		return validateGrid(field, value, r.required)
	}
	return nil
}

// Fields validates every field against values, in order.
func Fields(fields []schema.Field, values answers.Lookup) []FieldError {
	var out []FieldError
	for _, field := range fields {
		value, _ := values.Get(field.ID)
		out = append(out, Field(field, value)...)
	}
	return out
}

func (r rules) validateString(id, value string) []FieldError {
	length := utf8.RuneCountInString(value)
	var out []FieldError
	if r.minLen != nil && length < *r.minLen {
		out = append(out, FieldError{FieldID: id, Code: CodeMinLength, Message: fmt.Sprintf("min length %d", *r.minLen)})
	}
	if r.maxLen != nil && length > *r.maxLen {
		out = append(out, FieldError{FieldID: id, Code: CodeMaxLength, Message: fmt.Sprintf("max length %d", *r.maxLen)})
	}
	if r.pattern != nil && !r.pattern.MatchString(value) {
		out = append(out, FieldError{FieldID: id, Code: CodePattern, Message: "does not match required pattern"})
	}
	return out
}

func checkLayout(id string, value answers.Value, layout, hint string) []FieldError {
	text, ok := value.Text()
	if ok {
		if _, err := time.Parse(layout, strings.TrimSpace(text)); err == nil {
			return nil
		}
	}
	return []FieldError{{FieldID: id, Code: CodeFormat, Message: "expected " + hint}}
}

func validateGrid(field schema.Field, value answers.Value, required bool) []FieldError {
	cells, ok := value.Cells()
	if !ok {
		return []FieldError{{FieldID: field.ID, Code: CodeType, Message: fmt.Sprintf("expected grid answers, got %s", value.Kind())}}
	}
	var missing []string
	for _, row := range field.Rows {
		cols := cells[row]
		if field.Type == schema.FieldTypeGridRadio && len(cols) > 1 {
			return []FieldError{{FieldID: field.ID, Code: CodeOption, Message: fmt.Sprintf("row %q accepts one column", row)}}
		}
		for _, col := range cols {
			if !field.HasColumn(col) {
				return []FieldError{{FieldID: field.ID, Code: CodeOption, Message: fmt.Sprintf("%q is not an available column", col)}}
			}
		}
		if len(cols) == 0 {
			missing = append(missing, row)
		}
	}
	for row := range cells {
		if !field.HasRow(row) {
			return []FieldError{{FieldID: field.ID, Code: CodeOption, Message: fmt.Sprintf("%q is not an available row", row)}}
		}
	}
	if required && len(missing) > 0 {
		return []FieldError{{FieldID: field.ID, Code: CodeIncomplete, Message: "answer every row: missing " + strings.Join(missing, ", ")}}
	}
	return nil
}

// Rejected describes raw input the field could not accept as a FieldError, so
// it can be shown next to the field like any other validation failure.
func Rejected(field schema.Field, err error) FieldError {
	out := FieldError{FieldID: field.ID, Code: CodeType, Message: "unsupported value"}
	switch {
	case errors.Is(err, answers.ErrUnknownOption), errors.Is(err, answers.ErrUnknownCell):
		out.Code, out.Message = CodeOption, "not an available option"
	case errors.Is(err, answers.ErrOutOfRange):
		out.Code = CodeRange
		out.Message = "value out of range"
		if field.Scale != nil {
			out.Message = fmt.Sprintf("between %d and %d", field.Scale.Min, field.Scale.Max)
		}
	case errors.Is(err, answers.ErrInvalidFormat):
		out.Code = CodeFormat
		switch field.Type {
		case schema.FieldTypeDate:
			out.Message = "expected YYYY-MM-DD"
		case schema.FieldTypeTime:
			out.Message = "expected HH:MM"
		case schema.FieldTypeScale:
			out.Message = "expected a whole number"
		default:
			out.Message = "invalid format"
		}
	}
	return out
}
