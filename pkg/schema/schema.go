package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// New checks the supplied schema and returns an indexed copy. Every problem
// found is reported as a *SchemaError; multiple problems are joined.
func New(src Schema) (*Schema, error) {
	s := clone(src)
	var errs []error

	if len(s.Sections) == 0 {
		errs = append(errs, &SchemaError{Path: "sections", Err: ErrEmptySchema})
	}

	s.index = make(map[string]fieldRef)
	sectionIDs := make(map[string]struct{}, len(s.Sections))
	for si := range s.Sections {
		section := &s.Sections[si]
		path := fmt.Sprintf("sections[%d]", si)
		switch id := strings.TrimSpace(section.ID); {
		case id == "":
			errs = append(errs, &SchemaError{Path: path, Err: ErrInvalidSection, Detail: "id is required"})
		default:
			if _, dup := sectionIDs[id]; dup {
				errs = append(errs, &SchemaError{Path: path, Err: ErrInvalidSection, Detail: fmt.Sprintf("duplicate section id %q", id)})
			}
			sectionIDs[id] = struct{}{}
		}

		for fi := range section.Fields {
			field := &section.Fields[fi]
			fieldPath := fmt.Sprintf("%s.fields[%d]", path, fi)
			if strings.TrimSpace(field.ID) == "" {
				errs = append(errs, &SchemaError{Path: fieldPath, Err: ErrInvalidField, Detail: "id is required"})
				continue
			}
			if _, dup := s.index[field.ID]; dup {
				errs = append(errs, &SchemaError{Path: fieldPath, FieldID: field.ID, Err: ErrDuplicateFieldID})
				continue
			}
			s.index[field.ID] = fieldRef{section: si, field: fi}
			errs = append(errs, checkField(field, fieldPath)...)
		}
	}

	for si := range s.Sections {
		for fi := range s.Sections[si].Fields {
			field := &s.Sections[si].Fields[fi]
			if field.Visibility == nil || field.ID == "" {
				continue
			}
			path := fmt.Sprintf("sections[%d].fields[%d].visibility", si, fi)
			if err := s.checkVisibility(field, path); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &s, nil
}

// MustNew panics when New fails. Useful for tests and static fixtures.
func MustNew(src Schema) *Schema {
	s, err := New(src)
	if err != nil {
		panic(err)
	}
	return s
}

func checkField(field *Field, path string) []error {
	invalid := func(detail string) error {
		return &SchemaError{Path: path, FieldID: field.ID, Err: ErrInvalidField, Detail: detail}
	}

	if !field.Type.Valid() {
		return []error{&SchemaError{Path: path, FieldID: field.ID, Err: ErrUnknownFieldType, Detail: strconv.Quote(string(field.Type))}}
	}

	var errs []error
	switch {
	case field.Type.IsText():
		if v := field.Validation; v != nil {
			if v.MinLength != nil && *v.MinLength < 0 {
				errs = append(errs, invalid("minLength must not be negative"))
			}
			if v.MaxLength != nil && *v.MaxLength < 0 {
				errs = append(errs, invalid("maxLength must not be negative"))
			}
			if v.MinLength != nil && v.MaxLength != nil && *v.MinLength > *v.MaxLength {
				errs = append(errs, invalid("minLength exceeds maxLength"))
			}
			if v.Pattern != "" {
				re, err := regexp.Compile(v.Pattern)
				if err != nil {
					errs = append(errs, invalid(fmt.Sprintf("pattern: %v", err)))
				} else {
					field.pattern = re
				}
			}
		}
	case field.Type.IsChoice():
		if len(field.Options) == 0 {
			errs = append(errs, invalid("options are required"))
		}
		seen := make(map[string]struct{}, len(field.Options))
		for i := range field.Options {
			opt := &field.Options[i]
			if opt.Label == "" {
				opt.Label = opt.Value
			}
			if _, dup := seen[opt.Value]; dup {
				errs = append(errs, invalid(fmt.Sprintf("duplicate option %q", opt.Value)))
			}
			seen[opt.Value] = struct{}{}
		}
	case field.Type == FieldTypeScale:
		if field.Scale == nil {
			errs = append(errs, invalid("scale bounds are required"))
		} else if field.Scale.Min >= field.Scale.Max {
			errs = append(errs, invalid(fmt.Sprintf("scale min %d must be below max %d", field.Scale.Min, field.Scale.Max)))
		}
	case field.Type.IsGrid():
		if len(field.Rows) == 0 {
			errs = append(errs, invalid("grid rows are required"))
		}
		if len(field.Columns) == 0 {
			errs = append(errs, invalid("grid columns are required"))
		}
	}
	return errs
}

func (s *Schema) checkVisibility(field *Field, path string) error {
	rule := field.Visibility
	bad := func(detail string) error {
		return &SchemaError{Path: path, FieldID: field.ID, Err: ErrInvalidVisibility, Detail: detail}
	}

	dep := strings.TrimSpace(rule.DependsOn)
	if dep == "" {
		return bad("dependsOn is required")
	}
	rule.DependsOn = dep
	target, ok := s.Field(dep)
	if !ok {
		return &SchemaError{Path: path, FieldID: field.ID, Err: ErrUnknownDependency, Detail: strconv.Quote(dep)}
	}
	if dep == field.ID {
		return bad("field depends on itself")
	}
	if !target.Type.Interactive() {
		return bad(fmt.Sprintf("%q is not an input field", dep))
	}
	if !rule.Operator.Valid() {
		return bad(fmt.Sprintf("unknown operator %q", rule.Operator))
	}

	literal, err := normalizeLiteral(rule.Equals)
	if err != nil {
		return bad(err.Error())
	}
	rule.Equals = literal

	op := rule.Op()
	if text, ok := rule.Target().(string); ok && strings.TrimSpace(text) == "" && op != OperatorEmpty && op != OperatorNotEmpty {
		return bad(fmt.Sprintf("operator %s with a blank target never matches; use empty or notEmpty", op))
	}

	switch op {
	case OperatorEmpty, OperatorNotEmpty:
	case OperatorMatches:
		pattern, ok := rule.Target().(string)
		if !ok {
			return bad("operator matches requires a string pattern")
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return bad(fmt.Sprintf("matches: %v", err))
		}
	case OperatorGT, OperatorGTE, OperatorLT, OperatorLTE:
		if _, ok := numericLiteral(rule.Target()); !ok {
			return bad(fmt.Sprintf("operator %s requires a numeric target", rule.Op()))
		}
	default:
		if rule.Target() == nil {
			return bad(fmt.Sprintf("operator %s requires equals or value", rule.Op()))
		}
	}

	if s.dependsOnItself(field.ID) {
		return bad("visibility rules form a cycle")
	}
	return nil
}

func (s *Schema) dependsOnItself(id string) bool {
	current := id
	for steps := 0; steps <= len(s.index); steps++ {
		field, ok := s.Field(current)
		if !ok || field.Visibility == nil {
			return false
		}
		next := strings.TrimSpace(field.Visibility.DependsOn)
		if next == id {
			return true
		}
		current = next
	}
	return false
}

func normalizeLiteral(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return nil, fmt.Errorf("unsupported target %T", value)
	}
}

func numericLiteral(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Field returns the field declared with id.
func (s *Schema) Field(id string) (Field, bool) {
	if s == nil {
		return Field{}, false
	}
	if s.index != nil {
		ref, ok := s.index[id]
		if !ok {
			return Field{}, false
		}
		return s.Sections[ref.section].Fields[ref.field], true
	}
	for _, section := range s.Sections {
		for _, field := range section.Fields {
			if field.ID == id {
				return field, true
			}
		}
	}
	return Field{}, false
}

// SectionIndexOf returns the step index holding the field id.
func (s *Schema) SectionIndexOf(id string) (int, bool) {
	if s == nil {
		return 0, false
	}
	if s.index != nil {
		ref, ok := s.index[id]
		return ref.section, ok
	}
	for si, section := range s.Sections {
		for _, field := range section.Fields {
			if field.ID == id {
				return si, true
			}
		}
	}
	return 0, false
}

// Section returns the section at step index i.
func (s *Schema) Section(i int) (Section, bool) {
	if s == nil || i < 0 || i >= len(s.Sections) {
		return Section{}, false
	}
	return s.Sections[i], true
}

// StepCount reports how many sections the schema holds.
func (s *Schema) StepCount() int {
	if s == nil {
		return 0
	}
	return len(s.Sections)
}

// Fields returns every field in declaration order.
func (s *Schema) Fields() []Field {
	if s == nil {
		return nil
	}
	var out []Field
	for _, section := range s.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// ShowProgress reports whether renderers should display step progress.
func (s *Schema) ShowProgress() bool {
	return s != nil && s.Settings != nil && s.Settings.ShowProgress
}

// AllowEditAfterSubmit reports whether a submitted session may be reopened.
func (s *Schema) AllowEditAfterSubmit() bool {
	return s != nil && s.Settings != nil && s.Settings.AllowEditAfterSubmit
}

// ConfirmationMessage returns the message shown after a successful submit.
func (s *Schema) ConfirmationMessage() string {
	if s == nil || s.Settings == nil {
		return ""
	}
	return s.Settings.ConfirmationMessage
}

func clone(src Schema) Schema {
	out := src
	out.index = nil
	if src.Settings != nil {
		settings := *src.Settings
		out.Settings = &settings
	}
	out.Sections = make([]Section, len(src.Sections))
	for i, section := range src.Sections {
		cs := section
		cs.Fields = make([]Field, len(section.Fields))
		for j, field := range section.Fields {
			cs.Fields[j] = cloneField(field)
		}
		out.Sections[i] = cs
	}
	return out
}

func cloneField(field Field) Field {
	out := field
	if field.UI != nil {
		ui := *field.UI
		out.UI = &ui
	}
	if field.Visibility != nil {
		rule := *field.Visibility
		out.Visibility = &rule
	}
	if field.Validation != nil {
		v := *field.Validation
		out.Validation = &v
	}
	if field.Scale != nil {
		scale := *field.Scale
		if len(field.Scale.Labels) > 0 {
			scale.Labels = make(map[int]string, len(field.Scale.Labels))
			for k, v := range field.Scale.Labels {
				scale.Labels[k] = v
			}
		}
		out.Scale = &scale
	}
	out.Options = append([]ChoiceOption(nil), field.Options...)
	out.Rows = append([]string(nil), field.Rows...)
	out.Columns = append([]string(nil), field.Columns...)
	return out
}
