package engine

import (
	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// FieldView is one visible field of a step with its current answer and the
// errors from the last validation. Input holds rejected raw text, if any.
type FieldView struct {
	Field  schema.Field
	Value  answers.Value
	Input  string
	Errors []validation.FieldError
}

// Interactive reports whether the field accepts input.
func (v FieldView) Interactive() bool {
	return v.Field.Type.Interactive()
}

// Messages returns the error messages attached to the field.
func (v FieldView) Messages() []string {
	if len(v.Errors) == 0 {
		return nil
	}
	out := make([]string, 0, len(v.Errors))
	for _, err := range v.Errors {
		out = append(out, err.Message)
	}
	return out
}

// StepView is the render-boundary snapshot of the current step.
type StepView struct {
	SchemaID     string
	Title        string
	Description  string
	Confirmation string
	Index        int
	Total        int
	Progress     int
	ShowProgress bool
	Section      schema.Section
	Fields       []FieldView
	First        bool
	Last         bool
	Submitted    bool
}

// HasErrors reports whether any visible field carries errors.
func (v StepView) HasErrors() bool {
	for _, f := range v.Fields {
		if len(f.Errors) > 0 {
			return true
		}
	}
	return false
}

// Field returns the view for id when it is visible on this step.
func (v StepView) Field(id string) (FieldView, bool) {
	for _, f := range v.Fields {
		if f.Field.ID == id {
			return f, true
		}
	}
	return FieldView{}, false
}

// View returns the current step: section metadata and the ordered list of
// visible fields with their values and errors.
func (e *Engine) View() StepView {
	section, _ := e.schema.Section(e.step)
	view := StepView{
		SchemaID:     e.schema.ID,
		Title:        e.schema.Title,
		Description:  e.schema.Description,
		Confirmation: e.schema.ConfirmationMessage(),
		Index:        e.step,
		Total:        e.TotalSteps(),
		Progress:     e.Progress(),
		ShowProgress: e.schema.ShowProgress(),
		Section:      section,
		First:        e.IsFirst(),
		Last:         e.IsLast(),
		Submitted:    e.submitted,
	}
	for _, field := range e.visibleFields(e.step) {
		fv := FieldView{Field: field}
		if field.Type.Interactive() {
			fv.Value, _ = e.values.Get(field.ID)
			fv.Errors = e.Errors(field.ID)
			fv.Input, _ = e.Rejected(field.ID)
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}
