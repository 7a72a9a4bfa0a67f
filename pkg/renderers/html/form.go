package html

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// ActionField is the parameter the navigation buttons post under.
const ActionField = "_action"

// Action is the navigation a posted step requests.
type Action string

const (
	ActionNext   Action = "next"
	ActionBack   Action = "back"
	ActionSubmit Action = "submit"
	ActionSave   Action = "save"
)

// ParseAction reads the requested navigation. Unknown or missing values
// mean save: apply the answers and re-render the same step.
func ParseAction(form url.Values) Action {
	switch a := Action(strings.ToLower(strings.TrimSpace(form.Get(ActionField)))); a {
	case ActionNext, ActionBack, ActionSubmit:
		return a
	default:
		return ActionSave
	}
}

// Apply stores the posted answers of the current step. Fields revealed by an
// earlier answer in the same post are read as well. Input a field rejects is
// recorded on the engine and reported as a *validation.ValidationError; the
// remaining fields are still applied.
func Apply(eng *engine.Engine, form url.Values) error {
	if eng == nil {
		return errors.New("html: engine is nil")
	}
	var (
		rejected []validation.FieldError
		errs     []error
	)
	seen := make(map[string]bool)
	for {
		var next *schema.Field
		for _, fv := range eng.View().Fields {
			if seen[fv.Field.ID] || !fv.Interactive() {
				continue
			}
			field := fv.Field
			next = &field
			break
		}
		if next == nil {
			break
		}
		seen[next.ID] = true
		if err := eng.Set(next.ID, posted(*next, form)); err != nil {
			if failures := eng.Errors(next.ID); len(failures) > 0 {
				rejected = append(rejected, failures...)
				continue
			}
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("html: apply answers: %w", errors.Join(errs...))
	}
	if len(rejected) > 0 {
		section, _ := eng.Schema().Section(eng.Step())
		return &validation.ValidationError{Step: eng.Step(), Section: section.ID, Fields: rejected}
	}
	return nil
}

// Handle applies the posted answers then performs the requested action. It
// returns the action taken; a *validation.ValidationError means the step
// should be rendered again with its errors. Back always moves, whatever the
// posted input.
func Handle(ctx context.Context, eng *engine.Engine, form url.Values) (Action, error) {
	if eng == nil {
		return ActionSave, errors.New("html: engine is nil")
	}
	action := ParseAction(form)
	if eng.Submitted() {
		return action, engine.ErrAlreadySubmitted
	}
	applyErr := Apply(eng, form)
	if action == ActionBack {
		return action, eng.Retreat()
	}
	if applyErr != nil {
		return action, applyErr
	}
	switch action {
	case ActionNext:
		return action, eng.Advance()
	case ActionSubmit:
		return action, eng.Submit(ctx)
	default:
		return action, nil
	}
}

// posted extracts the raw input for field. Absent or blank parameters are
// nil so they clear the answer, matching how browsers omit unchecked boxes.
func posted(field schema.Field, form url.Values) any {
	name := InputName(field)
	switch field.Type {
	case schema.FieldTypeCheckbox:
		return nonBlank(form[name])
	case schema.FieldTypeGridRadio, schema.FieldTypeGridCheckbox:
		cells := make(map[string][]string, len(field.Rows))
		for _, row := range field.Rows {
			if cols := nonBlank(form[CellName(field, row)]); len(cols) > 0 {
				cells[row] = cols
			}
		}
		return cells
	default:
		v := form.Get(name)
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return v
	}
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
