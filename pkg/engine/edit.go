package engine

import (
	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Set coerces raw into the field's value representation and stores it. nil
// or blank input clears the answer. Visibility is recomputed before Set
// returns. Input that cannot be coerced leaves the stored answer alone and is
// recorded as a field error; string input is kept for Rejected.
func (e *Engine) Set(id string, raw any) error {
	return e.edit(id, raw, func(field schema.Field, _ answers.Value) (answers.Value, error) {
		return answers.Coerce(field, raw)
	})
}

// Toggle adds (on) or removes an option from a checkbox answer.
func (e *Engine) Toggle(id, option string, on bool) error {
	return e.edit(id, nil, func(field schema.Field, current answers.Value) (answers.Value, error) {
		return answers.Toggle(field, current, option, on)
	})
}

// SetCell selects (on) or clears a grid cell.
func (e *Engine) SetCell(id, row, column string, on bool) error {
	return e.edit(id, nil, func(field schema.Field, current answers.Value) (answers.Value, error) {
		return answers.SetCell(field, current, row, column, on)
	})
}

// Clear removes the answer for id.
func (e *Engine) Clear(id string) error {
	return e.edit(id, nil, func(schema.Field, answers.Value) (answers.Value, error) {
		return answers.Empty(), nil
	})
}

func (e *Engine) edit(id string, raw any, next func(schema.Field, answers.Value) (answers.Value, error)) error {
	if e.submitted {
		return ErrAlreadySubmitted
	}
	field, err := e.interactiveField(id)
	if err != nil {
		return err
	}
	current, _ := e.values.Get(id)
	value, err := next(field, current)
	if err != nil {
		e.errors[id] = []validation.FieldError{validation.Rejected(field, err)}
		if text, ok := raw.(string); ok {
			e.rejected[id] = text
		} else {
			delete(e.rejected, id)
		}
		return err
	}

	if value.IsEmpty() {
		value = answers.Empty()
	}
	e.clearErrors(id)
	if value.Equal(current) {
		return nil
	}
	e.values.Set(id, value)
	e.observer.OnAnswer(e.sessionID, id, value)
	e.refreshVisibility()
	return nil
}
