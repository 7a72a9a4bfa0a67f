package engine

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/submit"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Advance validates the visible fields of the current step. When they pass
// the session moves one step forward, never past the last step; otherwise it
// stays put and returns a *validation.ValidationError whose field errors are
// also exposed through View and Errors.
func (e *Engine) Advance() error {
	if e.submitted {
		return ErrAlreadySubmitted
	}
	if err := e.validateStep(e.step); err != nil {
		return err
	}
	if !e.IsLast() {
		e.moveTo(e.step + 1)
	}
	return nil
}

// Retreat moves one step back, never below the first step. Going back never
// validates.
func (e *Engine) Retreat() error {
	if e.submitted {
		return ErrAlreadySubmitted
	}
	if e.step > 0 {
		e.moveTo(e.step - 1)
	}
	return nil
}

// GoTo jumps to step. Moving backward is always allowed; moving forward
// validates each intermediate step and stops on the first one that fails.
func (e *Engine) GoTo(step int) error {
	if e.submitted {
		return ErrAlreadySubmitted
	}
	if step < 0 || step >= e.TotalSteps() {
		return fmt.Errorf("%w: %d", ErrStepOutOfRange, step)
	}
	for e.step < step {
		if err := e.Advance(); err != nil {
			return err
		}
	}
	if step < e.step {
		e.moveTo(step)
	}
	return nil
}

// Submit validates the last step and hands the result to the submitter.
// The submitter is called at most once per successful submission; if it
// fails the session stays editable and Submit may be retried.
func (e *Engine) Submit(ctx context.Context) error {
	if e.submitted {
		return ErrAlreadySubmitted
	}
	if !e.IsLast() {
		return ErrNotTerminalStep
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if e.validateAll {
		for step := 0; step < e.TotalSteps(); step++ {
			if err := e.validateStep(step); err != nil {
				e.moveTo(step)
				return err
			}
		}
	} else if err := e.validateStep(e.step); err != nil {
		return err
	}

	result := e.buildResult()
	if err := e.submitter.Submit(ctx, result); err != nil {
		return fmt.Errorf("engine: submit: %w", err)
	}

	e.submitted = true
	e.result = &result
	e.observer.OnSubmitted(e.sessionID, result)
	return nil
}

// Reopen returns a submitted session to editing on the last step when the
// schema allows edits after submit.
func (e *Engine) Reopen() error {
	if !e.submitted {
		return nil
	}
	if !e.schema.AllowEditAfterSubmit() {
		return ErrReopenNotAllowed
	}
	e.submitted = false
	return nil
}

// Validate checks the visible fields of the current step without moving.
func (e *Engine) Validate() error {
	return e.validateStep(e.step)
}

func (e *Engine) validateStep(step int) error {
	fields := e.visibleFields(step)
	section, _ := e.schema.Section(step)
	for _, field := range section.Fields {
		e.clearErrors(field.ID)
	}

	failures := validation.Fields(fields, e.values)
	if len(failures) == 0 {
		return nil
	}
	for _, failure := range failures {
		e.errors[failure.FieldID] = append(e.errors[failure.FieldID], failure)
	}
	verr := &validation.ValidationError{
		Step:    step,
		Section: section.ID,
		Fields:  failures,
	}
	e.observer.OnValidationFailed(e.sessionID, verr)
	return verr
}

func (e *Engine) moveTo(step int) {
	if step == e.step {
		return
	}
	from := e.step
	e.step = step
	e.observer.OnStepChange(e.sessionID, from, step)
}

func (e *Engine) buildResult() submit.Result {
	result := submit.Result{
		SchemaID:     e.schema.ID,
		Version:      e.schema.Version,
		SessionID:    e.sessionID,
		SubmissionID: e.newID(),
		SubmittedAt:  e.now(),
		Answers:      make(map[string]answers.Value),
	}
	for _, field := range e.schema.Fields() {
		if !field.Type.Interactive() || !e.visible[field.ID] {
			continue
		}
		value, _ := e.values.Get(field.ID)
		result.Answers[field.ID] = value
	}
	return result
}
