package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/submit"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

// Engine is a single form session.
type Engine struct {
	schema    *schema.Schema
	resolver  *visibility.Resolver
	values    *answers.Map
	visible   map[string]bool
	errors    map[string][]validation.FieldError
	rejected  map[string]string
	step      int
	submitted bool
	result    *submit.Result

	submitter   submit.Submitter
	observers   []Observer
	observer    Observer
	prefill     map[string]any
	validateAll bool
	now         func() time.Time
	newID       func() string
	sessionID   string
}

// New starts a session at step 0 with an empty answer set (or the prefill).
func New(s *schema.Schema, options ...Option) (*Engine, error) {
	if s == nil {
		return nil, errors.New("engine: schema is required")
	}
	if s.StepCount() == 0 {
		return nil, fmt.Errorf("engine: %w", schema.ErrEmptySchema)
	}

	e := &Engine{
		schema:    s,
		resolver:  visibility.New(s),
		values:    answers.NewMap(),
		errors:    make(map[string][]validation.FieldError),
		rejected:  make(map[string]string),
		submitter: submit.Discard,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	e.observer = NewCompositeObserver(e.observers...)
	e.sessionID = e.newID()

	for _, id := range sortedKeys(e.prefill) {
		field, err := e.interactiveField(id)
		if err != nil {
			return nil, fmt.Errorf("engine: prefill: %w", err)
		}
		value, err := answers.Coerce(field, e.prefill[id])
		if err != nil {
			return nil, fmt.Errorf("engine: prefill: %w", err)
		}
		e.values.Set(id, value)
	}
	e.visible = e.resolver.Snapshot(e.values)
	return e, nil
}

// Schema returns the schema the session runs on.
func (e *Engine) Schema() *schema.Schema { return e.schema }

// SessionID identifies this session in logs and results.
func (e *Engine) SessionID() string { return e.sessionID }

// Step returns the current step index.
func (e *Engine) Step() int { return e.step }

// TotalSteps returns the number of steps.
func (e *Engine) TotalSteps() int { return e.schema.StepCount() }

// IsFirst reports whether the session is on the first step.
func (e *Engine) IsFirst() bool { return e.step == 0 }

// IsLast reports whether the session is on the terminal step, where Submit
// replaces Advance.
func (e *Engine) IsLast() bool { return e.step == e.TotalSteps()-1 }

// Progress returns the completion percentage of the current step.
func (e *Engine) Progress() int {
	total := e.TotalSteps()
	if total == 0 {
		return 0
	}
	return int(float64(e.step+1)/float64(total)*100 + 0.5)
}

// Submitted reports whether the session has been submitted.
func (e *Engine) Submitted() bool { return e.submitted }

// Result returns the submitted result, if any.
func (e *Engine) Result() (submit.Result, bool) {
	if e.result == nil {
		return submit.Result{}, false
	}
	return *e.result, true
}

// Value returns the stored answer for id.
func (e *Engine) Value(id string) (answers.Value, bool) {
	return e.values.Get(id)
}

// Answers returns a copy of the answer set.
func (e *Engine) Answers() *answers.Map {
	return e.values.Clone()
}

// Visible reports the current visibility of field id.
func (e *Engine) Visible(id string) bool {
	return e.visible[id]
}

// Errors returns the errors recorded for field id by the last validation or
// the last rejected edit.
func (e *Engine) Errors(id string) []validation.FieldError {
	return append([]validation.FieldError(nil), e.errors[id]...)
}

// Rejected returns the raw text of the last edit of id that could not be
// coerced. It is cleared by the next accepted edit or validation.
func (e *Engine) Rejected(id string) (string, bool) {
	raw, ok := e.rejected[id]
	return raw, ok
}

func (e *Engine) clearErrors(id string) {
	delete(e.errors, id)
	delete(e.rejected, id)
}

func (e *Engine) interactiveField(id string) (schema.Field, error) {
	field, ok := e.schema.Field(id)
	if !ok {
		return schema.Field{}, fmt.Errorf("%w %q", ErrUnknownField, id)
	}
	if !field.Type.Interactive() {
		return schema.Field{}, fmt.Errorf("%w: %q", ErrNotInteractive, id)
	}
	return field, nil
}

// visibleFields returns the currently visible fields of step, in order.
func (e *Engine) visibleFields(step int) []schema.Field {
	section, ok := e.schema.Section(step)
	if !ok {
		return nil
	}
	out := make([]schema.Field, 0, len(section.Fields))
	for _, field := range section.Fields {
		if e.visible[field.ID] {
			out = append(out, field)
		}
	}
	return out
}

func (e *Engine) refreshVisibility() {
	next := e.resolver.Snapshot(e.values)
	for _, field := range e.schema.Fields() {
		if next[field.ID] != e.visible[field.ID] {
			if !next[field.ID] {
				e.clearErrors(field.ID)
			}
			e.observer.OnVisibilityChange(e.sessionID, field.ID, next[field.ID])
		}
	}
	e.visible = next
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
