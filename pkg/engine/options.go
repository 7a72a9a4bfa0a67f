package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/goliatone/go-formflow/pkg/submit"
)

// Option configures an Engine.
type Option func(*Engine)

// WithSubmitter sets the collaborator that receives the final result.
func WithSubmitter(s submit.Submitter) Option {
	return func(e *Engine) {
		if s != nil {
			e.submitter = s
		}
	}
}

// WithSubmitFunc is a convenience wrapper around WithSubmitter.
func WithSubmitFunc(fn func(ctx context.Context, result submit.Result) error) Option {
	return func(e *Engine) {
		if fn != nil {
			e.submitter = submit.SubmitterFunc(fn)
		}
	}
}

// WithObserver registers an observer. Multiple observers are combined.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// WithLogger registers a LoggingObserver backed by logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.observers = append(e.observers, NewLoggingObserver(logger))
		}
	}
}

// WithPrefill seeds answers before the session starts. Values go through the
// same coercion as Set; an invalid value makes New fail.
func WithPrefill(values map[string]any) Option {
	return func(e *Engine) {
		if len(values) == 0 {
			return
		}
		if e.prefill == nil {
			e.prefill = make(map[string]any, len(values))
		}
		for k, v := range values {
			e.prefill[k] = v
		}
	}
}

// WithValidateAllOnSubmit makes Submit validate every visible field of the
// form, not only the last step. On failure the engine moves to the first
// step holding an invalid field.
func WithValidateAllOnSubmit() Option {
	return func(e *Engine) {
		e.validateAll = true
	}
}

// WithClock overrides the time source used to stamp results.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides the generator used for session and submission
// ids.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}
