package engine

import (
	"log/slog"

	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/submit"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Observer receives callbacks from the engine for logging and metrics.
// Callbacks run synchronously inside the triggering operation and must not
// call back into the engine.
type Observer interface {
	// OnAnswer is called after a field's stored answer changes.
	OnAnswer(session, fieldID string, value answers.Value)
	// OnVisibilityChange is called for every field whose visibility flipped
	// as a consequence of an edit.
	OnVisibilityChange(session, fieldID string, visible bool)
	// OnStepChange is called when the current step index moves.
	OnStepChange(session string, from, to int)
	// OnValidationFailed is called when Advance or Submit is blocked.
	OnValidationFailed(session string, err *validation.ValidationError)
	// OnSubmitted is called after the Submitter accepted the result.
	OnSubmitted(session string, result submit.Result)
}

// NoopObserver is an Observer that does nothing. It is the default.
type NoopObserver struct{}

func (NoopObserver) OnAnswer(string, string, answers.Value)                 {}
func (NoopObserver) OnVisibilityChange(string, string, bool)                {}
func (NoopObserver) OnStepChange(string, int, int)                          {}
func (NoopObserver) OnValidationFailed(string, *validation.ValidationError) {}
func (NoopObserver) OnSubmitted(string, submit.Result)                      {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnAnswer(session, fieldID string, value answers.Value) {
	for _, o := range c.observers {
		o.OnAnswer(session, fieldID, value)
	}
}

func (c *CompositeObserver) OnVisibilityChange(session, fieldID string, visible bool) {
	for _, o := range c.observers {
		o.OnVisibilityChange(session, fieldID, visible)
	}
}

func (c *CompositeObserver) OnStepChange(session string, from, to int) {
	for _, o := range c.observers {
		o.OnStepChange(session, from, to)
	}
}

func (c *CompositeObserver) OnValidationFailed(session string, err *validation.ValidationError) {
	for _, o := range c.observers {
		o.OnValidationFailed(session, err)
	}
}

func (c *CompositeObserver) OnSubmitted(session string, result submit.Result) {
	for _, o := range c.observers {
		o.OnSubmitted(session, result)
	}
}

// LoggingObserver writes structured logs using log/slog. Answer values are
// never logged, only field ids.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs engine events using the
// provided slog.Logger. If logger is nil, slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnAnswer(session, fieldID string, value answers.Value) {
	o.Logger.Debug("answer_set",
		slog.String("session", session),
		slog.String("field", fieldID),
		slog.String("kind", value.Kind().String()),
	)
}

func (o *LoggingObserver) OnVisibilityChange(session, fieldID string, visible bool) {
	o.Logger.Debug("visibility_change",
		slog.String("session", session),
		slog.String("field", fieldID),
		slog.Bool("visible", visible),
	)
}

func (o *LoggingObserver) OnStepChange(session string, from, to int) {
	o.Logger.Info("step_change",
		slog.String("session", session),
		slog.Int("from", from),
		slog.Int("to", to),
	)
}

func (o *LoggingObserver) OnValidationFailed(session string, err *validation.ValidationError) {
	o.Logger.Info("validation_failed",
		slog.String("session", session),
		slog.Int("step", err.Step),
		slog.Any("fields", err.FieldIDs()),
	)
}

func (o *LoggingObserver) OnSubmitted(session string, result submit.Result) {
	o.Logger.Info("form_submitted",
		slog.String("session", session),
		slog.String("schema", result.SchemaID),
		slog.String("submission", result.SubmissionID),
		slog.Int("answers", len(result.Answers)),
	)
}
