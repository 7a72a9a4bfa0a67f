// Package submit defines the collaborator that receives a finished form. The
// engine never persists or transmits answers itself; it hands a Result to a
// Submitter exactly once per successful submission.
package submit

import (
	"context"
	"time"

	"github.com/goliatone/go-formflow/pkg/answers"
)

// Result is the structured outcome of a submitted session. Answers holds one
// entry per non-description field that was visible at submit time; fields
// left blank carry the empty Value.
type Result struct {
	SchemaID     string                   `json:"schemaId" yaml:"schemaId"`
	Version      string                   `json:"version,omitempty" yaml:"version,omitempty"`
	SessionID    string                   `json:"sessionId" yaml:"sessionId"`
	SubmissionID string                   `json:"submissionId" yaml:"submissionId"`
	SubmittedAt  time.Time                `json:"submittedAt" yaml:"submittedAt"`
	Answers      map[string]answers.Value `json:"answers" yaml:"answers"`
}

// Values flattens Answers into plain Go values keyed by field id.
func (r Result) Values() map[string]any {
	out := make(map[string]any, len(r.Answers))
	for id, value := range r.Answers {
		out[id] = value.Interface()
	}
	return out
}

// Submitter receives the final result.
type Submitter interface {
	Submit(ctx context.Context, result Result) error
}

// SubmitterFunc adapts a function into a Submitter.
type SubmitterFunc func(ctx context.Context, result Result) error

// Submit calls the underlying function.
func (fn SubmitterFunc) Submit(ctx context.Context, result Result) error {
	return fn(ctx, result)
}

// Discard accepts every result and drops it.
var Discard Submitter = SubmitterFunc(func(context.Context, Result) error { return nil })
