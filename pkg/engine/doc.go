// Package engine drives one multi-step form session over a checked schema.
//
// An Engine owns the answer set for the lifetime of the session. Every edit
// recomputes visibility before it returns, so a StepView never reflects stale
// rules. Navigation follows a small state machine: Advance validates the
// visible fields of the current step and moves forward (clamped to the last
// step), Retreat moves back without validation (clamped to the first), and
// Submit, available on the last step only, validates and hands the answers to
// the configured submit.Submitter exactly once.
//
// Engines are not safe for concurrent use; renderers call them from a single
// goroutine in response to user input.
package engine
