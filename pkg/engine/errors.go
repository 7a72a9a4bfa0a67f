package engine

import "errors"

var (
	// ErrUnknownField is returned by edits targeting an id the schema does
	// not declare.
	ErrUnknownField = errors.New("engine: unknown field")
	// ErrNotInteractive is returned by edits targeting description fields.
	ErrNotInteractive = errors.New("engine: field does not accept answers")
	// ErrNotTerminalStep is returned by Submit before the last step.
	ErrNotTerminalStep = errors.New("engine: submit is only available on the last step")
	// ErrAlreadySubmitted is returned by edits, navigation and Submit once the
	// session has been submitted.
	ErrAlreadySubmitted = errors.New("engine: form already submitted")
	// ErrReopenNotAllowed is returned by Reopen when the schema does not
	// allow edits after submit.
	ErrReopenNotAllowed = errors.New("engine: editing after submit is disabled")
	// ErrStepOutOfRange is returned by GoTo for indices outside the schema.
	ErrStepOutOfRange = errors.New("engine: step out of range")
)
