package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySchema is reported when a schema declares no sections.
	ErrEmptySchema = errors.New("schema has no sections")
	// ErrDuplicateFieldID is reported when two fields share an id.
	ErrDuplicateFieldID = errors.New("duplicate field id")
	// ErrUnknownFieldType is reported for a type outside FieldTypes.
	ErrUnknownFieldType = errors.New("unknown field type")
	// ErrUnknownDependency is reported when a visibility rule names a field
	// the schema does not declare.
	ErrUnknownDependency = errors.New("visibility depends on unknown field")
	// ErrInvalidVisibility covers malformed visibility rules: unknown
	// operators, self references, cycles and unusable targets.
	ErrInvalidVisibility = errors.New("invalid visibility rule")
	// ErrInvalidField covers variant payload problems (missing options, bad
	// scale bounds, uncompilable patterns).
	ErrInvalidField = errors.New("invalid field")
	// ErrInvalidSection covers missing or duplicated section ids.
	ErrInvalidSection = errors.New("invalid section")
)

// SchemaError describes a single load-time problem. Path locates the offending
// node (for example "sections[1].fields[0]") and Err holds one of the
// sentinel errors above so callers can match with errors.Is.
type SchemaError struct {
	Path    string
	FieldID string
	Err     error
	Detail  string
}

func (e *SchemaError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "schema"
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.FieldID != "" {
		msg += fmt.Sprintf(" (%s)", e.FieldID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *SchemaError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SchemaErrors extracts every SchemaError contained in err, including those
// joined with errors.Join.
func SchemaErrors(err error) []*SchemaError {
	if err == nil {
		return nil
	}
	var out []*SchemaError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if se, ok := e.(*SchemaError); ok {
			out = append(out, se)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}
