// Package render defines the contract shared by renderers that turn a step
// view into a byte payload, plus a registry to look them up by name or by
// negotiated media type.
package render

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/engine"
)

// Renderer converts the current step of a session into a byte representation
// (HTML, plain text, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view engine.StepView) ([]byte, error)
}
