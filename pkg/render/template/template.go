// Package template wraps pongo2 behind a small renderer seam so HTML renderers
// can be tested against alternate implementations.
package template

import "io"

// Renderer is the contract HTML renderers depend on.
type Renderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
