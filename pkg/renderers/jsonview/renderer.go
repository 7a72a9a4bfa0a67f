// Package jsonview renders a step view as a JSON document for clients that
// draw the form themselves.
package jsonview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// ContentType is the media type of the rendered document.
const ContentType = "application/json"

// Renderer encodes step views as JSON.
type Renderer struct {
	policy *bluemonday.Policy
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// Option customises the renderer.
type Option func(*Renderer)

// WithIndent pretty-prints the document using indent per level.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// WithSanitizer overrides the policy applied to description content.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		if policy != nil {
			r.policy = policy
		}
	}
}

// New constructs the renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{policy: bluemonday.UGCPolicy()}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string { return "json" }

// ContentType reports the media type of Render's output.
func (r *Renderer) ContentType() string { return ContentType }

// Document is the wire shape of a rendered step.
type Document struct {
	Schema       string     `json:"schema"`
	Title        string     `json:"title,omitempty"`
	Step         int        `json:"step"`
	Total        int        `json:"total"`
	Progress     int        `json:"progress"`
	First        bool       `json:"first"`
	Last         bool       `json:"last"`
	Submitted    bool       `json:"submitted"`
	Confirmation string     `json:"confirmation,omitempty"`
	Section      SectionDoc `json:"section"`
	Fields       []FieldDoc `json:"fields"`
}

// SectionDoc carries the metadata of the current section.
type SectionDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// FieldDoc is a visible field with its answer. Value is null when unanswered.
type FieldDoc struct {
	schema.Field
	Value  answers.Value           `json:"value"`
	Input  string                  `json:"input,omitempty"`
	Errors []validation.FieldError `json:"errors,omitempty"`
}

// Render encodes view. Step is 1-based in the document.
func (r *Renderer) Render(ctx context.Context, view engine.StepView) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := Document{
		Schema:    view.SchemaID,
		Title:     view.Title,
		Step:      view.Index + 1,
		Total:     view.Total,
		Progress:  view.Progress,
		First:     view.First,
		Last:      view.Last,
		Submitted: view.Submitted,
		Section: SectionDoc{
			ID:          view.Section.ID,
			Title:       view.Section.Title,
			Description: r.sanitize(view.Section.Description),
		},
		Fields: make([]FieldDoc, 0, len(view.Fields)),
	}
	if view.Submitted {
		doc.Confirmation = view.Confirmation
	}
	for _, fv := range view.Fields {
		field := fv.Field
		field.Visibility = nil
		field.Content = r.sanitize(field.Content)
		doc.Fields = append(doc.Fields, FieldDoc{
			Field:  field,
			Value:  fv.Value,
			Input:  fv.Input,
			Errors: fv.Errors,
		})
	}

	var (
		out []byte
		err error
	)
	if r.indent != "" {
		out, err = json.MarshalIndent(doc, "", r.indent)
	} else {
		out, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonview: encode step: %w", err)
	}
	return out, nil
}

func (r *Renderer) sanitize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(r.policy.Sanitize(raw))
}
