package html

import (
	"context"
	"fmt"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formflow/pkg/engine"
	pkgrender "github.com/goliatone/go-formflow/pkg/render"
	rendertemplate "github.com/goliatone/go-formflow/pkg/render/template"
)

const stepTemplate = "templates/step.tmpl"

// Renderer turns a step view into an HTML form.
type Renderer struct {
	templates rendertemplate.Renderer
	policy    *bluemonday.Policy
	hidden    []HiddenField
	action    string
	method    string
	labels    Labels
}

var _ pkgrender.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		method:     "POST",
		labels:     defaultLabels(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.policy == nil {
		cfg.policy = defaultPolicy()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := rendertemplate.New(
			rendertemplate.WithFS(cfg.templateFS),
			rendertemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		policy:    cfg.policy,
		hidden:    mergeHidden(cfg.hidden),
		action:    cfg.action,
		method:    cfg.method,
		labels:    cfg.labels,
	}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType is the media type of Render's output.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the markup for view. A submitted view renders the
// confirmation message instead of the form.
func (r *Renderer) Render(ctx context.Context, view engine.StepView) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate(stepTemplate, r.data(view))
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}
