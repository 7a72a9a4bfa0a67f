package html

import (
	"io/fs"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	rendertemplate "github.com/goliatone/go-formflow/pkg/render/template"
)

// Labels are the texts of the navigation buttons.
type Labels struct {
	Next   string
	Back   string
	Submit string
}

func defaultLabels() Labels {
	return Labels{Next: "Next", Back: "Back", Submit: "Submit"}
}

// Option configures the HTML renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.Renderer
	policy           *bluemonday.Policy
	hidden           []HiddenField
	action           string
	method           string
	labels           Labels
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// templates/step.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.Renderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSanitizer replaces the policy applied to description content.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithHiddenFields adds hidden inputs to every rendered step.
func WithHiddenFields(fields ...HiddenField) Option {
	return func(cfg *config) {
		cfg.hidden = append(cfg.hidden, fields...)
	}
}

// WithAction sets the form action URL and method (default POST).
func WithAction(action, method string) Option {
	return func(cfg *config) {
		cfg.action = strings.TrimSpace(action)
		if m := strings.ToUpper(strings.TrimSpace(method)); m != "" {
			cfg.method = m
		}
	}
}

// WithLabels overrides the navigation button texts. Empty entries keep the
// defaults.
func WithLabels(labels Labels) Option {
	return func(cfg *config) {
		if labels.Next != "" {
			cfg.labels.Next = labels.Next
		}
		if labels.Back != "" {
			cfg.labels.Back = labels.Back
		}
		if labels.Submit != "" {
			cfg.labels.Submit = labels.Submit
		}
	}
}
