package tui

import "io"

// Theme captures optional formatting hints the driver can apply when printing
// messages.
type Theme struct {
	StepPrefix  string
	InfoPrefix  string
	ErrorPrefix string
}

// Labels overrides the navigation choices shown at the end of each step.
type Labels struct {
	Next   string
	Back   string
	Submit string
	Skip   string
}

func defaultLabels() Labels {
	return Labels{
		Next:   "Next",
		Back:   "Back",
		Submit: "Submit",
		Skip:   "(no answer)",
	}
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput redirects informational output of the default survey driver.
func WithOutput(out io.Writer) Option {
	return func(r *Renderer) {
		if out != nil {
			r.out = out
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithLabels overrides the navigation labels.
func WithLabels(labels Labels) Option {
	return func(r *Renderer) {
		def := defaultLabels()
		if labels.Next == "" {
			labels.Next = def.Next
		}
		if labels.Back == "" {
			labels.Back = def.Back
		}
		if labels.Submit == "" {
			labels.Submit = def.Submit
		}
		if labels.Skip == "" {
			labels.Skip = def.Skip
		}
		r.labels = labels
	}
}
