package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Renderer runs a form session in the terminal. It walks the engine step by
// step, prompting for every visible field and re-reading the step after each
// answer so fields revealed by a visibility rule are asked in the same pass.
type Renderer struct {
	driver PromptDriver
	out    io.Writer
	theme  Theme
	labels Labels
}

// New constructs a TUI renderer with defaults (survey driver on stdout).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		out:    os.Stdout,
		labels: defaultLabels(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

type action int

const (
	actionNext action = iota
	actionBack
	actionSubmit
)

// Run drives eng until it is submitted, the context ends or the user aborts.
func (r *Renderer) Run(ctx context.Context, eng *engine.Engine) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if eng == nil {
		return ErrNoEngine
	}
	if r.driver == nil {
		return errors.New("tui: prompt driver is nil")
	}

	var pending map[string]bool
	lastHeader := -1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if eng.Submitted() {
			return nil
		}

		view := eng.View()
		if view.Index != lastHeader {
			if err := r.header(ctx, view); err != nil {
				return err
			}
			lastHeader = view.Index
		}
		if err := r.promptStep(ctx, eng, pending); err != nil {
			return err
		}
		pending = nil

		act, err := r.navigate(ctx, eng.View())
		if err != nil {
			return err
		}

		switch act {
		case actionBack:
			if err := eng.Retreat(); err != nil {
				return err
			}
		case actionNext:
			if err := eng.Advance(); err != nil {
				failing, rerr := r.handleStepError(ctx, err)
				if rerr != nil {
					return rerr
				}
				pending = failing
			}
		case actionSubmit:
			if err := eng.Submit(ctx); err != nil {
				failing, rerr := r.handleStepError(ctx, err)
				if rerr == nil {
					pending = failing
					continue
				}
				retry, cerr := r.driver.Confirm(ctx, ConfirmConfig{
					Message: fmt.Sprintf("Submission failed (%v). Retry?", err),
					Default: true,
				})
				if cerr != nil {
					return cerr
				}
				if !retry {
					return err
				}
				pending = map[string]bool{}
				continue
			}
			if msg := eng.Schema().ConfirmationMessage(); msg != "" {
				return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
			}
			return nil
		}
	}
}

// handleStepError reports validation failures and returns the failing field
// ids. Any other error is returned unchanged.
func (r *Renderer) handleStepError(ctx context.Context, err error) (map[string]bool, error) {
	var verr *validation.ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}
	failing := make(map[string]bool, len(verr.Fields))
	for _, fe := range verr.Fields {
		failing[fe.FieldID] = true
		if ierr := r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %s", r.theme.ErrorPrefix, fe.FieldID, fe.Message)); ierr != nil {
			return nil, ierr
		}
	}
	return failing, nil
}

func (r *Renderer) header(ctx context.Context, view engine.StepView) error {
	title := view.Section.Title
	if title == "" {
		title = view.Section.ID
	}
	line := fmt.Sprintf("%sStep %d of %d: %s", r.theme.StepPrefix, view.Index+1, view.Total, title)
	if view.ShowProgress {
		line += fmt.Sprintf(" (%d%%)", view.Progress)
	}
	if err := r.driver.Info(ctx, line); err != nil {
		return err
	}
	if view.Section.Description != "" {
		return r.driver.Info(ctx, r.theme.InfoPrefix+view.Section.Description)
	}
	return nil
}

// promptStep asks every visible field of the current step once. When pending
// is non-nil only those fields are asked.
func (r *Renderer) promptStep(ctx context.Context, eng *engine.Engine, pending map[string]bool) error {
	asked := make(map[string]bool)
	for {
		view := eng.View()
		var next *engine.FieldView
		for i := range view.Fields {
			id := view.Fields[i].Field.ID
			if asked[id] || (pending != nil && !pending[id]) {
				continue
			}
			next = &view.Fields[i]
			break
		}
		if next == nil {
			return nil
		}
		asked[next.Field.ID] = true
		if err := r.promptField(ctx, eng, next.Field); err != nil {
			return err
		}
	}
}

func (r *Renderer) navigate(ctx context.Context, view engine.StepView) (action, error) {
	var (
		labels  []string
		actions []action
	)
	if view.Last {
		labels, actions = append(labels, r.labels.Submit), append(actions, actionSubmit)
	} else {
		labels, actions = append(labels, r.labels.Next), append(actions, actionNext)
	}
	if !view.First {
		labels, actions = append(labels, r.labels.Back), append(actions, actionBack)
	}
	if len(actions) == 1 {
		return actions[0], nil
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Continue",
		Options:      labels,
		DefaultIndex: 0,
	})
	if err != nil {
		return actionNext, err
	}
	if idx < 0 || idx >= len(actions) {
		return actionNext, fmt.Errorf("tui: invalid navigation choice %d", idx)
	}
	return actions[idx], nil
}

func (r *Renderer) promptField(ctx context.Context, eng *engine.Engine, field schema.Field) error {
	if !field.Type.Interactive() {
		if field.Content == "" {
			return nil
		}
		return r.driver.Info(ctx, r.theme.InfoPrefix+field.Content)
	}

	for {
		current, _ := eng.Value(field.ID)
		raw, err := r.ask(ctx, field, current)
		if err != nil {
			return err
		}
		if err := eng.Set(field.ID, raw); err != nil {
			if ierr := r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %v", r.theme.ErrorPrefix, field.ID, err)); ierr != nil {
				return ierr
			}
			continue
		}
		value, _ := eng.Value(field.ID)
		if problems := validation.Field(field, value); len(problems) > 0 {
			for _, p := range problems {
				if ierr := r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %s", r.theme.ErrorPrefix, field.ID, p.Message)); ierr != nil {
					return ierr
				}
			}
			continue
		}
		return nil
	}
}

// ask prompts for one field and returns raw input suitable for engine.Set.
func (r *Renderer) ask(ctx context.Context, field schema.Field, current answers.Value) (any, error) {
	label := displayLabel(field)
	help := displayHelp(field)

	switch field.Type {
	case schema.FieldTypeTextArea:
		return r.driver.TextArea(ctx, TextAreaConfig{
			Message: label,
			Default: current.String(),
			Help:    help,
		})
	case schema.FieldTypeSelect, schema.FieldTypeRadio:
		return r.askChoice(ctx, field, label, help, current)
	case schema.FieldTypeCheckbox:
		selected, _ := current.List()
		idx, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  optionLabels(field.Options),
			Defaults: optionIndices(field, selected),
			Help:     help,
		})
		if err != nil {
			return nil, err
		}
		return optionValues(field, idx), nil
	case schema.FieldTypeScale:
		return r.askScale(ctx, field, label, help, current)
	case schema.FieldTypeGridRadio:
		cells := make(map[string]string, len(field.Rows))
		for _, row := range field.Rows {
			col, err := r.askGridRow(ctx, field, row, current)
			if err != nil {
				return nil, err
			}
			if col != "" {
				cells[row] = col
			}
		}
		return cells, nil
	case schema.FieldTypeGridCheckbox:
		cells := make(map[string][]string, len(field.Rows))
		for _, row := range field.Rows {
			idx, err := r.driver.MultiSelect(ctx, SelectConfig{
				Message:  fmt.Sprintf("%s: %s", label, row),
				Options:  field.Columns,
				Defaults: indicesOf(field.Columns, current.Row(row)),
				Help:     help,
			})
			if err != nil {
				return nil, err
			}
			if cols := valuesFromIndices(field.Columns, idx); len(cols) > 0 {
				cells[row] = cols
			}
		}
		return cells, nil
	case schema.FieldTypeDate:
		return r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: current.String(),
			Help:    joinHelp(help, "Format: YYYY-MM-DD"),
		})
	case schema.FieldTypeTime:
		return r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: current.String(),
			Help:    joinHelp(help, "Format: HH:MM (24h)"),
		})
	default:
		return r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: current.String(),
			Help:    help,
		})
	}
}

func (r *Renderer) askChoice(ctx context.Context, field schema.Field, label, help string, current answers.Value) (any, error) {
	options := optionLabels(field.Options)
	offset := 0
	if !field.Required {
		options = append([]string{r.labels.Skip}, options...)
		offset = 1
	}
	defaultIdx := -1
	if text, ok := current.Text(); ok {
		if i := field.OptionIndex(text); i >= 0 {
			defaultIdx = i + offset
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      options,
		DefaultIndex: defaultIdx,
		Help:         help,
	})
	if err != nil {
		return nil, err
	}
	idx -= offset
	if idx < 0 || idx >= len(field.Options) {
		return nil, nil
	}
	return field.Options[idx].Value, nil
}

func (r *Renderer) askScale(ctx context.Context, field schema.Field, label, help string, current answers.Value) (any, error) {
	if field.Scale == nil {
		return nil, fmt.Errorf("tui: scale field %s has no bounds", field.ID)
	}
	var (
		options []string
		points  []float64
	)
	if !field.Required {
		options = append(options, r.labels.Skip)
		points = append(points, 0)
	}
	offset := len(options)
	for n := field.Scale.Min; n <= field.Scale.Max; n++ {
		text := strconv.Itoa(n)
		if l := field.Scale.Labels[n]; l != "" {
			text += " - " + l
		}
		options = append(options, text)
		points = append(points, float64(n))
	}
	defaultIdx := -1
	if n, ok := current.Num(); ok {
		defaultIdx = int(n) - field.Scale.Min + offset
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      options,
		DefaultIndex: defaultIdx,
		Help:         help,
	})
	if err != nil {
		return nil, err
	}
	if idx < offset || idx >= len(points) {
		return nil, nil
	}
	return points[idx], nil
}

func (r *Renderer) askGridRow(ctx context.Context, field schema.Field, row string, current answers.Value) (string, error) {
	options := append([]string(nil), field.Columns...)
	offset := 0
	if !field.Required {
		options = append([]string{r.labels.Skip}, options...)
		offset = 1
	}
	defaultIdx := -1
	if cols := current.Row(row); len(cols) > 0 {
		defaultIdx = indexOf(field.Columns, cols[0]) + offset
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      fmt.Sprintf("%s: %s", displayLabel(field), row),
		Options:      options,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return "", err
	}
	idx -= offset
	if idx < 0 || idx >= len(field.Columns) {
		return "", nil
	}
	return field.Columns[idx], nil
}

func displayLabel(field schema.Field) string {
	label := field.DisplayLabel()
	if field.Required {
		label += " *"
	}
	return label
}

func displayHelp(field schema.Field) string {
	if help := field.HelpText(); help != "" {
		return help
	}
	return field.Placeholder()
}

func joinHelp(help, hint string) string {
	if help == "" {
		return hint
	}
	return help + " (" + hint + ")"
}

func optionLabels(options []schema.ChoiceOption) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		out = append(out, opt.Label)
	}
	return out
}

func optionIndices(field schema.Field, values []string) []int {
	var out []int
	for _, v := range values {
		if i := field.OptionIndex(v); i >= 0 {
			out = append(out, i)
		}
	}
	return out
}

func optionValues(field schema.Field, indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(field.Options) {
			out = append(out, field.Options[idx].Value)
		}
	}
	return out
}

func valuesFromIndices(options []string, indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}
