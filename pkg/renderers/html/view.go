package html

import (
	"strconv"

	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// Template data uses plain strings and ints so pongo2 comparisons behave.

type formData struct {
	ID           string
	Title        string
	Description  string
	ShowProgress bool
	Confirmation string
}

type stepData struct {
	ID          string
	Title       string
	Description string
	Number      int
	Total       int
	Progress    int
	First       bool
	Last        bool
}

type optionData struct {
	ID       string
	Value    string
	Label    string
	Selected bool
}

type cellData struct {
	ID       string
	Value    string
	Selected bool
}

type rowData struct {
	Label string
	Name  string
	Cells []cellData
}

type fieldData struct {
	ID          string
	ControlID   string
	Name        string
	Label       string
	Control     string
	InputType   string
	Required    bool
	Placeholder string
	Help        string
	Width       string
	Value       string
	MinLength   string
	MaxLength   string
	Options     []optionData
	Columns     []string
	Rows        []rowData
	Content     string
	Errors      []string
}

func (r *Renderer) data(view engine.StepView) map[string]any {
	fields := make([]fieldData, 0, len(view.Fields))
	for _, fv := range view.Fields {
		fields = append(fields, r.field(fv))
	}
	return map[string]any{
		"form": formData{
			ID:           view.SchemaID,
			Title:        view.Title,
			Description:  sanitize(r.policy, view.Description),
			ShowProgress: view.ShowProgress,
			Confirmation: view.Confirmation,
		},
		"step": stepData{
			ID:          view.Section.ID,
			Title:       view.Section.Title,
			Description: sanitize(r.policy, view.Section.Description),
			Number:      view.Index + 1,
			Total:       view.Total,
			Progress:    view.Progress,
			First:       view.First,
			Last:        view.Last,
		},
		"submitted":   view.Submitted,
		"fields":      fields,
		"hidden":      r.hidden,
		"action":      r.action,
		"method":      r.method,
		"labels":      r.labels,
		"actionField": ActionField,
	}
}

func (r *Renderer) field(fv engine.FieldView) fieldData {
	f := fv.Field
	control, inputType := ControlFor(f.Type)
	out := fieldData{
		ID:          f.ID,
		ControlID:   controlID(f.ID),
		Name:        InputName(f),
		Label:       f.DisplayLabel(),
		Control:     string(control),
		InputType:   inputType,
		Required:    f.Required,
		Placeholder: f.Placeholder(),
		Help:        f.HelpText(),
		Errors:      fv.Messages(),
	}
	if f.UI != nil {
		out.Width = f.UI.Width
	}

	switch control {
	case ControlStatic:
		out.Content = sanitize(r.policy, f.Content)
	case ControlInput, ControlTextArea:
		out.Value = fv.Value.String()
		if fv.Input != "" {
			out.Value = fv.Input
		}
		if v := f.Validation; v != nil {
			if v.MinLength != nil {
				out.MinLength = strconv.Itoa(*v.MinLength)
			}
			if v.MaxLength != nil {
				out.MaxLength = strconv.Itoa(*v.MaxLength)
			}
		}
	case ControlSelect, ControlRadioGroup, ControlCheckboxGroup:
		out.Options = choiceOptions(f, fv.Value)
	case ControlScale:
		out.Options = scaleOptions(f, fv.Value)
	case ControlGrid:
		out.Columns = append([]string(nil), f.Columns...)
		out.Rows = gridRows(f, fv.Value)
	}
	return out
}

func choiceOptions(f schema.Field, value answers.Value) []optionData {
	selected := make(map[string]bool)
	if text, ok := value.Text(); ok {
		selected[text] = true
	}
	if list, ok := value.List(); ok {
		for _, v := range list {
			selected[v] = true
		}
	}
	out := make([]optionData, 0, len(f.Options))
	for _, opt := range f.Options {
		out = append(out, optionData{
			ID:       controlID(f.ID, opt.Value),
			Value:    opt.Value,
			Label:    opt.Label,
			Selected: selected[opt.Value],
		})
	}
	return out
}

func scaleOptions(f schema.Field, value answers.Value) []optionData {
	if f.Scale == nil {
		return nil
	}
	current, answered := value.Num()
	out := make([]optionData, 0, f.Scale.Max-f.Scale.Min+1)
	for n := f.Scale.Min; n <= f.Scale.Max; n++ {
		v := strconv.Itoa(n)
		label := v
		if l := f.Scale.Labels[n]; l != "" {
			label = v + " " + l
		}
		out = append(out, optionData{
			ID:       controlID(f.ID, v),
			Value:    v,
			Label:    label,
			Selected: answered && int(current) == n,
		})
	}
	return out
}

func gridRows(f schema.Field, value answers.Value) []rowData {
	out := make([]rowData, 0, len(f.Rows))
	for _, row := range f.Rows {
		chosen := make(map[string]bool)
		for _, col := range value.Row(row) {
			chosen[col] = true
		}
		cells := make([]cellData, 0, len(f.Columns))
		for _, col := range f.Columns {
			cells = append(cells, cellData{
				ID:       controlID(f.ID, row, col),
				Value:    col,
				Selected: chosen[col],
			})
		}
		out = append(out, rowData{Label: row, Name: CellName(f, row), Cells: cells})
	}
	return out
}
