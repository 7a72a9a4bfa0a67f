package answers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formflow/pkg/schema"
)

const (
	// DateLayout is the canonical representation of date answers.
	DateLayout = "2006-01-02"
	// TimeLayout is the canonical representation of time answers.
	TimeLayout = "15:04"
)

var (
	// ErrNotInteractive is returned when a value targets a description field.
	ErrNotInteractive = errors.New("answers: field does not accept answers")
	// ErrUnsupportedValue is returned when raw input has the wrong shape for
	// the field variant.
	ErrUnsupportedValue = errors.New("answers: unsupported value")
	// ErrUnknownOption is returned for choices outside the option list.
	ErrUnknownOption = errors.New("answers: unknown option")
	// ErrOutOfRange is returned for scale answers outside min/max.
	ErrOutOfRange = errors.New("answers: value out of range")
	// ErrInvalidFormat is returned for unparsable dates, times and numbers.
	ErrInvalidFormat = errors.New("answers: invalid format")
	// ErrUnknownCell is returned for grid rows or columns the field does not
	// declare.
	ErrUnknownCell = errors.New("answers: unknown grid cell")
)

var timeLayouts = []string{TimeLayout, "15:04:05", "3:04PM", "3:04 PM", "3:04pm", "3:04 pm"}

// Coerce converts raw input into the Value representation of the field
// variant. nil and blank input produce the empty Value.
func Coerce(field schema.Field, raw any) (Value, error) {
	if v, ok := raw.(Value); ok {
		if v.IsEmpty() {
			return Empty(), nil
		}
		raw = v.Interface()
	}
	if raw == nil {
		if !field.Type.Interactive() {
			return Empty(), ErrNotInteractive
		}
		return Empty(), nil
	}

	switch field.Type {
	case schema.FieldTypeText, schema.FieldTypeTextArea:
		s, err := scalarText(raw)
		if err != nil {
			return Empty(), fieldErr(field, err)
		}
		return String(s), nil
	case schema.FieldTypeSelect, schema.FieldTypeRadio:
		s, err := scalarText(raw)
		if err != nil {
			return Empty(), fieldErr(field, err)
		}
		if s == "" {
			return Empty(), nil
		}
		if !field.HasOption(s) {
			return Empty(), fieldErr(field, fmt.Errorf("%w %q", ErrUnknownOption, s))
		}
		return String(s), nil
	case schema.FieldTypeCheckbox:
		list, err := stringList(raw)
		if err != nil {
			return Empty(), fieldErr(field, err)
		}
		return checkboxValue(field, list)
	case schema.FieldTypeScale:
		n, err := number(raw)
		if err != nil {
			return Empty(), fieldErr(field, err)
		}
		if field.Scale != nil && (n < float64(field.Scale.Min) || n > float64(field.Scale.Max)) {
			return Empty(), fieldErr(field, fmt.Errorf("%w: %v not in [%d,%d]", ErrOutOfRange, n, field.Scale.Min, field.Scale.Max))
		}
		if n != math.Trunc(n) {
			return Empty(), fieldErr(field, fmt.Errorf("%w: scale values are whole numbers", ErrInvalidFormat))
		}
		return Number(n), nil
	case schema.FieldTypeDate:
		return parseTemporal(field, raw, []string{DateLayout, time.RFC3339}, DateLayout)
	case schema.FieldTypeTime:
		return parseTemporal(field, raw, timeLayouts, TimeLayout)
	case schema.FieldTypeGridRadio, schema.FieldTypeGridCheckbox:
		cells, err := gridCells(raw)
		if err != nil {
			return Empty(), fieldErr(field, err)
		}
		return gridValue(field, cells)
	case schema.FieldTypeDescription:
		return Empty(), ErrNotInteractive
	default:
		return Empty(), fieldErr(field, fmt.Errorf("%w: field type %q", ErrUnsupportedValue, field.Type))
	}
}

// Toggle adds or removes option from a checkbox answer.
func Toggle(field schema.Field, current Value, option string, on bool) (Value, error) {
	if field.Type != schema.FieldTypeCheckbox {
		return current, fieldErr(field, fmt.Errorf("%w: toggle requires a checkbox field", ErrUnsupportedValue))
	}
	if !field.HasOption(option) {
		return current, fieldErr(field, fmt.Errorf("%w %q", ErrUnknownOption, option))
	}
	selected, _ := current.List()
	next := make([]string, 0, len(selected)+1)
	for _, v := range selected {
		if v != option {
			next = append(next, v)
		}
	}
	if on {
		next = append(next, option)
	}
	return checkboxValue(field, next)
}

// SetCell selects (on) or clears a grid cell. Radio grids replace the row's
// column; checkbox grids add or remove it.
func SetCell(field schema.Field, current Value, row, column string, on bool) (Value, error) {
	if !field.Type.IsGrid() {
		return current, fieldErr(field, fmt.Errorf("%w: cell edits require a grid field", ErrUnsupportedValue))
	}
	if !field.HasRow(row) || !field.HasColumn(column) {
		return current, fieldErr(field, fmt.Errorf("%w %q/%q", ErrUnknownCell, row, column))
	}
	cells, _ := current.Cells()
	if cells == nil {
		cells = make(map[string][]string)
	}
	existing := cells[row]
	var next []string
	switch {
	case field.Type == schema.FieldTypeGridRadio && on:
		next = []string{column}
	default:
		for _, c := range existing {
			if c != column {
				next = append(next, c)
			}
		}
		if on {
			next = append(next, column)
		}
	}
	cells[row] = next
	return gridValue(field, cells)
}

func checkboxValue(field schema.Field, list []string) (Value, error) {
	chosen := make(map[string]struct{}, len(list))
	for _, v := range list {
		if !field.HasOption(v) {
			return Empty(), fieldErr(field, fmt.Errorf("%w %q", ErrUnknownOption, v))
		}
		chosen[v] = struct{}{}
	}
	if len(chosen) == 0 {
		return Empty(), nil
	}
	ordered := make([]string, 0, len(chosen))
	for _, opt := range field.Options {
		if _, ok := chosen[opt.Value]; ok {
			ordered = append(ordered, opt.Value)
		}
	}
	return Strings(ordered...), nil
}

func gridValue(field schema.Field, cells map[string][]string) (Value, error) {
	multi := field.Type == schema.FieldTypeGridCheckbox
	out := make(map[string][]string, len(cells))
	for row, cols := range cells {
		if !field.HasRow(row) {
			return Empty(), fieldErr(field, fmt.Errorf("%w: row %q", ErrUnknownCell, row))
		}
		seen := make(map[string]struct{}, len(cols))
		var kept []string
		for _, col := range cols {
			if !field.HasColumn(col) {
				return Empty(), fieldErr(field, fmt.Errorf("%w: column %q", ErrUnknownCell, col))
			}
			if _, dup := seen[col]; dup {
				continue
			}
			seen[col] = struct{}{}
			kept = append(kept, col)
		}
		if len(kept) == 0 {
			continue
		}
		if !multi && len(kept) > 1 {
			return Empty(), fieldErr(field, fmt.Errorf("%w: row %q accepts one column", ErrUnsupportedValue, row))
		}
		ordered := make([]string, 0, len(kept))
		for _, col := range field.Columns {
			if _, ok := seen[col]; ok {
				ordered = append(ordered, col)
			}
		}
		out[row] = ordered
	}
	if len(out) == 0 {
		return Empty(), nil
	}
	return Grid(out, multi), nil
}

func parseTemporal(field schema.Field, raw any, layouts []string, canonical string) (Value, error) {
	if t, ok := raw.(time.Time); ok {
		return String(t.Format(canonical)), nil
	}
	s, err := scalarText(raw)
	if err != nil {
		return Empty(), fieldErr(field, err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return Empty(), nil
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return String(t.Format(canonical)), nil
		}
	}
	return Empty(), fieldErr(field, fmt.Errorf("%w: %q (want %s)", ErrInvalidFormat, s, canonical))
}

func scalarText(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case json.Number:
		return v.String(), nil
	case fmt.Stringer:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprint(v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, raw)
	}
}

func stringList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, err := scalarText(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return []string{v}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, raw)
	}
}

func number(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidFormat, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedValue, raw)
	}
}

func gridCells(raw any) (map[string][]string, error) {
	out := make(map[string][]string)
	switch v := raw.(type) {
	case map[string][]string:
		for row, cols := range v {
			out[row] = append([]string(nil), cols...)
		}
	case map[string]string:
		for row, col := range v {
			if col != "" {
				out[row] = []string{col}
			}
		}
	case map[string]any:
		for row, cell := range v {
			if cell == nil {
				continue
			}
			cols, err := stringList(cell)
			if err != nil {
				return nil, err
			}
			out[row] = cols
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, raw)
	}
	return out, nil
}

func fieldErr(field schema.Field, err error) error {
	return fmt.Errorf("field %q: %w", field.ID, err)
}
