package answers

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/schema"
)

var (
	textField   = schema.Field{ID: "name", Type: schema.FieldTypeText}
	selectField = schema.Field{ID: "plan", Type: schema.FieldTypeSelect, Options: []schema.ChoiceOption{{Value: "a"}, {Value: "b"}}}
	boxField    = schema.Field{ID: "tags", Type: schema.FieldTypeCheckbox, Options: []schema.ChoiceOption{{Value: "x"}, {Value: "y"}, {Value: "z"}}}
	scaleField  = schema.Field{ID: "score", Type: schema.FieldTypeScale, Scale: &schema.ScaleConfig{Min: 1, Max: 5}}
	dateField   = schema.Field{ID: "day", Type: schema.FieldTypeDate}
	timeField   = schema.Field{ID: "at", Type: schema.FieldTypeTime}
	radioGrid   = schema.Field{ID: "grid", Type: schema.FieldTypeGridRadio, Rows: []string{"r1", "r2"}, Columns: []string{"c1", "c2"}}
	boxGrid     = schema.Field{ID: "multi", Type: schema.FieldTypeGridCheckbox, Rows: []string{"r1", "r2"}, Columns: []string{"c1", "c2"}}
	noteField   = schema.Field{ID: "note", Type: schema.FieldTypeDescription}
)

func TestCoerce(t *testing.T) {
	cases := []struct {
		name  string
		field schema.Field
		raw   any
		want  any
	}{
		{"text", textField, "Ada", "Ada"},
		{"text from number", textField, 42, "42"},
		{"text blank", textField, "   ", "   "},
		{"select", selectField, "b", "b"},
		{"select blank", selectField, "", nil},
		{"checkbox keeps option order", boxField, []any{"z", "x"}, []string{"x", "z"}},
		{"checkbox dedupes", boxField, []string{"y", "y"}, []string{"y"}},
		{"checkbox single string", boxField, "y", []string{"y"}},
		{"scale int", scaleField, 3, float64(3)},
		{"scale string", scaleField, " 4 ", float64(4)},
		{"date", dateField, "2024-02-29", "2024-02-29"},
		{"date rfc3339", dateField, "2024-02-29T10:00:00Z", "2024-02-29"},
		{"date time.Time", dateField, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), "2023-01-02"},
		{"time", timeField, "09:30", "09:30"},
		{"time 12h", timeField, "3:04PM", "15:04"},
		{"radio grid", radioGrid, map[string]string{"r1": "c2"}, map[string]string{"r1": "c2"}},
		{"checkbox grid", boxGrid, map[string]any{"r2": []any{"c2", "c1"}}, map[string][]string{"r2": {"c1", "c2"}}},
		{"nil", textField, nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Coerce(tc.field, tc.raw)
			if err != nil {
				t.Fatalf("coerce: %v", err)
			}
			if diff := cmp.Diff(tc.want, got.Interface()); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCoerce_Errors(t *testing.T) {
	cases := []struct {
		name  string
		field schema.Field
		raw   any
		want  error
	}{
		{"unknown option", selectField, "c", ErrUnknownOption},
		{"unknown checkbox option", boxField, []string{"x", "nope"}, ErrUnknownOption},
		{"scale above max", scaleField, 6, ErrOutOfRange},
		{"scale below min", scaleField, 0, ErrOutOfRange},
		{"scale fraction", scaleField, 2.5, ErrInvalidFormat},
		{"scale text", scaleField, "lots", ErrInvalidFormat},
		{"bad date", dateField, "29/02/2024", ErrInvalidFormat},
		{"bad time", timeField, "25:61", ErrInvalidFormat},
		{"unknown row", radioGrid, map[string]string{"r9": "c1"}, ErrUnknownCell},
		{"unknown column", radioGrid, map[string]string{"r1": "c9"}, ErrUnknownCell},
		{"radio grid two columns", radioGrid, map[string][]string{"r1": {"c1", "c2"}}, ErrUnsupportedValue},
		{"wrong shape", textField, []string{"a"}, ErrUnsupportedValue},
		{"description", noteField, "x", ErrNotInteractive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Coerce(tc.field, tc.raw)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestToggle(t *testing.T) {
	v, err := Toggle(boxField, Empty(), "z", true)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	v, err = Toggle(boxField, v, "x", true)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if got, _ := v.List(); !cmp.Equal(got, []string{"x", "z"}) {
		t.Fatalf("unexpected selection %v", got)
	}

	v, err = Toggle(boxField, v, "z", false)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	v, err = Toggle(boxField, v, "x", false)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if !v.IsEmpty() {
		t.Fatalf("expected empty selection, got %v", v)
	}

	if _, err := Toggle(boxField, v, "nope", true); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	if _, err := Toggle(textField, v, "x", true); !errors.Is(err, ErrUnsupportedValue) {
		t.Fatalf("expected ErrUnsupportedValue, got %v", err)
	}
}

func TestSetCell(t *testing.T) {
	v, err := SetCell(radioGrid, Empty(), "r1", "c1", true)
	if err != nil {
		t.Fatalf("set cell: %v", err)
	}
	v, err = SetCell(radioGrid, v, "r1", "c2", true)
	if err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if got := v.Row("r1"); !cmp.Equal(got, []string{"c2"}) {
		t.Fatalf("radio grid must replace the column, got %v", got)
	}

	m, err := SetCell(boxGrid, Empty(), "r1", "c2", true)
	if err != nil {
		t.Fatalf("set cell: %v", err)
	}
	m, err = SetCell(boxGrid, m, "r1", "c1", true)
	if err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if got := m.Row("r1"); !cmp.Equal(got, []string{"c1", "c2"}) {
		t.Fatalf("checkbox grid must accumulate, got %v", got)
	}
	m, err = SetCell(boxGrid, m, "r1", "c1", false)
	if err != nil {
		t.Fatalf("clear cell: %v", err)
	}
	if got := m.Row("r1"); !cmp.Equal(got, []string{"c2"}) {
		t.Fatalf("unexpected row %v", got)
	}

	if _, err := SetCell(boxGrid, m, "r3", "c1", true); !errors.Is(err, ErrUnknownCell) {
		t.Fatalf("expected ErrUnknownCell, got %v", err)
	}
}
