package schema

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestNormalizeOption(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want ChoiceOption
	}{
		{name: "bare string", raw: "Red", want: ChoiceOption{Value: "Red", Label: "Red"}},
		{name: "object", raw: map[string]any{"value": "r", "label": "Red"}, want: ChoiceOption{Value: "r", Label: "Red"}},
		{name: "object without label", raw: map[string]any{"value": "r"}, want: ChoiceOption{Value: "r", Label: "r"}},
		{name: "number", raw: float64(3), want: ChoiceOption{Value: "3", Label: "3"}},
		{name: "struct", raw: ChoiceOption{Value: "v"}, want: ChoiceOption{Value: "v", Label: "v"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeOption(tc.raw)
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("option mismatch (-want +got):\n%s", diff)
			}
		})
	}

	for _, bad := range []any{nil, map[string]any{"label": "x"}, []string{"x"}} {
		if _, err := NormalizeOption(bad); err == nil {
			t.Fatalf("expected error for %#v", bad)
		}
	}
}

func TestNormalizeOption_StringAndObjectAgree(t *testing.T) {
	fromString, err := NormalizeOption("Blue")
	if err != nil {
		t.Fatalf("string: %v", err)
	}
	fromObject, err := NormalizeOption(map[string]any{"value": "Blue", "label": "Blue"})
	if err != nil {
		t.Fatalf("object: %v", err)
	}
	if fromString != fromObject {
		t.Fatalf("expected identical options, got %+v and %+v", fromString, fromObject)
	}
}

func TestChoiceOption_Decoding(t *testing.T) {
	want := []ChoiceOption{
		{Value: "a", Label: "a"},
		{Value: "b", Label: "Bee"},
		{Value: "c", Label: "c"},
	}

	var fromJSON []ChoiceOption
	if err := json.Unmarshal([]byte(`["a", {"value": "b", "label": "Bee"}, {"value": "c"}]`), &fromJSON); err != nil {
		t.Fatalf("json: %v", err)
	}
	if diff := cmp.Diff(want, fromJSON); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}

	var fromYAML []ChoiceOption
	doc := "- a\n- value: b\n  label: Bee\n- value: c\n"
	if err := yaml.Unmarshal([]byte(doc), &fromYAML); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if diff := cmp.Diff(want, fromYAML); diff != "" {
		t.Fatalf("yaml mismatch (-want +got):\n%s", diff)
	}
}
