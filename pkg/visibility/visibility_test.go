package visibility

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/schema"
)

func rule(dep string, op schema.Operator, target any) *schema.VisibilityRule {
	return &schema.VisibilityRule{DependsOn: dep, Operator: op, Equals: target}
}

func TestIsVisible_NoRuleAlwaysVisible(t *testing.T) {
	field := schema.Field{ID: "f", Type: schema.FieldTypeText}
	for _, values := range []answers.Lookup{
		nil,
		answers.MapOf{},
		answers.MapOf{"f": answers.String("x"), "other": answers.Number(3)},
	} {
		if !IsVisible(field, values) {
			t.Fatalf("field without rule must be visible for %v", values)
		}
	}
}

func TestIsVisible_StrictEquals(t *testing.T) {
	field := schema.Field{ID: "b", Type: schema.FieldTypeText, Visibility: rule("a", "", "x")}
	cases := []struct {
		name   string
		values answers.MapOf
		want   bool
	}{
		{"match", answers.MapOf{"a": answers.String("x")}, true},
		{"different", answers.MapOf{"a": answers.String("y")}, false},
		{"missing", answers.MapOf{}, false},
		{"blank", answers.MapOf{"a": answers.String("")}, false},
		{"case sensitive", answers.MapOf{"a": answers.String("X")}, false},
		{"no type coercion", answers.MapOf{"a": answers.Strings("x")}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsVisible(field, tc.values); got != tc.want {
				t.Fatalf("IsVisible = %v, want %v", got, tc.want)
			}
		})
	}

	numeric := schema.Field{ID: "n", Visibility: rule("a", schema.OperatorEquals, float64(1))}
	if IsVisible(numeric, answers.MapOf{"a": answers.String("1")}) {
		t.Fatalf("string answer must not equal numeric literal")
	}
	if !IsVisible(numeric, answers.MapOf{"a": answers.Number(1)}) {
		t.Fatalf("numeric answer must equal numeric literal")
	}
}

func TestMatch_Operators(t *testing.T) {
	cases := []struct {
		name   string
		op     schema.Operator
		target any
		value  answers.Value
		want   bool
	}{
		{"notEquals differs", schema.OperatorNotEquals, "x", answers.String("y"), true},
		{"notEquals same", schema.OperatorNotEquals, "x", answers.String("x"), false},
		{"contains text", schema.OperatorContains, "ell", answers.String("hello"), true},
		{"contains list", schema.OperatorContains, "b", answers.Strings("a", "b"), true},
		{"contains list partial", schema.OperatorContains, "b", answers.Strings("abc"), false},
		{"startsWith", schema.OperatorStartsWith, "he", answers.String("hello"), true},
		{"endsWith", schema.OperatorEndsWith, "@biz.com", answers.String("ada@biz.com"), true},
		{"endsWith miss", schema.OperatorEndsWith, "@biz.com", answers.String("ada@home.org"), false},
		{"in", schema.OperatorIn, "pro, enterprise", answers.String("enterprise"), true},
		{"in miss", schema.OperatorIn, "pro,enterprise", answers.String("starter"), false},
		{"in list", schema.OperatorIn, "a,b", answers.Strings("c", "b"), true},
		{"in number", schema.OperatorIn, "1,2", answers.Number(2), true},
		{"matches", schema.OperatorMatches, `^\d{3}$`, answers.String("123"), true},
		{"matches miss", schema.OperatorMatches, `^\d{3}$`, answers.String("12a"), false},
		{"matches bad pattern", schema.OperatorMatches, `(`, answers.String("x"), false},
		{"gt", schema.OperatorGT, float64(3), answers.Number(4), true},
		{"gt equal", schema.OperatorGT, float64(3), answers.Number(3), false},
		{"gte", schema.OperatorGTE, float64(3), answers.Number(3), true},
		{"lt text answer", schema.OperatorLT, "10", answers.String("9"), true},
		{"lte", schema.OperatorLTE, float64(2), answers.Number(2), true},
		{"lt non numeric", schema.OperatorLT, float64(2), answers.String("abc"), false},
		{"empty unanswered", schema.OperatorEmpty, nil, answers.Empty(), true},
		{"empty answered", schema.OperatorEmpty, nil, answers.String("x"), false},
		{"notEmpty answered", schema.OperatorNotEmpty, nil, answers.Number(0), true},
		{"notEmpty unanswered", schema.OperatorNotEmpty, nil, answers.Empty(), false},
		{"unknown operator", schema.Operator("like"), "x", answers.String("x"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := schema.VisibilityRule{DependsOn: "a", Operator: tc.op, Equals: tc.target}
			if got := Match(r, answers.MapOf{"a": tc.value}); got != tc.want {
				t.Fatalf("Match = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatch_MissingAnswerIsFalse(t *testing.T) {
	ops := []schema.Operator{
		schema.OperatorEquals, schema.OperatorNotEquals, schema.OperatorContains,
		schema.OperatorStartsWith, schema.OperatorEndsWith, schema.OperatorIn,
		schema.OperatorMatches, schema.OperatorGT, schema.OperatorLTE, schema.OperatorNotEmpty,
	}
	for _, op := range ops {
		r := schema.VisibilityRule{DependsOn: "ghost", Operator: op, Equals: "x"}
		if Match(r, answers.MapOf{}) {
			t.Fatalf("%s on a missing answer must be false", op)
		}
	}
}

func TestMatch_ValueFallback(t *testing.T) {
	target := "yes"
	r := schema.VisibilityRule{DependsOn: "a", Value: &target}
	if !Match(r, answers.MapOf{"a": answers.String("yes")}) {
		t.Fatalf("value must be used when equals is absent")
	}
	r.Equals = "no"
	if Match(r, answers.MapOf{"a": answers.String("yes")}) {
		t.Fatalf("equals must win over value")
	}
}

func chainSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New(schema.Schema{
		ID: "chain",
		Sections: []schema.Section{{
			ID: "only",
			Fields: []schema.Field{
				{ID: "a", Type: schema.FieldTypeRadio, Options: []schema.ChoiceOption{{Value: "yes"}, {Value: "no"}}},
				{ID: "b", Type: schema.FieldTypeText, Visibility: rule("a", "", "yes")},
				{ID: "c", Type: schema.FieldTypeText, Visibility: rule("b", schema.OperatorNotEmpty, nil)},
				{ID: "note", Type: schema.FieldTypeDescription, Content: "hi"},
			},
		}},
	})
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	return s
}

func TestResolver_Transitive(t *testing.T) {
	r := New(chainSchema(t))

	values := answers.MapOf{"a": answers.String("yes"), "b": answers.String("filled")}
	want := map[string]bool{"a": true, "b": true, "c": true, "note": true}
	if diff := cmp.Diff(want, r.Snapshot(values)); diff != "" {
		t.Fatalf("snapshot (-want +got):\n%s", diff)
	}

	values["a"] = answers.String("no")
	if r.Visible("b", values) || r.Visible("c", values) {
		t.Fatalf("c must hide when its controlling field b is hidden, even with a stale answer")
	}
	if !IsVisible(mustField(t, r, "c"), values) {
		t.Fatalf("IsVisible only looks at the direct rule")
	}
	if r.Visible("ghost", values) {
		t.Fatalf("unknown ids are hidden")
	}
}

func TestResolver_VisibleFields(t *testing.T) {
	s := chainSchema(t)
	r := New(s)
	section, _ := s.Section(0)

	var ids []string
	for _, f := range r.VisibleFields(section.Fields, answers.MapOf{}) {
		ids = append(ids, f.ID)
	}
	if diff := cmp.Diff([]string{"a", "note"}, ids); diff != "" {
		t.Fatalf("visible fields (-want +got):\n%s", diff)
	}
}

func mustField(t *testing.T, r *Resolver, id string) schema.Field {
	t.Helper()
	f, ok := r.schema.Field(id)
	if !ok {
		t.Fatalf("field %s missing", id)
	}
	return f
}
