// Package visibility decides which fields of a schema are presented for a
// given answer set. Evaluation is pure: callers pass the answers explicitly
// and a missing or malformed dependency makes the condition false instead of
// failing.
package visibility

import (
	"github.com/goliatone/go-formflow/pkg/answers"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// IsVisible applies the field's own rule. A field without a rule is always
// visible; otherwise the current answer of DependsOn must satisfy the rule.
func IsVisible(field schema.Field, values answers.Lookup) bool {
	if field.Visibility == nil {
		return true
	}
	return Match(*field.Visibility, values)
}

// Match evaluates a rule against the answer set.
func Match(rule schema.VisibilityRule, values answers.Lookup) bool {
	var (
		value answers.Value
		ok    bool
	)
	if values != nil {
		value, ok = values.Get(rule.DependsOn)
	}
	if ok && value.IsEmpty() {
		ok = false
	}
	return compare(rule.Op(), value, ok, rule.Target())
}

// Resolver evaluates visibility across a whole schema. Unlike IsVisible it
// treats rules transitively: a field whose controlling field is hidden is
// hidden as well, so a stale answer behind a hidden field cannot keep its
// dependants on screen.
type Resolver struct {
	schema *schema.Schema
}

// New returns a Resolver bound to s.
func New(s *schema.Schema) *Resolver {
	return &Resolver{schema: s}
}

// Visible reports whether the field id is presented. Unknown ids are hidden.
func (r *Resolver) Visible(id string, values answers.Lookup) bool {
	return r.visible(id, values, 0)
}

func (r *Resolver) visible(id string, values answers.Lookup, depth int) bool {
	field, ok := r.schema.Field(id)
	if !ok {
		return false
	}
	if field.Visibility == nil {
		return true
	}
	// Schemas are checked for cycles on load; the depth bound covers
	// hand-built schemas that skipped schema.New.
	if depth > r.schema.StepCount()+len(r.schema.Fields()) {
		return false
	}
	if !r.visible(field.Visibility.DependsOn, values, depth+1) {
		return false
	}
	return IsVisible(field, values)
}

// Snapshot evaluates every field of the schema.
func (r *Resolver) Snapshot(values answers.Lookup) map[string]bool {
	out := make(map[string]bool)
	for _, field := range r.schema.Fields() {
		out[field.ID] = r.Visible(field.ID, values)
	}
	return out
}

// VisibleFields filters fields down to the visible ones, preserving order.
func (r *Resolver) VisibleFields(fields []schema.Field, values answers.Lookup) []schema.Field {
	out := make([]schema.Field, 0, len(fields))
	for _, field := range fields {
		if r.Visible(field.ID, values) {
			out = append(out, field)
		}
	}
	return out
}
