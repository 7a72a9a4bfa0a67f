// Package answers holds the live answer set of a form session. Each answer is
// a Value whose Kind is fixed by the field variant it belongs to, so
// visibility and validation never inspect loosely typed data.
package answers

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Kind tags the representation stored in a Value.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindStrings
	KindNumber
	KindBool
	KindGrid
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindStrings:
		return "strings"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindGrid:
		return "grid"
	default:
		return "empty"
	}
}

// Value is an immutable answer. The zero Value is empty.
type Value struct {
	kind  Kind
	str   string
	list  []string
	num   float64
	flag  bool
	cells map[string][]string
	multi bool
}

// Empty returns the empty Value.
func Empty() Value { return Value{} }

// String wraps a text answer.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Strings wraps a multi-choice answer.
func Strings(values ...string) Value {
	return Value{kind: KindStrings, list: append([]string{}, values...)}
}

// Number wraps a numeric answer.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool wraps a boolean answer.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Grid wraps a grid answer mapping row to selected columns. multi marks a
// checkbox grid; radio grids hold at most one column per row.
func Grid(cells map[string][]string, multi bool) Value {
	out := make(map[string][]string, len(cells))
	for row, cols := range cells {
		if len(cols) == 0 {
			continue
		}
		out[row] = append([]string(nil), cols...)
	}
	return Value{kind: KindGrid, cells: out, multi: multi}
}

// Kind reports the stored representation.
func (v Value) Kind() Kind { return v.kind }

// Text returns the string payload.
func (v Value) Text() (string, bool) { return v.str, v.kind == KindString }

// List returns a copy of the multi-choice payload.
func (v Value) List() ([]string, bool) {
	if v.kind != KindStrings {
		return nil, false
	}
	return append([]string{}, v.list...), true
}

// Num returns the numeric payload.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// Flag returns the boolean payload.
func (v Value) Flag() (bool, bool) { return v.flag, v.kind == KindBool }

// Cells returns a copy of the grid payload.
func (v Value) Cells() (map[string][]string, bool) {
	if v.kind != KindGrid {
		return nil, false
	}
	out := make(map[string][]string, len(v.cells))
	for row, cols := range v.cells {
		out[row] = append([]string(nil), cols...)
	}
	return out, true
}

// Row returns the columns selected for a grid row.
func (v Value) Row(row string) []string {
	if v.kind != KindGrid {
		return nil
	}
	return append([]string(nil), v.cells[row]...)
}

// IsEmpty reports whether the value counts as unanswered: unset, blank text,
// an empty selection or an empty grid. Zero and false are answers.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindString:
		return strings.TrimSpace(v.str) == ""
	case KindStrings:
		return len(v.list) == 0
	case KindGrid:
		return len(v.cells) == 0
	case KindNumber, KindBool:
		return false
	default:
		return true
	}
}

// Equal compares kind and payload. Multi-choice answers compare as sets.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindStrings:
		return sameSet(v.list, other.list)
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.flag == other.flag
	case KindGrid:
		if len(v.cells) != len(other.cells) {
			return false
		}
		for row, cols := range v.cells {
			if !sameSet(cols, other.cells[row]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Interface returns the plain Go representation used for serialisation:
// string, []string, float64, bool, map[string]string (radio grid),
// map[string][]string (checkbox grid) or nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindStrings:
		return append([]string{}, v.list...)
	case KindNumber:
		return v.num
	case KindBool:
		return v.flag
	case KindGrid:
		if v.multi {
			cells, _ := v.Cells()
			return cells
		}
		out := make(map[string]string, len(v.cells))
		for row, cols := range v.cells {
			if len(cols) > 0 {
				out[row] = cols[0]
			}
		}
		return out
	default:
		return nil
	}
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindStrings:
		return strings.Join(v.list, ", ")
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindGrid:
		rows := make([]string, 0, len(v.cells))
		for row := range v.cells {
			rows = append(rows, row)
		}
		sort.Strings(rows)
		parts := make([]string, 0, len(rows))
		for _, row := range rows {
			parts = append(parts, row+": "+strings.Join(v.cells[row], ", "))
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}

// MarshalJSON encodes the plain representation.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// MarshalYAML encodes the plain representation.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		if seen[s] == 0 {
			return false
		}
		seen[s]--
	}
	return true
}
