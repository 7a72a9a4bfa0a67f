package html

import (
	"fmt"
	"strings"
)

// HiddenField is a hidden input emitted with every step, typically a CSRF
// token or session hint.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying token under name (for
// example "_csrf").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// mergeHidden drops unnamed fields and lets later fields win on name
// collisions, keeping first-seen order.
func mergeHidden(fields []HiddenField) []HiddenField {
	index := make(map[string]int, len(fields))
	out := make([]HiddenField, 0, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			continue
		}
		if i, ok := index[f.Name]; ok {
			out[i] = f
			continue
		}
		index[f.Name] = len(out)
		out = append(out, f)
	}
	return out
}
