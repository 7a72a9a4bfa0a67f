package html

import "github.com/goliatone/go-formflow/pkg/schema"

// Control names the HTML control a field variant is presented with.
type Control string

const (
	ControlInput         Control = "input"
	ControlTextArea      Control = "textarea"
	ControlSelect        Control = "select"
	ControlRadioGroup    Control = "radio-group"
	ControlCheckboxGroup Control = "checkbox-group"
	ControlScale         Control = "scale"
	ControlGrid          Control = "grid"
	ControlStatic        Control = "static"
)

// ControlFor maps a field type to its control and, for <input> based
// controls, the input type attribute.
func ControlFor(t schema.FieldType) (Control, string) {
	switch t {
	case schema.FieldTypeText:
		return ControlInput, "text"
	case schema.FieldTypeDate:
		return ControlInput, "date"
	case schema.FieldTypeTime:
		return ControlInput, "time"
	case schema.FieldTypeTextArea:
		return ControlTextArea, ""
	case schema.FieldTypeSelect:
		return ControlSelect, ""
	case schema.FieldTypeRadio:
		return ControlRadioGroup, "radio"
	case schema.FieldTypeCheckbox:
		return ControlCheckboxGroup, "checkbox"
	case schema.FieldTypeScale:
		return ControlScale, "radio"
	case schema.FieldTypeGridRadio:
		return ControlGrid, "radio"
	case schema.FieldTypeGridCheckbox:
		return ControlGrid, "checkbox"
	case schema.FieldTypeDescription:
		return ControlStatic, ""
	default:
		return ControlInput, "text"
	}
}

// InputName is the form parameter a field posts under: Name when set,
// otherwise the id.
func InputName(field schema.Field) string {
	if field.Name != "" {
		return field.Name
	}
	return field.ID
}

// CellName is the parameter a grid row posts under.
func CellName(field schema.Field, row string) string {
	return InputName(field) + "[" + row + "]"
}

func controlID(parts ...string) string {
	id := "ff"
	for _, p := range parts {
		id += "-" + slug(p)
	}
	return id
}

func slug(s string) string {
	out := make([]rune, 0, len(s))
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
			dash = false
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
			dash = false
		default:
			if !dash && len(out) > 0 {
				out = append(out, '-')
				dash = true
			}
		}
	}
	if dash {
		out = out[:len(out)-1]
	}
	return string(out)
}
