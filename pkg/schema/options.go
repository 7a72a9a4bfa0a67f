package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// NormalizeOption converts the external option representations into a
// ChoiceOption. A bare string (or scalar) becomes value=label; an object
// without a label reuses its value.
func NormalizeOption(raw any) (ChoiceOption, error) {
	switch typed := raw.(type) {
	case ChoiceOption:
		if typed.Label == "" {
			typed.Label = typed.Value
		}
		return typed, nil
	case *ChoiceOption:
		if typed == nil {
			return ChoiceOption{}, errors.New("schema: option is nil")
		}
		return NormalizeOption(*typed)
	case string:
		return ChoiceOption{Value: typed, Label: typed}, nil
	case float64, int, int64, bool:
		text := fmt.Sprint(typed)
		return ChoiceOption{Value: text, Label: text}, nil
	case map[string]any:
		value, ok := typed["value"]
		if !ok || value == nil {
			return ChoiceOption{}, errors.New("schema: option object requires a value")
		}
		opt := ChoiceOption{Value: scalarString(value)}
		if label, ok := typed["label"]; ok && label != nil {
			opt.Label = scalarString(label)
		}
		if strings.TrimSpace(opt.Label) == "" {
			opt.Label = opt.Value
		}
		return opt, nil
	case nil:
		return ChoiceOption{}, errors.New("schema: option is empty")
	default:
		return ChoiceOption{}, fmt.Errorf("schema: unsupported option %T", raw)
	}
}

func scalarString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// UnmarshalJSON accepts either a string or a {value,label} object.
func (o *ChoiceOption) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	opt, err := NormalizeOption(raw)
	if err != nil {
		return err
	}
	*o = opt
	return nil
}

// UnmarshalYAML accepts either a scalar or a {value,label} mapping.
func (o *ChoiceOption) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	opt, err := NormalizeOption(raw)
	if err != nil {
		return err
	}
	*o = opt
	return nil
}
