package props

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalJSON decodes a property group and normalises its values.
func (o *Object) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	*o = normalizeObject(raw)
	return nil
}

// UnmarshalYAML decodes a property group and normalises its values.
func (o *Object) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	*o = normalizeObject(raw)
	return nil
}

func normalizeObject(raw map[string]any) Object {
	if raw == nil {
		return nil
	}
	out := make(Object, len(raw))
	for k, v := range raw {
		out[k] = normalize(v)
	}
	return out
}

// normalize converts decoder output into the shapes resolvers ask for:
// every number becomes float64 and {solid:{color}} maps become Fill.
func normalize(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		if fill, ok := asFill(t); ok {
			return fill
		}
		return t
	default:
		return v
	}
}

func asFill(m map[string]any) (Fill, bool) {
	solid, ok := m["solid"].(map[string]any)
	if !ok {
		return Fill{}, false
	}
	color, ok := solid["color"].(string)
	if !ok {
		return Fill{}, false
	}
	return Solid(color), true
}
