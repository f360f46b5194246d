// Package props resolves user-configured style properties from the
// host-supplied property bag.
package props

// Object maps property names to their stored values for one group.
type Object map[string]any

// Objects maps a property group name to that group's properties.
type Objects map[string]Object

// Category is a categorical column carrying one Objects bag per row.
type Category struct {
	Values  []any     `json:"values,omitempty" yaml:"values,omitempty"`
	Objects []Objects `json:"objects,omitempty" yaml:"objects,omitempty"`
}

// SolidFill is the solid color of a Fill.
type SolidFill struct {
	Color string `json:"color" yaml:"color"`
}

// Fill is the host's color-fill shape: {"solid": {"color": "#RRGGBB"}}.
type Fill struct {
	Solid SolidFill `json:"solid" yaml:"solid"`
}

// Solid returns a Fill of the given hex color.
func Solid(color string) Fill {
	return Fill{Solid: SolidFill{Color: color}}
}

// GetValue returns objects[group][property] when present, def otherwise.
// The stored value is returned unchanged; a value that does not hold a T
// resolves to def.
func GetValue[T any](objects Objects, group, property string, def T) T {
	if objects == nil {
		return def
	}
	return lookup(objects[group], property, def)
}

// GetCategoricalObjectValue indexes the category's per-row objects by index
// and then performs the same lookup as GetValue.
func GetCategoricalObjectValue[T any](category *Category, index int, group, property string, def T) T {
	if category == nil || index < 0 || index >= len(category.Objects) {
		return def
	}
	row := category.Objects[index]
	if row == nil {
		return def
	}
	return lookup(row[group], property, def)
}

func lookup[T any](object Object, property string, def T) T {
	if object == nil {
		return def
	}
	v, ok := object[property]
	if !ok || v == nil {
		return def
	}
	typed, ok := v.(T)
	if !ok {
		return def
	}
	return typed
}
