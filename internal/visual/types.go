// Package visual implements the donut KPI visual: the host-driven
// controller that resolves style properties, picks the band color and
// draws the gauge on every update.
package visual

import (
	"context"
	"math"

	"github.com/okian/kpidonut/internal/domain/gauge"
	"github.com/okian/kpidonut/internal/domain/props"
)

// Visual is the lifecycle the host drives.
type Visual interface {
	Update(ctx context.Context, opts UpdateOptions)
	EnumerateObjectInstances(opts EnumerateOptions) []ObjectInstance
}

// Viewport is the visual's size in logical pixels.
type Viewport struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Metadata carries the property bag of a data view.
type Metadata struct {
	Objects props.Objects `json:"objects,omitempty" yaml:"objects,omitempty"`
}

// Single is the single aggregated measure.
type Single struct {
	Value float64 `json:"value" yaml:"value"`
}

// DataView is the host payload for one rendering cycle.
type DataView struct {
	Metadata    Metadata          `json:"metadata" yaml:"metadata"`
	Single      *Single           `json:"single,omitempty" yaml:"single,omitempty"`
	Categorical []*props.Category `json:"categorical,omitempty" yaml:"categorical,omitempty"`
}

// Value returns the measure, or NaN when the view carries none.
func (d *DataView) Value() float64 {
	if d == nil || d.Single == nil {
		return math.NaN()
	}
	return d.Single.Value
}

// UpdateOptions is what the host passes to Update.
type UpdateOptions struct {
	DataViews []*DataView `json:"dataViews" yaml:"dataViews"`
	Viewport  Viewport    `json:"viewport" yaml:"viewport"`
}

// EnumerateOptions names the property group the settings pane asks for.
type EnumerateOptions struct {
	ObjectName string `json:"objectName" yaml:"objectName"`
}

// NumberRange bounds a numeric property.
type NumberRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// ValidValue constrains one property.
type ValidValue struct {
	NumberRange *NumberRange `json:"numberRange,omitempty" yaml:"numberRange,omitempty"`
}

// ObjectInstance is one settings-pane entry.
type ObjectInstance struct {
	ObjectName  string                `json:"objectName" yaml:"objectName"`
	DisplayName string                `json:"displayName" yaml:"displayName"`
	Properties  map[string]any        `json:"properties" yaml:"properties"`
	ValidValues map[string]ValidValue `json:"validValues,omitempty" yaml:"validValues,omitempty"`
	Selector    any                   `json:"selector" yaml:"selector"`
}

// State is the controller's render state.
type State int

const (
	// Empty means no data view was supplied; a placeholder is shown.
	Empty State = iota
	// Rendered means the gauge was drawn.
	Rendered
)

func (s State) String() string {
	if s == Rendered {
		return "rendered"
	}
	return "empty"
}

// Placeholder is the message shown in the Empty state.
type Placeholder struct {
	Text          string  `json:"text"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Color         string  `json:"color"`
	TextAlign     string  `json:"textAlign"`
	VerticalAlign string  `json:"verticalAlign"`
}

// CanvasElement is the drawing surface element: Width x Height physical
// pixels displayed at StyleWidth x StyleHeight logical pixels.
type CanvasElement struct {
	ID          string       `json:"id"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	StyleWidth  float64      `json:"styleWidth"`
	StyleHeight float64      `json:"styleHeight"`
	Surface     gauge.Canvas `json:"-"`
}

// Container wraps the canvas with the configured background.
type Container struct {
	Class           string         `json:"class"`
	BackgroundColor string         `json:"backgroundColor"`
	Canvas          *CanvasElement `json:"canvas"`
}

// Root is the visual's output element. Exactly one of Placeholder and
// Container is set after an update; both are nil before the first one.
type Root struct {
	Placeholder *Placeholder `json:"placeholder,omitempty"`
	Container   *Container   `json:"container,omitempty"`
}
