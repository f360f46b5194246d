package visual

import (
	"github.com/okian/kpidonut/internal/domain/palette"
	"github.com/okian/kpidonut/internal/domain/props"
)

// GroupCircle is the only property group the visual recognises.
const GroupCircle = "circleProperties"

// Property names within GroupCircle.
const (
	PropFontBold        = "fontBold"
	PropFontSize        = "fontSize"
	PropFontColor       = "fontColor"
	PropBackgroundColor = "backgroundColor"
	PropTransparency    = "transparency"
	PropMinThreshold    = "minThreshold"
	PropMaxThreshold    = "maxThreshold"
	PropLowColor        = "lowColor"
	PropMediumColor     = "mediumColor"
	PropHighColor       = "highColor"
	PropInnerColor      = "innerColor"
	PropOuterLineWidth  = "outerLineWidth"
	PropInnerLineWidth  = "innerLineWidth"
	PropAmendmentSize   = "amendmentSize"
)

// Font size bounds offered to the settings pane.
const (
	MinFontSize = 10
	MaxFontSize = 72
)

// Style is the resolved set of style properties.
type Style struct {
	FontBold        bool
	FontSize        float64
	FontColor       props.Fill
	BackgroundColor props.Fill
	Transparency    float64
	MinThreshold    float64
	MaxThreshold    float64
	LowColor        props.Fill
	MediumColor     props.Fill
	HighColor       props.Fill
	InnerColor      props.Fill
	OuterLineWidth  float64
	InnerLineWidth  float64
	AmendmentSize   float64
}

// DefaultStyle returns the value of every property when the host supplies
// none.
func DefaultStyle() Style {
	return Style{
		FontBold:        true,
		FontSize:        18,
		FontColor:       props.Solid("#000000"),
		BackgroundColor: props.Solid("#ffffff"),
		Transparency:    1,
		MinThreshold:    50,
		MaxThreshold:    90,
		LowColor:        props.Solid("#2CAA2A"),
		MediumColor:     props.Solid("#F2C811"),
		HighColor:       props.Solid("#E10000"),
		InnerColor:      props.Solid("#cccccc"),
		OuterLineWidth:  8,
		InnerLineWidth:  4,
		AmendmentSize:   4,
	}
}

// ResolveStyle reads every property of GroupCircle from objects, falling
// back to its default.
func ResolveStyle(objects props.Objects) Style {
	d := DefaultStyle()
	g := GroupCircle
	return Style{
		FontBold:        props.GetValue(objects, g, PropFontBold, d.FontBold),
		FontSize:        props.GetValue(objects, g, PropFontSize, d.FontSize),
		FontColor:       props.GetValue(objects, g, PropFontColor, d.FontColor),
		BackgroundColor: props.GetValue(objects, g, PropBackgroundColor, d.BackgroundColor),
		Transparency:    props.GetValue(objects, g, PropTransparency, d.Transparency),
		MinThreshold:    props.GetValue(objects, g, PropMinThreshold, d.MinThreshold),
		MaxThreshold:    props.GetValue(objects, g, PropMaxThreshold, d.MaxThreshold),
		LowColor:        props.GetValue(objects, g, PropLowColor, d.LowColor),
		MediumColor:     props.GetValue(objects, g, PropMediumColor, d.MediumColor),
		HighColor:       props.GetValue(objects, g, PropHighColor, d.HighColor),
		InnerColor:      props.GetValue(objects, g, PropInnerColor, d.InnerColor),
		OuterLineWidth:  props.GetValue(objects, g, PropOuterLineWidth, d.OuterLineWidth),
		InnerLineWidth:  props.GetValue(objects, g, PropInnerLineWidth, d.InnerLineWidth),
		AmendmentSize:   props.GetValue(objects, g, PropAmendmentSize, d.AmendmentSize),
	}
}

// FontWeight maps FontBold to a CSS weight.
func (s Style) FontWeight() string {
	if s.FontBold {
		return "bold"
	}
	return "normal"
}

// Background returns the container's rgba() background.
func (s Style) Background() string {
	return palette.RGBA(palette.HexToRGB(s.BackgroundColor.Solid.Color), s.Transparency)
}

// Band selects the threshold band of percent.
func (s Style) Band(percent float64) palette.Band {
	return palette.SelectBand(percent, s.MinThreshold, s.MaxThreshold)
}

// BandColor returns the arc color for percent.
func (s Style) BandColor(percent float64) string {
	return s.Band(percent).Pick(s.LowColor.Solid.Color, s.MediumColor.Solid.Color, s.HighColor.Solid.Color)
}

// Properties lists every property by name for the settings pane.
func (s Style) Properties() map[string]any {
	return map[string]any{
		PropFontBold:        s.FontBold,
		PropFontSize:        s.FontSize,
		PropFontColor:       s.FontColor,
		PropBackgroundColor: s.BackgroundColor,
		PropTransparency:    s.Transparency,
		PropMinThreshold:    s.MinThreshold,
		PropMaxThreshold:    s.MaxThreshold,
		PropLowColor:        s.LowColor,
		PropMediumColor:     s.MediumColor,
		PropHighColor:       s.HighColor,
		PropInnerColor:      s.InnerColor,
		PropOuterLineWidth:  s.OuterLineWidth,
		PropInnerLineWidth:  s.InnerLineWidth,
		PropAmendmentSize:   s.AmendmentSize,
	}
}
