package gauge

import (
	"fmt"
	"math"
)

// ringInset is the gap between the canvas edge and both circles.
const ringInset = 10

// radiansPerPercent turns one percent into its share of a full turn.
const radiansPerPercent = math.Pi * 2 / 100

// Initial canvas-2D state, in force whenever an assignment is rejected.
const (
	DefaultLineWidth  = 1
	DefaultFontSize   = 10
	DefaultFontWeight = "normal"
)

// Params collects the drawing inputs for one gauge.
type Params struct {
	Percent           float64
	ArcColor          string
	RingColor         string
	FontSize          float64
	FontWeight        string
	FontColor         string
	ArcWidth          float64
	RingWidth         float64
	ArcSizeAdjustment float64
}

// Render draws the background ring, the percentage label and the progress
// arc, in that order. Line widths and font sizes go through the same
// acceptance rule as canvas-2D, so a rejected value leaves the initial
// state in place and the radii follow the width actually in effect. Other
// degenerate inputs (NaN percent, radii below zero) are drawn as given.
func Render(c Canvas, p Params) {
	cx := c.Width() / 2
	cy := c.Height() / 2

	drawRing(c, cx, cy, p)
	drawLabel(c, cx, cy, p)
	drawArc(c, cx, cy, p)
}

// Label formats percent with exactly two decimals and a trailing '%'.
func Label(percent float64) string {
	return fmt.Sprintf("%.2f%%", percent)
}

// Sweep returns the arc's start and end angle. The arc starts at the top
// and runs clockwise for percent/100 of a turn.
func Sweep(percent float64) (start, end float64) {
	start = -math.Pi / 2
	return start, start + percent*radiansPerPercent
}

// LineWidth returns the width a canvas-2D context holds after w is
// assigned to a freshly saved state: w when finite and positive, otherwise
// DefaultLineWidth.
func LineWidth(w float64) float64 {
	if !validSize(w) {
		return DefaultLineWidth
	}
	return w
}

// Font returns the weight and size a canvas-2D context holds after the
// font is assigned to a freshly saved state. A size that is not finite and
// positive makes the whole font string invalid, leaving the initial font.
func Font(weight string, size float64) (string, float64) {
	if !validSize(size) {
		return DefaultFontWeight, DefaultFontSize
	}
	return weight, size
}

func validSize(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// RingRadius is the radius of the background ring for a canvas center cx.
func RingRadius(cx, ringWidth float64) float64 {
	return cx - LineWidth(ringWidth) - ringInset
}

// ArcRadius is the radius of the progress arc for a canvas center cx.
func ArcRadius(cx, arcWidth, adjustment float64) float64 {
	return cx - LineWidth(arcWidth) + adjustment - ringInset
}

func drawRing(c Canvas, cx, cy float64, p Params) {
	c.Save()
	defer c.Restore()

	c.BeginPath()
	c.SetLineWidth(LineWidth(p.RingWidth))
	c.SetLineCap(CapRound)
	c.SetStrokeStyle(p.RingColor)
	c.SetFillStyle(Transparent)
	c.Arc(cx, cy, RingRadius(cx, p.RingWidth), 0, math.Pi*2)
	c.Fill()
	c.Stroke()
	c.ClosePath()
}

func drawLabel(c Canvas, cx, cy float64, p Params) {
	c.Save()
	defer c.Restore()

	label := Label(p.Percent)
	c.SetFillStyle(p.FontColor)
	c.SetFont(Font(p.FontWeight, p.FontSize))
	w := c.MeasureText(label)
	// the baseline offset uses the configured size even when the font was rejected
	c.FillText(label, cx-w/2, cy+p.FontSize/2)
}

func drawArc(c Canvas, cx, cy float64, p Params) {
	c.Save()
	defer c.Restore()

	c.SetStrokeStyle(p.ArcColor)
	c.SetLineWidth(LineWidth(p.ArcWidth))
	c.SetLineCap(CapRound)
	start, end := Sweep(p.Percent)
	c.BeginPath()
	c.Arc(cx, cy, ArcRadius(cx, p.ArcWidth, p.ArcSizeAdjustment), start, end)
	c.Stroke()
	c.ClosePath()
}

// ClockwiseExtent returns the angle a canvas-2D arc covers when drawn
// clockwise from start to end: the full turn once the difference reaches
// 2π, otherwise the difference wrapped into [0, 2π). Non-finite angles
// yield NaN and the arc is skipped.
func ClockwiseExtent(start, end float64) float64 {
	const turn = math.Pi * 2
	d := end - start
	switch {
	case math.IsNaN(d) || math.IsInf(d, 0):
		return math.NaN()
	case d >= turn:
		return turn
	}
	d = math.Mod(d, turn)
	if d < 0 {
		d += turn
	}
	return d
}
