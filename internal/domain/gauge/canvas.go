// Package gauge draws the donut indicator onto a canvas-2D style surface.
package gauge

// LineCap selects how open stroke ends are drawn.
type LineCap string

// Line caps understood by every Canvas.
const (
	CapButt  LineCap = "butt"
	CapRound LineCap = "round"
)

// Transparent is the fill style that paints nothing.
const Transparent = "transparent"

// Canvas is the subset of the canvas-2D drawing API the renderer uses.
// Colors are CSS-style strings ("#RRGGBB" or Transparent). Angles are in
// radians, 0 pointing right and growing clockwise on screen.
type Canvas interface {
	Width() float64
	Height() float64

	Save()
	Restore()

	BeginPath()
	ClosePath()
	Arc(cx, cy, r, start, end float64)

	SetLineWidth(w float64)
	SetLineCap(c LineCap)
	SetStrokeStyle(color string)
	SetFillStyle(color string)
	Stroke()
	Fill()

	// SetFont selects a face by CSS weight ("bold" or "normal") and pixel size.
	SetFont(weight string, size float64)
	MeasureText(s string) float64
	// FillText draws s with its baseline at y.
	FillText(s string, x, y float64)
}
