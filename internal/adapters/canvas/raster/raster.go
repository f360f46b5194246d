// Package raster implements gauge.Canvas on the gg software rasteriser.
package raster

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/okian/kpidonut/internal/adapters/canvas/fonts"
	"github.com/okian/kpidonut/internal/domain/gauge"
)

// defaultFontSize matches the canvas-2D initial font ("10px sans-serif").
const defaultFontSize = 10

type style struct {
	lineWidth  float64
	lineCap    gauge.LineCap
	stroke     string
	fill       string
	fontWeight string
	fontSize   float64
}

func initialStyle() style {
	return style{
		lineWidth:  1,
		lineCap:    gauge.CapButt,
		stroke:     "#000000",
		fill:       "#000000",
		fontWeight: fonts.WeightNormal,
		fontSize:   defaultFontSize,
	}
}

// Canvas draws into a gg.Context. Draw errors do not interrupt drawing;
// the first one is kept and reported by Err.
type Canvas struct {
	dc    *gg.Context
	fonts *fonts.Cache
	cur   style
	saved []style
	err   error
}

var _ gauge.Canvas = (*Canvas)(nil)

// New creates a transparent width x height canvas.
func New(width, height int, fc *fonts.Cache) *Canvas {
	return &Canvas{
		dc:    gg.NewContext(width, height),
		fonts: fc,
		cur:   initialStyle(),
	}
}

func (c *Canvas) Width() float64  { return float64(c.dc.Width()) }
func (c *Canvas) Height() float64 { return float64(c.dc.Height()) }

func (c *Canvas) Save() {
	c.saved = append(c.saved, c.cur)
	c.dc.Push()
}

func (c *Canvas) Restore() {
	if len(c.saved) == 0 {
		return
	}
	c.cur = c.saved[len(c.saved)-1]
	c.saved = c.saved[:len(c.saved)-1]
	c.dc.Pop()
}

func (c *Canvas) BeginPath() { c.dc.ClearPath() }
func (c *Canvas) ClosePath() { c.dc.ClosePath() }

// Arc appends a clockwise arc. Arcs with a negative radius or non-finite
// angles are skipped, as are empty sweeps.
func (c *Canvas) Arc(cx, cy, r, start, end float64) {
	extent := gauge.ClockwiseExtent(start, end)
	if math.IsNaN(extent) || extent == 0 || !(r >= 0) {
		return
	}
	c.dc.DrawArc(cx, cy, r, start, start+extent)
}

func (c *Canvas) SetLineWidth(w float64) {
	// canvas-2D ignores non-positive and non-finite widths
	if w > 0 && !math.IsInf(w, 0) {
		c.cur.lineWidth = w
	}
}

func (c *Canvas) SetLineCap(lc gauge.LineCap) { c.cur.lineCap = lc }
func (c *Canvas) SetStrokeStyle(s string)     { c.cur.stroke = s }
func (c *Canvas) SetFillStyle(s string)       { c.cur.fill = s }

func (c *Canvas) Stroke() {
	if c.cur.stroke == gauge.Transparent {
		return
	}
	c.dc.SetLineWidth(c.cur.lineWidth)
	c.dc.SetLineCap(lineCap(c.cur.lineCap))
	c.dc.SetStrokeBrush(gg.Solid(Color(c.cur.stroke)))
	c.keep(c.dc.StrokePreserve())
}

func (c *Canvas) Fill() {
	if c.cur.fill == gauge.Transparent {
		return
	}
	c.dc.SetFillBrush(gg.Solid(Color(c.cur.fill)))
	c.keep(c.dc.FillPreserve())
}

func (c *Canvas) SetFont(weight string, size float64) {
	// an invalid size rejects the whole font, as canvas-2D does
	if !(size > 0) || math.IsInf(size, 1) {
		return
	}
	c.cur.fontWeight = weight
	c.cur.fontSize = size
}

func (c *Canvas) MeasureText(s string) float64 {
	return c.fonts.Measure(c.cur.fontWeight, c.cur.fontSize, s)
}

func (c *Canvas) FillText(s string, x, y float64) {
	if c.cur.fill == gauge.Transparent {
		return
	}
	c.dc.SetFont(c.fonts.Face(c.cur.fontWeight, c.cur.fontSize))
	c.dc.SetFillBrush(gg.Solid(Color(c.cur.fill)))
	c.dc.DrawString(s, x, y)
}

// Image returns a copy of the drawn pixels.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

// EncodePNG writes the canvas as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := c.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// EncodeJPEG writes the canvas as JPEG with the given quality.
func (c *Canvas) EncodeJPEG(w io.Writer, quality int) error {
	if err := c.dc.EncodeJPEG(w, quality); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// Err returns the first draw error, if any.
func (c *Canvas) Err() error { return c.err }

// Close releases the drawing context.
func (c *Canvas) Close() error { return c.dc.Close() }

func (c *Canvas) keep(err error) {
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("%w: %w", ErrDraw, err)
	}
}

// Color parses a canvas color string. "transparent" maps to the zero
// color; anything else goes through gg's permissive hex parser.
func Color(s string) gg.RGBA {
	if s == gauge.Transparent {
		return gg.Transparent
	}
	return gg.Hex(s)
}

func lineCap(lc gauge.LineCap) gg.LineCap {
	if lc == gauge.CapRound {
		return gg.LineCapRound
	}
	return gg.LineCapButt
}
