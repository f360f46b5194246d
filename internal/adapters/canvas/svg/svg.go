// Package svg implements gauge.Canvas by emitting an SVG document.
package svg

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/okian/kpidonut/internal/domain/gauge"
)

const fontFamily = "helvetica,arial,sans-serif"

// Measurer returns the advance width of s for a weight and pixel size.
type Measurer func(weight string, size float64, s string) float64

type style struct {
	lineWidth  float64
	lineCap    gauge.LineCap
	stroke     string
	fill       string
	fontWeight string
	fontSize   float64
}

// Canvas accumulates SVG elements for a width x height drawing.
type Canvas struct {
	width, height float64
	measure       Measurer
	cur           style
	saved         []style
	path          strings.Builder
	body          strings.Builder
}

var _ gauge.Canvas = (*Canvas)(nil)

// New creates an empty SVG canvas. measure is used for MeasureText.
func New(width, height float64, measure Measurer) *Canvas {
	return &Canvas{
		width:   width,
		height:  height,
		measure: measure,
		cur: style{
			lineWidth:  1,
			lineCap:    gauge.CapButt,
			stroke:     "#000000",
			fill:       "#000000",
			fontWeight: "normal",
			fontSize:   10,
		},
	}
}

func (c *Canvas) Width() float64  { return c.width }
func (c *Canvas) Height() float64 { return c.height }

func (c *Canvas) Save() { c.saved = append(c.saved, c.cur) }

func (c *Canvas) Restore() {
	if n := len(c.saved); n > 0 {
		c.cur = c.saved[n-1]
		c.saved = c.saved[:n-1]
	}
}

func (c *Canvas) BeginPath() { c.path.Reset() }

func (c *Canvas) ClosePath() {
	if c.path.Len() > 0 {
		c.path.WriteString("Z")
	}
}

// Arc appends a clockwise arc as quarter-turn SVG arc segments, joined to
// any previous subpath by a straight line.
func (c *Canvas) Arc(cx, cy, r, start, end float64) {
	extent := gauge.ClockwiseExtent(start, end)
	if math.IsNaN(extent) || extent == 0 || !(r >= 0) {
		return
	}
	cmd := "M"
	if c.path.Len() > 0 {
		cmd = "L"
	}
	fmt.Fprintf(&c.path, "%s%s,%s", cmd, num(cx+r*math.Cos(start)), num(cy+r*math.Sin(start)))

	// tolerance keeps an exact quarter turn in one segment
	n := max(1, int(math.Ceil(extent/(math.Pi/2)-1e-9)))
	step := extent / float64(n)
	for i := 1; i <= n; i++ {
		a := start + float64(i)*step
		fmt.Fprintf(&c.path, "A%s,%s 0 0 1 %s,%s", num(r), num(r), num(cx+r*math.Cos(a)), num(cy+r*math.Sin(a)))
	}
}

func (c *Canvas) SetLineWidth(w float64) {
	if w > 0 && !math.IsInf(w, 0) {
		c.cur.lineWidth = w
	}
}

func (c *Canvas) SetLineCap(lc gauge.LineCap) { c.cur.lineCap = lc }
func (c *Canvas) SetStrokeStyle(s string)     { c.cur.stroke = s }
func (c *Canvas) SetFillStyle(s string)       { c.cur.fill = s }

func (c *Canvas) Stroke() {
	if c.path.Len() == 0 || c.cur.stroke == gauge.Transparent {
		return
	}
	fmt.Fprintf(&c.body, `<path d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="%s"/>`,
		c.path.String(), escapeXML(c.cur.stroke), num(c.cur.lineWidth), c.cur.lineCap)
}

func (c *Canvas) Fill() {
	if c.path.Len() == 0 || c.cur.fill == gauge.Transparent {
		return
	}
	fmt.Fprintf(&c.body, `<path d="%s" fill="%s"/>`, c.path.String(), escapeXML(c.cur.fill))
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
	if c.measure == nil {
		return 0
	}
	return c.measure(c.cur.fontWeight, c.cur.fontSize, s)
}

func (c *Canvas) FillText(s string, x, y float64) {
	if c.cur.fill == gauge.Transparent {
		return
	}
	fmt.Fprintf(&c.body, `<text x="%s" y="%s" font-family="%s" font-weight="%s" font-size="%spx" fill="%s">%s</text>`,
		num(x), num(y), fontFamily, escapeXML(c.cur.fontWeight), num(c.cur.fontSize), escapeXML(c.cur.fill), escapeXML(s))
}

// WriteTo writes the complete SVG document at its drawing size.
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	doc := c.Document(0, 0)
	n, err := io.WriteString(w, doc)
	if err != nil {
		return int64(n), fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return int64(n), nil
}

// Document renders the SVG. A positive display size sets the element's
// width/height while the viewBox keeps the drawing coordinates.
func (c *Canvas) Document(displayWidth, displayHeight float64) string {
	dw, dh := c.width, c.height
	if displayWidth > 0 && displayHeight > 0 {
		dw, dh = displayWidth, displayHeight
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(dw), num(dh), num(c.width), num(c.height))
	sb.WriteString(c.body.String())
	sb.WriteString(`</svg>`)
	return sb.String()
}

func num(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func escapeXML(s string) string {
	var sb strings.Builder
	// strings.Builder never fails a write
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
