// Package record implements gauge.Canvas by recording every call as a
// drawing instruction. The recording is JSON-encodable.
package record

import (
	"encoding/json"
	"math"
	"unicode/utf8"

	"github.com/okian/kpidonut/internal/domain/gauge"
)

// approxAdvance is the per-rune advance, as a fraction of the font size,
// used when no Measurer is configured.
const approxAdvance = 0.6

// Num is a float that encodes NaN and infinities as JSON null.
type Num float64

// MarshalJSON implements json.Marshaler.
func (n Num) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// Op is one recorded canvas call.
type Op struct {
	Op   string `json:"op"`
	Args []Num  `json:"args,omitempty"`
	Text string `json:"text,omitempty"`
}

// Measurer returns the advance width of s for a weight and pixel size.
type Measurer func(weight string, size float64, s string) float64

// Canvas records calls made against a width x height surface.
type Canvas struct {
	width, height float64
	measure       Measurer
	font          font
	saved         []font
	ops           []Op
}

type font struct {
	weight string
	size   float64
}

var _ gauge.Canvas = (*Canvas)(nil)

// Option customises a Canvas.
type Option func(*Canvas)

// WithMeasurer sets the text measurer, e.g. fonts.Cache.Measure.
func WithMeasurer(m Measurer) Option {
	return func(c *Canvas) {
		if m != nil {
			c.measure = m
		}
	}
}

// New creates an empty recording canvas.
func New(width, height float64, opts ...Option) *Canvas {
	c := &Canvas{
		width:   width,
		height:  height,
		measure: approximate,
		font:    font{weight: "normal", size: 10},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func approximate(_ string, size float64, s string) float64 {
	return float64(utf8.RuneCountInString(s)) * size * approxAdvance
}

// Ops returns the recorded instructions.
func (c *Canvas) Ops() []Op { return c.ops }

// Find returns the recorded instructions with the given name.
func (c *Canvas) Find(name string) []Op {
	var out []Op
	for _, op := range c.ops {
		if op.Op == name {
			out = append(out, op)
		}
	}
	return out
}

func (c *Canvas) Width() float64  { return c.width }
func (c *Canvas) Height() float64 { return c.height }

func (c *Canvas) Save() {
	c.saved = append(c.saved, c.font)
	c.add("save", "")
}

func (c *Canvas) Restore() {
	if n := len(c.saved); n > 0 {
		c.font = c.saved[n-1]
		c.saved = c.saved[:n-1]
	}
	c.add("restore", "")
}

func (c *Canvas) BeginPath() { c.add("beginPath", "") }
func (c *Canvas) ClosePath() { c.add("closePath", "") }

func (c *Canvas) Arc(cx, cy, r, start, end float64) {
	c.add("arc", "", cx, cy, r, start, end)
}

func (c *Canvas) SetLineWidth(w float64)      { c.add("lineWidth", "", w) }
func (c *Canvas) SetLineCap(lc gauge.LineCap) { c.add("lineCap", string(lc)) }
func (c *Canvas) SetStrokeStyle(s string)     { c.add("strokeStyle", s) }
func (c *Canvas) SetFillStyle(s string)       { c.add("fillStyle", s) }
func (c *Canvas) Stroke()                     { c.add("stroke", "") }
func (c *Canvas) Fill()                       { c.add("fill", "") }

func (c *Canvas) SetFont(weight string, size float64) {
	c.font = font{weight: weight, size: size}
	c.add("font", weight, size)
}

func (c *Canvas) MeasureText(s string) float64 {
	return c.measure(c.font.weight, c.font.size, s)
}

func (c *Canvas) FillText(s string, x, y float64) {
	c.add("fillText", s, x, y)
}

func (c *Canvas) add(name, text string, args ...float64) {
	op := Op{Op: name, Text: text}
	for _, a := range args {
		op.Args = append(op.Args, Num(a))
	}
	c.ops = append(c.ops, op)
}

// Replay issues the recorded instructions against dst in order. Text
// measurement is not replayed; label positions were fixed when recorded.
func (c *Canvas) Replay(dst gauge.Canvas) {
	for _, op := range c.ops {
		a := func(i int) float64 {
			if i < len(op.Args) {
				return float64(op.Args[i])
			}
			return math.NaN()
		}
		switch op.Op {
		case "save":
			dst.Save()
		case "restore":
			dst.Restore()
		case "beginPath":
			dst.BeginPath()
		case "closePath":
			dst.ClosePath()
		case "arc":
			dst.Arc(a(0), a(1), a(2), a(3), a(4))
		case "lineWidth":
			dst.SetLineWidth(a(0))
		case "lineCap":
			dst.SetLineCap(gauge.LineCap(op.Text))
		case "strokeStyle":
			dst.SetStrokeStyle(op.Text)
		case "fillStyle":
			dst.SetFillStyle(op.Text)
		case "stroke":
			dst.Stroke()
		case "fill":
			dst.Fill()
		case "font":
			dst.SetFont(op.Text, a(0))
		case "fillText":
			dst.FillText(op.Text, a(0), a(1))
		}
	}
}
