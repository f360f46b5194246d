package gauge_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/okian/kpidonut/internal/adapters/canvas/record"
	"github.com/okian/kpidonut/internal/domain/gauge"
	. "github.com/smartystreets/goconvey/convey"
)

func params(percent float64) gauge.Params {
	return gauge.Params{
		Percent:           percent,
		ArcColor:          "#F2C811",
		RingColor:         "#cccccc",
		FontSize:          18,
		FontWeight:        "bold",
		FontColor:         "#000000",
		ArcWidth:          8,
		RingWidth:         4,
		ArcSizeAdjustment: 4,
	}
}

func TestLabel(t *testing.T) {
	Convey("Given percentages", t, func() {
		So(gauge.Label(50), ShouldEqual, "50.00%")
		So(gauge.Label(0), ShouldEqual, "0.00%")
		So(gauge.Label(12.345), ShouldEqual, "12.35%")
		So(gauge.Label(100), ShouldEqual, "100.00%")
		So(gauge.Label(-5), ShouldEqual, "-5.00%")
		So(gauge.Label(math.NaN()), ShouldEqual, "NaN%")
	})
}

func TestSweep(t *testing.T) {
	Convey("Given the arc sweep", t, func() {
		Convey("It starts at the top", func() {
			start, _ := gauge.Sweep(30)
			So(start, ShouldAlmostEqual, -math.Pi/2)
		})

		Convey("Zero percent is a zero-length arc", func() {
			start, end := gauge.Sweep(0)
			So(end-start, ShouldEqual, 0)
		})

		Convey("One hundred percent is a full turn", func() {
			start, end := gauge.Sweep(100)
			So(end-start, ShouldAlmostEqual, 2*math.Pi)
		})

		Convey("It is linear in percent", func() {
			s1, e1 := gauge.Sweep(25)
			s2, e2 := gauge.Sweep(50)
			So((e2-s2)/(e1-s1), ShouldAlmostEqual, 2)
			So(e1-s1, ShouldAlmostEqual, 25*3.6*math.Pi/180)
		})
	})
}

func TestClockwiseExtent(t *testing.T) {
	Convey("Given arc angles", t, func() {
		So(gauge.ClockwiseExtent(0, math.Pi), ShouldAlmostEqual, math.Pi)
		So(gauge.ClockwiseExtent(0, 3*math.Pi), ShouldAlmostEqual, 2*math.Pi)
		So(gauge.ClockwiseExtent(0, 0), ShouldEqual, 0)
		So(gauge.ClockwiseExtent(0, -math.Pi/2), ShouldAlmostEqual, 3*math.Pi/2)
		So(math.IsNaN(gauge.ClockwiseExtent(0, math.NaN())), ShouldBeTrue)
	})
}

func TestRender(t *testing.T) {
	Convey("Given a 400x400 recording canvas", t, func() {
		c := record.New(400, 400)

		Convey("When rendering 50 percent", func() {
			gauge.Render(c, params(50))
			ops := c.Ops()

			Convey("Then ring, label and arc are drawn in that order", func() {
				var seq []string
				for _, op := range ops {
					switch op.Op {
					case "arc", "fillText":
						seq = append(seq, op.Op)
					}
				}
				So(seq, ShouldResemble, []string{"arc", "fillText", "arc"})
			})

			Convey("And the ring is a full circle with a transparent fill", func() {
				ring := c.Find("arc")[0]
				So(ring.Args, ShouldResemble, []record.Num{200, 200, 186, 0, record.Num(2 * math.Pi)})
				So(c.Find("fillStyle")[0].Text, ShouldEqual, gauge.Transparent)
				So(c.Find("strokeStyle")[0].Text, ShouldEqual, "#cccccc")
				So(c.Find("lineWidth")[0].Args, ShouldResemble, []record.Num{4})
			})

			Convey("And the label is centred on its measured width", func() {
				label := c.Find("fillText")[0]
				So(label.Text, ShouldEqual, "50.00%")
				w := 6 * 18 * 0.6
				So(float64(label.Args[0]), ShouldAlmostEqual, 200-w/2)
				So(float64(label.Args[1]), ShouldAlmostEqual, 209)
				So(c.Find("font")[0].Text, ShouldEqual, "bold")
				So(c.Find("fillStyle")[1].Text, ShouldEqual, "#000000")
			})

			Convey("And the arc sweeps half a turn from the top", func() {
				arc := c.Find("arc")[1]
				So(float64(arc.Args[2]), ShouldEqual, 186)
				So(float64(arc.Args[3]), ShouldAlmostEqual, -math.Pi/2)
				So(float64(arc.Args[4]), ShouldAlmostEqual, math.Pi/2)
				So(c.Find("strokeStyle")[1].Text, ShouldEqual, "#F2C811")
				So(c.Find("lineCap")[1].Text, ShouldEqual, string(gauge.CapRound))
			})

			Convey("And every save is restored", func() {
				So(len(c.Find("save")), ShouldEqual, 3)
				So(len(c.Find("restore")), ShouldEqual, 3)
			})
		})

		Convey("When the size adjustment changes", func() {
			p := params(10)
			p.ArcSizeAdjustment = -6
			p.ArcWidth = 12
			gauge.Render(c, p)
			So(float64(c.Find("arc")[1].Args[2]), ShouldEqual, 200-12-6-10)
		})

		Convey("When rendering NaN", func() {
			gauge.Render(c, params(math.NaN()))

			Convey("Then the recording still encodes", func() {
				_, err := json.Marshal(c.Ops())
				So(err, ShouldBeNil)
				So(c.Find("fillText")[0].Text, ShouldEqual, "NaN%")
			})
		})
	})

	Convey("Given identical inputs on fresh canvases", t, func() {
		a, b := record.New(300, 300), record.New(300, 300)
		gauge.Render(a, params(64.2))
		gauge.Render(b, params(64.2))
		So(a.Ops(), ShouldResemble, b.Ops())
	})
}

func TestRadii(t *testing.T) {
	Convey("Given a center of 100", t, func() {
		So(gauge.RingRadius(100, 4), ShouldEqual, 86)
		So(gauge.ArcRadius(100, 8, 4), ShouldEqual, 86)
		So(gauge.RingRadius(100, -3), ShouldEqual, 89)
		So(gauge.ArcRadius(100, 0, 4), ShouldEqual, 93)
	})
}

func TestRejectedSizes(t *testing.T) {
	Convey("Given widths and font sizes a canvas-2D context rejects", t, func() {
		So(gauge.LineWidth(0), ShouldEqual, gauge.DefaultLineWidth)
		So(gauge.LineWidth(-3), ShouldEqual, gauge.DefaultLineWidth)
		So(gauge.LineWidth(math.NaN()), ShouldEqual, gauge.DefaultLineWidth)
		So(gauge.LineWidth(math.Inf(1)), ShouldEqual, gauge.DefaultLineWidth)
		So(gauge.LineWidth(0.5), ShouldEqual, 0.5)

		weight, size := gauge.Font("bold", -12)
		So(weight, ShouldEqual, gauge.DefaultFontWeight)
		So(size, ShouldEqual, gauge.DefaultFontSize)
		weight, size = gauge.Font("bold", 18)
		So(weight, ShouldEqual, "bold")
		So(size, ShouldEqual, 18)

		Convey("When rendering on a 200x200 canvas", func() {
			c := record.New(200, 200)
			p := params(50)
			p.RingWidth = -3
			p.ArcWidth = 0
			p.ArcSizeAdjustment = 4
			p.FontSize = -12
			gauge.Render(c, p)

			Convey("Then the radii follow the default width in effect", func() {
				arcs := c.Find("arc")
				So(float64(arcs[0].Args[2]), ShouldEqual, 100-1-10)
				So(float64(arcs[1].Args[2]), ShouldEqual, 100-1+4-10)
				for _, lw := range c.Find("lineWidth") {
					So(lw.Args, ShouldResemble, []record.Num{1})
				}
			})

			Convey("And the label uses the initial font", func() {
				font := c.Find("font")[0]
				So(font.Text, ShouldEqual, gauge.DefaultFontWeight)
				So(font.Args, ShouldResemble, []record.Num{gauge.DefaultFontSize})
				label := c.Find("fillText")[0]
				w := 6 * gauge.DefaultFontSize * 0.6
				So(float64(label.Args[0]), ShouldAlmostEqual, 100-w/2)
				So(float64(label.Args[1]), ShouldAlmostEqual, 100-6)
			})
		})

		Convey("When the widths are NaN", func() {
			c := record.New(200, 200)
			p := params(10)
			p.RingWidth = math.NaN()
			p.ArcWidth = math.NaN()
			p.ArcSizeAdjustment = 0
			gauge.Render(c, p)
			So(float64(c.Find("arc")[0].Args[2]), ShouldEqual, 89)
			So(float64(c.Find("arc")[1].Args[2]), ShouldEqual, 89)
		})
	})
}
