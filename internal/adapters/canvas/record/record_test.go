package record

import (
	"encoding/json"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRecording(t *testing.T) {
	Convey("Given a recording canvas", t, func() {
		c := New(100, 50)

		Convey("Then it reports its size", func() {
			So(c.Width(), ShouldEqual, 100)
			So(c.Height(), ShouldEqual, 50)
		})

		Convey("When calls are made", func() {
			c.Save()
			c.BeginPath()
			c.Arc(1, 2, 3, 0, math.Pi)
			c.SetStrokeStyle("#ff0000")
			c.Stroke()
			c.Restore()

			Convey("Then they are recorded in order", func() {
				names := []string{}
				for _, op := range c.Ops() {
					names = append(names, op.Op)
				}
				So(names, ShouldResemble, []string{"save", "beginPath", "arc", "strokeStyle", "stroke", "restore"})
				So(c.Find("arc")[0].Args, ShouldResemble, []Num{1, 2, 3, 0, Num(math.Pi)})
				So(c.Find("strokeStyle")[0].Text, ShouldEqual, "#ff0000")
			})
		})

		Convey("When measuring text", func() {
			c.SetFont("bold", 20)
			Convey("Then the approximate measurer scales with rune count", func() {
				So(c.MeasureText("50%"), ShouldAlmostEqual, 36)
			})
			Convey("Then restore brings back the saved font", func() {
				c.Save()
				c.SetFont("normal", 10)
				c.Restore()
				So(c.MeasureText("ab"), ShouldAlmostEqual, 24)
			})
		})

		Convey("When a custom measurer is configured", func() {
			m := New(10, 10, WithMeasurer(func(weight string, size float64, s string) float64 {
				if weight == "bold" {
					return size
				}
				return 0
			}))
			m.SetFont("bold", 7)
			So(m.MeasureText("anything"), ShouldEqual, 7)
		})
	})
}

func TestNumJSON(t *testing.T) {
	Convey("Given non-finite numbers", t, func() {
		b, err := json.Marshal([]Num{Num(math.NaN()), Num(math.Inf(1)), 1.5})
		So(err, ShouldBeNil)
		So(string(b), ShouldEqual, "[null,null,1.5]")
	})
}

func TestReplay(t *testing.T) {
	Convey("Given a recorded drawing", t, func() {
		src := New(40, 40)
		src.Save()
		src.SetLineWidth(4)
		src.SetLineCap("round")
		src.SetFillStyle("transparent")
		src.BeginPath()
		src.Arc(20, 20, 10, 0, 1)
		src.Fill()
		src.SetFont("bold", 12)
		src.FillText("1.00%", 5, 26)
		src.ClosePath()
		src.Restore()

		Convey("When it is replayed onto another recorder", func() {
			dst := New(40, 40)
			src.Replay(dst)

			Convey("Then the instruction lists match", func() {
				So(dst.Ops(), ShouldResemble, src.Ops())
			})
		})
	})
}
