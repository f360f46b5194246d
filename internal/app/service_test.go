package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"math"
	"strings"
	"testing"

	service "github.com/okian/kpidonut/internal/app"
	"github.com/okian/kpidonut/internal/domain/props"
	"github.com/okian/kpidonut/internal/visual"
	"github.com/okian/kpidonut/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func measure(value float64, vp visual.Viewport) visual.UpdateOptions {
	return visual.UpdateOptions{
		DataViews: []*visual.DataView{{
			Metadata: visual.Metadata{Objects: props.Objects{
				"circleProperties": {"fontSize": 24.0},
			}},
			Single: &visual.Single{Value: value},
		}},
		Viewport: vp,
	}
}

func started(opts ...service.Option) *service.Service {
	svc := service.New(opts...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithMaxInstances(2))
		ctx := context.Background()

		Convey("Then calls before Start fail", func() {
			_, err := svc.Create(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["instances"], ShouldEqual, 0)
			})
		})

		Convey("When stopping a started service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			_, err := svc.Create(ctx)
			So(err, ShouldBeNil)
			svc.Stop()
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Instances(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started(service.WithMaxInstances(2), service.WithMaxViewport(500))
		defer svc.Stop()
		ctx := context.Background()

		id, err := svc.Create(ctx)
		So(err, ShouldBeNil)
		So(id, ShouldNotBeEmpty)

		Convey("When the visual has not been updated", func() {
			f, err := svc.Frame(ctx, id)

			Convey("Then its frame is empty", func() {
				So(err, ShouldBeNil)
				So(f.State, ShouldEqual, "empty")
				So(f.Root.Placeholder, ShouldBeNil)
				So(f.Root.Container, ShouldBeNil)
			})
		})

		Convey("When it is updated with a measure", func() {
			f, err := svc.Update(ctx, id, measure(0.75, visual.Viewport{Width: 300, Height: 200}))

			Convey("Then the frame carries the canvas and drawing", func() {
				So(err, ShouldBeNil)
				So(f.State, ShouldEqual, "rendered")
				So(f.Updates, ShouldEqual, 1)
				So(f.Root.Container.Canvas.Width, ShouldEqual, 400)
				So(f.Root.Container.Canvas.StyleWidth, ShouldEqual, 200)
				So(len(f.Ops), ShouldBeGreaterThan, 0)
				So(f.Summary().Ops, ShouldBeNil)
			})

			Convey("Then the label is part of the drawing", func() {
				found := false
				for _, op := range f.Ops {
					if op.Op == "fillText" && op.Text == "75.00%" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})

			Convey("Then Frame returns the same output", func() {
				again, err := svc.Frame(ctx, id)
				So(err, ShouldBeNil)
				So(again.Ops, ShouldResemble, f.Ops)
				So(again.Viewport, ShouldResemble, visual.Viewport{Width: 200, Height: 200})
			})

			Convey("Then it exports as PNG", func() {
				out, ct, err := svc.Encode(f, "png")
				So(err, ShouldBeNil)
				So(ct, ShouldEqual, service.ContentTypePNG)
				img, err := png.Decode(bytes.NewReader(out))
				So(err, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldEqual, 400)
			})

			Convey("Then it exports as SVG at the display size", func() {
				out, ct, err := svc.Encode(f, "SVG")
				So(err, ShouldBeNil)
				So(ct, ShouldEqual, service.ContentTypeSVG)
				So(string(out), ShouldStartWith, `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="200" viewBox="0 0 400 400">`)
				So(string(out), ShouldContainSubstring, "75.00%")
			})

			Convey("Then it exports as JSON", func() {
				out, ct, err := svc.Encode(f, "json")
				So(err, ShouldBeNil)
				So(ct, ShouldEqual, service.ContentTypeJSON)
				var decoded map[string]any
				So(json.Unmarshal(out, &decoded), ShouldBeNil)
				So(decoded["state"], ShouldEqual, "rendered")
			})

			Convey("Then JPEG uses the jpeg content type", func() {
				_, ct, err := svc.Encode(f, "jpg")
				So(err, ShouldBeNil)
				So(ct, ShouldEqual, service.ContentTypeJPEG)
			})

			Convey("Then the default format is PNG", func() {
				_, ct, err := svc.Encode(f, "")
				So(err, ShouldBeNil)
				So(ct, ShouldEqual, service.ContentTypePNG)
			})

			Convey("Then unknown formats are rejected", func() {
				_, _, err := svc.Encode(f, "gif")
				So(errors.Is(err, service.ErrUnsupportedFormat), ShouldBeTrue)
			})
		})

		Convey("When it is updated without a data view", func() {
			f, err := svc.Update(ctx, id, visual.UpdateOptions{Viewport: visual.Viewport{Width: 120, Height: 80}})

			Convey("Then the placeholder is shown and images cannot be exported", func() {
				So(err, ShouldBeNil)
				So(f.State, ShouldEqual, "empty")
				So(f.Root.Placeholder.Text, ShouldEqual, visual.PlaceholderText)
				_, _, err = svc.Encode(f, "png")
				So(errors.Is(err, service.ErrNoCanvas), ShouldBeTrue)
				_, _, err = svc.Encode(f, "json")
				So(err, ShouldBeNil)
			})
		})

		Convey("When the viewport is out of bounds", func() {
			_, err := svc.Update(ctx, id, measure(0.5, visual.Viewport{Width: 501, Height: 10}))
			So(errors.Is(err, service.ErrInvalidViewport), ShouldBeTrue)
			_, err = svc.Update(ctx, id, measure(0.5, visual.Viewport{Width: math.NaN(), Height: 10}))
			So(errors.Is(err, service.ErrInvalidViewport), ShouldBeTrue)
		})

		Convey("When a zero viewport is used", func() {
			f, err := svc.Update(ctx, id, measure(0.5, visual.Viewport{}))
			So(err, ShouldBeNil)
			So(f.Root.Container.Canvas.Width, ShouldEqual, 0)
			_, _, err = svc.Encode(f, "png")
			So(errors.Is(err, service.ErrNoCanvas), ShouldBeTrue)
		})

		Convey("When enumerating settings", func() {
			_, err := svc.Update(ctx, id, measure(0.5, visual.Viewport{Width: 100, Height: 100}))
			So(err, ShouldBeNil)
			known, err := svc.Enumerate(ctx, id, "circleProperties")
			So(err, ShouldBeNil)
			unknown, err := svc.Enumerate(ctx, id, "legend")
			So(err, ShouldBeNil)

			Convey("Then the stored values are reported", func() {
				So(len(known), ShouldEqual, 1)
				So(known[0].Properties["fontSize"], ShouldEqual, 24.0)
				So(unknown, ShouldBeEmpty)
			})
		})

		Convey("When the capacity is reached", func() {
			_, err := svc.Create(ctx)
			So(err, ShouldBeNil)
			_, err = svc.Create(ctx)
			So(errors.Is(err, service.ErrCapacity), ShouldBeTrue)
		})

		Convey("When the visual is deleted", func() {
			So(svc.Delete(ctx, id), ShouldBeNil)

			Convey("Then it is no longer found", func() {
				_, err := svc.Frame(ctx, id)
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
				So(errors.Is(svc.Delete(ctx, id), service.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Render(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When rendering the same payload twice", func() {
			a, _, err := svc.Render(ctx, measure(0.93, visual.Viewport{Width: 100, Height: 100}), "png")
			So(err, ShouldBeNil)
			b, _, err := svc.Render(ctx, measure(0.93, visual.Viewport{Width: 100, Height: 100}), "png")
			So(err, ShouldBeNil)

			Convey("Then the bytes are identical", func() {
				So(bytes.Equal(a, b), ShouldBeTrue)
			})
		})

		Convey("When rendering to SVG", func() {
			out, _, err := svc.Render(ctx, measure(0.5, visual.Viewport{Width: 100, Height: 100}), "svg")
			So(err, ShouldBeNil)
			So(strings.Count(string(out), "<path"), ShouldBeGreaterThanOrEqualTo, 2)
		})

		Convey("Then one-shot renders are not hosted", func() {
			_, _, err := svc.Render(ctx, measure(0.5, visual.Viewport{Width: 10, Height: 10}), "json")
			So(err, ShouldBeNil)
			So(svc.GetStats()["instances"], ShouldEqual, 0)
			So(svc.GetStats()["oneShots"], ShouldBeGreaterThan, 0)
		})
	})
}
