package visual

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/okian/kpidonut/internal/adapters/canvas/fonts"
	"github.com/okian/kpidonut/internal/adapters/canvas/raster"
	"github.com/okian/kpidonut/internal/adapters/canvas/record"
	"github.com/okian/kpidonut/internal/domain/gauge"
	"github.com/okian/kpidonut/internal/domain/props"
	"github.com/okian/kpidonut/pkg/logger"
	"github.com/okian/kpidonut/pkg/metrics"
)

// Element identifiers and styling of the rendered output.
const (
	PlaceholderText  = "Please add a measure"
	placeholderColor = "red"
	containerClass   = "time-graph"
	canvasID         = "time-graph-canvas"

	// pixelRatio is the number of physical canvas pixels per logical pixel.
	pixelRatio = 2
)

// SurfaceFactory creates a fresh drawing surface of the given physical size.
type SurfaceFactory func(width, height int) gauge.Canvas

// DonutChart is the donut KPI visual. It is driven by a single host thread;
// callers must not invoke it concurrently.
type DonutChart struct {
	root       Root
	state      State
	dataView   *DataView
	newSurface SurfaceFactory
	logger     logger.Logger
}

var _ Visual = (*DonutChart)(nil)

// Option configures a DonutChart.
type Option func(*DonutChart)

// WithSurfaceFactory sets how drawing surfaces are created.
func WithSurfaceFactory(f SurfaceFactory) Option {
	return func(v *DonutChart) {
		if f != nil {
			v.newSurface = f
		}
	}
}

// WithLogger sets the visual's logger.
func WithLogger(l logger.Logger) Option {
	return func(v *DonutChart) {
		if l != nil {
			v.logger = l
		}
	}
}

// New constructs the visual in the Empty state with no output.
func New(opts ...Option) *DonutChart {
	v := &DonutChart{logger: logger.Nop()}
	for _, opt := range opts {
		opt(v)
	}
	if v.newSurface == nil {
		v.newSurface = defaultSurfaceFactory(v.logger)
	}
	return v
}

// defaultSurfaceFactory rasterises with the embedded fonts, falling back
// to an instruction recording if they cannot be loaded.
func defaultSurfaceFactory(l logger.Logger) SurfaceFactory {
	fc, err := fonts.Default()
	if err != nil {
		l.Warn(context.Background(), "fonts unavailable; recording draw calls instead", logger.Error(err))
		return func(w, h int) gauge.Canvas { return record.New(float64(w), float64(h)) }
	}
	return func(w, h int) gauge.Canvas { return raster.New(w, h, fc) }
}

// Update replaces the visual's output from the first data view. A missing
// data view shows the placeholder; otherwise the gauge is drawn on a new
// surface.
func (v *DonutChart) Update(ctx context.Context, opts UpdateOptions) {
	start := time.Now()

	v.dataView = nil
	if len(opts.DataViews) > 0 {
		v.dataView = opts.DataViews[0]
	}
	v.clear()

	if v.dataView == nil {
		v.root.Placeholder = &Placeholder{
			Text:          PlaceholderText,
			Width:         opts.Viewport.Width,
			Height:        opts.Viewport.Height,
			Color:         placeholderColor,
			TextAlign:     "center",
			VerticalAlign: "middle",
		}
		v.state = Empty
		metrics.RecordVisualUpdate(v.state.String())
		v.logger.Debug(ctx, "no data view; showing placeholder")
		return
	}

	style := ResolveStyle(v.dataView.Metadata.Objects)
	percent := v.dataView.Value() * 100
	band := style.Band(percent)

	minLength := math.Min(opts.Viewport.Width, opts.Viewport.Height)
	size := physicalSize(minLength)
	surface := v.newSurface(size, size)

	v.root.Container = &Container{
		Class:           containerClass,
		BackgroundColor: style.Background(),
		Canvas: &CanvasElement{
			ID:          canvasID,
			Width:       size,
			Height:      size,
			StyleWidth:  minLength,
			StyleHeight: minLength,
			Surface:     surface,
		},
	}

	gauge.Render(surface, gauge.Params{
		Percent:           percent,
		ArcColor:          style.BandColor(percent),
		RingColor:         style.InnerColor.Solid.Color,
		FontSize:          style.FontSize,
		FontWeight:        style.FontWeight(),
		FontColor:         style.FontColor.Solid.Color,
		ArcWidth:          style.OuterLineWidth,
		RingWidth:         style.InnerLineWidth,
		ArcSizeAdjustment: style.AmendmentSize,
	})
	v.state = Rendered

	elapsed := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordVisualUpdate(v.state.String())
	metrics.RecordBand(band.String())
	metrics.RecordRenderLatency(elapsed)
	v.logger.Debug(ctx, "gauge rendered",
		logger.Float64("percent", percent),
		logger.String("band", band.String()),
		logger.Int("canvas", size),
	)
}

// EnumerateObjectInstances reports the current value of every property in
// the requested group. Unknown groups yield an empty list.
func (v *DonutChart) EnumerateObjectInstances(opts EnumerateOptions) []ObjectInstance {
	instances := []ObjectInstance{}

	switch opts.ObjectName {
	case GroupCircle:
		instances = append(instances, ObjectInstance{
			ObjectName:  opts.ObjectName,
			DisplayName: opts.ObjectName,
			Properties:  ResolveStyle(v.objects()).Properties(),
			ValidValues: map[string]ValidValue{
				PropFontSize: {NumberRange: &NumberRange{Min: MinFontSize, Max: MaxFontSize}},
			},
			Selector: nil,
		})
	}

	metrics.RecordEnumeration(len(instances) > 0)
	return instances
}

// Root returns the current output element.
func (v *DonutChart) Root() Root { return v.root }

// State returns the current render state.
func (v *DonutChart) State() State { return v.state }

// DataView returns the last data view seen by Update.
func (v *DonutChart) DataView() *DataView { return v.dataView }

// Close releases the current drawing surface.
func (v *DonutChart) Close() error {
	err := v.discardSurface()
	v.root = Root{}
	return err
}

func (v *DonutChart) objects() props.Objects {
	if v.dataView == nil {
		return nil
	}
	return v.dataView.Metadata.Objects
}

// clear empties the root element and releases the previous surface.
func (v *DonutChart) clear() {
	if err := v.discardSurface(); err != nil {
		v.logger.Warn(context.Background(), "release drawing surface", logger.Error(err))
	}
	v.root = Root{}
}

func (v *DonutChart) discardSurface() error {
	c := v.root.Container
	if c == nil || c.Canvas == nil || c.Canvas.Surface == nil {
		return nil
	}
	if closer, ok := c.Canvas.Surface.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// physicalSize converts the logical edge to canvas pixels. Canvas sizes
// are non-negative integers; invalid edges give an empty canvas.
func physicalSize(minLength float64) int {
	if !(minLength > 0) || math.IsInf(minLength, 0) {
		return 0
	}
	return int(pixelRatio * minLength)
}
