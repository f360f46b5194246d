package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/okian/kpidonut/internal/adapters/canvas/raster"
	"github.com/okian/kpidonut/internal/adapters/canvas/record"
	"github.com/okian/kpidonut/internal/adapters/canvas/svg"
	"github.com/okian/kpidonut/internal/visual"
	"github.com/okian/kpidonut/pkg/metrics"
)

// Content types of the export formats.
const (
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypePNG  = "image/png"
	ContentTypeJPEG = "image/jpeg"
	ContentTypeSVG  = "image/svg+xml"
)

// Frame is a snapshot of a visual's output after an update.
type Frame struct {
	ID       string          `json:"id,omitempty"`
	State    string          `json:"state"`
	Viewport visual.Viewport `json:"viewport"`
	Root     visual.Root     `json:"root"`
	Ops      []record.Op     `json:"ops,omitempty"`
	Updates  int             `json:"updates"`

	drawing *record.Canvas
}

// Summary is the frame without its drawing instructions.
func (f Frame) Summary() Frame {
	f.Ops = nil
	return f
}

func frameOf(id string, viewport visual.Viewport, v *visual.DonutChart, updates int) Frame {
	f := Frame{
		ID:       id,
		State:    v.State().String(),
		Viewport: viewport,
		Root:     v.Root(),
		Updates:  updates,
	}
	if c := f.Root.Container; c != nil && c.Canvas != nil {
		if rec, ok := c.Canvas.Surface.(*record.Canvas); ok {
			f.drawing = rec
			f.Ops = rec.Ops()
		}
	}
	return f
}

// Encode renders frame in format, falling back to the configured default
// format when format is empty. It returns the payload and its content type.
func (s *Service) Encode(frame Frame, format string) ([]byte, string, error) {
	start := time.Now()
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = s.defaultFormat
	}

	var (
		out         []byte
		contentType string
		err         error
	)
	switch format {
	case "json":
		out, err = json.Marshal(frame)
		contentType = ContentTypeJSON
	case "png", "jpeg", "jpg":
		out, err = s.encodeRaster(frame, format)
		contentType = ContentTypePNG
		if format != "png" {
			format, contentType = "jpeg", ContentTypeJPEG
		}
	case "svg":
		out, err = s.encodeSVG(frame)
		contentType = ContentTypeSVG
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, "", err
	}

	metrics.RecordExport(format, float64(time.Since(start).Microseconds())/1000)
	return out, contentType, nil
}

func drawable(frame Frame) (*visual.CanvasElement, error) {
	if frame.drawing == nil || frame.Root.Container == nil || frame.Root.Container.Canvas == nil {
		return nil, ErrNoCanvas
	}
	el := frame.Root.Container.Canvas
	if el.Width <= 0 || el.Height <= 0 {
		return nil, ErrNoCanvas
	}
	return el, nil
}

func (s *Service) encodeRaster(frame Frame, format string) ([]byte, error) {
	el, err := drawable(frame)
	if err != nil {
		return nil, err
	}
	rc := raster.New(el.Width, el.Height, s.fonts)
	defer func() { _ = rc.Close() }()

	frame.drawing.Replay(rc)
	if err := rc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}

	var buf bytes.Buffer
	if format == "png" {
		err = rc.EncodePNG(&buf)
	} else {
		err = rc.EncodeJPEG(&buf, s.jpegQuality)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}
	return buf.Bytes(), nil
}

func (s *Service) encodeSVG(frame Frame) ([]byte, error) {
	el, err := drawable(frame)
	if err != nil {
		return nil, err
	}
	sc := svg.New(float64(el.Width), float64(el.Height), s.fonts.Measure)
	frame.drawing.Replay(sc)
	return []byte(sc.Document(el.StyleWidth, el.StyleHeight)), nil
}
