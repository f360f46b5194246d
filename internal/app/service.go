// Package service hosts donut visual instances on behalf of API clients.
// It plays the host's part: it owns each visual, feeds it data views and
// viewports, and exports what the visual drew.
package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/kpidonut/internal/adapters/canvas/fonts"
	"github.com/okian/kpidonut/internal/adapters/canvas/record"
	repository "github.com/okian/kpidonut/internal/adapters/repository"
	"github.com/okian/kpidonut/internal/domain/gauge"
	"github.com/okian/kpidonut/internal/visual"
	"github.com/okian/kpidonut/pkg/logger"
)

// Service implements the API dependencies of the harness.
type Service struct {
	mu sync.RWMutex

	// Core components
	store *repository.MemoryStore
	fonts *fonts.Cache

	// Configuration
	maxInstances    int
	maxViewport     float64
	defaultFormat   string
	jpegQuality     int
	fontRegularPath string
	fontBoldPath    string

	// State
	started   bool
	startedAt time.Time
	created   atomic.Int64
	updated   atomic.Int64
	oneShots  atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMaxInstances bounds the number of live visual instances.
func WithMaxInstances(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxInstances = n
		}
	}
}

// WithMaxViewport caps either viewport edge, in logical pixels.
func WithMaxViewport(edge float64) Option {
	return func(s *Service) {
		if edge > 0 {
			s.maxViewport = edge
		}
	}
}

// WithDefaultFormat sets the export format used when a request names none.
func WithDefaultFormat(format string) Option {
	return func(s *Service) {
		if format != "" {
			s.defaultFormat = format
		}
	}
}

// WithJPEGQuality sets the JPEG export quality.
func WithJPEGQuality(q int) Option {
	return func(s *Service) {
		if q > 0 && q <= 100 {
			s.jpegQuality = q
		}
	}
}

// WithFontFiles replaces the built-in fonts with TTF files. Empty paths
// keep the built-in face for that weight.
func WithFontFiles(regular, bold string) Option {
	return func(s *Service) {
		s.fontRegularPath = regular
		s.fontBoldPath = bold
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxInstances:  1024,
		maxViewport:   2048,
		defaultFormat: "png",
		jpegQuality:   90,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads fonts and opens the instance store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting visual host...")

	fc, err := fonts.New(fonts.WithRegularFile(s.fontRegularPath), fonts.WithBoldFile(s.fontBoldPath))
	if err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	s.fonts = fc
	s.store = repository.NewMemoryStore(ctx, repository.WithCapacity(s.maxInstances))

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "visual host started",
		logger.Int("maxInstances", s.maxInstances),
		logger.Float64("maxViewport", s.maxViewport),
		logger.String("defaultFormat", s.defaultFormat),
	)
	return nil
}

// Stop releases every instance and the font cache.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping visual host...")

	for _, inst := range s.store.Drain() {
		s.closeInstance(ctx, inst)
	}
	_ = s.store.Close()
	if err := s.fonts.Close(); err != nil {
		s.logger.Warn(ctx, "close fonts", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "visual host stopped")
}

// Create hosts a new visual in its initial empty state and returns its id.
func (s *Service) Create(ctx context.Context) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	inst := &repository.Instance{
		ID:        id,
		Visual:    s.newVisual(id),
		CreatedAt: time.Now(),
	}
	if err := s.store.Put(ctx, inst); err != nil {
		_ = inst.Visual.Close()
		return "", err
	}
	s.created.Add(1)
	s.logger.Debug(ctx, "visual created", logger.String("id", id))
	return id, nil
}

// Update drives one rendering cycle of the visual with id.
func (s *Service) Update(ctx context.Context, id string, opts visual.UpdateOptions) (Frame, error) {
	if err := s.checkViewport(opts.Viewport); err != nil {
		return Frame{}, err
	}
	inst, err := s.instance(ctx, id)
	if err != nil {
		return Frame{}, err
	}

	inst.Lock()
	defer inst.Unlock()

	inst.Visual.Update(ctx, opts)
	inst.UpdatedAt = time.Now()
	inst.Updates++
	s.updated.Add(1)
	return frameOf(id, opts.Viewport, inst.Visual, inst.Updates), nil
}

// Enumerate returns the settings-pane entries of group for the visual.
func (s *Service) Enumerate(ctx context.Context, id, group string) ([]visual.ObjectInstance, error) {
	inst, err := s.instance(ctx, id)
	if err != nil {
		return nil, err
	}

	inst.Lock()
	defer inst.Unlock()
	return inst.Visual.EnumerateObjectInstances(visual.EnumerateOptions{ObjectName: group}), nil
}

// Frame returns the visual's latest output.
func (s *Service) Frame(ctx context.Context, id string) (Frame, error) {
	inst, err := s.instance(ctx, id)
	if err != nil {
		return Frame{}, err
	}

	inst.Lock()
	defer inst.Unlock()

	var vp visual.Viewport
	if p := inst.Visual.Root().Placeholder; p != nil {
		vp = visual.Viewport{Width: p.Width, Height: p.Height}
	}
	f := frameOf(id, vp, inst.Visual, inst.Updates)
	if c := f.Root.Container; c != nil && c.Canvas != nil {
		f.Viewport = visual.Viewport{Width: c.Canvas.StyleWidth, Height: c.Canvas.StyleHeight}
	}
	return f, nil
}

// Render runs a single update on a throwaway visual and exports it.
func (s *Service) Render(ctx context.Context, opts visual.UpdateOptions, format string) ([]byte, string, error) {
	if err := s.ready(); err != nil {
		return nil, "", err
	}
	if err := s.checkViewport(opts.Viewport); err != nil {
		return nil, "", err
	}

	v := s.newVisual("")
	defer func() { _ = v.Close() }()

	v.Update(ctx, opts)
	s.oneShots.Add(1)
	return s.Encode(frameOf("", opts.Viewport, v, 1), format)
}

// Delete stops hosting the visual with id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	inst, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %s", err, id)
	}
	s.closeInstance(ctx, inst)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"maxInstances":  s.maxInstances,
		"maxViewport":   s.maxViewport,
		"defaultFormat": s.defaultFormat,
		"created":       s.created.Load(),
		"updates":       s.updated.Load(),
		"oneShots":      s.oneShots.Load(),
	}
	if s.started {
		stats["instances"] = s.store.Count(context.Background())
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	return stats
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

func (s *Service) instance(ctx context.Context, id string) (*repository.Instance, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	inst, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, id)
	}
	return inst, nil
}

// newVisual builds a visual that records its drawing, measured with the
// service fonts so exports place text where the visual computed it.
func (s *Service) newVisual(id string) *visual.DonutChart {
	measure := record.WithMeasurer(s.fonts.Measure)
	l := s.logger.Named("visual")
	if id != "" {
		l = l.With(logger.String("id", id))
	}
	return visual.New(
		visual.WithLogger(l),
		visual.WithSurfaceFactory(func(w, h int) gauge.Canvas {
			return record.New(float64(w), float64(h), measure)
		}),
	)
}

func (s *Service) checkViewport(vp visual.Viewport) error {
	for _, edge := range []float64{vp.Width, vp.Height} {
		if math.IsNaN(edge) || math.IsInf(edge, 0) || edge < 0 || edge > s.maxViewport {
			return fmt.Errorf("%w: %gx%g (max %g)", ErrInvalidViewport, vp.Width, vp.Height, s.maxViewport)
		}
	}
	return nil
}

func (s *Service) closeInstance(ctx context.Context, inst *repository.Instance) {
	inst.Lock()
	defer inst.Unlock()
	if err := inst.Visual.Close(); err != nil {
		s.logger.Warn(ctx, "close visual", logger.String("id", inst.ID), logger.Error(err))
	}
}
