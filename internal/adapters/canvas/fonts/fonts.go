// Package fonts caches text faces by CSS weight and pixel size.
package fonts

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/gogpu/gg/cache"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Weights understood by Face.
const (
	WeightNormal = "normal"
	WeightBold   = "bold"
)

// Face sizes are cached in hundredths of a pixel within [minSize, maxSize].
// Sizes that are not finite and positive use fallbackSize, the canvas-2D
// initial font size.
const (
	minSize      = 0.01
	maxSize      = 4096
	fallbackSize = 10

	// facesPerShard bounds the LRU face cache to 16 shards of this many.
	facesPerShard = 16
)

// faceKey packs the weight into bit 0 and the size in hundredths of a
// pixel above it.
type faceKey uint64

func keyOf(weight string, size float64) (faceKey, float64) {
	size = ClampSize(size)
	k := faceKey(math.Round(size*100)) << 1
	if weight == WeightBold {
		k |= 1
	}
	return k, float64(k>>1) / 100
}

// ClampSize maps size onto the range of cached face sizes.
func ClampSize(size float64) float64 {
	switch {
	case math.IsNaN(size) || size <= 0 || math.IsInf(size, 1):
		return fallbackSize
	case size < minSize:
		return minSize
	case size > maxSize:
		return maxSize
	}
	return size
}

// Cache owns the font sources and hands out faces from a bounded LRU. It
// is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	sources map[string]*text.FontSource
	faces   *cache.ShardedCache[faceKey, text.Face]
}

// Option customises a Cache.
type Option func(*options)

type options struct {
	regularPath string
	boldPath    string
}

// WithRegularFile loads the normal-weight face from a TTF/OTF file.
func WithRegularFile(path string) Option {
	return func(o *options) { o.regularPath = path }
}

// WithBoldFile loads the bold face from a TTF/OTF file.
func WithBoldFile(path string) Option {
	return func(o *options) { o.boldPath = path }
}

// New loads the font sources. Without options the embedded Go fonts are
// used.
func New(opts ...Option) (*Cache, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	regular, err := load(o.regularPath, goregular.TTF)
	if err != nil {
		return nil, err
	}
	bold, err := load(o.boldPath, gobold.TTF)
	if err != nil {
		_ = regular.Close()
		return nil, err
	}

	return &Cache{
		sources: map[string]*text.FontSource{
			WeightNormal: regular,
			WeightBold:   bold,
		},
		faces: newFaces(),
	}, nil
}

func newFaces() *cache.ShardedCache[faceKey, text.Face] {
	return cache.NewSharded[faceKey, text.Face](facesPerShard, func(k faceKey) uint64 {
		return cache.IntHasher(int(k))
	})
}

func load(path string, builtin []byte) (*text.FontSource, error) {
	if path == "" {
		src, err := text.NewFontSource(builtin)
		if err != nil {
			return nil, fmt.Errorf("%w: builtin: %w", ErrLoadFont, err)
		}
		return src, nil
	}
	src, err := text.NewFontSourceFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFont, path, err)
	}
	return src, nil
}

// Face returns the face for a CSS weight and pixel size. Any weight other
// than "bold" (or a numeric weight of 600 and above) uses the regular face.
// The size is rounded to hundredths of a pixel and clamped by ClampSize.
func (c *Cache) Face(weight string, size float64) text.Face {
	w := normalizeWeight(weight)
	key, size := keyOf(w, size)

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.faces.GetOrCreate(key, func() text.Face {
		return c.sources[w].Face(size)
	})
}

// Len reports how many faces are cached.
func (c *Cache) Len() int { return c.faces.Len() }

// Measure returns the advance width of s in the given face.
func (c *Cache) Measure(weight string, size float64, s string) float64 {
	w, _ := text.Measure(s, c.Face(weight, size))
	return w
}

// Close releases the font sources.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var first error
	for _, src := range c.sources {
		if err := src.Close(); err != nil && first == nil {
			first = err
		}
	}
	c.faces.Clear()
	return first
}

func normalizeWeight(weight string) string {
	switch strings.ToLower(strings.TrimSpace(weight)) {
	case WeightBold, "bolder", "600", "700", "800", "900":
		return WeightBold
	default:
		return WeightNormal
	}
}

var (
	defaultOnce  sync.Once
	defaultCache *Cache
	defaultErr   error
)

// Default returns a process-wide cache over the embedded Go fonts.
func Default() (*Cache, error) {
	defaultOnce.Do(func() {
		defaultCache, defaultErr = New()
	})
	return defaultCache, defaultErr
}
