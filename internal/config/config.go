// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() builds a Config holding every default.
// - Load layers a YAML file and DONUT_* environment variables on top.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"slices"
	"time"
)

// Formats lists the frame encodings the harness can produce.
var Formats = []string{"png", "jpeg", "svg", "json"} //nolint:gochecknoglobals // fixed set

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches the logger to JSON output.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxViewport caps either viewport edge a host may request, in logical px.
	MaxViewport float64 `koanf:"max_viewport"`

	// DefaultFormat is used when a frame request names no format.
	DefaultFormat string `koanf:"default_format"`

	// FontRegularPath and FontBoldPath replace the built-in Go fonts with TTF files.
	FontRegularPath string `koanf:"font_regular_path"`
	FontBoldPath    string `koanf:"font_bold_path"`

	// JPEGQuality is used for format=jpeg.
	JPEGQuality int `koanf:"jpeg_quality"`

	// MaxInstances bounds the number of live visual instances.
	MaxInstances int `koanf:"max_instances"`

	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		MaxViewport:       2048,
		DefaultFormat:     "png",
		JPEGQuality:       90,
		MaxInstances:      1024,
		ShutdownTimeoutMS: 5000,
	}
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxViewport <= 0:
		return fmt.Errorf("%w: max_viewport must be positive", ErrInvalidConfig)
	case !slices.Contains(Formats, c.DefaultFormat):
		return fmt.Errorf("%w: unknown default_format %q", ErrInvalidConfig, c.DefaultFormat)
	case c.JPEGQuality < 1 || c.JPEGQuality > 100:
		return fmt.Errorf("%w: jpeg_quality must be within 1..100", ErrInvalidConfig)
	case c.MaxInstances <= 0:
		return fmt.Errorf("%w: max_instances must be positive", ErrInvalidConfig)
	case c.ShutdownTimeoutMS <= 0:
		return fmt.Errorf("%w: shutdown_timeout_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
