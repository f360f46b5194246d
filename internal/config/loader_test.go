package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/kpidonut/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.MaxViewport, convey.ShouldEqual, 2048)
				convey.So(cfg.DefaultFormat, convey.ShouldEqual, "png")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("DONUT_ADDR", ":8080")
			_ = os.Setenv("DONUT_MAX_VIEWPORT", "512")
			_ = os.Setenv("DONUT_DEFAULT_FORMAT", "SVG")
			_ = os.Setenv("DONUT_MAX_INSTANCES", "16")
			_ = os.Setenv("DONUT_LOG_JSON", "true")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxViewport, convey.ShouldEqual, 512)
				convey.So(cfg.DefaultFormat, convey.ShouldEqual, "svg")
				convey.So(cfg.MaxInstances, convey.ShouldEqual, 16)
				convey.So(cfg.LogJSON, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
# harness settings
addr: ":9090"
max_viewport: 1000
font_bold_path: /fonts/bold.ttf
shutdown_timeout_ms: 250
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("DONUT_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.MaxViewport, convey.ShouldEqual, 1000)
				convey.So(cfg.FontBoldPath, convey.ShouldEqual, "/fonts/bold.ttf")
				convey.So(cfg.ShutdownTimeoutMS, convey.ShouldEqual, 250)
				convey.So(cfg.MaxInstances, convey.ShouldEqual, 1024)
			})

			convey.Convey("Then environment variables override file values", func() {
				_ = os.Setenv("DONUT_ADDR", ":7070")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.MaxViewport, convey.ShouldEqual, 1000)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile("addr: [unclosed")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("DONUT_CONFIG", tmpFile)

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("DONUT_CONFIG", "/non/existent/donut.yaml")

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("DONUT_MAX_INSTANCES", "many")

			_, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When loading config with an empty addr", func() {
			_ = os.Setenv("DONUT_ADDR", "")
			tmpFile := createTempConfigFile(`addr: ""`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("DONUT_CONFIG", tmpFile)

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"DONUT_CONFIG",
		"DONUT_ADDR",
		"DONUT_MAX_VIEWPORT",
		"DONUT_DEFAULT_FORMAT",
		"DONUT_MAX_INSTANCES",
		"DONUT_LOG_JSON",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "donut-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
