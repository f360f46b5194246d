package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/kpidonut/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.MaxViewport, convey.ShouldEqual, 2048)
			convey.So(cfg.DefaultFormat, convey.ShouldEqual, "png")
			convey.So(cfg.MaxInstances, convey.ShouldEqual, 1024)
			convey.So(cfg.ShutdownTimeout(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad field", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":       func(c *config.Config) { c.Addr = "" },
			"zero viewport":    func(c *config.Config) { c.MaxViewport = 0 },
			"unknown format":   func(c *config.Config) { c.DefaultFormat = "gif" },
			"jpeg quality":     func(c *config.Config) { c.JPEGQuality = 101 },
			"no instances":     func(c *config.Config) { c.MaxInstances = 0 },
			"negative timeout": func(c *config.Config) { c.ShutdownTimeoutMS = -1 },
		}
		for name, mutate := range cases {
			convey.Convey("When "+name, func() {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
