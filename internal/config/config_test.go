package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/receipts/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.StoreBackend, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 1<<20)
			convey.So(cfg.ShutdownTimeout(), convey.ShouldEqual, 10*time.Second)
		})

		convey.Convey("And the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one invalid setting", t, func() {
		cases := map[string]func(c *config.Config){
			"empty addr":            func(c *config.Config) { c.Addr = " " },
			"zero body limit":       func(c *config.Config) { c.MaxBodyBytes = 0 },
			"negative shutdown":     func(c *config.Config) { c.ShutdownTimeoutSec = -1 },
			"unknown store backend": func(c *config.Config) { c.StoreBackend = "redis" },
			"unknown log level":     func(c *config.Config) { c.LogLevel = "verbose" },
			"unknown log format":    func(c *config.Config) { c.LogFormat = "xml" },
		}

		for name, mutate := range cases {
			convey.Convey("When validating with "+name, func() {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then it should return ErrInvalidConfig", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When the buntdb backend and json logs are selected", func() {
			cfg := config.New()
			cfg.StoreBackend = config.StoreBuntDB
			cfg.LogFormat = "JSON"
			cfg.LogLevel = "warning"

			convey.Convey("Then it should validate", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})
	})
}
