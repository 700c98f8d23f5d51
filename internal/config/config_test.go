package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/raidlog/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverMemory)
			convey.So(cfg.Timezone, convey.ShouldEqual, "Local")
			convey.So(cfg.MaxListLimit, convey.ShouldEqual, 500)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "raidlog")
			convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "service")
			convey.So(cfg.MetricsRefresh, convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty addr", func(c *config.Config) { c.Addr = "" }},
		{"unknown format", func(c *config.Config) { c.LogFormat = "logfmt" }},
		{"unknown driver", func(c *config.Config) { c.StoreDriver = "mongo" }},
		{"sqlite without dsn", func(c *config.Config) { c.StoreDriver = config.DriverSQLite }},
		{"postgres without dsn", func(c *config.Config) { c.StoreDriver = config.DriverPostgres }},
		{"bad timezone", func(c *config.Config) { c.Timezone = "Mars/Olympus" }},
		{"zero list limit", func(c *config.Config) { c.MaxListLimit = 0 }},
		{"empty metrics namespace", func(c *config.Config) { c.MetricsNamespace = "" }},
		{"dashed metrics subsystem", func(c *config.Config) { c.MetricsSubsystem = "raid-log" }},
		{"metrics prefix with a dot", func(c *config.Config) { c.MetricsPrefix = "x." }},
		{"reserved label name", func(c *config.Config) { c.MetricsLabels = map[string]string{"__name__": "x"} }},
		{"unsorted buckets", func(c *config.Config) { c.MetricsBuckets = []float64{5, 1} }},
		{"zero metrics refresh", func(c *config.Config) { c.MetricsRefresh = 0 }},
	}

	convey.Convey("Given invalid settings", t, func() {
		for _, tc := range cases {
			convey.Convey("When the config has "+tc.name, func() {
				cfg := config.New()
				tc.mutate(cfg)

				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})

	convey.Convey("Given a SQL driver with a dsn and a named zone", t, func() {
		cfg := config.New()
		cfg.StoreDriver = config.DriverSQLite
		cfg.StoreDSN = "raids.db"
		cfg.Timezone = "Europe/Berlin"

		convey.So(cfg.Validate(), convey.ShouldBeNil)
		loc, err := cfg.Location()
		convey.So(err, convey.ShouldBeNil)
		convey.So(loc.String(), convey.ShouldEqual, "Europe/Berlin")
	})
}
