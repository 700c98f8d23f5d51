// Package config defines service configuration and its loading from
// defaults, an optional YAML file and the environment.
package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration shared by the server and raidctl.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StoreDriver is memory, sqlite or postgres.
	StoreDriver string `koanf:"store_driver"`

	// StoreDSN is the file path (sqlite) or connection string (postgres).
	StoreDSN string `koanf:"store_dsn"`

	// Timezone is the IANA zone stats are bucketed in.
	Timezone string `koanf:"timezone"`

	// MaxListLimit caps GET /raids?limit.
	MaxListLimit int `koanf:"max_list_limit"`

	// Metrics names are <namespace>_<subsystem>_<prefix><name>.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`
	MetricsPrefix    string `koanf:"metrics_prefix"`

	// MetricsLabels are constant labels added to every series.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// MetricsBuckets are the latency histogram bounds in milliseconds.
	MetricsBuckets []float64 `koanf:"metrics_buckets"`

	// MetricsRefresh is how often runtime gauges are sampled.
	MetricsRefresh time.Duration `koanf:"metrics_refresh"`
}

var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Addr:         ":9080",
		StoreDriver:  DriverMemory,
		Timezone:     "Local",
		MaxListLimit: 500,

		MetricsNamespace: "raidlog",
		MetricsSubsystem: "service",
		MetricsRefresh:   10 * time.Second,
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if !slices.Contains([]string{"text", "json"}, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.StoreDSN == "" {
			return fmt.Errorf("%w: store_dsn is required for %s", ErrInvalidConfig, c.StoreDriver)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	if c.MaxListLimit <= 0 {
		return fmt.Errorf("%w: max_list_limit must be positive", ErrInvalidConfig)
	}
	return c.validateMetrics()
}

func (c *Config) validateMetrics() error {
	if !metricName.MatchString(c.MetricsNamespace) {
		return fmt.Errorf("%w: metrics_namespace %q is not a metric name", ErrInvalidConfig, c.MetricsNamespace)
	}
	if c.MetricsSubsystem != "" && !metricName.MatchString(c.MetricsSubsystem) {
		return fmt.Errorf("%w: metrics_subsystem %q is not a metric name", ErrInvalidConfig, c.MetricsSubsystem)
	}
	if c.MetricsPrefix != "" && !metricName.MatchString(c.MetricsPrefix) {
		return fmt.Errorf("%w: metrics_prefix %q is not a metric name", ErrInvalidConfig, c.MetricsPrefix)
	}
	for name := range c.MetricsLabels {
		if !metricName.MatchString(name) || strings.HasPrefix(name, "__") {
			return fmt.Errorf("%w: metrics_labels key %q is not a label name", ErrInvalidConfig, name)
		}
	}
	for i := 1; i < len(c.MetricsBuckets); i++ {
		if c.MetricsBuckets[i] <= c.MetricsBuckets[i-1] {
			return fmt.Errorf("%w: metrics_buckets must be strictly increasing", ErrInvalidConfig)
		}
	}
	if c.MetricsRefresh <= 0 {
		return fmt.Errorf("%w: metrics_refresh must be positive", ErrInvalidConfig)
	}
	return nil
}
