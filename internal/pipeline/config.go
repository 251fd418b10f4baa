package pipeline

import (
	"errors"
	"time"

	"github.com/cloudcatalog/ingester/internal/config"
)

// DefaultLocationsPath is the locations file read when INGESTER_LOCATIONS_PATH is unset.
const DefaultLocationsPath = ".ingester.yaml"

// ErrNegativeInterval is returned when INGESTER_INTERVAL is below zero.
var ErrNegativeInterval = errors.New("run interval cannot be negative")

// Config controls how often the runner reads its locations.
type Config struct {
	// Interval between runs. Zero runs once and exits.
	Interval time.Duration

	// MetricsAddr is the listen address for /metrics. Empty disables the endpoint.
	MetricsAddr string

	// LocationsPath is the YAML file listing the locations to read.
	LocationsPath string
}

// LoadConfig reads runner settings from the environment.
func LoadConfig() *Config {
	return &Config{
		Interval:      config.GetEnvDuration("INGESTER_INTERVAL", 0),
		MetricsAddr:   config.GetEnvStr("INGESTER_METRICS_ADDR", ""),
		LocationsPath: config.GetEnvStr("INGESTER_LOCATIONS_PATH", DefaultLocationsPath),
	}
}

// Validate checks the interval.
func (c *Config) Validate() error {
	if c.Interval < 0 {
		return ErrNegativeInterval
	}

	return nil
}
