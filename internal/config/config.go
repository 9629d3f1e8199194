// Package config carries the explicit configuration passed into the
// pipeline, storage, and server constructors. There is no package-level
// mutable state; callers build a Config once at startup.
package config

import (
	"fmt"

	"github.com/kkteam/tripflow/internal/common"
	"github.com/spf13/viper"
)

// Validation holds the record-level validation thresholds.
type Validation struct {
	MinDurationSeconds int     `mapstructure:"min_duration_seconds"`
	MaxDurationSeconds int     `mapstructure:"max_duration_seconds"`
	MinPassengers      int     `mapstructure:"min_passengers"`
	MaxPassengers      int     `mapstructure:"max_passengers"`
	LatMin             float64 `mapstructure:"lat_min"`
	LatMax             float64 `mapstructure:"lat_max"`
	LonMin             float64 `mapstructure:"lon_min"`
	LonMax             float64 `mapstructure:"lon_max"`
}

// Ingest holds the pipeline run parameters.
type Ingest struct {
	BatchSize       int     `mapstructure:"batch_size"`
	MaxValidRecords int     `mapstructure:"max_valid_records"`
	MaxDistanceMi   float64 `mapstructure:"max_distance_miles"`
	MinSpeedMPH     float64 `mapstructure:"min_speed_mph"`
	MaxSpeedMPH     float64 `mapstructure:"max_speed_mph"`
}

// Server holds the HTTP API settings.
type Server struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Config is the application configuration.
type Config struct {
	DatabasePath string     `mapstructure:"database_path"`
	LogLevel     string     `mapstructure:"log_level"`
	LogFormat    string     `mapstructure:"log_format"`
	Validation   Validation `mapstructure:"validation"`
	Ingest       Ingest     `mapstructure:"ingest"`
	Server       Server     `mapstructure:"server"`
}

// Default returns the configuration matching the reference deployment.
func Default() Config {
	return Config{
		DatabasePath: "tripflow.db",
		LogLevel:     "info",
		LogFormat:    "console",
		Validation: Validation{
			MinDurationSeconds: 60,
			MaxDurationSeconds: 86400,
			MinPassengers:      1,
			MaxPassengers:      9,
			LatMin:             40.4774,
			LatMax:             40.9176,
			LonMin:             -74.2591,
			LonMax:             -73.7004,
		},
		Ingest: Ingest{
			BatchSize:       1000,
			MaxValidRecords: 300,
			MaxDistanceMi:   100,
			MinSpeedMPH:     0.5,
			MaxSpeedMPH:     100,
		},
		Server: Server{
			Host: "localhost",
			Port: 8000,
		},
	}
}

// Load merges viper-provided settings over the defaults.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database_path", common.ErrMissingConfig)
	}
	if c.Ingest.BatchSize <= 0 {
		return fmt.Errorf("%w: ingest.batch_size must be positive", common.ErrInvalidConfig)
	}
	if c.Ingest.MaxValidRecords <= 0 {
		return fmt.Errorf("%w: ingest.max_valid_records must be positive", common.ErrInvalidConfig)
	}
	if c.Ingest.MinSpeedMPH >= c.Ingest.MaxSpeedMPH {
		return fmt.Errorf("%w: ingest speed range is empty", common.ErrInvalidConfig)
	}
	if c.Validation.LatMin >= c.Validation.LatMax || c.Validation.LonMin >= c.Validation.LonMax {
		return fmt.Errorf("%w: validation bounding box is empty", common.ErrInvalidConfig)
	}
	return nil
}
