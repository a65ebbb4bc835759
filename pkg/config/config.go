// Package config loads diskmon settings from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/danpilch/diskmon/pkg/collectors/disk"
	"github.com/danpilch/diskmon/pkg/output"
	"github.com/danpilch/diskmon/pkg/use"
)

// Config holds all runtime settings.
type Config struct {
	Interval      time.Duration  `yaml:"interval"`
	QueryTimeout  time.Duration  `yaml:"query_timeout"`
	Source        string         `yaml:"source"`
	AllPartitions bool           `yaml:"all_partitions"`
	Thresholds    use.Thresholds `yaml:"thresholds"`
	Log           LogConfig      `yaml:"log"`
	ListenAddress string         `yaml:"listen_address"`
	Format        output.Format  `yaml:"format"`
}

// LogConfig controls the logrus logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Interval:      30 * time.Second,
		QueryTimeout:  10 * time.Second,
		Source:        disk.SourceGopsutil,
		Thresholds:    use.DefaultThresholds(),
		Log:           LogConfig{Level: "info", Format: "text"},
		ListenAddress: ":9567",
		Format:        output.FormatTable,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config %q: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks settings for consistency.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Interval <= 0 {
		result = multierror.Append(result, fmt.Errorf("interval must be positive, got %s", c.Interval))
	}
	if c.QueryTimeout < 0 {
		result = multierror.Append(result, fmt.Errorf("query_timeout must not be negative, got %s", c.QueryTimeout))
	}
	switch c.Source {
	case "", disk.SourceGopsutil, disk.SourceStatfs:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown source %q", c.Source))
	}
	if c.Thresholds.WarnUtil > c.Thresholds.CritUtil {
		result = multierror.Append(result, fmt.Errorf("warn threshold %.1f exceeds crit threshold %.1f",
			c.Thresholds.WarnUtil, c.Thresholds.CritUtil))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		result = multierror.Append(result, err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		result = multierror.Append(result, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	switch c.Format {
	case output.FormatTable, output.FormatJSON, output.FormatTSV:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown output format %q", c.Format))
	}
	return result.ErrorOrNil()
}

// NewLogger builds a logrus logger from the log settings.
func (c Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
