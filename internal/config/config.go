// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sethvargo/go-envconfig"

	"github.com/birkheadc/transcript-chopper/internal/archive"
	"github.com/birkheadc/transcript-chopper/internal/volume"
)

// Config holds all configuration for the chopper CLI.
type Config struct {
	// Storage settings
	TempDir string `env:"CHOPPER_TEMP_DIR, default=/tmp/chopper" json:"temp_dir"`
	OutDir  string `env:"CHOPPER_OUT_DIR, default=." json:"out_dir"`

	// Profiling settings
	Stride int `env:"CHOPPER_STRIDE, default=4096" json:"stride"`

	// Segmentation settings
	Sensitivity  int `env:"CHOPPER_SENSITIVITY, default=50" json:"sensitivity"`
	TargetLength int `env:"CHOPPER_TARGET_LENGTH, default=50" json:"target_length"`

	// Export settings
	NamingScheme string `env:"CHOPPER_NAMING_SCHEME, default=index" json:"naming_scheme"`
	Format       string `env:"CHOPPER_FORMAT, default=card-with-separator" json:"format"`
	Separator    string `env:"CHOPPER_SEPARATOR, default=;" json:"separator"`

	// Logging settings
	LogFormat string `env:"CHOPPER_LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"CHOPPER_LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Scheme returns the configured naming scheme.
func (c *Config) Scheme() (archive.NamingScheme, error) {
	return archive.ParseNamingScheme(c.NamingScheme)
}

// ArchiveFormat returns the configured archive layout.
func (c *Config) ArchiveFormat() (archive.Format, error) {
	return archive.ParseFormat(c.Format)
}

// SegmentOpts returns the configured segmentation tunables.
func (c *Config) SegmentOpts() volume.SegmentOpts {
	return volume.SegmentOpts{
		Sensitivity:  c.Sensitivity,
		TargetLength: c.TargetLength,
	}
}

// Validate checks that the enumerated settings parse and the numeric
// settings are usable. The segmentation tunables are validated again at
// the component boundary.
func (c *Config) Validate() error {
	if _, err := c.Scheme(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.ArchiveFormat(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Stride < 1 {
		return fmt.Errorf("config: stride must be positive, got %d", c.Stride)
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for
// automation. Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{TempDir: %s, OutDir: %s, Stride: %d, Sensitivity: %d, TargetLength: %d, NamingScheme: %s, Format: %s, Separator: %q, LogFormat: %s, LogLevel: %s}",
		c.TempDir,
		c.OutDir,
		c.Stride,
		c.Sensitivity,
		c.TargetLength,
		c.NamingScheme,
		c.Format,
		c.Separator,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
