package logging

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum enabled level: debug, info, warn, or error.
	Level string `koanf:"level"`

	// Format selects the encoder: "json" or "console".
	Format string `koanf:"format"`

	// Output controls where logs are written.
	Output OutputConfig `koanf:"output"`

	// Fields are constant fields attached to every log entry.
	Fields map[string]string `koanf:"fields"`
}

// OutputConfig controls log destinations. At least one must be enabled.
type OutputConfig struct {
	Stdout bool       `koanf:"stdout"`
	File   FileConfig `koanf:"file"`
}

// FileConfig controls rotating file output.
type FileConfig struct {
	Enabled bool `koanf:"enabled"`

	// Path is the log file location.
	Path string `koanf:"path"`

	// MaxSizeMB is the size in megabytes before the file is rotated.
	MaxSizeMB int `koanf:"max_size_mb"`

	// MaxBackups is the number of rotated files to retain.
	MaxBackups int `koanf:"max_backups"`

	// MaxAgeDays is the retention period for rotated files.
	MaxAgeDays int `koanf:"max_age_days"`

	// Compress gzips rotated files.
	Compress bool `koanf:"compress"`
}

// NewDefaultConfig returns config with production-ready defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
		Output: OutputConfig{
			Stdout: true,
			File: FileConfig{
				Enabled:    false,
				Path:       "invoiceqa.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 14,
			},
		},
		Fields: map[string]string{
			"service": "invoiceqa",
		},
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("invalid level %q: %w", c.Level, err)
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	if !c.Output.Stdout && !c.Output.File.Enabled {
		return fmt.Errorf("at least one output must be enabled (stdout or file)")
	}
	if c.Output.File.Enabled {
		if c.Output.File.Path == "" {
			return fmt.Errorf("file output enabled but no path configured")
		}
		if c.Output.File.MaxSizeMB < 0 || c.Output.File.MaxBackups < 0 || c.Output.File.MaxAgeDays < 0 {
			return fmt.Errorf("file rotation limits must be >= 0")
		}
	}
	for k, v := range c.Fields {
		if k == "" {
			return fmt.Errorf("field key cannot be empty")
		}
		if v == "" {
			return fmt.Errorf("field %q has empty value", k)
		}
	}
	return nil
}
