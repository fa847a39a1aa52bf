// Package config loads BoardFit configuration from a YAML file and
// BOARDFIT_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/BoardFit/internal/model"
)

// Config is the root configuration.
type Config struct {
	Settings model.CutSettings `mapstructure:"settings" yaml:"settings"`
	Log      LogConfig         `mapstructure:"log" yaml:"log"`
	Server   ServerConfig      `mapstructure:"server" yaml:"server"`
	Output   OutputConfig      `mapstructure:"output" yaml:"output"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json text"`
}

// ServerConfig contains HTTP API configuration.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"min=1s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"min=1s"`

	// MaxSearchLimit caps the SearchLimit of every API request. Zero
	// disables the cap.
	MaxSearchLimit int `mapstructure:"max_search_limit" yaml:"max_search_limit" validate:"gte=0"`
}

// OutputConfig controls where and how the CLI reports results.
type OutputConfig struct {
	Format    string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Settings: model.DefaultSettings(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxSearchLimit:  10,
		},
		Output: OutputConfig{
			Format:    "text",
			Directory: ".",
		},
	}
}

// DefaultDir returns the BoardFit home directory, ~/.boardfit, falling back
// to the working directory when the user home cannot be determined.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".boardfit")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}
