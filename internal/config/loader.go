package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BOARDFIT_SETTINGS_KERF_WIDTH.
const EnvPrefix = "BOARDFIT"

// newViper returns a viper instance with every default registered, so each
// key can be overridden from the environment.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("settings.strategy", string(d.Settings.Strategy))
	v.SetDefault("settings.kerf_width", d.Settings.KerfWidth)
	v.SetDefault("settings.padding_length", d.Settings.PaddingLength)
	v.SetDefault("settings.padding_width", d.Settings.PaddingWidth)
	v.SetDefault("settings.max_parallel", d.Settings.MaxParallel)
	v.SetDefault("settings.search_limit", d.Settings.SearchLimit)
	v.SetDefault("settings.seed", d.Settings.Seed)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.max_search_limit", d.Server.MaxSearchLimit)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.directory", d.Output.Directory)
	return v
}

// Load reads configuration from the YAML file at path, applies environment
// overrides and validates the result. The file must exist.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return decode(v)
}

// LoadWithDefaults behaves like Load but falls back to the defaults, still
// with environment overrides, when the file does not exist. An empty path
// skips the file.
func LoadWithDefaults(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}
	return decode(newViper())
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
