// Package config loads woql settings from defaults, an optional YAML file
// and WOQL_ environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/woql/internal/logging"
	"github.com/roach88/woql/internal/syntax"
)

// EnvPrefix prefixes environment variables: WOQL_LOG_LEVEL sets log.level.
const EnvPrefix = "WOQL"

// FileName is the config file looked up in the working directory when no
// path is given.
const FileName = "woql.yaml"

// Config holds every setting.
type Config struct {
	MaxDepth int           `mapstructure:"max_depth"`
	Syntax   string        `mapstructure:"syntax"` // auto, dsl, alt or json
	Indent   string        `mapstructure:"indent"`
	Log      LogConfig     `mapstructure:"log"`
	Library  LibraryConfig `mapstructure:"library"`
	Harness  HarnessConfig `mapstructure:"harness"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

type LibraryConfig struct {
	Path string `mapstructure:"path"`
}

type HarnessConfig struct {
	Workers int `mapstructure:"workers"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxDepth: syntax.DefaultMaxDepth,
		Syntax:   "auto",
		Indent:   "  ",
		Log:      LogConfig{Level: "info", Format: "text"},
		Library:  LibraryConfig{Path: "woql-library.db"},
		Harness:  HarnessConfig{Workers: 4},
	}
}

// Load reads configuration. With an empty path, woql.yaml in the working
// directory is used if present; a named file must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("syntax", d.Syntax)
	v.SetDefault("indent", d.Indent)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("library.path", d.Library.Path)
	v.SetDefault("harness.workers", d.Harness.Workers)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.MaxDepth <= 0 {
		return fmt.Errorf("config: max_depth must be positive, got %d", c.MaxDepth)
	}
	switch c.Syntax {
	case "auto", "dsl", "alt", "json":
	default:
		return fmt.Errorf("config: syntax must be auto, dsl, alt or json, got %q", c.Syntax)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Harness.Workers < 0 {
		return fmt.Errorf("config: harness.workers must not be negative, got %d", c.Harness.Workers)
	}
	return nil
}
