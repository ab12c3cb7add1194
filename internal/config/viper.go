// Package config provides Viper-based hierarchical configuration:
// defaults, then an optional config.yaml, then INGESTA_-prefixed
// environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Resolver struct {
		MinScore  float64 `mapstructure:"min_score" yaml:"min_score"`
		AutoLearn bool    `mapstructure:"auto_learn" yaml:"auto_learn"`
	} `mapstructure:"resolver" yaml:"resolver"`

	Ingest struct {
		RejectMissingUID bool `mapstructure:"reject_missing_uid" yaml:"reject_missing_uid"`
	} `mapstructure:"ingest" yaml:"ingest"`

	Categorizer struct {
		// TaxonomyFile optionally overrides the built-in taxonomy.
		TaxonomyFile string `mapstructure:"taxonomy_file" yaml:"taxonomy_file"`
	} `mapstructure:"categorizer" yaml:"categorizer"`

	Store struct {
		// Backend selects the persistence layer: "yaml" or "sqlite".
		Backend string `mapstructure:"backend" yaml:"backend"`
		// Path is the store directory (yaml) or database file (sqlite).
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"store" yaml:"store"`

	Output struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"output" yaml:"output"`
}

// InitializeConfig loads the configuration hierarchically.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.ingesta")
	v.AddConfigPath(".ingesta")
	v.AddConfigPath(".")

	v.SetEnvPrefix("INGESTA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("resolver.min_score", 0.60)
	v.SetDefault("resolver.auto_learn", true)

	v.SetDefault("ingest.reject_missing_uid", false)

	v.SetDefault("categorizer.taxonomy_file", "")

	v.SetDefault("store.backend", "yaml")
	v.SetDefault("store.path", "data")

	v.SetDefault("output.directory", "out")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Resolver.MinScore < 0.0 || config.Resolver.MinScore > 1.0 {
		return fmt.Errorf("resolver.min_score must be between 0.0 and 1.0, got: %f", config.Resolver.MinScore)
	}

	if config.Store.Backend != "yaml" && config.Store.Backend != "sqlite" {
		return fmt.Errorf("invalid store backend: %s (must be 'yaml' or 'sqlite')", config.Store.Backend)
	}

	return nil
}

// Delimiter returns the configured output delimiter as a rune.
func (c *Config) Delimiter() rune {
	return rune(c.CSV.Delimiter[0])
}
