// Package config loads the build configuration.
//
// Values are layered, later sources winning:
//
//  1. Default()
//  2. an optional YAML file
//  3. variables from an optional .env file (never overriding the real environment)
//  4. environment variables prefixed with CATALOG_ (e.g. CATALOG_DIST_DIR)
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CATALOG"

// Config is built once by the CLI and passed down explicitly.
type Config struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	DistDir string `yaml:"dist_dir" envconfig:"DIST_DIR" validate:"required"`
	Strict  bool   `yaml:"strict" envconfig:"STRICT"`

	Log LogConfig `yaml:"log" envconfig:"LOG"`

	// HistoryDB is the release ledger path. Empty disables the ledger.
	HistoryDB string `yaml:"history_db" envconfig:"HISTORY_DB"`

	// MetricsTextfile is written after every build. Empty disables metrics.
	MetricsTextfile string `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`

	S3 S3Config `yaml:"s3" envconfig:"S3"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

// S3Config enables mirroring of each release. An empty Bucket disables it.
type S3Config struct {
	Bucket string `yaml:"bucket" envconfig:"BUCKET"`
	Prefix string `yaml:"prefix" envconfig:"PREFIX"`
	Region string `yaml:"region" envconfig:"REGION"`
}

// Enabled reports whether a bucket is configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		DataDir: "data",
		DistDir: "dist",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadOptions names the optional files consulted by Load.
type LoadOptions struct {
	// File is a YAML config file. Empty skips it; a named file must exist.
	File string

	// DotEnv is a .env file. A missing file is ignored.
	DotEnv string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds a Config from defaults, opts.File, opts.DotEnv and the
// environment.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", opts.File, err)
		}
	}

	if opts.DotEnv != "" {
		if err := godotenv.Load(opts.DotEnv); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", opts.DotEnv, err)
		}
	}

	// No default tags: unset variables leave file values alone.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
