// Package config is for run-wide settings unmarshalled from Viper: defaults,
// then a YAML file, then HMERIZE_* environment variables, then flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"hmerize/internal/engine"
	"hmerize/internal/hmer"
)

// EnvPrefix prefixes environment overrides: HMERIZE_CHUNK_SIZE=16.
const EnvPrefix = "HMERIZE"

// DefaultFile is read from the working directory when no --config is given.
const DefaultFile = "hmerize.yaml"

// Config is the root-level settings struct.
type Config struct {
	// worker goroutines
	Threads int `mapstructure:"threads"`
	// records per chunk; one scratch serves a chunk
	ChunkSize int `mapstructure:"chunk-size"`

	// output format (json, jsonl, tsv, yaml) and TSV header row
	Output string `mapstructure:"output"`
	Header bool   `mapstructure:"header"`

	// log level (debug, info, warn, error) and format (text, json)
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`

	// scratch budget; zero cells or variants fall back to hmer.Ceiling,
	// zero chunk bases disables that bound
	MaxCells      uint64 `mapstructure:"max-cells"`
	MaxVariants   uint64 `mapstructure:"max-variants"`
	MaxChunkBases uint64 `mapstructure:"max-chunk-bases"`

	// metrics dump target: a file path, "-" for stderr, "" to disable
	Metrics string `mapstructure:"metrics"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("threads", runtime.NumCPU())
	v.SetDefault("chunk-size", 64)
	v.SetDefault("output", "json")
	v.SetDefault("header", true)
	v.SetDefault("log-level", "warn")
	v.SetDefault("log-format", "text")
	v.SetDefault("max-cells", hmer.DefaultLimits.MaxCells)
	v.SetDefault("max-variants", hmer.DefaultLimits.MaxVariants)
	v.SetDefault("max-chunk-bases", 0)
	v.SetDefault("metrics", "")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (path, or DefaultFile if present) and decodes
// every layer into a Config.
func Load(v *viper.Viper, path string) (Config, error) {
	switch {
	case path != "":
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	default:
		if _, err := os.Stat(DefaultFile); err == nil {
			v.SetConfigFile(DefaultFile)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("config %s: %w", DefaultFile, err)
			}
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	return c, c.Validate()
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate rejects settings no run can use. Output formats are checked by
// the caller against the writer registry.
func (c Config) Validate() error {
	var errs []error
	if c.Threads < 1 {
		errs = append(errs, fmt.Errorf("threads must be >= 1 (got %d)", c.Threads))
	}
	if c.ChunkSize < 1 {
		errs = append(errs, fmt.Errorf("chunk-size must be >= 1 (got %d)", c.ChunkSize))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Errorf("log-level %q not one of %s", c.LogLevel, strings.Join(logLevels, ", ")))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.LogFormat)) {
		errs = append(errs, fmt.Errorf("log-format %q not one of %s", c.LogFormat, strings.Join(logFormats, ", ")))
	}
	return errors.Join(errs...)
}

// Engine returns the scratch budget for the engine.
func (c Config) Engine() engine.Config {
	return engine.Config{
		Limits:        hmer.Limits{MaxVariants: c.MaxVariants, MaxCells: c.MaxCells},
		MaxChunkBases: c.MaxChunkBases,
	}
}
