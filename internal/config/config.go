// Package config loads Atomedit configuration from a TOML file with
// environment variable overrides.
//
// Precedence, lowest to highest: built-in defaults, the config file,
// then ATOMEDIT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Errors returned by configuration loading.
var (
	ErrInvalidTolerance  = errors.New("config: tolerance must be positive")
	ErrInvalidMultiplier = errors.New("config: autobond multiplier must be positive")
	ErrInvalidLogLevel   = errors.New("config: unknown log level")
	ErrInvalidLogFormat  = errors.New("config: unknown log format")
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "ATOMEDIT_"

// Config is the full Atomedit configuration.
type Config struct {
	// Tolerance is the default matching tolerance in angstroms.
	Tolerance float64 `toml:"tolerance"`

	AutoBond AutoBondConfig `toml:"autobond"`
	Logging  LoggingConfig  `toml:"logging"`
}

// AutoBondConfig controls covalent-radius bond inference on load.
type AutoBondConfig struct {
	// Enabled runs AutoBond after loading structures without bonds.
	Enabled bool `toml:"enabled"`

	// Multiplier scales the covalent radius sum. Zero means the
	// built-in default.
	Multiplier float64 `toml:"multiplier"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// Format is text or json.
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Tolerance: 0.1,
		AutoBond: AutoBondConfig{
			Enabled:    true,
			Multiplier: 1.15,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from path, applies environment overrides,
// and validates the result. A missing file is not an error; defaults
// plus environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides config fields from ATOMEDIT_* variables.
// Unparseable values are ignored; validation catches out-of-range ones.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvPrefix + "TOLERANCE"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Tolerance = f
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "AUTOBOND"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AutoBond.Enabled = b
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "AUTOBOND_MULTIPLIER"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.AutoBond.Multiplier = f
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_FORMAT"); ok {
		cfg.Logging.Format = v
	}
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.Tolerance <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTolerance, c.Tolerance)
	}
	if c.AutoBond.Multiplier < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidMultiplier, c.AutoBond.Multiplier)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}
	return nil
}
