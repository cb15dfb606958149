// Package config holds the server settings and the rules for layering them:
// built-in defaults, then an optional YAML file, then the PORT environment
// variable, then command-line flags (applied by the caller).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/aoideee/movies-api/internal/cors"
	"github.com/aoideee/movies-api/internal/validator"
)

// Defaults for settings the operator does not supply.
const (
	DefaultPort         = 1234
	DefaultEnvironment  = "development"
	DefaultLimiterRPS   = 2
	DefaultLimiterBurst = 4
)

// Environments lists the accepted values of Config.Env.
var Environments = []string{"development", "staging", "production"}

// Config holds all the values that can be tweaked at startup.
type Config struct {
	Port    int    `yaml:"port"`    // TCP port the HTTP server listens on
	Env     string `yaml:"env"`     // development, staging or production
	Dataset string `yaml:"dataset"` // Initial movies file; empty means the bundled dataset

	CORS struct {
		TrustedOrigins []string `yaml:"trusted_origins"`
	} `yaml:"cors"`

	Limiter struct {
		Enabled bool    `yaml:"enabled"`
		RPS     float64 `yaml:"rps"`   // Tokens added per second, per client IP
		Burst   int     `yaml:"burst"` // Bucket size
	} `yaml:"limiter"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	cfg.Port = DefaultPort
	cfg.Env = DefaultEnvironment
	cfg.CORS.TrustedOrigins = append([]string(nil), cors.DefaultOrigins...)
	cfg.Limiter.Enabled = true
	cfg.Limiter.RPS = DefaultLimiterRPS
	cfg.Limiter.Burst = DefaultLimiterBurst
	return cfg
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the
// file keep their current values; unknown keys are an error.
func LoadFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg from the process environment, read through getenv.
// Only PORT is consulted.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	s := getenv("PORT")
	if s == "" {
		return nil
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("PORT: %q is not a number", s)
	}
	cfg.Port = port
	return nil
}

// Validate reports every setting that is out of range.
func (c Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range 1-65535", c.Port))
	}

	if !validator.In(c.Env, Environments...) {
		errs = append(errs, fmt.Errorf("unknown environment %q", c.Env))
	}

	if c.Limiter.Enabled {
		if c.Limiter.RPS <= 0 {
			errs = append(errs, fmt.Errorf("limiter rps must be positive, got %v", c.Limiter.RPS))
		}
		if c.Limiter.Burst <= 0 {
			errs = append(errs, fmt.Errorf("limiter burst must be positive, got %d", c.Limiter.Burst))
		}
	}

	return errors.Join(errs...)
}
