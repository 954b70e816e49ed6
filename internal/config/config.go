// Package config loads the runtime knobs this module reads from the
// environment: the machine's step budget and the REPL's history file.
package config

import "github.com/caarlos0/env/v6"

// DefaultMaxSteps is the step budget the machine enforces when
// TINYCPS_MAX_STEPS is unset, a safety net against non-terminating
// programs.
const DefaultMaxSteps = 10_000_000

// Config holds the environment-derived settings for both the `run` and
// `repl` commands.
type Config struct {
	MaxSteps    int    `env:"TINYCPS_MAX_STEPS" envDefault:"10000000"`
	REPLHistory string `env:"TINYCPS_REPL_HISTORY"`
}

// Load reads Config from the process environment, applying defaults for
// anything unset.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	return c, nil
}
