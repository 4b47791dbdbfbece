// internal/config/env.go
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env carries process-environment overrides. Environment sits between the
// scenario file and command-line flags in precedence.
type Env struct {
	Seed     uint64 `env:"ABM_SEED"`
	SeedFile string `env:"ABM_SEED_FILE"`
	Threads  int    `env:"ABM_THREADS"`
	LogLevel string `env:"ABM_LOG_LEVEL"`
}

// ParseEnv reads the ABM_* variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
