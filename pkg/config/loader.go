package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvLoaded sync.Once

func loadDotenv() {
	dotenvLoaded.Do(func() {
		// A missing .env file is fine.
		_ = godotenv.Load()
	})
}

// LoadInto parses environment variables into v.
func LoadInto[T any](v *T) error {
	loadDotenv()
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// Load parses and validates the complete configuration.
func Load() (Config, error) {
	var cfg Config
	if err := LoadInto(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	return cfg, nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
	return cfg
}
