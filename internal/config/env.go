package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MIQAT_"

// EnvName returns the environment variable that overrides key,
// e.g. "hijri_offset" -> "MIQAT_HIJRI_OFFSET".
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// LoadDotEnv loads variables from the given .env files (default ".env" in the
// working directory). Missing files are ignored and variables already present
// in the environment win.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// ApplyEnv overrides c with every MIQAT_* variable that is set and non-empty.
// All invalid values are reported together; valid ones are still applied.
func (c *Config) ApplyEnv() error {
	var errs []error
	for _, key := range ValidKeys {
		name := EnvName(key)
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			continue
		}
		if err := c.Set(key, v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
