// Package config provides persistent configuration for the miqat CLI.
//
// Configuration is stored as JSON at ~/.config/miqat/config.json
// (XDG-compliant). The merge priority is:
// CLI flags > MIQAT_* environment > config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/smokyabdulrahman/miqat/internal/calc"
	"github.com/smokyabdulrahman/miqat/internal/logging"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
	"github.com/smokyabdulrahman/miqat/internal/tz"
)

const (
	configDirName  = "miqat"
	configFileName = "config.json"
)

// Prayer time sources.
const (
	SourceAuto   = "auto"   // remote first, local computation on failure
	SourceRemote = "remote" // Al Adhan only
	SourceLocal  = "local"  // on-device computation only
)

// MaxHijriOffset bounds the moon-sighting adjustment in days.
const MaxHijriOffset = 3

// DefaultMethod is used for local computation when no method is configured.
const DefaultMethod = string(calc.MWL)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"city", "country",
	"latitude", "longitude",
	"timezone",
	"method", "madhab",
	"hijri_offset",
	"source",
	"time_format",
	"prayers",
	"cache_dir",
	"redis_addr",
	"log_level",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	City        string  `json:"city,omitempty"`
	Country     string  `json:"country,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	Timezone    string  `json:"timezone,omitempty"` // IANA name or fixed offset
	Method      string  `json:"method,omitempty"`   // canonical method ID, e.g. "ISNA"
	Madhab      string  `json:"madhab,omitempty"`   // "standard" or "hanafi"
	HijriOffset *int    `json:"hijri_offset,omitempty"`
	Source      string  `json:"source,omitempty"`      // auto, remote or local
	TimeFormat  string  `json:"time_format,omitempty"` // "12h" or "24h"
	Prayers     string  `json:"prayers,omitempty"`     // comma-separated list
	CacheDir    string  `json:"cache_dir,omitempty"`
	RedisAddr   string  `json:"redis_addr,omitempty"`
	LogLevel    string  `json:"log_level,omitempty"`
}

// Defaults returns a Config with all default values applied.
// Method stays empty so the remote service can pick one for the location.
func Defaults() Config {
	offset := 0
	return Config{
		Madhab:      "standard",
		HijriOffset: &offset,
		Source:      SourceAuto,
		TimeFormat:  "24h",
		LogLevel:    "warn",
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
// If the file exists but is invalid JSON, it returns an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Config{}
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
// Method and madhab are stored in canonical form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "city":
		c.City = value
	case "country":
		c.Country = value
	case "latitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q: must be a number", value)
		}
		if v < -90 || v > 90 {
			return fmt.Errorf("invalid latitude %q: must be between -90 and 90", value)
		}
		c.Latitude = v
	case "longitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q: must be a number", value)
		}
		if v < -180 || v > 180 {
			return fmt.Errorf("invalid longitude %q: must be between -180 and 180", value)
		}
		c.Longitude = v
	case "timezone":
		if _, err := tz.Parse(value); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", value, err)
		}
		c.Timezone = value
	case "method":
		m, err := calc.LookupMethod(value)
		if err != nil {
			return fmt.Errorf("invalid method %q: %w", value, err)
		}
		c.Method = string(m.ID)
	case "madhab":
		m, err := calc.LookupMadhab(value)
		if err != nil {
			return fmt.Errorf("invalid madhab %q: %w", value, err)
		}
		c.Madhab = strings.ToLower(m.String())
	case "hijri_offset":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid hijri_offset %q: must be an integer", value)
		}
		if v < -MaxHijriOffset || v > MaxHijriOffset {
			return fmt.Errorf("invalid hijri_offset %q: must be between -%d and %d", value, MaxHijriOffset, MaxHijriOffset)
		}
		c.HijriOffset = &v
	case "source":
		if !isValidSource(value) {
			return fmt.Errorf("invalid source %q: must be %q, %q or %q", value, SourceAuto, SourceRemote, SourceLocal)
		}
		c.Source = value
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "prayers":
		for _, n := range strings.Split(value, ",") {
			n = strings.TrimSpace(n)
			if !isValidPrayerName(n) {
				return fmt.Errorf("invalid prayer name %q in prayers list", n)
			}
		}
		c.Prayers = value
	case "cache_dir":
		c.CacheDir = value
	case "redis_addr":
		c.RedisAddr = value
	case "log_level":
		if _, err := logging.ParseLevel(value); err != nil {
			return err
		}
		c.LogLevel = strings.ToLower(value)
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "city":
		return c.City, nil
	case "country":
		return c.Country, nil
	case "latitude":
		if c.Latitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.Latitude, 'f', -1, 64), nil
	case "longitude":
		if c.Longitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.Longitude, 'f', -1, 64), nil
	case "timezone":
		return c.Timezone, nil
	case "method":
		return c.Method, nil
	case "madhab":
		return c.Madhab, nil
	case "hijri_offset":
		if c.HijriOffset == nil {
			return "", nil
		}
		return strconv.Itoa(*c.HijriOffset), nil
	case "source":
		return c.Source, nil
	case "time_format":
		return c.TimeFormat, nil
	case "prayers":
		return c.Prayers, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "redis_addr":
		return c.RedisAddr, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Validate checks every set field and reports all problems at once.
// It catches hand-edited files that bypassed Set.
func (c *Config) Validate() error {
	var errs []error
	check := func(key, value string) {
		if value == "" {
			return
		}
		probe := Config{}
		if err := probe.Set(key, value); err != nil {
			errs = append(errs, err)
		}
	}

	if c.Latitude != 0 {
		check("latitude", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	}
	if c.Longitude != 0 {
		check("longitude", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	}
	check("timezone", c.Timezone)
	check("method", c.Method)
	check("madhab", c.Madhab)
	if c.HijriOffset != nil {
		check("hijri_offset", strconv.Itoa(*c.HijriOffset))
	}
	check("source", c.Source)
	check("time_format", c.TimeFormat)
	check("prayers", c.Prayers)
	check("log_level", c.LogLevel)

	return errors.Join(errs...)
}

func isValidSource(s string) bool {
	return s == SourceAuto || s == SourceRemote || s == SourceLocal
}

func isValidPrayerName(name string) bool {
	return slices.Contains(prayer.AllPrayerNames, name)
}

// MethodOrDefault returns the configured method, falling back to the given default.
func (c *Config) MethodOrDefault(def string) string {
	if c.Method != "" {
		return c.Method
	}
	return def
}

// MadhabOrDefault returns the configured madhab, falling back to the given default.
func (c *Config) MadhabOrDefault(def string) string {
	if c.Madhab != "" {
		return c.Madhab
	}
	return def
}

// HijriOffsetOrDefault returns the configured Hijri offset, falling back to the given default.
func (c *Config) HijriOffsetOrDefault(def int) int {
	if c.HijriOffset != nil {
		return *c.HijriOffset
	}
	return def
}

// SourceOrDefault returns the configured source, falling back to SourceAuto.
func (c *Config) SourceOrDefault() string {
	if c.Source != "" {
		return c.Source
	}
	return SourceAuto
}
