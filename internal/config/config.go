// Package config provides persistent configuration for the salah CLI.
//
// Configuration is stored as JSON at ~/.config/salah/config.json
// (XDG-compliant). The merge priority is: CLI flags > environment > config
// file > defaults. Environment variables are named SALAH_<KEY>, e.g.
// SALAH_LATITUDE, and may also come from a .env file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/smokyabdulrahman/salah/internal/prayer"
)

const (
	configDirName  = "salah"
	configFileName = "config.json"
	envPrefix      = "SALAH_"
)

// Defaults for settings that are not configured.
const (
	DefaultReminderMinutes = 10
	DefaultListen          = "127.0.0.1:8080"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"city", "country",
	"latitude", "longitude",
	"timezone",
	"method", "school",
	"time_format",
	"prayers",
	"data_dir",
	"reminder_minutes",
	"listen",
}

// Config holds all user-configurable settings.
// Nil pointers and empty strings mean "not set" (use defaults or auto-detect).
type Config struct {
	City            string   `json:"city,omitempty"`
	Country         string   `json:"country,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Timezone        string   `json:"timezone,omitempty"`
	Method          *int     `json:"method,omitempty"` // pointer so we can distinguish "not set" from 0
	School          *int     `json:"school,omitempty"` // pointer so we can distinguish "not set" from 0
	TimeFormat      string   `json:"time_format,omitempty"` // "12h" or "24h"
	Prayers         string   `json:"prayers,omitempty"`     // comma-separated list
	DataDir         string   `json:"data_dir,omitempty"`
	ReminderMinutes *int     `json:"reminder_minutes,omitempty"`
	Listen          string   `json:"listen,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	method := prayer.DefaultMethodID
	school := 0
	reminder := DefaultReminderMinutes
	return Config{
		Method:          &method,
		School:          &school,
		TimeFormat:      "24h",
		ReminderMinutes: &reminder,
		Listen:          DefaultListen,
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

// LoadDotEnv loads .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides c with any SALAH_<KEY> environment variables, using the
// same validation as Set.
func (c *Config) ApplyEnv() error {
	for _, key := range ValidKeys {
		name := EnvName(key)
		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			continue
		}
		if err := c.Set(key, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return envPrefix + strings.ToUpper(key)
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

// HasCoordinates reports whether both latitude and longitude are set.
func (c *Config) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// MethodOrDefault returns the method value, falling back to the given default.
func (c *Config) MethodOrDefault(def int) int {
	if c.Method != nil {
		return *c.Method
	}
	return def
}

// SchoolOrDefault returns the school value, falling back to the given default.
func (c *Config) SchoolOrDefault(def int) int {
	if c.School != nil {
		return *c.School
	}
	return def
}

// ReminderOrDefault returns the reminder lead time.
func (c *Config) ReminderOrDefault() time.Duration {
	if c.ReminderMinutes != nil {
		return time.Duration(*c.ReminderMinutes) * time.Minute
	}
	return DefaultReminderMinutes * time.Minute
}

// PrayerList returns the configured prayers, or def when unset.
func (c *Config) PrayerList(def []string) []string {
	if c.Prayers == "" {
		return def
	}
	return splitList(c.Prayers)
}
