package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smokyabdulrahman/salah/internal/prayer"
)

// setting binds a config key to its field. set validates before storing.
type setting struct {
	get func(c *Config) string
	set func(c *Config, value string) error
}

var settings = map[string]setting{
	"city": {
		get: func(c *Config) string { return c.City },
		set: func(c *Config, v string) error { c.City = v; return nil },
	},
	"country": {
		get: func(c *Config) string { return c.Country },
		set: func(c *Config, v string) error { c.Country = v; return nil },
	},
	"latitude": {
		get: func(c *Config) string { return formatFloat(c.Latitude) },
		set: func(c *Config, v string) (err error) {
			c.Latitude, err = parseFloatIn("latitude", v, -90, 90)
			return err
		},
	},
	"longitude": {
		get: func(c *Config) string { return formatFloat(c.Longitude) },
		set: func(c *Config, v string) (err error) {
			c.Longitude, err = parseFloatIn("longitude", v, -180, 180)
			return err
		},
	},
	"timezone": {
		get: func(c *Config) string { return c.Timezone },
		set: func(c *Config, v string) error {
			if v == "" {
				return fmt.Errorf("invalid timezone: must be an IANA zone such as Europe/London")
			}
			if _, err := time.LoadLocation(v); err != nil {
				return fmt.Errorf("invalid timezone %q: must be an IANA zone such as Europe/London", v)
			}
			c.Timezone = v
			return nil
		},
	},
	"method": {
		get: func(c *Config) string { return formatInt(c.Method) },
		set: func(c *Config, v string) error {
			id, err := parseIntIn("method", v, 0, 99)
			if err != nil {
				return err
			}
			if _, ok := prayer.MethodByID(*id); !ok {
				return fmt.Errorf("invalid method %q: see `salah methods` for supported IDs", v)
			}
			c.Method = id
			return nil
		},
	},
	"school": {
		get: func(c *Config) string { return formatInt(c.School) },
		set: func(c *Config, v string) (err error) {
			c.School, err = parseIntIn("school", v, 0, 1)
			return err
		},
	},
	"time_format": {
		get: func(c *Config) string { return c.TimeFormat },
		set: func(c *Config, v string) error {
			if v != "12h" && v != "24h" {
				return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", v)
			}
			c.TimeFormat = v
			return nil
		},
	},
	"prayers": {
		get: func(c *Config) string { return c.Prayers },
		set: func(c *Config, v string) error {
			for _, name := range splitList(v) {
				if !prayer.IsValidName(name) {
					return fmt.Errorf("invalid prayer name %q in prayers list", name)
				}
			}
			c.Prayers = v
			return nil
		},
	},
	"data_dir": {
		get: func(c *Config) string { return c.DataDir },
		set: func(c *Config, v string) error { c.DataDir = v; return nil },
	},
	"reminder_minutes": {
		get: func(c *Config) string { return formatInt(c.ReminderMinutes) },
		set: func(c *Config, v string) (err error) {
			c.ReminderMinutes, err = parseIntIn("reminder_minutes", v, 0, 120)
			return err
		},
	},
	"listen": {
		get: func(c *Config) string { return c.Listen },
		set: func(c *Config, v string) error {
			if !strings.Contains(v, ":") {
				return fmt.Errorf("invalid listen address %q: must be host:port", v)
			}
			c.Listen = v
			return nil
		},
	},
}

// Set validates value and stores it under key.
func (c *Config) Set(key, value string) error {
	s, ok := settings[key]
	if !ok {
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}
	return s.set(c, value)
}

// Get returns the stored value of key, "" when unset.
func (c *Config) Get(key string) (string, error) {
	s, ok := settings[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q", key)
	}
	return s.get(c), nil
}

func parseFloatIn(key, value string, lo, hi float64) (*float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: must be a number", key, value)
	}
	if v < lo || v > hi {
		return nil, fmt.Errorf("invalid %s %q: must be between %v and %v", key, value, lo, hi)
	}
	return &v, nil
}

func parseIntIn(key, value string, lo, hi int) (*int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: must be an integer", key, value)
	}
	if v < lo || v > hi {
		return nil, fmt.Errorf("invalid %s %q: must be between %d and %d", key, value, lo, hi)
	}
	return &v, nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
