package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the command line defaults. Format is the Go layout of the
// first two output lines; Timezone names the location "now" and zone-less
// dates are read in (empty means local).
type Config struct {
	Format    string `toml:"format"`
	Timezone  string `toml:"timezone"`
	WeekStart string `toml:"week_start"`
	RoundUp   bool   `toml:"round_up"`
	JSON      bool   `toml:"json"`
}

// DefaultPath returns $XDG_CONFIG_HOME/datemath/config.toml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "datemath", "config.toml")
}

// Load reads the TOML file at path on top of the defaults and then applies
// environment overrides. An empty path means DefaultPath, which may be
// missing.
func Load(path string) (*Config, error) {
	config := getDefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case explicit || !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := config.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return config, nil
}

func getDefaultConfig() *Config {
	return &Config{
		Format:    time.RFC1123,
		Timezone:  "",
		WeekStart: "sunday",
		RoundUp:   false,
		JSON:      false,
	}
}

func (c *Config) applyEnvOverrides() error {
	if val := os.Getenv("DATEMATH_FORMAT"); val != "" {
		c.Format = val
	}
	if val := os.Getenv("DATEMATH_TZ"); val != "" {
		c.Timezone = val
	}
	if val := os.Getenv("DATEMATH_WEEK_START"); val != "" {
		c.WeekStart = val
	}
	if val := os.Getenv("DATEMATH_ROUND_UP"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid DATEMATH_ROUND_UP %q: %w", val, err)
		}
		c.RoundUp = b
	}
	return nil
}

// Location resolves Timezone. "local" and "" mean time.Local.
func (c *Config) Location() (*time.Location, error) {
	switch strings.ToLower(c.Timezone) {
	case "", "local":
		return time.Local, nil
	case "utc":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

var weekdays = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// Weekday resolves WeekStart.
func (c *Config) Weekday() (time.Weekday, error) {
	if c.WeekStart == "" {
		return time.Sunday, nil
	}
	d, ok := weekdays[strings.ToLower(c.WeekStart)]
	if !ok {
		return 0, fmt.Errorf("unknown week start %q", c.WeekStart)
	}
	return d, nil
}
