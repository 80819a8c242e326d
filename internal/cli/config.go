package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
)

// Color modes accepted by Config.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Dump formats accepted by Config.DumpFormat.
const (
	DumpSExpr = "sexpr"
	DumpJSON  = "json"
)

// ConfigEnvVar names the variable that points at a config file when no
// -config flag is given.
const ConfigEnvVar = "MYLANG_CONFIG"

// Config represents the settings shared by every mylang command.
type Config struct {
	Verbose         bool   `json:"verbose"`
	Debug           bool   `json:"debug"`
	Color           string `json:"color"`
	DumpFormat      string `json:"dump_format"`
	Jobs            int    `json:"jobs"`
	Indent          int    `json:"indent"`
	WatchDebounceMs int    `json:"watch_debounce_ms"`
	RequireVersion  string `json:"require_version,omitempty"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Color:           ColorAuto,
		DumpFormat:      DumpSExpr,
		Jobs:            4,
		Indent:          4,
		WatchDebounceMs: 200,
	}
}

// LoadConfig loads configuration from file and applies environment
// overrides. An empty configPath falls back to $MYLANG_CONFIG; a missing
// file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		configPath = env.Str(ConfigEnvVar)
	}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err):
			// Default config if file doesn't exist
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
			}
		}
	}

	config.applyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnv overrides fields with the MYLANG_* variables that are set.
func (c *Config) applyEnv() {
	if env.Has("MYLANG_VERBOSE") {
		c.Verbose = env.Bool("MYLANG_VERBOSE")
	}
	if env.Has("MYLANG_DEBUG") {
		c.Debug = env.Bool("MYLANG_DEBUG")
	}
	c.Color = env.Str("MYLANG_COLOR", c.Color)
	c.DumpFormat = env.Str("MYLANG_DUMP_FORMAT", c.DumpFormat)
	c.Jobs = env.Int("MYLANG_JOBS", c.Jobs)
	c.Indent = env.Int("MYLANG_INDENT", c.Indent)
	c.WatchDebounceMs = env.Int("MYLANG_WATCH_DEBOUNCE_MS", c.WatchDebounceMs)
}

// Validate checks that every field holds an accepted value.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.Color)
	}
	switch c.DumpFormat {
	case DumpSExpr, DumpJSON:
	default:
		return fmt.Errorf("invalid dump format %q (want sexpr or json)", c.DumpFormat)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.Indent < 0 || c.Indent > 16 {
		return fmt.Errorf("indent must be between 0 and 16, got %d", c.Indent)
	}
	if c.WatchDebounceMs < 0 {
		return fmt.Errorf("watch debounce must not be negative, got %d", c.WatchDebounceMs)
	}
	if c.RequireVersion != "" {
		if err := CheckVersion(Version, c.RequireVersion); err != nil {
			return err
		}
	}
	return nil
}

// UseColor resolves the color mode against whether the output is a
// terminal.
func (c *Config) UseColor(f *os.File) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return env.Str("NO_COLOR") == "" && IsTerminal(f)
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
