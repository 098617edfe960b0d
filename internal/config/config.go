// Package config loads engine-wide settings from an optional .ecmarc.toml
// (or, failing that, .ecmarc.yaml) file: stack depth, the interrupt
// deadline a host watchdog should use, and whether scripts run in strict
// mode by default.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Config holds the engine flags an .ecmarc file may override. Zero
// values mean "use the engine's built-in default" — Load never fails
// just because a key is missing.
type Config struct {
	MaxCallDepth     int           `toml:"max_call_depth" yaml:"max_call_depth"`
	InterruptTimeout time.Duration `toml:"interrupt_timeout" yaml:"interrupt_timeout"`
	StrictByDefault  bool          `toml:"strict_by_default" yaml:"strict_by_default"`
}

// Default returns the engine's built-in settings, used when no .ecmarc
// file is present.
func Default() *Config {
	return &Config{
		MaxCallDepth:     4000,
		InterruptTimeout: 0, // 0 means no host-imposed deadline
		StrictByDefault:  false,
	}
}

// Load reads dir/.ecmarc.toml if present, else dir/.ecmarc.yaml, else
// returns Default(). A malformed file that does exist is an error rather
// than a silent fallback, since a typo'd config should not silently
// revert to defaults.
func Load(dir string) (*Config, error) {
	tomlPath := dir + "/.ecmarc.toml"
	if data, err := os.ReadFile(tomlPath); err == nil {
		cfg := Default()
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	yamlPath := dir + "/.ecmarc.yaml"
	if data, err := os.ReadFile(yamlPath); err == nil {
		cfg := Default()
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return Default(), nil
}
