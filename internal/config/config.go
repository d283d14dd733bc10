// Package config loads the YAML configuration file consumed by the
// seclogd daemon: database location, logging level, the mock-data
// toggle, the rule-engine interval, and per-rule threshold overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleSettings holds the per-rule knobs from the rules.<name> section of
// the config file. Not every rule uses every field; unused fields are
// simply ignored by that rule.
type RuleSettings struct {
	// Enabled is a pointer so the zero value (rule not mentioned in the
	// config file) can be told apart from an explicit false; each rule
	// applies its own catalog default when this is nil.
	Enabled      *bool `yaml:"enabled"`
	MaxAttempts  int   `yaml:"max_attempts"`
	MaxBlocks    int   `yaml:"max_blocks"`
	MinPorts     int   `yaml:"min_ports"`
	MaxErrors    int   `yaml:"max_errors"`
	MaxFailures  int   `yaml:"max_failures"`
	MaxLogins    int   `yaml:"max_logins"`
	StartHour    int   `yaml:"start_hour"`
	EndHour      int   `yaml:"end_hour"`
	SudoFailures int   `yaml:"sudo_failures"`
}

// EnabledOr returns the configured Enabled value, or def if the config
// file did not mention this rule.
func (r RuleSettings) EnabledOr(def bool) bool {
	if r.Enabled == nil {
		return def
	}
	return *r.Enabled
}

// IntOr returns v if v is positive, or def otherwise. Rule constructors
// use this to fall back to catalog defaults for unset thresholds.
func IntOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Config is the flat configuration bag the orchestrator and rule engine
// consume.
type Config struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`

	UseMockData bool `yaml:"use_mock_data"`

	Analysis struct {
		IntervalSeconds int `yaml:"interval_seconds"`
	} `yaml:"analysis"`

	Rules map[string]RuleSettings `yaml:"rules"`
}

// Default returns a Config with a 60s analysis interval, info logging,
// and a database file under the current directory.
func Default() *Config {
	cfg := &Config{
		Rules: map[string]RuleSettings{},
	}
	cfg.Database.Path = "seclogd.db"
	cfg.Logging.Level = "info"
	cfg.UseMockData = false
	cfg.Analysis.IntervalSeconds = 60
	return cfg
}

// Load reads path (if non-empty and present) over the defaults. A missing
// file is not an error: the daemon runs on defaults alone.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if cfg.Analysis.IntervalSeconds <= 0 {
		cfg.Analysis.IntervalSeconds = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "seclogd.db"
	}

	return cfg, nil
}

// RuleConfig returns the settings for a named rule, or zero-value
// settings (Enabled nil, so EnabledOr yields the rule's own default) if
// the config file does not mention it. Rule
// constructors treat a zero MaxAttempts/MaxBlocks/etc. as "use the
// catalog default", so callers should apply defaults after this lookup.
func (c *Config) RuleConfig(name string) RuleSettings {
	if c.Rules == nil {
		return RuleSettings{}
	}
	return c.Rules[name]
}
