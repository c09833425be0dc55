package edgelimit

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config mirrors a YAML rules file:
//
//	namespace: ratelimit
//	limits:
//	  - window_ms: 5000
//	    max: 2
//	  - window_ms: 3600000
//	    max: 50
//
// Loading a file is optional; NewRuleSet and AddLimit remain the primary
// configuration surface.
type Config struct {
	Namespace string        `yaml:"namespace"`
	Limits    []LimitConfig `yaml:"limits"`
}

type LimitConfig struct {
	WindowMS int64  `yaml:"window_ms"`
	Max      uint64 `yaml:"max"`
}

func (c LimitConfig) Window() time.Duration {
	return time.Duration(c.WindowMS) * time.Millisecond
}

// LoadConfig reads and parses a YAML rules file. Validation happens when
// the config is turned into a rule set.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// RuleSet builds the rule set the config describes. A broken file fails
// here, at setup time, never at request time.
func (c *Config) RuleSet() (*RuleSet, error) {
	rs, err := NewRuleSet(c.Namespace)
	if err != nil {
		return nil, err
	}
	for i, lim := range c.Limits {
		if err := rs.AddLimit(lim.Window(), lim.Max); err != nil {
			return nil, fmt.Errorf("limit %d: %w", i, err)
		}
	}
	return rs, nil
}
