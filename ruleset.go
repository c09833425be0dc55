package edgelimit

import (
	"errors"
	"fmt"
	"time"
)

// Rule bounds how many actions may happen inside a trailing window.
type Rule struct {
	Window time.Duration
	Max    uint64
}

// RuleSet is an ordered collection of rules scoped under a storage
// namespace. Build it once at setup; it must not change while live records
// exist, because the pruning horizon is derived from the largest window.
type RuleSet struct {
	namespace string
	rules     []Rule
}

// NewRuleSet creates an empty rule set whose storage keys live under
// namespace. An empty namespace is a configuration error.
func NewRuleSet(namespace string) (*RuleSet, error) {
	if namespace == "" {
		return nil, errors.New("edgelimit: namespace must not be empty")
	}
	return &RuleSet{namespace: namespace}, nil
}

// AddLimit appends a rule permitting at most max actions per window. Both
// bounds are validated here: a zero window or count would silently disable
// the rule, so it fails at setup time instead.
func (rs *RuleSet) AddLimit(window time.Duration, max uint64) error {
	if window <= 0 {
		return fmt.Errorf("edgelimit: rule window must be positive, got %v", window)
	}
	if max == 0 {
		return errors.New("edgelimit: rule max must be at least 1")
	}
	rs.rules = append(rs.rules, Rule{Window: window, Max: max})
	return nil
}

// Horizon is the largest configured window: history older than this can
// never influence a verdict and is pruned. Zero when no rules are set.
func (rs *RuleSet) Horizon() time.Duration {
	var h time.Duration
	for _, r := range rs.rules {
		if r.Window > h {
			h = r.Window
		}
	}
	return h
}

// Namespace returns the storage key prefix of the rule set.
func (rs *RuleSet) Namespace() string { return rs.namespace }

// Rules returns a copy of the configured rules in insertion order.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}
