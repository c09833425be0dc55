package edgelimit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "limits.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
namespace: ratelimit
limits:
  - window_ms: 5000
    max: 2
  - window_ms: 3600000
    max: 50
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	rs, err := cfg.RuleSet()
	require.NoError(t, err)

	assert.Equal(t, "ratelimit", rs.Namespace())
	assert.Equal(t, []Rule{
		{Window: 5 * time.Second, Max: 2},
		{Window: time.Hour, Max: 50},
	}, rs.Rules())
	assert.Equal(t, time.Hour, rs.Horizon())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := writeConfig(t, "namespace: [unclosed")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigRuleSetValidation(t *testing.T) {
	cases := map[string]Config{
		"empty namespace": {Limits: []LimitConfig{{WindowMS: 1000, Max: 1}}},
		"zero window":     {Namespace: "rl", Limits: []LimitConfig{{WindowMS: 0, Max: 1}}},
		"zero max":        {Namespace: "rl", Limits: []LimitConfig{{WindowMS: 1000, Max: 0}}},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := cfg.RuleSet()
			assert.Error(t, err)
		})
	}
}
