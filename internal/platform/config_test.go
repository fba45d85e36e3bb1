package platform

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) lookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := configFromEnv(mapLookup(nil))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPSrvCfg.Port)
	assert.False(t, cfg.HTTPSrvCfg.EnableTLS)
	assert.True(t, cfg.NatsCfg.InProcess)
	assert.True(t, cfg.Flags.Preload)
	assert.Equal(t, slog.LevelInfo, cfg.Flags.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.TerminalCfg.CommandTimeout)
	assert.NotEmpty(t, cfg.TerminalCfg.Content.BaseURL)
}

func TestConfigOverrides(t *testing.T) {
	cfg, err := configFromEnv(mapLookup(map[string]string{
		"KP_PORT":             "9090",
		"KP_TLS":              "true",
		"KP_HEADLESS":         "1",
		"KP_LOG_LEVEL":        "debug",
		"KP_COMMAND_TIMEOUT":  "3s",
		"KP_CONTENT_BASE_URL": "http://localhost:9999/data",
		"KP_SESSION_KEY":      "  s3cret  ",
		"KP_STORE_DIR":        "",
	}))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPSrvCfg.Port)
	assert.True(t, cfg.HTTPSrvCfg.EnableTLS)
	assert.True(t, cfg.Flags.Headless)
	assert.Equal(t, slog.LevelDebug, cfg.Flags.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.TerminalCfg.CommandTimeout)
	assert.Equal(t, "http://localhost:9999/data", cfg.TerminalCfg.Content.BaseURL)
	assert.Equal(t, "s3cret", cfg.HTTPSrvCfg.SessionKey)
	assert.Equal(t, "./store/js", cfg.NatsCfg.StoreDir, "blank values keep the default")
}

func TestConfigErrorsAreCollected(t *testing.T) {
	_, err := configFromEnv(mapLookup(map[string]string{
		"KP_PORT":            "eighty",
		"KP_TLS":             "maybe",
		"KP_COMMAND_TIMEOUT": "soon",
		"KP_LOG_LEVEL":       "loud",
	}))
	require.Error(t, err)
	for _, key := range []string{"KP_PORT", "KP_TLS", "KP_COMMAND_TIMEOUT", "KP_LOG_LEVEL"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestConfigPortRange(t *testing.T) {
	_, err := configFromEnv(mapLookup(map[string]string{"KP_PORT": "70000"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}
