package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
backend:
  base_url: http://backend:9000/api
  max_request_per_minute: 120
session:
  default_symbol: TCS.NS
  presets:
    - TCS.NS
    - INFY.NS
  notice_ttl: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:9000/api", cfg.Backend.BaseURL)
	assert.Equal(t, 120, cfg.Backend.MaxRequestPerMinute)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "1y", cfg.Backend.Timeframe)
	assert.Equal(t, "TCS.NS", cfg.Session.DefaultSymbol)
	assert.Equal(t, []string{"TCS.NS", "INFY.NS"}, cfg.Session.Presets)
	assert.Equal(t, 3*time.Second, cfg.Session.NoticeTTL)
	assert.Equal(t, ".NS", cfg.Session.DefaultExchangeSuffix)
}

func TestLoad_MissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://env-backend/api")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://env-backend/api", cfg.Backend.BaseURL)
	assert.Equal(t, "RELIANCE.NS", cfg.Session.DefaultSymbol)
	assert.Len(t, cfg.Session.Presets, 6)
	assert.Equal(t, 8090, cfg.HTTP.Port)
}
