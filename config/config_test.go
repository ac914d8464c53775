package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// viper keeps global state; reset it so tests don't see each other's files.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadConfigDefaults(t *testing.T) {
	resetViper(t)
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Store.Type)
	assert.Equal(t, "https://amtsblattportal.ch/api/v1", cfg.SHAB.BaseURL)
	assert.Equal(t, 24, cfg.Ingest.EveryHours)
	assert.Equal(t, 4, cfg.Ingest.Concurrency)
	assert.Equal(t, 365, cfg.Retention.MaxAgeDays)
	assert.Equal(t, "4.90", cfg.Pricing.BasicCHF)
	assert.Equal(t, "9.90", cfg.Pricing.PremiumCHF)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFromFile(t *testing.T) {
	resetViper(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	contents := []byte(`
server:
  port: 9001
pricing:
  basic_chf: "3.50"
`)
	require.NoError(t, os.WriteFile(configPath, contents, 0o644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "3.50", cfg.Pricing.BasicCHF)
	// Untouched keys keep their defaults.
	assert.Equal(t, "9.90", cfg.Pricing.PremiumCHF)
}

func TestLoadConfigFromEnv(t *testing.T) {
	resetViper(t)
	t.Setenv("GANT_SERVER_PORT", "9002")
	t.Setenv("GANT_SHAB_BASE_URL", "https://example.test/api")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 9002, cfg.Server.Port)
	assert.Equal(t, "https://example.test/api", cfg.SHAB.BaseURL)
}
