package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestLoadConfig tests configuration loading from environment variables.
func TestLoadConfig(t *testing.T) {
	base := t.TempDir()
	t.Setenv("MEMES_BASE_DIR", base)
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DEFAULT_PAGE_LIMIT", "50")
	t.Setenv("MATCH_THRESHOLD", "0.8")
	t.Setenv("ENABLE_CORS", "false")
	t.Setenv("ENABLE_TRACING", "true")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, base, cfg.BaseDir)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 50, cfg.DefaultPageLimit)
	assert.Equal(t, 0.8, cfg.MatchThreshold)
	assert.False(t, cfg.EnableCORS)
	assert.True(t, cfg.EnableMetrics)
	assert.True(t, cfg.EnableTracing)
	assert.False(t, cfg.EnableCloudWatch)
	assert.Equal(t, 8, cfg.LoadConcurrency)
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"MEMES_BASE_DIR", "DEFAULT_PAGE_LIMIT", "MATCH_THRESHOLD", "ENVIRONMENT", "CONFIG_FILE", "ENABLE_TRACING", "ENABLE_CLOUDWATCH"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.NotEmpty(t, cfg.BaseDir)
	assert.Equal(t, 20, cfg.DefaultPageLimit)
	assert.Equal(t, 0.95, cfg.MatchThreshold)
	assert.True(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.DynamicFile)
	assert.False(t, cfg.EnableTracing)
	assert.False(t, cfg.EnableCloudWatch)
}

// TestConfigValidation tests configuration validation.
func TestConfigValidation(t *testing.T) {
	valid := func() *Config {
		return &Config{BaseDir: "/data", DefaultPageLimit: 20, MatchThreshold: 0.95, LoadConcurrency: 8}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty base dir", func(c *Config) { c.BaseDir = "" }, "MEMES_BASE_DIR"},
		{"zero limit", func(c *Config) { c.DefaultPageLimit = 0 }, "DEFAULT_PAGE_LIMIT"},
		{"zero concurrency", func(c *Config) { c.LoadConcurrency = 0 }, "LOAD_CONCURRENCY"},
		{"threshold on percent scale", func(c *Config) { c.MatchThreshold = 95 }, "MATCH_THRESHOLD"},
		{"negative threshold", func(c *Config) { c.MatchThreshold = -0.1 }, "MATCH_THRESHOLD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func writeYAML(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewSettings_Static(t *testing.T) {
	settings, err := NewSettings(&Config{MatchThreshold: 0.9, DefaultPageLimit: 10}, zap.NewNop())
	require.NoError(t, err)
	settings.Start()
	defer settings.Stop()

	assert.Equal(t, 0.9, settings.MatchThreshold())
	assert.Equal(t, 10, settings.DefaultLimit())
}

func TestNewSettings_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.yaml")
	writeYAML(t, path, "search:\n  matchThreshold: 0.7\n")

	settings, err := NewSettings(&Config{MatchThreshold: 0.95, DefaultPageLimit: 20, DynamicFile: path}, zap.NewNop())
	require.NoError(t, err)
	defer settings.Stop()

	assert.Equal(t, 0.7, settings.MatchThreshold())
	assert.Equal(t, 20, settings.DefaultLimit(), "absent keys keep the environment value")
}

func TestNewSettings_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.yaml")
	writeYAML(t, path, "search:\n  matchThreshold: 95\n")

	_, err := NewSettings(&Config{MatchThreshold: 0.95, DefaultPageLimit: 20, DynamicFile: path}, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.matchThreshold")
}

func TestSettings_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.yaml")
	writeYAML(t, path, "search:\n  matchThreshold: 0.9\n  defaultLimit: 5\n")
	settings, err := NewSettings(&Config{MatchThreshold: 0.95, DefaultPageLimit: 20, DynamicFile: path}, zap.NewNop())
	require.NoError(t, err)
	defer settings.Stop()

	var notified []*DynamicConfig
	settings.OnChange(func(cfg *DynamicConfig) { notified = append(notified, cfg) })

	t.Run("Should apply a valid change and restore removed keys", func(t *testing.T) {
		writeYAML(t, path, "search:\n  matchThreshold: 0.6\n")
		settings.reload()

		assert.Equal(t, 0.6, settings.MatchThreshold())
		assert.Equal(t, 20, settings.DefaultLimit(), "removed key falls back to the environment value")
		require.Len(t, notified, 1)
		assert.Equal(t, 0.6, notified[0].Search.MatchThreshold)
	})

	t.Run("Should keep current settings on invalid change", func(t *testing.T) {
		writeYAML(t, path, "search:\n  defaultLimit: 0\n")
		settings.reload()

		assert.Equal(t, 0.6, settings.MatchThreshold())
		assert.Equal(t, 20, settings.DefaultLimit())
		assert.Len(t, notified, 1)
	})

	t.Run("Should keep current settings on malformed yaml", func(t *testing.T) {
		writeYAML(t, path, "search: [\n")
		settings.reload()

		assert.Equal(t, 0.6, settings.MatchThreshold())
	})
}

func TestSettings_StopIsIdempotent(t *testing.T) {
	settings := NewStaticSettings(&Config{MatchThreshold: 0.95, DefaultPageLimit: 20}, zap.NewNop())

	settings.Stop()
	settings.Stop()
}
