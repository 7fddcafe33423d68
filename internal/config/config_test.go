package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/adsyclub")
	t.Setenv("PORT", "9090")
	t.Setenv("SWEEP_AT", "02:15")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("JWT_TOKEN_TTL", "1h")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/adsyclub", cfg.Database.URL)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "02:15", cfg.Jobs.SweepAt)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.Minio.UseSSL)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadReadsTOMLFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("SWEEP_AT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("JOBS_ENABLED", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "adsyclub.toml")
	content := `
[database]
url = "postgres://file/adsyclub"

[jobs]
sweep_at = "03:30"
sync_at = "04:00"
enabled = false

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://file/adsyclub", cfg.Database.URL)
	assert.Equal(t, "03:30", cfg.Jobs.SweepAt)
	assert.False(t, cfg.Jobs.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched sections keep their defaults
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("PORT", "eighty")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing database url", func(c *Config) { c.Database.URL = " " }, true},
		{"malformed sweep time", func(c *Config) { c.Jobs.SweepAt = "25:00" }, true},
		{"malformed sync time", func(c *Config) { c.Jobs.SyncAt = "noon" }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Database.URL = "postgres://localhost/adsyclub"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMissingDatabaseURL(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingDatabaseURL)
}

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock("00:05")
	require.NoError(t, err)
	assert.Equal(t, uint(0), hour)
	assert.Equal(t, uint(5), minute)

	_, _, err = ParseClock("5pm")
	assert.Error(t, err)
}
