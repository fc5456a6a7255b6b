package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "job-hunter")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.8, cfg.Dashboard.TopThreshold)
	assert.Equal(t, 1000, cfg.Dashboard.IngestMaxBatch)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 600*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "@every 1m", cfg.Refresher.Schedule)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
	assert.False(t, cfg.Database.Enabled())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errMissingRequiredEnv))
	assert.Contains(t, err.Error(), "APP_NAME")
	assert.Contains(t, err.Error(), "HTTP_PORT")
}

func TestLoad_ThresholdOutOfRange(t *testing.T) {
	setRequired(t)
	t.Setenv("DASHBOARD_TOP_THRESHOLD", "1.5")

	_, err := Load()
	assert.ErrorIs(t, err, errInvalidConfig)
}

func TestLoad_PrefixedAndListValues(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "hunter")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("SEARCH_QUERIES", "golang developer; ;backend engineer")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "hunter", cfg.Database.DBUser)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr())
	assert.Equal(t, []string{"golang developer", "backend engineer"}, cfg.Refresher.SearchQueries)
}

func TestIsDevelopment(t *testing.T) {
	assert.True(t, Config{App: AppConfig{Environment: "Development"}}.IsDevelopment())
	assert.False(t, Config{App: AppConfig{Environment: "production"}}.IsDevelopment())
}
