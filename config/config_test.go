package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.App.SeedDefaults)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "pos.db", cfg.Database.SQLitePath)
	assert.Equal(t, "kasir", cfg.Database.MongoDB)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 1000, cfg.Orders.RecentLimitMax)
	assert.Equal(t, 5, cfg.RateLimit.LoginBurst)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeEnvFile(t, `APP_PORT=9090
DB_DRIVER=MONGO
MONGO_URL=mongodb://db:27017
JWT_TTL_HOURS=0
CORS_ALLOWED_ORIGINS="http://localhost:3000, https://kasir.example.com"
LOG_FORMAT=JSON
SEED_DEFAULTS=false
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "mongo", cfg.Database.Driver)
	assert.Equal(t, "mongodb://db:27017", cfg.Database.MongoURL)
	assert.Equal(t, time.Duration(0), cfg.JWT.TTL)
	assert.Equal(t, []string{"http://localhost:3000", "https://kasir.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.App.SeedDefaults)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	path := writeEnvFile(t, "APP_PORT=9090\n")
	t.Setenv("APP_PORT", "7000")
	t.Setenv("LOGIN_RATE_PER_SECOND", "2.5")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.App.Port)
	assert.Equal(t, 2.5, cfg.RateLimit.LoginPerSecond)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a , ,b "))
}
