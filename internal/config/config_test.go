package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HABITS_BACKEND", "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFrom_ParsesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[general]
week_days = 14

[storage]
backend = "sqlite"
path = "/tmp/h.db"

[redis]
addr = "redis:6379"
db = 3

[appearance]
theme = "tokyo-night"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.General.WeekDays)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/h.db", cfg.StoragePath())
	assert.Equal(t, DefaultKey, cfg.Storage.Key, "an omitted key keeps the default slot")
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "tokyo-night", cfg.Appearance.Theme)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general\nweek_days = "), 0o600))

	_, err := LoadFrom(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("HABITS_BACKEND", "redis")
	t.Setenv("HABITS_REDIS_PASSWORD", "s3cret")
	t.Setenv("HABITS_REDIS_DB", "not-a-number")

	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "s3cret", cfg.Redis.Password)
	assert.Equal(t, 0, cfg.Redis.DB, "unparsable numbers are ignored")
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("HABITS_TEST_ONLY=from-dotenv\n"), 0o600))
	t.Setenv("HABITS_TEST_ONLY", "")
	require.NoError(t, os.Unsetenv("HABITS_TEST_ONLY"))

	require.NoError(t, LoadEnv(envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-dotenv", os.Getenv("HABITS_TEST_ONLY"))
}

func TestSaveTo_RoundTrip(t *testing.T) {
	t.Setenv("HABITS_BACKEND", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Storage.Backend = "memory"
	cfg.General.WeekDays = 10
	require.NoError(t, SaveTo(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestStoragePathDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/data", "habits", "habits.json"), cfg.StoragePath())

	cfg.Storage.Backend = "sqlite"
	assert.Equal(t, filepath.Join("/data", "habits", "habits.db"), cfg.StoragePath())
	assert.Equal(t, filepath.Join("/data", "habits", "habits.log"), cfg.LogPath())
}
