package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DATABASE", "school")
	t.Setenv("DB_USER", "app")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, 10, cfg.DBConnectionLimit)
	assert.True(t, cfg.SyncAlter)
	assert.False(t, cfg.SyncForce)
	assert.False(t, cfg.SyncAdvisoryLock)
}

func TestLoadRequiresDatabase(t *testing.T) {
	t.Setenv("DB_DATABASE", "")
	t.Setenv("DB_USER", "app")

	_, err := Load()
	assert.EqualError(t, err, "DB_DATABASE is required")
}

func TestLoadSQLiteWithoutUser(t *testing.T) {
	t.Setenv("DB_TYPE", "SQLite")
	t.Setenv("DB_DATABASE", "school.db")
	t.Setenv("DB_USER", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsSQLite())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_DATABASE=fromfile\nDB_USER=fileuser\nSYNC_FORCE=true\nDB_CONNECTION_LIMIT=nope\n"), 0o600))

	t.Setenv("ENV_FILE", envFile)
	t.Setenv("DB_USER", "envuser")
	// godotenv does not override variables that are already set, so clear the
	// ones the file is expected to provide.
	os.Unsetenv("DB_DATABASE")
	os.Unsetenv("SYNC_FORCE")
	os.Unsetenv("DB_CONNECTION_LIMIT")
	t.Cleanup(func() {
		os.Unsetenv("DB_DATABASE")
		os.Unsetenv("SYNC_FORCE")
		os.Unsetenv("DB_CONNECTION_LIMIT")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.DBDatabase)
	assert.Equal(t, "envuser", cfg.DBUser)
	assert.True(t, cfg.SyncForce)
	assert.Equal(t, 10, cfg.DBConnectionLimit)
}

func TestLoadMissingEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load()
	assert.Error(t, err)
}
