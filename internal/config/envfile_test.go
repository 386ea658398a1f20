package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureEnvFile_CreatesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), EnvFileName)

	created, err := EnsureEnvFile(path, Default())
	require.NoError(t, err)
	assert.True(t, created)

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	// Second run reports "exists" and leaves the bytes alone.
	created, err = EnsureEnvFile(path, Default())
	require.NoError(t, err)
	assert.False(t, created)

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnsureEnvFile_NeverOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), EnvFileName)
	custom := []byte("DB_HOST=my-edited-host\n")
	require.NoError(t, os.WriteFile(path, custom, 0644))

	created, err := EnsureEnvFile(path, Default())
	require.NoError(t, err)
	assert.False(t, created)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, custom, after, "an existing .env is untouched byte for byte")
}

func TestLoad_MissingFileIsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), EnvFileName))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), EnvFileName)

	want := Default()
	want.DBHost = "db.example.net"
	want.DBPort = 6543
	want.Debug = true
	want.AppCommand = "custom-gui"

	_, err := EnsureEnvFile(path, want)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), EnvFileName)
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME=other\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "other", c.DBName)
	assert.Equal(t, "localhost", c.DBHost)
	assert.Equal(t, 25, c.DefaultSessionMinutes)
}
