package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "warn", cfg.EnforcementMode)
	assert.Equal(t, 5*time.Second, cfg.LockWaitTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.Author = "ana"
	cfg.Namespace = "shop"
	cfg.EnforcementMode = "strict"

	require.NoError(t, Save(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "ana", loaded.Author)
	assert.Equal(t, "shop", loaded.Namespace)
	assert.Equal(t, "strict", loaded.EnforcementMode)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault(t.TempDir())
	assert.Equal(t, "warn", cfg.EnforcementMode)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	plankDir := filepath.Join(dir, ".plank")
	require.NoError(t, os.MkdirAll(plankDir, 0755))
	partial := "version: \"1\"\nauthor: ana\n"
	require.NoError(t, os.WriteFile(filepath.Join(plankDir, "config.yaml"), []byte(partial), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "ana", cfg.Author)
	assert.Equal(t, 5*time.Second, cfg.LockWaitTimeout, "unset fields keep defaults")
}
