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

	assert.False(t, cfg.Lifecycle.SweepEnabled)
	assert.Equal(t, 30*time.Second, cfg.Lifecycle.SweepInterval)
	assert.Equal(t, 16, cfg.Bus.AsyncPoolSize)
	assert.Equal(t, "zenify", cfg.Logger.LoggerName)
}

func TestApplyDefaults_FillsZeroFields(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, 30*time.Second, cfg.Lifecycle.SweepInterval)
	assert.Equal(t, 16, cfg.Bus.AsyncPoolSize)
	assert.NotEmpty(t, cfg.Logger.Level)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{}
	cfg.Lifecycle.SweepInterval = 5 * time.Minute
	cfg.Bus.AsyncPoolSize = 64
	cfg.ApplyDefaults()

	assert.Equal(t, 5*time.Minute, cfg.Lifecycle.SweepInterval)
	assert.Equal(t, 64, cfg.Bus.AsyncPoolSize)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Lifecycle.SweepInterval)
	assert.Equal(t, 16, cfg.Bus.AsyncPoolSize)
}

func TestLoad_ReadsYamlFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
lifecycle:
  sweep_enabled: true
  sweep_interval: 2m
bus:
  async_pool_size: 8
logger:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zenify.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.True(t, cfg.Lifecycle.SweepEnabled)
	assert.Equal(t, 2*time.Minute, cfg.Lifecycle.SweepInterval)
	assert.Equal(t, 8, cfg.Bus.AsyncPoolSize)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_PartialFileKeepsDefaultsElsewhere(t *testing.T) {
	dir := t.TempDir()
	yaml := "bus:\n  async_pool_size: 4\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zenify.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Bus.AsyncPoolSize)
	assert.Equal(t, 30*time.Second, cfg.Lifecycle.SweepInterval)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ZENIFY_BUS_ASYNC_POOL_SIZE", "32")
	t.Setenv("ZENIFY_LIFECYCLE_SWEEP_ENABLED", "true")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Bus.AsyncPoolSize)
	assert.True(t, cfg.Lifecycle.SweepEnabled)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zenify.yaml"), []byte("lifecycle: ["), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
