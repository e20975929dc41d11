package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEnablesAllNatives(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Natives.DB)
	assert.True(t, cfg.Natives.Time)
	assert.Equal(t, 0, cfg.Limits.StackMax)
	assert.Equal(t, 0, cfg.Limits.FramesMax)
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesLimitsAndNatives(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orbit.yaml")
	yaml := `
limits:
  stack_max: 1024
  frames_max: 32
natives:
  db: false
  time: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Limits.StackMax)
	assert.Equal(t, 32, cfg.Limits.FramesMax)
	assert.False(t, cfg.Natives.DB)
	assert.True(t, cfg.Natives.Time)
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orbit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limits: [this, is, not, a, map]\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
