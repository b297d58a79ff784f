package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefaults(t *testing.T) {
	t.Helper()
	d := Default()
	t.Cleanup(func() { d.Apply() })
}

func TestSettersClamp(t *testing.T) {
	restoreDefaults(t)

	SetRenderDistance(1)
	assert.Equal(t, MinRenderDistance, GetRenderDistance())
	SetRenderDistance(500)
	assert.Equal(t, MaxRenderDistance, GetRenderDistance())
	assert.Equal(t, MaxRenderDistance*2, GetChunkEvictRadius())

	SetMeshWorkers(0)
	assert.Equal(t, MinMeshWorkers, GetMeshWorkers())
	SetMeshWorkers(1000)
	assert.Equal(t, MaxMeshWorkers, GetMeshWorkers())

	SetResultBuffer(-4)
	assert.Equal(t, MinResultBuffer, GetResultBuffer())

	SetSortThreshold(-1)
	assert.Equal(t, float32(0), GetSortThreshold())

	SetFOV(10)
	assert.Equal(t, float32(MinFOV), GetFOV())
}

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	restoreDefaults(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	restoreDefaults(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  distance: 12\nmeshing:\n  workers: 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Render.Distance)
	assert.Equal(t, 2, cfg.Meshing.Workers)
	assert.Equal(t, Default().Window, cfg.Window)
	assert.Equal(t, "127.0.0.1:2112", cfg.Metrics.Address, "metrics listen on loopback unless configured")

	cfg.Apply()
	assert.Equal(t, 12, GetRenderDistance())
	assert.Equal(t, 2, GetMeshWorkers())
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render: [oops"), 0o644))
	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}
