package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/milk9111/townwalk/geom"
	"github.com/milk9111/townwalk/prefabs"
)

var base = geom.RGB(0.75, 0.9, 1.0)

func embeddedOnly(t *testing.T) {
	t.Helper()
	prev := prefabs.DiskDir
	prefabs.DiskDir = ""
	t.Cleanup(func() { prefabs.DiskDir = prev })
}

func TestEmbeddedSky(t *testing.T) {
	embeddedOnly(t)
	s := NewSky("sky.tengo", nil)
	require.True(t, s.Enabled())

	// sin(0) = 0 keeps the base colour
	got := s.Color(0, base)
	assert.InDelta(t, base.R, got.R, 1e-9)
	assert.InDelta(t, base.G, got.G, 1e-9)
	assert.InDelta(t, base.B, got.B, 1e-9)

	// a quarter period brightens
	got = s.Color(60, base)
	assert.InDelta(t, 0.75*1.06, got.R, 1e-9)
	assert.InDelta(t, 1.0, got.B, 1e-9)
}

func TestSkySource(t *testing.T) {
	s, err := NewSkySource([]byte(`
sky_r := lerp(0, base_r, 0.5)
sky_g := elapsed
sky_b := 2
`), nil)
	require.NoError(t, err)

	got := s.Color(0.25, base)
	assert.InDelta(t, 0.375, got.R, 1e-9)
	assert.InDelta(t, 0.25, got.G, 1e-9)
	assert.InDelta(t, 1, got.B, 1e-9)
}

func TestSkyCompileError(t *testing.T) {
	s, err := NewSkySource([]byte(`sky_r := `), nil)
	require.Error(t, err)
	assert.False(t, s.Enabled())
	assert.Equal(t, base, s.Color(10, base))
}

func TestSkyRuntimeErrorLoggedOnce(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s, err := NewSkySource([]byte(`
sky_r := base_r
sky_g := base_g
sky_b := lerp(1, 2)
`), zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, base, s.Color(0, base))
	assert.Equal(t, base, s.Color(1, base))
	assert.Equal(t, 1, logs.FilterMessage("sky script failed").Len())
}

func TestSkyMissingOutput(t *testing.T) {
	s, err := NewSkySource([]byte(`sky_r := 1`), nil)
	require.NoError(t, err)
	assert.Equal(t, base, s.Color(0, base))
}

func TestSkyReloadFromDisk(t *testing.T) {
	dir := t.TempDir()
	prev := prefabs.DiskDir
	prefabs.DiskDir = dir
	t.Cleanup(func() { prefabs.DiskDir = prev })

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	path := filepath.Join(dir, "scripts", "sky.tengo")
	require.NoError(t, os.WriteFile(path, []byte("sky_r := 0\nsky_g := 0\nsky_b := 0\n"), 0o644))

	s := NewSky("sky.tengo", nil)
	assert.Equal(t, geom.RGB(0, 0, 0), s.Color(0, base))

	require.NoError(t, os.WriteFile(path, []byte("sky_r := 1\nsky_g := 1\nsky_b := 1\n"), 0o644))
	require.NoError(t, s.Reload())
	assert.Equal(t, geom.RGB(1, 1, 1), s.Color(0, base))

	// a broken edit keeps the last good script
	require.NoError(t, os.WriteFile(path, []byte("sky_r := ("), 0o644))
	assert.Error(t, s.Reload())
	assert.Equal(t, geom.RGB(1, 1, 1), s.Color(0, base))
}
