package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/townwalk/controller"
	"github.com/milk9111/townwalk/ecs/component"
)

func withDiskDir(t *testing.T, dir string) {
	t.Helper()
	prev := DiskDir
	DiskDir = dir
	t.Cleanup(func() { DiskDir = prev })
}

func TestLoadTownSpecEmbedded(t *testing.T) {
	withDiskDir(t, "")

	spec, err := LoadTownSpec()
	require.NoError(t, err)

	assert.InDelta(t, 0.75, spec.ClearColor.R, 1e-9)
	assert.InDelta(t, 0.9, spec.Lights.Hemispheric.Intensity, 1e-9)
	assert.Equal(t, Vec3Spec{-0.6, -1.0, -0.4}, spec.Lights.Sun.Direction)
	assert.InDelta(t, 0.85, *spec.Materials["water"].Alpha, 1e-9)

	assert.Equal(t, 45.0, spec.Cameras.Orbit.Alpha)
	assert.Equal(t, 65.0, spec.Cameras.Orbit.Beta)
	assert.Equal(t, 90.0, spec.Cameras.Orbit.Radius)
	assert.Equal(t, Vec3Spec{0, 8, 0}, spec.Cameras.Orbit.Target)
	assert.Equal(t, Vec3Spec{0, 5, -10}, spec.Cameras.FirstPerson.Position)

	assert.Equal(t, 2.0, spec.Avatar.Scale)
	assert.Len(t, spec.Avatar.Parts, 6)
	assert.Len(t, spec.Trees, 3)
	assert.Len(t, spec.Labels, 4)

	names := make(map[string]MeshSpec)
	for _, m := range spec.Meshes {
		names[m.Name] = m
	}
	school, ok := names["schoolBuilding"]
	require.True(t, ok)
	assert.True(t, school.Solid)
	assert.Equal(t, Vec3Spec{-194, 18, 110}, school.Position)
	assert.False(t, names["road_east_west"].Solid)
}

func TestLoadControllerSpecBuild(t *testing.T) {
	withDiskDir(t, "")

	spec, err := LoadControllerSpec()
	require.NoError(t, err)

	cfg, keys, err := spec.Build()
	require.NoError(t, err)
	assert.Equal(t, controller.DefaultConfig(), cfg)

	a, ok := keys.Lookup("C")
	require.True(t, ok)
	assert.Equal(t, controller.ToggleView, a)
}

func TestControllerSpecBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		spec ControllerSpec
	}{
		{"bad button", ControllerSpec{LookButton: "thumb"}},
		{"bad action", ControllerSpec{Bindings: map[string]string{"q": "jump"}}},
		{"bad pitch", ControllerSpec{PitchLimit: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.spec.Build()
			assert.Error(t, err)
		})
	}
}

func TestControllerSpecBuildInvalidConfigWraps(t *testing.T) {
	spec := ControllerSpec{SpeedMultiplier: 0.5}
	_, _, err := spec.Build()
	assert.ErrorIs(t, err, controller.ErrInvalidConfig)
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	withDiskDir(t, dir)

	body := []byte("person_speed: 0.5\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "controller.yaml"), body, 0o644))

	spec, err := LoadControllerSpec()
	require.NoError(t, err)
	assert.Equal(t, 0.5, spec.PersonSpeed)
}

func TestLoadScript(t *testing.T) {
	withDiskDir(t, "")

	for _, name := range []string{"sky.tengo", "scripts/sky.tengo", "prefabs/scripts/sky.tengo"} {
		data, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "sky_r")
	}
}

func TestLoadMissing(t *testing.T) {
	withDiskDir(t, "")

	_, err := LoadSpec[TownSpec]("nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefabs: load nope.yaml")
}

func TestYAMLColor(t *testing.T) {
	tests := []struct {
		in      string
		want    [4]float64
		wantErr bool
	}{
		{in: `"#ff0000"`, want: [4]float64{1, 0, 0, 1}},
		{in: `"#00ff0080"`, want: [4]float64{0, 1, 0, 128.0 / 255}},
		{in: `[0.1, 0.2, 0.3]`, want: [4]float64{0.1, 0.2, 0.3, 1}},
		{in: `[0.1, 0.2, 0.3, 0.5]`, want: [4]float64{0.1, 0.2, 0.3, 0.5}},
		{in: `"#abc"`, wantErr: true},
		{in: `[1, 2]`, wantErr: true},
		{in: `{r: 1}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var c YAMLColor
			err := yaml.Unmarshal([]byte(tt.in), &c)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want[0], c.R, 1e-9)
			assert.InDelta(t, tt.want[1], c.G, 1e-9)
			assert.InDelta(t, tt.want[2], c.B, 1e-9)
			assert.InDelta(t, tt.want[3], c.A, 1e-9)
		})
	}
}

func TestParseShape(t *testing.T) {
	s, err := ParseShape(" Cylinder ")
	require.NoError(t, err)
	assert.Equal(t, component.ShapeCylinder, s)

	_, err = ParseShape("torus")
	assert.Error(t, err)
}

func TestTownSpecValidate(t *testing.T) {
	withDiskDir(t, "")
	spec, err := LoadTownSpec()
	require.NoError(t, err)

	bad := *spec
	bad.Meshes = append([]MeshSpec{{Name: "x", Shape: "box", Material: "chrome"}}, spec.Meshes...)
	assert.ErrorContains(t, bad.Validate(), "unknown material")

	bad = *spec
	bad.Avatar.Scale = 0
	assert.Error(t, bad.Validate())
}

func TestWatcherReportsYAMLOnly(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(zaptest.NewLogger(t), dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "town.yaml"), []byte("x: 1"), 0o644))

	select {
	case c := <-w.Events:
		assert.Equal(t, "town.yaml", c.Name())
		assert.Equal(t, ChangeSpec, c.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ChangeSpec, classify("a/b.YAML"))
	assert.Equal(t, ChangeScript, classify("sky.tengo"))
	assert.Equal(t, ChangeKind(0), classify("sky.go"))
}

func TestWatcherCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(zaptest.NewLogger(t), dir)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, "sky.tengo")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("sky_r := 0"), 0o644))
	}

	select {
	case c := <-w.Events:
		assert.Equal(t, ChangeScript, c.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
	select {
	case c := <-w.Events:
		t.Fatalf("unexpected second change %v", c)
	case <-time.After(3 * watchDebounce):
	}
}
