package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/townwalk/geom"
)

func newWallWorld(t *testing.T) *World {
	t.Helper()
	w := NewWorld(0.5, 3.6, nil)
	// wall spanning x in [5, 6], z in [-10, 10], y in [0, 10]
	w.AddSolidBox("wall", geom.V3(5.5, 5, 0), geom.V3(1, 10, 20), 0)
	require.Equal(t, 1, w.SolidCount())
	return w
}

func TestMoveWithoutSolids(t *testing.T) {
	w := NewWorld(0.5, 3.6, nil)
	got := w.MoveWithCollision(geom.V3(1, 0, 2), geom.V3(0.5, 0, -1))
	assert.Equal(t, geom.V3(1.5, 0, 1), got)
}

func TestMoveFreeSpace(t *testing.T) {
	w := newWallWorld(t)
	got := w.MoveWithCollision(geom.V3(0, 0, 0), geom.V3(0, 0, 3))
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, 3, got.Z, 1e-9)
}

func TestMoveSlidesAlongWall(t *testing.T) {
	w := newWallWorld(t)
	got := w.MoveWithCollision(geom.V3(4.5, 0, 0), geom.V3(0.3, 0, 1))
	assert.InDelta(t, 4.5, got.X, 1e-6)
	assert.InDelta(t, 1, got.Z, 1e-6)
	assert.Equal(t, 0.0, got.Y)
}

func TestMoveDoesNotTunnel(t *testing.T) {
	w := newWallWorld(t)
	got := w.MoveWithCollision(geom.V3(3, 0, 0), geom.V3(10, 0, 0))
	assert.LessOrEqual(t, got.X, 4.5+1e-6)
}

func TestSolidBelowAvatarIgnored(t *testing.T) {
	w := NewWorld(0.5, 3.6, nil)
	// kerb under the avatar's feet span
	w.AddSolidBox("kerb", geom.V3(5.5, -1, 0), geom.V3(1, 1, 20), 0)
	// sign hanging above the head
	w.AddSolidBox("sign", geom.V3(5.5, 10, 0), geom.V3(1, 2, 20), 0)

	got := w.MoveWithCollision(geom.V3(4, 0, 0), geom.V3(3, 0, 0))
	assert.InDelta(t, 7, got.X, 1e-9)
}

func TestCylinderBlocks(t *testing.T) {
	w := NewWorld(0.5, 3.6, nil)
	w.AddSolidCylinder("trunk", geom.V3(0, 2.5, 5), 1.1, 5)

	got := w.MoveWithCollision(geom.V3(0, 0, 0), geom.V3(0, 0, 10))
	assert.LessOrEqual(t, got.Z, 5-0.55-0.5+1e-6)
}

func TestRotatedBoxSlides(t *testing.T) {
	center := geom.V3(0, 1, 5)
	rot := geom.Radians(30)
	w := NewWorld(0.5, 3.6, nil)
	// long enough that the slide never reaches an end
	w.AddSolidBox("diag", center, geom.V3(100, 2, 1), rot)

	normal := geom.RotateY(rot).TransformDir(geom.V3(0, 0, 1))
	clearance := func(p geom.Vec3) float64 {
		d := p.Sub(center)
		return math.Abs(d.X*normal.X + d.Z*normal.Z)
	}

	pos := geom.V3(0, 0, 0)
	for i := 0; i < 40; i++ {
		pos = w.MoveWithCollision(pos, geom.V3(0, 0, 0.25))
		// half depth plus avatar radius
		require.GreaterOrEqual(t, clearance(pos), 1-1e-6, "step %d at %v", i, pos)
	}
	assert.InDelta(t, 5.384, pos.Z, 0.02)
	assert.NotZero(t, pos.X)

	got := w.MoveWithCollision(geom.V3(0, 0, 0), geom.V3(0, 0, 10))
	assert.InDelta(t, 5.384, got.Z, 0.02)
	assert.GreaterOrEqual(t, clearance(got), 1-1e-6)
}

func TestBounds(t *testing.T) {
	w := NewWorld(0.5, 3.6, nil)
	w.SetBounds(-10, -10, 10, 10)
	assert.Equal(t, 4, w.SolidCount())

	got := w.MoveWithCollision(geom.V3(9, 0, 0), geom.V3(5, 0, 0))
	assert.InDelta(t, 9.5, got.X, 1e-6)
}

func TestReset(t *testing.T) {
	w := newWallWorld(t)
	w.Reset()
	assert.Zero(t, w.SolidCount())

	got := w.MoveWithCollision(geom.V3(4.5, 0, 0), geom.V3(3, 0, 0))
	assert.InDelta(t, 7.5, got.X, 1e-9)
}

func TestNewWorldPanicsOnBadRadius(t *testing.T) {
	assert.PanicsWithValue(t, "physics: avatar radius must be positive", func() {
		NewWorld(0, 1, nil)
	})
}
