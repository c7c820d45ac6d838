package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatten(t *testing.T) {
	cases := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"tilted_forward", V3(0, -3, 4), V3(0, 0, 1)},
		{"diagonal", V3(1, 5, 1), V3(math.Sqrt2/2, 0, math.Sqrt2/2)},
		{"vertical_only", V3(0, 2, 0), V3(0, 0, 0)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.in.Flatten()
			assert.True(t, got.ApproxEqual(c.want, 1e-9), "got %+v want %+v", got, c.want)
		})
	}
}

func TestHeadingDirPeriodic(t *testing.T) {
	for _, h := range []float64{0, 0.3, -1.2, 2.9} {
		a := HeadingDir(h)
		b := HeadingDir(h + 2*math.Pi)
		assert.True(t, a.ApproxEqual(b, 1e-9), "heading %v", h)
	}
}

func TestRotateYMatchesHeading(t *testing.T) {
	for _, h := range []float64{0, 0.5, math.Pi / 2, -2} {
		got := RotateY(h).TransformDir(V3(0, 0, 1))
		assert.True(t, got.ApproxEqual(HeadingDir(h), 1e-9), "heading %v: %+v", h, got)
	}
}

func TestLookAtProjectsTargetToCenter(t *testing.T) {
	eye := V3(10, 5, -20)
	target := V3(0, 2, 3)
	view := LookAt(eye, target, V3(0, 1, 0))
	proj := Perspective(Radians(60), 16.0/9.0, 0.1, 1000)

	p, w := proj.Mul(view).TransformPoint(target)
	assert.Greater(t, w, 0.0)
	assert.InDelta(t, 0, p.X/w, 1e-9)
	assert.InDelta(t, 0, p.Y/w, 1e-9)
	assert.InDelta(t, target.Sub(eye).Len(), w, 1e-9)

	// a point to the camera's right lands on the right half of the screen
	rightAxis := V3(0, 1, 0).Cross(target.Sub(eye)).Normalize()
	p, w = proj.Mul(view).TransformPoint(target.Add(rightAxis))
	assert.Greater(t, p.X/w, 0.0)
}

func TestColorRGBA(t *testing.T) {
	c := RGB(1.2, 0.5, -1).RGBA()
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(128), c.G)
	assert.Equal(t, uint8(0), c.B)
	assert.Equal(t, uint8(255), c.A)
}
