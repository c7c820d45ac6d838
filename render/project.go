package render

import (
	"github.com/milk9111/townwalk/geom"
	"github.com/milk9111/townwalk/scene"
)

const (
	nearPlane = 0.1
	farPlane  = 5000
)

// Projector maps world points through a camera onto a viewport.
type Projector struct {
	view   geom.Mat4
	proj   geom.Mat4
	eye    geom.Vec3
	width  float64
	height float64
	focal  float64
}

func NewProjector(cam scene.Camera, width, height float64) Projector {
	aspect := 1.0
	if height > 0 {
		aspect = width / height
	}
	proj := geom.Perspective(cam.FieldOfView(), aspect, nearPlane, farPlane)
	return Projector{
		view:   scene.View(cam),
		proj:   proj,
		eye:    cam.Eye(),
		width:  width,
		height: height,
		focal:  proj[5] * height / 2,
	}
}

func (p Projector) Eye() geom.Vec3 {
	return p.eye
}

// ToView moves a world point into camera space, +Z ahead.
func (p Projector) ToView(world geom.Vec3) geom.Vec3 {
	v, _ := p.view.TransformPoint(world)
	return v
}

// ToScreen projects a camera-space point with z >= nearPlane to pixels.
func (p Projector) ToScreen(v geom.Vec3) (x, y float64) {
	c, w := p.proj.TransformPoint(v)
	if w == 0 {
		return p.width / 2, p.height / 2
	}
	x = (c.X/w + 1) / 2 * p.width
	y = (1 - c.Y/w) / 2 * p.height
	return x, y
}

// PixelsPerUnit is the on-screen size of one world unit at view depth z.
func (p Projector) PixelsPerUnit(z float64) float64 {
	if z <= 0 {
		return 0
	}
	return p.focal / z
}

// ClipNear clips a camera-space triangle against the near plane and returns
// zero, one or two triangles.
func ClipNear(tri [3]geom.Vec3) [][3]geom.Vec3 {
	in := 0
	for _, v := range tri {
		if v.Z >= nearPlane {
			in++
		}
	}
	switch in {
	case 0:
		return nil
	case 3:
		return [][3]geom.Vec3{tri}
	}

	poly := make([]geom.Vec3, 0, 4)
	for i := 0; i < 3; i++ {
		a, b := tri[i], tri[(i+1)%3]
		aIn, bIn := a.Z >= nearPlane, b.Z >= nearPlane
		if aIn {
			poly = append(poly, a)
		}
		if aIn != bIn {
			t := (nearPlane - a.Z) / (b.Z - a.Z)
			poly = append(poly, a.Add(b.Sub(a).Scale(t)))
		}
	}

	out := make([][3]geom.Vec3, 0, 2)
	for i := 1; i+1 < len(poly); i++ {
		out = append(out, [3]geom.Vec3{poly[0], poly[i], poly[i+1]})
	}
	return out
}
