package render

import (
	"math"

	"github.com/milk9111/townwalk/ecs/component"
	"github.com/milk9111/townwalk/geom"
)

const (
	defaultCylinderSlices = 24
	defaultSphereSlices   = 16
	// maxCell caps the edge of a flat patch so long faces still sort sanely.
	maxCell = 40.0
)

// Face is one flat-shaded triangle in mesh-local space.
type Face struct {
	V      [3]geom.Vec3
	Normal geom.Vec3
}

// Tessellate turns a primitive into triangles centred on the origin.
func Tessellate(m component.Mesh) []Face {
	switch m.Shape {
	case component.ShapeBox:
		return box(m.Width/2, m.Height/2, m.Depth/2)
	case component.ShapeCylinder:
		return cylinder(m.Diameter/2, m.Height/2, slices(m.Tessellation, defaultCylinderSlices))
	case component.ShapeSphere:
		return sphere(m.Diameter/2, slices(m.Tessellation, defaultSphereSlices))
	case component.ShapePlane:
		return quad(geom.Vec3{}, geom.V3(m.Width/2, 0, 0), geom.V3(0, m.Height/2, 0), geom.V3(0, 0, -1))
	case component.ShapeGround:
		return quad(geom.Vec3{}, geom.V3(m.Width/2, 0, 0), geom.V3(0, 0, m.Depth/2), geom.V3(0, 1, 0))
	}
	return nil
}

func slices(n, def int) int {
	if n < 3 {
		return def
	}
	return n
}

func box(hx, hy, hz float64) []Face {
	var out []Face
	out = append(out, quad(geom.V3(hx, 0, 0), geom.V3(0, 0, hz), geom.V3(0, hy, 0), geom.V3(1, 0, 0))...)
	out = append(out, quad(geom.V3(-hx, 0, 0), geom.V3(0, 0, hz), geom.V3(0, hy, 0), geom.V3(-1, 0, 0))...)
	out = append(out, quad(geom.V3(0, hy, 0), geom.V3(hx, 0, 0), geom.V3(0, 0, hz), geom.V3(0, 1, 0))...)
	out = append(out, quad(geom.V3(0, -hy, 0), geom.V3(hx, 0, 0), geom.V3(0, 0, hz), geom.V3(0, -1, 0))...)
	out = append(out, quad(geom.V3(0, 0, hz), geom.V3(hx, 0, 0), geom.V3(0, hy, 0), geom.V3(0, 0, 1))...)
	out = append(out, quad(geom.V3(0, 0, -hz), geom.V3(hx, 0, 0), geom.V3(0, hy, 0), geom.V3(0, 0, -1))...)
	return out
}

// quad emits the rectangle center ± u ± v, split into patches no larger
// than maxCell on a side.
func quad(center, u, v, normal geom.Vec3) []Face {
	nu := max(1, int(math.Ceil(2*u.Len()/maxCell)))
	nv := max(1, int(math.Ceil(2*v.Len()/maxCell)))
	corner := center.Sub(u).Sub(v)
	du := u.Scale(2 / float64(nu))
	dv := v.Scale(2 / float64(nv))

	out := make([]Face, 0, 2*nu*nv)
	for i := 0; i < nu; i++ {
		for j := 0; j < nv; j++ {
			p00 := corner.Add(du.Scale(float64(i))).Add(dv.Scale(float64(j)))
			p10 := p00.Add(du)
			p01 := p00.Add(dv)
			p11 := p10.Add(dv)
			out = append(out,
				Face{V: [3]geom.Vec3{p00, p10, p11}, Normal: normal},
				Face{V: [3]geom.Vec3{p00, p11, p01}, Normal: normal},
			)
		}
	}
	return out
}

func cylinder(r, hh float64, n int) []Face {
	out := make([]Face, 0, 4*n)
	top := geom.V3(0, hh, 0)
	bottom := geom.V3(0, -hh, 0)
	for i := 0; i < n; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(n)
		a1 := 2 * math.Pi * float64(i+1) / float64(n)
		am := (a0 + a1) / 2
		c0, s0 := math.Cos(a0)*r, math.Sin(a0)*r
		c1, s1 := math.Cos(a1)*r, math.Sin(a1)*r

		b0, b1 := geom.V3(c0, -hh, s0), geom.V3(c1, -hh, s1)
		t0, t1 := geom.V3(c0, hh, s0), geom.V3(c1, hh, s1)
		side := geom.V3(math.Cos(am), 0, math.Sin(am))
		out = append(out,
			Face{V: [3]geom.Vec3{b0, b1, t1}, Normal: side},
			Face{V: [3]geom.Vec3{b0, t1, t0}, Normal: side},
			Face{V: [3]geom.Vec3{top, t0, t1}, Normal: geom.V3(0, 1, 0)},
			Face{V: [3]geom.Vec3{bottom, b1, b0}, Normal: geom.V3(0, -1, 0)},
		)
	}
	return out
}

func sphere(r float64, n int) []Face {
	rings := max(2, n/2)
	point := func(ring, slice int) geom.Vec3 {
		theta := math.Pi * float64(ring) / float64(rings)
		phi := 2 * math.Pi * float64(slice) / float64(n)
		return geom.V3(r*math.Sin(theta)*math.Cos(phi), r*math.Cos(theta), r*math.Sin(theta)*math.Sin(phi))
	}

	var out []Face
	for i := 0; i < rings; i++ {
		for j := 0; j < n; j++ {
			p00, p01 := point(i, j), point(i, j+1)
			p10, p11 := point(i+1, j), point(i+1, j+1)
			if i > 0 {
				out = append(out, Face{V: [3]geom.Vec3{p00, p01, p11}, Normal: centroid(p00, p01, p11).Normalize()})
			}
			if i < rings-1 {
				out = append(out, Face{V: [3]geom.Vec3{p00, p11, p10}, Normal: centroid(p00, p11, p10).Normalize()})
			}
		}
	}
	return out
}

func centroid(a, b, c geom.Vec3) geom.Vec3 {
	return a.Add(b).Add(c).Scale(1.0 / 3)
}
