package scene

import (
	"math"

	"github.com/milk9111/townwalk/ecs"
	"github.com/milk9111/townwalk/ecs/component"
	"github.com/milk9111/townwalk/geom"
)

// Ray returns the world-space ray through screen pixel (sx, sy) of a
// width x height viewport, from the active camera.
func (s *Scene) Ray(sx, sy, width, height float64) (origin, dir geom.Vec3) {
	cam := s.ActiveCamera()
	eye := cam.Eye()
	f := cam.LookTarget().Sub(eye).Normalize()
	r := worldUp.Cross(f).Normalize()
	if r.LenSq() == 0 {
		r = geom.V3(1, 0, 0)
	}
	u := f.Cross(r)

	tan := math.Tan(cam.FieldOfView() / 2)
	aspect := 1.0
	if height > 0 {
		aspect = width / height
	}
	nx := (2*sx/width - 1) * tan * aspect
	ny := (1 - 2*sy/height) * tan
	return eye, f.Add(r.Scale(nx)).Add(u.Scale(ny)).Normalize()
}

// Pick casts a ray through the pixel and reports whether the nearest mesh
// it hits belongs to the avatar. Meshes containing the eye are skipped, so
// the first-person camera does not pick the head it sits in.
func (s *Scene) Pick(sx, sy, width, height float64) bool {
	s.mustBuilt()
	if width <= 0 || height <= 0 {
		return false
	}
	syncTransforms(s.world)
	origin, dir := s.Ray(sx, sy, width, height)

	best := math.Inf(1)
	hitGroup := ""
	ecs.ForEach2(s.world, component.MeshComponent.Kind(), component.WorldMatrixComponent.Kind(), func(e ecs.Entity, mesh *component.Mesh, wm *component.WorldMatrix) {
		lo, hi := WorldBounds(wm.M, *mesh)
		t, ok := rayBox(origin, dir, lo, hi)
		if !ok || t <= 0 || t >= best {
			return
		}
		best = t
		hitGroup = ""
		if p, ok := ecs.Get(s.world, e, component.PickableComponent.Kind()); ok {
			hitGroup = p.Group
		}
	})
	return hitGroup == avatarGroup
}

// WorldBounds is the world-space AABB of a mesh's transformed local box.
func WorldBounds(m geom.Mat4, mesh component.Mesh) (lo, hi geom.Vec3) {
	l, h := mesh.Bounds()
	lo = geom.V3(math.Inf(1), math.Inf(1), math.Inf(1))
	hi = lo.Neg()
	for i := 0; i < 8; i++ {
		c := geom.V3(pick(i&1 != 0, h.X, l.X), pick(i&2 != 0, h.Y, l.Y), pick(i&4 != 0, h.Z, l.Z))
		p, _ := m.TransformPoint(c)
		lo = geom.V3(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z))
		hi = geom.V3(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z))
	}
	return lo, hi
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// rayBox is the slab test; it returns the entry distance along dir.
func rayBox(origin, dir, lo, hi geom.Vec3) (float64, bool) {
	tmin, tmax := 0.0, math.Inf(1)
	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	l := [3]float64{lo.X, lo.Y, lo.Z}
	h := [3]float64{hi.X, hi.Y, hi.Z}
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if o[i] < l[i] || o[i] > h[i] {
				return 0, false
			}
			continue
		}
		t1 := (l[i] - o[i]) / d[i]
		t2 := (h[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
