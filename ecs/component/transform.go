package component

import "github.com/milk9111/townwalk/geom"

// Transform places an entity in world space. Rotation is Euler radians
// applied roll, then pitch, then yaw (Z, X, Y).
type Transform struct {
	Position geom.Vec3
	Rotation geom.Vec3
	Scale    geom.Vec3
}

// Matrix returns the local-to-world matrix.
func (t Transform) Matrix() geom.Mat4 {
	s := t.Scale
	if s == (geom.Vec3{}) {
		s = geom.V3(1, 1, 1)
	}
	return geom.Translate(t.Position.X, t.Position.Y, t.Position.Z).
		Mul(geom.RotateY(t.Rotation.Y)).
		Mul(geom.RotateX(t.Rotation.X)).
		Mul(geom.RotateZ(t.Rotation.Z)).
		Mul(geom.Scale(s.X, s.Y, s.Z))
}

var TransformComponent = NewComponent[Transform]()

// Parent makes Transform relative to another entity's Transform, the way
// merged meshes keep their parts' offsets.
type Parent struct {
	Entity uint64
}

var ParentComponent = NewComponent[Parent]()

// WorldMatrix is the resolved local-to-world matrix, rewritten each frame
// from Transform and Parent.
type WorldMatrix struct {
	M geom.Mat4
}

var WorldMatrixComponent = NewComponent[WorldMatrix]()
