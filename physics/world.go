// Package physics resolves avatar movement against the town's static solids
// on the ground plane. World X maps to chipmunk X and world Z to chipmunk Y.
package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/townwalk/geom"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeBounds
	collisionTypeAvatar
)

// resolveIterations bounds the push-out passes per sub-step.
const resolveIterations = 4

// span is the vertical extent a static shape blocks.
type span struct {
	name     string
	min, max float64
}

func (s span) overlaps(lo, hi float64) bool {
	return s.min < hi && s.max > lo
}

// World owns the chipmunk space and the avatar probe shape.
type World struct {
	space *cp.Space
	log   *zap.Logger

	statics []*cp.Shape

	avatarBody   *cp.Body
	avatarShape  *cp.Shape
	avatarRadius float64
	avatarHeight float64
}

// NewWorld creates an empty world for an avatar of the given footprint
// radius and height.
func NewWorld(radius, height float64, log *zap.Logger) *World {
	if radius <= 0 {
		panic("physics: avatar radius must be positive")
	}
	if log == nil {
		log = zap.NewNop()
	}
	space := cp.NewSpace()
	space.Iterations = 10

	body := cp.NewKinematicBody()
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetCollisionType(collisionTypeAvatar)

	return &World{
		space:        space,
		log:          log,
		avatarBody:   body,
		avatarShape:  shape,
		avatarRadius: radius,
		avatarHeight: height,
	}
}

func (w *World) AvatarRadius() float64 {
	return w.avatarRadius
}

// SolidCount reports how many static shapes are registered.
func (w *World) SolidCount() int {
	return len(w.statics)
}

// AddSolidBox registers an axis-aligned box centred at center with the given
// size, rotated by rotY radians about the vertical axis.
func (w *World) AddSolidBox(name string, center, size geom.Vec3, rotY float64) {
	hw, hd := size.X/2, size.Z/2
	var shape *cp.Shape
	if rotY == 0 {
		bb := cp.BB{
			L: center.X - hw,
			B: center.Z - hd,
			R: center.X + hw,
			T: center.Z + hd,
		}
		shape = cp.NewBox2(w.space.StaticBody, bb, 0)
	} else {
		corners := [4]geom.Vec3{
			geom.V3(-hw, 0, -hd),
			geom.V3(hw, 0, -hd),
			geom.V3(hw, 0, hd),
			geom.V3(-hw, 0, hd),
		}
		rot := geom.RotateY(rotY)
		verts := make([]cp.Vector, 0, len(corners))
		for _, c := range corners {
			p := rot.TransformDir(c)
			verts = append(verts, cp.Vector{X: center.X + p.X, Y: center.Z + p.Z})
		}
		shape = cp.NewPolyShape(w.space.StaticBody, len(verts), verts, cp.NewTransformIdentity(), 0)
	}
	w.addStatic(shape, collisionTypeSolid, span{name: name, min: center.Y - size.Y/2, max: center.Y + size.Y/2})
}

// AddSolidCylinder registers an upright cylinder.
func (w *World) AddSolidCylinder(name string, center geom.Vec3, diameter, height float64) {
	shape := cp.NewCircle(w.space.StaticBody, diameter/2, cp.Vector{X: center.X, Y: center.Z})
	w.addStatic(shape, collisionTypeSolid, span{name: name, min: center.Y - height/2, max: center.Y + height/2})
}

// SetBounds walls off the rectangle [minX, maxX] x [minZ, maxZ] at every
// height.
func (w *World) SetBounds(minX, minZ, maxX, maxZ float64) {
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: minX, Y: minZ}, b: cp.Vector{X: maxX, Y: minZ}},
		{a: cp.Vector{X: minX, Y: maxZ}, b: cp.Vector{X: maxX, Y: maxZ}},
		{a: cp.Vector{X: minX, Y: minZ}, b: cp.Vector{X: minX, Y: maxZ}},
		{a: cp.Vector{X: maxX, Y: minZ}, b: cp.Vector{X: maxX, Y: maxZ}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(w.space.StaticBody, seg.a, seg.b, 0)
		w.addStatic(shape, collisionTypeBounds, span{name: "bounds", min: math.Inf(-1), max: math.Inf(1)})
	}
}

func (w *World) addStatic(shape *cp.Shape, kind cp.CollisionType, s span) {
	shape.SetCollisionType(kind)
	shape.UserData = s
	w.space.AddShape(shape)
	w.statics = append(w.statics, shape)
}

// Reset removes every static shape so the world can be rebuilt after a
// reload.
func (w *World) Reset() {
	for _, shape := range w.statics {
		w.space.RemoveShape(shape)
	}
	w.statics = nil
}

// MoveWithCollision moves a footprint from from by delta and returns where
// it ends up. Blocked motion slides along the contact surface. The delta is
// split into steps no longer than half the radius so thin walls are not
// tunnelled through.
func (w *World) MoveWithCollision(from, delta geom.Vec3) geom.Vec3 {
	if len(w.statics) == 0 {
		return from.Add(delta)
	}

	flat := geom.V3(delta.X, 0, delta.Z)
	dist := flat.Len()
	steps := 1
	if maxStep := w.avatarRadius / 2; dist > maxStep {
		steps = int(math.Ceil(dist / maxStep))
	}
	step := flat.Scale(1 / float64(steps))

	lo, hi := from.Y+delta.Y, from.Y+delta.Y+w.avatarHeight
	pos := cp.Vector{X: from.X, Y: from.Z}
	for i := 0; i < steps; i++ {
		pos = pos.Add(cp.Vector{X: step.X, Y: step.Z})
		pos = w.resolve(pos, lo, hi)
	}
	return geom.V3(pos.X, from.Y+delta.Y, pos.Y)
}

// resolve pushes pos out of every overlapping solid in [lo, hi].
func (w *World) resolve(pos cp.Vector, lo, hi float64) cp.Vector {
	for i := 0; i < resolveIterations; i++ {
		w.avatarBody.SetPosition(pos)
		var push cp.Vector
		hit := false
		w.space.ShapeQuery(w.avatarShape, func(other *cp.Shape, set *cp.ContactPointSet) {
			s, ok := other.UserData.(span)
			if !ok || !s.overlaps(lo, hi) {
				return
			}
			deepest := 0.0
			for j := 0; j < set.Count; j++ {
				deepest = math.Min(deepest, set.Points[j].Distance)
			}
			if deepest >= 0 {
				return
			}
			// Normal points from the avatar into the solid.
			push = push.Add(set.Normal.Mult(deepest))
			hit = true
		})
		if !hit {
			return pos
		}
		pos = pos.Add(push)
	}
	w.log.Debug("collision did not settle", zap.Float64("x", pos.X), zap.Float64("z", pos.Y))
	return pos
}
