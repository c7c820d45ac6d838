package component

import "github.com/milk9111/townwalk/geom"

// Shape is a mesh primitive.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeCylinder
	ShapeSphere
	ShapePlane
	ShapeGround
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	case ShapeSphere:
		return "sphere"
	case ShapePlane:
		return "plane"
	case ShapeGround:
		return "ground"
	}
	return "unknown"
}

// Mesh describes primitive geometry centred on the entity origin. Box uses
// Width/Height/Depth; cylinder and sphere use Diameter (and Height for
// cylinders); plane is Width x Height in XY; ground is Width x Depth in XZ.
type Mesh struct {
	Shape        Shape
	Width        float64
	Height       float64
	Depth        float64
	Diameter     float64
	Tessellation int
}

var MeshComponent = NewComponent[Mesh]()

// Name is the scene name of an entity.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()

// Bounds returns the local axis-aligned extent of the primitive.
func (m Mesh) Bounds() (lo, hi geom.Vec3) {
	var half geom.Vec3
	switch m.Shape {
	case ShapeBox:
		half = geom.V3(m.Width/2, m.Height/2, m.Depth/2)
	case ShapeCylinder:
		half = geom.V3(m.Diameter/2, m.Height/2, m.Diameter/2)
	case ShapeSphere:
		r := m.Diameter / 2
		half = geom.V3(r, r, r)
	case ShapePlane:
		half = geom.V3(m.Width/2, m.Height/2, 0)
	case ShapeGround:
		half = geom.V3(m.Width/2, 0, m.Depth/2)
	}
	return half.Neg(), half
}
