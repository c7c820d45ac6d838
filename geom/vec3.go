package geom

import "math"

// Vec3 is a point or direction in world space. Y is up, +Z is north.
type Vec3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(a Vec3) Vec3 {
	return Vec3{v.X + a.X, v.Y + a.Y, v.Z + a.Z}
}

func (v Vec3) Sub(a Vec3) Vec3 {
	return Vec3{v.X - a.X, v.Y - a.Y, v.Z - a.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) Dot(a Vec3) float64 {
	return v.X*a.X + v.Y*a.Y + v.Z*a.Z
}

func (v Vec3) Cross(a Vec3) Vec3 {
	return Vec3{
		v.Y*a.Z - v.Z*a.Y,
		v.Z*a.X - v.X*a.Z,
		v.X*a.Y - v.Y*a.X,
	}
}

func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Normalize returns the unit vector of v. The zero vector stays zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Flatten projects v onto the ground plane and renormalizes it.
func (v Vec3) Flatten() Vec3 {
	v.Y = 0
	return v.Normalize()
}

// ApproxEqual reports whether every component of v and a differs by at most eps.
func (v Vec3) ApproxEqual(a Vec3, eps float64) bool {
	return math.Abs(v.X-a.X) <= eps && math.Abs(v.Y-a.Y) <= eps && math.Abs(v.Z-a.Z) <= eps
}

// HeadingDir is the unit ground direction for a yaw angle: (sin h, 0, cos h).
func HeadingDir(heading float64) Vec3 {
	return Vec3{math.Sin(heading), 0, math.Cos(heading)}
}

func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
