package geom

import "math"

// Mat4 is a column-major 4x4 matrix: m[4*col+row].
type Mat4 [16]float64

func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func Translate(x, y, z float64) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

func Scale(x, y, z float64) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

func RotateX(a float64) Mat4 {
	s, c := math.Sin(a), math.Cos(a)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY rotates so that +Z turns towards +X for positive angles, matching
// HeadingDir.
func RotateY(a float64) Mat4 {
	s, c := math.Sin(a), math.Cos(a)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

func RotateZ(a float64) Mat4 {
	s, c := math.Sin(a), math.Cos(a)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns m*a, so a is applied first.
func (m Mat4) Mul(a Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[4*k+i] * a[4*j+k]
			}
			out[4*j+i] = sum
		}
	}
	return out
}

// TransformPoint applies m to (v, 1) and returns the homogeneous result.
func (m Mat4) TransformPoint(v Vec3) (Vec3, float64) {
	var out Vec3
	out.X = m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]
	out.Y = m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]
	out.Z = m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]
	w := m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]
	return out, w
}

// TransformDir applies the rotation/scale part of m to v.
func (m Mat4) TransformDir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// LookAt builds a left-handed view matrix: +X right, +Y up, +Z into the screen.
func LookAt(eye, target, up Vec3) Mat4 {
	f := target.Sub(eye).Normalize()
	r := up.Cross(f).Normalize()
	if r.LenSq() == 0 {
		// looking straight up or down
		r = Vec3{1, 0, 0}
	}
	u := f.Cross(r)
	return Mat4{
		r.X, u.X, f.X, 0,
		r.Y, u.Y, f.Y, 0,
		r.Z, u.Z, f.Z, 0,
		-r.Dot(eye), -u.Dot(eye), -f.Dot(eye), 1,
	}
}

// Perspective is the left-handed projection; w carries view depth.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	cot := 1 / math.Tan(fovY/2)
	return Mat4{
		cot / aspect, 0, 0, 0,
		0, cot, 0, 0,
		0, 0, far / (far - near), 1,
		0, 0, -near * far / (far - near), 0,
	}
}
