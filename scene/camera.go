package scene

import (
	"math"

	"github.com/milk9111/townwalk/geom"
	"github.com/milk9111/townwalk/prefabs"
)

var worldUp = geom.V3(0, 1, 0)

// wheelGain converts one wheel notch into the percentage steps a browser
// wheel event produces.
const wheelGain = 10

const (
	minBeta = 0.01
	maxBeta = math.Pi - 0.01
)

// Camera is what the renderer and picker need from either camera.
type Camera interface {
	Eye() geom.Vec3
	LookTarget() geom.Vec3
	FieldOfView() float64
}

// View returns the view matrix of c.
func View(c Camera) geom.Mat4 {
	return geom.LookAt(c.Eye(), c.LookTarget(), worldUp)
}

// OrbitCamera circles Target at Radius. Alpha is the longitude and Beta the
// polar angle from +Y, both in radians.
type OrbitCamera struct {
	Alpha  float64
	Beta   float64
	Radius float64
	Target geom.Vec3

	MinRadius            float64
	MaxRadius            float64
	WheelDeltaPercentage float64
	Sensitivity          float64
	FOV                  float64
}

func NewOrbitCamera(spec prefabs.OrbitCameraSpec) *OrbitCamera {
	c := &OrbitCamera{
		Alpha:                geom.Radians(spec.Alpha),
		Beta:                 geom.Radians(spec.Beta),
		Radius:               spec.Radius,
		Target:               spec.Target.Vec3(),
		MinRadius:            spec.MinRadius,
		MaxRadius:            spec.MaxRadius,
		WheelDeltaPercentage: spec.WheelDeltaPercentage,
		Sensitivity:          spec.Sensitivity,
		FOV:                  geom.Radians(spec.FOV),
	}
	if c.FOV <= 0 {
		c.FOV = 0.8
	}
	if c.Sensitivity <= 0 {
		c.Sensitivity = 0.005
	}
	return c
}

// Eye is the camera position on the orbit sphere.
func (c *OrbitCamera) Eye() geom.Vec3 {
	sb := math.Sin(c.Beta)
	offset := geom.V3(math.Cos(c.Alpha)*sb, math.Cos(c.Beta), math.Sin(c.Alpha)*sb)
	return c.Target.Add(offset.Scale(c.Radius))
}

func (c *OrbitCamera) LookTarget() geom.Vec3 {
	return c.Target
}

func (c *OrbitCamera) FieldOfView() float64 {
	return c.FOV
}

// Axes returns the camera's local +Z and +X axes in world space.
func (c *OrbitCamera) Axes() (forward, right geom.Vec3) {
	forward = c.Target.Sub(c.Eye()).Normalize()
	right = worldUp.Cross(forward).Normalize()
	return forward, right
}

func (c *OrbitCamera) Pan(delta geom.Vec3) {
	c.Target = c.Target.Add(delta)
}

// Rotate orbits by a pointer drag in pixels.
func (c *OrbitCamera) Rotate(dx, dy float64) {
	c.Alpha -= dx * c.Sensitivity
	c.Beta = math.Max(minBeta, math.Min(maxBeta, c.Beta-dy*c.Sensitivity))
}

// Zoom moves toward the target for positive wheel values. The step is a
// fraction of the current radius.
func (c *OrbitCamera) Zoom(wheel float64) {
	if wheel == 0 || c.WheelDeltaPercentage <= 0 {
		return
	}
	r := c.Radius * (1 - wheel*c.WheelDeltaPercentage*wheelGain)
	if c.MinRadius > 0 {
		r = math.Max(c.MinRadius, r)
	}
	if c.MaxRadius > 0 {
		r = math.Min(c.MaxRadius, r)
	}
	if r > 0 {
		c.Radius = r
	}
}

// FirstPersonCamera is placed by the controller every frame.
type FirstPersonCamera struct {
	Position geom.Vec3
	Target   geom.Vec3
	FOV      float64
}

func NewFirstPersonCamera(spec prefabs.FirstPersonCameraSpec) *FirstPersonCamera {
	pos := spec.Position.Vec3()
	c := &FirstPersonCamera{
		Position: pos,
		Target:   pos.Add(geom.V3(0, 0, 1)),
		FOV:      geom.Radians(spec.FOV),
	}
	if c.FOV <= 0 {
		c.FOV = 0.8
	}
	return c
}

func (c *FirstPersonCamera) Eye() geom.Vec3 {
	return c.Position
}

func (c *FirstPersonCamera) LookTarget() geom.Vec3 {
	return c.Target
}

func (c *FirstPersonCamera) FieldOfView() float64 {
	return c.FOV
}
