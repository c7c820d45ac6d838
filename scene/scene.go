// Package scene holds the town's entities, both cameras and the collision
// world, and implements controller.Host on top of them.
package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/townwalk/controller"
	"github.com/milk9111/townwalk/ecs"
	"github.com/milk9111/townwalk/ecs/component"
	"github.com/milk9111/townwalk/geom"
	"github.com/milk9111/townwalk/physics"
	"github.com/milk9111/townwalk/prefabs"
)

const avatarGroup = "avatar"

var ErrNilSpec = errors.New("scene: nil town spec")

// Lights are the two scene lights. Directions point from the light.
type Lights struct {
	HemiDirection geom.Vec3
	HemiIntensity float64
	SunDirection  geom.Vec3
	SunIntensity  float64
}

type Scene struct {
	world *ecs.World
	phys  *physics.World
	log   *zap.Logger
	spec  *prefabs.TownSpec

	orbit       *OrbitCamera
	firstPerson *FirstPersonCamera
	active      controller.ViewMode
	attached    [2]bool

	avatar      ecs.Entity
	avatarMat   *component.Material
	avatarColor *geom.Color
	materials   map[string]*component.Material

	clear  geom.Color
	lights Lights
}

var _ controller.Host = (*Scene)(nil)

// Build populates world from spec and returns the scene. The orbit camera
// starts active.
func Build(world *ecs.World, spec *prefabs.TownSpec, log *zap.Logger) (*Scene, error) {
	if world == nil {
		panic("scene: nil world")
	}
	if spec == nil {
		return nil, ErrNilSpec
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Scene{
		world:       world,
		log:         log,
		orbit:       NewOrbitCamera(spec.Cameras.Orbit),
		firstPerson: NewFirstPersonCamera(spec.Cameras.FirstPerson),
		active:      controller.Overview,
	}
	s.phys = physics.NewWorld(avatarRadius(spec), avatarHeight(spec), log.Named("physics"))
	world.AddSystem(ecs.SystemFunc(syncTransforms))

	if err := s.populate(spec); err != nil {
		return nil, err
	}
	s.placeAvatar(s.StartPose())
	syncTransforms(world)
	return s, nil
}

// Rebuild replaces the town with spec, keeping the avatar pose, its colour
// and both cameras.
func (s *Scene) Rebuild(spec *prefabs.TownSpec) error {
	s.mustBuilt()
	if spec == nil {
		return ErrNilSpec
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	pose := s.AvatarPose()

	s.world.Clear()
	s.phys.Reset()
	if err := s.populate(spec); err != nil {
		return err
	}
	s.placeAvatar(pose)
	if s.avatarColor != nil {
		s.avatarMat.Diffuse = *s.avatarColor
	}
	syncTransforms(s.world)
	s.log.Info("scene rebuilt", zap.Int("entities", len(ecs.Entities(s.world))), zap.Int("solids", s.phys.SolidCount()))
	return nil
}

func (s *Scene) mustBuilt() {
	if s == nil || s.world == nil || s.spec == nil {
		panic("scene: used before Build")
	}
}

func (s *Scene) World() *ecs.World {
	return s.world
}

func (s *Scene) Physics() *physics.World {
	return s.phys
}

func (s *Scene) Spec() *prefabs.TownSpec {
	return s.spec
}

func (s *Scene) ClearColor() geom.Color {
	return s.clear
}

func (s *Scene) Lights() Lights {
	return s.lights
}

func (s *Scene) Orbit() *OrbitCamera {
	return s.orbit
}

func (s *Scene) FirstPerson() *FirstPersonCamera {
	return s.firstPerson
}

// ActiveMode reports which camera renders.
func (s *Scene) ActiveMode() controller.ViewMode {
	return s.active
}

// ActiveCamera returns the render camera.
func (s *Scene) ActiveCamera() Camera {
	s.mustBuilt()
	if s.active == controller.FirstPerson {
		return s.firstPerson
	}
	return s.orbit
}

// Attached reports whether the camera for mode takes raw pointer input.
func (s *Scene) Attached(mode controller.ViewMode) bool {
	if mode < 0 || int(mode) >= len(s.attached) {
		return false
	}
	return s.attached[mode]
}

// StartPose is the avatar pose from the town spec.
func (s *Scene) StartPose() controller.AvatarPose {
	s.mustBuilt()
	return controller.AvatarPose{
		Position: s.spec.Avatar.Position.Vec3(),
		Heading:  geom.Radians(s.spec.Avatar.Heading),
	}
}

// AvatarPose reads the pose back from the avatar root transform.
func (s *Scene) AvatarPose() controller.AvatarPose {
	s.mustBuilt()
	t, ok := ecs.Get(s.world, s.avatar, component.TransformComponent.Kind())
	if !ok {
		return s.StartPose()
	}
	return controller.AvatarPose{Position: t.Position, Heading: t.Rotation.Y}
}

// AvatarColor is the avatar material's diffuse colour.
func (s *Scene) AvatarColor() geom.Color {
	s.mustBuilt()
	return s.avatarMat.Diffuse
}

func (s *Scene) ActivateCamera(mode controller.ViewMode) {
	s.mustBuilt()
	s.active = mode
	s.log.Debug("camera activated", zap.Stringer("mode", mode))
}

func (s *Scene) AttachControl(mode controller.ViewMode) {
	s.mustBuilt()
	s.setAttached(mode, true)
}

func (s *Scene) DetachControl(mode controller.ViewMode) {
	s.mustBuilt()
	s.setAttached(mode, false)
}

func (s *Scene) setAttached(mode controller.ViewMode, on bool) {
	if mode < 0 || int(mode) >= len(s.attached) {
		panic(fmt.Sprintf("scene: unknown view mode %d", int(mode)))
	}
	s.attached[mode] = on
}

func (s *Scene) OrbitAxes() (forward, right geom.Vec3) {
	s.mustBuilt()
	return s.orbit.Axes()
}

func (s *Scene) PanOrbitTarget(delta geom.Vec3) {
	s.mustBuilt()
	s.orbit.Pan(delta)
}

func (s *Scene) MoveWithCollision(from, delta geom.Vec3) geom.Vec3 {
	s.mustBuilt()
	return s.phys.MoveWithCollision(from, delta)
}

func (s *Scene) SetAvatarPose(pose controller.AvatarPose) {
	s.mustBuilt()
	s.placeAvatar(pose)
}

func (s *Scene) SetFirstPersonView(eye, target geom.Vec3) {
	s.mustBuilt()
	s.firstPerson.Position = eye
	s.firstPerson.Target = target
}

func (s *Scene) SetAvatarColor(c geom.Color) {
	s.mustBuilt()
	c.A = s.avatarMat.Diffuse.A
	s.avatarMat.Diffuse = c
	s.avatarColor = &c
}

// OrbitInput drives the orbit camera from raw pointer input: a left drag
// orbits and the wheel zooms. Nothing happens while the orbit camera is
// detached.
func (s *Scene) OrbitInput(dx, dy, wheel float64, buttons controller.ButtonMask) {
	s.mustBuilt()
	if !s.attached[controller.Overview] {
		return
	}
	if buttons.Has(controller.ButtonLeft) && (dx != 0 || dy != 0) {
		s.orbit.Rotate(dx, dy)
	}
	if wheel != 0 {
		s.orbit.Zoom(wheel)
	}
}

func (s *Scene) placeAvatar(pose controller.AvatarPose) {
	t, ok := ecs.Get(s.world, s.avatar, component.TransformComponent.Kind())
	if !ok {
		panic("scene: avatar has no transform")
	}
	t.Position = pose.Position
	t.Rotation = geom.V3(0, pose.Heading, 0)
}

func avatarRadius(spec *prefabs.TownSpec) float64 {
	if spec.Avatar.Radius > 0 {
		return spec.Avatar.Radius
	}
	return 0.25 * spec.Avatar.Scale
}

// avatarHeight is the top of the highest body part.
func avatarHeight(spec *prefabs.TownSpec) float64 {
	top := 0.0
	for _, p := range spec.Avatar.Parts {
		mesh, err := meshFromSpec(p, spec.Avatar.Scale)
		if err != nil {
			continue
		}
		_, hi := mesh.Bounds()
		top = max(top, p.Position[1]*spec.Avatar.Scale+hi.Y)
	}
	if top == 0 {
		return spec.Avatar.Scale
	}
	return top
}
