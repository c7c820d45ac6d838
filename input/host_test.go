package input

import (
	"github.com/milk9111/townwalk/controller"
	"github.com/milk9111/townwalk/geom"
)

type nopHost struct{}

func (nopHost) ActivateCamera(controller.ViewMode) {}

func (nopHost) AttachControl(controller.ViewMode) {}

func (nopHost) DetachControl(controller.ViewMode) {}

func (nopHost) OrbitAxes() (geom.Vec3, geom.Vec3) {
	return geom.V3(0, 0, 1), geom.V3(1, 0, 0)
}

func (nopHost) PanOrbitTarget(geom.Vec3) {}

func (nopHost) MoveWithCollision(from, delta geom.Vec3) geom.Vec3 {
	return from.Add(delta)
}

func (nopHost) SetAvatarPose(controller.AvatarPose) {}

func (nopHost) SetFirstPersonView(eye, target geom.Vec3) {}

func (nopHost) SetAvatarColor(geom.Color) {}
