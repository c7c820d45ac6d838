package controller

import "github.com/milk9111/townwalk/geom"

// Host is the scene collaborator that owns the cameras and the avatar mesh.
// The controller only writes transforms through it.
type Host interface {
	// ActivateCamera makes the camera for mode the render camera.
	ActivateCamera(mode ViewMode)
	// AttachControl lets the camera for mode receive raw pointer input.
	AttachControl(mode ViewMode)
	// DetachControl stops raw pointer input for the camera for mode.
	DetachControl(mode ViewMode)
	// OrbitAxes returns the orbit camera's local Z and X axes in world space.
	OrbitAxes() (forward, right geom.Vec3)
	// PanOrbitTarget shifts the orbit camera's target by delta.
	PanOrbitTarget(delta geom.Vec3)
	// MoveWithCollision sweeps the avatar from from by delta and returns
	// where it ends up.
	MoveWithCollision(from, delta geom.Vec3) geom.Vec3
	// SetAvatarPose places the avatar mesh.
	SetAvatarPose(pose AvatarPose)
	// SetFirstPersonView places the first-person camera.
	SetFirstPersonView(eye, target geom.Vec3)
	// SetAvatarColor recolours the avatar material.
	SetAvatarColor(c geom.Color)
}

// InputHandler receives input and frame callbacks from the host loop. All
// calls happen on the loop goroutine.
type InputHandler interface {
	OnKeyDown(key string)
	OnKeyUp(key string)
	OnPointerMove(dx, dy float64, buttons ButtonMask)
	OnFrameTick()
	OnPick()
}
