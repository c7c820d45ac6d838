package controller

import (
	"fmt"

	"github.com/milk9111/townwalk/geom"
)

// ViewMode selects the active camera and the movement rules.
type ViewMode int

const (
	Overview ViewMode = iota
	FirstPerson
)

func (m ViewMode) String() string {
	switch m {
	case Overview:
		return "overview"
	case FirstPerson:
		return "first_person"
	}
	return fmt.Sprintf("ViewMode(%d)", int(m))
}

// Other returns the mode a toggle switches to.
func (m ViewMode) Other() ViewMode {
	if m == FirstPerson {
		return Overview
	}
	return FirstPerson
}

// AvatarPose is the avatar's ground position and yaw. Heading is never
// normalized; it is only consumed through sin/cos.
type AvatarPose struct {
	Position geom.Vec3 `yaml:"position"`
	Heading  float64   `yaml:"heading"`
}

func (p AvatarPose) String() string {
	return fmt.Sprintf("pos=(%.3f, %.3f, %.3f) heading=%.3f", p.Position.X, p.Position.Y, p.Position.Z, p.Heading)
}
