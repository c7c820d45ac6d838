package controller

import (
	"errors"
	"fmt"
	"math"
)

// Config tunes the controller. Distances are world units per frame and
// angles are radians per frame or per pointer pixel.
type Config struct {
	PersonSpeed     float64    `yaml:"person_speed"`
	RotationSpeed   float64    `yaml:"rotation_speed"`
	CameraSpeed     float64    `yaml:"camera_speed"`
	SpeedMultiplier float64    `yaml:"speed_multiplier"`
	EyeHeight       float64    `yaml:"eye_height"`
	EyeForward      float64    `yaml:"eye_forward"`
	PitchLimit      float64    `yaml:"pitch_limit"`
	LookSensitivity float64    `yaml:"look_sensitivity"`
	LookButton      ButtonMask `yaml:"-"`
}

var ErrInvalidConfig = errors.New("controller: invalid config")

func DefaultConfig() Config {
	return Config{
		PersonSpeed:     0.2,
		RotationSpeed:   0.03,
		CameraSpeed:     1.5,
		SpeedMultiplier: 3,
		EyeHeight:       3.3,
		EyeForward:      0.5,
		PitchLimit:      1.4,
		LookSensitivity: 0.004,
		LookButton:      ButtonMiddle,
	}
}

// Validate rejects configs that would stall or invert the controller.
func (c Config) Validate() error {
	switch {
	case c.PersonSpeed <= 0:
		return fmt.Errorf("%w: person_speed must be positive, got %v", ErrInvalidConfig, c.PersonSpeed)
	case c.CameraSpeed <= 0:
		return fmt.Errorf("%w: camera_speed must be positive, got %v", ErrInvalidConfig, c.CameraSpeed)
	case c.RotationSpeed <= 0:
		return fmt.Errorf("%w: rotation_speed must be positive, got %v", ErrInvalidConfig, c.RotationSpeed)
	case c.SpeedMultiplier < 1:
		return fmt.Errorf("%w: speed_multiplier must be at least 1, got %v", ErrInvalidConfig, c.SpeedMultiplier)
	case c.PitchLimit <= 0 || c.PitchLimit >= math.Pi/2:
		return fmt.Errorf("%w: pitch_limit must be in (0, pi/2), got %v", ErrInvalidConfig, c.PitchLimit)
	case c.LookButton == 0:
		return fmt.Errorf("%w: look button unset", ErrInvalidConfig)
	}
	return nil
}
