package prefabs

import (
	"fmt"
	"strings"

	"github.com/milk9111/townwalk/controller"
)

// Build converts controller.yaml settings into a validated config and key map.
// Zero fields fall back to controller.DefaultConfig.
func (s *ControllerSpec) Build() (controller.Config, controller.KeyMap, error) {
	cfg := controller.DefaultConfig()
	override := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	override(&cfg.PersonSpeed, s.PersonSpeed)
	override(&cfg.RotationSpeed, s.RotationSpeed)
	override(&cfg.CameraSpeed, s.CameraSpeed)
	override(&cfg.SpeedMultiplier, s.SpeedMultiplier)
	override(&cfg.EyeHeight, s.EyeHeight)
	override(&cfg.EyeForward, s.EyeForward)
	override(&cfg.PitchLimit, s.PitchLimit)
	override(&cfg.LookSensitivity, s.LookSensitivity)

	if s.LookButton != "" {
		b, ok := controller.ParseButton(s.LookButton)
		if !ok {
			return controller.Config{}, nil, fmt.Errorf("prefabs: controller.yaml: %w: unknown look_button %q", controller.ErrInvalidConfig, s.LookButton)
		}
		cfg.LookButton = b
	}
	if err := cfg.Validate(); err != nil {
		return controller.Config{}, nil, fmt.Errorf("prefabs: controller.yaml: %w", err)
	}

	keys := controller.DefaultKeyMap()
	if len(s.Bindings) > 0 {
		keys = make(controller.KeyMap, len(s.Bindings))
		for key, name := range s.Bindings {
			a, ok := controller.ParseAction(name)
			if !ok {
				return controller.Config{}, nil, fmt.Errorf("prefabs: controller.yaml: key %q: unknown action %q", key, name)
			}
			keys[strings.ToLower(key)] = a
		}
	}
	return cfg, keys, nil
}
