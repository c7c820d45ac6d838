package prefabs

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/townwalk/ecs/component"
	"github.com/milk9111/townwalk/geom"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// TownSpec is the whole static scene: every coordinate lives here rather
// than in code.
type TownSpec struct {
	ClearColor YAMLColor               `yaml:"clear_color"`
	Lights     LightsSpec              `yaml:"lights"`
	Materials  map[string]MaterialSpec `yaml:"materials"`
	Meshes     []MeshSpec              `yaml:"meshes"`
	Labels     []LabelSpec             `yaml:"labels"`
	Tree       TreeSpec                `yaml:"tree"`
	Trees      []TreePlacementSpec     `yaml:"trees"`
	Avatar     AvatarSpec              `yaml:"avatar"`
	Cameras    CamerasSpec             `yaml:"cameras"`
}

func LoadTownSpec() (*TownSpec, error) {
	spec, err := LoadSpec[TownSpec]("town.yaml")
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: town.yaml: %w", err)
	}
	return &spec, nil
}

// Validate checks cross references between meshes and materials.
func (s *TownSpec) Validate() error {
	check := func(owner, name string) error {
		if name == "" {
			return nil
		}
		if _, ok := s.Materials[name]; !ok {
			return fmt.Errorf("%s: unknown material %q", owner, name)
		}
		return nil
	}
	for _, m := range s.Meshes {
		if _, err := ParseShape(m.Shape); err != nil {
			return fmt.Errorf("mesh %s: %w", m.Name, err)
		}
		if err := check("mesh "+m.Name, m.Material); err != nil {
			return err
		}
	}
	for _, p := range []MeshSpec{s.Tree.Trunk, s.Tree.Canopy} {
		if _, err := ParseShape(p.Shape); err != nil {
			return fmt.Errorf("tree %s: %w", p.Name, err)
		}
		if err := check("tree "+p.Name, p.Material); err != nil {
			return err
		}
	}
	for _, p := range s.Avatar.Parts {
		if _, err := ParseShape(p.Shape); err != nil {
			return fmt.Errorf("avatar part %s: %w", p.Name, err)
		}
	}
	if err := check("avatar", s.Avatar.Material); err != nil {
		return err
	}
	if s.Avatar.Scale <= 0 {
		return fmt.Errorf("avatar: scale must be positive")
	}
	if s.Cameras.Orbit.Radius <= 0 {
		return fmt.Errorf("orbit camera: radius must be positive")
	}
	return nil
}

type LightsSpec struct {
	Hemispheric HemisphericLightSpec `yaml:"hemispheric"`
	Sun         DirectionalLightSpec `yaml:"sun"`
}

type HemisphericLightSpec struct {
	Direction Vec3Spec `yaml:"direction"`
	Intensity float64  `yaml:"intensity"`
}

type DirectionalLightSpec struct {
	Direction Vec3Spec `yaml:"direction"`
	Position  Vec3Spec `yaml:"position"`
	Intensity float64  `yaml:"intensity"`
}

type MaterialSpec struct {
	Diffuse         YAMLColor  `yaml:"diffuse"`
	Specular        *YAMLColor `yaml:"specular"`
	Emissive        *YAMLColor `yaml:"emissive"`
	Alpha           *float64   `yaml:"alpha"`
	BackFaceCulling *bool      `yaml:"back_face_culling"`
}

// MeshSpec is one primitive. Rotation is in degrees.
type MeshSpec struct {
	Name         string   `yaml:"name"`
	Shape        string   `yaml:"shape"`
	Width        float64  `yaml:"width"`
	Height       float64  `yaml:"height"`
	Depth        float64  `yaml:"depth"`
	Diameter     float64  `yaml:"diameter"`
	Tessellation int      `yaml:"tessellation"`
	Position     Vec3Spec `yaml:"position"`
	Rotation     Vec3Spec `yaml:"rotation"`
	Material     string   `yaml:"material"`
	Solid        bool     `yaml:"solid"`
}

type LabelSpec struct {
	Text      string    `yaml:"text"`
	Position  Vec3Spec  `yaml:"position"`
	RotationY float64   `yaml:"rotation_y"`
	Width     float64   `yaml:"width"`
	Height    float64   `yaml:"height"`
	Color     YAMLColor `yaml:"color"`
}

// TreeSpec is the trunk/canopy template; parts are positioned relative to
// the tree's ground point.
type TreeSpec struct {
	Trunk  MeshSpec `yaml:"trunk"`
	Canopy MeshSpec `yaml:"canopy"`
}

type TreePlacementSpec struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Z    float64 `yaml:"z"`
}

// AvatarSpec lists body parts in unscaled units; Scale multiplies sizes and
// offsets.
type AvatarSpec struct {
	Scale    float64    `yaml:"scale"`
	Material string     `yaml:"material"`
	Position Vec3Spec   `yaml:"position"`
	Heading  float64    `yaml:"heading"`
	Radius   float64    `yaml:"collision_radius"`
	Parts    []MeshSpec `yaml:"parts"`
}

type CamerasSpec struct {
	Orbit       OrbitCameraSpec       `yaml:"orbit"`
	FirstPerson FirstPersonCameraSpec `yaml:"first_person"`
}

// OrbitCameraSpec angles are in degrees.
type OrbitCameraSpec struct {
	Alpha                float64  `yaml:"alpha"`
	Beta                 float64  `yaml:"beta"`
	Radius               float64  `yaml:"radius"`
	Target               Vec3Spec `yaml:"target"`
	WheelDeltaPercentage float64  `yaml:"wheel_delta_percentage"`
	MinRadius            float64  `yaml:"min_radius"`
	MaxRadius            float64  `yaml:"max_radius"`
	Sensitivity          float64  `yaml:"sensitivity"`
	FOV                  float64  `yaml:"fov"`
}

type FirstPersonCameraSpec struct {
	Position Vec3Spec `yaml:"position"`
	FOV      float64  `yaml:"fov"`
}

// ControllerSpec tunes movement and binds raw keys to actions.
type ControllerSpec struct {
	PersonSpeed     float64           `yaml:"person_speed"`
	RotationSpeed   float64           `yaml:"rotation_speed"`
	CameraSpeed     float64           `yaml:"camera_speed"`
	SpeedMultiplier float64           `yaml:"speed_multiplier"`
	EyeHeight       float64           `yaml:"eye_height"`
	EyeForward      float64           `yaml:"eye_forward"`
	PitchLimit      float64           `yaml:"pitch_limit"`
	LookSensitivity float64           `yaml:"look_sensitivity"`
	LookButton      string            `yaml:"look_button"`
	Bindings        map[string]string `yaml:"bindings"`
}

func LoadControllerSpec() (*ControllerSpec, error) {
	spec, err := LoadSpec[ControllerSpec]("controller.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// ParseShape maps a mesh shape name to its component value.
func ParseShape(name string) (component.Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "box", "":
		return component.ShapeBox, nil
	case "cylinder":
		return component.ShapeCylinder, nil
	case "sphere":
		return component.ShapeSphere, nil
	case "plane":
		return component.ShapePlane, nil
	case "ground":
		return component.ShapeGround, nil
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// Vec3Spec is written as a [x, y, z] sequence.
type Vec3Spec [3]float64

func (v Vec3Spec) Vec3() geom.Vec3 {
	return geom.V3(v[0], v[1], v[2])
}

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or a [r, g, b] / [r, g, b, a]
// sequence of floats in [0, 1].
type YAMLColor struct {
	geom.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var parts []float64
		if err := value.Decode(&parts); err != nil {
			return fmt.Errorf("color: %w", err)
		}
		if len(parts) != 3 && len(parts) != 4 {
			return fmt.Errorf("color must have 3 or 4 components, got %d", len(parts))
		}
		c.Color = geom.RGB(parts[0], parts[1], parts[2])
		if len(parts) == 4 {
			c.A = parts[3]
		}
		return nil
	case yaml.ScalarNode:
	default:
		return fmt.Errorf("color must be a string or a sequence")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (float64, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return float64(v) / 255, err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	c.Color = geom.RGB(r, g, b)
	if len(s) == 8 {
		c.A, err = parse(6)
		if err != nil {
			return err
		}
	}
	return nil
}
