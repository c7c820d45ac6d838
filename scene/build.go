package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/townwalk/ecs"
	"github.com/milk9111/townwalk/ecs/component"
	"github.com/milk9111/townwalk/geom"
	"github.com/milk9111/townwalk/prefabs"
)

// populate creates every entity and collision shape described by spec.
func (s *Scene) populate(spec *prefabs.TownSpec) error {
	s.spec = spec
	s.clear = spec.ClearColor.Color
	if s.clear == (geom.Color{}) {
		s.clear = geom.RGB(0.75, 0.9, 1.0)
	}
	s.lights = Lights{
		HemiDirection: spec.Lights.Hemispheric.Direction.Vec3().Normalize(),
		HemiIntensity: spec.Lights.Hemispheric.Intensity,
		SunDirection:  spec.Lights.Sun.Direction.Vec3().Normalize(),
		SunIntensity:  spec.Lights.Sun.Intensity,
	}
	if s.lights.HemiDirection.LenSq() == 0 {
		s.lights.HemiDirection = worldUp
	}

	s.materials = make(map[string]*component.Material, len(spec.Materials))
	for name, m := range spec.Materials {
		s.materials[name] = materialFromSpec(name, m)
	}

	for _, m := range spec.Meshes {
		e, err := s.addMesh(m, 1)
		if err != nil {
			return err
		}
		t, _ := ecs.Get(s.world, e, component.TransformComponent.Kind())
		mesh, _ := ecs.Get(s.world, e, component.MeshComponent.Kind())
		if m.Solid {
			s.addSolid(m.Name, *t, *mesh)
		}
		if mesh.Shape == component.ShapeGround {
			hw, hd := mesh.Width/2, mesh.Depth/2
			s.phys.SetBounds(t.Position.X-hw, t.Position.Z-hd, t.Position.X+hw, t.Position.Z+hd)
		}
	}

	for _, l := range spec.Labels {
		e := ecs.CreateEntity(s.world)
		mustAdd(s.world, e, component.NameComponent.Kind(), &component.Name{Value: "label_" + l.Text})
		mustAdd(s.world, e, component.TransformComponent.Kind(), &component.Transform{
			Position: l.Position.Vec3(),
			Rotation: geom.V3(geom.Radians(90), geom.Radians(l.RotationY), 0),
		})
		mustAdd(s.world, e, component.LabelComponent.Kind(), &component.Label{
			Text:  l.Text,
			Color: l.Color.Color,
			Size:  l.Height,
		})
	}

	for _, tree := range spec.Trees {
		if err := s.addTree(spec.Tree, tree); err != nil {
			return err
		}
	}

	if err := s.addAvatar(spec.Avatar); err != nil {
		return err
	}

	s.log.Debug("scene populated",
		zap.Int("meshes", len(spec.Meshes)),
		zap.Int("labels", len(spec.Labels)),
		zap.Int("trees", len(spec.Trees)),
		zap.Int("solids", s.phys.SolidCount()),
	)
	return nil
}

func (s *Scene) addTree(tmpl prefabs.TreeSpec, place prefabs.TreePlacementSpec) error {
	root := ecs.CreateEntity(s.world)
	mustAdd(s.world, root, component.NameComponent.Kind(), &component.Name{Value: place.Name})
	mustAdd(s.world, root, component.TransformComponent.Kind(), &component.Transform{Position: geom.V3(place.X, 0, place.Z)})

	for _, part := range []prefabs.MeshSpec{tmpl.Trunk, tmpl.Canopy} {
		part.Name = place.Name + "_" + part.Name
		e, err := s.addMesh(part, 1)
		if err != nil {
			return err
		}
		mustAdd(s.world, e, component.ParentComponent.Kind(), &component.Parent{Entity: uint64(root)})
		if part.Solid {
			t, _ := ecs.Get(s.world, e, component.TransformComponent.Kind())
			mesh, _ := ecs.Get(s.world, e, component.MeshComponent.Kind())
			world := *t
			world.Position = world.Position.Add(geom.V3(place.X, 0, place.Z))
			s.addSolid(part.Name, world, *mesh)
		}
	}
	return nil
}

func (s *Scene) addAvatar(spec prefabs.AvatarSpec) error {
	mat, ok := s.materials[spec.Material]
	if !ok {
		mat = &component.Material{Name: "avatar", Diffuse: geom.RGB(0.2, 0.4, 0.8), Alpha: 1, BackFaceCulling: true}
	}
	s.avatarMat = mat

	root := ecs.CreateEntity(s.world)
	s.avatar = root
	mustAdd(s.world, root, component.NameComponent.Kind(), &component.Name{Value: "person"})
	mustAdd(s.world, root, component.TransformComponent.Kind(), &component.Transform{Position: spec.Position.Vec3()})
	mustAdd(s.world, root, component.AvatarTagComponent.Kind(), &component.AvatarTag{})
	mustAdd(s.world, root, component.PickableComponent.Kind(), &component.Pickable{Group: avatarGroup})

	for _, part := range spec.Parts {
		part.Material = ""
		e, err := s.addMesh(part, spec.Scale)
		if err != nil {
			return err
		}
		mustAdd(s.world, e, component.MaterialComponent.Kind(), &component.MaterialRef{Material: mat})
		mustAdd(s.world, e, component.ParentComponent.Kind(), &component.Parent{Entity: uint64(root)})
		mustAdd(s.world, e, component.PickableComponent.Kind(), &component.Pickable{Group: avatarGroup})
	}
	return nil
}

// addMesh creates a mesh entity. scale multiplies both size and offset.
func (s *Scene) addMesh(m prefabs.MeshSpec, scale float64) (ecs.Entity, error) {
	mesh, err := meshFromSpec(m, scale)
	if err != nil {
		return 0, fmt.Errorf("scene: mesh %s: %w", m.Name, err)
	}
	e := ecs.CreateEntity(s.world)
	mustAdd(s.world, e, component.NameComponent.Kind(), &component.Name{Value: m.Name})
	mustAdd(s.world, e, component.MeshComponent.Kind(), &mesh)
	mustAdd(s.world, e, component.TransformComponent.Kind(), &component.Transform{
		Position: m.Position.Vec3().Scale(scale),
		Rotation: geom.V3(geom.Radians(m.Rotation[0]), geom.Radians(m.Rotation[1]), geom.Radians(m.Rotation[2])),
	})
	if m.Material != "" {
		mat, ok := s.materials[m.Material]
		if !ok {
			return 0, fmt.Errorf("scene: mesh %s: unknown material %q", m.Name, m.Material)
		}
		mustAdd(s.world, e, component.MaterialComponent.Kind(), &component.MaterialRef{Material: mat})
	}
	if m.Solid {
		mustAdd(s.world, e, component.SolidComponent.Kind(), &component.Solid{})
	}
	return e, nil
}

// addSolid registers a collision footprint. Cylinders and spheres use a
// circle; everything else uses its rotated box.
func (s *Scene) addSolid(name string, t component.Transform, mesh component.Mesh) {
	switch mesh.Shape {
	case component.ShapeCylinder:
		s.phys.AddSolidCylinder(name, t.Position, mesh.Diameter, mesh.Height)
	case component.ShapeSphere:
		s.phys.AddSolidCylinder(name, t.Position, mesh.Diameter, mesh.Diameter)
	default:
		lo, hi := mesh.Bounds()
		s.phys.AddSolidBox(name, t.Position, hi.Sub(lo), t.Rotation.Y)
	}
}

func mustAdd[T any](w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], value *T) {
	if err := ecs.Add(w, e, kind, value); err != nil {
		panic("scene: add component: " + err.Error())
	}
}

func meshFromSpec(m prefabs.MeshSpec, scale float64) (component.Mesh, error) {
	shape, err := prefabs.ParseShape(m.Shape)
	if err != nil {
		return component.Mesh{}, err
	}
	return component.Mesh{
		Shape:        shape,
		Width:        m.Width * scale,
		Height:       m.Height * scale,
		Depth:        m.Depth * scale,
		Diameter:     m.Diameter * scale,
		Tessellation: m.Tessellation,
	}, nil
}

func materialFromSpec(name string, m prefabs.MaterialSpec) *component.Material {
	mat := &component.Material{
		Name:            name,
		Diffuse:         m.Diffuse.Color,
		Specular:        geom.RGB(1, 1, 1),
		Alpha:           1,
		BackFaceCulling: true,
	}
	if m.Specular != nil {
		mat.Specular = m.Specular.Color
	}
	if m.Emissive != nil {
		mat.Emissive = m.Emissive.Color
	}
	if m.Alpha != nil {
		mat.Alpha = *m.Alpha
	}
	if m.BackFaceCulling != nil {
		mat.BackFaceCulling = *m.BackFaceCulling
	}
	return mat
}
