package render

import (
	"sort"

	"github.com/milk9111/townwalk/ecs"
	"github.com/milk9111/townwalk/ecs/component"
	"github.com/milk9111/townwalk/geom"
	"github.com/milk9111/townwalk/scene"
)

const (
	layerGround = iota
	layerWorld
)

// flatHeight is the thickness below which a mesh is drawn as a ground decal.
const flatHeight = 0.5

// Triangle is a shaded screen-space triangle.
type Triangle struct {
	X, Y  [3]float32
	Color geom.Color
}

// Text is a projected label.
type Text struct {
	Text  string
	X, Y  float64
	Scale float64
	Color geom.Color
}

// Item is one draw in back-to-front order; exactly one of Tri and Label is
// set.
type Item struct {
	Tri   *Triangle
	Label *Text

	layer int
	key   float64
	depth float64
}

// Frame is everything one Draw call paints, already sorted.
type Frame struct {
	Items  []Item
	Culled int
}

func (f Frame) Triangles() int {
	n := 0
	for _, it := range f.Items {
		if it.Tri != nil {
			n++
		}
	}
	return n
}

// BuildFrame tessellates, lights and sorts the scene for the active camera.
// World matrices are expected to be current.
func (r *Renderer) BuildFrame(s *scene.Scene, width, height int) Frame {
	proj := NewProjector(s.ActiveCamera(), float64(width), float64(height))
	lights := s.Lights()
	w := s.World()

	var frame Frame
	for _, e := range ecs.Query(w, component.MeshComponent.Kind().ID(), component.MaterialComponent.Kind().ID(), component.WorldMatrixComponent.Kind().ID()) {
		mesh, _ := ecs.Get(w, e, component.MeshComponent.Kind())
		ref, _ := ecs.Get(w, e, component.MaterialComponent.Kind())
		wm, _ := ecs.Get(w, e, component.WorldMatrixComponent.Kind())
		if ref.Material == nil || ref.Material.Alpha <= 0 {
			continue
		}
		r.appendMesh(&frame, proj, lights, *mesh, ref.Material, wm.M)
	}

	ecs.ForEach2(w, component.LabelComponent.Kind(), component.WorldMatrixComponent.Kind(), func(_ ecs.Entity, l *component.Label, wm *component.WorldMatrix) {
		center, _ := wm.M.TransformPoint(geom.Vec3{})
		v := proj.ToView(center)
		if v.Z < nearPlane {
			return
		}
		px := l.Size * proj.PixelsPerUnit(v.Z)
		scale := px / labelFontHeight
		if scale < minLabelScale {
			return
		}
		x, y := proj.ToScreen(v)
		frame.Items = append(frame.Items, Item{
			Label: &Text{Text: l.Text, X: x, Y: y, Scale: scale, Color: l.Color},
			layer: layerWorld,
			depth: v.Z,
		})
	})

	sort.SliceStable(frame.Items, func(i, j int) bool {
		a, b := frame.Items[i], frame.Items[j]
		if a.layer != b.layer {
			return a.layer < b.layer
		}
		if a.key != b.key {
			return a.key < b.key
		}
		return a.depth > b.depth
	})
	return frame
}

func (r *Renderer) appendMesh(frame *Frame, proj Projector, lights scene.Lights, mesh component.Mesh, mat *component.Material, m geom.Mat4) {
	faces := r.faces(mesh)
	if len(faces) == 0 {
		return
	}

	layer, key := layerWorld, 0.0
	lo, hi := scene.WorldBounds(m, mesh)
	if hi.Y-lo.Y < flatHeight && hi.Y < 1 {
		layer, key = layerGround, hi.Y
	}

	eye := proj.Eye()
	for _, f := range faces {
		var world [3]geom.Vec3
		for i, v := range f.V {
			world[i], _ = m.TransformPoint(v)
		}
		n := m.TransformDir(f.Normal).Normalize()
		c := world[0].Add(world[1]).Add(world[2]).Scale(1.0 / 3)
		toEye := eye.Sub(c).Normalize()
		if n.Dot(toEye) < 0 {
			if mat.BackFaceCulling {
				frame.Culled++
				continue
			}
			n = n.Neg()
		}
		col := Shade(mat, n, toEye, lights)

		var view [3]geom.Vec3
		for i, v := range world {
			view[i] = proj.ToView(v)
		}
		for _, tri := range ClipNear(view) {
			t := &Triangle{Color: col}
			depth := 0.0
			for i, v := range tri {
				x, y := proj.ToScreen(v)
				t.X[i], t.Y[i] = float32(x), float32(y)
				depth += v.Z
			}
			frame.Items = append(frame.Items, Item{Tri: t, layer: layer, key: key, depth: depth / 3})
		}
	}
}

func (r *Renderer) faces(mesh component.Mesh) []Face {
	if f, ok := r.cache[mesh]; ok {
		return f
	}
	f := Tessellate(mesh)
	r.cache[mesh] = f
	return f
}
