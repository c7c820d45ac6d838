package scene

import (
	"github.com/milk9111/townwalk/ecs"
	"github.com/milk9111/townwalk/ecs/component"
	"github.com/milk9111/townwalk/geom"
)

// syncTransforms resolves WorldMatrix for every entity with a Transform.
// Parents are resolved before children; chains are one level deep but
// deeper ones still resolve through the recursion.
func syncTransforms(w *ecs.World) {
	done := make(map[ecs.Entity]geom.Mat4)
	var resolve func(e ecs.Entity, depth int) geom.Mat4
	resolve = func(e ecs.Entity, depth int) geom.Mat4 {
		if m, ok := done[e]; ok {
			return m
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return geom.Identity()
		}
		m := t.Matrix()
		if p, ok := ecs.Get(w, e, component.ParentComponent.Kind()); ok && depth < 8 {
			parent := ecs.Entity(p.Entity)
			if ecs.IsAlive(w, parent) {
				m = resolve(parent, depth+1).Mul(m)
			}
		}
		done[e] = m
		return m
	}

	ecs.ForEach(w, component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.Transform) {
		m := resolve(e, 0)
		if wm, ok := ecs.Get(w, e, component.WorldMatrixComponent.Kind()); ok {
			wm.M = m
			return
		}
		mustAdd(w, e, component.WorldMatrixComponent.Kind(), &component.WorldMatrix{M: m})
	})
}
