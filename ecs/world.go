package ecs

import "github.com/milk9111/townwalk/ecs/component"

// World owns entities, their component sets and the system order.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]store
	systems  []System
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its slot. It reports
// false for entities that are not alive.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns all live entities in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// Clear destroys every entity but keeps registered systems.
func (w *World) Clear() {
	if w == nil {
		return
	}
	for _, e := range w.entities.all() {
		DestroyEntity(w, e)
	}
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Update runs all systems once.
func (w *World) Update() {
	if w == nil {
		return
	}
	for _, s := range w.systems {
		s.Update(w)
	}
}

func (w *World) store(id component.ComponentID) store {
	if w == nil || w.stores == nil {
		return nil
	}
	return w.stores[id]
}
