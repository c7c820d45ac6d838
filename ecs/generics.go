package ecs

import (
	"sort"

	"github.com/milk9111/townwalk/ecs/component"
)

func setFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if s, ok := w.stores[kind.ID()]; ok {
		return s.(*sparseSet[T])
	}
	if !create {
		return nil
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]store)
	}
	s := newSparseSet[T]()
	w.stores[kind.ID()] = s
	return s
}

// Add attaches or replaces the component of kind on e.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	setFor(w, kind, true).set(e, value)
	return nil
}

// Get returns the component pointer; callers mutate it in place.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	s := setFor(w, kind, false)
	if s == nil {
		return nil, false
	}
	return s.get(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := setFor(w, kind, false)
	return s != nil && s.has(e)
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	s := setFor(w, kind, false)
	return s != nil && s.remove(e)
}

// ForEach visits every entity with a component of kind.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := setFor(w, kind, false)
	if s == nil {
		return
	}
	for i := 0; i < len(s.dense); i++ {
		fn(s.dense[i], s.values[i])
	}
}

// ForEach2 visits entities holding both components.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa, sb := setFor(w, ka, false), setFor(w, kb, false)
	if sa == nil || sb == nil {
		return
	}
	for _, e := range Query(w, ka.ID(), kb.ID()) {
		a, _ := sa.get(e)
		b, _ := sb.get(e)
		fn(e, a, b)
	}
}

// ForEach3 visits entities holding all three components.
func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sa, sb, sc := setFor(w, ka, false), setFor(w, kb, false), setFor(w, kc, false)
	if sa == nil || sb == nil || sc == nil {
		return
	}
	for _, e := range Query(w, ka.ID(), kb.ID(), kc.ID()) {
		a, _ := sa.get(e)
		b, _ := sb.get(e)
		c, _ := sc.get(e)
		fn(e, a, b, c)
	}
}

// Query returns the live entities present in every listed component set,
// ordered by entity id so iteration is stable across frames.
func Query(w *World, ids ...component.ComponentID) []Entity {
	if w == nil || len(ids) == 0 {
		return nil
	}
	stores := make([]store, 0, len(ids))
	for _, id := range ids {
		s := w.store(id)
		if s == nil {
			return nil
		}
		stores = append(stores, s)
	}
	// iterate smallest set
	sort.Slice(stores, func(i, j int) bool { return stores[i].len() < stores[j].len() })

	var out []Entity
	for _, e := range stores[0].entities() {
		if !w.entities.isAlive(e) {
			continue
		}
		ok := true
		for _, s := range stores[1:] {
			if !s.has(e) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].slot() < out[j].slot() })
	return out
}

// First returns the lowest-id entity holding kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	ents := Query(w, kind.ID())
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}
