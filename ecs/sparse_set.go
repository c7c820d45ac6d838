package ecs

// store is the type-erased view of a component set the world needs for
// entity teardown and queries.
type store interface {
	has(e Entity) bool
	remove(e Entity) bool
	entities() []Entity
	len() int
}

// sparseSet stores one component type densely, keyed by entity slot id.
type sparseSet[T any] struct {
	dense  []Entity
	values []*T
	sparse []int
}

func newSparseSet[T any]() *sparseSet[T] {
	return &sparseSet[T]{}
}

func (s *sparseSet[T]) index(e Entity) (int, bool) {
	id := int(e.slot())
	if id <= 0 || id-1 >= len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[id-1]
	if idx < 0 || idx >= len(s.dense) || s.dense[idx] != e {
		return 0, false
	}
	return idx, true
}

func (s *sparseSet[T]) has(e Entity) bool {
	_, ok := s.index(e)
	return ok
}

func (s *sparseSet[T]) get(e Entity) (*T, bool) {
	idx, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return s.values[idx], true
}

// set inserts or replaces the component for e.
func (s *sparseSet[T]) set(e Entity, v *T) {
	if idx, ok := s.index(e); ok {
		s.values[idx] = v
		return
	}
	id := int(e.slot())
	for id-1 >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	// a stale generation may still occupy the slot
	if old := s.sparse[id-1]; old >= 0 && old < len(s.dense) && s.dense[old].slot() == e.slot() {
		s.dense[old] = e
		s.values[old] = v
		return
	}
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
	s.sparse[id-1] = len(s.dense) - 1
}

// remove swaps the last element into the removed slot.
func (s *sparseSet[T]) remove(e Entity) bool {
	idx, ok := s.index(e)
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	moved := s.dense[last]

	s.dense[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[moved.slot()-1] = idx

	s.dense = s.dense[:last]
	s.values[last] = nil
	s.values = s.values[:last]
	s.sparse[e.slot()-1] = -1
	return true
}

func (s *sparseSet[T]) entities() []Entity {
	return s.dense
}

func (s *sparseSet[T]) len() int {
	return len(s.dense)
}
