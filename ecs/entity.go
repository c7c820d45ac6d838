package ecs

import "fmt"

// Entity is a slot number in the low 32 bits and that slot's generation in
// the high 32. Destroying an entity bumps the generation, so stale handles
// stop resolving once the slot is reused.
type Entity uint64

const slotBits = 32

func packEntity(slot, gen uint32) Entity {
	return Entity(uint64(gen)<<slotBits | uint64(slot))
}

func (e Entity) slot() uint32 {
	return uint32(e)
}

func (e Entity) gen() uint32 {
	return uint32(e >> slotBits)
}

func (e Entity) String() string {
	return fmt.Sprintf("%dv%d", e.slot(), e.gen())
}

// Valid reports whether e was ever handed out. Use IsAlive for liveness.
func (e Entity) Valid() bool {
	return e.slot() != 0
}

// entityStore hands out entities. Slot 0 is reserved so the zero Entity
// never resolves.
type entityStore struct {
	gens  []uint32
	alive []bool
	free  []uint32
	live  int
}

func (s *entityStore) create() Entity {
	var slot uint32
	if n := len(s.free); n > 0 {
		slot, s.free = s.free[n-1], s.free[:n-1]
	} else {
		s.gens = append(s.gens, 0)
		s.alive = append(s.alive, false)
		slot = uint32(len(s.gens))
	}
	s.alive[slot-1] = true
	s.live++
	return packEntity(slot, s.gens[slot-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	i := e.slot() - 1
	s.gens[i]++
	s.alive[i] = false
	s.free = append(s.free, e.slot())
	s.live--
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	slot := e.slot()
	if slot == 0 || int(slot) > len(s.gens) {
		return false
	}
	return s.alive[slot-1] && s.gens[slot-1] == e.gen()
}

func (s *entityStore) all() []Entity {
	out := make([]Entity, 0, s.live)
	for i, alive := range s.alive {
		if alive {
			out = append(out, packEntity(uint32(i+1), s.gens[i]))
		}
	}
	return out
}
