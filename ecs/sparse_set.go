package ecs

// SparseSet stores one T per entity in a dense slice. Removal swaps the last
// element into the hole, so iteration order is not stable across removals.
type SparseSet[T any] struct {
	denseEntities []Entity
	denseValues   []T
	sparse        []int
}

// NewSparseSet returns an empty set.
func NewSparseSet[T any]() *SparseSet[T] {
	return &SparseSet[T]{}
}

func (s *SparseSet[T]) index(e Entity) (int, bool) {
	if s == nil || !e.Valid() {
		return 0, false
	}
	slot := int(e.id()) - 1
	if slot >= len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[slot]
	if idx < 0 || idx >= len(s.denseEntities) || s.denseEntities[idx] != e {
		return 0, false
	}
	return idx, true
}

// Has reports whether e has a value in the set.
func (s *SparseSet[T]) Has(e Entity) bool {
	_, ok := s.index(e)
	return ok
}

// Get returns a pointer into dense storage. It is invalidated by Set and Remove.
func (s *SparseSet[T]) Get(e Entity) (*T, bool) {
	idx, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return &s.denseValues[idx], true
}

// Set inserts or replaces the value for e.
func (s *SparseSet[T]) Set(e Entity, v T) {
	if s == nil || !e.Valid() {
		return
	}
	if idx, ok := s.index(e); ok {
		s.denseValues[idx] = v
		return
	}
	slot := int(e.id()) - 1
	for len(s.sparse) <= slot {
		s.sparse = append(s.sparse, -1)
	}
	// a stale generation in the same slot is replaced in place
	if idx := s.sparse[slot]; idx >= 0 && idx < len(s.denseEntities) && s.denseEntities[idx].id() == e.id() {
		s.denseEntities[idx] = e
		s.denseValues[idx] = v
		return
	}
	s.denseEntities = append(s.denseEntities, e)
	s.denseValues = append(s.denseValues, v)
	s.sparse[slot] = len(s.denseEntities) - 1
}

// Remove deletes e's value and reports whether it was present.
func (s *SparseSet[T]) Remove(e Entity) bool {
	idx, ok := s.index(e)
	if !ok {
		return false
	}
	s.removeAt(idx)
	return true
}

func (s *SparseSet[T]) removeAt(idx int) {
	last := len(s.denseEntities) - 1
	removed := s.denseEntities[idx]
	moved := s.denseEntities[last]

	s.denseEntities[idx] = moved
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[int(moved.id())-1] = idx
	s.sparse[int(removed.id())-1] = -1

	var zero T
	s.denseValues[last] = zero
	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
}

// RemoveIf swap-removes every value matching fn and returns the removed
// entities.
func (s *SparseSet[T]) RemoveIf(fn func(Entity, *T) bool) []Entity {
	if s == nil {
		return nil
	}
	var removed []Entity
	for i := 0; i < len(s.denseEntities); {
		e := s.denseEntities[i]
		if fn(e, &s.denseValues[i]) {
			removed = append(removed, e)
			s.removeAt(i)
			continue
		}
		i++
	}
	return removed
}

// Each visits every value in dense order.
func (s *SparseSet[T]) Each(fn func(Entity, *T)) {
	if s == nil {
		return
	}
	for i := range s.denseEntities {
		fn(s.denseEntities[i], &s.denseValues[i])
	}
}

// Len returns the number of stored values.
func (s *SparseSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseEntities)
}

// Values returns the dense value list.
func (s *SparseSet[T]) Values() []T {
	if s == nil {
		return nil
	}
	return s.denseValues
}
