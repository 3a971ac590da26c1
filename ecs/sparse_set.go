package ecs

// sparseSet stores one component kind keyed by entity slot id. Values are kept
// densely packed for iteration; removal swaps the last element into the hole.
type sparseSet struct {
	dense  []Entity
	values []any
	sparse []int
}

func (s *sparseSet) has(e Entity) bool {
	id := int(e.id())
	if s == nil || id <= 0 || id-1 >= len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.dense) && s.dense[idx] == e
}

func (s *sparseSet) get(e Entity) (any, bool) {
	if !s.has(e) {
		return nil, false
	}
	return s.values[s.sparse[int(e.id())-1]], true
}

func (s *sparseSet) set(e Entity, v any) {
	id := int(e.id())
	if id <= 0 {
		return
	}
	for id-1 >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if idx := s.sparse[id-1]; idx >= 0 && idx < len(s.dense) && s.dense[idx].id() == e.id() {
		s.dense[idx] = e
		s.values[idx] = v
		return
	}
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
	s.sparse[id-1] = len(s.dense) - 1
}

func (s *sparseSet) remove(e Entity) bool {
	if !s.has(e) {
		return false
	}
	id := int(e.id())
	idx := s.sparse[id-1]
	last := len(s.dense) - 1
	moved := s.dense[last]

	s.dense[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[int(moved.id())-1] = idx

	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[id-1] = -1
	return true
}

func (s *sparseSet) len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}
