package voxel

import "iter"

// Set is a sparse set of voxels that remembers insertion order. Each member
// has a dense index equal to its insertion position.
type Set struct {
	index map[Voxel]int
	order []Voxel
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{index: make(map[Voxel]int)}
}

// Add inserts v if absent and returns its dense index.
func (s *Set) Add(v Voxel) (idx int, added bool) {
	if i, ok := s.index[v]; ok {
		return i, false
	}
	i := len(s.order)
	s.index[v] = i
	s.order = append(s.order, v)
	return i, true
}

// Index returns v's dense index.
func (s *Set) Index(v Voxel) (int, bool) {
	i, ok := s.index[v]
	return i, ok
}

func (s *Set) Has(v Voxel) bool {
	_, ok := s.index[v]
	return ok
}

func (s *Set) Len() int {
	return len(s.order)
}

// All yields members with their dense index in insertion order.
func (s *Set) All() iter.Seq2[int, Voxel] {
	return func(yield func(int, Voxel) bool) {
		for i, v := range s.order {
			if !yield(i, v) {
				return
			}
		}
	}
}

// EdgeMap is a sparse map from directed edges to values that iterates in
// insertion order. An edge and its reverse are different keys.
type EdgeMap[T any] struct {
	index map[Edge]int
	keys  []Edge
	vals  []T
	def   T
}

// NewEdgeMap returns an empty map whose lookups of unset edges yield def.
func NewEdgeMap[T any](def T) *EdgeMap[T] {
	return &EdgeMap[T]{index: make(map[Edge]int), def: def}
}

// Set stores val under e, replacing any previous value.
func (m *EdgeMap[T]) Set(e Edge, val T) {
	if i, ok := m.index[e]; ok {
		m.vals[i] = val
		return
	}
	m.index[e] = len(m.keys)
	m.keys = append(m.keys, e)
	m.vals = append(m.vals, val)
}

// Get returns the value stored under e.
func (m *EdgeMap[T]) Get(e Edge) (T, bool) {
	i, ok := m.index[e]
	if !ok {
		var zero T
		return zero, false
	}
	return m.vals[i], true
}

// Value returns the value stored under e or the map's default.
func (m *EdgeMap[T]) Value(e Edge) T {
	if v, ok := m.Get(e); ok {
		return v
	}
	return m.def
}

// IsSet reports whether e has a value.
func (m *EdgeMap[T]) IsSet(e Edge) bool {
	_, ok := m.index[e]
	return ok
}

func (m *EdgeMap[T]) Len() int {
	return len(m.keys)
}

// All yields entries in insertion order.
func (m *EdgeMap[T]) All() iter.Seq2[Edge, T] {
	return func(yield func(Edge, T) bool) {
		for i, e := range m.keys {
			if !yield(e, m.vals[i]) {
				return
			}
		}
	}
}
