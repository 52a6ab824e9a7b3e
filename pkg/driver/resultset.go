// Package driver runs the engines over parameter grids and collects their
// results.
package driver

import (
	"cmp"
	"slices"
)

// ResultSet maps setting keys to results. Keys keep insertion order and the
// first result stored under a key wins.
type ResultSet[K cmp.Ordered, V any] struct {
	keys   []K
	values map[K]V
}

// NewResultSet creates an empty set.
func NewResultSet[K cmp.Ordered, V any]() *ResultSet[K, V] {
	return &ResultSet[K, V]{values: make(map[K]V)}
}

// Add stores v under k unless k is already present, and reports whether it
// stored it.
func (s *ResultSet[K, V]) Add(k K, v V) bool {
	if _, ok := s.values[k]; ok {
		return false
	}
	s.keys = append(s.keys, k)
	s.values[k] = v
	return true
}

// Has reports whether k is present.
func (s *ResultSet[K, V]) Has(k K) bool {
	_, ok := s.values[k]
	return ok
}

// Get returns the result stored under k.
func (s *ResultSet[K, V]) Get(k K) (V, bool) {
	v, ok := s.values[k]
	return v, ok
}

// Len is the number of results.
func (s *ResultSet[K, V]) Len() int {
	return len(s.keys)
}

// Keys lists keys in insertion order.
func (s *ResultSet[K, V]) Keys() []K {
	return slices.Clone(s.keys)
}

// SortedKeys lists keys in ascending order.
func (s *ResultSet[K, V]) SortedKeys() []K {
	keys := slices.Clone(s.keys)
	slices.Sort(keys)
	return keys
}
