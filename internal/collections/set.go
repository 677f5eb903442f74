// internal/collections/set.go
//
// Generic set used by the engine for cell-index sets (verified, wrong,
// revealed) and duplicate-word sets.
//
// Engine states are immutable values, so callers never Add/Remove on a set
// they did not just Clone. With/Without do the clone for them.

package collections

import (
	"cmp"
	"slices"
)

type Set[V comparable] map[V]struct{}

// NewSet builds a set holding the given values.
func NewSet[V comparable](values ...V) Set[V] {
	set := make(Set[V], len(values))
	for _, v := range values {
		set.Add(v)
	}
	return set
}

// Add an element to the set
func (set Set[V]) Add(value V) {
	set[value] = struct{}{}
}

// Remove an element from the set (or no-op if element not present)
func (set Set[V]) Remove(value V) {
	delete(set, value)
}

// Contains returns whether the element exists within the set. A nil set
// contains nothing.
func (set Set[V]) Contains(value V) bool {
	_, contains := set[value]
	return contains
}

// Len returns the number of elements.
func (set Set[V]) Len() int {
	return len(set)
}

// Clone returns an independent copy; cloning a nil set yields an empty one.
func (set Set[V]) Clone() Set[V] {
	out := make(Set[V], len(set))
	for v := range set {
		out[v] = struct{}{}
	}
	return out
}

// With returns a copy of the set that also holds value.
func (set Set[V]) With(value V) Set[V] {
	out := set.Clone()
	out.Add(value)
	return out
}

// Without returns a copy of the set that no longer holds value.
func (set Set[V]) Without(value V) Set[V] {
	out := set.Clone()
	out.Remove(value)
	return out
}

// Equal reports whether both sets hold exactly the same elements.
func (set Set[V]) Equal(other Set[V]) bool {
	if len(set) != len(other) {
		return false
	}
	for v := range set {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// Sorted returns the elements in ascending order.
func Sorted[V cmp.Ordered](set Set[V]) []V {
	out := make([]V, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
