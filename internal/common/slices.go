package common

import (
	"cmp"
	"slices"
)

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// Set builds a lookup set from the given values.
func Set[S ~[]E, E comparable](s S) map[E]struct{} {
	set := make(map[E]struct{}, len(s))
	for _, v := range s {
		set[v] = struct{}{}
	}

	return set
}
