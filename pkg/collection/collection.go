// Package collection holds generic slice helpers used by the service
// and analytics layers.
package collection

import "sort"

// Map transforms each element of s with fn.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter keeps the elements for which fn is true.
func Filter[T any](s []T, fn func(T) bool) []T {
	var out []T
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// First returns the first element matching fn.
func First[T any](s []T, fn func(T) bool) (T, bool) {
	for _, v := range s {
		if fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Contains reports whether any element matches fn.
func Contains[T any](s []T, fn func(T) bool) bool {
	_, ok := First(s, fn)
	return ok
}

// GroupBy buckets elements by the key fn produces.
func GroupBy[T any, K comparable](s []T, fn func(T) K) map[K][]T {
	out := map[K][]T{}
	for _, v := range s {
		k := fn(v)
		out[k] = append(out[k], v)
	}
	return out
}

// Pluck extracts one field from each element.
func Pluck[T any, R any](s []T, fn func(T) R) []R {
	return Map(s, fn)
}

// Unique drops duplicate keys, keeping first occurrences in order.
func Unique[T any, K comparable](s []T, fn func(T) K) []T {
	seen := map[K]bool{}
	var out []T
	for _, v := range s {
		k := fn(v)
		if !seen[k] {
			seen[k] = true
			out = append(out, v)
		}
	}
	return out
}

// SumBy totals the values fn extracts.
func SumBy[T any](s []T, fn func(T) float64) float64 {
	var total float64
	for _, v := range s {
		total += fn(v)
	}
	return total
}

// SortBy returns a copy of s sorted stably by the comparison.
func SortBy[T any](s []T, less func(a, b T) bool) []T {
	out := make([]T, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Chunk splits s into pieces of at most size elements.
func Chunk[T any](s []T, size int) [][]T {
	if size < 1 {
		return nil
	}
	var out [][]T
	for start := 0; start < len(s); start += size {
		end := start + size
		if end > len(s) {
			end = len(s)
		}
		out = append(out, s[start:end])
	}
	return out
}
