// Package analytics implements the query-time algorithms: ordering,
// quartile statistics with IQR outlier detection, and route-frequency
// ranking. All operations allocate fresh working state per call and are
// safe for concurrent readers.
package analytics

import "cmp"

// Sort returns a new slice with the same items ordered ascending by key,
// or descending when reverse is set. The input is never mutated.
//
// The implementation is a single-pivot quicksort with Lomuto partitioning
// and a fixed last-element pivot. That pivot choice is part of the
// behavioral contract here, including its known O(n^2) worst case on
// input that is already sorted in the chosen direction; average case is
// O(n log n). The sort is not stable.
func Sort[T any, K cmp.Ordered](items []T, key func(T) K, reverse bool) []T {
	if len(items) == 0 {
		return []T{}
	}

	result := make([]T, len(items))
	copy(result, items)

	quicksort(result, key, reverse, 0, len(result)-1)
	return result
}

// SortValues orders a plain value slice without a key extractor.
func SortValues[K cmp.Ordered](values []K, reverse bool) []K {
	return Sort(values, func(v K) K { return v }, reverse)
}

func quicksort[T any, K cmp.Ordered](items []T, key func(T) K, reverse bool, low, high int) {
	if low >= high {
		return
	}
	p := partition(items, key, reverse, low, high)
	quicksort(items, key, reverse, low, p-1)
	quicksort(items, key, reverse, p+1, high)
}

// partition places the pivot (the last element of the sub-range) at its
// final position, moving elements strictly less than it (strictly greater
// when reversed) to its left.
func partition[T any, K cmp.Ordered](items []T, key func(T) K, reverse bool, low, high int) int {
	pivot := key(items[high])
	i := low - 1

	for j := low; j < high; j++ {
		current := key(items[j])

		var shouldSwap bool
		if reverse {
			shouldSwap = current > pivot
		} else {
			shouldSwap = current < pivot
		}

		if shouldSwap {
			i++
			items[i], items[j] = items[j], items[i]
		}
	}

	items[i+1], items[high] = items[high], items[i+1]
	return i + 1
}
