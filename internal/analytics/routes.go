package analytics

import "math"

// routePrecision is the number of decimal degrees route coordinates are
// rounded to before bucketing (roughly a 111 m grid).
const routePrecision = 3

// RouteKey is a pickup/dropoff coordinate pair rounded to routePrecision,
// bucketing nearby trips as the same route.
type RouteKey struct {
	PickupLon  float64 `json:"pickup_longitude"`
	PickupLat  float64 `json:"pickup_latitude"`
	DropoffLon float64 `json:"dropoff_longitude"`
	DropoffLat float64 `json:"dropoff_latitude"`
}

// RouteCount pairs a route with its observed trip count.
type RouteCount struct {
	Route RouteKey `json:"route"`
	Count int      `json:"trip_count"`
}

// FrequencyCounter accumulates route observations. Not safe for
// concurrent use; each query builds its own counter.
type FrequencyCounter struct {
	counts map[RouteKey]int
	order  []RouteKey
}

// NewFrequencyCounter creates an empty counter.
func NewFrequencyCounter() *FrequencyCounter {
	return &FrequencyCounter{counts: make(map[RouteKey]int)}
}

// Add records one trip between the given pickup and dropoff coordinates.
// Amortized O(1).
func (f *FrequencyCounter) Add(pickupLon, pickupLat, dropoffLon, dropoffLat float64) {
	key := RouteKey{
		PickupLon:  roundCoord(pickupLon),
		PickupLat:  roundCoord(pickupLat),
		DropoffLon: roundCoord(dropoffLon),
		DropoffLat: roundCoord(dropoffLat),
	}
	if _, seen := f.counts[key]; !seen {
		f.order = append(f.order, key)
	}
	f.counts[key]++
}

// UniqueCount reports the number of distinct routes seen so far.
func (f *FrequencyCounter) UniqueCount() int {
	return len(f.counts)
}

// TopK returns up to n routes in descending count order. Extraction is by
// repeated linear scan over a working copy: each pass takes the maximum
// remaining count, with ties going to the earliest-seen route, and removes
// it from the working set. O(n*m) for m distinct routes. The counter's own
// state is left intact.
func (f *FrequencyCounter) TopK(n int) []RouteCount {
	if len(f.counts) == 0 {
		return []RouteCount{}
	}

	working := make([]RouteCount, 0, len(f.order))
	for _, key := range f.order {
		working = append(working, RouteCount{Route: key, Count: f.counts[key]})
	}

	limit := n
	if limit > len(working) {
		limit = len(working)
	}

	result := make([]RouteCount, 0, limit)
	for len(result) < limit {
		maxIdx := 0
		for i := 1; i < len(working); i++ {
			if working[i].Count > working[maxIdx].Count {
				maxIdx = i
			}
		}
		result = append(result, working[maxIdx])
		working = append(working[:maxIdx], working[maxIdx+1:]...)
	}

	return result
}

func roundCoord(v float64) float64 {
	pow := math.Pow(10, routePrecision)
	return math.Round(v*pow) / pow
}
