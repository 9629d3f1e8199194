package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyCounter_AddAndUniqueCount(t *testing.T) {
	f := NewFrequencyCounter()
	assert.Equal(t, 0, f.UniqueCount())

	// Two pickups within the same 3-decimal bucket collapse to one route.
	f.Add(-73.9801, 40.7602, -73.9604, 40.7702)
	f.Add(-73.98012, 40.76018, -73.96041, 40.77019)
	assert.Equal(t, 1, f.UniqueCount())

	f.Add(-73.9902, 40.7503, -73.9703, 40.7603)
	assert.Equal(t, 2, f.UniqueCount())
}

func TestFrequencyCounter_TopK(t *testing.T) {
	f := NewFrequencyCounter()
	addN := func(n int, pLon, pLat, dLon, dLat float64) {
		for i := 0; i < n; i++ {
			f.Add(pLon, pLat, dLon, dLat)
		}
	}

	addN(3, -73.980, 40.760, -73.960, 40.770)
	addN(1, -73.990, 40.750, -73.970, 40.760)
	addN(5, -73.985, 40.755, -73.965, 40.765)
	addN(2, -73.995, 40.745, -73.975, 40.755)

	top := f.TopK(3)
	require.Len(t, top, 3)
	assert.Equal(t, 5, top[0].Count)
	assert.Equal(t, 3, top[1].Count)
	assert.Equal(t, 2, top[2].Count)
	assert.Equal(t, -73.985, top[0].Route.PickupLon)

	// Asking for more than exist returns them all, still descending.
	all := f.TopK(10)
	require.Len(t, all, 4)
	assert.Equal(t, 1, all[3].Count)

	// Extraction works on a copy; the counter is intact afterwards.
	assert.Equal(t, 4, f.UniqueCount())
	again := f.TopK(3)
	assert.Equal(t, top, again)
}

func TestFrequencyCounter_TopKTiesGoToFirstSeen(t *testing.T) {
	f := NewFrequencyCounter()
	f.Add(-73.901, 40.701, -73.801, 40.601) // route A
	f.Add(-73.902, 40.702, -73.802, 40.602) // route B
	f.Add(-73.903, 40.703, -73.803, 40.603) // route C
	f.Add(-73.902, 40.702, -73.802, 40.602) // B again -> count 2

	top := f.TopK(3)
	require.Len(t, top, 3)
	assert.Equal(t, 2, top[0].Count)
	assert.Equal(t, -73.902, top[0].Route.PickupLon)
	// A and C tie at 1; A was seen first.
	assert.Equal(t, -73.901, top[1].Route.PickupLon)
	assert.Equal(t, -73.903, top[2].Route.PickupLon)
}

func TestFrequencyCounter_EmptyTopK(t *testing.T) {
	f := NewFrequencyCounter()
	assert.Empty(t, f.TopK(5))
}

func TestRoundCoord(t *testing.T) {
	assert.Equal(t, -73.982, roundCoord(-73.98216))
	assert.Equal(t, 40.768, roundCoord(40.76794))
	assert.Equal(t, 40.768, roundCoord(40.76754))
}
