package analytics

import (
	"math/rand"
	"testing"
)

func isOrdered(vals []int, reverse bool) bool {
	for i := 1; i < len(vals); i++ {
		if reverse && vals[i-1] < vals[i] {
			return false
		}
		if !reverse && vals[i-1] > vals[i] {
			return false
		}
	}
	return true
}

func countElements(vals []int) map[int]int {
	counts := make(map[int]int)
	for _, v := range vals {
		counts[v]++
	}
	return counts
}

func TestSort(t *testing.T) {
	tests := []struct {
		name    string
		input   []int
		reverse bool
		want    []int
	}{
		{
			name:  "mixed values ascending",
			input: []int{64, 34, 25, 12, 22, 11, 90},
			want:  []int{11, 12, 22, 25, 34, 64, 90},
		},
		{
			name:    "mixed values descending",
			input:   []int{64, 34, 25, 12, 22, 11, 90},
			reverse: true,
			want:    []int{90, 64, 34, 25, 22, 12, 11},
		},
		{
			name:  "already sorted exercises worst-case partitioning",
			input: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			want:  []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
		{
			name:  "reverse sorted",
			input: []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
			want:  []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
		{
			name:    "already descending with reverse flag hits worst case too",
			input:   []int{5, 4, 3, 2, 1},
			reverse: true,
			want:    []int{5, 4, 3, 2, 1},
		},
		{
			name:  "duplicates",
			input: []int{3, 1, 3, 2, 1, 3},
			want:  []int{1, 1, 2, 3, 3, 3},
		},
		{
			name:  "empty input",
			input: []int{},
			want:  []int{},
		},
		{
			name:  "singleton",
			input: []int{42},
			want:  []int{42},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortValues(tt.input, tt.reverse)
			if len(got) != len(tt.want) {
				t.Fatalf("length = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("result = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	input := []int{3, 1, 2}
	_ = SortValues(input, false)
	if input[0] != 3 || input[1] != 1 || input[2] != 2 {
		t.Errorf("input mutated: %v", input)
	}
}

func TestSort_KeyExtraction(t *testing.T) {
	type trip struct {
		id    string
		miles float64
	}
	trips := []trip{
		{id: "a", miles: 4.2},
		{id: "b", miles: 0.5},
		{id: "c", miles: 12.8},
	}

	got := Sort(trips, func(t trip) float64 { return t.miles }, false)
	if got[0].id != "b" || got[1].id != "a" || got[2].id != "c" {
		t.Errorf("sorted by miles = %v", got)
	}

	got = Sort(trips, func(t trip) float64 { return t.miles }, true)
	if got[0].id != "c" || got[2].id != "b" {
		t.Errorf("reverse sorted by miles = %v", got)
	}
}

func TestSort_RandomPermutationProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		input := make([]int, rng.Intn(200))
		for i := range input {
			input[i] = rng.Intn(40)
		}

		for _, reverse := range []bool{false, true} {
			got := SortValues(input, reverse)
			if !isOrdered(got, reverse) {
				t.Fatalf("output not ordered (reverse=%v): %v", reverse, got)
			}
			before := countElements(input)
			after := countElements(got)
			if len(before) != len(after) {
				t.Fatalf("output not a permutation of input")
			}
			for k, v := range before {
				if after[k] != v {
					t.Fatalf("output not a permutation: count of %d is %d, want %d", k, after[k], v)
				}
			}
		}
	}
}
