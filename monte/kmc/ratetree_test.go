package kmc

import (
	"math"
	"math/rand"
	"testing"
)

func TestRateTree_TotalMatchesSum(t *testing.T) {
	rates := []float64{1, 2, 3, 4, 5}
	rt := NewRateTree(rates)
	want := 15.0
	if got := rt.Total(); got != want {
		t.Errorf("Total() = %v, want %v", got, want)
	}
}

func TestRateTree_UpdateAdjustsTotal(t *testing.T) {
	rt := NewRateTree([]float64{1, 1, 1})
	rt.Update(1, 5)
	if got := rt.Total(); got != 7 {
		t.Errorf("Total() after update = %v, want 7", got)
	}
	if got := rt.Rate(1); got != 5 {
		t.Errorf("Rate(1) = %v, want 5", got)
	}
}

// TestRateTree_SelectCoversFullRange checks cumulative-rate selection:
// Select over the full [0, Total()) range must
// always land in-bounds and the cumulative sum up to (and excluding) the
// selected index must not exceed u, while including it must exceed u.
func TestRateTree_SelectCoversFullRange(t *testing.T) {
	rates := []float64{0.5, 1.5, 0, 3.0, 2.0}
	rt := NewRateTree(rates)
	total := rt.Total()
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 1000; trial++ {
		u := rng.Float64() * total
		idx := rt.Select(u)
		if idx < 0 || idx >= len(rates) {
			t.Fatalf("Select(%v) = %d, out of bounds", u, idx)
		}
		var prefixBefore, prefixThrough float64
		for i := 0; i <= idx; i++ {
			if i < idx {
				prefixBefore += rates[i]
			}
			prefixThrough += rates[i]
		}
		if prefixBefore > u+1e-9 {
			t.Errorf("Select(%v) = %d: prefix before idx (%v) exceeds u", u, idx, prefixBefore)
		}
		if prefixThrough < u-1e-9 {
			t.Errorf("Select(%v) = %d: prefix through idx (%v) does not reach u", u, idx, prefixThrough)
		}
	}
}

func TestRateTree_ResyncPreservesTotal(t *testing.T) {
	rt := NewRateTree([]float64{1, 2, 3})
	for i := 0; i < 100; i++ {
		rt.Update(i%3, float64(i%3)+0.125)
	}
	before := rt.Total()
	rt.Resync()
	after := rt.Total()
	if math.Abs(before-after) > 1e-9 {
		t.Errorf("Resync changed Total from %v to %v", before, after)
	}
}

func TestRateTree_Len(t *testing.T) {
	rt := NewRateTree([]float64{1, 2, 3, 4})
	if rt.Len() != 4 {
		t.Errorf("Len() = %d, want 4", rt.Len())
	}
}
