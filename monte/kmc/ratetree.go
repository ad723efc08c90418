package kmc

import "math/bits"

// RateTree is a Fenwick (binary-indexed) tree over per-event rates,
// supporting O(log N) total-rate query, single-event update, and
// cumulative-rate selection (spec §4.G: "select an event in time
// proportional to log(number of events), not the number of events").
//
// Floating-point rate updates accumulate rounding error in the partial
// sums over many fired events; ResyncEvery in EventList periodically
// rebuilds the tree from the raw per-event rates to bound that drift
// (SPEC_FULL.md §C), rather than trusting the incremental updates
// indefinitely.
type RateTree struct {
	values []float64 // raw per-event rate, 0-indexed
	tree   []float64 // Fenwick partial sums, 1-indexed
	n      int
}

// NewRateTree builds a tree over the given initial rates.
func NewRateTree(rates []float64) *RateTree {
	t := &RateTree{
		values: append([]float64(nil), rates...),
		tree:   make([]float64, len(rates)+1),
		n:      len(rates),
	}
	t.rebuild()
	return t
}

func (t *RateTree) rebuild() {
	for i := range t.tree {
		t.tree[i] = 0
	}
	for i, v := range t.values {
		t.add(i, v)
	}
}

func (t *RateTree) add(i int, delta float64) {
	for i++; i <= t.n; i += i & (-i) {
		t.tree[i] += delta
	}
}

// Update sets event i's rate to newRate, adjusting the tree by the delta.
func (t *RateTree) Update(i int, newRate float64) {
	delta := newRate - t.values[i]
	t.values[i] = newRate
	t.add(i, delta)
}

// Rate returns event i's current raw rate.
func (t *RateTree) Rate(i int) float64 { return t.values[i] }

// Total returns the sum of all rates.
func (t *RateTree) Total() float64 {
	var sum float64
	for i := t.n; i > 0; i -= i & (-i) {
		sum += t.tree[i]
	}
	return sum
}

// Select returns the smallest index i such that the prefix sum of
// rates[0..i] exceeds u, for 0 <= u < Total(); the standard Fenwick
// "find by cumulative value" binary-lifting search over powers of two.
func (t *RateTree) Select(u float64) int {
	pos := 0
	logN := bits.Len(uint(t.n))
	for pw := 1 << uint(logN); pw > 0; pw >>= 1 {
		next := pos + pw
		if next <= t.n && t.tree[next] <= u {
			pos = next
			u -= t.tree[next]
		}
	}
	return pos // 0-indexed event whose cumulative range contains u
}

// Resync rebuilds the tree from scratch, eliminating accumulated
// floating-point drift from repeated incremental Update calls.
func (t *RateTree) Resync() { t.rebuild() }

// Len returns the number of events tracked.
func (t *RateTree) Len() int { return t.n }
