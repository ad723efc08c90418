// Package testutil provides small, shared fixtures (a toy binary simple-cubic
// prim, a point-plus-pair clexulator) so package tests don't each hand-roll
// their own lattice, grounded on the teacher's sim/internal/testutil
// convention of centralizing test-only construction helpers.
package testutil

import "github.com/clexmonte/clexmonte-go/monte"

// BinaryPrim returns a single-site, two-occupant ("A", "B") cubic prim,
// the minimal lattice spec §8's scenarios exercise.
func BinaryPrim() *monte.Prim {
	return &monte.Prim{
		Lattice: [3][3]float64{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
		Sites: []monte.PrimSite{
			{
				Coordinate:       [3]float64{0, 0, 0},
				AllowedOccupants: []string{"A", "B"},
				AsymUnit:         0,
			},
		},
	}
}

// CubicSupercell builds an n x n x n supercell of prim.
func CubicSupercell(prim *monte.Prim, n int64) *monte.Supercell {
	t := [3][3]int64{{n, 0, 0}, {0, n, 0}, {0, 0, n}}
	sc, err := monte.NewSupercell(prim, t)
	if err != nil {
		panic(err) // test fixture: a bad n is a test bug, not a runtime case
	}
	return sc
}

// NearestNeighborOffsets returns the six +-1 cubic nearest-neighbor
// offsets plus the origin, the window a simple pairwise Ising CE needs.
func NearestNeighborOffsets() []monte.NeighborOffset {
	return []monte.NeighborOffset{
		{Basis: 0, Translation: [3]int64{0, 0, 0}},
		{Basis: 0, Translation: [3]int64{1, 0, 0}},
		{Basis: 0, Translation: [3]int64{-1, 0, 0}},
		{Basis: 0, Translation: [3]int64{0, 1, 0}},
		{Basis: 0, Translation: [3]int64{0, -1, 0}},
		{Basis: 0, Translation: [3]int64{0, 0, 1}},
		{Basis: 0, Translation: [3]int64{0, 0, -1}},
	}
}

// PairClexulator returns a Clexulator with seven correlations: a point
// orbit (the origin spin, position 0) followed by six nearest-neighbor
// pair orbits, one per bond (origin spin times the spin at position i,
// i = 1..6), each kept separate. Kept deliberately simple: tests care
// about delta-evaluation consistency, not a physically calibrated basis.
func PairClexulator() *monte.DenseClexulator {
	pairOrbits := make([]monte.Orbit, 0, 6)
	for i := 1; i <= 6; i++ {
		pairOrbits = append(pairOrbits, monte.Orbit{Positions: []int{0, i}})
	}
	orbits := append([]monte.Orbit{{Positions: []int{0}}}, pairOrbits...)
	return &monte.DenseClexulator{Orbits: orbits, SiteFunction: monte.BinarySpinFunction}
}
