package monte

// Local equivalents of monte/internal/testutil's fixtures, needed here
// because this package's own tests (package monte) cannot import
// internal/testutil without an import cycle (testutil imports monte).

func testBinaryPrim() *Prim {
	return &Prim{
		Lattice: [3][3]float64{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
		Sites: []PrimSite{
			{
				Coordinate:       [3]float64{0, 0, 0},
				AllowedOccupants: []string{"A", "B"},
				AsymUnit:         0,
			},
		},
	}
}

func testCubicSupercell(prim *Prim, n int64) *Supercell {
	t := [3][3]int64{{n, 0, 0}, {0, n, 0}, {0, 0, n}}
	sc, err := NewSupercell(prim, t)
	if err != nil {
		panic(err)
	}
	return sc
}

func testNearestNeighborOffsets() []NeighborOffset {
	return []NeighborOffset{
		{Basis: 0, Translation: [3]int64{0, 0, 0}},
		{Basis: 0, Translation: [3]int64{1, 0, 0}},
		{Basis: 0, Translation: [3]int64{-1, 0, 0}},
		{Basis: 0, Translation: [3]int64{0, 1, 0}},
		{Basis: 0, Translation: [3]int64{0, -1, 0}},
		{Basis: 0, Translation: [3]int64{0, 0, 1}},
		{Basis: 0, Translation: [3]int64{0, 0, -1}},
	}
}

func testPairClexulator() *DenseClexulator {
	pairOrbits := make([]Orbit, 0, 6)
	for i := 1; i <= 6; i++ {
		pairOrbits = append(pairOrbits, Orbit{Positions: []int{0, i}})
	}
	orbits := append([]Orbit{{Positions: []int{0}}}, pairOrbits...)
	return &DenseClexulator{Orbits: orbits, SiteFunction: BinarySpinFunction}
}
