package monte

// MolCompositionOf computes mol_composition (species per unit cell) from
// the current occupation, for the given prim/supercell. O(N); intended for
// Potential.ExtensiveValue (full recompute), not the per-event delta path.
func MolCompositionOf(prim *Prim, sc *Supercell, occ Occupation) []float64 {
	counts := make([]float64, prim.NumComponents())
	for l, occIdx := range occ {
		b, _ := sc.SiteBasisAndUnitCell(l)
		counts[prim.ComponentIndex(b, occIdx)]++
	}
	v := float64(sc.Volume())
	for i := range counts {
		counts[i] /= v
	}
	return counts
}
