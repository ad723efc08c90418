package monte

import (
	"testing"
)

func TestMolCompositionOf_AllOneSpecies(t *testing.T) {
	prim := testBinaryPrim()
	sc := testCubicSupercell(prim, 2)
	occ := make(Occupation, sc.NumSites())
	mol := MolCompositionOf(prim, sc, occ)
	if len(mol) != 2 {
		t.Fatalf("len(mol) = %d, want 2", len(mol))
	}
	if mol[0] != 1 || mol[1] != 0 {
		t.Errorf("mol = %v, want [1 0]", mol)
	}
}

func TestMolCompositionOf_MixedOccupation(t *testing.T) {
	prim := testBinaryPrim()
	sc := testCubicSupercell(prim, 2) // 8 sites
	occ := make(Occupation, sc.NumSites())
	occ[0], occ[1], occ[2] = 1, 1, 1 // 3 B, 5 A
	mol := MolCompositionOf(prim, sc, occ)
	if mol[0] != 0.625 || mol[1] != 0.375 {
		t.Errorf("mol = %v, want [0.625 0.375]", mol)
	}
}
