package monte

import (
	"testing"
)

func TestNewSupercell_RejectsNonPositiveDeterminant(t *testing.T) {
	prim := testBinaryPrim()
	t0 := [3][3]int64{{0, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	if _, err := NewSupercell(prim, t0); err == nil {
		t.Error("expected error for a singular transformation matrix")
	}
}

func TestSupercell_VolumeAndNumSites(t *testing.T) {
	prim := testBinaryPrim()
	sc := testCubicSupercell(prim, 2)
	if sc.Volume() != 8 {
		t.Errorf("Volume() = %d, want 8", sc.Volume())
	}
	if sc.NumSites() != 8 {
		t.Errorf("NumSites() = %d, want 8 (B=1)", sc.NumSites())
	}
}

// TestSupercell_UnitCellIndex_RoundTripsWithUnitCellCoord verifies the
// UnitCellCoord <-> UnitCellIndex inverse relationship the kmc package
// relies on to translate hop-template offsets into linear site indices.
func TestSupercell_UnitCellIndex_RoundTripsWithUnitCellCoord(t *testing.T) {
	prim := testBinaryPrim()
	sc := testCubicSupercell(prim, 3)
	for linear := 0; linear < int(sc.Volume()); linear++ {
		uc := sc.UnitCellCoord(linear)
		if got := sc.UnitCellIndex(uc); got != linear {
			t.Errorf("UnitCellIndex(UnitCellCoord(%d)) = %d, want %d", linear, got, linear)
		}
	}
}

func TestSupercell_UnitCellIndex_BijectiveOverVolume(t *testing.T) {
	prim := testBinaryPrim()
	sc := testCubicSupercell(prim, 3)
	seen := make(map[int]bool)
	for i0 := int64(0); i0 < 3; i0++ {
		for i1 := int64(0); i1 < 3; i1++ {
			for i2 := int64(0); i2 < 3; i2++ {
				idx := sc.UnitCellIndex([3]int64{i0, i1, i2})
				if idx < 0 || idx >= int(sc.Volume()) {
					t.Fatalf("UnitCellIndex out of range: %d", idx)
				}
				if seen[idx] {
					t.Fatalf("UnitCellIndex collision at %d", idx)
				}
				seen[idx] = true
			}
		}
	}
}

func TestSupercell_LinearSiteIndex_RoundTrip(t *testing.T) {
	prim := testBinaryPrim()
	sc := testCubicSupercell(prim, 2)
	for l := 0; l < sc.NumSites(); l++ {
		b, uc := sc.SiteBasisAndUnitCell(l)
		if got := sc.LinearSiteIndex(b, uc); got != l {
			t.Errorf("LinearSiteIndex(%d, %d) = %d, want %d", b, uc, got, l)
		}
	}
}

func TestSupercell_ValidateOccupation(t *testing.T) {
	prim := testBinaryPrim()
	sc := testCubicSupercell(prim, 2)
	occ := make(Occupation, sc.NumSites())
	if err := sc.ValidateOccupation(occ); err != nil {
		t.Errorf("unexpected error for valid occupation: %v", err)
	}
	if err := sc.ValidateOccupation(occ[:len(occ)-1]); err == nil {
		t.Error("expected error for wrong-length occupation")
	}
	bad := make(Occupation, sc.NumSites())
	bad[0] = 99
	if err := sc.ValidateOccupation(bad); err == nil {
		t.Error("expected error for out-of-range occupant value")
	}
}
