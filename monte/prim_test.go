package monte

import "testing"

func TestPrim_Validate_RejectsEmptySites(t *testing.T) {
	p := &Prim{}
	if err := p.Validate(); err == nil {
		t.Error("expected error for prim with no sites")
	}
}

func TestPrim_Validate_RejectsComponentIndicesLengthMismatch(t *testing.T) {
	p := &Prim{Sites: []PrimSite{
		{AllowedOccupants: []string{"A", "B"}, ComponentIndices: []int{0}},
	}}
	if err := p.Validate(); err == nil {
		t.Error("expected error for mismatched component-indices length")
	}
}

func TestPrim_NumComponents_FallsBackToAllowedOccupants(t *testing.T) {
	p := &Prim{Sites: []PrimSite{
		{AllowedOccupants: []string{"A", "B", "C"}},
	}}
	if p.NumComponents() != 3 {
		t.Errorf("NumComponents = %d, want 3", p.NumComponents())
	}
}

func TestPrim_NumComponents_UsesExplicitComponentIndices(t *testing.T) {
	p := &Prim{Sites: []PrimSite{
		{AllowedOccupants: []string{"A", "Va"}, ComponentIndices: []int{0, 2}},
		{AllowedOccupants: []string{"B"}, ComponentIndices: []int{1}},
	}}
	if p.NumComponents() != 3 {
		t.Errorf("NumComponents = %d, want 3", p.NumComponents())
	}
}

func TestPrim_ComponentIndex_FallsBackToOccIdx(t *testing.T) {
	p := &Prim{Sites: []PrimSite{{AllowedOccupants: []string{"A", "B"}}}}
	if p.ComponentIndex(0, 1) != 1 {
		t.Errorf("ComponentIndex fallback = %d, want 1", p.ComponentIndex(0, 1))
	}
}

func TestPrim_NumAsymUnits(t *testing.T) {
	p := &Prim{Sites: []PrimSite{{AsymUnit: 0}, {AsymUnit: 2}, {AsymUnit: 1}}}
	if p.NumAsymUnits() != 3 {
		t.Errorf("NumAsymUnits = %d, want 3", p.NumAsymUnits())
	}
}

func TestPrim_OccupantIndex(t *testing.T) {
	p := &Prim{Sites: []PrimSite{{AllowedOccupants: []string{"A", "B"}}}}
	if p.OccupantIndex(0, "B") != 1 {
		t.Errorf("OccupantIndex(B) = %d, want 1", p.OccupantIndex(0, "B"))
	}
	if p.OccupantIndex(0, "Z") != -1 {
		t.Errorf("OccupantIndex(Z) = %d, want -1", p.OccupantIndex(0, "Z"))
	}
}
