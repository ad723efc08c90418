package io

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempYAML(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validSystemYAML = `
lattice:
  - [1, 0, 0]
  - [0, 1, 0]
  - [0, 0, 1]
sites:
  - coordinate: [0, 0, 0]
    allowed_occupants: ["A", "B"]
    asym_unit: 0
neighborhood_offsets:
  - basis: 0
    translation: [0, 0, 0]
  - basis: 0
    translation: [1, 0, 0]
coefficients: [0.5, 0.25]
`

func TestLoadSystem_ValidDocument(t *testing.T) {
	path := writeTempYAML(t, "system.yaml", validSystemYAML)
	sys, err := LoadSystem(path)
	if err != nil {
		t.Fatalf("LoadSystem: %v", err)
	}
	if len(sys.Sites) != 1 || len(sys.NeighborhoodOffsets) != 2 || len(sys.Coefficients) != 2 {
		t.Errorf("unexpected decoded shape: %+v", sys)
	}
}

func TestLoadSystem_RejectsUnknownField(t *testing.T) {
	path := writeTempYAML(t, "system.yaml", validSystemYAML+"\nbogus_field: 1\n")
	if _, err := LoadSystem(path); err == nil {
		t.Error("expected error for an unknown top-level field")
	}
}

func TestSystem_Validate_RejectsCoefficientOffsetMismatch(t *testing.T) {
	path := writeTempYAML(t, "system.yaml", `
lattice: [[1,0,0],[0,1,0],[0,0,1]]
sites:
  - coordinate: [0,0,0]
    allowed_occupants: ["A", "B"]
neighborhood_offsets:
  - basis: 0
    translation: [0,0,0]
coefficients: [0.1, 0.2]
`)
	if _, err := LoadSystem(path); err == nil {
		t.Error("expected error when coefficients length does not match neighborhood_offsets length")
	}
}

func TestSystem_Validate_RejectsEmptySites(t *testing.T) {
	s := &System{NeighborhoodOffsets: []OffsetSpec{{}}, Coefficients: []float64{1}}
	if err := s.Validate("doc.yaml"); err == nil {
		t.Error("expected error for no sites")
	}
}

func TestSystem_Prim_ConvertsSitesAndLattice(t *testing.T) {
	path := writeTempYAML(t, "system.yaml", validSystemYAML)
	sys, err := LoadSystem(path)
	if err != nil {
		t.Fatalf("LoadSystem: %v", err)
	}
	prim := sys.Prim()
	if prim.B() != 1 {
		t.Fatalf("B() = %d, want 1", prim.B())
	}
	if len(prim.Sites[0].AllowedOccupants) != 2 {
		t.Errorf("AllowedOccupants = %v, want 2 entries", prim.Sites[0].AllowedOccupants)
	}
}

func TestSystem_CompositionAxesOrNil(t *testing.T) {
	s := &System{}
	if s.CompositionAxesOrNil() != nil {
		t.Error("expected nil composition axes when undeclared")
	}
	s.CompositionAxes = &CompositionAxesSpec{Origin: []float64{1, 0}, EndMembers: [][]float64{{-1, 1}}}
	axes := s.CompositionAxesOrNil()
	if axes == nil || len(axes.Origin) != 2 {
		t.Errorf("unexpected converted axes: %+v", axes)
	}
}

func TestSystem_PrimEvents_ConvertsEventSpecs(t *testing.T) {
	s := &System{
		Events: []EventSpec{{
			Label:               "hop",
			NeighborhoodOffsets: []OffsetSpec{{Basis: 0, Translation: [3]int64{0, 0, 0}}, {Basis: 0, Translation: [3]int64{1, 0, 0}}},
			Hops:                []HopSpec{{FromOffset: 0, ToOffset: 1, DeltaUnitCell: [3]int64{1, 0, 0}}},
			KRAEnergy:           0.5,
			AttemptFrequency:    1e13,
		}},
	}
	events := s.PrimEvents()
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Label != "hop" || len(events[0].Hops) != 1 {
		t.Errorf("unexpected converted event: %+v", events[0])
	}
}
