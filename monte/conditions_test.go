package monte

import (
	"math"
	"testing"
)

// TestCompositionAxes_RoundTripExact is the composition-axes round-trip
// scenario named in spec §6: mol -> param -> mol must agree with the
// original mol_composition to within 1e-12.
func TestCompositionAxes_RoundTripExact(t *testing.T) {
	axes := CompositionAxes{
		Origin: []float64{2, 0, 0},
		EndMembers: [][]float64{
			{-1, 1, 0},
			{-1, 0, 1},
		},
	}
	cases := [][]float64{
		{2, 0, 0},
		{1, 1, 0},
		{1, 0, 1},
		{0.5, 0.8, 0.7},
		{-3, 4, 1},
	}
	for _, mol := range cases {
		param := axes.ParamFromMol(mol)
		back := axes.MolFromParam(param)
		for i := range mol {
			if math.Abs(back[i]-mol[i]) > 1e-12 {
				t.Errorf("round trip for mol=%v: got back %v (diff %.3e at %d)", mol, back, back[i]-mol[i], i)
			}
		}
	}
}

func TestCompositionAxes_ParamFromMolDelta_OriginCancels(t *testing.T) {
	axes := CompositionAxes{
		Origin:     []float64{1, 0},
		EndMembers: [][]float64{{-1, 1}},
	}
	molA := []float64{1, 0}
	molB := []float64{0, 1}
	delta := make([]float64, len(molA))
	for i := range delta {
		delta[i] = molB[i] - molA[i]
	}
	paramDelta := axes.ParamFromMolDelta(delta)
	paramA := axes.ParamFromMol(molA)
	paramB := axes.ParamFromMol(molB)
	if math.Abs((paramB[0]-paramA[0])-paramDelta[0]) > 1e-12 {
		t.Errorf("ParamFromMolDelta(%v) = %v, want %v", delta, paramDelta, paramB[0]-paramA[0])
	}
}

func TestConditions_Clone_DoesNotAlias(t *testing.T) {
	c := Conditions{Temperature: 300, MolComposition: []float64{1, 2}}
	clone := c.Clone()
	clone.MolComposition[0] = 99
	if c.MolComposition[0] == 99 {
		t.Error("Clone aliased the original MolComposition slice")
	}
}

func TestConditions_Beta(t *testing.T) {
	c := Conditions{Temperature: 1 / KBoltzmannEV}
	if math.Abs(c.Beta()-1.0) > 1e-9 {
		t.Errorf("Beta() = %v, want ~1", c.Beta())
	}
}

func TestConditions_RequireForCanonical(t *testing.T) {
	c := Conditions{Temperature: 300, MolComposition: []float64{1, 1}}
	if err := c.RequireForCanonical(2); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := c.RequireForCanonical(3); err == nil {
		t.Error("expected error for mismatched component count")
	}
	bad := Conditions{Temperature: 0, MolComposition: []float64{1, 1}}
	if err := bad.RequireForCanonical(2); err == nil {
		t.Error("expected error for non-positive temperature")
	}
}
