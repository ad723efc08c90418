package kmc

import (
	"math/rand"
	"testing"

	"github.com/clexmonte/clexmonte-go/monte"
	"github.com/clexmonte/clexmonte-go/monte/internal/testutil"
)

type mathRandRNG struct{ r *rand.Rand }

func (m mathRandRNG) NextU64() uint64      { return m.r.Uint64() }
func (m mathRandRNG) NextFloat64() float64 { return m.r.Float64() }

func buildKernelFixture(t *testing.T, trackAtoms bool) (*monte.State, *Kernel, *monte.OccLocation) {
	t.Helper()
	prim := testutil.BinaryPrim()
	sc := testutil.CubicSupercell(prim, 3)
	occ := make(monte.Occupation, sc.NumSites())
	rnd := rand.New(rand.NewSource(13))
	for i := range occ {
		occ[i] = rnd.Intn(2)
	}
	state := &monte.State{Supercell: sc, Occupation: occ}

	loc := monte.NewOccLocation(prim, sc, trackAtoms)
	if err := loc.Initialize(occ); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	el := BuildEventList(sc, []PrimEvent{hopTemplate()}, constantRateFn)
	kernel := NewKernel(state, loc, el, mathRandRNG{rand.New(rand.NewSource(21))}, trackAtoms)
	return state, kernel, loc
}

func TestKernel_StepAdvancesCountAndSimTime(t *testing.T) {
	state, kernel, _ := buildKernelFixture(t, false)
	for i := 0; i < 200; i++ {
		if err := kernel.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	if kernel.Count != 200 {
		t.Errorf("Count = %d, want 200", kernel.Count)
	}
	if kernel.SimTime <= 0 {
		t.Errorf("SimTime = %v, want > 0 after 200 steps", kernel.SimTime)
	}
	if err := state.Supercell.ValidateOccupation(state.Occupation); err != nil {
		t.Errorf("occupation invalid after stepping: %v", err)
	}
}

func TestKernel_Step_NonAdvancingTotalRateIsError(t *testing.T) {
	_, kernel, _ := buildKernelFixture(t, false)
	kernel.List = BuildEventList(kernel.List.sc, []PrimEvent{hopTemplate()}, func(ev *ConcreteEvent) float64 { return 0 })
	if err := kernel.Step(); err == nil {
		t.Error("expected an error when total rate is zero")
	}
}

func TestKernel_Step_TracksAtomTrajectories(t *testing.T) {
	_, kernel, _ := buildKernelFixture(t, true)
	for i := 0; i < 50; i++ {
		if err := kernel.Step(); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	if len(kernel.Trajectories) == 0 {
		t.Error("expected non-empty trajectories when trackAtoms is true")
	}
}

func TestKernel_RejectionStep_TimeAdvancesOnlyOnAcceptance(t *testing.T) {
	_, kernel, _ := buildKernelFixture(t, false)
	// rateMax == event rate means every draw that clears the uniform
	// threshold accepts; since all rates are 1, rateMax=1 means u < 1
	// always accepts (u is drawn uniform in [0,1)).
	before := kernel.SimTime
	if err := kernel.RejectionStep(1.0); err != nil {
		t.Fatalf("RejectionStep: %v", err)
	}
	if kernel.Count != 1 {
		t.Errorf("Count = %d, want 1", kernel.Count)
	}
	if kernel.SimTime <= before {
		t.Errorf("SimTime did not advance after an accepted rejection-KMC step")
	}
}
