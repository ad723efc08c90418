package monte

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildMetropolisFixture(t *testing.T, temp float64) (*State, *OccLocation, *Metropolis) {
	t.Helper()
	prim := testBinaryPrim()
	sc := testCubicSupercell(prim, 3)
	nl := NewNeighborList(sc, testNearestNeighborOffsets())
	coeffs := make([]float64, 7)
	for i := range coeffs {
		coeffs[i] = 0.1
	}
	ce := &ClusterExpansion{NeighborList: nl, Evaluator: testPairClexulator(), Coefficients: coeffs}

	occ := make(Occupation, sc.NumSites())
	rnd := rand.New(rand.NewSource(3))
	for i := range occ {
		occ[i] = rnd.Intn(2)
	}

	state := &State{Supercell: sc, Occupation: occ, Conditions: Conditions{Temperature: temp, MolComposition: []float64{0.5, 0.5}}}
	pot, err := NewCanonical(ce, state)
	require.NoError(t, err)

	loc := NewOccLocation(prim, sc, false)
	require.NoError(t, loc.Initialize(occ))

	swaps := NewSwapEnumerator(prim)
	rng := engineRNG{r: rand.New(rand.NewSource(99))}
	kernel := NewMetropolis(state, loc, pot, swaps, rng, ModeCanonical)
	return state, loc, kernel
}

func TestMetropolis_StepPreservesOccupationValidity(t *testing.T) {
	state, _, kernel := buildMetropolisFixture(t, 500)
	for i := 0; i < 2000; i++ {
		require.NoError(t, kernel.Step())
	}
	require.NoError(t, state.Supercell.ValidateOccupation(state.Occupation))
}

func TestMetropolis_AcceptanceRatioInUnitInterval(t *testing.T) {
	_, _, kernel := buildMetropolisFixture(t, 300)
	for i := 0; i < 1000; i++ {
		require.NoError(t, kernel.Step())
	}
	ratio := kernel.AcceptanceRatio()
	if ratio < 0 || ratio > 1 {
		t.Fatalf("acceptance ratio %v outside [0,1]", ratio)
	}
}

func TestMetropolis_PassAdvancesPassSizeSteps(t *testing.T) {
	_, _, kernel := buildMetropolisFixture(t, 500)
	before := kernel.Count
	require.NoError(t, kernel.Pass())
	if kernel.Count-before != uint64(kernel.PassSize()) {
		t.Errorf("Pass advanced Count by %d, want %d", kernel.Count-before, kernel.PassSize())
	}
}

// TestMetropolis_DetailedBalance_LowTempFreezesConfiguration checks the
// expected qualitative behavior at very low temperature: acceptance ratio
// should drop toward (but not necessarily to) zero as most proposed swaps
// raise the energy and get rejected, given the random initial state isn't
// already a local optimum.
func TestMetropolis_DetailedBalance_LowTempFreezesConfiguration(t *testing.T) {
	_, _, kernel := buildMetropolisFixture(t, 1e-6)
	for i := 0; i < 5000; i++ {
		require.NoError(t, kernel.Step())
	}
	if kernel.AcceptanceRatio() > 0.5 {
		t.Errorf("expected low acceptance at T~0, got %v", kernel.AcceptanceRatio())
	}
}

func TestMetropolis_NonFiniteDeltaIsError(t *testing.T) {
	_, _, kernel := buildMetropolisFixture(t, 500)
	kernel.Potential = nanPotential{}
	err := kernel.Step()
	if err == nil {
		t.Fatal("expected error on non-finite delta")
	}
	var merr *Error
	if !isMonteError(err, &merr) {
		t.Fatalf("expected *monte.Error, got %T", err)
	}
	if merr.Kind != KindNumeric {
		t.Errorf("expected KindNumeric, got %v", merr.Kind)
	}
}

type nanPotential struct{}

func (nanPotential) ExtensiveValue() float64                            { return math.NaN() }
func (nanPotential) OccDeltaExtensiveValue(sites, newOcc []int) float64 { return math.NaN() }

func isMonteError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if ok {
		*target = e
	}
	return ok
}
