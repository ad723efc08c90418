package monte

import (
	"path/filepath"
	"testing"
)

func TestRunSeries_RunsEveryConditionInOrder(t *testing.T) {
	prim := testBinaryPrim()
	sc := testCubicSupercell(prim, 2)
	reference := make(Occupation, sc.NumSites())
	conditions := []Conditions{{Temperature: 100}, {Temperature: 200}, {Temperature: 300}}
	gen := NewStateGenerator(sc, reference, conditions, false)
	rm := NewRunManager(nil, false)

	var seen []float64
	rm.RunSeries(gen, func(idx int, state *State) *RunResult {
		seen = append(seen, state.Conditions.Temperature)
		return &RunResult{FinalState: state}
	})
	if len(seen) != 3 || seen[0] != 100 || seen[1] != 200 || seen[2] != 300 {
		t.Errorf("seen = %v, want [100 200 300]", seen)
	}
}

func TestRunSeries_SkipsConditionsBeforeLedgerResumePoint(t *testing.T) {
	prim := testBinaryPrim()
	sc := testCubicSupercell(prim, 2)
	reference := make(Occupation, sc.NumSites())
	conditions := []Conditions{{Temperature: 100}, {Temperature: 200}, {Temperature: 300}}
	gen := NewStateGenerator(sc, reference, conditions, false)

	path := filepath.Join(t.TempDir(), "ledger.sqlite")
	ledger, err := OpenRunLedger(path)
	if err != nil {
		t.Fatalf("OpenRunLedger: %v", err)
	}
	defer ledger.Close()
	if err := ledger.RecordCompleted(0); err != nil {
		t.Fatalf("RecordCompleted: %v", err)
	}

	rm := NewRunManager(nil, false)
	rm.Ledger = ledger

	var ran []int
	rm.RunSeries(gen, func(idx int, state *State) *RunResult {
		ran = append(ran, idx)
		return &RunResult{FinalState: state}
	})
	if len(ran) != 2 || ran[0] != 1 || ran[1] != 2 {
		t.Errorf("ran = %v, want [1 2] (condition 0 already completed per the ledger)", ran)
	}
}

// TestRunSeries_RestartSetsPreviousFinalBeforeFirstLiveRun pins the
// scenario-5 restart invariant (spec §4.I/§8): when resuming a
// path-following sweep from the ledger, the generator's path-following
// state must be threaded through the skipped (already-completed)
// indices, not left untouched until the first live run already has its
// initial state in hand — otherwise that first resumed run silently
// falls back to the generator's reference occupation instead of
// chaining off of what the skip loop produced for the run before it.
func TestRunSeries_RestartSetsPreviousFinalBeforeFirstLiveRun(t *testing.T) {
	prim := testBinaryPrim()
	sc := testCubicSupercell(prim, 2)
	reference := make(Occupation, sc.NumSites())
	conditions := []Conditions{{Temperature: 100}, {Temperature: 200}}
	gen := NewStateGenerator(sc, reference, conditions, true)

	path := filepath.Join(t.TempDir(), "ledger.sqlite")
	ledger, err := OpenRunLedger(path)
	if err != nil {
		t.Fatalf("OpenRunLedger: %v", err)
	}
	defer ledger.Close()
	if err := ledger.RecordCompleted(0); err != nil {
		t.Fatalf("RecordCompleted: %v", err)
	}

	rm := NewRunManager(nil, false)
	rm.Ledger = ledger

	var previousFinalSetBeforeLiveRun bool
	rm.RunSeries(gen, func(idx int, state *State) *RunResult {
		if idx == 1 {
			previousFinalSetBeforeLiveRun = gen.previousFinal != nil
		}
		return &RunResult{FinalState: state}
	})
	if !previousFinalSetBeforeLiveRun {
		t.Error("gen.previousFinal was nil when the first resumed run started; " +
			"the skip loop must call SetPreviousFinal before the first live runFn call")
	}
}

func TestRunSeries_ContinuesPathFollowingAcrossLiveRuns(t *testing.T) {
	prim := testBinaryPrim()
	sc := testCubicSupercell(prim, 2)
	reference := make(Occupation, sc.NumSites())
	conditions := []Conditions{{Temperature: 100}, {Temperature: 200}}
	gen := NewStateGenerator(sc, reference, conditions, true)
	rm := NewRunManager(nil, false)

	flipped := make(Occupation, sc.NumSites())
	for i := range flipped {
		flipped[i] = 1
	}

	var secondRunOcc Occupation
	rm.RunSeries(gen, func(idx int, state *State) *RunResult {
		if idx == 1 {
			secondRunOcc = append(Occupation(nil), state.Occupation...)
			return &RunResult{FinalState: state}
		}
		return &RunResult{FinalState: &State{Supercell: sc, Occupation: flipped, Conditions: state.Conditions}}
	})

	for i := range flipped {
		if secondRunOcc[i] != flipped[i] {
			t.Fatalf("second run's initial occupation = %v, want it to carry forward the first run's final occupation %v", secondRunOcc, flipped)
		}
	}
}
