package monte

import (
	"github.com/sirupsen/logrus"
)

// RunManager owns the fixtures, reads prior completed-run metadata for
// restart, and records completed runs (spec §4.I). GlobalCutoff selects
// "any complete" (short-circuit) vs "all complete" across multiple
// fixtures; ContinueOnError controls whether a sweep proceeds past a
// ConsistencyError (spec §7).
type RunManager struct {
	Fixtures             []*SamplingFixture
	GlobalCutoff         bool
	SaveAllInitialStates bool
	ContinueOnError      bool

	Ledger  *RunLedger  // nil = no restart persistence
	Metrics *KernelMetrics // nil = metrics disabled

	Log *logrus.Logger
}

// NewRunManager constructs a RunManager with the package-level logrus
// logger, matching the teacher's "pass a logging handle through the
// RunManager" pattern (spec §9) rather than a global singleton.
func NewRunManager(fixtures []*SamplingFixture, globalCutoff bool) *RunManager {
	return &RunManager{
		Fixtures:     fixtures,
		GlobalCutoff: globalCutoff,
		Log:          logrus.StandardLogger(),
	}
}

// RunResult is what one Run call produces: the final state, whether it
// completed or was cancelled/errored, and per-fixture results.
type RunResult struct {
	FinalState *State
	Status     Status
	Err        error
	Fixtures   map[string]*Results
}

// Run drives one canonical/semi-grand Metropolis run to completion. mode
// selects whether one "unit of work" between fixture evaluations is a step
// or a pass; cancel is checked only at fixture-advance boundaries (spec
// §5: "the kernel checks a cooperative cancellation flag only at sample
// boundaries").
func (rm *RunManager) Run(kernel *Metropolis, mode SamplingMode, cancel func() bool) *RunResult {
	for {
		var err error
		switch mode {
		case ByPass:
			err = kernel.Pass()
		default:
			err = kernel.Step()
		}
		if err != nil {
			return &RunResult{FinalState: kernel.State, Err: err, Fixtures: rm.collect()}
		}

		if cancel != nil && cancel() {
			return &RunResult{FinalState: kernel.State, Status: Status{Done: true, Reason: "cancelled"}, Err: Cancelled, Fixtures: rm.collect()}
		}

		extra := map[string]float64{
			"n_accept": float64(kernel.NAccept),
			"n_reject": float64(kernel.NReject),
		}
		if rm.Metrics != nil {
			rm.Metrics.Observe(kernel.NAccept, kernel.NReject, kernel.Count)
		}

		anyDone, allDone := false, true
		for _, fx := range rm.Fixtures {
			st := fx.Advance(kernel.State, extra, kernel.Count, 0, 1.0)
			if st.Done {
				anyDone = true
			} else {
				allDone = false
			}
		}
		done := (rm.GlobalCutoff && anyDone) || (!rm.GlobalCutoff && allDone && len(rm.Fixtures) > 0)
		if done {
			return &RunResult{FinalState: kernel.State, Status: Status{Done: true, Reason: "complete"}, Fixtures: rm.collect()}
		}
	}
}

func (rm *RunManager) collect() map[string]*Results {
	out := make(map[string]*Results, len(rm.Fixtures))
	for _, fx := range rm.Fixtures {
		out[fx.Label] = NewResults(fx.Sampler)
	}
	return out
}

// RunSeries drives a sweep of runs over the states StateGenerator emits,
// restarting from the ledger if present (spec §4.I, scenario 5). runFn
// performs one condition's run and returns its RunResult; it builds its
// own SamplingFixtures for that condition (fixtures are stateful and must
// not be reused across runs).
func (rm *RunManager) RunSeries(gen *StateGenerator, runFn func(idx int, state *State) *RunResult) []*RunResult {
	var results []*RunResult
	startIdx := 0
	if rm.Ledger != nil {
		startIdx = rm.Ledger.NextIndex()
		if startIdx > 0 {
			rm.Log.Infof("resuming run series at condition index %d (restart ledger)", startIdx)
		}
	}
	idx := 0
	var lastSkipped *State
	for gen.HasNext() {
		if idx < startIdx {
			lastSkipped = gen.Next()
			idx++
			continue
		}
		if lastSkipped != nil {
			if gen.PathFollowing() {
				gen.SetPreviousFinal(lastSkipped)
			}
			lastSkipped = nil
		}
		state := gen.Next()
		res := runFn(idx, state)
		results = append(results, res)
		if res.Err != nil && !IsCancelled(res.Err) {
			rm.Log.Warnf("run %d failed: %v", idx, res.Err)
			if rm.Ledger != nil {
				_ = rm.Ledger.RecordFailed(idx)
			}
			if !rm.ContinueOnError {
				break
			}
		} else if rm.Ledger != nil {
			_ = rm.Ledger.RecordCompleted(idx)
		}
		if gen.PathFollowing() {
			gen.SetPreviousFinal(res.FinalState)
		}
		idx++
	}
	return results
}
