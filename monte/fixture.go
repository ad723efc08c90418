package monte

// SamplingFixture bundles what-to-sample, when, and when-to-stop, plus an
// output sink (spec §4.H, GLOSSARY). A run may drive one or more fixtures;
// each advances independently off the same kernel.
type SamplingFixture struct {
	Label      string
	Sampler    *Sampler
	Schedule   Schedule
	Completion *CompletionCheck
	ResultsDir string // results_io destination (spec §6); empty = in-memory only

	cursor int
	status Status
}

// NewSamplingFixture constructs a fixture with an empty sampler.
func NewSamplingFixture(label string, schedule Schedule, completion *CompletionCheck) *SamplingFixture {
	return &SamplingFixture{
		Label:      label,
		Sampler:    NewSampler(),
		Schedule:   schedule,
		Completion: completion,
	}
}

// Advance is called once per kernel step/pass. If the schedule is due at
// (count, simTime), it samples state, then re-evaluates the completion
// check. Returns the fixture's latest Status.
func (f *SamplingFixture) Advance(state *State, extra map[string]float64, count uint64, simTime, weight float64) Status {
	due := false
	switch f.Schedule.Mode {
	case ByTime:
		due = f.Schedule.DueAtTime(simTime, &f.cursor)
	default:
		due = f.Schedule.Due(count, &f.cursor)
	}
	if due {
		f.Sampler.Sample(state, extra, count, simTime, weight)
		f.status = f.Completion.Evaluate(f.Sampler, count, simTime)
	}
	return f.status
}

// Done reports the fixture's last-evaluated completion status.
func (f *SamplingFixture) Done() bool { return f.status.Done }
