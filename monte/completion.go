package monte

import "math"

// ConvergenceCriterion is a per-quantity target precision on the estimated
// mean (spec §4.H), expressed as an absolute and/or relative precision
// (zero means "not required").
type ConvergenceCriterion struct {
	Quantity           string
	AbsolutePrecision  float64
	RelativePrecision  float64
}

// CompletionCheckParams are the parameters of spec §4.H: min/max count,
// min/max time, plus per-quantity convergence criteria.
type CompletionCheckParams struct {
	MinCount uint64
	MaxCount uint64 // 0 = no cap
	MinTime  float64
	MaxTime  float64 // 0 = no cap
	Criteria []ConvergenceCriterion
}

// CompletionCheck evaluates whether a SamplingFixture has converged or
// capped (spec §4.H). The run is complete when either (a) any hard cap is
// hit, or (b) every required quantity's estimated precision meets its
// target AND min_count/min_time are reached.
type CompletionCheck struct {
	Params CompletionCheckParams
}

// Status is the outcome of one completion-check evaluation.
type Status struct {
	Done   bool
	Reason string // "max_count", "max_time", "converged", "min_reached", or "" if not done
}

// Evaluate runs the completion check against the fixture's sampler at the
// given count/simTime.
func (c *CompletionCheck) Evaluate(s *Sampler, count uint64, simTime float64) Status {
	if c.Params.MaxCount > 0 && count >= c.Params.MaxCount {
		return Status{Done: true, Reason: "max_count"}
	}
	if c.Params.MaxTime > 0 && simTime >= c.Params.MaxTime {
		return Status{Done: true, Reason: "max_time"}
	}
	if count < c.Params.MinCount {
		return Status{Done: false}
	}
	if simTime < c.Params.MinTime {
		return Status{Done: false}
	}
	for _, crit := range c.Params.Criteria {
		mean, stderr, _, ok := s.Precision(crit.Quantity)
		if !ok {
			return Status{Done: false}
		}
		if crit.AbsolutePrecision > 0 && stderr > crit.AbsolutePrecision {
			return Status{Done: false}
		}
		if crit.RelativePrecision > 0 && mean != 0 && stderr/math.Abs(mean) > crit.RelativePrecision {
			return Status{Done: false}
		}
	}
	if len(c.Params.Criteria) == 0 {
		// No convergence criteria registered: min_count/min_time alone
		// gate completion.
		return Status{Done: true, Reason: "min_reached"}
	}
	return Status{Done: true, Reason: "converged"}
}

// SamplingMode selects the cadence a SamplingFixture's schedule is
// expressed in (spec §6).
type SamplingMode int

const (
	ByPass SamplingMode = iota
	ByStep
	ByTime
)

// Schedule is a precomputed, ascending list of sample points (counts or,
// for ByTime, simulated-time thresholds) — spec §4.F's "linear, log, or
// arbitrary" schedules are all expressed as an explicit slice here; the
// generator functions below build the common cases.
type Schedule struct {
	Mode   SamplingMode
	Points []uint64 // count thresholds for ByPass/ByStep
	Times  []float64 // time thresholds for ByTime
}

// LinearSchedule returns a Schedule sampling every `period` counts, up to
// (and including) `upTo`.
func LinearSchedule(mode SamplingMode, period, upTo uint64) Schedule {
	var points []uint64
	for c := period; c <= upTo; c += period {
		points = append(points, c)
	}
	return Schedule{Mode: mode, Points: points}
}

// LogSchedule returns a Schedule sampling at counts
// base^0, base^1, ... truncated to integers (at least 1), up to upTo,
// deduplicated and sorted.
func LogSchedule(mode SamplingMode, base float64, upTo uint64) Schedule {
	var points []uint64
	seen := map[uint64]bool{}
	for p := 1.0; uint64(p) <= upTo; p *= base {
		c := uint64(p)
		if c == 0 {
			c = 1
		}
		if !seen[c] {
			seen[c] = true
			points = append(points, c)
		}
	}
	return Schedule{Mode: mode, Points: points}
}

// Due reports whether `count` has reached (or passed) the next scheduled
// point, advancing the internal cursor; returns false once the schedule is
// exhausted.
func (sch *Schedule) Due(count uint64, cursor *int) bool {
	if *cursor >= len(sch.Points) {
		return false
	}
	if count >= sch.Points[*cursor] {
		*cursor++
		return true
	}
	return false
}

// DueAtTime is the ByTime analogue of Due.
func (sch *Schedule) DueAtTime(simTime float64, cursor *int) bool {
	if *cursor >= len(sch.Times) {
		return false
	}
	if simTime >= sch.Times[*cursor] {
		*cursor++
		return true
	}
	return false
}
