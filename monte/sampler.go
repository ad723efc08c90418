package monte

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SamplingFunction is a named, pure function of the current State (and,
// optionally, cumulative KMC data reachable through extra) returning a
// fixed-shape real vector (spec §4.H).
type SamplingFunction func(state *State, extra map[string]float64) []float64

// Sampler is the append-only columnar store a SamplingFixture owns:
// observations plus sample_count, sample_time, and sample_weight lists
// (spec §4.H).
type Sampler struct {
	Quantities map[string]SamplingFunction
	order      []string // registration order, for deterministic iteration

	observations map[string][][]float64
	SampleCounts []uint64
	SampleTimes  []float64
	SampleWeights []float64
}

// NewSampler creates an empty Sampler.
func NewSampler() *Sampler {
	return &Sampler{
		Quantities:   make(map[string]SamplingFunction),
		observations: make(map[string][][]float64),
	}
}

// Register adds a named sampling function. Quantities are later sampled in
// registration order (spec §5: "Samples taken at the same step are
// ordered by fixture registration").
func (s *Sampler) Register(name string, fn SamplingFunction) {
	if _, exists := s.Quantities[name]; !exists {
		s.order = append(s.order, name)
	}
	s.Quantities[name] = fn
}

// Sample evaluates every registered quantity against state and appends one
// observation row per quantity, plus one sample_count/sample_time/
// sample_weight entry.
func (s *Sampler) Sample(state *State, extra map[string]float64, count uint64, simTime, weight float64) {
	for _, name := range s.order {
		fn := s.Quantities[name]
		s.observations[name] = append(s.observations[name], fn(state, extra))
	}
	s.SampleCounts = append(s.SampleCounts, count)
	s.SampleTimes = append(s.SampleTimes, simTime)
	s.SampleWeights = append(s.SampleWeights, weight)
}

// NumSamples returns how many observations have been taken.
func (s *Sampler) NumSamples() int { return len(s.SampleCounts) }

// Series returns the scalar (component 0) time series for a named
// quantity, for quantities sampled as a 1-vector (the common case for
// completion-check convergence targets).
func (s *Sampler) Series(name string) []float64 {
	rows := s.observations[name]
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) > 0 {
			out[i] = row[0]
		}
	}
	return out
}

// VectorSeries returns the full vector series for a named quantity.
func (s *Sampler) VectorSeries(name string) [][]float64 {
	return s.observations[name]
}

// EstimatedMean returns the sample mean of a scalar quantity's series.
// Uses gonum/stat.Mean rather than a hand-rolled accumulator
// (SPEC_FULL.md §B).
func (s *Sampler) EstimatedMean(name string) float64 {
	x := s.Series(name)
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// EstimatedVariance returns the sample variance of a scalar quantity.
func (s *Sampler) EstimatedVariance(name string) float64 {
	x := s.Series(name)
	if len(x) < 2 {
		return 0
	}
	return stat.Variance(x, nil)
}

// Precision estimates the standard error of the mean for a scalar
// quantity as sqrt(variance / effectiveN), where effectiveN = n / τ and τ
// is the integrated autocorrelation time of the whole series. It does not
// form batch means.
func (s *Sampler) Precision(name string) (mean, stderr, effectiveN float64, ok bool) {
	x := s.Series(name)
	n := len(x)
	if n < 2 {
		return 0, 0, 0, false
	}
	mean = stat.Mean(x, nil)
	variance := stat.Variance(x, nil)
	if variance == 0 {
		return mean, 0, float64(n), true
	}
	tau := integratedAutocorrelationTime(x, mean, variance)
	effectiveN = float64(n) / tau
	if effectiveN < 1 {
		effectiveN = 1
	}
	stderr = math.Sqrt(variance / effectiveN)
	return mean, stderr, effectiveN, true
}

// integratedAutocorrelationTime estimates τ = 1 + 2*sum_{k>=1} ρ(k) over
// lags up to n/4, stopping at the first non-positive autocorrelation
// (the standard Geyer initial-positive-sequence cutoff), which bounds the
// estimator's variance for long, noisy tails.
func integratedAutocorrelationTime(x []float64, mean, variance float64) float64 {
	n := len(x)
	maxLag := n / 4
	if maxLag < 1 {
		maxLag = 1
	}
	tau := 1.0
	for lag := 1; lag <= maxLag; lag++ {
		var cov float64
		for i := 0; i < n-lag; i++ {
			cov += (x[i] - mean) * (x[i+lag] - mean)
		}
		cov /= float64(n - lag)
		rho := cov / variance
		if rho <= 0 {
			break
		}
		tau += 2 * rho
	}
	return tau
}
