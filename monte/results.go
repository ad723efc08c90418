package monte

import "gonum.org/v1/gonum/stat"

// Results is the post-processed summary of one SamplingFixture's
// observations (spec §4.J): per-quantity mean/stderr plus whatever
// derived thermodynamic quantities Analysis computes from them.
type Results struct {
	Sampler *Sampler

	Means   map[string]float64
	Stderrs map[string]float64
}

// NewResults summarizes every registered quantity in s.
func NewResults(s *Sampler) *Results {
	r := &Results{
		Sampler: s,
		Means:   make(map[string]float64),
		Stderrs: make(map[string]float64),
	}
	for name := range s.Quantities {
		mean, stderr, _, ok := s.Precision(name)
		if ok {
			r.Means[name] = mean
			r.Stderrs[name] = stderr
		}
	}
	return r
}

// Analysis computes the derived fluctuation-formula quantities of
// spec §4.J from a completed Results' underlying sampler series. These
// are fluctuation/susceptibility identities (heat capacity from energy
// variance, composition susceptibility from composition covariance),
// all expressed with gonum/stat rather than hand-rolled moment sums
// (SPEC_FULL.md §B).
type Analysis struct {
	Conditions Conditions
	Volume     int // number of unit cells, for intensive normalization
}

// HeatCapacity returns C = Var(E) * V / (k_B T^2), the canonical-ensemble
// fluctuation identity for heat capacity (spec §4.J, scenario 9's
// "heat-capacity identity" check), matching the CASM original's
// heat_capacity_normalization_constant_f divisor of kB*T^2/n_unitcells.
func (a *Analysis) HeatCapacity(s *Sampler, energyQuantity string) float64 {
	e := s.Series(energyQuantity)
	if len(e) < 2 {
		return 0
	}
	variance := stat.Variance(e, nil)
	kT := KBoltzmannEV * a.Conditions.Temperature
	if kT == 0 || a.Volume == 0 {
		return 0
	}
	return variance * float64(a.Volume) / (kT * a.Conditions.Temperature)
}

// MolSusceptibility returns the covariance matrix of the mol_composition
// series scaled by V/(k_B T): χ_ij = V/(k_B T) * Cov(n_i, n_j) (spec §4.J).
func (a *Analysis) MolSusceptibility(s *Sampler, compositionQuantity string) [][]float64 {
	return covarianceMatrix(s.VectorSeries(compositionQuantity), a.scale())
}

// ParamSusceptibility is the same fluctuation identity expressed in
// param_composition coordinates.
func (a *Analysis) ParamSusceptibility(s *Sampler, paramCompositionQuantity string) [][]float64 {
	return covarianceMatrix(s.VectorSeries(paramCompositionQuantity), a.scale())
}

// MolThermoChemSusceptibility returns the cross-covariance between the
// formation-energy series and each mol_composition component, scaled by
// V/(k_B T): the composition/energy cross term needed to form the full
// thermo-chemical susceptibility tensor (spec §4.J).
func (a *Analysis) MolThermoChemSusceptibility(s *Sampler, energyQuantity, compositionQuantity string) []float64 {
	return crossCovariance(s.Series(energyQuantity), s.VectorSeries(compositionQuantity), a.scale())
}

// ParamThermoChemSusceptibility is the param_composition analogue.
func (a *Analysis) ParamThermoChemSusceptibility(s *Sampler, energyQuantity, paramCompositionQuantity string) []float64 {
	return crossCovariance(s.Series(energyQuantity), s.VectorSeries(paramCompositionQuantity), a.scale())
}

func (a *Analysis) scale() float64 {
	kT := KBoltzmannEV * a.Conditions.Temperature
	if kT == 0 {
		return 0
	}
	return float64(a.Volume) / kT
}

// covarianceMatrix builds the full symmetric covariance matrix across
// vector-series components, via gonum/stat.Covariance pairwise (no gonum
// routine computes the whole matrix from a [][]float64 in one call, so
// the O(k^2) pairwise loop is the direct idiom).
func covarianceMatrix(rows [][]float64, scale float64) [][]float64 {
	n := len(rows)
	if n == 0 {
		return nil
	}
	k := len(rows[0])
	cols := make([][]float64, k)
	for j := 0; j < k; j++ {
		cols[j] = make([]float64, n)
		for i, row := range rows {
			if j < len(row) {
				cols[j][i] = row[j]
			}
		}
	}
	out := make([][]float64, k)
	for i := 0; i < k; i++ {
		out[i] = make([]float64, k)
		for j := 0; j < k; j++ {
			out[i][j] = scale * stat.Covariance(cols[i], cols[j], nil)
		}
	}
	return out
}

func crossCovariance(scalar []float64, rows [][]float64, scale float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	k := len(rows[0])
	n := len(rows)
	out := make([]float64, k)
	for j := 0; j < k; j++ {
		col := make([]float64, n)
		for i, row := range rows {
			if j < len(row) {
				col[i] = row[j]
			}
		}
		m := len(scalar)
		if m > n {
			m = n
		}
		out[j] = scale * stat.Covariance(scalar[:m], col[:m], nil)
	}
	return out
}
