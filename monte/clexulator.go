package monte

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Clexulator is the opaque basis-function evaluator contract (spec §1,
// GLOSSARY): given the occupant values restricted to a neighbor window, it
// produces a correlation vector. Generation and compilation of evaluator
// code from a prim definition is out of scope (spec §1) — this core only
// ever calls Clexulator.Correlations with a window's occupant values.
type Clexulator interface {
	// NumCorrelations returns the length of the vector Correlations
	// returns.
	NumCorrelations() int
	// Correlations computes the basis-function vector for one unit
	// cell's window, given the occupants currently sitting at the
	// window's sites (same order as the window).
	Correlations(occAtWindow []int) []float64
}

// ClusterExpansion pairs a Clexulator + NeighborList with one coefficient
// vector (spec §4.B). It is stateless with respect to occupation; callers
// pass the occupation by reference.
type ClusterExpansion struct {
	NeighborList *NeighborList
	Evaluator    Clexulator
	Coefficients []float64
}

// ExtensiveValue computes sum over all unit cells u of
// coeffs·basis(window(u, occupation)): O(N·K) where K is the number of
// basis functions (spec §4.B).
func (ce *ClusterExpansion) ExtensiveValue(occ Occupation) float64 {
	var total float64
	for u := 0; u < ce.NeighborList.NumUnitCells(); u++ {
		corr := ce.Evaluator.Correlations(gather(occ, ce.NeighborList.Window(u)))
		total += dot(ce.Coefficients, corr)
	}
	return total
}

// OccDeltaValue returns the change in extensive value after writing
// newOcc[i] at sites[i], without mutating occ. Complexity is
// O(|sites|·M_eff): only unit cells containing at least one changed site
// are visited. Edge policy: an empty sites returns 0. Contributions are
// accumulated in canonical order (ascending unit-cell index, then
// ascending basis-function index within each unit cell) so results are
// bitwise-reproducible (spec §4.B).
func (ce *ClusterExpansion) OccDeltaValue(occ Occupation, sites []int, newOcc []int) float64 {
	if len(sites) == 0 {
		return 0
	}
	affected := map[int]struct{}{}
	for _, l := range sites {
		for _, u := range ce.NeighborList.UnitCellsContaining(l) {
			affected[u] = struct{}{}
		}
	}
	units := make([]int, 0, len(affected))
	for u := range affected {
		units = append(units, u)
	}
	sort.Ints(units)

	var delta float64
	for _, u := range units {
		window := ce.NeighborList.Window(u)
		before := gather(occ, window)
		after := append([]int(nil), before...)
		for i, l := range sites {
			if pos := indexOf(window, l); pos >= 0 {
				after[pos] = newOcc[i]
			}
		}
		corrBefore := ce.Evaluator.Correlations(before)
		corrAfter := ce.Evaluator.Correlations(after)
		for k := range ce.Coefficients {
			delta += ce.Coefficients[k] * (corrAfter[k] - corrBefore[k])
		}
	}
	return delta
}

// MultiClusterExpansion evaluates several coefficient vectors against one
// shared basis evaluator (spec §4.B: "a second 'multi' evaluator returns a
// vector of expansion values sharing the same basis").
type MultiClusterExpansion struct {
	NeighborList *NeighborList
	Evaluator    Clexulator
	Coefficients [][]float64 // one vector per named expansion
}

// ExtensiveValues returns one extensive value per coefficient vector.
func (m *MultiClusterExpansion) ExtensiveValues(occ Occupation) []float64 {
	out := make([]float64, len(m.Coefficients))
	for u := 0; u < m.NeighborList.NumUnitCells(); u++ {
		corr := m.Evaluator.Correlations(gather(occ, m.NeighborList.Window(u)))
		for i, coeffs := range m.Coefficients {
			out[i] += dot(coeffs, corr)
		}
	}
	return out
}

func gather(occ Occupation, window []int) []int {
	out := make([]int, len(window))
	for i, l := range window {
		out[i] = occ[l]
	}
	return out
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// dot is coeffs·basis, delegated to gonum/floats so the contraction uses
// the same numerically-audited implementation across this package
// (clexulator.go, semigrand.go) rather than a hand-rolled loop.
func dot(a []float64, b []float64) float64 {
	return floats.Dot(a, b)
}

// Orbit is one cluster orbit in a DenseClexulator's basis set: a tuple of
// window positions. An empty Positions is the constant (point-of-origin)
// function.
type Orbit struct {
	Positions []int
}

// DenseClexulator is a reference Clexulator for small/toy systems (the
// end-to-end scenarios of spec §8): each orbit's correlation is the
// product of a per-site basis function over the orbit's window positions.
type DenseClexulator struct {
	Orbits       []Orbit
	SiteFunction func(occupantIndex int) float64
}

// NumCorrelations implements Clexulator.
func (d *DenseClexulator) NumCorrelations() int { return len(d.Orbits) }

// Correlations implements Clexulator.
func (d *DenseClexulator) Correlations(occAtWindow []int) []float64 {
	out := make([]float64, len(d.Orbits))
	for k, orb := range d.Orbits {
		if len(orb.Positions) == 0 {
			out[k] = 1
			continue
		}
		prod := 1.0
		for _, pos := range orb.Positions {
			prod *= d.SiteFunction(occAtWindow[pos])
		}
		out[k] = prod
	}
	return out
}

// BinarySpinFunction returns ±1 for a two-occupant sublattice (occupant
// index 0 → +1, index 1 → -1), the standard Ising-type site basis function
// used in spec §8 scenario 2.
func BinarySpinFunction(occupantIndex int) float64 {
	if occupantIndex == 0 {
		return 1
	}
	return -1
}
