package kmc

import "github.com/clexmonte/clexmonte-go/monte"

// MeanSquaredDisplacement computes per-species mean squared displacement
// from a kernel's cumulative atom trajectories, the tracer-diffusion
// sampling function supplemented from the original source's
// "mean_sq_disp" sampling function (SPEC_FULL.md §C). Trajectories are
// keyed by AtomID, so an atom's net displacement is the vector sum of
// every hop it has made, in Cartesian coordinates via the prim lattice.
func MeanSquaredDisplacement(prim *monte.Prim, trajectories []monte.AtomTrajectory, numSpecies int, speciesOf func(atomID uint64) int) []float64 {
	type accum struct {
		disp    [3]float64
		species int
	}
	byAtom := map[uint64]*accum{}

	for _, t := range trajectories {
		a, ok := byAtom[t.AtomID]
		if !ok {
			a = &accum{species: speciesOf(t.AtomID)}
			byAtom[t.AtomID] = a
		}
		cart := fracToCartesian(prim, t.DeltaUnitCell)
		a.disp[0] += cart[0]
		a.disp[1] += cart[1]
		a.disp[2] += cart[2]
	}

	sums := make([]float64, numSpecies)
	counts := make([]int, numSpecies)
	for _, a := range byAtom {
		if a.species < 0 || a.species >= numSpecies {
			continue
		}
		sq := a.disp[0]*a.disp[0] + a.disp[1]*a.disp[1] + a.disp[2]*a.disp[2]
		sums[a.species] += sq
		counts[a.species]++
	}

	out := make([]float64, numSpecies)
	for s := range out {
		if counts[s] > 0 {
			out[s] = sums[s] / float64(counts[s])
		}
	}
	return out
}

// fracToCartesian converts an integer lattice-vector displacement to
// Cartesian coordinates via the prim's lattice matrix (rows are lattice
// vectors, per the convention monte.Prim.Lattice uses throughout).
func fracToCartesian(prim *monte.Prim, uc [3]int64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i] += float64(uc[j]) * prim.Lattice[j][i]
		}
	}
	return out
}

// SamplingFunction adapts MeanSquaredDisplacement to the monte.Sampler
// registration signature ("mean_sq_disp"), closing over a kernel and a
// species classifier.
func SamplingFunction(prim *monte.Prim, kernel *Kernel, numSpecies int, speciesOf func(atomID uint64) int) monte.SamplingFunction {
	return func(_ *monte.State, _ map[string]float64) []float64 {
		return MeanSquaredDisplacement(prim, kernel.Trajectories, numSpecies, speciesOf)
	}
}
