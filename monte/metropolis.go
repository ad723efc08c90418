package monte

import "math"

// EnsembleMode selects which proposal/acceptance variant the Metropolis
// kernel drives.
type EnsembleMode int

const (
	ModeCanonical EnsembleMode = iota
	ModeSemiGrand
)

// Metropolis is the occupation-Metropolis kernel (spec §4.F): propose,
// Δ-evaluate, accept/reject, with step/pass counting. A step is one
// proposal+accept/reject; a pass is mol_size steps, where mol_size is the
// number of mutable atoms (every site is mutable in this core, so
// mol_size = N).
type Metropolis struct {
	State     *State
	Loc       *OccLocation
	Potential Potential
	Swaps     *SwapEnumerator
	RNG       RNG
	Mode      EnsembleMode

	NAccept uint64
	NReject uint64
	Count   uint64 // advances once per Step

	passSize int
}

// NewMetropolis constructs a kernel over the given state/tracker/potential.
// passSize is mol_size, the number of mutable atoms per pass.
func NewMetropolis(state *State, loc *OccLocation, potential Potential, swaps *SwapEnumerator, rng RNG, mode EnsembleMode) *Metropolis {
	return &Metropolis{
		State:     state,
		Loc:       loc,
		Potential: potential,
		Swaps:     swaps,
		RNG:       rng,
		Mode:      mode,
		passSize:  state.Supercell.NumSites(),
	}
}

// PassSize returns mol_size, the number of steps in one pass.
func (k *Metropolis) PassSize() int { return k.passSize }

// Step performs one proposal, Δ-energy evaluation, and Metropolis
// accept/reject (spec §4.F): accept if ΔE ≤ 0, else accept with
// probability exp(−βΔE); the RNG call and exponential evaluation are
// skipped when ΔE ≤ 0. Returns a KindNumeric error on a non-finite energy
// delta (spec §7), never silently ignored.
func (k *Metropolis) Step() error {
	var event OccEvent
	var ok bool
	switch k.Mode {
	case ModeCanonical:
		event, ok = k.Swaps.ProposeCanonical(k.Loc, k.RNG)
	case ModeSemiGrand:
		event, ok = k.Swaps.ProposeGrandCanonical(k.State.Supercell, k.State.Occupation, k.RNG)
	}
	if !ok {
		// No legal proposal exists (e.g. a pure single-species sublattice);
		// counted as a step with nothing to accept.
		k.NReject++
		k.Count++
		return nil
	}

	deltaE := k.Potential.OccDeltaExtensiveValue(event.LinearSiteIndex, event.NewOcc)
	if math.IsNaN(deltaE) || math.IsInf(deltaE, 0) {
		return NumericErrorf("metropolis step: non-finite energy delta %v", deltaE)
	}

	accept := deltaE <= 0
	if !accept {
		beta := k.State.Conditions.Beta()
		p := math.Exp(-beta * deltaE)
		if k.RNG.NextFloat64() < p {
			accept = true
		}
	}

	if accept {
		if err := k.Loc.Apply(event, k.State.Occupation); err != nil {
			return err
		}
		k.NAccept++
	} else {
		k.NReject++
	}
	k.Count++
	return nil
}

// Pass performs PassSize() steps.
func (k *Metropolis) Pass() error {
	for i := 0; i < k.passSize; i++ {
		if err := k.Step(); err != nil {
			return err
		}
	}
	return nil
}

// AcceptanceRatio returns n_accept / (n_accept + n_reject), or 0 if no
// steps have been taken.
func (k *Metropolis) AcceptanceRatio() float64 {
	total := k.NAccept + k.NReject
	if total == 0 {
		return 0
	}
	return float64(k.NAccept) / float64(total)
}
