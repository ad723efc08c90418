package kmc

import (
	"math"

	"github.com/clexmonte/clexmonte-go/monte"
)

// Kernel drives rejection-free (n-fold-way) kinetic Monte Carlo over an
// EventList (spec §4.G): select an event proportional to its rate, fire
// it (updating occupation and atom trajectories), advance simulated time
// by an exponential draw, and recompute the rates the fired event
// invalidated.
type Kernel struct {
	State *monte.State
	Loc   *monte.OccLocation
	List  *EventList
	RNG   monte.RNG

	SimTime float64
	Count   uint64

	Trajectories []monte.AtomTrajectory // cumulative, for MSD sampling
	trackAtoms   bool
}

// NewKernel constructs a rejection-free KMC kernel.
func NewKernel(state *monte.State, loc *monte.OccLocation, list *EventList, rng monte.RNG, trackAtoms bool) *Kernel {
	return &Kernel{State: state, Loc: loc, List: list, RNG: rng, trackAtoms: trackAtoms}
}

// Step selects one event proportional to rate, fires it, advances
// simulated time, and recomputes invalidated rates. Returns a
// monte.KindNumeric error if the catalogue's total rate is non-positive
// (the chain cannot advance) or non-finite.
func (k *Kernel) Step() error {
	total := k.List.TotalRate()
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return monte.NumericErrorf("kmc step: non-advancing total rate %v", total)
	}

	u := k.RNG.NextFloat64() * total
	ev := k.List.Select(u)

	sites, newOcc := ev.CurrentSitesAndOcc(k.State.Occupation)
	hops := make([]monte.AtomHop, len(ev.Hops))
	copy(hops, ev.Hops)
	trajs, err := k.Loc.ApplyHop(monte.OccEvent{LinearSiteIndex: sites, NewOcc: newOcc}, k.State.Occupation, hops)
	if err != nil {
		return err
	}
	if k.trackAtoms {
		k.Trajectories = append(k.Trajectories, trajs...)
	}

	// dt ~ Exponential(total): the standard direct-method time increment,
	// independent of which event was selected (spec §4.G).
	dtDraw := k.RNG.NextFloat64()
	for dtDraw == 0 {
		dtDraw = k.RNG.NextFloat64()
	}
	k.SimTime += -math.Log(dtDraw) / total
	k.Count++

	k.List.Recompute(ev.Template.affectedCells(ev.UnitCell, k.List.sc))
	return nil
}

// affectedCells returns the unit cells whose neighborhood overlaps this
// event's correlation window, in the event's materialized unit cell
// frame, via the template's neighborhood offsets translated by uc.
func (t *PrimEvent) affectedCells(uc int, sc *monte.Supercell) []int {
	cells := make([]int, 0, len(t.NeighborhoodOffsets))
	for _, off := range t.NeighborhoodOffsets {
		cells = append(cells, sc.UnitCellIndex(addUnitCell(sc, uc, off.Translation)))
	}
	return cells
}

// addUnitCell translates unit cell uc (as a linear SNF index) by a
// lattice-vector offset, returning the resulting integer unit-cell
// coordinate. NeighborList performs the analogous computation when
// building windows; kmc needs it again here because event impact sets
// are computed post-hoc rather than precomputed per window.
func addUnitCell(sc *monte.Supercell, uc int, offset [3]int64) [3]int64 {
	base := sc.UnitCellCoord(uc)
	return [3]int64{base[0] + offset[0], base[1] + offset[1], base[2] + offset[2]}
}

// RejectionStep implements rejection-KMC as an alternative to the
// rejection-free kernel above, sharing the same EventList (spec §4.G,
// Open Question: "does rejection-KMC need a parallel event catalogue" —
// resolved no, since the candidate event universe is identical; only the
// selection rule differs). A candidate event is drawn uniformly, then
// accepted with probability rate/rateMax; rejected draws still advance
// Count but not SimTime, matching the rejection-KMC convention that time
// only advances on an accepted (fired) event.
func (k *Kernel) RejectionStep(rateMax float64) error {
	n := k.List.NumEvents()
	if n == 0 {
		return monte.ConsistencyErrorf("kmc rejection step: empty event catalogue")
	}
	idx := int(k.RNG.NextFloat64() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	ev := k.List.Event(idx)
	k.Count++

	if k.RNG.NextFloat64()*rateMax >= ev.Rate {
		return nil // rejected: time does not advance
	}

	sites, newOcc := ev.CurrentSitesAndOcc(k.State.Occupation)
	hops := make([]monte.AtomHop, len(ev.Hops))
	copy(hops, ev.Hops)
	trajs, err := k.Loc.ApplyHop(monte.OccEvent{LinearSiteIndex: sites, NewOcc: newOcc}, k.State.Occupation, hops)
	if err != nil {
		return err
	}
	if k.trackAtoms {
		k.Trajectories = append(k.Trajectories, trajs...)
	}
	k.SimTime += 1.0 / rateMax
	k.List.Recompute(ev.Template.affectedCells(ev.UnitCell, k.List.sc))
	return nil
}
