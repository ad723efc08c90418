// Package kmc implements rejection-free (n-fold-way) and rejection kinetic
// Monte Carlo on top of the monte package's occupation model and cluster
// expansion evaluator (spec §4.G). Reading guide: events.go (what an event
// is) → eventlist.go (the cumulative-rate structure) → rate.go (how a
// rate is computed) → kernel.go (the stepping loop) → msd.go (tracer
// diffusion sampling).
package kmc

import "github.com/clexmonte/clexmonte-go/monte"

// PrimEvent is an event template defined relative to a neighborhood of
// sites at fixed relative unit-cell offsets (spec §4.G): a hop of one or
// more atoms plus the sites whose occupation changes as a consequence.
// Translating a PrimEvent by a unit cell produces a ConcreteEvent.
type PrimEvent struct {
	Label string

	// NeighborhoodOffsets are the (basis, translation) pairs the event's
	// correlation-window delta-evaluation must touch, same representation
	// as monte.NeighborOffset.
	NeighborhoodOffsets []monte.NeighborOffset

	// Hops describes which sites exchange occupants, in NeighborhoodOffsets
	// index space (index into NeighborhoodOffsets, not global site index).
	Hops []HopTemplate

	// KRAEnergy is the kinetically-resolved-activation energy for this
	// event template, independent of the local configuration (spec §4.G,
	// SPEC_FULL.md §C).
	KRAEnergy float64

	AttemptFrequency float64
}

// HopTemplate names two neighborhood-relative sites that exchange
// occupants when this event fires.
type HopTemplate struct {
	FromOffset, ToOffset int
	DeltaUnitCell        [3]int64 // ToOffset's unit cell minus FromOffset's, for atom-trajectory bookkeeping
}

// ConcreteEvent is a PrimEvent materialized at a specific unit cell: the
// hops expressed as global site indices. Unlike a canonical swap proposal,
// a hop event's resulting occupation depends on whatever currently sits at
// its sites, so ConcreteEvent deliberately does NOT cache the post-event
// occupant values — CurrentSitesAndOcc recomputes them from the live
// occupation every time the event's rate is (re)computed or the event
// fires, exactly the information both need.
type ConcreteEvent struct {
	Template *PrimEvent
	UnitCell int

	Hops []monte.AtomHop

	Rate float64
}

// CurrentSitesAndOcc reads occ and returns the (sites, newOcc) pair this
// event would apply right now: each hop swaps the occupants currently at
// its two endpoint sites. Sites/newOcc are suitable for both
// monte.ClusterExpansion.OccDeltaValue and monte.OccLocation.ApplyHop (via
// monte.OccEvent).
func (e *ConcreteEvent) CurrentSitesAndOcc(occ monte.Occupation) (sites []int, newOcc []int) {
	current := make(map[int]int, 2*len(e.Hops))
	order := make([]int, 0, 2*len(e.Hops))
	for _, h := range e.Hops {
		if _, ok := current[h.FromSite]; !ok {
			current[h.FromSite] = occ[h.FromSite]
			order = append(order, h.FromSite)
		}
		if _, ok := current[h.ToSite]; !ok {
			current[h.ToSite] = occ[h.ToSite]
			order = append(order, h.ToSite)
		}
	}
	next := make(map[int]int, len(current))
	for k, v := range current {
		next[k] = v
	}
	for _, h := range e.Hops {
		next[h.ToSite] = current[h.FromSite]
		next[h.FromSite] = current[h.ToSite]
	}
	sites = order
	newOcc = make([]int, len(order))
	for i, s := range order {
		newOcc[i] = next[s]
	}
	return sites, newOcc
}

// Impact is the bookkeeping a fired ConcreteEvent produces for dependent
// event rate recomputation: the set of unit cells whose neighborhood
// overlaps this event's changed sites, and therefore whose rates must be
// recomputed (spec §4.G: "firing an event invalidates the rates of every
// event whose neighborhood overlaps the changed sites").
type Impact struct {
	AffectedUnitCells []int
}
