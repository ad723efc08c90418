package kmc

import (
	"sort"

	"github.com/clexmonte/clexmonte-go/monte"
)

// EventList is the full catalogue of ConcreteEvents over a supercell, the
// n-fold-way rejection-free sampler's event universe (spec §4.G). It owns
// a RateTree for O(log N) total-rate/select and tracks, per unit cell,
// which concrete event indices have that unit cell in their correlation
// window, so firing an event can recompute exactly the events it
// invalidates rather than the whole catalogue.
type EventList struct {
	sc       *monte.Supercell
	events   []*ConcreteEvent
	tree     *RateTree
	byCell   [][]int // unit cell -> indices into events whose window includes it

	rateFn func(ev *ConcreteEvent) float64

	// ResyncEvery periodically rebuilds the rate tree from raw per-event
	// rates to bound floating-point drift from repeated incremental
	// updates (SPEC_FULL.md §C). 0 disables periodic resync.
	ResyncEvery  int
	firesSinceResync int
}

// NewEventList builds the event catalogue from one PrimEvent per
// neighbor-list window already materialized as ConcreteEvents (events),
// plus a rate function recomputing a single event's rate from current
// occupation. byCell maps each unit cell index to the events whose window
// includes it.
func NewEventList(sc *monte.Supercell, events []*ConcreteEvent, byCell [][]int, rateFn func(ev *ConcreteEvent) float64) *EventList {
	rates := make([]float64, len(events))
	for i, ev := range events {
		ev.Rate = rateFn(ev)
		rates[i] = ev.Rate
	}
	return &EventList{
		sc:     sc,
		events: events,
		tree:   NewRateTree(rates),
		byCell: byCell,
		rateFn: rateFn,
	}
}

// NumEvents returns the size of the catalogue.
func (el *EventList) NumEvents() int { return len(el.events) }

// TotalRate returns the sum of all event rates.
func (el *EventList) TotalRate() float64 { return el.tree.Total() }

// Select picks an event with probability proportional to its rate, given
// a uniform draw u in [0, TotalRate()).
func (el *EventList) Select(u float64) *ConcreteEvent {
	return el.events[el.tree.Select(u)]
}

// Recompute refreshes the rates of every event whose window overlaps the
// given set of unit cells (the Impact of a just-fired event), updating
// the rate tree incrementally. After ResyncEvery such recomputations, the
// tree is rebuilt from scratch to bound drift.
func (el *EventList) Recompute(affectedUnitCells []int) {
	touched := map[int]bool{}
	for _, cell := range affectedUnitCells {
		if cell < 0 || cell >= len(el.byCell) {
			continue
		}
		for _, idx := range el.byCell[cell] {
			touched[idx] = true
		}
	}
	idxs := make([]int, 0, len(touched))
	for idx := range touched {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs) // canonical order for reproducibility

	for _, idx := range idxs {
		ev := el.events[idx]
		ev.Rate = el.rateFn(ev)
		el.tree.Update(idx, ev.Rate)
	}

	el.firesSinceResync++
	if el.ResyncEvery > 0 && el.firesSinceResync >= el.ResyncEvery {
		el.tree.Resync()
		el.firesSinceResync = 0
	}
}

// Event returns the event at catalogue index i.
func (el *EventList) Event(i int) *ConcreteEvent { return el.events[i] }

// BuildEventList materializes every PrimEvent template at every unit cell
// of sc into a ConcreteEvent, wires each event's unit-cell dependency
// footprint into the byCell reverse index, and builds the initial
// RateTree via rateFn (spec §4.G). This is the one-stop constructor the
// kinetic-ensemble CLI command uses; NewEventList remains available for
// callers that already have their own ConcreteEvent/byCell construction.
func BuildEventList(sc *monte.Supercell, templates []PrimEvent, rateFn func(ev *ConcreteEvent) float64) *EventList {
	var events []*ConcreteEvent
	byCell := make([][]int, sc.Volume())

	for ti := range templates {
		tmpl := &templates[ti]
		for u := 0; u < int(sc.Volume()); u++ {
			ev := &ConcreteEvent{Template: tmpl, UnitCell: u, Hops: materializeHops(sc, tmpl, u)}
			idx := len(events)
			events = append(events, ev)
			for _, cell := range tmpl.affectedCells(u, sc) {
				if cell >= 0 && cell < len(byCell) {
					byCell[cell] = append(byCell[cell], idx)
				}
			}
		}
	}
	return NewEventList(sc, events, byCell, rateFn)
}

// materializeHops translates a PrimEvent's hop templates to global site
// indices at unit cell u.
func materializeHops(sc *monte.Supercell, tmpl *PrimEvent, u int) []monte.AtomHop {
	base := sc.UnitCellCoord(u)
	siteAt := func(offsetIdx int) int {
		off := tmpl.NeighborhoodOffsets[offsetIdx]
		dest := [3]int64{base[0] + off.Translation[0], base[1] + off.Translation[1], base[2] + off.Translation[2]}
		return sc.LinearSiteIndex(off.Basis, sc.UnitCellIndex(dest))
	}
	hops := make([]monte.AtomHop, len(tmpl.Hops))
	for i, h := range tmpl.Hops {
		hops[i] = monte.AtomHop{
			FromSite:      siteAt(h.FromOffset),
			ToSite:        siteAt(h.ToOffset),
			DeltaUnitCell: h.DeltaUnitCell,
		}
	}
	return hops
}
