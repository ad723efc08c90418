package monte

// NeighborList maps each unit cell to the fixed-order window of supercell
// site indices its basis-function evaluator needs (spec §3, §4.A). The
// order must match the convention the Clexulator was compiled against. The
// list is built for one supercell: it keeps the offsets relative to unit
// cell 0 and, for every unit cell of that supercell, the absolute window
// those offsets produce under its periodic boundary.
//
// The adjacency-bookkeeping idiom (slice-of-slices plus a reverse index) is
// grounded on katalvlaran-lvlath/graph/adjacency_list.go — that repo
// carries no runtime third-party dependency of its own, so only its coding
// idiom is followed (SPEC_FULL.md §B), not a wired library.
type NeighborList struct {
	supercell *Supercell
	// offsets[i] is a (basis-site, unit-cell-translation) pair relative to
	// unit cell 0, in the canonical order the evaluator expects.
	offsets []NeighborOffset
	// windows[u] is the list of absolute linear site indices for unit
	// cell u, in the same canonical order as offsets.
	windows [][]int
	// neighborIndex[l] is l's position within the window of its home unit
	// cell.
	neighborIndex []int
	// unitCellsOf[l] is the set of unit cells whose window contains site
	// l, precomputed so occ_delta_value can visit only impacted unit
	// cells in O(1) per site (spec §4.B).
	unitCellsOf [][]int
}

// NeighborOffset is one entry of a neighbor-list window, relative to unit
// cell 0.
type NeighborOffset struct {
	Basis       int
	Translation [3]int64
}

// NewNeighborList builds a NeighborList for the given supercell from a
// fixed set of offsets (the basis-set neighborhood, supplied by the System
// input per spec §6 — this core does not derive cutoffs from geometry, it
// consumes them).
func NewNeighborList(sc *Supercell, offsets []NeighborOffset) *NeighborList {
	nl := &NeighborList{
		supercell:     sc,
		offsets:       offsets,
		windows:       make([][]int, sc.Volume()),
		neighborIndex: make([]int, sc.NumSites()),
	}
	for u := int64(0); u < sc.Volume(); u++ {
		uc := sc.UnitCellCoord(int(u))
		window := make([]int, len(offsets))
		for i, off := range offsets {
			destUC := [3]int64{uc[0] + off.Translation[0], uc[1] + off.Translation[1], uc[2] + off.Translation[2]}
			destIdx := sc.UnitCellIndex(destUC)
			l := sc.LinearSiteIndex(off.Basis, destIdx)
			window[i] = l
		}
		nl.windows[u] = window
	}
	nl.unitCellsOf = make([][]int, sc.NumSites())
	for u, window := range nl.windows {
		for _, site := range window {
			nl.unitCellsOf[site] = append(nl.unitCellsOf[site], u)
		}
	}
	// home-window position index: for the unit cell a site lives in, find
	// its position among offset-0-translation entries (basis match, zero
	// translation).
	for l := 0; l < sc.NumSites(); l++ {
		b, u := sc.SiteBasisAndUnitCell(l)
		pos := -1
		for i, off := range nl.offsets {
			if off.Basis == b && off.Translation == ([3]int64{}) {
				pos = i
				break
			}
		}
		_ = u
		nl.neighborIndex[l] = pos
	}
	return nl
}

// Window returns the fixed-order neighbor-site window for unit cell u.
func (nl *NeighborList) Window(u int) []int { return nl.windows[u] }

// NeighborIndex returns l's position within the window of its home unit
// cell, or -1 if l's basis site is not present in the window at zero
// translation.
func (nl *NeighborList) NeighborIndex(l int) int { return nl.neighborIndex[l] }

// UnitCellsContaining returns the unit cells whose window includes site l,
// i.e. the unit cells whose local correlation changes when l's occupant
// changes. Used by occ_delta_value (spec §4.B: "visit only unit cells
// containing at least one changed site").
func (nl *NeighborList) UnitCellsContaining(l int) []int {
	return nl.unitCellsOf[l]
}

// NumUnitCells returns the number of unit cells (= supercell volume).
func (nl *NeighborList) NumUnitCells() int { return len(nl.windows) }
