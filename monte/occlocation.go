package monte

// OccCandidate is an (asymmetric-unit-index, species-index) pair usable in
// swap enumeration (spec §3, GLOSSARY).
type OccCandidate struct {
	AsymUnit int
	Species  int // index into Prim.Sites[*].AllowedOccupants for that asym unit's representative site
}

// OccEvent is a concrete materialization of a swap or single-site change:
// the sites written and their new occupant values, in parallel slices
// (spec GLOSSARY).
type OccEvent struct {
	LinearSiteIndex []int
	NewOcc          []int
}

// AtomTrajectory records one atom's displacement for an applied event,
// used by mean-squared-displacement sampling (spec §4.C).
type AtomTrajectory struct {
	AtomID        uint64
	FromSite      int
	ToSite        int
	DeltaUnitCell [3]int64
}

// OccLocation is the occupant tracker (spec §4.C): indexed lookup by
// (asym unit, species) → list of currently-occupied site indices, with O(1)
// uniform sampling of a site by (asym, species). Exclusively owns the
// bookkeeping that must stay consistent with the shared Occupation vector
// for the duration of a run (spec §5, §9).
type OccLocation struct {
	prim  *Prim
	sc    *Supercell
	lists map[OccCandidate][]int // candidate -> site indices
	pos   map[int]candidateSlot  // site -> (candidate, position within lists[candidate])

	trackAtoms  bool
	atomAtSite  map[int]uint64
	atomSpecies map[uint64]int
	nextAtomID  uint64
}

type candidateSlot struct {
	candidate OccCandidate
	index     int
}

// NewOccLocation builds an OccLocation with empty lists; call Initialize to
// populate it from an occupation vector.
func NewOccLocation(prim *Prim, sc *Supercell, trackAtoms bool) *OccLocation {
	return &OccLocation{
		prim:        prim,
		sc:          sc,
		lists:       make(map[OccCandidate][]int),
		pos:         make(map[int]candidateSlot),
		trackAtoms:  trackAtoms,
		atomAtSite:  make(map[int]uint64),
		atomSpecies: make(map[uint64]int),
	}
}

// Initialize rebuilds all per-(asym,species) lists from the given
// occupation, assigning fresh monotonic atom IDs if atom tracking is
// enabled.
func (loc *OccLocation) Initialize(occ Occupation) error {
	if err := loc.sc.ValidateOccupation(occ); err != nil {
		return err
	}
	loc.lists = make(map[OccCandidate][]int)
	loc.pos = make(map[int]candidateSlot)
	if loc.trackAtoms {
		loc.atomAtSite = make(map[int]uint64)
		loc.atomSpecies = make(map[uint64]int)
		loc.nextAtomID = 0
	}
	for l, species := range occ {
		b, _ := loc.sc.SiteBasisAndUnitCell(l)
		cand := OccCandidate{AsymUnit: loc.prim.Sites[b].AsymUnit, Species: species}
		loc.lists[cand] = append(loc.lists[cand], l)
		loc.pos[l] = candidateSlot{candidate: cand, index: len(loc.lists[cand]) - 1}
		if loc.trackAtoms {
			loc.atomAtSite[l] = loc.nextAtomID
			loc.atomSpecies[loc.nextAtomID] = species
			loc.nextAtomID++
		}
	}
	return nil
}

// SpeciesOf returns the occupant-species index (into the asym unit's
// AllowedOccupants) that atomID was assigned at Initialize time. Hops
// carry an atom's identity (and hence its species) across sites, so this
// stays valid for the life of the tracker; it is undefined if trackAtoms
// was false or atomID was never assigned.
func (loc *OccLocation) SpeciesOf(atomID uint64) int {
	return loc.atomSpecies[atomID]
}

// Count returns the number of sites currently holding candidate c.
func (loc *OccLocation) Count(c OccCandidate) int {
	return len(loc.lists[c])
}

// CandidateOf returns the (asym, species) candidate site l currently
// belongs to.
func (loc *OccLocation) CandidateOf(l int) OccCandidate {
	return loc.pos[l].candidate
}

// SiteOf returns a uniformly-random currently-occupied site for candidate
// c in O(1), using rng. Returns (-1, false) if c has no occupied sites.
func (loc *OccLocation) SiteOf(c OccCandidate, rng RNG) (int, bool) {
	sites := loc.lists[c]
	if len(sites) == 0 {
		return -1, false
	}
	idx := int(rng.NextU64() % uint64(len(sites)))
	return sites[idx], true
}

// Apply mutates occ AND moves the affected sites between species lists,
// maintaining the invariant that tracker state stays consistent with
// occupation (spec §4.C). Apply records no trajectories and leaves atom
// IDs where they are; ApplyHop is the variant that moves atom IDs and
// returns trajectory deltas for hops.
func (loc *OccLocation) Apply(e OccEvent, occ Occupation) error {
	for i, l := range e.LinearSiteIndex {
		oldSpecies := occ[l]
		newSpecies := e.NewOcc[i]
		if oldSpecies == newSpecies {
			continue
		}
		b, _ := loc.sc.SiteBasisAndUnitCell(l)
		oldCand := OccCandidate{AsymUnit: loc.prim.Sites[b].AsymUnit, Species: oldSpecies}
		newCand := OccCandidate{AsymUnit: loc.prim.Sites[b].AsymUnit, Species: newSpecies}

		loc.removeFromList(l, oldCand)
		loc.lists[newCand] = append(loc.lists[newCand], l)
		loc.pos[l] = candidateSlot{candidate: newCand, index: len(loc.lists[newCand]) - 1}

		occ[l] = newSpecies
	}
	return nil
}

// removeFromList removes site l from candidate c's list via swap-with-last,
// fixing up the moved site's recorded position (O(1)).
func (loc *OccLocation) removeFromList(l int, c OccCandidate) {
	sites := loc.lists[c]
	slot := loc.pos[l]
	last := len(sites) - 1
	moved := sites[last]
	sites[slot.index] = moved
	loc.lists[c] = sites[:last]
	if moved != l {
		loc.pos[moved] = candidateSlot{candidate: c, index: slot.index}
	}
	delete(loc.pos, l)
}

// ApplyHop applies a KMC hop event: like Apply, but additionally tracks
// atom identity across the site exchange (spec §4.C: "assign stable
// monotonic atom IDs and record trajectory deltas... so mean-squared-
// displacement samplers can accumulate atom positions"). hops gives, for
// each atom that moves in the event, its originating site, its
// destination site and the unit-cell translation it underwent.
func (loc *OccLocation) ApplyHop(e OccEvent, occ Occupation, hops []AtomHop) ([]AtomTrajectory, error) {
	if !loc.trackAtoms {
		return nil, loc.Apply(e, occ)
	}
	trajectories := make([]AtomTrajectory, 0, len(hops))
	for _, h := range hops {
		atomID, ok := loc.atomAtSite[h.FromSite]
		if !ok {
			return nil, ConsistencyErrorf("ApplyHop: no tracked atom at site %d", h.FromSite)
		}
		trajectories = append(trajectories, AtomTrajectory{
			AtomID:        atomID,
			FromSite:      h.FromSite,
			ToSite:        h.ToSite,
			DeltaUnitCell: h.DeltaUnitCell,
		})
	}
	if err := loc.Apply(e, occ); err != nil {
		return nil, err
	}
	// Atom identities move with the occupant: each hop exchanges its two
	// sites' occupants, so after Apply site ToSite carries what used to be
	// at FromSite and FromSite carries what used to be at ToSite.
	next := make(map[int]uint64, len(loc.atomAtSite))
	for site, id := range loc.atomAtSite {
		next[site] = id
	}
	for _, h := range hops {
		next[h.ToSite] = loc.atomAtSite[h.FromSite]
		if id, ok := loc.atomAtSite[h.ToSite]; ok {
			next[h.FromSite] = id
		} else {
			delete(next, h.FromSite)
		}
	}
	loc.atomAtSite = next
	return trajectories, nil
}

// AtomHop describes one atom's move within a fired KMC event, prior to
// Apply mutating the occupation.
type AtomHop struct {
	FromSite      int
	ToSite        int
	DeltaUnitCell [3]int64
}

// ConsistentWithFreshInit reports whether loc's per-species site sets
// exactly match what a fresh Initialize(occ) would produce — the property
// tested in spec §8 ("OccLocation after N_random_applies events is
// consistent with a fresh initialize(occupation)").
func (loc *OccLocation) ConsistentWithFreshInit(occ Occupation) bool {
	fresh := NewOccLocation(loc.prim, loc.sc, false)
	if err := fresh.Initialize(occ); err != nil {
		return false
	}
	if len(fresh.lists) != len(loc.lists) {
		return false
	}
	for cand, sites := range fresh.lists {
		got := append([]int(nil), loc.lists[cand]...)
		want := append([]int(nil), sites...)
		if !sameSet(got, want) {
			return false
		}
	}
	return true
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	count := map[int]int{}
	for _, v := range a {
		count[v]++
	}
	for _, v := range b {
		count[v]--
	}
	for _, c := range count {
		if c != 0 {
			return false
		}
	}
	return true
}
