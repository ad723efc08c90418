package monte

// OccSwap is a permissible exchange between two occupants sharing
// sublattice constraints (spec §3, GLOSSARY). A canonical swap exchanges
// two distinct species between two sites of the same asymmetric unit; a
// grand-canonical move (proposed by ProposeGrandCanonical as a one-site
// OccEvent, with no OccSwap value) replaces a single occupant with a
// different admissible occupant on the same sublattice.
type OccSwap struct {
	AsymUnit int
	SpeciesA int
	SpeciesB int
}

// SwapEnumerator enumerates the allowed canonical swaps for a prim once
// (spec §4.E: "allowed swaps are the pairs of distinct species sharing a
// common asymmetric unit whose counts are both positive").
type SwapEnumerator struct {
	prim  *Prim
	swaps []OccSwap // all candidate pairs, regardless of current counts
}

// NewSwapEnumerator builds the fixed list of canonical swaps from the
// prim's asymmetric units.
func NewSwapEnumerator(prim *Prim) *SwapEnumerator {
	se := &SwapEnumerator{prim: prim}
	// Walk sites in prim order (first site of each asym unit is its
	// representative) so the swap list order is the same on every run.
	seen := map[int]bool{}
	for _, site := range prim.Sites {
		if seen[site.AsymUnit] {
			continue
		}
		seen[site.AsymUnit] = true
		asym := site.AsymUnit
		n := len(site.AllowedOccupants)
		for a := 0; a < n; a++ {
			for b := a + 1; b < n; b++ {
				se.swaps = append(se.swaps, OccSwap{AsymUnit: asym, SpeciesA: a, SpeciesB: b})
			}
		}
	}
	return se
}

// ProposeCanonical draws a canonical swap with probability proportional to
// n_a·n_b (spec §4.E), then one site uniformly from each species list, and
// returns the resulting OccEvent. Returns ok=false if no swap currently has
// both counts positive.
func (se *SwapEnumerator) ProposeCanonical(loc *OccLocation, rng RNG) (OccEvent, bool) {
	type weighted struct {
		swap   OccSwap
		weight float64
	}
	var candidates []weighted
	var total float64
	for _, s := range se.swaps {
		ca := OccCandidate{AsymUnit: s.AsymUnit, Species: s.SpeciesA}
		cb := OccCandidate{AsymUnit: s.AsymUnit, Species: s.SpeciesB}
		na, nb := loc.Count(ca), loc.Count(cb)
		if na == 0 || nb == 0 {
			continue
		}
		w := float64(na) * float64(nb)
		total += w
		candidates = append(candidates, weighted{s, w})
	}
	if total == 0 {
		return OccEvent{}, false
	}
	draw := rng.NextFloat64() * total
	var chosen OccSwap
	var acc float64
	for _, c := range candidates {
		acc += c.weight
		if draw < acc {
			chosen = c.swap
			break
		}
	}
	if chosen == (OccSwap{}) && len(candidates) > 0 {
		chosen = candidates[len(candidates)-1].swap
	}
	ca := OccCandidate{AsymUnit: chosen.AsymUnit, Species: chosen.SpeciesA}
	cb := OccCandidate{AsymUnit: chosen.AsymUnit, Species: chosen.SpeciesB}
	siteA, _ := loc.SiteOf(ca, rng)
	siteB, _ := loc.SiteOf(cb, rng)
	return OccEvent{
		LinearSiteIndex: []int{siteA, siteB},
		NewOcc:          []int{chosen.SpeciesB, chosen.SpeciesA},
	}, true
}

// ProposeGrandCanonical draws a site uniformly over all N sites, then a
// new distinct admissible occupant uniformly from the remaining occupants
// of that sublattice (spec §4.E).
func (se *SwapEnumerator) ProposeGrandCanonical(sc *Supercell, occ Occupation, rng RNG) (OccEvent, bool) {
	n := sc.NumSites()
	if n == 0 {
		return OccEvent{}, false
	}
	l := int(rng.NextU64() % uint64(n))
	b, _ := sc.SiteBasisAndUnitCell(l)
	allowed := se.prim.Sites[b].AllowedOccupants
	if len(allowed) < 2 {
		return OccEvent{}, false
	}
	current := occ[l]
	var alternatives []int
	for i := range allowed {
		if i != current {
			alternatives = append(alternatives, i)
		}
	}
	choice := alternatives[int(rng.NextU64()%uint64(len(alternatives)))]
	return OccEvent{
		LinearSiteIndex: []int{l},
		NewOcc:          []int{choice},
	}, true
}
