package monte

// Prim is the asymmetric unit of the crystal: an ordered sequence of basis
// sites, each with an enumerated set of allowed discrete occupants. Carries
// the lattice and, per spec §1's non-goal, takes the asymmetric-unit
// assignment of each site as structured input rather than deriving it;
// space-group operations and per-site stabilizers are not carried.
// Immutable after construction;
// shared read-only by all states and runs (spec §5).
type Prim struct {
	// Lattice is the 3x3 real-space lattice matrix, rows are lattice
	// vectors.
	Lattice [3][3]float64
	// Sites holds one entry per basis site, in prim order.
	Sites []PrimSite
}

// PrimSite describes one basis site of the prim.
type PrimSite struct {
	// Coordinate is the fractional coordinate within the prim cell.
	Coordinate [3]float64
	// AllowedOccupants is the enumerated occupant list for this site; an
	// Occupation entry at a site on this sublattice indexes into this
	// slice.
	AllowedOccupants []string
	// AsymUnit is the asymmetric-unit index this site belongs to, as
	// produced by the (external) symmetry analysis. Sites sharing an
	// AsymUnit are symmetry-equivalent and interchangeable in swap
	// enumeration (spec §4.E).
	AsymUnit int
	// ComponentIndices[i] is the global composition-component index of
	// AllowedOccupants[i] (species may repeat across sublattices, e.g.
	// vacancies; component accounting is keyed by this shared index, not
	// by the per-sublattice occupant index).
	ComponentIndices []int
}

// B returns the number of basis sites in the prim.
func (p *Prim) B() int { return len(p.Sites) }

// NumAsymUnits returns one past the largest AsymUnit index used by any
// site.
func (p *Prim) NumAsymUnits() int {
	max := -1
	for _, s := range p.Sites {
		if s.AsymUnit > max {
			max = s.AsymUnit
		}
	}
	return max + 1
}

// OccupantIndex returns the index of species within basis site b's
// allowed-occupant list, or -1 if species is not allowed there.
func (p *Prim) OccupantIndex(b int, species string) int {
	for i, s := range p.Sites[b].AllowedOccupants {
		if s == species {
			return i
		}
	}
	return -1
}

// ComponentIndex returns the global composition-component index of
// occupant occIdx at basis site b, falling back to occIdx itself when the
// site has no explicit ComponentIndices (single-sublattice or
// already-global-index systems).
func (p *Prim) ComponentIndex(b, occIdx int) int {
	ci := p.Sites[b].ComponentIndices
	if len(ci) == 0 {
		return occIdx
	}
	return ci[occIdx]
}

// NumComponents returns one past the largest component index used by any
// site's ComponentIndices (or the largest AllowedOccupants length if no
// site declares ComponentIndices).
func (p *Prim) NumComponents() int {
	max := -1
	for _, s := range p.Sites {
		if len(s.ComponentIndices) == 0 {
			if len(s.AllowedOccupants)-1 > max {
				max = len(s.AllowedOccupants) - 1
			}
			continue
		}
		for _, c := range s.ComponentIndices {
			if c > max {
				max = c
			}
		}
	}
	return max + 1
}

// Validate checks internal consistency of the prim definition.
func (p *Prim) Validate() error {
	if len(p.Sites) == 0 {
		return ConfigErrorf("prim.sites", "non_empty", "prim must have at least one basis site")
	}
	for i, s := range p.Sites {
		if len(s.AllowedOccupants) == 0 {
			return ConfigErrorf("prim.sites", "allowed_occupants_non_empty",
				"basis site %d has no allowed occupants", i)
		}
		if s.AsymUnit < 0 {
			return ConfigErrorf("prim.sites", "asym_unit_non_negative",
				"basis site %d has negative asymmetric-unit index %d", i, s.AsymUnit)
		}
		if len(s.ComponentIndices) != 0 && len(s.ComponentIndices) != len(s.AllowedOccupants) {
			return ConfigErrorf("prim.sites", "component_indices_length",
				"basis site %d has %d component indices but %d allowed occupants", i,
				len(s.ComponentIndices), len(s.AllowedOccupants))
		}
	}
	return nil
}
