package monte

// Occupation is the only mutable state in a run: an integer vector of
// length N, entry l is the index of the occupant at site l within that
// site's allowed-occupant list (spec §3).
type Occupation []int

// Clone returns an independent copy.
func (o Occupation) Clone() Occupation {
	return append(Occupation(nil), o...)
}

// State is Supercell ⊕ Occupation ⊕ Conditions (spec §3). The Potential
// holds a non-owning reference to a State; the OccLocation exclusively
// owns the mutable Occupation for the duration of a run (spec §5, §9).
type State struct {
	Supercell  *Supercell
	Occupation Occupation
	Conditions Conditions
}

// Validate checks the State identity invariant:
// length(occupation) == b*det(T) (spec §3).
func (s *State) Validate() error {
	if s.Supercell == nil {
		return ConsistencyErrorf("state has no supercell")
	}
	return s.Supercell.ValidateOccupation(s.Occupation)
}

// Clone returns a State with an independently-mutable Occupation and
// Conditions, sharing the (read-only) Supercell/Prim.
func (s *State) Clone() *State {
	return &State{
		Supercell:  s.Supercell,
		Occupation: s.Occupation.Clone(),
		Conditions: s.Conditions.Clone(),
	}
}
