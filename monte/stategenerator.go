package monte

// StateGenerator produces the ordered sequence of initial States for a
// condition sweep (spec §4.I). Path-following reuses the previous run's
// final occupation as the next run's initial occupation instead of
// starting every condition from the same reference state; this cuts
// equilibration time across a sweep at the cost of making results order
// dependent, exactly as in the source simulator.
type StateGenerator struct {
	supercell    *Supercell
	reference    Occupation
	conditions   []Conditions
	idx          int
	pathFollow   bool
	previousFinal *State
}

// NewStateGenerator builds a generator over an explicit list of
// Conditions, each paired with the same reference supercell/occupation.
func NewStateGenerator(sc *Supercell, reference Occupation, conditions []Conditions, pathFollow bool) *StateGenerator {
	return &StateGenerator{
		supercell:  sc,
		reference:  reference,
		conditions: conditions,
		pathFollow: pathFollow,
	}
}

// HasNext reports whether another condition remains in the sweep.
func (g *StateGenerator) HasNext() bool { return g.idx < len(g.conditions) }

// PathFollowing reports whether this generator reuses each run's final
// occupation as the next run's starting point.
func (g *StateGenerator) PathFollowing() bool { return g.pathFollow }

// Next returns the initial State for the next condition in the sweep,
// advancing the cursor. When path-following, the occupation is the prior
// run's final occupation (set via SetPreviousFinal); otherwise it is
// always the reference occupation.
func (g *StateGenerator) Next() *State {
	cond := g.conditions[g.idx]
	g.idx++

	occ := g.reference
	if g.pathFollow && g.previousFinal != nil {
		occ = g.previousFinal.Occupation
	}
	return &State{
		Supercell:  g.supercell,
		Occupation: occ.Clone(),
		Conditions: cond,
	}
}

// SetPreviousFinal records the final state of the most recently completed
// run, for path-following sweeps.
func (g *StateGenerator) SetPreviousFinal(s *State) {
	g.previousFinal = s
}

// Remaining returns how many conditions are left unstarted.
func (g *StateGenerator) Remaining() int { return len(g.conditions) - g.idx }

// LinearConditionSweep builds a list of Conditions interpolating
// Temperature, MolComposition, ParamComposition and ParamChemPot linearly
// between a start and end Conditions over n points, the common case for
// spec §6's condition-list input documents.
func LinearConditionSweep(start, end Conditions, n int) []Conditions {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []Conditions{start}
	}
	out := make([]Conditions, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		out[i] = Conditions{
			Temperature:       lerp(start.Temperature, end.Temperature, t),
			MolComposition:    lerpVec(start.MolComposition, end.MolComposition, t),
			ParamComposition:  lerpVec(start.ParamComposition, end.ParamComposition, t),
			ParamChemPot:      lerpVec(start.ParamChemPot, end.ParamChemPot, t),
		}
	}
	return out
}

func lerp(a, b, t float64) float64 { return a + t*(b-a) }

func lerpVec(a, b []float64, t float64) []float64 {
	if a == nil && b == nil {
		return nil
	}
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var av, bv float64
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		out[i] = lerp(av, bv, t)
	}
	return out
}
