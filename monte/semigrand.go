package monte

// SemiGrandCanonical returns E_form − V·μ⃗·x⃗(occupation), where x⃗ is the
// parametric composition and μ⃗ are the chemical potentials (spec §4.D).
// The delta form uses a per-(from_species → to_species) exchange-potential
// matrix Ξ precomputed from μ⃗ and the axes, so the per-site cost of
// occ_delta_extensive_value is one table lookup plus the CE delta.
type SemiGrandCanonical struct {
	ce    *ClusterExpansion
	axes  CompositionAxes
	state *State
	prim  *Prim
	sc    *Supercell
	// xi[from][to] is the exchange potential for substituting component
	// `from` with component `to` at a single site, precomputed once per
	// construction from the state's param_chem_pot.
	xi [][]float64
}

// NewSemiGrandCanonical constructs the semi-grand potential. Fails if the
// state lacks param_chem_pot of the axes' dimension.
func NewSemiGrandCanonical(ce *ClusterExpansion, axes CompositionAxes, state *State) (*SemiGrandCanonical, error) {
	if ce == nil {
		return nil, ConsistencyErrorf("semi-grand potential requires a formation-energy cluster expansion")
	}
	numAxes := len(axes.EndMembers)
	if err := state.Conditions.RequireForSemiGrand(numAxes); err != nil {
		return nil, err
	}
	prim := state.Supercell.Prim
	numComp := prim.NumComponents()
	xi := make([][]float64, numComp)
	for a := 0; a < numComp; a++ {
		xi[a] = make([]float64, numComp)
		for b := 0; b < numComp; b++ {
			if a == b {
				continue
			}
			delta := make([]float64, numComp)
			delta[a] = -1
			delta[b] = 1
			paramDelta := axes.ParamFromMolDelta(delta)
			xi[a][b] = dot(state.Conditions.ParamChemPot, paramDelta)
		}
	}
	return &SemiGrandCanonical{
		ce:    ce,
		axes:  axes,
		state: state,
		prim:  prim,
		sc:    state.Supercell,
		xi:    xi,
	}, nil
}

func (s *SemiGrandCanonical) ExtensiveValue() float64 {
	eForm := s.ce.ExtensiveValue(s.state.Occupation)
	mol := MolCompositionOf(s.prim, s.sc, s.state.Occupation)
	param := s.axes.ParamFromMol(mol)
	v := float64(s.sc.Volume())
	return eForm - v*dot(s.state.Conditions.ParamChemPot, param)
}

// OccDeltaExtensiveValue returns the CE delta minus the sum, over changed
// sites, of the exchange potential Ξ[from][to] — one table lookup per
// site, no composition recomputation.
func (s *SemiGrandCanonical) OccDeltaExtensiveValue(sites []int, newOcc []int) float64 {
	delta := s.ce.OccDeltaValue(s.state.Occupation, sites, newOcc)
	for i, l := range sites {
		b, _ := s.sc.SiteBasisAndUnitCell(l)
		from := s.prim.ComponentIndex(b, s.state.Occupation[l])
		to := s.prim.ComponentIndex(b, newOcc[i])
		if from == to {
			continue
		}
		delta -= s.xi[from][to]
	}
	return delta
}
