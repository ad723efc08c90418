package monte

// Potential is the shared interface the Metropolis kernel drives (spec
// §4.D): {extensive_value(), occ_delta_extensive_value(sites, new_occ)}.
// A Potential holds a non-owning reference to the current State and a
// shared (read-only) reference to the System-level ClusterExpansion(s)
// (spec §9: "Replace cyclic graphs (Potential ↔ State) with unidirectional
// handles where State is the root").
type Potential interface {
	ExtensiveValue() float64
	OccDeltaExtensiveValue(sites []int, newOcc []int) float64
}

// NewCanonical constructs the canonical potential (NewSemiGrandCanonical in
// semigrand.go builds the semi-grand one). Construction fails (spec §4.D)
// if the formation-energy expansion is nil or the State is missing
// required condition keys; evaluation never fails once constructed.
func NewCanonical(ce *ClusterExpansion, state *State) (*Canonical, error) {
	if ce == nil {
		return nil, ConsistencyErrorf("canonical potential requires a formation-energy cluster expansion")
	}
	numComponents := state.Supercell.Prim.NumComponents()
	if err := state.Conditions.RequireForCanonical(numComponents); err != nil {
		return nil, err
	}
	return &Canonical{ce: ce, state: state}, nil
}

// Canonical returns the formation-energy expansion directly (spec §4.D).
type Canonical struct {
	ce    *ClusterExpansion
	state *State
}

func (c *Canonical) ExtensiveValue() float64 {
	return c.ce.ExtensiveValue(c.state.Occupation)
}

func (c *Canonical) OccDeltaExtensiveValue(sites []int, newOcc []int) float64 {
	return c.ce.OccDeltaValue(c.state.Occupation, sites, newOcc)
}
