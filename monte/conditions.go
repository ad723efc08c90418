package monte

// Conditions is a mapping from name to scalar or vector real value (spec
// §3). Reserved keys (spec §6's "Conditions dictionary contract"):
// temperature, mol_composition, param_composition, param_chem_pot. The same
// keys serve both absolute values (StateGenerator base) and increments.
type Conditions struct {
	Temperature     float64
	MolComposition  []float64 // species per unit cell, length = num components
	ParamComposition []float64 // length = independent composition axes
	ParamChemPot    []float64 // length = independent composition axes
}

// KBoltzmannEV is Boltzmann's constant in eV/K.
const KBoltzmannEV = 8.617333262e-5

// Beta returns 1/(k_B*T). Callers must ensure Temperature > 0.
func (c Conditions) Beta() float64 {
	return 1.0 / (KBoltzmannEV * c.Temperature)
}

// Clone returns a deep copy, so StateGenerator increments never alias a
// previous run's Conditions.
func (c Conditions) Clone() Conditions {
	return Conditions{
		Temperature:      c.Temperature,
		MolComposition:   append([]float64(nil), c.MolComposition...),
		ParamComposition: append([]float64(nil), c.ParamComposition...),
		ParamChemPot:     append([]float64(nil), c.ParamChemPot...),
	}
}

// RequireForCanonical validates that the canonical ensemble's required
// keys are present (spec §3): temperature, mol_composition.
func (c Conditions) RequireForCanonical(numComponents int) error {
	if c.Temperature <= 0 {
		return ConsistencyErrorf("canonical conditions require temperature > 0, got %v", c.Temperature)
	}
	if len(c.MolComposition) != numComponents {
		return ConsistencyErrorf("canonical conditions require mol_composition of length %d, got %d",
			numComponents, len(c.MolComposition))
	}
	return nil
}

// RequireForSemiGrand validates temperature and param_chem_pot presence.
func (c Conditions) RequireForSemiGrand(numAxes int) error {
	if c.Temperature <= 0 {
		return ConsistencyErrorf("semi-grand conditions require temperature > 0, got %v", c.Temperature)
	}
	if len(c.ParamChemPot) != numAxes {
		return ConsistencyErrorf("semi-grand conditions require param_chem_pot of length %d, got %d",
			numAxes, len(c.ParamChemPot))
	}
	return nil
}

// RequireForKinetic validates temperature presence.
func (c Conditions) RequireForKinetic() error {
	if c.Temperature <= 0 {
		return ConsistencyErrorf("kinetic conditions require temperature > 0, got %v", c.Temperature)
	}
	return nil
}

// CompositionAxes is the linear converter between mol_composition (species
// per unit cell) and param_composition (independent composition axes),
// stored as an explicit affine map (matrix + origin), matching CASM's
// CompositionConverter representation (SPEC_FULL.md §C) rather than a
// generic closure, so round-trips are exact to floating-point precision
// (spec scenario 6).
type CompositionAxes struct {
	// Origin is mol_composition at param_composition = 0.
	Origin []float64
	// EndMembers[a] is the mol_composition direction added per unit
	// increase of param_composition[a].
	EndMembers [][]float64
}

// ParamFromMolDelta maps a mol_composition *difference* (no Origin
// subtraction needed, since the axes map is affine and Origin cancels in a
// difference) through the same linear least-squares solve ParamFromMol
// uses. Exposed separately so potential.go's exchange-potential
// precomputation can convert a single-site substitution's mol delta
// without recomputing an unnecessary Origin subtraction each time.
func (ax CompositionAxes) ParamFromMolDelta(delta []float64) []float64 {
	numAxes := len(ax.EndMembers)
	numComp := len(delta)
	ata := make([][]float64, numAxes)
	atb := make([]float64, numAxes)
	for a := 0; a < numAxes; a++ {
		ata[a] = make([]float64, numAxes)
		for bIdx := 0; bIdx < numAxes; bIdx++ {
			var s float64
			for i := 0; i < numComp; i++ {
				s += ax.EndMembers[a][i] * ax.EndMembers[bIdx][i]
			}
			ata[a][bIdx] = s
		}
		var s float64
		for i := 0; i < numComp; i++ {
			s += ax.EndMembers[a][i] * delta[i]
		}
		atb[a] = s
	}
	return solveLinear(ata, atb)
}

// MolFromParam computes mol_composition = Origin + sum_a param[a]*EndMembers[a].
func (ax CompositionAxes) MolFromParam(param []float64) []float64 {
	mol := append([]float64(nil), ax.Origin...)
	for a, p := range param {
		for i, v := range ax.EndMembers[a] {
			mol[i] += p * v
		}
	}
	return mol
}

// ParamFromMol inverts MolFromParam by least-squares over the EndMembers
// basis (exact when EndMembers span the residual mol-Origin, which the
// axes' defining property guarantees).
func (ax CompositionAxes) ParamFromMol(mol []float64) []float64 {
	resid := make([]float64, len(ax.Origin))
	for i := range resid {
		resid[i] = mol[i] - ax.Origin[i]
	}
	// Solve resid = sum_a param[a]*EndMembers[a] via normal equations
	// (EndMembers^T EndMembers) param = EndMembers^T resid. For the
	// well-posed axes this spec assumes (independent end-members), this
	// recovers the unique solution exactly up to floating-point error.
	return ax.ParamFromMolDelta(resid)
}

// solveLinear solves a small dense linear system via Gauss-Jordan
// elimination with partial pivoting. Sized for composition-axes problems
// (a handful of independent axes), not general large-scale linear algebra
// — gonum.org/v1/gonum/floats is used elsewhere in this package (clexulator.go)
// for the basis·coefficient contraction, but a borrowed general solver
// would be overkill for the tiny (axes x axes) systems here.
func solveLinear(a [][]float64, b []float64) []float64 {
	n := len(b)
	aug := make([][]float64, n)
	for i := range aug {
		aug[i] = append(append([]float64(nil), a[i]...), b[i])
	}
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if abs(aug[r][col]) > abs(aug[pivot][col]) {
				pivot = r
			}
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]
		pv := aug[col][col]
		if pv == 0 {
			continue
		}
		for c := col; c <= n; c++ {
			aug[col][c] /= pv
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := aug[r][col]
			for c := col; c <= n; c++ {
				aug[r][c] -= f * aug[col][c]
			}
		}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = aug[i][n]
	}
	return out
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
