package monte

import "fmt"

// Supercell is an integer 3x3 transformation T applied to the prim lattice
// (spec §3). V = det(T) is the volume factor; N = B*V is the number of
// sites, linearly indexed in [0, N).
type Supercell struct {
	Prim *Prim
	T    [3][3]int64

	v int64 // volume factor
	n int   // total sites

	diag [3]int64    // Smith normal form diagonal of T
	u    [3][3]int64 // left SNF transform: u * T * vt = diag(diag)
}

// NewSupercell builds a Supercell for the given prim and transformation
// matrix. The unit-cell linear index is defined via the Smith normal form
// of T so that two Supercells built from the same (Prim, T) always agree
// (spec §4.A's portability requirement).
func NewSupercell(prim *Prim, t [3][3]int64) (*Supercell, error) {
	v := det3(t)
	if v <= 0 {
		return nil, ConsistencyErrorf("supercell transformation matrix must have positive determinant, got %d", v)
	}
	u, _, d := smithNormalForm(t)
	sc := &Supercell{
		Prim: prim,
		T:    t,
		v:    v,
		n:    prim.B() * int(v),
		diag: d,
		u:    u,
	}
	return sc, nil
}

func det3(m [3][3]int64) int64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Volume returns V = det(T).
func (s *Supercell) Volume() int64 { return s.v }

// NumSites returns N = B * V.
func (s *Supercell) NumSites() int { return s.n }

// UnitCellIndex maps an integer unit-cell coordinate (in the prim lattice
// basis) to its linear index in [0, V), lexicographic in the Smith normal
// form basis (spec §4.A).
func (s *Supercell) UnitCellIndex(uc [3]int64) int {
	var snf [3]int64
	for i := 0; i < 3; i++ {
		var acc int64
		for j := 0; j < 3; j++ {
			acc += s.u[i][j] * uc[j]
		}
		snf[i] = mod(acc, s.diag[i])
	}
	idx := snf[0]
	idx = idx*s.diag[1] + snf[1]
	idx = idx*s.diag[2] + snf[2]
	return int(idx)
}

// UnitCellCoord inverts UnitCellIndex: it splits the linear index into its
// SNF coordinates and maps them back to a prim-lattice coordinate through
// the inverse of the unimodular left SNF transform. Only used at
// construction time for precomputed tables (NeighborList windows, kmc
// event impact sets), never in a per-step hot path.
func (s *Supercell) UnitCellCoord(linear int) [3]int64 {
	d := s.diag
	l := int64(linear)
	snf := [3]int64{l / (d[1] * d[2]), (l / d[2]) % d[1], l % d[2]}
	// U is unimodular, so U^-1 = det(U) * adj(U), an integer matrix.
	u, det := s.u, det3(s.u)
	var uc [3]int64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cof := u[(j+1)%3][(i+1)%3]*u[(j+2)%3][(i+2)%3] - u[(j+1)%3][(i+2)%3]*u[(j+2)%3][(i+1)%3]
			uc[i] += det * cof * snf[j]
		}
	}
	return uc
}

func mod(a, m int64) int64 {
	if m == 0 {
		return 0
	}
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// LinearSiteIndex maps (basis index, unit-cell linear index) to the site's
// linear index l in [0, N).
func (s *Supercell) LinearSiteIndex(b, unitCell int) int {
	return unitCell*s.Prim.B() + b
}

// SiteBasisAndUnitCell splits a linear site index back into (basis index,
// unit-cell linear index).
func (s *Supercell) SiteBasisAndUnitCell(l int) (b, unitCell int) {
	bn := s.Prim.B()
	return l % bn, l / bn
}

// ValidateOccupation checks the identity invariant
// length(occupation) == B*V (spec §3).
func (s *Supercell) ValidateOccupation(occ []int) error {
	if len(occ) != s.n {
		return ConsistencyErrorf("occupation length %d does not match supercell size %d (b=%d, v=%d)",
			len(occ), s.n, s.Prim.B(), s.v)
	}
	for l, val := range occ {
		b, _ := s.SiteBasisAndUnitCell(l)
		if val < 0 || val >= len(s.Prim.Sites[b].AllowedOccupants) {
			return ConsistencyErrorf("occupation[%d]=%d out of range for basis site %d (%d allowed occupants)",
				l, val, b, len(s.Prim.Sites[b].AllowedOccupants))
		}
	}
	return nil
}

func (s *Supercell) String() string {
	return fmt.Sprintf("Supercell{T=%v, V=%d, N=%d}", s.T, s.v, s.n)
}
