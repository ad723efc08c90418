package monte

// smithNormalForm computes integer matrices U, Vt and diagonal d such that
// U * A * Vt = diag(d[0], d[1], d[2]), with U and Vt unimodular (det ±1).
// Used by Supercell to build a stable, portable unit-cell index bijection
// (spec §4.A: "the mapping must be stable across two identical supercells
// so serialized configurations are portable"); the unit-cell enumeration is
// lexicographic in this basis per spec §4.A.
//
// Grounded directly on spec §4.A's requirement; this is a standard
// integer-matrix diagonalization (iterative gcd-based row/column
// reduction), no third-party linear-algebra library in the pack offers
// exact-integer Smith normal form (gonum's mat package is float64-only), so
// stdlib integer arithmetic is the correct tool here.
func smithNormalForm(a [3][3]int64) (u, vt [3][3]int64, d [3]int64) {
	A := a
	U := identity3()
	V := identity3()

	for k := 0; k < 3; k++ {
		for iter := 0; iter < 200; iter++ {
			if clean(A, k) {
				break
			}
			pivotRow, pivotCol, found := findSmallestNonzero(A, k)
			if !found {
				A[k][k] = 0
				break
			}
			swapRows(&A, &U, k, pivotRow)
			swapCols(&A, &V, k, pivotCol)

			reducedCol := reduceColumn(&A, &U, k)
			reducedRow := reduceRow(&A, &V, k)
			if reducedCol || reducedRow {
				continue
			}
			break
		}
	}
	for i := 0; i < 3; i++ {
		d[i] = A[i][i]
		if d[i] < 0 {
			d[i] = -d[i]
			for j := 0; j < 3; j++ {
				U[i][j] = -U[i][j]
			}
		}
	}
	return U, V, d
}

func identity3() [3][3]int64 {
	var m [3][3]int64
	for i := range m {
		m[i][i] = 1
	}
	return m
}

// clean reports whether row k and column k of A have no nonzero entries
// off the diagonal, for indices >= k.
func clean(a [3][3]int64, k int) bool {
	for i := k + 1; i < 3; i++ {
		if a[i][k] != 0 || a[k][i] != 0 {
			return false
		}
	}
	return true
}

func findSmallestNonzero(a [3][3]int64, k int) (row, col int, found bool) {
	best := int64(-1)
	for i := k; i < 3; i++ {
		for j := k; j < 3; j++ {
			v := abs64(a[i][j])
			if v == 0 {
				continue
			}
			if best == -1 || v < best {
				best, row, col, found = v, i, j, true
			}
		}
	}
	return row, col, found
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func swapRows(a *[3][3]int64, u *[3][3]int64, i, j int) {
	if i == j {
		return
	}
	a[i], a[j] = a[j], a[i]
	u[i], u[j] = u[j], u[i]
}

func swapCols(a, v *[3][3]int64, i, j int) {
	if i == j {
		return
	}
	for r := 0; r < 3; r++ {
		a[r][i], a[r][j] = a[r][j], a[r][i]
		v[r][i], v[r][j] = v[r][j], v[r][i]
	}
}

// reduceColumn zeroes out column k below row k using gcd-combination row
// operations, tracking the same ops on U. Returns true if it applied any
// row operation or an entry below the pivot remains nonzero (caller should
// retry).
func reduceColumn(a, u *[3][3]int64, k int) bool {
	changed := false
	for i := k + 1; i < 3; i++ {
		if a[i][k] == 0 {
			continue
		}
		changed = true
		g, x, y := extGCD(a[k][k], a[i][k])
		p, q := a[k][k]/g, a[i][k]/g
		combineRows(a, u, k, i, x, y, -q, p)
	}
	for i := k + 1; i < 3; i++ {
		if a[i][k] != 0 {
			return true
		}
	}
	return changed
}

func reduceRow(a, v *[3][3]int64, k int) bool {
	changed := false
	for j := k + 1; j < 3; j++ {
		if a[k][j] == 0 {
			continue
		}
		changed = true
		g, x, y := extGCD(a[k][k], a[k][j])
		p, q := a[k][k]/g, a[k][j]/g
		combineCols(a, v, k, j, x, y, -q, p)
	}
	for j := k + 1; j < 3; j++ {
		if a[k][j] != 0 {
			return true
		}
	}
	return changed
}

// combineRows replaces (row i, row j) with a 2x2 unimodular combination
// [[x, y], [r2c1, r2c2]] applied to rows (i, j) of a, mirrored onto u.
func combineRows(a, u *[3][3]int64, i, j int, x, y, r2c1, r2c2 int64) {
	for c := 0; c < 3; c++ {
		ai, aj := a[i][c], a[j][c]
		a[i][c] = x*ai + y*aj
		a[j][c] = r2c1*ai + r2c2*aj
		ui, uj := u[i][c], u[j][c]
		u[i][c] = x*ui + y*uj
		u[j][c] = r2c1*ui + r2c2*uj
	}
}

func combineCols(a, v *[3][3]int64, i, j int, x, y, r2c1, r2c2 int64) {
	for r := 0; r < 3; r++ {
		ai, aj := a[r][i], a[r][j]
		a[r][i] = x*ai + y*aj
		a[r][j] = r2c1*ai + r2c2*aj
		vi, vj := v[r][i], v[r][j]
		v[r][i] = x*vi + y*vj
		v[r][j] = r2c1*vi + r2c2*vj
	}
}

// extGCD returns g = gcd(a, b) and Bezout coefficients x, y with
// a*x + b*y = g.
func extGCD(a, b int64) (g, x, y int64) {
	if b == 0 {
		if a < 0 {
			return -a, -1, 0
		}
		return a, 1, 0
	}
	g, x1, y1 := extGCD(b, a%b)
	return g, y1, x1 - (a/b)*y1
}
