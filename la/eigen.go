package la

import (
	"gonum.org/v1/gonum/mat"

	"github.com/deadsy/meshadapt/meshlog"
)

// EigenResult3 carries a symmetric eigendecomposition M = Q diag(L) Qt
// together with a convergence flag, so callers can branch on the
// fallback without an out-parameter.
type EigenResult3 struct {
	Q         Mat3
	L         Vec3
	Converged bool
}

// EigenResult2 is EigenResult3 specialized to 2D.
type EigenResult2 struct {
	Q         Mat2
	L         Vec2
	Converged bool
}

// DecomposeEigen3 returns the symmetric eigendecomposition of m, which
// must be symmetric. On non-convergence (gonum's iterative QL algorithm
// failing on pathological input) it falls back to treating m as
// isotropic with eigenvalue trace(m)/3 on the identity basis, and logs
// the fallback; callers keep going with the isotropic result.
func DecomposeEigen3(m Mat3) EigenResult3 {
	data := []float64{
		m[0][0], m[1][0], m[2][0],
		m[1][0], m[1][1], m[2][1],
		m[2][0], m[2][1], m[2][2],
	}
	sym := mat.NewSymDense(3, data)
	var es mat.EigenSym
	ok := es.Factorize(sym, true)
	if !ok {
		meshlog.Log.Warn().Msg("eigendecomposition did not converge, falling back to isotropic")
		avg := Trace3(m) / 3.0
		return EigenResult3{Q: Identity3(), L: Vec3{avg, avg, avg}, Converged: false}
	}
	values := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)
	var q Mat3
	for j := 0; j < 3; j++ {
		col := Vec3{vecs.At(0, j), vecs.At(1, j), vecs.At(2, j)}
		q[j] = Positivize3(col)
	}
	return EigenResult3{Q: q, L: Vec3{values[0], values[1], values[2]}, Converged: true}
}

// DecomposeEigen2 is DecomposeEigen3 specialized to 2D.
func DecomposeEigen2(m Mat2) EigenResult2 {
	data := []float64{
		m[0][0], m[1][0],
		m[1][0], m[1][1],
	}
	sym := mat.NewSymDense(2, data)
	var es mat.EigenSym
	ok := es.Factorize(sym, true)
	if !ok {
		meshlog.Log.Warn().Msg("eigendecomposition did not converge, falling back to isotropic")
		avg := Trace2(m) / 2.0
		return EigenResult2{Q: Identity2(), L: Vec2{avg, avg}, Converged: false}
	}
	values := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)
	var q Mat2
	for j := 0; j < 2; j++ {
		col := Vec2{vecs.At(0, j), vecs.At(1, j)}
		q[j] = Positivize2(col)
	}
	return EigenResult2{Q: q, L: Vec2{values[0], values[1]}, Converged: true}
}

// ComposeEigen3 reassembles a symmetric matrix from a basis and
// eigenvalues: Q diag(l) Qt.
func ComposeEigen3(q Mat3, l Vec3) Mat3 {
	d := Mat3{{l[0], 0, 0}, {0, l[1], 0}, {0, 0, l[2]}}
	return q.Mul(d).Mul(q.Transpose())
}

// ComposeEigen2 is ComposeEigen3 specialized to 2D.
func ComposeEigen2(q Mat2, l Vec2) Mat2 {
	d := Mat2{{l[0], 0}, {0, l[1]}}
	return q.Mul(d).Mul(q.Transpose())
}
