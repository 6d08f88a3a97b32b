// Package metric implements the Riemannian metric-tensor algebra the
// adaptation operators measure with: length, desired length,
// intersection, linearize / delinearize interpolation, and vertex
// averaging. A metric is a symmetric positive-definite matrix at a
// point; edges should measure to unit length under it.
package metric

import (
	"math"

	"github.com/deadsy/meshadapt/la"
)

// Sym2 is a symmetric positive-definite 2x2 metric tensor.
type Sym2 = la.Mat2

// Sym3 is a symmetric positive-definite 3x3 metric tensor.
type Sym3 = la.Mat3

// Pack2 flattens a 2x2 symmetric matrix to its 3 unique entries in the
// order (m00, m01, m11), the d(d+1)/2-component layout of the
// per-vertex metric tag.
func Pack2(m Sym2) [3]float64 {
	return [3]float64{m[0][0], m[1][0], m[1][1]}
}

// Unpack2 reconstructs a symmetric 2x2 matrix from its packed entries.
func Unpack2(c [3]float64) Sym2 {
	return Sym2{{c[0], c[1]}, {c[1], c[2]}}
}

// Pack3 flattens a 3x3 symmetric matrix to its 6 unique entries in the
// order (m00, m01, m02, m11, m12, m22).
func Pack3(m Sym3) [6]float64 {
	return [6]float64{m[0][0], m[1][0], m[2][0], m[1][1], m[2][1], m[2][2]}
}

// Unpack3 reconstructs a symmetric 3x3 matrix from its packed entries.
func Unpack3(c [6]float64) Sym3 {
	return Sym3{
		{c[0], c[1], c[2]},
		{c[1], c[3], c[4]},
		{c[2], c[4], c[5]},
	}
}

// Length2 returns sqrt(v^T M v), the length of displacement v under
// metric m.
func Length2(m Sym2, v la.Vec2) float64 {
	return sqrtProduct2(m, v)
}

// Length3 is Length2 specialized to 3D.
func Length3(m Sym3, v la.Vec3) float64 {
	return sqrtProduct3(m, v)
}

func sqrtProduct2(m Sym2, v la.Vec2) float64 {
	p := v.Dot(m.MulVec(v))
	return sqrtNonNeg(p)
}

func sqrtProduct3(m Sym3, v la.Vec3) float64 {
	p := v.Dot(m.MulVec(v))
	return sqrtNonNeg(p)
}

// DesiredLength2 returns the physical edge length that becomes unit
// length under m along the unit direction dir.
func DesiredLength2(m Sym2, dir la.Vec2) float64 {
	return 1.0 / Length2(m, dir)
}

// DesiredLength3 is DesiredLength2 specialized to 3D.
func DesiredLength3(m Sym3, dir la.Vec3) float64 {
	return 1.0 / Length3(m, dir)
}

// Decompose2 returns the orthonormal axes R and the desired lengths h
// along them (h_i = 1/sqrt(lambda_i)) such that M = R diag(1/h^2) R^T.
func Decompose2(m Sym2) (r Sym2, h la.Vec2) {
	eig := la.DecomposeEigen2(m)
	return eig.Q, metricLengths2(eig.L)
}

// Decompose3 is Decompose2 specialized to 3D.
func Decompose3(m Sym3) (r Sym3, h la.Vec3) {
	eig := la.DecomposeEigen3(m)
	return eig.Q, metricLengths3(eig.L)
}

func metricLengths2(l la.Vec2) la.Vec2 {
	return la.Vec2{1.0 / sqrtNonNeg(l[0]), 1.0 / sqrtNonNeg(l[1])}
}

func metricLengths3(l la.Vec3) la.Vec3 {
	return la.Vec3{1.0 / sqrtNonNeg(l[0]), 1.0 / sqrtNonNeg(l[1]), 1.0 / sqrtNonNeg(l[2])}
}

// Linearize2 converts a metric into a quantity that is safe to
// linearly interpolate: M^-1.
func Linearize2(m Sym2) Sym2 { return la.Invert2(m) }

// Delinearize2 is the inverse of Linearize2.
func Delinearize2(n Sym2) Sym2 { return la.Invert2(n) }

// Linearize3 is Linearize2 specialized to 3D.
func Linearize3(m Sym3) Sym3 { return la.Invert3(m) }

// Delinearize3 is the inverse of Linearize3.
func Delinearize3(n Sym3) Sym3 { return la.Invert3(n) }

// Interpolate2 blends metrics a and b at parameter t in [0,1] by
// linearly interpolating their linearized (inverse) forms and
// delinearizing the result. Interpolating inverses behaves well on
// anisotropic inputs, generalizes to barycentric averages over any n,
// and needs only inversion, not an eigendecomposition.
func Interpolate2(a, b Sym2, t float64) Sym2 {
	la1 := Linearize2(a).Scale(1 - t)
	la2 := Linearize2(b).Scale(t)
	return Delinearize2(la1.Add(la2))
}

// Interpolate3 is Interpolate2 specialized to 3D.
func Interpolate3(a, b Sym3, t float64) Sym3 {
	la1 := Linearize3(a).Scale(1 - t)
	la2 := Linearize3(b).Scale(t)
	return Delinearize3(la1.Add(la2))
}

// Average2 returns the barycentric average of n metrics (used for the
// metric at an element's centroid): delinearize(sum(linearize(m_i))/n).
func Average2(ms []Sym2) Sym2 {
	var sum Sym2
	for _, m := range ms {
		sum = sum.Add(Linearize2(m))
	}
	return Delinearize2(sum.Scale(1.0 / float64(len(ms))))
}

// Average3 is Average2 specialized to 3D.
func Average3(ms []Sym3) Sym3 {
	var sum Sym3
	for _, m := range ms {
		sum = sum.Add(Linearize3(m))
	}
	return Delinearize3(sum.Scale(1.0 / float64(len(ms))))
}

// commonBasis2 returns the eigenbasis of A^-1 B, the shared axes used
// to build the intersection ellipsoid. A^-1 B is not
// symmetric in general for SPD a, b, so rather than eigendecompose it
// directly we solve the congruent symmetric problem
// A^-1/2 B A^-1/2 and map its eigenvectors back through A^-1/2; the
// two share the same eigenbasis up to that linear map.
func commonBasis2(a, b Sym2) Sym2 {
	return sharedEigenbasis2(a, b)
}

func commonBasis3(a, b Sym3) Sym3 {
	return sharedEigenbasis3(a, b)
}

// sharedEigenbasis2 computes eigenvectors of A^-1 B for SPD a using the
// congruence A^-1 B ~ A^-1/2 (A^-1/2 B A^-1/2) A^1/2, so the symmetric
// eigensolver can be reused: eigenvectors of the symmetric conjugate,
// mapped back through A^-1/2.
func sharedEigenbasis2(a, b Sym2) Sym2 {
	aInvSqrt := invSqrt2(a)
	sym := aInvSqrt.Mul(b).Mul(aInvSqrt)
	eig := la.DecomposeEigen2(sym)
	var p Sym2
	for j := 0; j < 2; j++ {
		col := aInvSqrt.MulVec(eig.Q[j])
		p[j] = col.Scale(1.0 / col.Length())
	}
	return p
}

func sharedEigenbasis3(a, b Sym3) Sym3 {
	aInvSqrt := invSqrt3(a)
	sym := aInvSqrt.Mul(b).Mul(aInvSqrt)
	eig := la.DecomposeEigen3(sym)
	var p Sym3
	for j := 0; j < 3; j++ {
		col := aInvSqrt.MulVec(eig.Q[j])
		p[j] = col.Scale(1.0 / col.Length())
	}
	return p
}

// Sqrt2 returns the symmetric square root of SPD matrix m: S such that
// S*S = m. Used by quality to map element coordinates into a space
// where Euclidean measurements equal metric-length measurements.
func Sqrt2(m Sym2) Sym2 {
	eig := la.DecomposeEigen2(m)
	l := la.Vec2{sqrtNonNeg(eig.L[0]), sqrtNonNeg(eig.L[1])}
	return la.ComposeEigen2(eig.Q, l)
}

// Sqrt3 is Sqrt2 specialized to 3D.
func Sqrt3(m Sym3) Sym3 {
	eig := la.DecomposeEigen3(m)
	l := la.Vec3{sqrtNonNeg(eig.L[0]), sqrtNonNeg(eig.L[1]), sqrtNonNeg(eig.L[2])}
	return la.ComposeEigen3(eig.Q, l)
}

func invSqrt2(m Sym2) Sym2 {
	eig := la.DecomposeEigen2(m)
	l := la.Vec2{1.0 / sqrtNonNeg(eig.L[0]), 1.0 / sqrtNonNeg(eig.L[1])}
	return la.ComposeEigen2(eig.Q, l)
}

func invSqrt3(m Sym3) Sym3 {
	eig := la.DecomposeEigen3(m)
	l := la.Vec3{1.0 / sqrtNonNeg(eig.L[0]), 1.0 / sqrtNonNeg(eig.L[1]), 1.0 / sqrtNonNeg(eig.L[2])}
	return la.ComposeEigen3(eig.Q, l)
}

// Intersect2 returns the largest ellipsoid contained within both a and
// b: the common eigenbasis with, per axis, the larger of the two
// quadratic forms. Used to combine independent size requirements at a
// vertex.
func Intersect2(a, b Sym2) Sym2 {
	p := commonBasis2(a, b)
	var w la.Vec2
	for i := 0; i < 2; i++ {
		u := p[i].Dot(a.MulVec(p[i]))
		v := p[i].Dot(b.MulVec(p[i]))
		w[i] = maxf(u, v)
	}
	return la.ComposeEigen2(p, w)
}

// Intersect3 is Intersect2 specialized to 3D.
func Intersect3(a, b Sym3) Sym3 {
	p := commonBasis3(a, b)
	var w la.Vec3
	for i := 0; i < 3; i++ {
		u := p[i].Dot(a.MulVec(p[i]))
		v := p[i].Dot(b.MulVec(p[i]))
		w[i] = maxf(u, v)
	}
	return la.ComposeEigen3(p, w)
}

func sqrtNonNeg(x float64) float64 {
	if x < 0 {
		x = 0
	}
	return math.Sqrt(x)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
