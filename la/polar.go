package la

import "math"

// PolarDecompose3 factors a into an orthonormal rotation r and a
// symmetric positive-semidefinite stretch s with a = r * s. s is the
// symmetric square root of a^T a; r = a * s^-1. Precondition:
// |Determinant3(a)| > 0.
func PolarDecompose3(a Mat3) (r, s Mat3) {
	ata := a.Transpose().Mul(a)
	eig := DecomposeEigen3(ata)
	var roots Vec3
	for i := 0; i < 3; i++ {
		l := eig.L[i]
		if l < 0 {
			l = 0
		}
		roots[i] = math.Sqrt(l)
	}
	s = ComposeEigen3(eig.Q, roots)
	r = a.Mul(Invert3(s))
	return r, s
}

// PolarDecompose2 is PolarDecompose3 specialized to 2D.
func PolarDecompose2(a Mat2) (r, s Mat2) {
	ata := a.Transpose().Mul(a)
	eig := DecomposeEigen2(ata)
	var roots Vec2
	for i := 0; i < 2; i++ {
		l := eig.L[i]
		if l < 0 {
			l = 0
		}
		roots[i] = math.Sqrt(l)
	}
	s = ComposeEigen2(eig.Q, roots)
	r = a.Mul(Invert2(s))
	return r, s
}
