package la

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolarDecompose3(t *testing.T) {
	a := Rotate3(0.7, Vec3{0, 0, 1}).Mul(Mat3{{3, 0, 0}, {0, 2, 0}, {0, 0, 1}})
	r, s := PolarDecompose3(a)

	rrt := r.Mul(r.Transpose())
	require.True(t, AreCloseMat3(rrt, Identity3()), "r not orthonormal: %v", rrt)
	require.True(t, AreCloseMat3(s, s.Transpose()), "s not symmetric")
	rebuilt := r.Mul(s)
	require.True(t, AreCloseMat3(rebuilt, a), "r*s != a: %v vs %v", rebuilt, a)
}

func TestPolarDecompose2(t *testing.T) {
	a := Rotate2(math.Pi / 5).Mul(Mat2{{4, 0}, {0, 0.5}})
	r, s := PolarDecompose2(a)
	require.True(t, AreCloseMat2(r.Mul(r.Transpose()), Identity2()))
	require.True(t, AreCloseMat2(r.Mul(s), a))
}

func TestPolarDecomposeOfRotationIsRotation(t *testing.T) {
	a := Rotate3(1.1, Vec3{1, 0, 0})
	r, s := PolarDecompose3(a)
	require.True(t, AreCloseMat3(r, a))
	require.True(t, AreCloseMat3(s, Identity3()))
}
