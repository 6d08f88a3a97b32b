package la

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvertRoundTrip3(t *testing.T) {
	a := Mat3{{4, 1, 0}, {1, 3, 1}, {0, 1, 2}}
	got := Invert3(Invert3(a))
	require.True(t, AreCloseMat3(got, a), "invert(invert(a)) != a: %v vs %v", got, a)
}

func TestInvertRoundTrip2(t *testing.T) {
	a := Mat2{{4, 1}, {1, 3}}
	got := Invert2(Invert2(a))
	require.True(t, AreCloseMat2(got, a))
}

func TestDecomposeEigen3(t *testing.T) {
	a := Mat3{{4, 1, 0}, {1, 3, 1}, {0, 1, 2}}
	r := DecomposeEigen3(a)
	require.True(t, r.Converged)
	for i := 0; i < 3; i++ {
		require.Greater(t, r.L[i], 0.0)
	}
	qqt := r.Q.Mul(r.Q.Transpose())
	require.True(t, AreCloseMat3(qqt, Identity3()))
	rebuilt := ComposeEigen3(r.Q, r.L)
	require.True(t, AreCloseMat3(rebuilt, a))
}

func TestPositivizeIdempotent(t *testing.T) {
	v := Vec3{-0.2, 0.9, 0.3}
	p1 := Positivize3(v)
	p2 := Positivize3(p1)
	require.Equal(t, p1, p2)
	neg := Positivize3(v.Scale(-1))
	require.Equal(t, p1, neg)
}

func TestFormOrthoBasis(t *testing.T) {
	v := Vec3{0.2672612419124244, 0.5345224838248488, 0.8017837257372732}
	a := FormOrthoBasis(v)
	require.True(t, AreCloseVec3(a[0], v))
	qqt := a.Mul(a.Transpose())
	require.True(t, AreCloseMat3(qqt, Identity3()))
	det := Determinant3(a)
	require.InDelta(t, 1.0, det, 1e-9)
}

func TestRotate3Identity(t *testing.T) {
	axis := Vec3{0, 0, 1}
	r := Rotate3(2*math.Pi, axis)
	require.True(t, AreCloseMat3(r, Identity3()))
}

func TestCross2(t *testing.T) {
	a := Vec2{1, 0}
	b := Vec2{0, 1}
	require.InDelta(t, 1.0, Cross2(a, b), 1e-12)
}
