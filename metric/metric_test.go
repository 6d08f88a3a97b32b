package metric

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deadsy/meshadapt/la"
)

func TestInterpolateSelfIsIdentity(t *testing.T) {
	a := Sym2{{4, 0}, {0, 1}}
	v := la.Vec2{1, 1}
	for _, tt := range []float64{0, 0.25, 0.5, 0.75, 1.0} {
		m := Interpolate2(a, a, tt)
		require.InDelta(t, Length2(a, v), Length2(m, v), 1e-9)
	}
}

func TestIntersectDominatesBoth(t *testing.T) {
	a := Sym2{{4, 0}, {0, 1}}
	b := Sym2{{1, 0}, {0, 4}}
	inter := Intersect2(a, b)
	for _, v := range []la.Vec2{{1, 0}, {0, 1}, {1, 1}, {2, -1}} {
		li := Length2(inter, v)
		la_ := Length2(a, v)
		lb := Length2(b, v)
		require.GreaterOrEqual(t, li+1e-9, la_)
		require.GreaterOrEqual(t, li+1e-9, lb)
	}
}

func TestIntersectDiagExample(t *testing.T) {
	a := Sym2{{4, 0}, {0, 1}}
	b := Sym2{{1, 0}, {0, 4}}
	inter := Intersect2(a, b)
	want := Sym2{{4, 0}, {0, 4}}
	require.True(t, la.AreCloseMat2(inter, want))
}

func TestInterpolateHarmonicExample(t *testing.T) {
	a := Sym2{{1, 0}, {0, 1}}
	b := Sym2{{4, 0}, {0, 4}}
	got := Interpolate2(a, b, 0.5)
	want := 16.0 / 9.0
	require.InDelta(t, want, got[0][0], 1e-9)
	require.InDelta(t, want, got[1][1], 1e-9)
}

func TestPackUnpack3RoundTrip(t *testing.T) {
	m := Sym3{{2, 0.1, 0.2}, {0.1, 3, 0.3}, {0.2, 0.3, 4}}
	packed := Pack3(m)
	got := Unpack3(packed)
	require.True(t, la.AreCloseMat3(got, m))
}

func TestAverage2(t *testing.T) {
	a := Sym2{{1, 0}, {0, 1}}
	b := Sym2{{1, 0}, {0, 1}}
	avg := Average2([]Sym2{a, b})
	require.True(t, la.AreCloseMat2(avg, a))
}
