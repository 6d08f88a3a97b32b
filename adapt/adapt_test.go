package adapt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deadsy/meshadapt/mesh"
	"github.com/deadsy/meshadapt/metric"
	"github.com/deadsy/meshadapt/quality"
)

func stretchedSquare(t *testing.T, scale float64) *mesh.Mesh {
	t.Helper()
	m := mesh.UnitSquare()
	coords := m.Coords()
	for i := range coords {
		coords[i] *= scale
	}
	require.NoError(t, m.SetTag(mesh.VERT, "coord", coords))

	metrics := make([]float64, m.Nents(mesh.VERT)*3)
	for v := 0; v < m.Nents(mesh.VERT); v++ {
		p := metric.Pack2(metric.Sym2{{1, 0}, {0, 1}})
		copy(metrics[v*3:v*3+3], p[:])
	}
	require.NoError(t, m.AddTag(mesh.VERT, mesh.MetricTagName, 3, mesh.TypeF64, mesh.Metric, false, metrics))
	return m
}

func TestRefineBySizeConverges(t *testing.T) {
	m := stretchedSquare(t, 4.0)
	changed, err := RefineBySize(m, quality.RefineLengthFloor, quality.CoarsenLengthFloor, false)
	require.NoError(t, err)
	require.True(t, changed)
	for _, l := range quality.EdgeLengths(m) {
		require.LessOrEqual(t, l, quality.RefineLengthFloor+1e-6)
	}
}

func TestRefineBySizeNoOpOnUnitMesh(t *testing.T) {
	m := stretchedSquare(t, 1.0)
	changed, err := RefineBySize(m, quality.RefineLengthFloor, quality.CoarsenLengthFloor, false)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestAdaptReachesUnitLengths(t *testing.T) {
	m := stretchedSquare(t, 4.0)
	changed, err := Adapt(m, DefaultOptions())
	require.NoError(t, err)
	require.True(t, changed)
	for _, l := range quality.EdgeLengths(m) {
		require.LessOrEqual(t, l, quality.RefineLengthFloor+1e-6)
	}
	for _, q := range quality.ElementQualities(m) {
		require.Greater(t, q, 0.0)
	}
}

func TestAdaptConservesElementIntegral(t *testing.T) {
	m := stretchedSquare(t, 4.0)
	vals := make([]float64, m.Nents(mesh.TRI))
	for i := range vals {
		vals[i] = 3.0
	}
	require.NoError(t, m.AddTag(mesh.TRI, "density", 1, mesh.TypeF64, mesh.Conserve, false, vals))

	var before float64
	for i, a := range quality.ElementMeasures(m) {
		before += a * vals[i]
	}
	require.InDelta(t, 3.0*16.0, before, 1e-9) // 4x4 square, density 3

	_, err := Adapt(m, DefaultOptions())
	require.NoError(t, err)

	tag, err := m.GetTag(mesh.TRI, "density")
	require.NoError(t, err)
	var after float64
	for i, a := range quality.ElementMeasures(m) {
		after += a * tag.F64[i]
	}
	require.InDelta(t, before, after, 1e-9)
}

func TestRefineBySizeAnisotropicMetric(t *testing.T) {
	// metric diag(100,1): desired x-spacing 0.1, desired y-spacing 1, so
	// refinement must slice the square finely along x and leave the
	// y-direction alone.
	m := mesh.UnitSquare()
	metrics := make([]float64, 4*3)
	for v := 0; v < 4; v++ {
		p := metric.Pack2(metric.Sym2{{100, 0}, {0, 1}})
		copy(metrics[v*3:v*3+3], p[:])
	}
	require.NoError(t, m.AddTag(mesh.VERT, mesh.MetricTagName, 3, mesh.TypeF64, mesh.Metric, false, metrics))

	changed, err := RefineBySize(m, quality.RefineLengthFloor, quality.CoarsenLengthFloor, false)
	require.NoError(t, err)
	require.True(t, changed)

	for _, l := range quality.EdgeLengths(m) {
		require.LessOrEqual(t, l, quality.RefineLengthFloor+1e-6)
	}

	// bisection exactly partitions elements: total area is untouched
	var area float64
	for _, a := range quality.ElementMeasures(m) {
		area += a
	}
	require.InDelta(t, 1.0, area, 1e-9)

	// every edge is short along x (metric length >= 10*dx), while the
	// unit-length y boundary edges never needed splitting
	coords := m.Coords()
	ev := m.VertsOf(mesh.EDGE)
	maxDX, maxDY := 0.0, 0.0
	for e := 0; e < m.Nents(mesh.EDGE); e++ {
		a, b := ev[e*2], ev[e*2+1]
		dx := math.Abs(coords[a*2] - coords[b*2])
		dy := math.Abs(coords[a*2+1] - coords[b*2+1])
		if dx > maxDX {
			maxDX = dx
		}
		if dy > maxDY {
			maxDY = dy
		}
	}
	require.LessOrEqual(t, maxDX, 0.15+1e-9)
	require.GreaterOrEqual(t, maxDY, 0.9)
}

func TestCoarsenBySizeRemovesShortEdge(t *testing.T) {
	m := mesh.New(2)
	m.SetNents(mesh.VERT, 4)
	m.SetCoords([]float64{0, 0, 1, 0, 1, 1, 0.001, 0})
	m.SetVertsOf(mesh.TRI, []int32{0, 1, 2, 0, 2, 3})
	metrics := make([]float64, 4*3)
	for v := 0; v < 4; v++ {
		p := metric.Pack2(metric.Sym2{{1, 0}, {0, 1}})
		copy(metrics[v*3:v*3+3], p[:])
	}
	require.NoError(t, m.AddTag(mesh.VERT, mesh.MetricTagName, 3, mesh.TypeF64, mesh.Metric, false, metrics))

	changed, err := CoarsenBySize(m, 0, quality.RefineLengthFloor, false)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, 1, m.Nents(mesh.TRI))
}

func TestSwapEdgesImprovesSkewedQuad(t *testing.T) {
	m := mesh.New(2)
	m.SetNents(mesh.VERT, 4)
	m.SetCoords([]float64{0, 0, 10, 0, 6, 1, 0, 1})
	m.SetVertsOf(mesh.TRI, []int32{0, 1, 3, 1, 2, 3})
	metrics := make([]float64, 4*3)
	for v := 0; v < 4; v++ {
		p := metric.Pack2(metric.Sym2{{1, 0}, {0, 1}})
		copy(metrics[v*3:v*3+3], p[:])
	}
	require.NoError(t, m.AddTag(mesh.VERT, mesh.MetricTagName, 3, mesh.TypeF64, mesh.Metric, false, metrics))

	before := quality.ElementQualities(m)
	changed, err := SwapEdges(m, 0.3, 0, false)
	require.NoError(t, err)
	require.True(t, changed)
	after := quality.ElementQualities(m)
	require.Greater(t, minOf(after), minOf(before))
}

func minOf(xs []float64) float64 {
	min := xs[0]
	for _, x := range xs[1:] {
		if x < min {
			min = x
		}
	}
	return min
}
