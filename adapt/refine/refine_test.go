package refine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deadsy/meshadapt/mesh"
	"github.com/deadsy/meshadapt/metric"
	"github.com/deadsy/meshadapt/quality"
)

func squareWithIsotropicMetric(t *testing.T, scale float64) *mesh.Mesh {
	t.Helper()
	m := mesh.UnitSquare()
	// stretch the square so its edges are long under a unit metric,
	// forcing refinement.
	coords := m.Coords()
	for i := range coords {
		coords[i] *= scale
	}
	m.SetTag(mesh.VERT, "coord", coords)

	metrics := make([]float64, m.Nents(mesh.VERT)*3)
	for v := 0; v < m.Nents(mesh.VERT); v++ {
		p := metric.Pack2(metric.Sym2{{1, 0}, {0, 1}})
		copy(metrics[v*3:v*3+3], p[:])
	}
	require.NoError(t, m.AddTag(mesh.VERT, mesh.MetricTagName, 3, mesh.TypeF64, mesh.Metric, false, metrics))
	return m
}

func TestByLengthSplitsLongEdges(t *testing.T) {
	m := squareWithIsotropicMetric(t, 4.0)
	nv0, nt0 := m.Nents(mesh.VERT), m.Nents(mesh.TRI)

	n, err := ByLength(m, DefaultOptions())
	require.NoError(t, err)
	require.Greater(t, n, 0)
	require.Equal(t, nv0+n, m.Nents(mesh.VERT))
	// The longest edge is the shared diagonal; its split wins the
	// independent set and bisects both triangles incident on it.
	require.Equal(t, nt0+2*n, m.Nents(mesh.TRI))
}

func TestByLengthToConvergenceShrinksEdges(t *testing.T) {
	m := squareWithIsotropicMetric(t, 4.0)
	_, err := ByLengthToConvergence(m, DefaultOptions(), 60)
	require.NoError(t, err)
	for _, l := range quality.EdgeLengths(m) {
		require.LessOrEqual(t, l, DefaultOptions().LengthFloor+1e-6)
	}
}

func TestByLengthConservesElementIntegral(t *testing.T) {
	m := squareWithIsotropicMetric(t, 4.0)
	// distinct densities per triangle so a child inheriting the wrong
	// share shows up in the total
	require.NoError(t, m.AddTag(mesh.TRI, "density", 1, mesh.TypeF64, mesh.Conserve, false, []float64{2, 4}))

	var before float64
	for i, a := range quality.ElementMeasures(m) {
		before += a * []float64{2, 4}[i]
	}

	_, err := ByLengthToConvergence(m, DefaultOptions(), 60)
	require.NoError(t, err)

	tag, err := m.GetTag(mesh.TRI, "density")
	require.NoError(t, err)
	var after float64
	for i, a := range quality.ElementMeasures(m) {
		after += a * tag.F64[i]
	}
	require.InDelta(t, before, after, 1e-9)
}

func TestByLengthRefreshesQualityTag(t *testing.T) {
	m := squareWithIsotropicMetric(t, 4.0)
	require.NoError(t, m.AddTag(mesh.TRI, "quality", 1, mesh.TypeF64, mesh.Quality, true, []float64{0, 0}))

	n, err := ByLength(m, DefaultOptions())
	require.NoError(t, err)
	require.Greater(t, n, 0)

	tag, err := m.GetTag(mesh.TRI, "quality")
	require.NoError(t, err)
	require.Equal(t, m.Nents(mesh.TRI), tag.Len())
	for i := 0; i < tag.Len(); i++ {
		require.Greater(t, tag.F64[i], 0.0)
	}
}

func TestByLengthNoOpBelowFloor(t *testing.T) {
	m := squareWithIsotropicMetric(t, 1.0)
	n, err := ByLength(m, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
