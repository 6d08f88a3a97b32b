package swap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deadsy/meshadapt/mesh"
	"github.com/deadsy/meshadapt/metric"
	"github.com/deadsy/meshadapt/quality"
)

// skewedQuad builds two triangles over an asymmetric trapezoid, split
// along the diagonal 1-3; the other diagonal (0-2) gives a strictly
// better minimum quality, a classic swap-improves-quality configuration
// (verified by hand against the mean-ratio quality formula: diagonal
// 1-3 gives min quality ~0.135, diagonal 0-2 gives ~0.225).
func skewedQuad(t *testing.T) *mesh.Mesh {
	t.Helper()
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
	return m
}

func TestByQuality2DFlipsImprovingDiagonal(t *testing.T) {
	m := skewedQuad(t)
	opts := Options{QualityFloor: 0.2, NLayers: 0, Strict: true}
	n, err := ByQuality2D(m, opts)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	tv := m.VertsOf(mesh.TRI)
	sawDiagonal02 := false
	for tIdx := 0; tIdx < 2; tIdx++ {
		row := tv[tIdx*3 : tIdx*3+3]
		has0, has2 := false, false
		for _, v := range row {
			if v == 0 {
				has0 = true
			}
			if v == 2 {
				has2 = true
			}
		}
		if has0 && has2 {
			sawDiagonal02 = true
		}
	}
	require.True(t, sawDiagonal02)
}

func TestByQuality2DConservesAreaIntegral(t *testing.T) {
	m := skewedQuad(t)
	require.NoError(t, m.AddTag(mesh.TRI, "density", 1, mesh.TypeF64, mesh.Conserve, false, []float64{2, 4}))

	var before float64
	for i, a := range quality.ElementMeasures(m) {
		before += a * []float64{2, 4}[i]
	}

	n, err := ByQuality2D(m, Options{QualityFloor: 0.2, NLayers: 0, Strict: true})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	tag, err := m.GetTag(mesh.TRI, "density")
	require.NoError(t, err)
	var after float64
	for i, a := range quality.ElementMeasures(m) {
		after += a * tag.F64[i]
	}
	require.InDelta(t, before, after, 1e-9)
}

// sliverRing builds five thin tets sharing a long vertical edge whose
// ring vertices form a small regular pentagon in the z=0 plane: each
// ring tet is a sliver, and re-triangulating the pentagon (capped above
// and below) produces six markedly better tets.
func sliverRing(t *testing.T) *mesh.Mesh {
	t.Helper()
	m := mesh.New(3)

	const n = 5
	const radius = 0.3
	coords := make([]float64, 0, (n+2)*3)
	coords = append(coords, 0, 0, 1)  // vertex 0: top of the shared edge
	coords = append(coords, 0, 0, -1) // vertex 1: bottom
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / n
		coords = append(coords, radius*math.Cos(theta), radius*math.Sin(theta), 0)
	}
	m.SetNents(mesh.VERT, n+2)
	m.SetCoords(coords)

	tets := make([]int32, 0, n*4)
	for i := 0; i < n; i++ {
		vi := int32(2 + i)
		vj := int32(2 + (i+1)%n)
		tets = append(tets, 0, 1, vi, vj)
	}
	m.SetVertsOf(mesh.TET, tets)

	metrics := make([]float64, (n+2)*6)
	for v := 0; v < n+2; v++ {
		p := metric.Pack3(metric.Sym3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
		copy(metrics[v*6:v*6+6], p[:])
	}
	require.NoError(t, m.AddTag(mesh.VERT, mesh.MetricTagName, 6, mesh.TypeF64, mesh.Metric, false, metrics))
	return m
}

func TestByQuality3DRetriangulatesSliverRing(t *testing.T) {
	m := sliverRing(t)

	oldMin := math.Inf(1)
	for _, q := range quality.ElementQualities(m) {
		if q < oldMin {
			oldMin = q
		}
	}
	require.Less(t, oldMin, 0.3) // the ring tets really are slivers

	n, err := ByQuality3D(m, Options{QualityFloor: 0.3, NLayers: 0, Strict: true})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 6, m.Nents(mesh.TET))

	for _, q := range quality.ElementQualities(m) {
		require.Greater(t, q, 0.3)
		require.Greater(t, q, oldMin)
	}
}

func TestByQuality3DConservesRingVolumeIntegral(t *testing.T) {
	m := sliverRing(t)

	vals := make([]float64, m.Nents(mesh.TET))
	for i := range vals {
		vals[i] = 3.0
	}
	require.NoError(t, m.AddTag(mesh.TET, "density", 1, mesh.TypeF64, mesh.Conserve, false, vals))

	var before float64
	meas := quality.ElementMeasures(m)
	for i, v := range vals {
		before += meas[i] * v
	}

	n, err := ByQuality3D(m, Options{QualityFloor: 0.3, NLayers: 0, Strict: true})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	tag, err := m.GetTag(mesh.TET, "density")
	require.NoError(t, err)
	meas = quality.ElementMeasures(m)
	var after float64
	for i := 0; i < m.Nents(mesh.TET); i++ {
		after += meas[i] * tag.F64[i]
	}
	require.InDelta(t, before, after, 1e-10)
}

func TestByQuality3DNoOpOnUnitCube(t *testing.T) {
	m := mesh.UnitCube()
	metrics := make([]float64, 8*6)
	for v := 0; v < 8; v++ {
		p := metric.Pack3(metric.Sym3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
		copy(metrics[v*6:v*6+6], p[:])
	}
	require.NoError(t, m.AddTag(mesh.VERT, mesh.MetricTagName, 6, mesh.TypeF64, mesh.Metric, false, metrics))

	// the Kuhn tets score well above the sliver floor, so nothing is
	// marked and the pass must leave the cube alone.
	n, err := ByQuality3D(m, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.Equal(t, 6, m.Nents(mesh.TET))
	var vol float64
	for _, v := range quality.ElementMeasures(m) {
		vol += v
	}
	require.InDelta(t, 1.0, vol, 1e-12)
}

func TestByQuality2DNoOpWhenAlreadyGood(t *testing.T) {
	m := mesh.UnitSquare()
	metrics := make([]float64, 4*3)
	for v := 0; v < 4; v++ {
		p := metric.Pack2(metric.Sym2{{1, 0}, {0, 1}})
		copy(metrics[v*3:v*3+3], p[:])
	}
	require.NoError(t, m.AddTag(mesh.VERT, mesh.MetricTagName, 3, mesh.TypeF64, mesh.Metric, false, metrics))
	n, err := ByQuality2D(m, Options{QualityFloor: 0.01, NLayers: 0, Strict: true})
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
