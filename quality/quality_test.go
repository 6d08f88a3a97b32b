package quality

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deadsy/meshadapt/la"
	"github.com/deadsy/meshadapt/mesh"
	"github.com/deadsy/meshadapt/metric"
)

func TestEquilateralTriangleQualityIsOne(t *testing.T) {
	p := [3]la.Vec2{{0, 0}, {1, 0}, {0.5, 0.8660254037844386}}
	iso := metric.Sym2{{1, 0}, {0, 1}}
	q := Triangle2(p, iso)
	require.InDelta(t, 1.0, q, 1e-9)
}

func TestRegularTetQualityIsOne(t *testing.T) {
	p := [4]la.Vec3{
		{0, 0, 0},
		{1, 0, 0},
		{0.5, 0.8660254037844386, 0},
		{0.5, 0.28867513459481287, 0.8164965809277259},
	}
	iso := metric.Sym3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	q := Tet3(p, iso)
	require.InDelta(t, 1.0, q, 1e-6)
}

func TestUnitSquareTrianglesHaveEqualQuality(t *testing.T) {
	m := mesh.UnitSquare()
	metrics := make([]float64, 4*3)
	for v := 0; v < 4; v++ {
		packed := metric.Pack2(metric.Sym2{{1, 0}, {0, 1}})
		copy(metrics[v*3:v*3+3], packed[:])
	}
	require.NoError(t, m.AddTag(mesh.VERT, mesh.MetricTagName, 3, mesh.TypeF64, mesh.Metric, false, metrics))
	qs := ElementQualities2(m)
	require.Len(t, qs, 2)
	require.InDelta(t, qs[0], qs[1], 1e-9)
}

func TestMarkSliverLayersMarksNothingBelowNegativeFloor(t *testing.T) {
	m := mesh.UnitCube()
	metrics := make([]float64, 8*6)
	for v := 0; v < 8; v++ {
		packed := metric.Pack3(metric.Sym3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
		copy(metrics[v*6:v*6+6], packed[:])
	}
	require.NoError(t, m.AddTag(mesh.VERT, mesh.MetricTagName, 6, mesh.TypeF64, mesh.Metric, false, metrics))
	qs := ElementQualities3(m)
	require.Len(t, qs, 6)
	zero := MarkSliverLayers(m, -1, 0)
	for _, v := range zero {
		require.False(t, v)
	}
}
