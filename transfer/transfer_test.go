package transfer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deadsy/meshadapt/mesh"
	"github.com/deadsy/meshadapt/metric"
)

func newTwoVertMesh(t *testing.T) *mesh.Mesh {
	t.Helper()
	m := mesh.New(2)
	m.SetNents(mesh.VERT, 3)
	m.SetCoords([]float64{0, 0, 1, 0, 0, 1})
	return m
}

func TestApplyVertexLinearInterp(t *testing.T) {
	m := newTwoVertMesh(t)
	require.NoError(t, m.AddTag(mesh.VERT, "temp", 1, mesh.TypeF64, mesh.LinearInterp, false, []float64{10, 20, 0}))
	err := ApplyVertex(m, "temp", 2, []Contribution{{From: 0, Weight: 0.5}, {From: 1, Weight: 0.5}})
	require.NoError(t, err)
	tag, _ := m.GetTag(mesh.VERT, "temp")
	require.InDelta(t, 15.0, tag.F64[2], 1e-9)
}

func TestApplyVertexDontTransferNoOp(t *testing.T) {
	m := newTwoVertMesh(t)
	require.NoError(t, m.AddTag(mesh.VERT, "scratch", 1, mesh.TypeF64, mesh.DontTransfer, false, []float64{10, 20, 0}))
	require.NoError(t, ApplyVertex(m, "scratch", 2, []Contribution{{From: 0, Weight: 1}}))
	tag, _ := m.GetTag(mesh.VERT, "scratch")
	require.Equal(t, 0.0, tag.F64[2])
}

func TestApplyVertexMetricBlend(t *testing.T) {
	m := newTwoVertMesh(t)
	a := metric.Pack2(metric.Sym2{{1, 0}, {0, 1}})
	b := metric.Pack2(metric.Sym2{{4, 0}, {0, 4}})
	data := make([]float64, 9)
	copy(data[0:3], a[:])
	copy(data[3:6], b[:])
	require.NoError(t, m.AddTag(mesh.VERT, mesh.MetricTagName, 3, mesh.TypeF64, mesh.Metric, false, data))
	require.NoError(t, ApplyVertex(m, mesh.MetricTagName, 2, []Contribution{{From: 0, Weight: 0.5}, {From: 1, Weight: 0.5}}))
	tag, _ := m.GetTag(mesh.VERT, mesh.MetricTagName)
	var packed [3]float64
	copy(packed[:], tag.F64[6:9])
	got := metric.Unpack2(packed)
	want := metric.Interpolate2(metric.Sym2{{1, 0}, {0, 1}}, metric.Sym2{{4, 0}, {0, 4}}, 0.5)
	require.InDelta(t, want[0][0], got[0][0], 1e-9)
	require.InDelta(t, want[1][1], got[1][1], 1e-9)
}

func TestApplyElementInherit(t *testing.T) {
	m := mesh.New(2)
	m.SetNents(mesh.TRI, 2)
	require.NoError(t, m.AddTag(mesh.TRI, "region", 1, mesh.TypeI32, mesh.Inherit, false, []int32{7, 0}))
	m.GrowElemTags(mesh.TRI, 2)
	require.NoError(t, ApplyElement(m, mesh.TRI, "region", 1, []Contribution{{From: 0, Weight: 1}}, 1))
	tag, _ := m.GetTag(mesh.TRI, "region")
	require.Equal(t, int32(7), tag.I32[1])
}
