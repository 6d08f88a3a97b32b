package transfer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deadsy/meshadapt/mesh"
)

func pointwiseTag(vals []float64) *mesh.Tag {
	return &mesh.Tag{
		Name: "u", Dim: mesh.TRI, Ncomps: 1,
		Type: mesh.TypeF64, Policy: mesh.Pointwise,
		F64: vals,
	}
}

func TestPointwiseCavityBoundaryTakesMean(t *testing.T) {
	tag := pointwiseTag([]float64{1, 3, 0})
	PointwiseCavity(tag, []int32{0, 1}, []int32{2}, nil, nil, false)
	require.InDelta(t, 2.0, tag.F64[2], 1e-12)
}

func TestPointwiseCavityInteriorFitsLinearField(t *testing.T) {
	// donor values sample u(x,y) = 2 + 3x - y at the donor centroids; a
	// linear fit must reproduce it exactly at any product centroid.
	donorXY := [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	vals := make([]float64, 5)
	for i, xy := range donorXY {
		vals[i] = 2 + 3*xy[0] - xy[1]
	}
	tag := pointwiseTag(vals)
	productXY := [][]float64{{0.25, 0.5}}
	PointwiseCavity(tag, []int32{0, 1, 2, 3}, []int32{4}, donorXY, productXY, true)
	require.InDelta(t, 2+3*0.25-0.5, tag.F64[4], 1e-9)
}

func TestPointwiseCavitySmallStencilFallsBackToMean(t *testing.T) {
	tag := pointwiseTag([]float64{1, 5, 0})
	// two donors cannot pin down a 2D linear fit: mean instead
	PointwiseCavity(tag, []int32{0, 1}, []int32{2}, [][]float64{{0, 0}, {1, 0}}, [][]float64{{0.5, 0}}, true)
	require.InDelta(t, 3.0, tag.F64[2], 1e-12)
}
