package mesh

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnitSquareAdjacency(t *testing.T) {
	m := UnitSquare()
	require.Equal(t, 4, m.Nents(VERT))
	require.Equal(t, 2, m.Nents(TRI))

	down := m.AskDown(TRI, EDGE)
	require.Equal(t, 3, down.Width)
	require.Equal(t, 5, m.Nents(EDGE)) // unit square diagonal split: 5 unique edges

	up := m.AskUp(EDGE, TRI)
	// the shared diagonal edge must have exactly two incident triangles
	sharedFound := false
	for e := 0; e < m.Nents(EDGE); e++ {
		count := up.A2Ab[e+1] - up.A2Ab[e]
		if count == 2 {
			sharedFound = true
		}
		require.LessOrEqual(t, count, int32(2))
	}
	require.True(t, sharedFound)
}

func TestAddTagLengthMismatch(t *testing.T) {
	m := UnitSquare()
	err := m.AddTag(VERT, "bad", 1, TypeF64, DontTransfer, false, []float64{1, 2})
	require.Error(t, err)
}

func TestGetTagMissing(t *testing.T) {
	m := UnitSquare()
	_, err := m.GetTag(VERT, "nope")
	require.Error(t, err)
}

func TestUnitCubeAdjacency(t *testing.T) {
	m := UnitCube()
	require.Equal(t, 8, m.Nents(VERT))
	require.Equal(t, 6, m.Nents(TET))

	downTri := m.AskDown(TET, TRI)
	require.Equal(t, 4, downTri.Width)

	upTri := m.AskUp(TRI, TET)
	internalFaces := 0
	for f := 0; f < m.Nents(TRI); f++ {
		if upTri.A2Ab[f+1]-upTri.A2Ab[f] == 2 {
			internalFaces++
		}
	}
	require.Greater(t, internalFaces, 0)
}

func TestProjectClassification(t *testing.T) {
	m := UnitSquare()
	classDim := []int8{2, 2}
	classID := []int32{0, 0}
	require.NoError(t, m.SetClassification(TRI, classDim, classID))
	require.NoError(t, m.ProjectClassification(VERT, TRI))
	require.Equal(t, int8(2), m.ClassDim(VERT, 0))
}
