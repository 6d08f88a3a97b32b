package cavity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deadsy/meshadapt/la"
	"github.com/deadsy/meshadapt/mesh"
)

func TestSelectIndependentNoConflict(t *testing.T) {
	cands := []Candidate{
		{Key: 0, Domains: []int32{0, 1}, Priority: 1.0},
		{Key: 1, Domains: []int32{2, 3}, Priority: 0.9},
	}
	got := SelectIndependent(cands)
	require.Len(t, got, 2)
}

func TestSelectIndependentConflictPicksHigherPriority(t *testing.T) {
	cands := []Candidate{
		{Key: 0, Domains: []int32{0, 1}, Priority: 0.5},
		{Key: 1, Domains: []int32{1, 2}, Priority: 0.9},
	}
	got := SelectIndependent(cands)
	require.Len(t, got, 1)
	require.Equal(t, int32(1), cands[got[0]].Key)
}

func TestSelectIndependentTieBreakByKey(t *testing.T) {
	cands := []Candidate{
		{Key: 5, Domains: []int32{0}, Priority: 1.0},
		{Key: 2, Domains: []int32{0}, Priority: 1.0},
	}
	got := SelectIndependent(cands)
	require.Len(t, got, 1)
	require.Equal(t, int32(2), cands[got[0]].Key)
}

func TestAcceptQualityStrictVsLoose(t *testing.T) {
	require.True(t, AcceptQuality(0.5, 0.5, false))
	require.False(t, AcceptQuality(0.5, 0.5, true))
	require.True(t, AcceptQuality(0.6, 0.5, true))
}

func TestAssertOwnersHaveAllUpward(t *testing.T) {
	require.NoError(t, AssertOwnersHaveAllUpward(true, mesh.TRI))
	require.Error(t, AssertOwnersHaveAllUpward(false, mesh.TRI))
}

func TestVertexLocatorNearest(t *testing.T) {
	m := mesh.UnitSquare()
	loc := NewVertexLocator(m)
	id, ok := loc.Nearest2(la.Vec2{0.05, 0.05}, -1)
	require.True(t, ok)
	require.Equal(t, int32(0), id)
}
