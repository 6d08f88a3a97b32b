package partition

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerialIsIdentity(t *testing.T) {
	var c Comm = Serial{}
	require.Equal(t, 3.5, c.Allreduce(3.5, OpSum))
	require.Equal(t, 3.5, c.Allreduce(3.5, OpMin))
	data := []float64{1, 2, 3, 4}
	require.Equal(t, data, c.SyncArray(0, data, 2))
	require.True(t, c.OwnersHaveAllUpward(0))
	require.True(t, c.OwnersHaveAllUpward(3))
}
