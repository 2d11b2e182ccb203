//go:build unit
// +build unit

package circuit

import (
	"testing"

	"github.com/oqtopus-team/niso-engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTopology(t *testing.T) {
	_, err := NewTopology(nil, true)
	assert.ErrorIs(t, err, core.ErrEmptyCouplingMap)

	_, err = NewTopology([]Coupling{{0, 1}, {2, 2}}, true)
	assert.ErrorIs(t, err, core.ErrInvalidCoupling)

	topo, err := NewTopology([]Coupling{{0, 1}, {1, 4}}, false)
	require.NoError(t, err)
	assert.Equal(t, 5, topo.NumQubits())
	assert.True(t, topo.IsConnected(0, 1))
	assert.False(t, topo.IsConnected(1, 0))
	assert.Equal(t, []int{4}, topo.Neighbors(1))
}

func TestTopologyPresets(t *testing.T) {
	tests := []struct {
		name      string
		topo      *Topology
		numQubits int
		numEdges  int
		wantName  string
	}{
		{name: "linear", topo: LinearTopology(5), numQubits: 5, numEdges: 4, wantName: "linear_5"},
		{name: "ring", topo: RingTopology(5), numQubits: 5, numEdges: 5, wantName: "ring_5"},
		{name: "grid", topo: GridTopology(2, 3), numQubits: 6, numEdges: 7, wantName: "grid_2x3"},
		{name: "heavy hex 1", topo: HeavyHexTopology(1), numQubits: 7, numEdges: 6, wantName: "heavy_hex_1"},
		{name: "heavy hex 2", topo: HeavyHexTopology(2), numQubits: 27, numEdges: 21, wantName: "heavy_hex_2"},
		{name: "heavy hex fallback", topo: HeavyHexTopology(3), numQubits: 21, numEdges: 20, wantName: "linear_21"},
		{name: "all to all", topo: AllToAllTopology(4), numQubits: 4, numEdges: 6, wantName: "all_to_all_4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.numQubits, tt.topo.NumQubits())
			assert.Equal(t, tt.numEdges, tt.topo.NumEdges())
			assert.Equal(t, tt.wantName, tt.topo.Name())
		})
	}
}

func TestTopologyConnectivity(t *testing.T) {
	linear := LinearTopology(5)
	assert.True(t, linear.IsConnected(0, 1))
	assert.True(t, linear.IsConnected(1, 0))
	assert.False(t, linear.IsConnected(0, 2))
	assert.True(t, linear.IsConnected(3, 3))
	assert.Equal(t, []int{1, 3}, linear.Neighbors(2))
	assert.Equal(t, 1, linear.Degree(0))
	assert.Equal(t, []int{0, 4}, linear.MinDegreeQubits())
	assert.InDelta(t, 1.6, linear.AverageDegree(), 1e-12)
	assert.Equal(t, 4, linear.Diameter())
	assert.True(t, linear.IsFullyConnected())

	ring := RingTopology(6)
	assert.True(t, ring.IsConnected(5, 0))
	assert.Equal(t, 3, ring.Diameter())
}

func TestShortestPath(t *testing.T) {
	linear := LinearTopology(5)
	path, err := linear.ShortestPath(0, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, path)

	path, err = linear.ShortestPath(2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, path)

	d, err := RingTopology(6).Distance(0, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, d)

	_, err = linear.ShortestPath(0, 9)
	assert.ErrorIs(t, err, core.ErrPathNotFound)

	split, err := NewTopology([]Coupling{{0, 1}, {2, 3}}, true)
	require.NoError(t, err)
	_, err = split.ShortestPath(0, 3)
	assert.ErrorIs(t, err, core.ErrPathNotFound)
	assert.False(t, split.IsFullyConnected())
}

func TestTopologyValidate(t *testing.T) {
	linear := LinearTopology(3)

	ok, err := NewBuilder(3).H(0).CXChain().Build()
	require.NoError(t, err)
	assert.NoError(t, linear.Validate(ok))

	bad, err := NewBuilder(3).CX(0, 2).Build()
	require.NoError(t, err)
	assert.ErrorIs(t, linear.Validate(bad), core.ErrTopologyViolation)

	big, err := NewBuilder(4).H(3).Build()
	require.NoError(t, err)
	assert.ErrorIs(t, linear.Validate(big), core.ErrQubitOutOfRange)
}

func TestFindLinearChain(t *testing.T) {
	chain, ok := HeavyHexTopology(1).FindLinearChain(4)
	require.True(t, ok)
	assert.Equal(t, []int{4, 5, 3, 1}, chain)

	_, ok = LinearTopology(3).FindLinearChain(4)
	assert.False(t, ok)
}
