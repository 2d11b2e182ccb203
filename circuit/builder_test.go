//go:build unit
// +build unit

package circuit

import (
	"math"
	"testing"

	"github.com/oqtopus-team/niso-engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderTqqcParity(t *testing.T) {
	c, err := NewBuilder(3).TqqcParity(0.4, 0.1, EntanglerCX, AllX(3)).Build()
	require.NoError(t, err)

	kinds := []Kind{}
	for _, g := range c.Gates() {
		kinds = append(kinds, g.Kind())
	}
	assert.Equal(t, []Kind{KindH, KindCX, KindCX, KindRZ, KindH, KindH, KindH, KindMeasureAll}, kinds)
	assert.InDelta(t, 0.5, c.Gate(3).Angle(), 1e-12)
	assert.Equal(t, 5, c.Count1Q())
	assert.Equal(t, 2, c.Count2Q())
	assert.Equal(t, 5, c.Depth())
}

func TestBuilderBasisAndLayers(t *testing.T) {
	c, err := NewBuilder(3).
		HLayer().
		RYLayer([]float64{0.1, 0.2, 0.3, 0.4}).
		RZLayer([]float64{0.5}).
		ApplyBasis(BasisString{BasisY, BasisZ, BasisX, BasisX}).
		Build()
	require.NoError(t, err)
	// 3 H, 3 RY, 1 RZ, Sdg+H on q0, H on q2
	assert.Equal(t, 10, c.GateCount())

	c, err = NewBuilder(2).ApplyUniformBasis(BasisY).Barrier().CZChain().Build()
	require.NoError(t, err)
	assert.Equal(t, 6, c.GateCount())
	assert.Equal(t, []int{0, 1}, c.Gate(4).Qubits())
}

func TestBuilderCollectsErrors(t *testing.T) {
	b := NewBuilder(2).H(0).X(5).RZ(0, math.NaN()).CX(0, 1)
	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrGateQubitMismatch)
	assert.ErrorIs(t, err, core.ErrInvalidAngle)

	_, err = NewBuilder(2).BuildValidated()
	assert.ErrorIs(t, err, core.ErrEmptyCircuit)

	_, err = NewBuilder(-1).Build()
	assert.ErrorIs(t, err, core.ErrQubitOutOfRange)
	_, err = FromGates(-2, nil)
	assert.ErrorIs(t, err, core.ErrQubitOutOfRange)
}

func TestGenerator(t *testing.T) {
	g := NewSeededGenerator(42)

	ghz, err := g.GHZ(5)
	require.NoError(t, err)
	assert.Equal(t, 1, ghz.Count1Q())
	assert.Equal(t, 4, ghz.Count2Q())

	bell, err := g.Bell()
	require.NoError(t, err)
	assert.Equal(t, 2, bell.GateCount())

	w, err := g.WState(3)
	require.NoError(t, err)
	assert.Equal(t, 5, w.GateCount())
	assert.InDelta(t, 2*math.Acos(math.Sqrt(1.0/3)), w.Gate(1).Angle(), 1e-12)

	qft, err := g.QFT(4)
	require.NoError(t, err)
	// 4 H, 6 controlled phases of 4 gates each, 2 swaps
	assert.Equal(t, 4+6*4+2, qft.GateCount())

	parity, err := g.TqqcParity(7, 0.5, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 6, parity.Count2Q())

	hea, err := g.HEA(5, 3)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, hea.Depth(), 3)
	assert.Equal(t, 30, hea.Count1Q())

	_, err = g.GHZ(0)
	assert.ErrorIs(t, err, core.ErrGateQubitMismatch)
}

func TestGeneratorReproducible(t *testing.T) {
	c1, err := NewSeededGenerator(7).Random(5, 4)
	require.NoError(t, err)
	c2, err := NewSeededGenerator(7).Random(5, 4)
	require.NoError(t, err)
	assert.Equal(t, c1.QASM(), c2.QASM())
}

func TestGeneratorSweeps(t *testing.T) {
	g := NewGenerator()

	cs, err := g.ParityOscillation(5, 10)
	require.NoError(t, err)
	assert.Len(t, cs, 10)
	assert.InDelta(t, 0.0, cs[0].Gate(5).Angle(), 1e-12)

	cs, err = g.DeltaSearch(3, 0.2, []float64{-0.1, 0, 0.1})
	require.NoError(t, err)
	assert.Len(t, cs, 3)

	cs, err = g.DepthScaling(3, 4)
	require.NoError(t, err)
	assert.Len(t, cs, 4)

	cs, err = g.QubitScaling(5)
	require.NoError(t, err)
	assert.Len(t, cs, 4)
	assert.Equal(t, 5, cs[3].NumQubits())
}
