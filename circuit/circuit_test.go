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

func TestGateClassification(t *testing.T) {
	tests := []struct {
		name   string
		gate   Gate
		single bool
		two    bool
		three  bool
		param  bool
		meas   bool
	}{
		{name: "h", gate: H(0), single: true},
		{name: "rz", gate: RZ(1, 0.3), single: true, param: true},
		{name: "u", gate: U(0, 1, 2, 3), single: true, param: true},
		{name: "cx", gate: CX(0, 1), two: true},
		{name: "crz", gate: CRZ(0, 1, 0.1), two: true, param: true},
		{name: "ccx", gate: CCX(0, 1, 2), three: true},
		{name: "measure", gate: Measure(0), meas: true},
		{name: "measure all", gate: MeasureAll(), meas: true},
		{name: "barrier", gate: Barrier()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.single, tt.gate.IsSingleQubit())
			assert.Equal(t, tt.two, tt.gate.IsTwoQubit())
			assert.Equal(t, tt.three, tt.gate.IsThreeQubit())
			assert.Equal(t, tt.param, tt.gate.IsParameterized())
			assert.Equal(t, tt.meas, tt.gate.IsMeasurement())
		})
	}
}

func TestGateQASM(t *testing.T) {
	tests := []struct {
		gate Gate
		want string
	}{
		{gate: H(0), want: "h q[0];"},
		{gate: RZ(0, 0.5), want: "rz(0.5) q[0];"},
		{gate: U(2, 1, 2, 3), want: "u(1,2,3) q[2];"},
		{gate: CX(0, 1), want: "cx q[0],q[1];"},
		{gate: CRZ(1, 2, 0.25), want: "crz(0.25) q[1],q[2];"},
		{gate: Measure(3), want: "measure q[3] -> c[3];"},
		{gate: MeasureAll(), want: "measure q -> c;"},
		{gate: Barrier(), want: "barrier q;"},
		{gate: Barrier(0, 1), want: "barrier q[0],q[1];"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.gate.QASM())
		})
	}
}

func TestGateDuration(t *testing.T) {
	assert.InDelta(t, 30.0, H(0).DurationNs(), 1e-6)
	assert.InDelta(t, 0.0, RZ(0, 1).DurationNs(), 1e-9)
	assert.InDelta(t, 300.0, CX(0, 1).DurationNs(), 1e-6)
	assert.InDelta(t, 0.0, Barrier().DurationNs(), 1e-9)
	assert.InDelta(t, core.MeasurementNs, Measure(0).DurationNs(), 1e-6)
}

func TestAddGate(t *testing.T) {
	c := New(2)
	require.NoError(t, c.AddGate(H(0)))
	require.NoError(t, c.AddGate(CX(0, 1)))

	err := c.AddGate(X(2))
	assert.ErrorIs(t, err, core.ErrGateQubitMismatch)

	err = c.AddGate(RZ(0, math.NaN()))
	assert.ErrorIs(t, err, core.ErrInvalidAngle)

	err = c.AddGate(RY(0, math.Inf(1)))
	assert.ErrorIs(t, err, core.ErrInvalidAngle)

	assert.Equal(t, 2, c.GateCount())
}

func TestCircuitDepth(t *testing.T) {
	tests := []struct {
		name  string
		gates []Gate
		want  int
	}{
		{name: "empty", gates: nil, want: 0},
		{name: "parallel", gates: []Gate{H(0), H(1), H(2)}, want: 1},
		{name: "chain", gates: []Gate{H(0), CX(0, 1), CX(1, 2)}, want: 3},
		{name: "barrier syncs", gates: []Gate{H(0), H(0), Barrier(), X(2)}, want: 4},
		{name: "measure all syncs", gates: []Gate{H(0), MeasureAll()}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := FromGates(3, tt.gates)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Depth())
		})
	}
}

func TestCircuitCounts(t *testing.T) {
	c, err := FromGates(3, []Gate{H(0), RZ(1, 0.1), CX(0, 1), CZ(1, 2), CCX(0, 1, 2), Measure(0), MeasureAll()})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Count1Q())
	assert.Equal(t, 2, c.Count2Q())
	assert.Equal(t, 1, c.Count3Q())
	assert.Equal(t, 2, c.CountMeasurements())
	assert.Equal(t, 1, c.CountParameterized())
	assert.Equal(t, []int{0, 1, 2}, c.UsedQubits())
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, c.TwoQubitPairs())
}

func TestCircuitCheck(t *testing.T) {
	c := New(2)
	assert.ErrorIs(t, c.Check(0), core.ErrEmptyCircuit)

	require.NoError(t, c.AddGates(H(0), H(0), H(0)))
	assert.NoError(t, c.Check(0))
	assert.NoError(t, c.Check(3))
	assert.ErrorIs(t, c.Check(2), core.ErrCircuitTooDeep)
}

func TestCircuitCloneIsIndependent(t *testing.T) {
	c := NewNamed(2, "orig")
	require.NoError(t, c.AddGate(H(0)))
	cl := c.Clone()
	require.NoError(t, cl.AddGate(X(1)))
	assert.Equal(t, 1, c.GateCount())
	assert.Equal(t, 2, cl.GateCount())
	assert.Equal(t, "orig", cl.Name())
}

func TestProbability(t *testing.T) {
	p, err := NewProbability(0.25)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, p.Complement(), 1e-12)
	assert.Equal(t, "0.250000", p.String())

	for _, v := range []float64{-0.1, 1.1, math.NaN()} {
		_, err := NewProbability(v)
		assert.ErrorIs(t, err, core.ErrInvalidProbability)
	}
}

func TestBitstring(t *testing.T) {
	b, err := ParseBitstring("1011")
	require.NoError(t, err)
	assert.Equal(t, 3, b.Popcount())
	assert.True(t, b.Parity())
	assert.Equal(t, -1, b.ParitySign())
	assert.Equal(t, uint64(11), b.Uint())
	assert.Equal(t, "1011", b.String())

	z := ZeroBitstring(3)
	assert.Equal(t, "000", z.String())
	assert.Equal(t, 1, z.ParitySign())

	_, err = ParseBitstring("10a1")
	assert.ErrorIs(t, err, core.ErrInvalidBitstring)
	assert.Equal(t, 2, Popcount("0110"))
}

func TestBasisString(t *testing.T) {
	bs, err := ParseBasisString("xYz")
	require.NoError(t, err)
	assert.Equal(t, BasisString{BasisX, BasisY, BasisZ}, bs)
	assert.Equal(t, "XYZ", bs.String())
	assert.Equal(t, "XXX", AllX(3).String())

	_, err = ParseBasisString("XQ")
	assert.ErrorIs(t, err, core.ErrInvalidBasis)

	assert.Equal(t, []Gate{H(1)}, BasisX.Transform(1))
	assert.Equal(t, []Gate{Sdg(1), H(1)}, BasisY.Transform(1))
	assert.Empty(t, BasisZ.Transform(1))

	var parsed BasisString
	require.NoError(t, parsed.UnmarshalText([]byte("ZX")))
	assert.Equal(t, BasisString{BasisZ, BasisX}, parsed)
}

func TestEntangler(t *testing.T) {
	e, err := ParseEntangler("CNOT")
	require.NoError(t, err)
	assert.Equal(t, EntanglerCX, e)
	assert.Equal(t, CX(0, 1), e.Gate(0, 1))

	e, err = ParseEntangler("cz")
	require.NoError(t, err)
	assert.Equal(t, CZ(2, 3), e.Gate(2, 3))
	assert.Equal(t, "cz", e.String())

	_, err = ParseEntangler("iswap")
	assert.ErrorIs(t, err, core.ErrInvalidGateParameter)
}
