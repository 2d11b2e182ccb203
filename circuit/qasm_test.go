//go:build unit
// +build unit

package circuit

import (
	"math"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/oqtopus-team/niso-engine/common"
	"github.com/oqtopus-team/niso-engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQASMExport(t *testing.T) {
	want, err := common.GetAsset("bell_pair.qasm")
	require.NoError(t, err)

	c, err := NewBuilder(2).H(0).CX(0, 1).MeasureAll().Build()
	require.NoError(t, err)
	assert.Equal(t, want, c.QASM())
}

func TestFromQASMAsset(t *testing.T) {
	s, err := common.GetAsset("ghz_4.qasm")
	require.NoError(t, err)

	c, err := FromQASM(s)
	require.NoError(t, err)
	assert.Equal(t, 4, c.NumQubits())
	assert.Equal(t, 9, c.GateCount())
	assert.Equal(t, 1, c.Count1Q())
	assert.Equal(t, 3, c.Count2Q())
	assert.Equal(t, 4, c.CountMeasurements())
	assert.True(t, c.Gate(4).IsBarrier())
	assert.Equal(t, 6, c.Depth())
}

func TestFromQASM(t *testing.T) {
	tests := []struct {
		name    string
		qasm    string
		want    []Gate
		wantErr error
	}{
		{
			name: "pi angles",
			qasm: heredoc.Doc(`
				OPENQASM 2.0;
				include "qelib1.inc";
				qreg q[2];
				rz(pi/2) q[0];
				rx(-3*pi/4) q[1];
				u3(0.1,0.2,0.3) q[0];
			`),
			want: []Gate{RZ(0, math.Pi/2), RX(1, -3*math.Pi/4), U(0, 0.1, 0.2, 0.3)},
		},
		{
			name: "aliases and whole-register measure",
			qasm: heredoc.Doc(`
				qreg q[3];
				cnot q[0],q[1];
				toffoli q[0],q[1],q[2];
				measure q -> c;
			`),
			want: []Gate{CX(0, 1), CCX(0, 1, 2), MeasureAll()},
		},
		{
			name: "unknown gate skipped",
			qasm: heredoc.Doc(`
				qreg q[1];
				foo q[0];
				x q[0];
			`),
			want: []Gate{X(0)},
		},
		{
			name: "no qreg",
			qasm: heredoc.Doc(`
				OPENQASM 2.0;
				h q[0];
			`),
			wantErr: core.ErrInvalidQasm,
		},
		{
			name: "missing paren",
			qasm: heredoc.Doc(`
				qreg q[1];
				rz(0.5 q[0];
			`),
			wantErr: core.ErrInvalidQasm,
		},
		{
			name: "negative register size",
			qasm: heredoc.Doc(`
				OPENQASM 2.0;
				qreg q[-2];
				creg c[2];
			`),
			wantErr: core.ErrInvalidQasm,
		},
		{
			name: "zero register size",
			qasm: heredoc.Doc(`
				qreg q[0];
				x q[0];
			`),
			wantErr: core.ErrInvalidQasm,
		},
		{
			name: "qubit outside register",
			qasm: heredoc.Doc(`
				qreg q[1];
				cx q[0],q[1];
			`),
			wantErr: core.ErrGateQubitMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := FromQASM(tt.qasm)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, len(tt.want), c.GateCount())
			for i, g := range tt.want {
				assert.Equal(t, g.Kind(), c.Gate(i).Kind())
				assert.Equal(t, g.Qubits(), c.Gate(i).Qubits())
				assert.InDeltaSlice(t, g.Params(), c.Gate(i).Params(), 1e-12)
			}
		})
	}
}

func TestQASMRoundTripKeepsStructure(t *testing.T) {
	orig, err := TqqcParityCircuit(4, 0.3, -0.05, EntanglerCZ, AllY(4))
	require.NoError(t, err)

	parsed, err := FromQASM(orig.QASM())
	require.NoError(t, err)
	assert.Equal(t, orig.GateCount(), parsed.GateCount())
	assert.Equal(t, orig.Depth(), parsed.Depth())
	assert.InDelta(t, 0.25, parsed.Gate(4).Angle(), 1e-12)
}
