//go:build unit
// +build unit

package scheduler

import (
	"math"
	"testing"

	"github.com/oqtopus-team/niso-engine/circuit"
	"github.com/oqtopus-team/niso-engine/noise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, b *circuit.Builder) *circuit.Circuit {
	c, err := b.Build()
	require.NoError(t, err)
	return c
}

func TestComputeASAPParallelGates(t *testing.T) {
	c := build(t, circuit.NewBuilder(2).H(0).H(1).CX(0, 1))
	sched := NewDefaultScheduler().ComputeASAP(c)

	require.Equal(t, 3, sched.NumGates())
	gs := sched.Gates()
	assert.Equal(t, 0.0, gs[0].StartNs)
	assert.Equal(t, 0.0, gs[1].StartNs)
	assert.Equal(t, 35.0, gs[2].StartNs)
	assert.Equal(t, 335.0, gs[2].EndNs)
	assert.Equal(t, 335.0, sched.TotalDurationNs())
	assert.InDelta(t, 0.335, sched.TotalDurationUs(), 1e-12)
	assert.Equal(t, []float64{335, 335}, sched.QubitEndTimes())
	assert.Equal(t, []float64{0, 0}, sched.IdleTimes())
	assert.Equal(t, 2, sched.CriticalPathDepth())
	assert.Equal(t, 2, sched.MaxConcurrentGates())
	assert.InDelta(t, 370.0/335.0, sched.ParallelismFactor(), 1e-12)
	assert.InDelta(t, 370.0/335.0, PotentialSpeedup(sched), 1e-12)
	assert.InDelta(t, 370.0/670.0, SchedulingEfficiency(sched), 1e-12)
	assert.Equal(t, 2, sched.Count1Q())
	assert.Equal(t, 1, sched.Count2Q())
}

func TestComputeASAPGlobalMeasurement(t *testing.T) {
	c := build(t, circuit.NewBuilder(3).H(0).CX(0, 1).MeasureAll())
	sched := NewDefaultScheduler().ComputeASAP(c)

	m := sched.Gates()[2]
	assert.Equal(t, 335.0, m.StartNs)
	assert.Equal(t, 5335.0, m.EndNs)
	assert.Equal(t, []float64{5335, 5335, 5335}, sched.QubitEndTimes())
	assert.Equal(t, []float64{5000, 5035, 5335}, sched.IdleTimes())
	assert.Equal(t, 15370.0, sched.TotalIdleTime())
	assert.Equal(t, 1, sched.CountMeasurements())
	assert.Equal(t, []int{0, 1}, sched.CriticalPath())

	q, ok := BottleneckQubit(sched)
	assert.True(t, ok)
	assert.Equal(t, 2, q)

	assert.InDelta(t, 15370.0/60000.0, sched.WeightedIdleTime(nil), 1e-12)
	assert.Len(t, sched.GatesOnQubit(1), 1)
	assert.Len(t, sched.GatesInRange(0, 40), 2)
	assert.Equal(t, 1, sched.ConcurrentGatesAt(1000))
	assert.Len(t, sched.TimeSlots(), 3)
}

func TestGateTimePresets(t *testing.T) {
	c := build(t, circuit.NewBuilder(2).H(0).CX(0, 1))
	tests := []struct {
		name string
		gt   *noise.GateTimes
		want float64
	}{
		{name: "ibm", gt: noise.DefaultGateTimes(), want: 335},
		{name: "trapped ion", gt: noise.TrappedIon(), want: 210_000},
		{name: "neutral atom", gt: noise.NeutralAtom(), want: 2_000},
		{name: "h override", gt: noise.DefaultGateTimes().WithGateTime("h", 0), want: 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewScheduler(tt.gt).ComputeASAP(c).TotalDurationNs())
		})
	}
}

func TestEmptySchedule(t *testing.T) {
	sched := NewScheduler(nil).ComputeASAP(circuit.New(3))
	assert.Equal(t, 0, sched.NumGates())
	assert.Equal(t, 0.0, sched.TotalDurationNs())
	assert.Equal(t, []float64{0, 0, 0}, sched.QubitEndTimes())
	assert.Equal(t, 1.0, sched.ParallelismFactor())
	assert.Equal(t, 1.0, SchedulingEfficiency(sched))
	assert.Equal(t, 0, sched.CriticalPathDepth())
	assert.Equal(t, 0, sched.MaxConcurrentGates())

	_, ok := BottleneckQubit(EmptySchedule(0))
	assert.False(t, ok)
}

func TestDecoherenceEstimates(t *testing.T) {
	c := build(t, circuit.NewBuilder(1).X(0).MeasureAll())
	sched := NewDefaultScheduler().ComputeASAP(c)
	v := []noise.Vector{{QubitID: 0, T1: 100, T2: 60}}

	assert.Equal(t, []float64{5000}, sched.IdleTimes())
	assert.InDelta(t, 1-math.Exp(-5.0/60.0), sched.EstimateDecoherence(v), 1e-12)
	assert.InDelta(t, ComputeIdleError(5000, 60), sched.EstimateDecoherence(v), 1e-12)
	assert.InDelta(t, 1-math.Exp(-5.0/100.0), sched.EstimateT1Error(v), 1e-12)
	assert.Equal(t, 0.0, sched.EstimateDecoherence([]noise.Vector{noise.IdealVector(0)}))
	assert.Equal(t, 0.0, sched.EstimateDecoherence(nil))

	assert.Equal(t, 0.0, ComputeIdleError(1000, 0))
	assert.Equal(t, 0.0, ComputeIdleError(1000, math.Inf(1)))
}

func TestScoreCircuit(t *testing.T) {
	s := NewDefaultScheduler()
	vs := []noise.Vector{
		{QubitID: 0, T1: math.Inf(1), T2: math.Inf(1), GateError1Q: 0.001, GateError2Q: 0.01, Readout: 0.01},
		{QubitID: 1, T1: math.Inf(1), T2: math.Inf(1), GateError1Q: 0.002, GateError2Q: 0.02, Readout: 0.01},
	}

	empty := s.ScoreCircuit(circuit.New(2), vs)
	assert.InDelta(t, 0.99*0.99, empty, 1e-12)

	c := build(t, circuit.NewBuilder(2).H(0).CX(0, 1))
	assert.InDelta(t, 0.999*0.98*0.99*0.99, s.ScoreCircuit(c, vs), 1e-12)
}

func TestTimeSlotOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeSlot
		want bool
	}{
		{name: "same qubit overlapping", a: NewTimeSlot(0, 0, 100), b: NewTimeSlot(0, 50, 150), want: true},
		{name: "same qubit touching", a: NewTimeSlot(0, 0, 100), b: NewTimeSlot(0, 100, 150), want: false},
		{name: "different qubits", a: NewTimeSlot(0, 0, 100), b: NewTimeSlot(1, 50, 150), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
		})
	}
	assert.Equal(t, 100.0, NewTimeSlot(0, 0, 100).Duration())
}

func TestScheduledGate(t *testing.T) {
	g := NewScheduledGate(3, circuit.CX(0, 2), 100, 400)
	assert.Equal(t, 300.0, g.Duration())
	assert.InDelta(t, 0.3, g.DurationUs(), 1e-12)
	assert.True(t, g.AffectsQubit(2))
	assert.False(t, g.AffectsQubit(1))
	assert.True(t, g.Overlaps(399, 500))
	assert.False(t, g.Overlaps(400, 500))
	assert.Equal(t, "[100.0-400.0ns] cx on [0 2]", g.String())
}
