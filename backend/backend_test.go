//go:build unit
// +build unit

package backend

import (
	"context"
	"math"
	"testing"

	"github.com/oqtopus-team/niso-engine/circuit"
	"github.com/oqtopus-team/niso-engine/core"
	"github.com/oqtopus-team/niso-engine/noise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func bell(t *testing.T) *circuit.Circuit {
	c, err := circuit.NewBuilder(2).H(0).CX(0, 1).MeasureAll().Build()
	require.NoError(t, err)
	return c
}

func TestIdealBell(t *testing.T) {
	sim := NewIdealSimulator(2).WithSeed(42)
	res, err := sim.Execute(context.Background(), bell(t), 10000)
	require.NoError(t, err)

	assert.Equal(t, uint64(10000), res.TotalCounts())
	assert.InDelta(t, 0.5, res.Probability("00"), 0.05)
	assert.InDelta(t, 0.5, res.Probability("11"), 0.05)
	assert.Equal(t, 0.0, res.Probability("01"))
	assert.Equal(t, 0.0, res.Probability("10"))
	assert.Equal(t, 1.0, res.ParityExpectation())
	assert.Equal(t, SimulatorName, res.Metadata.Backend)
	assert.NotEmpty(t, res.Metadata.JobID)
	require.NotNil(t, res.Metadata.Seed)
	assert.Equal(t, int64(42), *res.Metadata.Seed)
}

func TestIdealGHZParity(t *testing.T) {
	c, err := circuit.NewSeededGenerator(1).GHZ(4)
	require.NoError(t, err)
	res, err := NewIdealSimulator(4).WithSeed(3).Execute(context.Background(), c, 4096)
	require.NoError(t, err)
	assert.Greater(t, res.ParityExpectation(), 0.9)
	assert.InDelta(t, 1.0, res.PEven(), 1e-12)
}

func TestBitOrderIsMSBFirst(t *testing.T) {
	c, err := circuit.NewBuilder(3).X(0).MeasureAll().Build()
	require.NoError(t, err)
	res, err := NewIdealSimulator(3).WithSeed(1).Execute(context.Background(), c, 100)
	require.NoError(t, err)
	assert.Equal(t, core.Counts{"001": 100}, res.Counts)
}

func TestSeedDeterminism(t *testing.T) {
	c, err := circuit.TqqcParityCircuit(5, 0.3, 0, circuit.EntanglerCX, circuit.AllX(5))
	require.NoError(t, err)
	sim := NewIBMTypicalSimulator(5).WithSeed(1234)

	a, err := sim.Execute(context.Background(), c, 2048)
	require.NoError(t, err)
	b, err := sim.Execute(context.Background(), c, 2048)
	require.NoError(t, err)
	assert.Equal(t, a.Counts, b.Counts)
	assert.Equal(t, uint64(2048), a.TotalCounts())
	assert.InDelta(t, 1.0, a.PEven()+a.POdd(), 1e-12)
}

func TestNoiseDegradesParity(t *testing.T) {
	c, err := circuit.TqqcParityCircuit(5, 0, 0, circuit.EntanglerCX, circuit.AllX(5))
	require.NoError(t, err)

	levels := []float64{0, 0.01, 0.03}
	parities := []float64{}
	for _, p := range levels {
		sim, err := NewDepolSimulator(5, p)
		require.NoError(t, err)
		res, err := sim.WithSeed(7).Execute(context.Background(), c, 16384)
		require.NoError(t, err)
		parities = append(parities, math.Abs(res.ParityExpectation()))
	}
	assert.InDelta(t, 1.0, parities[0], 1e-12)
	for i := 1; i < len(parities); i++ {
		assert.Less(t, parities[i], parities[i-1], "noise %.2f", levels[i])
	}
}

func TestExecuteErrors(t *testing.T) {
	sim := NewIdealSimulator(2)
	big, err := circuit.NewBuilder(3).H(2).Build()
	require.NoError(t, err)

	tests := []struct {
		name  string
		c     *circuit.Circuit
		shots int
		kind  error
	}{
		{name: "too many qubits", c: big, shots: 10, kind: core.ErrQubitOutOfRange},
		{name: "negative qubit count", c: circuit.New(-2), shots: 10, kind: core.ErrQubitOutOfRange},
		{name: "zero shots", c: bell(t), shots: 0, kind: core.ErrShotsOutOfRange},
		{name: "too many shots", c: bell(t), shots: core.BackendMaxShots + 1, kind: core.ErrShotsOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Execute(context.Background(), tt.c, tt.shots)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewIdealSimulator(2).Execute(ctx, bell(t), 100)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteBatchWorkersMatchSequential(t *testing.T) {
	cs, err := circuit.NewGenerator().ParityOscillation(3, 6)
	require.NoError(t, err)
	base := NewSimulator(3, noise.NoisyTest(0.02)).WithSeed(99)

	seq, err := base.ExecuteBatch(context.Background(), cs, 512)
	require.NoError(t, err)
	par, err := base.WithWorkers(4).ExecuteBatch(context.Background(), cs, 512)
	require.NoError(t, err)

	require.Len(t, par, len(cs))
	for i := range cs {
		assert.Equal(t, seq[i].Counts, par[i].Counts, "circuit %d", i)
		assert.Equal(t, int64(99+i), *par[i].Metadata.Seed)
	}
}

func TestExecuteBatchCollectsErrors(t *testing.T) {
	ok := bell(t)
	big, err := circuit.NewBuilder(4).H(3).Build()
	require.NoError(t, err)

	_, err = NewIdealSimulator(2).WithWorkers(3).
		ExecuteBatch(context.Background(), []*circuit.Circuit{ok, big, ok, big}, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrQubitOutOfRange)
	assert.Len(t, multierr.Errors(err), 2)
}

func TestSpecialGates(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *circuit.Builder) *circuit.Builder
		want  map[string]float64
	}{
		{
			name:  "iswap moves excitation",
			build: func(b *circuit.Builder) *circuit.Builder { return b.X(0).ISwap(0, 1) },
			want:  map[string]float64{"10": 1},
		},
		{
			name:  "ecr on ground state",
			build: func(b *circuit.Builder) *circuit.Builder { return b.ECR(0, 1) },
			want:  map[string]float64{"01": 0.5, "11": 0.5},
		},
		{
			name:  "swap",
			build: func(b *circuit.Builder) *circuit.Builder { return b.X(1).Swap(0, 1) },
			want:  map[string]float64{"01": 1},
		},
		{
			name:  "bell",
			build: func(b *circuit.Builder) *circuit.Builder { return b.H(0).CX(0, 1) },
			want:  map[string]float64{"00": 0.5, "11": 0.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.build(circuit.NewBuilder(2)).Build()
			require.NoError(t, err)
			probs, err := Probabilities(c, nil)
			require.NoError(t, err)
			require.Len(t, probs, len(tt.want))
			for k, v := range tt.want {
				assert.InDelta(t, v, probs[k], 1e-9, k)
			}
		})
	}
}

func TestResetReturnsToGround(t *testing.T) {
	c, err := circuit.NewBuilder(1).H(0).Reset(0).MeasureAll().Build()
	require.NoError(t, err)
	res, err := NewIdealSimulator(1).WithSeed(5).Execute(context.Background(), c, 500)
	require.NoError(t, err)
	assert.Equal(t, core.Counts{"0": 500}, res.Counts)
}

func TestResultHelpers(t *testing.T) {
	r := &ExecutionResult{Counts: core.Counts{"00": 3, "01": 1, "11": 3}, Shots: 7}

	assert.InDelta(t, 5.0/7.0, r.ParityExpectation(), 1e-12)
	assert.InDelta(t, 6.0/7.0, r.PEven(), 1e-12)
	assert.InDelta(t, 1.0/7.0, r.POdd(), 1e-12)

	bs, n, ok := r.MostFrequent()
	assert.True(t, ok)
	assert.Equal(t, "00", bs)
	assert.Equal(t, uint32(3), n)

	_, _, ok = (&ExecutionResult{Counts: core.Counts{}}).MostFrequent()
	assert.False(t, ok)
	assert.Equal(t, 0.0, ParityFromCounts(core.Counts{"1": 4}, 0))
	assert.Equal(t, -1.0, ParityFromCounts(core.Counts{"1": 4}, 4))
}

func TestSimulatorOptions(t *testing.T) {
	sim := NewIdealSimulator(3)
	_, ok := sim.Seed()
	assert.False(t, ok)

	seeded := sim.WithSeed(8).WithName("custom").WithWorkers(0)
	seed, ok := seeded.Seed()
	assert.True(t, ok)
	assert.Equal(t, int64(8), seed)
	assert.Equal(t, "custom", seeded.Name())
	assert.Equal(t, 1, seeded.workers)
	assert.Equal(t, SimulatorName, sim.Name())
	assert.True(t, sim.IsSimulator())
	assert.Nil(t, sim.Calibration())

	_, err := NewDepolSimulator(3, 0.5)
	assert.ErrorIs(t, err, core.ErrInvalidNoiseLevel)
}
