//go:build unit
// +build unit

package tqqc

import (
	"context"
	"math"
	"testing"

	"github.com/go-faster/errors"
	"github.com/golang/mock/gomock"
	"github.com/oqtopus-team/niso-engine/backend"
	"github.com/oqtopus-team/niso-engine/circuit"
	"github.com/oqtopus-team/niso-engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatExecute answers every circuit with all shots on the ground state, so
// every parity is exactly 1.
func flatExecute(_ context.Context, _ *circuit.Circuit, shots int) (*backend.ExecutionResult, error) {
	return backend.NewExecutionResult(core.Counts{"00000": uint32(shots)}, shots, "mock"), nil
}

// cosineExecute returns counts whose parity is cos(angle-0.3), where angle
// is the RZ rotation of the parity circuit.
func cosineExecute(_ context.Context, c *circuit.Circuit, shots int) (*backend.ExecutionResult, error) {
	angle := 0.0
	for _, g := range c.Gates() {
		if g.Kind() == circuit.KindRZ {
			angle = g.Angle()
		}
	}
	p := math.Cos(angle - 0.3)
	even := uint32(math.Round((1 + p) / 2 * float64(shots)))
	return backend.NewExecutionResult(core.Counts{"00000": even, "00001": uint32(shots) - even}, shots, "mock"), nil
}

// slopeExecute returns counts whose parity is 0.5 + 0.05*angle. The plus and
// minus sides differ by a few counts, far below sampling noise at low shots.
func slopeExecute(_ context.Context, c *circuit.Circuit, shots int) (*backend.ExecutionResult, error) {
	angle := 0.0
	for _, g := range c.Gates() {
		if g.Kind() == circuit.KindRZ {
			angle = g.Angle()
		}
	}
	p := 0.5 + 0.05*angle
	even := uint32(math.Round((1 + p) / 2 * float64(shots)))
	return backend.NewExecutionResult(core.Counts{"00000": even, "00001": uint32(shots) - even}, shots, "mock"), nil
}

func newMockBackend(t *testing.T) *backend.MockBackend {
	ctrl := gomock.NewController(t)
	m := backend.NewMockBackend(ctrl)
	m.EXPECT().NumQubits().Return(5).AnyTimes()
	m.EXPECT().Name().Return("mock").AnyTimes()
	return m
}

func TestOptimizeFlatLandscapeStopsEarly(t *testing.T) {
	m := newMockBackend(t)
	// baseline plus three outer iterations of one inner step each
	m.EXPECT().Execute(gomock.Any(), gomock.Any(), 1024).DoAndReturn(flatExecute).Times(7)

	e, err := NewEngine(Default5Q().WithShots(1024).WithPoints(10).WithSeed(1), m)
	require.NoError(t, err)
	res, err := e.Optimize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.ParityBaseline)
	assert.Equal(t, 1.0, res.ParityFinal)
	assert.Equal(t, 3, res.Iterations)
	assert.True(t, res.EarlyStopped)
	assert.Equal(t, core.CONVERGED, res.Status)
	assert.Equal(t, 3, res.TiesCount)
	assert.Equal(t, 3, res.TotalInnerIterations)
	assert.Equal(t, 7, res.CircuitExecutions())
	assert.Equal(t, 0.0, res.DeltaOpt)
	assert.False(t, res.Improved())
	for i, rec := range res.History {
		assert.Equal(t, i, rec.Iteration)
		assert.Equal(t, 1, rec.InnerCount)
		assert.Equal(t, DirectionMinus, rec.Direction)
	}
}

func TestOptimizeWithoutDynamicInnerRunsAllPoints(t *testing.T) {
	m := newMockBackend(t)
	m.EXPECT().Execute(gomock.Any(), gomock.Any(), 512).DoAndReturn(flatExecute).Times(9)

	cfg := Default5Q().WithShots(512).WithPoints(4).WithDynamicInner(false).WithStatisticalTest(true)
	e, err := NewEngine(cfg, m)
	require.NoError(t, err)
	res, err := e.Optimize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, res.Iterations)
	assert.False(t, res.EarlyStopped)
	assert.Equal(t, core.EXHAUSTED, res.Status)
	assert.Equal(t, 0, res.SignificantMoves)
	assert.Equal(t, 1.0, res.KEstimated(4))
}

func TestOptimizeFollowsGradient(t *testing.T) {
	m := newMockBackend(t)
	m.EXPECT().Execute(gomock.Any(), gomock.Any(), 10000).DoAndReturn(cosineExecute).AnyTimes()

	e, err := NewEngine(Default5Q().WithShots(10000).WithPoints(10), m)
	require.NoError(t, err)
	records := 0
	e.SetObserver(func(IterationRecord) { records++ })
	res, err := e.Optimize(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Improved())
	assert.Greater(t, res.ParityFinal, res.ParityBaseline)
	assert.InDelta(t, 0.3, res.DeltaOpt, 0.15)
	assert.Equal(t, DirectionPlus, res.History[0].Direction)
	assert.InDelta(t, 0.12, res.History[0].Delta, 1e-12)
	assert.Equal(t, res.Iterations, records)
}

func TestOptimizeStatisticalTestSignificantMoves(t *testing.T) {
	m := newMockBackend(t)
	m.EXPECT().Execute(gomock.Any(), gomock.Any(), 10000).DoAndReturn(cosineExecute).AnyTimes()

	cfg := Default5Q().WithShots(10000).WithPoints(2).WithStatisticalTest(true).WithSeed(3)
	e, err := NewEngine(cfg, m)
	require.NoError(t, err)
	res, err := e.Optimize(context.Background())
	require.NoError(t, err)

	require.Len(t, res.History, 2)
	assert.GreaterOrEqual(t, res.SignificantMoves, 2)
	assert.Equal(t, 0, res.TiesCount)
	for _, rec := range res.History {
		assert.True(t, rec.Significant)
		assert.Equal(t, DirectionPlus, rec.Direction)
		assert.Greater(t, rec.Improvement, 0.0)
	}
	assert.InDelta(t, 0.12, res.History[0].Delta, 1e-12)
	assert.InDelta(t, 0.24, res.History[1].Delta, 1e-12)
	assert.InDelta(t, 0.24, res.DeltaOpt, 1e-12)
	assert.True(t, res.Improved())
}

func TestOptimizeStatisticalTestStaysOnInsignificantGap(t *testing.T) {
	m := newMockBackend(t)
	// baseline plus three outer iterations of one inner step each
	m.EXPECT().Execute(gomock.Any(), gomock.Any(), 1024).DoAndReturn(slopeExecute).Times(7)

	cfg := Default5Q().WithShots(1024).WithPoints(3).WithDynamicInner(false).WithStatisticalTest(true)
	e, err := NewEngine(cfg, m)
	require.NoError(t, err)
	res, err := e.Optimize(context.Background())
	require.NoError(t, err)

	require.Len(t, res.History, 3)
	assert.Equal(t, 0, res.SignificantMoves)
	assert.Equal(t, 0, res.TiesCount)
	for _, rec := range res.History {
		assert.Equal(t, DirectionStay, rec.Direction)
		assert.False(t, rec.Significant)
		assert.Greater(t, rec.ParityPlus, rec.ParityMinus)
		assert.Equal(t, 0.0, rec.Delta)
		assert.Equal(t, 0.0, rec.Improvement)
		assert.Equal(t, res.ParityBaseline, rec.ParitySelected)
	}
	assert.Equal(t, 0.0, res.DeltaOpt)
	assert.Equal(t, res.ParityBaseline, res.ParityFinal)
	assert.False(t, res.Improved())
}

func TestOptimizeDeltaModeReset(t *testing.T) {
	m := newMockBackend(t)
	m.EXPECT().Execute(gomock.Any(), gomock.Any(), 10000).DoAndReturn(cosineExecute).Times(7)

	cfg := Default5Q().WithShots(10000).WithPoints(3).WithDynamicInner(false).WithDeltaMode(DeltaModeReset)
	e, err := NewEngine(cfg, m)
	require.NoError(t, err)
	res, err := e.Optimize(context.Background())
	require.NoError(t, err)

	// delta becomes best minus previous: 0.12-0, 0.24-0.12, then no better
	// candidate so 0.12-0.12
	require.Len(t, res.History, 3)
	want := []float64{0.12, 0.12, 0}
	for i, rec := range res.History {
		assert.InDelta(t, want[i], rec.Delta, 1e-12)
	}
	assert.Greater(t, res.History[1].Improvement, 0.0)
	assert.Equal(t, 0.0, res.History[2].Improvement)
	assert.InDelta(t, 0.0, res.DeltaOpt, 1e-12)
	assert.Greater(t, res.ParityFinal, res.ParityBaseline)
}

func TestOptimizeBackendError(t *testing.T) {
	m := newMockBackend(t)
	boom := errors.New("device offline")
	m.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom).Times(1)

	e, err := NewEngine(Default5Q().WithShots(100), m)
	require.NoError(t, err)
	_, err = e.Optimize(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestNewEngineValidation(t *testing.T) {
	_, err := NewEngine(Default5Q().WithPoints(0), backend.NewIdealSimulator(5))
	assert.ErrorIs(t, err, core.ErrTqqcConfig)

	_, err = NewEngine(Default5Q(), backend.NewIdealSimulator(3))
	assert.ErrorIs(t, err, core.ErrQubitOutOfRange)
}

func TestOptimizeOnSimulator(t *testing.T) {
	run := func() *Result {
		sim, err := backend.NewDepolSimulator(5, 0.01)
		require.NoError(t, err)
		cfg := Default5Q().WithNoise(0.01).WithPoints(5).WithShots(2048).WithSeed(42)
		e, err := NewEngine(cfg, sim.WithSeed(42))
		require.NoError(t, err)
		res, err := e.Optimize(context.Background())
		require.NoError(t, err)
		return res
	}
	res := run()

	assert.Greater(t, res.Iterations, 0)
	assert.LessOrEqual(t, res.Iterations, 5)
	assert.Len(t, res.History, res.Iterations)
	assert.GreaterOrEqual(t, res.ParityFinal, res.ParityBaseline)
	assert.True(t, res.ParityFinal >= -1 && res.ParityFinal <= 1)
	for i, rec := range res.History {
		assert.Equal(t, i, rec.Iteration)
		assert.True(t, rec.ParityPlus >= -1 && rec.ParityPlus <= 1)
		assert.True(t, rec.ParityMinus >= -1 && rec.ParityMinus <= 1)
	}

	again := run()
	assert.Equal(t, res.DeltaOpt, again.DeltaOpt)
	assert.Equal(t, res.ParityFinal, again.ParityFinal)
}

func TestOptimizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e, err := NewEngine(Default5Q().WithShots(100), backend.NewIdealSimulator(5))
	require.NoError(t, err)
	_, err = e.Optimize(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultDerivedValues(t *testing.T) {
	r := &Result{ParityBaseline: 0.5, Improvement: 0.1, EarlyStopped: true, Iterations: 5,
		History: []IterationRecord{{Iteration: 0, Delta: 0.1}}, Status: core.CONVERGED}

	assert.InDelta(t, 20.0, r.ImprovementPercent(), 1e-9)
	assert.InDelta(t, 40.0/41.0, r.KEstimated(20), 1e-12)
	assert.Equal(t, 1.0, r.KEstimated(5))
	assert.Equal(t, 0.0, (&Result{Improvement: 0.1}).ImprovementPercent())

	c := r.Clone()
	c.History[0].Delta = 9
	assert.Equal(t, 0.1, r.History[0].Delta)
	assert.Equal(t, r.StartedAt, c.StartedAt)

	s := r.ToString()
	assert.Contains(t, s, `"status": "converged"`)
	assert.Contains(t, s, `"delta_opt": 0`)
}
