//go:build unit
// +build unit

package tqqc

import (
	"testing"

	"github.com/oqtopus-team/niso-engine/core"
	"github.com/stretchr/testify/assert"
)

func TestStatisticalTestOutcomes(t *testing.T) {
	st := DefaultStatisticalTest()
	tests := []struct {
		name        string
		plus, minus float64
		shots       int
		tie         bool
		significant bool
		dir         Direction
	}{
		{name: "identical parities tie", plus: 0.5, minus: 0.5, shots: 8192, tie: true},
		{name: "clear plus", plus: 0.8, minus: 0.2, shots: 8192, significant: true, dir: DirectionPlus},
		{name: "clear minus", plus: 0.1, minus: 0.6, shots: 8192, significant: true, dir: DirectionMinus},
		{name: "within noise", plus: 0.51, minus: 0.50, shots: 1024},
		{name: "zero standard error", plus: 1, minus: -1, shots: 1024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := st.Test(tt.plus, tt.minus, tt.shots, 0.02)
			assert.Equal(t, tt.tie, r.Tie)
			assert.Equal(t, tt.significant, r.Significant)
			assert.Equal(t, tt.dir, r.Direction)
		})
	}
}

func TestFixedCritical(t *testing.T) {
	tests := []struct {
		level float64
		want  float64
	}{
		{level: 0.90, want: 1.645},
		{level: 0.95, want: 1.96},
		{level: 0.975, want: 1.96},
		{level: 0.99, want: 2.575},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FixedTest(tt.level).ZCritical(8192, 0.05), "level %v", tt.level)
	}
}

func TestAdaptiveCritical(t *testing.T) {
	st := AdaptiveTest(0.95)
	tests := []struct {
		name  string
		shots int
		noise float64
		want  float64
	}{
		{name: "baseline", shots: 8192, noise: 0.02, want: 1.96},
		{name: "high noise", shots: 8192, noise: 0.03, want: 2.24},
		{name: "low shots", shots: 2048, noise: 0.02, want: 2.24},
		{name: "high noise and low shots clamps", shots: 2048, noise: 0.03, want: 2.575},
		{name: "many shots clamps low", shots: 16384, noise: 0.01, want: 1.645},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, st.ZCritical(tt.shots, tt.noise))
		})
	}
}

func TestComputeZ(t *testing.T) {
	st := DefaultStatisticalTest()
	assert.Equal(t, 0.0, st.ComputeZ(0.5, 0.5, 1000, 1000))
	assert.Greater(t, st.ComputeZ(0.6, 0.4, 1000, 1000), 0.0)
	assert.Equal(t, 0.0, st.ComputeZ(0.6, 0.4, 0, 1000))
	assert.Equal(t, 0.0, st.ComputeZ(1, 1, 1000, 1000))

	assert.Equal(t, 0.0, st.ComputeZFromParity(0.3, 0.1, 0))
	assert.Equal(t, 0.0, st.ComputeZFromParity(1, 1, 100))
	assert.InDelta(t, 0.2/0.02, st.ComputeZFromParity(0.6, 0.4, 3700), 1e-9)
	assert.True(t, st.IsSignificant(3, 8192, 0.02))
	assert.False(t, st.IsSignificant(1.5, 8192, 0.02))

	r := st.TestProportions(0.9, 0.1, 8192, 0.02)
	assert.True(t, r.Significant)
	assert.Equal(t, DirectionPlus, r.Direction)
}

func TestDirectionText(t *testing.T) {
	for _, d := range []Direction{DirectionNone, DirectionPlus, DirectionMinus, DirectionStay} {
		b, err := d.MarshalText()
		assert.NoError(t, err)
		var back Direction
		assert.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, d, back)
	}
}

func TestConvergence(t *testing.T) {
	c := NewConvergence(7, 0.030)
	assert.InDelta(t, 0.020, c.ThresholdAbs, 1e-12)
	assert.InDelta(t, 0.030, c.ThresholdCum, 1e-12)
	assert.False(t, c.Check())

	five := DefaultConvergence(5)
	five.Push(0.1)
	five.Push(0.05)
	five.Push(0.02)
	assert.False(t, five.WindowCondition())
	five.Push(0.01)
	five.Push(0.005)
	five.Push(0.002)
	assert.True(t, five.WindowCondition())
	assert.Equal(t, 3, five.HistoryLen())
	assert.False(t, five.CumulativeCondition())
	assert.False(t, five.Check())

	five.Reset()
	assert.Equal(t, 0.0, five.Cumulative())
	assert.Equal(t, 0, five.HistoryLen())
	for i := 0; i < 3; i++ {
		five.Push(0.001)
	}
	assert.True(t, five.Check())

	assert.Equal(t, 0.030, ConvergenceFromNoise(5, 0.02).Threshold())
	assert.Equal(t, core.HighNoiseThreshold5Q, ConvergenceFromNoise(5, 0.03).Threshold())
	assert.Less(t, DefaultConvergence(7).Threshold(), DefaultConvergence(5).Threshold())
}

func TestDynamicInnerCount(t *testing.T) {
	tests := []struct {
		name      string
		innerMax  int
		improve   float64
		threshold float64
		want      int
	}{
		{name: "no improvement", innerMax: 10, improve: 0, threshold: 0.02, want: 1},
		{name: "below threshold", innerMax: 10, improve: 0.01, threshold: 0.02, want: 1},
		{name: "one threshold", innerMax: 10, improve: 0.02, threshold: 0.02, want: 3},
		{name: "two thresholds", innerMax: 10, improve: 0.04, threshold: 0.02, want: 5},
		{name: "negative improvement", innerMax: 10, improve: -0.04, threshold: 0.02, want: 5},
		{name: "safety cap", innerMax: 10, improve: 1.0, threshold: 0.02, want: 5},
		{name: "inner max below cap", innerMax: 3, improve: 0.04, threshold: 0.02, want: 3},
		{name: "zero threshold", innerMax: 10, improve: 0, threshold: 0, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDynamicInner(tt.innerMax, 0.9)
			assert.Equal(t, tt.want, d.ComputeCount(tt.improve, tt.threshold))
		})
	}

	d := DefaultDynamicInner()
	assert.InDelta(t, 0.12, d.ComputeStep(0, 0.12), 1e-12)
	assert.InDelta(t, 0.108, d.ComputeStep(1, 0.12), 1e-12)
	assert.InDelta(t, 0.0972, d.ComputeStep(2, 0.12), 1e-12)
}

func TestParityHelpers(t *testing.T) {
	counts := core.Counts{
		"000": 400, "001": 100, "010": 100, "011": 100,
		"100": 100, "101": 50, "110": 100, "111": 50,
	}
	assert.InDelta(t, 0.65, PEven(counts), 1e-12)
	assert.InDelta(t, 0.35, POdd(counts), 1e-12)
	assert.InDelta(t, 0.30, Expectation(counts), 1e-12)
	assert.InDelta(t, PEven(counts)-POdd(counts), Expectation(counts), 1e-9)

	assert.Equal(t, 0.5, PEven(core.Counts{}))
	assert.Equal(t, 0.0, Expectation(core.Counts{}))
	assert.Equal(t, 1, ParitySign("0110"))
	assert.Equal(t, -1, ParitySign("0111"))
	assert.True(t, IsOdd("1"))

	c, err := BuildCircuit(Default5Q(), 0.2, 0.1)
	assert.NoError(t, err)
	assert.Equal(t, 5, c.NumQubits())
	assert.Equal(t, 4, c.Count2Q())
}
