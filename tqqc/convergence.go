package tqqc

import (
	"math"

	"github.com/oqtopus-team/niso-engine/core"
)

// Convergence tracks the last Window improvements and their running sum.
// It reports convergence when every windowed improvement is below the
// absolute threshold and the cumulative sum is below the cumulative one.
type Convergence struct {
	Window       int     `json:"window"`
	ThresholdAbs float64 `json:"threshold_abs"`
	ThresholdCum float64 `json:"threshold_cum"`

	history    []float64
	cumulative float64
}

// NewConvergence depth-corrects baseThreshold, which is given for the
// 5-qubit reference chain.
func NewConvergence(qubits int, baseThreshold float64) *Convergence {
	abs := depthCorrection(qubits, core.ReferenceQubits, baseThreshold)
	return &Convergence{
		Window:       core.ConvergenceWindow,
		ThresholdAbs: abs,
		ThresholdCum: abs * core.CumulativeThresholdMult,
		history:      make([]float64, 0, core.ConvergenceWindow),
	}
}

func DefaultConvergence(qubits int) *Convergence {
	return NewConvergence(qubits, core.Threshold5Q)
}

// ConvergenceFromNoise uses the looser high-noise base above the
// recommended noise level.
func ConvergenceFromNoise(qubits int, noise float64) *Convergence {
	base := core.Threshold5Q
	if noise > core.RecommendedNoise {
		base = core.HighNoiseThreshold5Q
	}
	return NewConvergence(qubits, base)
}

func depthCorrection(qubits, refQubits int, refThreshold float64) float64 {
	dn := float64(core.CircuitDepth(qubits))
	dref := float64(core.CircuitDepth(refQubits))
	if dn > 0 && dref > 0 {
		return refThreshold * (dref / dn)
	}
	return refThreshold
}

func (c *Convergence) Push(improvement float64) {
	c.history = append(c.history, improvement)
	c.cumulative += improvement
	if over := len(c.history) - c.Window; over > 0 {
		c.history = c.history[over:]
	}
}

func (c *Convergence) Check() bool {
	return c.WindowCondition() && c.CumulativeCondition()
}

func (c *Convergence) WindowCondition() bool {
	if len(c.history) < c.Window {
		return false
	}
	for _, imp := range c.history {
		if math.Abs(imp) >= c.ThresholdAbs {
			return false
		}
	}
	return true
}

func (c *Convergence) CumulativeCondition() bool {
	return math.Abs(c.cumulative) < c.ThresholdCum
}

func (c *Convergence) Reset() {
	c.history = c.history[:0]
	c.cumulative = 0
}

func (c *Convergence) Cumulative() float64 {
	return c.cumulative
}

func (c *Convergence) HistoryLen() int {
	return len(c.history)
}

func (c *Convergence) Threshold() float64 {
	return c.ThresholdAbs
}

// DynamicInner derives the inner repeat count of an outer iteration from the
// previous improvement, and decays the step size across inner steps.
type DynamicInner struct {
	InnerMax  int     `json:"inner_max"`
	DecayRate float64 `json:"decay_rate"`
	safetyCap int
}

func NewDynamicInner(innerMax int, decayRate float64) DynamicInner {
	return DynamicInner{InnerMax: innerMax, DecayRate: decayRate, safetyCap: core.InnerSafetyMultiplier}
}

func DefaultDynamicInner() DynamicInner {
	return NewDynamicInner(core.DefaultInnerMax, core.DecayRate)
}

// ComputeCount is 1 + 2*floor(|lastImprove|/threshold), capped at the
// safety cap and at InnerMax, and never below 1.
func (d DynamicInner) ComputeCount(lastImprove, threshold float64) int {
	tau := math.Max(threshold, 1e-9)
	ratio := math.Floor(math.Abs(lastImprove) / tau)
	count := d.safetyCap
	if ratio < float64(d.safetyCap) {
		count = 1 + 2*int(ratio)
	}
	if count > d.safetyCap {
		count = d.safetyCap
	}
	if count > d.InnerMax {
		count = d.InnerMax
	}
	if count < 1 {
		count = 1
	}
	return count
}

// ComputeStep is baseStep * DecayRate^j.
func (d DynamicInner) ComputeStep(j int, baseStep float64) float64 {
	return baseStep * math.Pow(d.DecayRate, float64(j))
}
