// Package tqqc implements the TQQC phase-correction search: an outer loop
// of adaptive inner steps that probe delta±step, choose a direction, and stop
// early once improvements fall below a qubit-count corrected threshold.
package tqqc

import (
	"fmt"
	"strings"

	"github.com/oqtopus-team/niso-engine/circuit"
	"github.com/oqtopus-team/niso-engine/core"
)

// SigMode selects how the critical z value is derived.
type SigMode int

const (
	SigModeFixed SigMode = iota
	SigModeAdaptive
)

func (m SigMode) String() string {
	if m == SigModeAdaptive {
		return "adaptive"
	}
	return "fixed"
}

func ParseSigMode(s string) (SigMode, error) {
	switch strings.ToLower(s) {
	case "", "fixed":
		return SigModeFixed, nil
	case "adaptive":
		return SigModeAdaptive, nil
	default:
		return SigModeFixed, core.NewTqqcConfigError(fmt.Sprintf("unknown significance mode: %s", s))
	}
}

func (m SigMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *SigMode) UnmarshalText(text []byte) error {
	v, err := ParseSigMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// DeltaMode decides what the running delta becomes after an outer iteration:
// the best delta found (track) or its offset from the previous delta (reset).
type DeltaMode int

const (
	DeltaModeTrack DeltaMode = iota
	DeltaModeReset
)

func (m DeltaMode) String() string {
	if m == DeltaModeReset {
		return "reset"
	}
	return "track"
}

func ParseDeltaMode(s string) (DeltaMode, error) {
	switch strings.ToLower(s) {
	case "", "track":
		return DeltaModeTrack, nil
	case "reset":
		return DeltaModeReset, nil
	default:
		return DeltaModeTrack, core.NewTqqcConfigError(fmt.Sprintf("unknown delta mode: %s", s))
	}
}

func (m DeltaMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *DeltaMode) UnmarshalText(text []byte) error {
	v, err := ParseDeltaMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Config carries every parameter of one optimisation run. With* methods
// return modified copies.
type Config struct {
	Qubits             int                   `json:"qubits" toml:"qubits"`
	Points             int                   `json:"points" toml:"points"`
	Shots              int                   `json:"shots" toml:"shots"`
	Noise              float64               `json:"noise" toml:"noise"`
	StepAmp            float64               `json:"step_amp" toml:"step_amp"`
	InnerMax           int                   `json:"inner_max" toml:"inner_max"`
	DynamicInner       bool                  `json:"dynamic_inner" toml:"dynamic_inner"`
	UseStatisticalTest bool                  `json:"use_statistical_test" toml:"use_statistical_test"`
	SigMode            SigMode               `json:"sig_mode" toml:"sig_mode"`
	SigLevel           float64               `json:"sig_level" toml:"sig_level"`
	DeltaMode          DeltaMode             `json:"delta_mode" toml:"delta_mode"`
	Basis              circuit.BasisString   `json:"basis" toml:"basis"`
	Entangler          circuit.EntanglerType `json:"entangler" toml:"entangler"`
	ThetaInit          float64               `json:"theta_init" toml:"theta_init"`
	DeltaInit          float64               `json:"delta_init" toml:"delta_init"`
	Seed               *int64                `json:"seed,omitempty" toml:"seed"`
}

// DefaultConfig is the 7-qubit reference setup.
func DefaultConfig() Config {
	return Config{
		Qubits:       7,
		Points:       core.DefaultPoints,
		Shots:        core.DefaultShots,
		Noise:        core.DefaultNoise,
		StepAmp:      core.DefaultStepAmp,
		InnerMax:     core.DefaultInnerMax,
		DynamicInner: true,
		SigMode:      SigModeFixed,
		SigLevel:     core.DefaultConfidenceLevel,
		DeltaMode:    DeltaModeTrack,
		Basis:        circuit.AllX(7),
		Entangler:    circuit.EntanglerCX,
	}
}

func Default5Q() Config {
	return ForQubits(5)
}

func ForQubits(n int) Config {
	return DefaultConfig().WithQubits(n)
}

// WithQubits also resets the basis to all-X of the new length.
func (c Config) WithQubits(n int) Config {
	c.Qubits = n
	c.Basis = circuit.AllX(n)
	return c
}

func (c Config) WithNoise(noise float64) Config {
	c.Noise = noise
	return c
}

func (c Config) WithPoints(points int) Config {
	c.Points = points
	return c
}

func (c Config) WithShots(shots int) Config {
	c.Shots = shots
	return c
}

func (c Config) WithStepAmp(amp float64) Config {
	c.StepAmp = amp
	return c
}

func (c Config) WithInnerMax(n int) Config {
	c.InnerMax = n
	return c
}

func (c Config) WithDynamicInner(enabled bool) Config {
	c.DynamicInner = enabled
	return c
}

func (c Config) WithStatisticalTest(enabled bool) Config {
	c.UseStatisticalTest = enabled
	return c
}

func (c Config) WithSigMode(m SigMode) Config {
	c.SigMode = m
	return c
}

func (c Config) WithSigLevel(level float64) Config {
	c.SigLevel = level
	return c
}

func (c Config) WithDeltaMode(m DeltaMode) Config {
	c.DeltaMode = m
	return c
}

func (c Config) WithBasis(bs circuit.BasisString) Config {
	c.Basis = append(circuit.BasisString{}, bs...)
	return c
}

func (c Config) WithEntangler(e circuit.EntanglerType) Config {
	c.Entangler = e
	return c
}

func (c Config) WithTheta(theta float64) Config {
	c.ThetaInit = theta
	return c
}

func (c Config) WithDelta(delta float64) Config {
	c.DeltaInit = delta
	return c
}

func (c Config) WithSeed(seed int64) Config {
	c.Seed = &seed
	return c
}

// Threshold is the convergence threshold corrected for the qubit count.
func (c Config) Threshold() float64 {
	return core.ThresholdForQubits(c.Qubits)
}

func (c Config) DepthRatio() float64 {
	return core.DepthRatio(c.Qubits)
}

func (c Config) IsRecommendedNoise() bool {
	return c.Noise <= core.RecommendedNoise
}

func (c Config) IsValidNoise() bool {
	return c.Noise <= c.Threshold()
}

func (c Config) ExceedsCritical() bool {
	return c.Noise > c.Threshold()
}

// CheckCritical returns NoiseExceedsCritical when the noise level is above
// the threshold for this qubit count.
func (c Config) CheckCritical() error {
	if c.ExceedsCritical() {
		return core.NewNoiseExceedsCritical(c.Noise, c.Threshold(), c.Qubits)
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.Qubits < 2:
		return core.NewTqqcConfigError("qubits must be >= 2")
	case c.Points <= 0:
		return core.NewTqqcConfigError("points must be > 0")
	case c.Shots <= 0:
		return core.NewTqqcConfigError("shots must be > 0")
	case !(c.Noise >= 0 && c.Noise <= core.AbsoluteMaxNoise):
		return core.NewTqqcConfigError(fmt.Sprintf("noise must be in [0, %g], got %g", core.AbsoluteMaxNoise, c.Noise))
	case !(c.StepAmp > 0):
		return core.NewTqqcConfigError("step_amp must be > 0")
	case c.InnerMax <= 0:
		return core.NewTqqcConfigError("inner_max must be > 0")
	case c.SigLevel < 0.8 || c.SigLevel > 0.99:
		return core.NewTqqcConfigError(fmt.Sprintf("sig_level must be in [0.8, 0.99], got %g", c.SigLevel))
	case len(c.Basis) != c.Qubits:
		return core.NewTqqcConfigError(fmt.Sprintf("basis length %d doesn't match qubits %d", len(c.Basis), c.Qubits))
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("TqqcConfig(%dQ, points=%d, shots=%d, noise=%.3f, dynamic=%t)",
		c.Qubits, c.Points, c.Shots, c.Noise, c.DynamicInner)
}
