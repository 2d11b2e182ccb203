// Package noise describes hardware noise: coherence times, gate and readout
// error rates, gate durations and per-qubit noise vectors.
package noise

import (
	"fmt"
	"math"

	"github.com/oqtopus-team/niso-engine/core"
)

// Model is a uniform noise description shared by every qubit. T1 and T2 are
// in microseconds; an infinite value means no decoherence.
type Model struct {
	T1Us        float64  `json:"t1_us" toml:"t1_us"`
	T2Us        float64  `json:"t2_us" toml:"t2_us"`
	GateError1Q float64  `json:"gate_error_1q" toml:"gate_error_1q"`
	GateError2Q float64  `json:"gate_error_2q" toml:"gate_error_2q"`
	Readout     float64  `json:"readout_error" toml:"readout_error"`
	Crosstalk   *float64 `json:"crosstalk,omitempty" toml:"crosstalk"`
}

func NewModel(t1Us, t2Us, err1q, err2q, readout float64) (*Model, error) {
	m := &Model{T1Us: t1Us, T2Us: t2Us, GateError1Q: err1q, GateError2Q: err2q, Readout: readout}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func Ideal() *Model {
	return &Model{T1Us: math.Inf(1), T2Us: math.Inf(1)}
}

func IBMTypical() *Model {
	ct := 0.001
	return &Model{
		T1Us:        core.DefaultT1Us,
		T2Us:        core.DefaultT2Us,
		GateError1Q: 0.0003,
		GateError2Q: 0.01,
		Readout:     0.01,
		Crosstalk:   &ct,
	}
}

func HighQuality() *Model {
	ct := 0.0005
	return &Model{
		T1Us:        200,
		T2Us:        150,
		GateError1Q: 0.0001,
		GateError2Q: 0.005,
		Readout:     0.005,
		Crosstalk:   &ct,
	}
}

// FromDepol maps a single depolarizing rate p onto the model used by TQQC
// runs: 1Q error p, 2Q error 10p, readout p/4.
func FromDepol(p float64) (*Model, error) {
	if !(p >= 0 && p <= core.AbsoluteMaxNoise) {
		return nil, core.NewInvalidNoiseLevel(p)
	}
	return depolModel(p), nil
}

// NoisyTest is FromDepol without the range check.
func NoisyTest(p float64) *Model {
	return depolModel(p)
}

func depolModel(p float64) *Model {
	return &Model{
		T1Us:        core.DefaultT1Us,
		T2Us:        core.DefaultT2Us,
		GateError1Q: p,
		GateError2Q: p * 10,
		Readout:     p / 4,
	}
}

func (m *Model) WithCrosstalk(ct float64) *Model {
	c := *m
	c.Crosstalk = &ct
	return &c
}

func (m *Model) WithT1(t1Us float64) *Model {
	c := *m
	c.T1Us = t1Us
	return &c
}

func (m *Model) WithT2(t2Us float64) *Model {
	c := *m
	c.T2Us = t2Us
	return &c
}

func (m *Model) WithGateError1Q(e float64) *Model {
	c := *m
	c.GateError1Q = e
	return &c
}

func (m *Model) WithGateError2Q(e float64) *Model {
	c := *m
	c.GateError2Q = e
	return &c
}

func (m *Model) WithReadoutError(e float64) *Model {
	c := *m
	c.Readout = e
	return &c
}

func (m *Model) T1Seconds() float64 {
	return core.UsToS(m.T1Us)
}

func (m *Model) T2Seconds() float64 {
	return core.UsToS(m.T2Us)
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

// Validate enforces positive coherence times, T2 <= 2*T1 and error rates in [0, 1].
func (m *Model) Validate() error {
	if m.T1Us <= 0 {
		return core.NewCalibrationError(fmt.Sprintf("T1 must be positive: %v", m.T1Us))
	}
	if m.T2Us <= 0 {
		return core.NewCalibrationError(fmt.Sprintf("T2 must be positive: %v", m.T2Us))
	}
	if !math.IsInf(m.T1Us, 0) && !math.IsInf(m.T2Us, 0) && m.T2Us > 2*m.T1Us {
		return core.NewInvalidT2(m.T2Us, m.T1Us)
	}
	if !inUnit(m.GateError1Q) {
		return core.NewCalibrationError(fmt.Sprintf("1Q gate error must be in [0,1]: %v", m.GateError1Q))
	}
	if !inUnit(m.GateError2Q) {
		return core.NewCalibrationError(fmt.Sprintf("2Q gate error must be in [0,1]: %v", m.GateError2Q))
	}
	if !inUnit(m.Readout) {
		return core.NewCalibrationError(fmt.Sprintf("Readout error must be in [0,1]: %v", m.Readout))
	}
	if m.Crosstalk != nil && !inUnit(*m.Crosstalk) {
		return core.NewCalibrationError(fmt.Sprintf("Crosstalk must be in [0,1]: %v", *m.Crosstalk))
	}
	return nil
}

// EffectiveDepol is the single-qubit error rate, the noise level TQQC reasons about.
func (m *Model) EffectiveDepol() float64 {
	return m.GateError1Q
}

// IsTqqcValid reports whether the noise is below the depth-corrected
// convergence threshold for the qubit count.
func (m *Model) IsTqqcValid(numQubits int) bool {
	return m.EffectiveDepol() <= core.ThresholdForQubits(numQubits)
}

func (m *Model) IsRecommended() bool {
	return m.EffectiveDepol() <= core.RecommendedNoise
}

func (m *Model) Fidelity1Q() float64 {
	return 1 - m.GateError1Q
}

func (m *Model) Fidelity2Q() float64 {
	return 1 - m.GateError2Q
}

func (m *Model) FidelityReadout() float64 {
	return 1 - m.Readout
}

func decay(timeUs, tau float64) float64 {
	if math.IsInf(tau, 1) {
		return 0
	}
	return 1 - math.Exp(-timeUs/tau)
}

func (m *Model) T1DecayProb(timeUs float64) float64 {
	return decay(timeUs, m.T1Us)
}

func (m *Model) T2DephasingProb(timeUs float64) float64 {
	return decay(timeUs, m.T2Us)
}

// EstimateCircuitFidelity multiplies gate, readout and T2 decoherence fidelities.
func (m *Model) EstimateCircuitFidelity(num1Q, num2Q, numMeas int, circuitTimeUs float64) float64 {
	gate := math.Pow(m.Fidelity1Q(), float64(num1Q)) * math.Pow(m.Fidelity2Q(), float64(num2Q))
	readout := math.Pow(m.FidelityReadout(), float64(numMeas))
	coherence := 1.0
	if !math.IsInf(m.T2Us, 1) {
		coherence = math.Exp(-circuitTimeUs / m.T2Us)
	}
	return gate * readout * coherence
}

func (m *Model) String() string {
	return fmt.Sprintf("NoiseModel(T1=%.0fμs, T2=%.0fμs, 1Q=%.4f, 2Q=%.4f, RO=%.4f)",
		m.T1Us, m.T2Us, m.GateError1Q, m.GateError2Q, m.Readout)
}
