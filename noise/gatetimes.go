package noise

import (
	"fmt"
	"math"
	"strings"

	"github.com/oqtopus-team/niso-engine/circuit"
	"github.com/oqtopus-team/niso-engine/core"
)

// GateTimes holds gate durations in nanoseconds. Overrides keyed by the
// lower-case gate name take precedence over the per-arity defaults.
type GateTimes struct {
	SingleQubitNs float64            `json:"single_qubit_ns" toml:"single_qubit_ns"`
	TwoQubitNs    float64            `json:"two_qubit_ns" toml:"two_qubit_ns"`
	MeasurementNs float64            `json:"measurement_ns" toml:"measurement_ns"`
	Overrides     map[string]float64 `json:"overrides,omitempty" toml:"overrides"`
}

func NewGateTimes(singleNs, twoNs, measNs float64) *GateTimes {
	return &GateTimes{SingleQubitNs: singleNs, TwoQubitNs: twoNs, MeasurementNs: measNs, Overrides: map[string]float64{}}
}

// DefaultGateTimes is the superconducting preset with IBM per-gate overrides.
func DefaultGateTimes() *GateTimes {
	return Superconducting().WithIBMDefaults()
}

func Superconducting() *GateTimes {
	return NewGateTimes(core.GateTime1QNs, core.GateTime2QNs, core.MeasurementNs)
}

func TrappedIon() *GateTimes {
	return NewGateTimes(10_000, 200_000, 100_000)
}

func NeutralAtom() *GateTimes {
	return NewGateTimes(1_000, 1_000, 50_000)
}

func Photonic() *GateTimes {
	return NewGateTimes(10, 100, 1_000)
}

// GateTimesPreset resolves a preset by name.
func GateTimesPreset(name string) (*GateTimes, error) {
	switch strings.ToLower(name) {
	case "", "default", "ibm":
		return DefaultGateTimes(), nil
	case "superconducting":
		return Superconducting(), nil
	case "trapped_ion", "ion":
		return TrappedIon(), nil
	case "neutral_atom":
		return NeutralAtom(), nil
	case "photonic":
		return Photonic(), nil
	default:
		return nil, core.NewCalibrationError(fmt.Sprintf("unknown gate time preset: %s", name))
	}
}

func (g *GateTimes) clone() *GateTimes {
	c := *g
	c.Overrides = make(map[string]float64, len(g.Overrides))
	for k, v := range g.Overrides {
		c.Overrides[k] = v
	}
	return &c
}

func (g *GateTimes) WithGateTime(name string, ns float64) *GateTimes {
	c := g.clone()
	c.Overrides[strings.ToLower(name)] = ns
	return c
}

// WithIBMDefaults adds the per-gate durations of IBM Eagle/Heron devices.
// Virtual Z rotations are free.
func (g *GateTimes) WithIBMDefaults() *GateTimes {
	c := g.clone()
	for name, ns := range map[string]float64{
		"rz": 0, "z": 0, "id": 0,
		"h": 35, "x": 35, "y": 35, "sx": 35, "s": 35, "sdg": 35, "t": 35, "tdg": 35, "rx": 35, "ry": 35,
		"cx": 300, "cz": 300, "ecr": 300,
		"swap":    900,
		"reset":   1000,
		"measure": 5000,
	} {
		c.Overrides[name] = ns
	}
	return c
}

func (g *GateTimes) GateDuration(gate circuit.Gate) float64 {
	if ns, ok := g.Overrides[gate.Name()]; ok {
		return ns
	}
	switch {
	case gate.IsMeasurement():
		return g.MeasurementNs
	case gate.IsTwoQubit():
		return g.TwoQubitNs
	case gate.IsThreeQubit():
		return g.TwoQubitNs * 6
	case gate.IsBarrier():
		return 0
	default:
		return g.SingleQubitNs
	}
}

func (g *GateTimes) SequentialDuration(c *circuit.Circuit) float64 {
	total := 0.0
	for _, gate := range c.Gates() {
		total += g.GateDuration(gate)
	}
	return total
}

// ASAPDuration returns the makespan when every gate starts as soon as its
// qubits are free, plus the finishing time of each qubit.
func (g *GateTimes) ASAPDuration(c *circuit.Circuit) (float64, []float64) {
	avail := make([]float64, c.NumQubits())
	for _, gate := range c.Gates() {
		d := g.GateDuration(gate)
		qs := gate.Qubits()
		if len(qs) == 0 {
			end := maxFloat(avail) + d
			for i := range avail {
				avail[i] = end
			}
			continue
		}
		start := 0.0
		for _, q := range qs {
			start = math.Max(start, avail[q])
		}
		for _, q := range qs {
			avail[q] = start + d
		}
	}
	return maxFloat(avail), avail
}

// IdleTimes is, per qubit, its finishing time minus the time it spent in gates.
func (g *GateTimes) IdleTimes(c *circuit.Circuit) []float64 {
	_, finish := g.ASAPDuration(c)
	active := make([]float64, c.NumQubits())
	for _, gate := range c.Gates() {
		d := g.GateDuration(gate)
		for _, q := range gate.Qubits() {
			active[q] += d
		}
	}
	idle := make([]float64, len(active))
	for i := range active {
		idle[i] = math.Max(finish[i]-active[i], 0)
	}
	return idle
}

// ParallelismFactor is sequential over ASAP duration, 1 for zero-length circuits.
func (g *GateTimes) ParallelismFactor(c *circuit.Circuit) float64 {
	parallel, _ := g.ASAPDuration(c)
	if parallel <= 0 {
		return 1
	}
	return g.SequentialDuration(c) / parallel
}

func (g *GateTimes) String() string {
	return fmt.Sprintf("GateTimes(1Q=%.0fns, 2Q=%.0fns, meas=%.0fns)", g.SingleQubitNs, g.TwoQubitNs, g.MeasurementNs)
}

func maxFloat(xs []float64) float64 {
	m := 0.0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}
