// Package optimizer ties the TQQC engine to a simulated device: it builds
// the backend from a hardware preset or calibration snapshot, runs the
// search and reports schedule, calibration and execution metrics with it.
package optimizer

import (
	"fmt"
	"math"
	"strings"

	"github.com/oqtopus-team/niso-engine/circuit"
	"github.com/oqtopus-team/niso-engine/core"
	"github.com/oqtopus-team/niso-engine/noise"
	"github.com/oqtopus-team/niso-engine/tqqc"
	"go.uber.org/zap"
)

type Mode int

const (
	ModeFull Mode = iota
	ModeQuick
	ModeBenchmark
	ModeCustom
)

var modeNames = map[Mode]string{
	ModeFull:      "full",
	ModeQuick:     "quick",
	ModeBenchmark: "benchmark",
	ModeCustom:    "custom",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return ModeFull, core.NewTqqcConfigError(fmt.Sprintf("unknown optimization mode: %s", s))
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Hardware names a device family whose coherence times, error rates and
// gate durations seed the simulated backend.
type Hardware int

const (
	HardwareIBM Hardware = iota
	HardwareTrappedIon
	HardwareNeutralAtom
	HardwareIdeal
	HardwareCustom
)

var hardwareNames = map[Hardware]string{
	HardwareIBM:         "ibm",
	HardwareTrappedIon:  "trapped_ion",
	HardwareNeutralAtom: "neutral_atom",
	HardwareIdeal:       "ideal",
	HardwareCustom:      "custom",
}

func (h Hardware) String() string {
	if s, ok := hardwareNames[h]; ok {
		return s
	}
	return "unknown"
}

func ParseHardware(s string) (Hardware, error) {
	switch strings.ToLower(s) {
	case "ibm_superconducting", "superconducting":
		return HardwareIBM, nil
	case "ion":
		return HardwareTrappedIon, nil
	case "neutral":
		return HardwareNeutralAtom, nil
	}
	for h, name := range hardwareNames {
		if strings.EqualFold(s, name) {
			return h, nil
		}
	}
	return HardwareIBM, core.NewTqqcConfigError(fmt.Sprintf("unknown hardware target: %s", s))
}

func (h Hardware) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hardware) UnmarshalText(text []byte) error {
	v, err := ParseHardware(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// Config extends the TQQC parameters with the device description used to
// build the simulated backend. Noise drives the statistical test and the
// convergence thresholds; the error rates below drive the simulation.
type Config struct {
	Qubits             int                   `json:"qubits" toml:"qubits"`
	Mode               Mode                  `json:"mode" toml:"mode"`
	Hardware           Hardware              `json:"hardware" toml:"hardware"`
	Points             int                   `json:"points" toml:"points"`
	Shots              int                   `json:"shots" toml:"shots"`
	Noise              float64               `json:"noise" toml:"noise"`
	StepAmp            float64               `json:"step_amp" toml:"step_amp"`
	InnerMax           int                   `json:"inner_max" toml:"inner_max"`
	DynamicInner       bool                  `json:"dynamic_inner" toml:"dynamic_inner"`
	UseStatisticalTest bool                  `json:"use_statistical_test" toml:"use_statistical_test"`
	SigMode            tqqc.SigMode          `json:"sig_mode" toml:"sig_mode"`
	SigLevel           float64               `json:"sig_level" toml:"sig_level"`
	DeltaMode          tqqc.DeltaMode        `json:"delta_mode" toml:"delta_mode"`
	Basis              circuit.BasisString   `json:"basis" toml:"basis"`
	Entangler          circuit.EntanglerType `json:"entangler" toml:"entangler"`
	T1Us               float64               `json:"t1_us" toml:"t1_us"`
	T2Us               float64               `json:"t2_us" toml:"t2_us"`
	GateError1Q        float64               `json:"gate_error_1q" toml:"gate_error_1q"`
	GateError2Q        float64               `json:"gate_error_2q" toml:"gate_error_2q"`
	ReadoutError       float64               `json:"readout_error" toml:"readout_error"`
	GateTime1QNs       float64               `json:"gate_time_1q_ns" toml:"gate_time_1q_ns"`
	GateTime2QNs       float64               `json:"gate_time_2q_ns" toml:"gate_time_2q_ns"`
	Seed               *int64                `json:"seed,omitempty" toml:"seed"`
	Workers            int                   `json:"workers" toml:"workers"`
	CacheResults       bool                  `json:"cache_results" toml:"cache_results"`
}

// DefaultConfig is a 7-qubit run on IBM-like hardware.
func DefaultConfig() Config {
	return Config{
		Qubits:       7,
		Mode:         ModeFull,
		Hardware:     HardwareIBM,
		Points:       core.DefaultPoints,
		Shots:        core.DefaultShots,
		Noise:        core.DefaultNoise,
		StepAmp:      core.DefaultStepAmp,
		InnerMax:     core.DefaultInnerMax,
		DynamicInner: true,
		SigMode:      tqqc.SigModeFixed,
		SigLevel:     core.DefaultConfidenceLevel,
		DeltaMode:    tqqc.DeltaModeTrack,
		Basis:        circuit.AllX(7),
		Entangler:    circuit.EntanglerCX,
		T1Us:         core.DefaultT1Us,
		T2Us:         core.DefaultT2Us,
		GateError1Q:  0.0003,
		GateError2Q:  0.01,
		ReadoutError: 0.01,
		GateTime1QNs: core.GateTime1QNs,
		GateTime2QNs: core.GateTime2QNs,
		Workers:      1,
		CacheResults: true,
	}
}

func Default5Q() Config {
	return DefaultConfig().WithQubits(5)
}

// Quick trades accuracy for speed: fewer points and shots, shorter inner loops.
func Quick(qubits int) Config {
	c := DefaultConfig().WithQubits(qubits)
	c.Mode = ModeQuick
	c.Points = 10
	c.Shots = 4096
	c.InnerMax = 5
	return c
}

// Benchmark fixes the seed so runs are comparable.
func Benchmark(qubits int) Config {
	c := DefaultConfig().WithQubits(qubits).WithSeed(42)
	c.Mode = ModeBenchmark
	return c
}

func Ideal(qubits int) Config {
	return DefaultConfig().WithQubits(qubits).WithHardware(HardwareIdeal)
}

func (c Config) WithQubits(n int) Config {
	c.Qubits = n
	c.Basis = circuit.AllX(n)
	return c
}

// WithHardware replaces the device parameters with the preset of h. Custom
// keeps the current values.
func (c Config) WithHardware(h Hardware) Config {
	c.Hardware = h
	switch h {
	case HardwareIBM:
		c.T1Us, c.T2Us = core.DefaultT1Us, core.DefaultT2Us
		c.GateTime1QNs, c.GateTime2QNs = core.GateTime1QNs, core.GateTime2QNs
	case HardwareTrappedIon:
		c.T1Us, c.T2Us = 1_000, 500
		c.GateTime1QNs, c.GateTime2QNs = 10_000, 200_000
	case HardwareNeutralAtom:
		c.T1Us, c.T2Us = 500, 200
		c.GateTime1QNs, c.GateTime2QNs = 1_000, 1_000
	case HardwareIdeal:
		c.T1Us, c.T2Us = math.Inf(1), math.Inf(1)
		c.GateError1Q, c.GateError2Q, c.ReadoutError = 0, 0, 0
		c.Noise = 0
	}
	return c
}

func (c Config) WithNoise(p float64) Config {
	c.Noise = p
	return c
}

// WithDepolNoise sets Noise and derives the simulated error rates from it:
// 1Q error p, 2Q error 10p, readout p/4.
func (c Config) WithDepolNoise(p float64) Config {
	c.Noise = p
	c.GateError1Q = p
	c.GateError2Q = 10 * p
	c.ReadoutError = p / 4
	if c.Hardware == HardwareIdeal {
		c.Hardware = HardwareCustom
	}
	return c
}

func (c Config) WithShots(shots int) Config {
	c.Shots = shots
	return c
}

func (c Config) WithPoints(points int) Config {
	c.Points = points
	return c
}

func (c Config) WithSeed(seed int64) Config {
	c.Seed = &seed
	return c
}

func (c Config) WithWorkers(n int) Config {
	c.Workers = n
	return c
}

func (c Config) WithStatisticalTest(enabled bool) Config {
	c.UseStatisticalTest = enabled
	return c
}

func (c Config) WithDynamicInner(enabled bool) Config {
	c.DynamicInner = enabled
	return c
}

func (c Config) WithT1T2(t1Us, t2Us float64) Config {
	c.T1Us, c.T2Us = t1Us, t2Us
	return c
}

func (c Config) WithGateErrors(err1q, err2q, readout float64) Config {
	c.GateError1Q, c.GateError2Q, c.ReadoutError = err1q, err2q, readout
	return c
}

func (c Config) TqqcConfig() tqqc.Config {
	return tqqc.Config{
		Qubits:             c.Qubits,
		Points:             c.Points,
		Shots:              c.Shots,
		Noise:              c.Noise,
		StepAmp:            c.StepAmp,
		InnerMax:           c.InnerMax,
		DynamicInner:       c.DynamicInner,
		UseStatisticalTest: c.UseStatisticalTest,
		SigMode:            c.SigMode,
		SigLevel:           c.SigLevel,
		DeltaMode:          c.DeltaMode,
		Basis:              c.Basis,
		Entangler:          c.Entangler,
		Seed:               c.Seed,
	}
}

// NoiseModel builds the simulation model. Invalid parameters fall back to
// the IBM-typical model.
func (c Config) NoiseModel() *noise.Model {
	m, err := noise.NewModel(c.T1Us, c.T2Us, c.GateError1Q, c.GateError2Q, c.ReadoutError)
	if err != nil {
		zap.L().Warn(fmt.Sprintf("invalid noise parameters, falling back to ibm typical/reason:%s", err))
		return noise.IBMTypical()
	}
	return m
}

func (c Config) GateTimes() *noise.GateTimes {
	return noise.NewGateTimes(c.GateTime1QNs, c.GateTime2QNs, core.MeasurementNs)
}

func (c Config) Validate() error {
	if err := c.TqqcConfig().Validate(); err != nil {
		return err
	}
	if !(c.T1Us > 0) || !(c.T2Us > 0) {
		return core.NewTqqcConfigError(fmt.Sprintf("coherence times must be positive: T1=%v, T2=%v", c.T1Us, c.T2Us))
	}
	if c.T2Us > 2*c.T1Us {
		return core.NewInvalidT2(c.T2Us, c.T1Us)
	}
	for _, p := range []float64{c.GateError1Q, c.GateError2Q, c.ReadoutError} {
		if !(p >= 0 && p <= 1) {
			return core.NewInvalidProbability(p)
		}
	}
	if c.GateTime1QNs < 0 || c.GateTime2QNs < 0 {
		return core.NewTqqcConfigError("gate times must not be negative")
	}
	return nil
}

// IsRecommended reports whether the run sits in the regime where TQQC is
// known to pay off.
func (c Config) IsRecommended() bool {
	return c.Noise <= core.RecommendedNoise && c.Shots >= core.LowShotsThreshold
}

func (c Config) String() string {
	return fmt.Sprintf("optimizer.Config(%s/%s, %dq, noise=%.3f, shots=%d, points=%d)",
		c.Mode, c.Hardware, c.Qubits, c.Noise, c.Shots, c.Points)
}
