package optimizer

import (
	"github.com/oqtopus-team/niso-engine/circuit"
)

const SettingName = "optimizer"

// Setting is the [com.optimizer] table. Zero values keep the preset chosen
// by Mode and Hardware.
type Setting struct {
	Mode               Mode                   `toml:"mode"`
	Hardware           Hardware               `toml:"hardware"`
	Qubits             int                    `toml:"qubits"`
	Points             int                    `toml:"points"`
	Shots              int                    `toml:"shots"`
	Noise              *float64               `toml:"noise"`
	InnerMax           int                    `toml:"inner_max"`
	StatisticalTest    *bool                  `toml:"use_statistical_test"`
	DynamicInner       *bool                  `toml:"dynamic_inner"`
	Entangler          *circuit.EntanglerType `toml:"entangler"`
	Seed               *int64                 `toml:"seed"`
	Workers            int                    `toml:"workers"`
	CalibrationBackend string                 `toml:"calibration_backend"`
	SweepNoises        []float64              `toml:"sweep_noises"`
	SweepParallel      int                    `toml:"sweep_parallel"`
}

func NewSetting() *Setting {
	return &Setting{
		Mode:          ModeFull,
		Hardware:      HardwareIBM,
		Qubits:        7,
		SweepNoises:   DefaultSweepNoises(),
		SweepParallel: 1,
	}
}

// Config resolves the setting into a run configuration.
func (s *Setting) Config() Config {
	qubits := s.Qubits
	if qubits == 0 {
		qubits = 7
	}
	var c Config
	switch s.Mode {
	case ModeQuick:
		c = Quick(qubits)
	case ModeBenchmark:
		c = Benchmark(qubits)
	default:
		c = DefaultConfig().WithQubits(qubits)
		c.Mode = s.Mode
	}
	c = c.WithHardware(s.Hardware)
	if s.Points > 0 {
		c.Points = s.Points
	}
	if s.Shots > 0 {
		c.Shots = s.Shots
	}
	if s.Noise != nil {
		c = c.WithDepolNoise(*s.Noise)
	}
	if s.InnerMax > 0 {
		c.InnerMax = s.InnerMax
	}
	if s.StatisticalTest != nil {
		c.UseStatisticalTest = *s.StatisticalTest
	}
	if s.DynamicInner != nil {
		c.DynamicInner = *s.DynamicInner
	}
	if s.Entangler != nil {
		c.Entangler = *s.Entangler
	}
	if s.Seed != nil {
		c = c.WithSeed(*s.Seed)
	}
	if s.Workers > 0 {
		c.Workers = s.Workers
	}
	return c
}
