package backend

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/oqtopus-team/niso-engine/calibration"
	"github.com/oqtopus-team/niso-engine/circuit"
	"github.com/oqtopus-team/niso-engine/core"
	"github.com/oqtopus-team/niso-engine/noise"
	"go.uber.org/zap"
)

const SimulatorName = "niso_simulator"

// MaxSimulatorQubits bounds the state vector at 2^24 amplitudes.
const MaxSimulatorQubits = 24

const ctxCheckInterval = 1024

// Simulator is a state-vector backend with stochastic Pauli gate noise and
// readout bit flips. With a seed, identical circuits give identical counts.
type Simulator struct {
	name        string
	numQubits   int
	model       *noise.Model
	calibration *calibration.Info
	seed        *int64
	workers     int
}

func NewSimulator(numQubits int, model *noise.Model) *Simulator {
	return &Simulator{
		name:      SimulatorName,
		numQubits: numQubits,
		model:     model,
		workers:   1,
	}
}

func NewIdealSimulator(numQubits int) *Simulator {
	return NewSimulator(numQubits, noise.Ideal())
}

func NewIBMTypicalSimulator(numQubits int) *Simulator {
	return NewSimulator(numQubits, noise.IBMTypical())
}

func NewDepolSimulator(numQubits int, p float64) (*Simulator, error) {
	m, err := noise.FromDepol(p)
	if err != nil {
		return nil, err
	}
	return NewSimulator(numQubits, m), nil
}

func (s *Simulator) clone() *Simulator {
	c := *s
	return &c
}

func (s *Simulator) WithSeed(seed int64) *Simulator {
	c := s.clone()
	c.seed = &seed
	return c
}

func (s *Simulator) WithCalibration(info *calibration.Info) *Simulator {
	c := s.clone()
	c.calibration = info
	return c
}

func (s *Simulator) WithName(name string) *Simulator {
	c := s.clone()
	c.name = name
	return c
}

// WithWorkers sets how many circuits ExecuteBatch runs concurrently.
func (s *Simulator) WithWorkers(n int) *Simulator {
	c := s.clone()
	if n < 1 {
		n = 1
	}
	c.workers = n
	return c
}

func (s *Simulator) Name() string {
	return s.name
}

func (s *Simulator) NumQubits() int {
	return s.numQubits
}

func (s *Simulator) NoiseModel() *noise.Model {
	return s.model
}

func (s *Simulator) Seed() (int64, bool) {
	if s.seed == nil {
		return 0, false
	}
	return *s.seed, true
}

func (s *Simulator) Calibration() *calibration.Info {
	return s.calibration
}

func (s *Simulator) IsSimulator() bool {
	return true
}

func (s *Simulator) MaxShots() int {
	return core.BackendMaxShots
}

func (s *Simulator) Execute(ctx context.Context, c *circuit.Circuit, shots int) (*ExecutionResult, error) {
	return s.execute(ctx, c, shots, s.seed)
}

func (s *Simulator) execute(ctx context.Context, c *circuit.Circuit, shots int, seed *int64) (*ExecutionResult, error) {
	if c.NumQubits() > s.numQubits {
		return nil, core.NewQubitOutOfRange(c.NumQubits(), s.numQubits)
	}
	if err := checkShots(shots, s.MaxShots()); err != nil {
		return nil, err
	}
	start := time.Now()
	counts, err := Simulate(ctx, c, shots, s.model, seed)
	if err != nil {
		return nil, err
	}
	res := NewExecutionResult(counts, shots, s.name)
	res.Metadata.Seed = seed
	res.Metadata.StartedAt = strfmt.DateTime(start)
	res.Metadata.ExecutionTimeMs = time.Since(start).Milliseconds()
	zap.L().Debug(fmt.Sprintf("executed circuit/job:%s/qubits:%d/gates:%d/shots:%d/elapsed_ms:%d",
		res.Metadata.JobID, c.NumQubits(), c.GateCount(), shots, res.Metadata.ExecutionTimeMs))
	return res, nil
}

// ExecuteBatch runs every circuit with the same shot count. Circuit i uses
// seed+i when the simulator is seeded, so the results do not depend on the
// worker count.
func (s *Simulator) ExecuteBatch(ctx context.Context, cs []*circuit.Circuit, shots int) ([]*ExecutionResult, error) {
	run := func(ctx context.Context, i int) (*ExecutionResult, error) {
		var seed *int64
		if s.seed != nil {
			v := *s.seed + int64(i)
			seed = &v
		}
		return s.execute(ctx, cs[i], shots, seed)
	}
	if s.workers <= 1 || len(cs) <= 1 {
		results := make([]*ExecutionResult, len(cs))
		for i := range cs {
			r, err := run(ctx, i)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}
	return newBatchRunner(s.workers, run).Run(ctx, len(cs))
}

func newRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Simulate runs shots independent trajectories of c under model and returns
// the outcome histogram. Bitstrings are MSB first: qubit 0 is the rightmost
// character.
//
// Before each one- or two-qubit gate a uniform draw below the gate's error
// rate replaces the gate by a random Pauli on its first qubit. After the last
// gate one basis state is sampled and every bit is flipped with the readout
// error probability.
func Simulate(ctx context.Context, c *circuit.Circuit, shots int, model *noise.Model, seed *int64) (core.Counts, error) {
	n := c.NumQubits()
	if n < 0 {
		return nil, core.NewInvalidQubitCount(n)
	}
	if n > MaxSimulatorQubits {
		return nil, core.NewQubitOutOfRange(n-1, MaxSimulatorQubits-1)
	}
	rng := newRand(seed)
	gates := c.Gates()
	counts := core.Counts{}

	deterministic := model.GateError1Q == 0 && model.GateError2Q == 0 && !hasReset(gates)
	state := newStateVector(n)
	if deterministic {
		for _, g := range gates {
			state.applyGate(g, rng)
		}
	}
	for shot := 0; shot < shots; shot++ {
		if shot%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if !deterministic {
			state.reset()
			for _, g := range gates {
				applyNoisyGate(state, g, model, rng)
			}
		}
		outcome := state.sample(rng)
		if model.Readout > 0 {
			for bit := 0; bit < n; bit++ {
				if rng.Float64() < model.Readout {
					outcome ^= 1 << uint(bit)
				}
			}
		}
		counts[formatOutcome(outcome, n)]++
	}
	return counts, nil
}

func applyNoisyGate(s stateVector, g circuit.Gate, model *noise.Model, rng *rand.Rand) {
	rate := 0.0
	switch {
	case g.IsTwoQubit():
		rate = model.GateError2Q
	case g.IsSingleQubit():
		rate = model.GateError1Q
	}
	if rate > 0 && rng.Float64() < rate {
		s.applyPauli(g.Qubit(0), rng.Intn(3))
		return
	}
	s.applyGate(g, rng)
}

func hasReset(gates []circuit.Gate) bool {
	for _, g := range gates {
		if g.Kind() == circuit.KindReset {
			return true
		}
	}
	return false
}

func formatOutcome(outcome, n int) string {
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		if outcome&(1<<uint(n-1-i)) != 0 {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

// Probabilities returns the ideal outcome distribution of c, ignoring noise.
// Circuits containing reset are sampled along a single trajectory.
func Probabilities(c *circuit.Circuit, seed *int64) (map[string]float64, error) {
	n := c.NumQubits()
	if n < 0 {
		return nil, core.NewInvalidQubitCount(n)
	}
	if n > MaxSimulatorQubits {
		return nil, core.NewQubitOutOfRange(n-1, MaxSimulatorQubits-1)
	}
	rng := newRand(seed)
	state := newStateVector(n)
	for _, g := range c.Gates() {
		state.applyGate(g, rng)
	}
	probs := map[string]float64{}
	for i, p := range state.probabilities() {
		if p > 1e-12 {
			probs[formatOutcome(i, n)] = p
		}
	}
	return probs, nil
}
