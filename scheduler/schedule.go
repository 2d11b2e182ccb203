package scheduler

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/oqtopus-team/niso-engine/noise"
)

// defaultT2Ns is used for qubits without a noise vector.
const defaultT2Ns = 60_000.0

// CircuitSchedule is the timing of one circuit. Gates are kept in circuit
// order; qubit end times are the availability of each qubit after the last
// gate.
type CircuitSchedule struct {
	gates         []ScheduledGate
	totalNs       float64
	numQubits     int
	qubitEndTimes []float64
}

func NewCircuitSchedule(gates []ScheduledGate, totalNs float64, numQubits int, qubitEndTimes []float64) *CircuitSchedule {
	return &CircuitSchedule{
		gates:         gates,
		totalNs:       totalNs,
		numQubits:     numQubits,
		qubitEndTimes: qubitEndTimes,
	}
}

func EmptySchedule(numQubits int) *CircuitSchedule {
	return NewCircuitSchedule(nil, 0, numQubits, make([]float64, numQubits))
}

func (s *CircuitSchedule) Gates() []ScheduledGate {
	return s.gates
}

func (s *CircuitSchedule) TotalDurationNs() float64 {
	return s.totalNs
}

func (s *CircuitSchedule) TotalDurationUs() float64 {
	return s.totalNs / 1000
}

func (s *CircuitSchedule) NumQubits() int {
	return s.numQubits
}

func (s *CircuitSchedule) NumGates() int {
	return len(s.gates)
}

func (s *CircuitSchedule) QubitEndTimes() []float64 {
	return s.qubitEndTimes
}

// CriticalPathDepth counts the distinct gate start times.
func (s *CircuitSchedule) CriticalPathDepth() int {
	starts := make([]float64, 0, len(s.gates))
	for _, g := range s.gates {
		starts = append(starts, g.StartNs)
	}
	sort.Float64s(starts)
	depth := 0
	for i, t := range starts {
		if i == 0 || math.Abs(t-starts[i-1]) >= 1e-6 {
			depth++
		}
	}
	return depth
}

// CriticalPath returns the circuit indices of the gates on the qubit that
// finishes last. Ties go to the lowest qubit.
func (s *CircuitSchedule) CriticalPath() []int {
	critical := 0
	for q, t := range s.qubitEndTimes {
		if t > s.qubitEndTimes[critical] {
			critical = q
		}
	}
	path := []int{}
	for _, g := range s.gates {
		if g.AffectsQubit(critical) {
			path = append(path, g.Index)
		}
	}
	return path
}

// IdleTimes is, per qubit, its end time minus the time it spent in gates that
// name it explicitly. Global operations count as idle.
func (s *CircuitSchedule) IdleTimes() []float64 {
	active := make([]float64, s.numQubits)
	for _, g := range s.gates {
		d := g.Duration()
		for _, q := range g.Qubits() {
			if q < s.numQubits {
				active[q] += d
			}
		}
	}
	idle := make([]float64, s.numQubits)
	for q := range idle {
		idle[q] = math.Max(s.qubitEndTimes[q]-active[q], 0)
	}
	return idle
}

func (s *CircuitSchedule) TotalIdleTime() float64 {
	total := 0.0
	for _, t := range s.IdleTimes() {
		total += t
	}
	return total
}

// WeightedIdleTime sums idle/T2 over qubits.
func (s *CircuitSchedule) WeightedIdleTime(vectors []noise.Vector) float64 {
	total := 0.0
	for q, idle := range s.IdleTimes() {
		t2Ns := defaultT2Ns
		if q < len(vectors) {
			t2Ns = vectors[q].T2 * 1000
		}
		if t2Ns > 0 {
			total += idle / t2Ns
		}
	}
	return total
}

// ParallelismFactor is the summed gate duration over the makespan; 1 for an
// empty schedule.
func (s *CircuitSchedule) ParallelismFactor() float64 {
	if s.totalNs <= 0 || len(s.gates) == 0 {
		return 1
	}
	return s.sumDurations() / s.totalNs
}

func (s *CircuitSchedule) sumDurations() float64 {
	total := 0.0
	for _, g := range s.gates {
		total += g.Duration()
	}
	return total
}

func (s *CircuitSchedule) ConcurrentGatesAt(timeNs float64) int {
	n := 0
	for _, g := range s.gates {
		if g.StartNs <= timeNs && g.EndNs > timeNs {
			n++
		}
	}
	return n
}

// MaxConcurrentGates samples concurrency at every gate start.
func (s *CircuitSchedule) MaxConcurrentGates() int {
	m := 0
	for _, g := range s.gates {
		if n := s.ConcurrentGatesAt(g.StartNs); n > m {
			m = n
		}
	}
	return m
}

// EstimateDecoherence averages the T2 dephasing probability of each qubit's
// idle time. Qubits without a vector contribute nothing.
func (s *CircuitSchedule) EstimateDecoherence(vectors []noise.Vector) float64 {
	return s.averageIdleError(vectors, noise.Vector.EstimateDecoherence)
}

// EstimateT1Error is EstimateDecoherence with T1 relaxation.
func (s *CircuitSchedule) EstimateT1Error(vectors []noise.Vector) float64 {
	return s.averageIdleError(vectors, noise.Vector.EstimateT1Error)
}

func (s *CircuitSchedule) averageIdleError(vectors []noise.Vector, f func(noise.Vector, float64) float64) float64 {
	if s.numQubits == 0 {
		return 0
	}
	total := 0.0
	for q, idle := range s.IdleTimes() {
		if q < len(vectors) {
			total += f(vectors[q], idle/1000)
		}
	}
	return total / float64(s.numQubits)
}

func (s *CircuitSchedule) count(pred func(ScheduledGate) bool) int {
	n := 0
	for _, g := range s.gates {
		if pred(g) {
			n++
		}
	}
	return n
}

func (s *CircuitSchedule) Count1Q() int {
	return s.count(ScheduledGate.IsSingleQubit)
}

func (s *CircuitSchedule) Count2Q() int {
	return s.count(ScheduledGate.IsTwoQubit)
}

func (s *CircuitSchedule) CountMeasurements() int {
	return s.count(ScheduledGate.IsMeasurement)
}

func (s *CircuitSchedule) GatesOnQubit(q int) []ScheduledGate {
	gs := []ScheduledGate{}
	for _, g := range s.gates {
		if g.AffectsQubit(q) {
			gs = append(gs, g)
		}
	}
	return gs
}

func (s *CircuitSchedule) GatesInRange(startNs, endNs float64) []ScheduledGate {
	gs := []ScheduledGate{}
	for _, g := range s.gates {
		if g.Overlaps(startNs, endNs) {
			gs = append(gs, g)
		}
	}
	return gs
}

// TimeSlots lists the busy interval of every qubit named by a gate.
func (s *CircuitSchedule) TimeSlots() []TimeSlot {
	slots := []TimeSlot{}
	for _, g := range s.gates {
		for _, q := range g.Qubits() {
			slots = append(slots, NewTimeSlot(q, g.StartNs, g.EndNs))
		}
	}
	return slots
}

func (s *CircuitSchedule) String() string {
	var sb strings.Builder
	sb.WriteString("CircuitSchedule:\n")
	sb.WriteString(fmt.Sprintf("  Qubits: %d\n", s.numQubits))
	sb.WriteString(fmt.Sprintf("  Gates: %d\n", len(s.gates)))
	sb.WriteString(fmt.Sprintf("  Duration: %.2f μs\n", s.TotalDurationUs()))
	sb.WriteString(fmt.Sprintf("  Parallelism: %.2fx\n", s.ParallelismFactor()))
	sb.WriteString(fmt.Sprintf("  Critical depth: %d\n", s.CriticalPathDepth()))
	sb.WriteString(fmt.Sprintf("  Total idle: %.2f μs\n", s.TotalIdleTime()/1000))
	return sb.String()
}
