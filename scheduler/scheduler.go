// Package scheduler places circuit gates on a time axis and derives idle
// time and decoherence estimates from the result.
package scheduler

import (
	"fmt"
	"math"

	"github.com/oqtopus-team/niso-engine/circuit"
	"github.com/oqtopus-team/niso-engine/noise"
	"go.uber.org/zap"
)

// Scheduler computes as-soon-as-possible schedules with a fixed set of gate
// durations.
type Scheduler struct {
	gateTimes *noise.GateTimes
}

func NewScheduler(gt *noise.GateTimes) *Scheduler {
	if gt == nil {
		gt = noise.DefaultGateTimes()
	}
	return &Scheduler{gateTimes: gt}
}

func NewDefaultScheduler() *Scheduler {
	return NewScheduler(noise.DefaultGateTimes())
}

func (s *Scheduler) GateTimes() *noise.GateTimes {
	return s.gateTimes
}

// ComputeASAP starts every gate at the latest availability of its qubits.
// Gates without qubits wait for all qubits and then advance all of them.
func (s *Scheduler) ComputeASAP(c *circuit.Circuit) *CircuitSchedule {
	n := c.NumQubits()
	if c.IsEmpty() {
		return EmptySchedule(n)
	}
	avail := make([]float64, n)
	gates := make([]ScheduledGate, 0, c.GateCount())
	for i, g := range c.Gates() {
		qs := g.Qubits()
		start := 0.0
		if len(qs) == 0 {
			start = maxOf(avail)
		} else {
			for _, q := range qs {
				if q < n && avail[q] > start {
					start = avail[q]
				}
			}
		}
		end := start + s.gateTimes.GateDuration(g)
		gates = append(gates, NewScheduledGate(i, g, start, end))
		if len(qs) == 0 {
			for q := range avail {
				avail[q] = end
			}
			continue
		}
		for _, q := range qs {
			if q < n {
				avail[q] = end
			}
		}
	}
	sched := NewCircuitSchedule(gates, maxOf(avail), n, avail)
	zap.L().Debug(fmt.Sprintf("computed asap schedule/qubits:%d/gates:%d/duration_ns:%.1f",
		n, len(gates), sched.TotalDurationNs()))
	return sched
}

// ComputeIdleError is 1 - exp(-idle/T2) with idle in ns and T2 in µs. A
// non-positive or infinite T2 yields 0.
func ComputeIdleError(idleNs, t2Us float64) float64 {
	if t2Us <= 0 || math.IsInf(t2Us, 0) {
		return 0
	}
	return 1 - math.Exp(-(idleNs/1000)/t2Us)
}

// ScoreCircuit estimates the success probability of c as the product of
// gate, coherence and readout fidelities. Each gate is charged the worst
// error among its qubits.
func (s *Scheduler) ScoreCircuit(c *circuit.Circuit, vectors []noise.Vector) float64 {
	sched := s.ComputeASAP(c)

	gateFidelity := 1.0
	for _, g := range c.Gates() {
		qs := g.Qubits()
		if len(qs) == 0 {
			continue
		}
		worst := 0.0
		for _, q := range qs {
			if q >= len(vectors) {
				continue
			}
			e := vectors[q].GateError1Q
			if g.IsTwoQubit() {
				e = vectors[q].GateError2Q
			}
			worst = math.Max(worst, e)
		}
		gateFidelity *= 1 - worst
	}

	coherence := 1 - sched.EstimateDecoherence(vectors)

	readout := 1.0
	for q, v := range vectors {
		if q < c.NumQubits() {
			readout *= 1 - v.Readout
		}
	}
	return gateFidelity * coherence * readout
}

// BottleneckQubit is the qubit with the most idle time, or false for a
// schedule without qubits.
func BottleneckQubit(sched *CircuitSchedule) (int, bool) {
	idle := sched.IdleTimes()
	if len(idle) == 0 {
		return 0, false
	}
	best := 0
	for q, t := range idle {
		if t > idle[best] {
			best = q
		}
	}
	return best, true
}

func PotentialSpeedup(sched *CircuitSchedule) float64 {
	return sched.ParallelismFactor()
}

// SchedulingEfficiency is busy qubit-time over total qubit-time; 1 means no
// qubit ever waits.
func SchedulingEfficiency(sched *CircuitSchedule) float64 {
	total := sched.TotalDurationNs() * float64(sched.NumQubits())
	if total <= 0 {
		return 1
	}
	return sched.sumDurations() / total
}

func maxOf(xs []float64) float64 {
	m := 0.0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}
