package scheduler

import (
	"fmt"

	"github.com/oqtopus-team/niso-engine/circuit"
)

// ScheduledGate is a circuit gate placed on the time axis. Index is the
// gate's position in the source circuit.
type ScheduledGate struct {
	Index   int          `json:"index"`
	Gate    circuit.Gate `json:"-"`
	StartNs float64      `json:"start_ns"`
	EndNs   float64      `json:"end_ns"`
}

func NewScheduledGate(index int, g circuit.Gate, startNs, endNs float64) ScheduledGate {
	return ScheduledGate{Index: index, Gate: g, StartNs: startNs, EndNs: endNs}
}

func (s ScheduledGate) Duration() float64 {
	return s.EndNs - s.StartNs
}

func (s ScheduledGate) DurationUs() float64 {
	return s.Duration() / 1000
}

func (s ScheduledGate) Qubits() []int {
	return s.Gate.Qubits()
}

// Overlaps reports whether the gate runs at some point of [start, end).
func (s ScheduledGate) Overlaps(start, end float64) bool {
	return s.StartNs < end && s.EndNs > start
}

func (s ScheduledGate) AffectsQubit(q int) bool {
	return s.Gate.Touches(q)
}

func (s ScheduledGate) IsSingleQubit() bool {
	return s.Gate.IsSingleQubit()
}

func (s ScheduledGate) IsTwoQubit() bool {
	return s.Gate.IsTwoQubit()
}

func (s ScheduledGate) IsMeasurement() bool {
	return s.Gate.IsMeasurement()
}

func (s ScheduledGate) String() string {
	return fmt.Sprintf("[%.1f-%.1fns] %s on %v", s.StartNs, s.EndNs, s.Gate.Name(), s.Qubits())
}

// TimeSlot is the busy interval of one qubit.
type TimeSlot struct {
	Qubit   int     `json:"qubit"`
	StartNs float64 `json:"start_ns"`
	EndNs   float64 `json:"end_ns"`
}

func NewTimeSlot(qubit int, startNs, endNs float64) TimeSlot {
	return TimeSlot{Qubit: qubit, StartNs: startNs, EndNs: endNs}
}

// Overlaps is true only for slots on the same qubit that intersect.
func (t TimeSlot) Overlaps(o TimeSlot) bool {
	return t.Qubit == o.Qubit && t.StartNs < o.EndNs && t.EndNs > o.StartNs
}

func (t TimeSlot) Duration() float64 {
	return t.EndNs - t.StartNs
}
