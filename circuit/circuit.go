package circuit

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/oqtopus-team/niso-engine/core"
)

// Circuit is a qubit count plus an ordered gate sequence. Every gate's qubit
// indices are below the qubit count; AddGate enforces it.
type Circuit struct {
	numQubits int
	gates     []Gate
	name      string
}

func New(numQubits int) *Circuit {
	return &Circuit{numQubits: numQubits}
}

func NewNamed(numQubits int, name string) *Circuit {
	return &Circuit{numQubits: numQubits, name: name}
}

func FromGates(numQubits int, gates []Gate) (*Circuit, error) {
	if numQubits < 0 {
		return nil, core.NewInvalidQubitCount(numQubits)
	}
	c := New(numQubits)
	if err := c.AddGates(gates...); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Circuit) AddGate(g Gate) error {
	for _, q := range g.qubits {
		if q < 0 || q >= c.numQubits {
			return core.NewGateQubitMismatch(q, c.numQubits)
		}
	}
	if err := g.Validate(); err != nil {
		return err
	}
	c.gates = append(c.gates, g)
	return nil
}

func (c *Circuit) AddGates(gates ...Gate) error {
	for _, g := range gates {
		if err := c.AddGate(g); err != nil {
			return err
		}
	}
	return nil
}

func (c *Circuit) Clear() {
	c.gates = nil
}

func (c *Circuit) NumQubits() int {
	return c.numQubits
}

// Gates returns a copy of the gate sequence.
func (c *Circuit) Gates() []Gate {
	gs := make([]Gate, len(c.gates))
	copy(gs, c.gates)
	return gs
}

func (c *Circuit) Gate(i int) Gate {
	return c.gates[i]
}

func (c *Circuit) Name() string {
	return c.name
}

func (c *Circuit) SetName(name string) {
	c.name = name
}

func (c *Circuit) IsEmpty() bool {
	return len(c.gates) == 0
}

func (c *Circuit) GateCount() int {
	return len(c.gates)
}

// Depth counts layers; a gate with no explicit qubits synchronises all qubits.
func (c *Circuit) Depth() int {
	if len(c.gates) == 0 {
		return 0
	}
	depths := make([]int, c.numQubits)
	for _, g := range c.gates {
		if len(g.qubits) == 0 {
			m := maxInt(depths)
			for i := range depths {
				depths[i] = m + 1
			}
			continue
		}
		m := 0
		for _, q := range g.qubits {
			if depths[q] > m {
				m = depths[q]
			}
		}
		for _, q := range g.qubits {
			depths[q] = m + 1
		}
	}
	return maxInt(depths)
}

func (c *Circuit) count(pred func(Gate) bool) int {
	n := 0
	for _, g := range c.gates {
		if pred(g) {
			n++
		}
	}
	return n
}

func (c *Circuit) Count1Q() int {
	return c.count(Gate.IsSingleQubit)
}

func (c *Circuit) Count2Q() int {
	return c.count(Gate.IsTwoQubit)
}

func (c *Circuit) Count3Q() int {
	return c.count(Gate.IsThreeQubit)
}

func (c *Circuit) CountMeasurements() int {
	return c.count(Gate.IsMeasurement)
}

func (c *Circuit) CountParameterized() int {
	return c.count(Gate.IsParameterized)
}

// UsedQubits returns the sorted set of qubits touched by any gate.
func (c *Circuit) UsedQubits() []int {
	seen := make(map[int]struct{})
	for _, g := range c.gates {
		for _, q := range g.qubits {
			seen[q] = struct{}{}
		}
	}
	qs := make([]int, 0, len(seen))
	for q := range seen {
		qs = append(qs, q)
	}
	sort.Ints(qs)
	return qs
}

func (c *Circuit) TwoQubitPairs() [][2]int {
	pairs := [][2]int{}
	for _, g := range c.gates {
		if g.IsTwoQubit() {
			pairs = append(pairs, [2]int{g.qubits[0], g.qubits[1]})
		}
	}
	return pairs
}

// TotalTimeNs is the sum of nominal gate durations, ignoring parallelism.
func (c *Circuit) TotalTimeNs() float64 {
	total := 0.0
	for _, g := range c.gates {
		total += g.DurationNs()
	}
	return total
}

// Check rejects empty circuits and circuits deeper than maxDepth (0 disables the depth check).
func (c *Circuit) Check(maxDepth int) error {
	if c.IsEmpty() {
		return core.NewEmptyCircuit()
	}
	if maxDepth > 0 {
		if d := c.Depth(); d > maxDepth {
			return core.NewCircuitTooDeep(d, maxDepth)
		}
	}
	return nil
}

func (c *Circuit) Clone() *Circuit {
	return &Circuit{numQubits: c.numQubits, gates: c.Gates(), name: c.name}
}

func (c *Circuit) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Circuit(%d qubits, %d gates)\n", c.numQubits, len(c.gates)))
	sb.WriteString(fmt.Sprintf("  Depth: %d\n", c.Depth()))
	sb.WriteString(fmt.Sprintf("  1Q gates: %d\n", c.Count1Q()))
	sb.WriteString(fmt.Sprintf("  2Q gates: %d\n", c.Count2Q()))
	return sb.String()
}

func maxInt(xs []int) int {
	m := 0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}

func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
