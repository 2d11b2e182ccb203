package circuit

import (
	"fmt"
	"sort"

	"github.com/oqtopus-team/niso-engine/core"
)

// Coupling is a directed hardware edge between two physical qubits.
type Coupling struct {
	Control int `json:"control" toml:"control"`
	Target  int `json:"target" toml:"target"`
}

// Topology is the qubit connectivity graph of a device.
type Topology struct {
	couplings     []Coupling
	numQubits     int
	bidirectional bool
	name          string
}

func NewTopology(couplings []Coupling, bidirectional bool) (*Topology, error) {
	if len(couplings) == 0 {
		return nil, core.NewEmptyCouplingMap()
	}
	maxQubit := 0
	for _, c := range couplings {
		if c.Control == c.Target {
			return nil, core.NewInvalidCoupling(c.Control, c.Target)
		}
		if c.Control > maxQubit {
			maxQubit = c.Control
		}
		if c.Target > maxQubit {
			maxQubit = c.Target
		}
	}
	cs := make([]Coupling, len(couplings))
	copy(cs, couplings)
	return &Topology{couplings: cs, numQubits: maxQubit + 1, bidirectional: bidirectional}, nil
}

func namedTopology(name string, n int, couplings []Coupling) *Topology {
	return &Topology{couplings: couplings, numQubits: n, bidirectional: true, name: name}
}

func LinearTopology(n int) *Topology {
	cs := []Coupling{}
	for i := 0; i+1 < n; i++ {
		cs = append(cs, Coupling{i, i + 1})
	}
	return namedTopology(fmt.Sprintf("linear_%d", n), n, cs)
}

func RingTopology(n int) *Topology {
	cs := []Coupling{}
	for i := 0; i+1 < n; i++ {
		cs = append(cs, Coupling{i, i + 1})
	}
	if n > 1 {
		cs = append(cs, Coupling{n - 1, 0})
	}
	return namedTopology(fmt.Sprintf("ring_%d", n), n, cs)
}

func GridTopology(rows, cols int) *Topology {
	cs := []Coupling{}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			q := r*cols + c
			if c+1 < cols {
				cs = append(cs, Coupling{q, q + 1})
			}
			if r+1 < rows {
				cs = append(cs, Coupling{q, q + cols})
			}
		}
	}
	return namedTopology(fmt.Sprintf("grid_%dx%d", rows, cols), rows*cols, cs)
}

// HeavyHexTopology approximates IBM heavy-hex lattices. Only one and two
// layers have a dedicated layout; larger sizes fall back to a linear chain.
func HeavyHexTopology(layers int) *Topology {
	switch layers {
	case 1:
		cs := []Coupling{{0, 1}, {1, 2}, {1, 3}, {3, 5}, {4, 5}, {5, 6}}
		return namedTopology("heavy_hex_1", 7, cs)
	case 2:
		cs := []Coupling{}
		for i := 0; i < 26; i++ {
			if i%5 != 4 {
				cs = append(cs, Coupling{i, i + 1})
			}
		}
		return namedTopology("heavy_hex_2", 27, cs)
	default:
		return LinearTopology(7 * layers)
	}
}

func AllToAllTopology(n int) *Topology {
	cs := []Coupling{}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			cs = append(cs, Coupling{i, j})
		}
	}
	return namedTopology(fmt.Sprintf("all_to_all_%d", n), n, cs)
}

func (t *Topology) NumQubits() int {
	return t.numQubits
}

func (t *Topology) Couplings() []Coupling {
	cs := make([]Coupling, len(t.couplings))
	copy(cs, t.couplings)
	return cs
}

func (t *Topology) IsBidirectional() bool {
	return t.bidirectional
}

func (t *Topology) Name() string {
	return t.name
}

func (t *Topology) SetName(name string) {
	t.name = name
}

func (t *Topology) NumEdges() int {
	return len(t.couplings)
}

// IsConnected reports whether a two-qubit gate may act on (q1, q2). A qubit is
// always connected to itself.
func (t *Topology) IsConnected(q1, q2 int) bool {
	if q1 == q2 {
		return true
	}
	for _, c := range t.couplings {
		if c.Control == q1 && c.Target == q2 {
			return true
		}
		if t.bidirectional && c.Control == q2 && c.Target == q1 {
			return true
		}
	}
	return false
}

func (t *Topology) Neighbors(q int) []int {
	seen := map[int]struct{}{}
	for _, c := range t.couplings {
		if c.Control == q {
			seen[c.Target] = struct{}{}
		}
		if t.bidirectional && c.Target == q {
			seen[c.Control] = struct{}{}
		}
	}
	ns := make([]int, 0, len(seen))
	for n := range seen {
		ns = append(ns, n)
	}
	sort.Ints(ns)
	return ns
}

func (t *Topology) Degree(q int) int {
	return len(t.Neighbors(q))
}

func (t *Topology) adjacency() [][]int {
	adj := make([][]int, t.numQubits)
	for _, c := range t.couplings {
		adj[c.Control] = append(adj[c.Control], c.Target)
		if t.bidirectional {
			adj[c.Target] = append(adj[c.Target], c.Control)
		}
	}
	return adj
}

// ShortestPath runs a breadth-first search and returns the qubits visited
// from start to end inclusive.
func (t *Topology) ShortestPath(start, end int) ([]int, error) {
	if start == end {
		return []int{start}, nil
	}
	if start < 0 || end < 0 || start >= t.numQubits || end >= t.numQubits {
		return nil, core.NewPathNotFound(start, end)
	}
	adj := t.adjacency()
	visited := make([]bool, t.numQubits)
	parent := make([]int, t.numQubits)
	for i := range parent {
		parent[i] = -1
	}
	visited[start] = true
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == end {
			path := []int{}
			for n := end; n != -1; n = parent[n] {
				path = append(path, n)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, nil
		}
		for _, n := range adj[cur] {
			if !visited[n] {
				visited[n] = true
				parent[n] = cur
				queue = append(queue, n)
			}
		}
	}
	return nil, core.NewPathNotFound(start, end)
}

func (t *Topology) Distance(q1, q2 int) (int, error) {
	p, err := t.ShortestPath(q1, q2)
	if err != nil {
		return 0, err
	}
	return len(p) - 1, nil
}

func (t *Topology) IsFullyConnected() bool {
	for q := 1; q < t.numQubits; q++ {
		if _, err := t.ShortestPath(0, q); err != nil {
			return false
		}
	}
	return true
}

// Validate checks that the circuit fits on the device and that every
// two-qubit gate acts on a coupled pair.
func (t *Topology) Validate(c *Circuit) error {
	if c.NumQubits() > t.numQubits {
		return core.NewQubitOutOfRange(c.NumQubits()-1, t.numQubits-1)
	}
	for _, p := range c.TwoQubitPairs() {
		if !t.IsConnected(p[0], p[1]) {
			return core.NewTopologyViolation(p[0], p[1])
		}
	}
	return nil
}

// Diameter is the longest shortest path between reachable qubit pairs.
func (t *Topology) Diameter() int {
	m := 0
	for i := 0; i < t.numQubits; i++ {
		for j := i + 1; j < t.numQubits; j++ {
			if d, err := t.Distance(i, j); err == nil && d > m {
				m = d
			}
		}
	}
	return m
}

func (t *Topology) AverageDegree() float64 {
	if t.numQubits == 0 {
		return 0
	}
	total := 0
	for q := 0; q < t.numQubits; q++ {
		total += t.Degree(q)
	}
	return float64(total) / float64(t.numQubits)
}

func (t *Topology) MinDegreeQubits() []int {
	if t.numQubits == 0 {
		return []int{}
	}
	degrees := make([]int, t.numQubits)
	min := -1
	for q := range degrees {
		degrees[q] = t.Degree(q)
		if min < 0 || degrees[q] < min {
			min = degrees[q]
		}
	}
	qs := []int{}
	for q, d := range degrees {
		if d == min {
			qs = append(qs, q)
		}
	}
	return qs
}

// FindLinearChain greedily walks neighbours from each start qubit and returns
// the first simple path of the requested length.
func (t *Topology) FindLinearChain(length int) ([]int, bool) {
	if length > t.numQubits {
		return nil, false
	}
	if length <= 1 {
		return []int{0}, true
	}
	for start := 0; start < t.numQubits; start++ {
		if chain, ok := t.chainFrom(start, length); ok {
			return chain, true
		}
	}
	return nil, false
}

func (t *Topology) chainFrom(start, length int) ([]int, bool) {
	chain := []int{start}
	visited := map[int]bool{start: true}
	for len(chain) < length {
		next := -1
		for _, n := range t.Neighbors(chain[len(chain)-1]) {
			if !visited[n] {
				next = n
				break
			}
		}
		if next < 0 {
			return nil, false
		}
		chain = append(chain, next)
		visited[next] = true
	}
	return chain, true
}

func (t *Topology) String() string {
	if t.name == "" {
		return fmt.Sprintf("Topology(%d qubits, %d edges)", t.numQubits, len(t.couplings))
	}
	return fmt.Sprintf("Topology(%d qubits, %d edges, %s)", t.numQubits, len(t.couplings), t.name)
}
