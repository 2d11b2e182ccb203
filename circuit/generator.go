package circuit

import (
	"math"
	"math/rand"
	"time"
)

// Generator produces benchmark circuits. Randomised circuits are reproducible
// when a seed is set.
type Generator struct {
	seed    int64
	hasSeed bool
}

func NewGenerator() *Generator {
	return &Generator{}
}

func NewSeededGenerator(seed int64) *Generator {
	return &Generator{seed: seed, hasSeed: true}
}

func (g *Generator) rng() *rand.Rand {
	if g.hasSeed {
		return rand.New(rand.NewSource(g.seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// GHZ prepares (|0...0> + |1...1>)/sqrt(2).
func (g *Generator) GHZ(n int) (*Circuit, error) {
	return NewNamedBuilder(n, "ghz").H(0).CXChain().Build()
}

func (g *Generator) WState(n int) (*Circuit, error) {
	b := NewNamedBuilder(n, "w_state").X(0)
	for i := 0; i+1 < n; i++ {
		angle := 2 * math.Acos(math.Sqrt(1/float64(n-i)))
		b.RY(i, angle).CX(i, i+1)
	}
	return b.Build()
}

// QFT decomposes controlled phases into CX and RZ and finishes with the qubit
// reversal swaps.
func (g *Generator) QFT(n int) (*Circuit, error) {
	b := NewNamedBuilder(n, "qft")
	for i := 0; i < n; i++ {
		b.H(i)
		for j := i + 1; j < n; j++ {
			k := j - i + 1
			angle := math.Pi / float64(int(1)<<(k-1))
			b.CX(j, i).RZ(i, angle/2).CX(j, i).RZ(i, -angle/2)
		}
	}
	for i := 0; i < n/2; i++ {
		b.Swap(i, n-1-i)
	}
	return b.Build()
}

func (g *Generator) TqqcParity(n int, theta, delta float64) (*Circuit, error) {
	return TqqcParityCircuit(n, theta, delta, EntanglerCX, AllX(n))
}

func (g *Generator) Bell() (*Circuit, error) {
	return NewNamedBuilder(2, "bell").H(0).CX(0, 1).Build()
}

// HEA is a hardware-efficient ansatz: random RX/RY per qubit then a CX chain,
// repeated depth times.
func (g *Generator) HEA(n, depth int) (*Circuit, error) {
	rng := g.rng()
	b := NewNamedBuilder(n, "hea")
	for d := 0; d < depth; d++ {
		for q := 0; q < n; q++ {
			b.RX(q, rng.Float64()*2*math.Pi).RY(q, rng.Float64()*2*math.Pi)
		}
		b.CXChain()
	}
	return b.Build()
}

func (g *Generator) Random(n, depth int) (*Circuit, error) {
	rng := g.rng()
	b := NewNamedBuilder(n, "random")
	for d := 0; d < depth; d++ {
		for q := 0; q < n; q++ {
			switch rng.Intn(6) {
			case 0:
				b.H(q)
			case 1:
				b.X(q)
			case 2:
				b.Y(q)
			case 3:
				b.Z(q)
			case 4:
				b.RX(q, rng.Float64()*2*math.Pi)
			default:
				b.RY(q, rng.Float64()*2*math.Pi)
			}
		}
		for q := 0; q+1 < n; q++ {
			if rng.Float64() < 0.5 {
				b.CX(q, q+1)
			}
		}
	}
	return b.Build()
}

func (g *Generator) HLayer(n int) (*Circuit, error) {
	return NewBuilder(n).HLayer().Build()
}

func (g *Generator) Identity(n int) (*Circuit, error) {
	return NewBuilder(n).Barrier().Build()
}

// ParityOscillation sweeps theta over [0, pi) in numPoints steps.
func (g *Generator) ParityOscillation(n, numPoints int) ([]*Circuit, error) {
	cs := make([]*Circuit, 0, numPoints)
	for i := 0; i < numPoints; i++ {
		theta := float64(i) / float64(numPoints) * math.Pi
		c, err := g.TqqcParity(n, theta, 0)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, nil
}

func (g *Generator) DeltaSearch(n int, theta float64, deltas []float64) ([]*Circuit, error) {
	cs := make([]*Circuit, 0, len(deltas))
	for _, d := range deltas {
		c, err := g.TqqcParity(n, theta, d)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, nil
}

func (g *Generator) DepthScaling(n, maxDepth int) ([]*Circuit, error) {
	cs := make([]*Circuit, 0, maxDepth)
	for d := 1; d <= maxDepth; d++ {
		c, err := g.HEA(n, d)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, nil
}

// QubitScaling returns GHZ circuits from 2 up to maxQubits qubits.
func (g *Generator) QubitScaling(maxQubits int) ([]*Circuit, error) {
	cs := []*Circuit{}
	for n := 2; n <= maxQubits; n++ {
		c, err := g.GHZ(n)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, nil
}
