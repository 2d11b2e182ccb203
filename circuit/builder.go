package circuit

import (
	"github.com/oqtopus-team/niso-engine/core"
	"go.uber.org/multierr"
)

// Builder appends gates fluently. Gate errors do not stop the chain; they
// are collected and returned by Build.
type Builder struct {
	circuit *Circuit
	err     error
}

func NewBuilder(numQubits int) *Builder {
	return newBuilder(New(numQubits))
}

func NewNamedBuilder(numQubits int, name string) *Builder {
	return newBuilder(NewNamed(numQubits, name))
}

func newBuilder(c *Circuit) *Builder {
	b := &Builder{circuit: c}
	if c.numQubits < 0 {
		b.err = core.NewInvalidQubitCount(c.numQubits)
	}
	return b
}

func (b *Builder) add(gates ...Gate) *Builder {
	for _, g := range gates {
		b.err = multierr.Append(b.err, b.circuit.AddGate(g))
	}
	return b
}

func (b *Builder) H(q int) *Builder    { return b.add(H(q)) }
func (b *Builder) X(q int) *Builder    { return b.add(X(q)) }
func (b *Builder) Y(q int) *Builder    { return b.add(Y(q)) }
func (b *Builder) Z(q int) *Builder    { return b.add(Z(q)) }
func (b *Builder) S(q int) *Builder    { return b.add(S(q)) }
func (b *Builder) Sdg(q int) *Builder  { return b.add(Sdg(q)) }
func (b *Builder) T(q int) *Builder    { return b.add(T(q)) }
func (b *Builder) Tdg(q int) *Builder  { return b.add(Tdg(q)) }
func (b *Builder) SX(q int) *Builder   { return b.add(SX(q)) }
func (b *Builder) SXdg(q int) *Builder { return b.add(SXdg(q)) }
func (b *Builder) ID(q int) *Builder   { return b.add(ID(q)) }

func (b *Builder) RX(q int, theta float64) *Builder { return b.add(RX(q, theta)) }
func (b *Builder) RY(q int, theta float64) *Builder { return b.add(RY(q, theta)) }
func (b *Builder) RZ(q int, theta float64) *Builder { return b.add(RZ(q, theta)) }
func (b *Builder) P(q int, lambda float64) *Builder { return b.add(P(q, lambda)) }

func (b *Builder) U(q int, theta, phi, lambda float64) *Builder {
	return b.add(U(q, theta, phi, lambda))
}

func (b *Builder) CX(c, t int) *Builder    { return b.add(CX(c, t)) }
func (b *Builder) CNOT(c, t int) *Builder  { return b.add(CX(c, t)) }
func (b *Builder) CZ(c, t int) *Builder    { return b.add(CZ(c, t)) }
func (b *Builder) CY(c, t int) *Builder    { return b.add(CY(c, t)) }
func (b *Builder) Swap(x, y int) *Builder  { return b.add(Swap(x, y)) }
func (b *Builder) ISwap(x, y int) *Builder { return b.add(ISwap(x, y)) }
func (b *Builder) ECR(c, t int) *Builder   { return b.add(ECR(c, t)) }

func (b *Builder) CRZ(c, t int, theta float64) *Builder { return b.add(CRZ(c, t, theta)) }
func (b *Builder) CRX(c, t int, theta float64) *Builder { return b.add(CRX(c, t, theta)) }
func (b *Builder) CRY(c, t int, theta float64) *Builder { return b.add(CRY(c, t, theta)) }

func (b *Builder) CCX(c1, c2, t int) *Builder { return b.add(CCX(c1, c2, t)) }
func (b *Builder) CSwap(c, x, y int) *Builder { return b.add(CSwap(c, x, y)) }

func (b *Builder) Measure(q int) *Builder { return b.add(Measure(q)) }
func (b *Builder) MeasureAll() *Builder   { return b.add(MeasureAll()) }
func (b *Builder) Reset(q int) *Builder   { return b.add(Reset(q)) }

// Barrier spans every qubit of the register.
func (b *Builder) Barrier() *Builder {
	qs := make([]int, b.circuit.NumQubits())
	for i := range qs {
		qs[i] = i
	}
	return b.add(Barrier(qs...))
}

func (b *Builder) BarrierOn(qubits ...int) *Builder {
	return b.add(Barrier(qubits...))
}

// RYLayer applies RY(angles[i]) to qubit i; extra angles are ignored.
func (b *Builder) RYLayer(angles []float64) *Builder {
	for i := 0; i < len(angles) && i < b.circuit.NumQubits(); i++ {
		b.add(RY(i, angles[i]))
	}
	return b
}

func (b *Builder) RZLayer(angles []float64) *Builder {
	for i := 0; i < len(angles) && i < b.circuit.NumQubits(); i++ {
		b.add(RZ(i, angles[i]))
	}
	return b
}

func (b *Builder) HLayer() *Builder {
	for i := 0; i < b.circuit.NumQubits(); i++ {
		b.add(H(i))
	}
	return b
}

// EntanglerChain links neighbours (0,1), (1,2), ... (n-2,n-1).
func (b *Builder) EntanglerChain(e EntanglerType) *Builder {
	for i := 0; i+1 < b.circuit.NumQubits(); i++ {
		b.add(e.Gate(i, i+1))
	}
	return b
}

func (b *Builder) CXChain() *Builder {
	return b.EntanglerChain(EntanglerCX)
}

func (b *Builder) CZChain() *Builder {
	return b.EntanglerChain(EntanglerCZ)
}

// ApplyBasis rotates qubit i into bs[i]; entries past the register are ignored.
func (b *Builder) ApplyBasis(bs BasisString) *Builder {
	for i, basis := range bs {
		if i >= b.circuit.NumQubits() {
			break
		}
		b.add(basis.Transform(i)...)
	}
	return b
}

func (b *Builder) ApplyUniformBasis(basis Basis) *Builder {
	for i := 0; i < b.circuit.NumQubits(); i++ {
		b.add(basis.Transform(i)...)
	}
	return b
}

// TqqcParity appends the TQQC parity circuit: H on qubit 0, the entangler
// chain, RZ(theta+delta) on qubit 0, the basis rotations and a full measurement.
func (b *Builder) TqqcParity(theta, delta float64, e EntanglerType, bs BasisString) *Builder {
	return b.H(0).
		EntanglerChain(e).
		RZ(0, theta+delta).
		ApplyBasis(bs).
		MeasureAll()
}

func (b *Builder) NumQubits() int {
	return b.circuit.NumQubits()
}

// Err returns the errors collected so far.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) Build() (*Circuit, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.circuit.Clone(), nil
}

// BuildValidated is Build plus a non-empty check.
func (b *Builder) BuildValidated() (*Circuit, error) {
	c, err := b.Build()
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, c.Check(0)
	}
	return c, nil
}

// TqqcParityCircuit builds the parity circuit for n qubits.
func TqqcParityCircuit(n int, theta, delta float64, e EntanglerType, bs BasisString) (*Circuit, error) {
	return NewNamedBuilder(n, "tqqc_parity").TqqcParity(theta, delta, e, bs).Build()
}
