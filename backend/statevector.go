package backend

import (
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/oqtopus-team/niso-engine/circuit"
)

// stateVector holds 2^n amplitudes; bit q of an index is the value of qubit q.
type stateVector []complex128

type matrix2 [2][2]complex128

func newStateVector(n int) stateVector {
	s := make(stateVector, 1<<uint(n))
	s[0] = 1
	return s
}

func (s stateVector) reset() {
	for i := range s {
		s[i] = 0
	}
	s[0] = 1
}

var (
	invSqrt2 = complex(1/math.Sqrt2, 0)

	matH   = matrix2{{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}}
	matX   = matrix2{{0, 1}, {1, 0}}
	matY   = matrix2{{0, -1i}, {1i, 0}}
	matZ   = matrix2{{1, 0}, {0, -1}}
	matS   = matrix2{{1, 0}, {0, 1i}}
	matSdg = matrix2{{1, 0}, {0, -1i}}
	matT   = matrix2{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}}
	matTdg = matrix2{{1, 0}, {0, cmplx.Exp(complex(0, -math.Pi/4))}}
	matSX  = matrix2{{0.5 + 0.5i, 0.5 - 0.5i}, {0.5 - 0.5i, 0.5 + 0.5i}}
	matSXd = matrix2{{0.5 - 0.5i, 0.5 + 0.5i}, {0.5 + 0.5i, 0.5 - 0.5i}}
)

func rxMatrix(theta float64) matrix2 {
	c, s := complex(math.Cos(theta/2), 0), complex(0, -math.Sin(theta/2))
	return matrix2{{c, s}, {s, c}}
}

func ryMatrix(theta float64) matrix2 {
	c, s := complex(math.Cos(theta/2), 0), complex(math.Sin(theta/2), 0)
	return matrix2{{c, -s}, {s, c}}
}

func rzMatrix(theta float64) matrix2 {
	return matrix2{
		{cmplx.Exp(complex(0, -theta/2)), 0},
		{0, cmplx.Exp(complex(0, theta/2))},
	}
}

func pMatrix(lambda float64) matrix2 {
	return matrix2{{1, 0}, {0, cmplx.Exp(complex(0, lambda))}}
}

func uMatrix(theta, phi, lambda float64) matrix2 {
	c, s := math.Cos(theta/2), math.Sin(theta/2)
	return matrix2{
		{complex(c, 0), -cmplx.Exp(complex(0, lambda)) * complex(s, 0)},
		{cmplx.Exp(complex(0, phi)) * complex(s, 0), cmplx.Exp(complex(0, phi+lambda)) * complex(c, 0)},
	}
}

// apply1 applies m to qubit q on every basis index whose control bits are all set.
func (s stateVector) apply1(q int, m matrix2, controlMask int) {
	mask := 1 << uint(q)
	for i := range s {
		if i&mask != 0 || i&controlMask != controlMask {
			continue
		}
		j := i | mask
		a, b := s[i], s[j]
		s[i] = m[0][0]*a + m[0][1]*b
		s[j] = m[1][0]*a + m[1][1]*b
	}
}

// swap exchanges qubits a and b on indices whose control bits are set.
func (s stateVector) swap(a, b int, controlMask int) {
	ma, mb := 1<<uint(a), 1<<uint(b)
	for i := range s {
		if i&ma != 0 && i&mb == 0 && i&controlMask == controlMask {
			j := i ^ ma ^ mb
			s[i], s[j] = s[j], s[i]
		}
	}
}

// iswap maps |01> to i|10> and |10> to i|01>.
func (s stateVector) iswap(a, b int) {
	ma, mb := 1<<uint(a), 1<<uint(b)
	for i := range s {
		if i&ma != 0 && i&mb == 0 {
			j := i ^ ma ^ mb
			s[i], s[j] = 1i*s[j], 1i*s[i]
		}
	}
}

// ecr applies the echoed cross-resonance gate with a as the first (least
// significant) operand.
func (s stateVector) ecr(a, b int) {
	ma, mb := 1<<uint(a), 1<<uint(b)
	r := complex(1/math.Sqrt2, 0)
	m := [4][4]complex128{
		{0, r, 0, 1i * r},
		{r, 0, -1i * r, 0},
		{0, 1i * r, 0, r},
		{-1i * r, 0, r, 0},
	}
	for i := range s {
		if i&ma != 0 || i&mb != 0 {
			continue
		}
		idx := [4]int{i, i | ma, i | mb, i | ma | mb}
		var in, out [4]complex128
		for k := range idx {
			in[k] = s[idx[k]]
		}
		for row := 0; row < 4; row++ {
			for col := 0; col < 4; col++ {
				out[row] += m[row][col] * in[col]
			}
		}
		for k := range idx {
			s[idx[k]] = out[k]
		}
	}
}

// collapse projects qubit q onto a measured value and renormalises.
func (s stateVector) collapse(q int, rng *rand.Rand) int {
	mask := 1 << uint(q)
	p1 := 0.0
	for i, a := range s {
		if i&mask != 0 {
			p1 += real(a)*real(a) + imag(a)*imag(a)
		}
	}
	outcome := 0
	if rng.Float64() < p1 {
		outcome = 1
	}
	norm := p1
	if outcome == 0 {
		norm = 1 - p1
	}
	scale := complex(1/math.Sqrt(norm), 0)
	for i := range s {
		if (i&mask != 0) == (outcome == 1) {
			s[i] *= scale
		} else {
			s[i] = 0
		}
	}
	return outcome
}

// applyGate applies the ideal unitary of g. Measurements are deferred to the
// end of the shot; barriers and identities do nothing.
func (s stateVector) applyGate(g circuit.Gate, rng *rand.Rand) {
	q := g.Qubits()
	switch g.Kind() {
	case circuit.KindH:
		s.apply1(q[0], matH, 0)
	case circuit.KindX:
		s.apply1(q[0], matX, 0)
	case circuit.KindY:
		s.apply1(q[0], matY, 0)
	case circuit.KindZ:
		s.apply1(q[0], matZ, 0)
	case circuit.KindS:
		s.apply1(q[0], matS, 0)
	case circuit.KindSdg:
		s.apply1(q[0], matSdg, 0)
	case circuit.KindT:
		s.apply1(q[0], matT, 0)
	case circuit.KindTdg:
		s.apply1(q[0], matTdg, 0)
	case circuit.KindSX:
		s.apply1(q[0], matSX, 0)
	case circuit.KindSXdg:
		s.apply1(q[0], matSXd, 0)
	case circuit.KindRX:
		s.apply1(q[0], rxMatrix(g.Param(0)), 0)
	case circuit.KindRY:
		s.apply1(q[0], ryMatrix(g.Param(0)), 0)
	case circuit.KindRZ:
		s.apply1(q[0], rzMatrix(g.Param(0)), 0)
	case circuit.KindP:
		s.apply1(q[0], pMatrix(g.Param(0)), 0)
	case circuit.KindU:
		s.apply1(q[0], uMatrix(g.Param(0), g.Param(1), g.Param(2)), 0)
	case circuit.KindCX:
		s.apply1(q[1], matX, 1<<uint(q[0]))
	case circuit.KindCY:
		s.apply1(q[1], matY, 1<<uint(q[0]))
	case circuit.KindCZ:
		s.apply1(q[1], matZ, 1<<uint(q[0]))
	case circuit.KindCRX:
		s.apply1(q[1], rxMatrix(g.Param(0)), 1<<uint(q[0]))
	case circuit.KindCRY:
		s.apply1(q[1], ryMatrix(g.Param(0)), 1<<uint(q[0]))
	case circuit.KindCRZ:
		s.apply1(q[1], rzMatrix(g.Param(0)), 1<<uint(q[0]))
	case circuit.KindSwap:
		s.swap(q[0], q[1], 0)
	case circuit.KindISwap:
		s.iswap(q[0], q[1])
	case circuit.KindECR:
		s.ecr(q[0], q[1])
	case circuit.KindCCX:
		s.apply1(q[2], matX, 1<<uint(q[0])|1<<uint(q[1]))
	case circuit.KindCSwap:
		s.swap(q[1], q[2], 1<<uint(q[0]))
	case circuit.KindReset:
		if s.collapse(q[0], rng) == 1 {
			s.apply1(q[0], matX, 0)
		}
	}
}

// applyPauli applies X, Y or Z (0, 1, 2) to qubit q.
func (s stateVector) applyPauli(q, which int) {
	switch which {
	case 0:
		s.apply1(q, matX, 0)
	case 1:
		s.apply1(q, matY, 0)
	default:
		s.apply1(q, matZ, 0)
	}
}

// sample draws one basis index by cumulative inversion over |amplitude|^2.
// Rounding leftovers fall on the last index.
func (s stateVector) sample(rng *rand.Rand) int {
	r := rng.Float64()
	cum := 0.0
	for i, a := range s {
		cum += real(a)*real(a) + imag(a)*imag(a)
		if r < cum {
			return i
		}
	}
	return len(s) - 1
}

func (s stateVector) probabilities() []float64 {
	ps := make([]float64, len(s))
	for i, a := range s {
		ps[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	return ps
}
