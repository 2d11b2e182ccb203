package circuit

import (
	"fmt"
	"strings"

	"github.com/oqtopus-team/niso-engine/core"
)

// Probability is a float64 known to lie in [0, 1].
type Probability float64

const (
	ProbabilityZero Probability = 0
	ProbabilityHalf Probability = 0.5
	ProbabilityOne  Probability = 1
)

func NewProbability(v float64) (Probability, error) {
	if !(v >= 0 && v <= 1) {
		return 0, core.NewInvalidProbability(v)
	}
	return Probability(v), nil
}

func (p Probability) Value() float64 {
	return float64(p)
}

func (p Probability) Complement() float64 {
	return 1 - float64(p)
}

func (p Probability) String() string {
	return fmt.Sprintf("%.6f", float64(p))
}

// Bitstring is a measured outcome, most significant (highest index) qubit first.
type Bitstring []bool

func ParseBitstring(s string) (Bitstring, error) {
	bits := make(Bitstring, len(s))
	for i, c := range s {
		switch c {
		case '0':
		case '1':
			bits[i] = true
		default:
			return nil, core.NewInvalidBitstring(s)
		}
	}
	return bits, nil
}

func ZeroBitstring(n int) Bitstring {
	return make(Bitstring, n)
}

func (b Bitstring) Popcount() int {
	n := 0
	for _, bit := range b {
		if bit {
			n++
		}
	}
	return n
}

// Parity is true for an odd number of ones.
func (b Bitstring) Parity() bool {
	return b.Popcount()%2 == 1
}

// ParitySign is +1 for even and -1 for odd parity.
func (b Bitstring) ParitySign() int {
	if b.Parity() {
		return -1
	}
	return 1
}

func (b Bitstring) Uint() uint64 {
	var v uint64
	for _, bit := range b {
		v <<= 1
		if bit {
			v |= 1
		}
	}
	return v
}

func (b Bitstring) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, bit := range b {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Popcount counts the '1' characters of a raw bitstring key.
func Popcount(s string) int {
	return strings.Count(s, "1")
}

type Basis int

const (
	BasisX Basis = iota
	BasisY
	BasisZ
)

func ParseBasis(c rune) (Basis, error) {
	switch c {
	case 'X', 'x':
		return BasisX, nil
	case 'Y', 'y':
		return BasisY, nil
	case 'Z', 'z':
		return BasisZ, nil
	default:
		return 0, core.NewInvalidBasis(string(c))
	}
}

func (b Basis) String() string {
	switch b {
	case BasisX:
		return "X"
	case BasisY:
		return "Y"
	case BasisZ:
		return "Z"
	default:
		return "?"
	}
}

// Transform returns the gates rotating basis b onto Z for qubit q.
func (b Basis) Transform(q int) []Gate {
	switch b {
	case BasisX:
		return []Gate{H(q)}
	case BasisY:
		return []Gate{Sdg(q), H(q)}
	default:
		return nil
	}
}

// BasisString assigns a measurement basis to each qubit.
type BasisString []Basis

func ParseBasisString(s string) (BasisString, error) {
	bs := make(BasisString, 0, len(s))
	for _, c := range s {
		b, err := ParseBasis(c)
		if err != nil {
			return nil, err
		}
		bs = append(bs, b)
	}
	return bs, nil
}

func UniformBasis(b Basis, n int) BasisString {
	bs := make(BasisString, n)
	for i := range bs {
		bs[i] = b
	}
	return bs
}

func AllX(n int) BasisString {
	return UniformBasis(BasisX, n)
}

func AllY(n int) BasisString {
	return UniformBasis(BasisY, n)
}

func AllZ(n int) BasisString {
	return UniformBasis(BasisZ, n)
}

func (bs BasisString) String() string {
	var sb strings.Builder
	for _, b := range bs {
		sb.WriteString(b.String())
	}
	return sb.String()
}

func (bs BasisString) MarshalText() ([]byte, error) {
	return []byte(bs.String()), nil
}

func (bs *BasisString) UnmarshalText(text []byte) error {
	parsed, err := ParseBasisString(string(text))
	if err != nil {
		return err
	}
	*bs = parsed
	return nil
}

type EntanglerType int

const (
	EntanglerCX EntanglerType = iota
	EntanglerCZ
)

func ParseEntangler(s string) (EntanglerType, error) {
	switch strings.ToLower(s) {
	case "cx", "cnot":
		return EntanglerCX, nil
	case "cz":
		return EntanglerCZ, nil
	default:
		return 0, core.NewInvalidGateParameter(fmt.Sprintf("unknown entangler: %s", s))
	}
}

func (e EntanglerType) String() string {
	switch e {
	case EntanglerCZ:
		return "cz"
	default:
		return "cx"
	}
}

// Gate returns the entangling gate between control c and target t.
func (e EntanglerType) Gate(c, t int) Gate {
	if e == EntanglerCZ {
		return CZ(c, t)
	}
	return CX(c, t)
}

func (e EntanglerType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EntanglerType) UnmarshalText(text []byte) error {
	parsed, err := ParseEntangler(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
