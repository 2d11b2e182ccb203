package circuit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oqtopus-team/niso-engine/core"
)

type Kind int

const (
	KindH Kind = iota
	KindX
	KindY
	KindZ
	KindS
	KindSdg
	KindT
	KindTdg
	KindSX
	KindSXdg
	KindID
	KindRX
	KindRY
	KindRZ
	KindU
	KindP

	KindCX
	KindCZ
	KindCY
	KindSwap
	KindISwap
	KindECR
	KindCRZ
	KindCRX
	KindCRY

	KindCCX
	KindCSwap

	KindMeasure
	KindMeasureAll
	KindBarrier
	KindReset
)

var kindNames = map[Kind]string{
	KindH:          "h",
	KindX:          "x",
	KindY:          "y",
	KindZ:          "z",
	KindS:          "s",
	KindSdg:        "sdg",
	KindT:          "t",
	KindTdg:        "tdg",
	KindSX:         "sx",
	KindSXdg:       "sxdg",
	KindID:         "id",
	KindRX:         "rx",
	KindRY:         "ry",
	KindRZ:         "rz",
	KindU:          "u",
	KindP:          "p",
	KindCX:         "cx",
	KindCZ:         "cz",
	KindCY:         "cy",
	KindSwap:       "swap",
	KindISwap:      "iswap",
	KindECR:        "ecr",
	KindCRZ:        "crz",
	KindCRX:        "crx",
	KindCRY:        "cry",
	KindCCX:        "ccx",
	KindCSwap:      "cswap",
	KindMeasure:    "measure",
	KindMeasureAll: "measure",
	KindBarrier:    "barrier",
	KindReset:      "reset",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Gate is one circuit operation. The zero value is not a valid gate; use the
// constructors below. Gates are never modified after construction.
type Gate struct {
	kind   Kind
	qubits []int
	params []float64
}

func newGate(k Kind, params []float64, qubits ...int) Gate {
	return Gate{kind: k, qubits: qubits, params: params}
}

func H(q int) Gate    { return newGate(KindH, nil, q) }
func X(q int) Gate    { return newGate(KindX, nil, q) }
func Y(q int) Gate    { return newGate(KindY, nil, q) }
func Z(q int) Gate    { return newGate(KindZ, nil, q) }
func S(q int) Gate    { return newGate(KindS, nil, q) }
func Sdg(q int) Gate  { return newGate(KindSdg, nil, q) }
func T(q int) Gate    { return newGate(KindT, nil, q) }
func Tdg(q int) Gate  { return newGate(KindTdg, nil, q) }
func SX(q int) Gate   { return newGate(KindSX, nil, q) }
func SXdg(q int) Gate { return newGate(KindSXdg, nil, q) }
func ID(q int) Gate   { return newGate(KindID, nil, q) }

func RX(q int, theta float64) Gate { return newGate(KindRX, []float64{theta}, q) }
func RY(q int, theta float64) Gate { return newGate(KindRY, []float64{theta}, q) }
func RZ(q int, theta float64) Gate { return newGate(KindRZ, []float64{theta}, q) }

// U is the generic single-qubit rotation u(theta, phi, lambda).
func U(q int, theta, phi, lambda float64) Gate {
	return newGate(KindU, []float64{theta, phi, lambda}, q)
}

func P(q int, lambda float64) Gate { return newGate(KindP, []float64{lambda}, q) }

func CX(c, t int) Gate    { return newGate(KindCX, nil, c, t) }
func CZ(c, t int) Gate    { return newGate(KindCZ, nil, c, t) }
func CY(c, t int) Gate    { return newGate(KindCY, nil, c, t) }
func Swap(a, b int) Gate  { return newGate(KindSwap, nil, a, b) }
func ISwap(a, b int) Gate { return newGate(KindISwap, nil, a, b) }
func ECR(c, t int) Gate   { return newGate(KindECR, nil, c, t) }

func CRZ(c, t int, theta float64) Gate { return newGate(KindCRZ, []float64{theta}, c, t) }
func CRX(c, t int, theta float64) Gate { return newGate(KindCRX, []float64{theta}, c, t) }
func CRY(c, t int, theta float64) Gate { return newGate(KindCRY, []float64{theta}, c, t) }

// CCX is the Toffoli gate.
func CCX(c1, c2, t int) Gate { return newGate(KindCCX, nil, c1, c2, t) }

// CSwap is the Fredkin gate.
func CSwap(c, a, b int) Gate { return newGate(KindCSwap, nil, c, a, b) }

func Measure(q int) Gate { return newGate(KindMeasure, nil, q) }

// MeasureAll touches no explicit qubit; it acts on the whole register.
func MeasureAll() Gate { return newGate(KindMeasureAll, nil) }

// Barrier with no qubits spans the whole register.
func Barrier(qubits ...int) Gate {
	qs := make([]int, len(qubits))
	copy(qs, qubits)
	return newGate(KindBarrier, nil, qs...)
}

func Reset(q int) Gate { return newGate(KindReset, nil, q) }

func (g Gate) Kind() Kind {
	return g.kind
}

func (g Gate) Name() string {
	return g.kind.String()
}

// Qubits returns a copy of the qubit indices the gate touches.
func (g Gate) Qubits() []int {
	qs := make([]int, len(g.qubits))
	copy(qs, g.qubits)
	return qs
}

func (g Gate) NumQubits() int {
	return len(g.qubits)
}

func (g Gate) Qubit(i int) int {
	return g.qubits[i]
}

func (g Gate) Params() []float64 {
	ps := make([]float64, len(g.params))
	copy(ps, g.params)
	return ps
}

func (g Gate) Param(i int) float64 {
	return g.params[i]
}

// Angle returns the first rotation parameter, or 0 for fixed gates.
func (g Gate) Angle() float64 {
	if len(g.params) == 0 {
		return 0
	}
	return g.params[0]
}

func (g Gate) IsSingleQubit() bool {
	return g.kind >= KindH && g.kind <= KindP
}

func (g Gate) IsTwoQubit() bool {
	return g.kind >= KindCX && g.kind <= KindCRY
}

func (g Gate) IsThreeQubit() bool {
	return g.kind == KindCCX || g.kind == KindCSwap
}

func (g Gate) IsParameterized() bool {
	switch g.kind {
	case KindRX, KindRY, KindRZ, KindU, KindP, KindCRZ, KindCRX, KindCRY:
		return true
	default:
		return false
	}
}

func (g Gate) IsMeasurement() bool {
	return g.kind == KindMeasure || g.kind == KindMeasureAll
}

func (g Gate) IsBarrier() bool {
	return g.kind == KindBarrier
}

func (g Gate) Touches(q int) bool {
	for _, x := range g.qubits {
		if x == q {
			return true
		}
	}
	return false
}

// Validate checks angles are finite.
func (g Gate) Validate() error {
	for _, p := range g.params {
		if isNonFinite(p) {
			return core.NewInvalidAngle(p)
		}
	}
	return nil
}

// DurationNs is the nominal superconducting duration of the gate.
func (g Gate) DurationNs() float64 {
	var s float64
	switch g.kind {
	case KindH:
		s = core.GateSecondsH
	case KindX:
		s = core.GateSecondsX
	case KindY:
		s = core.GateSecondsY
	case KindZ:
		s = core.GateSecondsZ
	case KindS:
		s = core.GateSecondsS
	case KindSdg:
		s = core.GateSecondsSDG
	case KindT:
		s = core.GateSecondsT
	case KindTdg:
		s = core.GateSecondsTDG
	case KindSX, KindSXdg:
		s = core.GateSecondsSX
	case KindID, KindBarrier:
		s = 0
	case KindRX:
		s = core.GateSecondsRX
	case KindRY:
		s = core.GateSecondsRY
	case KindRZ, KindP:
		s = core.GateSecondsRZ
	case KindU:
		s = core.GateSecondsRX * 3
	case KindCX, KindCY, KindECR:
		s = core.GateSecondsCX
	case KindCZ:
		s = core.GateSecondsCZ
	case KindSwap, KindISwap:
		s = core.GateSecondsSWAP
	case KindCRZ, KindCRX, KindCRY:
		s = core.GateSecondsCX * 2
	case KindCCX:
		s = core.GateSecondsCX * 6
	case KindCSwap:
		s = core.GateSecondsCX * 8
	case KindMeasure, KindMeasureAll:
		s = core.NsToS(core.MeasurementNs)
	case KindReset:
		s = core.NsToS(core.ResetNs)
	}
	return s * 1e9
}

func formatAngle(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatQubits(qs []int) string {
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = fmt.Sprintf("q[%d]", q)
	}
	return strings.Join(parts, ",")
}

// QASM renders the gate as one OpenQASM 2.0 statement.
func (g Gate) QASM() string {
	switch g.kind {
	case KindMeasure:
		return fmt.Sprintf("measure q[%d] -> c[%d];", g.qubits[0], g.qubits[0])
	case KindMeasureAll:
		return "measure q -> c;"
	case KindBarrier:
		if len(g.qubits) == 0 {
			return "barrier q;"
		}
		return fmt.Sprintf("barrier %s;", formatQubits(g.qubits))
	}
	if len(g.params) == 0 {
		return fmt.Sprintf("%s %s;", g.Name(), formatQubits(g.qubits))
	}
	ps := make([]string, len(g.params))
	for i, p := range g.params {
		ps[i] = formatAngle(p)
	}
	return fmt.Sprintf("%s(%s) %s;", g.Name(), strings.Join(ps, ","), formatQubits(g.qubits))
}

func (g Gate) String() string {
	return g.QASM()
}
