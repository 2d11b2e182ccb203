package circuit

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/oqtopus-team/niso-engine/core"
	"go.uber.org/zap"
)

// QASM exports the circuit as OpenQASM 2.0 with one statement per line.
func (c *Circuit) QASM() string {
	lines := []string{
		"OPENQASM 2.0;",
		`include "qelib1.inc";`,
		"",
		fmt.Sprintf("qreg q[%d];", c.numQubits),
		fmt.Sprintf("creg c[%d];", c.numQubits),
		"",
	}
	for _, g := range c.gates {
		lines = append(lines, g.QASM())
	}
	return strings.Join(lines, "\n")
}

// FromQASM parses the OpenQASM 2.0 subset written by QASM. Statements for
// gates it does not know are skipped; classical control is not supported.
func FromQASM(qasm string) (*Circuit, error) {
	numQubits := 0
	gates := []Gate{}
	for _, line := range strings.Split(qasm, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "qreg") {
			n, ok, err := parseRegisterSize(line)
			if err != nil {
				return nil, err
			}
			if ok {
				numQubits = n
			}
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") {
			continue
		}
		g, ok, err := parseGateLine(line)
		if err != nil {
			return nil, err
		}
		if !ok {
			zap.L().Debug(fmt.Sprintf("skipping unsupported qasm statement:%s", line))
			continue
		}
		gates = append(gates, g)
	}
	if numQubits == 0 {
		return nil, core.NewInvalidQasm("No qreg declaration found")
	}
	return FromGates(numQubits, gates)
}

func parseRegisterSize(line string) (int, bool, error) {
	start := strings.Index(line, "[")
	end := strings.Index(line, "]")
	if start < 0 || end < start {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(line[start+1 : end]))
	if err != nil {
		return 0, false, nil
	}
	if n <= 0 {
		return 0, false, core.NewInvalidQasm(fmt.Sprintf("register size %d must be positive", n))
	}
	return n, true, nil
}

func parseGateLine(line string) (Gate, bool, error) {
	line = strings.TrimSuffix(strings.TrimSpace(line), ";")
	var name, operands string
	var params []float64
	if open := strings.Index(line, "("); open >= 0 {
		closing := strings.Index(line, ")")
		if closing < open {
			return Gate{}, false, core.NewInvalidQasm(fmt.Sprintf("Missing closing paren: %s", line))
		}
		for _, s := range strings.Split(line[open+1:closing], ",") {
			v, err := parseAngle(s)
			if err != nil {
				return Gate{}, false, core.NewInvalidQasm(fmt.Sprintf("bad parameter %q: %s", s, line))
			}
			params = append(params, v)
		}
		name = strings.TrimSpace(line[:open])
		operands = strings.TrimSpace(line[closing+1:])
	} else {
		parts := strings.SplitN(line, " ", 2)
		if len(parts) < 2 {
			return Gate{}, false, nil
		}
		name, operands = parts[0], parts[1]
	}
	qubits, whole := parseQubits(operands)
	name = strings.ToLower(name)

	one := func(f func(int) Gate) (Gate, bool, error) {
		if len(qubits) < 1 {
			return Gate{}, false, nil
		}
		return f(qubits[0]), true, nil
	}
	two := func(f func(int, int) Gate) (Gate, bool, error) {
		if len(qubits) < 2 {
			return Gate{}, false, nil
		}
		return f(qubits[0], qubits[1]), true, nil
	}
	three := func(f func(int, int, int) Gate) (Gate, bool, error) {
		if len(qubits) < 3 {
			return Gate{}, false, nil
		}
		return f(qubits[0], qubits[1], qubits[2]), true, nil
	}
	rot := func(f func(int, float64) Gate) (Gate, bool, error) {
		if len(qubits) < 1 || len(params) < 1 {
			return Gate{}, false, nil
		}
		return f(qubits[0], params[0]), true, nil
	}
	crot := func(f func(int, int, float64) Gate) (Gate, bool, error) {
		if len(qubits) < 2 || len(params) < 1 {
			return Gate{}, false, nil
		}
		return f(qubits[0], qubits[1], params[0]), true, nil
	}

	switch name {
	case "h":
		return one(H)
	case "x":
		return one(X)
	case "y":
		return one(Y)
	case "z":
		return one(Z)
	case "s":
		return one(S)
	case "sdg":
		return one(Sdg)
	case "t":
		return one(T)
	case "tdg":
		return one(Tdg)
	case "sx":
		return one(SX)
	case "sxdg":
		return one(SXdg)
	case "id":
		return one(ID)
	case "rx":
		return rot(RX)
	case "ry":
		return rot(RY)
	case "rz":
		return rot(RZ)
	case "p", "u1":
		return rot(P)
	case "u", "u3":
		if len(qubits) < 1 || len(params) < 3 {
			return Gate{}, false, nil
		}
		return U(qubits[0], params[0], params[1], params[2]), true, nil
	case "cx", "cnot":
		return two(CX)
	case "cz":
		return two(CZ)
	case "cy":
		return two(CY)
	case "swap":
		return two(Swap)
	case "iswap":
		return two(ISwap)
	case "ecr":
		return two(ECR)
	case "crz":
		return crot(CRZ)
	case "crx":
		return crot(CRX)
	case "cry":
		return crot(CRY)
	case "ccx", "toffoli":
		return three(CCX)
	case "cswap", "fredkin":
		return three(CSwap)
	case "measure":
		if whole {
			return MeasureAll(), true, nil
		}
		return one(Measure)
	case "reset":
		return one(Reset)
	case "barrier":
		return Barrier(qubits...), true, nil
	default:
		return Gate{}, false, nil
	}
}

// parseQubits reads "q[0],q[1]". whole is true when the first operand names
// the register without an index, as in "measure q -> c".
func parseQubits(s string) ([]int, bool) {
	if arrow := strings.Index(s, "->"); arrow >= 0 {
		s = s[:arrow]
	}
	qubits := []int{}
	whole := false
	for i, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		start := strings.Index(part, "[")
		end := strings.Index(part, "]")
		if start < 0 || end < start {
			if i == 0 && part != "" {
				whole = true
			}
			continue
		}
		if q, err := strconv.Atoi(strings.TrimSpace(part[start+1 : end])); err == nil {
			qubits = append(qubits, q)
		}
	}
	return qubits, whole
}

// parseAngle accepts plain numbers and the pi forms qiskit emits: pi, -pi/2, 3*pi/4.
func parseAngle(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	sign := 1.0
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	}
	num, den := s, ""
	if slash := strings.Index(s, "/"); slash >= 0 {
		num, den = s[:slash], s[slash+1:]
	}
	v := 1.0
	for _, factor := range strings.Split(num, "*") {
		if factor == "pi" {
			v *= math.Pi
			continue
		}
		f, err := strconv.ParseFloat(factor, 64)
		if err != nil {
			return 0, err
		}
		v *= f
	}
	if den != "" {
		d, err := strconv.ParseFloat(den, 64)
		if err != nil {
			return 0, err
		}
		v /= d
	}
	return sign * v, nil
}
