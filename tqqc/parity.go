package tqqc

import (
	"github.com/oqtopus-team/niso-engine/circuit"
	"github.com/oqtopus-team/niso-engine/core"
)

func IsEven(bitstring string) bool {
	return circuit.Popcount(bitstring)%2 == 0
}

func IsOdd(bitstring string) bool {
	return !IsEven(bitstring)
}

// ParitySign is +1 for an even number of ones and -1 otherwise.
func ParitySign(bitstring string) int {
	if IsEven(bitstring) {
		return 1
	}
	return -1
}

// PEven is the fraction of even outcomes; 0.5 when counts are empty.
func PEven(counts core.Counts) float64 {
	total := counts.Total()
	if total == 0 {
		return 0.5
	}
	var even uint64
	for bs, n := range counts {
		if IsEven(bs) {
			even += uint64(n)
		}
	}
	return float64(even) / float64(total)
}

func POdd(counts core.Counts) float64 {
	return 1 - PEven(counts)
}

// Expectation is the parity expectation PEven - POdd normalised by the
// observed total; 0 when counts are empty.
func Expectation(counts core.Counts) float64 {
	total := counts.Total()
	if total == 0 {
		return 0
	}
	var sum int64
	for bs, n := range counts {
		sum += int64(ParitySign(bs)) * int64(n)
	}
	return float64(sum) / float64(total)
}

// BuildCircuit returns the parity circuit of cfg at theta+delta.
func BuildCircuit(cfg Config, theta, delta float64) (*circuit.Circuit, error) {
	return circuit.TqqcParityCircuit(cfg.Qubits, theta, delta, cfg.Entangler, cfg.Basis)
}
