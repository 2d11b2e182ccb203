package main

import (
	"fmt"
	"strings"

	"github.com/oqtopus-team/niso-engine/circuit"
	"github.com/oqtopus-team/niso-engine/common"
)

// CircuitOptions select the circuit of execute and schedule: a QASM file
// when QasmPath is set, otherwise a named generator circuit.
type CircuitOptions struct {
	QasmPath string  `long:"qasm" description:"OpenQASM 2.0 file to load"`
	Circuit  string  `long:"circuit" description:"generated circuit" default:"ghz" choice:"ghz" choice:"bell" choice:"w" choice:"qft" choice:"hea" choice:"random" choice:"tqqc"`
	Qubits   int     `long:"qubits" description:"number of qubits of a generated circuit" default:"5"`
	Depth    int     `long:"depth" description:"layers of hea and random circuits" default:"2"`
	Theta    float64 `long:"theta" description:"theta of the tqqc circuit" default:"0"`
	Delta    float64 `long:"delta" description:"delta of the tqqc circuit" default:"0"`
	Seed     *int64  `long:"seed" description:"seed of random circuits and of the simulator"`
}

func (o *CircuitOptions) load() (*circuit.Circuit, error) {
	if o.QasmPath != "" {
		src, err := common.ReadFile(o.QasmPath)
		if err != nil {
			return nil, err
		}
		c, err := circuit.FromQASM(src)
		if err != nil {
			return nil, err
		}
		if c.Name() == "" {
			c.SetName(o.QasmPath)
		}
		return c, nil
	}
	return generate(o.Circuit, o.Qubits, o.Depth, o.Theta, o.Delta, o.Seed)
}

func generate(name string, qubits, depth int, theta, delta float64, seed *int64) (*circuit.Circuit, error) {
	g := circuit.NewGenerator()
	if seed != nil {
		g = circuit.NewSeededGenerator(*seed)
	}
	var c *circuit.Circuit
	var err error
	switch strings.ToLower(name) {
	case "ghz":
		c, err = g.GHZ(qubits)
	case "bell":
		c, err = g.Bell()
	case "w":
		c, err = g.WState(qubits)
	case "qft":
		c, err = g.QFT(qubits)
	case "hea":
		c, err = g.HEA(qubits, depth)
	case "random":
		c, err = g.Random(qubits, depth)
	case "tqqc":
		return g.TqqcParity(qubits, theta, delta)
	default:
		return nil, fmt.Errorf("unknown circuit: %s", name)
	}
	if err != nil {
		return nil, err
	}
	return withMeasurement(c)
}

// withMeasurement appends a full measurement unless the circuit already
// measures.
func withMeasurement(c *circuit.Circuit) (*circuit.Circuit, error) {
	if c.CountMeasurements() > 0 {
		return c, nil
	}
	m := c.Clone()
	if err := m.AddGate(circuit.MeasureAll()); err != nil {
		return nil, err
	}
	return m, nil
}
