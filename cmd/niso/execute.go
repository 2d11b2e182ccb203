package main

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/oqtopus-team/niso-engine/backend"
	"github.com/oqtopus-team/niso-engine/calibration"
	"github.com/oqtopus-team/niso-engine/core"
	"github.com/oqtopus-team/niso-engine/noise"
)

type executeCmd struct {
	CircuitOptions
	Shots int     `long:"shots" description:"number of shots" default:"1024"`
	Noise float64 `long:"noise" description:"depolarizing noise level; ignored with a calibration snapshot" default:"0"`
	JSON  bool    `long:"json" description:"print the execution result as JSON"`
}

func (c *executeCmd) Execute(args []string) error {
	logger, container, err := setup()
	defer logger.Sync()
	if err != nil {
		return err
	}
	circ, err := c.load()
	if err != nil {
		return err
	}
	return container.Invoke(func(info *calibration.Info) error {
		sim, err := c.simulator(circ.NumQubits(), info)
		if err != nil {
			return err
		}
		res, err := sim.Execute(context.Background(), circ, c.Shots)
		if err != nil {
			return err
		}
		if c.JSON {
			fmt.Println(core.ToPrettyJSON(res))
			return nil
		}
		fmt.Print(circ.String())
		printCounts(res)
		return nil
	})
}

func (c *executeCmd) simulator(qubits int, info *calibration.Info) (*backend.Simulator, error) {
	var sim *backend.Simulator
	if info != nil {
		sim = backend.NewSimulator(qubits, info.NoiseModel()).WithCalibration(info)
	} else {
		m, err := noise.FromDepol(c.Noise)
		if err != nil {
			return nil, err
		}
		if c.Noise == 0 {
			m = noise.Ideal()
		}
		sim = backend.NewSimulator(qubits, m)
	}
	if c.Seed != nil {
		sim = sim.WithSeed(*c.Seed)
	}
	return sim.WithWorkers(niso.Conf.BatchWorkers), nil
}

func printCounts(res *backend.ExecutionResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Bitstring", "Count", "Probability"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, k := range res.Counts.SortedKeys() {
		table.Append([]string{
			k,
			fmt.Sprintf("%d", res.Counts[k]),
			fmt.Sprintf("%.4f", res.Probability(k)),
		})
	}
	table.Render()
	fmt.Printf("shots %d, parity %.4f, backend %s, %dms\n",
		res.Shots, res.ParityExpectation(), res.Metadata.Backend, res.Metadata.ExecutionTimeMs)
}
