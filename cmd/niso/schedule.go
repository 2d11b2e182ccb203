package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/oqtopus-team/niso-engine/calibration"
	"github.com/oqtopus-team/niso-engine/noise"
	"github.com/oqtopus-team/niso-engine/scheduler"
)

type scheduleCmd struct {
	CircuitOptions
	GateTimes string `long:"gate-times" description:"gate time preset; the calibration snapshot wins when set" default:"default" choice:"default" choice:"superconducting" choice:"trapped_ion" choice:"neutral_atom" choice:"photonic"`
}

func (c *scheduleCmd) Execute(args []string) error {
	logger, container, err := setup()
	defer logger.Sync()
	if err != nil {
		return err
	}
	circ, err := c.load()
	if err != nil {
		return err
	}
	return container.Invoke(func(s *scheduler.Scheduler, info *calibration.Info) error {
		if info == nil && c.GateTimes != "default" {
			gt, err := noise.GateTimesPreset(c.GateTimes)
			if err != nil {
				return err
			}
			s = scheduler.NewScheduler(gt)
		}
		vectors := noise.VectorSetFromModel(circ.NumQubits(), noise.IBMTypical())
		if info != nil {
			vectors = info.NoiseVectors()
		}
		sched := s.ComputeASAP(circ)
		printSchedule(sched)
		fmt.Printf("estimated decoherence %.5f, estimated fidelity %.4f\n",
			sched.EstimateDecoherence(vectors.Vectors), s.ScoreCircuit(circ, vectors.Vectors))
		return nil
	})
}

func printSchedule(sched *scheduler.CircuitSchedule) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Gate", "Qubits", "Start (ns)", "End (ns)"})
	for _, g := range sched.Gates() {
		table.Append([]string{
			fmt.Sprintf("%d", g.Index),
			g.Gate.Name(),
			fmt.Sprintf("%v", g.Qubits()),
			fmt.Sprintf("%.1f", g.StartNs),
			fmt.Sprintf("%.1f", g.EndNs),
		})
	}
	table.Render()

	idle := tablewriter.NewWriter(os.Stdout)
	idle.SetHeader([]string{"Qubit", "End (ns)", "Idle (ns)"})
	ends := sched.QubitEndTimes()
	for q, t := range sched.IdleTimes() {
		idle.Append([]string{fmt.Sprintf("%d", q), fmt.Sprintf("%.1f", ends[q]), fmt.Sprintf("%.1f", t)})
	}
	idle.Render()

	bottleneck, _ := scheduler.BottleneckQubit(sched)
	fmt.Printf("duration %.1fns (%.3fus), critical depth %d, parallelism %.2f, efficiency %.2f, bottleneck q%d, %d gates\n",
		sched.TotalDurationNs(), sched.TotalDurationUs(), sched.CriticalPathDepth(),
		sched.ParallelismFactor(), scheduler.SchedulingEfficiency(sched), bottleneck, sched.NumGates())
}
