package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/oqtopus-team/niso-engine/calibration"
	"github.com/oqtopus-team/niso-engine/core"
	"github.com/oqtopus-team/niso-engine/optimizer"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type sweepCmd struct {
	RunOptions
	Noises   []float64 `long:"level" description:"noise level to run; repeat for several (default: [com.optimizer] sweep_noises)"`
	Parallel int       `long:"parallel" description:"noise levels optimized at once; 0 uses the setting" default:"0"`
}

func (c *sweepCmd) Execute(args []string) error {
	logger, container, err := setup()
	defer logger.Sync()
	if err != nil {
		return err
	}
	s := optimizerSetting()
	base, err := c.apply(s.Config())
	if err != nil {
		return err
	}
	noises := c.Noises
	if len(noises) == 0 {
		noises = s.SweepNoises
	}
	parallel := c.Parallel
	if parallel <= 0 {
		parallel = s.SweepParallel
	}

	return container.Invoke(func(cache *calibration.Cache) error {
		var points []optimizer.SweepPoint
		var sweepErr error
		rc := core.NewRunContext(context.Background())
		rc.AddSignalHandler()
		rc.AddWorker("sweep", func(ctx context.Context) error {
			points, sweepErr = optimizer.Sweep(ctx, base, noises, parallel, cache)
			return nil
		})
		if err := rc.Run(); err != nil {
			return err
		}
		for _, e := range multierr.Errors(sweepErr) {
			zap.L().Warn("sweep point failed", zap.Error(e))
		}
		printSweep(base, points)
		return nil
	})
}

func printSweep(base optimizer.Config, points []optimizer.SweepPoint) {
	fmt.Printf("noise sweep: %d qubits, %s, %d shots, %d points\n", base.Qubits, base.Hardware, base.Shots, base.Points)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Noise", "Baseline", "Final", "Improvement", "Delta", "Iterations", "Executions", "Status"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, p := range points {
		if p.Err != nil {
			table.Append([]string{fmt.Sprintf("%.3f", p.Noise), "-", "-", "-", "-", "-", "-", color.RedString("failed")})
			continue
		}
		t := p.Result.Tqqc
		table.Append([]string{
			fmt.Sprintf("%.3f", p.Noise),
			fmt.Sprintf("%.4f", t.ParityBaseline),
			fmt.Sprintf("%.4f", t.ParityFinal),
			fmt.Sprintf("%+.2f%%", t.ImprovementPercent()),
			fmt.Sprintf("%.4f", t.DeltaOpt),
			fmt.Sprintf("%d", t.Iterations),
			fmt.Sprintf("%d", p.Result.Execution.CircuitExecutions),
			t.Status.String(),
		})
	}
	table.Render()
}
