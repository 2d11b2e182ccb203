package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/oqtopus-team/niso-engine/calibration"
	"github.com/oqtopus-team/niso-engine/circuit"
	"github.com/oqtopus-team/niso-engine/core"
	"github.com/oqtopus-team/niso-engine/log"
	"github.com/oqtopus-team/niso-engine/optimizer"
	"github.com/oqtopus-team/niso-engine/tqqc"
	"go.uber.org/zap"
)

// RunOptions override the optimizer setting. Unset options keep the value
// from the settings file or the preset.
type RunOptions struct {
	Qubits    *int     `long:"qubits" description:"number of qubits"`
	Mode      *string  `long:"mode" description:"preset" choice:"full" choice:"quick" choice:"benchmark"`
	Hardware  *string  `long:"hardware" description:"hardware target" choice:"ibm" choice:"trapped_ion" choice:"neutral_atom" choice:"ideal"`
	Points    *int     `long:"points" description:"outer iterations"`
	Shots     *int     `long:"shots" description:"shots per circuit"`
	Noise     *float64 `long:"noise" description:"depolarizing noise level; sets 1q=p, 2q=10p, readout=p/4"`
	StepAmp   *float64 `long:"step-amp" description:"initial step amplitude"`
	InnerMax  *int     `long:"inner-max" description:"maximum inner iterations"`
	NoDynamic bool     `long:"no-dynamic-inner" description:"disable dynamic inner iterations and early stop"`
	StatTest  bool     `long:"stat-test" description:"use the statistical test to choose directions"`
	SigMode   *string  `long:"sig-mode" description:"critical value mode" choice:"fixed" choice:"adaptive"`
	SigLevel  *float64 `long:"sig-level" description:"confidence level"`
	DeltaMode *string  `long:"delta-mode" description:"delta update mode" choice:"track" choice:"reset"`
	Entangler *string  `long:"entangler" description:"entangling gate" choice:"cx" choice:"cz"`
	Basis     *string  `long:"basis" description:"measurement basis per qubit, e.g. XXXXX"`
	T1        *float64 `long:"t1" description:"T1 in microseconds"`
	T2        *float64 `long:"t2" description:"T2 in microseconds"`
	Seed      *int64   `long:"seed" description:"random seed"`
}

func (o *RunOptions) apply(c optimizer.Config) (optimizer.Config, error) {
	if o.Mode != nil {
		m, err := optimizer.ParseMode(*o.Mode)
		if err != nil {
			return c, err
		}
		switch m {
		case optimizer.ModeQuick:
			c = optimizer.Quick(c.Qubits).WithHardware(c.Hardware)
		case optimizer.ModeBenchmark:
			c = optimizer.Benchmark(c.Qubits).WithHardware(c.Hardware)
		}
		c.Mode = m
	}
	if o.Hardware != nil {
		h, err := optimizer.ParseHardware(*o.Hardware)
		if err != nil {
			return c, err
		}
		c = c.WithHardware(h)
	}
	if o.Qubits != nil {
		c = c.WithQubits(*o.Qubits)
	}
	if o.Points != nil {
		c.Points = *o.Points
	}
	if o.Shots != nil {
		c.Shots = *o.Shots
	}
	if o.Noise != nil {
		c = c.WithDepolNoise(*o.Noise)
	}
	if o.StepAmp != nil {
		c.StepAmp = *o.StepAmp
	}
	if o.InnerMax != nil {
		c.InnerMax = *o.InnerMax
	}
	if o.NoDynamic {
		c.DynamicInner = false
	}
	if o.StatTest {
		c.UseStatisticalTest = true
	}
	if o.SigMode != nil {
		m, err := tqqc.ParseSigMode(*o.SigMode)
		if err != nil {
			return c, err
		}
		c.SigMode = m
	}
	if o.SigLevel != nil {
		c.SigLevel = *o.SigLevel
	}
	if o.DeltaMode != nil {
		m, err := tqqc.ParseDeltaMode(*o.DeltaMode)
		if err != nil {
			return c, err
		}
		c.DeltaMode = m
	}
	if o.Entangler != nil {
		e, err := circuit.ParseEntangler(*o.Entangler)
		if err != nil {
			return c, err
		}
		c.Entangler = e
	}
	if o.Basis != nil {
		bs, err := circuit.ParseBasisString(*o.Basis)
		if err != nil {
			return c, err
		}
		c.Basis = bs
	}
	if o.T1 != nil {
		c.T1Us = *o.T1
	}
	if o.T2 != nil {
		c.T2Us = *o.T2
	}
	if o.Seed != nil {
		c = c.WithSeed(*o.Seed)
	}
	return c, nil
}

type optimizeCmd struct {
	RunOptions
	JSON       bool   `long:"json" description:"print the result as JSON"`
	Output     string `long:"output" description:"also write the JSON result to this file"`
	MetricsLog bool   `long:"metrics-log" description:"write periodic progress metrics (see [com.metrics_log])"`
}

func (c *optimizeCmd) Execute(args []string) error {
	logger, container, err := setup()
	defer logger.Sync()
	if err != nil {
		return err
	}
	s := optimizerSetting()
	cfg, err := c.apply(s.Config())
	if err != nil {
		return err
	}
	cfg.Workers = niso.Conf.BatchWorkers

	return container.Invoke(func(cache *calibration.Cache, info *calibration.Info, progress *log.Progress) error {
		o, err := optimizer.New(cfg, cache)
		if err != nil {
			return err
		}
		switch {
		case info != nil:
			o.CalibrateWith(info)
		case s.CalibrationBackend != "":
			if _, err := o.Calibrate(s.CalibrationBackend); err != nil {
				return err
			}
		}
		o.SetObserver(progress.Observe)
		if !cfg.IsRecommended() {
			zap.L().Warn(fmt.Sprintf("outside the recommended regime/noise:%g/shots:%d", cfg.Noise, cfg.Shots))
		}

		var res *optimizer.Result
		rc := core.NewRunContext(context.Background())
		rc.AddSignalHandler()
		if err := c.addLogTasks(rc, progress); err != nil {
			return err
		}
		rc.AddWorker("optimize", func(ctx context.Context) error {
			r, err := o.Optimize(ctx)
			if err != nil {
				return err
			}
			res = r
			return nil
		})
		if err := rc.Run(); err != nil {
			return err
		}
		if res == nil {
			return nil
		}
		return c.report(res)
	})
}

func (c *optimizeCmd) addLogTasks(rc *core.RunContext, progress *log.Progress) error {
	if niso.Conf.LogLevel == "debug" {
		if err := rc.AddPeriodicTask(&core.PeriodicTask{
			Period:           time.Minute,
			PeriodicTaskImpl: &log.VersionLogTaskImpl{},
		}, log.VersionLogTaskName); err != nil {
			return err
		}
	}
	if !c.MetricsLog {
		return nil
	}
	m := metricsLogTask()
	m.SetProgress(progress)
	return rc.AddPeriodicTask(&core.PeriodicTask{Period: m.Period(), PeriodicTaskImpl: m}, log.MetricsLogTaskName)
}

func (c *optimizeCmd) report(res *optimizer.Result) error {
	if c.Output != "" {
		if err := os.WriteFile(c.Output, []byte(res.ToString()), 0644); err != nil {
			return err
		}
	}
	if c.JSON {
		fmt.Println(res.ToString())
		return nil
	}
	printSummary(res)
	return nil
}

func printSummary(res *optimizer.Result) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Println(bold(fmt.Sprintf("TQQC optimization (%s, %s, %d qubits)", res.Run.Mode, res.Run.Hardware, res.Run.Qubits)))
	t := res.Tqqc
	improvement := fmt.Sprintf("%+.4f (%+.2f%%)", t.Improvement, t.ImprovementPercent())
	if t.Improved() {
		improvement = color.GreenString("%s", improvement)
	} else {
		improvement = color.YellowString("%s", improvement)
	}
	fmt.Printf("  parity      %.4f -> %.4f\n", t.ParityBaseline, t.ParityFinal)
	fmt.Printf("  improvement %s\n", improvement)
	fmt.Printf("  delta_opt   %.4f\n", t.DeltaOpt)
	fmt.Printf("  iterations  %d (%s, ties %d, significant %d)\n", t.Iterations, t.Status, t.TiesCount, t.SignificantMoves)
	if s := res.Schedule; s != nil {
		fmt.Printf("  schedule    %.1fns, depth %d, parallelism %.2f, est. fidelity %.4f\n",
			s.TotalDurationNs, s.CriticalDepth, s.Parallelism, s.EstimatedFidelity)
	}
	if cal := res.Calibration; cal != nil {
		fmt.Printf("  calibration %s (T1 %.1fus, T2 %.1fus, 2q %.4f)\n", cal.Backend, cal.AvgT1Us, cal.AvgT2Us, cal.AvgError2Q)
	}
	fmt.Printf("  executions  %d circuits, %d shots, %dms\n",
		res.Execution.CircuitExecutions, res.Execution.TotalShots, res.Execution.TotalTimeMs)
}
