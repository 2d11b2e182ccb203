package optimizer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-openapi/strfmt"
	"github.com/oqtopus-team/niso-engine/backend"
	"github.com/oqtopus-team/niso-engine/calibration"
	"github.com/oqtopus-team/niso-engine/circuit"
	"github.com/oqtopus-team/niso-engine/noise"
	"github.com/oqtopus-team/niso-engine/scheduler"
	"github.com/oqtopus-team/niso-engine/tqqc"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Optimizer runs TQQC on a backend built from its Config. A calibration
// snapshot, when attached, replaces the preset noise model and gate times.
type Optimizer struct {
	config      Config
	cache       *calibration.Cache
	calibration *calibration.Info
	backend     backend.Backend
	observer    tqqc.Observer
}

// New validates cfg. A nil cache gets the default one-hour cache.
func New(cfg Config, cache *calibration.Cache) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cache == nil {
		cache = calibration.NewDefaultCache()
	}
	return &Optimizer{config: cfg, cache: cache}, nil
}

func (o *Optimizer) Config() Config {
	return o.config
}

func (o *Optimizer) Cache() *calibration.Cache {
	return o.cache
}

func (o *Optimizer) SetCalibration(info *calibration.Info) {
	o.calibration = info
}

func (o *Optimizer) CalibrationInfo() *calibration.Info {
	return o.calibration
}

// SetBackend overrides the simulator that Backend would otherwise build.
func (o *Optimizer) SetBackend(b backend.Backend) {
	o.backend = b
}

func (o *Optimizer) SetObserver(obs tqqc.Observer) {
	o.observer = obs
}

func (o *Optimizer) noiseModel() *noise.Model {
	if o.calibration != nil {
		return o.calibration.NoiseModel()
	}
	return o.config.NoiseModel()
}

func (o *Optimizer) gateTimes() *noise.GateTimes {
	if o.calibration != nil {
		return o.calibration.GateTimes()
	}
	return o.config.GateTimes()
}

// Backend returns the configured backend or a simulator sized to the run.
func (o *Optimizer) Backend() backend.Backend {
	if o.backend != nil {
		return o.backend
	}
	sim := backend.NewSimulator(o.config.Qubits, o.noiseModel()).WithWorkers(o.config.Workers)
	if o.config.Seed != nil {
		sim = sim.WithSeed(*o.config.Seed)
	}
	if o.calibration != nil {
		sim = sim.WithCalibration(o.calibration)
	}
	return sim
}

func (o *Optimizer) Scheduler() *scheduler.Scheduler {
	return scheduler.NewScheduler(o.gateTimes())
}

func (o *Optimizer) Optimize(ctx context.Context) (res *Result, err error) {
	ctx, span := startOptimizeSpan(ctx, o.config)
	defer span.End()
	start := time.Now()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		recordOptimizeMetrics(ctx, time.Since(start), res, err == nil)
	}()

	b := o.Backend()
	engine, err := tqqc.NewEngine(o.config.TqqcConfig(), b)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create tqqc engine")
	}
	if o.observer != nil {
		engine.SetObserver(o.observer)
	}
	zap.L().Info(fmt.Sprintf("start optimization/%s/backend:%s", o.config, b.Name()))
	tr, err := engine.Optimize(ctx)
	if err != nil {
		return nil, err
	}

	sched, err := o.scheduleMetrics()
	if err != nil {
		zap.L().Warn("failed to compute schedule metrics", zap.Error(err))
	}

	executions := tr.CircuitExecutions()
	res = &Result{
		Run: RunSummary{
			Qubits:   o.config.Qubits,
			Mode:     o.config.Mode,
			Hardware: o.config.Hardware,
			Noise:    o.config.Noise,
			Shots:    o.config.Shots,
			Points:   o.config.Points,
			Seed:     o.config.Seed,
			Backend:  b.Name(),
		},
		Tqqc:        tr,
		Schedule:    sched,
		Calibration: summarize(o.calibration),
		Execution: ExecutionMetrics{
			TotalTimeMs:       time.Since(start).Milliseconds(),
			CircuitExecutions: executions,
			TotalShots:        executions * o.config.Shots,
			EarlyStopped:      tr.EarlyStopped,
		},
	}
	setOptimizeSpanResult(span, res)
	zap.L().Info(fmt.Sprintf("finished optimization/executions:%d/time_ms:%d",
		executions, res.Execution.TotalTimeMs))
	return res, nil
}

// scheduleMetrics schedules the parity circuit at theta = delta = 0; the
// angles do not change its timing.
func (o *Optimizer) scheduleMetrics() (*ScheduleMetrics, error) {
	c, err := tqqc.BuildCircuit(o.config.TqqcConfig(), 0, 0)
	if err != nil {
		return nil, err
	}
	s := o.Scheduler()
	sched := s.ComputeASAP(c)
	vectors := o.noiseVectors().Vectors
	bottleneck, _ := scheduler.BottleneckQubit(sched)
	return &ScheduleMetrics{
		TotalDurationNs:      sched.TotalDurationNs(),
		CriticalDepth:        sched.CriticalPathDepth(),
		Parallelism:          sched.ParallelismFactor(),
		IdleTimeNs:           sched.TotalIdleTime(),
		BottleneckQubit:      bottleneck,
		EstimatedDecoherence: sched.EstimateDecoherence(vectors),
		EstimatedFidelity:    s.ScoreCircuit(c, vectors),
	}, nil
}

func (o *Optimizer) noiseVectors() *noise.VectorSet {
	if o.calibration != nil {
		return o.calibration.NoiseVectors()
	}
	return noise.VectorSetFromModel(o.config.Qubits, o.config.NoiseModel())
}

func summarize(info *calibration.Info) *CalibrationSummary {
	if info == nil {
		return nil
	}
	return &CalibrationSummary{
		Backend:    info.BackendName,
		AvgT1Us:    info.AvgT1(),
		AvgT2Us:    info.AvgT2(),
		AvgError1Q: info.AvgError1Q(),
		AvgError2Q: info.AvgError2Q(),
		AvgReadout: info.AvgReadout(),
		Timestamp:  strfmt.DateTime(info.Timestamp),
	}
}

// MeasureParity runs the parity circuit once at (theta, delta).
func (o *Optimizer) MeasureParity(ctx context.Context, theta, delta float64) (float64, error) {
	engine, err := tqqc.NewEngine(o.config.TqqcConfig(), o.Backend())
	if err != nil {
		return 0, err
	}
	return engine.MeasureParity(ctx, theta, delta)
}

func (o *Optimizer) ExecuteCircuit(ctx context.Context, c *circuit.Circuit) (*backend.ExecutionResult, error) {
	res, err := o.Backend().Execute(ctx, c, o.config.Shots)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to execute circuit %q", c.Name())
	}
	return res, nil
}

// Calibrate attaches the cached snapshot of backendName, fetching an
// IBM-typical snapshot sized to the run on a miss.
func (o *Optimizer) Calibrate(backendName string) (*calibration.Info, error) {
	info, err := o.cache.GetOrFetch(backendName, func() (*calibration.Info, error) {
		info := calibration.IBMTypical(o.config.Qubits)
		info.BackendName = backendName
		return info, nil
	})
	if err != nil {
		return nil, err
	}
	o.calibration = info
	return info, nil
}

// CalibrateWith stores info in the cache and attaches it.
func (o *Optimizer) CalibrateWith(info *calibration.Info) {
	o.cache.Set(info.BackendName, info)
	o.calibration = info
}

func (o *Optimizer) InvalidateCalibration(backendName string) {
	o.cache.Invalidate(backendName)
	if o.calibration != nil && o.calibration.BackendName == backendName {
		o.calibration = nil
	}
}
