package tqqc

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-openapi/strfmt"
	"github.com/oqtopus-team/niso-engine/backend"
	"github.com/oqtopus-team/niso-engine/core"
	"go.uber.org/zap"
)

// Observer is notified after every outer iteration.
type Observer func(IterationRecord)

// Engine runs TQQC against a backend. An Engine is not safe for concurrent
// use; its random generator belongs to one run at a time.
type Engine struct {
	config       Config
	backend      backend.Backend
	convergence  *Convergence
	dynamicInner DynamicInner
	statTest     StatisticalTest
	rng          *rand.Rand
	observer     Observer
}

func NewEngine(cfg Config, b backend.Backend) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Qubits > b.NumQubits() {
		return nil, core.NewQubitOutOfRange(cfg.Qubits, b.NumQubits())
	}
	var src rand.Source
	if cfg.Seed != nil {
		src = rand.NewSource(*cfg.Seed)
	} else {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Engine{
		config:       cfg,
		backend:      b,
		convergence:  ConvergenceFromNoise(cfg.Qubits, cfg.Noise),
		dynamicInner: NewDynamicInner(cfg.InnerMax, core.DecayRate),
		statTest:     NewStatisticalTest(cfg.SigMode, cfg.SigLevel),
		rng:          rand.New(src),
	}, nil
}

func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

func (e *Engine) Config() Config {
	return e.config
}

func (e *Engine) Backend() backend.Backend {
	return e.backend
}

func (e *Engine) Convergence() *Convergence {
	return e.convergence
}

// MeasureParity executes the parity circuit at theta+delta and returns its
// parity expectation.
func (e *Engine) MeasureParity(ctx context.Context, theta, delta float64) (float64, error) {
	c, err := BuildCircuit(e.config, theta, delta)
	if err != nil {
		return 0, err
	}
	res, err := e.backend.Execute(ctx, c, e.config.Shots)
	if err != nil {
		return 0, errors.Wrapf(err, "measure parity at delta %.4f", delta)
	}
	return Expectation(res.Counts), nil
}

// Optimize measures the baseline at delta=0 and then runs up to Points outer
// iterations. With the dynamic inner loop enabled, the run stops early once
// the convergence controller is satisfied.
func (e *Engine) Optimize(ctx context.Context) (*Result, error) {
	cfg := e.config
	res := &Result{
		Status:    core.RUNNING,
		StartedAt: strfmt.DateTime(time.Now()),
		History:   make([]IterationRecord, 0, cfg.Points),
	}
	zap.L().Info(fmt.Sprintf("starting tqqc/%s/backend:%s", cfg, e.backend.Name()))

	theta := cfg.ThetaInit
	delta := cfg.DeltaInit
	lastImprove := 0.0

	baseline, err := e.MeasureParity(ctx, theta, 0)
	if err != nil {
		return nil, errors.Wrap(err, "baseline")
	}
	res.ParityBaseline = baseline
	current := baseline

	for it := 0; it < cfg.Points; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inner := 1
		if cfg.DynamicInner {
			inner = e.dynamicInner.ComputeCount(lastImprove, e.convergence.Threshold())
		}

		bestDelta, bestParity := delta, current
		rec := IterationRecord{Iteration: it, InnerCount: inner}
		for j := 0; j < inner; j++ {
			step := e.dynamicInner.ComputeStep(j, cfg.StepAmp)
			plus, err := e.MeasureParity(ctx, theta, delta+step)
			if err != nil {
				return nil, err
			}
			minus, err := e.MeasureParity(ctx, theta, delta-step)
			if err != nil {
				return nil, err
			}

			var candDelta, candParity float64
			var dir Direction
			if cfg.UseStatisticalTest {
				tr := e.statTest.Test(plus, minus, cfg.Shots, cfg.Noise)
				if tr.Significant {
					res.SignificantMoves++
					rec.Significant = true
				}
				candDelta, candParity, dir = e.selectDirection(delta, step, plus, minus, current, tr)
			} else if plus > minus {
				candDelta, candParity, dir = delta+step, plus, DirectionPlus
			} else {
				candDelta, candParity, dir = delta-step, minus, DirectionMinus
			}

			if j == 0 {
				rec.ParityPlus, rec.ParityMinus, rec.Direction = plus, minus, dir
			}
			if candParity > bestParity {
				bestDelta, bestParity = candDelta, candParity
			}
		}

		improvement := bestParity - current
		switch cfg.DeltaMode {
		case DeltaModeReset:
			delta = bestDelta - delta
		default:
			delta = bestDelta
		}
		current = bestParity
		lastImprove = improvement
		res.TotalInnerIterations += inner
		if math.Abs(rec.ParityPlus-rec.ParityMinus) < core.TieEpsilon {
			res.TiesCount++
		}

		rec.Delta = delta
		rec.ParitySelected = current
		rec.Improvement = improvement
		res.History = append(res.History, rec)
		zap.L().Debug(fmt.Sprintf("tqqc iteration/it:%d/inner:%d/delta:%.4f/parity:%.4f/improvement:%.4f/direction:%s",
			it, inner, delta, current, improvement, rec.Direction))
		if e.observer != nil {
			e.observer(rec)
		}

		e.convergence.Push(improvement)
		if cfg.DynamicInner && e.convergence.Check() {
			res.EarlyStopped = true
			break
		}
	}

	res.DeltaOpt = delta
	res.ParityFinal = current
	res.Improvement = current - baseline
	res.Iterations = len(res.History)
	res.FinishedAt = strfmt.DateTime(time.Now())
	res.Status = core.EXHAUSTED
	if res.EarlyStopped {
		res.Status = core.CONVERGED
	}
	zap.L().Info(fmt.Sprintf("finished tqqc/status:%s/iterations:%d/baseline:%.4f/final:%.4f/improvement:%.2f%%",
		res.Status, res.Iterations, baseline, current, res.ImprovementPercent()))
	return res, nil
}

// selectDirection picks a random side on a tie, follows a significant
// result and otherwise stays.
func (e *Engine) selectDirection(delta, step, plus, minus, current float64, tr TestResult) (float64, float64, Direction) {
	switch {
	case tr.Tie:
		if e.rng.Float64() > 0.5 {
			return delta + step, plus, DirectionPlus
		}
		return delta - step, minus, DirectionMinus
	case tr.Significant && tr.Direction == DirectionPlus:
		return delta + step, plus, DirectionPlus
	case tr.Significant && tr.Direction == DirectionMinus:
		return delta - step, minus, DirectionMinus
	default:
		return delta, current, DirectionStay
	}
}
