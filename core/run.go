package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/oklog/run"
	"go.uber.org/zap"
)

// RunContext groups the actors of one CLI invocation. The group ends as soon
// as any actor returns; the others are then interrupted.
type RunContext struct {
	*run.Group
	context.Context

	cancel context.CancelFunc
}

func NewRunContext(parent context.Context) *RunContext {
	ctx, cancel := context.WithCancel(parent)
	return &RunContext{
		Group:   &run.Group{},
		Context: ctx,
		cancel:  cancel,
	}
}

type PeriodicTask struct {
	Period time.Duration `toml:"period"`
	PeriodicTaskImpl
}

type PeriodicTaskImpl interface {
	Setup() error
	RequirePeriodUpdate() (ok bool, duration time.Duration)
	Task()
	Cleanup()
}

type DefaultTaskImpl struct{}

func (v *DefaultTaskImpl) Setup() error {
	return nil
}

func (v *DefaultTaskImpl) RequirePeriodUpdate() (bool, time.Duration) {
	return false, 0
}

func (v *DefaultTaskImpl) Task() {}

func (v *DefaultTaskImpl) Cleanup() {}

func (rc *RunContext) AddPeriodicTask(t *PeriodicTask, taskName string) error {
	if t.Period <= 0 {
		return fmt.Errorf("period of %s must be positive, got %v", taskName, t.Period)
	}
	if err := t.Setup(); err != nil {
		zap.L().Error(fmt.Sprintf("failed to setup periodic task/name:%s/reason:%s", taskName, err))
		return err
	}
	ctx, cancel := context.WithCancel(rc.Context)
	lastPeriod := t.Period
	rc.Group.Add(
		func() error {
			ticker := time.NewTicker(t.Period)
			zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/Start]", taskName))
			t.PeriodicTaskImpl.Task()
			for {
				select {
				case <-ctx.Done():
					ticker.Stop()
					t.PeriodicTaskImpl.Cleanup()
					zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]cleaned up periodic task", taskName))
					return ctx.Err()
				case <-ticker.C:
					t.PeriodicTaskImpl.Task()
					ok, newPeriod := t.RequirePeriodUpdate()
					if ok && newPeriod > 0 && newPeriod != lastPeriod {
						zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/ResetPeriod]from %v to %v",
							taskName, lastPeriod, newPeriod))
						ticker.Reset(newPeriod)
						lastPeriod = newPeriod
					}
				}
			}
		},
		func(error) {
			cancel()
		},
	)
	return nil
}

// AddWorker adds a one-shot actor. Its return value ends the group.
func (rc *RunContext) AddWorker(workerName string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithCancel(rc.Context)
	rc.Group.Add(
		func() error {
			zap.L().Info(fmt.Sprintf("[Worker/%s/Start]", workerName))
			err := fn(ctx)
			if err != nil {
				zap.L().Error(fmt.Sprintf("[Worker/%s/Error]", workerName), zap.Error(err))
				return err
			}
			zap.L().Info(fmt.Sprintf("[Worker/%s/Done]", workerName))
			return nil
		},
		func(error) {
			cancel()
		},
	)
}

func (rc *RunContext) AddSignalHandler(signals ...os.Signal) {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt}
	}
	rc.Group.Add(run.SignalHandler(rc.Context, signals...))
}

// Run blocks until the first actor returns and releases the context.
func (rc *RunContext) Run() error {
	defer rc.cancel()
	err := rc.Group.Run()
	var se run.SignalError
	if errors.As(err, &se) {
		zap.L().Info(fmt.Sprintf("stopped by signal %v", se.Signal))
		return nil
	}
	return err
}
