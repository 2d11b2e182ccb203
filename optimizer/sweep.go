package optimizer

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/niso-engine/calibration"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SweepPoint is the outcome of one noise level. Err is set instead of
// Result when that level failed.
type SweepPoint struct {
	Noise  float64 `json:"noise"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
}

// DefaultSweepNoises covers the recommended regime up to the absolute maximum.
func DefaultSweepNoises() []float64 {
	return []float64{0.005, 0.01, 0.015, 0.02, 0.03, 0.04, 0.05}
}

// Sweep runs base once per noise level, deriving the simulated error rates
// from each level. At most parallel runs execute at once; a failed level
// does not stop the others and all failures are returned together.
func Sweep(ctx context.Context, base Config, noises []float64, parallel int, cache *calibration.Cache) ([]SweepPoint, error) {
	if parallel < 1 {
		parallel = 1
	}
	if cache == nil {
		cache = calibration.NewDefaultCache()
	}
	points := make([]SweepPoint, len(noises))
	g := errgroup.Group{}
	g.SetLimit(parallel)
	for i, p := range noises {
		i, p := i, p
		points[i].Noise = p
		g.Go(func() error {
			o, err := New(base.WithDepolNoise(p), cache)
			if err != nil {
				points[i].Err = errors.Wrapf(err, "noise %g", p)
				return nil
			}
			res, err := o.Optimize(ctx)
			if err != nil {
				points[i].Err = errors.Wrapf(err, "noise %g", p)
				return nil
			}
			points[i].Result = res
			zap.L().Debug(fmt.Sprintf("sweep point done/noise:%g/improvement:%f", p, res.Improvement()))
			return nil
		})
	}
	errs := g.Wait()
	for _, pt := range points {
		errs = multierr.Append(errs, pt.Err)
	}
	return points, errs
}
