package backend

import (
	"context"
	"fmt"
	"sync"

	conq "github.com/enriquebris/goconcurrentqueue"
	"github.com/go-faster/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type batchTask struct {
	index int
}

type taskFIFO interface {
	Enqueue(*batchTask) error
	Dequeue() (*batchTask, error)
	GetLen() int
}

type conqFIFO struct {
	*conq.FIFO
}

func newConqFIFO() *conqFIFO {
	return &conqFIFO{
		FIFO: conq.NewFIFO(),
	}
}

func (c *conqFIFO) Enqueue(t *batchTask) error {
	return c.FIFO.Enqueue(t)
}

func (c *conqFIFO) Dequeue() (*batchTask, error) {
	tmp, err := c.FIFO.Dequeue()
	if err != nil {
		return nil, err
	}
	return tmp.(*batchTask), nil
}

func (c *conqFIFO) GetLen() int {
	return c.FIFO.GetLen()
}

type runFunc func(ctx context.Context, index int) (*ExecutionResult, error)

// batchRunner drains a FIFO of circuit indices with a fixed number of
// workers. Failures of individual circuits are collected, not short-circuited.
type batchRunner struct {
	workers int
	run     runFunc
	queue   taskFIFO
}

func newBatchRunner(workers int, run runFunc) *batchRunner {
	return &batchRunner{
		workers: workers,
		run:     run,
		queue:   newConqFIFO(),
	}
}

func (b *batchRunner) Run(ctx context.Context, n int) ([]*ExecutionResult, error) {
	for i := 0; i < n; i++ {
		if err := b.queue.Enqueue(&batchTask{index: i}); err != nil {
			return nil, errors.Wrap(err, "enqueue batch task")
		}
	}
	zap.L().Debug(fmt.Sprintf("starting batch/circuits:%d/workers:%d", n, b.workers))

	results := make([]*ExecutionResult, n)
	var (
		mu   sync.Mutex
		errs error
		wg   sync.WaitGroup
	)
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				t, err := b.queue.Dequeue()
				if err != nil {
					return // drained
				}
				r, err := b.run(ctx, t.index)
				if err != nil {
					mu.Lock()
					errs = multierr.Append(errs, errors.Wrapf(err, "circuit %d", t.index))
					mu.Unlock()
					continue
				}
				results[t.index] = r
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if errs != nil {
		zap.L().Error(fmt.Sprintf("batch failed/circuits:%d/failures:%d", n, len(multierr.Errors(errs))))
		return nil, errs
	}
	return results, nil
}
