// Package log holds the periodic log tasks run next to an optimization.
package log

import (
	"sync"

	"github.com/oqtopus-team/niso-engine/tqqc"
)

type ProgressSnapshot struct {
	Iterations       int
	InnerIterations  int
	Delta            float64
	Parity           float64
	BestParity       float64
	LastImprovement  float64
	SignificantMoves int
}

// Progress accumulates iteration records from the engine observer. It is
// written by the optimization worker and read by the metrics task.
type Progress struct {
	mu sync.Mutex
	s  ProgressSnapshot
}

func NewProgress() *Progress {
	return &Progress{}
}

func (p *Progress) Observe(rec tqqc.IterationRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s.Iterations++
	p.s.InnerIterations += rec.InnerCount
	p.s.Delta = rec.Delta
	p.s.Parity = rec.ParitySelected
	p.s.LastImprovement = rec.Improvement
	if p.s.Iterations == 1 || rec.ParitySelected > p.s.BestParity {
		p.s.BestParity = rec.ParitySelected
	}
	if rec.Significant {
		p.s.SignificantMoves++
	}
}

func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.s
}

func (p *Progress) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s = ProgressSnapshot{}
}
