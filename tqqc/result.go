package tqqc

import (
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/mohae/deepcopy"
	"github.com/oqtopus-team/niso-engine/core"
)

// IterationRecord describes one outer iteration. ParityPlus, ParityMinus and
// Direction come from the first inner step.
type IterationRecord struct {
	Iteration      int       `json:"iteration"`
	Delta          float64   `json:"delta"`
	ParityPlus     float64   `json:"parity_plus"`
	ParityMinus    float64   `json:"parity_minus"`
	ParitySelected float64   `json:"parity_selected"`
	Improvement    float64   `json:"improvement"`
	InnerCount     int       `json:"inner_count"`
	Direction      Direction `json:"direction,omitempty"`
	Significant    bool      `json:"significant"`
}

type Result struct {
	DeltaOpt             float64           `json:"delta_opt"`
	ParityBaseline       float64           `json:"parity_baseline"`
	ParityFinal          float64           `json:"parity_final"`
	Improvement          float64           `json:"improvement"`
	Iterations           int               `json:"iterations"`
	EarlyStopped         bool              `json:"early_stopped"`
	TiesCount            int               `json:"ties_count"`
	SignificantMoves     int               `json:"significant_moves"`
	TotalInnerIterations int               `json:"total_inner_iterations"`
	History              []IterationRecord `json:"history"`
	Status               core.Status       `json:"status"`
	StartedAt            strfmt.DateTime   `json:"started_at"`
	FinishedAt           strfmt.DateTime   `json:"finished_at"`
}

// ImprovementPercent is the improvement relative to |baseline|; 0 when the
// baseline is numerically zero.
func (r *Result) ImprovementPercent() float64 {
	b := r.ParityBaseline
	if b < 0 {
		b = -b
	}
	if b < 1e-9 {
		return 0
	}
	return r.Improvement / b * 100
}

func (r *Result) Improved() bool {
	return r.Improvement > 0
}

// CircuitExecutions counts the baseline plus two measurements per inner step.
func (r *Result) CircuitExecutions() int {
	return 2*r.TotalInnerIterations + 1
}

// KEstimated is the compute saved by stopping early divided by the fraction
// of outer iterations skipped. Runs that did not stop early give 1.
func (r *Result) KEstimated(maxPoints int) float64 {
	if !r.EarlyStopped || r.Iterations >= maxPoints {
		return 1
	}
	stopFrac := 1 - float64(r.Iterations)/float64(maxPoints)
	reduction := 1 - float64(2*r.Iterations+1)/float64(2*maxPoints+1)
	if stopFrac > 1e-9 {
		return reduction / stopFrac
	}
	return 1
}

func (r *Result) Clone() *Result {
	c := deepcopy.Copy(r).(*Result)
	c.StartedAt = *r.StartedAt.DeepCopy()
	c.FinishedAt = *r.FinishedAt.DeepCopy()
	return c
}

func (r *Result) ToString() string {
	return core.ToPrettyJSON(r)
}

func (r *Result) String() string {
	return fmt.Sprintf("TqqcResult(delta=%.4f, baseline=%.4f, final=%.4f, improvement=%+.2f%%, iterations=%d, early_stop=%t)",
		r.DeltaOpt, r.ParityBaseline, r.ParityFinal, r.ImprovementPercent(), r.Iterations, r.EarlyStopped)
}
