// Package backend executes circuits and returns measurement counts.
package backend

import (
	"context"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/oqtopus-team/niso-engine/calibration"
	"github.com/oqtopus-team/niso-engine/circuit"
	"github.com/oqtopus-team/niso-engine/core"
)

// Backend runs circuits. Simulators and hardware clients are interchangeable
// implementations.
type Backend interface {
	Name() string
	NumQubits() int
	Execute(ctx context.Context, c *circuit.Circuit, shots int) (*ExecutionResult, error)
	ExecuteBatch(ctx context.Context, cs []*circuit.Circuit, shots int) ([]*ExecutionResult, error)
	// Calibration returns nil when the backend has no calibration snapshot.
	Calibration() *calibration.Info
	IsSimulator() bool
	MaxShots() int
}

type Metadata struct {
	Backend         string            `json:"backend"`
	JobID           string            `json:"job_id,omitempty"`
	ExecutionTimeMs int64             `json:"execution_time_ms"`
	Simulated       bool              `json:"simulated"`
	Seed            *int64            `json:"seed,omitempty"`
	StartedAt       strfmt.DateTime   `json:"started_at"`
	Extra           map[string]string `json:"extra,omitempty"`
}

type ExecutionResult struct {
	Counts   core.Counts `json:"counts"`
	Shots    int         `json:"shots"`
	Metadata Metadata    `json:"metadata"`
}

func NewExecutionResult(counts core.Counts, shots int, backendName string) *ExecutionResult {
	return &ExecutionResult{
		Counts: counts,
		Shots:  shots,
		Metadata: Metadata{
			Backend:   backendName,
			JobID:     uuid.New().String(),
			Simulated: true,
			Extra:     map[string]string{},
		},
	}
}

func (r *ExecutionResult) TotalCounts() uint64 {
	return r.Counts.Total()
}

func (r *ExecutionResult) Probability(bitstring string) float64 {
	if r.Shots == 0 {
		return 0
	}
	return float64(r.Counts[bitstring]) / float64(r.Shots)
}

// MostFrequent returns the outcome with the highest count; ties go to the
// lexically smallest bitstring.
func (r *ExecutionResult) MostFrequent() (string, uint32, bool) {
	best, bestCount, found := "", uint32(0), false
	for _, k := range r.Counts.SortedKeys() {
		if v := r.Counts[k]; !found || v > bestCount {
			best, bestCount, found = k, v, true
		}
	}
	return best, bestCount, found
}

// ParityExpectation is <Z...Z> estimated from the counts: even outcomes
// count +1, odd -1.
func (r *ExecutionResult) ParityExpectation() float64 {
	return ParityFromCounts(r.Counts, r.Shots)
}

func (r *ExecutionResult) PEven() float64 {
	if r.Shots == 0 {
		return 0
	}
	var even uint64
	for bs, n := range r.Counts {
		if circuit.Popcount(bs)%2 == 0 {
			even += uint64(n)
		}
	}
	return float64(even) / float64(r.Shots)
}

func (r *ExecutionResult) POdd() float64 {
	return 1 - r.PEven()
}

func (r *ExecutionResult) String() string {
	return fmt.Sprintf("ExecutionResult(shots=%d, unique=%d, parity=%.4f)",
		r.Shots, len(r.Counts), r.ParityExpectation())
}

// ParityFromCounts returns sum(sign * count) / shots, where sign is +1 for
// an even number of ones. Zero shots yield 0.
func ParityFromCounts(counts core.Counts, shots int) float64 {
	if shots <= 0 {
		return 0
	}
	sum := 0.0
	for bs, n := range counts {
		if circuit.Popcount(bs)%2 == 0 {
			sum += float64(n)
		} else {
			sum -= float64(n)
		}
	}
	return sum / float64(shots)
}

// checkShots validates shots against [1, max].
func checkShots(shots, max int) error {
	if shots < 1 || shots > max {
		return core.NewShotsOutOfRange(shots, 1, max)
	}
	return nil
}
