package optimizer

import (
	"fmt"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/mohae/deepcopy"
	"github.com/oqtopus-team/niso-engine/core"
	"github.com/oqtopus-team/niso-engine/tqqc"
)

// ScheduleMetrics describe the ASAP schedule of the parity circuit.
type ScheduleMetrics struct {
	TotalDurationNs      float64 `json:"total_duration_ns"`
	CriticalDepth        int     `json:"critical_depth"`
	Parallelism          float64 `json:"parallelism"`
	IdleTimeNs           float64 `json:"idle_time_ns"`
	BottleneckQubit      int     `json:"bottleneck_qubit"`
	EstimatedDecoherence float64 `json:"estimated_decoherence"`
	EstimatedFidelity    float64 `json:"estimated_fidelity"`
}

type CalibrationSummary struct {
	Backend    string          `json:"backend"`
	AvgT1Us    float64         `json:"avg_t1_us"`
	AvgT2Us    float64         `json:"avg_t2_us"`
	AvgError1Q float64         `json:"avg_error_1q"`
	AvgError2Q float64         `json:"avg_error_2q"`
	AvgReadout float64         `json:"avg_readout"`
	Timestamp  strfmt.DateTime `json:"timestamp"`
}

type ExecutionMetrics struct {
	TotalTimeMs       int64 `json:"total_time_ms"`
	CircuitExecutions int   `json:"circuit_executions"`
	TotalShots        int   `json:"total_shots"`
	EarlyStopped      bool  `json:"early_stopped"`
}

type RunSummary struct {
	Qubits   int      `json:"qubits"`
	Mode     Mode     `json:"mode"`
	Hardware Hardware `json:"hardware"`
	Noise    float64  `json:"noise"`
	Shots    int      `json:"shots"`
	Points   int      `json:"points"`
	Seed     *int64   `json:"seed,omitempty"`
	Backend  string   `json:"backend"`
}

type Result struct {
	Run         RunSummary          `json:"run"`
	Tqqc        *tqqc.Result        `json:"tqqc"`
	Schedule    *ScheduleMetrics    `json:"schedule,omitempty"`
	Calibration *CalibrationSummary `json:"calibration,omitempty"`
	Execution   ExecutionMetrics    `json:"execution"`
}

func (r *Result) Improvement() float64 {
	if r.Tqqc == nil {
		return 0
	}
	return r.Tqqc.Improvement
}

func (r *Result) Clone() *Result {
	c := deepcopy.Copy(*r).(Result)
	if r.Tqqc != nil {
		c.Tqqc = r.Tqqc.Clone()
	}
	if r.Calibration != nil {
		c.Calibration.Timestamp = *r.Calibration.Timestamp.DeepCopy()
	}
	return &c
}

func (r *Result) ToString() string {
	return core.ToPrettyJSON(r)
}

func (r *Result) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Optimization(%s, %s, %dq)\n", r.Run.Mode, r.Run.Hardware, r.Run.Qubits))
	if r.Tqqc != nil {
		sb.WriteString(fmt.Sprintf("  Parity: %.4f -> %.4f (%+.2f%%)\n",
			r.Tqqc.ParityBaseline, r.Tqqc.ParityFinal, r.Tqqc.ImprovementPercent()))
		sb.WriteString(fmt.Sprintf("  Delta: %.4f after %d iterations\n", r.Tqqc.DeltaOpt, r.Tqqc.Iterations))
	}
	if r.Schedule != nil {
		sb.WriteString(fmt.Sprintf("  Schedule: %.1fns, depth %d, parallelism %.2f\n",
			r.Schedule.TotalDurationNs, r.Schedule.CriticalDepth, r.Schedule.Parallelism))
	}
	sb.WriteString(fmt.Sprintf("  Executions: %d circuits, %d shots, %dms\n",
		r.Execution.CircuitExecutions, r.Execution.TotalShots, r.Execution.TotalTimeMs))
	return sb.String()
}
