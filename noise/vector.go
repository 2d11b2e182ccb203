package noise

import (
	"fmt"
	"math"
	"sort"
)

// Vector is the noise seen by a single physical qubit.
type Vector struct {
	QubitID     int     `json:"qubit_id"`
	T1          float64 `json:"t1"`
	T2          float64 `json:"t2"`
	GateError1Q float64 `json:"gate_error_1q"`
	GateError2Q float64 `json:"gate_error_2q"`
	Readout     float64 `json:"readout_error"`
}

func VectorFromModel(q int, m *Model) Vector {
	return Vector{
		QubitID:     q,
		T1:          m.T1Us,
		T2:          m.T2Us,
		GateError1Q: m.GateError1Q,
		GateError2Q: m.GateError2Q,
		Readout:     m.Readout,
	}
}

func IdealVector(q int) Vector {
	return Vector{QubitID: q, T1: math.Inf(1), T2: math.Inf(1)}
}

func (v Vector) EstimateGateFidelity(num1Q, num2Q int) float64 {
	return math.Pow(1-v.GateError1Q, float64(num1Q)) * math.Pow(1-v.GateError2Q, float64(num2Q))
}

func (v Vector) EstimateDecoherence(timeUs float64) float64 {
	if timeUs <= 0 {
		return 0
	}
	return decay(timeUs, v.T2)
}

func (v Vector) EstimateT1Error(timeUs float64) float64 {
	if timeUs <= 0 {
		return 0
	}
	return decay(timeUs, v.T1)
}

func (v Vector) EstimateReadoutFidelity(numMeas int) float64 {
	return math.Pow(1-v.Readout, float64(numMeas))
}

func (v Vector) EstimateCircuitFidelity(num1Q, num2Q, numMeas int, timeUs float64) float64 {
	return v.EstimateGateFidelity(num1Q, num2Q) *
		v.EstimateReadoutFidelity(numMeas) *
		(1 - v.EstimateDecoherence(timeUs))
}

// QualityScore is the geometric mean of five normalised fidelities; T1 and
// T2 saturate at 200µs and 120µs.
func (v Vector) QualityScore() float64 {
	t1 := 1.0
	if !math.IsInf(v.T1, 0) && v.T1 > 0 {
		t1 = math.Min(v.T1/200, 1)
	}
	t2 := 1.0
	if !math.IsInf(v.T2, 0) && v.T2 > 0 {
		t2 = math.Min(v.T2/120, 1)
	}
	prod := t1 * t2 * (1 - v.GateError1Q) * (1 - v.GateError2Q) * (1 - v.Readout)
	return math.Pow(math.Max(prod, 0), 0.2)
}

func (v Vector) IsTqqcUsable() bool {
	return v.T1 >= 50 &&
		v.T2 >= 30 &&
		v.GateError1Q <= 0.01 &&
		v.GateError2Q <= 0.05 &&
		v.Readout <= 0.05
}

func (v Vector) String() string {
	return fmt.Sprintf("Q%d: T1=%.0fμs T2=%.0fμs 1Q=%.4f 2Q=%.4f RO=%.4f",
		v.QubitID, v.T1, v.T2, v.GateError1Q, v.GateError2Q, v.Readout)
}

// VectorSet is indexed by qubit id.
type VectorSet struct {
	Vectors []Vector `json:"vectors"`
}

func NewVectorSet(vs []Vector) *VectorSet {
	return &VectorSet{Vectors: vs}
}

func VectorSetFromModel(n int, m *Model) *VectorSet {
	vs := make([]Vector, n)
	for q := range vs {
		vs[q] = VectorFromModel(q, m)
	}
	return &VectorSet{Vectors: vs}
}

func (s *VectorSet) NumQubits() int {
	return len(s.Vectors)
}

func (s *VectorSet) Get(q int) (Vector, bool) {
	if q < 0 || q >= len(s.Vectors) {
		return Vector{}, false
	}
	return s.Vectors[q], true
}

// finiteMean averages the finite values; +Inf when none are finite.
func (s *VectorSet) finiteMean(f func(Vector) float64) float64 {
	if len(s.Vectors) == 0 {
		return 0
	}
	sum, n := 0.0, 0
	for _, v := range s.Vectors {
		if x := f(v); !math.IsInf(x, 0) {
			sum += x
			n++
		}
	}
	if n == 0 {
		return math.Inf(1)
	}
	return sum / float64(n)
}

func (s *VectorSet) mean(f func(Vector) float64) float64 {
	if len(s.Vectors) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.Vectors {
		sum += f(v)
	}
	return sum / float64(len(s.Vectors))
}

func (s *VectorSet) AvgT1() float64 {
	return s.finiteMean(func(v Vector) float64 { return v.T1 })
}

func (s *VectorSet) AvgT2() float64 {
	return s.finiteMean(func(v Vector) float64 { return v.T2 })
}

func (s *VectorSet) AvgError1Q() float64 {
	return s.mean(func(v Vector) float64 { return v.GateError1Q })
}

func (s *VectorSet) AvgError2Q() float64 {
	return s.mean(func(v Vector) float64 { return v.GateError2Q })
}

func (s *VectorSet) AvgReadout() float64 {
	return s.mean(func(v Vector) float64 { return v.Readout })
}

// BestQubits returns up to n qubit ids ordered by descending quality score.
func (s *VectorSet) BestQubits(n int) []int {
	vs := make([]Vector, len(s.Vectors))
	copy(vs, s.Vectors)
	sort.SliceStable(vs, func(i, j int) bool {
		return vs[i].QualityScore() > vs[j].QualityScore()
	})
	if n > len(vs) {
		n = len(vs)
	}
	ids := make([]int, n)
	for i := range ids {
		ids[i] = vs[i].QubitID
	}
	return ids
}

func (s *VectorSet) TqqcUsableQubits() []int {
	ids := []int{}
	for _, v := range s.Vectors {
		if v.IsTqqcUsable() {
			ids = append(ids, v.QubitID)
		}
	}
	return ids
}

// Model averages the set into a uniform model, falling back to IBMTypical
// when the averages do not validate.
func (s *VectorSet) Model() *Model {
	m, err := NewModel(s.AvgT1(), s.AvgT2(), s.AvgError1Q(), s.AvgError2Q(), s.AvgReadout())
	if err != nil {
		return IBMTypical()
	}
	return m
}
