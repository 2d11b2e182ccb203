// Package calibration holds device calibration snapshots and a TTL cache
// for them.
package calibration

import (
	"fmt"
	"math"
	"time"

	"github.com/mohae/deepcopy"
	"github.com/oqtopus-team/niso-engine/circuit"
	"github.com/oqtopus-team/niso-engine/core"
	"github.com/oqtopus-team/niso-engine/noise"
)

// Fallbacks used when a snapshot lacks a value.
const (
	fallbackT1      = core.DefaultT1Us
	fallbackT2      = core.DefaultT2Us
	fallbackError1Q = 0.001
	fallbackError2Q = 0.01
	fallbackReadout = 0.01
)

// Info is a calibration snapshot of one backend. Per-qubit maps are keyed by
// the physical qubit id; two-qubit errors by coupling.
type Info struct {
	BackendName  string
	Timestamp    time.Time
	T1           map[int]float64
	T2           map[int]float64
	Error1Q      map[int]float64
	Error2Q      map[circuit.Coupling]float64
	Readout      map[int]float64
	Couplings    []circuit.Coupling
	GateTime1QNs *float64
	GateTime2QNs *float64
}

func NewInfo(backendName string) *Info {
	return &Info{
		BackendName: backendName,
		Timestamp:   time.Now(),
		T1:          map[int]float64{},
		T2:          map[int]float64{},
		Error1Q:     map[int]float64{},
		Error2Q:     map[circuit.Coupling]float64{},
		Readout:     map[int]float64{},
		Couplings:   []circuit.Coupling{},
	}
}

// Uniform gives every qubit the same values and couples neighbours linearly.
func Uniform(backendName string, n int, t1, t2, err1q, err2q, readout float64) *Info {
	info := NewInfo(backendName)
	for q := 0; q < n; q++ {
		info.T1[q] = t1
		info.T2[q] = t2
		info.Error1Q[q] = err1q
		info.Readout[q] = readout
	}
	for q := 0; q+1 < n; q++ {
		c := circuit.Coupling{Control: q, Target: q + 1}
		info.Couplings = append(info.Couplings, c)
		info.Error2Q[c] = err2q
	}
	return info
}

func IBMTypical(n int) *Info {
	return Uniform("ibm_simulator", n, core.DefaultT1Us, core.DefaultT2Us, 0.0003, 0.01, 0.01)
}

// NumQubits is the size of the largest per-qubit map.
func (i *Info) NumQubits() int {
	n := len(i.T1)
	for _, m := range []map[int]float64{i.T2, i.Error1Q, i.Readout} {
		if len(m) > n {
			n = len(m)
		}
	}
	return n
}

func meanOr(m map[int]float64, fallback float64) float64 {
	if len(m) == 0 {
		return fallback
	}
	sum := 0.0
	for _, v := range m {
		sum += v
	}
	return sum / float64(len(m))
}

func valueOr(m map[int]float64, q int, fallback float64) float64 {
	if v, ok := m[q]; ok {
		return v
	}
	return fallback
}

func (i *Info) AvgT1() float64 {
	return meanOr(i.T1, fallbackT1)
}

func (i *Info) AvgT2() float64 {
	return meanOr(i.T2, fallbackT2)
}

func (i *Info) AvgError1Q() float64 {
	return meanOr(i.Error1Q, fallbackError1Q)
}

func (i *Info) AvgError2Q() float64 {
	if len(i.Error2Q) == 0 {
		return fallbackError2Q
	}
	sum := 0.0
	for _, v := range i.Error2Q {
		sum += v
	}
	return sum / float64(len(i.Error2Q))
}

func (i *Info) AvgReadout() float64 {
	return meanOr(i.Readout, fallbackReadout)
}

func (i *Info) Age() time.Duration {
	return time.Since(i.Timestamp)
}

func (i *Info) IsFresh(ttl time.Duration) bool {
	age := i.Age()
	return age >= 0 && age < ttl
}

// NoiseModel averages the snapshot into a uniform model; an inconsistent
// snapshot yields the IBM typical model.
func (i *Info) NoiseModel() *noise.Model {
	m, err := noise.NewModel(i.AvgT1(), i.AvgT2(), i.AvgError1Q(), i.AvgError2Q(), i.AvgReadout())
	if err != nil {
		return noise.IBMTypical()
	}
	return m
}

// NoiseVectors builds one vector per qubit. A qubit's 2Q error is the worst
// error among its couplings, never below 0.01.
func (i *Info) NoiseVectors() *noise.VectorSet {
	n := i.NumQubits()
	vs := make([]noise.Vector, n)
	for q := 0; q < n; q++ {
		err2q := fallbackError2Q
		for c, e := range i.Error2Q {
			if c.Control == q || c.Target == q {
				err2q = math.Max(err2q, e)
			}
		}
		vs[q] = noise.Vector{
			QubitID:     q,
			T1:          valueOr(i.T1, q, fallbackT1),
			T2:          valueOr(i.T2, q, fallbackT2),
			GateError1Q: valueOr(i.Error1Q, q, fallbackError1Q),
			GateError2Q: err2q,
			Readout:     valueOr(i.Readout, q, fallbackReadout),
		}
	}
	return noise.NewVectorSet(vs)
}

// Topology builds a bidirectional topology from the couplings, or a linear
// chain when the snapshot has none.
func (i *Info) Topology() *circuit.Topology {
	t, err := circuit.NewTopology(i.Couplings, true)
	if err != nil {
		return circuit.LinearTopology(i.NumQubits())
	}
	return t
}

func (i *Info) GateTimes() *noise.GateTimes {
	oneQ, twoQ := core.GateTime1QNs, core.GateTime2QNs
	if i.GateTime1QNs != nil {
		oneQ = *i.GateTime1QNs
	}
	if i.GateTime2QNs != nil {
		twoQ = *i.GateTime2QNs
	}
	return noise.NewGateTimes(oneQ, twoQ, core.MeasurementNs)
}

func (i *Info) BestQubits(n int) []int {
	return i.NoiseVectors().BestQubits(n)
}

func (i *Info) BestLinearChain(length int) ([]int, bool) {
	return i.Topology().FindLinearChain(length)
}

// QubitQuality is the fourth root of the T1, T2, 1Q gate and readout scores.
func (i *Info) QubitQuality(q int) float64 {
	t1 := math.Min(valueOr(i.T1, q, fallbackT1)/200, 1)
	t2 := math.Min(valueOr(i.T2, q, fallbackT2)/120, 1)
	gate := 1 - valueOr(i.Error1Q, q, fallbackError1Q)
	ro := 1 - valueOr(i.Readout, q, fallbackReadout)
	return math.Pow(t1*t2*gate*ro, 0.25)
}

func (i *Info) Clone() *Info {
	return deepcopy.Copy(i).(*Info)
}

func (i *Info) String() string {
	return fmt.Sprintf("CalibrationInfo(%s, %dQ, T1=%.0fμs, T2=%.0fμs, 1Q=%.4f, 2Q=%.4f)",
		i.BackendName, i.NumQubits(), i.AvgT1(), i.AvgT2(), i.AvgError1Q(), i.AvgError2Q())
}
