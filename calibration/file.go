package calibration

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
	"github.com/oqtopus-team/niso-engine/circuit"
	"github.com/oqtopus-team/niso-engine/common"
	"github.com/oqtopus-team/niso-engine/core"
	"go.uber.org/zap"
)

type qubitRecord struct {
	ID      int      `toml:"id"`
	T1      *float64 `toml:"t1"`
	T2      *float64 `toml:"t2"`
	Error1Q *float64 `toml:"error_1q"`
	Readout *float64 `toml:"readout_error"`
}

type couplingRecord struct {
	Control int      `toml:"control"`
	Target  int      `toml:"target"`
	Error2Q *float64 `toml:"error_2q"`
}

// snapshotFile is the on-disk TOML layout of a calibration snapshot.
type snapshotFile struct {
	BackendName  string           `toml:"backend_name"`
	Timestamp    *time.Time       `toml:"timestamp"`
	GateTime1QNs *float64         `toml:"gate_time_1q_ns"`
	GateTime2QNs *float64         `toml:"gate_time_2q_ns"`
	Qubits       []qubitRecord    `toml:"qubits"`
	Couplings    []couplingRecord `toml:"couplings"`
}

// Parse decodes a TOML calibration snapshot. A missing timestamp means the
// snapshot was taken now.
func Parse(s string) (*Info, error) {
	var f snapshotFile
	md, err := toml.Decode(s, &f)
	if err != nil {
		return nil, core.NewCalibrationError(fmt.Sprintf("failed to decode snapshot: %s", err))
	}
	for _, k := range md.Undecoded() {
		zap.L().Warn(fmt.Sprintf("unknown calibration key:%s", k.String()))
	}
	if f.BackendName == "" {
		return nil, core.NewCalibrationError("backend_name is required")
	}

	info := NewInfo(f.BackendName)
	if f.Timestamp != nil {
		info.Timestamp = *f.Timestamp
	}
	info.GateTime1QNs = f.GateTime1QNs
	info.GateTime2QNs = f.GateTime2QNs
	for _, q := range f.Qubits {
		if q.ID < 0 {
			return nil, core.NewCalibrationError(fmt.Sprintf("negative qubit id %d", q.ID))
		}
		setIf(info.T1, q.ID, q.T1)
		setIf(info.T2, q.ID, q.T2)
		setIf(info.Error1Q, q.ID, q.Error1Q)
		setIf(info.Readout, q.ID, q.Readout)
	}
	for _, c := range f.Couplings {
		if c.Control == c.Target {
			return nil, core.NewInvalidCoupling(c.Control, c.Target)
		}
		cp := circuit.Coupling{Control: c.Control, Target: c.Target}
		info.Couplings = append(info.Couplings, cp)
		if c.Error2Q != nil {
			info.Error2Q[cp] = *c.Error2Q
		}
	}
	return info, nil
}

func setIf(m map[int]float64, q int, v *float64) {
	if v != nil {
		m[q] = *v
	}
}

func LoadFile(path string) (*Info, error) {
	s, err := common.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read calibration snapshot")
	}
	info, err := Parse(s)
	if err != nil {
		return nil, errors.Wrapf(err, "calibration snapshot %s", path)
	}
	zap.L().Debug(fmt.Sprintf("loaded calibration/path:%s/%s", path, info))
	return info, nil
}

// TOML encodes the snapshot in the layout Parse reads. Qubits are written in
// ascending id order.
func (i *Info) TOML() (string, error) {
	ts := i.Timestamp.UTC()
	f := snapshotFile{
		BackendName:  i.BackendName,
		Timestamp:    &ts,
		GateTime1QNs: i.GateTime1QNs,
		GateTime2QNs: i.GateTime2QNs,
	}
	ids := map[int]struct{}{}
	for _, m := range []map[int]float64{i.T1, i.T2, i.Error1Q, i.Readout} {
		for q := range m {
			ids[q] = struct{}{}
		}
	}
	sorted := make([]int, 0, len(ids))
	for q := range ids {
		sorted = append(sorted, q)
	}
	sort.Ints(sorted)
	for _, q := range sorted {
		f.Qubits = append(f.Qubits, qubitRecord{
			ID:      q,
			T1:      lookup(i.T1, q),
			T2:      lookup(i.T2, q),
			Error1Q: lookup(i.Error1Q, q),
			Readout: lookup(i.Readout, q),
		})
	}
	for _, c := range i.Couplings {
		rec := couplingRecord{Control: c.Control, Target: c.Target}
		if e, ok := i.Error2Q[c]; ok {
			rec.Error2Q = &e
		}
		f.Couplings = append(f.Couplings, rec)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return "", errors.Wrap(err, "encode calibration snapshot")
	}
	return buf.String(), nil
}

func lookup(m map[int]float64, q int) *float64 {
	if v, ok := m[q]; ok {
		return &v
	}
	return nil
}

func (i *Info) Save(path string) error {
	s, err := i.TOML()
	if err != nil {
		return err
	}
	return common.WriteFile(path, s)
}
