package core

import (
	"fmt"
	"sort"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

type Status int // Status of an optimization run.

// Counts maps an MSB-first bitstring to the number of shots that produced it.
type Counts map[string]uint32

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	INITIAL   Status = iota // Created, baseline not measured yet.
	RUNNING                 // In the outer iteration loop.
	CONVERGED               // Stopped early by the convergence controller.
	EXHAUSTED               // Ran all outer iterations.
	FAILED                  // Aborted with an error.
)

func (s Status) String() string {
	switch s {
	case INITIAL:
		return "initial"
	case RUNNING:
		return "running"
	case CONVERGED:
		return "converged"
	case EXHAUSTED:
		return "exhausted"
	case FAILED:
		return "failed"
	default:
		return "unknown"
	}
}

func ToStatus(s string) (Status, error) {
	switch s {
	case "initial":
		return INITIAL, nil
	case "running":
		return RUNNING, nil
	case "converged":
		return CONVERGED, nil
	case "exhausted":
		return EXHAUSTED, nil
	case "failed":
		return FAILED, nil
	default:
		return 0, fmt.Errorf("unknown status: %s", s)
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	v, err := ToStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (c Counts) String() string {
	st, err := jsonIter.Marshal(c)
	if err != nil {
		zap.L().Error("Failed to marshal core.Counts")
		return ""
	}
	return string(st)
}

func (c Counts) Total() uint64 {
	var total uint64
	for _, v := range c {
		total += uint64(v)
	}
	return total
}

func (c Counts) Clone() Counts {
	clone := make(Counts, len(c))
	for k, v := range c {
		clone[k] = v
	}
	return clone
}

// Add accumulates other into c.
func (c Counts) Add(other Counts) {
	for k, v := range other {
		c[k] += v
	}
}

// SortedKeys returns the bitstrings in lexical order.
func (c Counts) SortedKeys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EncodeCounts writes the wire form {"bitstring": count, ...} with sorted keys.
func EncodeCounts(e *jx.Encoder, c Counts) {
	e.ObjStart()
	for _, k := range c.SortedKeys() {
		e.FieldStart(k)
		e.UInt32(c[k])
	}
	e.ObjEnd()
}

// DecodeCounts reads the wire form. Keys must be unique non-empty bitstrings
// of one common length.
func DecodeCounts(d *jx.Decoder) (Counts, error) {
	c := make(Counts)
	width := -1
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key == "" {
			return NewInvalidBitstring(key)
		}
		if _, ok := c[key]; ok {
			return errors.Wrap(NewInvalidBitstring(key), "duplicate key")
		}
		if width < 0 {
			width = len(key)
		} else if len(key) != width {
			return errors.Wrapf(NewInvalidBitstring(key), "length %d, want %d", len(key), width)
		}
		for _, r := range key {
			if r != '0' && r != '1' {
				return NewInvalidBitstring(key)
			}
		}
		v, err := d.UInt32()
		if err != nil {
			return errors.Wrapf(err, "count of %s", key)
		}
		c[key] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func CountsFromJSON(b []byte) (Counts, error) {
	return DecodeCounts(jx.DecodeBytes(b))
}

func (c Counts) JSON() []byte {
	e := &jx.Encoder{}
	EncodeCounts(e, c)
	return e.Bytes()
}

// ToPrettyJSON renders v as indented JSON for logs and CLI output.
func ToPrettyJSON(v interface{}) string {
	st, err := jsonIter.Marshal(v)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to marshal %T/reason:%s", v, err))
		return ""
	}
	return string(pretty.Pretty(st))
}
