package core

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Error kinds. Every *Error unwraps to exactly one of these.
var (
	// validation
	ErrInvalidProbability = errors.New("invalid probability")
	ErrQubitOutOfRange    = errors.New("qubit out of range")
	ErrInvalidT2          = errors.New("invalid T2")
	ErrInvalidNoiseLevel  = errors.New("invalid noise level")
	ErrInvalidBitstring   = errors.New("invalid bitstring")
	ErrInvalidBasis       = errors.New("invalid basis")
	ErrInvalidAngle       = errors.New("invalid angle")

	// circuit
	ErrEmptyCircuit         = errors.New("empty circuit")
	ErrGateQubitMismatch    = errors.New("gate qubit mismatch")
	ErrInvalidGateParameter = errors.New("invalid gate parameter")
	ErrCircuitTooDeep       = errors.New("circuit too deep")
	ErrTopologyViolation    = errors.New("topology violation")
	ErrInvalidQasm          = errors.New("invalid qasm")

	// topology
	ErrEmptyCouplingMap = errors.New("empty coupling map")
	ErrInvalidCoupling  = errors.New("invalid coupling")
	ErrPathNotFound     = errors.New("path not found")

	// backend
	ErrBackend             = errors.New("backend error")
	ErrBackendNotAvailable = errors.New("backend not available")
	ErrShotsOutOfRange     = errors.New("shots out of range")

	// calibration
	ErrCalibration        = errors.New("calibration error")
	ErrCalibrationExpired = errors.New("calibration expired")

	// tqqc
	ErrConvergenceFailed    = errors.New("convergence failed")
	ErrTqqcConfig           = errors.New("tqqc configuration error")
	ErrStatisticalTest      = errors.New("statistical test error")
	ErrNoiseExceedsCritical = errors.New("noise exceeds critical point")
)

// Error is a domain error. Kind is one of the Err* values above and Values
// holds the offending inputs in the order they appear in the message.
type Error struct {
	Kind   error
	Msg    string
	Values []interface{}
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, values []interface{}, format string, args ...interface{}) *Error {
	return &Error{
		Kind:   kind,
		Msg:    fmt.Sprintf(format, args...),
		Values: values,
	}
}

func NewInvalidProbability(p float64) error {
	return newError(ErrInvalidProbability, []interface{}{p},
		"Invalid probability %v: must be in range [0, 1]", p)
}

func NewQubitOutOfRange(qubit, max int) error {
	return newError(ErrQubitOutOfRange, []interface{}{qubit, max},
		"Qubit %d out of range: max is %d", qubit, max)
}

func NewInvalidQubitCount(n int) error {
	return newError(ErrQubitOutOfRange, []interface{}{n},
		"Invalid qubit count %d: must be non-negative", n)
}

func NewInvalidT2(t2, t1 float64) error {
	return newError(ErrInvalidT2, []interface{}{t2, t1},
		"Invalid T2 (%.2fµs): must be <= 2*T1 (%.2fµs)", t2, t1)
}

func NewInvalidNoiseLevel(level float64) error {
	return newError(ErrInvalidNoiseLevel, []interface{}{level},
		"Invalid noise level %v: must be in range [0, %v]", level, AbsoluteMaxNoise)
}

func NewInvalidBitstring(s string) error {
	return newError(ErrInvalidBitstring, []interface{}{s},
		"Invalid bitstring '%s': must contain only '0' and '1'", s)
}

func NewInvalidBasis(s string) error {
	return newError(ErrInvalidBasis, []interface{}{s},
		"Invalid basis '%s': must be X, Y, or Z", s)
}

func NewInvalidAngle(angle float64) error {
	return newError(ErrInvalidAngle, []interface{}{angle},
		"Invalid angle %v: must be finite", angle)
}

func NewEmptyCircuit() error {
	return newError(ErrEmptyCircuit, nil, "Circuit is empty")
}

func NewGateQubitMismatch(qubit, numQubits int) error {
	return newError(ErrGateQubitMismatch, []interface{}{qubit, numQubits},
		"Gate references qubit %d but circuit has only %d qubits", qubit, numQubits)
}

func NewInvalidGateParameter(reason string) error {
	return newError(ErrInvalidGateParameter, []interface{}{reason},
		"Invalid gate parameter: %s", reason)
}

func NewCircuitTooDeep(depth, maxDepth int) error {
	return newError(ErrCircuitTooDeep, []interface{}{depth, maxDepth},
		"Circuit depth %d exceeds maximum %d", depth, maxDepth)
}

func NewTopologyViolation(q1, q2 int) error {
	return newError(ErrTopologyViolation, []interface{}{q1, q2},
		"Topology violation: qubits %d and %d are not connected", q1, q2)
}

func NewInvalidQasm(reason string) error {
	return newError(ErrInvalidQasm, []interface{}{reason}, "Invalid QASM: %s", reason)
}

func NewEmptyCouplingMap() error {
	return newError(ErrEmptyCouplingMap, nil, "Coupling map is empty")
}

func NewInvalidCoupling(q1, q2 int) error {
	return newError(ErrInvalidCoupling, []interface{}{q1, q2},
		"Invalid coupling (%d, %d): qubits must be different", q1, q2)
}

func NewPathNotFound(q1, q2 int) error {
	return newError(ErrPathNotFound, []interface{}{q1, q2},
		"No path found between qubits %d and %d", q1, q2)
}

func NewBackendError(reason string) error {
	return newError(ErrBackend, []interface{}{reason}, "Backend error: %s", reason)
}

func NewBackendNotAvailable(name string) error {
	return newError(ErrBackendNotAvailable, []interface{}{name}, "Backend '%s' not available", name)
}

func NewShotsOutOfRange(shots, min, max int) error {
	return newError(ErrShotsOutOfRange, []interface{}{shots, min, max},
		"Shots %d out of range [%d, %d]", shots, min, max)
}

func NewCalibrationError(reason string) error {
	return newError(ErrCalibration, []interface{}{reason}, "Calibration error: %s", reason)
}

func NewCalibrationExpired(lastUpdated string) error {
	return newError(ErrCalibrationExpired, []interface{}{lastUpdated},
		"Calibration data expired: last updated %s", lastUpdated)
}

func NewConvergenceFailed(iterations int) error {
	return newError(ErrConvergenceFailed, []interface{}{iterations},
		"Convergence failed after %d iterations", iterations)
}

func NewTqqcConfigError(reason string) error {
	return newError(ErrTqqcConfig, []interface{}{reason},
		"TQQC configuration error: %s", reason)
}

func NewStatisticalTestError(reason string) error {
	return newError(ErrStatisticalTest, []interface{}{reason},
		"Statistical test error: %s", reason)
}

func NewNoiseExceedsCritical(noise, critical float64, qubits int) error {
	return newError(ErrNoiseExceedsCritical, []interface{}{noise, critical, qubits},
		"Noise level %.4f exceeds critical point %.4f for %d qubits", noise, critical, qubits)
}

func isAny(err error, kinds ...error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

// IsRecoverable reports whether a caller may retry with adjusted parameters.
func IsRecoverable(err error) bool {
	return isAny(err, ErrConvergenceFailed, ErrCalibrationExpired, ErrNoiseExceedsCritical)
}

func IsValidationError(err error) bool {
	return isAny(err,
		ErrInvalidProbability,
		ErrQubitOutOfRange,
		ErrInvalidT2,
		ErrInvalidNoiseLevel,
		ErrInvalidBitstring,
		ErrInvalidBasis,
		ErrInvalidAngle)
}

func IsCircuitError(err error) bool {
	return isAny(err,
		ErrEmptyCircuit,
		ErrGateQubitMismatch,
		ErrInvalidGateParameter,
		ErrCircuitTooDeep,
		ErrTopologyViolation,
		ErrInvalidQasm)
}

// DomainValues returns the offending values carried by err, if it is an *Error.
func DomainValues(err error) ([]interface{}, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return nil, false
	}
	return e.Values, true
}
