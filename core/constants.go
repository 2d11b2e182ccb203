package core

// Physics defaults for superconducting hardware.
const (
	GateTime1QNs  = 35.0
	GateTime2QNs  = 300.0
	MeasurementNs = 5000.0
	ResetNs       = 1000.0

	DefaultT1Us = 100.0
	DefaultT2Us = 60.0
	MinT1Us     = 50.0
	MinT2Us     = 30.0
)

// Per-gate durations in seconds.
const (
	GateSecondsH    = 30e-9
	GateSecondsX    = 30e-9
	GateSecondsY    = 30e-9
	GateSecondsZ    = 0.0
	GateSecondsRZ   = 0.0
	GateSecondsRX   = 30e-9
	GateSecondsRY   = 30e-9
	GateSecondsSX   = 30e-9
	GateSecondsS    = 30e-9
	GateSecondsSDG  = 30e-9
	GateSecondsT    = 30e-9
	GateSecondsTDG  = 30e-9
	GateSecondsCX   = 300e-9
	GateSecondsCZ   = 300e-9
	GateSecondsSWAP = 900e-9
)

// TQQC tuning.
const (
	DefaultStepAmp          = 0.12
	DefaultInnerMax         = 10
	DecayRate               = 0.9
	ConvergenceWindow       = 3
	Threshold5Q             = 0.030
	HighNoiseThreshold5Q    = 0.040
	DefaultPoints           = 20
	DefaultNoise            = 0.02
	RecommendedNoise        = 0.020
	MaxRecommendedNoise     = 0.030
	AbsoluteMaxNoise        = 0.06
	DefaultReadoutError     = 0.005
	InnerSafetyMultiplier   = 5
	CumulativeThresholdMult = 1.5
	ReferenceQubits         = 5
)

// Statistics.
const (
	ZCrit90  = 1.645
	ZCrit95  = 1.960
	ZCrit975 = 2.240
	ZCrit99  = 2.575

	DefaultShots       = 8192
	MinShots           = 1024
	MaxShots           = 32768
	HighShotsThreshold = 16384
	LowShotsThreshold  = 4096
	BackendMaxShots    = 100000

	AdaptiveHighNoiseAdj = 0.025
	AdaptiveLowShotsAdj  = 0.025
	AdaptiveHighShotsAdj = -0.05

	MinConfidenceLevel     = 0.90
	MaxConfidenceLevel     = 0.99
	DefaultConfidenceLevel = 0.95

	TieEpsilon = 1e-9
)

func UsToS(us float64) float64 {
	return us * 1e-6
}

func NsToS(ns float64) float64 {
	return ns * 1e-9
}

// CircuitDepth is the CNOT depth of a linear entangling chain on n qubits.
func CircuitDepth(numQubits int) int {
	if numQubits > 0 {
		return numQubits - 1
	}
	return 0
}

func DepthRatio(numQubits int) float64 {
	ref := float64(CircuitDepth(ReferenceQubits))
	if ref <= 0 {
		return 1.0
	}
	return float64(CircuitDepth(numQubits)) / ref
}

// ThresholdForQubits scales the 5-qubit convergence threshold by D(5)/D(n).
func ThresholdForQubits(numQubits int) float64 {
	return depthCorrected(Threshold5Q, numQubits)
}

// CriticalNoiseForQubits is the depolarizing rate above which TQQC stops paying off.
func CriticalNoiseForQubits(numQubits int) float64 {
	return depthCorrected(MaxRecommendedNoise, numQubits)
}

func depthCorrected(base float64, numQubits int) float64 {
	d := CircuitDepth(numQubits)
	if d == 0 {
		return base
	}
	return base * (float64(CircuitDepth(ReferenceQubits)) / float64(d))
}

// ZCritical maps a confidence level to a standard normal quantile.
func ZCritical(confidence float64) float64 {
	switch {
	case confidence >= 0.99:
		return ZCrit99
	case confidence >= 0.975:
		return ZCrit975
	case confidence >= 0.95:
		return ZCrit95
	case confidence >= 0.90:
		return ZCrit90
	default:
		return ZCrit95
	}
}
