package tqqc

import (
	"math"

	"github.com/oqtopus-team/niso-engine/core"
)

// Direction is the move chosen by one inner step.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionPlus
	DirectionMinus
	DirectionStay
)

func (d Direction) String() string {
	switch d {
	case DirectionPlus:
		return "plus"
	case DirectionMinus:
		return "minus"
	case DirectionStay:
		return "stay"
	default:
		return ""
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "plus":
		*d = DirectionPlus
	case "minus":
		*d = DirectionMinus
	case "stay":
		*d = DirectionStay
	default:
		*d = DirectionNone
	}
	return nil
}

// TestResult is the outcome of comparing two parity measurements. Direction
// is set only when the difference is significant.
type TestResult struct {
	Significant bool      `json:"significant"`
	Z           float64   `json:"z"`
	ZCritical   float64   `json:"z_critical"`
	Direction   Direction `json:"direction,omitempty"`
	Tie         bool      `json:"tie"`
}

// StatisticalTest is a two-sample z-test over parity expectations.
type StatisticalTest struct {
	Mode  SigMode `json:"mode"`
	Level float64 `json:"level"`
}

func NewStatisticalTest(mode SigMode, level float64) StatisticalTest {
	return StatisticalTest{Mode: mode, Level: level}
}

func DefaultStatisticalTest() StatisticalTest {
	return FixedTest(core.DefaultConfidenceLevel)
}

func FixedTest(level float64) StatisticalTest {
	return NewStatisticalTest(SigModeFixed, level)
}

func AdaptiveTest(level float64) StatisticalTest {
	return NewStatisticalTest(SigModeAdaptive, level)
}

// ComputeZ compares two proportions with a pooled standard error.
func (s StatisticalTest) ComputeZ(pPlus, pMinus float64, nPlus, nMinus int) float64 {
	if nPlus <= 0 || nMinus <= 0 {
		return 0
	}
	np, nm := float64(nPlus), float64(nMinus)
	pooled := (pPlus*np + pMinus*nm) / (np + nm)
	se := math.Sqrt(pooled * (1 - pooled) * (1/np + 1/nm))
	if se < 1e-10 {
		return 0
	}
	return math.Abs(pPlus-pMinus) / se
}

// ComputeZFromParity uses var(parity) = (1 - parity^2) / shots for each
// side. A vanishing standard error gives z = 0.
func (s StatisticalTest) ComputeZFromParity(parityPlus, parityMinus float64, shots int) float64 {
	if shots <= 0 {
		return 0
	}
	n := float64(shots)
	se := math.Sqrt((1-parityPlus*parityPlus)/n + (1-parityMinus*parityMinus)/n)
	if se < 1e-10 {
		return 0
	}
	return math.Abs(parityPlus-parityMinus) / se
}

func (s StatisticalTest) ZCritical(shots int, noise float64) float64 {
	if s.Mode == SigModeAdaptive {
		return s.adaptiveCritical(shots, noise)
	}
	return s.fixedCritical()
}

func (s StatisticalTest) fixedCritical() float64 {
	switch {
	case s.Level >= 0.99:
		return core.ZCrit99
	case s.Level >= 0.95:
		return core.ZCrit95
	default:
		return core.ZCrit90
	}
}

// adaptiveCritical raises the confidence for noisy or low-shot runs and
// relaxes it for high-shot runs before mapping it to a quantile.
func (s StatisticalTest) adaptiveCritical(shots int, noise float64) float64 {
	level := s.Level
	if noise > core.DefaultNoise {
		level += core.AdaptiveHighNoiseAdj
	}
	if shots < core.LowShotsThreshold {
		level += core.AdaptiveLowShotsAdj
	}
	if shots >= core.HighShotsThreshold {
		level += core.AdaptiveHighShotsAdj
	}
	level = math.Max(core.MinConfidenceLevel, math.Min(core.MaxConfidenceLevel, level))
	return core.ZCritical(level)
}

func (s StatisticalTest) IsSignificant(z float64, shots int, noise float64) bool {
	return z > s.ZCritical(shots, noise)
}

// Test classifies the pair as a tie, an insignificant difference or a
// significant move toward the larger parity.
func (s StatisticalTest) Test(parityPlus, parityMinus float64, shots int, noise float64) TestResult {
	if math.Abs(parityPlus-parityMinus) < core.TieEpsilon {
		return TestResult{Tie: true}
	}
	z := s.ComputeZFromParity(parityPlus, parityMinus, shots)
	crit := s.ZCritical(shots, noise)
	if z <= crit {
		return TestResult{Z: z, ZCritical: crit}
	}
	dir := DirectionMinus
	if parityPlus > parityMinus {
		dir = DirectionPlus
	}
	return TestResult{Significant: true, Z: z, ZCritical: crit, Direction: dir}
}

// TestProportions converts even-outcome probabilities to parities and tests them.
func (s StatisticalTest) TestProportions(pEvenPlus, pEvenMinus float64, shots int, noise float64) TestResult {
	return s.Test(2*pEvenPlus-1, 2*pEvenMinus-1, shots, noise)
}
