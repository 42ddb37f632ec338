package domain

import (
	"fmt"
	"math"
)

// TruthValueTolerance is the per-component tolerance used by TruthValue.Equal.
const TruthValueTolerance = 1e-3

// TruthValue is a (strength, confidence) pair in [0,1]x[0,1].
type TruthValue struct {
	Strength   float64 `json:"strength" yaml:"strength"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

func NewTruthValue(strength, confidence float64) (TruthValue, error) {
	if !inUnitInterval(strength) {
		return TruthValue{}, newValidationError("strength", "%v is outside [0, 1]", strength)
	}
	if !inUnitInterval(confidence) {
		return TruthValue{}, newValidationError("confidence", "%v is outside [0, 1]", confidence)
	}
	return TruthValue{Strength: strength, Confidence: confidence}, nil
}

// DefaultTruthValue is assigned to atoms constructed without an explicit truth value.
func DefaultTruthValue() TruthValue {
	return TruthValue{Strength: 1.0, Confidence: 1.0}
}

// Revision pools the evidence of two truth values. Strength becomes the
// confidence-weighted mean; confidence is summed and saturates at 1.
// Two zero-confidence values revise to total ignorance (0.5, 0).
func (tv TruthValue) Revision(other TruthValue) TruthValue {
	total := tv.Confidence + other.Confidence
	if total == 0 {
		return TruthValue{Strength: 0.5, Confidence: 0.0}
	}
	strength := (tv.Strength*tv.Confidence + other.Strength*other.Confidence) / total
	return TruthValue{
		Strength:   strength,
		Confidence: math.Min(1.0, total),
	}
}

func (tv TruthValue) Equal(other TruthValue) bool {
	return math.Abs(tv.Strength-other.Strength) <= TruthValueTolerance &&
		math.Abs(tv.Confidence-other.Confidence) <= TruthValueTolerance
}

func (tv TruthValue) Validate() error {
	_, err := NewTruthValue(tv.Strength, tv.Confidence)
	return err
}

func (tv TruthValue) String() string {
	return fmt.Sprintf("<%.3f, %.3f>", tv.Strength, tv.Confidence)
}

func inUnitInterval(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
