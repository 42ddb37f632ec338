package domain

import (
	"errors"
	"math"
	"testing"
)

func TestNewTruthValue(t *testing.T) {
	tests := []struct {
		name       string
		strength   float64
		confidence float64
		wantErr    bool
	}{
		{"zero", 0, 0, false},
		{"one", 1, 1, false},
		{"interior", 0.8, 0.7, false},
		{"strength below", -0.01, 0.5, true},
		{"strength above", 1.01, 0.5, true},
		{"confidence below", 0.5, -0.5, true},
		{"confidence above", 0.5, 2, true},
		{"NaN strength", math.NaN(), 0.5, true},
		{"infinite confidence", 0.5, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tv, err := NewTruthValue(tt.strength, tt.confidence)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("NewTruthValue(%v, %v) error = %v, want ErrValidation", tt.strength, tt.confidence, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tv.Strength != tt.strength || tv.Confidence != tt.confidence {
				t.Errorf("got %v, want exact round trip of (%v, %v)", tv, tt.strength, tt.confidence)
			}
		})
	}
}

func TestTruthValue_Revision(t *testing.T) {
	a := TruthValue{Strength: 0.8, Confidence: 0.7}
	b := TruthValue{Strength: 0.6, Confidence: 0.8}

	got := a.Revision(b)
	wantStrength := (0.8*0.7 + 0.6*0.8) / 1.5
	if math.Abs(got.Strength-wantStrength) > 1e-9 {
		t.Errorf("strength = %v, want %v", got.Strength, wantStrength)
	}
	if got.Confidence != 1.0 {
		t.Errorf("confidence = %v, want saturation at 1.0", got.Confidence)
	}
}

func TestTruthValue_RevisionBelowSaturation(t *testing.T) {
	got := TruthValue{Strength: 1, Confidence: 0.2}.Revision(TruthValue{Strength: 0, Confidence: 0.2})
	want := TruthValue{Strength: 0.5, Confidence: 0.4}
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTruthValue_RevisionIsCommutative(t *testing.T) {
	values := []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1}
	for _, s1 := range values {
		for _, c1 := range values {
			for _, s2 := range values {
				for _, c2 := range values {
					a := TruthValue{Strength: s1, Confidence: c1}
					b := TruthValue{Strength: s2, Confidence: c2}
					if !a.Revision(b).Equal(b.Revision(a)) {
						t.Fatalf("Revision not commutative for %v and %v", a, b)
					}
				}
			}
		}
	}
}

func TestTruthValue_RevisionOfIgnorance(t *testing.T) {
	for _, pair := range [][2]float64{{0, 0}, {1, 0.3}, {0.2, 0.9}} {
		a := TruthValue{Strength: pair[0], Confidence: 0}
		b := TruthValue{Strength: pair[1], Confidence: 0}
		got := a.Revision(b)
		if got != (TruthValue{Strength: 0.5, Confidence: 0}) {
			t.Errorf("Revision(%v, %v) = %v, want (0.5, 0)", a, b, got)
		}
	}
}

func TestTruthValue_Equal(t *testing.T) {
	base := TruthValue{Strength: 0.5, Confidence: 0.5}
	if !base.Equal(TruthValue{Strength: 0.5009, Confidence: 0.4991}) {
		t.Error("values within tolerance should be equal")
	}
	if base.Equal(TruthValue{Strength: 0.502, Confidence: 0.5}) {
		t.Error("values outside tolerance should differ")
	}
}

func TestDefaultTruthValue(t *testing.T) {
	if got := DefaultTruthValue(); got != (TruthValue{Strength: 1, Confidence: 1}) {
		t.Errorf("DefaultTruthValue() = %v", got)
	}
}
