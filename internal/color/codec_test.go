package color

import (
	"math"
	"testing"
)

func TestEncodeEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{"zero", 0, SampleMin},
		{"one", 1, SampleMax},
		{"half", 0.5, 0},
		{"below range", -0.25, SampleMin},
		{"above range", 1.5, SampleMax},
		{"nan", float32(math.NaN()), SampleMin},
		{"+inf", float32(math.Inf(1)), SampleMax},
		{"-inf", float32(math.Inf(-1)), SampleMin},
		{"one step", 1.0 / 65535, SampleMin + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.input); got != tt.want {
				t.Errorf("Encode(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input int16
		want  float32
	}{
		{"min", SampleMin, 0},
		{"max", SampleMax, 1},
		{"zero", 0, 32768.0 / 65535.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decode(tt.input); !floatNear(got, tt.want, 1e-7) {
				t.Errorf("Decode(%d) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestDecodeEncodeWithinOneStep checks decode(encode(c)) stays within one
// quantization step of c across [0,1].
func TestDecodeEncodeWithinOneStep(t *testing.T) {
	maxError := float32(0)
	for i := 0; i <= 100000; i++ {
		c := float32(i) / 100000
		got := Decode(Encode(c))
		diff := float32(math.Abs(float64(got - c)))
		if diff > maxError {
			maxError = diff
		}
		if diff > Step {
			t.Fatalf("decode(encode(%v)) = %v, error %v exceeds one step", c, got, diff)
		}
	}
	t.Logf("Max round-trip error: %g (step %g)", maxError, Step)
}

// TestEncodeDecodeIdentity checks every sample is a fixed point of encode∘decode.
func TestEncodeDecodeIdentity(t *testing.T) {
	for v := math.MinInt16; v <= math.MaxInt16; v++ {
		s := int16(v)
		if got := Encode(Decode(s)); got != s {
			t.Fatalf("encode(decode(%d)) = %d", s, got)
		}
	}
}

// TestDecodeEncodeIdempotent checks the channel round trip settles after one application.
func TestDecodeEncodeIdempotent(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		c := float32(i) / 997
		once := Decode(Encode(c))
		twice := Decode(Encode(once))
		if once != twice {
			t.Errorf("round trip of %v not idempotent: %v then %v", c, once, twice)
		}
	}
}

func floatNear(a, b, tol float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}
