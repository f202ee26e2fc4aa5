package embedding

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"identical", []float64{1, 0, 0}, []float64{1, 0, 0}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"length mismatch", []float64{1, 0}, []float64{1, 0, 0}, 0},
		{"zero vector", []float64{0, 0}, []float64{1, 0}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Cosine(tc.a, tc.b)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("got %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestCosineScaleInvariant(t *testing.T) {
	a := []float64{0.3, 0.4, 0.5}
	scaled := []float64{0.6, 0.8, 1.0}

	if got := Cosine(a, scaled); math.Abs(got-1) > 1e-9 {
		t.Errorf("scaled vectors should have similarity 1, got %v", got)
	}
}

func TestToFloat32(t *testing.T) {
	in := []float64{0.5, -1.25, 2}
	out := ToFloat32(in)

	if len(out) != len(in) {
		t.Fatalf("length: got %d, expected %d", len(out), len(in))
	}
	for i := range in {
		if float64(out[i]) != in[i] {
			t.Errorf("index %d: got %v, expected %v", i, out[i], in[i])
		}
	}
}
