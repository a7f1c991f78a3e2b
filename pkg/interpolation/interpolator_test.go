package interpolation

import (
	"math"
	"testing"
)

// TestParseInterpolator verifies the accepted mode names
func TestParseInterpolator(t *testing.T) {
	tests := []struct {
		name string
		want Interpolator
		ok   bool
	}{
		{"Neighbor", NearestNeighbor, true},
		{"BSpline", BSpline, true},
		{"Linear", Linear, true},
		{"linear", Unset, false},
		{"Cubic", Unset, false},
		{"", Unset, false},
	}

	for _, tc := range tests {
		got, ok := ParseInterpolator(tc.name)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseInterpolator(%q): expected (%v, %v), got (%v, %v)", tc.name, tc.want, tc.ok, got, ok)
		}
	}

	if Unset.Resolve() != Linear {
		t.Errorf("Expected Unset to resolve to Linear, got %v", Unset.Resolve())
	}
}

// TestNearestSampler checks rounding and clamping of the nearest neighbour rule
func TestNearestSampler(t *testing.T) {
	s, err := NewLineSampler(NearestNeighbor)
	if err != nil {
		t.Fatalf("Failed to create sampler: %v", err)
	}

	line := []float64{10, 20, 30}
	positions := []float64{-0.4, 0.49, 0.5, 1.6, 2.4, 5}
	expected := []float64{10, 10, 20, 30, 30, 30}
	out := make([]float64, len(positions))

	if err := s.Sample(line, positions, out); err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	for i := range expected {
		if out[i] != expected[i] {
			t.Errorf("Position %.2f: expected %.1f, got %.1f", positions[i], expected[i], out[i])
		}
	}
}

// TestLinearSampler checks that linear sampling reproduces a ramp exactly
func TestLinearSampler(t *testing.T) {
	s, err := NewLineSampler(Linear)
	if err != nil {
		t.Fatalf("Failed to create sampler: %v", err)
	}

	line := []float64{0, 2, 4, 6}
	positions := []float64{0, 0.25, 1.5, 3, 3.4}
	expected := []float64{0, 0.5, 3, 6, 6}
	out := make([]float64, len(positions))

	if err := s.Sample(line, positions, out); err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	for i := range expected {
		if math.Abs(out[i]-expected[i]) > 1e-12 {
			t.Errorf("Position %.2f: expected %.3f, got %.3f", positions[i], expected[i], out[i])
		}
	}
}

// TestBSplineSampler checks that the cubic spline passes through the samples
// and differs from linear sampling between them
func TestBSplineSampler(t *testing.T) {
	spline, err := NewLineSampler(BSpline)
	if err != nil {
		t.Fatalf("Failed to create sampler: %v", err)
	}
	linear, _ := NewLineSampler(Linear)

	line := []float64{0, 1, 4, 9, 16}
	positions := []float64{0, 1, 2, 3, 4, 1.5, 2.5}
	splineOut := make([]float64, len(positions))
	linearOut := make([]float64, len(positions))

	if err := spline.Sample(line, positions, splineOut); err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if err := linear.Sample(line, positions, linearOut); err != nil {
		t.Fatalf("Sample failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if math.Abs(splineOut[i]-line[i]) > 1e-9 {
			t.Errorf("Expected spline to pass through sample %d (%.1f), got %.6f", i, line[i], splineOut[i])
		}
	}
	if math.Abs(splineOut[5]-linearOut[5]) < 1e-6 {
		t.Errorf("Expected spline and linear values to differ at 1.5, both %.6f", splineOut[5])
	}
}

// TestShortLines covers lines with fewer samples than a predictor needs
func TestShortLines(t *testing.T) {
	for _, m := range []Interpolator{NearestNeighbor, Linear, BSpline} {
		s, err := NewLineSampler(m)
		if err != nil {
			t.Fatalf("%v: failed to create sampler: %v", m, err)
		}

		out := make([]float64, 3)
		if err := s.Sample([]float64{7}, []float64{-1, 0, 2}, out); err != nil {
			t.Fatalf("%v: single sample line failed: %v", m, err)
		}
		for i, v := range out {
			if v != 7 {
				t.Errorf("%v: expected 7 at output %d, got %.3f", m, i, v)
			}
		}

		if err := s.Sample([]float64{0, 10}, []float64{0.5}, out[:1]); err != nil {
			t.Fatalf("%v: two sample line failed: %v", m, err)
		}

		if err := s.Sample(nil, []float64{0}, out[:1]); err == nil {
			t.Errorf("%v: expected error for empty line", m)
		}
	}
}
