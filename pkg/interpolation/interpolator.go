// Package interpolation provides the sampling rules used when a volume is
// recomputed on a new voxel grid.
//
// Volumes are resampled one axis at a time, so every rule here works on a
// single line of samples located at the integer positions 0..n-1.
package interpolation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
)

// Interpolator selects how values between grid points are estimated.
type Interpolator int

const (
	// Unset leaves the choice to the resampler, which falls back to Linear.
	Unset Interpolator = iota
	NearestNeighbor
	Linear
	BSpline
)

// Default is the interpolator used when none was selected.
const Default = Linear

func (m Interpolator) String() string {
	switch m {
	case Unset:
		return "Unset"
	case NearestNeighbor:
		return "Neighbor"
	case Linear:
		return "Linear"
	case BSpline:
		return "BSpline"
	}
	return fmt.Sprintf("Interpolator(%d)", int(m))
}

// ParseInterpolator maps the mode names "Neighbor", "BSpline" and "Linear" to
// an Interpolator. Unknown names return Unset and false.
func ParseInterpolator(name string) (Interpolator, bool) {
	switch name {
	case "Neighbor":
		return NearestNeighbor, true
	case "BSpline":
		return BSpline, true
	case "Linear":
		return Linear, true
	}
	return Unset, false
}

// Resolve replaces Unset with Default.
func (m Interpolator) Resolve() Interpolator {
	if m == Unset {
		return Default
	}
	return m
}

// LineSampler evaluates a line of samples at continuous positions.
type LineSampler interface {
	// Sample writes the value of line at each of positions into out.
	// Positions outside [0, len(line)-1] are clamped to the nearest end.
	Sample(line, positions, out []float64) error
}

// NewLineSampler returns the sampler for m. Unset yields the Default sampler.
func NewLineSampler(m Interpolator) (LineSampler, error) {
	switch m.Resolve() {
	case NearestNeighbor:
		return nearestSampler{}, nil
	case Linear:
		return &fitSampler{newPredictor: func() interp.FittablePredictor { return &interp.PiecewiseLinear{} }, minPoints: 2}, nil
	case BSpline:
		return &fitSampler{newPredictor: func() interp.FittablePredictor { return &interp.NaturalCubic{} }, minPoints: 3}, nil
	}
	return nil, fmt.Errorf("unsupported interpolator %v", m)
}

// nearestSampler rounds half-integers up, so 0.5 maps to sample 1.
type nearestSampler struct{}

func (nearestSampler) Sample(line, positions, out []float64) error {
	n := len(line)
	if n == 0 {
		return fmt.Errorf("cannot sample an empty line")
	}
	for i, p := range positions {
		idx := int(math.Floor(p + 0.5))
		out[i] = line[clampIndex(idx, n)]
	}
	return nil
}

// fitSampler fits a gonum predictor to each line. Lines too short for the
// predictor fall back to linear, then to a constant.
type fitSampler struct {
	newPredictor func() interp.FittablePredictor
	minPoints    int
	xs           []float64
}

func (s *fitSampler) Sample(line, positions, out []float64) error {
	n := len(line)
	switch {
	case n == 0:
		return fmt.Errorf("cannot sample an empty line")
	case n == 1:
		for i := range positions {
			out[i] = line[0]
		}
		return nil
	}

	var predictor interp.FittablePredictor
	if n < s.minPoints {
		predictor = &interp.PiecewiseLinear{}
	} else {
		predictor = s.newPredictor()
	}
	if err := predictor.Fit(s.grid(n), line); err != nil {
		return fmt.Errorf("fitting %d samples: %w", n, err)
	}
	last := float64(n - 1)
	for i, p := range positions {
		out[i] = predictor.Predict(math.Max(0, math.Min(last, p)))
	}
	return nil
}

// grid returns the positions 0..n-1, reusing the previous slice when possible.
func (s *fitSampler) grid(n int) []float64 {
	if len(s.xs) != n {
		s.xs = make([]float64, n)
		for i := range s.xs {
			s.xs[i] = float64(i)
		}
	}
	return s.xs
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
