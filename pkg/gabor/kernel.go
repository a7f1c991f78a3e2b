// Package gabor builds 3D Gabor kernels and plots them as thresholded point clouds.
package gabor

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrEmptyKernel is returned for kernels without samples.
	ErrEmptyKernel = errors.New("kernel is empty")

	// ErrNotCubic is returned when the kernel sides differ.
	ErrNotCubic = errors.New("kernel must be cubic")
)

// Kernel is a cubic 3D array of samples stored with the last axis fastest:
// sample (i, j, k) lives at Data[(i*n+j)*n+k].
type Kernel struct {
	Shape [3]int
	Data  []float64
}

// NewKernelFromData wraps data as a kernel of the given shape.
func NewKernelFromData(shape [3]int, data []float64) (*Kernel, error) {
	k := &Kernel{Shape: shape, Data: data}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return k, nil
}

// Size returns the side length.
func (k *Kernel) Size() int { return k.Shape[0] }

// At returns sample (i, j, l).
func (k *Kernel) At(i, j, l int) float64 {
	n := k.Shape[0]
	return k.Data[(i*n+j)*n+l]
}

// Validate checks that the kernel is a non-empty cube matching its data.
func (k *Kernel) Validate() error {
	n := k.Shape[0]
	if n <= 0 {
		return ErrEmptyKernel
	}
	if k.Shape[1] != n || k.Shape[2] != n {
		return fmt.Errorf("%w: shape %v", ErrNotCubic, k.Shape)
	}
	if len(k.Data) != n*n*n {
		return fmt.Errorf("kernel data has %d samples, expected %d", len(k.Data), n*n*n)
	}
	return nil
}

// Params configures the kernel generator.
type Params struct {
	// Size is the side length of the kernel in samples
	Size int

	// Sigma is the standard deviation of the Gaussian envelope in samples
	Sigma float64

	// Frequency is the carrier frequency in cycles per sample
	Frequency float64

	// Theta is the azimuth of the carrier direction in radians
	Theta float64

	// Phi is the polar angle of the carrier direction in radians
	Phi float64
}

// DefaultParams returns a 21^3 kernel with the carrier along z.
func DefaultParams() *Params {
	return &Params{
		Size:      21,
		Sigma:     4,
		Frequency: 0.15,
	}
}

// Direction returns the unit carrier direction for theta and phi.
func Direction(theta, phi float64) r3.Vec {
	return r3.Vec{
		X: math.Sin(phi) * math.Cos(theta),
		Y: math.Sin(phi) * math.Sin(theta),
		Z: math.Cos(phi),
	}
}

// NewKernel samples exp(-|p|^2 / 2 sigma^2) * cos(2 pi f p.u) on the centred
// grid returned by Coordinates, where u is the carrier direction.
func NewKernel(params *Params) (*Kernel, error) {
	if params == nil {
		params = DefaultParams()
	}
	if params.Size <= 0 {
		return nil, ErrEmptyKernel
	}
	if params.Sigma <= 0 {
		return nil, fmt.Errorf("sigma must be positive, got %v", params.Sigma)
	}

	n := params.Size
	coords := Coordinates(n)
	u := Direction(params.Theta, params.Phi)
	k := &Kernel{Shape: [3]int{n, n, n}, Data: make([]float64, n*n*n)}

	twoSigma2 := 2 * params.Sigma * params.Sigma
	for i, x := range coords {
		for j, y := range coords {
			for l, z := range coords {
				p := r3.Vec{X: x, Y: y, Z: z}
				envelope := math.Exp(-r3.Norm2(p) / twoSigma2)
				carrier := math.Cos(2 * math.Pi * params.Frequency * r3.Dot(p, u))
				k.Data[(i*n+j)*n+l] = envelope * carrier
			}
		}
	}
	return k, nil
}
