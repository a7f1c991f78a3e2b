// Package resample recomputes volumes on a new voxel grid while preserving
// their physical field of view.
package resample

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"mriview/internal/models"
	"mriview/pkg/interpolation"
)

// ErrZeroSpacing is returned when a target spacing component is zero.
var ErrZeroSpacing = errors.New("output spacing must be non-zero")

// Params holds the resampling configuration.
type Params struct {
	// Spacing is the target voxel spacing along x, y and z in mm.
	Spacing [3]float64

	// Interpolator selects the sampling rule. Unset falls back to Linear.
	Interpolator interpolation.Interpolator

	// DefaultValue fills output voxels that map outside the input grid.
	DefaultValue float64

	// Logger receives progress messages. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultParams returns unit spacing, the default interpolator and a zero fill value.
func DefaultParams() *Params {
	return &Params{
		Spacing:      [3]float64{1, 1, 1},
		Interpolator: interpolation.Unset,
	}
}

// PixelIDDefault returns the volume's pixel type identifier as a fill value.
// Pass it as Params.DefaultValue to reproduce outputs filled that way.
func PixelIDDefault(vol *models.Volume) float64 {
	return float64(vol.PixelIDValue())
}

// Resampler resamples volumes with a fixed set of parameters.
type Resampler struct {
	params *Params
	logger *slog.Logger
}

// NewResampler creates a resampler. A nil params uses DefaultParams.
func NewResampler(params *Params) *Resampler {
	if params == nil {
		params = DefaultParams()
	}
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resampler{params: params, logger: logger}
}

// OutputSize returns ceil(size[i]*spacing[i]/out[i]) for the first dim axes.
// Remaining axes keep their size.
func OutputSize(size [3]int, spacing, out [3]float64, dim int) ([3]int, error) {
	result := size
	for i := 0; i < dim; i++ {
		if out[i] == 0 {
			return result, fmt.Errorf("axis %d: %w", i, ErrZeroSpacing)
		}
		n := math.Ceil(float64(size[i]) * (spacing[i] / out[i]))
		if n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			return result, fmt.Errorf("axis %d: invalid output size %v for spacing %v", i, n, out[i])
		}
		result[i] = int(n)
	}
	return result, nil
}

// Execute resamples vol onto the configured spacing. The output keeps the
// input's origin and direction unchanged; the input is not modified.
func (r *Resampler) Execute(vol *models.Volume) (*models.Volume, error) {
	if err := vol.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input volume: %w", err)
	}
	dim := vol.Dimension()

	outSpacing := r.params.Spacing
	if dim == 2 {
		outSpacing[2] = vol.Spacing[2]
	}
	outSize, err := OutputSize(vol.Size, vol.Spacing, outSpacing, dim)
	if err != nil {
		return nil, err
	}

	mode := r.params.Interpolator.Resolve()
	sampler, err := interpolation.NewLineSampler(mode)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("resampling volume",
		"inputSize", vol.Size, "inputSpacing", vol.Spacing,
		"outputSize", outSize, "outputSpacing", outSpacing,
		"interpolator", mode.String())

	nc := vol.NumberOfComponents()
	out := &models.Volume{
		Data:       make([]float64, outSize[0]*outSize[1]*outSize[2]*nc),
		Size:       outSize,
		Dim:        vol.Dim,
		Spacing:    outSpacing,
		PixelType:  vol.PixelType,
		Components: nc,
	}
	out.Origin = vol.Origin
	out.Direction = models.Identity()
	if vol.Direction != nil {
		out.Direction.Copy(vol.Direction)
	}
	if out.Empty() {
		return out, nil
	}

	// Continuous input index of every output grid line, per axis.
	var positions [3][]float64
	var inside [3][]bool
	for a := 0; a < 3; a++ {
		positions[a] = make([]float64, outSize[a])
		inside[a] = make([]bool, outSize[a])
		for i := range positions[a] {
			p := float64(i)
			if a < dim {
				p = float64(i) * outSpacing[a] / vol.Spacing[a]
			}
			positions[a][i] = p
			inside[a][i] = p >= -0.5 && p < float64(vol.Size[a])-0.5
		}
	}

	if vol.Empty() {
		for i := range out.Data {
			out.Data[i] = r.params.DefaultValue
		}
		return out, nil
	}

	plane := make([]float64, vol.NumberOfVoxels())
	for c := 0; c < nc; c++ {
		for i := range plane {
			plane[i] = vol.Data[i*nc+c]
		}

		data, dims := plane, vol.Size
		for a := 0; a < dim; a++ {
			data, dims, err = resampleAxis(data, dims, a, positions[a], sampler)
			if err != nil {
				return nil, fmt.Errorf("component %d, axis %d: %w", c, a, err)
			}
		}

		idx := 0
		for z := 0; z < outSize[2]; z++ {
			for y := 0; y < outSize[1]; y++ {
				for x := 0; x < outSize[0]; x++ {
					value := data[idx]
					if !inside[0][x] || !inside[1][y] || !inside[2][z] {
						value = r.params.DefaultValue
					}
					out.Data[idx*nc+c] = value
					idx++
				}
			}
		}
	}

	return out, nil
}

// resampleAxis samples every line of src along axis at positions, returning
// the new buffer and its dimensions.
func resampleAxis(src []float64, dims [3]int, axis int, positions []float64, sampler interpolation.LineSampler) ([]float64, [3]int, error) {
	outDims := dims
	outDims[axis] = len(positions)

	strides := [3]int{1, dims[0], dims[0] * dims[1]}
	outStrides := [3]int{1, outDims[0], outDims[0] * outDims[1]}
	dst := make([]float64, outDims[0]*outDims[1]*outDims[2])

	// the two axes that are not being resampled
	u, v := (axis+1)%3, (axis+2)%3
	line := make([]float64, dims[axis])
	values := make([]float64, len(positions))

	for j := 0; j < dims[v]; j++ {
		for i := 0; i < dims[u]; i++ {
			base := i*strides[u] + j*strides[v]
			for k := range line {
				line[k] = src[base+k*strides[axis]]
			}
			if err := sampler.Sample(line, positions, values); err != nil {
				return nil, outDims, err
			}
			outBase := i*outStrides[u] + j*outStrides[v]
			for k, value := range values {
				dst[outBase+k*outStrides[axis]] = value
			}
		}
	}
	return dst, outDims, nil
}

// Interpolate resamples vol to spacing using the interpolator named by mode
// ("Neighbor", "BSpline" or "Linear"). Unknown names are logged and leave the
// default interpolator in place. Outside voxels are filled with zero.
func Interpolate(vol *models.Volume, spacing [3]float64, mode string, logger *slog.Logger) (*models.Volume, error) {
	params := DefaultParams()
	params.Spacing = spacing
	params.Logger = logger

	if m, ok := interpolation.ParseInterpolator(mode); ok {
		params.Interpolator = m
	} else {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("unknown interpolation mode, keeping default",
			"mode", mode, "default", interpolation.Default.String())
	}

	return NewResampler(params).Execute(vol)
}
