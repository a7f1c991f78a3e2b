package visualization

import (
	"errors"
	"fmt"

	"mriview/internal/models"
)

// ErrUnsupportedShape is matched by every *UnsupportedShapeError.
var ErrUnsupportedShape = errors.New("unsupported array shape")

// UnsupportedShapeError reports an array that cannot be shown as an image,
// such as a vector volume whose components are not RGB or RGBA.
type UnsupportedShapeError struct {
	Shape []int
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("unable to show array of shape %v", e.Shape)
}

// Is lets errors.Is match ErrUnsupportedShape.
func (e *UnsupportedShapeError) Is(target error) bool {
	return target == ErrUnsupportedShape
}

// Array is a dense view of a volume with the slowest axis first:
// (H, W) for 2D scalar images, (D, H, W) for scalar volumes, and a trailing
// component axis when there is more than one component per voxel.
type Array struct {
	Shape     []int
	Data      []float64
	PixelType models.PixelType
}

// ArrayFromVolume returns the array view of vol. Data is shared, not copied.
func ArrayFromVolume(vol *models.Volume) Array {
	var shape []int
	if vol.Dimension() == 3 {
		shape = append(shape, vol.Size[2])
	}
	shape = append(shape, vol.Size[1], vol.Size[0])
	if nc := vol.NumberOfComponents(); nc > 1 {
		shape = append(shape, nc)
	}
	return Array{Shape: shape, Data: vol.Data, PixelType: vol.PixelType}
}

// NDim returns the number of axes.
func (a Array) NDim() int { return len(a.Shape) }

// IsColor reports whether a is a single RGB or RGBA image.
func (a Array) IsColor() bool {
	return a.NDim() == 3 && isColorChannels(a.Shape[2])
}

// index returns the first-axis sub-array at i.
func (a Array) index(i int) Array {
	stride := 1
	for _, n := range a.Shape[1:] {
		stride *= n
	}
	return Array{
		Shape:     append([]int(nil), a.Shape[1:]...),
		Data:      a.Data[i*stride : (i+1)*stride],
		PixelType: a.PixelType,
	}
}

func isColorChannels(c int) bool { return c == 3 || c == 4 }

// SelectDisplaySlice picks the 2D image shown for a.
//
// A 2D array is returned as is. With three axes, a trailing axis of length 3
// or 4 marks a single RGB(A) image, which is also returned as is; any other
// trailing length is a scalar volume and its middle first-axis slice is
// returned. Four axes must end in 3 or 4 components and yield the middle
// first-axis RGB(A) slice.
func SelectDisplaySlice(a Array) (Array, error) {
	switch a.NDim() {
	case 2:
		return a, nil
	case 3:
		if isColorChannels(a.Shape[2]) {
			return a, nil
		}
		return a.index(a.Shape[0] / 2), nil
	case 4:
		if !isColorChannels(a.Shape[3]) {
			return Array{}, &UnsupportedShapeError{Shape: append([]int(nil), a.Shape...)}
		}
		return a.index(a.Shape[0] / 2), nil
	}
	return Array{}, &UnsupportedShapeError{Shape: append([]int(nil), a.Shape...)}
}
