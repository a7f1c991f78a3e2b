package visualization

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"mriview/internal/models"
)

// ErrSliceOutOfBounds is returned when a slice index lies outside the volume.
var ErrSliceOutOfBounds = errors.New("slice index out of bounds")

// Viewer extracts axis-aligned slices from a volume and exports them.
type Viewer struct {
	// volume is the 3D volume being viewed; it is never modified
	volume *models.Volume

	logger *slog.Logger
}

// NewViewer creates a viewer for vol. A nil logger uses slog.Default().
func NewViewer(vol *models.Volume, logger *slog.Logger) *Viewer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Viewer{volume: vol, logger: logger}
}

// ExtractSlice returns the 2D image at position along axis:
//
//	x: size (H, D), pixel (j, k) = volume(position, j, k)
//	y: size (W, D), pixel (i, k) = volume(i, position, k)
//	z: size (W, H), pixel (i, j) = volume(i, j, position)
//
// The slice keeps the spacing of its two in-plane axes and its origin is the
// physical position of its first voxel.
func (v *Viewer) ExtractSlice(axis models.Axis, position int) (*models.Volume, error) {
	vol := v.volume
	if vol.Dimension() != 3 {
		return nil, fmt.Errorf("slicing requires a 3D volume, got %dD", vol.Dimension())
	}
	if axis < models.AxisX || axis > models.AxisZ {
		return nil, fmt.Errorf("invalid axis: %v", axis)
	}
	if position < 0 || position >= vol.Size[axis] {
		return nil, fmt.Errorf("%w: %s=%d, volume has %d", ErrSliceOutOfBounds, axis, position, vol.Size[axis])
	}

	// in-plane axes, in output x, y order
	var u, w models.Axis
	switch axis {
	case models.AxisX:
		u, w = models.AxisY, models.AxisZ
	case models.AxisY:
		u, w = models.AxisX, models.AxisZ
	default:
		u, w = models.AxisX, models.AxisY
	}

	nc := vol.NumberOfComponents()
	slice := models.NewImage2D(vol.Size[u], vol.Size[w], vol.PixelType, nc)
	slice.Spacing = [3]float64{vol.Spacing[u], vol.Spacing[w], 1}
	slice.Origin = v.physicalPoint(axis, position)

	var idx [3]int
	idx[axis] = position
	for j := 0; j < vol.Size[w]; j++ {
		idx[w] = j
		for i := 0; i < vol.Size[u]; i++ {
			idx[u] = i
			for c := 0; c < nc; c++ {
				slice.Set(i, j, 0, c, vol.At(idx[0], idx[1], idx[2], c))
			}
		}
	}
	return slice, nil
}

// physicalPoint returns origin + direction * (spacing * index) for the first
// voxel of the slice.
func (v *Viewer) physicalPoint(axis models.Axis, position int) [3]float64 {
	vol := v.volume
	var offset [3]float64
	offset[axis] = float64(position) * vol.Spacing[axis]

	dir := vol.Direction
	if dir == nil {
		dir = models.Identity()
	}
	var p mat.VecDense
	p.MulVec(dir, mat.NewVecDense(3, offset[:]))
	return [3]float64{vol.Origin[0] + p.AtVec(0), vol.Origin[1] + p.AtVec(1), vol.Origin[2] + p.AtVec(2)}
}

// SliceImage converts a 2D slice to an image, min-max scaled for scalar
// slices and read as RGB(A) for three- or four-component slices.
func SliceImage(slice *models.Volume) (image.Image, error) {
	if slice.Dimension() != 2 {
		return nil, fmt.Errorf("expected a 2D slice, got %dD", slice.Dimension())
	}
	return arrayImage(ArrayFromVolume(slice))
}

// SaveSlice saves an image as PNG.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveSliceSequence extracts and saves every slice along axis to outputDir as
// slice_<axis>_<index>.png.
func (v *Viewer) SaveSliceSequence(axis models.Axis, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	if axis < models.AxisX || axis > models.AxisZ {
		return fmt.Errorf("invalid axis: %v", axis)
	}

	count := v.volume.Size[axis]
	for pos := 0; pos < count; pos++ {
		slice, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}
		img, err := SliceImage(slice)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}
	v.logger.Debug("saved slice sequence", "axis", axis.String(), "count", count, "dir", outputDir)
	return nil
}
