package volumeio

import (
	"fmt"
	"os"

	"github.com/KyungWonPark/nifti"

	"mriview/internal/models"
)

// safelyParseNifti turns panics raised by the nifti parser into errors.
func safelyParseNifti(path string) (img nifti.Nifti1Image, err error) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			err = fmt.Errorf("%v", panicErr)
		}
	}()

	img.LoadImage(path, true)

	return
}

// safelyParseNiftiHeader turns panics raised by the header parser into errors.
func safelyParseNiftiHeader(path string) (hdr nifti.Nifti1Header, err error) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			err = fmt.Errorf("%v", panicErr)
		}
	}()

	hdr.LoadHeader(path)

	return
}

// LoadNifti reads the first time point of a NIfTI-1 file as a scalar volume.
// Spacing comes from pixdim[1..3]; non-positive entries become 1. Samples are
// read as 32-bit floats.
func LoadNifti(path string) (*models.Volume, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	img, err := safelyParseNifti(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse NIfTI image %s: %w", path, err)
	}
	hdr, err := safelyParseNiftiHeader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse NIfTI header %s: %w", path, err)
	}

	dims := img.GetDims()
	width, height, depth := int(dims[0]), int(dims[1]), int(dims[2])
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("NIfTI image %s has invalid dimensions %v", path, dims)
	}
	if depth < 1 {
		depth = 1
	}

	vol := models.NewVolume(width, height, depth, models.Float32, 1)
	for i := 0; i < 3; i++ {
		if s := float64(hdr.Pixdim[i+1]); s > 0 {
			vol.Spacing[i] = s
		}
	}

	err = func() (err error) {
		defer func() {
			if panicErr := recover(); panicErr != nil {
				err = fmt.Errorf("%v", panicErr)
			}
		}()
		for z := 0; z < depth; z++ {
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					vol.Set(x, y, z, 0, float64(img.GetAt(uint32(x), uint32(y), uint32(z), 0)))
				}
			}
		}
		return nil
	}()
	if err != nil {
		return nil, fmt.Errorf("failed to read NIfTI samples from %s: %w", path, err)
	}
	return vol, nil
}
