// Package report prints human readable metadata for volumes.
package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"mriview/internal/models"
)

const separator = "----------------------------"

// ImagesInfo writes the size, spacing, extent and dimensionality of each
// volume to w, in order, followed by a separator line.
func ImagesInfo(w io.Writer, vols ...*models.Volume) error {
	for _, vol := range vols {
		if err := imageInfo(w, vol); err != nil {
			return err
		}
	}
	return nil
}

func imageInfo(w io.Writer, vol *models.Volume) error {
	voxels := uint64(vol.NumberOfVoxels())
	lines := []string{
		fmt.Sprintf("Size(total voxels):      %v (%s voxels)", vol.GetSize(), humanize.Comma(int64(voxels))),
		fmt.Sprintf("Spacing(between voxels): %v", vol.GetSpacing()),
		fmt.Sprintf("Width, Height and Depth: %d x %d x %d", vol.Width(), vol.Height(), vol.Depth()),
		fmt.Sprintf("Dimension:               %d", vol.Dimension()),
		fmt.Sprintf("Pixel type:              %s, %d component(s), %s in memory",
			vol.PixelType, vol.NumberOfComponents(), humanize.IBytes(voxels*uint64(vol.NumberOfComponents())*8)),
		separator,
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
