package visualization

import (
	"fmt"

	"mriview/internal/models"
)

// Show3DOptions selects the slices to composite along each axis.
type Show3DOptions struct {
	XSlices []int
	YSlices []int
	ZSlices []int

	ShowOptions
}

// DefaultShow3DOptions returns no slices and the default show options.
func DefaultShow3DOptions() *Show3DOptions {
	return &Show3DOptions{ShowOptions: *DefaultShowOptions()}
}

// Composite extracts the requested slices of vol and tiles them into one 2D
// image: one row per axis with at least one index, in x, y, z order, and as
// many columns as the longest index list. Shorter rows are padded with empty
// placeholders. Vector volumes are tiled one component at a time and
// recombined. With no indices at all, vol itself is returned.
func Composite(vol *models.Volume, xSlices, ySlices, zSlices []int) (*models.Volume, error) {
	viewer := NewViewer(vol, nil)

	var rowsOfSlices [][]*models.Volume
	maxLen := 0
	for i, indices := range [][]int{xSlices, ySlices, zSlices} {
		if len(indices) == 0 {
			continue
		}
		axis := models.Axis(i)
		row := make([]*models.Volume, 0, len(indices))
		for _, idx := range indices {
			slice, err := viewer.ExtractSlice(axis, idx)
			if err != nil {
				return nil, err
			}
			row = append(row, slice)
		}
		rowsOfSlices = append(rowsOfSlices, row)
		maxLen = max(maxLen, len(row))
	}
	if len(rowsOfSlices) == 0 {
		return vol, nil
	}

	var slices []*models.Volume
	for _, row := range rowsOfSlices {
		for len(row) < maxLen {
			row = append(row, models.NewImage2D(0, 0, vol.PixelType, vol.NumberOfComponents()))
		}
		slices = append(slices, row...)
	}

	cols, rows := maxLen, len(rowsOfSlices)
	nc := vol.NumberOfComponents()
	if nc == 1 {
		return Tile(slices, cols, rows)
	}

	planes := make([]*models.Volume, nc)
	for c := 0; c < nc; c++ {
		component := make([]*models.Volume, len(slices))
		for i, s := range slices {
			sc, err := s.SelectComponent(c)
			if err != nil {
				return nil, err
			}
			component[i] = sc
		}
		tiled, err := Tile(component, cols, rows)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", c, err)
		}
		planes[c] = tiled
	}
	return models.Compose(planes...)
}

// Show3D composites the selected slices of vol and renders the result.
func Show3D(vol *models.Volume, opts *Show3DOptions) (*Figure, error) {
	if opts == nil {
		opts = DefaultShow3DOptions()
	}
	composite, err := Composite(vol, opts.XSlices, opts.YSlices, opts.ZSlices)
	if err != nil {
		return nil, err
	}
	return Show(composite, &opts.ShowOptions)
}
