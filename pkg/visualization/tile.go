package visualization

import (
	"fmt"

	"mriview/internal/models"
)

// Tile arranges 2D scalar images on a cols x rows grid, row-major: image i
// lands in column i%cols of row i/cols. Each column is as wide as its widest
// image and each row as tall as its tallest; inputs sit at the top-left of
// their cell and the rest of the cell is zero. Zero-sized images leave their
// cell empty.
func Tile(images []*models.Volume, cols, rows int) (*models.Volume, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("tile requires at least one image")
	}
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("invalid tile layout %dx%d", cols, rows)
	}
	if len(images) > cols*rows {
		return nil, fmt.Errorf("%d images do not fit a %dx%d layout", len(images), cols, rows)
	}

	colW := make([]int, cols)
	rowH := make([]int, rows)
	var ref *models.Volume
	for i, img := range images {
		if img.Dimension() != 2 {
			return nil, fmt.Errorf("tile input %d is %dD, expected 2D", i, img.Dimension())
		}
		if img.NumberOfComponents() != 1 {
			return nil, fmt.Errorf("tile input %d has %d components, expected 1", i, img.NumberOfComponents())
		}
		if err := img.Validate(); err != nil {
			return nil, fmt.Errorf("tile input %d: %w", i, err)
		}
		colW[i%cols] = max(colW[i%cols], img.Width())
		rowH[i/cols] = max(rowH[i/cols], img.Height())
		if ref == nil && !img.Empty() {
			ref = img
		}
	}
	if ref == nil {
		ref = images[0]
	}

	// running offsets of every column and row
	colX := make([]int, cols+1)
	for c, w := range colW {
		colX[c+1] = colX[c] + w
	}
	rowY := make([]int, rows+1)
	for r, h := range rowH {
		rowY[r+1] = rowY[r] + h
	}

	out := models.NewImage2D(colX[cols], rowY[rows], ref.PixelType, 1)
	out.Spacing = ref.Spacing
	for i, img := range images {
		x0 := colX[i%cols]
		y0 := rowY[i/cols]
		for y := 0; y < img.Height(); y++ {
			for x := 0; x < img.Width(); x++ {
				out.Set(x0+x, y0+y, 0, 0, img.At(x, y, 0, 0))
			}
		}
	}
	return out, nil
}
