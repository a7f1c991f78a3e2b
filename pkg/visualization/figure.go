package visualization

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DefaultMinSide keeps tiny slices legible once axes and tick labels are added.
const DefaultMinSide = 2 * vg.Inch

// Figure is a rendered plot together with its page geometry. Every renderer
// returns its own Figure; nothing is kept in package state.
type Figure struct {
	Plot *plot.Plot

	// Width and Height are the page size
	Width, Height vg.Length

	// DPI is the raster resolution
	DPI int

	// Margin is the fraction of the page left blank on every side of the plot
	Margin float64
}

// newFigure sizes a page of (1+margin)*pixels/dpi inches per side. A positive
// minSide scales the page up uniformly when either side would be smaller.
func newFigure(p *plot.Plot, xPixels, yPixels int, margin float64, dpi int, minSide vg.Length) *Figure {
	w := vg.Length((1+margin)*float64(xPixels)/float64(dpi)) * vg.Inch
	h := vg.Length((1+margin)*float64(yPixels)/float64(dpi)) * vg.Inch
	if small := min(w, h); minSide > 0 && small < minSide {
		if small <= 0 {
			w, h = minSide, minSide
		} else {
			scale := minSide / small
			w, h = w*scale, h*scale
		}
	}
	return &Figure{Plot: p, Width: w, Height: h, DPI: dpi, Margin: margin}
}

// Render draws the figure onto a new raster canvas.
func (f *Figure) Render() *vgimg.Canvas {
	c := vgimg.NewWith(vgimg.UseWH(f.Width, f.Height), vgimg.UseDPI(f.DPI))
	dc := draw.New(c)
	mx := f.Width * vg.Length(f.Margin)
	my := f.Height * vg.Length(f.Margin)
	f.Plot.Draw(draw.Crop(dc, mx, -mx, my, -my))
	return c
}

// Image renders the figure and returns the raster.
func (f *Figure) Image() image.Image {
	return f.Render().Image()
}

// WriteTo writes the figure as PNG.
func (f *Figure) WriteTo(w io.Writer) (int64, error) {
	return vgimg.PngCanvas{Canvas: f.Render()}.WriteTo(w)
}

// Save writes the figure to path; the extension selects PNG, JPEG or TIFF.
func (f *Figure) Save(path string) error {
	var wt io.WriterTo
	c := f.Render()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		wt = vgimg.PngCanvas{Canvas: c}
	case ".jpg", ".jpeg":
		wt = vgimg.JpegCanvas{Canvas: c}
	case ".tif", ".tiff":
		wt = vgimg.TiffCanvas{Canvas: c}
	default:
		return fmt.Errorf("unsupported figure format %q", ext)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := wt.WriteTo(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
