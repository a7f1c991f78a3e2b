package visualization

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"mriview/internal/models"
)

const (
	// maxUpscale bounds the pixel replication factor applied before drawing
	maxUpscale = 4

	// maxUpscaledSide bounds the longest side of the replicated raster
	maxUpscaledSide = 2048
)

// ShowOptions controls how a slice is rendered.
type ShowOptions struct {
	// Title is set on the figure when non-empty
	Title string

	// Margin is the fraction of the page left blank on every side
	Margin float64

	// DPI converts pixel counts into page size
	DPI int

	// MinSide is the smallest page side; smaller pages are scaled up
	// uniformly. Zero keeps the exact (1+Margin)*pixels/DPI size.
	MinSide vg.Length

	// Logger receives debug messages. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultShowOptions returns a 5% margin at 80 DPI with pages of at least
// DefaultMinSide.
func DefaultShowOptions() *ShowOptions {
	return &ShowOptions{Margin: 0.05, DPI: 80, MinSide: DefaultMinSide}
}

// Show renders the displayable slice of vol: the image itself for 2D and RGB(A)
// inputs, the middle slice along z for volumes. Axes are labelled in physical
// units derived from the spacing, with the first row at the top.
func Show(vol *models.Volume, opts *ShowOptions) (*Figure, error) {
	if opts == nil {
		opts = DefaultShowOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DPI <= 0 {
		return nil, fmt.Errorf("dpi must be positive, got %d", opts.DPI)
	}
	if err := vol.Validate(); err != nil {
		return nil, fmt.Errorf("invalid volume: %w", err)
	}

	nda, err := SelectDisplaySlice(ArrayFromVolume(vol))
	if err != nil {
		return nil, err
	}
	img, err := arrayImage(nda)
	if err != nil {
		return nil, err
	}

	rows, cols := nda.Shape[0], nda.Shape[1]
	xExtent := float64(cols) * vol.Spacing[0]
	yExtent := float64(rows) * vol.Spacing[1]
	logger.Debug("rendering slice", "shape", nda.Shape, "extent", []float64{xExtent, yExtent}, "title", opts.Title)

	p := plot.New()
	if opts.Title != "" {
		p.Title.Text = opts.Title
	}
	p.X.Padding, p.Y.Padding = 0, 0
	p.Add(plotter.NewImage(replicatePixels(img, vol.Spacing[0], vol.Spacing[1]), 0, 0, xExtent, yExtent))
	p.Y.Tick.Marker = downwardTicks{}

	return newFigure(p, cols, rows, opts.Margin, opts.DPI, opts.MinSide), nil
}

// downwardTicks labels the y axis so values grow from the top edge down,
// matching the row order of the image.
type downwardTicks struct{}

func (downwardTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		ticks[i].Value = min + max - ticks[i].Value
	}
	return ticks
}

// arrayImage converts a 2D scalar array or an RGB(A) array to an image.
// Scalar slices are min-max scaled through the gray colormap. Colour slices
// are read as [0, 1] for float pixel types and [0, 255] otherwise.
func arrayImage(a Array) (image.Image, error) {
	if a.NDim() < 2 || a.Shape[0] == 0 || a.Shape[1] == 0 {
		return nil, fmt.Errorf("cannot show empty array of shape %v", a.Shape)
	}
	rows, cols := a.Shape[0], a.Shape[1]
	img := image.NewNRGBA(image.Rect(0, 0, cols, rows))

	switch {
	case a.NDim() == 2:
		lo, hi := floats.Min(a.Data), floats.Max(a.Data)
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				t := 0.0
				if hi > lo {
					t = (a.Data[y*cols+x] - lo) / (hi - lo)
				}
				img.Set(x, y, Gray.At(t))
			}
		}
	case a.IsColor():
		nc := a.Shape[2]
		scale := 1.0
		if a.PixelType.IsFloat() {
			scale = 255
		}
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				px := a.Data[(y*cols+x)*nc:]
				c := color.NRGBA{R: channel(px[0], scale), G: channel(px[1], scale), B: channel(px[2], scale), A: 255}
				if nc == 4 {
					c.A = channel(px[3], scale)
				}
				img.SetNRGBA(x, y, c)
			}
		}
	default:
		return nil, &UnsupportedShapeError{Shape: append([]int(nil), a.Shape...)}
	}
	return img, nil
}

func channel(v, scale float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v*scale))))
}

// replicatePixels enlarges img by whole-pixel replication so that drawing
// it into the plot area never blends neighbouring voxels. Anisotropic
// spacing stretches the finer axis to keep pixels proportional.
func replicatePixels(img image.Image, sx, sy float64) image.Image {
	b := img.Bounds()
	kx, ky := 1.0, 1.0
	if sx > 0 && sy > 0 {
		s := math.Min(sx, sy)
		kx, ky = sx/s, sy/s
	}
	w, h := float64(b.Dx())*kx, float64(b.Dy())*ky
	f := math.Min(maxUpscale, math.Max(1, math.Floor(maxUpscaledSide/math.Max(w, h))))

	dst := image.NewNRGBA(image.Rect(0, 0, max(1, int(math.Round(w*f))), max(1, int(math.Round(h*f)))))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
