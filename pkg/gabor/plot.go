package gabor

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"mriview/pkg/visualization"
)

// PlotOptions controls the kernel scatter plot.
type PlotOptions struct {
	// Threshold keeps samples whose normalised value is strictly above it
	Threshold float64

	// Elevation and Azimuth set the viewing direction in degrees
	Elevation float64
	Azimuth   float64

	Title string

	// Width and Height are the page size
	Width, Height vg.Length

	DPI int

	// Logger receives debug messages. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultPlotOptions returns a 0.6 threshold viewed from 20 degrees elevation
// and 45 degrees azimuth on a 10x8 inch page.
func DefaultPlotOptions() *PlotOptions {
	return &PlotOptions{
		Threshold: 0.6,
		Elevation: 20,
		Azimuth:   45,
		Title:     "3D Gabor filter",
		Width:     10 * vg.Inch,
		Height:    8 * vg.Inch,
		DPI:       80,
	}
}

// Coordinates returns the n integer positions centred on zero used for each
// kernel axis, from 1-ceil(n/2) up to floor(n/2).
func Coordinates(n int) []float64 {
	start := 1 - (n+1)/2
	coords := make([]float64, n)
	for i := range coords {
		coords[i] = float64(start + i)
	}
	return coords
}

// Normalize min-max scales data to [0, 1]. A constant input yields NaN
// everywhere.
func Normalize(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}
	lo, hi := floats.Min(data), floats.Max(data)
	for i, v := range data {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

// Mask returns the indices of values strictly greater than threshold.
func Mask(values []float64, threshold float64) []int {
	var idx []int
	for i, v := range values {
		if v > threshold {
			idx = append(idx, i)
		}
	}
	return idx
}

// Point is a kernel sample selected for plotting.
type Point struct {
	Pos   r3.Vec
	Value float64
}

// Points returns the samples of k whose normalised value exceeds threshold,
// positioned on the centred coordinate grid.
func Points(k *Kernel, threshold float64) ([]Point, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	n := k.Size()
	coords := Coordinates(n)
	norm := Normalize(k.Data)

	var points []Point
	for _, idx := range Mask(norm, threshold) {
		i, j, l := idx/(n*n), (idx/n)%n, idx%n
		points = append(points, Point{
			Pos:   r3.Vec{X: coords[i], Y: coords[j], Z: coords[l]},
			Value: norm[idx],
		})
	}
	return points, nil
}

// View is an orthographic camera looking at the origin.
type View struct {
	right, up, toward r3.Vec
}

// NewView returns the camera for elevation and azimuth in degrees.
func NewView(elevation, azimuth float64) View {
	el := elevation * math.Pi / 180
	az := azimuth * math.Pi / 180
	return View{
		right:  r3.Vec{X: -math.Sin(az), Y: math.Cos(az)},
		up:     r3.Vec{X: -math.Sin(el) * math.Cos(az), Y: -math.Sin(el) * math.Sin(az), Z: math.Cos(el)},
		toward: r3.Vec{X: math.Cos(el) * math.Cos(az), Y: math.Cos(el) * math.Sin(az), Z: math.Sin(el)},
	}
}

// Project returns the screen position of p and its depth; larger depths are
// closer to the viewer.
func (v View) Project(p r3.Vec) (x, y, depth float64) {
	return r3.Dot(p, v.right), r3.Dot(p, v.up), r3.Dot(p, v.toward)
}

// Plot draws the samples of k above the threshold as a point cloud coloured by
// normalised value, with the three kernel axes drawn through the grid corner.
func Plot(k *Kernel, opts *PlotOptions) (*visualization.Figure, error) {
	if opts == nil {
		opts = DefaultPlotOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	points, err := Points(k, opts.Threshold)
	if err != nil {
		return nil, err
	}
	view := NewView(opts.Elevation, opts.Azimuth)

	// far points first so nearer ones are drawn over them
	sort.SliceStable(points, func(a, b int) bool {
		_, _, da := view.Project(points[a].Pos)
		_, _, db := view.Project(points[b].Pos)
		return da < db
	})
	logger.Debug("plotting gabor kernel", "size", k.Size(), "points", len(points), "threshold", opts.Threshold)

	p := plot.New()
	p.Title.Text = opts.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.HideAxes()

	if err := addAxes(p, view, Coordinates(k.Size())); err != nil {
		return nil, err
	}

	if len(points) > 0 {
		xys := make(plotter.XYs, len(points))
		for i, pt := range points {
			xys[i].X, xys[i].Y, _ = view.Project(pt.Pos)
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, err
		}
		scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return draw.GlyphStyle{
				Color:  visualization.Viridis.At(points[i].Value),
				Radius: vg.Points(1.8),
				Shape:  draw.CircleGlyph{},
			}
		}
		p.Add(scatter)
	}

	return &visualization.Figure{Plot: p, Width: opts.Width, Height: opts.Height, DPI: opts.DPI}, nil
}

// addAxes draws the X, Y and Z axes of the grid from its lowest corner.
func addAxes(p *plot.Plot, view View, coords []float64) error {
	lo, hi := coords[0], coords[len(coords)-1]
	if hi == lo {
		hi = lo + 1
	}
	corner := r3.Vec{X: lo, Y: lo, Z: lo}
	ends := []r3.Vec{
		{X: hi, Y: lo, Z: lo},
		{X: lo, Y: hi, Z: lo},
		{X: lo, Y: lo, Z: hi},
	}

	cx, cy, _ := view.Project(corner)
	labels := plotter.XYLabels{Labels: []string{"X", "Y", "Z"}}
	for _, end := range ends {
		ex, ey, _ := view.Project(end)
		line, err := plotter.NewLine(plotter.XYs{{X: cx, Y: cy}, {X: ex, Y: ey}})
		if err != nil {
			return err
		}
		line.Color = visualization.Gray.At(0.5)
		p.Add(line)

		// labels sit a little beyond the end of each axis
		lx, ly, _ := view.Project(r3.Add(end, r3.Scale(0.08, r3.Sub(end, corner))))
		labels.XYs = append(labels.XYs, plotter.XY{X: lx, Y: ly})
	}

	l, err := plotter.NewLabels(labels)
	if err != nil {
		return err
	}
	p.Add(l)
	return nil
}
