package visualization

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"mriview/internal/models"
)

func createGradientVolume(width, height, depth int) *models.Volume {
	vol := models.NewVolume(width, height, depth, models.Float32, 1)
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				vol.Set(x, y, z, 0, float64(x+y+z))
			}
		}
	}
	return vol
}

func TestShowFigureSize(t *testing.T) {
	vol := createGradientVolume(320, 240, 3)

	fig, err := Show(vol, nil)
	require.NoError(t, err)
	require.NotNil(t, fig)

	// (1 + 0.05) * pixels / 80 dpi
	assert.InDelta(t, float64(4.2*vg.Inch), float64(fig.Width), 1e-9)
	assert.InDelta(t, float64(3.15*vg.Inch), float64(fig.Height), 1e-9)
	assert.Equal(t, 80, fig.DPI)
	assert.Equal(t, 0.05, fig.Margin)

	img := fig.Image()
	assert.InDelta(t, 336, img.Bounds().Dx(), 1)
	assert.InDelta(t, 252, img.Bounds().Dy(), 1)
}

func TestShowSmallImageKeepsAspect(t *testing.T) {
	fig, err := Show(createGradientVolume(40, 20, 1), nil)
	require.NoError(t, err)

	assert.InDelta(t, float64(DefaultMinSide), float64(fig.Height), 1e-9)
	assert.InDelta(t, 2.0, float64(fig.Width/fig.Height), 1e-9)
}

func TestShowExactSizeWithoutMinSide(t *testing.T) {
	opts := &ShowOptions{Margin: 0.1, DPI: 100}
	fig, err := Show(createGradientVolume(40, 20, 1), opts)
	require.NoError(t, err)

	// (1 + 0.1) * pixels / 100 dpi, no scaling
	assert.InDelta(t, float64(0.44*vg.Inch), float64(fig.Width), 1e-9)
	assert.InDelta(t, float64(0.22*vg.Inch), float64(fig.Height), 1e-9)
	assert.Equal(t, 0.1, fig.Margin)
	assert.Equal(t, 100, fig.DPI)
}

func TestShowTitle(t *testing.T) {
	vol := createGradientVolume(16, 16, 4)

	opts := DefaultShowOptions()
	opts.Title = "T1 axial"
	fig, err := Show(vol, opts)
	require.NoError(t, err)
	assert.Equal(t, "T1 axial", fig.Plot.Title.Text)

	fig, err = Show(vol, nil)
	require.NoError(t, err)
	assert.Empty(t, fig.Plot.Title.Text)
}

func TestShowUnsupportedShape(t *testing.T) {
	vol := models.NewVolume(4, 4, 4, models.Float32, 5)

	fig, err := Show(vol, nil)
	assert.Nil(t, fig)
	assert.ErrorIs(t, err, ErrUnsupportedShape)
}

func TestShowColorImage(t *testing.T) {
	img := models.NewImage2D(64, 48, models.UInt8, 3)
	for i := range img.Data {
		img.Data[i] = 200
	}
	fig, err := Show(img, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = fig.WriteTo(&buf)
	require.NoError(t, err)
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.False(t, decoded.Bounds().Empty())
}

func TestShowRejectsBadInput(t *testing.T) {
	opts := DefaultShowOptions()
	opts.DPI = 0
	_, err := Show(createGradientVolume(4, 4, 1), opts)
	assert.Error(t, err)

	_, err = Show(models.NewVolume(0, 4, 4, models.UInt8, 1), nil)
	assert.Error(t, err)
}

func TestFigureSave(t *testing.T) {
	fig, err := Show(createGradientVolume(32, 32, 3), nil)
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"slice.png", "slice.jpg", "nested/slice.tiff"} {
		path := filepath.Join(dir, name)
		require.NoError(t, fig.Save(path), name)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	assert.Error(t, fig.Save(filepath.Join(dir, "slice.gif")))
}

func TestDownwardTicks(t *testing.T) {
	ticks := downwardTicks{}.Ticks(0, 37.5)
	require.NotEmpty(t, ticks)
	for _, tick := range ticks {
		if tick.Label == "" {
			continue
		}
		label, err := strconv.ParseFloat(tick.Label, 64)
		require.NoError(t, err)
		assert.InDelta(t, 37.5-label, tick.Value, 1e-9)
	}
}

func TestArrayImageColorScaling(t *testing.T) {
	a := Array{Shape: []int{1, 2, 3}, Data: []float64{0.5, 0, 1, 2, -1, 0.25}, PixelType: models.Float32}
	img, err := arrayImage(a)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 128, G: 0, B: 255, A: 255}, img.At(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, G: 0, B: 64, A: 255}, img.At(1, 0))

	a = Array{Shape: []int{1, 1, 4}, Data: []float64{10, 300, 20, 128}, PixelType: models.UInt8}
	img, err = arrayImage(a)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 10, G: 255, B: 20, A: 128}, img.At(0, 0))
}

func TestReplicatePixels(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	src.SetNRGBA(2, 1, color.NRGBA{B: 255, A: 255})

	// y spacing twice x spacing doubles the rows before the uniform factor
	dst := replicatePixels(src, 1, 2)
	assert.Equal(t, image.Rect(0, 0, 12, 16), dst.Bounds())

	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, src.At(0, 0), dst.At(x, y))
			assert.Equal(t, src.At(1, 0), dst.At(x+4, y))
			assert.Equal(t, src.At(2, 1), dst.At(x+8, y+8))
		}
	}
}
