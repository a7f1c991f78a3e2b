package visualization

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mriview/internal/models"
)

// createCodedVolume stores 1 + 100z + 10y + x so that every voxel is non-zero
// and identifiable.
func createCodedVolume(width, height, depth, components int) *models.Volume {
	vol := models.NewVolume(width, height, depth, models.Int16, components)
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				for c := 0; c < components; c++ {
					vol.Set(x, y, z, c, float64(1+100*z+10*y+x+1000*c))
				}
			}
		}
	}
	return vol
}

func TestCompositeGridPadding(t *testing.T) {
	vol := createCodedVolume(10, 8, 6, 1)
	vol.Spacing = [3]float64{0.5, 0.6, 2}
	xs, ys := []int{1, 2, 3}, []int{4}

	out, err := Composite(vol, xs, ys, nil)
	require.NoError(t, err)

	// x slices are 8x6, the y slice 10x6: the first column is 10 wide, the
	// other two 8, on a 3x2 grid
	assert.Equal(t, 2, out.Dimension())
	assert.Equal(t, [3]int{26, 12, 1}, out.Size)
	assert.Equal(t, 1, out.NumberOfComponents())

	// x slices keep the y/z spacing of the volume
	assert.Equal(t, 0.6, out.Spacing[0])
	assert.Equal(t, 2.0, out.Spacing[1])
	assert.Equal(t, [3]float64{}, out.Origin)

	colX := []int{0, 10, 18}
	for col, x := range xs {
		for k := 0; k < 6; k++ {
			for j := 0; j < 8; j++ {
				assert.Equal(t, vol.At(x, j, k, 0), out.At(colX[col]+j, k, 0, 0))
			}
		}
	}
	// the first x slice is narrower than its column
	for k := 0; k < 6; k++ {
		assert.Equal(t, 0.0, out.At(8, k, 0, 0))
		assert.Equal(t, 0.0, out.At(9, k, 0, 0))
	}

	for k := 0; k < 6; k++ {
		for i := 0; i < 10; i++ {
			assert.Equal(t, vol.At(i, 4, k, 0), out.At(i, 6+k, 0, 0))
		}
		// padded placeholders
		for i := 10; i < 26; i++ {
			assert.Equal(t, 0.0, out.At(i, 6+k, 0, 0))
		}
	}
}

func TestCompositeRowHeights(t *testing.T) {
	vol := createCodedVolume(10, 20, 30, 1)

	out, err := Composite(vol, []int{1, 2, 3}, nil, []int{4})
	require.NoError(t, err)

	// x slices are 20x30, the z slice 10x20: rows are 30 and 20 tall
	assert.Equal(t, [3]int{60, 50, 1}, out.Size)
	assert.Equal(t, vol.At(3, 19, 29, 0), out.At(40+19, 29, 0, 0))
	assert.Equal(t, vol.At(9, 19, 4, 0), out.At(9, 30+19, 0, 0))
	assert.Equal(t, 0.0, out.At(10, 30, 0, 0))
	assert.Equal(t, 0.0, out.At(59, 49, 0, 0))
}

func TestCompositeRowOrder(t *testing.T) {
	vol := createCodedVolume(4, 4, 4, 1)

	out, err := Composite(vol, nil, []int{0, 3}, []int{2})
	require.NoError(t, err)
	assert.Equal(t, [3]int{8, 8, 1}, out.Size)

	// y slices on the first row, z slices on the second
	assert.Equal(t, vol.At(1, 3, 2, 0), out.At(4+1, 2, 0, 0))
	assert.Equal(t, vol.At(3, 1, 2, 0), out.At(3, 4+1, 0, 0))
	assert.Equal(t, 0.0, out.At(5, 5, 0, 0))
}

func TestCompositeNoSlices(t *testing.T) {
	vol := createCodedVolume(4, 4, 4, 1)
	original := vol.Clone()

	out, err := Composite(vol, nil, []int{}, nil)
	require.NoError(t, err)
	assert.Same(t, vol, out)
	assert.Equal(t, original.Data, vol.Data)
}

func TestCompositeOutOfBounds(t *testing.T) {
	vol := createCodedVolume(4, 4, 4, 1)

	_, err := Composite(vol, []int{1}, nil, []int{4})
	assert.ErrorIs(t, err, ErrSliceOutOfBounds)

	_, err = Show3D(vol, &Show3DOptions{XSlices: []int{-1}, ShowOptions: *DefaultShowOptions()})
	assert.ErrorIs(t, err, ErrSliceOutOfBounds)
}

func TestCompositeVectorVolume(t *testing.T) {
	vol := createCodedVolume(5, 4, 3, 3)

	out, err := Composite(vol, []int{0, 4}, nil, []int{1})
	require.NoError(t, err)
	assert.Equal(t, 3, out.NumberOfComponents())
	// x slices are 4x3, the z slice 5x4: columns 5 and 4 wide, rows 3 and 4 tall
	assert.Equal(t, [3]int{9, 7, 1}, out.Size)

	for c := 0; c < 3; c++ {
		assert.Equal(t, vol.At(4, 2, 1, c), out.At(5+2, 1, 0, c))
		assert.Equal(t, vol.At(3, 2, 1, c), out.At(3, 3+2, 0, c))
		assert.Equal(t, 0.0, out.At(4, 0, 0, c))
		assert.Equal(t, 0.0, out.At(5+1, 3+1, 0, c))
	}
}

func TestCompositeVectorMatchesComponentTiles(t *testing.T) {
	vol := createCodedVolume(3, 3, 3, 2)
	xs, ys, zs := []int{0}, []int{1, 2}, []int{2}

	out, err := Composite(vol, xs, ys, zs)
	require.NoError(t, err)

	for c := 0; c < 2; c++ {
		plane, err := vol.SelectComponent(c)
		require.NoError(t, err)
		expected, err := Composite(plane, xs, ys, zs)
		require.NoError(t, err)

		got, err := out.SelectComponent(c)
		require.NoError(t, err)
		assert.Equal(t, expected.Size, got.Size)
		assert.Equal(t, expected.Data, got.Data, "component %d", c)
	}
}

func TestShow3D(t *testing.T) {
	vol := createCodedVolume(12, 10, 8, 1)

	opts := DefaultShow3DOptions()
	opts.XSlices = []int{2, 6}
	opts.YSlices = []int{5}
	opts.ZSlices = []int{0, 3, 7}
	opts.Title = "orthogonal slices"

	fig, err := Show3D(vol, opts)
	require.NoError(t, err)
	assert.Equal(t, "orthogonal slices", fig.Plot.Title.Text)
	assert.False(t, fig.Image().Bounds().Empty())
}

func TestShow3DColorVolume(t *testing.T) {
	vol := models.NewVolume(6, 6, 6, models.UInt8, 3)
	for i := range vol.Data {
		vol.Data[i] = 128
	}
	opts := DefaultShow3DOptions()
	opts.ZSlices = []int{1, 2}

	fig, err := Show3D(vol, opts)
	require.NoError(t, err)
	assert.NotNil(t, fig)
}

func TestShow3DWithoutSlicesShowsVolume(t *testing.T) {
	vol := createCodedVolume(16, 8, 4, 1)

	fig, err := Show3D(vol, nil)
	require.NoError(t, err)
	direct, err := Show(vol, nil)
	require.NoError(t, err)
	assert.Equal(t, direct.Width, fig.Width)
	assert.Equal(t, direct.Height, fig.Height)
}

func TestTile(t *testing.T) {
	a := models.NewImage2D(2, 3, models.UInt8, 1)
	a.Spacing = [3]float64{0.25, 0.5, 1}
	for i := range a.Data {
		a.Data[i] = 7
	}
	b := models.NewImage2D(4, 1, models.UInt8, 1)
	b.Spacing = [3]float64{9, 9, 1}
	for i := range b.Data {
		b.Data[i] = 3
	}
	empty := models.NewImage2D(0, 0, models.UInt8, 1)

	out, err := Tile([]*models.Volume{empty, a, b}, 2, 2)
	require.NoError(t, err)
	// columns are 4 and 2 wide, rows 3 and 1 tall
	assert.Equal(t, [3]int{6, 4, 1}, out.Size)
	// spacing of the first non-empty image
	assert.Equal(t, [3]float64{0.25, 0.5, 1}, out.Spacing)

	assert.Equal(t, 0.0, out.At(0, 0, 0, 0))
	assert.Equal(t, 0.0, out.At(3, 2, 0, 0))
	assert.Equal(t, 7.0, out.At(4, 0, 0, 0))
	assert.Equal(t, 7.0, out.At(5, 2, 0, 0))
	assert.Equal(t, 3.0, out.At(0, 3, 0, 0))
	assert.Equal(t, 3.0, out.At(3, 3, 0, 0))
	assert.Equal(t, 0.0, out.At(4, 3, 0, 0))
}

func TestTileErrors(t *testing.T) {
	a := models.NewImage2D(2, 2, models.UInt8, 1)

	_, err := Tile(nil, 1, 1)
	assert.Error(t, err)

	_, err = Tile([]*models.Volume{a, a, a}, 1, 2)
	assert.Error(t, err)

	_, err = Tile([]*models.Volume{a}, 0, 1)
	assert.Error(t, err)

	_, err = Tile([]*models.Volume{models.NewImage2D(2, 2, models.UInt8, 3)}, 1, 1)
	assert.Error(t, err)

	_, err = Tile([]*models.Volume{models.NewVolume(2, 2, 2, models.UInt8, 1)}, 1, 1)
	assert.Error(t, err)
}

func TestColormaps(t *testing.T) {
	rgb := func(c color.Color) [3]uint8 {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		return [3]uint8{n.R, n.G, n.B}
	}
	near := func(want, got [3]uint8) {
		for i := range want {
			assert.InDelta(t, want[i], got[i], 1, "want %v, got %v", want, got)
		}
	}

	near([3]uint8{0x44, 0x01, 0x54}, rgb(Viridis.At(0)))
	near([3]uint8{0xfd, 0xe7, 0x25}, rgb(Viridis.At(1)))
	near(rgb(Viridis.At(0)), rgb(Viridis.At(-3)))
	near(rgb(Viridis.At(1)), rgb(Viridis.At(42)))

	// NaN maps to the lowest colour
	near(rgb(Viridis.At(0)), rgb(Viridis.At(math.NaN())))

	assert.Equal(t, [3]uint8{0, 0, 0}, rgb(Gray.At(0)))
	assert.Equal(t, [3]uint8{255, 255, 255}, rgb(Gray.At(1)))
	mid := rgb(Gray.At(0.5))
	assert.InDelta(t, 128, mid[0], 1)
}
