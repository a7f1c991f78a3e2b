// Package volumeio loads volumes from NIfTI files, single images and
// directories of numbered 2D slices.
package volumeio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"mriview/internal/models"
)

// sliceExtensions lists the image formats accepted in slice directories.
var sliceExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// SliceOptions configures how 2D slices are stacked.
type SliceOptions struct {
	// SliceGap is the distance between consecutive slices in mm
	SliceGap float64

	// PixelSpacing is the in-plane spacing in mm
	PixelSpacing float64

	// Logger receives progress messages. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultSliceOptions returns unit spacing in every direction.
func DefaultSliceOptions() *SliceOptions {
	return &SliceOptions{SliceGap: 1, PixelSpacing: 1}
}

// Load reads path as a slice directory, a NIfTI file (.nii, .nii.gz) or a
// single 2D image.
func Load(path string, opts *SliceOptions) (*models.Volume, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadSliceDir(path, opts)
	}
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".nii") || strings.HasSuffix(lower, ".nii.gz") {
		return LoadNifti(path)
	}
	return LoadImage2D(path, opts)
}

// LoadSliceDir stacks the images in dir along z, ordered by the number in
// their file names. All slices must share the same size.
func LoadSliceDir(dir string, opts *SliceOptions) (*models.Volume, error) {
	if opts == nil {
		opts = DefaultSliceOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var imageFiles []string
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if sliceExtensions[strings.ToLower(filepath.Ext(file.Name()))] {
			imageFiles = append(imageFiles, file.Name())
		}
	}
	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no slice images found in %s", dir)
	}

	// numeric order keeps slice_2 ahead of slice_10
	sort.SliceStable(imageFiles, func(i, j int) bool {
		numI, numJ := extractNumber(imageFiles[i]), extractNumber(imageFiles[j])
		if numI != numJ {
			return numI < numJ
		}
		return imageFiles[i] < imageFiles[j]
	})

	slices := make([]image.Image, 0, len(imageFiles))
	for _, filename := range imageFiles {
		img, err := loadImage(filepath.Join(dir, filename))
		if err != nil {
			return nil, fmt.Errorf("failed to load image %s: %w", filename, err)
		}
		if len(slices) > 0 && img.Bounds().Size() != slices[0].Bounds().Size() {
			return nil, fmt.Errorf("slice %s is %v, expected %v", filename, img.Bounds().Size(), slices[0].Bounds().Size())
		}
		slices = append(slices, img)
	}

	vol := stack(slices, 3)
	vol.Spacing = [3]float64{opts.PixelSpacing, opts.PixelSpacing, opts.SliceGap}

	logger.Info("loaded slices", "count", len(slices), "width", vol.Width(), "height", vol.Height(), "sliceGap", opts.SliceGap)
	return vol, nil
}

// LoadImage2D reads a single image file as a 2D volume.
func LoadImage2D(path string, opts *SliceOptions) (*models.Volume, error) {
	if opts == nil {
		opts = DefaultSliceOptions()
	}
	img, err := loadImage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	vol := stack([]image.Image{img}, 2)
	vol.Spacing = [3]float64{opts.PixelSpacing, opts.PixelSpacing, 1}
	return vol, nil
}

// extractNumber returns the digits of the file name as an integer, or 0.
func extractNumber(filename string) int {
	base := filepath.Base(filename)
	numStr := ""
	for _, c := range base {
		if c >= '0' && c <= '9' {
			numStr += string(c)
		}
	}

	if numStr != "" {
		num, err := strconv.Atoi(numStr)
		if err == nil {
			return num
		}
	}
	return 0
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// stack copies equally sized images into a volume. Grayscale images become
// scalar volumes (16-bit when any slice is 16-bit); anything else is stored
// as 8-bit RGB.
func stack(slices []image.Image, dim int) *models.Volume {
	gray, wide := true, false
	for _, img := range slices {
		switch img.ColorModel() {
		case color.Gray16Model:
			wide = true
		case color.GrayModel:
		default:
			gray = false
		}
	}

	pixelType := models.UInt8
	if gray && wide {
		pixelType = models.UInt16
	}
	components := 1
	if !gray {
		components = 3
	}

	b := slices[0].Bounds()
	var vol *models.Volume
	if dim == 2 {
		vol = models.NewImage2D(b.Dx(), b.Dy(), pixelType, components)
	} else {
		vol = models.NewVolume(b.Dx(), b.Dy(), len(slices), pixelType, components)
	}

	for z, img := range slices {
		b := img.Bounds()
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				switch {
				case components == 3:
					vol.Set(x, y, z, 0, float64(r>>8))
					vol.Set(x, y, z, 1, float64(g>>8))
					vol.Set(x, y, z, 2, float64(bl>>8))
				case pixelType == models.UInt16:
					vol.Set(x, y, z, 0, float64(r))
				default:
					vol.Set(x, y, z, 0, float64(r>>8))
				}
			}
		}
	}
	return vol
}
