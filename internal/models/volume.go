package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PixelType identifies the scalar type a volume was loaded from. Samples are
// always held as float64; the type only matters for display scaling and for
// the legacy resampling fill value.
type PixelType int

const (
	Int8 PixelType = iota
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Float32
	Float64
)

var pixelTypeNames = [...]string{
	Int8:    "8-bit signed integer",
	UInt8:   "8-bit unsigned integer",
	Int16:   "16-bit signed integer",
	UInt16:  "16-bit unsigned integer",
	Int32:   "32-bit signed integer",
	UInt32:  "32-bit unsigned integer",
	Int64:   "64-bit signed integer",
	UInt64:  "64-bit unsigned integer",
	Float32: "32-bit float",
	Float64: "64-bit float",
}

// ID returns the numeric identifier of the pixel type.
func (p PixelType) ID() int { return int(p) }

// IsFloat reports whether samples of this type are floating point.
func (p PixelType) IsFloat() bool { return p == Float32 || p == Float64 }

func (p PixelType) String() string {
	if p < 0 || int(p) >= len(pixelTypeNames) {
		return fmt.Sprintf("PixelType(%d)", int(p))
	}
	return pixelTypeNames[p]
}

// Axis names one of the three image axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// ParseAxis accepts "x", "y" or "z" in either case.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	case "z", "Z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis: %s (must be x, y, or z)", s)
}

// Volume is a 2D or 3D grid of samples with physical metadata.
//
// Data is stored with x varying fastest, then y, then z. Multi-component
// volumes interleave their components per voxel, so the sample for component
// c of voxel (x, y, z) lives at ((z*H+y)*W+x)*C + c.
type Volume struct {
	// Data holds the samples in x-fastest order
	Data []float64

	// Size is the number of voxels along x, y and z. A 2D volume has Size[2] == 1.
	Size [3]int

	// Dim is the dimensionality of the volume, 2 or 3
	Dim int

	// Spacing is the physical distance between voxel centres along each axis in mm
	Spacing [3]float64

	// Origin is the physical position of the first voxel
	Origin [3]float64

	// Direction is the 3x3 orientation matrix of the voxel axes
	Direction *mat.Dense

	// PixelType is the type the samples were loaded from
	PixelType PixelType

	// Components is the number of values per voxel (1 for scalar volumes)
	Components int
}

// NewVolume allocates a zero-filled 3D volume with unit spacing, zero origin
// and identity direction.
func NewVolume(width, height, depth int, pixelType PixelType, components int) *Volume {
	return newVolume(3, width, height, depth, pixelType, components)
}

// NewImage2D allocates a zero-filled 2D volume. Width or height may be zero,
// which yields an empty placeholder image.
func NewImage2D(width, height int, pixelType PixelType, components int) *Volume {
	return newVolume(2, width, height, 1, pixelType, components)
}

func newVolume(dim, width, height, depth int, pixelType PixelType, components int) *Volume {
	if components < 1 {
		components = 1
	}
	return &Volume{
		Data:       make([]float64, width*height*depth*components),
		Size:       [3]int{width, height, depth},
		Dim:        dim,
		Spacing:    [3]float64{1, 1, 1},
		Direction:  Identity(),
		PixelType:  pixelType,
		Components: components,
	}
}

// Identity returns a 3x3 identity direction matrix.
func Identity() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

// GetSize returns the voxel count along each axis of the volume's dimension.
func (v *Volume) GetSize() []int {
	return append([]int(nil), v.Size[:v.Dimension()]...)
}

// GetSpacing returns the spacing along each axis of the volume's dimension.
func (v *Volume) GetSpacing() []float64 {
	return append([]float64(nil), v.Spacing[:v.Dimension()]...)
}

func (v *Volume) Width() int  { return v.Size[0] }
func (v *Volume) Height() int { return v.Size[1] }

// Depth returns the number of slices along z, 0 for 2D images.
func (v *Volume) Depth() int {
	if v.Dimension() == 2 {
		return 0
	}
	return v.Size[2]
}

// Dimension returns 2 or 3.
func (v *Volume) Dimension() int {
	if v.Dim == 2 {
		return 2
	}
	return 3
}

// NumberOfComponents returns the number of values per voxel.
func (v *Volume) NumberOfComponents() int {
	if v.Components < 1 {
		return 1
	}
	return v.Components
}

// PixelIDValue returns the numeric identifier of the volume's pixel type.
func (v *Volume) PixelIDValue() int { return v.PixelType.ID() }

// NumberOfVoxels returns W*H*D.
func (v *Volume) NumberOfVoxels() int {
	return v.Size[0] * v.Size[1] * v.Size[2]
}

// Empty reports whether the volume has no voxels.
func (v *Volume) Empty() bool { return v.NumberOfVoxels() == 0 }

// Index returns the offset of component c of voxel (x, y, z) in Data.
func (v *Volume) Index(x, y, z, c int) int {
	return ((z*v.Size[1]+y)*v.Size[0]+x)*v.NumberOfComponents() + c
}

// At returns component c of voxel (x, y, z).
func (v *Volume) At(x, y, z, c int) float64 {
	return v.Data[v.Index(x, y, z, c)]
}

// Set stores value as component c of voxel (x, y, z).
func (v *Volume) Set(x, y, z, c int, value float64) {
	v.Data[v.Index(x, y, z, c)] = value
}

// Validate checks that Data matches Size and Components.
func (v *Volume) Validate() error {
	for i, n := range v.Size {
		if n < 0 {
			return fmt.Errorf("negative size %d along axis %d", n, i)
		}
	}
	if want := v.NumberOfVoxels() * v.NumberOfComponents(); len(v.Data) != want {
		return fmt.Errorf("volume data has %d samples, expected %d", len(v.Data), want)
	}
	if v.Direction != nil {
		if r, c := v.Direction.Dims(); r != 3 || c != 3 {
			return fmt.Errorf("direction matrix is %dx%d, expected 3x3", r, c)
		}
	}
	return nil
}

// CopyInformation copies spacing, origin and direction from src.
func (v *Volume) CopyInformation(src *Volume) {
	v.Spacing = src.Spacing
	v.Origin = src.Origin
	v.Direction = copyDirection(src.Direction)
}

// Clone returns a deep copy of the volume.
func (v *Volume) Clone() *Volume {
	out := *v
	out.Data = append([]float64(nil), v.Data...)
	out.Direction = copyDirection(v.Direction)
	return &out
}

func copyDirection(d *mat.Dense) *mat.Dense {
	if d == nil {
		return Identity()
	}
	return mat.DenseCopyOf(d)
}

// SelectComponent returns a scalar volume holding component c of v.
func (v *Volume) SelectComponent(c int) (*Volume, error) {
	nc := v.NumberOfComponents()
	if c < 0 || c >= nc {
		return nil, fmt.Errorf("component %d out of range, volume has %d", c, nc)
	}
	out := newVolume(v.Dimension(), v.Size[0], v.Size[1], v.Size[2], v.PixelType, 1)
	out.CopyInformation(v)
	for i := range out.Data {
		out.Data[i] = v.Data[i*nc+c]
	}
	return out, nil
}

// Compose interleaves scalar volumes of equal size into one multi-component
// volume. Metadata is taken from the first input.
func Compose(planes ...*Volume) (*Volume, error) {
	if len(planes) == 0 {
		return nil, fmt.Errorf("compose requires at least one volume")
	}
	first := planes[0]
	for i, p := range planes {
		if p.NumberOfComponents() != 1 {
			return nil, fmt.Errorf("compose input %d has %d components, expected 1", i, p.NumberOfComponents())
		}
		if p.Size != first.Size {
			return nil, fmt.Errorf("compose input %d has size %v, expected %v", i, p.Size, first.Size)
		}
	}
	nc := len(planes)
	out := newVolume(first.Dimension(), first.Size[0], first.Size[1], first.Size[2], first.PixelType, nc)
	out.CopyInformation(first)
	for c, p := range planes {
		for i, value := range p.Data {
			out.Data[i*nc+c] = value
		}
	}
	return out, nil
}
