package visualization

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Colormap maps values in [0, 1] to colours by blending between evenly
// spaced anchor colours.
type Colormap struct {
	anchors []colorful.Color
	blend   func(a, b colorful.Color, t float64) colorful.Color
}

var (
	// Gray runs linearly from black to white.
	Gray = Colormap{
		anchors: []colorful.Color{{R: 0, G: 0, B: 0}, {R: 1, G: 1, B: 1}},
		blend:   func(a, b colorful.Color, t float64) colorful.Color { return a.BlendRgb(b, t) },
	}

	// Viridis approximates matplotlib's viridis with ten anchors blended in Lab space.
	Viridis = Colormap{
		anchors: mustHex("#440154", "#482878", "#3e4989", "#31688e", "#26828e",
			"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"),
		blend: func(a, b colorful.Color, t float64) colorful.Color { return a.BlendLab(b, t) },
	}
)

// At returns the colour for v. Values are clamped to [0, 1]; NaN maps to the
// lowest colour.
func (m Colormap) At(v float64) color.Color {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	segments := len(m.anchors) - 1
	pos := v * float64(segments)
	i := int(pos)
	if i >= segments {
		return m.anchors[segments].Clamped()
	}
	return m.blend(m.anchors[i], m.anchors[i+1], pos-float64(i)).Clamped()
}

func mustHex(codes ...string) []colorful.Color {
	out := make([]colorful.Color, len(codes))
	for i, code := range codes {
		c, err := colorful.Hex(code)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}
