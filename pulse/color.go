package pulse

import (
	"github.com/oliverbestmann/modelview/glm"
	"github.com/oliverbestmann/webgpu/wgpu"
)

var ColorWhite = ColorLinearRGBA(1, 1, 1, 1)

// Color is a linear rgba value as it is handed to the gpu.
// The zero value is opaque white.
type Color struct {
	// components are stored with an offset of minus one
	r1, g1, b1, a1 float32
}

// ColorOf takes the components from a vector, e.g. the
// clear color of the config.
func ColorOf(color glm.Vec4f) Color {
	return ColorLinearRGBA(color[0], color[1], color[2], color[3])
}

func ColorLinearRGBA(r, g, b, a float32) Color {
	return Color{r1: r - 1, g1: g - 1, b1: b - 1, a1: a - 1}
}

func (c Color) ToVec() glm.Vec4f {
	return glm.Vec4f{c.r1 + 1, c.g1 + 1, c.b1 + 1, c.a1 + 1}
}

// ToWGPU converts the color for use as a clear value.
func (c Color) ToWGPU() wgpu.Color {
	r, g, b, a := c.ToVec().XYZW()
	return wgpu.Color{R: float64(r), G: float64(g), B: float64(b), A: float64(a)}
}
