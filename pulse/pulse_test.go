package pulse

import (
	"testing"

	"github.com/oliverbestmann/modelview/glm"
	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestColor(t *testing.T) {
	var zero Color
	assert.Equal(t, ColorWhite, zero)

	grey := ColorLinearRGBA(0.7, 0.7, 0.7, 1)
	assert.InDelta(t, 0.7, grey.ToWGPU().R, 1e-6)
	assert.InDelta(t, 1.0, grey.ToWGPU().A, 1e-6)

	assert.Equal(t, glm.Vec4f{0.7, 0.7, 0.7, 1}, ColorOf(glm.Vec4f{0.7, 0.7, 0.7, 1}).ToVec())
}

func TestRectangle(t *testing.T) {
	rect := RectangleFromXYWH[uint32](0, 0, 16, 8)

	assert.Equal(t, uint32(16), rect.Width())
	assert.Equal(t, uint32(8), rect.Height())
	assert.False(t, rect.IsEmpty())

	assert.True(t, rect.Contains(RectangleFromXYWH[uint32](4, 4, 12, 4)))
	assert.False(t, rect.Contains(RectangleFromXYWH[uint32](4, 4, 13, 4)))

	assert.Equal(t, "Rect(x=0, y=0, w=16, h=8)", rect.String())
	assert.Equal(t, RectangleFromPoints(5, 5, 1, 2), RectangleFromXYWH(1, 2, 4, 3))
}

type countingReleaser struct {
	count int
}

func (c *countingReleaser) Release() {
	c.count++
}

func TestReleaseGuard(t *testing.T) {
	var released countingReleaser

	guard := NewReleaseGuard(&released)
	guard.Release()
	guard.Release()
	assert.Equal(t, 1, released.count)

	var kept countingReleaser

	guard = NewReleaseGuard(&kept)
	guard.Keep()
	guard.Release()
	assert.Zero(t, kept.count)
}

func TestRenderTarget(t *testing.T) {
	target := RenderTarget{Width: 900, Height: 540}
	assert.InDelta(t, 900.0/540.0, target.Aspect(), 1e-6)
	assert.Equal(t, float32(1), RenderTarget{}.Aspect())

	assert.Nil(t, target.depthAttachment())

	attachment := target.colorAttachment(wgpu.LoadOpClear, ColorLinearRGBA(0.7, 0.7, 0.7, 1))
	assert.Equal(t, wgpu.LoadOpClear, attachment.LoadOp)
	assert.Equal(t, wgpu.StoreOpStore, attachment.StoreOp)
	assert.InDelta(t, 0.7, attachment.ClearValue.G, 1e-6)
}
