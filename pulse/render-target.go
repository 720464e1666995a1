package pulse

import "github.com/oliverbestmann/webgpu/wgpu"

// RenderTarget holds all the information of something that can be rendered to.
// For the viewer this is always the current surface texture.
type RenderTarget struct {
	View *wgpu.TextureView

	// In case of multisample rendering, this holds the
	// texture the multisampled fragment is resolved to.
	ResolveTarget *wgpu.TextureView

	// Depth attachment with the same sample count as View. Might be nil.
	Depth *wgpu.TextureView

	// Texture format of View
	Format wgpu.TextureFormat

	Width  uint32
	Height uint32

	// The number of samples of the View texture
	SampleCount uint32
}

// Aspect returns the aspect ratio of the target, or 1 for an empty target.
func (t RenderTarget) Aspect() float32 {
	if t.Width == 0 || t.Height == 0 {
		return 1
	}

	return float32(t.Width) / float32(t.Height)
}

func (t RenderTarget) colorAttachment(loadOp wgpu.LoadOp, clearColor Color) wgpu.RenderPassColorAttachment {
	return wgpu.RenderPassColorAttachment{
		View:          t.View,
		ResolveTarget: t.ResolveTarget,
		LoadOp:        loadOp,
		StoreOp:       wgpu.StoreOpStore,
		ClearValue:    clearColor.ToWGPU(),
	}
}

func (t RenderTarget) depthAttachment() *wgpu.RenderPassDepthStencilAttachment {
	if t.Depth == nil {
		return nil
	}

	return &wgpu.RenderPassDepthStencilAttachment{
		View:            t.Depth,
		DepthLoadOp:     wgpu.LoadOpClear,
		DepthStoreOp:    wgpu.StoreOpStore,
		DepthClearValue: 1.0,
	}
}
