package pulse

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/oliverbestmann/webgpu/wgpu"
)

const DepthFormat = wgpu.TextureFormatDepth32Float

// View manages the configuration of the surface together with the
// depth and multisample textures matching its size.
type View struct {
	*Context

	surfaceConfig *wgpu.SurfaceConfiguration

	// only configured if we have a multisample texture configured
	msaaTexture *Texture

	// depth texture to render to.
	// has the same sampleCount as the surface itself
	depthTexture *Texture

	sampleCount uint32

	// true if depth is enabled
	depth bool
}

type ViewOptions struct {
	MSAA  bool
	Depth bool
}

func NewView(dev *Context, opts ViewOptions) (*View, error) {
	st := &View{Context: dev, depth: opts.Depth, sampleCount: 1}

	if opts.MSAA {
		st.sampleCount = 4
	}

	caps := dev.Surface.GetCapabilities(dev.Adapter)
	slog.Debug("Available surface formats", slog.Any("formats", caps.Formats))

	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return nil, fmt.Errorf("surface is not compatible with adapter")
	}

	format := wgpu.TextureFormatBGRA8Unorm
	if !slices.Contains(caps.Formats, format) {
		format = caps.Formats[0]
	}

	st.surfaceConfig = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],

		// try to reduce input latency
		DesiredMaximumFrameLatency: 1,
	}

	return st, nil
}

func (vs *View) MSAA() bool {
	return vs.sampleCount > 1
}

func (vs *View) SampleCount() uint32 {
	return vs.sampleCount
}

func (vs *View) Format() wgpu.TextureFormat {
	return vs.surfaceConfig.Format
}

func (vs *View) Size() (uint32, uint32) {
	return vs.surfaceConfig.Width, vs.surfaceConfig.Height
}

// RenderTarget describes the given surface view together with the depth
// and multisample attachments of this view.
func (vs *View) RenderTarget(surfaceView *wgpu.TextureView) RenderTarget {
	target := RenderTarget{
		View:        surfaceView,
		Format:      vs.surfaceConfig.Format,
		Width:       vs.surfaceConfig.Width,
		Height:      vs.surfaceConfig.Height,
		SampleCount: vs.sampleCount,
	}

	if vs.MSAA() {
		// render into the multisample texture and resolve to the surface
		target.View = vs.msaaTexture.View()
		target.ResolveTarget = surfaceView
	}

	if vs.depthTexture != nil {
		target.Depth = vs.depthTexture.View()
	}

	return target
}

func (vs *View) releaseTextures() {
	if vs.depthTexture != nil {
		vs.depthTexture.Release()
		vs.depthTexture = nil
	}

	if vs.msaaTexture != nil {
		vs.msaaTexture.Release()
		vs.msaaTexture = nil
	}
}

// Configure resizes the surface and recreates the attachments.
func (vs *View) Configure(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}

	vs.surfaceConfig.Width = width
	vs.surfaceConfig.Height = height
	vs.Surface.Configure(vs.Device, vs.surfaceConfig)

	vs.releaseTextures()

	var err error

	if vs.depth {
		vs.depthTexture, err = createDepthTexture(vs.Context, width, height, vs.sampleCount)
		if err != nil {
			return fmt.Errorf("create depth texture: %w", err)
		}
	}

	if vs.MSAA() {
		vs.msaaTexture, err = createMultisampleTexture(vs.Context, vs.surfaceConfig, vs.sampleCount)
		if err != nil {
			return fmt.Errorf("create multisample texture: %w", err)
		}
	}

	return nil
}

func (vs *View) Release() {
	vs.releaseTextures()
}

func createMultisampleTexture(ctx *Context, surfaceConfig *wgpu.SurfaceConfiguration, sampleCount uint32) (*Texture, error) {
	return NewTextureFromDesc(ctx, &wgpu.TextureDescriptor{
		Label: "MultisampleRenderTarget",
		Usage: wgpu.TextureUsageRenderAttachment,
		Size: wgpu.Extent3D{
			Width:              surfaceConfig.Width,
			Height:             surfaceConfig.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        surfaceConfig.Format,
		Dimension:     wgpu.TextureDimension2D,
		SampleCount:   sampleCount,
		MipLevelCount: 1,
	})
}

func createDepthTexture(ctx *Context, width, height, sampleCount uint32) (*Texture, error) {
	return NewTextureFromDesc(ctx, &wgpu.TextureDescriptor{
		Label:     "DepthTexture",
		Usage:     wgpu.TextureUsageRenderAttachment,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        DepthFormat,
		MipLevelCount: 1,
		SampleCount:   sampleCount,
	})
}
