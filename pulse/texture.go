package pulse

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// Texture wraps a wgpu.Texture and an identity wgpu.TextureView.
type Texture struct {
	texture     *wgpu.Texture
	textureView *wgpu.TextureView

	// equal to texture.GetFormat()
	format wgpu.TextureFormat

	// equal to texture.GetSampleCount()
	sampleCount uint32

	width, height uint32
}

type NewTextureOptions struct {
	Format wgpu.TextureFormat
	Width  uint32
	Height uint32
	Label  string
}

// NewTexture creates a texture that can be sampled from and written to.
func NewTexture(ctx *Context, opts NewTextureOptions) (*Texture, error) {
	desc := &wgpu.TextureDescriptor{
		Label:         opts.Label,
		Format:        opts.Format,
		SampleCount:   1,
		MipLevelCount: 1,

		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              opts.Width,
			Height:             opts.Height,
			DepthOrArrayLayers: 1,
		},

		Usage: wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	}

	return NewTextureFromDesc(ctx, desc)
}

// NewTextureFromDesc gives you full control and creates a texture directly from
// a texture descriptor
func NewTextureFromDesc(ctx *Context, desc *wgpu.TextureDescriptor) (*Texture, error) {
	texture, err := ctx.Device.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", desc.Label, err)
	}

	// now create a default texture view
	textureView, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("create view of %q: %w", desc.Label, err)
	}

	t := &Texture{
		texture:     texture,
		textureView: textureView,
		format:      desc.Format,
		sampleCount: desc.SampleCount,
		width:       desc.Size.Width,
		height:      desc.Size.Height,
	}

	return t, nil
}

func (t *Texture) Width() uint32 {
	return t.width
}

func (t *Texture) Height() uint32 {
	return t.height
}

func (t *Texture) Region() Rectangle2u {
	return RectangleFromXYWH(0, 0, t.width, t.height)
}

func (t *Texture) Format() wgpu.TextureFormat {
	return t.format
}

func (t *Texture) SampleCount() uint32 {
	return t.sampleCount
}

func (t *Texture) View() *wgpu.TextureView {
	return t.textureView
}

// Release releases the texture and its view. You must be sure to not use
// the texture after calling release.
func (t *Texture) Release() {
	if t.textureView != nil {
		t.textureView.Release()
		t.textureView = nil
	}

	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

func (t *Texture) WritePixels(ctx *Context, pixels []byte) error {
	return t.WritePixelsToRect(ctx, WritePixelsOptions{
		Pixels: pixels,
		Region: t.Region(),
	})
}

type WritePixelsOptions struct {
	Pixels []byte
	Region Rectangle2u
	Stride uint32
}

func (t *Texture) WritePixelsToRect(ctx *Context, opts WritePixelsOptions) error {
	if !t.Region().Contains(opts.Region) {
		return fmt.Errorf("target rect %s not in texture region %s", opts.Region, t.Region())
	}

	if opts.Stride == 0 {
		opts.Stride = opts.Region.Width() * 4
	}

	if need := int(opts.Stride) * int(opts.Region.Height()); len(opts.Pixels) < need {
		return fmt.Errorf("expected %d bytes of pixel data, got %d", need, len(opts.Pixels))
	}

	layout := &wgpu.TexelCopyBufferLayout{
		Offset:       0,
		BytesPerRow:  opts.Stride,
		RowsPerImage: opts.Region.Height(),
	}

	size := &wgpu.Extent3D{
		Width:              opts.Region.Width(),
		Height:             opts.Region.Height(),
		DepthOrArrayLayers: 1,
	}

	dest := &wgpu.TexelCopyTextureInfo{
		Texture:  t.texture,
		MipLevel: 0,
		Origin: wgpu.Origin3D{
			X: opts.Region.Min[0],
			Y: opts.Region.Min[1],
		},
		Aspect: wgpu.TextureAspectAll,
	}

	// send data to the gpu
	if err := ctx.WriteTexture(dest, opts.Pixels, layout, size); err != nil {
		return fmt.Errorf("copy image data to texture: %w", err)
	}

	return nil
}

// ToRGBA converts any image into tightly packed, non premultiplied rgba pixels.
func ToRGBA(src image.Image) *image.NRGBA {
	if nrgba, ok := src.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) && nrgba.Stride == 4*nrgba.Rect.Dx() {
		return nrgba
	}

	bounds := src.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)

	return rgba
}

func NewTextureFromImage(ctx *Context, label string, src image.Image) (*Texture, error) {
	rgba := ToRGBA(src)

	t, err := NewTexture(ctx, NewTextureOptions{
		Format: wgpu.TextureFormatRGBA8Unorm,
		Width:  uint32(rgba.Rect.Dx()),
		Height: uint32(rgba.Rect.Dy()),
		Label:  label,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}

	if err := t.WritePixels(ctx, rgba.Pix); err != nil {
		t.Release()
		return nil, fmt.Errorf("upload texture: %w", err)
	}

	return t, nil
}
