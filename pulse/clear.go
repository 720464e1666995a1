package pulse

import (
	"fmt"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// ClearCommand fills a render target with a single color. It is used
// for frames without anything to draw.
type ClearCommand struct {
	ctx *Context
}

func NewClear(ctx *Context) *ClearCommand {
	return &ClearCommand{ctx: ctx}
}

func (c *ClearCommand) Clear(target RenderTarget, color Color) error {
	enc, err := c.ctx.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: "ClearTexture",
	})

	if err != nil {
		return fmt.Errorf("create encoder: %w", err)
	}

	defer enc.Release()

	pass := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "ClearTexture",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			target.colorAttachment(wgpu.LoadOpClear, color),
		},
		DepthStencilAttachment: target.depthAttachment(),
	})

	passGuard := NewReleaseGuard(pass)
	defer passGuard.Release()

	if err := pass.End(); err != nil {
		return fmt.Errorf("end pass: %w", err)
	}

	// must release pass before finishing the encoder
	passGuard.Release()

	buf, err := enc.Finish(&wgpu.CommandBufferDescriptor{Label: "ClearTexture"})
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}

	defer buf.Release()

	c.ctx.Submit(buf)

	return nil
}
