package pulse

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"structs"
	"unsafe"

	"github.com/oliverbestmann/modelview/glm"
	"github.com/oliverbestmann/modelview/model"
	"github.com/oliverbestmann/webgpu/wgpu"
)

//go:embed mesh3d.wgsl
var mesh3dShaderCode string

var ErrNoMeshes = errors.New("model has no meshes")

type meshUniforms struct {
	_ structs.HostLayout

	View       glm.Mat4f
	Projection glm.Mat4f
	Model      glm.Mat4f
}

func (u *meshUniforms) bytes() []byte {
	return wgpu.ToBytes(unsafe.Slice(u, 1))
}

// drawCommand is one indexed draw call of a staged mesh.
type drawCommand struct {
	IndexCount uint32
	FirstIndex uint32
	BaseVertex int32
	Material   uint32
}

// planDraws converts the mesh table into draw calls. Meshes without
// indices are skipped.
func planDraws(meshes []model.Mesh, materialCount int) ([]drawCommand, error) {
	var draws []drawCommand

	for idx, mesh := range meshes {
		if int(mesh.MaterialIndex) >= materialCount {
			return nil, fmt.Errorf("mesh %d references material %d of %d: %w",
				idx, mesh.MaterialIndex, materialCount, model.ErrBadMaterial)
		}

		if mesh.IndexCount == 0 {
			continue
		}

		draws = append(draws, drawCommand{
			IndexCount: mesh.IndexCount,
			FirstIndex: mesh.BaseIndex,
			BaseVertex: int32(mesh.BaseVertex),
			Material:   mesh.MaterialIndex,
		})
	}

	return draws, nil
}

// ModelRenderer draws one uploaded model with a fixed camera.
type ModelRenderer struct {
	ctx *Context

	pipelineCache *PipelineCache[meshPipelineConfig]

	positions *wgpu.Buffer
	normals   *wgpu.Buffer
	texCoords *wgpu.Buffer
	indices   *wgpu.Buffer
	uniforms  *wgpu.Buffer

	draws []drawCommand

	// one per material, owned by the texture cache
	textures []*Texture

	// bind groups are bound to the layout of the pipeline they were created for
	pipeline       *wgpu.RenderPipeline
	uniformGroup   *wgpu.BindGroup
	materialGroups []*wgpu.BindGroup
}

// NewModelRenderer uploads the staged model. The vertex and index buffers
// of m are no longer needed afterward and can be released.
func NewModelRenderer(ctx *Context, textures *TextureCache, m *model.Model) (r *ModelRenderer, err error) {
	r = &ModelRenderer{
		ctx:           ctx,
		pipelineCache: NewPipelineCache[meshPipelineConfig](ctx),
	}

	defer func() {
		if err != nil {
			r.Release()
			r = nil
		}
	}()

	if m.Meshes.Len() == 0 {
		return r, ErrNoMeshes
	}

	r.draws, err = planDraws(m.Meshes.Data(), m.Textures.Len())
	if err != nil {
		return r, err
	}

	if r.positions, err = UploadBuffer(ctx, "Model.Positions", wgpu.BufferUsageVertex, m.Positions); err != nil {
		return r, err
	}

	if r.normals, err = UploadBuffer(ctx, "Model.Normals", wgpu.BufferUsageVertex, m.Normals); err != nil {
		return r, err
	}

	if r.texCoords, err = UploadBuffer(ctx, "Model.TexCoords", wgpu.BufferUsageVertex, m.TexCoords); err != nil {
		return r, err
	}

	if r.indices, err = UploadBuffer(ctx, "Model.Indices", wgpu.BufferUsageIndex, m.Indices); err != nil {
		return r, err
	}

	var uniforms meshUniforms
	r.uniforms, err = ctx.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Model.Uniforms",
		Contents: uniforms.bytes(),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return r, fmt.Errorf("create uniform buffer: %w", err)
	}

	// one texture per material, decoded now and not during the first frame
	r.textures = textures.GetAll(m.Textures.Data())

	slog.Info("Uploaded model",
		slog.Int("meshes", m.Meshes.Len()),
		slog.Int("vertices", m.Positions.Len()),
		slog.Int("indices", m.Indices.Len()),
		slog.Int("textures", len(r.textures)),
	)

	return r, nil
}

type Camera struct {
	View       glm.Mat4f
	Projection glm.Mat4f
}

// Draw clears the target and draws all meshes of the model.
func (r *ModelRenderer) Draw(target RenderTarget, clearColor Color, camera Camera, transform glm.Mat4f) error {
	pc, err := r.pipelineCache.Get(meshPipelineConfig{
		TargetFormat:      target.Format,
		TargetSampleCount: target.SampleCount,
		Depth:             target.Depth != nil,
	})
	if err != nil {
		return err
	}

	if err := r.prepareBindGroups(pc); err != nil {
		return fmt.Errorf("create bind groups: %w", err)
	}

	uniforms := meshUniforms{
		View:       camera.View,
		Projection: camera.Projection,
		Model:      transform,
	}

	if err := r.ctx.WriteBuffer(r.uniforms, 0, uniforms.bytes()); err != nil {
		return fmt.Errorf("update uniforms: %w", err)
	}

	encoder, err := r.ctx.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create encoder: %w", err)
	}

	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "RenderPassModel",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			target.colorAttachment(wgpu.LoadOpClear, clearColor),
		},
		DepthStencilAttachment: target.depthAttachment(),
	})

	passGuard := NewReleaseGuard(pass)
	defer passGuard.Release()

	pass.SetPipeline(pc.Pipeline)
	pass.SetBindGroup(0, r.uniformGroup, nil)
	pass.SetVertexBuffer(0, r.positions, 0, wgpu.WholeSize)
	pass.SetVertexBuffer(1, r.normals, 0, wgpu.WholeSize)
	pass.SetVertexBuffer(2, r.texCoords, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(r.indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)

	for _, draw := range r.draws {
		pass.SetBindGroup(1, r.materialGroups[draw.Material], nil)
		pass.DrawIndexed(draw.IndexCount, 1, draw.FirstIndex, draw.BaseVertex, 0)
	}

	if err := pass.End(); err != nil {
		return fmt.Errorf("end pass: %w", err)
	}

	// must release pass before finishing the encoder
	passGuard.Release()

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}

	defer cmdBuffer.Release()

	r.ctx.Submit(cmdBuffer)

	return nil
}

func (r *ModelRenderer) prepareBindGroups(pc CachedPipeline) error {
	if r.pipeline == pc.Pipeline {
		return nil
	}

	r.releaseBindGroups()

	uniformGroup, err := r.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Model.Uniforms",
		Layout: pc.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  r.uniforms,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		return err
	}

	r.uniformGroup = uniformGroup

	sampler, err := CachedSampler(r.ctx.Device, LinearRepeatSampler)
	if err != nil {
		return err
	}

	for _, texture := range r.textures {
		group, err := r.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "Model.Material",
			Layout: pc.GetBindGroupLayout(1),
			Entries: []wgpu.BindGroupEntry{
				{
					Binding:     0,
					TextureView: texture.View(),
					Size:        wgpu.WholeSize,
				},
				{
					Binding: 1,
					Sampler: sampler,
				},
			},
		})
		if err != nil {
			return err
		}

		r.materialGroups = append(r.materialGroups, group)
	}

	r.pipeline = pc.Pipeline

	return nil
}

func (r *ModelRenderer) releaseBindGroups() {
	if r.uniformGroup != nil {
		r.uniformGroup.Release()
		r.uniformGroup = nil
	}

	for _, group := range r.materialGroups {
		group.Release()
	}

	r.materialGroups = nil
	r.pipeline = nil
}

// Release frees all gpu resources of the renderer. Textures are owned by
// the texture cache and stay alive.
func (r *ModelRenderer) Release() {
	r.releaseBindGroups()

	for _, buf := range []**wgpu.Buffer{&r.positions, &r.normals, &r.texCoords, &r.indices, &r.uniforms} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}

	r.pipelineCache.Release()
}

type meshPipelineConfig struct {
	TargetFormat      wgpu.TextureFormat
	TargetSampleCount uint32
	Depth             bool
}

func (conf meshPipelineConfig) Specialize(dev *wgpu.Device) (*wgpu.RenderPipeline, error) {
	shader, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      "Mesh3D.ShaderSource",
		WGSLSource: &wgpu.ShaderSourceWGSL{Code: mesh3dShaderCode},
	})
	if err != nil {
		return nil, fmt.Errorf("compile mesh shader: %w", err)
	}

	defer shader.Release()

	var depthStencil *wgpu.DepthStencilState
	if conf.Depth {
		depthStencil = &wgpu.DepthStencilState{
			Format:            DepthFormat,
			DepthWriteEnabled: wgpu.OptionalBoolTrue,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare:     wgpu.CompareFunctionAlways,
				FailOp:      wgpu.StencilOperationKeep,
				DepthFailOp: wgpu.StencilOperationKeep,
				PassOp:      wgpu.StencilOperationKeep,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare:     wgpu.CompareFunctionAlways,
				FailOp:      wgpu.StencilOperationKeep,
				DepthFailOp: wgpu.StencilOperationKeep,
				PassOp:      wgpu.StencilOperationKeep,
			},
		}
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Label: fmt.Sprintf("Mesh3D.%s", conf.TargetFormat),
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				vertexAttribute(wgpu.VertexFormatFloat32x3, 0, unsafe.Sizeof(glm.Vec3f{})),
				vertexAttribute(wgpu.VertexFormatFloat32x3, 1, unsafe.Sizeof(glm.Vec3f{})),
				vertexAttribute(wgpu.VertexFormatFloat32x2, 2, unsafe.Sizeof(glm.Vec2f{})),
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    conf.TargetFormat,
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: depthStencil,
		Multisample: wgpu.MultisampleState{
			Count:                  conf.TargetSampleCount,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	}

	pipeline, err := dev.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("build mesh pipeline: %w", err)
	}

	return pipeline, nil
}

// vertexAttribute describes a vertex buffer holding a single attribute.
func vertexAttribute(format wgpu.VertexFormat, location uint32, stride uintptr) wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(stride),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{
				Format:         format,
				Offset:         0,
				ShaderLocation: location,
			},
		},
	}
}
