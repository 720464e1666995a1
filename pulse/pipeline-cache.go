package pulse

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// number of pipeline variants kept alive, one per surface format,
// sample count and depth setting.
const pipelineCacheSize = 8

// CachedPipeline is a render pipeline together with the bind group
// layouts that were requested from it.
type CachedPipeline struct {
	Pipeline *wgpu.RenderPipeline
	layouts  map[uint32]*wgpu.BindGroupLayout
}

// GetBindGroupLayout returns the layout of the bind group at index idx.
// The layout is owned by the cache.
func (pc CachedPipeline) GetBindGroupLayout(idx uint32) *wgpu.BindGroupLayout {
	if layout, ok := pc.layouts[idx]; ok {
		return layout
	}

	layout := pc.Pipeline.GetBindGroupLayout(idx)
	pc.layouts[idx] = layout

	return layout
}

func (pc CachedPipeline) release() {
	for idx, layout := range pc.layouts {
		layout.Release()
		delete(pc.layouts, idx)
	}

	pc.Pipeline.Release()
}

type PipelineConfig interface {
	comparable

	// Specialize creates the pipeline described by this config
	Specialize(dev *wgpu.Device) (*wgpu.RenderPipeline, error)
}

// PipelineCache builds pipelines on first use and keeps the most
// recently used ones.
type PipelineCache[C PipelineConfig] struct {
	device    *wgpu.Device
	pipelines *lru.Cache[C, CachedPipeline]
}

func NewPipelineCache[C PipelineConfig](ctx *Context) *PipelineCache[C] {
	pipelines, _ := lru.NewWithEvict(pipelineCacheSize, func(conf C, pc CachedPipeline) {
		slog.Debug("Release render pipeline", slog.Any("config", conf))
		pc.release()
	})

	return &PipelineCache[C]{device: ctx.Device, pipelines: pipelines}
}

func (p *PipelineCache[C]) Get(conf C) (CachedPipeline, error) {
	if cached, ok := p.pipelines.Get(conf); ok {
		return cached, nil
	}

	slog.Info("Create render pipeline", slog.Any("config", conf))

	pipeline, err := conf.Specialize(p.device)
	if err != nil {
		return CachedPipeline{}, fmt.Errorf("build pipeline: %w", err)
	}

	pc := CachedPipeline{
		Pipeline: pipeline,
		layouts:  map[uint32]*wgpu.BindGroupLayout{},
	}

	p.pipelines.Add(conf, pc)

	return pc, nil
}

// Release evicts and releases all cached pipelines.
func (p *PipelineCache[C]) Release() {
	p.pipelines.Purge()
}
