package pulse

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oliverbestmann/webgpu/wgpu"
)

var samplerCache, _ = lru.NewWithEvict[wgpu.SamplerDescriptor, *wgpu.Sampler](16, samplerCacheOnEvict)

func samplerCacheOnEvict(key wgpu.SamplerDescriptor, value *wgpu.Sampler) {
	value.Release()
}

// LinearRepeatSampler describes the sampler used for model textures.
var LinearRepeatSampler = wgpu.SamplerDescriptor{
	Label:         "LinearRepeat",
	AddressModeU:  wgpu.AddressModeRepeat,
	AddressModeV:  wgpu.AddressModeRepeat,
	AddressModeW:  wgpu.AddressModeRepeat,
	MagFilter:     wgpu.FilterModeLinear,
	MinFilter:     wgpu.FilterModeLinear,
	MipmapFilter:  wgpu.MipmapFilterModeNearest,
	LodMinClamp:   0,
	LodMaxClamp:   32,
	MaxAnisotropy: 1,
}

// CachedSampler returns a sampler matching your description. The sampler may be cached,
// you must not call wgpu.Sampler.Release() on it.
func CachedSampler(dev *wgpu.Device, desc wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	cachedSampler, ok := samplerCache.Get(desc)
	if ok {
		return cachedSampler, nil
	}

	sampler, err := dev.CreateSampler(&desc)
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}

	samplerCache.Add(desc, sampler)

	return sampler, nil
}

// PurgeSamplers releases all cached samplers. Call this before releasing the device.
func PurgeSamplers() {
	samplerCache.Purge()
}
