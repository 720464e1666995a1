package pulse

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const DefaultTextureCacheSize = 64

// DecodeImageFile decodes the image at path. Supported are png, jpeg,
// gif, bmp, tiff and webp.
func DecodeImageFile(path string) (image.Image, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer fp.Close()

	img, format, err := image.Decode(fp)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}

	slog.Debug("Decoded image",
		slog.String("path", path),
		slog.String("format", format),
		slog.Int("width", img.Bounds().Dx()),
		slog.Int("height", img.Bounds().Dy()),
	)

	return img, nil
}

// fallbackImage is used in place of textures that can not be loaded.
func fallbackImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	return img
}

// loadingCache is an lru cache that loads missing entries on access.
// Entries that fail to load resolve to the fallback value, the failure
// is remembered so a broken file is only read once.
type loadingCache[V comparable] struct {
	cache    *lru.Cache[string, V]
	size     int
	load     func(path string) (V, error)
	fallback V
}

func newLoadingCache[V comparable](size int, fallback V, load func(string) (V, error), release func(V)) (*loadingCache[V], error) {
	onEvict := func(_ string, value V) {
		if value != fallback && release != nil {
			release(value)
		}
	}

	cache, err := lru.NewWithEvict[string, V](size, onEvict)
	if err != nil {
		return nil, err
	}

	return &loadingCache[V]{cache: cache, size: size, load: load, fallback: fallback}, nil
}

func (c *loadingCache[V]) Get(path string) V {
	if path == "" {
		return c.fallback
	}

	if value, ok := c.cache.Get(path); ok {
		return value
	}

	value, err := c.load(path)
	if err != nil {
		slog.Warn("Failed to load texture, using fallback",
			slog.String("path", path),
			slog.String("err", err.Error()),
		)

		value = c.fallback
	}

	c.cache.Add(path, value)

	return value
}

// GetAll resolves every path in paths. The cache first grows to hold all
// distinct paths at once, so loading one of them never evicts another.
func (c *loadingCache[V]) GetAll(paths []string) []V {
	distinct := map[string]struct{}{}
	for _, path := range paths {
		if path != "" {
			distinct[path] = struct{}{}
		}
	}

	if len(distinct) > c.size {
		slog.Debug("Grow texture cache",
			slog.Int("from", c.size),
			slog.Int("to", len(distinct)),
		)

		c.cache.Resize(len(distinct))
		c.size = len(distinct)
	}

	values := make([]V, 0, len(paths))
	for _, path := range paths {
		values = append(values, c.Get(path))
	}

	return values
}

func (c *loadingCache[V]) Purge() {
	c.cache.Purge()
}

// TextureCache loads textures from disk, keyed by path. Textures that can
// not be loaded are replaced by a single white pixel.
type TextureCache struct {
	ctx      *Context
	textures *loadingCache[*Texture]
	fallback *Texture
}

func NewTextureCache(ctx *Context, size int) (*TextureCache, error) {
	if size <= 0 {
		size = DefaultTextureCacheSize
	}

	fallback, err := NewTextureFromImage(ctx, "FallbackTexture", fallbackImage())
	if err != nil {
		return nil, fmt.Errorf("create fallback texture: %w", err)
	}

	load := func(path string) (*Texture, error) {
		img, err := DecodeImageFile(path)
		if err != nil {
			return nil, err
		}

		return NewTextureFromImage(ctx, path, img)
	}

	textures, err := newLoadingCache(size, fallback, load, (*Texture).Release)
	if err != nil {
		fallback.Release()
		return nil, fmt.Errorf("create texture cache: %w", err)
	}

	return &TextureCache{ctx: ctx, textures: textures, fallback: fallback}, nil
}

// Get returns the texture at path. An empty path yields the fallback texture.
// The returned texture is owned by the cache.
func (c *TextureCache) Get(path string) *Texture {
	return c.textures.Get(path)
}

// GetAll returns the textures for all paths, in order. The cache grows if
// needed, so all of them stay loaded together.
func (c *TextureCache) GetAll(paths []string) []*Texture {
	return c.textures.GetAll(paths)
}

func (c *TextureCache) Fallback() *Texture {
	return c.fallback
}

func (c *TextureCache) Release() {
	c.textures.Purge()
	c.fallback.Release()
}
