package thicket

import (
	"image"
	"math/bits"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Render texture pool ---

// renderTexturePool manages reusable offscreen ebiten.Images keyed by
// power-of-two dimensions. After warmup, Acquire/Release are zero-alloc.
type renderTexturePool struct {
	buckets map[uint64][]*ebiten.Image
	live    int // acquired and not yet released
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
// Dimensions are rounded up to the next power of two.
func (p *renderTexturePool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)
	p.live++

	if stack := p.buckets[key]; len(stack) > 0 {
		img := stack[len(stack)-1]
		p.buckets[key] = stack[:len(stack)-1]
		img.Clear()
		return img
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool for reuse. The image is cleared on
// next Acquire, not here.
func (p *renderTexturePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
	p.live--
}

// Live returns the number of acquired images not yet released.
func (p *renderTexturePool) Live() int {
	return p.live
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// --- CacheAsTexture API ---

// SetCacheAsTexture enables or disables caching of this group's rendered
// children as a single texture. When enabled, the children are drawn once
// into an offscreen image that is reused across frames until
// InvalidateCache is called.
func (n *Node) SetCacheAsTexture(enabled bool) {
	if n.cacheEnabled == enabled {
		return
	}
	n.cacheEnabled = enabled
	if !enabled {
		if n.cacheTexture != nil {
			n.cacheTexture.Deallocate()
			n.cacheTexture = nil
		}
		n.cacheDirty = false
		return
	}
	n.cacheDirty = true
}

// InvalidateCache marks the cached texture as dirty so it will be re-rendered
// on the next frame. No-op if caching is not enabled.
func (n *Node) InvalidateCache() {
	if n.cacheEnabled {
		n.cacheDirty = true
	}
}

// IsCacheEnabled reports whether texture caching is enabled for this node.
func (n *Node) IsCacheEnabled() bool {
	return n.cacheEnabled
}

// ebitenBitmapCache implements BitmapCache. The cached texture matches the
// size of the target it is drawn onto and is re-rendered when dirty or when
// that size changes.
type ebitenBitmapCache struct {
	op      ebiten.DrawImageOptions
	renders int // cache misses, for debug stats
}

// RenderCached draws group from its cached texture, refreshing it first if
// needed.
func (c *ebitenBitmapCache) RenderCached(group *Node, ctx *RenderContext) {
	target := ctx.Target()
	if target == nil {
		return
	}
	tb := target.Bounds()

	tex := group.cacheTexture
	if tex == nil || tex.Bounds().Dx() != tb.Dx() || tex.Bounds().Dy() != tb.Dy() {
		if tex != nil {
			tex.Deallocate()
		}
		tex = ebiten.NewImage(tb.Dx(), tb.Dy())
		group.cacheTexture = tex
		group.cacheDirty = true
	}

	if group.cacheDirty {
		tex.Clear()
		ctx.stopBatch()
		ctx.PushTarget(tex)
		ctx.startBatch()
		group.renderChildren(ctx)
		ctx.stopBatch()
		ctx.PopTarget()
		ctx.startBatch()
		group.cacheDirty = false
		c.renders++
	}

	// Pending quads were issued before this group and must land first.
	ctx.flushBatch()
	a := float32(group.Alpha)
	c.op.GeoM.Reset()
	c.op.ColorScale.Reset()
	c.op.ColorScale.Scale(a, a, a, a)
	c.op.Blend = group.BlendMode.EbitenBlend()
	target.DrawImage(tex, &c.op)
}
