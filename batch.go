package thicket

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// batchKey groups leaf draws that can be submitted in a single call.
type batchKey struct {
	image *ebiten.Image
	blend BlendMode
}

// RenderStats counts the work an EbitenRenderer submitted since the last
// ResetStats.
type RenderStats struct {
	Sprites   int // leaves drawn
	DrawCalls int // DrawImage + DrawTriangles32 calls
	Batches   int // DrawTriangles32 calls carrying coalesced quads
}

// EbitenRenderer draws leaves with Ebitengine. While a batch is running,
// consecutive leaves sharing an image and blend mode are coalesced into one
// DrawTriangles32 call; otherwise each leaf is drawn immediately with
// DrawImage.
type EbitenRenderer struct {
	active bool
	key    batchKey
	verts  []ebiten.Vertex
	inds   []uint32
	op     ebiten.DrawImageOptions
	triOp  ebiten.DrawTrianglesOptions
	stats  RenderStats
}

// NewEbitenContext returns a render context drawing into target with
// batching, masks, filters and cache-as-texture support.
func NewEbitenContext(target *ebiten.Image) *RenderContext {
	pool := &renderTexturePool{}
	r := &EbitenRenderer{}
	ctx := NewRenderContext(target, r)
	ctx.Batch = r
	ctx.Masks = &ebitenMasks{pool: pool}
	ctx.Filters = &ebitenFilters{pool: pool}
	ctx.Cached = &ebitenBitmapCache{}
	return ctx
}

// NewImmediateContext returns a render context that draws every leaf as soon
// as it is reached. It supports masks but no batching, filters or texture
// caching.
func NewImmediateContext(target *ebiten.Image) *RenderContext {
	ctx := NewRenderContext(target, &EbitenRenderer{})
	ctx.Masks = &ebitenMasks{pool: &renderTexturePool{}}
	return ctx
}

// Reset empties the target stack and makes target the base target, so a
// context (and its pooled images) can be reused across frames.
func (ctx *RenderContext) Reset(target *ebiten.Image) {
	clear(ctx.targets)
	ctx.targets = ctx.targets[:0]
	if target != nil {
		ctx.targets = append(ctx.targets, target)
	}
}

// Stats returns the counters accumulated since the last ResetStats.
func (r *EbitenRenderer) Stats() RenderStats {
	return r.stats
}

// ResetStats zeroes the counters.
func (r *EbitenRenderer) ResetStats() {
	r.stats = RenderStats{}
}

// StartBatch begins coalescing leaf draws.
func (r *EbitenRenderer) StartBatch(ctx *RenderContext) {
	r.active = true
}

// StopBatch submits pending draws and switches to immediate drawing.
func (r *EbitenRenderer) StopBatch(ctx *RenderContext) {
	r.Flush(ctx)
	r.active = false
}

// Flush submits pending draws to the current target.
func (r *EbitenRenderer) Flush(ctx *RenderContext) {
	if len(r.verts) == 0 {
		return
	}
	if target := ctx.Target(); target != nil {
		r.triOp.Blend = r.key.blend.EbitenBlend()
		r.triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
		target.DrawTriangles32(r.verts, r.inds, r.key.image, &r.triOp)
		r.stats.DrawCalls++
		r.stats.Batches++
	}
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
}

// RenderLeaf draws leaf onto the current target.
func (r *EbitenRenderer) RenderLeaf(leaf *Node, ctx *RenderContext) {
	target := ctx.Target()
	if target == nil {
		return
	}
	img := leaf.Image
	if img == nil {
		img = WhitePixel
	}
	r.stats.Sprites++

	if !r.active {
		r.drawImmediate(target, leaf, img)
		return
	}

	key := batchKey{image: img, blend: leaf.BlendMode}
	if len(r.verts) > 0 && key != r.key {
		r.Flush(ctx)
	}
	r.key = key
	r.appendQuad(leaf, img)
}

// drawImmediate draws one leaf with DrawImage.
func (r *EbitenRenderer) drawImmediate(target *ebiten.Image, leaf *Node, img *ebiten.Image) {
	m := computeLocalTransform(leaf)
	op := &r.op
	op.GeoM.Reset()
	op.GeoM.SetElement(0, 0, m[0])
	op.GeoM.SetElement(1, 0, m[1])
	op.GeoM.SetElement(0, 1, m[2])
	op.GeoM.SetElement(1, 1, m[3])
	op.GeoM.SetElement(0, 2, m[4])
	op.GeoM.SetElement(1, 2, m[5])
	cr, cg, cb, ca := premultiplied(leaf)
	op.ColorScale.Reset()
	op.ColorScale.Scale(cr, cg, cb, ca)
	op.Blend = leaf.BlendMode.EbitenBlend()
	target.DrawImage(img, op)
	r.stats.DrawCalls++
}

// appendQuad appends 4 vertices and 6 indices for one leaf.
func (r *EbitenRenderer) appendQuad(leaf *Node, img *ebiten.Image) {
	m := computeLocalTransform(leaf)
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	u0, v0 := float32(b.Min.X), float32(b.Min.Y)
	u1, v1 := float32(b.Max.X), float32(b.Max.Y)

	lx := [4]float64{0, w, 0, w}
	ly := [4]float64{0, 0, h, h}
	su := [4]float32{u0, u1, u0, u1}
	sv := [4]float32{v0, v0, v1, v1}

	cr, cg, cb, ca := premultiplied(leaf)
	base := uint32(len(r.verts))
	for i := range 4 {
		dx, dy := transformPoint(m, lx[i], ly[i])
		r.verts = append(r.verts, ebiten.Vertex{
			DstX:   float32(dx),
			DstY:   float32(dy),
			SrcX:   su[i],
			SrcY:   sv[i],
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}
	// Two triangles: TL-TR-BL, TR-BR-BL
	r.inds = append(r.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// premultiplied returns the leaf tint scaled by its alpha.
func premultiplied(n *Node) (r, g, b, a float32) {
	a = float32(n.Color.A * n.Alpha)
	return float32(n.Color.R) * a, float32(n.Color.G) * a, float32(n.Color.B) * a, a
}
