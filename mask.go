package thicket

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// SetMask sets a mask node for this group. The mask node's alpha channel
// determines which parts of the group's child batch are visible. The mask
// node is NOT part of the scene tree and is drawn in target space.
func (n *Node) SetMask(maskNode *Node) {
	n.mask = maskNode
}

// ClearMask removes the mask from this node.
func (n *Node) ClearMask() {
	n.mask = nil
}

// GetMask returns the current mask node, or nil if no mask is set.
func (n *Node) GetMask() *Node {
	return n.mask
}

// maskScope is one open mask region.
type maskScope struct {
	mask    *Node
	content *ebiten.Image
}

// ebitenMasks implements MaskStack with offscreen images: the child batch is
// drawn into a pooled image, the mask node into a second one, and the two
// are composited with BlendMask before landing on the enclosing target.
type ebitenMasks struct {
	pool   *renderTexturePool
	scopes []maskScope
	op     ebiten.DrawImageOptions
}

// PushMask redirects drawing into a fresh offscreen image sized to the
// current target.
func (m *ebitenMasks) PushMask(mask *Node, ctx *RenderContext) {
	parent := ctx.Target()
	if parent == nil {
		m.scopes = append(m.scopes, maskScope{mask: mask})
		return
	}
	b := parent.Bounds()
	content := m.pool.Acquire(b.Dx(), b.Dy())
	ctx.PushTarget(content)
	m.scopes = append(m.scopes, maskScope{mask: mask, content: content})
}

// PopMask closes the innermost mask region.
func (m *ebitenMasks) PopMask(ctx *RenderContext) {
	if len(m.scopes) == 0 {
		return
	}
	scope := m.scopes[len(m.scopes)-1]
	m.scopes[len(m.scopes)-1] = maskScope{}
	m.scopes = m.scopes[:len(m.scopes)-1]
	if scope.content == nil {
		return
	}

	ctx.PopTarget()

	b := scope.content.Bounds()
	maskRT := m.pool.Acquire(b.Dx(), b.Dy())
	ctx.PushTarget(maskRT)
	scope.mask.Render(ctx)
	ctx.flushBatch()
	ctx.PopTarget()

	m.op.GeoM.Reset()
	m.op.ColorScale.Reset()
	m.op.Blend = BlendMask.EbitenBlend()
	scope.content.DrawImage(maskRT, &m.op)

	if target := ctx.Target(); target != nil {
		m.op.Blend = ebiten.BlendSourceOver
		target.DrawImage(scope.content, &m.op)
	}

	m.pool.Release(maskRT)
	m.pool.Release(scope.content)
}

// depth returns the number of open mask regions.
func (m *ebitenMasks) depth() int {
	return len(m.scopes)
}
