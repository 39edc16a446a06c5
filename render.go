package thicket

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// LeafRenderer draws a single leaf. It is called once per visible leaf per
// frame and must be safe to call every frame.
type LeafRenderer interface {
	RenderLeaf(leaf *Node, ctx *RenderContext)
}

// Batcher is implemented by backends that accumulate draws. Render stops the
// batch before a mask scope is pushed and before scopes are popped, flushes
// it before a filter scope is pushed, and restarts it afterwards, so pending
// draws always land on the target they were issued for.
type Batcher interface {
	StartBatch(ctx *RenderContext)
	StopBatch(ctx *RenderContext)
	Flush(ctx *RenderContext)
}

// MaskStack opens and closes masked regions around a group's child batch.
type MaskStack interface {
	PushMask(mask *Node, ctx *RenderContext)
	PopMask(ctx *RenderContext)
}

// FilterStack opens and closes filtered regions around a group's child batch.
type FilterStack interface {
	PushFilter(filters []Filter, ctx *RenderContext)
	PopFilter(ctx *RenderContext)
}

// BitmapCache renders a group with cache-as-texture enabled, replacing the
// normal traversal entirely.
type BitmapCache interface {
	RenderCached(group *Node, ctx *RenderContext)
}

// RenderContext carries the collaborators of one render pass and the stack
// of targets they draw into. Only Leaves is required. A nil Batch selects
// immediate-mode drawing, a nil Filters skips filter scopes, a nil Masks
// skips mask scopes and a nil Cached renders cached groups normally.
type RenderContext struct {
	Leaves  LeafRenderer
	Batch   Batcher
	Masks   MaskStack
	Filters FilterStack
	Cached  BitmapCache

	targets []*ebiten.Image
}

// NewRenderContext returns a context drawing into target with the given leaf
// renderer.
func NewRenderContext(target *ebiten.Image, leaves LeafRenderer) *RenderContext {
	ctx := &RenderContext{Leaves: leaves}
	if target != nil {
		ctx.targets = append(ctx.targets, target)
	}
	return ctx
}

// Target returns the image draws currently land on, or nil.
func (ctx *RenderContext) Target() *ebiten.Image {
	if len(ctx.targets) == 0 {
		return nil
	}
	return ctx.targets[len(ctx.targets)-1]
}

// PushTarget redirects subsequent draws to img.
func (ctx *RenderContext) PushTarget(img *ebiten.Image) {
	ctx.targets = append(ctx.targets, img)
}

// PopTarget restores the previous target and returns the one removed.
func (ctx *RenderContext) PopTarget() *ebiten.Image {
	if len(ctx.targets) == 0 {
		return nil
	}
	img := ctx.targets[len(ctx.targets)-1]
	ctx.targets[len(ctx.targets)-1] = nil
	ctx.targets = ctx.targets[:len(ctx.targets)-1]
	return img
}

// Depth returns the number of targets on the stack.
func (ctx *RenderContext) Depth() int {
	return len(ctx.targets)
}

func (ctx *RenderContext) startBatch() {
	if ctx.Batch != nil {
		ctx.Batch.StartBatch(ctx)
	}
}

func (ctx *RenderContext) stopBatch() {
	if ctx.Batch != nil {
		ctx.Batch.StopBatch(ctx)
	}
}

func (ctx *RenderContext) flushBatch() {
	if ctx.Batch != nil {
		ctx.Batch.Flush(ctx)
	}
}

// Render draws n. Leaves are handed to ctx.Leaves. Groups draw their draw
// cache when the last sort was recursive and their direct children
// otherwise, in list order; nested groups reached through the children
// render recursively. An invisible or fully transparent node draws nothing
// and opens no mask or filter scope. Render never reorders and never
// mutates node state.
func (n *Node) Render(ctx *RenderContext) {
	if !n.Visible || n.Alpha <= 0 {
		return
	}

	if n.Type != NodeTypeGroup {
		ctx.Leaves.RenderLeaf(n, ctx)
		return
	}

	if n.cacheEnabled && ctx.Cached != nil {
		ctx.Cached.RenderCached(n, ctx)
		return
	}

	n.renderChildren(ctx)
}

// renderChildren draws the group's active render source, wrapped in its
// mask and filter scopes when present.
func (n *Node) renderChildren(ctx *RenderContext) {
	objects := n.children
	if n.renderFromCache {
		objects = n.drawCache
	}

	masked := n.mask != nil && ctx.Masks != nil
	filtered := len(n.Filters) > 0 && ctx.Filters != nil

	if !masked && !filtered {
		for _, obj := range objects {
			obj.Render(ctx)
		}
		return
	}

	if masked {
		ctx.stopBatch()
		ctx.Masks.PushMask(n.mask, ctx)
		ctx.startBatch()
	}
	if filtered {
		ctx.flushBatch()
		ctx.Filters.PushFilter(n.Filters, ctx)
	}

	for _, obj := range objects {
		obj.Render(ctx)
	}

	ctx.stopBatch()
	if filtered {
		ctx.Filters.PopFilter(ctx)
	}
	if masked {
		ctx.Masks.PopMask(ctx)
	}
	ctx.startBatch()
}
