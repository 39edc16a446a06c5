package thicket

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestSetMask(t *testing.T) {
	n := NewGroup("n")
	m := NewSprite("mask", nil)
	n.SetMask(m)
	if n.GetMask() != m {
		t.Error("GetMask should return the mask set")
	}
}

func TestClearMask(t *testing.T) {
	n := NewGroup("n")
	n.SetMask(NewSprite("mask", nil))
	n.ClearMask()
	if n.GetMask() != nil {
		t.Error("mask should be nil after ClearMask")
	}
}

func TestMaskNodeNotInSceneTree(t *testing.T) {
	n := NewGroup("n")
	m := NewSprite("mask", nil)
	n.SetMask(m)
	if m.Parent != nil {
		t.Error("mask node should not have a parent")
	}
	if n.NumChildren() != 0 {
		t.Error("mask node should not be a child")
	}
}

func TestDisposeCleansMask(t *testing.T) {
	n := NewGroup("n")
	n.SetMask(NewSprite("mask", nil))
	n.Dispose()
	if n.GetMask() != nil {
		t.Error("mask should be nil after Dispose")
	}
}

func TestMaskStackBalanced(t *testing.T) {
	screen := ebiten.NewImage(64, 64)
	ctx := NewEbitenContext(screen)
	masks := ctx.Masks.(*ebitenMasks)

	outer := NewGroup("outer")
	inner := NewGroup("inner")
	inner.AddChild(NewSprite("a", nil))
	inner.SetMask(NewSprite("innerMask", nil))
	outer.AddChild(inner)
	outer.AddChild(NewSprite("b", nil))
	outer.SetMask(NewSprite("outerMask", nil))

	ctx.startBatch()
	outer.Render(ctx)
	ctx.stopBatch()

	if masks.depth() != 0 {
		t.Errorf("open mask scopes = %d, want 0", masks.depth())
	}
	if ctx.Depth() != 1 || ctx.Target() != screen {
		t.Errorf("target stack depth = %d, want the screen only", ctx.Depth())
	}
	if live := masks.pool.Live(); live != 0 {
		t.Errorf("pool live = %d, want 0", live)
	}
}

func TestMaskStackWithoutTarget(t *testing.T) {
	ctx := NewImmediateContext(nil)
	masks := ctx.Masks.(*ebitenMasks)

	g := NewGroup("g")
	g.AddChild(NewSprite("a", nil))
	g.SetMask(NewSprite("m", nil))
	g.Render(ctx)

	if masks.depth() != 0 {
		t.Errorf("open mask scopes = %d, want 0", masks.depth())
	}
	if masks.pool.Live() != 0 {
		t.Error("no image should be acquired without a target")
	}
}

func TestPopMaskEmptyNoPanic(t *testing.T) {
	ctx := NewImmediateContext(nil)
	ctx.Masks.PopMask(ctx)
}
