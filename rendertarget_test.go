package thicket

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- nextPowerOfTwo ---

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		input, want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{127, 128},
		{128, 128},
		{129, 256},
		{1000, 1024},
	}
	for _, tt := range tests {
		got := nextPowerOfTwo(tt.input)
		if got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

// --- Pool ---

func TestPoolAcquireReturnsPow2(t *testing.T) {
	var pool renderTexturePool
	img := pool.Acquire(100, 50)
	defer pool.Release(img)

	b := img.Bounds()
	if b.Dx() != 128 {
		t.Errorf("width = %d, want 128", b.Dx())
	}
	if b.Dy() != 64 {
		t.Errorf("height = %d, want 64", b.Dy())
	}
}

func TestPoolReleaseAndReacquire(t *testing.T) {
	var pool renderTexturePool
	img1 := pool.Acquire(64, 64)
	pool.Release(img1)

	img2 := pool.Acquire(64, 64)
	if img1 != img2 {
		t.Error("expected pool to return the same image after release")
	}
	pool.Release(img2)
	if pool.Live() != 0 {
		t.Errorf("Live = %d, want 0", pool.Live())
	}
}

func TestPoolDifferentSizes(t *testing.T) {
	var pool renderTexturePool
	a := pool.Acquire(32, 32)
	b := pool.Acquire(64, 64)
	if a == b {
		t.Error("different sizes should return different images")
	}
	if pool.Live() != 2 {
		t.Errorf("Live = %d, want 2", pool.Live())
	}
	pool.Release(a)
	pool.Release(b)
}

func TestPoolReleaseNilNoPanic(t *testing.T) {
	var pool renderTexturePool
	pool.Release(nil)
	if pool.Live() != 0 {
		t.Errorf("Live = %d, want 0", pool.Live())
	}
}

// --- CacheAsTexture ---

func TestSetCacheAsTexture(t *testing.T) {
	n := NewGroup("g")
	n.SetCacheAsTexture(true)
	if !n.IsCacheEnabled() {
		t.Error("cache should be enabled")
	}
	if !n.cacheDirty {
		t.Error("a newly enabled cache should be dirty")
	}

	n.SetCacheAsTexture(false)
	if n.IsCacheEnabled() {
		t.Error("cache should be disabled")
	}
	if n.cacheTexture != nil {
		t.Error("disabling the cache should release its texture")
	}
}

func TestInvalidateCacheWhenDisabledNoOp(t *testing.T) {
	n := NewGroup("g")
	n.InvalidateCache()
	if n.cacheDirty {
		t.Error("InvalidateCache should not dirty a disabled cache")
	}
}

func TestBitmapCacheRendersOnceUntilInvalidated(t *testing.T) {
	screen := ebiten.NewImage(32, 32)
	ctx := NewEbitenContext(screen)
	cache := ctx.Cached.(*ebitenBitmapCache)

	g := NewGroup("g")
	g.AddChild(NewSprite("a", nil))
	g.AddChild(NewSprite("b", nil))
	g.SetCacheAsTexture(true)

	for range 3 {
		ctx.startBatch()
		g.Render(ctx)
		ctx.stopBatch()
	}
	if cache.renders != 1 {
		t.Errorf("renders = %d, want 1", cache.renders)
	}
	if g.cacheDirty {
		t.Error("cache should be clean after rendering")
	}

	g.InvalidateCache()
	g.Render(ctx)
	if cache.renders != 2 {
		t.Errorf("renders after invalidate = %d, want 2", cache.renders)
	}
	if ctx.Depth() != 1 {
		t.Errorf("target stack depth = %d, want 1", ctx.Depth())
	}
}

func TestBitmapCacheResizesWithTarget(t *testing.T) {
	ctx := NewEbitenContext(ebiten.NewImage(16, 16))
	cache := ctx.Cached.(*ebitenBitmapCache)

	g := NewGroup("g")
	g.AddChild(NewSprite("a", nil))
	g.SetCacheAsTexture(true)
	g.Render(ctx)

	ctx.Reset(ebiten.NewImage(32, 16))
	g.Render(ctx)

	if cache.renders != 2 {
		t.Errorf("renders = %d, want 2", cache.renders)
	}
	if w := g.cacheTexture.Bounds().Dx(); w != 32 {
		t.Errorf("cache width = %d, want 32", w)
	}
}

func TestDisposeCleansCache(t *testing.T) {
	ctx := NewEbitenContext(ebiten.NewImage(8, 8))
	g := NewGroup("g")
	g.AddChild(NewSprite("a", nil))
	g.SetCacheAsTexture(true)
	g.Render(ctx)

	g.Dispose()
	if g.IsCacheEnabled() || g.cacheTexture != nil {
		t.Error("Dispose should drop the cached texture")
	}
}
