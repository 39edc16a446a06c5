package thicket

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorMatrixFilterIdentity(t *testing.T) {
	f := NewColorMatrixFilter()
	want := [20]float64{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
	assert.Equal(t, want, f.Matrix)
}

func TestColorMatrixFilterSetBrightness(t *testing.T) {
	f := NewColorMatrixFilter()
	f.SetBrightness(0.25)
	assert.Equal(t, 0.25, f.Matrix[4])
	assert.Equal(t, 0.25, f.Matrix[9])
	assert.Equal(t, 0.25, f.Matrix[14])
	assert.Equal(t, 0.0, f.Matrix[19], "alpha offset stays zero")
}

func TestColorMatrixFilterSetSaturation(t *testing.T) {
	f := NewColorMatrixFilter()
	f.SetSaturation(1)
	assert.Equal(t, NewColorMatrixFilter().Matrix, f.Matrix, "full saturation is the identity")

	f.SetSaturation(0)
	// Grayscale: every color row holds the luminance weights.
	for row := range 3 {
		assert.InDelta(t, 0.299, f.Matrix[row*5+0], 1e-9)
		assert.InDelta(t, 0.587, f.Matrix[row*5+1], 1e-9)
		assert.InDelta(t, 0.114, f.Matrix[row*5+2], 1e-9)
	}
}

func TestNewBlurFilter(t *testing.T) {
	assert.Equal(t, 0, NewBlurFilter(-3).Radius)
	assert.Equal(t, 4, NewBlurFilter(4).Radius)
}

func TestBlurFilterPasses(t *testing.T) {
	tests := []struct{ radius, want int }{
		{1, 1},
		{2, 1},
		{4, 2},
		{5, 3},
		{16, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewBlurFilter(tt.radius).passes(), "radius %d", tt.radius)
	}
}

func TestNewOutlineFilter(t *testing.T) {
	c := Color{1, 0, 0, 1}
	f := NewOutlineFilter(2, c)
	assert.Equal(t, 2, f.Thickness)
	assert.Equal(t, c, f.Color)
}

func TestApplyFiltersEmptyReturnsSource(t *testing.T) {
	var pool renderTexturePool
	src := ebiten.NewImage(8, 8)
	assert.Same(t, src, applyFilters(nil, src, &pool))
	assert.Equal(t, 0, pool.Live())
}

func TestApplyFiltersReleasesScratch(t *testing.T) {
	var pool renderTexturePool
	src := pool.Acquire(16, 16)

	// One filter: the result lands in the scratch image.
	out := applyFilters([]Filter{NewBlurFilter(0)}, src, &pool)
	assert.NotSame(t, src, out)
	assert.Equal(t, 2, pool.Live())
	pool.Release(out)
	pool.Release(src)

	// Two filters: the result ping-pongs back into src.
	src = pool.Acquire(16, 16)
	out = applyFilters([]Filter{NewBlurFilter(0), NewBlurFilter(0)}, src, &pool)
	assert.Same(t, src, out)
	assert.Equal(t, 1, pool.Live())
	pool.Release(out)
	assert.Equal(t, 0, pool.Live())
}

func TestFilterStackBalanced(t *testing.T) {
	screen := ebiten.NewImage(32, 32)
	ctx := NewEbitenContext(screen)
	filters := ctx.Filters.(*ebitenFilters)

	g := NewGroup("g")
	g.AddChild(NewSprite("a", nil))
	g.Filters = []Filter{NewBlurFilter(2), NewOutlineFilter(1, ColorWhite)}

	ctx.startBatch()
	g.Render(ctx)
	ctx.stopBatch()

	require.Empty(t, filters.scopes)
	assert.Equal(t, 1, ctx.Depth())
	assert.Same(t, screen, ctx.Target())
	assert.Equal(t, 0, filters.pool.Live())
}

func TestFilterStackWithoutTarget(t *testing.T) {
	ctx := NewEbitenContext(nil)
	filters := ctx.Filters.(*ebitenFilters)

	g := NewGroup("g")
	g.AddChild(NewSprite("a", nil))
	g.Filters = []Filter{NewBlurFilter(2)}
	g.Render(ctx)

	assert.Empty(t, filters.scopes)
	assert.Equal(t, 0, filters.pool.Live())
}
