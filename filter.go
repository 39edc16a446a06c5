package thicket

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Filter is a visual effect applied to a group's rendered child batch.
type Filter interface {
	// Apply renders src into dst with the filter effect. dst is cleared and
	// has the same size as src.
	Apply(src, dst *ebiten.Image)
}

const colorMatrixShaderSrc = `//kage:unit pixels
package main

var Matrix [20]float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a > 0 {
		c.rgb /= c.a
	}
	r := Matrix[0]*c.r + Matrix[1]*c.g + Matrix[2]*c.b + Matrix[3]*c.a + Matrix[4]
	g := Matrix[5]*c.r + Matrix[6]*c.g + Matrix[7]*c.b + Matrix[8]*c.a + Matrix[9]
	b := Matrix[10]*c.r + Matrix[11]*c.g + Matrix[12]*c.b + Matrix[13]*c.a + Matrix[14]
	a := Matrix[15]*c.r + Matrix[16]*c.g + Matrix[17]*c.b + Matrix[18]*c.a + Matrix[19]
	r = clamp(r, 0, 1)
	g = clamp(g, 0, 1)
	b = clamp(b, 0, 1)
	a = clamp(a, 0, 1)
	return vec4(r*a, g*a, b*a, a)
}
`

// Compiled lazily on first use (no sync.Once; thicket is single-threaded).
var colorMatrixShader *ebiten.Shader

func ensureColorMatrixShader() *ebiten.Shader {
	if colorMatrixShader == nil {
		s, err := ebiten.NewShader([]byte(colorMatrixShaderSrc))
		if err != nil {
			panic("thicket: failed to compile color matrix shader: " + err.Error())
		}
		colorMatrixShader = s
	}
	return colorMatrixShader
}

// --- ColorMatrixFilter ---

// ColorMatrixFilter applies a 4x5 color matrix transformation using a Kage shader.
// The matrix is stored in row-major order: [R_r, R_g, R_b, R_a, R_offset, G_r, ...].
type ColorMatrixFilter struct {
	Matrix    [20]float64
	uniforms  map[string]any
	matrixF32 [20]float32
	shaderOp  ebiten.DrawRectShaderOptions
}

// NewColorMatrixFilter creates a color matrix filter initialized to the identity.
func NewColorMatrixFilter() *ColorMatrixFilter {
	f := &ColorMatrixFilter{uniforms: make(map[string]any, 1)}
	f.uniforms["Matrix"] = f.matrixF32[:]
	f.Matrix[0] = 1
	f.Matrix[6] = 1
	f.Matrix[12] = 1
	f.Matrix[18] = 1
	return f
}

// SetBrightness sets the matrix to adjust brightness by the given offset [-1, 1].
func (f *ColorMatrixFilter) SetBrightness(b float64) {
	f.Matrix = [20]float64{
		1, 0, 0, 0, b,
		0, 1, 0, 0, b,
		0, 0, 1, 0, b,
		0, 0, 0, 1, 0,
	}
}

// SetSaturation sets the matrix to adjust saturation. s=1 is normal, 0=grayscale.
func (f *ColorMatrixFilter) SetSaturation(s float64) {
	sr := (1 - s) * 0.299
	sg := (1 - s) * 0.587
	sb := (1 - s) * 0.114
	f.Matrix = [20]float64{
		sr + s, sg, sb, 0, 0,
		sr, sg + s, sb, 0, 0,
		sr, sg, sb + s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Apply renders the color matrix transformation from src into dst.
func (f *ColorMatrixFilter) Apply(src, dst *ebiten.Image) {
	for i, v := range f.Matrix {
		f.matrixF32[i] = float32(v)
	}
	b := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(b.Dx(), b.Dy(), ensureColorMatrixShader(), &f.shaderOp)
}

// --- BlurFilter ---

// BlurFilter applies an iterative downscale/upscale blur. Bilinear filtering
// during DrawImage does the work, so no shader is needed.
type BlurFilter struct {
	Radius int
	temps  []*ebiten.Image
	op     ebiten.DrawImageOptions
}

// NewBlurFilter creates a blur filter with the given radius (in pixels).
func NewBlurFilter(radius int) *BlurFilter {
	return &BlurFilter{Radius: max(radius, 0)}
}

// passes returns the number of half-size steps for the radius, minimum 1.
func (f *BlurFilter) passes() int {
	return max(int(math.Ceil(math.Log2(float64(f.Radius)))), 1)
}

// Apply renders the blur of src into dst.
func (f *BlurFilter) Apply(src, dst *ebiten.Image) {
	op := &f.op
	if f.Radius <= 0 {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(src, op)
		return
	}

	passes := f.passes()
	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}
	for i := passes; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
		}
	}
	f.temps = f.temps[:passes]

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	current := src
	for i := range passes {
		w, h = max(w/2, 1), max(h/2, 1)
		if t := f.temps[i]; t == nil || t.Bounds().Dx() != w || t.Bounds().Dy() != h {
			if t != nil {
				t.Deallocate()
			}
			f.temps[i] = ebiten.NewImage(w, h)
		} else {
			t.Clear()
		}
		scaleInto(f.temps[i], current, op)
		current = f.temps[i]
	}
	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		scaleInto(f.temps[i], current, op)
		current = f.temps[i]
	}
	scaleInto(dst, current, op)
}

// scaleInto draws src stretched over all of dst with bilinear filtering.
func scaleInto(dst, src *ebiten.Image, op *ebiten.DrawImageOptions) {
	sb, db := src.Bounds(), dst.Bounds()
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.GeoM.Scale(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

// --- OutlineFilter ---

// OutlineFilter draws the source at 8 offsets tinted with the outline color,
// then the original on top.
type OutlineFilter struct {
	Thickness int
	Color     Color
	op        ebiten.DrawImageOptions
}

// NewOutlineFilter creates an outline filter.
func NewOutlineFilter(thickness int, c Color) *OutlineFilter {
	return &OutlineFilter{Thickness: thickness, Color: c}
}

// Apply draws an 8-direction offset outline behind the source image.
func (f *OutlineFilter) Apply(src, dst *ebiten.Image) {
	t := float64(f.Thickness)
	offsets := [8][2]float64{
		{-t, 0}, {t, 0}, {0, -t}, {0, t},
		{-t, -t}, {t, -t}, {-t, t}, {t, t},
	}
	op := &f.op
	for _, off := range offsets {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.GeoM.Translate(off[0], off[1])
		op.ColorScale.Scale(
			float32(f.Color.R*f.Color.A),
			float32(f.Color.G*f.Color.A),
			float32(f.Color.B*f.Color.A),
			float32(f.Color.A),
		)
		dst.DrawImage(src, op)
	}
	op.GeoM.Reset()
	op.ColorScale.Reset()
	dst.DrawImage(src, op)
}

// --- Filter chain ---

// applyFilters runs a filter chain on src, ping-ponging between src and one
// pooled scratch image. It returns the image holding the final result; the
// other one is released back to the pool unless it is src.
func applyFilters(filters []Filter, src *ebiten.Image, pool *renderTexturePool) *ebiten.Image {
	if len(filters) == 0 {
		return src
	}
	b := src.Bounds()
	current := src
	scratch := pool.Acquire(b.Dx(), b.Dy())
	for i, f := range filters {
		if i > 0 {
			scratch.Clear()
		}
		f.Apply(current, scratch)
		current, scratch = scratch, current
	}
	if scratch != src {
		pool.Release(scratch)
	}
	return current
}

// ebitenFilters implements FilterStack: the child batch is drawn into a
// pooled offscreen image, run through the filter chain on pop, and the
// result is drawn onto the enclosing target.
type ebitenFilters struct {
	pool   *renderTexturePool
	scopes [][]Filter
	op     ebiten.DrawImageOptions
}

// PushFilter redirects drawing into a fresh offscreen image sized to the
// current target.
func (s *ebitenFilters) PushFilter(filters []Filter, ctx *RenderContext) {
	parent := ctx.Target()
	if parent == nil {
		s.scopes = append(s.scopes, nil)
		return
	}
	b := parent.Bounds()
	ctx.PushTarget(s.pool.Acquire(b.Dx(), b.Dy()))
	s.scopes = append(s.scopes, filters)
}

// PopFilter closes the innermost filter region.
func (s *ebitenFilters) PopFilter(ctx *RenderContext) {
	if len(s.scopes) == 0 {
		return
	}
	filters := s.scopes[len(s.scopes)-1]
	s.scopes[len(s.scopes)-1] = nil
	s.scopes = s.scopes[:len(s.scopes)-1]
	if filters == nil {
		return
	}

	content := ctx.PopTarget()
	result := applyFilters(filters, content, s.pool)
	if target := ctx.Target(); target != nil {
		s.op.GeoM.Reset()
		s.op.ColorScale.Reset()
		target.DrawImage(result, &s.op)
	}
	s.pool.Release(result)
	if result != content {
		s.pool.Release(content)
	}
}
