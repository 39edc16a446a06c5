package thicket

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// AutoSort describes a sort the scene applies to its root every Update.
type AutoSort struct {
	Enabled   bool
	Key       string
	Order     SortOrder
	Recursive bool
}

// Scene is the top-level object that owns the root group, the per-frame
// update hooks and the Ebitengine render context.
type Scene struct {
	root  *Node
	debug bool

	// ClearColor fills the screen before drawing when its alpha is non-zero.
	ClearColor Color

	// AutoSort is applied to the root at the end of every Update.
	AutoSort AutoSort

	// ShowStats draws an FPS and draw-counter panel over the scene.
	ShowStats bool
	overlay   *statsOverlay

	tweens     []*TweenGroup
	updateFunc func() error

	ctx      *RenderContext
	renderer *EbitenRenderer

	lastSortTime time.Duration
}

// NewScene creates a new scene with a pre-created root group.
func NewScene() *Scene {
	ctx := NewEbitenContext(nil)
	return &Scene{
		root:     NewGroup("root"),
		ctx:      ctx,
		renderer: ctx.Leaves.(*EbitenRenderer),
	}
}

// Root returns the scene's root group.
func (s *Scene) Root() *Node {
	return s.root
}

// SetUpdateFunc sets a callback run at the start of every Update.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// AddTween registers a tween advanced by Update until it is done.
func (s *Scene) AddTween(g *TweenGroup) {
	s.tweens = append(s.tweens, g)
}

// NumTweens returns the number of tweens still running.
func (s *Scene) NumTweens() int {
	return len(s.tweens)
}

// Update runs the update callback, advances tweens, and applies AutoSort.
func (s *Scene) Update() error {
	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}

	s.advanceTweens(float32(1.0 / float64(ebiten.TPS())))

	if s.AutoSort.Enabled {
		var t0 time.Time
		if s.debug {
			t0 = time.Now()
		}
		s.root.Sort(s.AutoSort.Key, s.AutoSort.Order, s.AutoSort.Recursive)
		if s.debug {
			s.lastSortTime = time.Since(t0)
		}
	}
	return nil
}

// advanceTweens steps every tween by dt and drops the finished ones.
func (s *Scene) advanceTweens(dt float32) {
	alive := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(dt)
		if !g.Done {
			alive = append(alive, g)
		}
	}
	clear(s.tweens[len(alive):])
	s.tweens = alive
}

// Draw renders the root group onto screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.ctx.Reset(screen)
	s.renderer.ResetStats()
	s.ctx.startBatch()
	s.root.Render(s.ctx)
	s.ctx.stopBatch()

	if s.ShowStats {
		if s.overlay == nil {
			s.overlay = newStatsOverlay()
		}
		s.overlay.update(1/float64(ebiten.TPS()), s.renderer.Stats(), s.root.ActiveSortKey())
		s.overlay.draw(screen)
	}

	if s.debug {
		s.debugLog(debugStats{
			sortTime:   s.lastSortTime,
			renderTime: time.Since(t0),
			sortKey:    s.root.ActiveSortKey(),
			fromCache:  s.root.RendersFromCache(),
			draw:       s.renderer.Stats(),
		})
	}
}

// Stats returns the draw counters of the last Draw.
func (s *Scene) Stats() RenderStats {
	return s.renderer.Stats()
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame timing stats are logged through the debug logger.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}
