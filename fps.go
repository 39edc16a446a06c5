package thicket

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// statsOverlay is a small panel showing FPS, TPS and the last frame's draw
// counters. The text is refreshed about twice a second.
type statsOverlay struct {
	img       *ebiten.Image
	sinceDraw float64
	op        ebiten.DrawImageOptions
	text      string
}

// 130x64 fits five lines of the debug font.
func newStatsOverlay() *statsOverlay {
	return &statsOverlay{img: ebiten.NewImage(130, 64), sinceDraw: 1}
}

// update advances the refresh timer by dt seconds and redraws the panel if
// it is due.
func (o *statsOverlay) update(dt float64, stats RenderStats, sortKey string) {
	o.sinceDraw += dt
	if o.sinceDraw < 0.5 {
		return
	}
	o.sinceDraw = 0

	o.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nSprites: %d\nBatches: %d\nSort: %s",
		ebiten.ActualFPS(), ebiten.ActualTPS(), stats.Sprites, stats.Batches, sortKey)
	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
}

// draw places the panel at the top-left of screen.
func (o *statsOverlay) draw(screen *ebiten.Image) {
	o.op.GeoM.Reset()
	screen.DrawImage(o.img, &o.op)
}
