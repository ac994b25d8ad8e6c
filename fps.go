package moonlight

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsWidget displays the current FPS and TPS in the bottom-right corner.
// The text is refreshed every ~0.5 seconds into a small cached image.
type fpsWidget struct {
	img        *ebiten.Image
	lastUpdate float64
	op         ebiten.DrawImageOptions
}

// update accumulates dt and redraws the cached text when due.
func (w *fpsWidget) update(dt float64) {
	if w.img == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
		w.img = ebiten.NewImage(100, 32)
		w.lastUpdate = 0.5
	}
	w.lastUpdate += dt
	if w.lastUpdate < 0.5 {
		return
	}
	w.lastUpdate = 0

	w.img.Clear()
	// Semi-transparent background for readability
	w.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(w.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

// draw places the widget in the bottom-right corner of dst.
func (w *fpsWidget) draw(dst *ebiten.Image) {
	if w.img == nil {
		return
	}
	b := dst.Bounds()
	w.op.GeoM.Reset()
	w.op.GeoM.Translate(float64(b.Dx()-w.img.Bounds().Dx()-8), float64(b.Dy()-w.img.Bounds().Dy()-8))
	dst.DrawImage(w.img, &w.op)
}
