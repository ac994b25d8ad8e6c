package moonlight

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// wheelStep is the scroll distance of one wheel notch, in logical pixels.
const wheelStep = 60

// Resize applies a new viewport size, in logical pixels, to the camera,
// render surface and bloom pipeline. Repeating the same size changes nothing.
func (s *AnimationState) Resize(w, h int) {
	s.Scene.Resize(w, h)
}

// PointerMove records the pointer at logical pixel (x, y), normalized so the
// viewport spans [-1, 1] on both axes with +Y up.
func (s *AnimationState) PointerMove(x, y float64) {
	w := math.Max(1, float64(s.Scene.Surface.Width))
	h := math.Max(1, float64(s.Scene.Surface.Height))
	s.Pointer = Vec2{
		X: x/w*2 - 1,
		Y: -(y/h)*2 + 1,
	}
}

// Scroll applies a document scroll position. Progress is offset divided by
// the scrollable range (docHeight minus the viewport height), clamped to
// [0, 1]; a document that does not scroll gives zero. Progress pulls the
// camera back, tilts it, boosts bloom when the pipeline exists and re-phases
// the shape glow.
func (s *AnimationState) Scroll(offset, docHeight float64) {
	p := 0.0
	if span := docHeight - float64(s.Scene.Surface.Height); span > 0 {
		p = clamp01(offset / span)
	}
	s.ScrollProgress = p

	cam := s.Scene.Camera
	cam.SetPosition(r3.Vector{X: cam.Position.X, Y: cam.Position.Y, Z: s.Scene.baseZ + s.cfg.Camera.ScrollZoom*p})
	cam.SetTilt(s.cfg.Camera.ScrollTilt * p)

	t := s.Clock.T
	if pl := s.Scene.Pipeline; pl != nil {
		pl.ApplyScroll(t, p)
	}
	for i, sh := range s.Shapes {
		sh.EmissiveIntensity = 0.3 + 0.2*math.Sin(t*0.5+p*5+float64(i))
	}
}

// pollInput feeds one frame of input to the page and the animation state.
// Injected events take precedence over real devices.
func (b *Backdrop) pollInput() {
	if b.processInjectedInput() {
		return
	}

	mx, my := ebiten.CursorPosition()
	x, y := b.toLogical(float64(mx), float64(my))
	if x != b.cursor.X || y != b.cursor.Y {
		b.cursor = Vec2{x, y}
		b.State.PointerMove(x, y)
		b.Page.Hover(x, y)
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		b.Page.ScrollBy(-dy * wheelStep)
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		b.Page.ScrollBy(b.Page.Viewport.Y * 0.9)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		b.Page.ScrollBy(-b.Page.Viewport.Y * 0.9)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		b.Page.ScrollTo(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		b.Page.ScrollTo(b.Page.MaxScroll())
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		b.Page.Escape()
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		b.Page.Click(x, y)
	}
	for _, id := range inpututil.AppendJustReleasedTouchIDs(b.touchIDs[:0]) {
		tx, ty := inpututil.TouchPositionInPreviousTick(id)
		lx, ly := b.toLogical(float64(tx), float64(ty))
		b.Page.Click(lx, ly)
	}
}

// toLogical converts screen pixels to logical page pixels.
func (b *Backdrop) toLogical(x, y float64) (float64, float64) {
	r := b.State.Scene.Surface.PixelRatio
	if r <= 0 {
		r = 1
	}
	return x / r, y / r
}
