package moonlight

import (
	"math"
	"testing"
)

func TestInjectClickQueuesTwoEvents(t *testing.T) {
	b := newTestBackdrop(t, 1280, 720)
	b.InjectClick(50, 50)
	if len(b.injectQueue) != 2 {
		t.Fatalf("expected 2 queued events, got %d", len(b.injectQueue))
	}
	if b.injectQueue[0].kind != syntheticPointer || b.injectQueue[1].kind != syntheticClick {
		t.Errorf("kinds = %v, %v", b.injectQueue[0].kind, b.injectQueue[1].kind)
	}
}

func TestInjectClickOpensModal(t *testing.T) {
	b := newTestBackdrop(t, 1280, 720)
	x, y := center(b.Page.ViewCVBounds())
	b.InjectClick(x, y)

	// Frame 1: pointer move.
	b.processInjectedInput()
	if b.Page.ModalOpen {
		t.Error("modal should not open on the move frame")
	}
	if b.cursor != (Vec2{x, y}) {
		t.Errorf("cursor = %+v", b.cursor)
	}

	// Frame 2: click.
	b.processInjectedInput()
	if !b.Page.ModalOpen {
		t.Error("click should open the modal")
	}
	if b.processInjectedInput() {
		t.Error("empty queue should report no event")
	}
}

func TestInjectPointerNormalizes(t *testing.T) {
	b := newTestBackdrop(t, 1000, 500)
	b.InjectPointer(750, 125)
	b.processInjectedInput()
	p := b.State.Pointer
	if math.Abs(p.X-0.5) > epsilon || math.Abs(p.Y-0.5) > epsilon {
		t.Errorf("pointer = %+v, want (0.5, 0.5)", p)
	}
}

func TestInjectResize(t *testing.T) {
	b := newTestBackdrop(t, 1280, 720)
	b.InjectScroll(2000)
	b.processInjectedInput()
	b.InjectResize(500, 900)
	b.processInjectedInput()

	if s := b.State.Scene.Surface; s.Width != 500 || s.Height != 900 {
		t.Errorf("surface = %dx%d, want 500x900", s.Width, s.Height)
	}
	if !b.Page.Narrow() {
		t.Error("500 wide should be narrow")
	}
	want := b.Page.Offset / (b.Page.DocHeight() - 900)
	if math.Abs(b.State.ScrollProgress-want) > epsilon {
		t.Errorf("progress = %v, want %v after resize", b.State.ScrollProgress, want)
	}
}

func TestInjectNavigate(t *testing.T) {
	b := newTestBackdrop(t, 1280, 720)
	b.InjectNavigate("skills")
	b.processInjectedInput()
	if b.Page.Active != "skills" || !b.Page.Scrolling() {
		t.Errorf("active = %q scrolling = %v", b.Page.Active, b.Page.Scrolling())
	}
}
