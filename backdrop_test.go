package moonlight

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func newTestBackdrop(t *testing.T, w, h float64) *Backdrop {
	t.Helper()
	b, err := NewBackdrop(testConfig(), StaticProbe{ViewportWidth: w, ViewportHeight: h, DevicePixelRatio: 1}, 1)
	if err != nil {
		t.Fatalf("NewBackdrop: %v", err)
	}
	return b
}

func TestNewBackdropDesktop(t *testing.T) {
	b := newTestBackdrop(t, 1920, 1080)
	if b.Reduced {
		t.Error("desktop should run full effects")
	}
	if b.State.Scene.Pipeline == nil {
		t.Error("expected bloom pipeline")
	}
	if b.Page.Viewport != (Vec2{1920, 1080}) {
		t.Errorf("page viewport = %+v", b.Page.Viewport)
	}
	if b.State.Counts != (Counts{Stars: 300, Shapes: 5, Butterflies: 12, Particles: 200}) {
		t.Errorf("counts = %+v", b.State.Counts)
	}
	if len(b.Page.Floaters) != FloaterCount {
		t.Errorf("floaters = %d, want %d", len(b.Page.Floaters), FloaterCount)
	}
	if _, ok := b.Reporter.(*OverlayReporter); !ok {
		t.Errorf("default reporter = %T, want *OverlayReporter", b.Reporter)
	}
}

func TestNewBackdropReducedSkipsFloaters(t *testing.T) {
	b := newTestBackdrop(t, 600, 900)
	if !b.Reduced {
		t.Fatal("600 wide should be reduced")
	}
	if len(b.Page.Floaters) != 0 {
		t.Errorf("floaters = %d, want none in reduced mode", len(b.Page.Floaters))
	}

	mobile := StaticProbe{ViewportWidth: 1920, ViewportHeight: 1080, DevicePixelRatio: 1, UserAgent: "Mozilla/5.0 (Linux; Android 14)"}
	b, err := NewBackdrop(testConfig(), mobile, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !b.Reduced || len(b.Page.Floaters) != 0 {
		t.Errorf("mobile agent: reduced = %v floaters = %d", b.Reduced, len(b.Page.Floaters))
	}
}

func TestNewBackdropInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Camera.FOV = -1
	if _, err := NewBackdrop(cfg, nil, 0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestNewBackdropFailingProbe(t *testing.T) {
	probe := ProbeFunc(func() (Capabilities, error) { panic("no DOM") })
	b, err := NewBackdrop(testConfig(), probe, 0)
	if err != nil {
		t.Fatalf("NewBackdrop: %v", err)
	}
	if b.Reduced {
		t.Error("a failing probe should fall back to full effects")
	}
	if s := b.State.Scene.Surface; s.Width != defaultWidth || s.Height != defaultHeight {
		t.Errorf("surface = %dx%d, want default %dx%d", s.Width, s.Height, defaultWidth, defaultHeight)
	}
}

func TestBackdropLayout(t *testing.T) {
	b, err := NewBackdrop(testConfig(), StaticProbe{ViewportWidth: 1280, ViewportHeight: 720, DevicePixelRatio: 2}, 1)
	if err != nil {
		t.Fatal(err)
	}
	w, h := b.Layout(1024, 768)
	if w != 2048 || h != 1536 {
		t.Errorf("Layout = %dx%d, want device size 2048x1536", w, h)
	}
	if b.Page.Viewport != (Vec2{1024, 768}) {
		t.Errorf("page viewport = %+v", b.Page.Viewport)
	}
	// A resize that narrows the page switches the navbar layout.
	b.Layout(600, 768)
	if !b.Page.Narrow() {
		t.Error("600 wide should collapse the navbar")
	}
}

func TestBackdropUpdateTicks(t *testing.T) {
	b := newTestBackdrop(t, 1280, 720)
	b.InjectScroll(1000)
	if err := b.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if b.State.Clock.Ticks != 1 {
		t.Errorf("ticks = %d, want 1", b.State.Clock.Ticks)
	}
	if b.Page.Offset != 1000 {
		t.Errorf("offset = %v, want 1000", b.Page.Offset)
	}
	want := 1000 / (b.Page.DocHeight() - 720)
	if b.State.ScrollProgress != want {
		t.Errorf("progress = %v, want %v", b.State.ScrollProgress, want)
	}
}

func TestBackdropNavigateDrivesCamera(t *testing.T) {
	b := newTestBackdrop(t, 1280, 720)
	b.InjectNavigate("contact")
	for i := 0; i < 90; i++ {
		if err := b.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if b.Page.Offset != b.Page.MaxScroll() {
		t.Errorf("offset = %v, want %v", b.Page.Offset, b.Page.MaxScroll())
	}
	if b.State.ScrollProgress != 1 {
		t.Errorf("progress = %v, want 1", b.State.ScrollProgress)
	}
	cfg := b.State.Config()
	if z := b.State.Scene.Camera.Position.Z; z != cfg.Camera.Z+cfg.Camera.ScrollZoom {
		t.Errorf("camera z = %v", z)
	}
}

func TestBackdropPanicHalts(t *testing.T) {
	b := newTestBackdrop(t, 1280, 720)
	rep := &OverlayReporter{}
	b.Reporter = rep
	b.State.Moon = nil
	b.InjectScroll(0)

	if err := b.Update(); err != nil {
		t.Fatalf("Update returned %v, want nil after recovery", err)
	}
	if !b.Halted() || !rep.Reported() {
		t.Fatal("panic should halt the backdrop and reach the reporter")
	}
	if rep.Stack == "" {
		t.Error("report should carry a stack")
	}
	ticks := b.State.Clock.Ticks
	b.Update()
	if b.State.Clock.Ticks != ticks {
		t.Error("halted backdrop kept ticking")
	}
	b.Draw(ebiten.NewImage(64, 64))
}

func TestBackdropDrawSmoke(t *testing.T) {
	b := newTestBackdrop(t, 320, 240)
	b.SetDebugMode(true)
	b.showFPS = true
	b.InjectScroll(10)
	if err := b.Update(); err != nil {
		t.Fatal(err)
	}
	screen := ebiten.NewImage(b.Layout(320, 240))
	b.Draw(screen)
	if b.Halted() {
		t.Fatalf("draw halted: %s", b.Reporter.(*OverlayReporter).Message)
	}
	if b.stats.commandCount == 0 {
		t.Error("debug stats not recorded")
	}
}

func TestBackdropDrawWithBloom(t *testing.T) {
	b := newTestBackdrop(t, 1024, 768)
	if b.State.Scene.Pipeline == nil {
		t.Fatal("expected bloom pipeline")
	}
	screen := ebiten.NewImage(b.Layout(1024, 768))
	b.Draw(screen)
	if b.Halted() {
		t.Fatalf("draw halted: %s", b.Reporter.(*OverlayReporter).Message)
	}
}

func TestBackdropEventSink(t *testing.T) {
	b := newTestBackdrop(t, 1280, 720)
	log := &eventLog{}
	b.SetEventSink(log)
	b.InjectNavigate("about")
	b.Update()
	if !log.has(EventNavigate) {
		t.Errorf("events = %v", log.kinds())
	}
}
