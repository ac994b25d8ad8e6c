package moonlight

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Fallback window size when the probe reports no viewport.
const (
	defaultWidth  = 1280
	defaultHeight = 720
)

// RunConfig configures the window and tooling created by Run.
type RunConfig struct {
	// Title is the window title. Ignored in the browser.
	Title string
	// Width and Height are the initial window size in logical pixels.
	Width, Height int
	// ShowFPS draws an FPS/TPS readout in the bottom-right corner.
	ShowFPS bool
	// Debug enables per-frame timing logs on stderr.
	Debug bool
	// Seed drives every random draw. Zero picks a fixed default.
	Seed uint64
	// ScreenshotDir is where Screenshot writes PNGs. Defaults to "screenshots".
	ScreenshotDir string
	// TestScript is the path to a JSON test script. Empty disables the runner.
	TestScript string
	// ExitWhenDone ends the game loop once the test script has finished.
	ExitWhenDone bool
	// Probe overrides the platform capability probe.
	Probe Probe
	// Sink receives page events.
	Sink EventSink
}

// Backdrop is the composition root: it owns the scene, the animation state,
// the page overlay and the tooling, and implements ebiten.Game.
type Backdrop struct {
	State    *AnimationState
	Page     *Page
	Reporter ErrorReporter

	Capabilities Capabilities
	Reduced      bool

	cfg         Config
	rdr         renderer
	injectQueue []syntheticEvent
	touchIDs    []ebiten.TouchID
	cursor      Vec2

	lastOffset float64
	lastDoc    float64
	outsideW   int
	outsideH   int

	frame           uint64
	debug           bool
	showFPS         bool
	fps             fpsWidget
	stats           debugStats
	screenshotQueue []string
	screenshotDir   string
	testRunner      *TestRunner
	exitWhenDone    bool
	halted          bool
}

// NewBackdrop probes the host, builds the scene for the reported viewport and
// populates every object category. The same seed reproduces the same scene.
func NewBackdrop(cfg Config, probe Probe, seed uint64) (*Backdrop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	caps, reduced := DetectCapabilities(probe, cfg.Density.NarrowWidth)
	if caps.ViewportWidth <= 0 || caps.ViewportHeight <= 0 {
		caps.ViewportWidth, caps.ViewportHeight = defaultWidth, defaultHeight
	}

	scene := NewSceneContext(cfg, caps, reduced)
	counts := cfg.Density.CountsFor(caps.ViewportWidth, reduced)
	b := &Backdrop{
		State:        NewAnimationState(cfg, scene, counts, newRand(seed)),
		Page:         NewPage(DefaultSections(), nil),
		Reporter:     &OverlayReporter{},
		Capabilities: caps,
		Reduced:      reduced,
		cfg:          cfg,
	}
	if !reduced {
		b.Page.AddFloaters(FloaterCount, newRand(seed+1))
	}
	b.resize(scene.Surface.Width, scene.Surface.Height)
	return b, nil
}

// SetDebugMode enables or disables stderr diagnostics.
func (b *Backdrop) SetDebugMode(enabled bool) {
	b.debug = enabled
	b.debugLogStartup()
}

// SetEventSink routes page events to sink.
func (b *Backdrop) SetEventSink(sink EventSink) {
	b.Page.Sink = sink
}

// Halted reports whether a fatal error stopped the animation.
func (b *Backdrop) Halted() bool {
	return b.halted
}

// resize applies a logical viewport size to the scene and page, then
// re-derives scroll progress for the new document height.
func (b *Backdrop) resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	b.State.Resize(w, h)
	b.Page.Layout(float64(w), float64(h), b.cfg.Density.NarrowWidth)
	b.syncScroll(true)
}

// syncScroll forwards the page scroll position to the animation state when it
// changed.
func (b *Backdrop) syncScroll(force bool) {
	off, doc := b.Page.Offset, b.Page.DocHeight()
	if !force && off == b.lastOffset && doc == b.lastDoc {
		return
	}
	b.lastOffset, b.lastDoc = off, doc
	b.State.Scroll(off, doc)
}

// Update implements ebiten.Game. Panics are reported and halt the backdrop
// instead of crashing the process.
func (b *Backdrop) Update() error {
	if b.halted {
		return nil
	}
	err := guard(b.update)
	var pe *PanicError
	if errors.As(err, &pe) {
		b.fail(pe)
		return nil
	}
	return err
}

func (b *Backdrop) update() error {
	b.frame++
	if b.testRunner != nil {
		b.testRunner.step(b)
	}
	b.pollInput()

	dt := 1 / float64(ebiten.TPS())
	b.Page.Update(dt)
	b.syncScroll(false)

	var start time.Time
	if b.debug {
		start = time.Now()
	}
	b.State.Tick()
	if b.debug {
		b.stats.advanceTime = time.Since(start)
	}

	if b.showFPS {
		b.fps.update(dt)
	}
	if b.exitWhenDone && b.testRunner != nil && b.testRunner.Done() && len(b.screenshotQueue) == 0 {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (b *Backdrop) Draw(screen *ebiten.Image) {
	if !b.halted {
		err := guard(func() error {
			b.draw(screen)
			return nil
		})
		var pe *PanicError
		if errors.As(err, &pe) {
			b.fail(pe)
		}
	}
	if b.halted {
		screen.Fill(b.State.Scene.Background.NRGBA())
		if d, ok := b.Reporter.(interface{ Draw(*ebiten.Image) }); ok {
			d.Draw(screen)
		}
	}
}

func (b *Backdrop) draw(screen *ebiten.Image) {
	scene := b.State.Scene
	target := screen
	if scene.Pipeline != nil {
		target = scene.Pipeline.Target()
	}
	target.Fill(scene.Background.NRGBA())

	var t0 time.Time
	if b.debug {
		t0 = time.Now()
	}
	b.rdr.build(b.State)
	if b.debug {
		t1 := time.Now()
		b.stats.buildTime = t1.Sub(t0)
		t0 = t1
	}
	b.rdr.mergeSort()
	if b.debug {
		t1 := time.Now()
		b.stats.sortTime = t1.Sub(t0)
		t0 = t1
	}
	b.rdr.submit(target)
	if scene.Pipeline != nil {
		screen.Clear()
		scene.Pipeline.Compose(screen)
	}
	if b.debug {
		b.stats.submitTime = time.Since(t0)
		b.stats.commandCount = len(b.rdr.commands)
		b.stats.drawCallCount = countDrawCalls(&b.rdr)
	}

	b.Page.Draw(screen, scene.Surface.PixelRatio)
	if b.showFPS {
		b.fps.draw(screen)
	}
	b.flushScreenshots(screen)
	b.debugLog(b.stats)
}

// Layout implements ebiten.Game. The screen is sized in device pixels so the
// scene renders at the display's native density.
func (b *Backdrop) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != b.outsideW || outsideHeight != b.outsideH {
		b.outsideW, b.outsideH = outsideWidth, outsideHeight
		b.resize(outsideWidth, outsideHeight)
	}
	return b.State.Scene.Surface.DeviceSize()
}

// fail hands a recovered panic to the reporter and halts the animation.
func (b *Backdrop) fail(pe *PanicError) {
	b.halted = true
	msg := fmt.Sprint(pe.Value)
	if b.Reporter != nil {
		b.Reporter.Report(msg, pe.Stack)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[moonlight] fatal: %s\n%s\n", msg, pe.Stack)
}

// Run opens a window (or canvas in the browser) and runs the backdrop until
// the window closes or the test script ends with ExitWhenDone set.
func Run(cfg Config, rc RunConfig) error {
	if rc.Width <= 0 {
		rc.Width = defaultWidth
	}
	if rc.Height <= 0 {
		rc.Height = defaultHeight
	}
	probe := rc.Probe
	if probe == nil {
		probe = DefaultProbe(rc.Width, rc.Height)
	}

	b, err := NewBackdrop(cfg, probe, rc.Seed)
	if err != nil {
		return err
	}
	b.showFPS = rc.ShowFPS
	b.screenshotDir = rc.ScreenshotDir
	b.exitWhenDone = rc.ExitWhenDone
	b.SetEventSink(rc.Sink)
	b.SetDebugMode(rc.Debug)

	if rc.TestScript != "" {
		data, err := os.ReadFile(rc.TestScript)
		if err != nil {
			return fmt.Errorf("moonlight: read test script: %w", err)
		}
		runner, err := LoadTestScript(data)
		if err != nil {
			return err
		}
		b.SetTestRunner(runner)
	}

	if rc.Title != "" {
		ebiten.SetWindowTitle(rc.Title)
	}
	ebiten.SetWindowSize(rc.Width, rc.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(b); err != nil {
		return fmt.Errorf("moonlight: run: %w", err)
	}
	return nil
}
