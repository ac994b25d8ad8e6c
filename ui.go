package moonlight

import (
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween/ease"
)

// Page layout, in logical pixels.
const (
	NavbarHeight      = 70
	ActiveLinkOffset  = 100 // a section is active once scrolled to within this of its top
	minSectionHeight  = 480
	dropdownRowHeight = 44
	debugGlyphWidth   = 6 // ebitenutil debug font advance
	debugGlyphHeight  = 16

	// Tween durations, seconds.
	scrollDuration = 0.8
	menuDuration   = 0.3
	modalDuration  = 0.25
	logoDuration   = 0.6
	noticeDuration = 4.0
	shadowDuration = 0.3

	// Floating butterflies: drift loop length and start delay, seconds, and
	// sway amplitude in logical pixels.
	FloaterCount       = 8
	floaterMinDuration = 20
	floaterMaxDuration = 35
	floaterMaxDelay    = 5
	floaterSwayX       = 100
	floaterRiseY       = 100
)

// DownloadNotice is shown when the download action is used. The CV file is
// not published yet.
const DownloadNotice = "CV download will be available soon.\nPlease get in touch for more information."

// Section is one full-width block of page content.
type Section struct {
	ID    string
	Title string
	Lines []string

	// Top and Height are assigned by Page.Layout.
	Top, Height float64
}

// NavLink is a navbar entry pointing at a section.
type NavLink struct {
	SectionID string
	Label     string
	// Bounds is the clickable area in logical screen pixels.
	Bounds Rect
}

// PageEventKind identifies a page state change.
type PageEventKind uint8

const (
	EventMenuOpened PageEventKind = iota
	EventMenuClosed
	EventNavigate
	EventActiveChanged
	EventShadowChanged
	EventModalOpened
	EventModalClosed
	EventDownloadRequested
)

var pageEventNames = [...]string{
	EventMenuOpened:        "menu_opened",
	EventMenuClosed:        "menu_closed",
	EventNavigate:          "navigate",
	EventActiveChanged:     "active_changed",
	EventShadowChanged:     "shadow_changed",
	EventModalOpened:       "modal_opened",
	EventModalClosed:       "modal_closed",
	EventDownloadRequested: "download_requested",
}

// String returns the snake_case event name.
func (k PageEventKind) String() string {
	if int(k) < len(pageEventNames) {
		return pageEventNames[k]
	}
	return "unknown"
}

// PageEvent describes one overlay state change.
type PageEvent struct {
	Kind    PageEventKind
	Section string  // target or newly active section, when relevant
	Offset  float64 // scroll offset at the time of the event
	On      bool    // new navbar shadow state for EventShadowChanged
}

// EventSink receives page events as they happen.
type EventSink interface {
	PublishPageEvent(PageEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(PageEvent)

// PublishPageEvent calls f.
func (f EventSinkFunc) PublishPageEvent(e PageEvent) { f(e) }

// Floater is a decorative butterfly glyph drifting over the page.
type Floater struct {
	Start    Vec2    // position as a fraction of the viewport
	Duration float64 // seconds per drift loop
	Delay    float64 // seconds left before the first loop
	Phase    float64 // progress through the current loop, 0..1

	tween *TweenGroup
}

// Position returns the floater's logical position in a viewport of size vp.
func (f *Floater) Position(vp Vec2) Vec2 {
	a := 2 * math.Pi * f.Phase
	return Vec2{
		X: f.Start.X*vp.X + floaterSwayX*math.Sin(a),
		Y: f.Start.Y*vp.Y - floaterRiseY*math.Sin(a/2),
	}
}

func (f *Floater) update(dt float64) {
	if f.Delay > 0 {
		f.Delay -= dt
		return
	}
	if !f.tween.Running() {
		f.tween = TweenBetween(&f.Phase, 0, 1, float32(f.Duration), ease.Linear)
	}
	f.tween.Update(float32(dt))
}

// Page is the scrollable overlay drawn above the backdrop: a navbar with
// anchor links, full-height sections, a "View CV" modal and a notice line.
type Page struct {
	Sections []Section
	Links    []NavLink

	// Offset is the current scroll position in logical pixels.
	Offset float64
	// Viewport is the logical window size.
	Viewport Vec2

	Active    string // id of the section the navbar highlights
	Shadow    bool   // navbar shadow, on whenever Offset > 0
	MenuOpen  bool
	ModalOpen bool
	Notice    string

	// Border is the navbar's bottom border; it fades brighter with Shadow.
	Border Color
	// Floaters drift over the whole page. Empty in reduced-effects mode.
	Floaters []*Floater

	// Animated values, driven by tweens.
	MenuSlide  float64 // 0 closed, 1 fully open
	ModalAlpha float64
	LogoScale  float64

	Sink EventSink

	scrollPos   float64
	scrollTween *TweenGroup
	menuTween   *TweenGroup
	modalTween  *TweenGroup
	logoTween   *TweenGroup
	borderTween *TweenGroup
	logoPhase   float64
	logoHover   bool
	noticeLeft  float64
	docHeight   float64
	narrow      bool
}

// DefaultSections returns the portfolio's sections.
func DefaultSections() []Section {
	return []Section{
		{ID: "home", Title: "Hello, I build things for the web", Lines: []string{
			"Developer and designer.",
			"Scroll down or use the navigation to explore.",
		}},
		{ID: "about", Title: "About", Lines: []string{
			"I enjoy turning ideas into small, polished products.",
			"Interactive graphics are my favourite playground.",
		}},
		{ID: "projects", Title: "Projects", Lines: []string{
			"Moonlight: an animated night sky backdrop.",
			"More case studies coming soon.",
		}},
		{ID: "skills", Title: "Skills", Lines: []string{
			"Go, TypeScript, WebGL, UI design.",
		}},
		{ID: "contact", Title: "Contact", Lines: []string{
			"Say hello: hello@example.com",
		}},
	}
}

// NewPage creates a page for sections. Call Layout before use.
func NewPage(sections []Section, sink EventSink) *Page {
	p := &Page{
		Sections:  sections,
		Sink:      sink,
		LogoScale: 1,
		Border:    borderRest,
	}
	for _, s := range sections {
		p.Links = append(p.Links, NavLink{SectionID: s.ID, Label: s.Title})
	}
	if len(p.Links) > 0 {
		p.Links[0].Label = "Home"
	}
	if len(sections) > 0 {
		p.Active = sections[0].ID
	}
	return p
}

func (p *Page) publish(e PageEvent) {
	if p.Sink == nil {
		return
	}
	e.Offset = p.Offset
	p.Sink.PublishPageEvent(e)
}

// Layout sizes every section to the viewport and places the navbar links.
// Narrow viewports collapse the links into a hamburger menu.
func (p *Page) Layout(w, h float64, narrowWidth float64) {
	p.Viewport = Vec2{w, h}
	p.narrow = w <= narrowWidth
	sh := math.Max(h, minSectionHeight)
	for i := range p.Sections {
		p.Sections[i].Top = float64(i) * sh
		p.Sections[i].Height = sh
	}
	p.docHeight = float64(len(p.Sections)) * sh

	if p.narrow {
		for i := range p.Links {
			p.Links[i].Bounds = Rect{X: 0, Y: NavbarHeight + float64(i)*dropdownRowHeight, Width: w, Height: dropdownRowHeight}
		}
	} else {
		x := w - 24
		for i := len(p.Links) - 1; i >= 0; i-- {
			lw := float64(len(p.Links[i].Label)*debugGlyphWidth + 24)
			x -= lw
			p.Links[i].Bounds = Rect{X: x, Y: 20, Width: lw, Height: 30}
		}
		if p.MenuOpen {
			p.setMenu(false)
		}
	}
	p.setOffset(p.Offset)
}

// DocHeight returns the total content height.
func (p *Page) DocHeight() float64 {
	return p.docHeight
}

// MaxScroll returns the largest valid Offset.
func (p *Page) MaxScroll() float64 {
	return math.Max(0, p.docHeight-p.Viewport.Y)
}

// Narrow reports whether the navbar is collapsed into the hamburger menu.
func (p *Page) Narrow() bool {
	return p.narrow
}

// Scrolling reports whether a smooth scroll is in progress.
func (p *Page) Scrolling() bool {
	return p.scrollTween.Running()
}

// ScrollBy moves the page by dy pixels immediately, cancelling any smooth
// scroll.
func (p *Page) ScrollBy(dy float64) {
	p.scrollTween = nil
	p.setOffset(p.Offset + dy)
}

// ScrollTo smoothly scrolls to y.
func (p *Page) ScrollTo(y float64) {
	y = math.Max(0, math.Min(y, p.MaxScroll()))
	p.scrollPos = p.Offset
	p.scrollTween = TweenValue(&p.scrollPos, y, scrollDuration, ease.OutCubic)
}

// Navigate smoothly scrolls to the section with the given id, marks its link
// active and closes the menu. Unknown ids are ignored.
func (p *Page) Navigate(id string) bool {
	for _, s := range p.Sections {
		if s.ID != id {
			continue
		}
		p.ScrollTo(s.Top)
		p.setActive(id)
		p.setMenu(false)
		p.publish(PageEvent{Kind: EventNavigate, Section: id})
		return true
	}
	return false
}

func (p *Page) setOffset(v float64) {
	v = math.Max(0, math.Min(v, p.MaxScroll()))
	p.Offset = v

	current := ""
	for _, s := range p.Sections {
		if p.Offset >= s.Top-ActiveLinkOffset {
			current = s.ID
		}
	}
	p.setActive(current)

	if shadow := p.Offset > 0; shadow != p.Shadow {
		p.Shadow = shadow
		to := borderRest
		if shadow {
			to = borderShadow
		}
		p.borderTween = TweenColor(&p.Border, to, shadowDuration, ease.OutQuad)
		p.publish(PageEvent{Kind: EventShadowChanged, On: shadow})
	}
}

func (p *Page) setActive(id string) {
	if id == p.Active {
		return
	}
	p.Active = id
	p.publish(PageEvent{Kind: EventActiveChanged, Section: id})
}

// AddFloaters scatters n drifting butterfly glyphs over the viewport, each
// with its own loop length and start delay.
func (p *Page) AddFloaters(n int, rng *rand.Rand) {
	for i := 0; i < n; i++ {
		p.Floaters = append(p.Floaters, &Floater{
			Start:    Vec2{rng.Float64(), rng.Float64()},
			Duration: floaterMinDuration + rng.Float64()*(floaterMaxDuration-floaterMinDuration),
			Delay:    rng.Float64() * floaterMaxDelay,
		})
	}
}

// ToggleMenu opens or closes the hamburger menu.
func (p *Page) ToggleMenu() {
	p.setMenu(!p.MenuOpen)
}

func (p *Page) setMenu(open bool) {
	if open == p.MenuOpen {
		return
	}
	p.MenuOpen = open
	target, kind := 0.0, EventMenuClosed
	if open {
		target, kind = 1, EventMenuOpened
	}
	p.menuTween = TweenValue(&p.MenuSlide, target, menuDuration, ease.OutCubic)
	p.publish(PageEvent{Kind: kind})
}

// OpenModal shows the CV modal.
func (p *Page) OpenModal() {
	if p.ModalOpen {
		return
	}
	p.ModalOpen = true
	p.modalTween = TweenValue(&p.ModalAlpha, 1, modalDuration, ease.OutQuad)
	p.publish(PageEvent{Kind: EventModalOpened})
}

// CloseModal hides the CV modal.
func (p *Page) CloseModal() {
	if !p.ModalOpen {
		return
	}
	p.ModalOpen = false
	p.modalTween = TweenValue(&p.ModalAlpha, 0, modalDuration, ease.OutQuad)
	p.publish(PageEvent{Kind: EventModalClosed})
}

// Download shows the placeholder notice.
func (p *Page) Download() {
	p.Notice = DownloadNotice
	p.noticeLeft = noticeDuration
	p.publish(PageEvent{Kind: EventDownloadRequested})
}

// --- Hit areas, logical screen pixels ---

// HamburgerBounds returns the menu toggle area. It is empty on wide layouts.
func (p *Page) HamburgerBounds() Rect {
	if !p.narrow {
		return Rect{}
	}
	return Rect{X: p.Viewport.X - 56, Y: 17, Width: 36, Height: 36}
}

// LogoBounds returns the hover area of the logo dot.
func (p *Page) LogoBounds() Rect {
	return Rect{X: 12, Y: 27, Width: 16, Height: 16}
}

// ViewCVBounds returns the "View CV" button in the first section.
func (p *Page) ViewCVBounds() Rect {
	if len(p.Sections) == 0 {
		return Rect{}
	}
	s := p.Sections[0]
	return Rect{X: 40, Y: s.Top + s.Height*0.6 - p.Offset, Width: 140, Height: 40}
}

// ModalPanelBounds returns the modal dialog area.
func (p *Page) ModalPanelBounds() Rect {
	w := math.Min(600, p.Viewport.X-40)
	h := math.Min(420, p.Viewport.Y-80)
	return Rect{X: (p.Viewport.X - w) / 2, Y: (p.Viewport.Y - h) / 2, Width: w, Height: h}
}

// ModalCloseBounds returns the close button in the modal's top-right corner.
func (p *Page) ModalCloseBounds() Rect {
	panel := p.ModalPanelBounds()
	return Rect{X: panel.X + panel.Width - 44, Y: panel.Y + 12, Width: 32, Height: 32}
}

// DownloadBounds returns the download button at the bottom of the modal.
func (p *Page) DownloadBounds() Rect {
	panel := p.ModalPanelBounds()
	return Rect{X: panel.X + (panel.Width-180)/2, Y: panel.Y + panel.Height - 64, Width: 180, Height: 40}
}

func (p *Page) linksVisible() bool {
	return !p.narrow || p.MenuOpen
}

// inNavbar reports whether (x, y) hits the navbar, including the open
// dropdown.
func (p *Page) inNavbar(x, y float64) bool {
	if y >= 0 && y < NavbarHeight {
		return true
	}
	if p.narrow && p.MenuOpen {
		h := float64(len(p.Links)) * dropdownRowHeight
		return Rect{Y: NavbarHeight, Width: p.Viewport.X, Height: h}.Contains(x, y)
	}
	return false
}

// Click handles a primary click at logical screen coordinates and reports
// whether the page consumed it.
func (p *Page) Click(x, y float64) bool {
	if p.ModalOpen {
		switch {
		case p.ModalCloseBounds().Contains(x, y):
			p.CloseModal()
		case p.DownloadBounds().Contains(x, y):
			p.Download()
		case p.ModalPanelBounds().Contains(x, y):
			// inside the dialog
		default:
			p.CloseModal()
		}
		return true
	}

	if p.inNavbar(x, y) {
		if p.narrow && p.HamburgerBounds().Contains(x, y) {
			p.ToggleMenu()
			return true
		}
		if p.linksVisible() {
			for _, l := range p.Links {
				if l.Bounds.Contains(x, y) {
					p.Navigate(l.SectionID)
					return true
				}
			}
		}
		return true
	}

	p.setMenu(false)
	if p.ViewCVBounds().Contains(x, y) {
		p.OpenModal()
		return true
	}
	return false
}

// Hover tracks the pointer for hover effects. Entering the logo dot restarts
// its pulse.
func (p *Page) Hover(x, y float64) {
	over := p.LogoBounds().Contains(x, y)
	if over && !p.logoHover {
		p.logoTween = TweenBetween(&p.logoPhase, 0, 1, logoDuration, ease.InOutSine)
	}
	p.logoHover = over
}

// Escape closes the modal, or the menu when no modal is open.
func (p *Page) Escape() {
	if p.ModalOpen {
		p.CloseModal()
		return
	}
	p.setMenu(false)
}

// Update advances every page tween by dt seconds.
func (p *Page) Update(dt float64) {
	if p.scrollTween.Running() {
		p.scrollTween.Update(float32(dt))
		p.setOffset(p.scrollPos)
	}
	p.menuTween.Update(float32(dt))
	p.modalTween.Update(float32(dt))
	p.borderTween.Update(float32(dt))
	for _, f := range p.Floaters {
		f.update(dt)
	}
	if p.logoTween.Running() {
		p.logoTween.Update(float32(dt))
		p.LogoScale = 1 + 0.4*math.Sin(math.Pi*p.logoPhase)
	}
	if p.noticeLeft > 0 {
		p.noticeLeft -= dt
		if p.noticeLeft <= 0 {
			p.Notice = ""
		}
	}
}

// --- Drawing ---

var (
	navbarFill    = Color{0.04, 0.04, 0.1, 0.85}
	accent        = ColorHex(0x8a2be2)
	accentLight   = ColorHex(0xb88bff)
	panelFill     = Color{0.08, 0.05, 0.16, 0.96}
	modalBackdrop = Color{0, 0, 0, 0.6}
	borderRest    = accent.WithAlpha(0.2)
	borderShadow  = accent.WithAlpha(0.5)
)

// fillRect draws r scaled from logical to target pixels.
func fillRect(dst *ebiten.Image, r Rect, scale float64, c Color) {
	vector.DrawFilledRect(dst,
		float32(r.X*scale), float32(r.Y*scale),
		float32(r.Width*scale), float32(r.Height*scale),
		c.NRGBA(), false)
}

func printAt(dst *ebiten.Image, s string, x, y, scale float64) {
	ebitenutil.DebugPrintAt(dst, s, int(x*scale), int(y*scale))
}

// drawFloater paints a small glowing butterfly glyph centered on pos.
func drawFloater(dst *ebiten.Image, pos Vec2, phase, scale float64) {
	x, y, s := float32(pos.X*scale), float32(pos.Y*scale), float32(scale)
	vector.DrawFilledCircle(dst, x, y, 15*s, accentLight.WithAlpha(0.15).NRGBA(), true)
	span := float32(0.6+0.4*math.Abs(math.Sin(2*math.Pi*phase*40))) * 7 * s
	wing := accentLight.WithAlpha(0.8).NRGBA()
	vector.DrawFilledCircle(dst, x-span*0.8, y-2*s, span, wing, true)
	vector.DrawFilledCircle(dst, x+span*0.8, y-2*s, span, wing, true)
	vector.DrawFilledCircle(dst, x-span*0.5, y+4*s, span*0.6, wing, true)
	vector.DrawFilledCircle(dst, x+span*0.5, y+4*s, span*0.6, wing, true)
	vector.DrawFilledRect(dst, x-s, y-6*s, 2*s, 12*s, accent.NRGBA(), true)
}

// Draw renders the overlay into dst. scale converts logical pixels to dst
// pixels.
func (p *Page) Draw(dst *ebiten.Image, scale float64) {
	for _, f := range p.Floaters {
		drawFloater(dst, f.Position(p.Viewport), f.Phase, scale)
	}

	// Sections.
	for _, s := range p.Sections {
		top := s.Top - p.Offset
		if top+s.Height < 0 || top > p.Viewport.Y {
			continue
		}
		y := top + s.Height*0.35
		printAt(dst, s.Title, 40, y, scale)
		for i, line := range s.Lines {
			printAt(dst, line, 40, y+float64(i+2)*debugGlyphHeight, scale)
		}
	}
	if b := p.ViewCVBounds(); b.Y+b.Height > NavbarHeight && b.Y < p.Viewport.Y {
		fillRect(dst, b, scale, accent.WithAlpha(0.8))
		printAt(dst, "View CV", b.X+46, b.Y+12, scale)
	}

	// Navbar.
	fillRect(dst, Rect{Width: p.Viewport.X, Height: NavbarHeight}, scale, navbarFill)
	if p.Shadow {
		for i := 0; i < 10; i++ {
			fillRect(dst, Rect{Y: NavbarHeight + float64(i), Width: p.Viewport.X, Height: 1}, scale, accent.WithAlpha(0.2*(1-float64(i)/10)))
		}
	}
	fillRect(dst, Rect{Y: NavbarHeight - 1, Width: p.Viewport.X, Height: 1}, scale, p.Border)

	logo := p.LogoBounds()
	r := 5 * p.LogoScale
	vector.DrawFilledCircle(dst, float32((logo.X+logo.Width/2)*scale), float32((logo.Y+logo.Height/2)*scale), float32(r*scale), accentLight.NRGBA(), true)
	printAt(dst, "Portfolio", logo.X+logo.Width+8, logo.Y, scale)

	if p.narrow {
		hb := p.HamburgerBounds()
		for i := 0; i < 3; i++ {
			fillRect(dst, Rect{X: hb.X + 6, Y: hb.Y + 9 + float64(i)*8, Width: hb.Width - 12, Height: 2}, scale, ColorWhite)
		}
		if p.MenuSlide > 0 {
			h := float64(len(p.Links)) * dropdownRowHeight * p.MenuSlide
			fillRect(dst, Rect{Y: NavbarHeight, Width: p.Viewport.X, Height: h}, scale, navbarFill)
		}
	}
	if p.linksVisible() && (!p.narrow || p.MenuSlide > 0.99) {
		for _, l := range p.Links {
			b := l.Bounds
			if l.SectionID == p.Active {
				fillRect(dst, Rect{X: b.X + 8, Y: b.Y + b.Height - 4, Width: b.Width - 16, Height: 2}, scale, accentLight)
			}
			printAt(dst, l.Label, b.X+12, b.Y+(b.Height-debugGlyphHeight)/2, scale)
		}
	}

	// Modal.
	if p.ModalAlpha > 0 {
		a := p.ModalAlpha
		fillRect(dst, Rect{Width: p.Viewport.X, Height: p.Viewport.Y}, scale, modalBackdrop.WithAlpha(modalBackdrop.A*a))
		panel := p.ModalPanelBounds()
		fillRect(dst, panel, scale, panelFill.WithAlpha(panelFill.A*a))
		if a > 0.5 {
			printAt(dst, "Curriculum Vitae", panel.X+24, panel.Y+24, scale)
			cb := p.ModalCloseBounds()
			fillRect(dst, cb, scale, accent.WithAlpha(0.6*a))
			printAt(dst, "x", cb.X+13, cb.Y+8, scale)
			db := p.DownloadBounds()
			fillRect(dst, db, scale, accent.WithAlpha(0.8*a))
			printAt(dst, "Download CV", db.X+57, db.Y+12, scale)
		}
	}

	if p.Notice != "" {
		printAt(dst, p.Notice, 24, p.Viewport.Y-48, scale)
	}
}
