package moonlight

// syntheticKind identifies an injected input event.
type syntheticKind uint8

const (
	syntheticPointer syntheticKind = iota
	syntheticClick
	syntheticScroll
	syntheticResize
	syntheticNavigate
)

// syntheticEvent represents a single injected input event. Coordinates are
// logical page pixels, matching what a screenshot at pixel ratio 1 shows.
type syntheticEvent struct {
	kind    syntheticKind
	x, y    float64
	w, h    int
	section string
}

// InjectPointer queues a pointer move to (x, y). The event is consumed on the
// next frame's pollInput call.
func (b *Backdrop) InjectPointer(x, y float64) {
	b.injectQueue = append(b.injectQueue, syntheticEvent{kind: syntheticPointer, x: x, y: y})
}

// InjectClick queues a pointer move to (x, y) followed by a click there.
// Consumes two frames.
func (b *Backdrop) InjectClick(x, y float64) {
	b.InjectPointer(x, y)
	b.injectQueue = append(b.injectQueue, syntheticEvent{kind: syntheticClick, x: x, y: y})
}

// InjectScroll queues a scroll by dy pixels, positive downward.
func (b *Backdrop) InjectScroll(dy float64) {
	b.injectQueue = append(b.injectQueue, syntheticEvent{kind: syntheticScroll, y: dy})
}

// InjectResize queues a viewport resize to w×h logical pixels.
func (b *Backdrop) InjectResize(w, h int) {
	b.injectQueue = append(b.injectQueue, syntheticEvent{kind: syntheticResize, w: w, h: h})
}

// InjectNavigate queues a navbar navigation to the section with the given id.
func (b *Backdrop) InjectNavigate(section string) {
	b.injectQueue = append(b.injectQueue, syntheticEvent{kind: syntheticNavigate, section: section})
}

// processInjectedInput pops one event from the inject queue and applies it.
// Returns true if an event was consumed (real input should be skipped).
func (b *Backdrop) processInjectedInput() bool {
	if len(b.injectQueue) == 0 {
		return false
	}
	evt := b.injectQueue[0]
	copy(b.injectQueue, b.injectQueue[1:])
	b.injectQueue = b.injectQueue[:len(b.injectQueue)-1]

	switch evt.kind {
	case syntheticPointer:
		b.cursor = Vec2{evt.x, evt.y}
		b.State.PointerMove(evt.x, evt.y)
		b.Page.Hover(evt.x, evt.y)
	case syntheticClick:
		b.Page.Click(evt.x, evt.y)
	case syntheticScroll:
		b.Page.ScrollBy(evt.y)
	case syntheticResize:
		b.resize(evt.w, evt.h)
	case syntheticNavigate:
		b.Page.Navigate(evt.section)
	}
	return true
}
