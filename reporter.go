package moonlight

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// PanicError is a panic recovered from the game loop.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("moonlight: panic: %v", e.Value)
}

// ErrorReporter receives fatal errors from the game loop. After a report the
// backdrop stops animating.
type ErrorReporter interface {
	Report(message, stack string)
}

// OverlayReporter keeps the last report and draws it as a full-screen
// diagnostic panel. It also echoes every report to stderr.
type OverlayReporter struct {
	Message string
	Stack   string
}

// Report stores the error for drawing.
func (r *OverlayReporter) Report(message, stack string) {
	r.Message = message
	r.Stack = stack
	_, _ = fmt.Fprintf(os.Stderr, "[moonlight] fatal: %s\n%s\n", message, stack)
}

// Reported reports whether an error has been stored.
func (r *OverlayReporter) Reported() bool {
	return r.Message != ""
}

// overlayMaxLines bounds the stack lines drawn on screen.
const overlayMaxLines = 40

// Draw paints the overlay over dst. It does nothing until an error is
// reported.
func (r *OverlayReporter) Draw(dst *ebiten.Image) {
	if !r.Reported() {
		return
	}
	b := dst.Bounds()
	const margin = 12
	vector.DrawFilledRect(dst, margin, margin,
		float32(b.Dx()-2*margin), float32(b.Dy()-2*margin),
		Color{0.04, 0.04, 0.04, 0.95}.NRGBA(), false)

	lines := strings.Split(strings.TrimSpace(r.Stack), "\n")
	if len(lines) > overlayMaxLines {
		lines = append(lines[:overlayMaxLines], "...")
	}
	ebitenutil.DebugPrintAt(dst, "Runtime Error", margin+18, margin+18)
	ebitenutil.DebugPrintAt(dst, r.Message, margin+18, margin+42)
	ebitenutil.DebugPrintAt(dst, "Stack:\n"+strings.Join(lines, "\n"), margin+18, margin+74)
}

// guard runs fn and converts a panic into a *PanicError carrying the stack.
func guard(fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v, Stack: string(debug.Stack())}
		}
	}()
	return fn()
}
