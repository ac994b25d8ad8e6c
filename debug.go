package moonlight

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when Backdrop.debug is true.
type debugStats struct {
	advanceTime   time.Duration
	buildTime     time.Duration
	sortTime      time.Duration
	submitTime    time.Duration
	commandCount  int
	drawCallCount int
}

// debugLogInterval is the number of frames between two stats lines.
const debugLogInterval = 60

// debugLog prints timing and draw-call stats to stderr once per
// debugLogInterval frames.
func (b *Backdrop) debugLog(stats debugStats) {
	if !b.debug || b.frame%debugLogInterval != 0 {
		return
	}
	total := stats.advanceTime + stats.buildTime + stats.sortTime + stats.submitTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[moonlight] advance: %v | build: %v | sort: %v | submit: %v | total: %v\n",
		stats.advanceTime, stats.buildTime, stats.sortTime, stats.submitTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[moonlight] commands: %d | draw calls: %d | t: %.2f\n",
		stats.commandCount, stats.drawCallCount, b.State.Clock.T)
}

// debugLogStartup prints the capability decision and object counts once.
func (b *Backdrop) debugLogStartup() {
	if !b.debug {
		return
	}
	c := b.Capabilities
	_, _ = fmt.Fprintf(os.Stderr,
		"[moonlight] viewport %.0fx%.0f @%.2f | reduced motion: %v | reduced effects: %v | ua: %q\n",
		c.ViewportWidth, c.ViewportHeight, c.DevicePixelRatio, c.PrefersReducedMotion, b.Reduced, c.UserAgent)
	n := b.State.Counts
	_, _ = fmt.Fprintf(os.Stderr,
		"[moonlight] stars: %d | shapes: %d | butterflies: %d | particles: %d | bloom: %v\n",
		n.Stars, n.Shapes, n.Butterflies, n.Particles, b.State.Scene.Pipeline != nil)
}

// countDrawCalls counts individual draw calls the command list will produce.
// Line commands count one call per segment.
func countDrawCalls(r *renderer) int {
	count := 0
	for i := range r.commands {
		cmd := &r.commands[i]
		switch cmd.Type {
		case CommandLines:
			count += cmd.end - cmd.start
		default:
			count++
		}
	}
	return count
}
