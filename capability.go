package moonlight

import (
	"fmt"
	"os"
	"regexp"
)

// mobileUserAgent matches the user agents treated as mobile devices.
var mobileUserAgent = regexp.MustCompile(`(?i)Mobi|Android`)

// Capabilities is what the host reports about the display the backdrop runs on.
type Capabilities struct {
	ViewportWidth        float64
	ViewportHeight       float64
	PrefersReducedMotion bool
	UserAgent            string
	DevicePixelRatio     float64
}

// ReducedEffects reports whether the display should get the lighter scene:
// a narrow viewport, an OS-level reduced-motion preference, or a mobile user
// agent.
func (c Capabilities) ReducedEffects(narrowWidth float64) bool {
	return c.ViewportWidth <= narrowWidth ||
		c.PrefersReducedMotion ||
		mobileUserAgent.MatchString(c.UserAgent)
}

// Probe reads Capabilities from the host. Implementations may fail or panic;
// DetectCapabilities absorbs both.
type Probe interface {
	Probe() (Capabilities, error)
}

// StaticProbe reports a fixed set of capabilities.
type StaticProbe Capabilities

// Probe returns the stored capabilities.
func (p StaticProbe) Probe() (Capabilities, error) {
	return Capabilities(p), nil
}

// ProbeFunc adapts a function to the Probe interface.
type ProbeFunc func() (Capabilities, error)

// Probe calls f.
func (f ProbeFunc) Probe() (Capabilities, error) {
	return f()
}

// DetectCapabilities runs p and decides whether reduced-effects mode applies.
// When probing panics or returns an error, reduced is false and caps holds
// whatever the probe managed to report.
func DetectCapabilities(p Probe, narrowWidth float64) (caps Capabilities, reduced bool) {
	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(os.Stderr, "[moonlight] capability probe panicked: %v\n", r)
			reduced = false
		}
	}()
	if p == nil {
		return Capabilities{}, false
	}
	caps, err := p.Probe()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[moonlight] capability probe failed: %v\n", err)
		return caps, false
	}
	return caps, caps.ReducedEffects(narrowWidth)
}

// DetectReducedEffects runs p against the default narrow-viewport threshold.
func DetectReducedEffects(p Probe) bool {
	_, reduced := DetectCapabilities(p, DefaultConfig().Density.NarrowWidth)
	return reduced
}

// ObjectCounts returns the default object counts for a viewport width.
func ObjectCounts(width float64, reduced bool) Counts {
	return DefaultConfig().Density.CountsFor(width, reduced)
}

// CountsFor returns the object counts for a viewport width. Width selects the
// narrow or wide table; reduced-effects mode additionally drops butterflies
// and the particle trail.
func (d DensityConfig) CountsFor(width float64, reduced bool) Counts {
	c := d.Wide
	if width <= d.NarrowWidth {
		c = d.Narrow
	}
	if reduced {
		c.Butterflies = 0
		c.Particles = 0
	}
	return c
}
