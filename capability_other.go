//go:build !(js && wasm)

package moonlight

import (
	"os"
	"runtime"
	"strconv"
)

// DefaultProbe returns the probe for the current platform. Desktop builds have
// no media queries, so reduced motion comes from MOONLIGHT_REDUCED_MOTION and
// the user agent is the GOOS/GOARCH pair (android builds match as mobile).
func DefaultProbe(width, height int) Probe {
	return ProbeFunc(func() (Capabilities, error) {
		caps := Capabilities{
			ViewportWidth:    float64(width),
			ViewportHeight:   float64(height),
			UserAgent:        runtime.GOOS + "/" + runtime.GOARCH,
			DevicePixelRatio: 1,
		}
		if v := os.Getenv("MOONLIGHT_REDUCED_MOTION"); v != "" {
			reduced, err := strconv.ParseBool(v)
			if err != nil {
				return caps, err
			}
			caps.PrefersReducedMotion = reduced
		}
		if v := os.Getenv("MOONLIGHT_PIXEL_RATIO"); v != "" {
			ratio, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return caps, err
			}
			caps.DevicePixelRatio = ratio
		}
		return caps, nil
	})
}
