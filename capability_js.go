//go:build js && wasm

package moonlight

import (
	"errors"
	"syscall/js"
)

// BrowserProbe reads capabilities from the page's window object.
type BrowserProbe struct{}

// Probe queries innerWidth/innerHeight, devicePixelRatio, the
// prefers-reduced-motion media query and navigator.userAgent.
func (BrowserProbe) Probe() (Capabilities, error) {
	win := js.Global().Get("window")
	if win.IsUndefined() || win.IsNull() {
		return Capabilities{}, errors.New("moonlight: no window object")
	}
	caps := Capabilities{
		ViewportWidth:    win.Get("innerWidth").Float(),
		ViewportHeight:   win.Get("innerHeight").Float(),
		DevicePixelRatio: 1,
	}
	if dpr := win.Get("devicePixelRatio"); dpr.Type() == js.TypeNumber {
		caps.DevicePixelRatio = dpr.Float()
	}
	if mm := win.Get("matchMedia"); mm.Type() == js.TypeFunction {
		caps.PrefersReducedMotion = win.Call("matchMedia", "(prefers-reduced-motion: reduce)").Get("matches").Bool()
	}
	if nav := js.Global().Get("navigator"); !nav.IsUndefined() {
		caps.UserAgent = nav.Get("userAgent").String()
	}
	return caps, nil
}

// DefaultProbe returns the probe for the current platform. In the browser the
// window size is read from the page, so width and height are ignored.
func DefaultProbe(width, height int) Probe {
	return BrowserProbe{}
}
