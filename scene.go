package moonlight

import (
	"math"

	"github.com/golang/geo/r3"
)

// Surface is the render target size. Width and Height are logical pixels;
// PixelRatio scales them to device pixels.
type Surface struct {
	Width, Height int
	PixelRatio    float64
}

// DeviceSize returns the surface size in device pixels.
func (s Surface) DeviceSize() (int, int) {
	return int(math.Ceil(float64(s.Width) * s.PixelRatio)), int(math.Ceil(float64(s.Height) * s.PixelRatio))
}

// Fog fades colors toward Color between Near and Far view depth.
type Fog struct {
	Color     Color
	Near, Far float64
}

// Factor returns the fog amount in [0, 1] for a view depth.
func (f Fog) Factor(depth float64) float64 {
	if f.Far <= f.Near {
		return 0
	}
	return clamp01((depth - f.Near) / (f.Far - f.Near))
}

// Apply returns c fogged for the given depth.
func (f Fog) Apply(c Color, depth float64) Color {
	return c.Mix(f.Color, f.Factor(depth))
}

// Light is an ambient light when Range is zero, otherwise a point light whose
// contribution falls off linearly to zero at Range.
type Light struct {
	Color     Color
	Intensity float64
	Position  r3.Vector
	Range     float64
}

// Contribution returns the light's intensity reaching p.
func (l Light) Contribution(p r3.Vector) float64 {
	if l.Range <= 0 {
		return l.Intensity
	}
	d := p.Sub(l.Position).Norm()
	if d >= l.Range {
		return 0
	}
	return l.Intensity * (1 - d/l.Range)
}

// SceneContext owns the render surface, camera, fog, lights and the optional
// bloom pipeline. One exists per Backdrop for its whole lifetime.
type SceneContext struct {
	Background     Color
	Fog            Fog
	Camera         *PerspectiveCamera
	Surface        Surface
	Lights         []Light
	ReducedEffects bool

	// Pipeline is nil in reduced-effects mode; frames are then drawn directly.
	Pipeline *BloomPipeline

	baseZ float64
}

// NewSceneContext builds the scene for a viewport described by caps. In
// reduced-effects mode the pixel ratio is capped to 1 and bloom is skipped.
func NewSceneContext(cfg Config, caps Capabilities, reduced bool) *SceneContext {
	w := int(math.Max(1, caps.ViewportWidth))
	h := int(math.Max(1, caps.ViewportHeight))

	ratio := caps.DevicePixelRatio
	if reduced || ratio <= 0 {
		ratio = 1
	}

	surface := Surface{Width: w, Height: h, PixelRatio: ratio}
	dw, dh := surface.DeviceSize()
	s := &SceneContext{
		Background:     ColorHex(cfg.Background),
		Fog:            Fog{Color: ColorHex(cfg.Fog.Color), Near: cfg.Fog.Near, Far: cfg.Fog.Far},
		Camera:         NewPerspectiveCamera(cfg.Camera, float64(dw), float64(dh)),
		Surface:        surface,
		ReducedEffects: reduced,
		baseZ:          cfg.Camera.Z,
		Lights: []Light{
			{Color: ColorHex(0x8a2be2), Intensity: 0.3},
			{Color: ColorHex(0x8a2be2), Intensity: 0.8, Position: r3.Vector{X: -30, Y: 25, Z: 30}, Range: 100},
			{Color: ColorHex(0x6a0dad), Intensity: 0.5, Position: r3.Vector{X: 40, Y: -20, Z: 20}, Range: 80},
		},
	}
	if !reduced {
		s.Pipeline = NewBloomPipeline(cfg.Bloom, dw, dh)
	}
	return s
}

// Resize applies a new viewport size, in logical pixels, to the camera,
// surface and pipeline.
// Calling it again with the same size changes nothing.
func (s *SceneContext) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	s.Surface.Width = w
	s.Surface.Height = h
	dw, dh := s.Surface.DeviceSize()
	s.Camera.SetViewport(float64(dw), float64(dh))
	if s.Pipeline != nil {
		s.Pipeline.Resize(dw, dh)
	}
}

// Illuminate tints base by the scene lights as seen at p, then adds the
// emissive term.
func (s *SceneContext) Illuminate(base Color, p r3.Vector, emissive Color, emissiveIntensity float64) Color {
	out := base.Scale(0.35)
	for _, l := range s.Lights {
		k := l.Contribution(p) * 0.5
		out.R += base.R * l.Color.R * k
		out.G += base.G * l.Color.G * k
		out.B += base.B * l.Color.B * k
	}
	out.R += emissive.R * emissiveIntensity
	out.G += emissive.G * emissiveIntensity
	out.B += emissive.B * emissiveIntensity
	return out
}
