package moonlight

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r3"
	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorHex converts a 0xRRGGBB value to an opaque Color.
func ColorHex(hex uint32) Color {
	return Color{
		R: float64((hex>>16)&0xff) / 255,
		G: float64((hex>>8)&0xff) / 255,
		B: float64(hex&0xff) / 255,
		A: 1,
	}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Scale multiplies the RGB components by f, leaving alpha untouched.
func (c Color) Scale(f float64) Color {
	return Color{c.R * f, c.G * f, c.B * f, c.A}
}

// Mix linearly interpolates the RGB components from c toward o by t in [0, 1].
// Alpha is taken from c.
func (c Color) Mix(o Color, t float64) Color {
	t = clamp01(t)
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A,
	}
}

// NRGBA converts c to a straight-alpha color.NRGBA, clamping each component.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// Vec2 is a 2D vector used for screen positions and normalized pointer
// coordinates.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Range is a general-purpose half-open [Min, Max) range used for random draws.
type Range struct {
	Min, Max float64
}

// Random returns a uniform value in [Min, Max) drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Bounds3 is an axis-aligned volume described by one Range per axis.
type Bounds3 struct {
	X, Y, Z Range
}

// Symmetric returns the volume [-x, x) × [-y, y) × [-z, z).
func Symmetric(x, y, z float64) Bounds3 {
	return Bounds3{Range{-x, x}, Range{-y, y}, Range{-z, z}}
}

// Random returns a uniform point inside the volume.
func (b Bounds3) Random(rng *rand.Rand) r3.Vector {
	return r3.Vector{X: b.X.Random(rng), Y: b.Y.Random(rng), Z: b.Z.Random(rng)}
}

// Contains reports whether p lies inside the (closed) volume.
func (b Bounds3) Contains(p r3.Vector) bool {
	return b.X.Contains(p.X) && b.Y.Contains(p.Y) && b.Z.Contains(p.Z)
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	default:
		return ebiten.BlendSourceOver
	}
}

// newRand returns a PCG-backed generator. A zero seed is replaced with a
// fixed non-zero constant so the sequence stays deterministic.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}
	return rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
