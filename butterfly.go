package moonlight

import (
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r3"
)

// butterflyVolume is where butterflies start.
var butterflyVolume = Bounds3{
	X: Range{-50, 50},
	Y: Range{-50, 50},
	Z: Range{-20, 20},
}

// Butterfly geometry in local units.
const (
	wingOffset     = 1.2  // wing root distance from the body axis
	bodyLength     = 2.5  // along local X
	bodyRadius     = 0.4  // thickest end
	innerHaloRange = 3.0  // radius of the inner glow sphere
	outerHaloRange = 4.0  // radius of the outer glow sphere
	wingSamples    = 8    // points sampled per wing curve
	wingFoldAmount = 0.6  // peak fold angle, radians
	wingFlapRate   = 5.0  // fold oscillations per unit of Time
	breatheAmount  = 0.05 // peak scale change
)

// Halo is a translucent sphere drawn around a butterfly.
type Halo struct {
	Radius  float64
	Color   Color
	Opacity float64
}

var butterflyHalos = [2]Halo{
	{Radius: innerHaloRange, Color: ColorHex(0x8a2be2), Opacity: 0.25},
	{Radius: outerHaloRange, Color: ColorHex(0xb88bff), Opacity: 0.1},
}

// wingOutline is the closed left-wing outline in the wing's local XY plane,
// sampled from two quadratic curves: (0,0) → (4,2.5) through control (3,4),
// then back to (0,0) through control (3.5,1).
var wingOutline = buildWingOutline()

func buildWingOutline() []Vec2 {
	quad := func(p0, c, p1 Vec2, t float64) Vec2 {
		u := 1 - t
		return Vec2{
			X: u*u*p0.X + 2*u*t*c.X + t*t*p1.X,
			Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p1.Y,
		}
	}
	origin, tip := Vec2{}, Vec2{X: 4, Y: 2.5}
	pts := make([]Vec2, 0, 2*wingSamples)
	for i := 0; i < wingSamples; i++ {
		pts = append(pts, quad(origin, Vec2{X: 3, Y: 4}, tip, float64(i)/wingSamples))
	}
	for i := 0; i < wingSamples; i++ {
		pts = append(pts, quad(tip, Vec2{X: 3.5, Y: 1}, origin, float64(i)/wingSamples))
	}
	return pts
}

// Butterfly is a pair of flapping wings around a short body, wandering on
// layered sine paths.
type Butterfly struct {
	Position  r3.Vector
	Time      float64 // per-butterfly clock driving every oscillation
	Phase     float64 // fixed random offset
	Speed     float64 // Time advance per tick
	Amplitude float64

	Heading  float64 // rotation about Y, radians
	WingFold float64 // rotation of both wings about Z, radians
	Scale    float64

	Wing     Color
	Glow     Color
	Body     Color
	BodyGlow Color
}

// NewButterfly creates a butterfly at a random position with random motion
// parameters.
func NewButterfly(cfg ButterflyConfig, rng *rand.Rand) *Butterfly {
	b := &Butterfly{
		Position:  butterflyVolume.Random(rng),
		Time:      rng.Float64() * 2 * math.Pi,
		Speed:     rng.Float64()*0.03 + 0.02,
		Amplitude: rng.Float64()*0.5 + 0.3,
		Phase:     rng.Float64() * 2 * math.Pi,
		Scale:     1,
		Wing:      ColorHex(cfg.Wing),
		Glow:      ColorHex(cfg.Glow),
		Body:      ColorHex(0x4a007d),
		BodyGlow:  ColorHex(0x6a0dad),
	}
	b.pose()
	return b
}

// Velocity returns the direction of travel used for the heading.
func (b *Butterfly) Velocity() Vec2 {
	return Vec2{
		X: math.Cos(b.Time*0.7) * b.Amplitude,
		Y: math.Sin(b.Time) * b.Amplitude,
	}
}

// update advances the butterfly along its path. A coordinate beyond bound is
// reflected to the other side, scaled by bounce.
func (b *Butterfly) update(k, bound, bounce float64) {
	b.Time += b.Speed * k
	a := b.Amplitude
	b.Position.Y += math.Sin(b.Time) * a * 0.02 * k
	b.Position.X += math.Cos(b.Time*0.7) * a * 0.015 * k
	b.Position.Z += math.Sin(b.Time*0.4) * a * 0.01 * k
	b.pose()

	if math.Abs(b.Position.X) > bound {
		b.Position.X *= -bounce
	}
	if math.Abs(b.Position.Y) > bound {
		b.Position.Y *= -bounce
	}
}

// pose derives the wing fold, heading and breathing scale from Time.
func (b *Butterfly) pose() {
	b.WingFold = math.Sin(b.Time*wingFlapRate) * wingFoldAmount
	v := b.Velocity()
	b.Heading = math.Atan2(v.X, v.Y) + math.Pi/2
	b.Scale = 1 + math.Sin(b.Time*2)*breatheAmount
}

// toWorld maps a point in the butterfly's local frame to world space.
func (b *Butterfly) toWorld(p r3.Vector) r3.Vector {
	return rotateEuler(p.Mul(b.Scale), r3.Vector{Y: b.Heading}).Add(b.Position)
}

// WingPolygon appends the world-space outline of one wing to dst[:0]. side is -1 for the left
// wing and +1 for the right, which is the left one mirrored across X.
func (b *Butterfly) WingPolygon(side float64, dst []r3.Vector) []r3.Vector {
	dst = dst[:0]
	c, s := math.Cos(b.WingFold), math.Sin(b.WingFold)
	for _, p := range wingOutline {
		x := p.X * -side
		local := r3.Vector{X: x*c - p.Y*s + side*wingOffset, Y: x*s + p.Y*c}
		dst = append(dst, b.toWorld(local))
	}
	return dst
}

// BodyEnds returns the world-space end points of the body axis.
func (b *Butterfly) BodyEnds() (r3.Vector, r3.Vector) {
	return b.toWorld(r3.Vector{X: -bodyLength / 2}), b.toWorld(r3.Vector{X: bodyLength / 2})
}

// Halos returns the glow spheres scaled with the butterfly.
func (b *Butterfly) Halos() [2]Halo {
	h := butterflyHalos
	for i := range h {
		h[i].Radius *= b.Scale
	}
	return h
}
