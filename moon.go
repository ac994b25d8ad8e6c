package moonlight

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand/v2"

	"github.com/aquilax/go-perlin"
	"github.com/golang/geo/r3"
	"github.com/hajimehoshi/ebiten/v2"
	xvector "golang.org/x/image/vector"
)

// moonTextureReference is the raster size crater radii are specified against.
const moonTextureReference = 1024

var (
	craterFill   = color.NRGBA{0x88, 0x88, 0x88, 0xff}
	craterShadow = color.NRGBA{0x66, 0x66, 0x66, 0xff}
)

// moonGradient holds the radial gradient stops of the moon surface.
var moonGradient = []struct {
	at float64
	v  float64 // gray level in [0, 1]
}{
	{0, 1.0},
	{0.2, float64(0xf5) / 255},
	{0.5, float64(0xe8) / 255},
	{1, float64(0xa0) / 255},
}

// Crater is a dark disc on the moon texture, in texture pixels.
type Crater struct {
	X, Y, R float64
}

// GlowShell is a translucent halo around the moon.
type GlowShell struct {
	Radius  float64
	Opacity float64
}

// Moon is a textured sphere with a set of concentric glow shells.
type Moon struct {
	Position          r3.Vector
	Radius            float64
	Emissive          Color
	EmissiveIntensity float64
	Rotation          float64
	RotationSpeed     float64
	Shells            []GlowShell
	Craters           []Crater
	Texture           *image.RGBA

	img *ebiten.Image // uploaded lazily from Texture
}

// NewMoon generates the moon, its crater texture and glow shells. Crater
// placement is random per call.
func NewMoon(cfg MoonConfig, rng *rand.Rand) *Moon {
	m := &Moon{
		Position:          r3.Vector{X: cfg.Position[0], Y: cfg.Position[1], Z: cfg.Position[2]},
		Radius:            cfg.Radius,
		Emissive:          ColorHex(cfg.Emissive),
		EmissiveIntensity: cfg.EmissiveIntensity,
		RotationSpeed:     cfg.RotationSpeed,
	}
	for i := 1; i <= cfg.GlowShells; i++ {
		m.Shells = append(m.Shells, GlowShell{
			Radius:  cfg.Radius + float64(i)*0.5,
			Opacity: glowOpacity(i),
		})
	}
	m.Craters = NewCraters(rng, cfg.Craters, cfg.TextureSize)
	noise := perlin.NewPerlin(2, 2, 3, rng.Int64())
	m.Texture = GenerateMoonTexture(cfg.TextureSize, m.Craters, noise)
	return m
}

// glowOpacity is the opacity of shell i, counted from 1.
func glowOpacity(i int) float64 {
	return 0.15 / float64(i)
}

// NewCraters places n craters uniformly over a size×size texture. Radii are
// 8..48 pixels at the 1024 reference size and scale with it.
func NewCraters(rng *rand.Rand, n, size int) []Crater {
	scale := float64(size) / moonTextureReference
	craters := make([]Crater, n)
	for i := range craters {
		craters[i] = Crater{
			X: rng.Float64() * float64(size),
			Y: rng.Float64() * float64(size),
			R: (rng.Float64()*40 + 8) * scale,
		}
	}
	return craters
}

// GenerateMoonTexture paints the moon surface: a radial gray gradient,
// Perlin mottling when noise is non-nil, and each crater with an offset
// darker shadow disc.
func GenerateMoonTexture(size int, craters []Crater, noise *perlin.Perlin) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - c
			dy := float64(y) + 0.5 - c
			v := gradientAt(math.Sqrt(dx*dx+dy*dy) / c)
			if noise != nil {
				v *= 1 + 0.06*noise.Noise2D(float64(x)/64, float64(y)/64)
			}
			g := uint8(clamp01(v)*255 + 0.5)
			off := img.PixOffset(x, y)
			img.Pix[off+0] = g
			img.Pix[off+1] = g
			img.Pix[off+2] = g
			img.Pix[off+3] = 0xff
		}
	}

	z := xvector.NewRasterizer(size, size)
	fill := image.NewUniform(craterFill)
	shadow := image.NewUniform(craterShadow)
	for _, cr := range craters {
		fillDisc(z, img, fill, cr.X, cr.Y, cr.R)
		fillDisc(z, img, shadow, cr.X+cr.R/3, cr.Y+cr.R/3, cr.R/2)
	}
	return img
}

// gradientAt evaluates the radial gradient at normalized distance t.
func gradientAt(t float64) float64 {
	if t <= 0 {
		return moonGradient[0].v
	}
	for i := 1; i < len(moonGradient); i++ {
		a, b := moonGradient[i-1], moonGradient[i]
		if t <= b.at {
			return a.v + (b.v-a.v)*(t-a.at)/(b.at-a.at)
		}
	}
	return moonGradient[len(moonGradient)-1].v
}

// circleKappa places cubic control points for a quarter-circle arc.
const circleKappa = 0.5522847498

// fillDisc rasterizes a filled circle over dst.
func fillDisc(z *xvector.Rasterizer, dst draw.Image, src image.Image, cx, cy, r float64) {
	b := dst.Bounds()
	z.Reset(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	x, y, rr := float32(cx), float32(cy), float32(r)
	k := float32(circleKappa) * rr
	z.MoveTo(x+rr, y)
	z.CubeTo(x+rr, y+k, x+k, y+rr, x, y+rr)
	z.CubeTo(x-k, y+rr, x-rr, y+k, x-rr, y)
	z.CubeTo(x-rr, y-k, x-k, y-rr, x, y-rr)
	z.CubeTo(x+k, y-rr, x+rr, y-k, x+rr, y)
	z.ClosePath()
	z.Draw(dst, b, src, image.Point{})
}

// update spins the texture.
func (m *Moon) update(k float64) {
	m.Rotation += m.RotationSpeed * k
}

// image returns the GPU copy of the texture, uploading it on first use.
func (m *Moon) image() *ebiten.Image {
	if m.img == nil && m.Texture != nil {
		m.img = ebiten.NewImageFromImage(m.Texture)
	}
	return m.img
}
