package moonlight

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// brightPassShaderSrc keeps only pixels whose luminance exceeds Threshold,
// with a short smoothstep knee so the cutoff does not alias.
const brightPassShaderSrc = `//kage:unit pixels
package main

var Threshold float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a == 0 {
		return vec4(0)
	}
	// Un-premultiply alpha.
	rgb := c.rgb / c.a
	lum := 0.2126*rgb.r + 0.7152*rgb.g + 0.0722*rgb.b
	w := smoothstep(Threshold, Threshold+0.1, lum)
	return vec4(rgb*c.a*w, c.a*w)
}
`

// toneMapShaderSrc applies exposure and the ACES filmic curve (Narkowicz fit)
// to the composed frame.
const toneMapShaderSrc = `//kage:unit pixels
package main

var Exposure float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a == 0 {
		return vec4(0)
	}
	x := c.rgb / c.a * Exposure
	m := clamp((x*(2.51*x+0.03))/(x*(2.43*x+0.59)+0.14), vec3(0), vec3(1))
	return vec4(m*c.a, c.a)
}
`

// --- Lazy shader compilation (no sync.Once, the game loop is single-threaded) ---

var brightPassShader *ebiten.Shader

func ensureBrightPassShader() *ebiten.Shader {
	if brightPassShader == nil {
		s, err := ebiten.NewShader([]byte(brightPassShaderSrc))
		if err != nil {
			panic("moonlight: failed to compile bright-pass shader: " + err.Error())
		}
		brightPassShader = s
	}
	return brightPassShader
}

var toneMapShader *ebiten.Shader

func ensureToneMapShader() *ebiten.Shader {
	if toneMapShader == nil {
		s, err := ebiten.NewShader([]byte(toneMapShaderSrc))
		if err != nil {
			panic("moonlight: failed to compile tone-map shader: " + err.Error())
		}
		toneMapShader = s
	}
	return toneMapShader
}

// BloomPipeline is the two-pass composer: the scene is rendered into an
// offscreen base target, then its bright regions are extracted, blurred with a
// Kawase down/up chain and added back on top scaled by Strength. When Exposure
// is positive the result is tone mapped on its way to the screen.
type BloomPipeline struct {
	Strength  float64
	Radius    float64
	Threshold float64
	Exposure  float64

	cfg           BloomConfig
	width, height int

	base     *ebiten.Image
	bright   *ebiten.Image
	composed *ebiten.Image
	temps    []*ebiten.Image

	uniforms     map[string]any
	toneUniforms map[string]any
	shaderOp     ebiten.DrawRectShaderOptions
	imgOp        ebiten.DrawImageOptions
}

// NewBloomPipeline creates a pipeline for a w×h device-pixel surface. GPU
// buffers are allocated on first use.
func NewBloomPipeline(cfg BloomConfig, w, h int) *BloomPipeline {
	return &BloomPipeline{
		Strength:     cfg.Strength,
		Radius:       cfg.Radius,
		Threshold:    cfg.Threshold,
		Exposure:     cfg.Exposure,
		cfg:          cfg,
		width:        max(w, 1),
		height:       max(h, 1),
		uniforms:     make(map[string]any, 1),
		toneUniforms: make(map[string]any, 1),
	}
}

// Oscillate sets strength and radius from the clock with no scroll
// contribution.
func (b *BloomPipeline) Oscillate(t float64) {
	b.Update(t, 0)
}

// Update sets strength and radius for clock t and scroll progress p in [0, 1].
func (b *BloomPipeline) Update(t, progress float64) {
	b.Strength = b.cfg.PulseBase + b.cfg.PulseSwing*math.Sin(b.cfg.PulseFreq*t) + b.cfg.ScrollBoost*progress
	b.Radius = b.cfg.Radius + b.cfg.RadiusSwing*math.Sin(b.cfg.RadiusFreq*t)
}

// ApplyScroll is Update under the name the scroll handler uses.
func (b *BloomPipeline) ApplyScroll(t, progress float64) {
	b.Update(t, progress)
}

// Size returns the current buffer size in device pixels.
func (b *BloomPipeline) Size() (int, int) {
	return b.width, b.height
}

// Resize changes the buffer size. Existing buffers are released and
// reallocated lazily at the new size.
func (b *BloomPipeline) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if w == b.width && h == b.height {
		return
	}
	b.width, b.height = w, h
	b.release()
}

// passes is the depth of the blur chain. A larger radius reaches further.
func (b *BloomPipeline) passes() int {
	n := int(math.Ceil(2 + b.Radius*8))
	limit := int(math.Log2(float64(min(b.width, b.height))))
	return max(1, min(n, limit))
}

// Target returns the cleared base-pass image the scene should be drawn into.
func (b *BloomPipeline) Target() *ebiten.Image {
	if b.base == nil {
		b.base = ebiten.NewImage(b.width, b.height)
		b.bright = ebiten.NewImage(b.width, b.height)
	} else {
		b.base.Clear()
	}
	return b.base
}

// Compose draws the base pass into dst, adds the bloom on top and tone maps
// the result.
func (b *BloomPipeline) Compose(dst *ebiten.Image) {
	if b.base == nil {
		return
	}
	out := dst
	if b.Exposure > 0 {
		if b.composed == nil {
			b.composed = ebiten.NewImage(b.width, b.height)
		} else {
			b.composed.Clear()
		}
		out = b.composed
	}
	b.composeInto(out)
	if out != dst {
		b.toneUniforms["Exposure"] = float32(b.Exposure)
		b.shaderOp.Images[0] = b.composed
		b.shaderOp.Uniforms = b.toneUniforms
		dst.DrawRectShader(b.width, b.height, ensureToneMapShader(), &b.shaderOp)
	}
}

func (b *BloomPipeline) composeInto(dst *ebiten.Image) {
	op := &b.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Blend = ebiten.BlendSourceOver
	op.Filter = ebiten.FilterNearest
	dst.DrawImage(b.base, op)

	if b.Strength <= 0 {
		return
	}

	// Bright pass.
	b.bright.Clear()
	b.uniforms["Threshold"] = float32(b.Threshold)
	b.shaderOp.Images[0] = b.base
	b.shaderOp.Uniforms = b.uniforms
	b.bright.DrawRectShader(b.width, b.height, ensureBrightPassShader(), &b.shaderOp)

	blurred := b.blur(b.bright)

	// Additive composite.
	op.GeoM.Reset()
	op.ColorScale.Reset()
	s := float32(b.Strength)
	op.ColorScale.Scale(s, s, s, s)
	bw, bh := blurred.Bounds().Dx(), blurred.Bounds().Dy()
	op.GeoM.Scale(float64(b.width)/float64(bw), float64(b.height)/float64(bh))
	op.Filter = ebiten.FilterLinear
	op.Blend = ebiten.BlendLighter
	dst.DrawImage(blurred, op)
}

// blur runs a Kawase downscale chain followed by an upscale back to half
// resolution. Bilinear filtering during DrawImage does the work.
func (b *BloomPipeline) blur(src *ebiten.Image) *ebiten.Image {
	// Levels deeper than passes are kept for reuse.
	passes := b.passes()
	for len(b.temps) < passes {
		b.temps = append(b.temps, nil)
	}

	op := &b.imgOp
	op.Blend = ebiten.BlendSourceOver
	op.Filter = ebiten.FilterLinear

	w, h := b.width, b.height
	current := src
	for i := 0; i < passes; i++ {
		w, h = max(w/2, 1), max(h/2, 1)
		if b.temps[i] == nil || b.temps[i].Bounds().Dx() != w || b.temps[i].Bounds().Dy() != h {
			if b.temps[i] != nil {
				b.temps[i].Deallocate()
			}
			b.temps[i] = ebiten.NewImage(w, h)
		} else {
			b.temps[i].Clear()
		}
		drawScaled(b.temps[i], current, op)
		current = b.temps[i]
	}
	for i := passes - 2; i >= 0; i-- {
		b.temps[i].Clear()
		drawScaled(b.temps[i], current, op)
		current = b.temps[i]
	}
	return current
}

// drawScaled stretches src over the whole of dst.
func drawScaled(dst, src *ebiten.Image, op *ebiten.DrawImageOptions) {
	op.GeoM.Reset()
	op.ColorScale.Reset()
	sw, sh := float64(src.Bounds().Dx()), float64(src.Bounds().Dy())
	dw, dh := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	op.GeoM.Scale(dw/sw, dh/sh)
	dst.DrawImage(src, op)
}

func (b *BloomPipeline) release() {
	if b.base != nil {
		b.base.Deallocate()
		b.base = nil
	}
	if b.bright != nil {
		b.bright.Deallocate()
		b.bright = nil
	}
	if b.composed != nil {
		b.composed.Deallocate()
		b.composed = nil
	}
	for i, img := range b.temps {
		if img != nil {
			img.Deallocate()
		}
		b.temps[i] = nil
	}
	b.temps = b.temps[:0]
}
