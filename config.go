package moonlight

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is wrapped by every validation failure from Config.Validate.
var ErrInvalidConfig = errors.New("moonlight: invalid config")

// Config holds every tunable of the backdrop. DefaultConfig reproduces the
// portfolio page's look; LoadConfig overlays a TOML document on top of it.
type Config struct {
	// Background is the clear color as 0xRRGGBB.
	Background uint32 `toml:"background"`

	Fog       FogConfig       `toml:"fog"`
	Camera    CameraConfig    `toml:"camera"`
	Bloom     BloomConfig     `toml:"bloom"`
	Density   DensityConfig   `toml:"density"`
	Moon      MoonConfig      `toml:"moon"`
	Shapes    ShapeConfig     `toml:"shapes"`
	Butterfly ButterflyConfig `toml:"butterfly"`
	Particles ParticleConfig  `toml:"particles"`
}

// FogConfig describes linear distance fog.
type FogConfig struct {
	Color uint32  `toml:"color"`
	Near  float64 `toml:"near"`
	Far   float64 `toml:"far"`
}

// CameraConfig describes the perspective camera and its scroll response.
type CameraConfig struct {
	FOV  float64 `toml:"fov"` // vertical, degrees
	Near float64 `toml:"near"`
	Far  float64 `toml:"far"`
	Z    float64 `toml:"z"`
	// ScrollZoom is added to Z at full scroll progress.
	ScrollZoom float64 `toml:"scroll_zoom"`
	// ScrollTilt is the X rotation in radians at full scroll progress.
	ScrollTilt float64 `toml:"scroll_tilt"`
}

// BloomConfig describes the bloom pass and its per-frame oscillation.
type BloomConfig struct {
	Strength  float64 `toml:"strength"`
	Radius    float64 `toml:"radius"`
	Threshold float64 `toml:"threshold"`

	// strength(t) = PulseBase + PulseSwing*sin(PulseFreq*t) + ScrollBoost*progress
	PulseBase   float64 `toml:"pulse_base"`
	PulseSwing  float64 `toml:"pulse_swing"`
	PulseFreq   float64 `toml:"pulse_freq"`
	ScrollBoost float64 `toml:"scroll_boost"`

	// radius(t) = Radius + RadiusSwing*sin(RadiusFreq*t)
	RadiusSwing float64 `toml:"radius_swing"`
	RadiusFreq  float64 `toml:"radius_freq"`

	// Exposure scales the composed frame before the ACES filmic curve.
	// Zero disables tone mapping.
	Exposure float64 `toml:"exposure"`
}

// Counts is the number of objects created per category.
type Counts struct {
	Stars       int `toml:"stars"`
	Shapes      int `toml:"shapes"`
	Butterflies int `toml:"butterflies"`
	Particles   int `toml:"particles"`
}

// DensityConfig selects object counts from the viewport width.
type DensityConfig struct {
	// NarrowWidth is the widest viewport, in CSS pixels, that uses Narrow.
	NarrowWidth float64 `toml:"narrow_width"`
	Narrow      Counts  `toml:"narrow"`
	Wide        Counts  `toml:"wide"`
}

// MoonConfig describes the moon mesh, texture and glow shells.
type MoonConfig struct {
	Radius            float64    `toml:"radius"`
	Position          [3]float64 `toml:"position"`
	TextureSize       int        `toml:"texture_size"`
	Craters           int        `toml:"craters"`
	GlowShells        int        `toml:"glow_shells"`
	Emissive          uint32     `toml:"emissive"`
	EmissiveIntensity float64    `toml:"emissive_intensity"`
	RotationSpeed     float64    `toml:"rotation_speed"`
}

// ShapeConfig describes the floating geometric shapes.
type ShapeConfig struct {
	Color     uint32  `toml:"color"`
	Emissive  uint32  `toml:"emissive"`
	Retarget  float64 `toml:"retarget_chance"` // per tick
	HalfSpanX float64 `toml:"half_span_x"`
	HalfSpanY float64 `toml:"half_span_y"`
	HalfSpanZ float64 `toml:"half_span_z"`
}

// ButterflyConfig describes butterfly motion limits.
type ButterflyConfig struct {
	Bound  float64 `toml:"bound"`  // |x| or |y| beyond this triggers a bounce
	Bounce float64 `toml:"bounce"` // position is scaled by -Bounce on a bounce
	Wing   uint32  `toml:"wing"`
	Glow   uint32  `toml:"glow"`
}

// ParticleConfig describes the particle trail pool.
type ParticleConfig struct {
	Decay   float64 `toml:"decay"`   // life lost per tick
	Gravity float64 `toml:"gravity"` // downward drift per tick
	Color   uint32  `toml:"color"`
	Opacity float64 `toml:"opacity"`
	Size    float64 `toml:"size"`
}

// DefaultConfig returns the stock portfolio backdrop settings.
func DefaultConfig() Config {
	return Config{
		Background: 0x0a0a1a,
		Fog:        FogConfig{Color: 0x0a0a1a, Near: 200, Far: 300},
		Camera: CameraConfig{
			FOV: 75, Near: 0.1, Far: 1000, Z: 60,
			ScrollZoom: 20, ScrollTilt: 0.2,
		},
		Bloom: BloomConfig{
			Strength: 1.8, Radius: 0.5, Threshold: 0.85,
			PulseBase: 1.6, PulseSwing: 0.4, PulseFreq: 0.3, ScrollBoost: 0.3,
			RadiusSwing: 0.1, RadiusFreq: 0.2,
			Exposure: 1.3,
		},
		Density: DensityConfig{
			NarrowWidth: 768,
			Narrow:      Counts{Stars: 120, Shapes: 3, Butterflies: 4, Particles: 60},
			Wide:        Counts{Stars: 300, Shapes: 5, Butterflies: 12, Particles: 200},
		},
		Moon: MoonConfig{
			Radius:            10,
			Position:          [3]float64{-35, 28, -120},
			TextureSize:       1024,
			Craters:           50,
			GlowShells:        3,
			Emissive:          0x8b4789,
			EmissiveIntensity: 0.6,
			RotationSpeed:     0.0005,
		},
		Shapes: ShapeConfig{
			Color: 0x8a2be2, Emissive: 0x6a0dad, Retarget: 0.002,
			HalfSpanX: 60, HalfSpanY: 60, HalfSpanZ: 40,
		},
		Butterfly: ButterflyConfig{Bound: 80, Bounce: 0.9, Wing: 0x6a0dad, Glow: 0x8a2be2},
		Particles: ParticleConfig{Decay: 0.005, Gravity: 0.15, Color: 0xb88bff, Opacity: 0.5, Size: 0.6},
	}
}

// LoadConfig parses a TOML document on top of DefaultConfig and validates the
// result. Keys absent from data keep their default values.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("moonlight: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses the TOML file at path.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("moonlight: read config: %w", err)
	}
	return LoadConfig(data)
}

// Validate reports the first inconsistent setting, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Fog.Near < 0 || c.Fog.Near >= c.Fog.Far:
		return fmt.Errorf("%w: fog near %v must be in [0, far %v)", ErrInvalidConfig, c.Fog.Near, c.Fog.Far)
	case c.Camera.FOV <= 0 || c.Camera.FOV >= 180:
		return fmt.Errorf("%w: camera fov %v must be in (0, 180)", ErrInvalidConfig, c.Camera.FOV)
	case c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far:
		return fmt.Errorf("%w: camera near %v must be in (0, far %v)", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	case c.Bloom.Threshold < 0 || c.Bloom.Threshold > 1:
		return fmt.Errorf("%w: bloom threshold %v must be in [0, 1]", ErrInvalidConfig, c.Bloom.Threshold)
	case c.Bloom.Strength < 0 || c.Bloom.Radius < 0:
		return fmt.Errorf("%w: bloom strength and radius must be non-negative", ErrInvalidConfig)
	case c.Bloom.Exposure < 0:
		return fmt.Errorf("%w: bloom exposure %v must be non-negative", ErrInvalidConfig, c.Bloom.Exposure)
	case c.Density.NarrowWidth <= 0:
		return fmt.Errorf("%w: density narrow_width %v must be positive", ErrInvalidConfig, c.Density.NarrowWidth)
	case c.Moon.Radius <= 0 || c.Moon.TextureSize <= 0 || c.Moon.Craters < 0 || c.Moon.GlowShells < 0:
		return fmt.Errorf("%w: moon radius and texture size must be positive", ErrInvalidConfig)
	case c.Shapes.Retarget < 0 || c.Shapes.Retarget > 1:
		return fmt.Errorf("%w: shapes retarget_chance %v must be in [0, 1]", ErrInvalidConfig, c.Shapes.Retarget)
	case c.Butterfly.Bound <= 0 || c.Butterfly.Bounce <= 0 || c.Butterfly.Bounce > 1:
		return fmt.Errorf("%w: butterfly bound must be positive and bounce in (0, 1]", ErrInvalidConfig)
	case c.Particles.Decay <= 0 || c.Particles.Decay > 1:
		return fmt.Errorf("%w: particles decay %v must be in (0, 1]", ErrInvalidConfig, c.Particles.Decay)
	}
	for _, counts := range []Counts{c.Density.Narrow, c.Density.Wide} {
		if counts.Stars < 0 || counts.Shapes < 0 || counts.Butterflies < 0 || counts.Particles < 0 {
			return fmt.Errorf("%w: object counts must be non-negative", ErrInvalidConfig)
		}
	}
	return nil
}
