package moonlight

import (
	"math/rand/v2"
)

// AnimationState holds every animated object and the clock they share. Only
// Advance writes per-object state; the input handlers write camera pose,
// pointer and scroll progress.
type AnimationState struct {
	Clock GlobalClock
	Scene *SceneContext

	Moon        *Moon
	Stars       *Starfield
	Shapes      []*Shape
	Butterflies []*Butterfly
	// Particles is nil when Counts.Particles is zero.
	Particles *ParticleSystem

	// Pointer is the last pointer position, normalized to [-1, 1] with +Y up.
	Pointer Vec2
	// ScrollProgress is the last scroll position in [0, 1].
	ScrollProgress float64

	Counts Counts

	cfg Config
	rng *rand.Rand
}

// NewAnimationState builds every object category for the given counts. rng is
// the only source of randomness; the same seed reproduces the same run.
func NewAnimationState(cfg Config, scene *SceneContext, counts Counts, rng *rand.Rand) *AnimationState {
	if scene == nil {
		panic("moonlight: NewAnimationState requires a scene")
	}
	if rng == nil {
		rng = newRand(0)
	}
	s := &AnimationState{
		Scene:  scene,
		Counts: counts,
		cfg:    cfg,
		rng:    rng,
	}
	s.Moon = NewMoon(cfg.Moon, rng)
	s.Stars = NewStarfield(counts.Stars, rng)
	s.Shapes = make([]*Shape, counts.Shapes)
	for i := range s.Shapes {
		s.Shapes[i] = NewShape(i, cfg.Shapes, rng)
	}
	s.Butterflies = make([]*Butterfly, counts.Butterflies)
	for i := range s.Butterflies {
		s.Butterflies[i] = NewButterfly(cfg.Butterfly, rng)
	}
	if counts.Particles > 0 {
		s.Particles = NewParticleSystem(counts.Particles, cfg.Particles, rng)
	}
	return s
}

// Config returns the configuration the state was built with.
func (s *AnimationState) Config() Config {
	return s.cfg
}

// Tick advances the simulation by one FixedStep.
func (s *AnimationState) Tick() {
	s.Advance(FixedStep)
}

// Advance moves every object forward by dt time units. Rates are defined per
// FixedStep, so Advance(FixedStep) is exactly one tick. Non-positive dt is a
// no-op.
func (s *AnimationState) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	k := dt / FixedStep
	s.Clock.Advance(dt)
	t := s.Clock.T

	for _, sh := range s.Shapes {
		sh.update(s.rng, t, k, s.cfg.Shapes)
	}
	for _, b := range s.Butterflies {
		b.update(k, s.cfg.Butterfly.Bound, s.cfg.Butterfly.Bounce)
	}
	if s.Particles != nil {
		s.Particles.update(s.rng, k)
	}
	s.Stars.update(s.rng, k)
	if p := s.Scene.Pipeline; p != nil {
		p.Oscillate(t)
	}
	s.Moon.update(k)
}
