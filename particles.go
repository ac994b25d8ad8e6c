package moonlight

import (
	"math/rand/v2"

	"github.com/golang/geo/r3"
)

// particleVolume is where trail particles are (re)spawned.
var particleVolume = Bounds3{
	X: Range{-100, 100},
	Y: Range{-100, 100},
	Z: Range{-30, 30},
}

// ParticleSystem is a fixed-capacity pool of drifting points stored as
// parallel slices. A slot whose life reaches zero is respawned in place, so
// Len never changes.
type ParticleSystem struct {
	Positions  []r3.Vector
	Velocities []r3.Vector // per tick
	Life       []float64   // 1 at spawn, respawned at <= 0

	Bounds  Bounds3
	Decay   float64 // life lost per tick
	Color   Color
	Opacity float64
	Size    float64 // world units
}

// NewParticleSystem fills count slots at random positions with random
// initial life so the pool does not respawn in lockstep.
func NewParticleSystem(count int, cfg ParticleConfig, rng *rand.Rand) *ParticleSystem {
	ps := &ParticleSystem{
		Positions:  make([]r3.Vector, count),
		Velocities: make([]r3.Vector, count),
		Life:       make([]float64, count),
		Bounds:     particleVolume,
		Decay:      cfg.Decay,
		Color:      ColorHex(cfg.Color),
		Opacity:    cfg.Opacity,
		Size:       cfg.Size,
	}
	for i := 0; i < count; i++ {
		ps.Positions[i] = ps.Bounds.Random(rng)
		ps.Velocities[i] = r3.Vector{Y: -cfg.Gravity}
		ps.Life[i] = rng.Float64()
	}
	return ps
}

// Len returns the pool capacity.
func (ps *ParticleSystem) Len() int {
	return len(ps.Life)
}

// update ages every slot. Expired slots are respawned with life exactly 1;
// the rest drift by their velocity.
func (ps *ParticleSystem) update(rng *rand.Rand, k float64) {
	for i := range ps.Life {
		ps.Life[i] -= ps.Decay * k
		if ps.Life[i] <= 0 {
			ps.respawn(i, rng)
			continue
		}
		ps.Positions[i] = ps.Positions[i].Add(ps.Velocities[i].Mul(k))
	}
}

func (ps *ParticleSystem) respawn(i int, rng *rand.Rand) {
	ps.Positions[i] = ps.Bounds.Random(rng)
	ps.Life[i] = 1
}
