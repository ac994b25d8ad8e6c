package moonlight

import (
	"math"
	"testing"
)

func TestNewParticleSystem(t *testing.T) {
	cfg := DefaultConfig().Particles
	ps := NewParticleSystem(200, cfg, newRand(1))
	if ps.Len() != 200 {
		t.Fatalf("Len = %d, want 200", ps.Len())
	}
	for i := range ps.Life {
		if ps.Life[i] < 0 || ps.Life[i] >= 1 {
			t.Fatalf("slot %d life %v outside [0, 1)", i, ps.Life[i])
		}
		if !ps.Bounds.Contains(ps.Positions[i]) {
			t.Fatalf("slot %d at %v outside bounds", i, ps.Positions[i])
		}
		if v := ps.Velocities[i]; v.X != 0 || v.Z != 0 || v.Y != -cfg.Gravity {
			t.Fatalf("slot %d velocity %v", i, v)
		}
	}
}

func TestParticleRespawn(t *testing.T) {
	cfg := DefaultConfig().Particles
	rng := newRand(2)
	ps := NewParticleSystem(2, cfg, rng)
	ps.Life[0] = cfg.Decay / 2
	ps.Life[1] = 0.5
	y1 := ps.Positions[1].Y

	ps.update(rng, 1)

	if ps.Life[0] != 1 {
		t.Errorf("respawned life = %v, want exactly 1", ps.Life[0])
	}
	if !ps.Bounds.Contains(ps.Positions[0]) {
		t.Errorf("respawned at %v, outside bounds", ps.Positions[0])
	}
	if math.Abs(ps.Life[1]-(0.5-cfg.Decay)) > 1e-12 {
		t.Errorf("life = %v, want %v", ps.Life[1], 0.5-cfg.Decay)
	}
	if math.Abs(ps.Positions[1].Y-(y1-cfg.Gravity)) > 1e-12 {
		t.Errorf("y = %v, want %v", ps.Positions[1].Y, y1-cfg.Gravity)
	}
}

func TestParticleCountInvariant(t *testing.T) {
	cfg := DefaultConfig().Particles
	rng := newRand(3)
	ps := NewParticleSystem(60, cfg, rng)
	for tick := 0; tick < 1500; tick++ {
		ps.update(rng, 1)
		if ps.Len() != 60 || len(ps.Positions) != 60 || len(ps.Velocities) != 60 {
			t.Fatalf("tick %d: pool size changed", tick)
		}
		for i, l := range ps.Life {
			if l <= 0 || l > 1 {
				t.Fatalf("tick %d slot %d: life %v outside (0, 1]", tick, i, l)
			}
		}
	}
}

func TestParticleLargeStep(t *testing.T) {
	cfg := DefaultConfig().Particles
	rng := newRand(4)
	ps := NewParticleSystem(10, cfg, rng)
	for i := range ps.Life {
		ps.Life[i] = 0.3
	}
	// A step covering more than the remaining life respawns every slot.
	ps.update(rng, 0.3/cfg.Decay+1)
	for i, l := range ps.Life {
		if l != 1 {
			t.Errorf("slot %d life %v, want 1", i, l)
		}
	}
}
