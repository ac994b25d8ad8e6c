package moonlight

import (
	"math"
	"testing"
)

func TestShapeKindsCycle(t *testing.T) {
	rng := newRand(1)
	cfg := DefaultConfig().Shapes
	want := []ShapeKind{ShapePolyhedron, ShapeBox, ShapeTorus, ShapePolyhedron, ShapeBox}
	for i, k := range want {
		if got := NewShape(i, cfg, rng).Kind; got != k {
			t.Errorf("shape %d kind = %v, want %v", i, got, k)
		}
	}
	if ShapeTorus.String() != "torus" || ShapeKind(9).String() != "unknown" {
		t.Error("ShapeKind.String mismatch")
	}
}

func TestNewShapeRanges(t *testing.T) {
	rng := newRand(2)
	cfg := DefaultConfig().Shapes
	vol := shapeVolume(cfg)
	for i := 0; i < 200; i++ {
		s := NewShape(i, cfg, rng)
		if !vol.Contains(s.Position) {
			t.Fatalf("shape %d at %v outside volume", i, s.Position)
		}
		d := s.Target.Sub(s.Position)
		if math.Abs(d.X) > targetJitter || math.Abs(d.Y) > targetJitter || math.Abs(d.Z) > targetJitter {
			t.Fatalf("shape %d target offset %v beyond %v", i, d, targetJitter)
		}
		if s.MoveSpeed < 0.001 || s.MoveSpeed >= 0.004 {
			t.Fatalf("shape %d move speed %v", i, s.MoveSpeed)
		}
		rs := s.RotationSpeed
		if math.Abs(rs.X) > 0.001 || math.Abs(rs.Y) > 0.001 || math.Abs(rs.Z) > 0.001 {
			t.Fatalf("shape %d rotation speed %v", i, rs)
		}
		if s.EmissiveIntensity != 0.4 {
			t.Fatalf("shape %d emissive %v, want 0.4", i, s.EmissiveIntensity)
		}
	}
}

func TestShapeApproachesTarget(t *testing.T) {
	rng := newRand(3)
	cfg := DefaultConfig().Shapes
	cfg.Retarget = 0
	s := NewShape(0, cfg, rng)
	before := s.Target.Sub(s.Position).Norm()
	s.update(rng, FixedStep, 1, cfg)
	after := s.Target.Sub(s.Position).Norm()
	if math.Abs(after-before*(1-s.MoveSpeed)) > 1e-9 {
		t.Errorf("distance %v -> %v, want factor %v", before, after, 1-s.MoveSpeed)
	}
}

func TestShapeSubstepsMatchTick(t *testing.T) {
	cfg := DefaultConfig().Shapes
	cfg.Retarget = 0
	a := NewShape(1, cfg, newRand(4))
	b := NewShape(1, cfg, newRand(4))
	rng := newRand(5)

	a.update(rng, FixedStep, 1, cfg)
	b.update(rng, FixedStep/2, 0.5, cfg)
	b.update(rng, FixedStep, 0.5, cfg)

	if a.Position.Sub(b.Position).Norm() > 1e-9 {
		t.Errorf("position %v vs %v", a.Position, b.Position)
	}
	if a.Rotation.Sub(b.Rotation).Norm() > 1e-12 {
		t.Errorf("rotation %v vs %v", a.Rotation, b.Rotation)
	}
}

func TestShapeRetargetStaysInVolume(t *testing.T) {
	rng := newRand(6)
	cfg := DefaultConfig().Shapes
	cfg.Retarget = 1
	s := NewShape(2, cfg, rng)
	vol := shapeVolume(cfg)
	for i := 0; i < 50; i++ {
		s.update(rng, float64(i)*FixedStep, 1, cfg)
		if !vol.Contains(s.Target) {
			t.Fatalf("target %v outside volume", s.Target)
		}
	}
}

func TestShapeEmissivePulse(t *testing.T) {
	rng := newRand(7)
	cfg := DefaultConfig().Shapes
	s := NewShape(0, cfg, rng)
	for i := 0; i < 500; i++ {
		tm := float64(i) * FixedStep
		s.update(rng, tm, 1, cfg)
		want := 0.3 + 0.2*math.Sin(tm*0.5+s.Position.X)
		if math.Abs(s.EmissiveIntensity-want) > 1e-12 {
			t.Fatalf("emissive %v, want %v", s.EmissiveIntensity, want)
		}
		if s.EmissiveIntensity < 0.1-epsilon || s.EmissiveIntensity > 0.5+epsilon {
			t.Fatalf("emissive %v outside [0.1, 0.5]", s.EmissiveIntensity)
		}
	}
}

func TestShapeWorldVertex(t *testing.T) {
	s := NewShape(1, DefaultConfig().Shapes, newRand(8))
	for i := range s.Mesh.Vertices {
		if got := s.WorldVertex(i); got.Sub(s.Position).Sub(s.Mesh.Vertices[i]).Norm() > epsilon {
			t.Fatalf("unrotated vertex %d = %v", i, got)
		}
	}
}
