package moonlight

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

// butterflyLimit is the furthest a butterfly may sit from the origin on X or Y
// right after a bounce.
const butterflyLimit = 80 / 0.9

func TestNewButterflyRanges(t *testing.T) {
	rng := newRand(1)
	cfg := DefaultConfig().Butterfly
	for i := 0; i < 200; i++ {
		b := NewButterfly(cfg, rng)
		if !butterflyVolume.Contains(b.Position) {
			t.Fatalf("butterfly %d at %v outside start volume", i, b.Position)
		}
		if b.Speed < 0.02 || b.Speed >= 0.05 {
			t.Fatalf("speed %v outside [0.02, 0.05)", b.Speed)
		}
		if b.Amplitude < 0.3 || b.Amplitude >= 0.8 {
			t.Fatalf("amplitude %v outside [0.3, 0.8)", b.Amplitude)
		}
	}
}

func TestButterflyContainment(t *testing.T) {
	rng := newRand(2)
	cfg := DefaultConfig().Butterfly
	bs := make([]*Butterfly, 12)
	for i := range bs {
		bs[i] = NewButterfly(cfg, rng)
	}
	for tick := 0; tick < 20000; tick++ {
		for i, b := range bs {
			b.update(1, cfg.Bound, cfg.Bounce)
			if math.Abs(b.Position.X) > butterflyLimit || math.Abs(b.Position.Y) > butterflyLimit {
				t.Fatalf("tick %d butterfly %d escaped: %v", tick, i, b.Position)
			}
		}
	}
}

func TestButterflyBounce(t *testing.T) {
	cfg := DefaultConfig().Butterfly
	b := NewButterfly(cfg, newRand(3))
	b.Position = r3.Vector{X: 85, Y: -90}
	b.update(1, cfg.Bound, cfg.Bounce)
	if b.Position.X >= 0 || math.Abs(b.Position.X) > cfg.Bound {
		t.Errorf("x = %v, want reflected inside the bound", b.Position.X)
	}
	if b.Position.Y <= 0 || math.Abs(b.Position.Y) > butterflyLimit {
		t.Errorf("y = %v, want reflected to positive", b.Position.Y)
	}
}

func TestButterflyMotionFormula(t *testing.T) {
	cfg := DefaultConfig().Butterfly
	b := NewButterfly(cfg, newRand(4))
	b.Position = r3.Vector{}
	tm := b.Time + b.Speed
	a := b.Amplitude
	b.update(1, cfg.Bound, cfg.Bounce)

	want := r3.Vector{
		X: math.Cos(tm*0.7) * a * 0.015,
		Y: math.Sin(tm) * a * 0.02,
		Z: math.Sin(tm*0.4) * a * 0.01,
	}
	if b.Position.Sub(want).Norm() > 1e-12 {
		t.Errorf("position = %v, want %v", b.Position, want)
	}
	if math.Abs(b.WingFold-math.Sin(tm*5)*0.6) > 1e-12 {
		t.Errorf("wing fold = %v", b.WingFold)
	}
	if math.Abs(b.Scale-(1+math.Sin(tm*2)*0.05)) > 1e-12 {
		t.Errorf("scale = %v", b.Scale)
	}
	v := b.Velocity()
	if math.Abs(b.Heading-(math.Atan2(v.X, v.Y)+math.Pi/2)) > 1e-12 {
		t.Errorf("heading = %v", b.Heading)
	}
}

func TestWingPolygonMirrored(t *testing.T) {
	b := NewButterfly(DefaultConfig().Butterfly, newRand(5))
	b.Position = r3.Vector{}
	b.Heading, b.WingFold, b.Scale = 0, 0, 1

	left := b.WingPolygon(-1, nil)
	right := b.WingPolygon(1, nil)
	if len(left) != 2*wingSamples || len(right) != len(left) {
		t.Fatalf("lengths = %d/%d, want %d", len(left), len(right), 2*wingSamples)
	}
	for i := range left {
		if math.Abs(left[i].X+right[i].X) > epsilon || math.Abs(left[i].Y-right[i].Y) > epsilon {
			t.Fatalf("point %d: %v is not the mirror of %v", i, left[i], right[i])
		}
	}
}

func TestWingPolygonReusesBuffer(t *testing.T) {
	b := NewButterfly(DefaultConfig().Butterfly, newRand(6))
	buf := make([]r3.Vector, 0, 2*wingSamples)
	out := b.WingPolygon(1, buf)
	if &out[0] != &buf[:1][0] {
		t.Error("WingPolygon should append into dst")
	}
}

func TestBodyAndHalosScale(t *testing.T) {
	b := NewButterfly(DefaultConfig().Butterfly, newRand(7))
	b.Scale = 1.05
	p0, p1 := b.BodyEnds()
	if got := p1.Sub(p0).Norm(); math.Abs(got-bodyLength*1.05) > epsilon {
		t.Errorf("body length = %v, want %v", got, bodyLength*1.05)
	}
	h := b.Halos()
	if math.Abs(h[0].Radius-3*1.05) > epsilon || math.Abs(h[1].Radius-4*1.05) > epsilon {
		t.Errorf("halos = %+v", h)
	}
	if butterflyHalos[0].Radius != 3 {
		t.Error("Halos must not modify the shared table")
	}
}
