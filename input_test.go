package moonlight

import (
	"math"
	"testing"
)

func TestPointerMoveNormalizes(t *testing.T) {
	s := newTestState(t, 1000, 500, false, 1)
	tests := []struct {
		x, y float64
		want Vec2
	}{
		{0, 0, Vec2{-1, 1}},
		{1000, 500, Vec2{1, -1}},
		{500, 250, Vec2{0, 0}},
		{750, 125, Vec2{0.5, 0.5}},
	}
	for _, tt := range tests {
		s.PointerMove(tt.x, tt.y)
		if math.Abs(s.Pointer.X-tt.want.X) > epsilon || math.Abs(s.Pointer.Y-tt.want.Y) > epsilon {
			t.Errorf("PointerMove(%v, %v) = %+v, want %+v", tt.x, tt.y, s.Pointer, tt.want)
		}
	}
}

func TestScrollProgressClamped(t *testing.T) {
	s := newTestState(t, 1920, 1000, false, 1)
	tests := []struct{ offset, doc, want float64 }{
		{0, 5000, 0},
		{2000, 5000, 0.5},
		{4000, 5000, 1},
		{9000, 5000, 1},
		{-50, 5000, 0},
		{300, 1000, 0},
		{300, 400, 0},
	}
	for _, tt := range tests {
		s.Scroll(tt.offset, tt.doc)
		if math.Abs(s.ScrollProgress-tt.want) > epsilon {
			t.Errorf("Scroll(%v, %v) progress = %v, want %v", tt.offset, tt.doc, s.ScrollProgress, tt.want)
		}
	}
}

func TestScrollMovesCamera(t *testing.T) {
	s := newTestState(t, 1920, 1000, false, 1)
	cfg := s.Config()
	s.Scroll(2000, 5000)
	cam := s.Scene.Camera
	if math.Abs(cam.Position.Z-(cfg.Camera.Z+cfg.Camera.ScrollZoom*0.5)) > epsilon {
		t.Errorf("camera z = %v", cam.Position.Z)
	}
	if math.Abs(cam.Tilt-cfg.Camera.ScrollTilt*0.5) > epsilon {
		t.Errorf("tilt = %v", cam.Tilt)
	}
	s.Scroll(0, 5000)
	if cam.Position.Z != cfg.Camera.Z || cam.Tilt != 0 {
		t.Errorf("scroll back should restore the camera, got z=%v tilt=%v", cam.Position.Z, cam.Tilt)
	}
}

func TestScrollBoostsBloomAndShapes(t *testing.T) {
	s := newTestState(t, 1920, 1000, false, 1)
	for i := 0; i < 10; i++ {
		s.Tick()
	}
	tm := s.Clock.T
	s.Scroll(4000, 5000)
	p := s.Scene.Pipeline
	want := 1.6 + 0.4*math.Sin(0.3*tm) + 0.3
	if math.Abs(p.Strength-want) > epsilon {
		t.Errorf("strength = %v, want %v", p.Strength, want)
	}
	for i, sh := range s.Shapes {
		want := 0.3 + 0.2*math.Sin(tm*0.5+5+float64(i))
		if math.Abs(sh.EmissiveIntensity-want) > epsilon {
			t.Errorf("shape %d emissive = %v, want %v", i, sh.EmissiveIntensity, want)
		}
	}
}

func TestScrollWithoutPipeline(t *testing.T) {
	s := newTestState(t, 1920, 1000, true, 1)
	if s.Scene.Pipeline != nil {
		t.Fatal("expected reduced scene")
	}
	// Must not panic without the bloom pipeline.
	s.Scroll(1000, 5000)
	if math.Abs(s.ScrollProgress-0.25) > epsilon {
		t.Errorf("progress = %v, want 0.25", s.ScrollProgress)
	}
}

func TestTickReplacesScrollBoost(t *testing.T) {
	s := newTestState(t, 1920, 1000, false, 1)
	s.Scroll(4000, 5000)
	p := s.Scene.Pipeline
	boosted := 1.6 + 0.4*math.Sin(0.3*s.Clock.T) + 0.3
	if math.Abs(p.Strength-boosted) > epsilon {
		t.Fatalf("strength after scroll = %v, want %v", p.Strength, boosted)
	}
	s.Tick()
	want := 1.6 + 0.4*math.Sin(0.3*s.Clock.T)
	if math.Abs(p.Strength-want) > epsilon {
		t.Errorf("strength after tick = %v, want %v", p.Strength, want)
	}
	if s.ScrollProgress != 1 {
		t.Errorf("progress = %v, want 1 kept across the tick", s.ScrollProgress)
	}
}

func TestStateResize(t *testing.T) {
	s := newTestState(t, 1920, 1080, false, 1)
	s.Resize(800, 600)
	if s.Scene.Surface.Width != 800 || s.Scene.Camera.Viewport.Height != 600 {
		t.Errorf("surface %+v camera %+v", s.Scene.Surface, s.Scene.Camera.Viewport)
	}
	s.PointerMove(800, 0)
	if math.Abs(s.Pointer.X-1) > epsilon {
		t.Errorf("pointer x = %v after resize, want 1", s.Pointer.X)
	}
}
