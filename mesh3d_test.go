package moonlight

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func checkOutward(t *testing.T, m *Mesh3D) {
	t.Helper()
	for i, tri := range m.Triangles {
		a, b, c := m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		if n.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d %v faces inward", i, tri)
		}
	}
}

func TestIcosphereBase(t *testing.T) {
	m := NewIcosphere(2, 0)
	if len(m.Vertices) != 12 || len(m.Triangles) != 20 || len(m.Edges) != 30 {
		t.Errorf("counts = %d/%d/%d, want 12/20/30", len(m.Vertices), len(m.Triangles), len(m.Edges))
	}
	checkOutward(t, m)
}

func TestIcosphereSubdivided(t *testing.T) {
	m := NewIcosphere(3, 1)
	if len(m.Vertices) != 42 || len(m.Triangles) != 80 || len(m.Edges) != 120 {
		t.Errorf("counts = %d/%d/%d, want 42/80/120", len(m.Vertices), len(m.Triangles), len(m.Edges))
	}
	for i, v := range m.Vertices {
		if math.Abs(v.Norm()-3) > epsilon {
			t.Fatalf("vertex %d at radius %v, want 3", i, v.Norm())
		}
	}
	checkOutward(t, m)
}

func TestBoxMesh(t *testing.T) {
	m := NewBox(2, 4, 6)
	if len(m.Vertices) != 8 || len(m.Triangles) != 12 {
		t.Fatalf("counts = %d/%d, want 8/12", len(m.Vertices), len(m.Triangles))
	}
	// 12 box edges plus one diagonal per face.
	if len(m.Edges) != 18 {
		t.Errorf("edges = %d, want 18", len(m.Edges))
	}
	for _, v := range m.Vertices {
		if math.Abs(v.X) != 1 || math.Abs(v.Y) != 2 || math.Abs(v.Z) != 3 {
			t.Fatalf("vertex %v not on the box corners", v)
		}
	}
	checkOutward(t, m)
}

func TestTorusMesh(t *testing.T) {
	m := NewTorus(2, 0.4, 8, 24)
	if len(m.Vertices) != 192 || len(m.Triangles) != 384 || len(m.Edges) != 576 {
		t.Errorf("counts = %d/%d/%d, want 192/384/576", len(m.Vertices), len(m.Triangles), len(m.Edges))
	}
	for i, v := range m.Vertices {
		ring := math.Hypot(v.X, v.Y) - 2
		if d := math.Hypot(ring, v.Z); math.Abs(d-0.4) > epsilon {
			t.Fatalf("vertex %d is %v from the ring, want 0.4", i, d)
		}
	}
}

func TestEdgesUnique(t *testing.T) {
	m := NewTorus(1, 0.3, 4, 6)
	seen := map[[2]uint16]bool{}
	for _, e := range m.Edges {
		if e[0] >= e[1] {
			t.Fatalf("edge %v not normalized", e)
		}
		if seen[e] {
			t.Fatalf("edge %v duplicated", e)
		}
		seen[e] = true
	}
}

func TestRotateEuler(t *testing.T) {
	v := r3.Vector{X: 1}
	got := rotateEuler(v, r3.Vector{Z: math.Pi / 2})
	if math.Abs(got.X) > epsilon || math.Abs(got.Y-1) > epsilon {
		t.Errorf("Z quarter turn = %v, want (0, 1, 0)", got)
	}
	got = rotateEuler(v, r3.Vector{Y: math.Pi / 2})
	if math.Abs(got.X) > epsilon || math.Abs(got.Z+1) > epsilon {
		t.Errorf("Y quarter turn = %v, want (0, 0, -1)", got)
	}
	p := r3.Vector{X: 1, Y: 2, Z: 3}
	if got := rotateEuler(p, r3.Vector{X: 0.3, Y: 1.1, Z: -2}); math.Abs(got.Norm()-p.Norm()) > epsilon {
		t.Errorf("rotation changed length: %v -> %v", p.Norm(), got.Norm())
	}
}
