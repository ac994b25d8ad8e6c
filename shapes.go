package moonlight

import (
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r3"
)

// ShapeKind identifies the geometry of a floating shape.
type ShapeKind uint8

const (
	ShapePolyhedron ShapeKind = iota
	ShapeBox
	ShapeTorus
)

// String returns the kind name.
func (k ShapeKind) String() string {
	switch k {
	case ShapePolyhedron:
		return "polyhedron"
	case ShapeBox:
		return "box"
	case ShapeTorus:
		return "torus"
	default:
		return "unknown"
	}
}

// Torus tessellation. Coarser than a GPU mesh since faces are sorted on the CPU.
const (
	torusTube            = 0.4
	torusRadialSegments  = 8
	torusTubularSegments = 24
)

// targetJitter is the half-width of the first target around a new shape.
const targetJitter = 20

// Shape is a solid or wireframe mesh drifting toward a target while it spins.
type Shape struct {
	Kind          ShapeKind
	Position      r3.Vector
	Target        r3.Vector
	Rotation      r3.Vector // Euler angles, radians
	RotationSpeed r3.Vector // radians per tick
	MoveSpeed     float64   // fraction of the remaining distance covered per tick
	Wireframe     bool

	Color             Color
	Emissive          Color
	EmissiveIntensity float64

	Mesh *Mesh3D
}

// NewShape creates shape number index. Kinds cycle polyhedron, box, torus.
func NewShape(index int, cfg ShapeConfig, rng *rand.Rand) *Shape {
	kind := ShapeKind(index % 3)
	var mesh *Mesh3D
	switch kind {
	case ShapePolyhedron:
		mesh = NewIcosphere(rng.Float64()*2+1, 1)
	case ShapeBox:
		mesh = NewBox(rng.Float64()*2+1, rng.Float64()*2+1, rng.Float64()*2+1)
	case ShapeTorus:
		mesh = NewTorus(rng.Float64()*1.5+0.5, torusTube, torusRadialSegments, torusTubularSegments)
	}

	pos := shapeVolume(cfg).Random(rng)
	jitter := func() float64 { return (rng.Float64() - 0.5) * 2 * targetJitter }
	return &Shape{
		Kind:     kind,
		Position: pos,
		Target:   r3.Vector{X: pos.X + jitter(), Y: pos.Y + jitter(), Z: pos.Z + jitter()},
		RotationSpeed: r3.Vector{
			X: (rng.Float64() - 0.5) * 0.002,
			Y: (rng.Float64() - 0.5) * 0.002,
			Z: (rng.Float64() - 0.5) * 0.002,
		},
		MoveSpeed:         rng.Float64()*0.003 + 0.001,
		Wireframe:         rng.Float64() > 0.5,
		Color:             ColorHex(cfg.Color),
		Emissive:          ColorHex(cfg.Emissive),
		EmissiveIntensity: 0.4,
		Mesh:              mesh,
	}
}

func shapeVolume(cfg ShapeConfig) Bounds3 {
	return Symmetric(cfg.HalfSpanX, cfg.HalfSpanY, cfg.HalfSpanZ)
}

// update eases the shape toward its target, spins it, occasionally picks a
// new target and pulses the emissive intensity from the clock.
func (s *Shape) update(rng *rand.Rand, t, k float64, cfg ShapeConfig) {
	f := 1 - math.Pow(1-s.MoveSpeed, k)
	s.Position = s.Position.Add(s.Target.Sub(s.Position).Mul(f))
	s.Rotation = s.Rotation.Add(s.RotationSpeed.Mul(k))

	chance := cfg.Retarget
	if k != 1 {
		chance = 1 - math.Pow(1-cfg.Retarget, k)
	}
	if rng.Float64() < chance {
		s.Target = shapeVolume(cfg).Random(rng)
	}
	s.EmissiveIntensity = 0.3 + 0.2*math.Sin(t*0.5+s.Position.X)
}

// WorldVertex returns mesh vertex i rotated and translated into world space.
func (s *Shape) WorldVertex(i int) r3.Vector {
	return rotateEuler(s.Mesh.Vertices[i], s.Rotation).Add(s.Position)
}
