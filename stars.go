package moonlight

import (
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r3"
)

// starVolume is where stars are scattered: a wide slab well behind the moon.
var starVolume = Bounds3{
	X: Range{-200, 200},
	Y: Range{-200, 200},
	Z: Range{-250, -50},
}

// starBaseSize is the range of per-star base sizes.
var starBaseSize = Range{0.5, 2.0}

// Starfield is a point cloud stored as parallel slices. Positions never
// change; Sizes is rewritten every tick from Phases and a fresh base drawn
// from the base-size range. BaseSizes holds the bases of the first frame.
type Starfield struct {
	Positions []r3.Vector
	// Original is an untouched copy of Positions.
	Original  []r3.Vector
	BaseSizes []float64
	Sizes     []float64
	Phases    []float64

	Color   Color
	Opacity float64
}

// NewStarfield scatters count stars with independent twinkle phases.
func NewStarfield(count int, rng *rand.Rand) *Starfield {
	s := &Starfield{
		Positions: make([]r3.Vector, count),
		Original:  make([]r3.Vector, count),
		BaseSizes: make([]float64, count),
		Sizes:     make([]float64, count),
		Phases:    make([]float64, count),
		Color:     ColorWhite,
		Opacity:   0.8,
	}
	for i := 0; i < count; i++ {
		s.Positions[i] = starVolume.Random(rng)
		s.BaseSizes[i] = starBaseSize.Random(rng)
		s.Phases[i] = rng.Float64() * 2 * math.Pi
		s.Sizes[i] = twinkleSize(s.BaseSizes[i], s.Phases[i])
	}
	copy(s.Original, s.Positions)
	return s
}

// Len returns the number of stars.
func (s *Starfield) Len() int {
	return len(s.Positions)
}

// update advances each phase by a small random increment and recomputes the
// displayed sizes with a new random base, so every star flickers across the
// whole size range.
func (s *Starfield) update(rng *rand.Rand, k float64) {
	for i := range s.Phases {
		s.Phases[i] += (0.01 + rng.Float64()*0.02) * k
		s.Sizes[i] = twinkleSize(starBaseSize.Random(rng), s.Phases[i])
	}
}

// twinkleSize scales base by 0.6..1.0 following the phase.
func twinkleSize(base, phase float64) float64 {
	twinkle := 0.5 + 0.5*math.Sin(phase)
	return base * (0.6 + 0.4*twinkle)
}
