package moonlight

import (
	"math"

	"github.com/golang/geo/r3"
)

// PerspectiveCamera projects world-space points onto the render surface.
// It looks down the negative Z axis from Position, optionally tilted about X.
type PerspectiveCamera struct {
	// FOV is the vertical field of view in degrees.
	FOV float64
	// Aspect is width / height of the viewport.
	Aspect float64
	// Near and Far bound the visible depth range.
	Near, Far float64
	// Position is the world-space eye position.
	Position r3.Vector
	// Tilt is the rotation about the X axis in radians.
	Tilt float64
	// Viewport is the pixel rectangle the camera renders into.
	Viewport Rect

	focal   float64 // pixels per world unit at depth 1
	cosTilt float64
	sinTilt float64
	dirty   bool
}

// NewPerspectiveCamera creates a camera from cfg sized to a w×h viewport.
func NewPerspectiveCamera(cfg CameraConfig, w, h float64) *PerspectiveCamera {
	c := &PerspectiveCamera{
		FOV:      cfg.FOV,
		Near:     cfg.Near,
		Far:      cfg.Far,
		Position: r3.Vector{Z: cfg.Z},
	}
	c.SetViewport(w, h)
	return c
}

// SetViewport resizes the viewport and recomputes the aspect ratio.
func (c *PerspectiveCamera) SetViewport(w, h float64) {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	c.Viewport = Rect{Width: w, Height: h}
	c.Aspect = w / h
	c.dirty = true
}

// SetPosition moves the eye.
func (c *PerspectiveCamera) SetPosition(p r3.Vector) {
	c.Position = p
}

// SetTilt sets the rotation about X in radians.
func (c *PerspectiveCamera) SetTilt(rad float64) {
	if c.Tilt != rad {
		c.Tilt = rad
		c.dirty = true
	}
}

// MarkDirty forces the cached projection terms to be recomputed. Call it after
// writing FOV or Viewport directly.
func (c *PerspectiveCamera) MarkDirty() {
	c.dirty = true
}

func (c *PerspectiveCamera) update() {
	if !c.dirty {
		return
	}
	c.dirty = false
	half := c.FOV * math.Pi / 360
	c.focal = (c.Viewport.Height / 2) / math.Tan(half)
	c.cosTilt = math.Cos(-c.Tilt)
	c.sinTilt = math.Sin(-c.Tilt)
}

// ToView transforms a world-space point into camera space.
func (c *PerspectiveCamera) ToView(p r3.Vector) r3.Vector {
	c.update()
	v := p.Sub(c.Position)
	return r3.Vector{
		X: v.X,
		Y: v.Y*c.cosTilt - v.Z*c.sinTilt,
		Z: v.Y*c.sinTilt + v.Z*c.cosTilt,
	}
}

// Project maps a world-space point to viewport pixels. depth is the distance
// along the view axis. ok is false when the point lies outside [Near, Far].
func (c *PerspectiveCamera) Project(p r3.Vector) (sx, sy, depth float64, ok bool) {
	v := c.ToView(p)
	depth = -v.Z
	if depth < c.Near || depth > c.Far {
		return 0, 0, depth, false
	}
	s := c.focal / depth
	sx = c.Viewport.X + c.Viewport.Width/2 + v.X*s
	sy = c.Viewport.Y + c.Viewport.Height/2 - v.Y*s
	return sx, sy, depth, true
}

// ProjectedSize returns the on-screen size in pixels of a world-space length
// seen at the given depth.
func (c *PerspectiveCamera) ProjectedSize(length, depth float64) float64 {
	c.update()
	if depth <= 0 {
		return 0
	}
	return length * c.focal / depth
}
