package moonlight

import (
	"math"

	"github.com/golang/geo/r3"
)

// Mesh3D is an indexed triangle mesh in local space. Edges lists every unique
// triangle edge for wireframe drawing.
type Mesh3D struct {
	Vertices  []r3.Vector
	Triangles [][3]uint16
	Edges     [][2]uint16
}

// buildEdges fills Edges from Triangles, dropping duplicates.
func (m *Mesh3D) buildEdges() {
	seen := make(map[[2]uint16]struct{}, len(m.Triangles)*3/2)
	m.Edges = m.Edges[:0]
	for _, tri := range m.Triangles {
		for i := 0; i < 3; i++ {
			a, b := tri[i], tri[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			key := [2]uint16{a, b}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			m.Edges = append(m.Edges, key)
		}
	}
}

// NewIcosphere returns an icosahedron of the given radius subdivided detail
// times, with every vertex pushed onto the sphere.
func NewIcosphere(radius float64, detail int) *Mesh3D {
	t := (1 + math.Sqrt(5)) / 2
	verts := []r3.Vector{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	tris := [][3]uint16{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	for d := 0; d < detail; d++ {
		mid := make(map[[2]uint16]uint16)
		midpoint := func(a, b uint16) uint16 {
			key := [2]uint16{min(a, b), max(a, b)}
			if idx, ok := mid[key]; ok {
				return idx
			}
			verts = append(verts, verts[a].Add(verts[b]).Mul(0.5))
			idx := uint16(len(verts) - 1)
			mid[key] = idx
			return idx
		}
		next := make([][3]uint16, 0, len(tris)*4)
		for _, tri := range tris {
			ab := midpoint(tri[0], tri[1])
			bc := midpoint(tri[1], tri[2])
			ca := midpoint(tri[2], tri[0])
			next = append(next,
				[3]uint16{tri[0], ab, ca},
				[3]uint16{tri[1], bc, ab},
				[3]uint16{tri[2], ca, bc},
				[3]uint16{ab, bc, ca},
			)
		}
		tris = next
	}
	for i, v := range verts {
		verts[i] = v.Normalize().Mul(radius)
	}
	m := &Mesh3D{Vertices: verts, Triangles: tris}
	m.buildEdges()
	return m
}

// NewBox returns an axis-aligned box centered on the origin.
func NewBox(w, h, d float64) *Mesh3D {
	x, y, z := w/2, h/2, d/2
	m := &Mesh3D{
		Vertices: []r3.Vector{
			{X: -x, Y: -y, Z: -z}, {X: x, Y: -y, Z: -z}, {X: x, Y: y, Z: -z}, {X: -x, Y: y, Z: -z},
			{X: -x, Y: -y, Z: z}, {X: x, Y: -y, Z: z}, {X: x, Y: y, Z: z}, {X: -x, Y: y, Z: z},
		},
		Triangles: [][3]uint16{
			{0, 2, 1}, {0, 3, 2}, // back
			{4, 5, 6}, {4, 6, 7}, // front
			{0, 1, 5}, {0, 5, 4}, // bottom
			{3, 7, 6}, {3, 6, 2}, // top
			{0, 4, 7}, {0, 7, 3}, // left
			{1, 2, 6}, {1, 6, 5}, // right
		},
	}
	m.buildEdges()
	return m
}

// NewTorus returns a torus in the XY plane with ring radius R and tube radius r.
func NewTorus(R, r float64, radialSegments, tubularSegments int) *Mesh3D {
	m := &Mesh3D{}
	for j := 0; j < radialSegments; j++ {
		v := float64(j) / float64(radialSegments) * 2 * math.Pi
		for i := 0; i < tubularSegments; i++ {
			u := float64(i) / float64(tubularSegments) * 2 * math.Pi
			m.Vertices = append(m.Vertices, r3.Vector{
				X: (R + r*math.Cos(v)) * math.Cos(u),
				Y: (R + r*math.Cos(v)) * math.Sin(u),
				Z: r * math.Sin(v),
			})
		}
	}
	idx := func(j, i int) uint16 {
		return uint16((j%radialSegments)*tubularSegments + i%tubularSegments)
	}
	for j := 0; j < radialSegments; j++ {
		for i := 0; i < tubularSegments; i++ {
			a, b := idx(j, i), idx(j+1, i)
			c, d := idx(j+1, i+1), idx(j, i+1)
			m.Triangles = append(m.Triangles, [3]uint16{a, b, d}, [3]uint16{b, c, d})
		}
	}
	m.buildEdges()
	return m
}

// rotateEuler rotates v by Euler angles applied in X, Y, Z order.
func rotateEuler(v, rot r3.Vector) r3.Vector {
	// Z
	cz, sz := math.Cos(rot.Z), math.Sin(rot.Z)
	v = r3.Vector{X: v.X*cz - v.Y*sz, Y: v.X*sz + v.Y*cz, Z: v.Z}
	// Y
	cy, sy := math.Cos(rot.Y), math.Sin(rot.Y)
	v = r3.Vector{X: v.X*cy + v.Z*sy, Y: v.Y, Z: -v.X*sy + v.Z*cy}
	// X
	cx, sx := math.Cos(rot.X), math.Sin(rot.X)
	return r3.Vector{X: v.X, Y: v.Y*cx - v.Z*sx, Z: v.Y*sx + v.Z*cx}
}
