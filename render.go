package moonlight

import (
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/golang/geo/r3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandPoint     CommandType = iota // filled circle (stars, particles, halos)
	CommandTriangles                    // DrawTriangles over the white pixel or a texture
	CommandLines                        // stroked segments (wireframes, bodies)
)

// color32 is a compact RGBA color using float32, for render commands only.
type color32 struct {
	R, G, B, A float32
}

func toColor32(c Color) color32 {
	return color32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

func (c color32) nrgba() color.NRGBA {
	return Color{float64(c.R), float64(c.G), float64(c.B), float64(c.A)}.NRGBA()
}

// RenderCommand is a single draw instruction emitted while walking the
// animation state. Commands are painted far to near.
type RenderCommand struct {
	Type      CommandType
	Depth     float64
	Color     color32
	BlendMode BlendMode

	// Point fields, in target pixels.
	X, Y, Radius float32
	// Stroke width for CommandLines, in target pixels.
	Width float32

	// Range into the renderer's vertex/index pools (CommandTriangles) or its
	// segment pool (CommandLines).
	start, end       int
	indStart, indEnd int
	image            *ebiten.Image

	order int // emission order for stable sort
}

// segment is one stroked line in target pixels.
type segment struct {
	x0, y0, x1, y1 float32
}

// Point sizes in world units.
const (
	starPointScale = 0.7
	minPointRadius = 0.5 // pixels
	moonSegments   = 48
	wireWidth      = 1.0 // pixels at pixel ratio 1
)

// renderer turns an AnimationState into sorted draw commands and submits them.
// Its buffers are reused across frames.
type renderer struct {
	commands []RenderCommand
	sortBuf  []RenderCommand
	verts    []ebiten.Vertex
	inds     []uint16
	segs     []segment
	order    int

	// scratch
	wing    []r3.Vector
	tris    []shadedTri
	triOp   ebiten.DrawTrianglesOptions
	bounds  Rect
	pxRatio float64
}

// shadedTri is a projected, lit triangle awaiting the per-shape depth sort.
type shadedTri struct {
	p     [3]Vec2
	depth float64
	c     Color
}

// --- White pixel source for untextured triangles ---

var whiteImage *ebiten.Image
var whiteSubImage *ebiten.Image

func ensureWhiteImage() *ebiten.Image {
	if whiteSubImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
		whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// build regenerates the command list for the current state.
func (r *renderer) build(s *AnimationState) {
	r.commands = r.commands[:0]
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
	r.segs = r.segs[:0]
	r.order = 0

	cam := s.Scene.Camera
	r.bounds = cam.Viewport
	r.pxRatio = s.Scene.Surface.PixelRatio
	if r.pxRatio <= 0 {
		r.pxRatio = 1
	}
	fog := s.Scene.Fog

	// Stars.
	st := s.Stars
	starColor := st.Color.WithAlpha(st.Opacity)
	for i := range st.Positions {
		r.emitPoint(cam, fog, st.Positions[i], st.Sizes[i]*starPointScale/2, starColor, BlendNormal, 0)
	}

	// Moon: glow shells behind the textured disc.
	r.emitMoon(s)

	// Shapes.
	for _, sh := range s.Shapes {
		if sh.Wireframe {
			r.emitWireframe(s.Scene, sh)
		} else {
			r.emitSolid(s.Scene, sh)
		}
	}

	// Butterflies.
	for _, b := range s.Butterflies {
		r.emitButterfly(s.Scene, b)
	}

	// Particle trail.
	if ps := s.Particles; ps != nil {
		pc := ps.Color.WithAlpha(ps.Opacity)
		for i := range ps.Positions {
			r.emitPoint(cam, fog, ps.Positions[i], ps.Size/2, pc, BlendNormal, 0)
		}
	}
}

func (r *renderer) push(cmd RenderCommand) {
	r.order++
	cmd.order = r.order
	r.commands = append(r.commands, cmd)
}

// emitPoint projects p and emits a disc of world radius, culled when it falls
// outside the viewport. bias pushes the sort depth back.
func (r *renderer) emitPoint(cam *PerspectiveCamera, fog Fog, p r3.Vector, radius float64, c Color, blend BlendMode, bias float64) {
	sx, sy, depth, ok := cam.Project(p)
	if !ok {
		return
	}
	pr := math.Max(minPointRadius*r.pxRatio, cam.ProjectedSize(radius, depth))
	if sx+pr < r.bounds.X || sx-pr > r.bounds.X+r.bounds.Width ||
		sy+pr < r.bounds.Y || sy-pr > r.bounds.Y+r.bounds.Height {
		return
	}
	c = fog.Apply(c, depth)
	r.push(RenderCommand{
		Type:      CommandPoint,
		Depth:     depth + bias,
		Color:     toColor32(c),
		BlendMode: blend,
		X:         float32(sx),
		Y:         float32(sy),
		Radius:    float32(pr),
	})
}

func (r *renderer) emitMoon(s *AnimationState) {
	m := s.Moon
	cam := s.Scene.Camera
	sx, sy, depth, ok := cam.Project(m.Position)
	if !ok {
		return
	}
	for i := len(m.Shells) - 1; i >= 0; i-- {
		sh := m.Shells[i]
		r.emitPoint(cam, s.Scene.Fog, m.Position, sh.Radius, m.Emissive.WithAlpha(sh.Opacity), BlendNormal, float64(i+1)*0.01)
	}
	img := m.image()
	if img == nil {
		return
	}
	pr := cam.ProjectedSize(m.Radius, depth)
	tint := s.Scene.Fog.Apply(ColorWhite.Mix(m.Emissive, m.EmissiveIntensity*0.35), depth)
	tw := float64(img.Bounds().Dx())
	th := float64(img.Bounds().Dy())

	start := len(r.verts)
	istart := len(r.inds)
	r.verts = append(r.verts, ebiten.Vertex{
		DstX: float32(sx), DstY: float32(sy),
		SrcX: float32(tw / 2), SrcY: float32(th / 2),
		ColorR: float32(tint.R), ColorG: float32(tint.G), ColorB: float32(tint.B), ColorA: 1,
	})
	for i := 0; i < moonSegments; i++ {
		a := float64(i) / moonSegments * 2 * math.Pi
		ta := a + m.Rotation
		r.verts = append(r.verts, ebiten.Vertex{
			DstX:   float32(sx + math.Cos(a)*pr),
			DstY:   float32(sy + math.Sin(a)*pr),
			SrcX:   float32(tw/2 + math.Cos(ta)*(tw/2-1)),
			SrcY:   float32(th/2 + math.Sin(ta)*(th/2-1)),
			ColorR: float32(tint.R), ColorG: float32(tint.G), ColorB: float32(tint.B), ColorA: 1,
		})
		next := uint16(1 + (i+1)%moonSegments)
		r.inds = append(r.inds, 0, uint16(1+i), next)
	}
	r.push(RenderCommand{
		Type:     CommandTriangles,
		Depth:    depth,
		start:    start,
		end:      len(r.verts),
		indStart: istart,
		indEnd:   len(r.inds),
		image:    img,
	})
}

func (r *renderer) emitSolid(sc *SceneContext, sh *Shape) {
	cam := sc.Camera
	r.tris = r.tris[:0]
	var sum float64
	for _, tri := range sh.Mesh.Triangles {
		a, b, c := sh.WorldVertex(int(tri[0])), sh.WorldVertex(int(tri[1])), sh.WorldVertex(int(tri[2]))
		var st shadedTri
		visible := true
		for k, p := range [3]r3.Vector{a, b, c} {
			x, y, d, ok := cam.Project(p)
			if !ok {
				visible = false
				break
			}
			st.p[k] = Vec2{x, y}
			st.depth += d / 3
		}
		if !visible {
			continue
		}
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		view := cam.Position.Sub(centroid).Normalize()
		lambert := 0.55 + 0.45*math.Abs(n.Dot(view))
		lit := sc.Illuminate(sh.Color, centroid, sh.Emissive, sh.EmissiveIntensity).Scale(lambert)
		st.c = sc.Fog.Apply(lit, st.depth)
		sum += st.depth
		r.tris = append(r.tris, st)
	}
	if len(r.tris) == 0 {
		return
	}
	slices.SortFunc(r.tris, func(x, y shadedTri) int {
		switch {
		case x.depth > y.depth:
			return -1
		case x.depth < y.depth:
			return 1
		}
		return 0
	})
	start := len(r.verts)
	istart := len(r.inds)
	for _, t := range r.tris {
		base := uint16(len(r.verts) - start)
		for _, p := range t.p {
			r.verts = append(r.verts, ebiten.Vertex{
				DstX: float32(p.X), DstY: float32(p.Y),
				SrcX: 1.5, SrcY: 1.5,
				ColorR: float32(t.c.R), ColorG: float32(t.c.G), ColorB: float32(t.c.B), ColorA: 1,
			})
		}
		r.inds = append(r.inds, base, base+1, base+2)
	}
	r.push(RenderCommand{
		Type:     CommandTriangles,
		Depth:    sum / float64(len(r.tris)),
		start:    start,
		end:      len(r.verts),
		indStart: istart,
		indEnd:   len(r.inds),
	})
}

func (r *renderer) emitWireframe(sc *SceneContext, sh *Shape) {
	cam := sc.Camera
	start := len(r.segs)
	var sum float64
	for _, e := range sh.Mesh.Edges {
		x0, y0, d0, ok0 := cam.Project(sh.WorldVertex(int(e[0])))
		x1, y1, d1, ok1 := cam.Project(sh.WorldVertex(int(e[1])))
		if !ok0 || !ok1 {
			continue
		}
		sum += (d0 + d1) / 2
		r.segs = append(r.segs, segment{float32(x0), float32(y0), float32(x1), float32(y1)})
	}
	n := len(r.segs) - start
	if n == 0 {
		return
	}
	depth := sum / float64(n)
	c := sc.Illuminate(sh.Color, sh.Position, sh.Emissive, sh.EmissiveIntensity)
	r.push(RenderCommand{
		Type:  CommandLines,
		Depth: depth,
		Color: toColor32(sc.Fog.Apply(c, depth)),
		Width: float32(wireWidth * r.pxRatio),
		start: start,
		end:   len(r.segs),
	})
}

func (r *renderer) emitButterfly(sc *SceneContext, b *Butterfly) {
	cam := sc.Camera
	_, _, depth, ok := cam.Project(b.Position)
	if !ok {
		return
	}
	for i, h := range b.Halos() {
		r.emitPoint(cam, sc.Fog, b.Position, h.Radius, h.Color.WithAlpha(h.Opacity), BlendNormal, float64(i+1)*0.01)
	}

	wing := sc.Fog.Apply(sc.Illuminate(b.Wing, b.Position, b.Glow, 0.9), depth).WithAlpha(0.9)
	start := len(r.verts)
	istart := len(r.inds)
	for _, side := range [2]float64{-1, 1} {
		r.wing = b.WingPolygon(side, r.wing)
		base := uint16(len(r.verts) - start)
		drawn := 0
		for _, p := range r.wing {
			x, y, _, ok := cam.Project(p)
			if !ok {
				break
			}
			r.verts = append(r.verts, ebiten.Vertex{
				DstX: float32(x), DstY: float32(y),
				SrcX: 1.5, SrcY: 1.5,
				ColorR: float32(wing.R), ColorG: float32(wing.G), ColorB: float32(wing.B), ColorA: float32(wing.A),
			})
			drawn++
		}
		if drawn != len(r.wing) {
			r.verts = r.verts[:start+int(base)]
			continue
		}
		for i := 1; i+1 < drawn; i++ {
			r.inds = append(r.inds, base, base+uint16(i), base+uint16(i+1))
		}
	}
	if len(r.inds) > istart {
		r.push(RenderCommand{
			Type:     CommandTriangles,
			Depth:    depth,
			start:    start,
			end:      len(r.verts),
			indStart: istart,
			indEnd:   len(r.inds),
		})
	}

	p0, p1 := b.BodyEnds()
	x0, y0, _, ok0 := cam.Project(p0)
	x1, y1, _, ok1 := cam.Project(p1)
	if !ok0 || !ok1 {
		return
	}
	body := sc.Fog.Apply(sc.Illuminate(b.Body, b.Position, b.BodyGlow, 0.7), depth)
	sstart := len(r.segs)
	r.segs = append(r.segs, segment{float32(x0), float32(y0), float32(x1), float32(y1)})
	r.push(RenderCommand{
		Type:  CommandLines,
		Depth: depth - 0.01,
		Color: toColor32(body),
		Width: float32(math.Max(1, cam.ProjectedSize(2*bodyRadius*b.Scale, depth))),
		start: sstart,
		end:   len(r.segs),
	})
}

// --- Merge sort ---

// commandLessOrEqual returns true if a should be painted before or together
// with b: farther first, then emission order for stability.
func commandLessOrEqual(a, b RenderCommand) bool {
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	return a.order <= b.order
}

// mergeSort sorts r.commands in-place using r.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (r *renderer) mergeSort() {
	n := len(r.commands)
	if n <= 1 {
		return
	}
	if cap(r.sortBuf) < n {
		r.sortBuf = make([]RenderCommand, n)
	}
	r.sortBuf = r.sortBuf[:n]

	a := r.commands
	b := r.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(r.commands, r.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []RenderCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}

// --- Submission ---

// submit draws the sorted commands into target and returns the draw call count.
func (r *renderer) submit(target *ebiten.Image) int {
	calls := 0
	for i := range r.commands {
		cmd := &r.commands[i]
		switch cmd.Type {
		case CommandPoint:
			vector.DrawFilledCircle(target, cmd.X, cmd.Y, cmd.Radius, cmd.Color.nrgba(), true)
			calls++
		case CommandLines:
			clr := cmd.Color.nrgba()
			for _, s := range r.segs[cmd.start:cmd.end] {
				vector.StrokeLine(target, s.x0, s.y0, s.x1, s.y1, cmd.Width, clr, true)
				calls++
			}
		case CommandTriangles:
			src := cmd.image
			if src == nil {
				src = ensureWhiteImage()
			}
			r.triOp.Blend = cmd.BlendMode.EbitenBlend()
			r.triOp.Filter = ebiten.FilterLinear
			target.DrawTriangles(r.verts[cmd.start:cmd.end], r.inds[cmd.indStart:cmd.indEnd], src, &r.triOp)
			calls++
		}
	}
	return calls
}
