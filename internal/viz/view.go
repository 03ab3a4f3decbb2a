package viz

import (
	"math"

	"github.com/san-kum/linksim/internal/pbd"
)

// Viewport maps world coordinates onto canvas sub-pixels with a uniform
// scale. Both spaces have y growing downward.
type Viewport struct {
	MinX, MinY float64
	Scale      float64
	OffX, OffY float64
}

// Bounds is an axis-aligned world rectangle.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

func (b Bounds) include(p pbd.Vec2) Bounds {
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
	return b
}

// SceneBounds returns the box around every particle, grown on each side by
// the larger of its extents so swinging chains stay in view, and stretched
// down to the floor when the world has one. ok is false for an empty world.
func SceneBounds(w *pbd.World) (b Bounds, ok bool) {
	if w.ParticleCount() == 0 {
		return Bounds{}, false
	}
	first, _ := w.Position(0)
	b = Bounds{MinX: first.X, MinY: first.Y, MaxX: first.X, MaxY: first.Y}
	w.EachParticle(func(i int, p pbd.Particle) {
		b = b.include(p.Pos)
	})

	margin := math.Max(b.Width(), b.Height())
	if margin == 0 {
		margin = 50
	}
	b.MinX -= margin
	b.MinY -= margin
	b.MaxX += margin
	b.MaxY += margin

	if p := w.Params(); p.Floor {
		b.MaxY = math.Max(b.MaxY, p.FloorY)
	}
	return b, true
}

// EditorWidth is the world width shown while a world has no particles.
const EditorWidth = 800.0

// EmptyBounds is the frame of an empty world: the editor canvas from the
// origin down to the floor, or to pbd.EditorFloorY without one.
func EmptyBounds(w *pbd.World) Bounds {
	b := Bounds{MaxX: EditorWidth, MaxY: pbd.EditorFloorY}
	if p := w.Params(); p.Floor && p.FloorY > 0 {
		b.MaxY = p.FloorY
	}
	return b
}

// Fit centres b in a canvas of cw x ch sub-pixels.
func Fit(b Bounds, cw, ch int) Viewport {
	bw, bh := b.Width(), b.Height()
	if bw <= 0 {
		bw = 1
	}
	if bh <= 0 {
		bh = 1
	}
	scale := math.Min(float64(cw-1)/bw, float64(ch-1)/bh)
	return Viewport{
		MinX:  b.MinX,
		MinY:  b.MinY,
		Scale: scale,
		OffX:  (float64(cw-1) - bw*scale) / 2,
		OffY:  (float64(ch-1) - bh*scale) / 2,
	}
}

func (v Viewport) ToCanvas(p pbd.Vec2) (int, int) {
	x := (p.X-v.MinX)*v.Scale + v.OffX
	y := (p.Y-v.MinY)*v.Scale + v.OffY
	return int(math.Round(x)), int(math.Round(y))
}

func (v Viewport) ToWorld(x, y int) pbd.Vec2 {
	if v.Scale == 0 {
		return pbd.Vec2{}
	}
	return pbd.Vec2{
		X: (float64(x)-v.OffX)/v.Scale + v.MinX,
		Y: (float64(y)-v.OffY)/v.Scale + v.MinY,
	}
}

// DrawWorld renders links as lines, fixed particles as solid squares,
// kinematic ones as crosses and free ones as single dots. The selected
// particle, if any, is boxed.
func DrawWorld(c *Canvas, w *pbd.World, v Viewport, selected int) {
	if p := w.Params(); p.Floor {
		_, fy := v.ToCanvas(pbd.Vec2{Y: p.FloorY})
		c.DrawLine(0, fy, c.SubWidth()-1, fy)
	}

	w.EachConstraint(func(k int, ct pbd.Constraint) {
		a, errA := w.Position(ct.I)
		b, errB := w.Position(ct.J)
		if errA != nil || errB != nil {
			return
		}
		x0, y0 := v.ToCanvas(a)
		x1, y1 := v.ToCanvas(b)
		c.DrawLine(x0, y0, x1, y1)
	})

	w.EachParticle(func(i int, p pbd.Particle) {
		x, y := v.ToCanvas(p.Pos)
		switch p.Mobility {
		case pbd.Fixed:
			c.Fill(x, y, 1)
		case pbd.Kinematic:
			c.Cross(x, y, 2)
		default:
			c.Set(x, y)
		}
		if i == selected {
			c.Box(x, y, 3)
		}
	})
}

// Nearest returns the particle closest to p within radius, or -1.
func Nearest(w *pbd.World, p pbd.Vec2, radius float64) int {
	best, bestDist := -1, radius
	w.EachParticle(func(i int, pt pbd.Particle) {
		if d := pt.Pos.Dist(p); d <= bestDist {
			best, bestDist = i, d
		}
	})
	return best
}
