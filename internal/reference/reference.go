// Package reference mirrors a world into a chipmunk space where every link
// is a rigid pin joint. Stepping both side by side shows how far the
// iterative solver drifts from a stiff impulse-based solution.
//
// Free particles get unit mass and carry over their Verlet velocity. Fixed
// particles, and kinematic
// particles without a driver, become anchors on the space's static body.
// The floor is not mirrored.
package reference

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/linksim/internal/metrics"
	"github.com/san-kum/linksim/internal/pbd"
)

var ErrDriven = errors.New("reference: driven particles cannot be mirrored")

const (
	iterations = 30
	mass       = 1.0
	radius     = 1.0
)

type Mirror struct {
	space  *cp.Space
	bodies []*cp.Body // nil for anchored particles
	anchor []pbd.Vec2
	links  [][2]int
	rest   []float64
}

// New builds the mirror of w. Pin joint lengths are taken from the current
// positions, so w should not have been stepped yet.
func New(w *pbd.World) (*Mirror, error) {
	p := w.Params()
	space := cp.NewSpace()
	space.Iterations = iterations
	space.SetGravity(cp.Vector{X: 0, Y: p.Gravity})
	space.SetDamping(p.Damping)

	n := w.ParticleCount()
	m := &Mirror{
		space:  space,
		bodies: make([]*cp.Body, n),
		anchor: make([]pbd.Vec2, n),
	}

	for i := 0; i < n; i++ {
		pt, err := w.Particle(i)
		if err != nil {
			return nil, err
		}
		if pt.Mobility == pbd.Kinematic {
			if d, _ := w.Driver(i); d != nil {
				return nil, fmt.Errorf("%w: particle %d", ErrDriven, i)
			}
		}
		if pt.Mobility != pbd.Free {
			m.anchor[i] = pt.Pos
			continue
		}

		body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
		body.SetPosition(cp.Vector{X: pt.Pos.X, Y: pt.Pos.Y})
		// chipmunk moves by the old velocity before applying gravity, so it
		// starts one velocity update ahead of the world's displacement.
		v := pt.Velocity().Scale(p.Damping).Add(pbd.Vec2{Y: p.Gravity})
		body.SetVelocity(v.X, v.Y)
		m.bodies[i] = space.AddBody(body)
	}

	w.EachConstraint(func(k int, c pbd.Constraint) {
		m.links = append(m.links, [2]int{c.I, c.J})
		m.rest = append(m.rest, c.RestLength)
		if m.bodies[c.I] == nil && m.bodies[c.J] == nil {
			return
		}
		a, anchorA := m.endpoint(c.I)
		b, anchorB := m.endpoint(c.J)
		space.AddConstraint(cp.NewPinJoint(a, b, anchorA, anchorB))
	})

	return m, nil
}

func (m *Mirror) endpoint(i int) (*cp.Body, cp.Vector) {
	if b := m.bodies[i]; b != nil {
		return b, cp.Vector{}
	}
	p := m.anchor[i]
	return m.space.StaticBody, cp.Vector{X: p.X, Y: p.Y}
}

// Step advances the mirror by one world step. Gravity and damping are
// per-step quantities in both, so the space always steps by one unit.
func (m *Mirror) Step() {
	m.space.Step(1)
}

func (m *Mirror) ParticleCount() int { return len(m.bodies) }

func (m *Mirror) Position(i int) (pbd.Vec2, error) {
	if i < 0 || i >= len(m.bodies) {
		return pbd.Vec2{}, &pbd.IndexError{Op: "reference position", Index: i, Len: len(m.bodies), Err: pbd.ErrOutOfRange}
	}
	b := m.bodies[i]
	if b == nil {
		return m.anchor[i], nil
	}
	v := b.Position()
	return pbd.Vec2{X: v.X, Y: v.Y}, nil
}

// MaxStretch is the largest |length - rest| over the mirrored links.
func (m *Mirror) MaxStretch() float64 {
	worst := 0.0
	for k, l := range m.links {
		a, _ := m.Position(l[0])
		b, _ := m.Position(l[1])
		worst = math.Max(worst, math.Abs(b.Sub(a).Len()-m.rest[k]))
	}
	return worst
}

// Deviation summarises how far a world drifts from its mirror.
type Deviation struct {
	Steps int
	// Max is the largest distance between a particle and its mirror.
	Max float64
	// Final is the RMS distance after the last step.
	Final      float64
	Stretch    float64
	RefStretch float64
}

// Compare mirrors w and steps both, recording how far they drift apart.
func Compare(w *pbd.World, steps int) (Deviation, error) {
	if steps <= 0 {
		return Deviation{}, fmt.Errorf("steps must be positive, got %d", steps)
	}
	m, err := New(w)
	if err != nil {
		return Deviation{}, err
	}

	var d Deviation
	n := m.ParticleCount()
	for s := 0; s < steps; s++ {
		w.Step()
		m.Step()
		d.Steps++

		sum := 0.0
		for i := 0; i < n; i++ {
			a, _ := w.Position(i)
			b, _ := m.Position(i)
			dist := a.Sub(b).Len()
			d.Max = math.Max(d.Max, dist)
			sum += dist * dist
		}
		if n > 0 {
			d.Final = math.Sqrt(sum / float64(n))
		}
	}

	d.Stretch = metrics.MaxStretch(w)
	d.RefStretch = m.MaxStretch()
	return d, nil
}
