package pbd

import "math"

// Driver prescribes the position of a kinematic particle as a function of
// elapsed simulation time. Implementations must be deterministic.
type Driver interface {
	Position(t float64, particles []Particle) Vec2
}

// Anchored is implemented by drivers that read another particle's position.
type Anchored interface {
	AnchorIndex() int
}

// Orbit moves a particle uniformly around a fixed centre.
type Orbit struct {
	Center          Vec2
	Radius          float64
	AngularVelocity float64
	Phase           float64
}

func (o Orbit) Position(t float64, _ []Particle) Vec2 {
	return circle(o.Center, o.Radius, o.AngularVelocity*t+o.Phase)
}

// Period returns the time for one revolution, or 0 when the orbit does not turn.
func (o Orbit) Period() float64 { return period(o.AngularVelocity) }

// AnchoredOrbit circles whatever position particle Anchor has when the driver runs.
type AnchoredOrbit struct {
	Anchor          int
	Radius          float64
	AngularVelocity float64
	Phase           float64
}

func (o AnchoredOrbit) Position(t float64, particles []Particle) Vec2 {
	return circle(particles[o.Anchor].Pos, o.Radius, o.AngularVelocity*t+o.Phase)
}

func (o AnchoredOrbit) AnchorIndex() int { return o.Anchor }

func (o AnchoredOrbit) Period() float64 { return period(o.AngularVelocity) }

func circle(c Vec2, r, angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{c.X + r*cos, c.Y + r*sin}
}

func period(omega float64) float64 {
	if omega == 0 {
		return 0
	}
	return 2 * math.Pi / math.Abs(omega)
}

// drive teleports every kinematic particle that has a driver to the driver's
// position at time t.
func drive(particles []Particle, drivers []Driver, t float64) {
	for i, d := range drivers {
		if d == nil || i >= len(particles) || particles[i].Mobility != Kinematic {
			continue
		}
		pos := d.Position(t, particles)
		particles[i].Pos = pos
		particles[i].Prev = pos
	}
}
