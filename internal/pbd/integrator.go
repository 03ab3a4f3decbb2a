package pbd

// Integrator advances particles by one unit step.
type Integrator interface {
	Integrate(particles []Particle, p Params)
}

// Verlet is position Verlet with a per-step gravity increment. Velocity is
// never stored; it is recovered from Pos - Prev.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (Verlet) Integrate(particles []Particle, p Params) {
	for i := range particles {
		pt := &particles[i]
		if pt.Mobility != Free {
			continue
		}
		v := pt.Pos.Sub(pt.Prev)
		pt.Prev = pt.Pos
		pt.Pos = pt.Pos.Add(v.Scale(p.Damping))
		pt.Pos.Y += p.Gravity
	}
}
