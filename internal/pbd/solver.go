package pbd

// Solver relaxes distance constraints with sequential (Gauss-Seidel) passes:
// a correction made by one link is visible to every later link in the same
// pass. It always runs the full iteration count.
type Solver struct{}

func NewSolver() *Solver {
	return &Solver{}
}

func (Solver) Relax(particles []Particle, links []Constraint, iterations int) {
	for it := 0; it < iterations; it++ {
		for k := range links {
			relax(particles, links[k])
		}
	}
}

func relax(particles []Particle, c Constraint) {
	p1, p2 := &particles[c.I], &particles[c.J]
	delta := p2.Pos.Sub(p1.Pos)
	dist := delta.Len()
	if dist == 0 {
		return
	}

	diff := (dist - c.RestLength) / dist
	corr := delta.Scale(diff * 0.5)

	// The half split assumes two movers; a lone mover takes the full correction.
	switch fixed1, fixed2 := p1.Mobility.Immovable(), p2.Mobility.Immovable(); {
	case !fixed1 && !fixed2:
		p1.Pos = p1.Pos.Add(corr)
		p2.Pos = p2.Pos.Sub(corr)
	case fixed1 && !fixed2:
		p2.Pos = p2.Pos.Sub(corr.Scale(2))
	case !fixed1 && fixed2:
		p1.Pos = p1.Pos.Add(corr.Scale(2))
	}
}
