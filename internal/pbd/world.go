package pbd

import (
	"fmt"
	"math"
)

const (
	DefaultGravity    = 0.5
	DefaultDamping    = 0.99
	DefaultIterations = 5
	DefaultTimeStep   = 1.0
	// LinkageIterations gives visibly rigid links for driven mechanisms.
	LinkageIterations = 20
	// EditorFloorY is the floor height of the interactive editor canvas.
	EditorFloorY = 600.0
)

// Params are the tuning constants of a world. Gravity and damping are
// per-step quantities tuned for one fixed frame cadence.
type Params struct {
	Gravity    float64
	Damping    float64
	Iterations int
	TimeStep   float64
	Floor      bool
	FloorY     float64
}

func DefaultParams() Params {
	return Params{
		Gravity:    DefaultGravity,
		Damping:    DefaultDamping,
		Iterations: DefaultIterations,
		TimeStep:   DefaultTimeStep,
	}
}

// WithFloor returns a copy of p with an inelastic floor at y.
func (p Params) WithFloor(y float64) Params {
	p.Floor = true
	p.FloorY = y
	return p
}

func (p Params) Validate() error {
	switch {
	case p.Iterations < 1:
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidParams, p.Iterations)
	case !(p.TimeStep > 0) || math.IsInf(p.TimeStep, 0):
		return fmt.Errorf("%w: time step must be positive, got %g", ErrInvalidParams, p.TimeStep)
	case !(p.Damping >= 0 && p.Damping <= 1):
		return fmt.Errorf("%w: damping must be within [0, 1], got %g", ErrInvalidParams, p.Damping)
	case math.IsNaN(p.Gravity) || math.IsInf(p.Gravity, 0):
		return fmt.Errorf("%w: gravity must be finite, got %g", ErrInvalidParams, p.Gravity)
	case p.Floor && (math.IsNaN(p.FloorY) || math.IsInf(p.FloorY, 0)):
		return fmt.Errorf("%w: floor must be finite, got %g", ErrInvalidParams, p.FloorY)
	}
	return nil
}

// World owns the particles, links, drivers and parameters of one simulation.
type World struct {
	params      Params
	particles   ParticleStore
	constraints ConstraintSet
	drivers     []Driver
	integrator  Integrator
	solver      *Solver
	elapsed     float64
}

func NewWorld(p Params) (*World, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &World{
		params:     p,
		integrator: NewVerlet(),
		solver:     NewSolver(),
	}, nil
}

func (w *World) Params() Params { return w.params }

func (w *World) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	w.params = p
	return nil
}

// Elapsed is the simulation time reached by the last Step.
func (w *World) Elapsed() float64 { return w.elapsed }

func (w *World) AddParticle(x, y float64, m Mobility) int {
	return w.particles.Add(Vec2{x, y}, m)
}

// AddConstraint links i and j at their current distance.
func (w *World) AddConstraint(i, j int) error {
	return w.constraints.Add(&w.particles, i, j)
}

func (w *World) SetMobility(i int, m Mobility) error {
	return w.particles.SetMobility(i, m)
}

// ToggleFixed unpins a fixed particle and pins any other.
func (w *World) ToggleFixed(i int) error {
	m, err := w.particles.Mobility(i)
	if err != nil {
		return err
	}
	if m == Fixed {
		return w.particles.SetMobility(i, Free)
	}
	return w.particles.SetMobility(i, Fixed)
}

// Teleport moves particle i without giving it velocity.
func (w *World) Teleport(i int, x, y float64) error {
	return w.particles.Teleport(i, Vec2{x, y})
}

// SetDriver attaches d to particle i. The driver only acts while the particle
// is Kinematic. A nil driver detaches.
func (w *World) SetDriver(i int, d Driver) error {
	n := w.particles.Len()
	if i < 0 || i >= n {
		return outOfRange("set driver", i, n)
	}
	if a, ok := d.(Anchored); ok {
		if idx := a.AnchorIndex(); idx < 0 || idx >= n {
			return outOfRange("driver anchor", idx, n)
		}
	}
	for len(w.drivers) <= i {
		w.drivers = append(w.drivers, nil)
	}
	w.drivers[i] = d
	return nil
}

// Driver returns the driver attached to particle i, if any.
func (w *World) Driver(i int) (Driver, error) {
	n := w.particles.Len()
	if i < 0 || i >= n {
		return nil, outOfRange("driver", i, n)
	}
	if i >= len(w.drivers) {
		return nil, nil
	}
	return w.drivers[i], nil
}

// Clear removes every particle, link and driver and rewinds time.
func (w *World) Clear() {
	w.particles.Clear()
	w.constraints.Clear()
	w.drivers = w.drivers[:0]
	w.elapsed = 0
}

// Step advances the simulation by one time step.
func (w *World) Step() {
	t := w.elapsed + w.params.TimeStep
	ps := w.particles.items

	drive(ps, w.drivers, t)
	w.integrator.Integrate(ps, w.params)
	w.solver.Relax(ps, w.constraints.items, w.params.Iterations)
	if w.params.Floor {
		clampFloor(ps, w.params.FloorY)
	}

	w.elapsed = t
}

func (w *World) ParticleCount() int { return w.particles.Len() }

func (w *World) ConstraintCount() int { return w.constraints.Len() }

func (w *World) Position(i int) (Vec2, error) { return w.particles.Position(i) }

func (w *World) Particle(i int) (Particle, error) { return w.particles.Get(i) }

func (w *World) Mobility(i int) (Mobility, error) { return w.particles.Mobility(i) }

func (w *World) Constraint(k int) (Constraint, error) { return w.constraints.Get(k) }

func (w *World) IsFixed(i int) (bool, error) {
	m, err := w.particles.Mobility(i)
	return m == Fixed, err
}

func (w *World) ConstraintEndpoints(k int) (int, int, error) {
	return w.constraints.Endpoints(k)
}

func (w *World) RestLength(k int) (float64, error) {
	return w.constraints.RestLength(k)
}

// Positions appends every particle position to dst and returns it.
func (w *World) Positions(dst []Vec2) []Vec2 {
	for _, p := range w.particles.items {
		dst = append(dst, p.Pos)
	}
	return dst
}

// EachConstraint calls fn for every link in solve order.
func (w *World) EachConstraint(fn func(k int, c Constraint)) {
	for k, c := range w.constraints.items {
		fn(k, c)
	}
}

// EachParticle calls fn for every particle in index order.
func (w *World) EachParticle(fn func(i int, p Particle)) {
	for i, p := range w.particles.items {
		fn(i, p)
	}
}
