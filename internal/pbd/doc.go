// Package pbd implements a frame-stepped 2D position-based dynamics engine.
//
// Point masses are advanced with Verlet integration (velocity is implied by
// the difference between the current and previous position) and connected by
// rigid-length links that are relaxed iteratively toward their rest length:
//
//   - [ParticleStore]: ordered particles and their [Mobility]
//   - [ConstraintSet]: distance links with immutable rest lengths
//   - [Integrator]: Verlet advance of free particles with gravity and damping
//   - [Driver]: prescribed motion for kinematic particles
//   - [Solver]: Gauss-Seidel relaxation of all links
//   - [World]: owns the above and sequences them once per [World.Step]
//
// # Example
//
//	w, err := pbd.NewWorld(pbd.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	a := w.AddParticle(0, 0, pbd.Fixed)
//	b := w.AddParticle(100, 0, pbd.Free)
//	_ = w.AddConstraint(a, b)
//	for i := 0; i < 60; i++ {
//	    w.Step()
//	}
//	p, _ := w.Position(b)
//
// # Thread Safety
//
// A World is NOT safe for concurrent use. Run independent worlds on separate
// goroutines instead of sharing one.
package pbd
