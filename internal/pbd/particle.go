package pbd

import (
	"fmt"
	"strings"
)

// Mobility controls whether a particle is displaced by integration and solving.
type Mobility uint8

const (
	// Free particles are integrated and corrected by the solver.
	Free Mobility = iota
	// Fixed particles move only when teleported.
	Fixed
	// Kinematic particles move only by their driver or by teleport.
	Kinematic
)

func (m Mobility) String() string {
	switch m {
	case Free:
		return "free"
	case Fixed:
		return "fixed"
	case Kinematic:
		return "kinematic"
	default:
		return fmt.Sprintf("mobility(%d)", uint8(m))
	}
}

// Immovable reports whether the solver and integrator treat the particle as
// having infinite mass.
func (m Mobility) Immovable() bool { return m != Free }

// ParseMobility accepts the names produced by String, case-insensitively.
// The empty string parses as Free.
func ParseMobility(s string) (Mobility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "free":
		return Free, nil
	case "fixed", "pinned":
		return Fixed, nil
	case "kinematic", "driven":
		return Kinematic, nil
	}
	return Free, fmt.Errorf("unknown mobility: %q", s)
}

// Particle is a point mass. Velocity is implied by Pos - Prev.
type Particle struct {
	Pos      Vec2
	Prev     Vec2
	Mobility Mobility
}

// Velocity returns the displacement covered during the last step.
func (p Particle) Velocity() Vec2 { return p.Pos.Sub(p.Prev) }

// ParticleStore owns the particles of a world. Indices are assigned
// sequentially and stay valid until Clear.
type ParticleStore struct {
	items []Particle
}

// Add appends a particle at rest and returns its index.
func (s *ParticleStore) Add(pos Vec2, m Mobility) int {
	s.items = append(s.items, Particle{Pos: pos, Prev: pos, Mobility: m})
	return len(s.items) - 1
}

func (s *ParticleStore) Len() int { return len(s.items) }

func (s *ParticleStore) valid(i int) bool { return i >= 0 && i < len(s.items) }

// Get returns a copy of particle i.
func (s *ParticleStore) Get(i int) (Particle, error) {
	if !s.valid(i) {
		return Particle{}, outOfRange("particle", i, len(s.items))
	}
	return s.items[i], nil
}

func (s *ParticleStore) Position(i int) (Vec2, error) {
	if !s.valid(i) {
		return Vec2{}, outOfRange("position", i, len(s.items))
	}
	return s.items[i].Pos, nil
}

func (s *ParticleStore) Mobility(i int) (Mobility, error) {
	if !s.valid(i) {
		return Free, outOfRange("mobility", i, len(s.items))
	}
	return s.items[i].Mobility, nil
}

func (s *ParticleStore) SetMobility(i int, m Mobility) error {
	if !s.valid(i) {
		return outOfRange("set mobility", i, len(s.items))
	}
	s.items[i].Mobility = m
	return nil
}

// Teleport moves particle i to pos and discards its implied velocity.
func (s *ParticleStore) Teleport(i int, pos Vec2) error {
	if !s.valid(i) {
		return outOfRange("teleport", i, len(s.items))
	}
	s.items[i].Pos = pos
	s.items[i].Prev = pos
	return nil
}

func (s *ParticleStore) Clear() {
	s.items = s.items[:0]
}
