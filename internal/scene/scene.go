// Package scene describes the initial contents of a world: particles, links
// and kinematic drivers, either listed explicitly or generated by a builder.
package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/linksim/internal/pbd"
)

const (
	KindCustom   = "custom"
	KindRope     = "rope"
	KindCloth    = "cloth"
	KindCrank    = "crank"
	KindPendulum = "pendulum"
)

// ErrUnreachable is returned when crank link lengths cannot close the loop.
var ErrUnreachable = errors.New("scene: linkage cannot be assembled")

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ParticleSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Mobility string  `yaml:"mobility,omitempty"`
}

// DriverSpec attaches an orbit driver to a particle. With Anchor set the
// orbit follows that particle instead of the fixed centre.
type DriverSpec struct {
	Particle        int     `yaml:"particle"`
	Anchor          *int    `yaml:"anchor,omitempty"`
	CenterX         float64 `yaml:"center_x,omitempty"`
	CenterY         float64 `yaml:"center_y,omitempty"`
	Radius          float64 `yaml:"radius"`
	AngularVelocity float64 `yaml:"angular_velocity"`
	Phase           float64 `yaml:"phase,omitempty"`
}

// Scene is either a builder kind with its parameters or an explicit list.
// Explicit particles, links and drivers are appended after the builder's own.
type Scene struct {
	Kind   string `yaml:"kind"`
	Origin Point  `yaml:"origin"`

	Count    int     `yaml:"count,omitempty"`
	Cols     int     `yaml:"cols,omitempty"`
	Rows     int     `yaml:"rows,omitempty"`
	Spacing  float64 `yaml:"spacing,omitempty"`
	PinEvery int     `yaml:"pin_every,omitempty"`

	Radius          float64 `yaml:"radius,omitempty"`
	Coupler         float64 `yaml:"coupler,omitempty"`
	Rocker          float64 `yaml:"rocker,omitempty"`
	Ground          float64 `yaml:"ground,omitempty"`
	AngularVelocity float64 `yaml:"angular_velocity,omitempty"`

	Particles []ParticleSpec `yaml:"particles,omitempty"`
	Links     [][2]int       `yaml:"links,omitempty"`
	Drivers   []DriverSpec   `yaml:"drivers,omitempty"`
}

// Expand resolves the builder kind into an explicit custom scene.
func (s Scene) Expand() (Scene, error) {
	var base Scene
	var err error

	switch s.Kind {
	case "", KindCustom:
		base = Scene{Kind: KindCustom}
	case KindRope:
		base, err = Rope(s.Origin, s.Count, s.Spacing)
	case KindCloth:
		base, err = Cloth(s.Origin, s.Cols, s.Rows, s.Spacing, s.PinEvery)
	case KindCrank:
		base, err = Crank(s.Origin, s.Radius, s.Coupler, s.Rocker, s.Ground, s.AngularVelocity)
	case KindPendulum:
		base, err = Pendulum(s.Origin, s.Radius)
	default:
		return Scene{}, fmt.Errorf("scene: unknown kind %q", s.Kind)
	}
	if err != nil {
		return Scene{}, err
	}

	offset := len(base.Particles)
	base.Particles = append(base.Particles, s.Particles...)
	for _, l := range s.Links {
		base.Links = append(base.Links, [2]int{l[0] + offset, l[1] + offset})
	}
	for _, d := range s.Drivers {
		d.Particle += offset
		if d.Anchor != nil {
			a := *d.Anchor + offset
			d.Anchor = &a
		}
		base.Drivers = append(base.Drivers, d)
	}
	return base, nil
}

// Build adds the scene to w through the world's public surface.
func (s Scene) Build(w *pbd.World) error {
	ex, err := s.Expand()
	if err != nil {
		return err
	}

	base := w.ParticleCount()
	for i, p := range ex.Particles {
		m, err := pbd.ParseMobility(p.Mobility)
		if err != nil {
			return fmt.Errorf("scene: particle %d: %w", i, err)
		}
		w.AddParticle(p.X, p.Y, m)
	}
	for k, l := range ex.Links {
		if err := w.AddConstraint(base+l[0], base+l[1]); err != nil {
			return fmt.Errorf("scene: link %d: %w", k, err)
		}
	}
	for k, d := range ex.Drivers {
		if err := w.SetDriver(base+d.Particle, d.driver(base)); err != nil {
			return fmt.Errorf("scene: driver %d: %w", k, err)
		}
	}
	return nil
}

func (d DriverSpec) driver(base int) pbd.Driver {
	if d.Anchor != nil {
		return pbd.AnchoredOrbit{
			Anchor:          base + *d.Anchor,
			Radius:          d.Radius,
			AngularVelocity: d.AngularVelocity,
			Phase:           d.Phase,
		}
	}
	return pbd.Orbit{
		Center:          pbd.Vec2{X: d.CenterX, Y: d.CenterY},
		Radius:          d.Radius,
		AngularVelocity: d.AngularVelocity,
		Phase:           d.Phase,
	}
}

// DriverPeriod returns the shortest revolution period among the scene's
// drivers, or 0 if nothing is driven.
func (s Scene) DriverPeriod() float64 {
	ex, err := s.Expand()
	if err != nil {
		return 0
	}
	best := 0.0
	for _, d := range ex.Drivers {
		if d.AngularVelocity == 0 {
			continue
		}
		p := 2 * math.Pi / math.Abs(d.AngularVelocity)
		if best == 0 || p < best {
			best = p
		}
	}
	return best
}
