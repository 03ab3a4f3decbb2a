package metrics

import (
	"github.com/san-kum/linksim/internal/pbd"
)

// KineticEnergy averages 0.5*|v|^2 summed over free particles, with unit mass
// and v taken as the last step's displacement.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(w *pbd.World) {
	e.total += Kinetic(w)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// Kinetic returns the instantaneous kinetic energy of the free particles of w.
func Kinetic(w *pbd.World) float64 {
	var ke float64
	w.EachParticle(func(i int, p pbd.Particle) {
		if p.Mobility != pbd.Free {
			return
		}
		v := p.Velocity()
		ke += 0.5 * (v.X*v.X + v.Y*v.Y)
	})
	return ke
}
