package metrics

import (
	"fmt"

	"github.com/san-kum/linksim/internal/pbd"
)

// Travel accumulates the path length covered by one particle.
type Travel struct {
	name     string
	particle int
	last     pbd.Vec2
	started  bool
	sum      float64
}

func NewTravel(particle int) *Travel {
	return &Travel{
		name:     fmt.Sprintf("travel_%d", particle),
		particle: particle,
	}
}

func (t *Travel) Name() string {
	return t.name
}

func (t *Travel) Observe(w *pbd.World) {
	p, err := w.Position(t.particle)
	if err != nil {
		return
	}
	if t.started {
		t.sum += p.Dist(t.last)
	}
	t.last = p
	t.started = true
}

func (t *Travel) Value() float64 {
	return t.sum
}

func (t *Travel) Reset() {
	t.sum = 0
	t.started = false
}
