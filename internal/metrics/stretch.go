package metrics

import (
	"math"

	"github.com/san-kum/linksim/internal/pbd"
)

// MaxStretch returns the largest |distance - rest length| over all links of w.
func MaxStretch(w *pbd.World) float64 {
	var worst float64
	w.EachConstraint(func(k int, c pbd.Constraint) {
		a, errA := w.Position(c.I)
		b, errB := w.Position(c.J)
		if errA != nil || errB != nil {
			return
		}
		if e := math.Abs(a.Dist(b) - c.RestLength); e > worst {
			worst = e
		}
	})
	return worst
}

// Stretch reports the worst link error seen over a run.
type Stretch struct {
	name  string
	worst float64
	last  float64
}

func NewStretch() *Stretch {
	return &Stretch{name: "max_stretch"}
}

func (s *Stretch) Name() string { return s.name }

func (s *Stretch) Observe(w *pbd.World) {
	s.last = MaxStretch(w)
	if s.last > s.worst {
		s.worst = s.last
	}
}

func (s *Stretch) Value() float64 { return s.worst }

// Last is the link error at the most recent observation.
func (s *Stretch) Last() float64 { return s.last }

func (s *Stretch) Reset() {
	s.worst = 0
	s.last = 0
}
