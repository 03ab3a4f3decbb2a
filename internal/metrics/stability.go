package metrics

import (
	"github.com/san-kum/linksim/internal/pbd"
)

// Stability is the fraction of observations in which every link error stayed
// within threshold. An unobserved run counts as stable.
type Stability struct {
	threshold float64
	within    int
	samples   int
	streak    int
	longest   int
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold}
}

func (*Stability) Name() string { return "stability" }

func (s *Stability) Observe(w *pbd.World) {
	s.samples++
	if MaxStretch(w) > s.threshold {
		s.streak = 0
		return
	}
	s.within++
	s.streak++
	s.longest = max(s.longest, s.streak)
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1
	}
	return float64(s.within) / float64(s.samples)
}

// Longest is the longest run of consecutive observations within threshold.
func (s *Stability) Longest() int { return s.longest }

func (s *Stability) Reset() { *s = Stability{threshold: s.threshold} }
