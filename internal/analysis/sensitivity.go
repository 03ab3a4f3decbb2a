package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/linksim/internal/pbd"
)

// Sensitivity estimates how fast a small displacement of one particle grows.
// build must return identical worlds on every call. The first world runs
// unchanged; in the second, particle is shifted by eps along x. The result is
// ln(d(T)/eps)/T, where d is the RMS separation over all particles after
// steps steps and T the elapsed time. Positive values mean nearby states
// diverge; negative values mean the constraints pull them back together.
func Sensitivity(build func() (*pbd.World, error), particle int, eps float64, steps int) (float64, error) {
	if eps <= 0 {
		return 0, fmt.Errorf("perturbation must be positive, got %g", eps)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("steps must be positive, got %d", steps)
	}

	a, err := build()
	if err != nil {
		return 0, err
	}
	b, err := build()
	if err != nil {
		return 0, err
	}
	if a.ParticleCount() != b.ParticleCount() {
		return 0, fmt.Errorf("build returned worlds with %d and %d particles", a.ParticleCount(), b.ParticleCount())
	}

	p, err := b.Position(particle)
	if err != nil {
		return 0, err
	}
	if err := b.Teleport(particle, p.X+eps, p.Y); err != nil {
		return 0, err
	}

	for i := 0; i < steps; i++ {
		a.Step()
		b.Step()
	}

	pa := a.Positions(nil)
	pb := b.Positions(nil)
	var sum float64
	for i := range pa {
		d := pa[i].Dist(pb[i])
		sum += d * d
	}
	sep := math.Sqrt(sum / float64(len(pa)))

	if sep == 0 {
		return math.Inf(-1), nil
	}
	return math.Log(sep/eps) / a.Elapsed(), nil
}
