package scene

import (
	"fmt"
	"math"

	"github.com/san-kum/linksim/internal/pbd"
)

const (
	DefaultSpacing      = 15.0
	DefaultCrankRadius  = 50.0
	DefaultCoupler      = 130.0
	DefaultRocker       = 100.0
	DefaultGround       = 120.0
	DefaultCrankPeriod  = 120.0
	DefaultPendulumSize = 150.0
)

var (
	fixed     = pbd.Fixed.String()
	kinematic = pbd.Kinematic.String()
)

// Rope lays n particles out horizontally from origin; the first is pinned.
func Rope(origin Point, n int, spacing float64) (Scene, error) {
	if n < 2 {
		return Scene{}, fmt.Errorf("scene: rope needs at least 2 particles, got %d", n)
	}
	if spacing <= 0 {
		spacing = DefaultSpacing
	}

	s := Scene{Kind: KindCustom}
	for i := 0; i < n; i++ {
		p := ParticleSpec{X: origin.X + float64(i)*spacing, Y: origin.Y}
		if i == 0 {
			p.Mobility = fixed
		}
		s.Particles = append(s.Particles, p)
		if i > 0 {
			s.Links = append(s.Links, [2]int{i - 1, i})
		}
	}
	return s, nil
}

// Cloth builds a cols x rows grid hanging from its top row. Every pinEvery-th
// top particle is pinned; with pinEvery <= 0 only the two top corners are.
func Cloth(origin Point, cols, rows int, spacing float64, pinEvery int) (Scene, error) {
	if cols < 2 || rows < 2 {
		return Scene{}, fmt.Errorf("scene: cloth needs at least 2x2, got %dx%d", cols, rows)
	}
	if spacing <= 0 {
		spacing = DefaultSpacing
	}

	s := Scene{Kind: KindCustom}
	at := func(c, r int) int { return r*cols + c }
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p := ParticleSpec{X: origin.X + float64(c)*spacing, Y: origin.Y + float64(r)*spacing}
			if r == 0 && pinned(c, cols, pinEvery) {
				p.Mobility = fixed
			}
			s.Particles = append(s.Particles, p)
			if c > 0 {
				s.Links = append(s.Links, [2]int{at(c-1, r), at(c, r)})
			}
			if r > 0 {
				s.Links = append(s.Links, [2]int{at(c, r-1), at(c, r)})
			}
		}
	}
	return s, nil
}

func pinned(c, cols, every int) bool {
	if every <= 0 {
		return c == 0 || c == cols-1
	}
	return c%every == 0 || c == cols-1
}

// Crank builds a crank-rocker four-bar linkage carrying a coupler point.
//
//	0 crank pivot (fixed)     1 crank tip (kinematic, orbits 0)
//	2 coupler/rocker joint    3 coupler point above the coupler
//	4 rocker pivot (fixed), ground distance to the right of 0
//
// Zero lengths fall back to the defaults. omega is in radians per time unit.
func Crank(origin Point, radius, coupler, rocker, ground, omega float64) (Scene, error) {
	if radius <= 0 {
		radius = DefaultCrankRadius
	}
	if coupler <= 0 {
		coupler = DefaultCoupler
	}
	if rocker <= 0 {
		rocker = DefaultRocker
	}
	if ground <= 0 {
		ground = DefaultGround
	}
	if omega == 0 {
		omega = 2 * math.Pi / DefaultCrankPeriod
	}

	o := pbd.Vec2{X: origin.X, Y: origin.Y}
	tip := o.Add(pbd.Vec2{X: radius})
	pivot := o.Add(pbd.Vec2{X: ground})

	joint, ok := intersectUpper(tip, coupler, pivot, rocker)
	if !ok {
		return Scene{}, fmt.Errorf("%w: crank %g, coupler %g, rocker %g, ground %g", ErrUnreachable, radius, coupler, rocker, ground)
	}

	d := joint.Sub(tip).Scale(1 / coupler)
	n := pbd.Vec2{X: d.Y, Y: -d.X}
	if n.Y > 0 {
		n = n.Scale(-1)
	}
	point := tip.Add(joint).Scale(0.5).Add(n.Scale(coupler / 2))

	anchor := 0
	return Scene{
		Kind: KindCustom,
		Particles: []ParticleSpec{
			{X: o.X, Y: o.Y, Mobility: fixed},
			{X: tip.X, Y: tip.Y, Mobility: kinematic},
			{X: joint.X, Y: joint.Y},
			{X: point.X, Y: point.Y},
			{X: pivot.X, Y: pivot.Y, Mobility: fixed},
		},
		Links: [][2]int{{0, 1}, {1, 2}, {2, 4}, {1, 3}, {2, 3}},
		Drivers: []DriverSpec{
			{Particle: 1, Anchor: &anchor, Radius: radius, AngularVelocity: omega},
		},
	}, nil
}

// intersectUpper returns the intersection of two circles with the smaller y.
func intersectUpper(c1 pbd.Vec2, r1 float64, c2 pbd.Vec2, r2 float64) (pbd.Vec2, bool) {
	d := c1.Dist(c2)
	if d == 0 || d > r1+r2 || d < math.Abs(r1-r2) {
		return pbd.Vec2{}, false
	}
	a := (r1*r1 - r2*r2 + d*d) / (2 * d)
	h := math.Sqrt(math.Max(r1*r1-a*a, 0))
	u := c2.Sub(c1).Scale(1 / d)
	mid := c1.Add(u.Scale(a))
	p1 := mid.Add(pbd.Vec2{X: -u.Y * h, Y: u.X * h})
	p2 := mid.Add(pbd.Vec2{X: u.Y * h, Y: -u.X * h})
	if p1.Y < p2.Y {
		return p1, true
	}
	return p2, true
}

// Pendulum hangs a bob length to the right of a pinned pivot so it swings
// when released.
func Pendulum(origin Point, length float64) (Scene, error) {
	if length <= 0 {
		length = DefaultPendulumSize
	}
	return Scene{
		Kind: KindCustom,
		Particles: []ParticleSpec{
			{X: origin.X, Y: origin.Y, Mobility: fixed},
			{X: origin.X + length, Y: origin.Y},
		},
		Links: [][2]int{{0, 1}},
	}, nil
}
