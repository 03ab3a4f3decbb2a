package pbd

import (
	"math"
	"testing"
)

func link(ps []Particle, i, j int) Constraint {
	return Constraint{I: i, J: j, RestLength: ps[i].Pos.Dist(ps[j].Pos)}
}

func TestSolver_DistributionByMobility(t *testing.T) {
	tests := []struct {
		name   string
		m1, m2 Mobility
		want1  Vec2
		want2  Vec2
	}{
		{"both free", Free, Free, Vec2{25, 0}, Vec2{125, 0}},
		{"first fixed", Fixed, Free, Vec2{0, 0}, Vec2{100, 0}},
		{"second fixed", Free, Fixed, Vec2{50, 0}, Vec2{150, 0}},
		{"first kinematic", Kinematic, Free, Vec2{0, 0}, Vec2{100, 0}},
		{"both immovable", Fixed, Kinematic, Vec2{0, 0}, Vec2{150, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := []Particle{
				{Pos: Vec2{0, 0}, Mobility: tt.m1},
				{Pos: Vec2{100, 0}, Mobility: tt.m2},
			}
			links := []Constraint{link(ps, 0, 1)}
			ps[1].Pos = Vec2{150, 0}

			NewSolver().Relax(ps, links, 1)

			if ps[0].Pos.Dist(tt.want1) > 1e-12 {
				t.Errorf("particle 0 at %v, want %v", ps[0].Pos, tt.want1)
			}
			if ps[1].Pos.Dist(tt.want2) > 1e-12 {
				t.Errorf("particle 1 at %v, want %v", ps[1].Pos, tt.want2)
			}
		})
	}
}

func TestSolver_Compression(t *testing.T) {
	ps := []Particle{
		{Pos: Vec2{0, 0}, Mobility: Fixed},
		{Pos: Vec2{0, 80}, Mobility: Free},
	}
	links := []Constraint{link(ps, 0, 1)}
	ps[1].Pos = Vec2{0, 20}

	NewSolver().Relax(ps, links, 1)

	if math.Abs(ps[1].Pos.Y-80) > 1e-12 {
		t.Errorf("compressed link should push back to 80, got %v", ps[1].Pos)
	}
}

func TestSolver_SequentialPass(t *testing.T) {
	ps := []Particle{
		{Pos: Vec2{0, 0}, Mobility: Fixed},
		{Pos: Vec2{100, 0}, Mobility: Free},
		{Pos: Vec2{200, 0}, Mobility: Free},
	}
	links := []Constraint{link(ps, 0, 1), link(ps, 1, 2)}
	ps[1].Pos = Vec2{150, 0}

	NewSolver().Relax(ps, links, 1)

	// The second link sees particle 1 already pulled back, so it is satisfied.
	if ps[1].Pos.Dist(Vec2{100, 0}) > 1e-12 {
		t.Errorf("particle 1 at %v, want (100, 0)", ps[1].Pos)
	}
	if ps[2].Pos.Dist(Vec2{200, 0}) > 1e-12 {
		t.Errorf("particle 2 at %v, want (200, 0)", ps[2].Pos)
	}
}

func TestSolver_ZeroDistanceSkipped(t *testing.T) {
	ps := []Particle{
		{Pos: Vec2{10, 10}, Mobility: Free},
		{Pos: Vec2{10, 10}, Mobility: Free},
	}
	links := []Constraint{{I: 0, J: 1, RestLength: 30}}

	NewSolver().Relax(ps, links, 20)

	for i, p := range ps {
		if !p.Pos.IsFinite() {
			t.Fatalf("particle %d became non-finite: %v", i, p.Pos)
		}
		if p.Pos != (Vec2{10, 10}) {
			t.Errorf("particle %d moved to %v", i, p.Pos)
		}
	}
}

func TestSolver_ConvergesWithIterations(t *testing.T) {
	build := func() ([]Particle, []Constraint) {
		ps := make([]Particle, 6)
		for i := range ps {
			ps[i] = Particle{Pos: Vec2{float64(i) * 10, 0}}
		}
		ps[0].Mobility = Fixed
		links := make([]Constraint, 0, len(ps)-1)
		for i := 0; i+1 < len(ps); i++ {
			links = append(links, link(ps, i, i+1))
		}
		for i := 1; i < len(ps); i++ {
			ps[i].Pos.Y += float64(i) * 4
		}
		return ps, links
	}

	worst := func(ps []Particle, links []Constraint) float64 {
		m := 0.0
		for _, c := range links {
			m = math.Max(m, math.Abs(ps[c.I].Pos.Dist(ps[c.J].Pos)-c.RestLength))
		}
		return m
	}

	ps5, links := build()
	NewSolver().Relax(ps5, links, 5)
	ps20, _ := build()
	NewSolver().Relax(ps20, links, 20)

	if worst(ps20, links) >= worst(ps5, links) {
		t.Errorf("more iterations should tighten links: 5 -> %g, 20 -> %g", worst(ps5, links), worst(ps20, links))
	}
}

func TestVerlet_Integrate(t *testing.T) {
	p := DefaultParams()
	ps := []Particle{
		{Pos: Vec2{10, 10}, Prev: Vec2{10, 10}},
		{Pos: Vec2{0, 0}, Prev: Vec2{0, 0}, Mobility: Fixed},
		{Pos: Vec2{5, 5}, Prev: Vec2{4, 5}, Mobility: Kinematic},
	}

	v := NewVerlet()
	v.Integrate(ps, p)
	if ps[0].Pos != (Vec2{10, 10.5}) || ps[0].Prev != (Vec2{10, 10}) {
		t.Errorf("first step: pos %v prev %v", ps[0].Pos, ps[0].Prev)
	}

	v.Integrate(ps, p)
	want := 10.5 + 0.5*p.Damping + p.Gravity
	if math.Abs(ps[0].Pos.Y-want) > 1e-12 {
		t.Errorf("second step y = %f, want %f", ps[0].Pos.Y, want)
	}

	if ps[1].Pos != (Vec2{0, 0}) {
		t.Errorf("fixed particle moved to %v", ps[1].Pos)
	}
	if ps[2].Pos != (Vec2{5, 5}) || ps[2].Prev != (Vec2{4, 5}) {
		t.Errorf("kinematic particle touched: pos %v prev %v", ps[2].Pos, ps[2].Prev)
	}
}

func TestClampFloor(t *testing.T) {
	ps := []Particle{
		{Pos: Vec2{0, 610}, Prev: Vec2{0, 604}},
		{Pos: Vec2{0, 650}, Prev: Vec2{0, 650}, Mobility: Fixed},
		{Pos: Vec2{0, 590}, Prev: Vec2{0, 580}},
	}

	clampFloor(ps, 600)

	if ps[0].Pos.Y != 600 || ps[0].Prev.Y != 600 {
		t.Errorf("free particle not clamped: pos %v prev %v", ps[0].Pos, ps[0].Prev)
	}
	if ps[1].Pos.Y != 650 {
		t.Errorf("fixed particle clamped: %v", ps[1].Pos)
	}
	if ps[2].Pos.Y != 590 || ps[2].Prev.Y != 580 {
		t.Errorf("particle above floor changed: pos %v prev %v", ps[2].Pos, ps[2].Prev)
	}
}

func BenchmarkSolver_Cloth(b *testing.B) {
	const cols, rows = 30, 20
	ps := make([]Particle, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			ps = append(ps, Particle{Pos: Vec2{float64(c) * 10, float64(r) * 10}})
		}
	}
	links := make([]Constraint, 0, 2*cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if c+1 < cols {
				links = append(links, link(ps, i, i+1))
			}
			if r+1 < rows {
				links = append(links, link(ps, i, i+cols))
			}
		}
	}
	s := NewSolver()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Relax(ps, links, DefaultIterations)
	}
}
