package pbd

import (
	"errors"
	"math"
	"testing"
)

func TestConstraintSet_RestLengthFromPositions(t *testing.T) {
	var s ParticleStore
	a := s.Add(Vec2{0, 0}, Fixed)
	b := s.Add(Vec2{3, 4}, Free)

	var c ConstraintSet
	if err := c.Add(&s, a, b); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	rest, err := c.RestLength(0)
	if err != nil {
		t.Fatalf("rest length failed: %v", err)
	}
	if math.Abs(rest-5) > 1e-12 {
		t.Errorf("expected rest length 5, got %f", rest)
	}

	i, j, err := c.Endpoints(0)
	if err != nil || i != a || j != b {
		t.Errorf("Endpoints = (%d, %d, %v), want (%d, %d, nil)", i, j, err, a, b)
	}
}

func TestConstraintSet_InvalidEndpoints(t *testing.T) {
	var s ParticleStore
	s.Add(Vec2{0, 0}, Free)
	s.Add(Vec2{1, 0}, Free)

	tests := []struct {
		name       string
		i, j       int
		outOfRange bool
	}{
		{"same particle", 1, 1, false},
		{"first missing", 5, 1, true},
		{"second missing", 0, 2, true},
		{"negative", -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c ConstraintSet
			err := c.Add(&s, tt.i, tt.j)
			if !errors.Is(err, ErrInvalidEndpoints) {
				t.Errorf("expected ErrInvalidEndpoints, got %v", err)
			}
			if got := errors.Is(err, ErrOutOfRange); got != tt.outOfRange {
				t.Errorf("errors.Is(err, ErrOutOfRange) = %v, want %v", got, tt.outOfRange)
			}
			if c.Len() != 0 {
				t.Errorf("rejected constraint was stored")
			}
		})
	}
}

func TestConstraintSet_AccessorsOutOfRange(t *testing.T) {
	var c ConstraintSet
	if _, _, err := c.Endpoints(0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Endpoints: expected ErrOutOfRange, got %v", err)
	}
	if _, err := c.RestLength(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("RestLength: expected ErrOutOfRange, got %v", err)
	}
}
