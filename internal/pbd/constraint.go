package pbd

import "fmt"

// errBadEndpoint matches both ErrInvalidEndpoints and ErrOutOfRange.
var errBadEndpoint = fmt.Errorf("%w: %w", ErrInvalidEndpoints, ErrOutOfRange)

// Constraint keeps particles I and J at RestLength apart.
type Constraint struct {
	I, J       int
	RestLength float64
}

// ConstraintSet owns the distance links of a world.
type ConstraintSet struct {
	items []Constraint
}

// Add links particles i and j at their current distance.
func (c *ConstraintSet) Add(store *ParticleStore, i, j int) error {
	n := store.Len()
	for _, idx := range [2]int{i, j} {
		if !store.valid(idx) {
			return &IndexError{Op: "add constraint", Index: idx, Len: n, Err: errBadEndpoint}
		}
	}
	if i == j {
		return &IndexError{Op: "add constraint", Index: j, Len: n, Err: ErrInvalidEndpoints}
	}
	rest := store.items[i].Pos.Dist(store.items[j].Pos)
	c.items = append(c.items, Constraint{I: i, J: j, RestLength: rest})
	return nil
}

func (c *ConstraintSet) Len() int { return len(c.items) }

func (c *ConstraintSet) Get(k int) (Constraint, error) {
	if k < 0 || k >= len(c.items) {
		return Constraint{}, outOfRange("constraint", k, len(c.items))
	}
	return c.items[k], nil
}

func (c *ConstraintSet) Endpoints(k int) (int, int, error) {
	ct, err := c.Get(k)
	if err != nil {
		return 0, 0, err
	}
	return ct.I, ct.J, nil
}

func (c *ConstraintSet) RestLength(k int) (float64, error) {
	ct, err := c.Get(k)
	if err != nil {
		return 0, err
	}
	return ct.RestLength, nil
}

func (c *ConstraintSet) Clear() {
	c.items = c.items[:0]
}
