package pbd

// clampFloor stops free particles that sank below y, killing their vertical
// velocity. The floor does not bounce.
func clampFloor(particles []Particle, y float64) {
	for i := range particles {
		p := &particles[i]
		if p.Mobility != Free || p.Pos.Y <= y {
			continue
		}
		p.Pos.Y = y
		p.Prev.Y = y
	}
}
