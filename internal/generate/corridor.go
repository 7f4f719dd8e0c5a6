package generate

// point is a cell in the carve grid.
type point struct{ X, Y int }

// corridorPath returns the bends of a tunnel from a to b: consecutive
// points differ on one axis only, so carving the segments between them
// connects a to b.
func corridorPath(a, b point, cfg *Config) []point {
	switch cfg.CorridorStyle {
	case CorridorZShaped:
		midY := (a.Y + b.Y) / 2
		return []point{a, {a.X, midY}, {b.X, midY}, b}
	case CorridorStraight:
		return []point{a, {b.X, a.Y}, b}
	}
	if cfg.Rand.Intn(2) == 0 {
		return []point{a, {b.X, a.Y}, b}
	}
	return []point{a, {a.X, b.Y}, b}
}

// carvePath carves every segment of path.
func (g *grid) carvePath(path []point) {
	for i := 1; i < len(path); i++ {
		g.carveSegment(path[i-1], path[i])
	}
}

// carveSegment carves the axis-aligned run from a to b inclusive.
func (g *grid) carveSegment(a, b point) {
	for x := min(a.X, b.X); x <= max(a.X, b.X); x++ {
		for y := min(a.Y, b.Y); y <= max(a.Y, b.Y); y++ {
			g.carve(x, y)
		}
	}
}
