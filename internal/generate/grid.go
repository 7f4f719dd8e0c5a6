package generate

// grid is the scratch buffer rooms and corridors are carved into before
// anything touches the tile map. Every cell starts solid.
type grid struct {
	Width, Height int
	floor         []bool
}

func newGrid(width, height int) *grid {
	return &grid{Width: width, Height: height, floor: make([]bool, width*height)}
}

func (g *grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

func (g *grid) carve(x, y int) {
	if g.InBounds(x, y) {
		g.floor[y*g.Width+x] = true
	}
}

// IsFloor reports whether (x, y) has been carved. Out of bounds is solid.
func (g *grid) IsFloor(x, y int) bool {
	return g.InBounds(x, y) && g.floor[y*g.Width+x]
}

// isWall reports whether (x, y) is solid and touches a floor cell in any of
// the eight directions. Solid cells away from floors are left empty in the
// tile map.
func (g *grid) isWall(x, y int) bool {
	if g.IsFloor(x, y) {
		return false
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if (dx != 0 || dy != 0) && g.IsFloor(x+dx, y+dy) {
				return true
			}
		}
	}
	return false
}
