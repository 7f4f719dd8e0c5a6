package coord

import "math"

// WorldToTile converts a continuous world position to the tile containing
// it, given the world size of one tile along every axis. Values floor toward
// negative infinity, so -0.5 lands on tile -1.
func WorldToTile(world []float64, scale float64) Coord {
	var out Coord
	for i := 0; i < len(world) && i < MaxDims; i++ {
		out[i] = int(math.Floor(world[i] / scale))
	}
	return out
}
