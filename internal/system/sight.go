// Package system holds queries that walk a tile map on behalf of a viewer.
package system

import (
	"chunkgrid/internal/component"
	"chunkgrid/internal/coord"
	"chunkgrid/internal/tilemap"
)

// octant transform matrices.
// For each octant, a (dx, dy) sweep pair maps to a tile offset via:
//
//	x = cx + dx*xx + dy*xy
//	y = cy + dx*yx + dy*yy
//
// where dx sweeps within the row and dy is the fixed row index.
var octants = [8][4]int{
	{1, 0, 0, 1},
	{0, 1, 1, 0},
	{0, -1, 1, 0},
	{-1, 0, 0, 1},
	{-1, 0, 0, -1},
	{0, -1, -1, 0},
	{0, 1, -1, 0},
	{1, 0, 0, -1},
}

// Sight is the set of tiles visible from one origin.
type Sight map[coord.Coord]struct{}

// Visible reports whether c was lit.
func (s Sight) Visible(c coord.Coord) bool {
	_, ok := s[c]
	return ok
}

// LineOfSight runs recursive shadowcasting from origin over the first two
// axes; higher axes stay on origin's slice. A tile is opaque when its
// occupant carries TagBlocking. The origin is always visible.
func LineOfSight(m *tilemap.Map, origin coord.Coord, radius int) Sight {
	sc := &caster{m: m, origin: origin, radius: radius, lit: Sight{origin: {}}}
	for _, o := range octants {
		sc.cast(1, 1.0, 0.0, o[0], o[1], o[2], o[3])
	}
	return sc.lit
}

type caster struct {
	m      *tilemap.Map
	origin coord.Coord
	radius int
	lit    Sight
}

func (sc *caster) at(x, y int) coord.Coord {
	c := sc.origin
	c[0], c[1] = x, y
	return c
}

func (sc *caster) opaque(c coord.Coord) bool {
	v, ok := sc.m.GetAt(c)
	return ok && v.Has(component.CTagBlocking)
}

// cast lights one octant from row outward between the start and end slopes.
func (sc *caster) cast(row int, start, end float64, xx, xy, yx, yy int) {
	if start < end {
		return
	}
	cx, cy := sc.origin[0], sc.origin[1]
	radiusSq := sc.radius * sc.radius
	newStart := start

	for j := row; j <= sc.radius; j++ {
		dy := -j
		blocked := false

		for dx := -j; dx <= 0; dx++ {
			c := sc.at(cx+dx*xx+dy*xy, cy+dx*yx+dy*yy)
			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}
			if dx*dx+dy*dy < radiusSq {
				sc.lit[c] = struct{}{}
			}

			opaque := sc.opaque(c)
			switch {
			case blocked && opaque:
				newStart = rSlope
			case blocked:
				blocked = false
				start = newStart
			case opaque && j < sc.radius:
				blocked = true
				sc.cast(j+1, start, lSlope, xx, xy, yx, yy)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}
