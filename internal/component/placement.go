package component

import (
	"chunkgrid/internal/coord"
	"chunkgrid/internal/ecs"
)

const (
	CPlacement ecs.ComponentType = 1
	CMapInfo   ecs.ComponentType = 2
)

// Placement records where a tile occupant currently sits. The tile map
// attaches it on insert, rewrites it on move and swap, and detaches it when
// the occupant leaves the map. It is a back-reference only; the map's chunk
// slots are the source of truth.
type Placement struct {
	Map   ecs.EntityID // entity of the owning map
	Coord coord.Coord  // tile coordinate
	Chunk coord.Coord  // chunk coordinate
	Index int          // slot inside the chunk
}

func (Placement) Type() ecs.ComponentType { return CPlacement }

// MapInfo is carried by a tile map's own entity.
type MapInfo struct {
	Dims      int
	ChunkSize int
}

func (MapInfo) Type() ecs.ComponentType { return CMapInfo }
