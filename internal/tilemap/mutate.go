package tilemap

import (
	"chunkgrid/internal/coord"
	"chunkgrid/internal/ecs"
)

// InsertTile puts id at c, allocating the chunk if needed. The handle that
// previously sat there is returned for the caller to dispose of; the map
// does not destroy it.
func (m *Map) InsertTile(c coord.Coord, id ecs.EntityID) (prev ecs.EntityID, replaced bool) {
	tile, cc, index := m.locate(c)
	return m.place(m.ensure(cc), tile, cc, index, id)
}

// RemoveTile empties c and returns the handle that was there. The entity
// itself stays alive.
func (m *Map) RemoveTile(c coord.Coord) (ecs.EntityID, bool) {
	tile, cc, index := m.locate(c)
	ch, ok := m.lookup(cc)
	if !ok {
		return ecs.NilEntity, false
	}
	id, ok := ch.Take(index)
	if !ok {
		return ecs.NilEntity, false
	}
	m.unplace(id, tile)
	m.settle(cc)
	return id, true
}

// lift empties c without touching the occupant's Placement or the chunk
// lifecycle. Callers settle the chunk once they are done.
func (m *Map) lift(c coord.Coord) (ecs.EntityID, bool) {
	_, cc, index := m.locate(c)
	ch, ok := m.lookup(cc)
	if !ok {
		return ecs.NilEntity, false
	}
	return ch.Take(index)
}

// MoveTile moves the occupant of from to to. An occupant already at to is
// destroyed. It reports whether anything moved.
func (m *Map) MoveTile(from, to coord.Coord) bool {
	from, to = m.space.Clip(from), m.space.Clip(to)
	if from == to {
		return false
	}
	id, ok := m.lift(from)
	if !ok {
		return false
	}
	if prev, replaced := m.InsertTile(to, id); replaced {
		m.host.DestroyEntity(prev)
	}
	m.settle(m.space.ChunkOf(from))
	return true
}

// SwapTiles exchanges the occupants of a and b. If only one side is
// occupied this is a move onto the empty side. Nothing is destroyed. It
// reports whether anything moved.
func (m *Map) SwapTiles(a, b coord.Coord) bool {
	a, b = m.space.Clip(a), m.space.Clip(b)
	if a == b {
		return false
	}
	ida, oka := m.lift(a)
	idb, okb := m.lift(b)
	if oka {
		m.InsertTile(b, ida)
	}
	if okb {
		m.InsertTile(a, idb)
	}
	m.settle(m.space.ChunkOf(a))
	m.settle(m.space.ChunkOf(b))
	return oka || okb
}

// SpawnTile creates an entity carrying comps and inserts it at c. The
// occupant it replaces is destroyed.
func (m *Map) SpawnTile(c coord.Coord, comps ...ecs.Component) ecs.EntityID {
	m.mustLive()
	id := m.spawn(comps)
	if prev, replaced := m.InsertTile(c, id); replaced {
		m.host.DestroyEntity(prev)
	}
	return id
}

// DespawnTile removes and destroys the occupant of c.
func (m *Map) DespawnTile(c coord.Coord) bool {
	id, ok := m.RemoveTile(c)
	if ok {
		m.host.DestroyEntity(id)
	}
	return ok
}

func (m *Map) spawn(comps []ecs.Component) ecs.EntityID {
	id := m.host.CreateEntity()
	for _, c := range comps {
		m.host.Add(id, c)
	}
	return id
}
