package tilemap

import (
	"fmt"
	"iter"

	"chunkgrid/internal/coord"
	"chunkgrid/internal/ecs"
)

// View is read access to the occupant of one tile.
type View struct {
	m     *Map
	id    ecs.EntityID
	coord coord.Coord
}

// ID is the occupant's handle.
func (v View) ID() ecs.EntityID { return v.id }

// Coord is the tile the occupant was found at.
func (v View) Coord() coord.Coord { return v.coord }

// Get returns the occupant's component of type t, or nil.
func (v View) Get(t ecs.ComponentType) ecs.Component { return v.m.host.Get(v.id, t) }

// Has reports whether the occupant carries a component of type t.
func (v View) Has(t ecs.ComponentType) bool { return v.Get(t) != nil }

// Ref is write access to the occupant of one tile. It is only valid inside
// the loop body or call that produced it.
type Ref struct {
	View
}

// Set attaches c to the occupant, replacing any component of the same type.
func (r Ref) Set(c ecs.Component) { r.m.host.Add(r.id, c) }

// Unset detaches the occupant's component of type t.
func (r Ref) Unset(t ecs.ComponentType) { r.m.host.Remove(r.id, t) }

// Get returns the handle at c.
func (m *Map) Get(c coord.Coord) (ecs.EntityID, bool) {
	_, cc, index := m.locate(c)
	ch, ok := m.lookup(cc)
	if !ok {
		return ecs.NilEntity, false
	}
	return ch.Get(index)
}

// GetAt resolves the occupant of c for reading. It panics if the handle
// stored there is no longer alive in the host.
func (m *Map) GetAt(c coord.Coord) (View, bool) {
	id, ok := m.Get(c)
	if !ok {
		return View{}, false
	}
	return m.resolve(m.space.Clip(c), id), true
}

// GetAtMut is GetAt with write access.
func (m *Map) GetAtMut(c coord.Coord) (Ref, bool) {
	v, ok := m.GetAt(c)
	return Ref{v}, ok
}

func (m *Map) resolve(c coord.Coord, id ecs.EntityID) View {
	if !m.host.Alive(id) {
		panic(fmt.Sprintf("tilemap: tile %s holds dead entity %v", m.space.Format(c), id))
	}
	return View{m: m, id: id, coord: c}
}

// Tiles yields every occupied tile in the box spanned by a and b, in range
// order, with its raw handle. Each step looks the tile up afresh, so the
// loop body may change the map.
func (m *Map) Tiles(a, b coord.Coord) iter.Seq2[coord.Coord, ecs.EntityID] {
	return func(yield func(coord.Coord, ecs.EntityID) bool) {
		m.mustLive()
		for c := range m.space.Range(m.space.Clip(a), m.space.Clip(b)) {
			if m.chunks == nil {
				return
			}
			ch, ok := m.chunks.Lookup(m.space.ChunkOf(c))
			if !ok {
				continue
			}
			id, ok := ch.Get(m.space.Index(c))
			if !ok {
				continue
			}
			if !yield(c, id) {
				return
			}
		}
	}
}

// IterIn yields a View for every occupied tile between a and b.
func (m *Map) IterIn(a, b coord.Coord) iter.Seq[View] {
	return func(yield func(View) bool) {
		for c, id := range m.Tiles(a, b) {
			if !yield(m.resolve(c, id)) {
				return
			}
		}
	}
}

// IterInMut yields a Ref for every occupied tile between a and b. Each Ref
// is handed out only after the loop body is done with the previous one.
func (m *Map) IterInMut(a, b coord.Coord) iter.Seq[Ref] {
	return func(yield func(Ref) bool) {
		for c, id := range m.Tiles(a, b) {
			if !yield(Ref{m.resolve(c, id)}) {
				return
			}
		}
	}
}

// IterInChunk yields a View for every occupied tile of chunk cc.
func (m *Map) IterInChunk(cc coord.Coord) iter.Seq[View] {
	lo, hi := m.space.ChunkCorners(m.space.Clip(cc))
	return m.IterIn(lo, hi)
}

// IterInChunkMut is IterInChunk with write access.
func (m *Map) IterInChunkMut(cc coord.Coord) iter.Seq[Ref] {
	lo, hi := m.space.ChunkCorners(m.space.Clip(cc))
	return m.IterInMut(lo, hi)
}

// IterInChunks yields a View for every occupied tile of every chunk in the
// box spanned by cc1 and cc2.
func (m *Map) IterInChunks(cc1, cc2 coord.Coord) iter.Seq[View] {
	lo, hi := m.chunkSpan(cc1, cc2)
	return m.IterIn(lo, hi)
}

// IterInChunksMut is IterInChunks with write access.
func (m *Map) IterInChunksMut(cc1, cc2 coord.Coord) iter.Seq[Ref] {
	lo, hi := m.chunkSpan(cc1, cc2)
	return m.IterInMut(lo, hi)
}

// chunkSpan converts a box of chunk coordinates to its tile corners.
func (m *Map) chunkSpan(cc1, cc2 coord.Coord) (lo, hi coord.Coord) {
	var a, b coord.Coord
	for i := 0; i < m.space.Dims; i++ {
		a[i], b[i] = min(cc1[i], cc2[i]), max(cc1[i], cc2[i])
	}
	lo, _ = m.space.ChunkCorners(a)
	_, hi = m.space.ChunkCorners(b)
	return lo, hi
}
