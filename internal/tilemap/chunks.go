package tilemap

import (
	"cmp"
	"iter"
	"slices"

	"chunkgrid/internal/chunk"
	"chunkgrid/internal/coord"

	"github.com/sirupsen/logrus"
)

// SpawnChunk allocates an empty chunk at cc. A chunk already there is
// despawned first, destroying its occupants.
func (m *Map) SpawnChunk(cc coord.Coord) *chunk.Chunk {
	cc = m.space.Clip(cc)
	if _, ok := m.lookup(cc); ok {
		m.DespawnChunk(cc)
	}
	return m.ensure(cc)
}

// DespawnChunk frees the chunk at cc and destroys every occupant in it. It
// returns the number of occupants destroyed.
func (m *Map) DespawnChunk(cc coord.Coord) int {
	m.mustLive()
	cc = m.space.Clip(cc)
	ch, ok := m.chunks.RemoveChunk(cc)
	if !ok {
		return 0
	}
	ids := ch.Clear()
	for _, id := range ids {
		m.host.DestroyEntity(id)
	}
	m.log.WithFields(logrus.Fields{
		"chunk":     m.space.Format(cc),
		"occupants": len(ids),
	}).Debug("chunk despawned")
	return len(ids)
}

// PruneEmpty frees every chunk that holds nothing. Under DestroyEmpty there
// is never anything to prune.
func (m *Map) PruneEmpty() int {
	m.mustLive()
	var empty []coord.Coord
	for cc, ch := range m.chunks.All() {
		if ch.Empty() {
			empty = append(empty, cc)
		}
	}
	for _, cc := range empty {
		m.chunks.RemoveChunk(cc)
	}
	if len(empty) > 0 {
		m.log.WithField("chunks", len(empty)).Debug("pruned empty chunks")
	}
	return len(empty)
}

// Destroy despawns every chunk with its occupants and then the map's own
// entity. The map must not be used afterwards.
func (m *Map) Destroy() {
	m.mustLive()
	var all []coord.Coord
	for cc := range m.chunks.All() {
		all = append(all, cc)
	}
	n := 0
	for _, cc := range all {
		n += m.DespawnChunk(cc)
	}
	m.host.DestroyEntity(m.id)
	m.chunks = nil
	m.log.WithFields(logrus.Fields{"chunks": len(all), "occupants": n}).Info("map destroyed")
}

// ChunkAt returns the chunk at chunk coordinate cc.
func (m *Map) ChunkAt(cc coord.Coord) (*chunk.Chunk, bool) {
	return m.lookup(m.space.Clip(cc))
}

// ChunkOfTile returns the chunk holding tile c and that chunk's coordinate.
func (m *Map) ChunkOfTile(c coord.Coord) (coord.Coord, *chunk.Chunk, bool) {
	_, cc, _ := m.locate(c)
	ch, ok := m.lookup(cc)
	return cc, ch, ok
}

// ChunkCount is the number of allocated chunks.
func (m *Map) ChunkCount() int {
	m.mustLive()
	return m.chunks.Len()
}

// ChunksIn yields the allocated chunks whose coordinates lie in the box
// spanned by cc1 and cc2, in range order. Sparse boxes larger than the
// registry are answered from the registry instead of walking every
// coordinate.
func (m *Map) ChunksIn(cc1, cc2 coord.Coord) iter.Seq2[coord.Coord, *chunk.Chunk] {
	return func(yield func(coord.Coord, *chunk.Chunk) bool) {
		m.mustLive()
		cc1, cc2 := m.space.Clip(cc1), m.space.Clip(cc2)
		if coord.Volume(cc1, cc2, m.space.Dims) <= m.chunks.Len() {
			for cc := range m.space.Range(cc1, cc2) {
				if ch, ok := m.chunks.Lookup(cc); ok && !yield(cc, ch) {
					return
				}
			}
			return
		}
		var hits []coord.Coord
		for cc := range m.chunks.All() {
			if m.inBox(cc, cc1, cc2) {
				hits = append(hits, cc)
			}
		}
		slices.SortFunc(hits, m.rangeOrder)
		for _, cc := range hits {
			ch, ok := m.chunks.Lookup(cc)
			if ok && !yield(cc, ch) {
				return
			}
		}
	}
}

func (m *Map) inBox(c, a, b coord.Coord) bool {
	for i := 0; i < m.space.Dims; i++ {
		if c[i] < min(a[i], b[i]) || c[i] > max(a[i], b[i]) {
			return false
		}
	}
	return true
}

// rangeOrder sorts coordinates the way the range iterator visits them:
// the highest axis is most significant.
func (m *Map) rangeOrder(a, b coord.Coord) int {
	for i := m.space.Dims - 1; i >= 0; i-- {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Occupants returns the number of occupied tiles across all chunks.
func (m *Map) Occupants() int {
	m.mustLive()
	n := 0
	for _, ch := range m.chunks.All() {
		n += ch.Count()
	}
	return n
}
