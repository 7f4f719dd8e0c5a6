package tilemap

import (
	"iter"

	"chunkgrid/internal/chunk"
	"chunkgrid/internal/coord"
)

// SetData stores v for tile c in the chunk's layer for T, allocating the
// chunk and layer if needed. Data lives beside the handles: a tile can
// carry data with or without an occupant.
func SetData[T any](m *Map, c coord.Coord, v T) (prev T, replaced bool) {
	_, cc, index := m.locate(c)
	return chunk.EnsureLayer[T](m.ensure(cc)).Set(index, v)
}

// Data returns a pointer to the T stored for tile c. The pointer is valid
// until the value is taken or its chunk is freed.
func Data[T any](m *Map, c coord.Coord) (*T, bool) {
	_, cc, index := m.locate(c)
	ch, ok := m.lookup(cc)
	if !ok {
		return nil, false
	}
	l := chunk.LayerOf[T](ch)
	if l == nil {
		return nil, false
	}
	p := l.Get(index)
	return p, p != nil
}

// TakeData removes and returns the T stored for tile c. An emptied layer
// is dropped, and the chunk with it if nothing else is left.
func TakeData[T any](m *Map, c coord.Coord) (T, bool) {
	var zero T
	_, cc, index := m.locate(c)
	ch, ok := m.lookup(cc)
	if !ok {
		return zero, false
	}
	l := chunk.LayerOf[T](ch)
	if l == nil {
		return zero, false
	}
	v, ok := l.Take(index)
	if !ok {
		return zero, false
	}
	if l.Count() == 0 {
		chunk.DropLayer[T](ch)
		m.settle(cc)
	}
	return v, true
}

// DataIn yields every tile between a and b that has a T, in range order.
func DataIn[T any](m *Map, a, b coord.Coord) iter.Seq2[coord.Coord, *T] {
	return func(yield func(coord.Coord, *T) bool) {
		m.mustLive()
		for c := range m.space.Range(m.space.Clip(a), m.space.Clip(b)) {
			if m.chunks == nil {
				return
			}
			ch, ok := m.chunks.Lookup(m.space.ChunkOf(c))
			if !ok {
				continue
			}
			l := chunk.LayerOf[T](ch)
			if l == nil {
				continue
			}
			if p := l.Get(m.space.Index(c)); p != nil && !yield(c, p) {
				return
			}
		}
	}
}
