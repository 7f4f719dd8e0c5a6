package tilemap

import (
	"iter"
	"maps"

	"chunkgrid/internal/chunk"
	"chunkgrid/internal/coord"
)

// Registry maps chunk coordinates to allocated chunks. It applies no
// lifecycle policy of its own; Map decides when chunks come and go.
type Registry struct {
	chunks map[coord.Coord]*chunk.Chunk
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{chunks: make(map[coord.Coord]*chunk.Chunk)}
}

// Lookup returns the chunk at cc.
func (r *Registry) Lookup(cc coord.Coord) (*chunk.Chunk, bool) {
	ch, ok := r.chunks[cc]
	return ch, ok
}

// InsertChunk stores ch at cc and returns the chunk it replaced, if any.
func (r *Registry) InsertChunk(cc coord.Coord, ch *chunk.Chunk) (prev *chunk.Chunk) {
	prev = r.chunks[cc]
	r.chunks[cc] = ch
	return prev
}

// RemoveChunk deletes the chunk at cc and returns it.
func (r *Registry) RemoveChunk(cc coord.Coord) (*chunk.Chunk, bool) {
	ch, ok := r.chunks[cc]
	if ok {
		delete(r.chunks, cc)
	}
	return ch, ok
}

// Len is the number of allocated chunks.
func (r *Registry) Len() int { return len(r.chunks) }

// All iterates every chunk in no particular order.
func (r *Registry) All() iter.Seq2[coord.Coord, *chunk.Chunk] {
	return maps.All(r.chunks)
}
