// Package tilemap stores entity handles on an N-dimensional integer grid,
// split into fixed-size chunks that are allocated on first write.
package tilemap

import (
	"errors"
	"fmt"

	"chunkgrid/internal/chunk"
	"chunkgrid/internal/component"
	"chunkgrid/internal/coord"
	"chunkgrid/internal/ecs"

	"github.com/sirupsen/logrus"
)

var (
	ErrNilHost       = errors.New("nil host")
	ErrPolicy        = errors.New("unknown chunk policy")
	ErrRepeatedCoord = errors.New("coordinate repeated in batch")
)

// Host is the entity store occupants live in. *ecs.World satisfies it.
type Host interface {
	CreateEntity() ecs.EntityID
	DestroyEntity(id ecs.EntityID)
	Alive(id ecs.EntityID) bool
	Add(id ecs.EntityID, c ecs.Component)
	Get(id ecs.EntityID, t ecs.ComponentType) ecs.Component
	Remove(id ecs.EntityID, t ecs.ComponentType)
}

// Policy decides what happens to a chunk whose last occupant leaves.
type Policy int

const (
	// DestroyEmpty frees a chunk as soon as it holds nothing.
	DestroyEmpty Policy = iota
	// KeepEmpty leaves empty chunks allocated until PruneEmpty or
	// DespawnChunk is called.
	KeepEmpty
)

func (p Policy) String() string {
	switch p {
	case DestroyEmpty:
		return "destroy-empty"
	case KeepEmpty:
		return "keep-empty"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Config holds construction parameters for a Map.
type Config struct {
	Dims      int
	ChunkSize int
	Policy    Policy
	// Logger receives chunk lifecycle events. Defaults to the logrus
	// standard logger.
	Logger *logrus.Entry
}

// Map is a chunked grid of entity handles. It is not safe for concurrent
// use.
type Map struct {
	id     ecs.EntityID
	host   Host
	space  coord.Space
	policy Policy
	chunks *Registry
	log    *logrus.Entry
}

// New creates a map and registers its own entity, carrying a MapInfo, in
// host.
func New(host Host, cfg Config) (*Map, error) {
	if host == nil {
		return nil, fmt.Errorf("new tilemap: %w", ErrNilHost)
	}
	space, err := coord.NewSpace(cfg.Dims, cfg.ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("new tilemap: %w", err)
	}
	if cfg.Policy != DestroyEmpty && cfg.Policy != KeepEmpty {
		return nil, fmt.Errorf("new tilemap: %w: %d", ErrPolicy, int(cfg.Policy))
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	id := host.CreateEntity()
	host.Add(id, component.MapInfo{Dims: space.Dims, ChunkSize: space.ChunkSize})
	return &Map{
		id:     id,
		host:   host,
		space:  space,
		policy: cfg.Policy,
		chunks: NewRegistry(),
		log: log.WithFields(logrus.Fields{
			"map":        id,
			"dims":       space.Dims,
			"chunk_size": space.ChunkSize,
		}),
	}, nil
}

// ID is the map's own entity.
func (m *Map) ID() ecs.EntityID { return m.id }

// ChunkSize is the edge length of every chunk.
func (m *Map) ChunkSize() int { return m.space.ChunkSize }

// Dims is the number of axes.
func (m *Map) Dims() int { return m.space.Dims }

// Space exposes the map's coordinate math.
func (m *Map) Space() coord.Space { return m.space }

// Policy is the chunk lifecycle policy the map was built with.
func (m *Map) Policy() Policy { return m.policy }

// Registry exposes the chunk store for read access. Mutating it directly
// bypasses the map's lifecycle rules.
func (m *Map) Registry() *Registry {
	m.mustLive()
	return m.chunks
}

func (m *Map) mustLive() {
	if m.chunks == nil {
		panic(fmt.Sprintf("tilemap: use of destroyed map %v", m.id))
	}
}

// locate clips c and splits it into chunk coordinate and slot index.
func (m *Map) locate(c coord.Coord) (tile, cc coord.Coord, index int) {
	tile = m.space.Clip(c)
	return tile, m.space.ChunkOf(tile), m.space.Index(tile)
}

func (m *Map) lookup(cc coord.Coord) (*chunk.Chunk, bool) {
	m.mustLive()
	return m.chunks.Lookup(cc)
}

// ensure returns the chunk at cc, allocating it if needed.
func (m *Map) ensure(cc coord.Coord) *chunk.Chunk {
	if ch, ok := m.lookup(cc); ok {
		return ch
	}
	ch := chunk.New(m.space.Capacity())
	m.chunks.InsertChunk(cc, ch)
	m.log.WithField("chunk", m.space.Format(cc)).Debug("chunk spawned")
	return ch
}

// settle frees the chunk at cc if the policy says empty chunks go.
func (m *Map) settle(cc coord.Coord) {
	if m.policy != DestroyEmpty {
		return
	}
	ch, ok := m.chunks.Lookup(cc)
	if !ok || !ch.Empty() {
		return
	}
	m.chunks.RemoveChunk(cc)
	m.log.WithField("chunk", m.space.Format(cc)).Debug("chunk despawned")
}

// place stores id at tile and points its Placement there. The displaced
// handle, if any, loses its Placement and is returned.
func (m *Map) place(ch *chunk.Chunk, tile, cc coord.Coord, index int, id ecs.EntityID) (ecs.EntityID, bool) {
	if !m.host.Alive(id) {
		panic(fmt.Sprintf("tilemap: insert of dead entity %v at %s", id, m.space.Format(tile)))
	}
	prev, replaced := ch.Insert(index, id)
	if replaced && prev != id {
		m.unplace(prev, tile)
	}
	m.host.Add(id, component.Placement{Map: m.id, Coord: tile, Chunk: cc, Index: index})
	if prev == id {
		return ecs.NilEntity, false
	}
	return prev, replaced
}

// unplace drops id's Placement if it still points at tile on this map.
func (m *Map) unplace(id ecs.EntityID, tile coord.Coord) {
	p, ok := m.host.Get(id, component.CPlacement).(component.Placement)
	if ok && p.Map == m.id && p.Coord == tile {
		m.host.Remove(id, component.CPlacement)
	}
}
