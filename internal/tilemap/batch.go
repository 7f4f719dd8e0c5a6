package tilemap

import (
	"fmt"
	"iter"
	"slices"

	"chunkgrid/internal/coord"
	"chunkgrid/internal/ecs"

	"github.com/sirupsen/logrus"
)

// Entry pairs a tile coordinate with a handle.
type Entry struct {
	Coord coord.Coord
	ID    ecs.EntityID
}

// Move describes a transfer from one tile to another. SwapBatch reads it as
// an unordered pair.
type Move struct {
	From, To coord.Coord
}

// slot is one batch item resolved against the grid.
type slot[T any] struct {
	tile  coord.Coord
	index int
	item  T
}

type group[T any] struct {
	cc    coord.Coord
	slots []slot[T]
}

// groupByChunk buckets items by the chunk their tile falls in. Groups come
// out in order of first appearance and keep input order inside.
func groupByChunk[T any](s coord.Space, items iter.Seq[T], tileOf func(T) coord.Coord) []group[T] {
	var groups []group[T]
	at := make(map[coord.Coord]int)
	for it := range items {
		tile := s.Clip(tileOf(it))
		cc := s.ChunkOf(tile)
		g, ok := at[cc]
		if !ok {
			g = len(groups)
			at[cc] = g
			groups = append(groups, group[T]{cc: cc})
		}
		groups[g].slots = append(groups[g].slots, slot[T]{tile: tile, index: s.Index(tile), item: it})
	}
	return groups
}

func self(c coord.Coord) coord.Coord { return c }

// InsertBatch inserts every entry, resolving each chunk once. Handles that
// were displaced are returned; the map does not destroy them. When a
// coordinate repeats, the last entry wins and the earlier handle is
// reported as displaced.
func (m *Map) InsertBatch(entries []Entry) []ecs.EntityID {
	m.mustLive()
	var replaced []ecs.EntityID
	for _, g := range groupByChunk(m.space, slices.Values(entries), func(e Entry) coord.Coord { return e.Coord }) {
		ch := m.ensure(g.cc)
		for _, s := range g.slots {
			if prev, ok := m.place(ch, s.tile, g.cc, s.index, s.item.ID); ok {
				replaced = append(replaced, prev)
			}
		}
	}
	return replaced
}

// SpawnBatch creates one entity per coordinate, built from the components
// build returns, and inserts them. Handles come back in input order.
// Displaced occupants are destroyed, including entities spawned earlier in
// the same batch at a repeated coordinate.
func (m *Map) SpawnBatch(cs iter.Seq[coord.Coord], build func(coord.Coord) []ecs.Component) []ecs.EntityID {
	m.mustLive()
	var entries []Entry
	for c := range cs {
		c = m.space.Clip(c)
		var comps []ecs.Component
		if build != nil {
			comps = build(c)
		}
		entries = append(entries, Entry{Coord: c, ID: m.spawn(comps)})
	}
	for _, prev := range m.InsertBatch(entries) {
		m.host.DestroyEntity(prev)
	}
	ids := make([]ecs.EntityID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// RemoveBatch empties every coordinate and returns what was removed,
// grouped by chunk. A repeated coordinate is empty the second time.
func (m *Map) RemoveBatch(cs iter.Seq[coord.Coord]) []Entry {
	m.mustLive()
	var removed []Entry
	for _, g := range groupByChunk(m.space, cs, self) {
		ch, ok := m.chunks.Lookup(g.cc)
		if !ok {
			continue
		}
		for _, s := range g.slots {
			if id, ok := ch.Take(s.index); ok {
				m.unplace(id, s.tile)
				removed = append(removed, Entry{Coord: s.tile, ID: id})
			}
		}
		m.settle(g.cc)
	}
	return removed
}

// DespawnBatch removes and destroys the occupants of every coordinate. It
// returns how many were destroyed.
func (m *Map) DespawnBatch(cs iter.Seq[coord.Coord]) int {
	removed := m.RemoveBatch(cs)
	for _, e := range removed {
		m.host.DestroyEntity(e.ID)
	}
	return len(removed)
}

// MoveBatch performs every move at once: all sources are lifted before any
// destination is written, so chains and cycles behave as expected. A
// source that appears twice fails the whole batch with ErrRepeatedCoord
// before anything changes. When destinations repeat, the last move wins and
// earlier arrivals are destroyed, as are occupants of destinations that
// were not themselves moved away. It returns the number of occupants moved.
func (m *Map) MoveBatch(moves []Move) (int, error) {
	m.mustLive()
	seen := make(map[coord.Coord]struct{}, len(moves))
	for _, mv := range moves {
		from := m.space.Clip(mv.From)
		if _, dup := seen[from]; dup {
			return 0, m.reject("move", from)
		}
		seen[from] = struct{}{}
	}

	// Lift grouped by source chunk, then place in input order so repeated
	// destinations resolve to the last move.
	taken := make([]ecs.EntityID, len(moves))
	var touched []coord.Coord
	var positions iter.Seq[int] = func(yield func(int) bool) {
		for i := range moves {
			if !yield(i) {
				return
			}
		}
	}
	for _, g := range groupByChunk(m.space, positions, func(i int) coord.Coord { return moves[i].From }) {
		ch, ok := m.chunks.Lookup(g.cc)
		if !ok {
			continue
		}
		touched = append(touched, g.cc)
		for _, s := range g.slots {
			if id, ok := ch.Take(s.index); ok {
				taken[s.item] = id
			}
		}
	}
	var lifted []Entry
	for i, id := range taken {
		if id != ecs.NilEntity {
			lifted = append(lifted, Entry{Coord: moves[i].To, ID: id})
		}
	}
	for _, prev := range m.InsertBatch(lifted) {
		m.host.DestroyEntity(prev)
	}
	for _, cc := range touched {
		m.settle(cc)
	}
	return len(lifted), nil
}

// SwapBatch exchanges the occupants of every pair at once. Pairs whose ends
// are equal are skipped. Any other coordinate that appears more than once,
// on either side, fails the batch with ErrRepeatedCoord before anything
// changes. Nothing is destroyed. It returns the number of pairs where at
// least one side was occupied.
func (m *Map) SwapBatch(pairs []Move) (int, error) {
	m.mustLive()
	var live []Move
	swapped := 0
	seen := make(map[coord.Coord]struct{}, 2*len(pairs))
	for _, p := range pairs {
		a, b := m.space.Clip(p.From), m.space.Clip(p.To)
		if a == b {
			continue
		}
		for _, c := range [2]coord.Coord{a, b} {
			if _, dup := seen[c]; dup {
				return 0, m.reject("swap", c)
			}
			seen[c] = struct{}{}
		}
		if m.occupied(a) || m.occupied(b) {
			swapped++
		}
		live = append(live, Move{From: a, To: b})
		live = append(live, Move{From: b, To: a})
	}
	// Every coordinate is distinct, so the simultaneous move cannot collide.
	if _, err := m.MoveBatch(live); err != nil {
		return 0, err
	}
	return swapped, nil
}

func (m *Map) occupied(c coord.Coord) bool {
	_, ok := m.Get(c)
	return ok
}

func (m *Map) reject(op string, c coord.Coord) error {
	err := fmt.Errorf("%s batch: %w: %s", op, ErrRepeatedCoord, m.space.Format(c))
	m.log.WithFields(logrus.Fields{"op": op, "coord": m.space.Format(c)}).Warn("batch rejected")
	return err
}
