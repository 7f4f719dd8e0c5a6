package tilemap

import (
	"errors"
	"slices"
	"testing"

	"chunkgrid/internal/component"
	"chunkgrid/internal/coord"
	"chunkgrid/internal/ecs"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

func coords(cs ...coord.Coord) []coord.Coord { return cs }

func TestGroupByChunkKeepsOrder(t *testing.T) {
	s := coord.MustSpace(2, 16)
	in := coords(xy(1, 1), xy(20, 0), xy(2, 2), xy(-1, 0), xy(21, 1))
	groups := groupByChunk(s, slices.Values(in), self)
	var gotChunks []coord.Coord
	var gotTiles [][]coord.Coord
	for _, g := range groups {
		gotChunks = append(gotChunks, g.cc)
		var tiles []coord.Coord
		for _, sl := range g.slots {
			tiles = append(tiles, sl.tile)
		}
		gotTiles = append(gotTiles, tiles)
	}
	wantChunks := coords(xy(0, 0), xy(1, 0), xy(-1, 0))
	wantTiles := [][]coord.Coord{
		{xy(1, 1), xy(2, 2)},
		{xy(20, 0), xy(21, 1)},
		{xy(-1, 0)},
	}
	if diff := cmp.Diff(wantChunks, gotChunks); diff != "" {
		t.Fatalf("chunk order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantTiles, gotTiles); diff != "" {
		t.Fatalf("tile order (-want +got):\n%s", diff)
	}
}

func TestInsertBatch(t *testing.T) {
	w, m, _ := newTestMap(t)
	a, b, c := w.CreateEntity(), w.CreateEntity(), w.CreateEntity()
	old := m.SpawnTile(xy(40, 40))
	replaced := m.InsertBatch([]Entry{
		{Coord: xy(0, 0), ID: a},
		{Coord: xy(40, 40), ID: b},
		{Coord: xy(0, 0), ID: c},
	})
	if diff := cmp.Diff([]ecs.EntityID{a, old}, replaced); diff != "" {
		t.Fatalf("replaced (-want +got):\n%s", diff)
	}
	if got, _ := m.Get(xy(0, 0)); got != c {
		t.Fatalf("(0, 0) holds %d, want last write %d", got, c)
	}
	if !w.Alive(old) || !w.Alive(a) {
		t.Fatal("InsertBatch must not destroy displaced handles")
	}
}

func TestSpawnBatch(t *testing.T) {
	w, m, _ := newTestMap(t)
	in := coords(xy(3, 0), xy(-3, 0), xy(4, 0))
	ids := m.SpawnBatch(slices.Values(in), func(c coord.Coord) []ecs.Component {
		return []ecs.Component{component.TagWall{}}
	})
	if len(ids) != 3 {
		t.Fatalf("spawned %d, want 3", len(ids))
	}
	for i, c := range in {
		v, ok := m.GetAt(c)
		if !ok || v.ID() != ids[i] {
			t.Fatalf("%v holds %d, want %d", c, v.ID(), ids[i])
		}
		if !v.Has(component.CTagWall) {
			t.Fatalf("%v lacks the built component", c)
		}
	}
	again := m.SpawnBatch(slices.Values(coords(xy(3, 0))), nil)
	if w.Alive(ids[0]) {
		t.Fatal("occupant replaced by a spawn should be destroyed")
	}
	if got, _ := m.Get(xy(3, 0)); got != again[0] {
		t.Fatal("respawned tile holds the wrong handle")
	}
}

func TestRemoveAndDespawnBatch(t *testing.T) {
	w, m, _ := newTestMap(t)
	ids := m.SpawnBatch(slices.Values(coords(xy(0, 0), xy(1, 0), xy(30, 30))), nil)
	removed := m.RemoveBatch(slices.Values(coords(xy(1, 0), xy(5, 5), xy(1, 0), xy(100, 100))))
	want := []Entry{{Coord: xy(1, 0), ID: ids[1]}}
	if diff := cmp.Diff(want, removed); diff != "" {
		t.Fatalf("removed (-want +got):\n%s", diff)
	}
	if !w.Alive(ids[1]) {
		t.Fatal("RemoveBatch must not destroy")
	}
	n := m.DespawnBatch(m.Space().Range(xy(-50, -50), xy(50, 50)))
	if n != 2 {
		t.Fatalf("DespawnBatch = %d, want 2", n)
	}
	if w.Alive(ids[0]) || w.Alive(ids[2]) {
		t.Fatal("despawned occupants should be destroyed")
	}
	if m.ChunkCount() != 0 {
		t.Fatalf("ChunkCount = %d, want 0", m.ChunkCount())
	}
}

func TestMoveBatchIsSimultaneous(t *testing.T) {
	w, m, _ := newTestMap(t)
	a, b, c := xy(0, 0), xy(1, 0), xy(2, 0)
	ia, ib := m.SpawnTile(a), m.SpawnTile(b)

	// Chain: a's occupant lands on b even though b was occupied at call time.
	n, err := m.MoveBatch([]Move{{From: a, To: b}, {From: b, To: c}})
	if err != nil || n != 2 {
		t.Fatalf("MoveBatch = (%d, %v)", n, err)
	}
	if _, ok := m.Get(a); ok {
		t.Fatal("a should be empty")
	}
	if got, _ := m.Get(b); got != ia {
		t.Fatalf("b holds %d, want %d", got, ia)
	}
	if got, _ := m.Get(c); got != ib {
		t.Fatalf("c holds %d, want %d", got, ib)
	}

	// Cycle across chunks.
	far := xy(-40, 9)
	if _, err := m.MoveBatch([]Move{{From: b, To: far}, {From: far, To: b}}); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.Get(far); got != ia {
		t.Fatalf("far holds %d, want %d", got, ia)
	}
	if _, ok := m.Get(b); ok {
		t.Fatal("b should be empty after cycling with an empty tile")
	}
	if !w.Alive(ia) || !w.Alive(ib) {
		t.Fatal("nothing should have been destroyed")
	}
}

func TestMoveBatchDestinations(t *testing.T) {
	w, m, _ := newTestMap(t)
	ia, ib, ic := m.SpawnTile(xy(0, 0)), m.SpawnTile(xy(1, 0)), m.SpawnTile(xy(9, 9))

	// Both land on (9, 9): the last move wins, the first arrival and the
	// stationary occupant are destroyed.
	n, err := m.MoveBatch([]Move{{From: xy(0, 0), To: xy(9, 9)}, {From: xy(1, 0), To: xy(9, 9)}})
	if err != nil || n != 2 {
		t.Fatalf("MoveBatch = (%d, %v)", n, err)
	}
	if got, _ := m.Get(xy(9, 9)); got != ib {
		t.Fatalf("(9, 9) holds %d, want %d", got, ib)
	}
	if w.Alive(ia) || w.Alive(ic) {
		t.Fatal("overwritten occupants should be destroyed")
	}
	if m.Occupants() != 1 {
		t.Fatalf("Occupants = %d, want 1", m.Occupants())
	}
}

func TestMoveBatchLastMoveWinsAcrossChunks(t *testing.T) {
	w, m, _ := newTestMap(t)
	m.SpawnTile(xy(0, 0))
	early := m.SpawnTile(xy(20, 0))
	late := m.SpawnTile(xy(1, 0))
	dst := xy(40, 40)

	// The late move's source chunk is first seen before the early move's,
	// yet input order decides who lands on dst.
	n, err := m.MoveBatch([]Move{
		{From: xy(0, 0), To: xy(2, 2)},
		{From: xy(20, 0), To: dst},
		{From: xy(1, 0), To: dst},
	})
	if err != nil || n != 3 {
		t.Fatalf("MoveBatch = (%d, %v)", n, err)
	}
	if got, _ := m.Get(dst); got != late {
		t.Fatalf("dst holds %v, want the last move's %v", got, late)
	}
	if w.Alive(early) {
		t.Fatal("the earlier arrival should be destroyed")
	}
}

func TestMoveBatchRejectsRepeatedSource(t *testing.T) {
	_, m, hook := newTestMap(t)
	id := m.SpawnTile(xy(0, 0))
	n, err := m.MoveBatch([]Move{
		{From: xy(5, 5), To: xy(6, 6)},
		{From: xy(0, 0), To: xy(1, 1)},
		{From: xy(0, 0), To: xy(2, 2)},
	})
	if !errors.Is(err, ErrRepeatedCoord) || n != 0 {
		t.Fatalf("MoveBatch = (%d, %v), want ErrRepeatedCoord", n, err)
	}
	if got, _ := m.Get(xy(0, 0)); got != id {
		t.Fatal("rejected batch must not mutate")
	}
	if e := hook.LastEntry(); e == nil || e.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning, got %+v", e)
	}
}

func TestSwapBatch(t *testing.T) {
	w, m, _ := newTestMap(t)
	ia, ib, ic := m.SpawnTile(xy(0, 0)), m.SpawnTile(xy(20, 0)), m.SpawnTile(xy(3, 3))
	n, err := m.SwapBatch([]Move{
		{From: xy(0, 0), To: xy(20, 0)},
		{From: xy(3, 3), To: xy(-3, -3)},
		{From: xy(7, 7), To: xy(7, 7)},
		{From: xy(8, 8), To: xy(9, 9)},
	})
	if err != nil || n != 2 {
		t.Fatalf("SwapBatch = (%d, %v), want (2, nil)", n, err)
	}
	want := map[coord.Coord]ecs.EntityID{xy(0, 0): ib, xy(20, 0): ia, xy(-3, -3): ic}
	for c, id := range want {
		if got, _ := m.Get(c); got != id {
			t.Fatalf("%v holds %d, want %d", c, got, id)
		}
	}
	if _, ok := m.Get(xy(3, 3)); ok {
		t.Fatal("(3, 3) should be empty")
	}
	if w.Len() != 4 {
		t.Fatalf("world has %d entities, want 4 (map + 3)", w.Len())
	}
}

func TestSwapBatchCountsOccupiedPairs(t *testing.T) {
	_, m, _ := newTestMap(t)
	n, err := m.SwapBatch([]Move{{From: xy(1, 1), To: xy(2, 2)}})
	if err != nil || n != 0 {
		t.Fatalf("SwapBatch of empty tiles = (%d, %v), want (0, nil)", n, err)
	}
	if m.ChunkCount() != 0 {
		t.Fatal("swapping empty tiles should not allocate chunks")
	}
}

func TestSwapBatchRejectsRepeatedCoord(t *testing.T) {
	_, m, _ := newTestMap(t)
	ia := m.SpawnTile(xy(0, 0))
	_, err := m.SwapBatch([]Move{
		{From: xy(0, 0), To: xy(1, 0)},
		{From: xy(2, 0), To: xy(0, 0)},
	})
	if !errors.Is(err, ErrRepeatedCoord) {
		t.Fatalf("err = %v, want ErrRepeatedCoord", err)
	}
	if got, _ := m.Get(xy(0, 0)); got != ia {
		t.Fatal("rejected batch must not mutate")
	}
}
