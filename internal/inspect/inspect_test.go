package inspect

import (
	"testing"
	"time"

	"chunkgrid/internal/component"
	"chunkgrid/internal/config"
	"chunkgrid/internal/coord"
	"chunkgrid/internal/generate"
	"chunkgrid/internal/tilemap"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus/hooks/test"
)

// ─── helpers ──────────────────────────────────────────────────────────────────

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	ss.SetSize(80, 24)
	return ss
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Generate.Seed = 42
	logger, _ := test.NewNullLogger()
	s, err := NewServer(cfg, logger)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func newTestSession(t *testing.T, s *Server) *Session {
	t.Helper()
	sess := NewSession(s.NextSessionID(), "tester", newSimScreen(t))
	s.AddSession(sess)
	return sess
}

// emptySpot moves the cursor somewhere far from the dungeon.
func emptySpot(sess *Session, x, y int) {
	sess.Cursor = coord.Coord{x, y}
	sess.HasMark = false
}

// ─── input ────────────────────────────────────────────────────────────────────

func TestKeyToAction(t *testing.T) {
	cases := []struct {
		name string
		ev   *tcell.EventKey
		want Action
	}{
		{"arrow up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), ActionMoveN},
		{"shift left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift), ActionDragW},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionQuit},
		{"l", tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone), ActionMoveE},
		{"J", tcell.NewEventKey(tcell.KeyRune, 'J', tcell.ModNone), ActionDragS},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), ActionSpawn},
		{"f", tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModNone), ActionFill},
		{"o", tcell.NewEventKey(tcell.KeyRune, 'o', tcell.ModNone), ActionSight},
		{"unbound", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), ActionNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := keyToAction(tc.ev); got != tc.want {
				t.Errorf("keyToAction = %v, want %v", got, tc.want)
			}
		})
	}
}

// ─── actions ──────────────────────────────────────────────────────────────────

func TestNewServerGenerates(t *testing.T) {
	s := newTestServer(t)
	if len(s.layout.Walls) == 0 || s.grid.Occupants() != len(s.layout.Walls) {
		t.Fatalf("walls=%d occupants=%d", len(s.layout.Walls), s.grid.Occupants())
	}
	sess := newTestSession(t, s)
	if sess.Cursor != s.layout.Start {
		t.Fatalf("cursor %v, want start %v", sess.Cursor, s.layout.Start)
	}
	if s.Sessions() != 1 {
		t.Fatalf("Sessions = %d", s.Sessions())
	}
}

func TestSpawnDespawnAndMove(t *testing.T) {
	s := newTestServer(t)
	sess := newTestSession(t, s)
	emptySpot(sess, 500, 500)

	s.Apply(sess, ActionSpawn)
	v, ok := s.grid.GetAt(sess.Cursor)
	if !ok || !v.Has(component.CTagPainted) {
		t.Fatal("spawn should place a painted tile")
	}
	id := v.ID()

	s.Apply(sess, ActionMark)
	s.Apply(sess, ActionMoveE)
	s.Apply(sess, ActionMoveE)
	s.Apply(sess, ActionMove)
	if got, _ := s.grid.Get(coord.Coord{502, 500}); got != id {
		t.Fatal("move should carry the tile to the cursor")
	}
	if sess.HasMark {
		t.Fatal("move should clear the mark")
	}

	s.Apply(sess, ActionDespawn)
	if _, ok := s.grid.Get(sess.Cursor); ok {
		t.Fatal("despawn should empty the tile")
	}
	if s.world.Alive(id) {
		t.Fatal("despawned entity should be destroyed")
	}
}

func TestFillClearAndLimit(t *testing.T) {
	s := newTestServer(t)
	sess := newTestSession(t, s)
	before := s.grid.Occupants()

	emptySpot(sess, 1000, 1000)
	s.Apply(sess, ActionMark)
	sess.Cursor = coord.Coord{1004, 1002}
	s.Apply(sess, ActionFill)
	if got := s.grid.Occupants() - before; got != 15 {
		t.Fatalf("fill added %d tiles, want 15", got)
	}

	s.Apply(sess, ActionMark)
	sess.Cursor = coord.Coord{1000, 1000}
	s.Apply(sess, ActionClear)
	if s.grid.Occupants() != before {
		t.Fatal("clear should remove the filled tiles")
	}

	s.Apply(sess, ActionMark)
	sess.Cursor = coord.Coord{1100, 1100}
	s.Apply(sess, ActionFill)
	if s.grid.Occupants() != before {
		t.Fatal("oversized fill should be refused")
	}
}

func TestSwapAndDrag(t *testing.T) {
	s := newTestServer(t)
	sess := newTestSession(t, s)
	a, b := coord.Coord{-700, 3}, coord.Coord{-690, 3}
	ia := s.grid.SpawnTile(a)
	ib := s.grid.SpawnTile(b)

	emptySpot(sess, a[0], a[1])
	s.Apply(sess, ActionMark)
	sess.Cursor = b
	s.Apply(sess, ActionSwap)
	if got, _ := s.grid.Get(a); got != ib {
		t.Fatal("swap should exchange occupants")
	}

	// Drag the one-row selection a..b east by one tile.
	s.Apply(sess, ActionMark)
	sess.Cursor = a
	s.Apply(sess, ActionDragE)
	if got, _ := s.grid.Get(coord.Coord{-699, 3}); got != ib {
		t.Fatal("drag should move the left occupant")
	}
	if got, _ := s.grid.Get(coord.Coord{-689, 3}); got != ia {
		t.Fatal("drag should move the right occupant")
	}
	if sess.Cursor != (coord.Coord{-699, 3}) || sess.Mark != (coord.Coord{-689, 3}) {
		t.Fatalf("selection should follow the drag, got %v..%v", sess.Mark, sess.Cursor)
	}
}

func TestSwapOfEmptyTilesStaysLocal(t *testing.T) {
	s := newTestServer(t)
	a := newTestSession(t, s)
	b := newTestSession(t, s)
	<-a.RenderCh
	<-b.RenderCh

	emptySpot(a, 600, 600)
	s.Apply(a, ActionMark)
	a.Cursor = coord.Coord{605, 600}
	s.Apply(a, ActionSwap)
	select {
	case <-b.RenderCh:
		t.Fatal("a swap that moved nothing should not redraw other sessions")
	default:
	}
	if a.HasMark {
		t.Fatal("swap should clear the mark")
	}
}

func TestChunkActions(t *testing.T) {
	s := newTestServer(t)
	sess := newTestSession(t, s)
	emptySpot(sess, 300, 300)
	s.Apply(sess, ActionSpawn)
	chunks := s.grid.ChunkCount()

	s.Apply(sess, ActionDespawnChunk)
	if s.grid.ChunkCount() != chunks-1 {
		t.Fatal("chunk under the cursor should be despawned")
	}
	s.Apply(sess, ActionPrune)
	if s.grid.ChunkCount() != chunks-1 {
		t.Fatal("prune under destroy-empty should find nothing")
	}
}

func TestGenerateReplacesDungeon(t *testing.T) {
	s := newTestServer(t)
	sess := newTestSession(t, s)
	old := s.layout.Walls
	s.Apply(sess, ActionGenerate)
	for _, id := range old {
		if s.world.Alive(id) {
			t.Fatal("old walls should be despawned")
		}
	}
	n := 0
	lo := s.layout.Origin
	hi := lo.Add(coord.Coord{s.gen.Width - 1, s.gen.Height - 1})
	for range tilemap.DataIn[generate.Floor](s.grid, lo, hi) {
		n++
	}
	if n == 0 {
		t.Fatal("new dungeon should have floor")
	}
}

func TestSliceNeedsThirdAxis(t *testing.T) {
	s := newTestServer(t)
	sess := newTestSession(t, s)
	z := sess.Cursor[2]
	s.Apply(sess, ActionSliceUp)
	if sess.Cursor[2] != z {
		t.Fatal("2D grid has no slice to change")
	}
}

func TestSightToggle(t *testing.T) {
	s := newTestServer(t)
	sess := newTestSession(t, s)
	if s.frameLocked(sess).Visible != nil {
		t.Fatal("sight should start off")
	}
	s.Apply(sess, ActionSight)
	f := s.frameLocked(sess)
	if !f.Visible.Visible(sess.Cursor) {
		t.Fatal("sight mode should light the cursor tile")
	}
	s.Apply(sess, ActionSight)
	if s.frameLocked(sess).Visible != nil {
		t.Fatal("second toggle should turn sight off")
	}
}

func TestBroadcastReachesOtherSessions(t *testing.T) {
	s := newTestServer(t)
	a := newTestSession(t, s)
	b := newTestSession(t, s)
	// Drain queued joins.
	<-a.RenderCh
	<-b.RenderCh

	emptySpot(a, 50, 50)
	s.Apply(a, ActionSpawn)
	select {
	case <-b.RenderCh:
	default:
		t.Fatal("an edit should ask every session to redraw")
	}

	s.RemoveSession(b)
	if s.Sessions() != 1 || a.Messages[len(a.Messages)-1] != "tester left" {
		t.Fatalf("sessions=%d last message=%q", s.Sessions(), a.Messages[len(a.Messages)-1])
	}
}

// ─── loop ─────────────────────────────────────────────────────────────────────

func TestRunLoopQuits(t *testing.T) {
	s := newTestServer(t)
	sess := newTestSession(t, s)
	ss := sess.Screen.(tcell.SimulationScreen)
	emptySpot(sess, 800, 800)

	done := make(chan struct{})
	go func() {
		s.RunLoop(sess)
		close(done)
	}()
	ss.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	ss.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("RunLoop did not return after q")
	}
	if _, ok := s.grid.Get(coord.Coord{800, 800}); !ok {
		t.Fatal("space should have spawned a tile before quitting")
	}
}
