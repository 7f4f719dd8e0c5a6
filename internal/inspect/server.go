// Package inspect implements an interactive, multi-user inspector for one
// shared tile map. Every session edits the same grid; each edit triggers a
// redraw in every connected session.
package inspect

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"chunkgrid/internal/component"
	"chunkgrid/internal/config"
	"chunkgrid/internal/coord"
	"chunkgrid/internal/ecs"
	"chunkgrid/internal/generate"
	"chunkgrid/internal/tilemap"

	"github.com/sirupsen/logrus"
)

// sightRadius is how far the cursor sees in sight mode.
const sightRadius = 12

// MaxFill bounds the number of tiles one fill or clear may touch.
const MaxFill = 4096

// Server owns the shared world and grid and the list of sessions.
type Server struct {
	mu       sync.Mutex
	world    *ecs.World
	grid     *tilemap.Map
	gen      config.Generate
	layout   generate.Layout
	sessions []*Session
	nextID   int
	rng      *rand.Rand
	log      *logrus.Entry
}

// NewServer builds the shared grid from cfg and lays the first dungeon.
func NewServer(cfg config.Config, logger *logrus.Logger) (*Server, error) {
	log := logrus.NewEntry(logger)
	policy := tilemap.DestroyEmpty
	if cfg.Grid.KeepEmptyChunks {
		policy = tilemap.KeepEmpty
	}
	world := ecs.NewWorld()
	grid, err := tilemap.New(world, tilemap.Config{
		Dims:      cfg.Grid.Dims,
		ChunkSize: cfg.Grid.ChunkSize,
		Policy:    policy,
		Logger:    log.WithField("component", "tilemap"),
	})
	if err != nil {
		return nil, fmt.Errorf("create grid: %w", err)
	}
	seed := cfg.Generate.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Server{
		world: world,
		grid:  grid,
		gen:   cfg.Generate,
		rng:   rand.New(rand.NewSource(seed)),
		log:   log.WithField("component", "inspect"),
	}
	s.generateLocked()
	return s, nil
}

// NextSessionID returns a unique session ID. Safe to call concurrently.
func (s *Server) NextSessionID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	return id
}

// AddSession registers a session and places its cursor at the dungeon start.
func (s *Server) AddSession(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.Cursor = s.layout.Start
	sess.Renderer.CenterOn(sess.Cursor[0], sess.Cursor[1])
	s.sessions = append(s.sessions, sess)
	s.log.WithFields(logrus.Fields{"session": sess.ID, "name": sess.Name}).Info("session joined")
	s.broadcastLocked(fmt.Sprintf("%s joined", sess.Name))
}

// RemoveSession deregisters a session.
func (s *Server) RemoveSession(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, other := range s.sessions {
		if other == sess {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			break
		}
	}
	s.log.WithFields(logrus.Fields{"session": sess.ID, "name": sess.Name}).Info("session left")
	s.broadcastLocked(fmt.Sprintf("%s left", sess.Name))
}

// Sessions returns the number of connected sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close destroys the grid. The server must not be used afterwards.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid.Destroy()
}

// broadcastLocked adds msg to every session's log and asks each to redraw.
func (s *Server) broadcastLocked(msg string) {
	for _, sess := range s.sessions {
		sess.AddMessage(msg)
		sess.requestRender()
	}
}

// signalRenderLocked asks every session to redraw.
func (s *Server) signalRenderLocked() {
	for _, sess := range s.sessions {
		sess.requestRender()
	}
}

// RenderSession draws one frame for sess.
func (s *Server) RenderSession(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.Renderer.DrawFrame(s.grid, s.frameLocked(sess))
}

func (s *Server) generateLocked() {
	cfg := generate.DefaultConfig(s.gen.Width, s.gen.Height, s.rng.Int63())
	origin := coord.Coord{-s.gen.Width / 2, -s.gen.Height / 2}
	s.layout = generate.Generate(cfg, s.grid, origin)
	s.log.WithFields(logrus.Fields{
		"rooms":  len(s.layout.Rooms),
		"walls":  len(s.layout.Walls),
		"chunks": s.grid.ChunkCount(),
	}).Info("dungeon generated")
}

// ─── Actions ─────────────────────────────────────────────────────────────────

// Apply performs action for sess against the shared grid and queues redraws.
func (s *Server) Apply(sess *Session, a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.applyLocked(sess, a) {
		s.signalRenderLocked()
	} else {
		sess.requestRender()
	}
}

// applyLocked reports whether the grid changed.
func (s *Server) applyLocked(sess *Session, a Action) bool {
	g := s.grid
	space := g.Space()
	switch a {
	case ActionMoveN, ActionMoveS, ActionMoveE, ActionMoveW:
		dx, dy := actionToDelta(a)
		sess.Cursor = sess.Cursor.Add(coord.Coord{dx, dy})
		sess.Renderer.Camera().Follow(sess.Cursor[0], sess.Cursor[1], 3)
		return false

	case ActionDragN, ActionDragS, ActionDragE, ActionDragW:
		dx, dy := actionToDelta(a)
		return s.dragLocked(sess, coord.Coord{dx, dy})

	case ActionSliceUp, ActionSliceDown:
		if space.Dims < 3 {
			sess.AddMessage("grid has no third axis")
			return false
		}
		if a == ActionSliceUp {
			sess.Cursor[2]++
		} else {
			sess.Cursor[2]--
		}
		return false

	case ActionSpawn:
		id := g.SpawnTile(sess.Cursor, s.paint(sess)...)
		sess.AddMessage(fmt.Sprintf("spawned #%v at %s", id, space.Format(sess.Cursor)))
		return true

	case ActionDespawn:
		if !g.DespawnTile(sess.Cursor) {
			sess.AddMessage("nothing here")
			return false
		}
		return true

	case ActionMark:
		if sess.HasMark && sess.Mark == sess.Cursor {
			sess.HasMark = false
			return false
		}
		sess.Mark, sess.HasMark = sess.Cursor, true
		return false

	case ActionMove:
		if !sess.HasMark {
			sess.AddMessage("mark a tile first")
			return false
		}
		moved := g.MoveTile(sess.Mark, sess.Cursor)
		sess.HasMark = false
		return moved

	case ActionSwap:
		if !sess.HasMark {
			sess.AddMessage("mark a tile first")
			return false
		}
		swapped := g.SwapTiles(sess.Mark, sess.Cursor)
		sess.HasMark = false
		return swapped

	case ActionFill, ActionClear:
		lo, hi := sess.selection()
		if n := coord.Volume(lo, hi, space.Dims); n > MaxFill {
			sess.AddMessage(fmt.Sprintf("selection of %d tiles exceeds %d", n, MaxFill))
			return false
		}
		if a == ActionFill {
			ids := g.SpawnBatch(space.Range(lo, hi), func(coord.Coord) []ecs.Component { return s.paint(sess) })
			sess.AddMessage(fmt.Sprintf("filled %d tiles", len(ids)))
		} else {
			n := g.DespawnBatch(space.Range(lo, hi))
			sess.AddMessage(fmt.Sprintf("cleared %d tiles", n))
		}
		sess.HasMark = false
		return true

	case ActionDespawnChunk:
		cc := space.ChunkOf(sess.Cursor)
		n := g.DespawnChunk(cc)
		s.broadcastLocked(fmt.Sprintf("%s despawned chunk %s (%d occupants)", sess.Name, space.Format(cc), n))
		return true

	case ActionPrune:
		n := g.PruneEmpty()
		sess.AddMessage(fmt.Sprintf("pruned %d empty chunks", n))
		return n > 0

	case ActionGenerate:
		s.generateLocked()
		s.broadcastLocked(fmt.Sprintf("%s generated a new dungeon", sess.Name))
		return true

	case ActionSight:
		sess.Sight = !sess.Sight
		return false

	case ActionCenter:
		sess.Renderer.CenterOn(sess.Cursor[0], sess.Cursor[1])
		return false
	}
	return false
}

// dragLocked shifts every occupant of the selection by delta in one
// simultaneous move, then shifts the selection with it.
func (s *Server) dragLocked(sess *Session, delta coord.Coord) bool {
	space := s.grid.Space()
	lo, hi := sess.selection()
	if n := coord.Volume(lo, hi, space.Dims); n > MaxFill {
		sess.AddMessage(fmt.Sprintf("selection of %d tiles exceeds %d", n, MaxFill))
		return false
	}
	var moves []tilemap.Move
	for c := range s.grid.Tiles(lo, hi) {
		moves = append(moves, tilemap.Move{From: c, To: c.Add(delta)})
	}
	n, err := s.grid.MoveBatch(moves)
	if err != nil {
		sess.AddMessage(err.Error())
		return false
	}
	sess.Cursor = sess.Cursor.Add(delta)
	if sess.HasMark {
		sess.Mark = sess.Mark.Add(delta)
	}
	sess.Renderer.Camera().Follow(sess.Cursor[0], sess.Cursor[1], 3)
	return n > 0
}

// paint is the component bundle for tiles a session places by hand.
func (s *Server) paint(sess *Session) []ecs.Component {
	return []ecs.Component{
		component.Renderable{Glyph: "●", FGColor: sess.Color},
		component.TagPainted{},
		component.TagBlocking{},
	}
}
