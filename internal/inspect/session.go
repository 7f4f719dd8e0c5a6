package inspect

import (
	"chunkgrid/internal/coord"
	"chunkgrid/internal/render"

	"github.com/gdamore/tcell/v2"
)

// sessionColors is the round-robin palette for telling painters apart.
var sessionColors = []tcell.Color{
	tcell.ColorYellow,
	tcell.ColorFuchsia,
	tcell.ColorAqua,
	tcell.ColorLime,
	tcell.ColorOrange,
	tcell.ColorRed,
	tcell.ColorSilver,
	tcell.ColorWhite,
}

// maxMessages caps each session's message log.
const maxMessages = 50

// Session holds all per-user state for one terminal.
type Session struct {
	ID    int
	Name  string // display name (SSH username or "local")
	Color tcell.Color

	Cursor  coord.Coord
	Mark    coord.Coord
	HasMark bool
	Sight   bool // draw only what the cursor can see

	// I/O
	Screen   tcell.Screen
	Renderer *render.Renderer

	Messages []string

	// Render trigger: any session's edit sends here; the session's own
	// goroutine drains it and redraws.
	RenderCh chan struct{}
}

// NewSession allocates a Session for a newly connected user.
func NewSession(id int, name string, screen tcell.Screen) *Session {
	return &Session{
		ID:       id,
		Name:     name,
		Color:    sessionColors[id%len(sessionColors)],
		Screen:   screen,
		Renderer: render.NewRenderer(screen),
		RenderCh: make(chan struct{}, 1),
	}
}

// AddMessage appends a message to the session's log.
func (s *Session) AddMessage(msg string) {
	s.Messages = append(s.Messages, msg)
	if len(s.Messages) > maxMessages {
		s.Messages = s.Messages[len(s.Messages)-maxMessages:]
	}
}

// requestRender queues a redraw without blocking.
func (s *Session) requestRender() {
	select {
	case s.RenderCh <- struct{}{}:
	default:
	}
}

// selection returns the box between mark and cursor, or the cursor tile
// alone when nothing is marked.
func (s *Session) selection() (coord.Coord, coord.Coord) {
	if !s.HasMark {
		return s.Cursor, s.Cursor
	}
	return s.Mark, s.Cursor
}
