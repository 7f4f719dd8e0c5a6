package inspect

import (
	"chunkgrid/internal/render"
	"chunkgrid/internal/system"

	"github.com/gdamore/tcell/v2"
)

func (s *Server) frameLocked(sess *Session) render.Frame {
	f := render.Frame{
		Cursor:   sess.Cursor,
		Mark:     sess.Mark,
		HasMark:  sess.HasMark,
		Sessions: len(s.sessions),
		Messages: sess.Messages,
	}
	if sess.Sight {
		f.Visible = system.LineOfSight(s.grid, sess.Cursor, sightRadius)
	}
	return f
}

// RunLoop is the per-session goroutine. It reads input, applies actions and
// redraws when asked. Blocks until the user quits or disconnects.
func (s *Server) RunLoop(sess *Session) {
	// Start an async input reader goroutine.
	eventCh := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := sess.Screen.PollEvent()
			if ev == nil {
				close(eventCh)
				return
			}
			eventCh <- ev
		}
	}()

	sess.requestRender()
	for {
		select {
		case ev, ok := <-eventCh:
			if !ok {
				return // screen closed / disconnected
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				sess.Screen.Sync()
				s.mu.Lock()
				sess.Renderer.Resize()
				s.mu.Unlock()
				sess.requestRender()
			case *tcell.EventKey:
				switch action := keyToAction(ev); action {
				case ActionQuit:
					return
				case ActionHelp:
					runHelp(sess, eventCh)
					sess.requestRender()
				case ActionNone:
				default:
					s.Apply(sess, action)
				}
			}

		case <-sess.RenderCh:
			s.RenderSession(sess)
		}
	}
}

// runHelp shows a keybinding reference overlay. Any key dismisses it.
func runHelp(sess *Session, eventCh <-chan tcell.Event) {
	lines := []string{
		"── Cursor ────────────────────────────",
		"  Arrow keys / hjkl   Move cursor",
		"  < >                 Change slice (3D+)",
		"  .                   Center view",
		"  o                   Toggle line of sight",
		"",
		"── Tiles ─────────────────────────────",
		"  space               Spawn at cursor",
		"  x                   Despawn at cursor",
		"  m                   Set / clear mark",
		"  v                   Move mark to cursor",
		"  s                   Swap mark and cursor",
		"  f / d               Fill / clear selection",
		"  Shift+arrows / HJKL Drag selection",
		"",
		"── Chunks ────────────────────────────",
		"  c                   Despawn cursor chunk",
		"  p                   Prune empty chunks",
		"  g                   Generate new dungeon",
		"",
		"  q / Esc             Disconnect",
		"  [any key to close]",
	}

	for {
		render.DrawOverlay(sess.Screen, "Controls", lines)
		ev, ok := <-eventCh
		if !ok {
			return
		}
		switch ev.(type) {
		case *tcell.EventResize:
			sess.Screen.Sync()
		case *tcell.EventKey:
			return
		}
	}
}
