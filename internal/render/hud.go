package render

import (
	"fmt"
	"strings"

	"chunkgrid/internal/component"
	"chunkgrid/internal/generate"
	"chunkgrid/internal/tilemap"

	"github.com/gdamore/tcell/v2"
)

// HelpLine lists the inspector's key bindings.
const HelpLine = "hjkl move  space spawn  x despawn  m mark  v move  s swap  f fill  d clear  c chunk  o sight  g generate  ? help  q quit"

// drawHUD renders the status lines and message log below the viewport.
func (r *Renderer) drawHUD(m *tilemap.Map, f Frame) {
	_, screenH := r.screen.Size()
	hudY := screenH - hudRows

	// Separator line.
	r.drawHLine(hudY, tcell.ColorGray)

	s := m.Space()
	cc := s.ChunkOf(f.Cursor)
	status := fmt.Sprintf("tile %s  chunk %s  index %d/%d  │  chunks %d  occupants %d",
		s.Format(f.Cursor), s.Format(cc), s.Index(f.Cursor), s.MaxIndex(), m.ChunkCount(), m.Occupants())
	if ch, ok := m.ChunkAt(cc); ok {
		status += fmt.Sprintf("  here %d/%d", ch.Count(), ch.Capacity())
	}
	if f.Sessions > 0 {
		status += fmt.Sprintf("  │  sessions %d", f.Sessions)
	}
	r.drawText(0, hudY+1, status, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	r.drawText(0, hudY+2, Describe(m, f), tcell.StyleDefault.Foreground(tcell.ColorSilver))

	if n := len(f.Messages); n > 0 {
		r.drawText(0, hudY+3, f.Messages[n-1], tcell.StyleDefault.Foreground(tcell.ColorLightYellow))
	}
	r.drawText(0, hudY+4, HelpLine, tcell.StyleDefault.Foreground(tcell.ColorGray))
}

// Describe summarizes what sits under the cursor.
func Describe(m *tilemap.Map, f Frame) string {
	var parts []string
	if v, ok := m.GetAt(f.Cursor); ok {
		desc := "entity #" + v.ID().String()
		if v.Has(component.CTagWall) {
			desc += " wall"
		}
		if v.Has(component.CTagPainted) {
			desc += " painted"
		}
		if v.Has(component.CTagBlocking) {
			desc += " blocking"
		}
		parts = append(parts, desc)
	}
	if fl, ok := tilemap.Data[generate.Floor](m, f.Cursor); ok {
		if fl.Room < 0 {
			parts = append(parts, "corridor")
		} else {
			parts = append(parts, fmt.Sprintf("room %d", fl.Room))
		}
	}
	if f.HasMark {
		parts = append(parts, "mark "+m.Space().Format(f.Mark))
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, "  ")
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	writeAt(r.screen, x, y, text, style)
}
