package render

import (
	"chunkgrid/internal/component"
	"chunkgrid/internal/coord"
	"chunkgrid/internal/generate"
	"chunkgrid/internal/system"
	"chunkgrid/internal/tilemap"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// hudRows is the number of screen rows reserved below the viewport.
const hudRows = 5

// Renderer draws a tile map onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	camera *Camera
	theme  Theme
}

// Frame is the per-session state a frame is drawn for.
type Frame struct {
	Cursor   coord.Coord // also selects the slice shown on axes beyond the first two
	Mark     coord.Coord
	HasMark  bool
	Sessions int
	Messages []string

	// Visible, when set, hides every tile outside it.
	Visible system.Sight
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	w, h := screen.Size()
	return &Renderer{
		screen: screen,
		camera: NewCamera(0, 0, w, max(h-hudRows, 1)),
		theme:  DefaultTheme,
	}
}

// Camera exposes the viewport.
func (r *Renderer) Camera() *Camera { return r.camera }

// Resize adapts the viewport to the current screen size.
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	r.camera.Resize(w, max(h-hudRows, 1))
}

// CenterOn recenters the camera on tile (x, y).
func (r *Renderer) CenterOn(x, y int) { r.camera.Center(x, y) }

// DrawFrame renders chunks, floor, occupants, the cursor and the HUD.
func (r *Renderer) DrawFrame(m *tilemap.Map, f Frame) {
	r.screen.Clear()
	lo, hi := r.visible(f.Cursor)
	r.drawChunks(m, lo, hi)
	r.drawFloor(m, lo, hi)
	r.drawOccupants(m, lo, hi)
	if f.Visible != nil {
		r.drawFog(m.Space(), lo, hi, f.Visible)
	}
	if f.HasMark {
		r.highlight(f.Mark, r.theme.Mark)
	}
	r.highlight(f.Cursor, r.theme.Cursor)
	r.drawHUD(m, f)
	r.screen.Show()
}

// visible returns the tile box on screen. Axes beyond the first two are
// pinned to the cursor's slice.
func (r *Renderer) visible(cursor coord.Coord) (lo, hi coord.Coord) {
	lo, hi = cursor, cursor
	lo[0], lo[1], hi[0], hi[1] = r.camera.Bounds()
	return lo, hi
}

func (r *Renderer) drawChunks(m *tilemap.Map, lo, hi coord.Coord) {
	s := m.Space()
	base := tcell.StyleDefault.Background(r.theme.Chunk)
	edge := tcell.StyleDefault.Background(r.theme.ChunkEdge)
	for cc := range m.ChunksIn(s.ChunkOf(lo), s.ChunkOf(hi)) {
		clo, chi := s.ChunkCorners(cc)
		for y := max(clo[1], lo[1]); y <= min(chi[1], hi[1]); y++ {
			for x := max(clo[0], lo[0]); x <= min(chi[0], hi[0]); x++ {
				sx, sy, ok := r.camera.WorldToScreen(x, y)
				if !ok {
					continue
				}
				style := base
				if x == clo[0] || y == clo[1] {
					style = edge
				}
				r.screen.SetContent(sx, sy, ' ', nil, style)
				r.screen.SetContent(sx+1, sy, ' ', nil, style)
			}
		}
	}
}

func (r *Renderer) drawFloor(m *tilemap.Map, lo, hi coord.Coord) {
	for c, f := range tilemap.DataIn[generate.Floor](m, lo, hi) {
		glyph := r.theme.Floor
		if f.Room < 0 {
			glyph = r.theme.Corridor
		}
		r.put(c, glyph, tcell.ColorGray)
	}
}

func (r *Renderer) drawOccupants(m *tilemap.Map, lo, hi coord.Coord) {
	for v := range m.IterIn(lo, hi) {
		rend, ok := v.Get(component.CRenderable).(component.Renderable)
		if !ok {
			r.put(v.Coord(), r.theme.Occupant, tcell.ColorWhite)
			continue
		}
		r.put(v.Coord(), rend.Glyph, rend.FGColor)
	}
}

// drawFog blanks every on-screen tile that sight did not reach.
func (r *Renderer) drawFog(s coord.Space, lo, hi coord.Coord, sight system.Sight) {
	fog := tcell.StyleDefault.Background(r.theme.Fog)
	for c := range s.Range(lo, hi) {
		if sight.Visible(c) {
			continue
		}
		sx, sy, ok := r.camera.WorldToScreen(c[0], c[1])
		if !ok {
			continue
		}
		r.screen.SetContent(sx, sy, ' ', nil, fog)
		r.screen.SetContent(sx+1, sy, ' ', nil, fog)
	}
}

// put draws glyph at tile c, keeping the cell's background.
func (r *Renderer) put(c coord.Coord, glyph string, fg tcell.Color) {
	sx, sy, ok := r.camera.WorldToScreen(c[0], c[1])
	if !ok {
		return
	}
	_, _, style, _ := r.screen.GetContent(sx, sy)
	r.putGlyph(sx, sy, glyph, style.Foreground(fg))
}

// highlight recolors the background of tile c.
func (r *Renderer) highlight(c coord.Coord, bg tcell.Color) {
	sx, sy, ok := r.camera.WorldToScreen(c[0], c[1])
	if !ok {
		return
	}
	mainc, combc, style, width := r.screen.GetContent(sx, sy)
	r.screen.SetContent(sx, sy, mainc, combc, style.Background(bg))
	if width < 2 {
		mainc, combc, style, _ = r.screen.GetContent(sx+1, sy)
		r.screen.SetContent(sx+1, sy, mainc, combc, style.Background(bg))
	}
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	mainc := runes[0]
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, mainc, combc, style)
	if runewidth.StringWidth(glyph) < 2 {
		// Narrow glyphs get a blank second column.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}
