package render

import (
	"strings"
	"testing"

	"chunkgrid/internal/component"
	"chunkgrid/internal/coord"
	"chunkgrid/internal/ecs"
	"chunkgrid/internal/generate"
	"chunkgrid/internal/system"
	"chunkgrid/internal/tilemap"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func newTestMap(t *testing.T) *tilemap.Map {
	t.Helper()
	logger, _ := test.NewNullLogger()
	m, err := tilemap.New(ecs.NewWorld(), tilemap.Config{Dims: 2, ChunkSize: 4, Logger: logrus.NewEntry(logger)})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestCameraRoundTrip(t *testing.T) {
	c := NewCamera(10, 5, 40, 20)
	sx, sy, ok := c.WorldToScreen(10, 5)
	if !ok {
		t.Fatal("center should be visible")
	}
	if x, y := c.ScreenToWorld(sx, sy); x != 10 || y != 5 {
		t.Fatalf("ScreenToWorld = (%d,%d), want (10,5)", x, y)
	}
	x1, y1, x2, y2 := c.Bounds()
	if x2-x1+1 != 20 || y2-y1+1 != 20 {
		t.Fatalf("Bounds = (%d,%d)..(%d,%d)", x1, y1, x2, y2)
	}
	if _, _, ok := c.WorldToScreen(x2+1, y1); ok {
		t.Fatal("tile right of the bounds should not be visible")
	}
}

func TestCameraFollow(t *testing.T) {
	c := NewCamera(0, 0, 20, 10) // 10 tiles x 10 rows
	c.Follow(100, -50, 2)
	sx, sy, ok := c.WorldToScreen(100, -50)
	if !ok {
		t.Fatal("followed tile should be visible")
	}
	if sx != (10-1-2)*2 || sy != 2 {
		t.Fatalf("followed tile at (%d,%d), want margin 2 from the edges", sx, sy)
	}
	before := *c
	c.Follow(98, -48, 2)
	if *c != before {
		t.Fatal("camera should not move while the tile is inside the margin")
	}
}

func TestDrawFrame(t *testing.T) {
	screen := newScreen(t, 20, 15)
	m := newTestMap(t)
	m.SpawnTile(coord.Coord{1, 1}, component.Renderable{Glyph: "#", FGColor: tcell.ColorRed})
	m.SpawnTile(coord.Coord{2, 1})
	tilemap.SetData(m, coord.Coord{3, 1}, generate.Floor{Room: 0})

	r := NewRenderer(screen)
	r.CenterOn(0, 0)
	r.DrawFrame(m, Frame{Cursor: coord.Coord{1, 1}, Messages: []string{"hello"}})

	glyphAt := func(x, y int) (rune, tcell.Style) {
		sx, sy, ok := r.Camera().WorldToScreen(x, y)
		if !ok {
			t.Fatalf("tile (%d,%d) off screen", x, y)
		}
		mainc, _, style, _ := screen.GetContent(sx, sy)
		return mainc, style
	}
	g, style := glyphAt(1, 1)
	if fg, bg, _ := style.Decompose(); g != '#' || fg != tcell.ColorRed || bg != DefaultTheme.Cursor {
		t.Fatalf("cursor tile = %q fg=%v bg=%v", g, fg, bg)
	}
	if g, _ := glyphAt(2, 1); g != '◆' {
		t.Fatalf("plain occupant drawn as %q", g)
	}
	if g, _ := glyphAt(3, 1); g != '·' {
		t.Fatalf("floor drawn as %q", g)
	}
	if _, style := glyphAt(0, 0); background(style) != DefaultTheme.ChunkEdge {
		t.Fatal("chunk origin should be drawn as an edge")
	}
	if _, style := glyphAt(-1, -1); background(style) == DefaultTheme.Chunk {
		t.Fatal("unallocated chunk should not be shaded")
	}

	var hud strings.Builder
	_, h := screen.Size()
	for y := h - hudRows; y < h; y++ {
		for x := 0; x < 20; x++ {
			mainc, _, _, _ := screen.GetContent(x, y)
			hud.WriteRune(mainc)
		}
	}
	if !strings.Contains(hud.String(), "tile (1, 1)") || !strings.Contains(hud.String(), "hello") {
		t.Fatalf("HUD = %q", hud.String())
	}
}

func TestDrawFrameFog(t *testing.T) {
	screen := newScreen(t, 20, 15)
	m := newTestMap(t)
	m.SpawnTile(coord.Coord{2, 2}, component.Renderable{Glyph: "#"})
	m.SpawnTile(coord.Coord{1, 0}, component.Renderable{Glyph: "@"})

	r := NewRenderer(screen)
	r.CenterOn(0, 0)
	r.DrawFrame(m, Frame{
		Cursor:  coord.Coord{0, 0},
		Visible: system.Sight{{0, 0}: {}, {1, 0}: {}},
	})

	sx, sy, _ := r.Camera().WorldToScreen(2, 2)
	mainc, _, style, _ := screen.GetContent(sx, sy)
	if mainc != ' ' || background(style) != DefaultTheme.Fog {
		t.Fatalf("unseen occupant drawn as %q bg=%v", mainc, background(style))
	}
	sx, sy, _ = r.Camera().WorldToScreen(1, 0)
	if mainc, _, _, _ := screen.GetContent(sx, sy); mainc != '@' {
		t.Fatalf("seen occupant drawn as %q", mainc)
	}
}

func TestDescribe(t *testing.T) {
	m := newTestMap(t)
	c := coord.Coord{5, 5}
	if got := Describe(m, Frame{Cursor: c}); got != "empty" {
		t.Fatalf("Describe = %q", got)
	}
	id := m.SpawnTile(c, generate.WallComponents()...)
	tilemap.SetData(m, c, generate.Floor{Room: -1})
	got := Describe(m, Frame{Cursor: c, Mark: coord.Coord{1, 2}, HasMark: true})
	want := "entity #" + id.String() + " wall blocking  corridor  mark (1, 2)"
	if got != want {
		t.Fatalf("Describe = %q, want %q", got, want)
	}
}

func background(s tcell.Style) tcell.Color {
	_, bg, _ := s.Decompose()
	return bg
}
