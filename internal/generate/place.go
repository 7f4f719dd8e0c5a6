package generate

import (
	"slices"

	"chunkgrid/internal/component"
	"chunkgrid/internal/coord"
	"chunkgrid/internal/ecs"
	"chunkgrid/internal/tilemap"

	"github.com/gdamore/tcell/v2"
)

// Floor is the per-tile data the generator leaves on carved cells. Room is
// the index into Layout.Rooms, or -1 for corridors.
type Floor struct {
	Room int
}

// Layout describes what Generate laid down, in tile coordinates.
type Layout struct {
	Origin coord.Coord
	Rooms  []Rect
	Start  coord.Coord
	Walls  []ecs.EntityID
}

// WallComponents is the bundle every generated wall carries.
func WallComponents() []ecs.Component {
	return []ecs.Component{
		component.Renderable{Glyph: "🧱", FGColor: tcell.ColorSaddleBrown, BGColor: tcell.ColorDefault},
		component.TagWall{},
		component.TagBlocking{},
	}
}

// Generate clears the cfg.Width x cfg.Height area at origin, then carves a
// dungeon into it: walls are spawned as occupants with WallComponents and
// every floor cell gets a Floor value. Room rectangles are returned offset
// by origin.
func Generate(cfg *Config, m *tilemap.Map, origin coord.Coord) Layout {
	origin = m.Space().Clip(origin)
	Clear(m, origin, cfg.Width, cfg.Height)

	g, rooms := carve(cfg)
	at := func(x, y int) coord.Coord { return origin.Add(coord.Coord{x, y}) }

	var walls []coord.Coord
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			switch {
			case g.IsFloor(x, y):
				tilemap.SetData(m, at(x, y), Floor{Room: roomOf(rooms, x, y)})
			case g.isWall(x, y):
				walls = append(walls, at(x, y))
			}
		}
	}
	ids := m.SpawnBatch(slices.Values(walls), func(coord.Coord) []ecs.Component { return WallComponents() })

	layout := Layout{Origin: origin, Start: at(1, 1), Walls: ids}
	for _, r := range rooms {
		layout.Rooms = append(layout.Rooms, Rect{
			X1: r.X1 + origin[0], Y1: r.Y1 + origin[1],
			X2: r.X2 + origin[0], Y2: r.Y2 + origin[1],
		})
	}
	if len(rooms) > 0 {
		layout.Start = at(rooms[0].Center())
	}
	return layout
}

// Clear despawns every occupant and drops every Floor value in the
// width x height area at origin.
func Clear(m *tilemap.Map, origin coord.Coord, width, height int) {
	hi := origin.Add(coord.Coord{width - 1, height - 1})
	m.DespawnBatch(m.Space().Range(origin, hi))
	var floors []coord.Coord
	for c := range tilemap.DataIn[Floor](m, origin, hi) {
		floors = append(floors, c)
	}
	for _, c := range floors {
		tilemap.TakeData[Floor](m, c)
	}
}

func roomOf(rooms []Rect, x, y int) int {
	for i, r := range rooms {
		if r.Contains(x, y) {
			return i
		}
	}
	return -1
}
