package render

import "github.com/gdamore/tcell/v2"

// Theme holds the glyphs and colors used to draw the grid. Emoji are
// rendered by the terminal with their own colors, so floors use distinct
// glyphs rather than tinted ones.
type Theme struct {
	Floor    string // room floor
	Corridor string // floor outside any room
	Occupant string // occupant without a Renderable

	Chunk     tcell.Color // background of allocated chunks
	ChunkEdge tcell.Color // background of the first row and column of a chunk
	Fog       tcell.Color // tiles outside line of sight
	Mark      tcell.Color
	Cursor    tcell.Color
}

// DefaultTheme is the inspector's look.
var DefaultTheme = Theme{
	Floor:     "·",
	Corridor:  "░",
	Occupant:  "◆",
	Chunk:     tcell.NewRGBColor(24, 24, 32),
	ChunkEdge: tcell.NewRGBColor(40, 40, 64),
	Fog:       tcell.ColorBlack,
	Mark:      tcell.ColorDarkGreen,
	Cursor:    tcell.ColorGoldenrod,
}
