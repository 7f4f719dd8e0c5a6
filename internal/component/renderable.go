package component

import (
	"chunkgrid/internal/ecs"

	"github.com/gdamore/tcell/v2"
)

const CRenderable ecs.ComponentType = 3

// Renderable is how the inspector draws an occupant.
type Renderable struct {
	Glyph   string
	FGColor tcell.Color
	BGColor tcell.Color
}

func (Renderable) Type() ecs.ComponentType { return CRenderable }
