package component

import "chunkgrid/internal/ecs"

const (
	CTagWall     ecs.ComponentType = 8
	CTagBlocking ecs.ComponentType = 9
	CTagPainted  ecs.ComponentType = 10
)

// TagWall marks wall tiles laid down by the dungeon generator.
type TagWall struct{}

func (TagWall) Type() ecs.ComponentType { return CTagWall }

// TagBlocking marks an occupant that blocks movement and sight.
type TagBlocking struct{}

func (TagBlocking) Type() ecs.ComponentType { return CTagBlocking }

// TagPainted marks tiles placed by hand in the inspector.
type TagPainted struct{}

func (TagPainted) Type() ecs.ComponentType { return CTagPainted }
