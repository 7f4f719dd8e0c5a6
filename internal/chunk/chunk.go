// Package chunk holds the fixed-size slot arrays a tile map is built from.
package chunk

import (
	"fmt"
	"reflect"

	"chunkgrid/internal/ecs"
)

// Chunk is one block of size^N slots. A slot holds an entity handle or
// ecs.NilEntity. The count always equals the number of non-nil slots.
type Chunk struct {
	slots  []ecs.EntityID
	count  int
	layers map[reflect.Type]any
}

// New allocates a chunk with every slot empty.
func New(capacity int) *Chunk {
	if capacity < 1 {
		panic(fmt.Sprintf("chunk: capacity %d must be positive", capacity))
	}
	return &Chunk{slots: make([]ecs.EntityID, capacity)}
}

// Get returns the handle at slot i, or false when the slot is empty.
func (c *Chunk) Get(i int) (ecs.EntityID, bool) {
	c.check(i)
	id := c.slots[i]
	return id, id != ecs.NilEntity
}

// Insert stores id at slot i and returns whatever was there before.
func (c *Chunk) Insert(i int, id ecs.EntityID) (prev ecs.EntityID, replaced bool) {
	c.check(i)
	if id == ecs.NilEntity {
		panic("chunk: insert of nil entity")
	}
	prev = c.slots[i]
	c.slots[i] = id
	if prev == ecs.NilEntity {
		c.count++
		return ecs.NilEntity, false
	}
	return prev, true
}

// Take empties slot i and returns its handle.
func (c *Chunk) Take(i int) (ecs.EntityID, bool) {
	c.check(i)
	id := c.slots[i]
	if id == ecs.NilEntity {
		return ecs.NilEntity, false
	}
	c.slots[i] = ecs.NilEntity
	c.count--
	return id, true
}

// Count is the number of occupied slots.
func (c *Chunk) Count() int { return c.count }

// Capacity is the number of slots.
func (c *Chunk) Capacity() int { return len(c.slots) }

// Empty reports whether the chunk holds no handles and no data layers.
func (c *Chunk) Empty() bool { return c.count == 0 && len(c.layers) == 0 }

// Each calls fn for every occupied slot in index order until fn returns false.
func (c *Chunk) Each(fn func(i int, id ecs.EntityID) bool) {
	if c.count == 0 {
		return
	}
	for i, id := range c.slots {
		if id == ecs.NilEntity {
			continue
		}
		if !fn(i, id) {
			return
		}
	}
}

// Clear empties every slot and drops every layer. It returns the handles
// that were stored, in index order.
func (c *Chunk) Clear() []ecs.EntityID {
	var out []ecs.EntityID
	if c.count > 0 {
		out = make([]ecs.EntityID, 0, c.count)
		for i, id := range c.slots {
			if id != ecs.NilEntity {
				out = append(out, id)
				c.slots[i] = ecs.NilEntity
			}
		}
	}
	c.count = 0
	c.layers = nil
	return out
}

func (c *Chunk) check(i int) {
	if i < 0 || i >= len(c.slots) {
		panic(fmt.Sprintf("chunk: index %d out of range [0, %d)", i, len(c.slots)))
	}
}
