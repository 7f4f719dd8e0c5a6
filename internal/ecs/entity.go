package ecs

import "strconv"

// EntityID is a handle to a record in the World: a slot index in the low
// 32 bits and the slot's generation in the high 32. A destroyed slot is
// reused under a new generation, so stale handles never alias new entities.
type EntityID uint64

// NilEntity is never issued. Chunks use it to mark an empty slot.
const NilEntity EntityID = 0

func makeID(index, gen uint32) EntityID { return EntityID(uint64(gen)<<32 | uint64(index)) }

// Index is the slot the handle refers to.
func (id EntityID) Index() uint32 { return uint32(id) }

// Generation distinguishes successive entities in the same slot.
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }

// String prints the handle as index.generation, e.g. "12.3".
func (id EntityID) String() string {
	return strconv.FormatUint(uint64(id.Index()), 10) + "." + strconv.FormatUint(uint64(id.Generation()), 10)
}

// ComponentType is a small integer key used to store/retrieve components.
type ComponentType uint8

// Component is implemented by every data struct stored in the world.
type Component interface {
	Type() ComponentType
}
