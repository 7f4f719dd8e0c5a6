package chunk

import (
	"fmt"
	"reflect"
)

// Layer is a dense per-slot store of T values riding along a chunk. It has
// its own occupancy, independent of the chunk's handles.
type Layer[T any] struct {
	vals  []T
	set   []bool
	count int
}

// Get returns a pointer to the value at slot i, or nil when unset. The
// pointer stays valid until the value is taken or the layer is dropped.
func (l *Layer[T]) Get(i int) *T {
	l.check(i)
	if !l.set[i] {
		return nil
	}
	return &l.vals[i]
}

// Set stores v at slot i and returns the previous value, if any.
func (l *Layer[T]) Set(i int, v T) (prev T, replaced bool) {
	l.check(i)
	prev, replaced = l.vals[i], l.set[i]
	l.vals[i] = v
	if !replaced {
		l.set[i] = true
		l.count++
	}
	return prev, replaced
}

// Take unsets slot i and returns its value.
func (l *Layer[T]) Take(i int) (T, bool) {
	l.check(i)
	var zero T
	if !l.set[i] {
		return zero, false
	}
	v := l.vals[i]
	l.vals[i] = zero
	l.set[i] = false
	l.count--
	return v, true
}

// Count is the number of set slots.
func (l *Layer[T]) Count() int { return l.count }

func (l *Layer[T]) check(i int) {
	if i < 0 || i >= len(l.vals) {
		panic(fmt.Sprintf("chunk: layer index %d out of range [0, %d)", i, len(l.vals)))
	}
}

func keyOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// LayerOf returns the chunk's layer for T, or nil if none exists.
func LayerOf[T any](c *Chunk) *Layer[T] {
	l, ok := c.layers[keyOf[T]()]
	if !ok {
		return nil
	}
	return l.(*Layer[T])
}

// EnsureLayer returns the chunk's layer for T, creating it on first use.
func EnsureLayer[T any](c *Chunk) *Layer[T] {
	if l := LayerOf[T](c); l != nil {
		return l
	}
	if c.layers == nil {
		c.layers = make(map[reflect.Type]any)
	}
	n := len(c.slots)
	l := &Layer[T]{vals: make([]T, n), set: make([]bool, n)}
	c.layers[keyOf[T]()] = l
	return l
}

// DropLayer removes the layer for T. It reports whether one existed.
func DropLayer[T any](c *Chunk) bool {
	k := keyOf[T]()
	if _, ok := c.layers[k]; !ok {
		return false
	}
	delete(c.layers, k)
	if len(c.layers) == 0 {
		c.layers = nil
	}
	return true
}

// Layers is the number of data layers the chunk carries.
func (c *Chunk) Layers() int { return len(c.layers) }
