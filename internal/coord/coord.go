package coord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxDims is the highest dimensionality a grid may have.
const MaxDims = 4

// MaxChunkCapacity bounds the number of slots in one chunk (size^dims).
const MaxChunkCapacity = 1 << 24

var (
	ErrDims          = errors.New("dimensions out of range")
	ErrChunkSize     = errors.New("chunk size must be positive")
	ErrChunkTooLarge = errors.New("chunk capacity too large")
)

// Coord is an integer position on a grid. Axes at or beyond the grid's
// dimensionality are always zero.
type Coord [MaxDims]int

// Add returns the per-axis sum of c and o.
func (c Coord) Add(o Coord) Coord {
	for i := range c {
		c[i] += o[i]
	}
	return c
}

// Space fixes the dimensionality and chunk size of one grid.
// The zero value is not usable; build one with NewSpace.
type Space struct {
	Dims      int
	ChunkSize int
	capacity  int
}

// NewSpace validates dims and size and precomputes the chunk capacity.
func NewSpace(dims, size int) (Space, error) {
	if dims < 1 || dims > MaxDims {
		return Space{}, fmt.Errorf("new space: %w: %d (want 1..%d)", ErrDims, dims, MaxDims)
	}
	if size < 1 {
		return Space{}, fmt.Errorf("new space: %w: %d", ErrChunkSize, size)
	}
	capacity := 1
	for i := 0; i < dims; i++ {
		if capacity > MaxChunkCapacity/size {
			return Space{}, fmt.Errorf("new space: %w: %d^%d", ErrChunkTooLarge, size, dims)
		}
		capacity *= size
	}
	return Space{Dims: dims, ChunkSize: size, capacity: capacity}, nil
}

// MustSpace is NewSpace for constant arguments; it panics on error.
func MustSpace(dims, size int) Space {
	s, err := NewSpace(dims, size)
	if err != nil {
		panic(err)
	}
	return s
}

// FloorDiv divides v by size rounding toward negative infinity.
func FloorDiv(v, size int) int {
	if v >= 0 {
		return v / size
	}
	return (v+1)/size - 1
}

// EuclidMod returns the remainder of v / size in [0, size).
func EuclidMod(v, size int) int {
	r := v % size
	if r < 0 {
		r += size
	}
	return r
}

// Clip zeroes every axis the space does not have.
func (s Space) Clip(c Coord) Coord {
	for i := s.Dims; i < MaxDims; i++ {
		c[i] = 0
	}
	return c
}

// ChunkOf returns the coordinate of the chunk containing tile.
func (s Space) ChunkOf(tile Coord) Coord {
	var out Coord
	for i := 0; i < s.Dims; i++ {
		out[i] = FloorDiv(tile[i], s.ChunkSize)
	}
	return out
}

// Relative returns tile's offset from the origin of its chunk; every axis is
// in [0, ChunkSize).
func (s Space) Relative(tile Coord) Coord {
	var out Coord
	for i := 0; i < s.Dims; i++ {
		out[i] = EuclidMod(tile[i], s.ChunkSize)
	}
	return out
}

// Index returns the slot of tile inside its chunk, axis 0 varying fastest.
func (s Space) Index(tile Coord) int {
	rel := s.Relative(tile)
	index, stride := 0, 1
	for i := 0; i < s.Dims; i++ {
		index += rel[i] * stride
		stride *= s.ChunkSize
	}
	return index
}

// FromIndex is the inverse of ChunkOf and Index: it rebuilds the absolute
// tile coordinate of slot index in chunk.
func (s Space) FromIndex(chunk Coord, index int) Coord {
	var out Coord
	for i := 0; i < s.Dims; i++ {
		out[i] = chunk[i]*s.ChunkSize + index%s.ChunkSize
		index /= s.ChunkSize
	}
	return out
}

// Capacity is the number of slots in one chunk.
func (s Space) Capacity() int { return s.capacity }

// MaxIndex is the highest slot index in a chunk.
func (s Space) MaxIndex() int { return s.capacity - 1 }

// ChunkCorners returns the lowest and highest tile coordinates of chunk.
func (s Space) ChunkCorners(chunk Coord) (lo, hi Coord) {
	return s.FromIndex(chunk, 0), s.FromIndex(chunk, s.MaxIndex())
}

// Format prints only the axes the space has, e.g. "(3, -1)".
func (s Space) Format(c Coord) string {
	var b strings.Builder
	b.WriteByte('(')
	for i := 0; i < s.Dims; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(c[i]))
	}
	b.WriteByte(')')
	return b.String()
}
