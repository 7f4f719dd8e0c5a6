package coord

import (
	"iter"
	"math"
)

// RangeIter visits every coordinate of the closed box spanned by two corners
// exactly once, axis 0 fastest. Corners are normalized per axis, so the walk
// is always ascending whatever order they were given in.
// A RangeIter is single use.
type RangeIter struct {
	lo, hi   Coord
	cur      Coord
	dims     int
	complete bool
}

// NewRangeIter builds an iterator over the box between a and b on the first
// dims axes. Axes at or beyond dims are ignored.
func NewRangeIter(a, b Coord, dims int) *RangeIter {
	dims = clampDims(dims)
	var lo, hi Coord
	for i := 0; i < dims; i++ {
		lo[i], hi[i] = min(a[i], b[i]), max(a[i], b[i])
	}
	return &RangeIter{lo: lo, hi: hi, cur: lo, dims: dims}
}

// Next returns the next coordinate, or false once the far corner has been
// produced.
func (it *RangeIter) Next() (Coord, bool) {
	if it.complete {
		return Coord{}, false
	}
	ret := it.cur
	if it.cur == it.hi {
		it.complete = true
		return ret, true
	}
	for i := 0; i < it.dims; i++ {
		if it.cur[i] == it.hi[i] {
			it.cur[i] = it.lo[i]
			continue
		}
		it.cur[i]++
		break
	}
	return ret, true
}

// Range wraps a fresh RangeIter for use with for-range.
func Range(a, b Coord, dims int) iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		it := NewRangeIter(a, b, dims)
		for c, ok := it.Next(); ok; c, ok = it.Next() {
			if !yield(c) {
				return
			}
		}
	}
}

// Range is Range restricted to the axes of s.
func (s Space) Range(a, b Coord) iter.Seq[Coord] {
	return Range(a, b, s.Dims)
}

// Volume is the number of coordinates Range(a, b, dims) yields, saturating at
// math.MaxInt.
func Volume(a, b Coord, dims int) int {
	dims = clampDims(dims)
	n := 1
	for i := 0; i < dims; i++ {
		side := max(a[i], b[i]) - min(a[i], b[i]) + 1
		if side <= 0 || n > math.MaxInt/side {
			return math.MaxInt
		}
		n *= side
	}
	return n
}

func clampDims(dims int) int {
	return min(max(dims, 0), MaxDims)
}
