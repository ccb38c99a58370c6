// Package tree addresses, traverses and windows N-ary trees whose items have
// variable heights, for display in a bounded viewport.
package tree

import (
	"fmt"
	"iter"
	"slices"
)

// Address is a non-empty path of child offsets locating a node relative to a
// tree root. Element i is the offset taken at depth i. The root itself is not
// addressable.
//
// The zero value is the address [0]. Addresses are values: a copy is never
// affected by mutations of the original.
type Address struct {
	head int
	tail []int
}

// NewAddress builds an address from its root-level offset and the offsets
// below it.
func NewAddress(first int, rest ...int) Address {
	return Address{head: first, tail: slices.Clone(rest)}
}

// AddressFrom builds an address from a slice of offsets. It reports false
// for an empty slice.
func AddressFrom(offsets []int) (Address, bool) {
	if len(offsets) == 0 {
		return Address{}, false
	}
	return NewAddress(offsets[0], offsets[1:]...), true
}

// First returns the root-level offset.
func (a Address) First() int {
	return a.head
}

// Last returns the deepest offset.
func (a Address) Last() int {
	if len(a.tail) == 0 {
		return a.head
	}
	return a.tail[len(a.tail)-1]
}

// Len returns the number of offsets, which is the node depth plus one.
func (a Address) Len() int {
	return 1 + len(a.tail)
}

// IsRootLevel reports whether the address names a direct child of the root.
func (a Address) IsRootLevel() bool {
	return len(a.tail) == 0
}

// At returns the offset at the given depth. It panics when depth is out of
// range, like a slice index.
func (a Address) At(depth int) int {
	if depth == 0 {
		return a.head
	}
	return a.tail[depth-1]
}

// Offsets returns a copy of all offsets.
func (a Address) Offsets() []int {
	out := make([]int, 0, a.Len())
	out = append(out, a.head)
	return append(out, a.tail...)
}

// All iterates over (depth, offset) pairs from the root down.
func (a Address) All() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		if !yield(0, a.head) {
			return
		}
		for i, offset := range a.tail {
			if !yield(i+1, offset) {
				return
			}
		}
	}
}

// Rest iterates over (depth, offset) pairs below the root level.
func (a Address) Rest() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i, offset := range a.tail {
			if !yield(i+1, offset) {
				return
			}
		}
	}
}

// Push appends a child offset in place.
func (a *Address) Push(offset int) {
	// Clip so that append never writes into an array shared with a copy.
	a.tail = append(slices.Clip(a.tail), offset)
}

// Pushed returns a copy of a with offset appended.
func (a Address) Pushed(offset int) Address {
	tail := make([]int, len(a.tail)+1)
	copy(tail, a.tail)
	tail[len(a.tail)] = offset
	return Address{head: a.head, tail: tail}
}

// Pop removes the deepest offset in place and returns it. A root-level
// address is left untouched and Pop reports false.
func (a *Address) Pop() (int, bool) {
	n := len(a.tail)
	if n == 0 {
		return 0, false
	}
	last := a.tail[n-1]
	a.tail = a.tail[: n-1 : n-1]
	return last, true
}

// Popped returns a copy of a without its deepest offset, or a itself when it
// is root-level.
func (a Address) Popped() Address {
	a.Pop()
	return a
}

// Splice keeps the first place offsets, padding with zeros if the address is
// shorter, then appends offset. The result has place+1 offsets.
func (a *Address) Splice(place, offset int) {
	if place <= 0 {
		a.head = offset
		a.tail = nil
		return
	}
	tail := make([]int, place)
	copy(tail, a.tail[:min(len(a.tail), place-1)])
	tail[place-1] = offset
	a.tail = tail
}

// Spliced is the copying form of Splice.
func (a Address) Spliced(place, offset int) Address {
	a.Splice(place, offset)
	return a
}

// Floor truncates the address to depth place inclusive, padding with zeros
// if it is shorter. The result has place+1 offsets.
func (a *Address) Floor(place int) {
	if place <= 0 {
		a.tail = nil
		return
	}
	tail := make([]int, place)
	copy(tail, a.tail)
	a.tail = tail
}

// Floored is the copying form of Floor.
func (a Address) Floored(place int) Address {
	a.Floor(place)
	return a
}

// Clone returns an independent copy of a.
func (a Address) Clone() Address {
	return Address{head: a.head, tail: slices.Clone(a.tail)}
}

// Compare orders addresses lexicographically, a proper prefix first. The
// order matches pre-order traversal.
func (a Address) Compare(b Address) int {
	switch {
	case a.head < b.head:
		return -1
	case a.head > b.head:
		return 1
	}
	return slices.Compare(a.tail, b.tail)
}

// Equal reports whether a and b hold the same offsets.
func (a Address) Equal(b Address) bool {
	return a.head == b.head && slices.Equal(a.tail, b.tail)
}

// String formats the address as "[0 1 2]".
func (a Address) String() string {
	return fmt.Sprint(a.Offsets())
}
