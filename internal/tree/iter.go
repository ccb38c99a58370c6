package tree

import "iter"

// Iter walks the descendants of a root in pre-order. It is single-pass.
type Iter[N Node[N]] struct {
	stack []N
}

// NewIter returns an iterator over the descendants of root.
func NewIter[N Node[N]](root N) *Iter[N] {
	it := &Iter[N]{}
	it.pushChildren(root)
	return it
}

func (it *Iter[N]) pushChildren(n N) {
	for i := n.NumChildren() - 1; i >= 0; i-- {
		it.stack = append(it.stack, n.Child(i))
	}
}

// Next returns the next node, or false once the traversal is exhausted.
func (it *Iter[N]) Next() (N, bool) {
	if len(it.stack) == 0 {
		var zero N
		return zero, false
	}
	n := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	it.pushChildren(n)
	return n, true
}

type depthItem[N any] struct {
	depth int
	node  N
}

// DepthIter walks the descendants of a root in pre-order, yielding the
// 0-based depth of each node below the root.
type DepthIter[N Node[N]] struct {
	stack []depthItem[N]
}

// NewDepthIter returns a depth-annotated iterator over the descendants of
// root.
func NewDepthIter[N Node[N]](root N) *DepthIter[N] {
	it := &DepthIter[N]{}
	it.pushChildren(0, root)
	return it
}

func (it *DepthIter[N]) pushChildren(depth int, n N) {
	for i := n.NumChildren() - 1; i >= 0; i-- {
		it.stack = append(it.stack, depthItem[N]{depth: depth, node: n.Child(i)})
	}
}

// Next returns the next node and its depth.
func (it *DepthIter[N]) Next() (int, N, bool) {
	if len(it.stack) == 0 {
		var zero N
		return 0, zero, false
	}
	item := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	it.pushChildren(item.depth+1, item.node)
	return item.depth, item.node, true
}

type addressItem[N any] struct {
	addr Address
	node N
}

// AddressIter walks the descendants of a root in pre-order, yielding the
// address of each node.
type AddressIter[N Node[N]] struct {
	stack []addressItem[N]
}

// NewAddressIter returns an address-annotated iterator over the descendants
// of root.
func NewAddressIter[N Node[N]](root N) *AddressIter[N] {
	it := &AddressIter[N]{}
	for i := root.NumChildren() - 1; i >= 0; i-- {
		it.stack = append(it.stack, addressItem[N]{addr: NewAddress(i), node: root.Child(i)})
	}
	return it
}

// Next returns the next node and its address.
func (it *AddressIter[N]) Next() (Address, N, bool) {
	if len(it.stack) == 0 {
		var zero N
		return Address{}, zero, false
	}
	item := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	for i := item.node.NumChildren() - 1; i >= 0; i-- {
		it.stack = append(it.stack, addressItem[N]{addr: item.addr.Pushed(i), node: item.node.Child(i)})
	}
	return item.addr, item.node, true
}

// All yields the descendants of root in pre-order.
func All[N Node[N]](root N) iter.Seq[N] {
	return func(yield func(N) bool) {
		it := NewIter(root)
		for n, ok := it.Next(); ok; n, ok = it.Next() {
			if !yield(n) {
				return
			}
		}
	}
}

// AllWithDepth yields the descendants of root in pre-order with their depth.
func AllWithDepth[N Node[N]](root N) iter.Seq2[int, N] {
	return func(yield func(int, N) bool) {
		it := NewDepthIter(root)
		for depth, n, ok := it.Next(); ok; depth, n, ok = it.Next() {
			if !yield(depth, n) {
				return
			}
		}
	}
}

// AllWithAddress yields the descendants of root in pre-order with their
// address.
func AllWithAddress[N Node[N]](root N) iter.Seq2[Address, N] {
	return func(yield func(Address, N) bool) {
		it := NewAddressIter(root)
		for addr, n, ok := it.Next(); ok; addr, n, ok = it.Next() {
			if !yield(addr, n) {
				return
			}
		}
	}
}

// Count returns the number of descendants of root.
func Count[N Node[N]](root N) int {
	count := 0
	it := NewIter(root)
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		count++
	}
	return count
}
