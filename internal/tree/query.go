package tree

// ChildAt returns the i-th child of n.
func ChildAt[N Node[N]](n N, i int) (N, bool) {
	if i < 0 || i >= n.NumChildren() {
		var zero N
		return zero, false
	}
	return n.Child(i), true
}

// DescendantAt resolves addr below root. Any out-of-range offset makes the
// whole lookup fail.
func DescendantAt[N Node[N]](root N, addr Address) (N, bool) {
	cursor, ok := ChildAt(root, addr.First())
	if !ok {
		return cursor, false
	}
	for _, i := range addr.Rest() {
		if cursor, ok = ChildAt(cursor, i); !ok {
			return cursor, false
		}
	}
	return cursor, true
}

// NodeAtOffset returns the node at the given pre-order position.
func NodeAtOffset[N Node[N]](root N, offset int) (N, bool) {
	_, n, ok := AddressAt(root, offset)
	return n, ok
}

// AddressAt returns the address of the node at the given pre-order position.
func AddressAt[N Node[N]](root N, offset int) (Address, N, bool) {
	var zero N
	if offset < 0 {
		return Address{}, zero, false
	}
	it := NewAddressIter(root)
	for addr, n, ok := it.Next(); ok; addr, n, ok = it.Next() {
		if offset == 0 {
			return addr, n, true
		}
		offset--
	}
	return Address{}, zero, false
}

// OffsetOf returns the pre-order position of the node at addr. The scan stops
// at the first address not less than addr, so an absent address costs no more
// than a present one.
func OffsetOf[N Node[N]](root N, addr Address) (int, N, bool) {
	var zero N
	it := NewAddressIter(root)
	offset := 0
	for a, n, ok := it.Next(); ok; a, n, ok = it.Next() {
		switch c := a.Compare(addr); {
		case c == 0:
			return offset, n, true
		case c > 0:
			return 0, zero, false
		}
		offset++
	}
	return 0, zero, false
}

// NearestTo repairs a possibly stale address against the current tree by
// clamping each offset to the children available at that depth. It stops at
// the first node without children. It only fails when root has no children.
func NearestTo[N Node[N]](root N, origin Address) (Address, N, bool) {
	count := root.NumChildren()
	if count == 0 {
		var zero N
		return Address{}, zero, false
	}
	clamped := clamp(origin.First(), 0, count-1)
	addr := NewAddress(clamped)
	cursor := root.Child(clamped)
	for _, i := range origin.Rest() {
		count = cursor.NumChildren()
		if count == 0 {
			break
		}
		clamped = clamp(i, 0, count-1)
		addr.Push(clamped)
		cursor = cursor.Child(clamped)
	}
	return addr, cursor, true
}

// FirstChild returns the first child of n and its offset.
func FirstChild[N Node[N]](n N) (int, N, bool) {
	child, ok := ChildAt(n, 0)
	return 0, child, ok
}

// LastChild returns the last child of n and its offset.
func LastChild[N Node[N]](n N) (int, N, bool) {
	i := n.NumChildren() - 1
	child, ok := ChildAt(n, i)
	return i, child, ok
}

// FirstDescendant returns the first node in pre-order.
func FirstDescendant[N Node[N]](root N) (Address, N, bool) {
	i, child, ok := FirstChild(root)
	return NewAddress(i), child, ok
}

// LastDescendant returns the last node in pre-order.
func LastDescendant[N Node[N]](root N) (Address, N, bool) {
	return LastDescendantFrom(root, NewAddress(max(root.NumChildren()-1, 0)))
}

// LastDescendantFrom follows last children from the node at addr down to a
// leaf, returning the last node in pre-order of that subtree.
func LastDescendantFrom[N Node[N]](root N, addr Address) (Address, N, bool) {
	n, ok := DescendantAt(root, addr)
	if !ok {
		return Address{}, n, false
	}
	addr, n = descendLast(addr, n)
	return addr, n, true
}

func descendLast[N Node[N]](addr Address, n N) (Address, N) {
	for n.NumChildren() > 0 {
		i := n.NumChildren() - 1
		addr.Push(i)
		n = n.Child(i)
	}
	return addr, n
}

func previousChildTo[N Node[N]](n N, i int) (int, N, bool) {
	if i <= 0 {
		var zero N
		return 0, zero, false
	}
	child, ok := ChildAt(n, i-1)
	return i - 1, child, ok
}

func nextChildTo[N Node[N]](n N, i int) (int, N, bool) {
	child, ok := ChildAt(n, i+1)
	return i + 1, child, ok
}

// PreviousSiblingOf returns the sibling immediately before addr. Root-level
// siblings are children of root.
func PreviousSiblingOf[N Node[N]](root N, addr Address) (Address, N, bool) {
	return siblingOf(root, addr, previousChildTo[N])
}

// NextSiblingOf returns the sibling immediately after addr.
func NextSiblingOf[N Node[N]](root N, addr Address) (Address, N, bool) {
	return siblingOf(root, addr, nextChildTo[N])
}

func siblingOf[N Node[N]](root N, addr Address, step func(N, int) (int, N, bool)) (Address, N, bool) {
	if addr.IsRootLevel() {
		i, sibling, ok := step(root, addr.First())
		return NewAddress(i), sibling, ok
	}
	parentAddr := addr.Popped()
	parent, ok := DescendantAt(root, parentAddr)
	if !ok {
		return Address{}, parent, false
	}
	i, sibling, ok := step(parent, addr.Last())
	if !ok {
		return Address{}, sibling, false
	}
	return parentAddr.Pushed(i), sibling, true
}

// PreviousRelativeOf returns the node immediately before addr in pre-order:
// the last descendant of the previous sibling, or the parent when there is
// no previous sibling. It fails at the first node and for addresses that do
// not exist.
func PreviousRelativeOf[N Node[N]](root N, addr Address) (Address, N, bool) {
	var (
		prevAddr Address
		prevNode N
		found    bool
	)

	cursor, ok := ChildAt(root, addr.First())
	if !ok {
		return prevAddr, prevNode, false
	}
	cursorAddr := NewAddress(addr.First())
	if j, sibling, ok := previousChildTo(root, addr.First()); ok {
		prevAddr, prevNode = descendLast(NewAddress(j), sibling)
		found = true
	}

	for _, i := range addr.Rest() {
		if j, sibling, ok := previousChildTo(cursor, i); ok {
			prevAddr, prevNode = descendLast(cursorAddr.Pushed(j), sibling)
		} else {
			prevAddr, prevNode = cursorAddr, cursor
		}
		found = true

		cursorAddr.Push(i)
		if cursor, ok = ChildAt(cursor, i); !ok {
			var zero N
			return Address{}, zero, false
		}
	}

	return prevAddr, prevNode, found
}

// NextRelativeOf returns the node immediately after addr in pre-order: its
// first child, or else the next sibling of the deepest ancestor-or-self that
// has one. It fails at the last node and for addresses that do not exist.
func NextRelativeOf[N Node[N]](root N, addr Address) (Address, N, bool) {
	var (
		nextAddr Address
		nextNode N
		found    bool
	)

	cursor, ok := ChildAt(root, addr.First())
	if !ok {
		return nextAddr, nextNode, false
	}
	if j, sibling, ok := nextChildTo(root, addr.First()); ok {
		nextAddr, nextNode, found = addr.Spliced(0, j), sibling, true
	}

	for place, i := range addr.Rest() {
		if j, sibling, ok := nextChildTo(cursor, i); ok {
			nextAddr, nextNode, found = addr.Spliced(place, j), sibling, true
		}
		if cursor, ok = ChildAt(cursor, i); !ok {
			var zero N
			return Address{}, zero, false
		}
	}

	if child, ok := ChildAt(cursor, 0); ok {
		return addr.Pushed(0), child, true
	}
	return nextAddr, nextNode, found
}

// ParentOf returns the parent of addr. Root-level addresses have no parent.
func ParentOf[N Node[N]](root N, addr Address) (Address, N, bool) {
	if addr.IsRootLevel() {
		var zero N
		return Address{}, zero, false
	}
	parentAddr := addr.Popped()
	parent, ok := DescendantAt(root, parentAddr)
	return parentAddr, parent, ok
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
