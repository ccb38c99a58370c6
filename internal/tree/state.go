package tree

import "iter"

// State is the viewport state a widget keeps between renders: the scroll
// offset and the selected address, if any.
type State struct {
	offset       int
	selected     Address
	hasSelection bool
}

// NewState returns a state with no selection scrolled to the top.
func NewState() *State {
	return &State{}
}

// Offset returns the persisted scroll offset.
func (s *State) Offset() int {
	return s.offset
}

// SetOffset overrides the scroll offset; the next window computation clamps
// it.
func (s *State) SetOffset(offset int) {
	s.offset = max(offset, 0)
}

// Selected returns the selected address.
func (s *State) Selected() (Address, bool) {
	return s.selected, s.hasSelection
}

// Select stores addr as the selection.
func (s *State) Select(addr Address) {
	s.selected = addr.Clone()
	s.hasSelection = true
}

// Deselect clears the selection and keeps the scroll offset.
func (s *State) Deselect() {
	s.selected = Address{}
	s.hasSelection = false
}

// Reset clears the selection and scrolls back to the top.
func (s *State) Reset() {
	s.Deselect()
	s.offset = 0
}

// ResolveSelection repairs a stored address against the current tree.
func ResolveSelection[N Node[N]](root N, stored Address) (Address, bool) {
	addr, _, ok := NearestTo(root, stored)
	return addr, ok
}

// MoveUp returns the address before current in reading order.
func MoveUp[N Node[N]](root N, current Address) (Address, bool) {
	addr, _, ok := PreviousRelativeOf(root, current)
	return addr, ok
}

// MoveDown returns the address after current in reading order.
func MoveDown[N Node[N]](root N, current Address) (Address, bool) {
	addr, _, ok := NextRelativeOf(root, current)
	return addr, ok
}

// MoveToParent returns the parent of current.
func MoveToParent[N Node[N]](root N, current Address) (Address, bool) {
	addr, _, ok := ParentOf(root, current)
	return addr, ok
}

// SelectUp moves the selection one node up. Without a selection it selects
// the first node. At the first node the selection is left unchanged.
func SelectUp[N Node[N]](root N, s *State) {
	current, ok := s.Selected()
	if !ok {
		if addr, _, ok := FirstDescendant(root); ok {
			s.Select(addr)
		}
		return
	}
	if addr, ok := MoveUp(root, current); ok {
		s.Select(addr)
	}
}

// SelectDown moves the selection one node down. Without a selection it
// selects the last node. At the last node the selection is left unchanged.
func SelectDown[N Node[N]](root N, s *State) {
	current, ok := s.Selected()
	if !ok {
		if addr, _, ok := LastDescendant(root); ok {
			s.Select(addr)
		}
		return
	}
	if addr, ok := MoveDown(root, current); ok {
		s.Select(addr)
	}
}

// SelectParent moves the selection to the parent node. Without a selection it
// selects the first node.
func SelectParent[N Node[N]](root N, s *State) {
	current, ok := s.Selected()
	if !ok {
		if addr, _, ok := FirstDescendant(root); ok {
			s.Select(addr)
		}
		return
	}
	if addr, ok := MoveToParent(root, current); ok {
		s.Select(addr)
	}
}

// SelectFirst selects the first node in reading order.
func SelectFirst[N Node[N]](root N, s *State) {
	if addr, _, ok := FirstDescendant(root); ok {
		s.Select(addr)
	}
}

// SelectLast selects the last node in reading order.
func SelectLast[N Node[N]](root N, s *State) {
	if addr, _, ok := LastDescendant(root); ok {
		s.Select(addr)
	}
}

// ComputeVisibleWindow runs one render cycle's bookkeeping: it repairs the
// stored selection against root, windows the pre-order sequence to capacity
// lines and persists the new scroll offset in s. An empty tree clears the
// selection.
func ComputeVisibleWindow[N Node[N]](root N, s *State, capacity, padding int, heightOf func(N) int) (first, last int) {
	var nodes []N
	for n := range All(root) {
		nodes = append(nodes, n)
	}
	if len(nodes) == 0 {
		s.Reset()
		return 0, 0
	}

	w := Window{
		Count:    len(nodes),
		Offset:   s.offset,
		Capacity: capacity,
		Padding:  padding,
	}
	if heightOf != nil {
		w.HeightOf = func(offset int) int { return heightOf(nodes[offset]) }
	}
	if current, ok := s.Selected(); ok {
		if addr, ok := ResolveSelection(root, current); ok {
			s.Select(addr)
			if offset, _, ok := OffsetOf(root, addr); ok {
				w.Selected, w.HasSelection = offset, true
			}
		}
	}

	first, last = w.Bounds()
	s.offset = first
	return first, last
}

// Row is one node of a rendered window.
type Row[N any] struct {
	Offset  int
	Depth   int
	Address Address
	Node    N
}

// Visible yields the nodes in the half-open pre-order range [first, last).
func Visible[N Node[N]](root N, first, last int) iter.Seq[Row[N]] {
	return func(yield func(Row[N]) bool) {
		offset := 0
		for addr, n := range AllWithAddress(root) {
			if offset >= last {
				return
			}
			if offset >= first {
				row := Row[N]{Offset: offset, Depth: addr.Len() - 1, Address: addr, Node: n}
				if !yield(row) {
					return
				}
			}
			offset++
		}
	}
}
