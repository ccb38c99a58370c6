package tree

// Window holds the inputs of a visible range computation over a linear
// sequence of Count items with heights given by HeightOf.
type Window struct {
	Count        int
	Offset       int // scroll offset persisted by the previous render
	Capacity     int // viewport height in lines
	Padding      int // items to keep visible around the selection
	Selected     int
	HasSelection bool
	HeightOf     func(offset int) int
}

// Bounds returns the half-open range [first, last) of items to render. The
// caller persists first as the next scroll offset.
//
// The window starts at the previous offset and only slides as far as needed
// to bring the padded selection into view. Padding shrinks when the items
// around the selection do not fit the capacity.
func (w Window) Bounds() (first, last int) {
	if w.Count <= 0 {
		return 0, 0
	}
	capacity := max(w.Capacity, 0)
	offset := clamp(w.Offset, 0, w.Count-1)

	first, last = offset, offset
	height := 0
	for i := offset; i < w.Count; i++ {
		h := w.height(i)
		if height+h > capacity {
			break
		}
		height += h
		last++
	}

	target := offset
	if w.HasSelection {
		target = w.paddedTarget(first, last, capacity)
	}

	for target >= last {
		height += w.height(last)
		last++
		for height > capacity {
			height -= w.height(first)
			first++
		}
	}

	for target < first {
		first--
		height += w.height(first)
		for height > capacity {
			last--
			height -= w.height(last)
		}
	}

	return first, last
}

// paddedTarget returns the offset that must be visible for the selection to
// keep its padding, reducing the padding until the padded span fits.
func (w Window) paddedTarget(first, last, capacity int) int {
	lastValid := w.Count - 1
	selected := clamp(w.Selected, 0, lastValid)

	padding := max(w.Padding, 0)
	for padding > 0 {
		total := 0
		for i := max(selected-padding, 0); i <= min(selected+padding, lastValid); i++ {
			total += w.height(i)
		}
		if total <= capacity {
			break
		}
		padding--
	}

	target := selected
	switch {
	case min(selected+padding, lastValid) >= last:
		target = selected + padding
	case max(selected-padding, 0) < first:
		target = max(selected-padding, 0)
	}
	return min(target, lastValid)
}

func (w Window) height(offset int) int {
	if w.HeightOf == nil {
		return 1
	}
	return max(w.HeightOf(offset), 0)
}
