package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescendantAt(t *testing.T) {
	root := sampleTree()
	tests := []struct {
		addr     Address
		expected string
		ok       bool
	}{
		{addr: NewAddress(0), expected: "a", ok: true},
		{addr: NewAddress(0, 1), expected: "c", ok: true},
		{addr: NewAddress(1, 1), expected: "z", ok: true},
		{addr: NewAddress(2), ok: false},
		{addr: NewAddress(0, 2), ok: false},
		{addr: NewAddress(0, 0, 0), ok: false},
		{addr: NewAddress(-1), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.addr.String(), func(t *testing.T) {
			n, ok := DescendantAt(root, tt.addr)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.expected, n.name)
			}
		})
	}
}

func TestOffsetOfAndAddressAt(t *testing.T) {
	root := sampleTree()
	expected := []Address{
		NewAddress(0), NewAddress(0, 0), NewAddress(0, 1),
		NewAddress(1), NewAddress(1, 0), NewAddress(1, 1),
	}

	for offset, addr := range expected {
		got, n, ok := OffsetOf(root, addr)
		require.True(t, ok, addr.String())
		assert.Equal(t, offset, got)

		back, m, ok := AddressAt(root, offset)
		require.True(t, ok)
		assert.True(t, addr.Equal(back), "offset %d: want %s, got %s", offset, addr, back)
		assert.Same(t, n, m)

		byOffset, ok := NodeAtOffset(root, offset)
		require.True(t, ok)
		assert.Same(t, n, byOffset)
	}

	for _, missing := range []Address{NewAddress(2), NewAddress(0, 5), NewAddress(1, 1, 0)} {
		_, _, ok := OffsetOf(root, missing)
		assert.False(t, ok, missing.String())
	}

	_, _, ok := AddressAt(root, 6)
	assert.False(t, ok)
	_, _, ok = AddressAt(root, -1)
	assert.False(t, ok)
}

func TestOffsetsIncreaseWithAddressOrder(t *testing.T) {
	root := sampleTree()
	var prev Address
	prevOffset := -1
	for addr := range AllWithAddress(root) {
		offset, _, ok := OffsetOf(root, addr)
		require.True(t, ok)
		if prevOffset >= 0 {
			assert.Negative(t, prev.Compare(addr))
			assert.Greater(t, offset, prevOffset)
		}
		prev, prevOffset = addr, offset
	}
}

func TestNearestTo(t *testing.T) {
	root := sampleTree()
	tests := []struct {
		name     string
		origin   Address
		expected []int
	}{
		{name: "existing", origin: NewAddress(1, 0), expected: []int{1, 0}},
		{name: "clamp child", origin: NewAddress(0, 5), expected: []int{0, 1}},
		{name: "clamp root level", origin: NewAddress(5), expected: []int{1}},
		{name: "clamp both", origin: NewAddress(7, 7), expected: []int{1, 1}},
		{name: "stop at leaf", origin: NewAddress(0, 0, 3), expected: []int{0, 0}},
		{name: "negative", origin: NewAddress(-1, -4), expected: []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, n, ok := NearestTo(root, tt.origin)
			require.True(t, ok)
			assert.Equal(t, tt.expected, addr.Offsets())

			found, ok := DescendantAt(root, addr)
			require.True(t, ok)
			assert.Same(t, found, n)
		})
	}

	_, _, ok := NearestTo(leaf("root"), NewAddress(0))
	assert.False(t, ok)
}

func TestNearestToExistingIsIdentity(t *testing.T) {
	root := sampleTree()
	for addr := range AllWithAddress(root) {
		got, _, ok := NearestTo(root, addr)
		require.True(t, ok)
		assert.True(t, addr.Equal(got), addr.String())
	}
}

func TestFirstAndLast(t *testing.T) {
	root := sampleTree()

	i, n, ok := FirstChild(root)
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, "a", n.name)

	i, n, ok = LastChild(root)
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, "x", n.name)

	addr, n, ok := FirstDescendant(root)
	require.True(t, ok)
	assert.Equal(t, []int{0}, addr.Offsets())
	assert.Equal(t, "a", n.name)

	addr, n, ok = LastDescendant(root)
	require.True(t, ok)
	assert.Equal(t, []int{1, 1}, addr.Offsets())
	assert.Equal(t, "z", n.name)

	addr, n, ok = LastDescendantFrom(root, NewAddress(0))
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, addr.Offsets())
	assert.Equal(t, "c", n.name)

	_, _, ok = LastDescendantFrom(root, NewAddress(3))
	assert.False(t, ok)

	empty := leaf("root")
	_, _, ok = FirstChild(empty)
	assert.False(t, ok)
	_, _, ok = LastChild(empty)
	assert.False(t, ok)
	_, _, ok = FirstDescendant(empty)
	assert.False(t, ok)
	_, _, ok = LastDescendant(empty)
	assert.False(t, ok)
}

func TestSiblings(t *testing.T) {
	root := sampleTree()

	addr, n, ok := PreviousSiblingOf(root, NewAddress(0, 1))
	require.True(t, ok)
	assert.Equal(t, []int{0, 0}, addr.Offsets())
	assert.Equal(t, "b", n.name)

	addr, n, ok = PreviousSiblingOf(root, NewAddress(1))
	require.True(t, ok)
	assert.Equal(t, []int{0}, addr.Offsets())
	assert.Equal(t, "a", n.name)

	_, _, ok = PreviousSiblingOf(root, NewAddress(0, 0))
	assert.False(t, ok)
	_, _, ok = PreviousSiblingOf(root, NewAddress(0))
	assert.False(t, ok)

	addr, n, ok = NextSiblingOf(root, NewAddress(0, 0))
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, addr.Offsets())
	assert.Equal(t, "c", n.name)

	addr, n, ok = NextSiblingOf(root, NewAddress(0))
	require.True(t, ok)
	assert.Equal(t, []int{1}, addr.Offsets())
	assert.Equal(t, "x", n.name)

	_, _, ok = NextSiblingOf(root, NewAddress(1))
	assert.False(t, ok)
	_, _, ok = NextSiblingOf(root, NewAddress(1, 1))
	assert.False(t, ok)
	_, _, ok = NextSiblingOf(root, NewAddress(4, 0))
	assert.False(t, ok)
}

func TestPreviousRelativeOf(t *testing.T) {
	root := sampleTree()
	tests := []struct {
		addr     Address
		expected []int
		name     string
	}{
		{addr: NewAddress(1), expected: []int{0, 1}, name: "c"},
		{addr: NewAddress(0, 0), expected: []int{0}, name: "a"},
		{addr: NewAddress(0, 1), expected: []int{0, 0}, name: "b"},
		{addr: NewAddress(1, 0), expected: []int{1}, name: "x"},
		{addr: NewAddress(1, 1), expected: []int{1, 0}, name: "y"},
	}

	for _, tt := range tests {
		t.Run(tt.addr.String(), func(t *testing.T) {
			addr, n, ok := PreviousRelativeOf(root, tt.addr)
			require.True(t, ok)
			assert.Equal(t, tt.expected, addr.Offsets())
			assert.Equal(t, tt.name, n.name)
		})
	}

	for _, missing := range []Address{NewAddress(0), NewAddress(0, 0, 0), NewAddress(3), NewAddress(0, 4)} {
		_, _, ok := PreviousRelativeOf(root, missing)
		assert.False(t, ok, missing.String())
	}
}

func TestPreviousRelativeOfDeepSubtree(t *testing.T) {
	root := branch("root",
		branch("a", branch("b", leaf("c"), branch("d", leaf("e")))),
		leaf("f"),
	)

	addr, n, ok := PreviousRelativeOf(root, NewAddress(1))
	require.True(t, ok)
	assert.Equal(t, []int{0, 0, 1, 0}, addr.Offsets())
	assert.Equal(t, "e", n.name)
}

func TestNextRelativeOf(t *testing.T) {
	root := sampleTree()
	tests := []struct {
		addr     Address
		expected []int
		name     string
	}{
		{addr: NewAddress(0), expected: []int{0, 0}, name: "b"},
		{addr: NewAddress(0, 0), expected: []int{0, 1}, name: "c"},
		{addr: NewAddress(0, 1), expected: []int{1}, name: "x"},
		{addr: NewAddress(1), expected: []int{1, 0}, name: "y"},
		{addr: NewAddress(1, 0), expected: []int{1, 1}, name: "z"},
	}

	for _, tt := range tests {
		t.Run(tt.addr.String(), func(t *testing.T) {
			addr, n, ok := NextRelativeOf(root, tt.addr)
			require.True(t, ok)
			assert.Equal(t, tt.expected, addr.Offsets())
			assert.Equal(t, tt.name, n.name)
		})
	}

	for _, missing := range []Address{NewAddress(1, 1), NewAddress(0, 0, 0), NewAddress(0, 2), NewAddress(2)} {
		_, _, ok := NextRelativeOf(root, missing)
		assert.False(t, ok, missing.String())
	}
}

func TestNextRelativeOfClimbsSeveralLevels(t *testing.T) {
	root := branch("root",
		branch("a", branch("b", leaf("c"))),
		leaf("d"),
	)

	addr, n, ok := NextRelativeOf(root, NewAddress(0, 0, 0))
	require.True(t, ok)
	assert.Equal(t, []int{1}, addr.Offsets())
	assert.Equal(t, "d", n.name)
}

func TestRelativesAreInverse(t *testing.T) {
	root := branch("root",
		branch("a", leaf("b"), branch("c", leaf("d"), leaf("e"))),
		leaf("f"),
		branch("g", branch("h", branch("i", leaf("j")))),
	)

	var ordered []Address
	for addr := range AllWithAddress(root) {
		ordered = append(ordered, addr)
	}

	for i, addr := range ordered {
		next, _, ok := NextRelativeOf(root, addr)
		if i == len(ordered)-1 {
			assert.False(t, ok)
		} else {
			require.True(t, ok, addr.String())
			assert.True(t, ordered[i+1].Equal(next), "next of %s: want %s, got %s", addr, ordered[i+1], next)

			back, _, ok := PreviousRelativeOf(root, next)
			require.True(t, ok)
			assert.True(t, addr.Equal(back), "previous of %s: want %s, got %s", next, addr, back)
		}
	}
}

func TestParentOf(t *testing.T) {
	root := sampleTree()

	addr, n, ok := ParentOf(root, NewAddress(0, 1))
	require.True(t, ok)
	assert.Equal(t, []int{0}, addr.Offsets())
	assert.Equal(t, "a", n.name)

	addr, n, ok = ParentOf(root, NewAddress(1, 1))
	require.True(t, ok)
	assert.Equal(t, []int{1}, addr.Offsets())
	assert.Equal(t, "x", n.name)

	_, _, ok = ParentOf(root, NewAddress(0))
	assert.False(t, ok)
	_, _, ok = ParentOf(root, NewAddress(5, 0))
	assert.False(t, ok)
}
