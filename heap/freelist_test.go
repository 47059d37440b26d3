package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PoojaManglaCMU/MallocImplementation/internal/format"
)

func TestClassIndex(t *testing.T) {
	cases := []struct {
		size, class int
	}{
		{16, 0},
		{24, 1},
		{32, 1},
		{33, 2},
		{64, 2},
		{128, 3},
		{256, 4},
		{4096, 8},
		{16 << 11, 11},
		{16 << 12, 12},
		{1 << 30, format.MaxList}, // clamped
	}
	for _, c := range cases {
		assert.Equal(t, c.class, classIndex(c.size), "size %d", c.size)
	}
}

// allocRow carves n equal blocks out of a fresh heap. Every other block can
// then be freed without triggering coalescing, which keeps list-structure
// tests independent of the merge logic.
func allocRow(t *testing.T, h *Heap, n, size int) []Ref {
	t.Helper()
	refs := make([]Ref, 0, n)
	for i := 0; i < n; i++ {
		ref, _, err := h.Alloc(size)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	return refs
}

func TestInsertIsLIFO(t *testing.T) {
	h := newHeap(t)

	// Free two same-class blocks shielded by allocated neighbors: the
	// later free becomes the head.
	refs := allocRow(t, h, 4, 24)
	a, b := refs[0], refs[2]
	require.NoError(t, h.Free(a))
	require.NoError(t, h.Free(b))

	data := h.Bytes()
	k := classIndex(32)
	head := listHead(data, k)
	assert.Equal(t, int(b), head)
	assert.Equal(t, int(a), succ(data, head))
	assert.Equal(t, head, pred(data, int(a)))
	assert.Equal(t, format.NullRef, pred(data, head))
	assert.Equal(t, format.NullRef, succ(data, int(a)))
}

func TestRemoveMiddleOfList(t *testing.T) {
	h := newHeap(t)

	// Build a class-1 list of three blocks: c -> b -> a.
	refs := allocRow(t, h, 6, 24)
	a, b, c := refs[0], refs[2], refs[4]
	require.NoError(t, h.Free(a))
	require.NoError(t, h.Free(b))
	require.NoError(t, h.Free(c))

	data := h.Bytes()
	k := classIndex(32)
	require.Equal(t, int(c), listHead(data, k))

	// Splice b out of the middle.
	h.removeBlock(data, int(b))
	assert.Equal(t, int(c), listHead(data, k))
	assert.Equal(t, int(a), succ(data, int(c)))
	assert.Equal(t, int(c), pred(data, int(a)))
}

func TestRemoveHeadUpdatesTable(t *testing.T) {
	h := newHeap(t)

	refs := allocRow(t, h, 2, 24)
	require.NoError(t, h.Free(refs[0]))

	data := h.Bytes()
	k := classIndex(32)
	require.Equal(t, int(refs[0]), listHead(data, k))

	h.removeBlock(data, int(refs[0]))
	assert.Equal(t, format.NullRef, listHead(data, k))
}
