package verify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PoojaManglaCMU/MallocImplementation/heap"
	"github.com/PoojaManglaCMU/MallocImplementation/heap/verify"
	"github.com/PoojaManglaCMU/MallocImplementation/internal/format"
)

func buildHeap(t *testing.T) *heap.Heap {
	t.Helper()
	h, err := heap.New()
	require.NoError(t, err)

	// A little structure: two live blocks and one freed one.
	a, _, err := h.Alloc(24)
	require.NoError(t, err)
	_, _, err = h.Alloc(100)
	require.NoError(t, err)
	_, _, err = h.Alloc(24)
	require.NoError(t, err)
	require.NoError(t, h.Free(a))
	return h
}

func TestAllInvariantsOnHealthyHeap(t *testing.T) {
	h := buildHeap(t)
	require.NoError(t, verify.AllInvariants(h.Bytes()))
}

func TestCheckerIsPure(t *testing.T) {
	h := buildHeap(t)
	before := append([]byte(nil), h.Bytes()...)
	require.NoError(t, verify.AllInvariants(h.Bytes()))
	assert.Equal(t, before, h.Bytes(), "checker must not mutate the heap")
}

func TestDetectsBrokenPrologue(t *testing.T) {
	h := buildHeap(t)
	data := h.Bytes()
	format.PutU32(data, format.PrologueHeader, format.Pack(16, true))

	err := verify.AllInvariants(data)
	require.Error(t, err)
	var verr *verify.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Sentinels", verr.Type)
}

func TestDetectsBrokenEpilogue(t *testing.T) {
	h := buildHeap(t)
	data := h.Bytes()
	format.PutU32(data, len(data)-format.WordSize, format.Pack(0, false))

	err := verify.AllInvariants(data)
	require.Error(t, err)
	var verr *verify.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Sentinels", verr.Type)
}

func TestDetectsHeaderFooterMismatch(t *testing.T) {
	h := buildHeap(t)
	data := h.Bytes()

	// Clobber the first real block's footer size without touching the
	// header.
	bp := format.Prologue + format.DWordSize
	size := format.TagSize(format.ReadU32(data, bp-format.WordSize))
	format.PutU32(data, bp+size-format.DWordSize, format.Pack(size+8, true))

	err := verify.AllInvariants(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "footer")
}

func TestDetectsAdjacentFreeBlocks(t *testing.T) {
	h := buildHeap(t)
	data := h.Bytes()

	// Clear the allocated bit on the block after the freed one, without
	// going through Free: two adjacent free blocks, never coalesced.
	bp := format.Prologue + format.DWordSize // the freed 32-byte block
	size := format.TagSize(format.ReadU32(data, bp-format.WordSize))
	next := bp + size
	nsize := format.TagSize(format.ReadU32(data, next-format.WordSize))
	format.PutU32(data, next-format.WordSize, format.Pack(nsize, false))
	format.PutU32(data, next+nsize-format.DWordSize, format.Pack(nsize, false))

	err := verify.AllInvariants(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adjacent")
}

func TestDetectsFreeListCountMismatch(t *testing.T) {
	h := buildHeap(t)
	data := h.Bytes()

	// Empty a class head behind the allocator's back: the physical walk
	// still sees the free block, the list walk no longer does.
	for k := 0; k <= format.MaxList; k++ {
		if format.ReadU32(data, k*format.WordSize) != 0 {
			format.PutU32(data, k*format.WordSize, 0)
			break
		}
	}

	err := verify.AllInvariants(data)
	require.Error(t, err)
	var verr *verify.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Counts", verr.Type)
}

func TestDetectsWrongClassMembership(t *testing.T) {
	h := buildHeap(t)
	data := h.Bytes()

	// Move a class head into the wrong bucket.
	for k := 0; k <= format.MaxList; k++ {
		head := format.ReadU32(data, k*format.WordSize)
		if head != 0 {
			wrong := (k + 1) % (format.MaxList + 1)
			format.PutU32(data, k*format.WordSize, 0)
			format.PutU32(data, wrong*format.WordSize, head)
			break
		}
	}

	err := verify.AllInvariants(data)
	require.Error(t, err)
	var verr *verify.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "FreeLists", verr.Type)
}

func TestFreeSpaceAccounting(t *testing.T) {
	h, err := heap.New()
	require.NoError(t, err)

	blocks, bytes := verify.FreeSpace(h.Bytes())
	assert.Equal(t, 1, blocks)
	assert.Equal(t, format.ChunkSize, bytes)

	ref, _, err := h.Alloc(24)
	require.NoError(t, err)
	blocks, bytes = verify.FreeSpace(h.Bytes())
	assert.Equal(t, 1, blocks)
	assert.Equal(t, format.ChunkSize-32, bytes)

	require.NoError(t, h.Free(ref))
	blocks, bytes = verify.FreeSpace(h.Bytes())
	assert.Equal(t, 1, blocks)
	assert.Equal(t, format.ChunkSize, bytes)
}
