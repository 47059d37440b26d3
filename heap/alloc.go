package heap

import "github.com/PoojaManglaCMU/MallocImplementation/internal/format"

// Alloc allocates size payload bytes and returns the block ref and its
// payload slice. A zero size returns the null ref with no heap change.
// When no free block fits, the heap is extended by at least ChunkSize; if
// the region is exhausted Alloc returns ErrExhausted and the heap is left
// exactly as it was.
func (h *Heap) Alloc(size int) (Ref, []byte, error) {
	if size <= 0 {
		return 0, nil, nil
	}
	h.stats.AllocCalls++

	asize := format.AdjustSize(size)
	data := h.region.Bytes()

	bp := h.findFit(data, asize)
	if bp == format.NullRef {
		ext := max(asize, format.ChunkSize)
		debugLogf("Alloc(%d): no fit for %d, extending by %d", size, asize, ext)
		var err error
		bp, err = h.extendHeap(ext)
		if err != nil {
			return 0, nil, err
		}
		data = h.region.Bytes()
	}

	h.place(data, bp, asize)
	h.stats.BytesAllocated += int64(blockSize(data, bp))

	h.afterOp()
	return Ref(bp), payloadOf(data, bp), nil
}

// Free releases an allocated block: both boundary tags drop the allocated
// flag, the block joins its class list, and adjacent free neighbors are
// coalesced. Freeing the null ref is a no-op.
func (h *Heap) Free(ref Ref) error {
	if ref == 0 {
		return nil
	}
	data := h.region.Bytes()
	bp := int(ref)
	if !h.validRef(data, bp) {
		return ErrBadRef
	}
	h.stats.FreeCalls++

	size := blockSize(data, bp)
	writeTags(data, bp, size, false)
	h.insertBlock(data, bp, size)
	h.coalesce(data, bp)
	h.stats.BytesFreed += int64(size)

	h.afterOp()
	return nil
}

// Realloc resizes an allocation. The null ref delegates to Alloc; a zero
// size delegates to Free and returns the null ref. Shrinking is done in
// place, carving the surplus into a free block when it is big enough to
// stand alone. Growing allocates a new block, copies the old payload, and
// frees the original; on exhaustion the original block is untouched.
func (h *Heap) Realloc(ref Ref, size int) (Ref, []byte, error) {
	if ref == 0 {
		return h.Alloc(size)
	}
	if size <= 0 {
		return 0, nil, h.Free(ref)
	}

	data := h.region.Bytes()
	bp := int(ref)
	if !h.validRef(data, bp) {
		return 0, nil, ErrBadRef
	}
	h.stats.ReallocCalls++

	asize := format.AdjustSize(size)
	old := blockSize(data, bp)

	if asize == old {
		return ref, payloadOf(data, bp), nil
	}

	if asize < old {
		// A surplus at or below the minimum block size is not split
		// off; it stays inside the block as padding.
		if old-asize <= format.MinBlockSize {
			return ref, payloadOf(data, bp), nil
		}
		writeTags(data, bp, asize, true)
		tail := bp + asize
		writeTags(data, tail, old-asize, false)
		h.insertBlock(data, tail, old-asize)
		h.coalesce(data, tail)

		h.afterOp()
		return ref, payloadOf(data, bp), nil
	}

	// Grow: copy into a fresh block, then release the old one.
	newRef, newPayload, err := h.Alloc(size)
	if err != nil {
		return 0, nil, err
	}
	data = h.region.Bytes() // Alloc may have moved the region
	n := min(len(newPayload), old-format.DWordSize)
	copy(newPayload[:n], data[bp:bp+n])
	if err := h.Free(ref); err != nil {
		return 0, nil, err
	}

	h.afterOp()
	return newRef, newPayload, nil
}

// Calloc allocates count*size bytes and zeroes them. Overflow in the
// product is treated as failure.
func (h *Heap) Calloc(count, size int) (Ref, []byte, error) {
	if count <= 0 || size <= 0 {
		return 0, nil, nil
	}
	total := count * size
	if total/count != size {
		return 0, nil, ErrSizeOverflow
	}
	h.stats.CallocCalls++

	ref, payload, err := h.Alloc(total)
	if err != nil || ref == 0 {
		return 0, nil, err
	}
	clear(payload[:total])
	return ref, payload, nil
}
