// Package heap implements a dynamic storage allocator over a single
// contiguous growable byte region.
//
// # Overview
//
// The heap is a sequence of boundary-tagged blocks: every block carries a
// 4-byte header and footer packing (size, allocated). Free blocks are kept in
// a segregated collection of doubly-linked lists keyed by power-of-two size
// class; the list table and the link fields both live inside the heap bytes
// themselves, so a block handle is just an offset into the region.
//
// # Operations
//
//   - Alloc(size): first-fit within the smallest adequate size class, with
//     splitting when the remainder is worth keeping
//   - Free(ref): mark free, then coalesce with physical neighbors
//   - Realloc(ref, size): in-place shrink, copy-based growth
//   - Calloc(count, size): overflow-checked zeroed allocation
//
// # Layout
//
// The region starts with the free-list table (13 head words), an alignment
// pad, a size-8 allocated prologue block, and a size-0 allocated epilogue
// header. The sentinels remove the edge cases from physical-neighbor
// traversal: every real block always has an initialized footer before it and
// a header after it. Heap extension overwrites the old epilogue with the new
// block's header and lays a fresh epilogue at the new end.
//
// # Usage
//
//	h, err := heap.New()
//	if err != nil {
//	    return err
//	}
//	ref, buf, err := h.Alloc(24)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//	// ...
//	err = h.Free(ref)
//
// Returned payload slices alias the region and are valid until the next call
// that extends the heap; use Payload to re-derive one from its ref.
//
// The allocator is single-threaded: no locking, no reentrancy.
package heap
