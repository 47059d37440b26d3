package heap

import "github.com/PoojaManglaCMU/MallocImplementation/internal/format"

// coalesce merges bp, a block that just transitioned to free and is already
// on a class list, with its free physical neighbors. Four cases on the
// neighbors' allocated flags:
//
//  1. both allocated: nothing to merge
//  2. next free: union starts at bp
//  3. previous free: union starts at the previous block
//  4. both free: union spans all three
//
// Every participant is removed from its list first; the union's size is
// written to both boundary tags and only then is the merged block inserted,
// once, so reclassification sees the final size. Returns the merged block.
func (h *Heap) coalesce(data []byte, bp int) int {
	prevFree := !format.TagAlloc(format.ReadU32(data, bp-format.DWordSize))
	next := nextBlock(data, bp)
	nextFree := !blockAlloc(data, next)
	size := blockSize(data, bp)

	switch {
	case !prevFree && !nextFree:
		return bp

	case !prevFree && nextFree:
		h.stats.CoalesceForward++
		size += blockSize(data, next)
		h.removeBlock(data, bp)
		h.removeBlock(data, next)
		writeTags(data, bp, size, false)

	case prevFree && !nextFree:
		h.stats.CoalesceBackward++
		prev := prevBlock(data, bp)
		size += blockSize(data, prev)
		h.removeBlock(data, bp)
		h.removeBlock(data, prev)
		bp = prev
		writeTags(data, bp, size, false)

	default:
		h.stats.CoalesceBoth++
		prev := prevBlock(data, bp)
		size += blockSize(data, prev) + blockSize(data, next)
		h.removeBlock(data, bp)
		h.removeBlock(data, prev)
		h.removeBlock(data, next)
		bp = prev
		writeTags(data, bp, size, false)
	}

	h.insertBlock(data, bp, size)
	return bp
}
