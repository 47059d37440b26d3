package heap

import "github.com/PoojaManglaCMU/MallocImplementation/internal/format"

// findFit returns the first free block that can hold a block of asize bytes,
// scanning size classes upward from the smallest adequate one and walking
// each class list in insertion order (LIFO first-fit). Returns NullRef when
// no class yields a candidate.
func (h *Heap) findFit(data []byte, asize int) int {
	for k := classIndex(asize); k <= format.MaxList; k++ {
		for bp := listHead(data, k); bp != format.NullRef; bp = succ(data, bp) {
			if blockSize(data, bp) >= asize {
				return bp
			}
		}
	}
	return format.NullRef
}

// place removes bp from its class list and allocates asize bytes of it.
// When the remainder reaches the split threshold the tail becomes a new
// free block and goes back on a list; otherwise the whole block is consumed
// and the slack stays as padding.
func (h *Heap) place(data []byte, bp, asize int) {
	csize := blockSize(data, bp)
	h.removeBlock(data, bp)

	rem := csize - asize
	if rem >= format.SplitThreshold {
		h.stats.Splits++
		writeTags(data, bp, asize, true)
		tail := bp + asize
		writeTags(data, tail, rem, false)
		h.insertBlock(data, tail, rem)
	} else {
		writeTags(data, bp, csize, true)
	}
}
