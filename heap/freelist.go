package heap

import "github.com/PoojaManglaCMU/MallocImplementation/internal/format"

// Segregated free-list index. The table of class heads occupies the first
// MaxList+1 words of the region; each head names the payload offset of the
// first free block in that class, or NullRef. The pred/succ link words live
// in the free block's payload area, which is why the minimum block size is
// 16: header, footer, and two 4-byte links.

// classIndex returns the size class for a block size: the smallest k with
// size <= MinListSize << k, clamped at MaxList.
func classIndex(size int) int {
	return format.ClassIndex(size)
}

// headOff returns the region offset of the class-k head word.
func headOff(k int) int {
	return k * format.WordSize
}

func listHead(data []byte, k int) int {
	return int(format.ReadU32(data, headOff(k)))
}

func setListHead(data []byte, k, bp int) {
	format.PutU32(data, headOff(k), uint32(bp))
}

// succ and pred read a free block's list links. Links are stored as plain
// region offsets; NullRef terminates a list.
func succ(data []byte, bp int) int {
	return int(format.ReadU32(data, bp))
}

func pred(data []byte, bp int) int {
	return int(format.ReadU32(data, bp+format.WordSize))
}

func setSucc(data []byte, bp, to int) {
	format.PutU32(data, bp, uint32(to))
}

func setPred(data []byte, bp, to int) {
	format.PutU32(data, bp+format.WordSize, uint32(to))
}

// insertBlock links bp at the head of the class list for size (LIFO).
func (h *Heap) insertBlock(data []byte, bp, size int) {
	k := classIndex(size)
	old := listHead(data, k)
	setListHead(data, k, bp)
	setSucc(data, bp, old)
	setPred(data, bp, format.NullRef)
	if old != format.NullRef {
		setPred(data, old, bp)
	}
}

// removeBlock splices bp out of its class list. The class is recomputed
// from the block's own size, so the header must still carry the size the
// block was inserted with.
func (h *Heap) removeBlock(data []byte, bp int) {
	k := classIndex(blockSize(data, bp))
	s := succ(data, bp)
	p := pred(data, bp)

	if p != format.NullRef {
		setSucc(data, p, s)
	} else {
		setListHead(data, k, s)
	}
	if s != format.NullRef {
		setPred(data, s, p)
	}
}
