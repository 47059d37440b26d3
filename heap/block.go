package heap

import "github.com/PoojaManglaCMU/MallocImplementation/internal/format"

// Block address arithmetic. A block handle bp is the region offset of its
// payload; the header word sits at bp-4 and the footer at bp+size-8. All
// helpers assume the surrounding sentinels are in place, so prevBlock is
// always safe inside the heap interior.

// hdr returns the offset of the block's header word.
func hdr(bp int) int {
	return bp - format.WordSize
}

// ftr returns the offset of the block's footer word.
func ftr(data []byte, bp int) int {
	return bp + blockSize(data, bp) - format.DWordSize
}

// blockSize reads the block size from the header.
func blockSize(data []byte, bp int) int {
	return format.TagSize(format.ReadU32(data, hdr(bp)))
}

// blockAlloc reads the allocated flag from the header.
func blockAlloc(data []byte, bp int) bool {
	return format.TagAlloc(format.ReadU32(data, hdr(bp)))
}

// nextBlock returns the physically adjacent next block.
func nextBlock(data []byte, bp int) int {
	return bp + blockSize(data, bp)
}

// prevBlock returns the physically adjacent previous block, via the
// previous block's footer. Valid only when that footer is initialized,
// which the prologue guarantees for every block in the heap interior.
func prevBlock(data []byte, bp int) int {
	return bp - format.TagSize(format.ReadU32(data, bp-format.DWordSize))
}

// writeTags writes the header and footer for a block of the given size.
func writeTags(data []byte, bp, size int, allocated bool) {
	w := format.Pack(size, allocated)
	format.PutU32(data, hdr(bp), w)
	format.PutU32(data, bp+size-format.DWordSize, w)
}

// payloadOf returns the user-visible bytes of an allocated block.
func payloadOf(data []byte, bp int) []byte {
	return data[bp : bp+blockSize(data, bp)-format.DWordSize]
}
