// Package format houses the low-level heap layout: the word constants, the
// boundary-tag encoding, and alignment helpers. The goal is to keep the byte
// arithmetic focused and allocation-free so higher-level packages can deal in
// block offsets instead of raw indexes.
package format

const (
	// WordSize is the size of a header or footer word in bytes.
	WordSize = 4

	// DWordSize is the size of a double word in bytes. Block payloads and
	// block sizes are aligned to this boundary.
	DWordSize = 8

	// Alignment is the required alignment of block payloads.
	Alignment = 8

	// AlignmentMask is the bitmask used for aligning to 8-byte boundaries
	// (Alignment - 1). It also masks the tag bits out of a header word.
	AlignmentMask = Alignment - 1

	// MinBlockSize is the smallest legal block: header, footer, and an
	// 8-byte payload area that holds the two link words while the block
	// is free.
	MinBlockSize = 16

	// MinListSize is the upper size bound of class 0. A block of size s
	// belongs to the smallest class k with s <= MinListSize << k.
	MinListSize = 16

	// SplitThreshold is the smallest remainder worth splitting off during
	// placement. Remainders below it stay inside the allocated block:
	// a minimum-size fragment would land in class 0 with almost no chance
	// of being adjacent to another free block, hurting utilization more
	// than the padding does.
	SplitThreshold = 32

	// MaxList is the highest size-class index. The free-list table holds
	// MaxList+1 head words; class MaxList absorbs every size above
	// MinListSize << (MaxList-1).
	MaxList = 12

	// ChunkSize is the default heap extension in bytes.
	ChunkSize = 1 << 8
)

const (
	// TableSize is the byte length of the free-list table stored at the
	// start of the region: one head word per class.
	TableSize = (MaxList + 1) * WordSize

	// PadSize is the alignment pad between the table and the prologue.
	// It keeps block payloads on 8-byte boundaries: with the pad, the
	// epilogue header (and every later block header) sits 4 bytes below
	// an 8-byte boundary.
	PadSize = 8

	// PrologueHeader is the region offset of the prologue block header.
	PrologueHeader = TableSize + PadSize

	// Prologue is the payload offset of the prologue block, a size-8
	// allocated sentinel (header and footer, no payload).
	Prologue = PrologueHeader + WordSize

	// HeapStart is the region offset of the first epilogue header, and so
	// of the first real block's header once the heap is extended.
	HeapStart = Prologue + DWordSize - WordSize

	// InitSize is the number of region bytes consumed by the table, pad,
	// prologue, and epilogue before the first extension.
	InitSize = HeapStart + WordSize

	// Overhead is the region byte count never covered by any block: the
	// table, the pad, and the epilogue header. (The prologue is a block.)
	Overhead = TableSize + PadSize + WordSize
)

// NullRef is the null free-list link. Offset 0 lands inside the free-list
// table and can never name a block payload.
const NullRef = 0
