package verify

import (
	"fmt"

	"github.com/PoojaManglaCMU/MallocImplementation/internal/format"
)

// ValidationError describes a single violated invariant.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates the whole heap in one call: sentinels, the block
// sequence, and the free lists. Returns the first error encountered, or nil
// when every check passes.
func AllInvariants(data []byte) error {
	if err := Sentinels(data); err != nil {
		return err
	}
	if err := Blocks(data); err != nil {
		return err
	}
	if err := FreeLists(data); err != nil {
		return err
	}

	// Free blocks found physically must equal free blocks reachable from
	// the class lists: no leaked blocks, no double membership.
	phys, _ := countPhysicalFree(data)
	listed := countListedFree(data)
	if phys != listed {
		return &ValidationError{
			Type:    "Counts",
			Message: fmt.Sprintf("%d free blocks in heap walk, %d on class lists", phys, listed),
			Offset:  -1,
		}
	}
	return nil
}

// Sentinels validates the prologue block and the epilogue header.
func Sentinels(data []byte) error {
	if len(data) < format.InitSize {
		return &ValidationError{
			Type:    "Sentinels",
			Message: fmt.Sprintf("heap too small: %d bytes (need %d)", len(data), format.InitSize),
			Offset:  -1,
		}
	}

	for _, off := range []int{format.PrologueHeader, format.Prologue} {
		w := format.ReadU32(data, off)
		if format.TagSize(w) != format.DWordSize || !format.TagAlloc(w) {
			return &ValidationError{
				Type:    "Sentinels",
				Message: fmt.Sprintf("prologue tag is (%d, %v), want (8, allocated)", format.TagSize(w), format.TagAlloc(w)),
				Offset:  off,
			}
		}
	}

	w := format.ReadU32(data, len(data)-format.WordSize)
	if format.TagSize(w) != 0 || !format.TagAlloc(w) {
		return &ValidationError{
			Type:    "Sentinels",
			Message: fmt.Sprintf("epilogue tag is (%d, %v), want (0, allocated)", format.TagSize(w), format.TagAlloc(w)),
			Offset:  len(data) - format.WordSize,
		}
	}
	return nil
}

// Blocks walks the physical block sequence and validates every block:
// alignment, bounds, minimum and aligned size, header/footer agreement, no
// two adjacent free blocks, and that the sizes tile the region exactly up
// to the epilogue.
func Blocks(data []byte) error {
	total := format.DWordSize // prologue block
	prevFree := false

	bp := format.Prologue + format.DWordSize
	for {
		hdrOff := bp - format.WordSize
		if hdrOff+format.WordSize > len(data) {
			return &ValidationError{
				Type:    "Blocks",
				Message: "block header beyond heap end",
				Offset:  hdrOff,
			}
		}
		w := format.ReadU32(data, hdrOff)
		size := format.TagSize(w)
		if size == 0 {
			// Epilogue: must sit exactly at the region end.
			if hdrOff != len(data)-format.WordSize {
				return &ValidationError{
					Type:    "Blocks",
					Message: fmt.Sprintf("zero-size header before heap end (%d)", len(data)),
					Offset:  hdrOff,
				}
			}
			break
		}

		if err := checkBlock(data, bp); err != nil {
			return err
		}

		free := !format.TagAlloc(w)
		if free && prevFree {
			return &ValidationError{
				Type:    "Blocks",
				Message: "two adjacent free blocks, coalescing missed",
				Offset:  bp,
			}
		}
		prevFree = free
		total += size
		bp += size
	}

	if total != len(data)-format.Overhead {
		return &ValidationError{
			Type:    "Blocks",
			Message: fmt.Sprintf("block sizes sum to %d, want %d", total, len(data)-format.Overhead),
			Offset:  -1,
		}
	}
	return nil
}

// FreeLists validates every class list: members are in-heap, aligned, free,
// internally consistent, doubly linked, and classified by their own size.
func FreeLists(data []byte) error {
	for k := 0; k <= format.MaxList; k++ {
		head := int(format.ReadU32(data, k*format.WordSize))
		prev := format.NullRef
		for bp := head; bp != format.NullRef; {
			if bp < format.Prologue+format.DWordSize || bp >= len(data) {
				return &ValidationError{
					Type:    "FreeLists",
					Message: fmt.Sprintf("class %d link outside heap bounds", k),
					Offset:  bp,
				}
			}
			if err := checkBlock(data, bp); err != nil {
				return err
			}
			w := format.ReadU32(data, bp-format.WordSize)
			if format.TagAlloc(w) {
				return &ValidationError{
					Type:    "FreeLists",
					Message: fmt.Sprintf("allocated block on class %d list", k),
					Offset:  bp,
				}
			}
			if got := format.ClassIndex(format.TagSize(w)); got != k {
				return &ValidationError{
					Type:    "FreeLists",
					Message: fmt.Sprintf("block of size %d on class %d, belongs in %d", format.TagSize(w), k, got),
					Offset:  bp,
				}
			}
			if p := int(format.ReadU32(data, bp+format.WordSize)); p != prev {
				return &ValidationError{
					Type:    "FreeLists",
					Message: fmt.Sprintf("predecessor link is 0x%X, want 0x%X", p, prev),
					Offset:  bp,
				}
			}
			prev = bp
			bp = int(format.ReadU32(data, bp))
		}
	}
	return nil
}

// checkBlock validates a single block's alignment, size, bounds, and
// header/footer agreement.
func checkBlock(data []byte, bp int) error {
	if !format.Aligned(bp) {
		return &ValidationError{
			Type:    "Blocks",
			Message: "payload not 8-byte aligned",
			Offset:  bp,
		}
	}
	hw := format.ReadU32(data, bp-format.WordSize)
	size := format.TagSize(hw)
	if size < format.MinBlockSize || size%format.Alignment != 0 {
		return &ValidationError{
			Type:    "Blocks",
			Message: fmt.Sprintf("illegal block size %d", size),
			Offset:  bp,
		}
	}
	if bp+size-format.WordSize > len(data) {
		return &ValidationError{
			Type:    "Blocks",
			Message: fmt.Sprintf("block of size %d runs past heap end", size),
			Offset:  bp,
		}
	}
	fw := format.ReadU32(data, bp+size-format.DWordSize)
	if hw != fw {
		return &ValidationError{
			Type:    "Blocks",
			Message: fmt.Sprintf("header 0x%X does not match footer 0x%X", hw, fw),
			Offset:  bp,
		}
	}
	return nil
}

// countPhysicalFree walks the block sequence and counts free blocks. The
// second result is the total free byte count, used by the CLI.
func countPhysicalFree(data []byte) (int, int) {
	count, bytes := 0, 0
	bp := format.Prologue + format.DWordSize
	for {
		hdrOff := bp - format.WordSize
		if hdrOff+format.WordSize > len(data) {
			break
		}
		w := format.ReadU32(data, hdrOff)
		size := format.TagSize(w)
		if size == 0 {
			break
		}
		if !format.TagAlloc(w) {
			count++
			bytes += size
		}
		bp += size
	}
	return count, bytes
}

// countListedFree counts blocks reachable from the class lists.
func countListedFree(data []byte) int {
	count := 0
	for k := 0; k <= format.MaxList; k++ {
		for bp := int(format.ReadU32(data, k*format.WordSize)); bp != format.NullRef; {
			count++
			if count > len(data) {
				// Cycle guard: a broken list must not hang the checker.
				return count
			}
			bp = int(format.ReadU32(data, bp))
		}
	}
	return count
}

// FreeSpace reports the number of free blocks and free bytes in the heap,
// for statistics output. Like everything in this package it never mutates.
func FreeSpace(data []byte) (blocks, bytes int) {
	return countPhysicalFree(data)
}
