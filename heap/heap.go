package heap

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/PoojaManglaCMU/MallocImplementation/heap/verify"
	"github.com/PoojaManglaCMU/MallocImplementation/internal/format"
	"github.com/PoojaManglaCMU/MallocImplementation/internal/region"
)

// Debug flag - set to true to enable the consistency check after every
// public operation (compile-time toggle).
const debugCheck = false

// Runtime debug flag for allocation logging - controlled by HEAP_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAP_LOG_ALLOC") != ""

// Ref is a block handle: the region offset of the block's payload.
// The zero Ref is the null handle; no block payload can sit at offset 0
// because the free-list table occupies the start of the region.
type Ref = uint32

// Heap owns the region, the free-list table stored inside it, and the
// allocation statistics. All mutation goes through a single Heap; the
// allocator is single-threaded by design and a future coarse lock would
// wrap these methods.
type Heap struct {
	region *region.Region
	stats  Stats

	// verifyEach runs the full consistency check after every public
	// operation. Set via WithVerify; meant for tests and debugging.
	verifyEach bool
}

// Option configures a Heap at construction.
type Option func(*Heap)

// WithLimit caps the region at n bytes, after which extension fails with
// ErrExhausted.
func WithLimit(n int) Option {
	return func(h *Heap) { h.region = region.New(n) }
}

// WithVerify enables the consistency check after every public operation.
func WithVerify() Option {
	return func(h *Heap) { h.verifyEach = true }
}

// New creates a heap: the zeroed free-list table, the alignment pad, the
// prologue and epilogue sentinels, and one initial ChunkSize extension
// coalesced into a single free block. Calling further operations on a heap
// whose New failed is undefined.
func New(opts ...Option) (*Heap, error) {
	h := &Heap{region: region.New(0)}
	for _, opt := range opts {
		opt(h)
	}

	if _, err := h.region.Extend(format.InitSize); err != nil {
		return nil, fmt.Errorf("heap: init: %w", ErrExhausted)
	}
	data := h.region.Bytes()

	// Table and pad are already zero. Lay down the sentinels.
	writeTags(data, format.Prologue, format.DWordSize, true)
	format.PutU32(data, format.HeapStart, format.Pack(0, true))

	if _, err := h.extendHeap(format.ChunkSize); err != nil {
		return nil, err
	}
	return h, nil
}

// extendHeap grows the region by n bytes (rounded up to alignment), turns
// the new bytes into one free block whose header overwrites the old
// epilogue, lays a fresh epilogue at the new end, and coalesces backward.
// Returns the resulting free block.
func (h *Heap) extendHeap(n int) (int, error) {
	n = format.Align8(n)
	base, err := h.region.Extend(n)
	if err != nil {
		return 0, fmt.Errorf("heap: extend %d bytes: %w", n, ErrExhausted)
	}
	h.stats.Extends++
	h.stats.ExtendBytes += int64(n)

	data := h.region.Bytes()
	bp := base // header lands on the old epilogue at base-4
	writeTags(data, bp, n, false)
	format.PutU32(data, hdr(nextBlock(data, bp)), format.Pack(0, true))

	h.insertBlock(data, bp, n)
	return h.coalesce(data, bp), nil
}

// Bytes returns the raw heap bytes. The slice is only valid until the next
// operation that extends the heap.
func (h *Heap) Bytes() []byte { return h.region.Bytes() }

// Size returns the current region length in bytes.
func (h *Heap) Size() int { return h.region.Size() }

// Payload re-derives the payload slice for an allocated block.
func (h *Heap) Payload(ref Ref) ([]byte, error) {
	data := h.region.Bytes()
	bp := int(ref)
	if !h.validRef(data, bp) {
		return nil, ErrBadRef
	}
	return payloadOf(data, bp), nil
}

// BlockSize returns the full block size (header and footer included) behind
// a ref, mainly for tests and the CLI.
func (h *Heap) BlockSize(ref Ref) (int, error) {
	data := h.region.Bytes()
	bp := int(ref)
	if !h.validRef(data, bp) {
		return 0, ErrBadRef
	}
	return blockSize(data, bp), nil
}

// Check runs the consistency checker against the current heap state. The
// line hint identifies the call site in the log when an invariant fails.
// Check never mutates the heap.
func (h *Heap) Check(line int) error {
	if err := verify.AllInvariants(h.region.Bytes()); err != nil {
		slog.Error("heap check failed", "line", line, "err", err)
		return err
	}
	return nil
}

// validRef reports whether ref plausibly names a block payload: aligned,
// past the prologue, with header and footer inside the region. It cannot
// catch every misuse; the checker finds the rest after the fact.
func (h *Heap) validRef(data []byte, bp int) bool {
	if bp < format.Prologue+format.DWordSize || bp >= len(data) {
		return false
	}
	if !format.Aligned(bp) {
		return false
	}
	size := blockSize(data, bp)
	if size < format.MinBlockSize || bp+size-format.WordSize > len(data) {
		return false
	}
	return true
}

// afterOp runs the checker after a mutation when enabled. Failures are
// reported through the log and not recovered, matching the checker's
// informational role.
func (h *Heap) afterOp() {
	if !debugCheck && !h.verifyEach {
		return
	}
	if err := verify.AllInvariants(h.region.Bytes()); err != nil {
		slog.Error("heap invariant violated", "err", err)
	}
}

// debugLogf prints allocation tracing when HEAP_LOG_ALLOC is set.
func debugLogf(msg string, args ...any) {
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[HEAP] "+msg+"\n", args...)
	}
}
