package trace

import (
	"fmt"

	"github.com/PoojaManglaCMU/MallocImplementation/heap"
)

// Result is the outcome of replaying one trace.
type Result struct {
	Ops         int
	PeakPayload int     // largest sum of live requested bytes
	HeapSize    int     // final region size
	Extends     int     // region extensions performed
	Utilization float64 // PeakPayload / HeapSize
	Stats       heap.Stats
}

// slot tracks one trace id's live allocation.
type slot struct {
	ref  heap.Ref
	size int
}

// Replay drives a fresh heap through the trace. Every allocation is filled
// with an id-derived pattern and validated before it is resized or freed,
// so payload corruption surfaces as an error rather than a silent miss.
// Heap options (for example heap.WithVerify) are passed through.
func Replay(tr *Trace, opts ...heap.Option) (*Result, error) {
	h, err := heap.New(opts...)
	if err != nil {
		return nil, err
	}

	slots := make([]slot, tr.NumIDs)
	live, peak := 0, 0

	for i, op := range tr.Ops {
		switch op.Kind {
		case OpAlloc:
			ref, buf, allocErr := h.Alloc(op.Size)
			if allocErr != nil {
				return nil, fmt.Errorf("op %d: alloc %d: %w", i, op.Size, allocErr)
			}
			fill(buf[:min(len(buf), op.Size)], op.ID)
			slots[op.ID] = slot{ref: ref, size: op.Size}
			live += op.Size

		case OpRealloc:
			s := slots[op.ID]
			if err := validate(h, s, op.ID); err != nil {
				return nil, fmt.Errorf("op %d: %w", i, err)
			}
			ref, buf, reErr := h.Realloc(s.ref, op.Size)
			if reErr != nil {
				return nil, fmt.Errorf("op %d: realloc %d: %w", i, op.Size, reErr)
			}
			fill(buf[:min(len(buf), op.Size)], op.ID)
			live += op.Size - s.size
			slots[op.ID] = slot{ref: ref, size: op.Size}

		case OpFree:
			s := slots[op.ID]
			if err := validate(h, s, op.ID); err != nil {
				return nil, fmt.Errorf("op %d: %w", i, err)
			}
			if err := h.Free(s.ref); err != nil {
				return nil, fmt.Errorf("op %d: free id %d: %w", i, op.ID, err)
			}
			live -= s.size
			slots[op.ID] = slot{}

		default:
			return nil, fmt.Errorf("op %d: unknown kind %q", i, op.Kind)
		}
		if live > peak {
			peak = live
		}
	}

	stats := h.Stats()
	res := &Result{
		Ops:         len(tr.Ops),
		PeakPayload: peak,
		HeapSize:    h.Size(),
		Extends:     stats.Extends,
		Stats:       stats,
	}
	if res.HeapSize > 0 {
		res.Utilization = float64(res.PeakPayload) / float64(res.HeapSize)
	}
	return res, nil
}

// fill writes the id pattern over a payload.
func fill(buf []byte, id int) {
	p := pattern(id)
	for i := range buf {
		buf[i] = p
	}
}

// validate confirms a live allocation still carries its fill pattern.
func validate(h *heap.Heap, s slot, id int) error {
	if s.ref == 0 {
		if s.size == 0 {
			return nil // id never allocated or zero-sized
		}
		return fmt.Errorf("id %d has no live block", id)
	}
	buf, err := h.Payload(s.ref)
	if err != nil {
		return fmt.Errorf("id %d: %w", id, err)
	}
	p := pattern(id)
	for i := 0; i < min(len(buf), s.size); i++ {
		if buf[i] != p {
			return fmt.Errorf("id %d: payload byte %d is 0x%02X, want 0x%02X", id, i, buf[i], p)
		}
	}
	return nil
}

func pattern(id int) byte {
	return byte(id%251 + 1) // never zero, so stale zeroed memory is caught
}
