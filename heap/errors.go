package heap

import "errors"

var (
	// ErrExhausted indicates the region provider could not extend the heap.
	ErrExhausted = errors.New("heap: region exhausted")

	// ErrBadRef indicates an invalid or out-of-bounds block reference.
	ErrBadRef = errors.New("heap: bad block reference")

	// ErrSizeOverflow indicates a Calloc count*size product that does not
	// fit in an int.
	ErrSizeOverflow = errors.New("heap: allocation size overflow")
)
