package format

import "encoding/binary"

// Binary encoding utilities for little-endian words.
//
// Implementation: encoding/binary.LittleEndian. The compiler inlines these
// into single loads and stores; unsafe variants measure no faster and give
// up bounds checks.

// PutU32 writes a uint32 value to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// ReadU32 reads a uint32 value from the buffer at the specified offset in little-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}
