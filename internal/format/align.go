package format

// Alignment utilities. Block sizes and payload offsets must stay on 8-byte
// boundaries so that header words land 4 bytes below them.

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
//	Align8(16) = 16
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// Aligned reports whether the offset sits on an 8-byte boundary.
func Aligned(off int) bool {
	return off&AlignmentMask == 0
}

// AdjustSize converts a requested payload size into a block size: payload
// plus header and footer words, rounded up to alignment, never below the
// minimum block size.
func AdjustSize(n int) int {
	if n <= DWordSize {
		return MinBlockSize
	}
	return Align8(n + DWordSize)
}
