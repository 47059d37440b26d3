package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlign8(t *testing.T) {
	assert.Equal(t, 0, Align8(0))
	assert.Equal(t, 8, Align8(1))
	assert.Equal(t, 8, Align8(8))
	assert.Equal(t, 16, Align8(9))
	assert.Equal(t, 16, Align8(16))
}

func TestAdjustSize(t *testing.T) {
	// Anything up to a double word fits the minimum block.
	assert.Equal(t, MinBlockSize, AdjustSize(1))
	assert.Equal(t, MinBlockSize, AdjustSize(8))

	// Larger requests gain a header and footer and round up.
	assert.Equal(t, 24, AdjustSize(9))
	assert.Equal(t, 24, AdjustSize(16))
	assert.Equal(t, 32, AdjustSize(24))
	assert.Equal(t, 112, AdjustSize(100))
}

func TestPackRoundTrip(t *testing.T) {
	w := Pack(4096, true)
	assert.Equal(t, 4096, TagSize(w))
	assert.True(t, TagAlloc(w))

	w = Pack(16, false)
	assert.Equal(t, 16, TagSize(w))
	assert.False(t, TagAlloc(w))
}

func TestEncodingRoundTrip(t *testing.T) {
	b := make([]byte, 16)
	PutU32(b, 4, 0xDEADBEEF)
	require.Equal(t, uint32(0xDEADBEEF), ReadU32(b, 4))
	// Neighbouring words untouched.
	require.Equal(t, uint32(0), ReadU32(b, 0))
	require.Equal(t, uint32(0), ReadU32(b, 8))
}

func TestLayoutConstants(t *testing.T) {
	// The pad must leave every block header 4 bytes below an 8-byte
	// boundary so payloads stay aligned.
	require.Equal(t, 4, HeapStart%Alignment)
	require.True(t, Aligned(Prologue))
	require.Equal(t, TableSize+PadSize+DWordSize+WordSize, InitSize)
	require.Equal(t, (MaxList+1)*WordSize, TableSize)
}
