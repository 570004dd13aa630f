package peerlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBufferFIFO(t *testing.T) {
	rb := NewRingBuffer(4, 16)

	require.NoError(t, rb.PushTail([]byte("a")))
	require.NoError(t, rb.PushTail([]byte("b")))
	require.NoError(t, rb.PushTail([]byte("c")))

	var got []string
	for rb.Len() > 0 {
		frame, ok := rb.PeekHead()
		require.True(t, ok)
		got = append(got, string(frame))
		rb.PopHead()
	}

	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, rb.Len())
}

func TestRingBufferOverflow(t *testing.T) {
	rb := NewRingBuffer(2, 16)

	require.NoError(t, rb.PushTail([]byte("a")))
	require.NoError(t, rb.PushTail([]byte("b")))

	err := rb.PushTail([]byte("c"))
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, 2, rb.Len())
}

func TestRingBufferOversizedFrame(t *testing.T) {
	rb := NewRingBuffer(4, 4)
	err := rb.PushTail([]byte("too long for this slot"))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestRingBufferPeekDoesNotConsume(t *testing.T) {
	rb := NewRingBuffer(4, 16)
	require.NoError(t, rb.PushTail([]byte("x")))

	frame1, ok := rb.PeekHead()
	require.True(t, ok)
	frame2, ok := rb.PeekHead()
	require.True(t, ok)
	assert.Equal(t, frame1, frame2)
	assert.Equal(t, 1, rb.Len())
}

func TestRingBufferPopEmptyIsNoOp(t *testing.T) {
	rb := NewRingBuffer(2, 16)
	rb.PopHead()
	assert.Equal(t, 0, rb.Len())
}

func TestRingBufferWrapAround(t *testing.T) {
	rb := NewRingBuffer(2, 16)
	require.NoError(t, rb.PushTail([]byte("a")))
	require.NoError(t, rb.PushTail([]byte("b")))
	rb.PopHead()
	require.NoError(t, rb.PushTail([]byte("c")))

	frame, ok := rb.PeekHead()
	require.True(t, ok)
	assert.Equal(t, "b", string(frame))
	rb.PopHead()
	frame, ok = rb.PeekHead()
	require.True(t, ok)
	assert.Equal(t, "c", string(frame))
}
