//////////////////////////////////////////////////////////////////////////////
//
// RingBuffer: bounded FIFO of opaque byte frames (§3, §4.1).
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

// RingBuffer is a bounded, pre-allocated FIFO of variable-length byte frames.
// It is logically single-producer (an external caller, via PushTail) /
// single-consumer (the PeerConnection's own loop, via PeekHead/PopHead) —
// see spec.md §5. push_tail either commits the frame atomically or returns
// Overflow; it never overwrites. peek_head returns the oldest frame without
// advancing; pop_head advances past the frame previously peeked.
type RingBuffer struct {
	slots [][]byte // pre-allocated backing store, one slice per slot
	head  int       // index of oldest unread frame
	tail  int       // index where the next frame will be written
	count int
}

// NewRingBuffer allocates a ring buffer holding at most capacity frames, each
// up to maxFrameLen bytes. All backing storage is allocated up front; no
// per-frame allocation happens on the hot path.
func NewRingBuffer(capacity, maxFrameLen int) *RingBuffer {
	slots := make([][]byte, capacity)
	for i := range slots {
		slots[i] = make([]byte, 0, maxFrameLen)
	}
	return &RingBuffer{slots: slots}
}

// PushTail appends a frame, copying it into the next free slot. Returns
// ErrOverflow if the buffer is full or the frame exceeds the slot capacity.
func (r *RingBuffer) PushTail(frame []byte) error {
	if r.count == len(r.slots) {
		return ErrOverflow
	}
	slot := r.slots[r.tail]
	if cap(slot) < len(frame) {
		return ErrOverflow
	}
	slot = slot[:len(frame)]
	copy(slot, frame)
	r.slots[r.tail] = slot

	r.tail = (r.tail + 1) % len(r.slots)
	r.count++
	return nil
}

// PeekHead returns the oldest frame without consuming it. ok is false if the
// buffer is empty.
func (r *RingBuffer) PeekHead() (frame []byte, ok bool) {
	if r.count == 0 {
		return nil, false
	}
	return r.slots[r.head], true
}

// PopHead advances past the frame previously returned by PeekHead. Calling
// PopHead on an empty buffer is a no-op.
func (r *RingBuffer) PopHead() {
	if r.count == 0 {
		return
	}
	r.head = (r.head + 1) % len(r.slots)
	r.count--
}

// Len reports the number of frames currently queued.
func (r *RingBuffer) Len() int { return r.count }

// Cap reports the maximum number of frames the buffer can hold.
func (r *RingBuffer) Cap() int { return len(r.slots) }
