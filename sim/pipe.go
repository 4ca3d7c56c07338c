package sim

// DefaultCapacity is the pipe capacity used when SocketPair or Connect is
// given a non-positive one. Tests that want observable back-pressure pass a
// small explicit capacity instead.
const DefaultCapacity = 65536

// pipeBuffer is one direction of a socket pair: a bounded byte queue with a
// single producer (the writing socket) and a single consumer (its peer).
// Occupancy never exceeds capacity. All synchronization comes from the
// single-threaded loop; there is no locking.
type pipeBuffer struct {
	buf      []byte
	capacity int
	eof      bool
}

func newPipeBuffer(capacity int) *pipeBuffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &pipeBuffer{
		buf:      make([]byte, 0, capacity),
		capacity: capacity,
	}
}

// write appends p whole, or nothing at all. A write that would exceed
// capacity fails with ErrOverflow; a write after EOF with ErrClosedPipe.
func (q *pipeBuffer) write(p []byte) error {
	if q.eof {
		return ErrClosedPipe
	}
	if len(q.buf)+len(p) > q.capacity {
		return ErrOverflow
	}
	q.buf = append(q.buf, p...)
	return nil
}

// read removes and returns up to max bytes, in order.
func (q *pipeBuffer) read(max int) []byte {
	n := len(q.buf)
	if max >= 0 && max < n {
		n = max
	}
	out := make([]byte, n)
	copy(out, q.buf[:n])
	q.buf = q.buf[n:]
	return out
}

func (q *pipeBuffer) len() int {
	return len(q.buf)
}

// markEOF seals the queue: subsequent writes fail and, once drained, reads
// report end-of-stream. Buffered data is never dropped.
func (q *pipeBuffer) markEOF() {
	q.eof = true
}
