package sim

import (
	"errors"
	"io"
)

// streamChunk is how much ReadLine pulls from the socket per attempt.
const streamChunk = 4096

// Stream layers convenience read/write helpers over a socket. It adds no
// suspension logic of its own: every helper bottoms out in Recv futures and
// Send calls, with an internal byte buffer to hold the overshoot.
type Stream struct {
	sock *Socket
	rbuf []byte
}

// NewStream wraps an existing socket.
func NewStream(s *Socket) *Stream {
	return &Stream{sock: s}
}

// StreamPair returns two streams over a fresh socket pair, each reading
// what the other writes.
func StreamPair(l *Loop, capacity int) (*Stream, *Stream, error) {
	a, b, err := l.SocketPair(capacity)
	if err != nil {
		return nil, nil, err
	}
	return NewStream(a), NewStream(b), nil
}

// Socket returns the underlying socket.
func (st *Stream) Socket() *Socket {
	return st.sock
}

// Read returns up to max bytes, serving from the internal buffer before
// touching the socket.
func (st *Stream) Read(max int) *Future[[]byte] {
	if len(st.rbuf) > 0 {
		return completedFuture(st.sock.loop, st.take(max))
	}
	return st.sock.Recv(max)
}

// ReadExactly accumulates exactly n bytes. End-of-stream before n bytes
// arrive fails the future with io.ErrUnexpectedEOF.
func (st *Stream) ReadExactly(n int) *Future[[]byte] {
	f := NewFuture[[]byte](st.sock.loop)
	out := st.take(n)
	var more func()
	more = func() {
		if len(out) == n {
			f.Complete(out)
			return
		}
		rf := st.sock.Recv(n - len(out))
		f.detach = rf.Cancel
		rf.OnComplete(func(data []byte, err error) {
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = io.ErrUnexpectedEOF
				}
				f.Fail(err)
				return
			}
			out = append(out, data...)
			more()
		})
	}
	more()
	return f
}

// ReadLine returns bytes up to and including the next '\n'. At
// end-of-stream a non-empty remainder is returned as a final unterminated
// line; an empty one fails with io.EOF.
func (st *Stream) ReadLine() *Future[[]byte] {
	f := NewFuture[[]byte](st.sock.loop)
	var more func()
	more = func() {
		for i, b := range st.rbuf {
			if b == '\n' {
				f.Complete(st.take(i + 1))
				return
			}
		}
		rf := st.sock.Recv(streamChunk)
		f.detach = rf.Cancel
		rf.OnComplete(func(data []byte, err error) {
			if err != nil {
				if errors.Is(err, io.EOF) && len(st.rbuf) > 0 {
					f.Complete(st.take(len(st.rbuf)))
					return
				}
				f.Fail(err)
				return
			}
			st.rbuf = append(st.rbuf, data...)
			more()
		})
	}
	more()
	return f
}

// Write forwards to Send, keeping its all-or-nothing semantics.
func (st *Stream) Write(p []byte) (int, error) {
	return st.sock.Send(p)
}

// WriteString writes s.
func (st *Stream) WriteString(s string) (int, error) {
	return st.sock.Send([]byte(s))
}

// Close closes the underlying socket.
func (st *Stream) Close() error {
	return st.sock.Close()
}

// take removes up to max bytes from the internal buffer.
func (st *Stream) take(max int) []byte {
	n := len(st.rbuf)
	if max >= 0 && max < n {
		n = max
	}
	out := make([]byte, n)
	copy(out, st.rbuf[:n])
	st.rbuf = st.rbuf[n:]
	return out
}
