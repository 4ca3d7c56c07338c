package sim

import (
	"fmt"
	"io"
	"sort"
)

// SocketState is the lifecycle of one end of a connection.
type SocketState int

const (
	// StateOpen means both ends are live.
	StateOpen SocketState = iota
	// StatePeerClosed means the other end has closed; buffered data can
	// still be drained before end-of-stream.
	StatePeerClosed
	// StateClosed means this end has closed.
	StateClosed
)

func (s SocketState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StatePeerClosed:
		return "peer-closed"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// How selects which direction Shutdown seals.
type How int

const (
	ShutRead How = iota
	ShutWrite
	ShutReadWrite
)

// Socket is one end of a simulated stream connection: a handle over two
// bounded byte queues, reading from the one its peer writes and writing to
// the one its peer reads. Sockets are created in pairs by SocketPair or by
// Connect/Accept; they never exist unconnected.
type Socket struct {
	loop *Loop
	id   uint64

	recvQ *pipeBuffer // written by the peer, read here
	sendQ *pipeBuffer // written here, read by the peer
	peer  *Socket

	local  Addr
	remote Addr
	state  SocketState

	// At most one suspended Recv. A second concurrent Recv fails eagerly;
	// the invariant is one registered continuation per suspension point.
	reader    *Future[[]byte]
	readerMax int
}

// SocketPair allocates two connected sockets whose outbound queue is the
// other's inbound queue. capacity bounds each direction independently;
// non-positive means DefaultCapacity.
func (l *Loop) SocketPair(capacity int) (*Socket, *Socket, error) {
	if l.closed {
		return nil, nil, ErrLoopClosed
	}
	if capacity <= 0 {
		capacity = l.defaultCap
	}
	q1 := newPipeBuffer(capacity)
	q2 := newPipeBuffer(capacity)
	l.nextSeq++
	a := &Socket{loop: l, id: l.nextSeq, recvQ: q1, sendQ: q2}
	l.nextSeq++
	b := &Socket{loop: l, id: l.nextSeq, recvQ: q2, sendQ: q1}
	a.peer = b
	b.peer = a
	l.conns[a] = struct{}{}
	l.conns[b] = struct{}{}
	return a, b, nil
}

// State returns this end's lifecycle state.
func (s *Socket) State() SocketState {
	return s.state
}

// LocalAddr returns the logical address bound to this end, if any.
func (s *Socket) LocalAddr() Addr {
	return s.local
}

// RemoteAddr returns the peer's logical address, if any.
func (s *Socket) RemoteAddr() Addr {
	return s.remote
}

// Send appends data to the outbound queue. The write is all-or-nothing: if
// it would exceed the pipe's capacity it fails with ErrOverflow and
// enqueues no bytes. A peer suspended in Recv is resumed through the ready
// queue. Send never suspends.
func (s *Socket) Send(data []byte) (int, error) {
	if s.state == StateClosed {
		return 0, ErrClosedSocket
	}
	if err := s.sendQ.write(data); err != nil {
		return 0, err
	}
	s.peer.wakeReader()
	return len(data), nil
}

// Recv removes up to max bytes from the inbound queue. With data buffered
// the returned future is already complete; at end-of-stream it carries
// io.EOF and never suspends. Only an empty queue with a live peer suspends,
// registering exactly one continuation resumed by the peer's next Send or
// Close.
func (s *Socket) Recv(max int) *Future[[]byte] {
	if s.state == StateClosed {
		return failedFuture[[]byte](s.loop, ErrClosedSocket)
	}
	if s.recvQ.len() > 0 {
		return completedFuture(s.loop, s.recvQ.read(max))
	}
	if s.recvQ.eof {
		return failedFuture[[]byte](s.loop, io.EOF)
	}
	if s.reader != nil {
		return failedFuture[[]byte](s.loop, fmt.Errorf("%w: concurrent recv on one socket", ErrUnsupported))
	}
	f := NewFuture[[]byte](s.loop)
	f.detach = func() { s.reader = nil }
	s.reader = f
	s.readerMax = max
	return f
}

// wakeReader resumes a suspended Recv if something became observable:
// buffered data or end-of-stream. Buffered data always wins over EOF, so a
// close never drops unread bytes.
func (s *Socket) wakeReader() {
	f := s.reader
	if f == nil {
		return
	}
	if s.recvQ.len() == 0 && !s.recvQ.eof {
		return
	}
	s.reader = nil
	if s.recvQ.len() > 0 {
		f.Complete(s.recvQ.read(s.readerMax))
		return
	}
	f.Fail(io.EOF)
}

// Shutdown seals one or both directions. Sealing the write side delivers
// end-of-stream to the peer once its inbound queue drains; sealing the read
// side makes this end's own pending Recv observe EOF.
func (s *Socket) Shutdown(how How) error {
	if s.state == StateClosed {
		return ErrClosedSocket
	}
	if how == ShutRead || how == ShutReadWrite {
		s.recvQ.markEOF()
		s.wakeReader()
	}
	if how == ShutWrite || how == ShutReadWrite {
		s.sendQ.markEOF()
		s.peer.wakeReader()
		if s.peer.state == StateOpen {
			s.peer.state = StatePeerClosed
		}
	}
	return nil
}

// Close seals both directions and releases the handle. Waiters suspended in
// Recv on either end resume immediately, with remaining buffered data if
// any, end-of-stream otherwise. Close is idempotent.
func (s *Socket) Close() error {
	if s.state == StateClosed {
		return nil
	}
	if err := s.Shutdown(ShutReadWrite); err != nil {
		return err
	}
	s.state = StateClosed
	delete(s.loop.conns, s)
	return nil
}

// SetBlocking exists for interface fidelity only: the simulation supports
// non-blocking operation exclusively.
func (s *Socket) SetBlocking(block bool) error {
	if block {
		return fmt.Errorf("%w: blocking sockets", ErrUnsupported)
	}
	return nil
}

func sortSockets(socks []*Socket) {
	sort.Slice(socks, func(i, j int) bool {
		return socks[i].id < socks[j].id
	})
}
