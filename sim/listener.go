package sim

import (
	"fmt"
	"sort"
)

// autoPortBase is where Listen starts probing when asked for port 0.
const autoPortBase = 60000

// ephemeralHost is the host label given to the client end of a connection.
const ephemeralHost = "::1"

// Listener owns a FIFO backlog of server-side sockets awaiting Accept for
// one registered (host, port) address.
type Listener struct {
	loop    *Loop
	addr    Addr
	backlog []*Socket
	closed  bool

	// At most one suspended Accept.
	acceptor *Future[*Socket]
}

// Listen registers addr in the loop's address registry and returns the
// listening socket. Port 0 picks the first free port from 60000 upward. A
// duplicate registration fails with ErrAddressInUse.
func (l *Loop) Listen(host string, port int) (*Listener, error) {
	if l.closed {
		return nil, ErrLoopClosed
	}
	if port == 0 {
		port = autoPortBase
		for {
			if _, taken := l.listeners[Addr{Host: host, Port: port}]; !taken {
				break
			}
			port++
		}
	}
	addr := Addr{Host: host, Port: port}
	if _, taken := l.listeners[addr]; taken {
		return nil, fmt.Errorf("%w: %s", ErrAddressInUse, addr)
	}
	ln := &Listener{
		loop:    l,
		addr:    addr,
		backlog: make([]*Socket, 0),
	}
	l.listeners[addr] = ln
	return ln, nil
}

// Connect looks up (host, port) in the registry, allocates a fresh socket
// pair, queues the server end on the listener's backlog and returns the
// client end immediately. Connect never suspends; acceptance is decoupled.
// An absent or closed listener fails with ErrConnectionRefused.
func (l *Loop) Connect(host string, port int) (*Socket, error) {
	if l.closed {
		return nil, ErrLoopClosed
	}
	addr := Addr{Host: host, Port: port}
	ln, ok := l.listeners[addr]
	if !ok || ln.closed {
		return nil, fmt.Errorf("%w: no listener on %s", ErrConnectionRefused, addr)
	}
	client, server, err := l.SocketPair(0)
	if err != nil {
		return nil, err
	}
	client.local = Addr{Host: ephemeralHost, Port: l.nextPort}
	l.nextPort++
	client.remote = addr
	server.local = addr
	server.remote = client.local

	ln.backlog = append(ln.backlog, server)
	ln.wakeAcceptor()
	return client, nil
}

// Addr returns the registered listening address.
func (ln *Listener) Addr() Addr {
	return ln.addr
}

// Backlog returns the number of queued, not yet accepted connections.
func (ln *Listener) Backlog() int {
	return len(ln.backlog)
}

// Accept pops the earliest queued connection. With a non-empty backlog the
// future is already complete, even after Close: queued connections stay
// valid until drained. Otherwise Accept suspends until Connect pushes one,
// or fails with ErrListenerClosed once the listener is closed.
func (ln *Listener) Accept() *Future[*Socket] {
	if len(ln.backlog) > 0 {
		server := ln.backlog[0]
		ln.backlog = ln.backlog[1:]
		return completedFuture(ln.loop, server)
	}
	if ln.closed {
		return failedFuture[*Socket](ln.loop, ErrListenerClosed)
	}
	if ln.acceptor != nil {
		return failedFuture[*Socket](ln.loop, fmt.Errorf("%w: concurrent accept on one listener", ErrUnsupported))
	}
	f := NewFuture[*Socket](ln.loop)
	f.detach = func() { ln.acceptor = nil }
	ln.acceptor = f
	return f
}

// wakeAcceptor hands the earliest backlog entry to a suspended Accept.
func (ln *Listener) wakeAcceptor() {
	f := ln.acceptor
	if f == nil || len(ln.backlog) == 0 {
		return
	}
	ln.acceptor = nil
	server := ln.backlog[0]
	ln.backlog = ln.backlog[1:]
	f.Complete(server)
}

// Close removes the registry entry, freeing the address for reuse, and
// fails any suspended Accept with ErrListenerClosed. Sockets already
// accepted, and connections still sitting in the backlog, remain valid.
// Close is idempotent.
func (ln *Listener) Close() error {
	if ln.closed {
		return nil
	}
	ln.closed = true
	delete(ln.loop.listeners, ln.addr)
	if f := ln.acceptor; f != nil {
		ln.acceptor = nil
		f.Fail(ErrListenerClosed)
	}
	return nil
}

// Closed reports whether Close has been called.
func (ln *Listener) Closed() bool {
	return ln.closed
}

func sortListeners(lns []*Listener) {
	sort.Slice(lns, func(i, j int) bool {
		if lns[i].addr.Host != lns[j].addr.Host {
			return lns[i].addr.Host < lns[j].addr.Host
		}
		return lns[i].addr.Port < lns[j].addr.Port
	})
}
