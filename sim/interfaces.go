package sim

// The simulation exposes a small explicit capability set instead of
// mimicking a full host-framework socket interface. Anything outside these
// four capabilities fails fast with ErrUnsupported at the call site.

// Readable can consume in-order bytes, suspending when none are buffered.
type Readable interface {
	Recv(max int) *Future[[]byte]
}

// Writable can produce bytes with non-blocking back-pressure semantics.
type Writable interface {
	Send(data []byte) (int, error)
}

// Connectable can open client connections to registered addresses.
type Connectable interface {
	Connect(host string, port int) (*Socket, error)
}

// Listenable can register addresses and produce listeners.
type Listenable interface {
	Listen(host string, port int) (*Listener, error)
}

var (
	_ Readable    = (*Socket)(nil)
	_ Writable    = (*Socket)(nil)
	_ Connectable = (*Loop)(nil)
	_ Listenable  = (*Loop)(nil)
)
