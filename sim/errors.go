package sim

import "errors"

// Error taxonomy surfaced across the package boundary. Routing and overflow
// failures are returned synchronously to the immediate caller; the loop
// never retries on the caller's behalf. ErrDeadlock is detected centrally
// by Loop.Advance and surfaced by whichever run routine was driving.
var (
	// ErrDeadlock means no callback is runnable and no timer is pending,
	// so no further progress is possible.
	ErrDeadlock = errors.New("sim: deadlock: ready queue and timer heap are both empty")

	// ErrOverflow is returned by Send when the write would exceed the
	// pipe's capacity. Nothing is enqueued; there are no partial writes.
	ErrOverflow = errors.New("sim: send exceeds pipe capacity")

	// ErrConnectionRefused is returned by Connect when no listener is
	// registered at the target address, or the registered one is closed.
	ErrConnectionRefused = errors.New("sim: connection refused")

	// ErrAddressInUse is returned by Listen for an already-registered address.
	ErrAddressInUse = errors.New("sim: address already in use")

	// ErrListenerClosed fails an Accept once the listener has closed and
	// its backlog is drained.
	ErrListenerClosed = errors.New("sim: listener closed")

	// ErrUnsupported is raised eagerly at call time for capabilities the
	// simulation deliberately does not implement, so missing functionality
	// shows up as a test failure rather than a false pass.
	ErrUnsupported = errors.New("sim: operation not supported")

	// ErrCanceled resumes the waiter of a cancelled future.
	ErrCanceled = errors.New("sim: operation canceled")

	// ErrClosedPipe is returned by Send after the write side has shut down.
	ErrClosedPipe = errors.New("sim: send on closed pipe")

	// ErrClosedSocket is returned for operations on a fully closed socket.
	ErrClosedSocket = errors.New("sim: use of closed socket")

	// ErrLoopClosed fails operations on a loop after Close.
	ErrLoopClosed = errors.New("sim: loop closed")
)
