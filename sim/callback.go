package sim

// callback is a unit of scheduled work: an opaque zero-argument function,
// the virtual time it becomes due, and a strictly increasing sequence
// number assigned at submission. The sequence number is the global
// tie-break: equal-time entries always fire in submission order.
type callback struct {
	seq      uint64
	when     VirtualTime
	fn       func()
	canceled bool
}

// Handle lets the caller that scheduled a callback revoke it before it
// runs. A cancelled entry keeps its slot in whichever queue holds it and is
// skipped, not invoked, when reached.
type Handle struct {
	cb *callback
}

// Cancel marks the callback inert. Idempotent; cancelling after the
// callback has already run has no effect.
func (h *Handle) Cancel() {
	if h != nil && h.cb != nil {
		h.cb.canceled = true
	}
}

// Canceled reports whether Cancel has been called.
func (h *Handle) Canceled() bool {
	return h != nil && h.cb != nil && h.cb.canceled
}

// When returns the virtual time the callback was scheduled for.
func (h *Handle) When() VirtualTime {
	return h.cb.when
}
