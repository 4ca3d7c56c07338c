package sim

// Future is the pending-computation handle returned by every operation that
// may suspend. It is either completed immediately at creation (no
// suspension happened) or left pending with exactly one resume path wired
// to the event that will eventually complete it: a timer firing, the peer
// writing or closing, or a connection arriving.
//
// Futures belong to a single loop and must only be touched from callbacks
// running on it, or from the code driving the loop between runs.
type Future[T any] struct {
	loop    *Loop
	done    bool
	result  T
	err     error
	waiters []func(T, error)

	// detach unhooks the future from its wait site on cancellation, e.g.
	// cancelling the backing timer of a Sleep or clearing a socket's
	// suspended-reader slot.
	detach func()
}

// NewFuture returns a pending future on l. Application code composing its
// own suspending operations completes it with Complete or Fail.
func NewFuture[T any](l *Loop) *Future[T] {
	return &Future[T]{loop: l}
}

func completedFuture[T any](l *Loop, v T) *Future[T] {
	return &Future[T]{loop: l, done: true, result: v}
}

func failedFuture[T any](l *Loop, err error) *Future[T] {
	return &Future[T]{loop: l, done: true, err: err}
}

// Done reports whether the future has a result or an error.
func (f *Future[T]) Done() bool {
	return f.done
}

// Err returns the failure, or nil if the future succeeded or is still pending.
func (f *Future[T]) Err() error {
	return f.err
}

// Result returns the value and error. The zero value is returned while the
// future is still pending.
func (f *Future[T]) Result() (T, error) {
	return f.result, f.err
}

// Complete resolves a pending future and schedules its continuations on the
// next drain pass. Completing an already-done future is a no-op, so a stray
// wake-up racing a cancellation is harmless.
func (f *Future[T]) Complete(v T) {
	if f.done {
		return
	}
	f.done = true
	f.result = v
	f.detach = nil
	f.dispatch()
}

// Fail resolves a pending future with an error.
func (f *Future[T]) Fail(err error) {
	if f.done {
		return
	}
	f.done = true
	f.err = err
	f.detach = nil
	f.dispatch()
}

// Cancel resumes the waiter with ErrCanceled and unhooks the future from
// whatever event would have completed it. Cancelling a completed or
// already-cancelled future is a no-op.
func (f *Future[T]) Cancel() {
	if f.done {
		return
	}
	if f.detach != nil {
		f.detach()
		f.detach = nil
	}
	f.Fail(ErrCanceled)
}

// OnComplete registers a continuation. It always runs through the ready
// queue, never inline, so registering on an already-completed future still
// has one-tick semantics.
func (f *Future[T]) OnComplete(fn func(T, error)) {
	if f.done {
		f.loop.CallSoon(func() { fn(f.result, f.err) })
		return
	}
	f.waiters = append(f.waiters, fn)
}

func (f *Future[T]) dispatch() {
	waiters := f.waiters
	f.waiters = nil
	for _, w := range waiters {
		w := w
		f.loop.CallSoon(func() { w(f.result, f.err) })
	}
}

// Awaitable is the loop-facing view of a future, independent of its result
// type. Loop.RunUntilComplete drives any Awaitable.
type Awaitable interface {
	Done() bool
	Err() error
}

// Await drives the loop until fut completes and returns its result. It is
// the typed convenience over Loop.RunUntilComplete.
func Await[T any](l *Loop, fut *Future[T]) (T, error) {
	if err := l.RunUntilComplete(fut); err != nil {
		var zero T
		return zero, err
	}
	return fut.Result()
}
