package sim

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/solipsim/solipsim/sim/trace"
)

// maxDrainPasses bounds a single RunIteration against applications that
// perpetually reschedule themselves. Such applications are legal; they
// simply keep the loop busy, and the remaining work carries over to the
// next iteration.
const maxDrainPasses = 1024

// Loop is a virtual-time scheduler. It owns the clock, a FIFO ready queue
// of due callbacks, a timer heap of future callbacks, and the registry of
// simulated listeners and open sockets.
//
// A Loop is confined to the goroutine that created it. Exactly one callback
// body executes at a time, run to completion; suspension happens only at
// the explicit points that return a Future.
type Loop struct {
	clock   VirtualTime
	ready   []*callback
	timers  *timerHeap
	nextSeq uint64

	listeners  map[Addr]*Listener
	conns      map[*Socket]struct{}
	nextPort   int
	defaultCap int

	trace  *trace.ExecutionTrace
	owner  int
	closed bool
	stop   bool
}

// NewLoop returns a loop with the clock at zero and nothing scheduled.
func NewLoop() *Loop {
	return &Loop{
		clock:      TimeZero,
		ready:      make([]*callback, 0),
		timers:     newTimerHeap(),
		listeners:  make(map[Addr]*Listener),
		conns:      make(map[*Socket]struct{}),
		nextPort:   1,
		defaultCap: DefaultCapacity,
		owner:      goroNumber(),
	}
}

// SetDefaultCapacity changes the pipe capacity used by SocketPair and
// Connect when none is given explicitly. It affects only pipes created
// afterwards.
func (l *Loop) SetDefaultCapacity(capacity int) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	l.defaultCap = capacity
}

// AttachTrace installs an execution trace. Pass nil to detach.
func (l *Loop) AttachTrace(t *trace.ExecutionTrace) {
	l.trace = t
}

// Now returns the current virtual time. It never decreases, and never moves
// while any callback is ready to run.
func (l *Loop) Now() VirtualTime {
	return l.clock
}

// newCallback assigns the next submission sequence number.
func (l *Loop) newCallback(when VirtualTime, fn func()) *callback {
	l.nextSeq++
	return &callback{seq: l.nextSeq, when: when, fn: fn}
}

// CallSoon appends fn to the ready queue. It runs in the next drain pass,
// never inside the current one.
func (l *Loop) CallSoon(fn func()) *Handle {
	cb := l.newCallback(l.clock, fn)
	l.ready = append(l.ready, cb)
	return &Handle{cb: cb}
}

// CallAt schedules fn for virtual time t. A time in the past is clamped to
// now and the callback treated as ready.
func (l *Loop) CallAt(t VirtualTime, fn func()) *Handle {
	if t.AtOrBefore(l.clock) {
		return l.CallSoon(fn)
	}
	cb := l.newCallback(t, fn)
	l.timers.Schedule(cb)
	return &Handle{cb: cb}
}

// CallAfter schedules fn to run d after the current virtual time.
func (l *Loop) CallAfter(d time.Duration, fn func()) *Handle {
	return l.CallAt(l.clock.Add(d), fn)
}

// CallSoonExternal is the cross-goroutine submission path. Only the
// degenerate case is supported: when invoked from the loop's own goroutine
// it forwards to CallSoon. Genuine cross-goroutine wake-ups have no meaning
// against a fast-forwarding clock, so they fail with ErrUnsupported.
func (l *Loop) CallSoonExternal(fn func()) (*Handle, error) {
	if goroNumber() != l.owner {
		return nil, fmt.Errorf("%w: cross-goroutine submission", ErrUnsupported)
	}
	return l.CallSoon(fn), nil
}

// Sleep returns a future completed with the clock value after d of virtual
// time has passed. Cancelling the future also cancels the backing timer.
func (l *Loop) Sleep(d time.Duration) *Future[VirtualTime] {
	f := NewFuture[VirtualTime](l)
	h := l.CallAfter(d, func() {
		f.Complete(l.clock)
	})
	f.detach = h.Cancel
	return f
}

// RunIteration pops and executes the current ready queue. Callbacks
// scheduled during execution run in a later pass within the same call,
// bounded by maxDrainPasses. Cancelled entries are skipped, not invoked.
func (l *Loop) RunIteration() {
	for pass := 0; pass < maxDrainPasses && len(l.ready) > 0; pass++ {
		batch := l.ready
		l.ready = nil
		for _, cb := range batch {
			if cb.canceled {
				l.record(trace.KindSkipped, cb)
				continue
			}
			logrus.Debugf("[t %07d] executing callback #%d", l.clock, cb.seq)
			l.record(trace.KindCallback, cb)
			cb.fn()
		}
	}
}

// Advance jumps the clock to the earliest pending timer and moves every
// timer due at that exact time into the ready queue. It must only be called
// with an empty ready queue. If no timer is pending either, no progress is
// possible and Advance reports ErrDeadlock.
func (l *Loop) Advance() error {
	if len(l.ready) > 0 {
		return nil
	}
	// Cancelled timers at the head would drag the clock to fire times
	// nobody is waiting for anymore; drop them first.
	for l.timers.Len() > 0 && l.timers.Peek().canceled {
		l.timers.PopNext()
	}
	if l.timers.Len() == 0 {
		return ErrDeadlock
	}
	from := l.clock
	l.clock = l.timers.Peek().when
	logrus.Debugf("[t %07d] clock advanced from %v", l.clock, from)
	l.recordAdvance(from, l.clock)
	for l.timers.Len() > 0 && l.timers.Peek().when == l.clock {
		cb := l.timers.PopNext()
		if cb.canceled {
			l.record(trace.KindSkipped, cb)
			continue
		}
		l.ready = append(l.ready, cb)
	}
	return nil
}

// RunUntilComplete alternates RunIteration and Advance until fut completes,
// then returns the future's error. A stalled Advance surfaces ErrDeadlock
// to the caller rather than hanging the test forever.
func (l *Loop) RunUntilComplete(fut Awaitable) error {
	if l.closed {
		return ErrLoopClosed
	}
	for !fut.Done() {
		l.RunIteration()
		if fut.Done() {
			break
		}
		if err := l.Advance(); err != nil {
			return err
		}
	}
	return fut.Err()
}

// RunForever drives the loop until Stop is called or the loop deadlocks.
func (l *Loop) RunForever() error {
	if l.closed {
		return ErrLoopClosed
	}
	l.stop = false
	for {
		l.RunIteration()
		if l.stop {
			l.stop = false
			return nil
		}
		if err := l.Advance(); err != nil {
			return err
		}
	}
}

// Stop makes a running RunForever return after the current drain pass.
func (l *Loop) Stop() {
	l.stop = true
}

// ListenPacket is deliberately unimplemented: datagram endpoints are outside
// the simulated capability set.
func (l *Loop) ListenPacket(host string, port int) (*Listener, error) {
	return nil, fmt.Errorf("%w: datagram endpoints", ErrUnsupported)
}

// Close tears the loop down: outstanding timers are cancelled, every open
// socket is closed and every listener deregistered. Close is idempotent.
// Per-entry close failures are aggregated rather than aborting teardown.
func (l *Loop) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true

	var result *multierror.Error
	for _, ln := range l.sortedListeners() {
		if err := ln.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, s := range l.sortedConns() {
		if err := s.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, cb := range l.ready {
		cb.canceled = true
	}
	l.ready = nil
	for l.timers.Len() > 0 {
		l.timers.PopNext().canceled = true
	}
	return result.ErrorOrNil()
}

// Closed reports whether Close has been called.
func (l *Loop) Closed() bool {
	return l.closed
}

// sortedListeners returns registry entries in deterministic address order,
// so teardown order does not depend on map iteration.
func (l *Loop) sortedListeners() []*Listener {
	out := make([]*Listener, 0, len(l.listeners))
	for _, ln := range l.listeners {
		out = append(out, ln)
	}
	sortListeners(out)
	return out
}

// sortedConns returns open sockets ordered by the sequence their pipes were
// created in.
func (l *Loop) sortedConns() []*Socket {
	out := make([]*Socket, 0, len(l.conns))
	for s := range l.conns {
		out = append(out, s)
	}
	sortSockets(out)
	return out
}

func (l *Loop) record(kind trace.Kind, cb *callback) {
	if l.trace == nil || !l.trace.Enabled() {
		return
	}
	l.trace.RecordCallback(trace.CallbackRecord{
		Clock: int64(l.clock),
		Seq:   cb.seq,
		Kind:  kind,
	})
}

func (l *Loop) recordAdvance(from, to VirtualTime) {
	if l.trace == nil || !l.trace.Enabled() {
		return
	}
	l.trace.RecordAdvance(trace.AdvanceRecord{
		From: int64(from),
		To:   int64(to),
	})
}

// goroNumber returns the calling goroutine's number.
func goroNumber() int {
	buf := make([]byte, 48)
	nw := runtime.Stack(buf, false) // false => just us, no other goroutines
	buf = buf[:nw]

	// prefix "goroutine " is len 10.
	i := 10
	for i < len(buf)-1 && buf[i] != ' ' {
		i++
	}
	n, err := strconv.Atoi(string(buf[10:i]))
	if err != nil {
		panic(err)
	}
	return n
}
