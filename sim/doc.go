// Package sim provides a deterministic virtual-time event loop with purely
// in-process socket simulation, intended to drive unit tests without real
// time, real threads, or real network I/O.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - loop.go: the virtual clock, ready queue, timer heap and run loop
//   - future.go: the pending-computation handle returned by suspending operations
//   - socket.go: paired bounded byte queues behind a connected-socket API
//
// # Architecture
//
// A Loop owns all mutable state: the clock, the callback queues, every open
// socket and a registry mapping (host, port) to listeners. There is no
// ambient singleton; a Loop is constructed, run and explicitly closed.
// Exactly one callback body executes at a time, run to completion, so no
// locking is required anywhere in the package.
//
// The clock never moves while a callback is ready to run. When the ready
// queue drains, the loop jumps the clock directly to the earliest pending
// timer. If neither ready work nor timers remain while a caller is still
// waiting, the run loop fails with ErrDeadlock instead of hanging, which is
// the package's whole reason to exist: tests that would deadlock under a
// real event loop fail fast here.
//
// Operations that cannot complete immediately (Recv on an empty pipe,
// Accept on an empty backlog, Sleep) return a *Future rather than blocking
// a goroutine. A pending future holds exactly one resume path, triggered by
// the peer's send or close, an incoming connection, or a timer firing.
//
// Sub-packages:
//   - sim/trace: optional execution trace recording for determinism checks
//   - sim/scenario: YAML-configured client/server workloads over the loop
package sim
