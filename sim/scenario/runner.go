package scenario

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/solipsim/solipsim/sim"
)

// echoChunk is the server's per-read size.
const echoChunk = 4096

// ClientMetrics is what one client accomplished.
type ClientMetrics struct {
	Messages  int
	Bytes     int64
	DoneAt    sim.VirtualTime
	RoundTrip time.Duration // cumulative request-to-echo virtual latency
}

// Metrics aggregates a finished run.
type Metrics struct {
	Messages    int
	BytesSent   int64
	BytesEchoed int64
	EndTime     sim.VirtualTime
	PerClient   map[string]*ClientMetrics
}

// Runner executes a scenario on a fresh loop. The run is a pure function of
// the config: same config and seed, same virtual end time, same metrics,
// same execution trace.
type Runner struct {
	config  *Config
	loop    *sim.Loop
	rng     *PartitionedRNG
	metrics *Metrics
	failure error
}

// NewRunner builds a runner with its own loop.
func NewRunner(config *Config) *Runner {
	loop := sim.NewLoop()
	if config.Capacity > 0 {
		loop.SetDefaultCapacity(config.Capacity)
	}
	return &Runner{
		config: config,
		loop:   loop,
		rng:    NewPartitionedRNG(config.Seed),
		metrics: &Metrics{
			PerClient: make(map[string]*ClientMetrics),
		},
	}
}

// Loop exposes the underlying loop, e.g. to attach a trace before Run.
func (r *Runner) Loop() *sim.Loop {
	return r.loop
}

// Run starts the echo server, launches every client and drives the loop
// until all clients finish. The loop is torn down before returning.
func (r *Runner) Run() (*Metrics, error) {
	defer r.loop.Close()

	ln, err := r.loop.Listen(r.config.Host, r.config.Port)
	if err != nil {
		return nil, err
	}
	r.serve(ln)
	addr := ln.Addr() // resolved, in case port 0 was auto-assigned

	done := sim.NewFuture[struct{}](r.loop)
	remaining := len(r.config.Clients)
	for _, cc := range r.config.Clients {
		r.runClient(cc, addr, func() {
			remaining--
			if remaining == 0 {
				done.Complete(struct{}{})
			}
		})
	}

	if err := r.loop.RunUntilComplete(done); err != nil {
		return nil, err
	}
	if r.failure != nil {
		return nil, r.failure
	}
	r.metrics.EndTime = r.loop.Now()
	logrus.Infof("scenario finished at %v: %d messages, %d bytes echoed",
		r.metrics.EndTime, r.metrics.Messages, r.metrics.BytesEchoed)
	return r.metrics, nil
}

// serve accepts connections forever and echoes whatever arrives on each.
func (r *Runner) serve(ln *sim.Listener) {
	var acceptNext func()
	acceptNext = func() {
		ln.Accept().OnComplete(func(conn *sim.Socket, err error) {
			if err != nil {
				// Listener closed during teardown.
				return
			}
			logrus.Debugf("server accepted %v", conn.RemoteAddr())
			r.echo(conn)
			acceptNext()
		})
	}
	acceptNext()
}

// echo pumps one connection: read, write back, repeat until end-of-stream.
func (r *Runner) echo(conn *sim.Socket) {
	var pump func()
	pump = func() {
		conn.Recv(echoChunk).OnComplete(func(data []byte, err error) {
			if err != nil {
				conn.Close()
				return
			}
			if _, err := conn.Send(data); err != nil {
				r.fail(fmt.Errorf("echo send: %w", err))
				conn.Close()
				return
			}
			r.metrics.BytesEchoed += int64(len(data))
			pump()
		})
	}
	pump()
}

// runClient connects and exchanges the configured number of messages,
// verifying each echo byte-for-byte before moving on.
func (r *Runner) runClient(cc ClientConfig, addr sim.Addr, onDone func()) {
	cm := &ClientMetrics{}
	r.metrics.PerClient[cc.Name] = cm

	conn, err := r.loop.Connect(addr.Host, addr.Port)
	if err != nil {
		r.fail(fmt.Errorf("client %s: %w", cc.Name, err))
		onDone()
		return
	}
	rng := r.rng.ForClient(cc.Name)
	gap := time.Duration(cc.GapMicros) * time.Microsecond

	finish := func(failure error) {
		if failure != nil {
			r.fail(fmt.Errorf("client %s: %w", cc.Name, failure))
		}
		conn.Close()
		cm.DoneAt = r.loop.Now()
		onDone()
	}

	var sendNext func(i int)
	sendNext = func(i int) {
		if i == cc.Messages {
			finish(nil)
			return
		}
		size := cc.MinBytes
		if cc.MaxBytes > cc.MinBytes {
			size += rng.Intn(cc.MaxBytes - cc.MinBytes + 1)
		}
		msg := make([]byte, size)
		for j := range msg {
			msg[j] = byte(rng.Intn(256))
		}
		sentAt := r.loop.Now()
		if _, err := conn.Send(msg); err != nil {
			finish(fmt.Errorf("send: %w", err))
			return
		}
		r.metrics.Messages++
		r.metrics.BytesSent += int64(size)

		echoed := make([]byte, 0, size)
		var recvNext func()
		recvNext = func() {
			conn.Recv(size - len(echoed)).OnComplete(func(data []byte, err error) {
				if err != nil {
					finish(fmt.Errorf("recv: %w", err))
					return
				}
				echoed = append(echoed, data...)
				if len(echoed) < size {
					recvNext()
					return
				}
				for j := range msg {
					if echoed[j] != msg[j] {
						finish(fmt.Errorf("echo mismatch at byte %d of message %d", j, i))
						return
					}
				}
				cm.Messages++
				cm.Bytes += int64(size)
				cm.RoundTrip += r.loop.Now().Since(sentAt)
				if gap > 0 {
					r.loop.Sleep(gap).OnComplete(func(sim.VirtualTime, error) {
						sendNext(i + 1)
					})
					return
				}
				sendNext(i + 1)
			})
		}
		recvNext()
	}
	sendNext(0)
}

// fail records the first failure; later ones only get logged.
func (r *Runner) fail(err error) {
	if r.failure == nil {
		r.failure = err
		return
	}
	logrus.Warnf("scenario: additional failure: %v", err)
}
