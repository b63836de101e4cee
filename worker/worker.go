package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/gogpu/geofield"
	"github.com/gogpu/geofield/internal/parallel"
)

var (
	// ErrNilRequest is returned for an envelope without a request.
	ErrNilRequest = errors.New("worker: nil request")

	// ErrPanic wraps a panic raised while executing a request.
	ErrPanic = errors.New("worker: request panicked")
)

// Worker executes requests.
type Worker struct {
	workers int
	metrics *Metrics
	clock   clockwork.Clock
}

// Option configures a Worker.
type Option func(*Worker)

// WithWorkers sets the number of goroutines Run uses. Zero or negative
// selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(w *Worker) {
		w.workers = n
	}
}

// WithMetrics records dispatch metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

// WithClock sets the time source for dispatch durations.
func WithClock(c clockwork.Clock) Option {
	return func(w *Worker) {
		if c != nil {
			w.clock = c
		}
	}
}

// New creates a Worker.
func New(opts ...Option) *Worker {
	w := &Worker{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Handle executes one request on the calling goroutine.
func (w *Worker) Handle(req Request) (reply Reply) {
	if req == nil {
		return Reply{Err: ErrNilRequest}
	}
	op := req.Op()
	reply.Op = op

	if w.metrics != nil {
		w.metrics.InFlight.Inc()
		defer w.metrics.InFlight.Dec()
	}
	start := w.clock.Now()
	defer func() {
		if r := recover(); r != nil {
			reply.Result = nil
			reply.Err = fmt.Errorf("%w: %s: %v", ErrPanic, op, r)
			geofield.Logger().Warn("worker: request panicked", "op", op, "panic", r)
		}
		w.observe(op, start, reply.Err)
	}()

	reply.Result, reply.Err = req.execute()
	if reply.Err != nil {
		reply.Result = nil
		geofield.Logger().Debug("worker: request failed", "op", op, "err", reply.Err)
	}
	return reply
}

func (w *Worker) observe(op Op, start time.Time, err error) {
	if w.metrics == nil {
		return
	}
	w.metrics.Requests.WithLabelValues(string(op), outcome(err)).Inc()
	w.metrics.DispatchDuration.WithLabelValues(string(op)).Observe(w.clock.Since(start).Seconds())
}

// HandleAll executes requests concurrently and returns their replies in
// request order. Reply IDs are the request indexes.
func (w *Worker) HandleAll(reqs []Request) []Reply {
	replies := make([]Reply, len(reqs))
	pool := parallel.New(w.workers)
	defer pool.Close()

	jobs := make([]func(), len(reqs))
	for i, req := range reqs {
		jobs[i] = func() {
			replies[i] = w.Handle(req)
			replies[i].ID = uint64(i)
		}
	}
	pool.ExecuteAll(jobs)
	return replies
}

// Run is the dispatch loop. It reads envelopes from in, executes them on a
// goroutine pool and writes one reply per envelope to out, in completion
// order.
//
// Run returns nil once in is closed and every accepted envelope has been
// answered, or ctx.Err() when ctx ends; replies still pending then are
// dropped. Run never closes out.
func (w *Worker) Run(ctx context.Context, in <-chan Envelope, out chan<- Reply) error {
	pool := parallel.New(w.workers)
	defer pool.Close()

	log := geofield.Logger()
	log.Info("worker: dispatch loop started", "workers", pool.Workers())
	defer log.Info("worker: dispatch loop stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-in:
			if !ok {
				return nil
			}
			pool.Submit(func() {
				reply := w.Handle(env.Request)
				reply.ID = env.ID
				select {
				case out <- reply:
				case <-ctx.Done():
				}
			})
		}
	}
}

// Start runs the dispatch loop on a new goroutine and returns a Client
// connected to it. Closing the client stops the loop.
func (w *Worker) Start(ctx context.Context) *Client {
	in := make(chan Envelope)
	out := make(chan Reply)
	go func() {
		defer close(out)
		if err := w.Run(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
			geofield.Logger().Warn("worker: dispatch loop ended", "err", err)
		}
	}()
	return newClient(in, out, w.metrics)
}
