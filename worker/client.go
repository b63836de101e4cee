package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/geofield"
)

// ErrClosed is returned by a Client whose connection to the worker is gone.
var ErrClosed = errors.New("worker: client closed")

// Client correlates requests with replies by envelope ID.
type Client struct {
	in      chan<- Envelope
	metrics *Metrics

	mu      sync.Mutex
	next    uint64
	pending map[uint64]chan Reply
	closed  bool

	// sendMu is read-held around sends on in and write-held to close it.
	sendMu    sync.RWMutex
	closing   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

// NewClient connects to a dispatch loop reading from in and writing to out.
// The client owns in and closes it on Close. It stops routing replies when
// out is closed.
func NewClient(in chan<- Envelope, out <-chan Reply) *Client {
	return newClient(in, out, nil)
}

func newClient(in chan<- Envelope, out <-chan Reply, m *Metrics) *Client {
	c := &Client{
		in:      in,
		metrics: m,
		pending: make(map[uint64]chan Reply),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.route(out)
	return c
}

func (c *Client) route(out <-chan Reply) {
	defer close(c.done)
	for r := range out {
		c.mu.Lock()
		ch, ok := c.pending[r.ID]
		delete(c.pending, r.ID)
		c.mu.Unlock()
		if !ok {
			if c.metrics != nil {
				c.metrics.DiscardedReplies.Inc()
			}
			geofield.Logger().Debug("worker: discarded reply", "id", r.ID, "op", r.Op)
			continue
		}
		ch <- r
	}

	c.mu.Lock()
	c.closed = true
	for id, ch := range c.pending {
		ch <- Reply{ID: id, Err: ErrClosed}
		delete(c.pending, id)
	}
	c.mu.Unlock()
}

// Do sends req and waits for its reply. If ctx ends first Do returns
// ctx.Err() and the eventual result is discarded.
func (c *Client) Do(ctx context.Context, req Request) (any, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	ch := make(chan Reply, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.next++
	id := c.next
	c.pending[id] = ch
	c.mu.Unlock()

	if err := c.send(ctx, Envelope{ID: id, Request: req}); err != nil {
		c.forget(id)
		return nil, err
	}

	select {
	case r := <-ch:
		return r.Result, r.Err
	case <-ctx.Done():
		c.forget(id)
		return nil, ctx.Err()
	}
}

func (c *Client) send(ctx context.Context, env Envelope) error {
	c.sendMu.RLock()
	defer c.sendMu.RUnlock()

	select {
	case <-c.closing:
		return ErrClosed
	default:
	}
	select {
	case c.in <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	case <-c.closing:
		return ErrClosed
	}
}

func (c *Client) forget(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Close closes the request channel. Replies already in flight are still
// delivered. Do calls waiting to send, and later ones, return ErrClosed.
// Close is safe to call concurrently with Do and more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closing)
		c.sendMu.Lock()
		close(c.in)
		c.sendMu.Unlock()
	})
}

// Wait blocks until the worker has closed its reply channel.
func (c *Client) Wait() {
	<-c.done
}

// Call is Do with the result asserted to T.
func Call[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var zero T
	res, err := c.Do(ctx, req)
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("worker: %s result is %T, not %T", req.Op(), res, zero)
	}
	return v, nil
}
