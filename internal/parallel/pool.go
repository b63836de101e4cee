// Package parallel provides the fixed-size goroutine pool that executes
// worker requests.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool runs submitted jobs on a fixed set of goroutines.
//
// Each goroutine owns a queue and steals from the others when its own
// queue is empty, so a slow job (a large unstructured thinning, say) does
// not hold up the short ones queued behind it.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// New starts a pool with the given number of goroutines. Zero or negative
// selects GOMAXPROCS.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.loop(i)
	}
	return p
}

func (p *Pool) loop(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case <-p.done:
			drain(own)
			return
		case job := <-own:
			job()
			continue
		default:
		}

		if job := p.steal(id); job != nil {
			job()
			continue
		}

		select {
		case <-p.done:
			drain(own)
			return
		case job := <-own:
			job()
		}
	}
}

func drain(queue chan func()) {
	for {
		select {
		case job := <-queue:
			job()
		default:
			return
		}
	}
}

func (p *Pool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case job := <-p.queues[i]:
			return job
		default:
		}
	}
	return nil
}

// Submit queues fn on the shortest queue. It blocks while all queues are
// full and reports false if the pool is closed.
func (p *Pool) Submit(fn func()) bool {
	if fn == nil || !p.running.Load() {
		return false
	}

	shortest := 0
	for i := 1; i < p.workers; i++ {
		if len(p.queues[i]) < len(p.queues[shortest]) {
			shortest = i
		}
	}

	select {
	case p.queues[shortest] <- fn:
		return true
	case <-p.done:
		return false
	}
}

// ExecuteAll runs every job and waits for all of them. Jobs that cannot be
// queued because the pool is closing run on the calling goroutine.
func (p *Pool) ExecuteAll(jobs []func()) {
	if len(jobs) == 0 {
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for i, fn := range jobs {
		job := func() {
			defer wg.Done()
			fn()
		}
		if !p.running.Load() {
			job()
			continue
		}
		select {
		case p.queues[i%p.workers] <- job:
		case <-p.done:
			job()
		}
	}
	wg.Wait()
}

// Close stops accepting jobs, runs the ones already queued and waits for
// the goroutines to exit. Close is safe to call more than once.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of goroutines.
func (p *Pool) Workers() int { return p.workers }

// Running reports whether the pool accepts jobs.
func (p *Pool) Running() bool { return p.running.Load() }

// Queued returns the approximate number of jobs waiting in the queues.
func (p *Pool) Queued() int {
	total := 0
	for _, q := range p.queues {
		total += len(q)
	}
	return total
}
