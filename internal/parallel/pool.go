// Package parallel provides the fork-join infrastructure used to evaluate an
// image in parallel.
//
// The pixel grid is cut into horizontal bands of a fixed number of rows. The
// band layout depends only on the image height, never on the number of
// workers, so per-band partial results can be folded in band order and give
// bit-identical totals however the bands were scheduled.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// batch is one fork-join call: n jobs sharing fn and a completion barrier.
type batch struct {
	fn   func(i int)
	done sync.WaitGroup
}

// job is item i of a batch.
type job struct {
	b *batch
	i int
}

func (j job) run() {
	defer j.b.done.Done()
	j.b.fn(j.i)
}

// Pool runs batches of bands on a fixed set of goroutines.
//
// Every worker owns a queue. A batch is dealt out in contiguous runs of
// bands, one run per worker, so neighbouring rows stay on one core. A worker
// whose queue is empty steals from the others; expression cost varies
// across the plane, so some runs finish long before others.
//
// Pool is safe for concurrent use. Batches from different goroutines share
// the workers.
type Pool struct {
	workers int
	queues  []chan job
	quit    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool starts a pool with the given number of workers. A non-positive
// count selects GOMAXPROCS.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		workers: workers,
		queues:  make([]chan job, workers),
		quit:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan job, max(workers*4, 8))
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case j := <-own:
			j.run()
			continue
		case <-p.quit:
			p.drain(own)
			return
		default:
		}

		if j, ok := p.steal(id); ok {
			j.run()
			continue
		}

		select {
		case j := <-own:
			j.run()
		case <-p.quit:
			p.drain(own)
			return
		}
	}
}

// drain runs whatever is left in q.
func (p *Pool) drain(q chan job) {
	for {
		select {
		case j := <-q:
			j.run()
		default:
			return
		}
	}
}

// steal takes one job from another worker's queue.
func (p *Pool) steal(id int) (job, bool) {
	for k := 1; k < p.workers; k++ {
		select {
		case j := <-p.queues[(id+k)%p.workers]:
			return j, true
		default:
		}
	}
	return job{}, false
}

// run calls fn(i) for every i in [0, n) and returns when all calls are done.
// Worker w is handed indices [w*n/workers, (w+1)*n/workers).
func (p *Pool) run(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	if !p.running.Load() {
		for i := range n {
			fn(i)
		}
		return
	}

	b := &batch{fn: fn}
	b.done.Add(n)
	for w := range p.workers {
		for i := w * n / p.workers; i < (w+1)*n/p.workers; i++ {
			j := job{b: b, i: i}
			select {
			case p.queues[w] <- j:
			case <-p.quit:
				j.run()
			}
		}
	}
	b.done.Wait()
}

// ForEachBand runs fn once per band and returns when all bands are done. fn
// must only write state owned by its band. On a closed pool the bands run on
// the calling goroutine.
func (p *Pool) ForEachBand(bands []Band, fn func(Band)) {
	p.run(len(bands), func(i int) { fn(bands[i]) })
}

// ExecuteAll runs every function in work and waits for all of them.
func (p *Pool) ExecuteAll(work []func()) {
	p.run(len(work), func(i int) { work[i]() })
}

// Close stops the workers after the queued jobs have run. It is safe to
// call more than once, but not concurrently with a running batch.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.quit)
	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still schedules work on its workers.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}
