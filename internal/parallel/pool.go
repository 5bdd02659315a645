// Package parallel provides a small, reusable worker pool for fanning
// independent, index-addressable work out across the host's logical CPUs.
//
// It is adapted from the mutagen synchronization engine's SIMD-style worker
// array (pkg/parallelism/simd.go in that project), trimmed to the simpler
// case this repository needs: every unit of work is a chunk index, workloads
// never fail (hashing in-memory bytes cannot produce an I/O error), and
// there's no result to propagate back beyond "done".
package parallel

import (
	"runtime"
	"sync"
)

// Pool encapsulates a fixed-size array of worker goroutines that can run an
// indexed workload, such as hashing the chunks of a signature, with each
// worker responsible for a disjoint stripe of indices.
type Pool struct {
	// lock serializes calls to Run.
	lock sync.Mutex
	// size is the number of workers in the array.
	size int
	// terminated tracks whether the pool has been shut down.
	terminated bool
	// submit is a slice of channels used to hand a workload to each
	// worker. Closing a channel signals that worker to exit.
	submit []chan indexedWork
	// done is a slice of channels signaling that a worker has finished its
	// share of the current workload (or, once closed, that the worker has
	// exited).
	done []chan struct{}
}

// indexedWork is the unit of work submitted to a pool: run fn for every
// index in [0, count) congruent to worker (mod size).
type indexedWork struct {
	fn    func(index int)
	count int
}

// NewPool creates a new worker pool. If size is zero or negative, a size
// corresponding to the number of logical CPUs is used.
func NewPool(size int) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
		if size < 1 {
			size = 1
		}
	}

	p := &Pool{
		size:   size,
		submit: make([]chan indexedWork, size),
		done:   make([]chan struct{}, size),
	}
	for i := 0; i < size; i++ {
		p.submit[i] = make(chan indexedWork)
		p.done[i] = make(chan struct{})
		go p.work(i)
	}
	return p
}

// work is the loop run by each worker goroutine.
func (p *Pool) work(worker int) {
	for job := range p.submit[worker] {
		for i := worker; i < job.count; i += p.size {
			job.fn(i)
		}
		p.done[worker] <- struct{}{}
	}
	close(p.done[worker])
}

// Run executes fn(i) for every i in [0, count), striping indices across the
// pool's workers, and blocks until all of them have completed. Concurrent
// calls are serialized, one workload at a time. Calling Run after Close
// panics.
func (p *Pool) Run(count int, fn func(index int)) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.terminated {
		panic("work submitted to closed pool")
	}
	if count <= 0 {
		return
	}

	job := indexedWork{fn: fn, count: count}
	for i := 0; i < p.size; i++ {
		p.submit[i] <- job
	}
	for i := 0; i < p.size; i++ {
		<-p.done[i]
	}
}

// Close shuts down the pool's workers. The pool must not be used after Close
// returns.
func (p *Pool) Close() {
	p.lock.Lock()
	defer p.lock.Unlock()

	for i := 0; i < p.size; i++ {
		close(p.submit[i])
		<-p.done[i]
	}
	p.terminated = true
}
