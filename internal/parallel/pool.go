// Package parallel provides the fixed worker pool used for fork-join loops
// over histogram bins.
//
// Every worker goroutine owns a slot id in [0, Workers). Tasks receive the slot
// of the worker that runs them, which lets callers index worker-private state
// without locks.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned when work is submitted to a closed pool.
var ErrPoolClosed = errors.New("worker pool closed")

// Task is a unit of work. slot identifies the executing worker.
type Task func(slot int)

// Pool manages a fixed set of goroutines.
type Pool struct {
	numWorkers int
	workCh     chan Task
	stopCh     chan struct{}
	wg         sync.WaitGroup
	closed     atomic.Bool
	submitMu   sync.RWMutex
}

// NewPool creates a pool with numWorkers goroutines.
// If numWorkers <= 0, runtime.GOMAXPROCS(0) is used.
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workCh:     make(chan Task, numWorkers*2),
		stopCh:     make(chan struct{}),
	}

	p.wg.Add(numWorkers)
	for slot := 0; slot < numWorkers; slot++ {
		go p.worker(slot)
	}

	return p
}

// Workers returns the number of worker slots.
func (p *Pool) Workers() int { return p.numWorkers }

func (p *Pool) worker(slot int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			// Drain remaining work before exiting
			for {
				select {
				case task, ok := <-p.workCh:
					if !ok {
						return
					}
					task(slot)
				default:
					return
				}
			}
		case task, ok := <-p.workCh:
			if !ok {
				return
			}
			task(slot)
		}
	}
}

// Submit enqueues a task and returns without waiting for it to run.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()

	if p.closed.Load() {
		return ErrPoolClosed
	}

	select {
	case p.workCh <- task:
		return nil
	case <-p.stopCh:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ForRange splits [0, n) into contiguous chunks and runs fn for each chunk
// on the pool. It blocks until every submitted chunk has finished.
//
// If submission fails (context canceled or pool closed) the chunks already
// submitted still run to completion before the error is returned.
func (p *Pool) ForRange(ctx context.Context, n int, fn func(slot, lo, hi int)) error {
	if n <= 0 {
		return nil
	}

	chunks := p.numWorkers * 4
	if chunks > n {
		chunks = n
	}
	size := (n + chunks - 1) / chunks

	var wg sync.WaitGroup
	var submitErr error
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		wg.Add(1)
		err := p.Submit(ctx, func(slot int) {
			defer wg.Done()
			fn(slot, lo, hi)
		})
		if err != nil {
			wg.Done()
			submitErr = err
			break
		}
	}
	wg.Wait()

	return submitErr
}

// Close shuts down the pool after queued work has drained. Idempotent.
func (p *Pool) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}

	p.submitMu.Lock()
	close(p.stopCh)
	close(p.workCh)
	p.submitMu.Unlock()

	p.wg.Wait()
}
