// Package parallel provides the worker pool that spreads pixel ranges
// across goroutines.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when work is submitted to a closed pool.
var ErrClosed = errors.New("parallel: pool closed")

// MinChunk is the smallest range ForRange hands to a single task when the
// caller does not choose a chunk size.
const MinChunk = 256

// chunksPerWorker controls how finely ForRange splits a range by default.
// More chunks than workers lets stealing even out uneven pixel cost.
const chunksPerWorker = 4

// Pool is a fixed set of goroutines executing tasks.
//
// Every worker owns a queue. An idle worker steals from the other queues
// before blocking on its own, so a task that lands behind a slow one still
// gets picked up.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	// submit is held for reading while tasks are queued and for writing
	// by Close, so no task lands in a queue after its worker drained it.
	submit sync.RWMutex
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
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
		case fn := <-own:
			fn()
			continue
		default:
		}

		if fn := p.steal(id); fn != nil {
			fn()
			continue
		}

		select {
		case <-p.done:
			drain(own)
			return
		case fn := <-own:
			fn()
		}
	}
}

func drain(q chan func()) {
	for {
		select {
		case fn := <-q:
			fn()
		default:
			return
		}
	}
}

func (p *Pool) steal(id int) func() {
	for i := 1; i < p.workers; i++ {
		select {
		case fn := <-p.queues[(id+i)%p.workers]:
			return fn
		default:
		}
	}
	return nil
}

// Run executes tasks on the pool and waits for all of them.
//
// Once ctx is done, tasks that have not started are skipped and Run
// returns ctx.Err() after the started ones finish.
func (p *Pool) Run(ctx context.Context, tasks []func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.submit.RLock()
	if !p.running.Load() {
		p.submit.RUnlock()
		return ErrClosed
	}
	if len(tasks) == 0 {
		p.submit.RUnlock()
		return nil
	}

	var wg sync.WaitGroup
	wg.Add(len(tasks))

	for i, fn := range tasks {
		task := func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			fn()
		}

		select {
		case p.queues[i%p.workers] <- task:
		case <-ctx.Done():
			// Account for this and every remaining task.
			for range tasks[i:] {
				wg.Done()
			}
			p.submit.RUnlock()
			wg.Wait()
			return ctx.Err()
		}
	}
	p.submit.RUnlock()

	wg.Wait()
	return ctx.Err()
}

// ForRange splits [0, n) into consecutive chunks and calls fn(start, end)
// for each chunk on the pool. A chunk of 0 or less picks a size that gives
// every worker several chunks but never fewer than MinChunk items.
//
// fn must only touch state owned by its own range.
func (p *Pool) ForRange(ctx context.Context, n, chunk int, fn func(start, end int)) error {
	if n <= 0 {
		return ctx.Err()
	}
	if chunk <= 0 {
		chunk = ChunkSize(n, p.workers)
	}

	tasks := make([]func(), 0, (n+chunk-1)/chunk)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		tasks = append(tasks, func() { fn(start, end) })
	}
	return p.Run(ctx, tasks)
}

// ChunkSize returns the default ForRange chunk for n items on the given
// number of workers.
func ChunkSize(n, workers int) int {
	if workers <= 0 {
		workers = 1
	}
	size := (n + workers*chunksPerWorker - 1) / (workers * chunksPerWorker)
	return max(size, MinChunk)
}

// Close stops the workers after queued tasks complete.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	p.submit.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.submit.Unlock()
		return
	}
	close(p.done)
	p.submit.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// Queued returns an approximate count of tasks waiting in the queues.
func (p *Pool) Queued() int {
	total := 0
	for _, q := range p.queues {
		total += len(q)
	}
	return total
}
