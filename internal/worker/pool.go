// Package worker provides a bounded pool for running blocking, CPU-bound
// work outside of request handler goroutines.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"token-service/pkg/logger"
)

var (
	// ErrQueueFull is returned when the task queue is saturated.
	ErrQueueFull = errors.New("task queue is full")

	// ErrNotRunning is returned when work is submitted to a stopped pool.
	ErrNotRunning = errors.New("worker pool is not running")
)

// Task is a unit of blocking work.
type Task func() (interface{}, error)

type job struct {
	run    Task
	result chan jobResult
}

type jobResult struct {
	value interface{}
	err   error
}

// Pool runs tasks on a fixed set of worker goroutines behind a bounded
// queue.
type Pool struct {
	workers   int
	queue     chan job
	stopChan  chan struct{}
	wg        sync.WaitGroup
	mutex     sync.RWMutex
	isRunning bool
	log       *logger.Logger
}

// NewPool creates a pool with the given worker count and queue capacity.
func NewPool(workers, queueSize int, log *logger.Logger) *Pool {
	return &Pool{
		workers:  workers,
		queue:    make(chan job, queueSize),
		stopChan: make(chan struct{}),
		log:      log.WithComponent("worker"),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.isRunning {
		return fmt.Errorf("worker pool is already running")
	}

	p.isRunning = true
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.workerLoop(i)
	}

	p.log.Info("Worker pool started with %d workers", p.workers)
	return nil
}

// Stop shuts the pool down and waits for in-flight tasks to finish.
func (p *Pool) Stop() {
	p.mutex.Lock()
	if !p.isRunning {
		p.mutex.Unlock()
		return
	}
	close(p.stopChan)
	p.isRunning = false
	p.mutex.Unlock()

	p.wg.Wait()
	p.log.Info("Worker pool stopped")
}

// IsRunning returns whether the pool is currently running
func (p *Pool) IsRunning() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.isRunning
}

// QueueDepth returns the number of queued tasks not yet picked up.
func (p *Pool) QueueDepth() int {
	return len(p.queue)
}

// Do submits a task and waits for its result or for ctx to end. It never
// blocks on a full queue; saturation is reported as ErrQueueFull so callers
// can shed load.
func (p *Pool) Do(ctx context.Context, task Task) (interface{}, error) {
	if !p.IsRunning() {
		return nil, ErrNotRunning
	}

	j := job{run: task, result: make(chan jobResult, 1)}

	select {
	case p.queue <- j:
	default:
		p.log.Warning("Task rejected, queue full (%d queued)", len(p.queue))
		return nil, ErrQueueFull
	}

	select {
	case res := <-j.result:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Pool) workerLoop(id int) {
	defer p.wg.Done()

	for {
		select {
		case j := <-p.queue:
			value, err := j.run()
			j.result <- jobResult{value: value, err: err}

		case <-p.stopChan:
			p.log.Debug("Worker %d stopped", id)
			return
		}
	}
}
