// Package workerpool bounds concurrent background work with a fixed
// set of workers and a buffered task queue.
package workerpool

import (
	"errors"
	"sync"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
)

var (
	// ErrPoolFull is returned when the task queue has no room.
	ErrPoolFull = errors.New("workerpool: queue full")
	// ErrPoolClosed is returned after Shutdown.
	ErrPoolClosed = errors.New("workerpool: closed")
)

// Pool runs submitted tasks on a fixed number of goroutines.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// New starts a pool with the given worker count and queue size.
func New(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &Pool{tasks: make(chan func(), queueSize)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		safeRun(task)
	}
}

func safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool task panicked", "panic", r)
		}
	}()
	task()
}

// Submit enqueues a task without blocking. Returns ErrPoolFull when
// the queue is saturated.
func (p *Pool) Submit(task func()) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	defer p.mu.Unlock()

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait enqueues a task and blocks until it finishes.
func (p *Pool) SubmitWait(task func()) error {
	done := make(chan struct{})
	err := p.Submit(func() {
		defer close(done)
		task()
	})
	if err != nil {
		return err
	}
	<-done
	return nil
}

// Shutdown stops accepting tasks and waits for in-flight ones.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}
