package queue

import (
	"context"
	"errors"
	"time"
)

// MemoryDriver holds jobs in a buffered channel. Jobs are lost on
// restart, which is acceptable for development and tests.
type MemoryDriver struct {
	jobs chan []byte
}

// NewMemoryDriver builds a driver with the given buffer size.
func NewMemoryDriver(size int) *MemoryDriver {
	if size < 1 {
		size = 64
	}
	return &MemoryDriver{jobs: make(chan []byte, size)}
}

// Push enqueues a payload, failing fast when the buffer is full.
func (d *MemoryDriver) Push(_ context.Context, payload []byte) error {
	select {
	case d.jobs <- payload:
		return nil
	default:
		return errors.New("queue: memory driver full")
	}
}

// PushDelayed enqueues after the delay using a timer goroutine.
func (d *MemoryDriver) PushDelayed(ctx context.Context, payload []byte, delay time.Duration) error {
	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(delay):
			d.Push(context.Background(), payload)
		}
	}()
	return nil
}

// Pop blocks until a payload is available or the context ends.
func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.jobs:
		return payload, nil
	}
}
