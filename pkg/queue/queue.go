// Package queue runs background jobs through pluggable drivers. The
// memory driver serves development and tests; the redis driver gives
// durable delivery across restarts.
//
// Jobs register a factory by name so payloads can be decoded after a
// process restart:
//
//	queue.Register("otp.email", func() queue.Job { return &SendOtpEmail{} })
//	queue.Dispatch(&SendOtpEmail{To: "buyer@example.com", Code: code})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/metrics"
)

// Job is a unit of background work. Name must be stable across
// releases because it is stored with the payload.
type Job interface {
	Name() string
	Handle(ctx context.Context) error
}

// Retryable jobs override the default attempt count of 3.
type Retryable interface {
	MaxAttempts() int
}

// Driver moves serialized job envelopes.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	PushDelayed(ctx context.Context, payload []byte, delay time.Duration) error
	Pop(ctx context.Context) ([]byte, error)
}

type envelope struct {
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Manager owns the driver, the job registry, and the worker loop.
type Manager struct {
	driver    Driver
	factories map[string]func() Job
	mu        sync.RWMutex
	wg        sync.WaitGroup
	cancel    context.CancelFunc
}

var defaultManager = NewManager(NewMemoryDriver(512))

// NewManager builds a manager around a driver.
func NewManager(d Driver) *Manager {
	return &Manager{driver: d, factories: map[string]func() Job{}}
}

// UseDriver swaps the driver on the default manager. Call before
// StartWorkers.
func UseDriver(d Driver) { defaultManager.driver = d }

// Register adds a job factory to the default manager.
func Register(name string, factory func() Job) { defaultManager.Register(name, factory) }

// Dispatch enqueues a job on the default manager.
func Dispatch(job Job) error { return defaultManager.Dispatch(context.Background(), job) }

// DispatchAfter enqueues a job to run after the delay.
func DispatchAfter(job Job, delay time.Duration) error {
	return defaultManager.DispatchAfter(context.Background(), job, delay)
}

// StartWorkers starts n worker goroutines on the default manager.
func StartWorkers(n int) { defaultManager.StartWorkers(n) }

// Stop drains the default manager's workers.
func Stop() { defaultManager.Stop() }

// Register adds a job factory.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[name] = factory
}

// Dispatch serializes and enqueues a job.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	payload, err := m.seal(job)
	if err != nil {
		return err
	}
	return m.driver.Push(ctx, payload)
}

// DispatchAfter enqueues a job to run no sooner than delay from now.
func (m *Manager) DispatchAfter(ctx context.Context, job Job, delay time.Duration) error {
	payload, err := m.seal(job)
	if err != nil {
		return err
	}
	return m.driver.PushDelayed(ctx, payload, delay)
}

func (m *Manager) seal(job Job) ([]byte, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("queue: marshal %s: %w", job.Name(), err)
	}
	return json.Marshal(envelope{Name: job.Name(), Payload: body, EnqueuedAt: time.Now().UTC()})
}

// StartWorkers launches n goroutines popping and running jobs until
// Stop is called.
func (m *Manager) StartWorkers(n int) {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	for i := 0; i < n; i++ {
		m.wg.Add(1)
		go m.worker(ctx)
	}
}

// Stop cancels the workers and waits for in-flight jobs.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

func (m *Manager) worker(ctx context.Context) {
	defer m.wg.Done()
	for {
		payload, err := m.driver.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("queue pop failed", "error", err)
			time.Sleep(time.Second)
			continue
		}
		if payload == nil {
			continue
		}
		m.process(ctx, payload)
	}
}

func (m *Manager) process(ctx context.Context, payload []byte) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		logger.Error("queue envelope corrupt", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.factories[env.Name]
	m.mu.RUnlock()
	if !ok {
		logger.Error("queue job not registered", "job", env.Name)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue payload corrupt", "job", env.Name, "error", err)
		return
	}

	start := time.Now()
	err := m.runWithRetry(ctx, job)
	metrics.RecordQueueJob(env.Name, err == nil, time.Since(start))
	if err != nil {
		logger.Error("queue job failed permanently", "job", env.Name, "error", err)
		persistFailed(env, err)
	}
}

func (m *Manager) runWithRetry(ctx context.Context, job Job) error {
	attempts := 3
	if r, ok := job.(Retryable); ok {
		attempts = r.MaxAttempts()
	}
	if attempts < 1 {
		attempts = 1
	}

	var err error
	backoff := time.Second
	for attempt := 1; attempt <= attempts; attempt++ {
		err = runSafely(ctx, job)
		if err == nil {
			return nil
		}
		if attempt < attempts {
			logger.Warn("queue job retrying", "job", job.Name(), "attempt", attempt, "error", err)
			select {
			case <-ctx.Done():
				return err
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return err
}

func runSafely(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("queue: job %s panicked: %v", job.Name(), r)
		}
	}()
	return job.Handle(ctx)
}
