package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	Label string `json:"label"`
}

var countingRuns int64

func (j *countingJob) Name() string { return "test.counting" }

func (j *countingJob) Handle(_ context.Context) error {
	atomic.AddInt64(&countingRuns, 1)
	return nil
}

type flakyJob struct {
	FailTimes int `json:"fail_times"`
}

var flakyAttempts int64

func (j *flakyJob) Name() string { return "test.flaky" }

func (j *flakyJob) Handle(_ context.Context) error {
	n := atomic.AddInt64(&flakyAttempts, 1)
	if int(n) <= j.FailTimes {
		return errors.New("transient")
	}
	return nil
}

func TestDispatchAndProcess(t *testing.T) {
	atomic.StoreInt64(&countingRuns, 0)
	m := NewManager(NewMemoryDriver(8))
	m.Register("test.counting", func() Job { return &countingJob{} })

	require.NoError(t, m.Dispatch(context.Background(), &countingJob{Label: "a"}))
	require.NoError(t, m.Dispatch(context.Background(), &countingJob{Label: "b"}))

	m.StartWorkers(2)
	defer m.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&countingRuns) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	atomic.StoreInt64(&flakyAttempts, 0)
	m := NewManager(NewMemoryDriver(8))
	m.Register("test.flaky", func() Job { return &flakyJob{} })

	require.NoError(t, m.Dispatch(context.Background(), &flakyJob{FailTimes: 1}))

	m.StartWorkers(1)
	defer m.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&flakyAttempts) == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestUnregisteredJobIsDropped(t *testing.T) {
	m := NewManager(NewMemoryDriver(8))
	require.NoError(t, m.Dispatch(context.Background(), &countingJob{}))

	// Processing an unknown name must not panic the worker.
	m.StartWorkers(1)
	time.Sleep(50 * time.Millisecond)
	m.Stop()
}

func TestDispatchAfterDelays(t *testing.T) {
	atomic.StoreInt64(&countingRuns, 0)
	m := NewManager(NewMemoryDriver(8))
	m.Register("test.counting", func() Job { return &countingJob{} })
	m.StartWorkers(1)
	defer m.Stop()

	require.NoError(t, m.DispatchAfter(context.Background(), &countingJob{}, 60*time.Millisecond))

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt64(&countingRuns))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&countingRuns) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
