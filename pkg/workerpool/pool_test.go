package workerpool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsTasks(t *testing.T) {
	p := New(4, 16)
	defer p.Shutdown()

	var count int64
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(func() { atomic.AddInt64(&count, 1) }))
	}

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&count) == 10
	}, time.Second, 10*time.Millisecond)
}

func TestSubmitWaitBlocksUntilDone(t *testing.T) {
	p := New(1, 1)
	defer p.Shutdown()

	done := false
	require.NoError(t, p.SubmitWait(func() {
		time.Sleep(20 * time.Millisecond)
		done = true
	}))
	assert.True(t, done)
}

func TestSubmitFullQueue(t *testing.T) {
	p := New(1, 1)
	defer p.Shutdown()

	block := make(chan struct{})
	defer close(block)

	// Park the single worker, then fill the one queue slot. The started
	// channel guarantees the first task left the queue before the second
	// submission, so the third always finds the slot taken.
	started := make(chan struct{})
	require.NoError(t, p.Submit(func() { close(started); <-block }))
	<-started

	require.NoError(t, p.Submit(func() {}))
	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolFull)
}

func TestSubmitAfterShutdown(t *testing.T) {
	p := New(1, 1)
	p.Shutdown()
	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolClosed)
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	p := New(1, 4)
	defer p.Shutdown()

	require.NoError(t, p.Submit(func() { panic("boom") }))

	var ran int64
	require.NoError(t, p.Submit(func() { atomic.AddInt64(&ran, 1) }))
	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&ran) == 1
	}, time.Second, 10*time.Millisecond)
}
