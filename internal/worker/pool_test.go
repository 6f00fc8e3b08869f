package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"token-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, workers, queueSize int) *Pool {
	p := NewPool(workers, queueSize, logger.NewLogger("error", ""))
	require.NoError(t, p.Start())
	t.Cleanup(p.Stop)
	return p
}

func TestDoReturnsResult(t *testing.T) {
	p := newTestPool(t, 2, 4)

	result, err := p.Do(context.Background(), func() (interface{}, error) {
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", result)
}

func TestDoPropagatesTaskError(t *testing.T) {
	p := newTestPool(t, 1, 4)

	taskErr := errors.New("task exploded")
	_, err := p.Do(context.Background(), func() (interface{}, error) {
		return nil, taskErr
	})
	assert.ErrorIs(t, err, taskErr)
}

func TestDoRejectsWhenQueueFull(t *testing.T) {
	p := newTestPool(t, 1, 1)

	block := make(chan struct{})
	defer close(block)
	started := make(chan struct{})

	// Occupy the single worker
	go p.Do(context.Background(), func() (interface{}, error) {
		close(started)
		<-block
		return nil, nil
	})

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("worker never picked up the blocking task")
	}

	// Fill the single queue slot
	go p.Do(context.Background(), func() (interface{}, error) {
		<-block
		return nil, nil
	})

	require.Eventually(t, func() bool {
		return p.QueueDepth() == 1
	}, time.Second, 5*time.Millisecond)

	// Worker busy and queue full: submission is shed immediately
	_, err := p.Do(context.Background(), func() (interface{}, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	p := newTestPool(t, 1, 4)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	release := make(chan struct{})
	defer close(release)

	_, err := p.Do(ctx, func() (interface{}, error) {
		<-release
		return nil, nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoFailsWhenStopped(t *testing.T) {
	p := NewPool(1, 1, logger.NewLogger("error", ""))

	_, err := p.Do(context.Background(), func() (interface{}, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestStartStopLifecycle(t *testing.T) {
	p := NewPool(2, 4, logger.NewLogger("error", ""))

	assert.False(t, p.IsRunning())
	require.NoError(t, p.Start())
	assert.True(t, p.IsRunning())

	// Double start is an error
	assert.Error(t, p.Start())

	p.Stop()
	assert.False(t, p.IsRunning())

	// Double stop is harmless
	p.Stop()
}
