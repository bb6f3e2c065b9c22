package auditservice

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPoolDrainsQueueOnClose(t *testing.T) {
	wp := NewWorkerPool(4)

	var done int32
	for i := 0; i < 10; i++ {
		err := wp.AddTask(context.Background(), func() error {
			atomic.AddInt32(&done, 1)
			return nil
		})
		assert.NoError(t, err)
	}

	wp.Close()
	assert.Equal(t, int32(10), atomic.LoadInt32(&done))
}

func TestWorkerPoolCloseIsIdempotent(t *testing.T) {
	wp := NewWorkerPool(2)

	assert.NotPanics(t, func() {
		wp.Close()
		wp.Close()
	})
}

func TestWorkerPoolAddTaskCanceledContext(t *testing.T) {
	wp := NewWorkerPool(1)
	defer wp.Close()

	// fill the queue so AddTask has to block
	release := make(chan struct{})
	err := wp.AddTask(context.Background(), func() error {
		<-release
		return nil
	})
	assert.NoError(t, err)
	err = wp.AddTask(context.Background(), func() error { return nil })
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = wp.AddTask(ctx, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
}
