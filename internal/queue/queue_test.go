package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue_PushPop(t *testing.T) {
	q := NewInMemoryQueue()

	require.NoError(t, q.Push(&Task{ID: "1", Category: "plumbing"}))
	require.NoError(t, q.Push(&Task{ID: "2", Category: "moving_help"}))
	assert.Equal(t, 2, q.Size())

	task, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "plumbing", task.Category)

	task, err = q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "moving_help", task.Category)
	assert.Equal(t, 0, q.Size())
}

func TestInMemoryQueue_PriorityOrder(t *testing.T) {
	q := NewInMemoryQueue()

	require.NoError(t, q.Push(&Task{ID: "1", Category: "cleaning", Priority: 1}))
	require.NoError(t, q.Push(&Task{ID: "2", Category: "furniture_assembly", Priority: 10}))
	require.NoError(t, q.Push(&Task{ID: "3", Category: "plumbing", Priority: 5}))

	task, err := q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "furniture_assembly", task.Category)

	task, err = q.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "plumbing", task.Category)
}

func TestInMemoryQueue_PopBlocksUntilPush(t *testing.T) {
	q := NewInMemoryQueue()

	got := make(chan *Task)
	go func() {
		task, err := q.Pop(context.Background())
		require.NoError(t, err)
		got <- task
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, q.Push(&Task{ID: "1", Category: "electrical_help"}))

	select {
	case task := <-got:
		assert.Equal(t, "electrical_help", task.Category)
	case <-time.After(1 * time.Second):
		t.Fatal("pop did not unblock after push")
	}
}

func TestInMemoryQueue_PopCancelledContext(t *testing.T) {
	q := NewInMemoryQueue()

	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error)
	go func() {
		_, err := q.Pop(ctx)
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(1 * time.Second):
		t.Fatal("pop did not return on cancellation")
	}
}

func TestInMemoryQueue_Closed(t *testing.T) {
	q := NewInMemoryQueue()
	require.NoError(t, q.Close())

	err := q.Push(&Task{ID: "1"})
	assert.ErrorIs(t, err, ErrQueueClosed)

	_, err = q.Pop(context.Background())
	assert.ErrorIs(t, err, ErrQueueClosed)
}
