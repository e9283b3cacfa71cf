package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"taskscope/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePublisher implements Publisher for testing.
type fakePublisher struct {
	mu        sync.Mutex
	published []models.PushEvent
	attempts  map[string]int
	// failures is how many attempts fail per notification before succeeding.
	failures map[string]int
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{
		attempts: make(map[string]int),
		failures: make(map[string]int),
	}
}

func (f *fakePublisher) Publish(ctx context.Context, event models.PushEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[event.NotificationID]++
	if f.attempts[event.NotificationID] <= f.failures[event.NotificationID] {
		return errors.New("sink unavailable")
	}
	f.published = append(f.published, event)
	return nil
}

func (f *fakePublisher) failFirst(id string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[id] = n
}

func (f *fakePublisher) Published() []models.PushEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.PushEvent, len(f.published))
	copy(out, f.published)
	return out
}

func (f *fakePublisher) Attempts(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[id]
}

func TestNewProcessor(t *testing.T) {
	queue := NewMemoryQueue(10)
	publisher := newFakePublisher()

	processor := NewProcessor(queue, publisher, 2)

	assert.NotNil(t, processor)
	assert.Equal(t, queue, processor.queue)
	assert.Equal(t, publisher, processor.publisher)
	assert.Equal(t, 2, processor.workerCount)
	assert.Equal(t, RetryDelay, processor.retryDelay)
}

func TestProcessor_StartStop(t *testing.T) {
	t.Run("starts and stops cleanly", func(t *testing.T) {
		processor := NewProcessor(NewMemoryQueue(10), newFakePublisher(), 3)

		processor.Start(context.Background())

		// Give workers time to start
		time.Sleep(50 * time.Millisecond)

		done := make(chan struct{})
		go func() {
			processor.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Stop() timed out")
		}
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		processor := NewProcessor(NewMemoryQueue(10), newFakePublisher(), 1)
		processor.Start(context.Background())

		// Multiple stops should not panic
		processor.Stop()
		processor.Stop()
		processor.Stop()
	})
}

func TestProcessor_ProcessJob(t *testing.T) {
	t.Run("publishes queued event", func(t *testing.T) {
		queue := NewMemoryQueue(10)
		publisher := newFakePublisher()
		processor := NewProcessor(queue, publisher, 1)

		job := newJob(models.NotificationTaskAssigned)
		require.NoError(t, queue.Enqueue(job))

		ctx, cancel := context.WithCancel(context.Background())
		processor.Start(ctx)

		require.Eventually(t, func() bool { return len(publisher.Published()) == 1 },
			time.Second, 10*time.Millisecond)

		cancel()
		processor.Stop()

		assert.Equal(t, job.Event, publisher.Published()[0])
	})

	t.Run("retries failed publish", func(t *testing.T) {
		queue := NewMemoryQueue(10)
		publisher := newFakePublisher()
		processor := NewProcessor(queue, publisher, 1)
		processor.retryDelay = 10 * time.Millisecond

		job := newJob(models.NotificationMention)
		publisher.failFirst(job.Event.NotificationID, 1)
		require.NoError(t, queue.Enqueue(job))

		ctx, cancel := context.WithCancel(context.Background())
		processor.Start(ctx)

		require.Eventually(t, func() bool { return len(publisher.Published()) == 1 },
			time.Second, 10*time.Millisecond)

		cancel()
		processor.Stop()

		assert.Equal(t, 2, publisher.Attempts(job.Event.NotificationID))
	})

	t.Run("drops event after max retries", func(t *testing.T) {
		queue := NewMemoryQueue(10)
		publisher := newFakePublisher()
		processor := NewProcessor(queue, publisher, 1)
		processor.retryDelay = 5 * time.Millisecond

		job := newJob(models.NotificationCommentAdded)
		publisher.failFirst(job.Event.NotificationID, MaxRetries+5)
		require.NoError(t, queue.Enqueue(job))

		ctx, cancel := context.WithCancel(context.Background())
		processor.Start(ctx)

		require.Eventually(t, func() bool { return publisher.Attempts(job.Event.NotificationID) == MaxRetries },
			time.Second, 10*time.Millisecond)

		// No further attempts once dropped.
		time.Sleep(100 * time.Millisecond)
		cancel()
		processor.Stop()

		assert.Equal(t, MaxRetries, publisher.Attempts(job.Event.NotificationID))
		assert.Empty(t, publisher.Published())
	})
}

func TestProcessor_HandleFailure(t *testing.T) {
	t.Run("abandons pending retry on shutdown", func(t *testing.T) {
		queue := NewMemoryQueue(10)
		publisher := newFakePublisher()
		processor := NewProcessor(queue, publisher, 1)
		processor.retryDelay = time.Hour

		job := newJob(models.NotificationTaskAssigned)
		publisher.failFirst(job.Event.NotificationID, 1)
		require.NoError(t, queue.Enqueue(job))

		processor.Start(context.Background())
		require.Eventually(t, func() bool { return publisher.Attempts(job.Event.NotificationID) == 1 },
			time.Second, 10*time.Millisecond)

		done := make(chan struct{})
		go func() {
			processor.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Stop() blocked on pending retry")
		}
		assert.Empty(t, publisher.Published())
	})

	t.Run("uses exponential backoff", func(t *testing.T) {
		// RetryDelay * 2^(retryCount-1)
		delays := []time.Duration{
			RetryDelay * time.Duration(1<<0),
			RetryDelay * time.Duration(1<<1),
		}

		assert.Equal(t, 5*time.Second, delays[0])
		assert.Equal(t, 10*time.Second, delays[1])
	})
}

func TestProcessor_WorkerShutdown(t *testing.T) {
	t.Run("workers shut down gracefully on context cancel", func(t *testing.T) {
		processor := NewProcessor(NewMemoryQueue(10), newFakePublisher(), 3)

		ctx, cancel := context.WithCancel(context.Background())
		processor.Start(ctx)

		// Give workers time to start
		time.Sleep(50 * time.Millisecond)

		cancel()

		done := make(chan struct{})
		go func() {
			processor.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Graceful shutdown timed out")
		}
	})
}

func TestProcessor_Concurrent(t *testing.T) {
	t.Run("processes multiple jobs concurrently", func(t *testing.T) {
		queue := NewMemoryQueue(100)
		publisher := newFakePublisher()
		processor := NewProcessor(queue, publisher, 5)

		jobCount := 10
		for i := 0; i < jobCount; i++ {
			require.NoError(t, queue.Enqueue(newJob(models.NotificationTaskAssigned)))
		}

		ctx, cancel := context.WithCancel(context.Background())
		processor.Start(ctx)

		require.Eventually(t, func() bool { return len(publisher.Published()) == jobCount },
			2*time.Second, 10*time.Millisecond)

		cancel()
		processor.Stop()
	})
}
