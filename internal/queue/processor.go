package queue

import (
	"context"
	"log"
	"sync"
	"time"

	"taskscope/internal/models"
)

const (
	// MaxRetries is the maximum number of delivery attempts for a push event.
	MaxRetries = 3
	// RetryDelay is the base delay between retries (exponential backoff).
	RetryDelay = 5 * time.Second
	// PublishTimeout bounds a single delivery attempt.
	PublishTimeout = 5 * time.Second
)

// Publisher delivers a push event to connected clients.
type Publisher interface {
	Publish(ctx context.Context, event models.PushEvent) error
}

// Processor drains push jobs from the queue and hands them to the publisher.
// Delivery is best effort: the notification is already persisted, so a job that
// exhausts its retries is dropped.
type Processor struct {
	queue        *MemoryQueue
	publisher    Publisher
	workerCount  int
	retryDelay   time.Duration
	wg           sync.WaitGroup
	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// NewProcessor creates a new push job processor.
func NewProcessor(queue *MemoryQueue, publisher Publisher, workerCount int) *Processor {
	return &Processor{
		queue:       queue,
		publisher:   publisher,
		workerCount: workerCount,
		retryDelay:  RetryDelay,
		shutdownCh:  make(chan struct{}),
	}
}

// Start begins processing jobs with the configured number of workers.
func (p *Processor) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	log.Printf("Push processor started with %d workers", p.workerCount)
}

// Stop gracefully stops the processor, waiting for workers to finish.
func (p *Processor) Stop() {
	p.shutdownOnce.Do(func() {
		close(p.shutdownCh)
		p.queue.Close()
	})
	p.wg.Wait()
	log.Println("Push processor stopped")
}

func (p *Processor) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	log.Printf("Worker %d started", id)

	for {
		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if err == ErrQueueClosed || err == context.Canceled {
				log.Printf("Worker %d shutting down", id)
				return
			}
			continue
		}
		p.processJob(ctx, job)
	}
}

func (p *Processor) processJob(ctx context.Context, job PushJob) {
	pubCtx, cancel := context.WithTimeout(ctx, PublishTimeout)
	defer cancel()

	if err := p.publisher.Publish(pubCtx, job.Event); err != nil {
		log.Printf("Push failed for notification %s to %s: %v", job.Event.NotificationID, job.Event.RecipientID, err)
		p.handleFailure(job)
	}
}

func (p *Processor) handleFailure(job PushJob) {
	job.RetryCount++

	if job.RetryCount >= MaxRetries {
		log.Printf("Max retries reached for notification %s, dropping push", job.Event.NotificationID)
		return
	}

	delay := p.retryDelay * time.Duration(1<<uint(job.RetryCount-1))
	log.Printf("Retrying push for notification %s in %v (attempt %d/%d)", job.Event.NotificationID, delay, job.RetryCount+1, MaxRetries)

	// Uses shutdownCh instead of ctx so pending retries are abandoned on Stop.
	go func() {
		select {
		case <-p.shutdownCh:
			log.Printf("Shutdown during retry delay for notification %s, dropping push", job.Event.NotificationID)
		case <-time.After(delay):
			if err := p.queue.Enqueue(job); err != nil {
				log.Printf("Failed to re-enqueue push for notification %s: %v", job.Event.NotificationID, err)
			}
		}
	}()
}
