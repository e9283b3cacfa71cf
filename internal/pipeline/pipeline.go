package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	apperrors "taskscope/internal/errors"
	"taskscope/internal/models"
	"taskscope/internal/queue"

	"golang.org/x/sync/errgroup"
)

// Stage is a pipeline state.
type Stage string

// Stages, in order.
const (
	StageCommitted             Stage = "committed"
	StageHistoryWritten        Stage = "history_written"
	StageNotificationsComputed Stage = "notifications_computed"
	StageNotificationsEmitted  Stage = "notifications_emitted"
	StageDone                  Stage = "done"
)

// HistoryWriter appends audit records.
type HistoryWriter interface {
	Create(ctx context.Context, entry *models.History) error
}

// NotificationWriter persists notifications.
type NotificationWriter interface {
	Create(ctx context.Context, n *models.Notification) error
}

// Enqueuer hands push events to the delivery queue.
type Enqueuer interface {
	Enqueue(job queue.PushJob) error
}

// Outcome is the observable result of one pipeline run.
type Outcome struct {
	// Stage is the last stage reached. It is StageDone only when every stage succeeded.
	Stage         Stage
	History       *models.History
	Notifications []models.Notification
	// PushFailures counts notifications that were persisted but not queued for push.
	PushFailures int
	Err          *apperrors.SideEffectError
}

// Warnings returns the failure as response warnings, or nil.
func (o *Outcome) Warnings() []string {
	if o == nil || o.Err == nil {
		return nil
	}
	return []string{o.Err.Error()}
}

// Error returns the side-effect error as an error value, or nil.
func (o *Outcome) Error() error {
	if o == nil || o.Err == nil {
		return nil
	}
	return o.Err
}

// Pipeline records history and fans out notifications for committed mutations.
type Pipeline struct {
	history       HistoryWriter
	notifications NotificationWriter
	push          Enqueuer
	now           func() time.Time
}

// New creates a Pipeline. push may be nil, in which case notifications are only
// persisted and recipients pick them up on their next read.
func New(history HistoryWriter, notifications NotificationWriter, push Enqueuer) *Pipeline {
	return &Pipeline{
		history:       history,
		notifications: notifications,
		push:          push,
		now:           time.Now,
	}
}

// Run executes every stage for m. It ignores caller cancellation: once the
// mutation is committed, its side effects run to completion. A failing stage is
// recorded and logged, and later stages still run.
func (p *Pipeline) Run(ctx context.Context, m Mutation) *Outcome {
	ctx = context.WithoutCancel(ctx)
	if m.At.IsZero() {
		m.At = p.now()
	}
	m.Actor = models.NewActor(m.Actor.ID, m.Actor.Role)

	out := &Outcome{Stage: StageCommitted, Notifications: []models.Notification{}}
	var failedAt Stage
	var errs []error
	fail := func(stage Stage, err error) {
		if failedAt == "" {
			failedAt = stage
		}
		errs = append(errs, err)
	}

	entry, err := BuildHistory(m)
	if err == nil {
		err = p.history.Create(ctx, entry)
	}
	if err != nil {
		fail(StageHistoryWritten, fmt.Errorf("write history: %w", err))
	} else {
		out.History = entry
	}
	out.Stage = StageHistoryWritten

	planned := Recipients(m)
	out.Stage = StageNotificationsComputed

	persisted, persistErrs := p.persist(ctx, m, planned)
	for _, err := range persistErrs {
		fail(StageNotificationsEmitted, err)
	}
	out.Notifications = persisted
	out.PushFailures = p.enqueue(persisted)
	out.Stage = StageNotificationsEmitted

	if len(errs) > 0 {
		out.Err = &apperrors.SideEffectError{Stage: string(failedAt), Errs: errs}
		log.Printf("Side effects for %s by %s failed: %v", m.Kind, m.Actor.ID.Hex(), out.Err)
		return out
	}

	out.Stage = StageDone
	return out
}

// persist writes one notification per planned recipient concurrently and waits
// for all of them. Results keep the planned order.
func (p *Pipeline) persist(ctx context.Context, m Mutation, planned []Planned) ([]models.Notification, []error) {
	results := make([]*models.Notification, len(planned))
	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)

	for i, pl := range planned {
		g.Go(func() error {
			n := pl.Notification(m)
			if err := p.notifications.Create(ctx, n); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("notify %s (%s): %w", pl.Recipient.Hex(), pl.Type, err))
				mu.Unlock()
				return nil
			}
			results[i] = n
			return nil
		})
	}
	_ = g.Wait()

	persisted := make([]models.Notification, 0, len(planned))
	for _, n := range results {
		if n != nil {
			persisted = append(persisted, *n)
		}
	}
	return persisted, errs
}

// enqueue queues push events for persisted notifications. Delivery is best
// effort; a notification that was not pushed is still readable.
func (p *Pipeline) enqueue(persisted []models.Notification) int {
	if p.push == nil {
		return 0
	}
	failures := 0
	for i := range persisted {
		job := queue.PushJob{Event: models.NewPushEvent(&persisted[i])}
		if err := p.push.Enqueue(job); err != nil {
			failures++
			log.Printf("Failed to queue push for notification %s: %v", persisted[i].ID.Hex(), err)
		}
	}
	return failures
}
