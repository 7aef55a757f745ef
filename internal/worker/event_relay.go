package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/quickmart/internal/domain/model"
)

// minClaimLease bounds how long a claimed but unpublished event stays hidden from other relays.
const minClaimLease = 30 * time.Second

// EventStore exposes the outbox operations required by the relay.
type EventStore interface {
	ClaimBatch(ctx context.Context, limit int, lease time.Duration) ([]model.StatusEvent, error)
	MarkPublished(ctx context.Context, id int64) error
}

// EventPublisher delivers a single status event downstream.
type EventPublisher interface {
	Publish(ctx context.Context, event model.StatusEvent) error
}

// PublishRecorder observes relay outcomes.
type PublishRecorder interface {
	RecordPublish(status model.OrderStatus, err error)
}

type noopPublishRecorder struct{}

func (noopPublishRecorder) RecordPublish(model.OrderStatus, error) {}

// EventRelay drains the status event outbox and publishes events concurrently.
// Events whose publication fails stay unpublished and are claimed again once the lease expires.
type EventRelay struct {
	store        EventStore
	publisher    EventPublisher
	metrics      PublishRecorder
	pollInterval time.Duration
	batchSize    int
	workers      int
	lease        time.Duration
	logger       *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewEventRelay constructs relay worker pool.
func NewEventRelay(store EventStore, publisher EventPublisher, metrics PublishRecorder, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *EventRelay {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if metrics == nil {
		metrics = noopPublishRecorder{}
	}
	lease := 10 * pollInterval
	if lease < minClaimLease {
		lease = minClaimLease
	}
	return &EventRelay{
		store:        store,
		publisher:    publisher,
		metrics:      metrics,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		lease:        lease,
		logger:       logger,
	}
}

// Start launches background processing. Calling Start on a running relay is a no-op.
func (r *EventRelay) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	jobs := make(chan model.StatusEvent, r.batchSize*r.workers)

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx, jobs)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx, jobs)
}

// Stop waits for all workers to finish.
func (r *EventRelay) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *EventRelay) dispatch(ctx context.Context, jobs chan<- model.StatusEvent) {
	defer r.wg.Done()
	defer close(jobs)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.claimAndDispatch(ctx, jobs)
		}
	}
}

func (r *EventRelay) claimAndDispatch(ctx context.Context, jobs chan<- model.StatusEvent) {
	events, err := r.store.ClaimBatch(ctx, r.batchSize, r.lease)
	if err != nil {
		r.logger.Error("claim status events failed", slog.String("error", err.Error()))
		return
	}
	for _, event := range events {
		select {
		case <-ctx.Done():
			return
		case jobs <- event:
		}
	}
}

func (r *EventRelay) worker(ctx context.Context, jobs <-chan model.StatusEvent) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-jobs:
			if !ok {
				return
			}
			r.handleEvent(ctx, event)
		}
	}
}

func (r *EventRelay) handleEvent(ctx context.Context, event model.StatusEvent) {
	err := r.publisher.Publish(ctx, event)
	r.metrics.RecordPublish(event.Status, err)
	if err != nil {
		r.logger.Warn("publish status event failed",
			slog.Int64("event", event.ID),
			slog.String("order", event.OrderNumber),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := r.store.MarkPublished(ctx, event.ID); err != nil {
		r.logger.Error("mark status event published failed",
			slog.Int64("event", event.ID),
			slog.String("error", err.Error()),
		)
	}
}
