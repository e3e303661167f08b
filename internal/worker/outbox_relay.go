package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/codecay7/BazzarNet-DIST-sub001/internal/adapter/rabbitmq"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/model"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/domain/repository"
	"github.com/codecay7/BazzarNet-DIST-sub001/internal/metrics"
)

const (
	resultPublished = "published"
	resultFailed    = "failed"
)

// OutboxRelay polls the events outbox and publishes claimed events concurrently.
// An event that fails to publish stays unpublished and is claimed again once its lease expires.
type OutboxRelay struct {
	events       repository.EventRepository
	publisher    rabbitmq.Publisher
	metrics      *metrics.Metrics
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *zap.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewOutboxRelay constructs the relay worker pool. m may be nil.
func NewOutboxRelay(events repository.EventRepository, publisher rabbitmq.Publisher, m *metrics.Metrics, pollInterval time.Duration, batchSize, workers int, logger *zap.Logger) *OutboxRelay {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &OutboxRelay{
		events:       events,
		publisher:    publisher,
		metrics:      m,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
	}
}

// Start launches background processing. Each run gets its own job queue, so
// the relay can be started again after Stop. Start on a running relay is a no-op.
func (r *OutboxRelay) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	jobs := make(chan model.OrderEvent, r.batchSize*r.workers)

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx, jobs)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx, jobs)
}

// Stop waits for all workers to finish.
func (r *OutboxRelay) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *OutboxRelay) dispatch(ctx context.Context, jobs chan<- model.OrderEvent) {
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

func (r *OutboxRelay) claimAndDispatch(ctx context.Context, jobs chan<- model.OrderEvent) {
	events, err := r.events.ClaimBatch(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("claim outbox events failed", zap.Error(err))
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

func (r *OutboxRelay) worker(ctx context.Context, jobs <-chan model.OrderEvent) {
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

func (r *OutboxRelay) handleEvent(ctx context.Context, event model.OrderEvent) {
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.observe(event, resultFailed)
		r.logger.Warn("publish order event failed",
			zap.Int64("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
		return
	}
	r.observe(event, resultPublished)

	if err := r.events.MarkPublished(ctx, event.ID); err != nil {
		r.logger.Error("mark order event published failed", zap.Int64("event_id", event.ID), zap.Error(err))
	}
}

func (r *OutboxRelay) observe(event model.OrderEvent, result string) {
	if r.metrics != nil {
		r.metrics.EventsPublished.WithLabelValues(string(event.Type), result).Inc()
	}
}
