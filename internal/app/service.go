// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"sync"

	eventqueue "github.com/leaderrank/leaderrank/internal/adapters/mq/queue"
	workerpool "github.com/leaderrank/leaderrank/internal/adapters/mq/worker"
	"github.com/leaderrank/leaderrank/internal/domain/dedupe"
	"github.com/leaderrank/leaderrank/internal/domain/model"
	"github.com/leaderrank/leaderrank/internal/domain/ranking"
	"github.com/leaderrank/leaderrank/internal/domain/types"
	"github.com/leaderrank/leaderrank/internal/domain/validate"
	"github.com/leaderrank/leaderrank/pkg/logger"
	"github.com/leaderrank/leaderrank/pkg/metrics"
)

// engineUpdater adapts *ranking.Engine to worker.Updater.
type engineUpdater struct {
	engine *ranking.Engine
}

func (a *engineUpdater) UpdateScore(_ context.Context, customerID int64, delta float64) (float64, error) {
	newScore := a.engine.UpdateScore(customerID, ranking.NewScore(delta))
	return newScore.Float64(), nil
}

// Service implements the API dependencies for the leaderboard system.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine     *ranking.Engine
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	validator  *validate.InRangeValidator
	workerPool *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	stripeCount int
	deltaMin    float64
	deltaMax    float64

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithStripeCount sets the number of per-customer lock stripes used by the
// ranking engine.
func WithStripeCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.stripeCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDeltaBounds sets the accepted [min, max] range for an event's delta.
func WithDeltaBounds(min, max float64) Option {
	return func(s *Service) {
		if max > min {
			s.deltaMin = min
			s.deltaMax = max
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 10,
		queueSize:   100000,
		dedupeSize:  500000,
		stripeCount: 4096,
		deltaMin:    -1000,
		deltaMax:    1000,
		stopCh:      make(chan struct{}),
		logger:      nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting leaderboard service...")

	s.engine = ranking.New(ranking.WithStripeCount(s.stripeCount))
	s.logger.Info(ctx, "using skip list ranking engine")
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
		eventqueue.WithBufferSize(s.queueSize),
	)
	s.validator = validate.NewInRangeValidator(
		validate.WithBounds(s.deltaMin, s.deltaMax),
	)

	updater := &engineUpdater{engine: s.engine}
	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.validator, updater)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("stripeCount", s.stripeCount),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping leaderboard service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	if q, ok := s.eventQueue.(*eventqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

// SeenAndRecord atomically checks if an event id was seen and records it if not.
// Returns true if the event was already seen, false if it was newly recorded.
// This is the ONLY method for deduplication - thread-safe and atomic.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordEventDuplicate()
	}
	return seen
}

// Unrecord removes an event ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits an event for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, e any) bool {
	s.logger.Debug(ctx, "received event",
		logger.String("type", reflect.TypeOf(e).String()),
		logger.Any("event", e),
	)

	v := reflect.ValueOf(e)
	if v.Kind() == reflect.Struct {
		customerID := v.FieldByName("CustomerID").Int()
		delta := v.FieldByName("Delta").Float()

		s.logger.Debug(ctx, "extracted event fields",
			logger.Int64("customerID", customerID),
			logger.Float64("delta", delta),
		)

		if customerID != 0 {
			eventID := v.FieldByName("EventID").String()
			if eventID == "" {
				eventID = fmt.Sprintf("%d_%f", customerID, delta)
			}

			if s.SeenAndRecord(ctx, eventID) {
				s.logger.Debug(ctx, "duplicate event detected, skipping",
					logger.String("eventID", eventID),
					logger.Int64("customerID", customerID),
				)
				return true // Return true to indicate "processed" (as duplicate)
			}

			workerEvent := model.Event{
				EventID:    eventID,
				CustomerID: customerID,
				Delta:      delta,
			}
			s.logger.Debug(ctx, "enqueueing worker event",
				logger.String("eventID", workerEvent.EventID),
				logger.Int64("customerID", workerEvent.CustomerID),
				logger.Float64("delta", workerEvent.Delta),
			)
			success := s.eventQueue.Enqueue(ctx, workerEvent)
			if success {
				metrics.RecordEventProcessed()
				metrics.UpdateQueueSize(s.eventQueue.Len(ctx))
			}
			return success
		}
	}

	s.logger.Warn(ctx, "failed to convert event type",
		logger.String("type", reflect.TypeOf(e).String()),
	)
	return false
}

// GetByRank returns entries with start <= rank <= end, in ascending rank
// order. Invalid or out-of-range queries resolve to an empty slice.
func (s *Service) GetByRank(_ context.Context, start, end int64) ([]types.Entry, error) {
	entries := s.engine.GetByRank(start, end)
	return toAPIEntries(entries), nil
}

// GetNeighbors returns customerID's rank together with up preceding and
// down following entries. Absent customers resolve to an empty slice.
func (s *Service) GetNeighbors(_ context.Context, customerID int64, up, down int) ([]types.Entry, error) {
	entries := s.engine.GetNeighbors(customerID, up, down)
	return toAPIEntries(entries), nil
}

func toAPIEntries(entries []ranking.Entry) []types.Entry {
	apiEntries := make([]types.Entry, len(entries))
	for i, entry := range entries {
		apiEntries[i] = types.Entry{
			Rank:       int(entry.Rank),
			CustomerID: entry.CustomerID,
			Score:      entry.Score.Float64(),
		}
	}
	return apiEntries
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.eventQueue.Len(ctx)
		totalCustomers := s.engine.Count()

		stats["queueLength"] = queueLen
		stats["totalCustomers"] = totalCustomers

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalCustomers(totalCustomers)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
