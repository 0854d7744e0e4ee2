// Package worker defines worker contracts for asynchronous delta validation
// and application against the ranking core.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/leaderrank/leaderrank/internal/domain/model"
	"github.com/leaderrank/leaderrank/internal/domain/validate"
	"github.com/leaderrank/leaderrank/pkg/logger"
	"github.com/leaderrank/leaderrank/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 20 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Event abstracts what workers read off the queue.
// Using the model.Event type for consistency.
type Event = model.Event

// Updater applies a validated delta to a customer's cumulative score.
type Updater interface {
	UpdateScore(ctx context.Context, customerID int64, delta float64) (float64, error)
}

// Validator checks a delta before it reaches the Updater.
type Validator interface {
	Validate(ctx context.Context, in validate.Input) error
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker processes events and writes score updates using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown signals the worker to stop and waits for its loop to exit.
	// Events still in the queue are not processed by this worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing events.
type InMemoryWorker struct {
	queue     Queue
	validator Validator
	updater   Updater
	name      string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, validator Validator, updater Updater, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		validator: validator,
		updater:   updater,
		name:      "worker", // default name
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"), // will be updated by options
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	eventChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-eventChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			// Process the event
			if err := w.processEvent(ctx, event); err != nil {
				w.logger.Error(ctx, "error processing event", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	// Signal shutdown
	close(w.shutdown)

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processEvent handles a single event: validate the delta, then apply it.
func (w *InMemoryWorker) processEvent(ctx context.Context, event Event) error { //nolint:gocritic // hugeParam: Event must be passed by value for channel semantics
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	validateStart := time.Now()
	err := w.validator.Validate(ctx, validate.Input{CustomerID: event.CustomerID, Delta: event.Delta})
	metrics.RecordValidationLatency(float64(time.Since(validateStart).Milliseconds()))

	if err != nil {
		metrics.RecordValidationError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "validation_error")
		metrics.RecordErrorByType("validation_error", "medium")
		w.logger.Warn(ctx, "dropping event with out-of-range delta",
			logger.String("eventID", event.EventID),
			logger.Int64("customerID", event.CustomerID),
			logger.Float64("delta", event.Delta),
			logger.Error(err),
		)
		return fmt.Errorf("event %s failed validation: %w", event.EventID, err)
	}

	if _, err := w.updater.UpdateScore(ctx, event.CustomerID, event.Delta); err != nil {
		metrics.RecordEngineError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "engine_error")
		metrics.RecordErrorByType("engine_error", "high")
		w.logger.Error(ctx, "engine update failed for event",
			logger.String("eventID", event.EventID),
			logger.Error(err),
		)
		return fmt.Errorf("engine update failed: %w", err)
	}

	metrics.RecordLeaderboardUpdate()
	metrics.RecordEventProcessed()
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	validator Validator
	updater   Updater

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Metrics tracking
	processedCount    int64
	lastProcessedTime time.Time

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, validator Validator, updater Updater) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             queue,
		validator:         validator,
		updater:           updater,
		shutdown:          make(chan struct{}),
		done:              make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			validator,
			updater,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerIdleCount(0)
	metrics.UpdateWorkerMessagesPerSecond(0.0)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	// Start metrics updater
	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater starts a background goroutine that updates worker metrics.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

// updateMetrics updates worker-related metrics.
func (p *Pool) updateMetrics() {
	now := time.Now()
	timeDiff := now.Sub(p.lastProcessedTime).Seconds()
	if timeDiff > 0 {
		messagesPerSecond := float64(p.processedCount) / timeDiff
		metrics.UpdateWorkerMessagesPerSecond(messagesPerSecond)
	}

	p.processedCount = 0
	p.lastProcessedTime = now
}

// RecordProcessedMessage increments the processed message count.
func (p *Pool) RecordProcessedMessage() {
	p.processedCount++
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		close(worker.shutdown)
	}

	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
