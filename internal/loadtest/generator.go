package loadtest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/leaderrank/leaderrank/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	customerIDSpace    = 1_000_000
)

// Delta distribution ranges, biased toward small positive deltas like a
// real scoring workload with the occasional large swing.
const (
	smallDeltaMin   = -5.0
	smallDeltaRange = 15.0
	largeDeltaMin   = -500.0
	largeDeltaRange = 1000.0
	caseDivisor     = 10
	caseLargeSwing  = 0
)

func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateEvents creates the specified number of events against a fixed
// pool of customer IDs, so repeated customers accumulate deltas the way
// real traffic would.
func generateEvents(ctx context.Context, config *Config, stats *Stats) ([]Event, error) {
	logger.Get().Info(ctx, "generating delta events", logger.Int("numEvents", config.NumEvents))

	events := make([]Event, config.NumEvents)

	type eventResult struct {
		index int
		event Event
		err   error
	}

	resultChan := make(chan eventResult, config.NumEvents)

	workerCount := minInt(config.Workers, config.NumEvents)
	if workerCount < 1 {
		workerCount = 1
	}
	eventsPerWorker := config.NumEvents / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * eventsPerWorker
		end := start + eventsPerWorker
		if worker == workerCount-1 {
			end = config.NumEvents
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- eventResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- eventResult{index: i, event: generateSingleEvent(i)}
				}
			}
		}(start, end)
	}

	for i := 0; i < config.NumEvents; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during event generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate event %d: %w", result.index, result.err)
			}
			events[result.index] = result.event
		}
	}

	stats.EventsGenerated = len(events)
	logger.Get().Info(ctx, "generated events successfully", logger.Int("count", len(events)))

	return events, nil
}

// generateSingleEvent creates a single event with a uuid-backed event ID.
func generateSingleEvent(index int) Event {
	customerID := generateCustomerID(index)
	delta := generateVariedDelta()

	return Event{
		EventID:    uuid.New().String(),
		CustomerID: customerID,
		Delta:      delta,
	}
}

// generateCustomerID picks an ID uniformly from [0, 1,000,000) and adds
// index mod 1000, so IDs fall in [0, 1,000,999).
func generateCustomerID(index int) int64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(customerIDSpace))
	return n.Int64() + int64(index%1000)
}

// generateVariedDelta produces a signed delta, mostly small with an
// occasional large swing, staying within the service's clamp bounds.
func generateVariedDelta() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(caseDivisor))
	if n.Int64() == caseLargeSwing {
		return largeDeltaMin + getRandomFloat()*largeDeltaRange
	}
	return smallDeltaMin + getRandomFloat()*smallDeltaRange
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
