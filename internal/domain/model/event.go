// Package model contains domain models passed between layers.
package model

import "time"

// Event represents a score-delta event submitted by clients.
// Fields mirror the OpenAPI schema for /events.
type Event struct {
	EventID    string    // unique id for idempotency
	CustomerID int64     // subject identifier
	Delta      float64   // signed delta to apply to the customer's score
	TS         time.Time // event timestamp
}

// CustomerScore captures a customer's current cumulative score.
type CustomerScore struct {
	CustomerID int64
	Score      float64
}
