package ranking

import "errors"

// Sentinel errors surfaced by the Ranking Index's structural operations.
// These are precondition violations — programming errors that the
// Concurrency Envelope is designed to make unreachable on the documented
// update path (see Engine.UpdateScore). They exist so a violation, should
// one occur, is distinguishable rather than silently corrupting state.
var (
	// ErrDuplicate is returned by insert when the customer is already present.
	ErrDuplicate = errors.New("ranking: customer already present")
	// ErrAbsent is returned by remove when the customer is not present.
	ErrAbsent = errors.New("ranking: customer not present")
)
