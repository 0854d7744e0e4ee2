// Package validate enforces the caller-side precondition on score deltas
// before they ever reach the ranking core.
package validate

import (
	"context"
	"errors"
	"fmt"
)

// Default clamp bounds.
const (
	defaultMinDelta = -1000
	defaultMaxDelta = 1000
)

// ErrInvalidArgument is returned when a delta falls outside the configured
// [min, max] bound.
var ErrInvalidArgument = errors.New("validate: invalid argument")

// Option applies a configuration option to the InRangeValidator.
type Option func(*InRangeValidator)

// WithBounds overrides the default ±1000 clamp bounds.
func WithBounds(min, max float64) Option {
	return func(v *InRangeValidator) {
		if max > min {
			v.min = min
			v.max = max
		}
	}
}

// Input abstracts the event fields a Validator inspects.
type Input struct {
	CustomerID int64
	Delta      float64
}

// Validator checks a submitted delta before it reaches the ranking core.
type Validator interface {
	// Validate returns nil if in.Delta is acceptable, otherwise a non-nil
	// error wrapping ErrInvalidArgument.
	Validate(ctx context.Context, in Input) error
}

// InRangeValidator rejects deltas outside a fixed [min, max] range. The
// event already carries the delta to apply, so the only caller-side
// precondition left to enforce is the range clamp.
type InRangeValidator struct {
	min, max float64
}

// NewInRangeValidator creates a new validator with configuration options.
func NewInRangeValidator(opts ...Option) *InRangeValidator {
	v := &InRangeValidator{
		min: defaultMinDelta,
		max: defaultMaxDelta,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate rejects deltas outside [min, max] with ErrInvalidArgument.
func (v *InRangeValidator) Validate(_ context.Context, in Input) error {
	if in.Delta < v.min || in.Delta > v.max {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrInvalidArgument, in.Delta, v.min, v.max)
	}
	return nil
}

// SetBounds allows runtime customization of the clamp bounds.
func (v *InRangeValidator) SetBounds(min, max float64) {
	if max > min {
		v.min = min
		v.max = max
	}
}
