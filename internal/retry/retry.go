// Package retry wraps fallible operations with bounded exponential-backoff
// retry. The policy is a plain value and the executor a pure function, so
// retry behaviour is testable without real network calls.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
)

// Policy describes a bounded exponential backoff: after the k-th failed
// attempt (counting from 1) the executor waits BaseDelay * 2^(k-1) before
// attempt k+1. Every error is treated as retryable up to the ceiling;
// there is no jitter and no error-kind discrimination.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the wait after the first failure; it doubles per attempt.
	BaseDelay time.Duration
}

// Default matches the upload pipeline's provider settings: five attempts
// starting at one second.
var Default = Policy{MaxAttempts: 5, BaseDelay: time.Second}

// Validate reports whether the policy is usable.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("%w: retry attempts must be at least 1, got %d", domain.ErrInvalidConfig, p.MaxAttempts)
	}
	if p.BaseDelay < 0 {
		return fmt.Errorf("%w: retry base delay must not be negative", domain.ErrInvalidConfig)
	}
	return nil
}

// Do runs op until it succeeds or the policy's attempt ceiling is reached,
// sleeping the backoff delay between attempts. The last error is propagated
// unchanged. Context cancellation interrupts the backoff sleep and is
// returned immediately; the operation itself is responsible for honouring
// the context during an attempt.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	if err := p.Validate(); err != nil {
		return err
	}

	var last error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		last = op(ctx)
		if last == nil {
			return nil
		}
		if attempt == p.MaxAttempts {
			break
		}
		if err := sleep(ctx, p.BaseDelay<<(attempt-1)); err != nil {
			return err
		}
	}
	return last
}

// DoValue is Do for operations that return a value.
func DoValue[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := Do(ctx, p, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	return result, err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
