package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanum-labs/bookrag/internal/core/domain"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 5, BaseDelay: time.Hour},
		func(context.Context) error {
			calls++
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 5, BaseDelay: time.Microsecond},
		func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("flaky")
			}
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoPropagatesLastErrorAfterCeiling(t *testing.T) {
	sentinel := errors.New("still broken")
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 4, BaseDelay: time.Microsecond},
		func(context.Context) error {
			calls++
			if calls == 4 {
				return sentinel
			}
			return errors.New("earlier failure")
		})

	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 4, calls)
}

func TestDoBackoffDoubles(t *testing.T) {
	// With base delay d, total sleep before the nth attempt is
	// d * (2^0 + ... + 2^(n-2)). For 4 attempts at 10ms: 70ms.
	base := 10 * time.Millisecond
	start := time.Now()
	err := Do(context.Background(), Policy{MaxAttempts: 4, BaseDelay: base},
		func(context.Context) error { return errors.New("never") })
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.GreaterOrEqual(t, elapsed, 7*base)
	assert.Less(t, elapsed, 20*base)
}

func TestDoContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, Policy{MaxAttempts: 3, BaseDelay: time.Hour},
		func(context.Context) error {
			calls++
			return errors.New("fail")
		})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDoRejectsInvalidPolicy(t *testing.T) {
	err := Do(context.Background(), Policy{MaxAttempts: 0}, func(context.Context) error { return nil })
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestDoValue(t *testing.T) {
	calls := 0
	got, err := DoValue(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Microsecond},
		func(context.Context) (int, error) {
			calls++
			if calls < 2 {
				return 0, errors.New("flaky")
			}
			return 42, nil
		})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 2, calls)
}
