package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raywall/bookstore-service/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedSleep struct {
	delays []time.Duration
}

func (r *recordedSleep) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	rec := &recordedSleep{}
	p := retry.Policy{MaxAttempts: 10, Backoff: retry.Linear(time.Second), Sleep: rec.sleep}

	calls := 0
	err := p.Do(context.Background(), func(context.Context, int) error {
		calls++
		if calls < 3 {
			return errors.New("unavailable")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

func TestDo_Exhausted(t *testing.T) {
	rec := &recordedSleep{}
	p := retry.Policy{MaxAttempts: 3, Backoff: retry.Fixed(500 * time.Millisecond), Sleep: rec.sleep}
	cause := errors.New("down")

	err := p.Do(context.Background(), func(context.Context, int) error { return cause })

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.ErrorIs(t, err, cause)
	// sem espera após a última tentativa
	assert.Len(t, rec.delays, 2)
}

func TestDo_NonRetryable(t *testing.T) {
	fatal := errors.New("fatal")
	p := retry.Policy{
		MaxAttempts: 5,
		Sleep:       (&recordedSleep{}).sleep,
		Retryable:   func(err error) bool { return !errors.Is(err, fatal) },
	}

	calls := 0
	err := p.Do(context.Background(), func(context.Context, int) error {
		calls++
		return fatal
	})

	assert.Equal(t, fatal, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := retry.Policy{MaxAttempts: 5, Backoff: retry.Fixed(time.Hour)}

	calls := 0
	err := p.Do(ctx, func(context.Context, int) error {
		calls++
		cancel()
		return errors.New("x")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_OnRetryAndAttemptNumbers(t *testing.T) {
	var seen []int
	p := retry.Policy{
		MaxAttempts: 3,
		Backoff:     retry.Linear(time.Second),
		Sleep:       (&recordedSleep{}).sleep,
		OnRetry:     func(attempt int, _ time.Duration, _ error) { seen = append(seen, attempt) },
	}

	var attempts []int
	_ = p.Do(context.Background(), func(_ context.Context, attempt int) error {
		attempts = append(attempts, attempt)
		return errors.New("x")
	})

	assert.Equal(t, []int{1, 2, 3}, attempts)
	assert.Equal(t, []int{1, 2}, seen)
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	err := retry.Policy{}.Do(context.Background(), func(context.Context, int) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
