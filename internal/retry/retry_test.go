package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fast = Policy{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}

func TestDoSucceedsAfterTransientFailure(t *testing.T) {
	calls := 0
	var notified int
	got, err := Do(context.Background(), fast, func(ctx context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("flaky")
		}
		return "ok", nil
	}, func(error, time.Duration) { notified++ })

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, notified)
}

func TestDoStopsAtMaxAttempts(t *testing.T) {
	calls := 0
	boom := errors.New("down")
	_, err := Do(context.Background(), fast, func(ctx context.Context) (int, error) {
		calls++
		return 0, boom
	}, nil)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoPermanentIsNotRetried(t *testing.T) {
	calls := 0
	boom := errors.New("bad request")
	_, err := Do(context.Background(), fast, func(ctx context.Context) (int, error) {
		calls++
		return 0, Permanent(boom)
	}, nil)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDoAppliesAttemptTimeout(t *testing.T) {
	p := Policy{MaxAttempts: 1, AttemptTimeout: 10 * time.Millisecond}
	_, err := Do(context.Background(), p, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}, nil)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, _ = Do(context.Background(), Policy{}, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("x")
	}, nil)
	assert.Equal(t, 1, calls)
}
