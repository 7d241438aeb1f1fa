// README: Bounded exponential retry with a per-attempt timeout.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy bounds how an outbound call is retried.
type Policy struct {
	// MaxAttempts counts the first call; 1 disables retry.
	MaxAttempts    int
	AttemptTimeout time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Default is two attempts, 45s each.
var Default = Policy{
	MaxAttempts:    2,
	AttemptTimeout: 45 * time.Second,
	InitialBackoff: 500 * time.Millisecond,
	MaxBackoff:     5 * time.Second,
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op until it succeeds, returns a permanent error, attempts run out
// or ctx is done. Each attempt gets its own deadline when AttemptTimeout > 0.
// onRetry, if non-nil, is called before each wait.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error), onRetry func(err error, wait time.Duration)) (T, error) {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	b := backoff.NewExponentialBackOff()
	if p.InitialBackoff > 0 {
		b.InitialInterval = p.InitialBackoff
	}
	if p.MaxBackoff > 0 {
		b.MaxInterval = p.MaxBackoff
	}

	attempt := func() (T, error) {
		if p.AttemptTimeout <= 0 {
			return op(ctx)
		}
		actx, cancel := context.WithTimeout(ctx, p.AttemptTimeout)
		defer cancel()
		return op(actx)
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(p.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
	}
	if onRetry != nil {
		opts = append(opts, backoff.WithNotify(onRetry))
	}
	return backoff.Retry(ctx, attempt, opts...)
}
