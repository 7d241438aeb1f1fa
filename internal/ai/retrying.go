package ai

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"voyager/internal/retry"
)

// RetryingGenerator bounds each call to the wrapped generator with a timeout
// and retries transient failures. Empty responses are returned as-is.
type RetryingGenerator struct {
	next   TextGenerator
	policy retry.Policy
	log    *zap.Logger
}

func NewRetryingGenerator(next TextGenerator, policy retry.Policy, log *zap.Logger) *RetryingGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	return &RetryingGenerator{next: next, policy: policy, log: log}
}

func (g *RetryingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return retry.Do(ctx, g.policy, func(ctx context.Context) (string, error) {
		text, err := g.next.Generate(ctx, prompt)
		if errors.Is(err, ErrEmptyResponse) {
			return "", retry.Permanent(err)
		}
		return text, err
	}, func(err error, wait time.Duration) {
		g.log.Warn("model call failed, retrying", zap.Error(err), zap.Duration("wait", wait))
	})
}
