// README: Outbound rate limit for image search providers.
package imagesearch

import (
	"context"

	"golang.org/x/time/rate"
)

// Limited waits on a token bucket before each delegated search.
type Limited struct {
	next    Searcher
	limiter *rate.Limiter
}

func NewLimited(next Searcher, rps float64, burst int) *Limited {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &Limited{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (l *Limited) Search(ctx context.Context, query string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return l.next.Search(ctx, query)
}
