// README: Image search contract shared by providers and decorators.
package imagesearch

import (
	"context"
	"errors"
)

// Searcher returns the URL of the best image for query, or "" when nothing matches.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// ErrUpstream wraps non-success answers from an image provider.
var ErrUpstream = errors.New("image provider error")

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, query string) (string, error)

func (f SearcherFunc) Search(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}
