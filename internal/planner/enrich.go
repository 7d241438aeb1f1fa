// README: Attaches destination and hotel images to a plan with a bounded concurrent fan-out.
package planner

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"voyager/internal/imagesearch"
	"voyager/internal/modules/trip"
	"voyager/internal/observability"
)

type Enricher struct {
	images      imagesearch.Searcher
	timeout     time.Duration
	concurrency int
	log         *zap.Logger
	metrics     *observability.PipelineMetrics
}

type EnricherOption func(*Enricher)

// WithDeadline bounds the whole fan-out, destination lookup included.
func WithDeadline(d time.Duration) EnricherOption {
	return func(e *Enricher) { e.timeout = d }
}

func WithConcurrency(n int) EnricherOption {
	return func(e *Enricher) { e.concurrency = n }
}

func WithEnricherLogger(log *zap.Logger) EnricherOption {
	return func(e *Enricher) { e.log = log }
}

func WithEnricherMetrics(m *observability.PipelineMetrics) EnricherOption {
	return func(e *Enricher) { e.metrics = m }
}

func NewEnricher(images imagesearch.Searcher, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		images:      images,
		timeout:     20 * time.Second,
		concurrency: 8,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich sets plan.Image to the destination photo (possibly "") and gives every
// accommodation an image: "<name> <destination>", then "hotel <destination>",
// then trip.NoImage. It never fails and keeps the accommodation count unchanged.
func (e *Enricher) Enrich(ctx context.Context, plan *GeneratedPlan, destination string) {
	if plan == nil {
		return
	}
	destination = strings.TrimSpace(destination)
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}

	g.Go(func() error {
		plan.Image = e.lookup(gctx, destination)
		return nil
	})
	for i := range plan.Accommodation {
		hotel := &plan.Accommodation[i]
		g.Go(func() error {
			hotel.Image = e.hotelImage(gctx, strings.TrimSpace(string(hotel.Name)), destination)
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Enricher) hotelImage(ctx context.Context, name, destination string) string {
	if name != "" {
		if url := e.lookup(ctx, name+" "+destination); url != "" {
			e.metrics.ImageLookup(ctx, "hit")
			return url
		}
	}
	if url := e.lookup(ctx, "hotel "+destination); url != "" {
		e.metrics.ImageLookup(ctx, "fallback")
		return url
	}
	e.metrics.ImageLookup(ctx, "miss")
	return trip.NoImage
}

// lookup swallows errors: a failed search is the same as an empty one.
func (e *Enricher) lookup(ctx context.Context, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	url, err := e.images.Search(ctx, query)
	if err != nil {
		e.log.Debug("image lookup failed", zap.String("query", query), zap.Error(err))
		return ""
	}
	return url
}
