// README: Generator runs prompt -> model -> extract -> enrich -> persist for one trip request.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"voyager/internal/ai"
	"voyager/internal/modules/trip"
	"voyager/internal/observability"
	"voyager/internal/types"
)

// TripCreator persists a normalized trip. trip.Service satisfies it.
type TripCreator interface {
	Create(ctx context.Context, t *trip.Trip) (*trip.Trip, error)
}

// PreferenceSource supplies saved preferences for requests that omit them.
type PreferenceSource interface {
	Preferences(ctx context.Context, uid string) (types.Preferences, error)
}

// Quota meters generations per user.
type Quota interface {
	UseToken(ctx context.Context, uid string) error
	RefundToken(ctx context.Context, uid string) error
}

type PlanEnricher interface {
	Enrich(ctx context.Context, plan *GeneratedPlan, destination string)
}

// Result is what a successful generation returns to the caller.
type Result struct {
	ID     string
	Status trip.Status
	Plan   *GeneratedPlan
	Trip   *trip.Trip
}

type Generator struct {
	model       ai.TextGenerator
	enricher    PlanEnricher
	trips       TripCreator
	preferences PreferenceSource
	quota       Quota
	metrics     *observability.PipelineMetrics
	tracer      trace.Tracer
	log         *zap.Logger
	currency    string
	now         func() time.Time
}

type Option func(*Generator)

func WithPreferences(p PreferenceSource) Option { return func(g *Generator) { g.preferences = p } }
func WithQuota(q Quota) Option                  { return func(g *Generator) { g.quota = q } }
func WithMetrics(m *observability.PipelineMetrics) Option {
	return func(g *Generator) { g.metrics = m }
}
func WithLogger(log *zap.Logger) Option { return func(g *Generator) { g.log = log } }

// WithCurrency sets the currency used when a request names none.
func WithCurrency(code string) Option { return func(g *Generator) { g.currency = code } }
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func NewGenerator(model ai.TextGenerator, enricher PlanEnricher, trips TripCreator, opts ...Option) *Generator {
	g := &Generator{
		model:    model,
		enricher: enricher,
		trips:    trips,
		tracer:   observability.Tracer(),
		log:      zap.NewNop(),
		currency: types.DefaultCurrency,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate turns req into a saved trip. Errors wrap one of ErrInvalidRequest,
// ErrGenerationFailed, ErrMalformedOutput or ErrSaveFailed; quota errors are
// returned as the Quota reported them. Image enrichment never fails the run.
func (g *Generator) Generate(ctx context.Context, userID string, req TripRequest) (res *Result, err error) {
	ctx, span := g.tracer.Start(ctx, "planner.Generate", trace.WithAttributes(
		attribute.String("user.id", userID),
		attribute.String("trip.destination", req.Destination),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		g.metrics.Generation(ctx, outcome(err))
	}()

	req = req.WithDefaults(g.currency)
	if req.Preferences == nil && g.preferences != nil {
		saved, perr := g.preferences.Preferences(ctx, userID)
		if perr != nil {
			g.log.Warn("saved preferences unavailable", zap.String("uid", userID), zap.Error(perr))
		} else if !saved.IsZero() {
			saved = saved.Clean()
			req.Preferences = &saved
		}
	}

	var prompt string
	if err = g.stage(ctx, "prompt", func(context.Context) error {
		var berr error
		prompt, berr = BuildPrompt(req)
		return berr
	}); err != nil {
		return nil, err
	}

	if g.quota != nil {
		if err = g.quota.UseToken(ctx, userID); err != nil {
			return nil, err
		}
		defer func() {
			if err == nil {
				return
			}
			if rerr := g.quota.RefundToken(context.WithoutCancel(ctx), userID); rerr != nil {
				g.log.Warn("quota refund failed", zap.String("uid", userID), zap.Error(rerr))
			}
		}()
	}

	var raw string
	if err = g.stage(ctx, "invoke", func(ctx context.Context) error {
		var gerr error
		raw, gerr = g.model.Generate(ctx, prompt)
		if gerr != nil {
			return fmt.Errorf("%w: %w", ErrGenerationFailed, gerr)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	var plan *GeneratedPlan
	if err = g.stage(ctx, "extract", func(context.Context) error {
		var perr error
		plan, perr = ParsePlan(raw)
		return perr
	}); err != nil {
		g.log.Warn("unparseable model output", zap.String("uid", userID), zap.Int("bytes", len(raw)), zap.Error(err))
		return nil, err
	}
	if plan.Destination == "" {
		plan.Destination = req.Destination
	}
	plan.Travelers = Number(req.TravelerCount)

	_ = g.stage(ctx, "enrich", func(ctx context.Context) error {
		g.enricher.Enrich(ctx, plan, req.Destination)
		return nil
	})

	var saved *trip.Trip
	if err = g.stage(ctx, "persist", func(ctx context.Context) error {
		t := Normalize(plan, userID, req, g.now())
		var serr error
		saved, serr = g.trips.Create(ctx, t)
		if serr != nil {
			return fmt.Errorf("%w: %w", ErrSaveFailed, serr)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	for i := range plan.Accommodation {
		if i < len(saved.Accommodation) {
			plan.Accommodation[i].Image = saved.Accommodation[i].Image
		}
	}
	g.log.Info("trip generated",
		zap.String("uid", userID),
		zap.String("trip_id", saved.ID),
		zap.String("destination", saved.Destination),
		zap.Int("days", len(saved.Itinerary)),
	)
	return &Result{ID: saved.ID, Status: saved.Status, Plan: plan, Trip: saved}, nil
}

// stage runs fn in a child span and records its duration.
func (g *Generator) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := g.tracer.Start(ctx, "planner."+name)
	defer span.End()
	start := time.Now()
	err := fn(ctx)
	g.metrics.Stage(ctx, name, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrGenerationFailed):
		return "generation_failed"
	case errors.Is(err, ErrMalformedOutput):
		return "malformed_output"
	case errors.Is(err, ErrSaveFailed):
		return "save_failed"
	default:
		return "rejected"
	}
}
