// README: Entry point; loads config, wires stores, the trip generation pipeline and the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"voyager/internal/ai"
	"voyager/internal/config"
	httptransport "voyager/internal/http"
	"voyager/internal/imagesearch"
	"voyager/internal/infra"
	"voyager/internal/logger"
	"voyager/internal/modules/aiusage"
	"voyager/internal/modules/trip"
	"voyager/internal/modules/user"
	"voyager/internal/observability"
	"voyager/internal/planner"
	"voyager/internal/retry"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	lg, err := logger.New(cfg.Env, cfg.LogLevel, zap.String("service", cfg.Telemetry.ServiceName))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("voyager-api stopped", zap.Error(err))
	}
}

func run(cfg config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Init(ctx, observability.Options{
		ServiceName:  cfg.Telemetry.ServiceName,
		MetricsAddr:  cfg.Telemetry.MetricsAddr,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
	}, lg)
	if err != nil {
		return fmt.Errorf("telemetry init: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			lg.Warn("telemetry shutdown", zap.Error(err))
		}
	}()
	metrics, err := observability.NewPipelineMetrics()
	if err != nil {
		return fmt.Errorf("pipeline metrics: %w", err)
	}

	app, err := infra.NewFirebaseApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		return err
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, app)
	if err != nil {
		return err
	}

	if cfg.DB.RunMigrations {
		if err := infra.RunMigrations(cfg.DB.DSN, lg); err != nil {
			return err
		}
	}
	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	if err := infra.WaitForDB(ctx, dbPool, lg, 10); err != nil {
		return err
	}

	var tripStore trip.Store
	switch cfg.TripStore {
	case "firestore":
		fs, err := infra.NewFirestore(ctx, app)
		if err != nil {
			return err
		}
		defer fs.Close()
		tripStore = trip.NewFirestoreStore(fs)
	case "memory":
		lg.Warn("trips are kept in memory and vanish on restart")
		tripStore = trip.NewMemoryStore()
	default:
		tripStore = trip.NewPGStore(dbPool)
	}
	tripSvc := trip.NewService(tripStore)
	userSvc := user.NewService(user.NewStore(dbPool))
	usageSvc := aiusage.NewService(aiusage.NewStore(dbPool, cfg.AI.MonthlyTokens))

	images, closeImages, err := newImageSearcher(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeImages()

	gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, ai.GeminiOptions{
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		JSONMode:    true,
	})
	if err != nil {
		return err
	}
	defer gemini.Close()

	policy := retry.Default
	policy.MaxAttempts = cfg.AI.MaxAttempts
	policy.AttemptTimeout = cfg.AI.AttemptTimeout
	model := ai.NewRetryingGenerator(gemini, policy, lg.Named("ai"))

	enricher := planner.NewEnricher(images,
		planner.WithDeadline(cfg.Images.EnrichTimeout),
		planner.WithConcurrency(cfg.Images.Concurrency),
		planner.WithEnricherLogger(lg.Named("enrich")),
		planner.WithEnricherMetrics(metrics),
	)
	generator := planner.NewGenerator(model, enricher, tripSvc,
		planner.WithPreferences(userSvc),
		planner.WithQuota(usageSvc),
		planner.WithMetrics(metrics),
		planner.WithLogger(lg.Named("planner")),
		planner.WithCurrency(cfg.Currency),
	)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httptransport.NewRouter(httptransport.RouterDeps{
		Log:         lg.Named("http"),
		ServiceName: cfg.Telemetry.ServiceName,
		Verifier:    verifier,
		Trips:       tripSvc,
		Users:       userSvc,
		Quota:       usageSvc,
		Planner:     generator,
		// Every attempt plus the image fan-out, with room to spare.
		GenerateTimeout: time.Duration(cfg.AI.MaxAttempts)*cfg.AI.AttemptTimeout + cfg.Images.EnrichTimeout + 10*time.Second,
	})

	return httptransport.Run(ctx, httptransport.NewServer(cfg.HTTP, router), lg)
}

// newImageSearcher builds provider -> rate limit -> cache, outermost last.
func newImageSearcher(ctx context.Context, cfg config.Config, lg *zap.Logger) (imagesearch.Searcher, func(), error) {
	var provider imagesearch.Searcher
	switch cfg.Images.Provider {
	case "places":
		p, err := imagesearch.NewPlaces(cfg.Images.MapsKey)
		if err != nil {
			return nil, nil, err
		}
		provider = p
	default:
		provider = imagesearch.NewUnsplash(cfg.Images.UnsplashBaseURL, cfg.Images.UnsplashKey)
	}
	limited := imagesearch.NewLimited(provider, cfg.Images.RequestsPerSecond, cfg.Images.Burst)

	if cfg.Redis.Addr == "" {
		lg.Info("image cache in process")
		return imagesearch.NewCached(limited, imagesearch.NewMemoryCache(cfg.Redis.ImageTTL), cfg.Redis.ImageTTL, lg.Named("images")), func() {}, nil
	}
	rc, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	cached := imagesearch.NewCached(limited, imagesearch.NewRedisCache(rc), cfg.Redis.ImageTTL, lg.Named("images"))
	return cached, func() { _ = rc.Close() }, nil
}
