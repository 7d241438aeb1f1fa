// README: OpenTelemetry tracer/meter providers, Prometheus exporter and metrics endpoint.
package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Options struct {
	ServiceName  string
	MetricsAddr  string
	OTLPEndpoint string
}

// Init installs global tracer and meter providers and starts the /metrics
// server. The returned function shuts all of them down.
func Init(ctx context.Context, opts Options, log *zap.Logger) (func(context.Context) error, error) {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(opts.ServiceName),
	)

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if opts.OTLPEndpoint != "" {
		exporter, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(opts.OTLPEndpoint),
		)
		if err != nil {
			log.Warn("otlp trace exporter unavailable, spans stay local", zap.Error(err))
		} else {
			tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
		}
	}
	tp := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)

	promExporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(promExporter),
	)
	otel.SetMeterProvider(mp)

	var metricsServer *http.Server
	if opts.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{Addr: opts.MetricsAddr, Handler: mux}
		go func() {
			log.Info("metrics server listening", zap.String("addr", opts.MetricsAddr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", zap.Error(err))
			}
		}()
	}

	shutdown := func(ctx context.Context) error {
		var errs error
		if metricsServer != nil {
			if err := metricsServer.Shutdown(ctx); err != nil {
				errs = errors.Join(errs, fmt.Errorf("metrics server shutdown: %w", err))
			}
		}
		if err := mp.Shutdown(ctx); err != nil {
			errs = errors.Join(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
		if err := tp.Shutdown(ctx); err != nil {
			errs = errors.Join(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
		return errs
	}
	return shutdown, nil
}

// Tracer returns the service tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(meterName)
}
