package observability

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/yungbote/solbot-backend/internal/platform/envutil"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

// Exporter kinds for OTEL_TRACES_EXPORTER.
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Environment string
	Version     string
	Exporter    string
	Endpoint    string
	Headers     map[string]string
	Insecure    bool
	SampleRatio float64
}

// LoadTracingConfig reads the OTEL_* variables. Without an explicit exporter,
// an OTLP endpoint selects otlp and its absence selects stdout.
func LoadTracingConfig(serviceName string, log *logger.Logger) TracingConfig {
	cfg := TracingConfig{
		Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
		ServiceName: strings.TrimSpace(envutil.String("OTEL_SERVICE_NAME", serviceName, log)),
		Environment: envutil.String("APP_ENV", "development", log),
		Version:     envutil.String("APP_VERSION", "dev", log),
		Exporter:    strings.ToLower(strings.TrimSpace(envutil.String("OTEL_TRACES_EXPORTER", "", log))),
		Endpoint:    strings.TrimSpace(envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log)),
		Headers:     parseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
		Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
		SampleRatio: clampRatio(envutil.Float("OTEL_SAMPLER_RATIO", 0.1, log)),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "solbot"
	}
	switch cfg.Exporter {
	case ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		if cfg.Exporter != "" {
			log.Warn("unknown OTEL_TRACES_EXPORTER, picking from endpoint", "value", cfg.Exporter)
		}
		cfg.Exporter = ExporterStdout
		if cfg.Endpoint != "" {
			cfg.Exporter = ExporterOTLP
		}
	}
	return cfg
}

func clampRatio(r float64) float64 {
	switch {
	case r != r || r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}

var (
	otelOnce     sync.Once
	otelShutdown = func(context.Context) error { return nil }
)

// InitTracing installs the global tracer provider once. Disabled tracing keeps
// the otel no-op provider; the storage gateway and otelgin spans then cost
// nothing.
func InitTracing(ctx context.Context, log *logger.Logger, cfg TracingConfig) func(context.Context) error {
	otelOnce.Do(func() {
		if !cfg.Enabled {
			return
		}
		tracingLog := log.With("component", "tracing")
		res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.Version),
			attribute.String("deployment.environment", cfg.Environment),
		))
		if err != nil {
			tracingLog.Warn("resource merge failed, using defaults", "error", err)
			res = resource.Default()
		}

		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
			sdktrace.WithResource(res),
		}
		exporter, err := newSpanExporter(ctx, cfg)
		switch {
		case err != nil:
			tracingLog.Warn("span exporter unavailable, spans are dropped", "exporter", cfg.Exporter, "error", err)
		case exporter != nil:
			opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
		}
		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		otelShutdown = tp.Shutdown
		tracingLog.Info("tracing enabled", "service", cfg.ServiceName, "exporter", cfg.Exporter, "ratio", cfg.SampleRatio)
	})
	return otelShutdown
}

// newSpanExporter returns nil, nil for ExporterNone.
func newSpanExporter(ctx context.Context, cfg TracingConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterNone:
		return nil, nil
	case ExporterStdout:
		return stdouttrace.New()
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}
	return otlptracehttp.New(ctx, opts...)
}

// parseHeaders reads "k1=v1,k2=v2".
func parseHeaders(raw string) map[string]string {
	var headers map[string]string
	for _, part := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(part, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			continue
		}
		if headers == nil {
			headers = map[string]string{}
		}
		headers[k] = v
	}
	return headers
}
