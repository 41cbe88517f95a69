package observability

import (
	"context"
	"math"
	"testing"

	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

func TestLoadTracingConfigExporter(t *testing.T) {
	log := logger.Nop()

	t.Setenv("OTEL_TRACES_EXPORTER", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	if got := LoadTracingConfig("solbot-api", log).Exporter; got != ExporterStdout {
		t.Fatalf("no endpoint: exporter = %q", got)
	}

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	if got := LoadTracingConfig("solbot-api", log).Exporter; got != ExporterOTLP {
		t.Fatalf("endpoint set: exporter = %q", got)
	}

	t.Setenv("OTEL_TRACES_EXPORTER", "NONE")
	cfg := LoadTracingConfig("solbot-api", log)
	if cfg.Exporter != ExporterNone {
		t.Fatalf("explicit none: exporter = %q", cfg.Exporter)
	}
	if cfg.ServiceName != "solbot-api" {
		t.Fatalf("service name = %q", cfg.ServiceName)
	}
}

func TestClampRatio(t *testing.T) {
	cases := map[float64]float64{-1: 0, 0.25: 0.25, 3: 1, math.NaN(): 0}
	for in, want := range cases {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestParseHeaders(t *testing.T) {
	h := parseHeaders(" api-key = abc , broken, =x, tenant=solbot")
	if len(h) != 2 || h["api-key"] != "abc" || h["tenant"] != "solbot" {
		t.Fatalf("unexpected headers %+v", h)
	}
	if parseHeaders("") != nil {
		t.Fatalf("empty input should give nil")
	}
}

func TestInitTracingDisabledIsNoop(t *testing.T) {
	shutdown := InitTracing(context.Background(), logger.Nop(), TracingConfig{Enabled: false})
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
