package observability

import (
	"bytes"
	"database/sql"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/api/scores", "200", 30*time.Millisecond)
	m.TierWrite("primary", "assessment", "ok")
	m.TierWrite("primary", "assessment", "ok")
	m.SecondaryAttempt("telemetry", "tier_unavailable")
	m.EphemeralSize(4)

	if got := m.tierWrites.Value("primary", "assessment", "ok"); got != 2 {
		t.Fatalf("tier writes = %v, want 2", got)
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`solbot_storage_writes_total{tier="primary",kind="assessment",outcome="ok"} 2`,
		`solbot_storage_secondary_attempts_total{kind="telemetry",outcome="tier_unavailable"} 1`,
		`solbot_storage_ephemeral_records 4`,
		`solbot_api_request_duration_seconds_bucket{method="POST",route="/api/scores",status="200",le="0.05"} 1`,
		`solbot_api_request_duration_seconds_count{method="POST",route="/api/scores",status="200"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.TierRead("primary", "telemetry", "ok")
	m.APIInflightInc()

	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 503 {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"a", "b"}, []string{`x"y`})
	if got != `{a="x\"y",b="unknown"}` {
		t.Fatalf("labelString = %s", got)
	}
	if withLe("", "1") != `{le="1"}` {
		t.Fatalf("withLe empty labels")
	}
}

func TestRecordDBStatsLabelsDriver(t *testing.T) {
	m := NewMetrics()
	m.RecordDBStats("sqlite", sql.DBStats{OpenConnections: 1, MaxOpenConnections: 1})
	m.RecordDBStats("postgres", sql.DBStats{OpenConnections: 7, InUse: 3})

	if got := m.dbStats.Value("sqlite", "open_connections"); got != 1 {
		t.Fatalf("sqlite open = %v", got)
	}
	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	for _, want := range []string{
		`solbot_db_pool_stats{driver="sqlite",metric="max_open_connections"} 1`,
		`solbot_db_pool_stats{driver="postgres",metric="in_use"} 3`,
	} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("missing %q in:\n%s", want, buf.String())
		}
	}
	var nilMetrics *Metrics
	nilMetrics.RecordDBStats("sqlite", sql.DBStats{})
}
