package observability

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests      *CounterVec
	apiLatency       *HistogramVec
	apiInflight      *GaugeVec
	tierWrites       *CounterVec
	tierReads        *CounterVec
	secondaryAttempt *CounterVec
	ephemeralSize    *GaugeVec
	dbStats          *GaugeVec
	redisUp          *GaugeVec
	redisPing        *GaugeVec

	families []family
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init returns the process-wide Metrics, or nil when disabled. Every method
// is safe on a nil receiver.
func Init(enabled bool, log *logger.Logger) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		log.Info("Observability metrics enabled")
	})
	return instance
}

func Current() *Metrics { return instance }

func NewMetrics() *Metrics {
	m := &Metrics{
		apiRequests: NewCounterVec("solbot_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"solbot_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		),
		apiInflight:      NewGaugeVec("solbot_api_inflight_requests", "In-flight API requests.", nil),
		tierWrites:       NewCounterVec("solbot_storage_writes_total", "Storage tier write attempts by tier/kind/outcome.", []string{"tier", "kind", "outcome"}),
		tierReads:        NewCounterVec("solbot_storage_reads_total", "Storage tier read attempts by tier/kind/outcome.", []string{"tier", "kind", "outcome"}),
		secondaryAttempt: NewCounterVec("solbot_storage_secondary_attempts_total", "Secondary tier write attempts by kind/outcome.", []string{"kind", "outcome"}),
		ephemeralSize:    NewGaugeVec("solbot_storage_ephemeral_records", "Records held only in process memory.", nil),
		dbStats:          NewGaugeVec("solbot_db_pool_stats", "SQL connection pool stats by driver.", []string{"driver", "metric"}),
		redisUp:          NewGaugeVec("solbot_redis_up", "Redis connectivity (1=up, 0=down).", nil),
		redisPing:        NewGaugeVec("solbot_redis_ping_seconds", "Redis ping latency in seconds.", nil),
	}
	m.families = []family{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.tierWrites, m.tierReads, m.secondaryAttempt, m.ephemeralSize,
		m.dbStats, m.redisUp, m.redisPing,
	}
	return m
}

func (m *Metrics) Handler() http.Handler { return http.HandlerFunc(m.WriteHTTP) }

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, f := range m.families {
		if err := f.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) APIInflightInc() {
	if m != nil {
		m.apiInflight.Add(1)
	}
}

func (m *Metrics) APIInflightDec() {
	if m != nil {
		m.apiInflight.Add(-1)
	}
}

// TierWrite, TierRead, SecondaryAttempt and EphemeralSize satisfy
// storage.Recorder.
func (m *Metrics) TierWrite(tier, kind, outcome string) {
	if m != nil {
		m.tierWrites.Inc(tier, kind, outcome)
	}
}

func (m *Metrics) TierRead(tier, kind, outcome string) {
	if m != nil {
		m.tierReads.Inc(tier, kind, outcome)
	}
}

func (m *Metrics) SecondaryAttempt(kind, outcome string) {
	if m != nil {
		m.secondaryAttempt.Inc(kind, outcome)
	}
}

func (m *Metrics) EphemeralSize(n int) {
	if m != nil {
		m.ephemeralSize.Set(float64(n))
	}
}

// StartDBCollector samples the pool behind db every interval, labelled with
// driver ("postgres" for the API primary, "sqlite" for the record service).
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, driver string, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					log.Warn("metrics: db pool stats unavailable", "driver", driver, "error", err)
					continue
				}
				m.RecordDBStats(driver, sqlDB.Stats())
			}
		}
	}()
}

func (m *Metrics) RecordDBStats(driver string, stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbStats.Set(float64(stats.OpenConnections), driver, "open_connections")
	m.dbStats.Set(float64(stats.InUse), driver, "in_use")
	m.dbStats.Set(float64(stats.Idle), driver, "idle")
	m.dbStats.Set(float64(stats.WaitCount), driver, "wait_count")
	m.dbStats.Set(stats.WaitDuration.Seconds(), driver, "wait_duration_seconds")
	m.dbStats.Set(float64(stats.MaxOpenConnections), driver, "max_open_connections")
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb goredis.UniversalClient, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					log.Warn("metrics: redis ping failed", "error", err)
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
