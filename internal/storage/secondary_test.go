package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/solbot-backend/internal/data/repos/testutil"
	types "github.com/yungbote/solbot-backend/internal/domain"
)

func TestSecondaryClassifiesStatuses(t *testing.T) {
	cases := []struct {
		status int
		want   types.ErrorCode
	}{
		{http.StatusServiceUnavailable, types.CodeTierUnavailable},
		{http.StatusTooManyRequests, types.CodeTierUnavailable},
		{http.StatusBadRequest, types.CodeValidationRejected},
		{http.StatusUnprocessableEntity, types.CodeValidationRejected},
		{http.StatusNotFound, types.CodeTierUnavailable},
		{http.StatusConflict, types.CodeConflictOnCreate},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"error":"nope"}`))
		}))
		sec := NewSecondary(srv.URL, srv.Client(), testutil.Logger(t))
		_, err := sec.Put(context.Background(), telemetryRecord(uuid.New(), "goal", `1`))
		srv.Close()
		if got := types.CodeOf(err); got != tc.want {
			t.Fatalf("status %d: got=%q want=%q (%v)", tc.status, got, tc.want, err)
		}
	}
}

func TestSecondaryUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	sec := NewSecondary(url, nil, testutil.Logger(t))
	_, err := sec.Put(context.Background(), telemetryRecord(uuid.New(), "goal", `1`))
	if !types.IsCode(err, types.CodeTierUnavailable) {
		t.Fatalf("expected tier_unavailable, got %v", err)
	}
	if _, err := sec.Get(context.Background(), Filter{Kind: KindTelemetry}); !types.IsCode(err, types.CodeTierUnavailable) {
		t.Fatalf("expected tier_unavailable on get, got %v", err)
	}
}

func TestSecondaryRoundTrip(t *testing.T) {
	learnerID := uuid.New()
	var puts atomic.Int32
	var (
		mu     sync.Mutex
		stored *Record
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != recordsPath {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			puts.Add(1)
			var rec Record
			if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			mu.Lock()
			stored = &rec
			mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(putResponse{ID: rec.ID, Tier: TierSecondary})
		case http.MethodGet:
			q := r.URL.Query()
			if q.Get("kind") != "telemetry" || q.Get("learner_id") != learnerID.String() || q.Get("data_type") != "goal" {
				_ = json.NewEncoder(w).Encode(getResponse{})
				return
			}
			mu.Lock()
			defer mu.Unlock()
			_ = json.NewEncoder(w).Encode(getResponse{Records: []*Record{stored}})
		}
	}))
	defer srv.Close()

	sec := NewSecondary(srv.URL+"/", srv.Client(), testutil.Logger(t))
	rec := telemetryRecord(learnerID, "goal", `{"text":"x"}`)
	out, err := sec.Put(context.Background(), rec)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if out.Tier != TierSecondary || out.RecordID != rec.ID || puts.Load() != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if rec.Telemetry.StorageTier != string(TierSecondary) {
		t.Fatalf("storage tier not stamped: %q", rec.Telemetry.StorageTier)
	}

	got, err := sec.Get(context.Background(), Filter{Kind: KindTelemetry, LearnerID: learnerID, DataType: "goal"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 1 || got[0].ID != rec.ID || string(got[0].Telemetry.Value) != `{"text":"x"}` {
		t.Fatalf("unexpected records %+v", got)
	}

	empty, err := sec.Get(context.Background(), Filter{Kind: KindAssessment, LearnerID: learnerID})
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %+v err=%v", empty, err)
	}
}

func TestErrorMessageShapes(t *testing.T) {
	cases := map[string]string{
		`{"error":"nope"}`: "nope",
		`{"success":false,"error":"bad kind","code":"validation_rejected"}`: "bad kind",
		`{"error":{"nested":true}}`: `{"error":{"nested":true}}`,
		`upstream exploded`: "upstream exploded",
	}
	for raw, want := range cases {
		if got := errorMessage([]byte(raw)); got != want {
			t.Fatalf("errorMessage(%s) = %q, want %q", raw, got, want)
		}
	}
}
