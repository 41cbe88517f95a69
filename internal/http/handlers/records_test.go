package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/solbot-backend/internal/data/db"
	"github.com/yungbote/solbot-backend/internal/data/repos/testutil"
	"github.com/yungbote/solbot-backend/internal/domain/learner"
	"github.com/yungbote/solbot-backend/internal/storage"
)

func newRecordService(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb, err := db.OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	rl := storage.NewRecordLog(gdb, testutil.Logger(t))
	require.NoError(t, rl.Migrate())

	h := NewRecordsHandler(rl)
	r := gin.New()
	r.POST("/api/v1/records", h.Put)
	r.GET("/api/v1/records", h.List)
	r.POST("/api/user-data/:learnerId", h.LegacyPut)
	r.GET("/api/user-data/:learnerId", h.LegacyList)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRecordServiceLegacyRoutes(t *testing.T) {
	r := newRecordService(t)

	rec := serve(r, http.MethodPost, "/api/user-data/user-ana", `{"data_type":"goal","value":"finish phase 1","metadata":{"src":"web"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var item map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.Equal(t, "user-ana", item["user_id"])
	require.Equal(t, "finish phase 1", item["value"])

	rec = serve(r, http.MethodGet, "/api/user-data/user-ana?data_type=goal", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "goal", list[0]["data_type"])
}

func TestRecordServiceEnvelopeRoutes(t *testing.T) {
	r := newRecordService(t)
	id, _ := learner.KeyFor("bo")

	rec := serve(r, http.MethodPost, "/api/v1/records",
		`{"kind":"telemetry","learner_id":"`+id.String()+`","data_type":"click","telemetry":{"learner_id":"`+id.String()+`","data_type":"click","value":{"n":1}}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(r, http.MethodGet, "/api/v1/records?kind=telemetry&learner_id="+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Records []*storage.Record `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Records, 1)
	require.Equal(t, storage.TierSecondary, out.Records[0].Tier)

	require.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/api/v1/records", "").Code)
	require.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/api/v1/records?kind=telemetry&learner_id=nope", "").Code)
	require.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/api/v1/records", `{"kind":"telemetry"}`).Code)
}
