package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/pkg/httpx"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
)

const recordsPath = "/api/v1/records"

// Secondary talks to the record service over HTTP. Timeouts come from the
// caller's context; the client itself has none.
type Secondary struct {
	baseURL string
	client  *http.Client
	log     *logger.Logger
}

func NewSecondary(baseURL string, client *http.Client, baseLog *logger.Logger) *Secondary {
	if client == nil {
		client = &http.Client{}
	}
	return &Secondary{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  client,
		log:     baseLog.With("tier", string(TierSecondary)),
	}
}

func (s *Secondary) Name() TierID { return TierSecondary }

type putResponse struct {
	ID   uuid.UUID `json:"id"`
	Tier TierID    `json:"tier"`
}

type getResponse struct {
	Records []*Record `json:"records"`
}

// errorResponse reads the {"error":"msg"} body the record service sends.
type errorResponse struct {
	Error json.RawMessage `json:"error"`
}

func (s *Secondary) Put(ctx context.Context, rec *Record) (Outcome, error) {
	const op = "storage.secondary.put"
	if err := rec.Validate(); err != nil {
		return Outcome{}, err
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return Outcome{}, types.Rejected(op, "record is not serializable: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+recordsPath, bytes.NewReader(body))
	if err != nil {
		return Outcome{}, types.Unavailable(op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out putResponse
	if err := s.do(op, req, &out); err != nil {
		return Outcome{}, err
	}
	if out.ID != uuid.Nil {
		rec.ID = out.ID
	}
	rec.withTier(TierSecondary)
	return Outcome{Accepted: true, Tier: TierSecondary, RecordID: rec.ID}, nil
}

func (s *Secondary) Get(ctx context.Context, f Filter) ([]*Record, error) {
	const op = "storage.secondary.get"
	q := url.Values{}
	q.Set("kind", string(f.Kind))
	if f.LearnerID != uuid.Nil {
		q.Set("learner_id", f.LearnerID.String())
	}
	if f.DataType != "" {
		q.Set("data_type", f.DataType)
	}
	if f.PhaseID != "" {
		q.Set("phase_id", f.PhaseID)
	}
	if f.EnrollmentID != uuid.Nil {
		q.Set("enrollment_id", f.EnrollmentID.String())
	}
	if f.Key != "" {
		q.Set("key", f.Key)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+recordsPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, types.Unavailable(op, err)
	}

	var out getResponse
	if err := s.do(op, req, &out); err != nil {
		return nil, err
	}
	if out.Records == nil {
		return []*Record{}, nil
	}
	for _, r := range out.Records {
		r.Tier = TierSecondary
	}
	return out.Records, nil
}

// do classifies failures: transport errors are tier_unavailable and statuses
// go through httpx.Classify.
func (s *Secondary) do(op string, req *http.Request, dst any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return types.Unavailable(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return types.Unavailable(op, err)
	}

	if resp.StatusCode >= 300 {
		return httpx.Classify(op, resp.StatusCode, errorMessage(raw))
	}
	if dst == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return types.Unavailable(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func errorMessage(raw []byte) string {
	var e errorResponse
	if json.Unmarshal(raw, &e) == nil && len(e.Error) > 0 {
		var msg string
		if json.Unmarshal(e.Error, &msg) == nil && msg != "" {
			return msg
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 256 {
		msg = msg[:256]
	}
	return msg
}
