package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/solbot-backend/internal/data/repos"
	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/pkg/keymutex"
	"github.com/yungbote/solbot-backend/internal/platform/logger"
	"github.com/yungbote/solbot-backend/internal/storage"
)

var errProfileStoreDisabled = errors.New("profile store disabled")

type ProfileInput struct {
	Email          string
	FullName       *string
	EducationLevel *string
	Background     *string
	Preferences    json.RawMessage
}

type ProfileService interface {
	Upsert(ctx context.Context, in ProfileInput) (*types.Learner, error)
	GetByEmail(ctx context.Context, email string) (*types.Learner, error)
}

type profileService struct {
	learners repos.LearnerRepo
	atomic   bool
	locks    *keymutex.KeyMutex
	now      func() time.Time
	log      *logger.Logger
}

// NewProfileService writes through the primary store only. With atomic set
// the upsert is one INSERT .. ON CONFLICT statement; otherwise it is a lookup
// followed by a create or update, serialized per email in this process.
func NewProfileService(learners repos.LearnerRepo, atomic bool, log *logger.Logger) ProfileService {
	return &profileService{
		learners: learners,
		atomic:   atomic,
		locks:    keymutex.New(),
		now:      func() time.Time { return time.Now().UTC() },
		log:      log.With("service", "ProfileService"),
	}
}

func (s *profileService) Upsert(ctx context.Context, in ProfileInput) (*types.Learner, error) {
	const op = "services.profile.upsert"
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, types.Rejected(op, "email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, types.Rejected(op, "email %q is not an address", email)
	}
	if s.learners == nil {
		return nil, types.Unavailable(op, errProfileStoreDisabled)
	}
	prefs, err := preferencesJSON(in.Preferences)
	if err != nil {
		return nil, types.Rejected(op, "preferences must be JSON")
	}
	now := s.now()
	row := &types.Learner{
		Email:          email,
		FullName:       blankToNil(in.FullName),
		EducationLevel: blankToNil(in.EducationLevel),
		Background:     blankToNil(in.Background),
		Preferences:    prefs,
		LastSeenAt:     &now,
	}

	if s.atomic {
		stored, err := s.learners.Upsert(ctx, nil, row)
		if err != nil {
			return nil, storage.MapError(op, err)
		}
		s.log.Info("profile upserted", "learner_id", stored.ID.String())
		return stored, nil
	}

	unlock := s.locks.Lock(email)
	defer unlock()

	existing, err := s.learners.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, storage.MapError(op, err)
	}
	if existing == nil {
		created, err := s.learners.Create(ctx, nil, []*types.Learner{row})
		if err != nil {
			// another process won the race for this email
			return nil, storage.MapError(op, err)
		}
		s.log.Info("profile created", "learner_id", created[0].ID.String())
		return created[0], nil
	}
	if err := s.learners.UpdateProfile(ctx, nil, existing.ID, row); err != nil {
		return nil, storage.MapError(op, err)
	}
	updated, err := s.learners.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, storage.MapError(op, err)
	}
	if updated == nil {
		return nil, types.NewError(types.CodeDataIntegrity, op, "learner vanished during update", nil)
	}
	s.log.Info("profile updated", "learner_id", existing.ID.String())
	return updated, nil
}

func (s *profileService) GetByEmail(ctx context.Context, email string) (*types.Learner, error) {
	const op = "services.profile.get"
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, types.Rejected(op, "email is required")
	}
	if s.learners == nil {
		return nil, types.Unavailable(op, errProfileStoreDisabled)
	}
	l, err := s.learners.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, storage.MapError(op, err)
	}
	if l == nil {
		return nil, types.NewError(types.CodeNotFound, op, "learner not found", nil)
	}
	now := s.now()
	if err := s.learners.TouchLastSeen(ctx, nil, l.ID, now); err != nil {
		s.log.Warn("last_seen_at refresh failed", "learner_id", l.ID.String(), "error", err)
	} else {
		l.LastSeenAt = &now
	}
	return l, nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func preferencesJSON(raw json.RawMessage) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		return nil, errors.New("invalid json")
	}
	return datatypes.JSON(trimmed), nil
}
