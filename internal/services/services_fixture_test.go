package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/solbot-backend/internal/data/repos"
	"github.com/yungbote/solbot-backend/internal/data/repos/testutil"
	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/domain/learner"
	"github.com/yungbote/solbot-backend/internal/storage"
)

// failingKind wraps a tier and reports tier_unavailable for one record kind.
type failingKind struct {
	storage.Tier
	kind storage.Kind
}

func (f failingKind) Put(ctx context.Context, rec *storage.Record) (storage.Outcome, error) {
	if rec.Kind == f.kind {
		return storage.Outcome{}, types.Unavailable("test.put", context.DeadlineExceeded)
	}
	return f.Tier.Put(ctx, rec)
}

type fixture struct {
	db      *gorm.DB
	set     *repos.Set
	primary *storage.Primary
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := testutil.Logger(t)
	db := testutil.DB(t)
	set := repos.NewSet(db, log)
	return &fixture{db: db, set: set, primary: storage.NewPrimary(db, set, log)}
}

func (f *fixture) gateway(t *testing.T, primary storage.Tier) *storage.Gateway {
	t.Helper()
	log := testutil.Logger(t)
	return storage.NewGateway(primary, nil, storage.NewEphemeral(log), log)
}

// seedLearnerPhase creates learner rawID enrolled with progress on phaseID.
func (f *fixture) seedLearnerPhase(t *testing.T, rawID, phaseID string) (*types.Learner, *types.Enrollment, *types.PhaseProgress) {
	t.Helper()
	ctx := context.Background()
	id, err := learner.KeyFor(rawID)
	require.NoError(t, err)
	l := &types.Learner{ID: id, Email: rawID + "@example.org"}
	require.NoError(t, f.db.WithContext(ctx).Create(l).Error)
	e := testutil.SeedEnrollment(t, ctx, f.db, id, "course-1", time.Now().UTC())
	pp := testutil.SeedPhaseProgress(t, ctx, f.db, e.ID, phaseID)
	return l, e, pp
}

func ptr[T any](v T) *T { return &v }
