package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/solbot-backend/internal/data/repos/testutil"
	types "github.com/yungbote/solbot-backend/internal/domain"
)

func TestProfileUpsert(t *testing.T) {
	for _, atomic := range []bool{true, false} {
		t.Run(map[bool]string{true: "atomic", false: "locked"}[atomic], func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			svc := NewProfileService(f.set.Learner, atomic, testutil.Logger(t))

			first, err := svc.Upsert(ctx, ProfileInput{
				Email:       "ana@example.org",
				FullName:    ptr("Ana"),
				Preferences: json.RawMessage(`{"theme":"dark"}`),
			})
			require.NoError(t, err)
			require.Equal(t, "Ana", *first.FullName)

			second, err := svc.Upsert(ctx, ProfileInput{
				Email:          "ana@example.org",
				FullName:       ptr("Ana B"),
				EducationLevel: ptr("college"),
			})
			require.NoError(t, err)
			require.Equal(t, first.ID, second.ID)

			got, err := svc.GetByEmail(ctx, "ana@example.org")
			require.NoError(t, err)
			require.Equal(t, "Ana B", *got.FullName)
			require.Equal(t, "college", *got.EducationLevel)
			require.NotNil(t, got.LastSeenAt)

			var n int64
			require.NoError(t, f.db.Model(&types.Learner{}).Count(&n).Error)
			require.EqualValues(t, 1, n)
		})
	}
}

func TestProfileUpsertKeepsOmittedFields(t *testing.T) {
	for _, atomic := range []bool{true, false} {
		t.Run(map[bool]string{true: "atomic", false: "locked"}[atomic], func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			svc := NewProfileService(f.set.Learner, atomic, testutil.Logger(t))

			_, err := svc.Upsert(ctx, ProfileInput{
				Email:       "ana@example.org",
				FullName:    ptr("Ana"),
				Background:  ptr("CS"),
				Preferences: json.RawMessage(`{"a":1}`),
			})
			require.NoError(t, err)

			returned, err := svc.Upsert(ctx, ProfileInput{
				Email:          "ana@example.org",
				EducationLevel: ptr("college"),
			})
			require.NoError(t, err)
			require.NotNil(t, returned.FullName)
			require.Equal(t, "Ana", *returned.FullName)

			got, err := svc.GetByEmail(ctx, "ana@example.org")
			require.NoError(t, err)
			require.NotNil(t, got.FullName)
			require.NotNil(t, got.Background)
			require.NotNil(t, got.EducationLevel)
			require.Equal(t, "Ana", *got.FullName)
			require.Equal(t, "CS", *got.Background)
			require.Equal(t, "college", *got.EducationLevel)
			require.JSONEq(t, `{"a":1}`, string(got.Preferences))
		})
	}
}

func TestProfileUpsertConcurrentSameEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewProfileService(f.set.Learner, false, testutil.Logger(t))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Upsert(ctx, ProfileInput{Email: "race@example.org", FullName: ptr("R")})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	var n int64
	require.NoError(t, f.db.Model(&types.Learner{}).Where("email = ?", "race@example.org").Count(&n).Error)
	require.EqualValues(t, 1, n)
}

func TestProfileErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewProfileService(f.set.Learner, true, testutil.Logger(t))

	_, err := svc.Upsert(ctx, ProfileInput{Email: " "})
	require.True(t, types.IsCode(err, types.CodeValidationRejected))
	_, err = svc.Upsert(ctx, ProfileInput{Email: "ana@example.org", Preferences: json.RawMessage(`{`)})
	require.True(t, types.IsCode(err, types.CodeValidationRejected))
	_, err = svc.GetByEmail(ctx, "ghost@example.org")
	require.True(t, types.IsCode(err, types.CodeNotFound))

	disabled := NewProfileService(nil, true, testutil.Logger(t))
	_, err = disabled.Upsert(ctx, ProfileInput{Email: "ana@example.org"})
	require.True(t, types.IsCode(err, types.CodeTierUnavailable))
}
