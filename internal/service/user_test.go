package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"star-admin-api/internal/cache"
	"star-admin-api/internal/model"
	"star-admin-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeUserRepo struct {
	repository.UserRepository

	byType   map[string]int64
	byStatus map[bool]int64
	created  []time.Time
	countErr error
	calls    atomic.Int32
}

func (r *fakeUserRepo) CountByType(ctx context.Context, userType string) (int64, error) {
	r.calls.Add(1)
	return r.byType[userType], r.countErr
}

func (r *fakeUserRepo) CountByStatus(ctx context.Context, active bool) (int64, error) {
	r.calls.Add(1)
	return r.byStatus[active], nil
}

func (r *fakeUserRepo) CreatedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, t := range r.created {
		if !t.Before(from) && t.Before(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ToggleStatus(ctx context.Context, id int64) (*model.User, error) {
	if id != 1 {
		return nil, repository.ErrNotFound
	}
	return &model.User{ID: 1, Name: "Ann"}, nil
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byType:   map[string]int64{model.UserTypeUser: 1500, model.UserTypeStar: 12},
		byStatus: map[bool]int64{true: 1400, false: 112},
	}
}

func TestUserService_Counts(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil, 0, zap.NewNop())

	counts, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &UserCounts{
		TotalUsers:   "1.5k",
		TotalStars:   "12",
		ActiveUsers:  "1.4k",
		BlockedUsers: "112",
	}, counts)
	assert.EqualValues(t, 4, repo.calls.Load())

	repo.countErr = errors.New("db down")
	_, err = svc.Counts(context.Background())
	assert.Error(t, err)
}

func TestUserService_CountsCached(t *testing.T) {
	repo := newFakeUserRepo()
	stats := cache.NewMemoryCache()
	defer stats.Close()
	svc := NewUserService(repo, stats, time.Minute, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Counts(ctx)
	require.NoError(t, err)
	second, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 4, repo.calls.Load())

	_, err = svc.ToggleStatus(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 8, repo.calls.Load(), "toggle invalidates the cached counts")
}

// brokenCache fails every call, as a Redis cache does during an outage.
type brokenCache struct{}

var errCacheDown = errors.New("connection refused")

func (brokenCache) Get(ctx context.Context, key string) ([]byte, error) { return nil, errCacheDown }

func (brokenCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errCacheDown
}

func (brokenCache) Delete(ctx context.Context, key string) error { return errCacheDown }

func (brokenCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fn func() ([]byte, error)) ([]byte, error) {
	return fn()
}

func TestUserService_ToggleStatusLogsFailedInvalidation(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := NewUserService(newFakeUserRepo(), brokenCache{}, time.Minute, zap.New(core))

	u, err := svc.ToggleStatus(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	entries := logs.FilterMessage("failed to invalidate user counts").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "connection refused", entries[0].ContextMap()["error"])
}

func TestUserService_ToggleStatusNotFound(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil, 0, zap.NewNop())
	_, err := svc.ToggleStatus(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_SignupsByYear(t *testing.T) {
	repo := newFakeUserRepo()
	repo.created = []time.Time{
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	svc := NewUserService(repo, nil, 0, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	got, err := svc.SignupsByYear(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, "3", got.TotalSignups)
	assert.Equal(t, 2024, got.Year)
	assert.Len(t, got.Months, 12)
	assert.Equal(t, "{2}", got.Months["January"])
	assert.Equal(t, "{0}", got.Months["June"])
	assert.Equal(t, "{1}", got.Months["December"])

	for _, year := range []int{1899, 2026} {
		_, err := svc.SignupsByYear(context.Background(), year)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Invalid year provided.", verr.Message)
	}
}

func TestUserService_ListAgainstSQLite(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, u := range []struct {
		name, kind string
	}{{"Ann", model.UserTypeUser}, {"Cy", model.UserTypeStar}} {
		_, err := db.ExecContext(ctx,
			`INSERT INTO users (name, user_type, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			u.name, u.kind, true, now, now)
		require.NoError(t, err)
	}

	svc := NewUserService(repository.NewSQLUserRepository(db), nil, 0, zap.NewNop())

	page, err := svc.List(ctx, model.UserTypeStar, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page.Number)
	assert.EqualValues(t, 1, page.TotalRecords)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "Cy", page.Users[0].Name)
}
