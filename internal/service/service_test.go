package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"star-admin-api/internal/config"
	"star-admin-api/internal/mail"
	"star-admin-api/internal/repository"
	"star-admin-api/internal/session"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newTestDB(t *testing.T) *repository.DB {
	t.Helper()

	db, err := repository.Open(context.Background(), config.DatabaseConfig{
		Dialect: "sqlite",
		Path:    filepath.Join(t.TempDir(), "service.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, repository.Migrate(context.Background(), db))
	return db
}

type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func newTestAuthority(t *testing.T, now func() time.Time) *session.Authority {
	t.Helper()

	store := session.NewMemoryRevocationStore(zap.NewNop())
	store.SetClock(now)
	a, err := session.NewAuthority("test-secret", store, session.WithClock(now))
	require.NoError(t, err)
	return a
}
