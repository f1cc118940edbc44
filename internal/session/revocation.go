package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RevocationStore remembers revoked tokens until a deadline.
type RevocationStore interface {
	// Revoke records token as revoked until the given time. Revoking a
	// token that is already tracked must not move its deadline.
	Revoke(ctx context.Context, token string, until time.Time) error

	// IsRevoked reports whether token is tracked and its deadline has not passed.
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// MemoryRevocationStore keeps revocations in process memory.
// It is only correct for a single-process deployment and loses every entry
// on restart.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
	logger  *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
	started  bool
}

// NewMemoryRevocationStore returns an empty store. Call Start to enable the
// background sweep; lookups ignore expired entries either way.
func NewMemoryRevocationStore(logger *zap.Logger) *MemoryRevocationStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryRevocationStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
		logger:  logger,
		stop:    make(chan struct{}),
	}
}

// SetClock replaces the store's time source.
func (s *MemoryRevocationStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Revoke records token until the given time.
func (s *MemoryRevocationStore) Revoke(ctx context.Context, token string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if deadline, ok := s.entries[token]; ok && s.now().Before(deadline) {
		return nil
	}
	s.entries[token] = until
	return nil
}

// IsRevoked treats entries past their deadline as absent.
func (s *MemoryRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deadline, ok := s.entries[token]
	if !ok {
		return false, nil
	}
	return s.now().Before(deadline), nil
}

// Len returns the number of tracked entries, expired or not.
func (s *MemoryRevocationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep drops expired entries and returns how many were removed.
func (s *MemoryRevocationStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, deadline := range s.entries {
		if !now.Before(deadline) {
			delete(s.entries, token)
			removed++
		}
	}
	return removed
}

// Start runs Sweep every interval until Close is called.
func (s *MemoryRevocationStore) Start(interval time.Duration) {
	s.mu.Lock()
	if s.started || interval <= 0 {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if removed := s.Sweep(); removed > 0 {
					s.logger.Debug("swept revoked tokens", zap.Int("removed", removed))
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Close stops the background sweep.
func (s *MemoryRevocationStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

var _ RevocationStore = (*MemoryRevocationStore)(nil)
